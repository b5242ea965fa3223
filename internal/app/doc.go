// Package app contains the command-line host of the document runtime. It
// owns the configuration, the logger, the block registry and the snapshot
// store, loads one document and drives it from a line-oriented command
// stream, decoupled from any specific entrypoint.
package app

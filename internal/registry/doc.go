// Package registry provides the central "glue" for the block system.
//
// The Registry maps each block kind to the handler that parses its body and
// renders it during a pass. The set of kinds is closed: modules may only
// register handlers for the kinds listed in Kinds, and ValidateRegistry
// fails unless every kind has a complete handler. This keeps document
// evaluation deterministic; a new kind is a change to this package, not a
// plugin.
package registry

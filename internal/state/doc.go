// Package state implements the per-document variable store.
//
// The Store is owned by exactly one document instance and is written only
// by `set`-family commands and form submissions. Reads never fail: any path
// that does not resolve yields null. Writes create missing intermediate
// containers and refuse to turn an existing scalar into a container.
//
// Persistence is a host policy. The store itself performs no I/O; the
// engine calls a Persister at the Loading and Closed lifecycle boundaries.
package state

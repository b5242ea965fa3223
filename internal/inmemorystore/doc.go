// Package inmemorystore provides an ephemeral, thread-safe, in-memory
// implementation of the state.Persister interface.
//
// # Purpose
//
// Keyed persistence saves a document's variable table when an instance
// closes and restores it when the next instance with the same document id
// loads. This store keeps those snapshots in process memory, which is what a
// host wants for tests, for single-session runs, and for hosts that manage
// several documents side by side without touching disk.
//
// # Concurrency Model
//
// Snapshots are kept in a sync.Map keyed by document id. Each id is
// independent, so concurrent instances of different documents never contend.
// Every Save and Load copies the snapshot, so callers can never alias the
// stored state.
//
// For durable state across processes use the filestore package.
package inmemorystore

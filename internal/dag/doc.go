// Package dag holds the dependency graph between state variables and the
// items of a document. Edges point from what is read to what reads it, so
// the transitive dependents of a changed variable are exactly the items
// that must be recomputed.
package dag

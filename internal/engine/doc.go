// Package engine runs a scanned document: it seeds state from `state`
// blocks, renders passes over the visible content and applies host events
// (form changes and submissions, navigation) one at a time.
//
// An Instance moves through Loading, Ready, Rendering and Closed. Every
// event triggers one render pass, which re-evaluates guards and
// interpolation against the current state and returns a fresh render tree.
// Passes never overlap; the instance serialises all calls.
//
// Rendering is incremental: a dependency graph between state variables and
// document items decides which items to recompute. The output is the same
// as a full recompute, which Options.FullRecompute forces.
package engine

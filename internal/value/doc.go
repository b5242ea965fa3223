// Package value defines the runtime's dynamic value model.
//
// A Value is a tagged union of null, bool, number, string and the two
// container variants, Object (string keys in insertion order) and Array.
// The zero Value is null. Containers are reference types: copying a Value
// that holds an Object or Array shares the container, and Clone must be used
// to obtain an independent copy.
//
// The package also owns variable paths (`$player.hp`, `$party[0]`,
// `$a['key']`), which are shared by the state store, the expression engine,
// the command grammar and text interpolation.
package value

// Package mapview composites a fixed-size map window into a grid.
//
// Tile references are opaque strings. The package never interprets them:
// a host-supplied Locator translates between tiles and offsets from the
// window centre, and an optional TerrainSource supplies base terrain. Layers
// are drawn in a fixed order: terrain, features, items, sprites (by
// ascending z, ties broken by position in $sprites) and finally overlays.
package mapview

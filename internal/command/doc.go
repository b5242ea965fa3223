// Package command implements the `set` command language: one command per
// line, executed strictly in order.
//
//	set $path <value>     # value: JSON literal, 'quoted', bare word or $ref
//	set $path = <value>
//	inc $path [amount]    # absent variables start at 0; amount defaults to 1
//	dec $path [amount]
//	toggle $path          # absent or non-boolean values count as false
//
// Blank lines and lines starting with '#' are ignored.
package command

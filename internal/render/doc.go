// Package render defines the render tree an engine pass hands to the host.
package render

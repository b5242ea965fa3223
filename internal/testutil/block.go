package testutil

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vk/mdrun/internal/document"
	"github.com/vk/mdrun/internal/registry"
)

// Block scans src with every block kind registered and returns the last
// block labelled kind. Earlier blocks may be used as context, such as the
// if block an else block needs.
func Block(t *testing.T, kind, src string) *document.Block {
	t.Helper()
	doc, err := document.Scan(context.Background(), src, document.Options{
		Filename: "test.md",
		IsBlock:  func(label string) bool { return registry.Kind(label).Valid() },
	})
	require.NoError(t, err)
	var found *document.Block
	for _, b := range doc.Blocks() {
		if b.Kind == kind {
			found = b
		}
	}
	require.NotNil(t, found, "no %s block in source", kind)
	return found
}

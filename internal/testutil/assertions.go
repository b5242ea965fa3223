package testutil

import (
	"strings"
	"testing"

	"github.com/hashicorp/hcl/v2"
	"github.com/stretchr/testify/require"
	"github.com/vk/mdrun/internal/render"
)

// RequireNoDiags fails the test if diags holds anything at all.
func RequireNoDiags(t *testing.T, diags hcl.Diagnostics) {
	t.Helper()
	require.Empty(t, diags, "unexpected diagnostics: %s", diags.Error())
}

// RequireDiag fails the test unless diags has an error whose summary or
// detail contains substr.
func RequireDiag(t *testing.T, diags hcl.Diagnostics, substr string) {
	t.Helper()
	require.True(t, diags.HasErrors(), "expected an error diagnostic")
	for _, d := range diags {
		if strings.Contains(d.Summary, substr) || strings.Contains(d.Detail, substr) {
			return
		}
	}
	require.Failf(t, "diagnostic not found", "no diagnostic mentions %q in %s", substr, diags.Error())
}

// RequireWarning fails the test unless the tree has a warning whose reason
// contains substr, and returns it.
func RequireWarning(t *testing.T, tree *render.Tree, substr string) *render.Warning {
	t.Helper()
	for _, w := range tree.Warnings() {
		if strings.Contains(w.Reason, substr) {
			return w
		}
	}
	require.Failf(t, "warning not found", "no warning mentions %q in:\n%s", substr, tree.Plain())
	return nil
}

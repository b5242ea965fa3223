package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_Full(t *testing.T) {
	t.Parallel()
	// --- Arrange ---
	src := `
log_level      = "debug"
log_format     = "json"
log_file       = "mdrun.log"
tier           = "sextant"
full_recompute = true

viewport {
  width  = 40
  height = 12
}

persistence {
  mode        = "keyed"
  dir         = "./.mdrun"
  document_id = "intro"
}

defaults {
  overwrite = true
}
`

	// --- Act ---
	f, err := Parse([]byte(src), "mdrun.hcl")

	// --- Assert ---
	require.NoError(t, err)
	assert.Equal(t, "debug", *f.LogLevel)
	assert.Equal(t, "json", *f.LogFormat)
	assert.Equal(t, "mdrun.log", *f.LogFile)
	assert.Equal(t, "sextant", *f.Tier)
	assert.True(t, *f.FullRecompute)
	require.NotNil(t, f.Viewport)
	assert.Equal(t, 40, *f.Viewport.Width)
	assert.Equal(t, 12, *f.Viewport.Height)
	require.NotNil(t, f.Persistence)
	assert.Equal(t, "keyed", *f.Persistence.Mode)
	assert.Equal(t, "./.mdrun", *f.Persistence.Dir)
	assert.Equal(t, "intro", *f.Persistence.DocumentID)
	require.NotNil(t, f.Defaults)
	assert.True(t, *f.Defaults.Overwrite)
}

func TestParse_EverythingOptional(t *testing.T) {
	t.Parallel()
	f, err := Parse([]byte("viewport {\n  width = 20\n}\n"), "mdrun.hcl")

	require.NoError(t, err)
	assert.Nil(t, f.LogLevel)
	assert.Nil(t, f.Persistence)
	assert.Nil(t, f.Viewport.Height)
	assert.Equal(t, 20, *f.Viewport.Width)
}

func TestParse_Errors(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name    string
		src     string
		wantErr string
	}{
		{name: "syntax", src: "log_level = ", wantErr: "failed to parse"},
		{name: "unknown attribute", src: `colour = "red"`, wantErr: "failed to decode"},
		{name: "wrong type", src: `full_recompute = "sometimes"`, wantErr: "failed to decode"},
	}

	for _, tc := range testCases {

		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, err := Parse([]byte(tc.src), "mdrun.hcl")
			assert.ErrorContains(t, err, tc.wantErr)
		})
	}
}

func TestLoad(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "mdrun.hcl")
	require.NoError(t, os.WriteFile(path, []byte(`tier = "ascii"`), 0o600))

	f, err := Load(context.Background(), path)

	require.NoError(t, err)
	assert.Equal(t, "ascii", *f.Tier)

	_, err = Load(context.Background(), filepath.Join(t.TempDir(), "missing.hcl"))
	assert.Error(t, err)
}

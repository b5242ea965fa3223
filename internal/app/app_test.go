package app

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/mdrun/internal/config"
	"github.com/vk/mdrun/internal/grid"
	"github.com/vk/mdrun/internal/state"
	"github.com/vk/mdrun/internal/testutil"
)

const campDoc = "# Camp\n" +
	"```state\n$hp = 3\n```\n" +
	"HP: $hp\n" +
	"```form heal\nfields:\n  - {name: hp, type: number, min: 0}\n```\n" +
	"```nav\n- label: Go to cave\n  target: cave\n```\n" +
	"# Cave\n" +
	"Dark.\n"

// setupAppTest writes doc to a temporary file and builds an app for it.
func setupAppTest(t *testing.T, doc string, mutate ...func(*Config)) (*App, *bytes.Buffer, *testutil.SafeBuffer) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "camp.md")
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o600))

	base := DefaultConfig()
	base.DocPath = path
	base.LogLevel = "debug"
	for _, m := range mutate {
		m(&base)
	}
	cfg, err := NewConfig(base)
	require.NoError(t, err)

	out := &bytes.Buffer{}
	logs := &testutil.SafeBuffer{}
	a, err := NewApp(out, logs, cfg)
	require.NoError(t, err)
	t.Cleanup(func() {
		if os.Getenv("MDRUN_TEST_LOGS") == "true" {
			t.Logf("--- Full Log Output for %s ---\n%s", t.Name(), logs.String())
		}
	})
	return a, out, logs
}

func TestNewConfig(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "missing document", mutate: func(c *Config) { c.DocPath = "" }, wantErr: "DocPath"},
		{name: "bad log format", mutate: func(c *Config) { c.LogFormat = "xml" }, wantErr: "invalid log format"},
		{name: "bad log level", mutate: func(c *Config) { c.LogLevel = "trace" }, wantErr: "invalid log level"},
		{name: "bad viewport", mutate: func(c *Config) { c.Width = 0 }, wantErr: "invalid viewport"},
		{name: "oversized viewport", mutate: func(c *Config) { c.Height = 3037000500 }, wantErr: "at most 1024"},
		{name: "bad persistence", mutate: func(c *Config) { c.Persistence = "global" }, wantErr: "global"},
		{name: "valid", mutate: func(*Config) {}},
	}

	for _, tc := range testCases {

		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			// --- Arrange ---
			c := DefaultConfig()
			c.DocPath = "docs/intro.md"
			tc.mutate(&c)

			// --- Act ---
			cfg, err := NewConfig(c)

			// --- Assert ---
			if tc.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tc.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "intro", cfg.DocumentID)
			assert.Equal(t, state.PolicyNone, cfg.Persistence)
		})
	}
}

func TestConfig_ApplyFile(t *testing.T) {
	t.Parallel()
	// --- Arrange ---
	f, err := config.Parse([]byte(`
log_level = "warn"
tier      = "ascii"
viewport {
  width = 40
}
persistence {
  mode = "keyed"
  dir  = "/tmp/state"
}
defaults {
  overwrite = true
}
`), "mdrun.hcl")
	require.NoError(t, err)
	c := DefaultConfig()

	// --- Act ---
	require.NoError(t, c.ApplyFile(f))

	// --- Assert ---
	assert.Equal(t, "warn", c.LogLevel)
	assert.Equal(t, "text", c.LogFormat, "unset values keep their defaults")
	assert.Equal(t, grid.TierASCII, c.Tier)
	assert.Equal(t, 40, c.Width)
	assert.Equal(t, 24, c.Height)
	assert.Equal(t, state.PolicyKeyed, c.Persistence)
	assert.Equal(t, "/tmp/state", c.StateDir)
	assert.True(t, c.OverwriteDefaults)
	assert.NoError(t, c.ApplyFile(nil))
}

func TestConfig_ApplyFile_BadTier(t *testing.T) {
	t.Parallel()
	f, err := config.Parse([]byte(`tier = "teletext"`), "mdrun.hcl")
	require.NoError(t, err)
	c := DefaultConfig()
	assert.ErrorContains(t, c.ApplyFile(f), "unknown glyph tier")
}

func TestNewLogger_FansOutToFile(t *testing.T) {
	t.Parallel()
	// --- Arrange ---
	path := filepath.Join(t.TempDir(), "mdrun.log")
	console := &bytes.Buffer{}

	// --- Act ---
	logger, closer, err := newLogger("info", "text", path, console)
	require.NoError(t, err)
	logger.Debug("hidden on the console")
	logger.Info("hello", "k", 1)
	require.NoError(t, closer.Close())

	// --- Assert ---
	assert.Contains(t, console.String(), "msg=hello")
	assert.NotContains(t, console.String(), "hidden")
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"hello"`)
	assert.Contains(t, string(data), `"msg":"hidden on the console"`, "the file records every level")
}

func TestNewLogger_BadFile(t *testing.T) {
	t.Parallel()
	_, _, err := newLogger("info", "json", filepath.Join(t.TempDir(), "missing", "x.log"), &bytes.Buffer{})
	assert.ErrorContains(t, err, "opening log file")
}

func TestSplitArgs(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		line    string
		want    []string
		wantErr bool
	}{
		{line: "", want: nil},
		{line: "  go   cave ", want: []string{"go", "cave"}},
		{line: `field signup name "Ada Lovelace"`, want: []string{"field", "signup", "name", "Ada Lovelace"}},
		{line: `submit signup name="Ada L" age=36`, want: []string{"submit", "signup", "name=Ada L", "age=36"}},
		{line: `say "unterminated`, wantErr: true},
	}

	for _, tc := range testCases {

		tc := tc
		t.Run(tc.line, func(t *testing.T) {
			t.Parallel()
			got, err := splitArgs(tc.line)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestParseFields(t *testing.T) {
	t.Parallel()
	got, err := parseFields([]string{"hp=7", "name=", "note=a=b"})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"hp": "7", "name": "", "note": "a=b"}, got)

	_, err = parseFields([]string{"oops"})
	assert.ErrorContains(t, err, "expected name=value")
}

func TestApp_Run_Session(t *testing.T) {
	t.Parallel()
	// --- Arrange ---
	a, out, logs := setupAppTest(t, campDoc)
	script := strings.Join([]string{
		"submit heal hp=-1",
		"submit heal hp=7",
		"go cave",
		"anchors",
		"snapshot",
		"bogus",
		"quit",
		"render",
	}, "\n")

	// --- Act ---
	err := a.Run(context.Background(), strings.NewReader(script))

	// --- Assert ---
	require.NoError(t, err)
	got := out.String()
	assert.Contains(t, got, "HP: 3")
	assert.Contains(t, got, "must be at least 0")
	assert.Contains(t, got, "HP: 7")
	assert.Contains(t, got, "Go to cave")
	assert.Contains(t, got, "> # Cave")
	assert.Contains(t, got, "#camp  Camp")
	assert.Contains(t, got, `{"hp":7}`)
	assert.Contains(t, got, `unknown command "bogus"`)
	assert.Equal(t, 3, strings.Count(got, "# Camp"), "initial render, the accepted submit and the jump; quit stops before render")
	assert.Contains(t, logs.String(), "Document loaded.")
}

func TestApp_Run_KeyedPersistence(t *testing.T) {
	t.Parallel()
	// --- Arrange ---
	dir := t.TempDir()
	keyed := func(c *Config) {
		c.Persistence = state.PolicyKeyed
		c.StateDir = dir
	}
	first, _, _ := setupAppTest(t, campDoc, keyed)

	// --- Act ---
	require.NoError(t, first.Run(context.Background(), strings.NewReader("field heal hp 9\n")))
	second, out, _ := setupAppTest(t, campDoc, keyed)
	require.NoError(t, second.Run(context.Background(), strings.NewReader("")))

	// --- Assert ---
	_, err := os.Stat(filepath.Join(dir, "camp.json"))
	require.NoError(t, err)
	assert.Contains(t, out.String(), "HP: 9")
}

func TestApp_Run_SnapshotFileRoundTrip(t *testing.T) {
	t.Parallel()
	// --- Arrange ---
	a, out, _ := setupAppTest(t, campDoc)
	snap := filepath.Join(t.TempDir(), "snap.json")
	script := "field heal hp 5\nsnapshot " + snap + "\nfield heal hp 1\nrestore " + snap + "\n"

	// --- Act ---
	err := a.Run(context.Background(), strings.NewReader(script))

	// --- Assert ---
	require.NoError(t, err)
	data, err := os.ReadFile(snap)
	require.NoError(t, err)
	assert.Equal(t, "{\"hp\":5}\n", string(data))
	got := out.String()
	last := got[strings.LastIndex(got, "# Camp"):]
	assert.Contains(t, last, "HP: 5")
}

func TestApp_Run_MissingDocument(t *testing.T) {
	t.Parallel()
	a, _, _ := setupAppTest(t, campDoc, func(c *Config) { c.DocPath = filepath.Join(t.TempDir(), "absent.md") })
	err := a.Run(context.Background(), strings.NewReader(""))
	assert.ErrorContains(t, err, "failed to read document")
}

func TestApp_Run_CancelledContext(t *testing.T) {
	t.Parallel()
	a, _, _ := setupAppTest(t, campDoc)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := a.Run(ctx, strings.NewReader("render\n"))
	assert.ErrorIs(t, err, context.Canceled)
}

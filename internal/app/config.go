package app

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/vk/mdrun/internal/config"
	"github.com/vk/mdrun/internal/grid"
	"github.com/vk/mdrun/internal/state"
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	DocPath string // markdown document

	// DocumentID keys persisted state. Defaults to the document's base name.
	DocumentID string
	// StateDir holds snapshot files. Empty keeps snapshots in memory.
	StateDir          string
	Persistence       state.Policy
	OverwriteDefaults bool

	Tier          grid.Tier
	Width         int
	Height        int
	FullRecompute bool

	LogFormat string
	LogLevel  string
	LogFile   string
}

// DefaultConfig returns the settings used when neither a flag nor the
// settings file says otherwise.
func DefaultConfig() Config {
	return Config{
		Persistence: state.PolicyNone,
		Tier:        grid.TierBlock,
		Width:       80,
		Height:      24,
		LogFormat:   "text",
		LogLevel:    "info",
	}
}

// NewConfig validates cfg and fills derived fields.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.DocPath == "" {
		return nil, errors.New("DocPath is a required configuration field and cannot be empty")
	}

	switch cfg.LogFormat {
	case "text", "json":
	default:
		return nil, fmt.Errorf("invalid log format %q: must be 'text' or 'json'", cfg.LogFormat)
	}
	switch cfg.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return nil, fmt.Errorf("invalid log level %q: must be 'debug', 'info', 'warn', or 'error'", cfg.LogLevel)
	}
	if cfg.Width < 1 || cfg.Height < 1 {
		return nil, fmt.Errorf("invalid viewport %dx%d: width and height must be positive", cfg.Width, cfg.Height)
	}
	if cfg.Width > grid.MaxSide || cfg.Height > grid.MaxSide {
		return nil, fmt.Errorf("invalid viewport %dx%d: width and height must be at most %d", cfg.Width, cfg.Height, grid.MaxSide)
	}

	policy, err := state.ParsePolicy(string(cfg.Persistence))
	if err != nil {
		return nil, err
	}
	cfg.Persistence = policy
	if cfg.DocumentID == "" {
		base := filepath.Base(cfg.DocPath)
		cfg.DocumentID = strings.TrimSuffix(base, filepath.Ext(base))
	}

	return &cfg, nil
}

// ApplyFile copies every value set in f onto cfg.
func (cfg *Config) ApplyFile(f *config.File) error {
	if f == nil {
		return nil
	}
	setString(&cfg.LogLevel, f.LogLevel)
	setString(&cfg.LogFormat, f.LogFormat)
	setString(&cfg.LogFile, f.LogFile)
	if f.Tier != nil {
		t, err := grid.ParseTier(*f.Tier)
		if err != nil {
			return err
		}
		cfg.Tier = t
	}
	if f.FullRecompute != nil {
		cfg.FullRecompute = *f.FullRecompute
	}
	if v := f.Viewport; v != nil {
		setInt(&cfg.Width, v.Width)
		setInt(&cfg.Height, v.Height)
	}
	if p := f.Persistence; p != nil {
		if p.Mode != nil {
			cfg.Persistence = state.Policy(*p.Mode)
		}
		setString(&cfg.StateDir, p.Dir)
		setString(&cfg.DocumentID, p.DocumentID)
	}
	if d := f.Defaults; d != nil && d.Overwrite != nil {
		cfg.OverwriteDefaults = *d.Overwrite
	}
	return nil
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}

func setInt(dst *int, src *int) {
	if src != nil {
		*dst = *src
	}
}

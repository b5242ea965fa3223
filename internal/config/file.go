package config

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/vk/mdrun/internal/ctxlog"
)

// File is the decoded settings file.
type File struct {
	LogLevel      *string `hcl:"log_level,optional"`
	LogFormat     *string `hcl:"log_format,optional"`
	LogFile       *string `hcl:"log_file,optional"`
	Tier          *string `hcl:"tier,optional"`
	FullRecompute *bool   `hcl:"full_recompute,optional"`

	Viewport    *Viewport    `hcl:"viewport,block"`
	Persistence *Persistence `hcl:"persistence,block"`
	Defaults    *Defaults    `hcl:"defaults,block"`
}

// Viewport is the size of the host display in cells.
type Viewport struct {
	Width  *int `hcl:"width,optional"`
	Height *int `hcl:"height,optional"`
}

// Persistence selects where document state is kept between runs.
type Persistence struct {
	Mode       *string `hcl:"mode,optional"`
	Dir        *string `hcl:"dir,optional"`
	DocumentID *string `hcl:"document_id,optional"`
}

// Defaults controls how `state` blocks treat existing values.
type Defaults struct {
	Overwrite *bool `hcl:"overwrite,optional"`
}

// Load parses and decodes the settings file at path.
func Load(ctx context.Context, path string) (*File, error) {
	logger := ctxlog.FromContext(ctx)
	parser := hclparse.NewParser()

	hclFile, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse settings file %s: %w", path, diags)
	}
	f, diags := decode(hclFile.Body)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode settings file %s: %w", path, diags)
	}
	logger.Debug("Settings file loaded.", "path", path)
	return f, nil
}

// Parse decodes settings from src. filename labels diagnostics.
func Parse(src []byte, filename string) (*File, error) {
	parser := hclparse.NewParser()
	hclFile, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse settings: %w", diags)
	}
	f, diags := decode(hclFile.Body)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode settings: %w", diags)
	}
	return f, nil
}

func decode(body hcl.Body) (*File, hcl.Diagnostics) {
	var f File
	diags := gohcl.DecodeBody(body, nil, &f)
	return &f, diags
}

package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/vk/mdrun/internal/app"
	"github.com/vk/mdrun/internal/config"
	"github.com/vk/mdrun/internal/grid"
	"github.com/vk/mdrun/internal/state"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

func usageError(format string, args ...any) error {
	return &ExitError{Code: 2, Message: fmt.Sprintf(format, args...)}
}

// Parse processes command-line arguments. It returns a populated Config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
//
// Settings are layered: built-in defaults, then the settings file named by
// -config, then every flag given explicitly on the command line.
func Parse(ctx context.Context, args []string, output io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")
	flagSet := flag.NewFlagSet("mdrun", flag.ContinueOnError)
	flagSet.SetOutput(output)

	flagSet.Usage = func() {
		fmt.Fprint(output, `
mdrun - Runs interactive Markdown documents in the terminal.

Usage:
  mdrun [options] [DOCUMENT]

Arguments:
  DOCUMENT
    Path to the Markdown document to run.

Once loaded, commands are read from standard input; type 'help' for a list.

Options:
`)
		flagSet.PrintDefaults()
	}

	defaults := app.DefaultConfig()
	docFlag := flagSet.String("doc", "", "Path to the Markdown document.")
	dFlag := flagSet.String("d", "", "Path to the Markdown document (shorthand).")
	configFlag := flagSet.String("config", "", "Path to an HCL settings file.")
	docIDFlag := flagSet.String("doc-id", "", "Key for persisted state. Defaults to the document's base name.")
	stateDirFlag := flagSet.String("state-dir", "", "Directory for state snapshots. Empty keeps them in memory.")
	persistenceFlag := flagSet.String("persistence", string(defaults.Persistence), "State persistence policy. Options: 'none' or 'keyed'.")
	overwriteFlag := flagSet.Bool("overwrite-defaults", false, "Let every state block replace existing values.")
	tierFlag := flagSet.String("tier", defaults.Tier.String(), "Glyph tier for graphics. Options: 'ascii', 'block' or 'sextant'.")
	widthFlag := flagSet.Int("width", defaults.Width, "Viewport width in cells.")
	heightFlag := flagSet.Int("height", defaults.Height, "Viewport height in cells.")
	logFormatFlag := flagSet.String("log-format", defaults.LogFormat, "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", defaults.LogLevel, "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")
	logFileFlag := flagSet.String("log-file", "", "Also write JSON logs at every level to this file.")
	fullFlag := flagSet.Bool("full-recompute", false, "Recompute every block on each render.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	slog.Debug("Arguments parsed successfully.")

	path := ""
	if *docFlag != "" {
		path = *docFlag
	} else if *dFlag != "" {
		path = *dFlag
	} else if flagSet.NArg() > 0 {
		path = flagSet.Arg(0)
	}
	slog.Debug("Document path determined.", "path", path)

	if path == "" {
		slog.Debug("No document path provided, printing usage and exiting.")
		flagSet.Usage()
		return nil, true, nil
	}

	cfg := defaults
	if *configFlag != "" {
		f, err := config.Load(ctx, *configFlag)
		if err != nil {
			return nil, false, usageError("%v", err)
		}
		if err := cfg.ApplyFile(f); err != nil {
			return nil, false, usageError("%s: %v", *configFlag, err)
		}
	}

	var flagErr error
	flagSet.Visit(func(f *flag.Flag) {
		if flagErr != nil {
			return
		}
		switch f.Name {
		case "doc-id":
			cfg.DocumentID = *docIDFlag
		case "state-dir":
			cfg.StateDir = *stateDirFlag
		case "persistence":
			cfg.Persistence = state.Policy(strings.ToLower(*persistenceFlag))
		case "overwrite-defaults":
			cfg.OverwriteDefaults = *overwriteFlag
		case "tier":
			t, err := grid.ParseTier(*tierFlag)
			if err != nil {
				flagErr = usageError("invalid tier: %v", err)
			}
			cfg.Tier = t
		case "width":
			cfg.Width = *widthFlag
		case "height":
			cfg.Height = *heightFlag
		case "log-format":
			cfg.LogFormat = strings.ToLower(*logFormatFlag)
		case "log-level":
			cfg.LogLevel = strings.ToLower(*logLevelFlag)
		case "log-file":
			cfg.LogFile = *logFileFlag
		case "full-recompute":
			cfg.FullRecompute = *fullFlag
		}
	})
	if flagErr != nil {
		return nil, false, flagErr
	}
	cfg.DocPath = path
	slog.Debug("CLI parameter merge complete.")

	appConfig, err := app.NewConfig(cfg)
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	slog.Debug("CLI parser finished successfully.", "config", appConfig)
	return appConfig, false, nil
}

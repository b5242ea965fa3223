package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/vk/mdrun/internal/app"
	"github.com/vk/mdrun/internal/cli"
)

// main is the entrypoint for the mdrun application.
func main() {
	// Use a minimal logger until the full one is configured.
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// The real main function handles errors and exit codes.
	if err := run(ctx, os.Stdin, os.Stdout, os.Stderr, os.Args[1:]); err != nil {
		stop()
		var exitErr *cli.ExitError
		if errors.As(err, &exitErr) {
			fmt.Fprintln(os.Stderr, exitErr.Message)
			os.Exit(exitErr.Code)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// run encapsulates the main application logic for easier testing and error handling.
func run(ctx context.Context, in io.Reader, outW, logW io.Writer, args []string) error {
	appConfig, shouldExit, err := cli.Parse(ctx, args, outW)
	if err != nil {
		return err
	}
	if shouldExit {
		return nil
	}

	mdrunApp, err := app.NewApp(outW, logW, appConfig)
	if err != nil {
		return fmt.Errorf("application startup failed: %w", err)
	}

	return mdrunApp.Run(ctx, in)
}

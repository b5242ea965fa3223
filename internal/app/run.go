package app

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/vk/mdrun/internal/ctxlog"
	"github.com/vk/mdrun/internal/engine"
	"github.com/vk/mdrun/internal/registry"
)

// Run loads the configured document, prints its first render and then
// applies one command per line of in until EOF, a quit command or ctx is
// done. The document is always closed, which saves keyed state.
func (a *App) Run(ctx context.Context, in io.Reader) (err error) {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	defer a.logCloser.Close()
	a.logger.Debug("App.Run method started.", "doc", a.config.DocPath)

	src, err := os.ReadFile(a.config.DocPath)
	if err != nil {
		return fmt.Errorf("failed to read document: %w", err)
	}

	settings := registry.DefaultSettings()
	settings.Tier = a.config.Tier
	settings.Width = a.config.Width
	settings.Height = a.config.Height

	inst, err := engine.Load(ctx, string(src), engine.Options{
		Filename:          a.config.DocPath,
		Registry:          a.registry,
		Settings:          settings,
		Persistence:       a.config.Persistence,
		Persister:         a.persister,
		DocumentID:        a.config.DocumentID,
		OverwriteDefaults: a.config.OverwriteDefaults,
		FullRecompute:     a.config.FullRecompute,
	})
	if err != nil {
		return fmt.Errorf("failed to load document: %w", err)
	}
	a.logger.Info("Session started.", "document_id", a.config.DocumentID, "persistence", a.config.Persistence)

	defer func() {
		if cerr := inst.Close(ctx); cerr != nil && !errors.Is(cerr, engine.ErrClosed) {
			err = errors.Join(err, fmt.Errorf("failed to close document: %w", cerr))
		}
	}()

	tree, err := inst.Render(ctx)
	if err != nil {
		return err
	}
	a.view.Tree(tree)

	s := &session{app: a, inst: inst}
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		quit, err := s.handle(ctx, scanner.Text())
		if err != nil {
			return err
		}
		if quit {
			break
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read commands: %w", err)
	}

	a.logger.Debug("App.Run method finished.")
	return nil
}

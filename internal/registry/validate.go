package registry

import (
	"context"
	"fmt"
	"strings"

	"github.com/vk/mdrun/internal/ctxlog"
)

// ValidateRegistry performs a strict parity check between the closed set of
// block kinds and the registered handlers: every kind must have a handler,
// and every handler must provide both a parser and a renderer.
func (r *Registry) ValidateRegistry(ctx context.Context) error {
	var errs []string
	logger := ctxlog.FromContext(ctx)

	for _, k := range kinds {
		h, ok := r.handlers[k]
		if !ok {
			errs = append(errs, fmt.Sprintf("block kind '%s': no handler registered", k))
			continue
		}
		if h.Parse == nil {
			errs = append(errs, fmt.Sprintf("block kind '%s': handler has no parser", k))
		}
		if h.Render == nil {
			errs = append(errs, fmt.Sprintf("block kind '%s': handler has no renderer", k))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("registry validation failed:\n- %s", strings.Join(errs, "\n- "))
	}

	logger.Debug("Registry validated.", "kinds", len(kinds))
	return nil
}

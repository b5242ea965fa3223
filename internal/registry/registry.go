package registry

import (
	"fmt"
	"log/slog"
)

// Module is the interface that all block modules must implement to be registered.
type Module interface {
	Register(r *Registry)
}

// Registry holds the block handlers for a single application instance.
type Registry struct {
	handlers map[Kind]*Handler
}

// New creates and initializes a new Registry instance, registering every
// module given.
func New(modules ...Module) *Registry {
	r := &Registry{handlers: make(map[Kind]*Handler)}
	for _, m := range modules {
		m.Register(r)
	}
	return r
}

// Register adds a handler. It panics if the kind is not a known block kind
// or already has a handler, since either is a programming error.
func (r *Registry) Register(h Handler) {
	if !h.Kind.Valid() {
		panic(fmt.Sprintf("cannot register handler for unknown block kind '%s'", h.Kind))
	}
	if _, exists := r.handlers[h.Kind]; exists {
		panic(fmt.Sprintf("handler for block kind '%s' already registered", h.Kind))
	}
	slog.Debug("Registering block handler.", "kind", h.Kind)
	r.handlers[h.Kind] = &h
}

// Handler returns the handler registered for k.
func (r *Registry) Handler(k Kind) (*Handler, bool) {
	h, ok := r.handlers[k]
	return h, ok
}

// IsBlock reports whether a fence label names a registered block kind.
func (r *Registry) IsBlock(label string) bool {
	_, ok := r.handlers[Kind(label)]
	return ok
}

// Registered returns the kinds that have handlers, in declaration order.
func (r *Registry) Registered() []Kind {
	var out []Kind
	for _, k := range kinds {
		if _, ok := r.handlers[k]; ok {
			out = append(out, k)
		}
	}
	return out
}

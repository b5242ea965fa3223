package state

import (
	"context"
	"fmt"
	"strings"

	"github.com/vk/mdrun/internal/value"
)

// Policy selects how a document instance persists its store.
type Policy string

const (
	// PolicyNone keeps state in memory only.
	PolicyNone Policy = "none"
	// PolicyKeyed restores the snapshot at load and saves it at close, keyed
	// by a host-supplied document identifier.
	PolicyKeyed Policy = "keyed"
)

// ParsePolicy converts a configuration string into a Policy. The empty
// string means PolicyNone.
func ParsePolicy(s string) (Policy, error) {
	switch Policy(strings.ToLower(strings.TrimSpace(s))) {
	case "", PolicyNone:
		return PolicyNone, nil
	case PolicyKeyed:
		return PolicyKeyed, nil
	default:
		return "", fmt.Errorf("unknown persistence policy %q: must be 'none' or 'keyed'", s)
	}
}

// Persister is the host hook used by the keyed policy. Implementations own
// all I/O; the runtime only calls Load when an instance starts loading and
// Save when it closes.
type Persister interface {
	// Load returns the snapshot saved under id. ok is false when nothing has
	// been saved yet.
	Load(ctx context.Context, id string) (snap *value.Object, ok bool, err error)
	// Save stores snap under id, replacing any earlier snapshot.
	Save(ctx context.Context, id string, snap *value.Object) error
}

package inmemorystore

import (
	"context"
	"sync"

	"github.com/vk/mdrun/internal/state"
	"github.com/vk/mdrun/internal/value"
)

// Store is an in-memory state.Persister. The zero value is ready to use.
type Store struct {
	snapshots sync.Map // Key: document id, Value: *value.Object
}

var _ state.Persister = (*Store)(nil)

// New creates a new, empty in-memory snapshot store.
func New() *Store {
	return &Store{}
}

// Load returns a copy of the snapshot saved under id.
func (s *Store) Load(ctx context.Context, id string) (*value.Object, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}
	v, ok := s.snapshots.Load(id)
	if !ok {
		return nil, false, nil
	}
	return v.(*value.Object).Clone(), true, nil
}

// Save stores a copy of snap under id, replacing any earlier snapshot.
func (s *Store) Save(ctx context.Context, id string, snap *value.Object) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if snap == nil {
		snap = value.NewObject()
	}
	s.snapshots.Store(id, snap.Clone())
	return nil
}

// Delete forgets the snapshot saved under id.
func (s *Store) Delete(id string) {
	s.snapshots.Delete(id)
}

// Len returns the number of documents with a saved snapshot.
func (s *Store) Len() int {
	n := 0
	s.snapshots.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}

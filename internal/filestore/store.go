// Package filestore is a state.Persister that keeps one JSON file per
// document id in a directory. Object keys keep their order on disk.
package filestore

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/vk/mdrun/internal/ctxlog"
	"github.com/vk/mdrun/internal/fsutil"
	"github.com/vk/mdrun/internal/state"
	"github.com/vk/mdrun/internal/value"
)

const ext = ".json"

// ErrInvalidID is returned for an empty document id.
var ErrInvalidID = errors.New("document id must not be empty")

// Store persists snapshots under Dir.
type Store struct {
	dir string
	mu  sync.Mutex
}

var _ state.Persister = (*Store)(nil)

// New returns a store rooted at dir. The directory is created on first save.
func New(dir string) *Store {
	return &Store{dir: dir}
}

// Dir returns the directory snapshots are written to.
func (s *Store) Dir() string {
	return s.dir
}

// Path returns the file that holds the snapshot for id.
func (s *Store) Path(id string) string {
	return filepath.Join(s.dir, url.PathEscape(id)+ext)
}

// Load reads the snapshot saved under id.
func (s *Store) Load(ctx context.Context, id string) (*value.Object, bool, error) {
	if id == "" {
		return nil, false, ErrInvalidID
	}
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	path := s.Path(id)
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("reading snapshot: %w", err)
	}

	snap := value.NewObject()
	if err := snap.UnmarshalJSON(data); err != nil {
		return nil, false, fmt.Errorf("decoding snapshot %s: %w", path, err)
	}
	ctxlog.FromContext(ctx).Debug("Snapshot loaded.", "path", path, "vars", snap.Len())
	return snap, true, nil
}

// Save writes snap under id, replacing any earlier snapshot atomically.
func (s *Store) Save(ctx context.Context, id string, snap *value.Object) error {
	if id == "" {
		return ErrInvalidID
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if snap == nil {
		snap = value.NewObject()
	}
	data, err := snap.MarshalJSON()
	if err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	path := s.Path(id)
	if err := fsutil.WriteFileAtomic(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("writing snapshot: %w", err)
	}
	ctxlog.FromContext(ctx).Debug("Snapshot saved.", "path", path, "vars", snap.Len())
	return nil
}

// IDs lists the document ids with a saved snapshot, in lexical order of
// their file names.
func (s *Store) IDs() ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	files, err := fsutil.FindFilesByExtension(s.dir, ext)
	if err != nil {
		return nil, err
	}
	var ids []string
	for _, f := range files {
		if filepath.Dir(f) != filepath.Clean(s.dir) {
			continue
		}
		id, err := url.PathUnescape(strings.TrimSuffix(filepath.Base(f), ext))
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	return ids, nil
}

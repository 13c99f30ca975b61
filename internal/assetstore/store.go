// Package assetstore provides the per-run staging area for interim assets.
// Every write is confined to the configured root and checked against size
// and count ceilings; policy violations come back as ResourceBoundaryError
// values, never panics.
package assetstore

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Location is the resolved path of a stored asset.
type Location string

// ResourceBoundaryError reports a write outside the permitted root or over a
// configured ceiling.
type ResourceBoundaryError struct {
	Dest   string
	Reason string
}

func (e *ResourceBoundaryError) Error() string {
	return fmt.Sprintf("asset write %q rejected: %s", e.Dest, e.Reason)
}

const (
	DefaultMaxBytes = 256 << 20
	DefaultMaxCount = 1024
)

// Option configures a store.
type Option func(*Store)

// WithMaxBytes caps the cumulative byte count across all writes.
func WithMaxBytes(n int64) Option {
	return func(s *Store) { s.maxBytes = n }
}

// WithMaxCount caps the number of stored assets.
func WithMaxCount(n int) Option {
	return func(s *Store) { s.maxCount = n }
}

// Store writes assets under a single root directory. Concurrent sub-tasks
// within a run write to distinct asset identifiers, so writes never contend
// on a destination; the counters are still guarded for the ceilings.
type Store struct {
	root     string
	maxBytes int64
	maxCount int
	log      *zap.Logger

	mu      sync.Mutex
	written int64
	count   int
}

// New creates a store rooted at root, creating the directory if needed.
func New(root string, log *zap.Logger, opts ...Option) (*Store, error) {
	if log == nil {
		log = zap.NewNop()
	}

	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to resolve asset root %s", root)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, errors.Wrapf(err, "unable to create asset root %s", abs)
	}

	store := &Store{
		root:     abs,
		maxBytes: DefaultMaxBytes,
		maxCount: DefaultMaxCount,
		log:      log,
	}
	for _, opt := range opts {
		opt(store)
	}

	return store, nil
}

// NewStaging creates a store in a fresh run-scoped directory under base.
// Staging areas are isolated per pipeline invocation; nothing is shared
// across runs.
func NewStaging(base string, log *zap.Logger, opts ...Option) (*Store, error) {
	return New(filepath.Join(base, "run-"+uuid.NewString()), log, opts...)
}

// Root returns the resolved root directory.
func (s *Store) Root() string { return s.root }

// Write stores data at dest, relative to the root. It returns a
// ResourceBoundaryError when dest escapes the root or a ceiling would be
// exceeded.
func (s *Store) Write(data []byte, dest string) (Location, error) {
	target, err := s.resolve(dest)
	if err != nil {
		return "", err
	}

	if err := s.reserve(dest, int64(len(data))); err != nil {
		return "", err
	}

	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		s.release(int64(len(data)))

		return "", errors.Wrapf(err, "unable to create asset directory for %s", dest)
	}
	if err := os.WriteFile(target, data, 0o644); err != nil {
		s.release(int64(len(data)))

		return "", errors.Wrapf(err, "unable to write asset %s", dest)
	}

	s.log.Debug("asset written",
		zap.String("dest", dest),
		zap.Int("bytes", len(data)))

	return Location(target), nil
}

func (s *Store) resolve(dest string) (string, error) {
	if dest == "" {
		return "", &ResourceBoundaryError{Dest: dest, Reason: "empty destination"}
	}
	if filepath.IsAbs(dest) {
		return "", &ResourceBoundaryError{Dest: dest, Reason: "absolute destination"}
	}

	target := filepath.Clean(filepath.Join(s.root, dest))
	rel, err := filepath.Rel(s.root, target)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", &ResourceBoundaryError{Dest: dest, Reason: "escapes the asset root"}
	}

	return target, nil
}

func (s *Store) reserve(dest string, size int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.count+1 > s.maxCount {
		return &ResourceBoundaryError{Dest: dest, Reason: fmt.Sprintf("asset count ceiling %d reached", s.maxCount)}
	}
	if s.written+size > s.maxBytes {
		return &ResourceBoundaryError{Dest: dest, Reason: fmt.Sprintf("byte ceiling %d exceeded", s.maxBytes)}
	}
	s.count++
	s.written += size

	return nil
}

func (s *Store) release(size int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.count--
	s.written -= size
}

// Remove deletes the whole staging area. Used on cleanup after a run.
func (s *Store) Remove() error {
	return errors.Wrapf(os.RemoveAll(s.root), "unable to remove asset root %s", s.root)
}

// Package jsonfile stores the portfolio document in one JSON file on disk.
package jsonfile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/louisbranch/portfolio/internal/services/portfolio/content"
	"github.com/louisbranch/portfolio/internal/services/portfolio/storage"
)

const (
	tracerName = "github.com/louisbranch/portfolio/internal/services/portfolio/storage/jsonfile"
	filePerm   = 0o644
	dirPerm    = 0o755
)

var _ storage.Store = (*Store)(nil)

// Store persists the document as indented JSON. All writes go through one
// mutex and land with an atomic rename, so readers never observe a partial
// file and concurrent updates are applied one after another.
type Store struct {
	path   string
	logger zerolog.Logger
	tracer trace.Tracer

	mu     sync.RWMutex
	cached *content.Document
	closed bool
	// written describes the file as this store last wrote it.
	written os.FileInfo
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used for degraded-read diagnostics.
func WithLogger(logger zerolog.Logger) Option {
	return func(s *Store) { s.logger = logger }
}

// Open prepares a store at path, creating the parent directory. The file
// itself is created on first write.
func Open(path string, opts ...Option) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	abs, err := filepath.Abs(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("resolve storage path: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(abs), dirPerm); err != nil {
		return nil, fmt.Errorf("create storage dir: %w", err)
	}
	s := &Store{
		path:   abs,
		logger: zerolog.Nop(),
		tracer: otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With().Str("store", "jsonfile").Str("path", abs).Logger()
	return s, nil
}

// Path returns the absolute path of the backing file.
func (s *Store) Path() string {
	return s.path
}

// Load returns the current document, degrading to an empty one when the file
// is missing or unreadable.
func (s *Store) Load(ctx context.Context) (content.Document, error) {
	if err := ctx.Err(); err != nil {
		return content.Document{}, err
	}
	_, span := s.tracer.Start(ctx, "storage.load", trace.WithAttributes(attribute.String("storage.backend", "jsonfile")))
	defer span.End()

	s.mu.RLock()
	if s.closed {
		s.mu.RUnlock()
		return content.Document{}, storage.ErrClosed
	}
	if s.cached != nil {
		doc := s.cached.Clone()
		s.mu.RUnlock()
		span.SetAttributes(attribute.Bool("storage.cache_hit", true))
		return doc, nil
	}
	s.mu.RUnlock()

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return content.Document{}, storage.ErrClosed
	}
	doc, err := s.currentLocked()
	if err != nil {
		span.RecordError(err)
		s.logger.Warn().Err(err).Msg("content document unreadable, serving empty document")
		return content.Empty(), nil
	}
	return doc.Clone(), nil
}

// Update applies fn under the write lock and persists the result atomically.
// A corrupt file on disk is never overwritten; fix or Replace it first.
func (s *Store) Update(ctx context.Context, fn storage.MutateFunc) (content.Document, error) {
	if fn == nil {
		return content.Document{}, fmt.Errorf("mutate func is required")
	}
	if err := ctx.Err(); err != nil {
		return content.Document{}, err
	}
	_, span := s.tracer.Start(ctx, "storage.update", trace.WithAttributes(attribute.String("storage.backend", "jsonfile")))
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return content.Document{}, storage.ErrClosed
	}

	current, err := s.currentLocked()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "load")
		return content.Document{}, err
	}
	work := current.Clone()
	if err := fn(&work); err != nil {
		return content.Document{}, err
	}
	work.Normalize()
	if err := s.writeLocked(work); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "write")
		return content.Document{}, err
	}
	return work.Clone(), nil
}

// Replace overwrites the whole document, including a corrupt one.
func (s *Store) Replace(ctx context.Context, doc content.Document) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, span := s.tracer.Start(ctx, "storage.replace", trace.WithAttributes(attribute.String("storage.backend", "jsonfile")))
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return storage.ErrClosed
	}
	work := doc.Clone()
	work.Normalize()
	if err := s.writeLocked(work); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "write")
		return err
	}
	return nil
}

// Invalidate drops the cached document so the next Load re-reads the file.
func (s *Store) Invalidate() {
	s.mu.Lock()
	s.cached = nil
	s.mu.Unlock()
}

// changedOnDisk reports whether the file differs from the one this store last
// wrote, either replaced or modified in place.
func (s *Store) changedOnDisk() bool {
	s.mu.RLock()
	written := s.written
	s.mu.RUnlock()
	if written == nil {
		return true
	}
	info, err := os.Stat(s.path)
	if err != nil {
		return true
	}
	return !os.SameFile(info, written) || !info.ModTime().Equal(written.ModTime()) || info.Size() != written.Size()
}

// Close marks the store closed. The file is left in place.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.cached = nil
	return nil
}

// currentLocked returns the cached document or reads it from disk. A missing
// file counts as an empty document. Requires s.mu held for writing.
func (s *Store) currentLocked() (content.Document, error) {
	if s.cached != nil {
		return *s.cached, nil
	}
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		empty := content.Empty()
		s.cached = &empty
		return empty, nil
	}
	if err != nil {
		return content.Document{}, fmt.Errorf("read content file: %w", err)
	}
	var doc content.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return content.Document{}, fmt.Errorf("%w: %v", storage.ErrCorrupt, err)
	}
	doc.Normalize()
	s.cached = &doc
	return doc, nil
}

// writeLocked encodes doc to a temp file next to the target and renames it
// into place. Requires s.mu held for writing.
func (s *Store) writeLocked(doc content.Document) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode content document: %w", err)
	}
	data = append(data, '\n')

	tmp, err := os.CreateTemp(filepath.Dir(s.path), "."+filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			_ = os.Remove(tmpPath)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Chmod(tmpPath, filePerm); err != nil {
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		return fmt.Errorf("replace content file: %w", err)
	}
	committed = true
	if info, err := os.Stat(s.path); err == nil {
		s.written = info
	}

	cached := doc
	s.cached = &cached
	return nil
}

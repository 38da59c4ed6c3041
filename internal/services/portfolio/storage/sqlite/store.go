// Package sqlite provides a SQLite-backed portfolio document store.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"

	sqlitemigrate "github.com/louisbranch/portfolio/internal/platform/storage/sqlitemigrate"
	"github.com/louisbranch/portfolio/internal/services/portfolio/content"
	"github.com/louisbranch/portfolio/internal/services/portfolio/storage"
	"github.com/louisbranch/portfolio/internal/services/portfolio/storage/sqlite/migrations"
)

const (
	tracerName  = "github.com/louisbranch/portfolio/internal/services/portfolio/storage/sqlite"
	documentID  = 1
	maxAttempts = 8
)

var errRevisionConflict = errors.New("document revision changed")

// Store persists the portfolio document as a single revisioned row. Update is
// a compare-and-swap on the revision, so separate processes sharing the file
// serialize their writes instead of overwriting each other.
type Store struct {
	sqlDB  *sql.DB
	logger zerolog.Logger
	tracer trace.Tracer
	now    func() time.Time

	// mu serializes writers inside this process; the revision check covers
	// writers in other processes.
	mu sync.Mutex
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used for degraded-read diagnostics.
func WithLogger(logger zerolog.Logger) Option {
	return func(s *Store) { s.logger = logger }
}

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

// Open opens a SQLite portfolio store and applies embedded migrations.
func Open(ctx context.Context, path string, opts ...Option) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	cleanPath := filepath.Clean(path)
	dsn := "file:" + cleanPath + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := sqlitemigrate.Apply(ctx, sqlDB, migrations.FS, "."); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	s := &Store{
		sqlDB:  sqlDB,
		logger: zerolog.Nop(),
		tracer: otel.Tracer(tracerName),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With().Str("store", "sqlite").Str("path", cleanPath).Logger()
	return s, nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// Load returns the stored document, or an empty one when the row is missing
// or its body cannot be decoded.
func (s *Store) Load(ctx context.Context) (content.Document, error) {
	if err := ctx.Err(); err != nil {
		return content.Document{}, err
	}
	ctx, span := s.tracer.Start(ctx, "storage.load", trace.WithAttributes(attribute.String("storage.backend", "sqlite")))
	defer span.End()

	doc, _, err := s.read(ctx)
	switch {
	case err == nil:
		return doc, nil
	case errors.Is(err, storage.ErrCorrupt):
		span.RecordError(err)
		s.logger.Warn().Err(err).Msg("content document unreadable, serving empty document")
		return content.Empty(), nil
	case isClosed(err):
		return content.Document{}, storage.ErrClosed
	case ctx.Err() != nil:
		return content.Document{}, ctx.Err()
	default:
		span.RecordError(err)
		s.logger.Warn().Err(err).Msg("content document read failed, serving empty document")
		return content.Empty(), nil
	}
}

// Update applies fn to the stored document and writes it back if nobody else
// changed the row in the meantime, retrying otherwise.
func (s *Store) Update(ctx context.Context, fn storage.MutateFunc) (content.Document, error) {
	if fn == nil {
		return content.Document{}, fmt.Errorf("mutate func is required")
	}
	if err := ctx.Err(); err != nil {
		return content.Document{}, err
	}
	ctx, span := s.tracer.Start(ctx, "storage.update", trace.WithAttributes(attribute.String("storage.backend", "sqlite")))
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		span.SetAttributes(attribute.Int("storage.attempts", attempt))
		doc, err := s.tryUpdate(ctx, fn)
		if err == nil {
			return doc, nil
		}
		if !retryable(err) {
			if isClosed(err) {
				err = storage.ErrClosed
			}
			span.RecordError(err)
			span.SetStatus(codes.Error, "update")
			return content.Document{}, err
		}
		lastErr = err
		select {
		case <-ctx.Done():
			return content.Document{}, ctx.Err()
		case <-time.After(time.Duration(attempt) * 5 * time.Millisecond):
		}
	}
	span.SetStatus(codes.Error, "retries exhausted")
	return content.Document{}, fmt.Errorf("update document after %d attempts: %w", maxAttempts, lastErr)
}

// Replace writes doc regardless of the current revision or body.
func (s *Store) Replace(ctx context.Context, doc content.Document) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	ctx, span := s.tracer.Start(ctx, "storage.replace", trace.WithAttributes(attribute.String("storage.backend", "sqlite")))
	defer span.End()

	work := doc.Clone()
	work.Normalize()
	body, err := json.Marshal(work)
	if err != nil {
		return fmt.Errorf("encode content document: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	_, err = s.sqlDB.ExecContext(ctx,
		`INSERT INTO portfolio_documents (id, body, revision, updated_at) VALUES (?, ?, 1, ?)
		 ON CONFLICT(id) DO UPDATE SET body = excluded.body, revision = portfolio_documents.revision + 1, updated_at = excluded.updated_at`,
		documentID, string(body), toMillis(s.now()),
	)
	if err != nil {
		if isClosed(err) {
			return storage.ErrClosed
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "replace")
		return fmt.Errorf("replace content document: %w", err)
	}
	return nil
}

func (s *Store) tryUpdate(ctx context.Context, fn storage.MutateFunc) (content.Document, error) {
	current, revision, err := s.read(ctx)
	if err != nil {
		return content.Document{}, err
	}
	if err := fn(&current); err != nil {
		return content.Document{}, err
	}
	current.Normalize()
	body, err := json.Marshal(current)
	if err != nil {
		return content.Document{}, fmt.Errorf("encode content document: %w", err)
	}

	var res sql.Result
	if revision == 0 {
		res, err = s.sqlDB.ExecContext(ctx,
			`INSERT INTO portfolio_documents (id, body, revision, updated_at) VALUES (?, ?, 1, ?)
			 ON CONFLICT(id) DO NOTHING`,
			documentID, string(body), toMillis(s.now()),
		)
	} else {
		res, err = s.sqlDB.ExecContext(ctx,
			`UPDATE portfolio_documents SET body = ?, revision = revision + 1, updated_at = ?
			 WHERE id = ? AND revision = ?`,
			string(body), toMillis(s.now()), documentID, revision,
		)
	}
	if err != nil {
		return content.Document{}, fmt.Errorf("write content document: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return content.Document{}, fmt.Errorf("write content document: %w", err)
	}
	if affected == 0 {
		return content.Document{}, errRevisionConflict
	}
	return current, nil
}

// read returns the decoded document and its revision. A missing row is an
// empty document at revision zero.
func (s *Store) read(ctx context.Context) (content.Document, int64, error) {
	var (
		body     string
		revision int64
	)
	err := s.sqlDB.QueryRowContext(ctx,
		`SELECT body, revision FROM portfolio_documents WHERE id = ?`, documentID,
	).Scan(&body, &revision)
	if errors.Is(err, sql.ErrNoRows) {
		return content.Empty(), 0, nil
	}
	if err != nil {
		return content.Document{}, 0, fmt.Errorf("read content document: %w", err)
	}
	var doc content.Document
	if err := json.Unmarshal([]byte(body), &doc); err != nil {
		return content.Document{}, revision, fmt.Errorf("%w: %v", storage.ErrCorrupt, err)
	}
	doc.Normalize()
	return doc, revision, nil
}

func retryable(err error) bool {
	if errors.Is(err, errRevisionConflict) {
		return true
	}
	var sqliteErr *msqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() & 0xff {
		case sqlite3lib.SQLITE_BUSY, sqlite3lib.SQLITE_LOCKED:
			return true
		}
	}
	return false
}

func isClosed(err error) bool {
	return err != nil && strings.Contains(err.Error(), "sql: database is closed")
}

var _ storage.Store = (*Store)(nil)

// Package service implements the portfolio content operations on top of a
// storage.Store: validation, id assignment, referential checks and error
// classification.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	apperrors "github.com/louisbranch/portfolio/internal/platform/errors"
	"github.com/louisbranch/portfolio/internal/platform/id"
	"github.com/louisbranch/portfolio/internal/services/portfolio/content"
	"github.com/louisbranch/portfolio/internal/services/portfolio/storage"
)

// Service exposes portfolio content operations.
type Service struct {
	store storage.Store
	clock func() time.Time
	newID func() (string, error)
}

// Option configures a Service.
type Option func(*Service)

// WithClock overrides the time source used for message dates and analytics.
func WithClock(clock func() time.Time) Option {
	return func(s *Service) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// WithIDGenerator overrides record id generation.
func WithIDGenerator(fn func() (string, error)) Option {
	return func(s *Service) {
		if fn != nil {
			s.newID = fn
		}
	}
}

// New creates a service backed by store.
func New(store storage.Store, opts ...Option) *Service {
	s := &Service{
		store: store,
		clock: time.Now,
		newID: id.NewID,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Stats summarizes the document for the admin dashboard.
type Stats struct {
	Views          int64 `json:"views"`
	Messages       int   `json:"messages"`
	UnreadMessages int   `json:"unreadMessages"`
	Categories     int   `json:"categories"`
	Skills         int   `json:"skills"`
	Projects       int   `json:"projects"`
	Experiences    int   `json:"experiences"`
	Certifications int   `json:"certifications"`
}

// Document returns the full document, contact messages included.
func (s *Service) Document(ctx context.Context) (content.Document, error) {
	doc, err := s.load(ctx)
	if err != nil {
		return content.Document{}, err
	}
	return doc, nil
}

// PublicDocument returns the document as anonymous visitors see it.
func (s *Service) PublicDocument(ctx context.Context) (content.Document, error) {
	doc, err := s.load(ctx)
	if err != nil {
		return content.Document{}, err
	}
	return doc.Public(), nil
}

// ReplaceDocument overwrites the whole document after validating every record.
func (s *Service) ReplaceDocument(ctx context.Context, doc content.Document) error {
	if s == nil || s.store == nil {
		return apperrors.E(apperrors.KindUnavailable, "content store is not configured")
	}
	doc = doc.Clone()
	doc.Normalize()
	if err := validateDocument(&doc); err != nil {
		return err
	}
	if err := s.assignImportIDs(&doc); err != nil {
		return err
	}
	if err := s.store.Replace(ctx, doc); err != nil {
		return translate(err)
	}
	return nil
}

// Stats returns dashboard counters.
func (s *Service) Stats(ctx context.Context) (Stats, error) {
	doc, err := s.load(ctx)
	if err != nil {
		return Stats{}, err
	}
	stats := Stats{
		Views:          doc.Analytics.Views,
		Messages:       len(doc.Messages),
		Categories:     len(doc.Categories),
		Skills:         len(doc.Skills),
		Projects:       len(doc.Projects),
		Experiences:    len(doc.Experiences),
		Certifications: len(doc.Certifications),
	}
	for _, m := range doc.Messages {
		if !m.Read {
			stats.UnreadMessages++
		}
	}
	return stats, nil
}

func (s *Service) load(ctx context.Context) (content.Document, error) {
	if s == nil || s.store == nil {
		return content.Document{}, apperrors.E(apperrors.KindUnavailable, "content store is not configured")
	}
	doc, err := s.store.Load(ctx)
	if err != nil {
		return content.Document{}, translate(err)
	}
	return doc, nil
}

func (s *Service) update(ctx context.Context, fn storage.MutateFunc) error {
	if s == nil || s.store == nil {
		return apperrors.E(apperrors.KindUnavailable, "content store is not configured")
	}
	if _, err := s.store.Update(ctx, fn); err != nil {
		return translate(err)
	}
	return nil
}

func (s *Service) now() content.Timestamp {
	return content.NewTimestamp(s.clock())
}

// translate classifies store failures. Typed errors raised inside mutations
// pass through unchanged.
func translate(err error) error {
	if err == nil {
		return nil
	}
	var appErr *apperrors.Error
	switch {
	case errors.As(err, &appErr):
		return err
	case errors.Is(err, storage.ErrCorrupt):
		return apperrors.Wrap(apperrors.KindUnavailable, "content data is unreadable", err)
	case errors.Is(err, storage.ErrClosed):
		return apperrors.Wrap(apperrors.KindUnavailable, "content store is closed", err)
	case errors.Is(err, storage.ErrNotFound):
		return apperrors.Wrap(apperrors.KindNotFound, "record not found", err)
	case errors.Is(err, storage.ErrAlreadyExists):
		return apperrors.Wrap(apperrors.KindConflict, "record already exists", err)
	case errors.Is(err, storage.ErrConflict):
		return apperrors.Wrap(apperrors.KindConflict, "record is referenced", err)
	default:
		return apperrors.Wrap(apperrors.KindUnknown, "content store failure", err)
	}
}

func notFound(entity, recordID string) error {
	return apperrors.Wrap(apperrors.KindNotFound, entity+" not found",
		fmt.Errorf("%s %q: %w", entity, recordID, storage.ErrNotFound))
}

func requireID(recordID string) (string, error) {
	recordID = strings.TrimSpace(recordID)
	if recordID == "" {
		return "", apperrors.E(apperrors.KindInvalidInput, "id is required")
	}
	return recordID, nil
}

// list returns a copy of one collection.
func list[T any](ctx context.Context, s *Service, field func(*content.Document) *[]T) ([]T, error) {
	doc, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	return *field(&doc), nil
}

// insert appends the record built by prepare. prepare may run more than once
// when the store retries, so it must derive everything from doc.
func insert[T any](ctx context.Context, s *Service, field func(*content.Document) *[]T, prepare func(doc *content.Document, recordID string) (T, error)) (T, error) {
	var created T
	err := s.update(ctx, func(doc *content.Document) error {
		recordID, err := s.newID()
		if err != nil {
			return apperrors.Wrap(apperrors.KindUnknown, "generate id", err)
		}
		item, err := prepare(doc, recordID)
		if err != nil {
			return err
		}
		items := field(doc)
		*items = append(*items, item)
		created = item
		return nil
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return created, nil
}

// modify edits the record with recordID in place.
func modify[T content.Identified](ctx context.Context, s *Service, entity, recordID string, field func(*content.Document) *[]T, edit func(doc *content.Document, item *T) error) (T, error) {
	var zero T
	recordID, err := requireID(recordID)
	if err != nil {
		return zero, err
	}
	var updated T
	err = s.update(ctx, func(doc *content.Document) error {
		items := field(doc)
		idx := content.IndexOf(*items, recordID)
		if idx == -1 {
			return notFound(entity, recordID)
		}
		item := (*items)[idx]
		if err := edit(doc, &item); err != nil {
			return err
		}
		(*items)[idx] = item
		updated = item
		return nil
	})
	if err != nil {
		return zero, err
	}
	return updated, nil
}

// remove deletes the record with recordID. guard, when set, can veto the
// deletion after the record is found.
func remove[T content.Identified](ctx context.Context, s *Service, entity, recordID string, field func(*content.Document) *[]T, guard func(doc content.Document, item T) error) error {
	recordID, err := requireID(recordID)
	if err != nil {
		return err
	}
	return s.update(ctx, func(doc *content.Document) error {
		items := field(doc)
		idx := content.IndexOf(*items, recordID)
		if idx == -1 {
			return notFound(entity, recordID)
		}
		if guard != nil {
			if err := guard(*doc, (*items)[idx]); err != nil {
				return err
			}
		}
		*items, _ = content.Remove(*items, recordID)
		return nil
	})
}

package service

import (
	"context"

	"github.com/louisbranch/portfolio/internal/services/portfolio/content"
)

// IncrementViews counts one page view and returns the new total.
func (s *Service) IncrementViews(ctx context.Context) (int64, error) {
	var views int64
	err := s.update(ctx, func(doc *content.Document) error {
		doc.Analytics.Views++
		doc.Analytics.LastUpdated = s.now()
		views = doc.Analytics.Views
		return nil
	})
	if err != nil {
		return 0, err
	}
	return views, nil
}

// Views returns the page-view total.
func (s *Service) Views(ctx context.Context) (int64, error) {
	doc, err := s.load(ctx)
	if err != nil {
		return 0, err
	}
	return doc.Analytics.Views, nil
}

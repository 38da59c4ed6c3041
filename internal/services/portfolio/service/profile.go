package service

import (
	"context"

	"github.com/louisbranch/portfolio/internal/services/portfolio/content"
)

// Profile returns the owner profile.
func (s *Service) Profile(ctx context.Context) (content.Profile, error) {
	doc, err := s.load(ctx)
	if err != nil {
		return content.Profile{}, err
	}
	return doc.Profile, nil
}

// ReplaceProfile overwrites the profile wholesale.
func (s *Service) ReplaceProfile(ctx context.Context, profile content.Profile) (content.Profile, error) {
	profile.Normalize()
	if err := s.update(ctx, func(doc *content.Document) error {
		doc.Profile = profile
		return nil
	}); err != nil {
		return content.Profile{}, err
	}
	return profile, nil
}

package service

import (
	"fmt"
	"strings"

	apperrors "github.com/louisbranch/portfolio/internal/platform/errors"
	"github.com/louisbranch/portfolio/internal/services/portfolio/content"
)

// validateDocument normalizes and checks every editable record of an imported
// document. Category references are left as is so older files with free-form
// categories still import.
func validateDocument(doc *content.Document) error {
	doc.Profile.Normalize()
	seen := make(map[string]bool, len(doc.Categories))
	for i := range doc.Categories {
		c := &doc.Categories[i]
		c.Normalize()
		if err := c.Validate(); err != nil {
			return recordError("categories", i, err)
		}
		if seen[c.Slug] {
			return recordError("categories", i, slugTaken(c.Slug))
		}
		seen[c.Slug] = true
	}
	for i := range doc.Skills {
		doc.Skills[i].Normalize()
		if err := doc.Skills[i].Validate(); err != nil {
			return recordError("skills", i, err)
		}
	}
	for i := range doc.Projects {
		doc.Projects[i].Normalize()
		if err := doc.Projects[i].Validate(); err != nil {
			return recordError("projects", i, err)
		}
	}
	for i := range doc.Experiences {
		doc.Experiences[i].Normalize()
		if err := doc.Experiences[i].Validate(); err != nil {
			return recordError("experiences", i, err)
		}
	}
	for i := range doc.Certifications {
		if err := doc.Certifications[i].Validate(); err != nil {
			return recordError("certifications", i, err)
		}
	}
	return nil
}

// assignImportIDs gives blank-id records a fresh id and rejects ids repeated
// within one collection.
func (s *Service) assignImportIDs(doc *content.Document) error {
	if err := assignIDs(s, "categories", doc.Categories, func(c *content.Category) *string { return &c.ID }); err != nil {
		return err
	}
	if err := assignIDs(s, "skills", doc.Skills, func(sk *content.Skill) *string { return &sk.ID }); err != nil {
		return err
	}
	if err := assignIDs(s, "projects", doc.Projects, func(p *content.Project) *string { return &p.ID }); err != nil {
		return err
	}
	if err := assignIDs(s, "experiences", doc.Experiences, func(e *content.Experience) *string { return &e.ID }); err != nil {
		return err
	}
	if err := assignIDs(s, "certifications", doc.Certifications, func(c *content.Certification) *string { return &c.ID }); err != nil {
		return err
	}
	return assignIDs(s, "messages", doc.Messages, func(m *content.ContactMessage) *string { return &m.ID })
}

func assignIDs[T any](s *Service, collection string, items []T, idOf func(*T) *string) error {
	seen := make(map[string]bool, len(items))
	for i := range items {
		recordID := idOf(&items[i])
		*recordID = strings.TrimSpace(*recordID)
		if *recordID == "" {
			fresh, err := s.newID()
			if err != nil {
				return fmt.Errorf("generate id: %w", err)
			}
			*recordID = fresh
		}
		if seen[*recordID] {
			return recordError(collection, i, apperrors.E(apperrors.KindInvalidInput, fmt.Sprintf("duplicate id %q", *recordID)))
		}
		seen[*recordID] = true
	}
	return nil
}

func recordError(collection string, index int, err error) error {
	kind := apperrors.KindOf(err)
	if kind == apperrors.KindUnknown {
		kind = apperrors.KindInvalidInput
	}
	return apperrors.Wrap(kind, fmt.Sprintf("%s[%d]: %s", collection, index, apperrors.PublicMessage(err)), err)
}

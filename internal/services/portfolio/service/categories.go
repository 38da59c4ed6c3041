package service

import (
	"context"
	"fmt"

	apperrors "github.com/louisbranch/portfolio/internal/platform/errors"
	"github.com/louisbranch/portfolio/internal/services/portfolio/content"
	"github.com/louisbranch/portfolio/internal/services/portfolio/storage"
)

const entityCategory = "category"

func categories(doc *content.Document) *[]content.Category { return &doc.Categories }

// ListCategories returns every category in stored order.
func (s *Service) ListCategories(ctx context.Context) ([]content.Category, error) {
	return list(ctx, s, categories)
}

// CreateCategory adds a category. A missing slug is derived from the name.
func (s *Service) CreateCategory(ctx context.Context, input content.Category) (content.Category, error) {
	return insert(ctx, s, categories, func(doc *content.Document, recordID string) (content.Category, error) {
		c := input
		c.ID = recordID
		c.Normalize()
		if err := c.Validate(); err != nil {
			return content.Category{}, err
		}
		if _, taken := doc.CategoryBySlug(c.Slug); taken {
			return content.Category{}, slugTaken(c.Slug)
		}
		return c, nil
	})
}

// UpdateCategory merges patch into the category. Renaming the slug rewrites
// every skill and project that referenced the old one.
func (s *Service) UpdateCategory(ctx context.Context, recordID string, patch content.CategoryPatch) (content.Category, error) {
	return modify(ctx, s, entityCategory, recordID, categories, func(doc *content.Document, c *content.Category) error {
		previous := c.Slug
		patch.Apply(c)
		c.Normalize()
		if err := c.Validate(); err != nil {
			return err
		}
		if c.Slug != previous {
			if existing, taken := doc.CategoryBySlug(c.Slug); taken && existing.ID != c.ID {
				return slugTaken(c.Slug)
			}
			doc.RenameCategory(previous, c.Slug)
		}
		return nil
	})
}

// DeleteCategory removes a category no skill or project references.
func (s *Service) DeleteCategory(ctx context.Context, recordID string) error {
	return remove(ctx, s, entityCategory, recordID, categories, func(doc content.Document, c content.Category) error {
		skills, projects := doc.CategoryReferences(c.Slug)
		if skills+projects == 0 {
			return nil
		}
		return apperrors.Wrap(apperrors.KindConflict,
			fmt.Sprintf("category is used by %d skill(s) and %d project(s)", skills, projects),
			fmt.Errorf("category %q: %w", c.Slug, storage.ErrConflict))
	})
}

func slugTaken(slug string) error {
	return apperrors.Wrap(apperrors.KindConflict, "category slug already exists",
		fmt.Errorf("slug %q: %w", slug, storage.ErrAlreadyExists))
}

// requireCategory checks that a non-empty reference names an existing category.
func requireCategory(doc content.Document, slug string) error {
	if slug == "" {
		return nil
	}
	if _, ok := doc.CategoryBySlug(slug); !ok {
		return apperrors.E(apperrors.KindInvalidInput, fmt.Sprintf("category %q does not exist", slug))
	}
	return nil
}

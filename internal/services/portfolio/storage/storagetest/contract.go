// Package storagetest holds behavior checks shared by every storage.Store
// backend.
package storagetest

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
	"golang.org/x/sync/errgroup"

	"github.com/louisbranch/portfolio/internal/services/portfolio/content"
	"github.com/louisbranch/portfolio/internal/services/portfolio/storage"
)

// Opener returns a fresh, empty store. The test owns closing it.
type Opener func(t *testing.T) storage.Store

// Run exercises the storage.Store contract against stores built by open.
func Run(t *testing.T, open Opener) {
	t.Helper()

	t.Run("load empty", func(t *testing.T) {
		store := open(t)
		got, err := store.Load(context.Background())
		if err != nil {
			t.Fatalf("load: %v", err)
		}
		if diff := cmp.Diff(content.Empty(), got); diff != "" {
			t.Fatalf("load empty mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("replace then load", func(t *testing.T) {
		store := open(t)
		want := Sample()
		if err := store.Replace(context.Background(), want); err != nil {
			t.Fatalf("replace: %v", err)
		}
		got, err := store.Load(context.Background())
		if err != nil {
			t.Fatalf("load: %v", err)
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("update persists", func(t *testing.T) {
		store := open(t)
		committed, err := store.Update(context.Background(), func(doc *content.Document) error {
			doc.Skills = append(doc.Skills, content.Skill{ID: "s1", Name: "Go"})
			return nil
		})
		if err != nil {
			t.Fatalf("update: %v", err)
		}
		if len(committed.Skills) != 1 {
			t.Fatalf("committed skills = %d, want 1", len(committed.Skills))
		}
		got, err := store.Load(context.Background())
		if err != nil {
			t.Fatalf("load: %v", err)
		}
		if diff := cmp.Diff(committed, got); diff != "" {
			t.Fatalf("load after update mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("update error aborts", func(t *testing.T) {
		store := open(t)
		boom := errors.New("boom")
		_, err := store.Update(context.Background(), func(doc *content.Document) error {
			doc.Profile.Name = "changed"
			return boom
		})
		if !errors.Is(err, boom) {
			t.Fatalf("update err = %v, want %v", err, boom)
		}
		got, err := store.Load(context.Background())
		if err != nil {
			t.Fatalf("load: %v", err)
		}
		if got.Profile.Name != "" {
			t.Fatalf("profile name = %q, want empty", got.Profile.Name)
		}
	})

	t.Run("loaded document is a copy", func(t *testing.T) {
		store := open(t)
		if err := store.Replace(context.Background(), Sample()); err != nil {
			t.Fatalf("replace: %v", err)
		}
		first, err := store.Load(context.Background())
		if err != nil {
			t.Fatalf("load: %v", err)
		}
		first.Skills[0].Name = "mutated"
		second, err := store.Load(context.Background())
		if err != nil {
			t.Fatalf("load: %v", err)
		}
		if second.Skills[0].Name == "mutated" {
			t.Fatal("mutating a loaded document leaked into the store")
		}
	})

	t.Run("concurrent updates lose nothing", func(t *testing.T) {
		store := open(t)
		const writers = 10
		var g errgroup.Group
		for i := 0; i < writers; i++ {
			i := i
			g.Go(func() error {
				_, err := store.Update(context.Background(), func(doc *content.Document) error {
					doc.Skills = append(doc.Skills, content.Skill{ID: fmt.Sprintf("s%d", i), Name: "Go"})
					doc.Analytics.Views++
					return nil
				})
				return err
			})
		}
		if err := g.Wait(); err != nil {
			t.Fatalf("update: %v", err)
		}
		got, err := store.Load(context.Background())
		if err != nil {
			t.Fatalf("load: %v", err)
		}
		if len(got.Skills) != writers {
			t.Fatalf("skills = %d, want %d", len(got.Skills), writers)
		}
		if got.Analytics.Views != writers {
			t.Fatalf("views = %d, want %d", got.Analytics.Views, writers)
		}
	})

	t.Run("canceled context", func(t *testing.T) {
		store := open(t)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		if _, err := store.Load(ctx); !errors.Is(err, context.Canceled) {
			t.Fatalf("load err = %v, want context.Canceled", err)
		}
		if _, err := store.Update(ctx, func(*content.Document) error { return nil }); !errors.Is(err, context.Canceled) {
			t.Fatalf("update err = %v, want context.Canceled", err)
		}
	})
}

// Sample returns a small document touching every collection.
func Sample() content.Document {
	doc := content.Document{
		Profile: content.Profile{
			Name:      "Ada",
			Title:     "Engineer",
			Email:     "ada@example.com",
			Available: true,
			SocialLinks: content.SocialLinks{
				GitHub: "https://github.com/ada",
			},
		},
		Categories:     []content.Category{{ID: "c1", Name: "Cloud", Slug: "cloud", Color: "cyan"}},
		Skills:         []content.Skill{{ID: "s1", Name: "Go", Category: "cloud", Icon: "go"}},
		Projects:       []content.Project{{ID: "p1", Title: "Site", Tags: []string{"go", "web"}, Category: "cloud", Featured: true}},
		Experiences:    []content.Experience{{ID: "e1", Company: "Acme", Role: "Dev", Period: "2020 - now", Technologies: []string{"go"}}},
		Certifications: []content.Certification{{ID: "x1", Name: "CKA", Issuer: "CNCF", Year: "2023"}},
		Analytics:      content.Analytics{Views: 7},
		Messages:       []content.ContactMessage{{ID: "m1", Name: "Bob", Email: "bob@example.com", Subject: "Hi", Message: "Hello"}},
	}
	doc.Normalize()
	return doc
}

package jsonfile

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/louisbranch/portfolio/internal/services/portfolio/content"
	"github.com/louisbranch/portfolio/internal/services/portfolio/storage"
	"github.com/louisbranch/portfolio/internal/services/portfolio/storage/storagetest"
)

func openTempStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "data", "portfolio.json"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestStoreContract(t *testing.T) {
	storagetest.Run(t, func(t *testing.T) storage.Store {
		return openTempStore(t)
	})
}

func TestOpenRequiresPath(t *testing.T) {
	t.Parallel()

	if _, err := Open("  "); err == nil {
		t.Fatal("expected empty path error")
	}
}

func TestUpdateWritesIndentedJSON(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	if _, err := store.Update(context.Background(), func(doc *content.Document) error {
		doc.Profile.Name = "Ada"
		return nil
	}); err != nil {
		t.Fatalf("update: %v", err)
	}

	data, err := os.ReadFile(store.Path())
	if err != nil {
		t.Fatalf("read file: %v", err)
	}
	if !strings.Contains(string(data), "\n  \"profile\": {") {
		t.Fatalf("file is not 2-space indented:\n%s", data)
	}
	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("decode file: %v", err)
	}
	for _, key := range []string{"profile", "categories", "skills", "projects", "experiences", "certifications", "analytics", "messages"} {
		if _, ok := decoded[key]; !ok {
			t.Fatalf("file missing key %q", key)
		}
	}

	entries, err := os.ReadDir(filepath.Dir(store.Path()))
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("dir entries = %d, want 1 (temp files left behind)", len(entries))
	}
}

func TestLoadReadsLegacyFile(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	legacy := `{"profile":{"name":"Ada"},"skills":[{"id":"1700000000000","name":"Go","category":"","icon":""}],"analytics":{"views":3,"lastUpdated":""}}`
	if err := os.WriteFile(store.Path(), []byte(legacy), 0o644); err != nil {
		t.Fatalf("write legacy: %v", err)
	}

	got, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.Profile.Name != "Ada" {
		t.Fatalf("profile name = %q, want %q", got.Profile.Name, "Ada")
	}
	if len(got.Skills) != 1 || got.Skills[0].ID != "1700000000000" {
		t.Fatalf("skills = %+v, want legacy skill", got.Skills)
	}
	if got.Projects == nil || got.Messages == nil {
		t.Fatal("missing collections were not normalized to empty")
	}
	if got.Analytics.Views != 3 {
		t.Fatalf("views = %d, want 3", got.Analytics.Views)
	}
}

func TestCorruptFileDegradesReadsAndRefusesWrites(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	if err := os.WriteFile(store.Path(), []byte("{not json"), 0o644); err != nil {
		t.Fatalf("write corrupt: %v", err)
	}

	got, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(got.Skills) != 0 || got.Skills == nil {
		t.Fatalf("skills = %#v, want empty", got.Skills)
	}

	_, err = store.Update(context.Background(), func(doc *content.Document) error {
		doc.Profile.Name = "Ada"
		return nil
	})
	if !errors.Is(err, storage.ErrCorrupt) {
		t.Fatalf("update err = %v, want ErrCorrupt", err)
	}
	data, err := os.ReadFile(store.Path())
	if err != nil {
		t.Fatalf("read file: %v", err)
	}
	if string(data) != "{not json" {
		t.Fatalf("corrupt file was overwritten: %q", data)
	}

	if err := store.Replace(context.Background(), storagetest.Sample()); err != nil {
		t.Fatalf("replace: %v", err)
	}
	got, err = store.Load(context.Background())
	if err != nil {
		t.Fatalf("load after replace: %v", err)
	}
	if got.Profile.Name != "Ada" {
		t.Fatalf("profile name = %q, want %q", got.Profile.Name, "Ada")
	}
}

func TestInvalidateRereadsFile(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	if err := store.Replace(context.Background(), storagetest.Sample()); err != nil {
		t.Fatalf("replace: %v", err)
	}
	if err := os.WriteFile(store.Path(), []byte(`{"profile":{"name":"Edited"}}`), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	cached, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cached.Profile.Name != "Ada" {
		t.Fatalf("cached profile name = %q, want %q", cached.Profile.Name, "Ada")
	}

	store.Invalidate()
	fresh, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if fresh.Profile.Name != "Edited" {
		t.Fatalf("fresh profile name = %q, want %q", fresh.Profile.Name, "Edited")
	}
}

func TestClosedStore(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	if err := store.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if _, err := store.Load(context.Background()); !errors.Is(err, storage.ErrClosed) {
		t.Fatalf("load err = %v, want ErrClosed", err)
	}
	if _, err := store.Update(context.Background(), func(*content.Document) error { return nil }); !errors.Is(err, storage.ErrClosed) {
		t.Fatalf("update err = %v, want ErrClosed", err)
	}
	if err := store.Replace(context.Background(), content.Empty()); !errors.Is(err, storage.ErrClosed) {
		t.Fatalf("replace err = %v, want ErrClosed", err)
	}
}

package jsonfile

import (
	"context"
	"os"
	"testing"
	"time"

	"go.uber.org/goleak"

	"github.com/louisbranch/portfolio/internal/services/portfolio/content"
	"github.com/louisbranch/portfolio/internal/services/portfolio/storage/storagetest"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestWatcherInvalidatesOnExternalEdit(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	if err := store.Replace(context.Background(), storagetest.Sample()); err != nil {
		t.Fatalf("replace: %v", err)
	}
	if _, err := store.Load(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}

	watcher, err := store.NewWatcher(20 * time.Millisecond)
	if err != nil {
		t.Fatalf("new watcher: %v", err)
	}
	reloaded := make(chan struct{}, 8)
	watcher.onReload = func() { reloaded <- struct{}{} }

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- watcher.Run(ctx) }()
	t.Cleanup(func() {
		cancel()
		if err := <-done; err != nil {
			t.Errorf("watcher run: %v", err)
		}
	})

	if err := os.WriteFile(store.Path(), []byte(`{"profile":{"name":"Edited"}}`), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	deadline := time.After(5 * time.Second)
	for {
		select {
		case <-reloaded:
		case <-deadline:
			t.Fatal("watcher did not invalidate the cache")
		}
		doc, err := store.Load(context.Background())
		if err != nil {
			t.Fatalf("load: %v", err)
		}
		if doc.Profile.Name == "Edited" {
			return
		}
	}
}

func TestChangedOnDiskIgnoresOwnWrites(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	if !store.changedOnDisk() {
		t.Fatal("expected a store that never wrote to report a change")
	}
	if _, err := store.Update(context.Background(), func(doc *content.Document) error {
		doc.Analytics.Views++
		return nil
	}); err != nil {
		t.Fatalf("update: %v", err)
	}
	if store.changedOnDisk() {
		t.Fatal("own write reported as external change")
	}
	if err := os.WriteFile(store.Path(), []byte(`{"profile":{"name":"Edited"}}`), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if !store.changedOnDisk() {
		t.Fatal("external edit not detected")
	}
}

func TestWatcherSkipsOwnWrites(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	watcher, err := store.NewWatcher(10 * time.Millisecond)
	if err != nil {
		t.Fatalf("new watcher: %v", err)
	}
	reloaded := make(chan struct{}, 8)
	watcher.onReload = func() { reloaded <- struct{}{} }

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- watcher.Run(ctx) }()
	t.Cleanup(func() {
		cancel()
		if err := <-done; err != nil {
			t.Errorf("watcher run: %v", err)
		}
	})

	for rep := 0; rep < 3; rep++ {
		if _, err := store.Update(context.Background(), func(doc *content.Document) error {
			doc.Analytics.Views++
			return nil
		}); err != nil {
			t.Fatalf("update: %v", err)
		}
	}
	select {
	case <-reloaded:
		t.Fatal("watcher invalidated the cache after the store's own write")
	case <-time.After(200 * time.Millisecond):
	}
}

func TestWatcherStopsOnCancel(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	watcher, err := store.NewWatcher(0)
	if err != nil {
		t.Fatalf("new watcher: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := watcher.Run(ctx); err != nil {
		t.Fatalf("run: %v", err)
	}
}

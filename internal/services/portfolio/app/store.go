package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/louisbranch/portfolio/internal/services/portfolio/storage"
	"github.com/louisbranch/portfolio/internal/services/portfolio/storage/jsonfile"
	"github.com/louisbranch/portfolio/internal/services/portfolio/storage/sqlite"
)

// Storage backends.
const (
	BackendJSON   = "json"
	BackendSQLite = "sqlite"
)

// StoreConfig selects and locates the content store.
type StoreConfig struct {
	Backend    string
	DataPath   string
	SQLitePath string
	Watch      bool
}

// OpenedStore is an open backend. JSON is set only for the json backend so
// callers can attach a file watcher.
type OpenedStore struct {
	Store storage.Store
	JSON  *jsonfile.Store
}

// OpenStore opens the configured backend.
func OpenStore(ctx context.Context, cfg StoreConfig, logger zerolog.Logger) (OpenedStore, error) {
	switch backend := strings.ToLower(strings.TrimSpace(cfg.Backend)); backend {
	case "", BackendJSON:
		store, err := jsonfile.Open(cfg.DataPath, jsonfile.WithLogger(logger))
		if err != nil {
			return OpenedStore{}, fmt.Errorf("open json store: %w", err)
		}
		return OpenedStore{Store: store, JSON: store}, nil
	case BackendSQLite:
		store, err := sqlite.Open(ctx, cfg.SQLitePath, sqlite.WithLogger(logger))
		if err != nil {
			return OpenedStore{}, fmt.Errorf("open sqlite store: %w", err)
		}
		return OpenedStore{Store: store}, nil
	default:
		return OpenedStore{}, fmt.Errorf("unknown storage backend %q (want %s or %s)", cfg.Backend, BackendJSON, BackendSQLite)
	}
}

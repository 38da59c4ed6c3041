// Package app wires the portfolio runtime: storage, sessions, service and the
// HTTP server lifecycle.
package app

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/louisbranch/portfolio/internal/platform/timeouts"
	"github.com/louisbranch/portfolio/internal/services/portfolio/httpapi"
	"github.com/louisbranch/portfolio/internal/services/portfolio/platform/sessioncookie"
	"github.com/louisbranch/portfolio/internal/services/portfolio/service"
	"github.com/louisbranch/portfolio/internal/services/portfolio/session"
	"github.com/louisbranch/portfolio/internal/services/portfolio/storage"
	"github.com/louisbranch/portfolio/internal/services/portfolio/storage/jsonfile"
)

// Config holds everything the server needs at startup.
type Config struct {
	HTTPAddr string
	Store    StoreConfig
	Session  session.Config
	Cookie   sessioncookie.Policy
	Logger   zerolog.Logger
}

// Server hosts the portfolio HTTP API and owns the store lifecycle.
type Server struct {
	listener   net.Listener
	httpServer *http.Server
	store      storage.Store
	watcher    *jsonfile.Watcher
	logger     zerolog.Logger
}

// New opens the store and binds the listener.
func New(ctx context.Context, cfg Config) (*Server, error) {
	addr := strings.TrimSpace(cfg.HTTPAddr)
	if addr == "" {
		return nil, errors.New("http address is required")
	}
	logger := cfg.Logger

	sessions, err := session.NewManager(cfg.Session)
	if err != nil {
		return nil, fmt.Errorf("session manager: %w", err)
	}
	if sessions.UsesDefaultSecret() {
		logger.Warn().Msg("using the default session secret; set PORTFOLIO_JWT_SECRET")
	}

	opened, err := OpenStore(ctx, cfg.Store, logger)
	if err != nil {
		return nil, err
	}
	if opened.JSON != nil {
		logger.Info().Str("backend", BackendJSON).Str("path", opened.JSON.Path()).Msg("content store opened")
	} else {
		logger.Info().Str("backend", BackendSQLite).Str("path", cfg.Store.SQLitePath).Msg("content store opened")
	}
	var watcher *jsonfile.Watcher
	cleanup := func() {
		if watcher != nil {
			_ = watcher.Close()
		}
		_ = opened.Store.Close()
	}
	if cfg.Store.Watch {
		if opened.JSON == nil {
			logger.Warn().Str("backend", cfg.Store.Backend).Msg("data file watching only applies to the json backend")
		} else {
			watcher, err = opened.JSON.NewWatcher(timeouts.WatchDebounce)
			if err != nil {
				_ = opened.Store.Close()
				return nil, err
			}
		}
	}

	handler, err := httpapi.NewHandler(httpapi.Config{
		Content:  service.New(opened.Store),
		Sessions: sessions,
		Logger:   logger,
		Cookie:   cfg.Cookie,
	})
	if err != nil {
		cleanup()
		return nil, err
	}

	listener, err := net.Listen("tcp", addr)
	if err != nil {
		cleanup()
		return nil, fmt.Errorf("listen on %s: %w", addr, err)
	}

	return &Server{
		listener: listener,
		httpServer: &http.Server{
			Handler:           handler,
			ReadHeaderTimeout: timeouts.ReadHeader,
			ReadTimeout:       timeouts.Request,
			WriteTimeout:      timeouts.Request,
		},
		store:   opened.Store,
		watcher: watcher,
		logger:  logger,
	}, nil
}

// Addr returns the listener address for the server.
func (s *Server) Addr() string {
	if s == nil || s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// ListenAndServe runs the HTTP server, and the data watcher when enabled,
// until the context ends. On cancellation it performs a bounded shutdown so
// in-flight requests drain before the store closes.
func (s *Server) ListenAndServe(ctx context.Context) error {
	if s == nil {
		return errors.New("portfolio server is nil")
	}
	if ctx == nil {
		return errors.New("context is required")
	}
	defer func() {
		if err := s.store.Close(); err != nil {
			s.logger.Warn().Err(err).Msg("close content store")
		}
	}()

	g, gctx := errgroup.WithContext(ctx)
	s.logger.Info().Str("addr", s.Addr()).Msg("portfolio listening")
	g.Go(func() error {
		if err := s.httpServer.Serve(s.listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve http: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeouts.Shutdown)
		defer cancel()
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		return nil
	})
	if s.watcher != nil {
		g.Go(func() error {
			return s.watcher.Run(gctx)
		})
	}
	return g.Wait()
}

// Run creates and serves a portfolio server until context cancellation.
func Run(ctx context.Context, cfg Config) error {
	server, err := New(ctx, cfg)
	if err != nil {
		return err
	}
	return server.ListenAndServe(ctx)
}

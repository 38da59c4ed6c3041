// Package portfolio parses portfolio server flags and launches the service.
package portfolio

import (
	"context"
	"flag"
	"os"
	"time"

	entrypoint "github.com/louisbranch/portfolio/internal/platform/cmd"
	"github.com/louisbranch/portfolio/internal/platform/logging"
	"github.com/louisbranch/portfolio/internal/services/portfolio/app"
	"github.com/louisbranch/portfolio/internal/services/portfolio/platform/sessioncookie"
	"github.com/louisbranch/portfolio/internal/services/portfolio/session"
)

// Config holds portfolio command configuration.
type Config struct {
	HTTPAddr       string `env:"PORTFOLIO_HTTP_ADDR" envDefault:"localhost:3000"`
	StorageBackend string `env:"PORTFOLIO_STORAGE_BACKEND" envDefault:"json"`
	DataPath       string `env:"PORTFOLIO_DATA_PATH" envDefault:"data/portfolio.json"`
	SQLitePath     string `env:"PORTFOLIO_SQLITE_PATH" envDefault:"data/portfolio.db"`
	WatchData      bool   `env:"PORTFOLIO_WATCH_DATA" envDefault:"false"`

	JWTSecret         string        `env:"PORTFOLIO_JWT_SECRET" envDefault:"default-secret-change-in-production"`
	AdminUsername     string        `env:"PORTFOLIO_ADMIN_USERNAME" envDefault:"admin"`
	AdminPassword     string        `env:"PORTFOLIO_ADMIN_PASSWORD" envDefault:"admin123"`
	AdminPasswordHash string        `env:"PORTFOLIO_ADMIN_PASSWORD_HASH"`
	SessionTTL        time.Duration `env:"PORTFOLIO_SESSION_TTL" envDefault:"24h"`
	CookieSecure      bool          `env:"PORTFOLIO_COOKIE_SECURE" envDefault:"false"`
	TrustProxy        bool          `env:"PORTFOLIO_TRUST_FORWARDED_PROTO" envDefault:"false"`

	LogLevel  string `env:"PORTFOLIO_LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"PORTFOLIO_LOG_FORMAT" envDefault:"json"`
}

// ParseConfig parses environment and flags into Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.StringVar(&cfg.HTTPAddr, "http-addr", cfg.HTTPAddr, "HTTP listen address")
	fs.StringVar(&cfg.StorageBackend, "storage", cfg.StorageBackend, "Content storage backend (json or sqlite)")
	fs.StringVar(&cfg.DataPath, "data", cfg.DataPath, "Path to the JSON content file")
	fs.StringVar(&cfg.SQLitePath, "sqlite", cfg.SQLitePath, "Path to the SQLite content database")
	fs.BoolVar(&cfg.WatchData, "watch", cfg.WatchData, "Reload the JSON content file when it changes on disk")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level (debug, info, warn, error)")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// AppConfig maps command configuration onto the runtime configuration.
func (c Config) AppConfig() app.Config {
	return app.Config{
		HTTPAddr: c.HTTPAddr,
		Store: app.StoreConfig{
			Backend:    c.StorageBackend,
			DataPath:   c.DataPath,
			SQLitePath: c.SQLitePath,
			Watch:      c.WatchData,
		},
		Session: session.Config{
			Secret:       c.JWTSecret,
			Username:     c.AdminUsername,
			Password:     c.AdminPassword,
			PasswordHash: c.AdminPasswordHash,
			TTL:          c.SessionTTL,
		},
		Cookie: sessioncookie.Policy{
			ForceSecure:         c.CookieSecure,
			TrustForwardedProto: c.TrustProxy,
		},
	}
}

// Run starts the portfolio HTTP service.
func Run(ctx context.Context, cfg Config) error {
	logger, err := logging.New(logging.Options{
		Level:   cfg.LogLevel,
		Format:  cfg.LogFormat,
		Service: entrypoint.ServicePortfolio,
		Writer:  os.Stderr,
	})
	if err != nil {
		return err
	}
	appCfg := cfg.AppConfig()
	appCfg.Logger = logger
	return entrypoint.RunWithTelemetryAndOptions(ctx, entrypoint.ServicePortfolio, entrypoint.RunOptions{Logger: &logger}, func(ctx context.Context) error {
		return app.Run(ctx, appCfg)
	})
}

// Package portfolioctl implements the operator CLI for the portfolio content
// store.
package portfolioctl

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v3"

	"github.com/louisbranch/portfolio/internal/platform/config"
	"github.com/louisbranch/portfolio/internal/services/portfolio/app"
	"github.com/louisbranch/portfolio/internal/services/portfolio/content"
	"github.com/louisbranch/portfolio/internal/services/portfolio/service"
	"github.com/louisbranch/portfolio/internal/services/portfolio/session"
)

// Config holds the environment the CLI shares with the server.
type Config struct {
	StorageBackend    string        `env:"PORTFOLIO_STORAGE_BACKEND" envDefault:"json"`
	DataPath          string        `env:"PORTFOLIO_DATA_PATH" envDefault:"data/portfolio.json"`
	SQLitePath        string        `env:"PORTFOLIO_SQLITE_PATH" envDefault:"data/portfolio.db"`
	JWTSecret         string        `env:"PORTFOLIO_JWT_SECRET" envDefault:"default-secret-change-in-production"`
	AdminUsername     string        `env:"PORTFOLIO_ADMIN_USERNAME" envDefault:"admin"`
	AdminPassword     string        `env:"PORTFOLIO_ADMIN_PASSWORD" envDefault:"admin123"`
	AdminPasswordHash string        `env:"PORTFOLIO_ADMIN_PASSWORD_HASH"`
	SessionTTL        time.Duration `env:"PORTFOLIO_SESSION_TTL" envDefault:"24h"`
}

// Options controls process bindings so commands can run under test.
type Options struct {
	// Environ replaces the process environment when non-nil.
	Environ map[string]string
	Stdin   io.Reader
	Stdout  io.Writer
	Stderr  io.Writer
}

type cli struct {
	opts Options
	cfg  Config

	storage string
	data    string
	sqlite  string
}

// NewRootCommand builds the portfolioctl command tree.
func NewRootCommand(opts Options) *cobra.Command {
	if opts.Stdin == nil {
		opts.Stdin = os.Stdin
	}
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.Stderr == nil {
		opts.Stderr = os.Stderr
	}
	c := &cli{opts: opts}

	root := &cobra.Command{
		Use:           "portfolioctl",
		Short:         "Manage the portfolio content store",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return c.loadConfig(cmd)
		},
	}
	root.SetIn(opts.Stdin)
	root.SetOut(opts.Stdout)
	root.SetErr(opts.Stderr)

	flags := root.PersistentFlags()
	flags.StringVar(&c.storage, "storage", "", "content storage backend (json or sqlite); env PORTFOLIO_STORAGE_BACKEND")
	flags.StringVar(&c.data, "data", "", "path to the JSON content file; env PORTFOLIO_DATA_PATH")
	flags.StringVar(&c.sqlite, "sqlite", "", "path to the SQLite content database; env PORTFOLIO_SQLITE_PATH")

	root.AddCommand(c.exportCommand(), c.importCommand(), c.tokenCommand(), c.hashPasswordCommand())
	return root
}

func (c *cli) loadConfig(cmd *cobra.Command) error {
	var err error
	if c.opts.Environ != nil {
		err = config.ParseEnvFrom(&c.cfg, c.opts.Environ)
	} else {
		err = config.ParseEnv(&c.cfg)
	}
	if err != nil {
		return err
	}
	flags := cmd.Flags()
	if flags.Changed("storage") {
		c.cfg.StorageBackend = c.storage
	}
	if flags.Changed("data") {
		c.cfg.DataPath = c.data
	}
	if flags.Changed("sqlite") {
		c.cfg.SQLitePath = c.sqlite
	}
	return nil
}

func (c *cli) openService(ctx context.Context) (*service.Service, func(), error) {
	opened, err := app.OpenStore(ctx, app.StoreConfig{
		Backend:    c.cfg.StorageBackend,
		DataPath:   c.cfg.DataPath,
		SQLitePath: c.cfg.SQLitePath,
	}, zerolog.New(c.opts.Stderr).Level(zerolog.WarnLevel))
	if err != nil {
		return nil, nil, err
	}
	return service.New(opened.Store), func() { _ = opened.Store.Close() }, nil
}

func (c *cli) exportCommand() *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the full content document as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, closeStore, err := c.openService(cmd.Context())
			if err != nil {
				return err
			}
			defer closeStore()

			doc, err := svc.Document(cmd.Context())
			if err != nil {
				return err
			}
			data, err := json.MarshalIndent(doc, "", "  ")
			if err != nil {
				return fmt.Errorf("encode document: %w", err)
			}
			data = append(data, '\n')
			if out == "" || out == "-" {
				_, err = cmd.OutOrStdout().Write(data)
				return err
			}
			if err := os.WriteFile(out, data, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", out, err)
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "exported to %s\n", out)
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (default stdout)")
	return cmd
}

func (c *cli) importCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "import FILE",
		Short: "Replace the content document from a JSON or YAML file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := readDocument(args[0])
			if err != nil {
				return err
			}
			svc, closeStore, err := c.openService(cmd.Context())
			if err != nil {
				return err
			}
			defer closeStore()

			if err := svc.ReplaceDocument(cmd.Context(), doc); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "imported %d categories, %d skills, %d projects, %d experiences, %d certifications, %d messages\n",
				len(doc.Categories), len(doc.Skills), len(doc.Projects), len(doc.Experiences), len(doc.Certifications), len(doc.Messages))
			return nil
		},
	}
}

// readDocument decodes path by extension.
func readDocument(path string) (content.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return content.Document{}, fmt.Errorf("read %s: %w", path, err)
	}
	var doc content.Document
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		err = json.Unmarshal(data, &doc)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &doc)
	default:
		return content.Document{}, fmt.Errorf("unsupported file type %q (want .json, .yaml or .yml)", ext)
	}
	if err != nil {
		return content.Document{}, fmt.Errorf("decode %s: %w", path, err)
	}
	doc.Normalize()
	return doc, nil
}

func (c *cli) tokenCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "token",
		Short: "Issue an admin session token for scripts",
		Long:  "Issue an admin session token. Send it as the auth-token cookie.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			manager, err := session.NewManager(session.Config{
				Secret:       c.cfg.JWTSecret,
				Username:     c.cfg.AdminUsername,
				Password:     c.cfg.AdminPassword,
				PasswordHash: c.cfg.AdminPasswordHash,
				TTL:          c.cfg.SessionTTL,
			})
			if err != nil {
				return err
			}
			token, expiresAt, err := manager.Issue(manager.Username())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			fmt.Fprintf(cmd.ErrOrStderr(), "expires %s\n", expiresAt.Format(time.RFC3339))
			return nil
		},
	}
}

func (c *cli) hashPasswordCommand() *cobra.Command {
	var cost int
	cmd := &cobra.Command{
		Use:   "hash-password [PASSWORD]",
		Short: "Print a bcrypt hash for PORTFOLIO_ADMIN_PASSWORD_HASH",
		Long:  "Print a bcrypt hash for PORTFOLIO_ADMIN_PASSWORD_HASH. Reads the password from stdin when no argument is given.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			password := ""
			if len(args) == 1 {
				password = args[0]
			} else {
				line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				if err != nil && !errors.Is(err, io.EOF) {
					return fmt.Errorf("read password: %w", err)
				}
				password = strings.TrimRight(line, "\r\n")
			}
			if password == "" {
				return errors.New("password is required")
			}
			hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
			if err != nil {
				return fmt.Errorf("hash password: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(hash))
			return nil
		},
	}
	cmd.Flags().IntVar(&cost, "cost", bcrypt.DefaultCost, "bcrypt cost")
	return cmd
}

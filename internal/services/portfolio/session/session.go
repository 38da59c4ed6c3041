// Package session issues and verifies the signed admin session token.
package session

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	apperrors "github.com/louisbranch/portfolio/internal/platform/errors"
)

const (
	// Issuer is stamped on every token this package signs.
	Issuer = "portfolio"
	// DefaultTTL is the session lifetime when none is configured.
	DefaultTTL = 24 * time.Hour
	// DefaultSecret is the development signing secret. Deployments must
	// override it.
	DefaultSecret = "default-secret-change-in-production"
)

// Config defines how sessions are issued and checked.
type Config struct {
	Secret       string
	Username     string
	Password     string
	PasswordHash string // bcrypt; takes precedence over Password when set
	TTL          time.Duration
	Now          func() time.Time
}

// Claims captures a verified session.
type Claims struct {
	Username  string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

type tokenClaims struct {
	jwt.RegisteredClaims
	Username string `json:"username"`
}

// Manager checks admin credentials and signs session tokens.
type Manager struct {
	secret       []byte
	username     string
	password     []byte
	passwordHash []byte
	ttl          time.Duration
	now          func() time.Time
}

// NewManager validates cfg and returns a Manager.
func NewManager(cfg Config) (*Manager, error) {
	if strings.TrimSpace(cfg.Secret) == "" {
		return nil, errors.New("session secret is required")
	}
	username := strings.TrimSpace(cfg.Username)
	if username == "" {
		return nil, errors.New("admin username is required")
	}
	hash := strings.TrimSpace(cfg.PasswordHash)
	if hash == "" && cfg.Password == "" {
		return nil, errors.New("admin password or password hash is required")
	}
	if hash != "" {
		if _, err := bcrypt.Cost([]byte(hash)); err != nil {
			return nil, fmt.Errorf("admin password hash: %w", err)
		}
	}
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &Manager{
		secret:       []byte(cfg.Secret),
		username:     username,
		password:     []byte(cfg.Password),
		passwordHash: []byte(hash),
		ttl:          ttl,
		now:          now,
	}, nil
}

// TTL returns the session lifetime.
func (m *Manager) TTL() time.Duration {
	return m.ttl
}

// Username returns the configured admin name.
func (m *Manager) Username() string {
	return m.username
}

// UsesDefaultSecret reports whether the development secret is in use.
func (m *Manager) UsesDefaultSecret() bool {
	return string(m.secret) == DefaultSecret
}

// CheckCredentials reports whether username and password identify the admin.
func (m *Manager) CheckCredentials(username, password string) bool {
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(m.username)) == 1
	var passOK bool
	if len(m.passwordHash) > 0 {
		passOK = bcrypt.CompareHashAndPassword(m.passwordHash, []byte(password)) == nil
	} else {
		passOK = subtle.ConstantTimeCompare([]byte(password), m.password) == 1
	}
	return userOK && passOK
}

// Issue signs a session token for username.
func (m *Manager) Issue(username string) (string, time.Time, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return "", time.Time{}, errors.New("username is required")
	}
	now := m.now().UTC().Truncate(time.Second)
	expiresAt := now.Add(m.ttl)
	claims := tokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    Issuer,
			Subject:   username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		Username: username,
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign session token: %w", err)
	}
	return signed, expiresAt, nil
}

// Verify checks the token signature, algorithm, issuer, expiry and subject.
func (m *Manager) Verify(token string) (Claims, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return Claims{}, unauthorized("session token is required", nil)
	}

	var parsed tokenClaims
	_, err := jwt.ParseWithClaims(token, &parsed, func(*jwt.Token) (any, error) {
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithoutClaimsValidation(),
	)
	if err != nil {
		return Claims{}, mapJWTError(err)
	}

	if parsed.Issuer != Issuer {
		return Claims{}, unauthorized("session issuer mismatch", nil)
	}
	if parsed.ExpiresAt == nil {
		return Claims{}, unauthorized("session exp is required", nil)
	}
	exp := parsed.ExpiresAt.Time.UTC()
	if !exp.After(m.now().UTC()) {
		return Claims{}, unauthorized("session is expired", nil)
	}
	if parsed.Username == "" || parsed.Username != m.username {
		return Claims{}, unauthorized("session user mismatch", nil)
	}

	claims := Claims{Username: parsed.Username, ExpiresAt: exp}
	if parsed.IssuedAt != nil {
		claims.IssuedAt = parsed.IssuedAt.Time.UTC()
	}
	return claims, nil
}

func mapJWTError(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return unauthorized("session signature is invalid", err)
	case errors.Is(err, jwt.ErrTokenUnverifiable):
		return unauthorized("session alg is invalid", err)
	case errors.Is(err, jwt.ErrTokenMalformed):
		return unauthorized("session token is malformed", err)
	default:
		return unauthorized("session token is invalid", err)
	}
}

func unauthorized(message string, cause error) error {
	return apperrors.Wrap(apperrors.KindUnauthorized, message, cause)
}

// Package httpapi exposes the portfolio service over JSON HTTP endpoints.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/rs/zerolog"

	apperrors "github.com/louisbranch/portfolio/internal/platform/errors"
	"github.com/louisbranch/portfolio/internal/platform/requestctx"
	"github.com/louisbranch/portfolio/internal/services/portfolio/content"
	"github.com/louisbranch/portfolio/internal/services/portfolio/platform/httpx"
	"github.com/louisbranch/portfolio/internal/services/portfolio/platform/sessioncookie"
	"github.com/louisbranch/portfolio/internal/services/portfolio/service"
	"github.com/louisbranch/portfolio/internal/services/portfolio/session"
)

// Content is the service surface the handlers depend on.
type Content interface {
	Document(ctx context.Context) (content.Document, error)
	PublicDocument(ctx context.Context) (content.Document, error)
	Stats(ctx context.Context) (service.Stats, error)

	Profile(ctx context.Context) (content.Profile, error)
	ReplaceProfile(ctx context.Context, profile content.Profile) (content.Profile, error)

	ListCategories(ctx context.Context) ([]content.Category, error)
	CreateCategory(ctx context.Context, input content.Category) (content.Category, error)
	UpdateCategory(ctx context.Context, id string, patch content.CategoryPatch) (content.Category, error)
	DeleteCategory(ctx context.Context, id string) error

	ListSkills(ctx context.Context) ([]content.Skill, error)
	CreateSkill(ctx context.Context, input content.Skill) (content.Skill, error)
	UpdateSkill(ctx context.Context, id string, patch content.SkillPatch) (content.Skill, error)
	DeleteSkill(ctx context.Context, id string) error

	ListProjects(ctx context.Context) ([]content.Project, error)
	CreateProject(ctx context.Context, input content.Project) (content.Project, error)
	UpdateProject(ctx context.Context, id string, patch content.ProjectPatch) (content.Project, error)
	DeleteProject(ctx context.Context, id string) error

	ListExperiences(ctx context.Context) ([]content.Experience, error)
	CreateExperience(ctx context.Context, input content.Experience) (content.Experience, error)
	UpdateExperience(ctx context.Context, id string, patch content.ExperiencePatch) (content.Experience, error)
	DeleteExperience(ctx context.Context, id string) error

	ListCertifications(ctx context.Context) ([]content.Certification, error)
	CreateCertification(ctx context.Context, input content.Certification) (content.Certification, error)
	UpdateCertification(ctx context.Context, id string, patch content.CertificationPatch) (content.Certification, error)
	DeleteCertification(ctx context.Context, id string) error

	SubmitMessage(ctx context.Context, input service.MessageInput) (content.ContactMessage, error)
	ListMessages(ctx context.Context) ([]content.ContactMessage, error)
	MarkMessageRead(ctx context.Context, id string) (content.ContactMessage, error)
	DeleteMessage(ctx context.Context, id string) error

	IncrementViews(ctx context.Context) (int64, error)
	Views(ctx context.Context) (int64, error)
}

// Config wires the handler dependencies.
type Config struct {
	Content  Content
	Sessions *session.Manager
	Logger   zerolog.Logger
	Cookie   sessioncookie.Policy
}

type handler struct {
	content  Content
	sessions *session.Manager
	logger   zerolog.Logger
	cookie   sessioncookie.Policy
}

// NewHandler builds the API handler with its middleware chain.
func NewHandler(cfg Config) (http.Handler, error) {
	if cfg.Content == nil {
		return nil, errors.New("content service is required")
	}
	if cfg.Sessions == nil {
		return nil, errors.New("session manager is required")
	}
	h := &handler{
		content:  cfg.Content,
		sessions: cfg.Sessions,
		logger:   cfg.Logger,
		cookie:   cfg.Cookie,
	}

	mux := http.NewServeMux()
	h.register(mux)
	return httpx.Chain(mux,
		httpx.RecoverPanic(cfg.Logger),
		httpx.RequestID(),
		httpx.Trace(),
		httpx.AccessLog(cfg.Logger),
	), nil
}

func (h *handler) register(mux *http.ServeMux) {
	mux.Handle("/up", methods{http.MethodGet: h.health})

	mux.Handle("/api/auth/login", methods{http.MethodPost: h.login})
	mux.Handle("/api/auth/logout", methods{http.MethodPost: h.logout})
	mux.Handle("/api/auth/session", methods{http.MethodGet: h.session})

	mux.Handle("/api/portfolio", methods{http.MethodGet: h.publicDocument})
	mux.Handle("/api/portfolio/profile", methods{
		http.MethodGet: h.getProfile,
		http.MethodPut: h.requireAdmin(h.putProfile),
	})
	for name, routes := range h.collections() {
		mux.Handle("/api/portfolio/"+name, routes)
	}

	mux.Handle("/api/contact", methods{
		http.MethodPost:   h.submitMessage,
		http.MethodGet:    h.requireAdmin(h.listMessages),
		http.MethodPut:    h.requireAdmin(h.markMessageRead),
		http.MethodDelete: h.requireAdmin(h.deleteMessage),
	})
	mux.Handle("/api/analytics/views", methods{
		http.MethodGet:  h.getViews,
		http.MethodPost: h.incrementViews,
	})

	mux.Handle("/api/admin/stats", methods{http.MethodGet: h.requireAdmin(h.stats)})
	mux.Handle("/api/admin/export", methods{http.MethodGet: h.requireAdmin(h.export)})

	mux.HandleFunc("/", func(w http.ResponseWriter, _ *http.Request) {
		_ = httpx.WriteJSONError(w, http.StatusNotFound, "not found")
	})
}

// methods dispatches by request method and answers 405 for the rest.
type methods map[string]http.HandlerFunc

func (m methods) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if fn, ok := m[r.Method]; ok {
		fn(w, r)
		return
	}
	if r.Method == http.MethodHead {
		if fn, ok := m[http.MethodGet]; ok {
			fn(w, r)
			return
		}
	}
	allowed := make([]string, 0, len(m))
	for method := range m {
		allowed = append(allowed, method)
	}
	slices.Sort(allowed)
	httpx.MethodNotAllowed(strings.Join(allowed, ", "))(w, r)
}

// requireAdmin rejects requests without a valid session cookie.
func (h *handler) requireAdmin(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, err := h.authenticate(r)
		if err != nil {
			h.logger.Debug().Err(err).Str("path", r.URL.Path).Msg("admin session rejected")
			_ = httpx.WriteJSONError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}
		next(w, r.WithContext(requestctx.WithAdmin(r.Context(), claims.Username)))
	}
}

func (h *handler) authenticate(r *http.Request) (session.Claims, error) {
	token, ok := sessioncookie.Read(r)
	if !ok {
		return session.Claims{}, apperrors.E(apperrors.KindUnauthorized, "session cookie is missing")
	}
	return h.sessions.Verify(token)
}

func (h *handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	httpx.WriteError(w, r, h.logger, err)
}

func (h *handler) health(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

type successResponse struct {
	Success bool `json:"success"`
}

var okResponse = successResponse{Success: true}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (h *handler) login(w http.ResponseWriter, r *http.Request) {
	var in loginRequest
	if err := httpx.DecodeJSON(w, r, &in); err != nil {
		h.fail(w, r, err)
		return
	}
	if strings.TrimSpace(in.Username) == "" || in.Password == "" {
		_ = httpx.WriteJSONError(w, http.StatusBadRequest, "Username and password are required")
		return
	}
	if !h.sessions.CheckCredentials(strings.TrimSpace(in.Username), in.Password) {
		h.logger.Warn().Str("username", in.Username).Msg("admin login failed")
		_ = httpx.WriteJSONError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}
	token, _, err := h.sessions.Issue(h.sessions.Username())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	sessioncookie.Write(w, r, token, h.sessions.TTL(), h.cookie)
	_ = httpx.WriteJSON(w, http.StatusOK, okResponse)
}

func (h *handler) logout(w http.ResponseWriter, r *http.Request) {
	sessioncookie.Clear(w, r, h.cookie)
	_ = httpx.WriteJSON(w, http.StatusOK, okResponse)
}

type sessionResponse struct {
	Authenticated bool       `json:"authenticated"`
	Username      string     `json:"username,omitempty"`
	ExpiresAt     *time.Time `json:"expiresAt,omitempty"`
}

func (h *handler) session(w http.ResponseWriter, r *http.Request) {
	claims, err := h.authenticate(r)
	if err != nil {
		_ = httpx.WriteJSON(w, http.StatusOK, sessionResponse{})
		return
	}
	_ = httpx.WriteJSON(w, http.StatusOK, sessionResponse{
		Authenticated: true,
		Username:      claims.Username,
		ExpiresAt:     &claims.ExpiresAt,
	})
}

func (h *handler) publicDocument(w http.ResponseWriter, r *http.Request) {
	doc, err := h.content.PublicDocument(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	_ = httpx.WriteJSON(w, http.StatusOK, doc)
}

func (h *handler) export(w http.ResponseWriter, r *http.Request) {
	doc, err := h.content.Document(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	w.Header().Set("Content-Disposition", `attachment; filename="portfolio.json"`)
	_ = httpx.WriteJSON(w, http.StatusOK, doc)
}

func (h *handler) stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.content.Stats(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	_ = httpx.WriteJSON(w, http.StatusOK, stats)
}

func (h *handler) getProfile(w http.ResponseWriter, r *http.Request) {
	profile, err := h.content.Profile(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	_ = httpx.WriteJSON(w, http.StatusOK, profile)
}

func (h *handler) putProfile(w http.ResponseWriter, r *http.Request) {
	var in content.Profile
	if err := httpx.DecodeJSON(w, r, &in); err != nil {
		h.fail(w, r, err)
		return
	}
	if _, err := h.content.ReplaceProfile(r.Context(), in); err != nil {
		h.fail(w, r, err)
		return
	}
	_ = httpx.WriteJSON(w, http.StatusOK, okResponse)
}

type viewsResponse struct {
	Views int64 `json:"views"`
}

func (h *handler) getViews(w http.ResponseWriter, r *http.Request) {
	views, err := h.content.Views(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	_ = httpx.WriteJSON(w, http.StatusOK, viewsResponse{Views: views})
}

func (h *handler) incrementViews(w http.ResponseWriter, r *http.Request) {
	views, err := h.content.IncrementViews(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	_ = httpx.WriteJSON(w, http.StatusOK, viewsResponse{Views: views})
}

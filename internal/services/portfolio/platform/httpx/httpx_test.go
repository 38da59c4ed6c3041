package httpx

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	apperrors "github.com/louisbranch/portfolio/internal/platform/errors"
	"github.com/louisbranch/portfolio/internal/platform/requestctx"
)

func TestChainAppliesMiddlewareInOrder(t *testing.T) {
	t.Parallel()

	called := ""
	mw1 := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			called += "1"
			next.ServeHTTP(w, r)
		})
	}
	mw2 := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			called += "2"
			next.ServeHTTP(w, r)
		})
	}
	h := Chain(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		called += "h"
		w.WriteHeader(http.StatusNoContent)
	}), mw1, nil, mw2)

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	if rr.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusNoContent)
	}
	if called != "12h" {
		t.Fatalf("call order = %q, want %q", called, "12h")
	}
}

func TestMethodNotAllowedWritesAllowHeaderAndStatus(t *testing.T) {
	t.Parallel()

	rr := httptest.NewRecorder()
	MethodNotAllowed("GET, POST")(rr, httptest.NewRequest(http.MethodPatch, "/api/contact", nil))
	if rr.Code != http.StatusMethodNotAllowed {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusMethodNotAllowed)
	}
	if got := rr.Header().Get("Allow"); got != "GET, POST" {
		t.Fatalf("Allow = %q, want %q", got, "GET, POST")
	}
}

func TestRequestIDAddsHeaderAndContext(t *testing.T) {
	t.Parallel()

	var fromCtx string
	h := RequestID()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fromCtx = requestctx.RequestIDFromContext(r.Context())
	}))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	got := rr.Header().Get("X-Request-ID")
	if !strings.HasPrefix(got, "portfolio-") {
		t.Fatalf("X-Request-ID = %q, want portfolio- prefix", got)
	}
	if fromCtx != got {
		t.Fatalf("context request id = %q, want %q", fromCtx, got)
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "given")
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if got := rr.Header().Get("X-Request-ID"); got != "given" {
		t.Fatalf("X-Request-ID = %q, want %q", got, "given")
	}
}

func TestRecoverPanicWritesJSON500(t *testing.T) {
	t.Parallel()

	var logs bytes.Buffer
	h := RecoverPanic(zerolog.New(&logs))(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/panic", nil))
	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusInternalServerError)
	}
	if !strings.Contains(logs.String(), `"panic":"boom"`) {
		t.Fatalf("logs = %q, want panic value", logs.String())
	}
}

func TestAccessLogRecordsStatus(t *testing.T) {
	t.Parallel()

	var logs bytes.Buffer
	h := Chain(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		_, _ = w.Write([]byte("short"))
	}), AccessLog(zerolog.New(&logs)), Trace())

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/tea", nil))

	var entry map[string]any
	if err := json.Unmarshal(logs.Bytes(), &entry); err != nil {
		t.Fatalf("decode log line %q: %v", logs.String(), err)
	}
	if entry["status"] != float64(http.StatusTeapot) {
		t.Fatalf("logged status = %v, want %d", entry["status"], http.StatusTeapot)
	}
	if entry["path"] != "/tea" {
		t.Fatalf("logged path = %v, want /tea", entry["path"])
	}
	if entry["bytes"] != float64(5) {
		t.Fatalf("logged bytes = %v, want 5", entry["bytes"])
	}
}

func TestWriteErrorMapsKinds(t *testing.T) {
	t.Parallel()

	cases := []struct {
		err     error
		status  int
		message string
	}{
		{apperrors.E(apperrors.KindInvalidInput, "name is required"), http.StatusBadRequest, "name is required"},
		{apperrors.E(apperrors.KindUnauthorized, "Unauthorized"), http.StatusUnauthorized, "Unauthorized"},
		{apperrors.E(apperrors.KindNotFound, "skill not found"), http.StatusNotFound, "skill not found"},
		{apperrors.E(apperrors.KindConflict, "category slug already exists"), http.StatusConflict, "category slug already exists"},
		{errors.New("disk on fire"), http.StatusInternalServerError, "Internal Server Error"},
	}
	for _, tc := range cases {
		var logs bytes.Buffer
		rr := httptest.NewRecorder()
		WriteError(rr, httptest.NewRequest(http.MethodGet, "/", nil), zerolog.New(&logs), tc.err)
		if rr.Code != tc.status {
			t.Fatalf("status = %d, want %d", rr.Code, tc.status)
		}
		var body map[string]string
		if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		if body["error"] != tc.message {
			t.Fatalf("error = %q, want %q", body["error"], tc.message)
		}
		if strings.Contains(rr.Body.String(), "disk on fire") {
			t.Fatal("internal cause leaked to client")
		}
	}
}

func TestWriteErrorLogsAdminAndRequestID(t *testing.T) {
	t.Parallel()

	var logs bytes.Buffer
	req := httptest.NewRequest(http.MethodPut, "/api/profile", nil)
	ctx := requestctx.WithRequestID(req.Context(), "req-1")
	ctx = requestctx.WithAdmin(ctx, "admin")
	WriteError(httptest.NewRecorder(), req.WithContext(ctx), zerolog.New(&logs), errors.New("disk full"))

	var entry map[string]any
	if err := json.Unmarshal(logs.Bytes(), &entry); err != nil {
		t.Fatalf("decode log line %q: %v", logs.String(), err)
	}
	if entry["admin"] != "admin" || entry["request_id"] != "req-1" {
		t.Fatalf("log entry = %v, want admin and request_id fields", entry)
	}
}

func TestDecodeJSON(t *testing.T) {
	t.Parallel()

	var dst struct {
		Name string `json:"name"`
	}
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"Go","extra":1}`))
	if err := DecodeJSON(httptest.NewRecorder(), req, &dst); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if dst.Name != "Go" {
		t.Fatalf("name = %q, want %q", dst.Name, "Go")
	}

	for name, body := range map[string]string{
		"empty":     "",
		"malformed": "{",
		"too large": `{"name":"` + strings.Repeat("a", MaxBodyBytes) + `"}`,
	} {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
		err := DecodeJSON(httptest.NewRecorder(), req, &dst)
		if apperrors.KindOf(err) != apperrors.KindInvalidInput {
			t.Fatalf("%s: err = %v, want invalid input", name, err)
		}
	}
}

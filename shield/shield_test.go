package shield

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/hazyhaar/ptdbuild/kit"
)

func TestDefaultStack(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	var seenID string
	r := chi.NewRouter()
	for _, mw := range DefaultStack(logger) {
		r.Use(mw)
	}
	r.Get("/ptd.js", func(w http.ResponseWriter, r *http.Request) {
		seenID = kit.GetRequestID(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/ptd.js", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	checks := map[string]string{
		"X-Frame-Options":        "SAMEORIGIN",
		"X-Content-Type-Options": "nosniff",
		"Referrer-Policy":        "no-referrer",
	}
	for h, want := range checks {
		if got := rec.Header().Get(h); got != want {
			t.Errorf("%s = %q, want %q", h, got, want)
		}
	}
	if rec.Header().Get("Content-Security-Policy") != "" {
		t.Error("default preview headers must not set a CSP")
	}

	id := rec.Header().Get("X-Request-ID")
	if len(id) != 8 {
		t.Fatalf("X-Request-ID = %q, want 8 hex chars", id)
	}
	if seenID != id {
		t.Fatalf("context request id = %q, header = %q", seenID, id)
	}
}

func TestHeadToGet(t *testing.T) {
	r := chi.NewRouter()
	r.Use(HeadToGet)
	r.Get("/ptd.html", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodHead, "/ptd.html", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("HEAD status = %d, want 200", rec.Code)
	}
}

func TestSecurityHeaders_CSP(t *testing.T) {
	cfg := DefaultHeaders()
	cfg.CSP = "default-src 'self'"
	h := SecurityHeaders(cfg)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if got := rec.Header().Get("Content-Security-Policy"); got != "default-src 'self'" {
		t.Fatalf("CSP = %q", got)
	}
}

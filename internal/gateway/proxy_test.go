package gateway

import (
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/moniflow/backend/internal/store"
)

func setupStore(t *testing.T) {
	t.Helper()
	if err := store.Connect(filepath.Join(t.TempDir(), "gateway_test.db")); err != nil {
		t.Fatalf("failed to connect test store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
}

func TestNormalizePath(t *testing.T) {
	cases := map[string]string{
		"/collector/metrics/": "collector/metrics",
		"/collector/metrics":  "collector/metrics",
		"/health":             "health",
		"/":                   "",
	}
	for in, want := range cases {
		if got := normalizePath(in); got != want {
			t.Fatalf("normalizePath(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestSplitServicePath(t *testing.T) {
	service, rest := splitServicePath("collector/metrics")
	if service != "collector" || rest != "/metrics" {
		t.Fatalf("got service=%q rest=%q", service, rest)
	}

	service, rest = splitServicePath("health")
	if service != "health" || rest != "/" {
		t.Fatalf("got service=%q rest=%q", service, rest)
	}
}

func TestGateway_HealthCheck(t *testing.T) {
	setupStore(t)
	registry := NewRegistry()
	g := New(Config{SecretKey: "secret", Algorithm: "HS256"}, registry)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	g.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestGateway_UnknownServiceIs404(t *testing.T) {
	setupStore(t)
	registry := NewRegistry()
	g := New(Config{SecretKey: "secret", Algorithm: "HS256", PublicPrefixes: []string{"nosuch"}}, registry)

	req := httptest.NewRequest(http.MethodGet, "/nosuch/path", nil)
	rec := httptest.NewRecorder()
	g.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestGateway_MissingAuthIs401(t *testing.T) {
	setupStore(t)
	registry := NewRegistry()
	if err := registry.Create(Service{Name: "collector", BaseURL: "http://example.invalid"}); err != nil {
		t.Fatalf("failed to register service: %v", err)
	}
	g := New(Config{SecretKey: "secret", Algorithm: "HS256"}, registry)

	req := httptest.NewRequest(http.MethodGet, "/collector/metrics", nil)
	rec := httptest.NewRecorder()
	g.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestGateway_PublicPrefixSkipsAuth(t *testing.T) {
	setupStore(t)
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer upstream.Close()

	registry := NewRegistry()
	if err := registry.Create(Service{Name: "user_management", BaseURL: upstream.URL}); err != nil {
		t.Fatalf("failed to register service: %v", err)
	}
	g := New(Config{SecretKey: "secret", Algorithm: "HS256", PublicPrefixes: []string{"user_management/token"}}, registry)

	req := httptest.NewRequest(http.MethodPost, "/user_management/token", nil)
	rec := httptest.NewRecorder()
	g.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 without auth on public prefix, got %d", rec.Code)
	}
}

func TestGateway_ForwardsAuthenticatedRequest(t *testing.T) {
	setupStore(t)
	var gotUserHeader string
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserHeader = r.Header.Get("user")
		w.WriteHeader(http.StatusOK)
	}))
	defer upstream.Close()

	registry := NewRegistry()
	if err := registry.Create(Service{Name: "collector", BaseURL: upstream.URL}); err != nil {
		t.Fatalf("failed to register service: %v", err)
	}
	g := New(Config{SecretKey: "secret", Algorithm: "HS256"}, registry)

	token := signToken(t, "secret", time.Now().Add(time.Hour))
	req := httptest.NewRequest(http.MethodGet, "/collector/metrics", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	g.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if gotUserHeader != "user-1" {
		t.Fatalf("expected user header to be set from JWT subject, got %q", gotUserHeader)
	}
}

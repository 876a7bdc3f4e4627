// Package gateway is the authenticating reverse proxy, per spec.md
// §4.K: JWT verification over a static-then-dynamic service registry,
// request forwarding preserving method/query/body/headers, and
// timeout/network-error translation to the expected status codes.
package gateway

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httputil"
	"net/url"
	"strings"
	"time"

	"github.com/gorilla/mux"
)

// Config is the gateway's auth and timeout configuration.
type Config struct {
	SecretKey       string
	Algorithm       string
	UpstreamTimeout time.Duration
	PublicPrefixes  []string
	RateLimitPerMin float64
}

// Gateway proxies requests to registered upstream services. A single
// shared outbound transport backs every proxied request, per spec.md
// §4.K's "single shared outbound HTTP connection pool" requirement.
type Gateway struct {
	cfg       Config
	registry  *Registry
	limiter   *limiterSet
	transport *http.Transport
}

// New builds a Gateway over the shared service registry.
func New(cfg Config, registry *Registry) *Gateway {
	if cfg.UpstreamTimeout <= 0 {
		cfg.UpstreamTimeout = 5 * time.Second
	}
	return &Gateway{
		cfg:       cfg,
		registry:  registry,
		limiter:   newLimiterSet(cfg.RateLimitPerMin),
		transport: http.DefaultTransport.(*http.Transport).Clone(),
	}
}

// Close idles out the shared transport's open connections, per spec.md
// §4.K's "closed on shutdown" requirement.
func (g *Gateway) Close() {
	g.transport.CloseIdleConnections()
}

// Router builds the gateway's mux.Router: /health plus a catch-all
// proxy route for every other path.
func (g *Gateway) Router() *mux.Router {
	router := mux.NewRouter()
	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods(http.MethodGet)

	RegisterAdminRoutes(router, g.registry)

	router.PathPrefix("/").HandlerFunc(g.handleProxy)
	return router
}

func (g *Gateway) handleProxy(w http.ResponseWriter, r *http.Request) {
	if !g.limiter.allow(clientKey(r)) {
		writeJSONError(w, http.StatusTooManyRequests, "Rate limit exceeded")
		return
	}

	path := normalizePath(r.URL.Path)
	service, rest := splitServicePath(path)

	if !g.isPublic(path) {
		sub, err := g.authenticate(r)
		if err != nil {
			status := http.StatusUnauthorized
			writeJSONError(w, status, err.Error())
			return
		}
		r.Header.Set("user", sub)
	}

	svc, err := g.registry.Get(service)
	if err != nil {
		writeJSONError(w, http.StatusInternalServerError, "service registry lookup failed")
		return
	}
	if svc == nil {
		writeJSONError(w, http.StatusNotFound, "unknown service")
		return
	}

	g.forward(w, r, svc.BaseURL, rest)
}

func (g *Gateway) authenticate(r *http.Request) (string, error) {
	auth := r.Header.Get("Authorization")
	if auth == "" {
		return "", errors.New("Authorization header missing")
	}
	parts := strings.SplitN(auth, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", errors.New("Invalid Authorization header")
	}
	return verifyToken(parts[1], g.cfg.SecretKey, g.cfg.Algorithm)
}

func (g *Gateway) isPublic(path string) bool {
	for _, prefix := range g.cfg.PublicPrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

// forward proxies the request to baseURL+rest, preserving method,
// query string, body, and headers except host/content-length, per
// spec.md §4.K step 5. Upstream timeout and network errors map to 504
// and 502 respectively.
// httputil.ReverseProxy copies the request body byte-for-byte, so JSON,
// form-urlencoded, and raw bodies all survive untouched along with
// their original Content-Type; spec.md §4.K step 6's "preserve body
// type" falls out of that for free.
func (g *Gateway) forward(w http.ResponseWriter, r *http.Request, baseURL, rest string) {
	target, err := url.Parse(baseURL)
	if err != nil {
		writeJSONError(w, http.StatusInternalServerError, "invalid upstream base URL")
		return
	}

	proxy := httputil.NewSingleHostReverseProxy(target)
	proxy.Transport = g.transport

	originalDirector := proxy.Director
	proxy.Director = func(req *http.Request) {
		originalDirector(req)
		req.URL.Path = rest
		req.URL.RawQuery = r.URL.RawQuery
		req.Header.Del("Host")
		req.Header.Del("Content-Length")
	}

	proxy.ErrorHandler = func(w http.ResponseWriter, r *http.Request, err error) {
		if errors.Is(err, context.DeadlineExceeded) {
			writeJSONError(w, http.StatusGatewayTimeout, "Request timed out")
			return
		}
		writeJSONError(w, http.StatusBadGateway, "Upstream service unreachable")
	}

	ctx, cancel := context.WithTimeout(r.Context(), g.cfg.UpstreamTimeout)
	defer cancel()
	proxy.ServeHTTP(w, r.WithContext(ctx))
}

func writeJSONError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	io.WriteString(w, `{"error":"`+message+`"}`)
}

func clientKey(r *http.Request) string {
	if host, _, err := splitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}

func splitHostPort(addr string) (string, string, error) {
	idx := strings.LastIndex(addr, ":")
	if idx < 0 {
		return addr, "", nil
	}
	return addr[:idx], addr[idx+1:], nil
}

// normalizePath trims a single trailing slash, per spec.md §4.K step 1.
func normalizePath(path string) string {
	path = strings.TrimPrefix(path, "/")
	if strings.HasSuffix(path, "/") {
		path = strings.TrimSuffix(path, "/")
	}
	return path
}

// splitServicePath splits "{service}/{rest...}" into its two parts.
func splitServicePath(path string) (service, rest string) {
	idx := strings.Index(path, "/")
	if idx < 0 {
		return path, "/"
	}
	return path[:idx], path[idx:]
}

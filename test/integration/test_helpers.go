//go:build integration

package integration

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"deallens-dashboard/internal/apiclient"
	"deallens-dashboard/internal/config"
	"deallens-dashboard/internal/handler"
	"deallens-dashboard/internal/middleware"
	"deallens-dashboard/internal/router"
	"deallens-dashboard/internal/session"
	"deallens-dashboard/internal/view"
)

// fakeAPI is a minimal stand-in for the DealLens backend. It issues
// generation-numbered tokens so tests can expire the current access token and
// watch the dashboard refresh behind the scenes.
type fakeAPI struct {
	mu            sync.Mutex
	generation    int
	accessRevoked bool
	refreshCalls  int
	logoutCalls   int
	loginEmail    string
	loginPassword string
}

func newFakeAPI(email string, password string) *fakeAPI {
	return &fakeAPI{loginEmail: email, loginPassword: password}
}

func (f *fakeAPI) accessToken(gen int) string  { return fmt.Sprintf("access-%d", gen) }
func (f *fakeAPI) refreshToken(gen int) string { return fmt.Sprintf("refresh-%d", gen) }

// revokeAccess invalidates the current access token while leaving the refresh
// token good, the state a real backend is in after the access TTL elapses.
func (f *fakeAPI) revokeAccess() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.accessRevoked = true
}

func (f *fakeAPI) refreshCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.refreshCalls
}

func (f *fakeAPI) authorized(r *http.Request) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.accessRevoked {
		return false
	}
	return r.Header.Get("Authorization") == "Bearer "+f.accessToken(f.generation)
}

func (f *fakeAPI) handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		_ = r.ParseForm()
		if r.PostFormValue("username") != f.loginEmail || r.PostFormValue("password") != f.loginPassword {
			writeDetail(w, http.StatusUnauthorized, "Incorrect email or password")
			return
		}

		f.mu.Lock()
		f.generation++
		f.accessRevoked = false
		gen := f.generation
		f.mu.Unlock()

		writeJSON(w, map[string]string{
			"access_token":  f.accessToken(gen),
			"refresh_token": f.refreshToken(gen),
			"token_type":    "bearer",
		})
	})

	mux.HandleFunc("POST /api/auth/refresh", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()

		f.refreshCalls++
		if r.Header.Get("Authorization") != "Bearer "+f.refreshToken(f.generation) {
			writeDetail(w, http.StatusUnauthorized, "Invalid refresh token")
			return
		}

		f.generation++
		f.accessRevoked = false
		writeJSON(w, map[string]string{
			"access_token":  f.accessToken(f.generation),
			"refresh_token": f.refreshToken(f.generation),
			"token_type":    "bearer",
		})
	})

	mux.HandleFunc("POST /api/auth/logout", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		f.logoutCalls++
		f.mu.Unlock()
		writeJSON(w, map[string]string{"message": "Logged out"})
	})

	mux.HandleFunc("GET /api/auth/me", func(w http.ResponseWriter, r *http.Request) {
		if !f.authorized(r) {
			writeDetail(w, http.StatusUnauthorized, "Could not validate credentials")
			return
		}
		writeJSON(w, map[string]any{
			"id":                "u-1",
			"email":             f.loginEmail,
			"full_name":         "Ana Analyst",
			"tier":              "pro",
			"credits_remaining": 42,
			"email_verified":    true,
		})
	})

	mux.HandleFunc("GET /api/properties/", func(w http.ResponseWriter, r *http.Request) {
		if !f.authorized(r) {
			writeDetail(w, http.StatusUnauthorized, "Could not validate credentials")
			return
		}
		writeJSON(w, []map[string]any{
			{"id": "p-1", "property_address": "Calle 12 #34-56", "property_city": "Bogota", "status": "active"},
		})
	})

	mux.HandleFunc("GET /api/analysis/jobs", func(w http.ResponseWriter, r *http.Request) {
		if !f.authorized(r) {
			writeDetail(w, http.StatusUnauthorized, "Could not validate credentials")
			return
		}
		writeJSON(w, []map[string]any{})
	})

	mux.HandleFunc("GET /api/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]string{"status": "ok"})
	})

	return mux
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"detail": detail})
}

func startUpstream(t *testing.T, backend *fakeAPI) string {
	t.Helper()

	server := httptest.NewServer(backend.handler())
	t.Cleanup(server.Close)
	return server.URL
}

// newDashboardServer wires the full dashboard stack against the given
// upstream, the same assembly app.New performs from environment config.
func newDashboardServer(t *testing.T, upstreamURL string) *httptest.Server {
	t.Helper()

	cfg := &config.Config{
		ServerPort:        "0",
		RequestTimeout:    10 * time.Second,
		APIBaseURL:        upstreamURL,
		APITimeout:        5 * time.Second,
		CookieSecret:      "integration-test-secret",
		AccessCookieName:  "deallens_access_token",
		RefreshCookieName: "deallens_refresh_token",
		RefreshCookieTTL:  time.Hour,
		MaxUploadSize:     1 << 20,
		CORSOrigins:       []string{"*"},
		RateLimitRPM:      1000,
		AuthRateLimitRPM:  1000,
	}

	store, err := session.NewStore(cfg.AccessCookieName, cfg.RefreshCookieName, cfg.CookieSecret, cfg.CookieSecure, cfg.RefreshCookieTTL)
	require.NoError(t, err)

	renderer, err := view.New()
	require.NoError(t, err)

	api := apiclient.New(cfg.APIBaseURL, cfg.APITimeout)
	guard := middleware.NewSessionGuard(store)

	h := router.New(cfg, guard,
		handler.NewHomeHandler(store, api, renderer),
		handler.NewAuthHandler(store, api, renderer),
		handler.NewPropertyHandler(store, api, renderer),
		handler.NewDocumentHandler(store, api, renderer, cfg.MaxUploadSize),
		handler.NewAnalysisHandler(store, api, renderer),
		handler.NewSearchHandler(store, api, renderer),
		handler.NewAccountHandler(store, api, renderer),
	)

	server := httptest.NewServer(h)
	t.Cleanup(server.Close)
	return server
}

// newBrowser returns an HTTP client with a cookie jar that never follows
// redirects, so tests can assert on Location headers directly.
func newBrowser(t *testing.T) *http.Client {
	t.Helper()

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)

	return &http.Client{
		Jar: jar,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}

func getPage(t *testing.T, browser *http.Client, pageURL string) *http.Response {
	t.Helper()

	resp, err := browser.Get(pageURL)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func postFormPage(t *testing.T, browser *http.Client, pageURL string, form url.Values) *http.Response {
	t.Helper()

	resp, err := browser.Post(pageURL, "application/x-www-form-urlencoded", strings.NewReader(form.Encode()))
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"deallens-dashboard/internal/apiclient"
	"deallens-dashboard/internal/session"
	"deallens-dashboard/internal/view"
)

const testCookieSecret = "handler-test-secret"

func newTestEnv(t *testing.T, upstream http.Handler) (*session.Store, *apiclient.Client, *view.Renderer) {
	t.Helper()

	server := httptest.NewServer(upstream)
	t.Cleanup(server.Close)

	store, err := session.NewStore("deallens_access_token", "deallens_refresh_token", testCookieSecret, false, time.Hour)
	require.NoError(t, err)

	renderer, err := view.New()
	require.NoError(t, err)

	return store, apiclient.New(server.URL, 5*time.Second), renderer
}

func postForm(t *testing.T, h http.HandlerFunc, target string, form url.Values, cookies []*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for _, c := range cookies {
		req.AddCookie(c)
	}

	rec := httptest.NewRecorder()
	h(rec, req)
	return rec
}

// sessionCookies logs a browser in out of band and returns the sealed cookies
// it would carry on the next request.
func sessionCookies(t *testing.T, store *session.Store, access string, refresh string) []*http.Cookie {
	t.Helper()

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	store.Load(rec, req).SetTokens(access, refresh)
	return rec.Result().Cookies()
}

func TestLoginHandler(t *testing.T) {
	upstream := http.NewServeMux()
	upstream.HandleFunc("POST /api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		if r.PostFormValue("username") != "ana@example.com" || r.PostFormValue("password") != "hunter22" {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			_ = json.NewEncoder(w).Encode(map[string]string{"detail": "Incorrect email or password"})
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]string{
			"access_token":  "access-1",
			"refresh_token": "refresh-1",
			"token_type":    "bearer",
		})
	})

	store, api, renderer := newTestEnv(t, upstream)
	h := NewAuthHandler(store, api, renderer)

	t.Run("valid credentials set sealed cookies and redirect", func(t *testing.T) {
		form := url.Values{"email": {"ana@example.com"}, "password": {"hunter22"}}
		rec := postForm(t, h.Login, "/login", form, nil)

		require.Equal(t, http.StatusSeeOther, rec.Code)
		require.Equal(t, "/dashboard", rec.Header().Get("Location"))

		cookies := rec.Result().Cookies()
		names := make(map[string]string, len(cookies))
		for _, c := range cookies {
			names[c.Name] = c.Value
		}
		require.Contains(t, names, "deallens_access_token")
		require.Contains(t, names, "deallens_refresh_token")
		require.NotContains(t, names["deallens_access_token"], "access-1")
		require.NotContains(t, names["deallens_refresh_token"], "refresh-1")
	})

	t.Run("bad credentials render the form with the upstream message", func(t *testing.T) {
		form := url.Values{"email": {"ana@example.com"}, "password": {"wrong"}}
		rec := postForm(t, h.Login, "/login", form, nil)

		require.Equal(t, http.StatusUnauthorized, rec.Code)
		require.Empty(t, rec.Header().Get("Location"))
		require.Contains(t, rec.Body.String(), "Incorrect email or password")
		require.Empty(t, rec.Result().Cookies())
	})
}

func TestRegisterHandlerSignsInAfterCreate(t *testing.T) {
	upstream := http.NewServeMux()
	upstream.HandleFunc("POST /api/auth/register", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"id": "u-1", "email": "new@example.com"})
	})
	upstream.HandleFunc("POST /api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]string{
			"access_token":  "access-new",
			"refresh_token": "refresh-new",
			"token_type":    "bearer",
		})
	})

	store, api, renderer := newTestEnv(t, upstream)
	h := NewAuthHandler(store, api, renderer)

	form := url.Values{"email": {"new@example.com"}, "password": {"hunter22"}, "full_name": {"New User"}}
	rec := postForm(t, h.Register, "/register", form, nil)

	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Equal(t, "/dashboard", rec.Header().Get("Location"))
	require.NotEmpty(t, rec.Result().Cookies())
}

func TestRegisterHandlerSurfacesValidationDetail(t *testing.T) {
	upstream := http.NewServeMux()
	upstream.HandleFunc("POST /api/auth/register", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]string{"detail": "Password must be at least 8 characters"})
	})

	store, api, renderer := newTestEnv(t, upstream)
	h := NewAuthHandler(store, api, renderer)

	form := url.Values{"email": {"new@example.com"}, "password": {"short"}}
	rec := postForm(t, h.Register, "/register", form, nil)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, rec.Body.String(), "Password must be at least 8 characters")
}

func TestLogoutHandlerClearsCookiesEvenWhenUpstreamFails(t *testing.T) {
	upstream := http.NewServeMux()
	upstream.HandleFunc("POST /api/auth/logout", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"detail":"boom"}`, http.StatusInternalServerError)
	})

	store, api, renderer := newTestEnv(t, upstream)
	h := NewAuthHandler(store, api, renderer)

	cookies := sessionCookies(t, store, "access-1", "refresh-1")
	rec := postForm(t, h.Logout, "/logout", url.Values{}, cookies)

	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.True(t, strings.HasPrefix(rec.Header().Get("Location"), "/login"))

	expired := 0
	for _, c := range rec.Result().Cookies() {
		if c.MaxAge < 0 {
			expired++
		}
	}
	require.Equal(t, 2, expired, "both token cookies should be expired")
}

func TestPasswordResetRequestIsUniform(t *testing.T) {
	upstream := http.NewServeMux()
	upstream.HandleFunc("POST /api/auth/password-reset/request", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(map[string]string{"detail": "User not found"})
	})

	store, api, renderer := newTestEnv(t, upstream)
	h := NewAuthHandler(store, api, renderer)

	form := url.Values{"email": {"ghost@example.com"}}
	rec := postForm(t, h.PasswordResetRequest, "/password-reset", form, nil)

	// The page never reveals whether the address exists.
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "If the email exists")
	require.NotContains(t, rec.Body.String(), "User not found")
}

package session

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	store, err := NewStore("deallens_access_token", "deallens_refresh_token", "test-secret", false, 168*time.Hour)
	require.NoError(t, err)
	return store
}

// requestWithCookies replays the Set-Cookie headers from a recorded response
// onto a fresh request, the way a browser would: headers apply in order, the
// last one per name wins, and MaxAge<0 deletes the cookie.
func requestWithCookies(t *testing.T, rec *httptest.ResponseRecorder) *http.Request {
	t.Helper()

	jar := map[string]*http.Cookie{}
	for _, cookie := range rec.Result().Cookies() {
		if cookie.MaxAge < 0 {
			delete(jar, cookie.Name)
			continue
		}
		jar[cookie.Name] = cookie
	}

	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	for _, cookie := range jar {
		req.AddCookie(&http.Cookie{Name: cookie.Name, Value: cookie.Value})
	}

	return req
}

func TestWebSessionRoundTrip(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)

	rec := httptest.NewRecorder()
	sess := store.Load(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Empty(t, sess.AccessToken())
	require.Empty(t, sess.RefreshToken())

	sess.SetTokens("A1", "R1")
	require.Equal(t, "A1", sess.AccessToken())
	require.Equal(t, "R1", sess.RefreshToken())

	next := store.Load(httptest.NewRecorder(), requestWithCookies(t, rec))
	require.Equal(t, "A1", next.AccessToken())
	require.Equal(t, "R1", next.RefreshToken())
}

func TestCookieValuesAreSealed(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)

	rec := httptest.NewRecorder()
	sess := store.Load(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	sess.SetTokens("A1", "R1")

	for _, cookie := range rec.Result().Cookies() {
		require.NotContains(t, cookie.Value, "A1")
		require.NotContains(t, cookie.Value, "R1")
		require.True(t, cookie.HttpOnly)
	}
}

func TestTamperedCookieReadsAsAbsent(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "deallens_access_token", Value: "not-a-sealed-value"})

	require.False(t, store.HasAccessToken(req))
	sess := store.Load(httptest.NewRecorder(), req)
	require.Empty(t, sess.AccessToken())
}

func TestClearExpiresBothCookies(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)

	rec := httptest.NewRecorder()
	sess := store.Load(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	sess.SetTokens("A1", "R1")
	sess.Clear()

	require.Empty(t, sess.AccessToken())
	require.Empty(t, sess.RefreshToken())

	expired := map[string]bool{}
	for _, cookie := range rec.Result().Cookies() {
		if cookie.MaxAge < 0 {
			expired[cookie.Name] = true
		}
	}
	require.True(t, expired["deallens_access_token"])
	require.True(t, expired["deallens_refresh_token"])

	next := store.Load(httptest.NewRecorder(), requestWithCookies(t, rec))
	require.Empty(t, next.AccessToken())
	require.Empty(t, next.RefreshToken())
}

func TestRotatedTokensReplayAsLatestValue(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)

	rec := httptest.NewRecorder()
	sess := store.Load(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	sess.SetTokens("A1", "R1")
	sess.SetTokens("A2", "R2")

	next := store.Load(httptest.NewRecorder(), requestWithCookies(t, rec))
	require.Equal(t, "A2", next.AccessToken())
	require.Equal(t, "R2", next.RefreshToken())
}

func TestAccessCookieExpiryFollowsTokenExp(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)

	exp := time.Now().Add(15 * time.Minute).Truncate(time.Second)
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "u-1",
		"exp": exp.Unix(),
	}).SignedString([]byte("whatever"))
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	sess := store.Load(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	sess.SetTokens(token, "R1")

	var found bool
	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == "deallens_access_token" {
			found = true
			require.WithinDuration(t, exp, cookie.Expires, time.Second)
		}
	}
	require.True(t, found)
}

func TestOpaqueTokenGetsSessionScopedCookie(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)

	rec := httptest.NewRecorder()
	sess := store.Load(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	sess.SetTokens("not-a-jwt", "also-not-a-jwt")

	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == "deallens_access_token" {
			require.True(t, cookie.Expires.IsZero())
		}
	}
}

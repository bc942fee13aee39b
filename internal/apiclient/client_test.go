package apiclient

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"deallens-dashboard/internal/model"
	"deallens-dashboard/internal/session"
	"deallens-dashboard/pkg/apierror"
)

// fakeBackend simulates the DealLens API for the refresh-and-retry policy
// tests: /api/auth/me accepts only the current access token, /api/auth/refresh
// rotates the pair when presented with the current refresh token.
type fakeBackend struct {
	accessToken  string
	refreshToken string
	refreshFails bool

	meCalls      atomic.Int64
	refreshCalls atomic.Int64
}

func (b *fakeBackend) server(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()

	mux.HandleFunc("/api/auth/me", func(w http.ResponseWriter, r *http.Request) {
		b.meCalls.Add(1)
		if r.Header.Get("Authorization") != "Bearer "+b.accessToken {
			writeDetail(w, http.StatusUnauthorized, "Could not validate credentials")
			return
		}
		_ = json.NewEncoder(w).Encode(model.User{ID: "u-1", Email: "buyer@example.com"})
	})

	mux.HandleFunc("/api/auth/refresh", func(w http.ResponseWriter, r *http.Request) {
		b.refreshCalls.Add(1)
		if b.refreshFails || r.Header.Get("Authorization") != "Bearer "+b.refreshToken {
			writeDetail(w, http.StatusUnauthorized, "Invalid refresh token")
			return
		}
		b.accessToken += "+"
		b.refreshToken += "+"
		_ = json.NewEncoder(w).Encode(model.TokenPair{
			AccessToken:  b.accessToken,
			RefreshToken: b.refreshToken,
			TokenType:    "bearer",
		})
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"detail": detail})
}

func TestRefreshRetryPolicy(t *testing.T) {
	t.Parallel()

	t.Run("expired access token triggers exactly one refresh and one retry", func(t *testing.T) {
		backend := &fakeBackend{accessToken: "A1", refreshToken: "R1"}
		server := backend.server(t)

		client := New(server.URL, 5*time.Second)
		sess := session.NewMemory("stale", "R1")

		user, err := client.Me(context.Background(), sess)
		require.NoError(t, err)
		require.Equal(t, "u-1", user.ID)

		require.Equal(t, int64(1), backend.refreshCalls.Load())
		require.Equal(t, int64(2), backend.meCalls.Load())
		require.Equal(t, "A1+", sess.AccessToken())
		require.Equal(t, "R1+", sess.RefreshToken())
	})

	t.Run("401 with no refresh token propagates unchanged", func(t *testing.T) {
		backend := &fakeBackend{accessToken: "A1", refreshToken: "R1"}
		server := backend.server(t)

		client := New(server.URL, 5*time.Second)
		sess := session.NewMemory("stale", "")

		_, err := client.Me(context.Background(), sess)
		require.Error(t, err)
		require.Equal(t, http.StatusUnauthorized, apierror.StatusOf(err))

		require.Equal(t, int64(0), backend.refreshCalls.Load())
		require.Equal(t, int64(1), backend.meCalls.Load())
	})

	t.Run("second 401 after successful refresh is not retried again", func(t *testing.T) {
		var meCalls, refreshCalls atomic.Int64
		mux := http.NewServeMux()
		mux.HandleFunc("/api/auth/me", func(w http.ResponseWriter, r *http.Request) {
			meCalls.Add(1)
			writeDetail(w, http.StatusUnauthorized, "Could not validate credentials")
		})
		mux.HandleFunc("/api/auth/refresh", func(w http.ResponseWriter, r *http.Request) {
			refreshCalls.Add(1)
			_ = json.NewEncoder(w).Encode(model.TokenPair{AccessToken: "A2", RefreshToken: "R2", TokenType: "bearer"})
		})
		server := httptest.NewServer(mux)
		t.Cleanup(server.Close)

		client := New(server.URL, 5*time.Second)
		sess := session.NewMemory("A1", "R1")

		_, err := client.Me(context.Background(), sess)
		require.Error(t, err)
		require.Equal(t, http.StatusUnauthorized, apierror.StatusOf(err))

		require.Equal(t, int64(1), refreshCalls.Load())
		require.Equal(t, int64(2), meCalls.Load())
	})

	t.Run("failed refresh clears the session", func(t *testing.T) {
		backend := &fakeBackend{accessToken: "A1", refreshToken: "R1", refreshFails: true}
		server := backend.server(t)

		client := New(server.URL, 5*time.Second)
		sess := session.NewMemory("stale", "R1")

		_, err := client.Me(context.Background(), sess)
		require.ErrorIs(t, err, model.ErrSessionExpired)

		require.Equal(t, int64(1), backend.refreshCalls.Load())
		require.Equal(t, int64(1), backend.meCalls.Load())
		require.Empty(t, sess.AccessToken())
		require.Empty(t, sess.RefreshToken())
	})

	t.Run("non-401 responses pass through without touching refresh", func(t *testing.T) {
		backend := &fakeBackend{accessToken: "A1", refreshToken: "R1"}
		server := backend.server(t)

		client := New(server.URL, 5*time.Second)
		sess := session.NewMemory("A1", "R1")

		user, err := client.Me(context.Background(), sess)
		require.NoError(t, err)
		require.Equal(t, "buyer@example.com", user.Email)

		require.Equal(t, int64(0), backend.refreshCalls.Load())
		require.Equal(t, int64(1), backend.meCalls.Load())
	})
}

func TestLoginPersistsTokensAndBearerIsAttached(t *testing.T) {
	t.Parallel()

	var sawAuthHeader string
	mux := http.NewServeMux()
	mux.HandleFunc("/api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		require.Equal(t, "application/x-www-form-urlencoded", r.Header.Get("Content-Type"))
		require.Equal(t, "buyer@example.com", r.PostFormValue("username"))
		require.Equal(t, "hunter2!A", r.PostFormValue("password"))
		_ = json.NewEncoder(w).Encode(model.TokenPair{AccessToken: "A1", RefreshToken: "R1", TokenType: "bearer"})
	})
	mux.HandleFunc("/api/auth/me", func(w http.ResponseWriter, r *http.Request) {
		sawAuthHeader = r.Header.Get("Authorization")
		_ = json.NewEncoder(w).Encode(model.User{ID: "u-1"})
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	client := New(server.URL, 5*time.Second)
	sess := session.NewMemory("", "")

	tokens, err := client.Login(context.Background(), sess, "buyer@example.com", "hunter2!A")
	require.NoError(t, err)
	require.Equal(t, "A1", tokens.AccessToken)
	require.Equal(t, "R1", tokens.RefreshToken)
	require.Equal(t, "A1", sess.AccessToken())
	require.Equal(t, "R1", sess.RefreshToken())

	_, err = client.Me(context.Background(), sess)
	require.NoError(t, err)
	require.Equal(t, "Bearer A1", sawAuthHeader)
}

func TestLogoutClearsSessionEvenWhenUpstreamFails(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("/api/auth/logout", func(w http.ResponseWriter, r *http.Request) {
		writeDetail(w, http.StatusInternalServerError, "boom")
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	client := New(server.URL, 5*time.Second)
	sess := session.NewMemory("A1", "R1")

	err := client.Logout(context.Background(), sess)
	require.Error(t, err)
	require.Empty(t, sess.AccessToken())
	require.Empty(t, sess.RefreshToken())
}

func TestUpstreamDetailSurfacesVerbatim(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("/api/auth/register", func(w http.ResponseWriter, r *http.Request) {
		writeDetail(w, http.StatusBadRequest, "A user with this email already exists")
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	client := New(server.URL, 5*time.Second)
	sess := session.NewMemory("", "")

	_, err := client.Register(context.Background(), sess, model.RegisterInput{Email: "x@y.z", Password: "pw"})
	require.Error(t, err)

	var apiErr *apierror.APIError
	require.True(t, errors.As(err, &apiErr))
	require.Equal(t, "A user with this email already exists", apiErr.Message)
	require.Equal(t, http.StatusBadRequest, apiErr.HTTPStatus)
}

func TestTransportFailureIsClassified(t *testing.T) {
	t.Parallel()

	client := New("http://127.0.0.1:1", 500*time.Millisecond)
	sess := session.NewMemory("A1", "R1")

	_, err := client.Me(context.Background(), sess)
	require.ErrorIs(t, err, model.ErrUpstreamUnavailable)
}

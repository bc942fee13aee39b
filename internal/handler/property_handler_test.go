package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPropertyList(t *testing.T) {
	upstream := http.NewServeMux()
	upstream.HandleFunc("GET /api/properties/", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer access-1" {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			_ = json.NewEncoder(w).Encode(map[string]string{"detail": "Could not validate credentials"})
			return
		}
		_ = json.NewEncoder(w).Encode([]map[string]any{
			{"id": "p-1", "property_address": "Calle 12 #34-56", "property_city": "Bogota", "status": "active"},
			{"id": "p-2", "property_address": "Cra 7 #10-20", "property_city": "Medellin", "status": "active"},
		})
	})

	store, api, renderer := newTestEnv(t, upstream)
	h := NewPropertyHandler(store, api, renderer)

	t.Run("renders the page with upstream properties", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/properties", nil)
		for _, c := range sessionCookies(t, store, "access-1", "refresh-1") {
			req.AddCookie(c)
		}

		rec := httptest.NewRecorder()
		h.List(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		require.Contains(t, rec.Body.String(), "Calle 12 #34-56")
		require.Contains(t, rec.Body.String(), "Cra 7 #10-20")
	})

	t.Run("dead session redirects to login", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/properties", nil)
		for _, c := range sessionCookies(t, store, "stale-access", "") {
			req.AddCookie(c)
		}

		rec := httptest.NewRecorder()
		h.List(rec, req)

		require.Equal(t, http.StatusSeeOther, rec.Code)
		require.Equal(t, "/login", rec.Header().Get("Location"))
	})
}

func TestPropertyCreateRedirectsToDetail(t *testing.T) {
	upstream := http.NewServeMux()
	upstream.HandleFunc("POST /api/properties/", func(w http.ResponseWriter, r *http.Request) {
		var input map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&input))
		require.Equal(t, "Calle 12 #34-56", input["property_address"])

		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(map[string]any{"id": "p-9", "property_address": input["property_address"]})
	})

	store, api, renderer := newTestEnv(t, upstream)
	h := NewPropertyHandler(store, api, renderer)

	form := url.Values{
		"property_address": {"Calle 12 #34-56"},
		"property_city":    {"Bogota"},
	}
	rec := postForm(t, h.Create, "/properties", form, sessionCookies(t, store, "access-1", "refresh-1"))

	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Equal(t, "/properties/p-9", rec.Header().Get("Location"))
}

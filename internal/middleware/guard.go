package middleware

import (
	"net/http"

	"deallens-dashboard/internal/session"
)

// SessionGuard implements the advisory routing around the session cookies:
// unauthenticated browsers are pushed off protected screens, signed-in ones
// off the entry screens. It keys off cookie presence alone; whether the token
// is still good is the backend's decision, made when the page actually calls
// the API.
type SessionGuard struct {
	store *session.Store
}

func NewSessionGuard(store *session.Store) *SessionGuard {
	return &SessionGuard{store: store}
}

// RequireSession redirects to the login screen when no access token cookie is
// present.
func (g *SessionGuard) RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !g.store.HasAccessToken(r) {
			http.Redirect(w, r, "/login", http.StatusFound)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// RedirectAuthenticated sends browsers that already hold an access token from
// entry screens (login, register) to the authenticated landing screen.
func (g *SessionGuard) RedirectAuthenticated(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if g.store.HasAccessToken(r) {
			http.Redirect(w, r, "/dashboard", http.StatusFound)
			return
		}

		next.ServeHTTP(w, r)
	})
}

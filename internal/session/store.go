package session

import (
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Store issues per-request Web sessions backed by the two token cookies.
type Store struct {
	accessName  string
	refreshName string
	secure      bool
	refreshTTL  time.Duration
	codec       *Codec
}

func NewStore(accessName string, refreshName string, secret string, secure bool, refreshTTL time.Duration) (*Store, error) {
	codec, err := NewCodec(secret)
	if err != nil {
		return nil, err
	}

	return &Store{
		accessName:  accessName,
		refreshName: refreshName,
		secure:      secure,
		refreshTTL:  refreshTTL,
		codec:       codec,
	}, nil
}

// Load builds the session for one dashboard request. Cookie values that fail
// to open are treated as absent, never as errors.
func (s *Store) Load(w http.ResponseWriter, r *http.Request) *Web {
	return &Web{
		store:   s,
		w:       w,
		access:  s.readCookie(r, s.accessName),
		refresh: s.readCookie(r, s.refreshName),
	}
}

// HasAccessToken reports presence of a readable access cookie. The route guard
// keys off presence only; token validity is the backend's call.
func (s *Store) HasAccessToken(r *http.Request) bool {
	return s.readCookie(r, s.accessName) != ""
}

func (s *Store) readCookie(r *http.Request, name string) string {
	cookie, err := r.Cookie(name)
	if err != nil || cookie.Value == "" {
		return ""
	}

	plain, err := s.codec.Open(cookie.Value)
	if err != nil {
		return ""
	}

	return plain
}

// Web is the cookie-backed Session for one dashboard request. Writes go both
// to the in-memory copy (so later reads within the same request observe them)
// and to Set-Cookie headers on the response.
type Web struct {
	store   *Store
	w       http.ResponseWriter
	access  string
	refresh string
}

func (ws *Web) AccessToken() string { return ws.access }

func (ws *Web) RefreshToken() string { return ws.refresh }

func (ws *Web) SetTokens(access string, refresh string) {
	ws.access = access
	ws.refresh = refresh

	accessExpiry := time.Time{}
	if exp, ok := tokenExpiry(access); ok {
		accessExpiry = exp
	}

	refreshExpiry := time.Now().Add(ws.store.refreshTTL)
	if exp, ok := tokenExpiry(refresh); ok {
		refreshExpiry = exp
	}

	ws.writeCookie(ws.store.accessName, access, accessExpiry)
	ws.writeCookie(ws.store.refreshName, refresh, refreshExpiry)
}

func (ws *Web) Clear() {
	ws.access = ""
	ws.refresh = ""

	ws.expireCookie(ws.store.accessName)
	ws.expireCookie(ws.store.refreshName)
}

func (ws *Web) writeCookie(name string, value string, expires time.Time) {
	sealed, err := ws.store.codec.Seal(value)
	if err != nil {
		// A failed seal must not leave a stale credential behind.
		ws.expireCookie(name)
		return
	}

	http.SetCookie(ws.w, &http.Cookie{
		Name:     name,
		Value:    sealed,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		Secure:   ws.store.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (ws *Web) expireCookie(name string) {
	http.SetCookie(ws.w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   ws.store.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// tokenExpiry peeks at the JWT exp claim without verifying the signature. The
// dashboard never trusts the claim for authorization, only for aligning the
// cookie lifetime with the token's.
func tokenExpiry(token string) (time.Time, bool) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}

	return exp.Time, true
}

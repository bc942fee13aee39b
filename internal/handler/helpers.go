package handler

import (
	"errors"
	"net/http"
	"net/url"

	"deallens-dashboard/internal/apiclient"
	"deallens-dashboard/internal/model"
	"deallens-dashboard/internal/session"
	"deallens-dashboard/internal/view"
	"deallens-dashboard/pkg/apierror"
)

// base wires the pieces every page handler needs: the cookie store for the
// request's session, the API client, and the template renderer.
type base struct {
	store *session.Store
	api   *apiclient.Client
	view  *view.Renderer
}

func (b base) session(w http.ResponseWriter, r *http.Request) *session.Web {
	return b.store.Load(w, r)
}

// expired reports whether err means the session is gone: either the silent
// refresh failed, or the backend rejected the credential and there was
// nothing to refresh with. Callers redirect to login when it returns true.
func expired(err error) bool {
	if errors.Is(err, model.ErrSessionExpired) {
		return true
	}

	return apierror.StatusOf(err) == http.StatusUnauthorized
}

// fail renders the current page again with an inline error, except for
// expired sessions, which force a redirect to the login entry point.
func (b base) fail(w http.ResponseWriter, r *http.Request, err error, template string, page view.Page) {
	if expired(err) {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	b.inlineFail(w, err, template, page)
}

// inlineFail always renders the error in place. Entry screens use it: a 401
// on the login form means bad credentials, not an expired session.
func (b base) inlineFail(w http.ResponseWriter, err error, template string, page view.Page) {
	status := http.StatusBadGateway
	if s := apierror.StatusOf(err); s != 0 {
		status = s
	}

	page.Error = apierror.MessageOf(err)
	b.view.Render(w, status, template, page)
}

func flashEscape(message string) string {
	return url.QueryEscape(message)
}

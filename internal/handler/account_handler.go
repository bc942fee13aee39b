package handler

import (
	"net/http"
	"strings"

	"deallens-dashboard/internal/apiclient"
	"deallens-dashboard/internal/model"
	"deallens-dashboard/internal/session"
	"deallens-dashboard/internal/view"
)

type AccountHandler struct {
	base
}

func NewAccountHandler(store *session.Store, api *apiclient.Client, renderer *view.Renderer) *AccountHandler {
	return &AccountHandler{base{store: store, api: api, view: renderer}}
}

func (h *AccountHandler) Show(w http.ResponseWriter, r *http.Request) {
	sess := h.session(w, r)

	user, err := h.api.Me(r.Context(), sess)
	if err != nil {
		h.fail(w, r, err, "account", view.Page{Title: "Account"})
		return
	}

	h.view.Render(w, http.StatusOK, "account", view.Page{
		Title: "Account",
		User:  &user,
		Flash: r.URL.Query().Get("flash"),
	})
}

func (h *AccountHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	sess := h.session(w, r)

	page := view.Page{Title: "Account"}
	if user, err := h.api.Me(r.Context(), sess); err == nil {
		page.User = &user
	}

	if err := r.ParseForm(); err != nil {
		page.Error = "Invalid form submission"
		h.view.Render(w, http.StatusBadRequest, "account", page)
		return
	}

	current := r.PostFormValue("current_password")
	next := strings.TrimSpace(r.PostFormValue("new_password"))
	if current == "" || next == "" {
		page.Error = "Both current and new password are required"
		h.view.Render(w, http.StatusBadRequest, "account", page)
		return
	}

	err := h.api.ChangePassword(r.Context(), sess, model.PasswordChangeInput{
		CurrentPassword: current,
		NewPassword:     next,
	})
	if err != nil {
		h.fail(w, r, err, "account", page)
		return
	}

	http.Redirect(w, r, "/account?flash="+flashEscape("Password updated"), http.StatusSeeOther)
}

func (h *AccountHandler) ResendVerification(w http.ResponseWriter, r *http.Request) {
	sess := h.session(w, r)

	if err := h.api.ResendVerification(r.Context(), sess); err != nil {
		h.fail(w, r, err, "account", view.Page{Title: "Account"})
		return
	}

	http.Redirect(w, r, "/account?flash="+flashEscape("Verification email sent"), http.StatusSeeOther)
}

package handler

import (
	"net/http"
	"strings"

	"deallens-dashboard/internal/apiclient"
	"deallens-dashboard/internal/model"
	"deallens-dashboard/internal/session"
	"deallens-dashboard/internal/view"
)

type AuthHandler struct {
	base
}

func NewAuthHandler(store *session.Store, api *apiclient.Client, renderer *view.Renderer) *AuthHandler {
	return &AuthHandler{base{store: store, api: api, view: renderer}}
}

type loginForm struct {
	Email string
}

func (h *AuthHandler) LoginForm(w http.ResponseWriter, r *http.Request) {
	h.view.Render(w, http.StatusOK, "login", view.Page{
		Title: "Sign in",
		Flash: r.URL.Query().Get("flash"),
		Data:  loginForm{},
	})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.view.Render(w, http.StatusBadRequest, "login", view.Page{Title: "Sign in", Error: "Invalid form submission", Data: loginForm{}})
		return
	}

	email := strings.TrimSpace(r.PostFormValue("email"))
	password := r.PostFormValue("password")

	sess := h.session(w, r)
	if _, err := h.api.Login(r.Context(), sess, email, password); err != nil {
		h.inlineFail(w, err, "login", view.Page{Title: "Sign in", Data: loginForm{Email: email}})
		return
	}

	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

type registerForm struct {
	Email    string
	FullName string
	Company  string
	Phone    string
}

func (h *AuthHandler) RegisterForm(w http.ResponseWriter, r *http.Request) {
	h.view.Render(w, http.StatusOK, "register", view.Page{Title: "Create account", Data: registerForm{}})
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.view.Render(w, http.StatusBadRequest, "register", view.Page{Title: "Create account", Error: "Invalid form submission", Data: registerForm{}})
		return
	}

	input := model.RegisterInput{
		Email:    strings.TrimSpace(r.PostFormValue("email")),
		Password: r.PostFormValue("password"),
		FullName: strings.TrimSpace(r.PostFormValue("full_name")),
		Phone:    strings.TrimSpace(r.PostFormValue("phone")),
		Company:  strings.TrimSpace(r.PostFormValue("company")),
	}
	form := registerForm{Email: input.Email, FullName: input.FullName, Company: input.Company, Phone: input.Phone}

	sess := h.session(w, r)
	if _, err := h.api.Register(r.Context(), sess, input); err != nil {
		h.inlineFail(w, err, "register", view.Page{Title: "Create account", Data: form})
		return
	}

	// Registration returns a profile, not a session; sign the browser in.
	if _, err := h.api.Login(r.Context(), sess, input.Email, input.Password); err != nil {
		http.Redirect(w, r, "/login?flash="+flashEscape("Account created, please sign in"), http.StatusSeeOther)
		return
	}

	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	sess := h.session(w, r)
	// The session dies regardless of the upstream call's outcome.
	_ = h.api.Logout(r.Context(), sess)
	http.Redirect(w, r, "/login?flash="+flashEscape("Signed out"), http.StatusSeeOther)
}

type resetForm struct {
	Token string
}

func (h *AuthHandler) PasswordResetForm(w http.ResponseWriter, r *http.Request) {
	h.view.Render(w, http.StatusOK, "password_reset", view.Page{Title: "Reset password", Data: resetForm{}})
}

func (h *AuthHandler) PasswordResetRequest(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.view.Render(w, http.StatusBadRequest, "password_reset", view.Page{Title: "Reset password", Error: "Invalid form submission", Data: resetForm{}})
		return
	}

	sess := h.session(w, r)
	email := strings.TrimSpace(r.PostFormValue("email"))
	_ = h.api.RequestPasswordReset(r.Context(), sess, email)

	// Same answer whether or not the account exists.
	h.view.Render(w, http.StatusOK, "password_reset", view.Page{
		Title: "Reset password",
		Flash: "If the email exists, a password reset link has been sent",
		Data:  resetForm{},
	})
}

func (h *AuthHandler) PasswordResetConfirmForm(w http.ResponseWriter, r *http.Request) {
	h.view.Render(w, http.StatusOK, "password_reset_confirm", view.Page{
		Title: "Choose a new password",
		Data:  resetForm{Token: r.URL.Query().Get("token")},
	})
}

func (h *AuthHandler) PasswordResetConfirm(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.view.Render(w, http.StatusBadRequest, "password_reset_confirm", view.Page{Title: "Choose a new password", Error: "Invalid form submission", Data: resetForm{}})
		return
	}

	input := model.PasswordResetConfirmInput{
		Token:       strings.TrimSpace(r.PostFormValue("token")),
		NewPassword: r.PostFormValue("new_password"),
	}

	sess := h.session(w, r)
	if err := h.api.ConfirmPasswordReset(r.Context(), sess, input); err != nil {
		h.inlineFail(w, err, "password_reset_confirm", view.Page{Title: "Choose a new password", Data: resetForm{Token: input.Token}})
		return
	}

	http.Redirect(w, r, "/login?flash="+flashEscape("Password reset, please sign in"), http.StatusSeeOther)
}

func (h *AuthHandler) VerifyEmail(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")

	sess := h.session(w, r)
	if err := h.api.VerifyEmail(r.Context(), sess, token); err != nil {
		http.Redirect(w, r, "/login?flash="+flashEscape("Email verification failed"), http.StatusSeeOther)
		return
	}

	http.Redirect(w, r, "/login?flash="+flashEscape("Email verified"), http.StatusSeeOther)
}

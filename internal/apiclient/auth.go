package apiclient

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"deallens-dashboard/internal/model"
	"deallens-dashboard/internal/session"
)

// Login exchanges credentials for a token pair and persists it on the
// session. The backend speaks OAuth2 password flow, so credentials go out
// form-encoded with the email in the username field.
func (c *Client) Login(ctx context.Context, sess session.Session, email string, password string) (model.TokenPair, error) {
	form := url.Values{}
	form.Set("username", email)
	form.Set("password", password)

	var tokens model.TokenPair
	err := c.do(ctx, sess, call{
		method:      http.MethodPost,
		path:        "/auth/login",
		contentType: "application/x-www-form-urlencoded",
		body:        []byte(form.Encode()),
	}, &tokens)
	if err != nil {
		return model.TokenPair{}, err
	}

	if tokens.AccessToken == "" || tokens.RefreshToken == "" {
		return model.TokenPair{}, fmt.Errorf("login response missing tokens")
	}

	sess.SetTokens(tokens.AccessToken, tokens.RefreshToken)
	return tokens, nil
}

// Register creates an account. The backend returns the created profile, not a
// session; callers log in afterwards to establish one.
func (c *Client) Register(ctx context.Context, sess session.Session, input model.RegisterInput) (model.User, error) {
	body, err := json.Marshal(input)
	if err != nil {
		return model.User{}, err
	}

	var user model.User
	err = c.do(ctx, sess, call{
		method:      http.MethodPost,
		path:        "/auth/register",
		contentType: "application/json",
		body:        body,
	}, &user)
	return user, err
}

// Logout tells the backend goodbye and destroys the session either way: the
// worst outcome of a failed logout call is still a signed-out browser.
func (c *Client) Logout(ctx context.Context, sess session.Session) error {
	err := c.do(ctx, sess, call{method: http.MethodPost, path: "/auth/logout"}, nil)
	sess.Clear()
	return err
}

func (c *Client) Me(ctx context.Context, sess session.Session) (model.User, error) {
	var user model.User
	err := c.do(ctx, sess, call{method: http.MethodGet, path: "/auth/me"}, &user)
	return user, err
}

func (c *Client) ChangePassword(ctx context.Context, sess session.Session, input model.PasswordChangeInput) error {
	body, err := json.Marshal(input)
	if err != nil {
		return err
	}

	return c.do(ctx, sess, call{
		method:      http.MethodPut,
		path:        "/auth/me/password",
		contentType: "application/json",
		body:        body,
	}, nil)
}

// RequestPasswordReset always succeeds upstream to avoid email enumeration.
func (c *Client) RequestPasswordReset(ctx context.Context, sess session.Session, email string) error {
	body, err := json.Marshal(map[string]string{"email": email})
	if err != nil {
		return err
	}

	return c.do(ctx, sess, call{
		method:      http.MethodPost,
		path:        "/auth/password-reset/request",
		contentType: "application/json",
		body:        body,
	}, nil)
}

func (c *Client) ConfirmPasswordReset(ctx context.Context, sess session.Session, input model.PasswordResetConfirmInput) error {
	body, err := json.Marshal(input)
	if err != nil {
		return err
	}

	return c.do(ctx, sess, call{
		method:      http.MethodPost,
		path:        "/auth/password-reset/confirm",
		contentType: "application/json",
		body:        body,
	}, nil)
}

func (c *Client) VerifyEmail(ctx context.Context, sess session.Session, token string) error {
	body, err := json.Marshal(map[string]string{"token": token})
	if err != nil {
		return err
	}

	return c.do(ctx, sess, call{
		method:      http.MethodPost,
		path:        "/auth/verify-email",
		contentType: "application/json",
		body:        body,
	}, nil)
}

func (c *Client) ResendVerification(ctx context.Context, sess session.Session) error {
	return c.do(ctx, sess, call{method: http.MethodPost, path: "/auth/resend-verification"}, nil)
}

// Package apiclient is the dashboard's HTTP client for the DealLens backend.
// One shared client carries the base URL and JSON defaults; every call reads
// the bearer token from the caller's session just before transmission and, on
// a 401, performs exactly one silent refresh-and-retry before giving up.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"deallens-dashboard/internal/model"
	"deallens-dashboard/internal/session"
	"deallens-dashboard/pkg/apierror"
)

const apiPrefix = "/api"

type Client struct {
	baseURL string
	http    *http.Client
}

func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// call describes one upstream request in a replayable form. Bodies are held
// as bytes so the identical request can be re-issued after a token refresh.
type call struct {
	method      string
	path        string
	query       url.Values
	contentType string
	body        []byte
}

// attempt pairs a call with its retry state. The refreshed flag replaces the
// hidden request-object mutation this mechanism is usually built on: a second
// 401 after a successful refresh is a genuine auth failure, never retried.
type attempt struct {
	call      call
	refreshed bool
}

// do executes a call with the refresh-and-retry policy and decodes the JSON
// response into out. Pass a nil out for responses whose body is irrelevant.
func (c *Client) do(ctx context.Context, sess session.Session, cl call, out any) error {
	resp, err := c.exchange(ctx, sess, cl)
	if err != nil {
		return err
	}
	defer drainClose(resp.Body)

	if resp.StatusCode >= 400 {
		return decodeError(resp)
	}

	if out == nil {
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode upstream response: %w", err)
	}

	return nil
}

// exchange sends the call and applies the single-retry policy: attach the
// access token, send, and on a 401 refresh once and re-issue the exact same
// request. The retry's outcome, whatever it is, becomes the caller-visible
// result. Concurrent requests racing into 401 each refresh independently;
// the cookie jar is last-writer-wins.
func (c *Client) exchange(ctx context.Context, sess session.Session, cl call) (*http.Response, error) {
	att := attempt{call: cl}

	resp, err := c.send(ctx, att.call, sess.AccessToken())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrUpstreamUnavailable, err)
	}

	if resp.StatusCode != http.StatusUnauthorized || att.refreshed {
		return resp, nil
	}
	att.refreshed = true

	refreshToken := sess.RefreshToken()
	if refreshToken == "" {
		// Nothing to refresh with; the original 401 is the result.
		return resp, nil
	}

	tokens, err := c.Refresh(ctx, refreshToken)
	if err != nil {
		drainClose(resp.Body)
		sess.Clear()
		slog.Warn("session refresh failed", "error", err)
		return nil, fmt.Errorf("%w: %v", model.ErrSessionExpired, err)
	}

	sess.SetTokens(tokens.AccessToken, tokens.RefreshToken)
	drainClose(resp.Body)

	retry, err := c.send(ctx, att.call, tokens.AccessToken)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrUpstreamUnavailable, err)
	}

	return retry, nil
}

// send issues one request. Absence of an access token is not an error here;
// the request goes out unauthenticated and the backend decides.
func (c *Client) send(ctx context.Context, cl call, accessToken string) (*http.Response, error) {
	var body io.Reader = http.NoBody
	if cl.body != nil {
		body = bytes.NewReader(cl.body)
	}

	req, err := http.NewRequestWithContext(ctx, cl.method, c.url(cl.path, cl.query), body)
	if err != nil {
		return nil, err
	}

	req.Header.Set("Accept", "application/json")
	if cl.contentType != "" {
		req.Header.Set("Content-Type", cl.contentType)
	}
	if accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+accessToken)
	}

	return c.http.Do(req)
}

// Refresh exchanges the refresh token for a new token pair. It deliberately
// bypasses exchange: the refresh endpoint must never trigger another refresh.
func (c *Client) Refresh(ctx context.Context, refreshToken string) (model.TokenPair, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url("/auth/refresh", nil), http.NoBody)
	if err != nil {
		return model.TokenPair{}, err
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+refreshToken)

	resp, err := c.http.Do(req)
	if err != nil {
		return model.TokenPair{}, fmt.Errorf("%w: %v", model.ErrUpstreamUnavailable, err)
	}
	defer drainClose(resp.Body)

	if resp.StatusCode != http.StatusOK {
		return model.TokenPair{}, decodeError(resp)
	}

	var tokens model.TokenPair
	if err := json.NewDecoder(resp.Body).Decode(&tokens); err != nil {
		return model.TokenPair{}, fmt.Errorf("failed to decode refresh response: %w", err)
	}

	if tokens.AccessToken == "" || tokens.RefreshToken == "" {
		return model.TokenPair{}, fmt.Errorf("refresh response missing tokens")
	}

	return tokens, nil
}

func (c *Client) url(path string, query url.Values) string {
	u := c.baseURL + apiPrefix + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	return u
}

// decodeError turns an upstream error response into an APIError, keeping the
// backend's detail message verbatim for form UI.
func decodeError(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))

	var parsed struct {
		Detail any `json:"detail"`
	}
	detail := ""
	if err := json.Unmarshal(raw, &parsed); err == nil {
		switch d := parsed.Detail.(type) {
		case string:
			detail = d
		case []any:
			// Validation errors arrive as a list; surface the first message.
			if len(d) > 0 {
				if m, ok := d[0].(map[string]any); ok {
					if msg, ok := m["msg"].(string); ok {
						detail = msg
					}
				}
			}
		}
	}

	return apierror.FromStatus(resp.StatusCode, detail)
}

func drainClose(body io.ReadCloser) {
	_, _ = io.Copy(io.Discard, io.LimitReader(body, 64<<10))
	_ = body.Close()
}

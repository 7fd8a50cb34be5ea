// Package client implements the RosterDesk client core: the HTTP API
// client, the credential store, and the engine that keeps the displayed
// roster in sync with the server.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/hwaller/rosterdesk/pkg/model"
)

// ServerError is a non-2xx response from the roster server. Detail carries
// the server's structured error message and may be empty when the body had
// none.
type ServerError struct {
	Status int
	Detail string
}

func (e *ServerError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("server returned status %d", e.Status)
	}
	return e.Detail
}

// API talks to the roster server's JSON endpoints. Calls bearing a token
// send it as an Authorization header; the token is always passed in by the
// caller so that each request carries the credential valid when it was
// issued.
type API struct {
	base string
	http *http.Client
}

// NewAPI creates an API client for the given base URL, e.g.
// "http://localhost:8100".
func NewAPI(baseURL string) (*API, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("client: parse server url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("client: server url must be http or https, got %q", baseURL)
	}
	return &API{
		base: strings.TrimRight(u.String(), "/"),
		http: &http.Client{},
	}, nil
}

// Activities fetches the full activity mapping. The returned roster keeps
// the server's iteration order.
func (a *API) Activities(ctx context.Context) (*model.Roster, error) {
	roster := model.NewRoster()
	if err := a.do(ctx, http.MethodGet, "/activities", "", roster); err != nil {
		return nil, err
	}
	return roster, nil
}

// Login exchanges a username and password for a credential. The values are
// sent verbatim; validation is the server's job.
func (a *API) Login(ctx context.Context, username, password string) (model.Credential, error) {
	q := url.Values{}
	q.Set("username", username)
	q.Set("password", password)

	var cred model.Credential
	if err := a.do(ctx, http.MethodPost, "/auth/login?"+q.Encode(), "", &cred); err != nil {
		return model.Credential{}, err
	}
	return cred, nil
}

// Logout notifies the server that the session is over. The response body is
// ignored; callers treat every outcome as success.
func (a *API) Logout(ctx context.Context, token string) error {
	return a.do(ctx, http.MethodPost, "/auth/logout", token, nil)
}

// Me validates a stored token and returns the identity the server knows it
// by.
func (a *API) Me(ctx context.Context, token string) (string, error) {
	var resp struct {
		Username string `json:"username"`
	}
	if err := a.do(ctx, http.MethodGet, "/auth/me", token, &resp); err != nil {
		return "", err
	}
	return resp.Username, nil
}

// SignUp enrolls email in the named activity and returns the server's
// confirmation message.
func (a *API) SignUp(ctx context.Context, token, activity, email string) (string, error) {
	return a.mutate(ctx, http.MethodPost, token, activity, "signup", email)
}

// Unregister removes email from the named activity and returns the server's
// confirmation message.
func (a *API) Unregister(ctx context.Context, token, activity, email string) (string, error) {
	return a.mutate(ctx, http.MethodDelete, token, activity, "unregister", email)
}

func (a *API) mutate(ctx context.Context, method, token, activity, op, email string) (string, error) {
	q := url.Values{}
	q.Set("email", email)
	path := "/activities/" + url.PathEscape(activity) + "/" + op + "?" + q.Encode()

	var resp struct {
		Message string `json:"message"`
	}
	if err := a.do(ctx, method, path, token, &resp); err != nil {
		return "", err
	}
	return resp.Message, nil
}

// do issues a request and decodes the JSON response into out (when out is
// non-nil). Non-2xx responses become *ServerError with the body's detail
// field.
func (a *API) do(ctx context.Context, method, path, token string, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, a.base+path, nil)
	if err != nil {
		return fmt.Errorf("client: build request: %w", err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := a.http.Do(req)
	if err != nil {
		return fmt.Errorf("client: %s %s: %w", method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("client: read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var detail struct {
			Detail string `json:"detail"`
		}
		_ = json.Unmarshal(body, &detail) // a body without detail is fine
		return &ServerError{Status: resp.StatusCode, Detail: detail.Detail}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("client: decode response: %w", err)
	}
	return nil
}

// Package api is the client for the Arbor identity/network service.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/arbor-app/arbor/pkg/errors"
)

// TokenSource supplies the bearer token for outgoing requests.
// An empty return sends the request unauthenticated.
type TokenSource func() string

// Client talks to the remote identity/network API.
type Client struct {
	baseURL string
	http    *http.Client
	token   TokenSource
	limiter *rate.Limiter
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithTokenSource sets the bearer token source, typically
// session.Controller.Token.
func WithTokenSource(ts TokenSource) Option {
	return func(c *Client) { c.token = ts }
}

// WithRateLimit caps outgoing requests at rps with the given burst.
func WithRateLimit(rps float64, burst int) Option {
	return func(c *Client) { c.limiter = rate.NewLimiter(rate.Limit(rps), burst) }
}

// NewClient creates a client for the API at baseURL.
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 15 * time.Second},
		limiter: rate.NewLimiter(rate.Limit(10), 20),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Identity describes the signed-in account as the server sees it.
type Identity struct {
	ID          string `json:"id"`
	Handle      string `json:"handle"`
	DisplayName string `json:"displayName"`
	AvatarURL   string `json:"avatarUrl"`
	MemberCount int    `json:"memberCount"`
}

// Member is one account in the caller's network.
type Member struct {
	ID          string `json:"id"`
	Handle      string `json:"handle"`
	DisplayName string `json:"displayName"`
	AvatarURL   string `json:"avatarUrl"`
	Online      bool   `json:"online"`
}

// APIError is a non-2xx response from the server.
type APIError struct {
	Status    int    `json:"-"`
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"-"`
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api: %d %s: %s", e.Status, e.Code, e.Message)
	}
	return fmt.Sprintf("api: status %d", e.Status)
}

// Identity fetches the signed-in account's identity.
func (c *Client) Identity(ctx context.Context) (*Identity, error) {
	var out Identity
	if err := c.get(ctx, "/v1/identity", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Members fetches the accounts in the caller's network.
func (c *Client) Members(ctx context.Context) ([]Member, error) {
	var out struct {
		Members []Member `json:"members"`
	}
	if err := c.get(ctx, "/v1/members", &out); err != nil {
		return nil, err
	}
	return out.Members, nil
}

// get performs a rate-limited GET and decodes the JSON response into out.
// Transport and decode failures come back as *errors.AppError so callers can
// report them unchanged.
func (c *Client) get(ctx context.Context, path string, out any) error {
	op := "api.Client.get " + path

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return &errors.AppError{Op: op, Kind: errors.KindNetwork, Err: err}
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return &errors.AppError{Op: op, Kind: errors.KindNetwork, Err: err}
	}
	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-Id", requestID)
	if c.token != nil {
		if token := c.token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &errors.AppError{Op: op, Kind: errors.KindNetwork, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Status: resp.StatusCode, RequestID: requestID}
		// Body decode is best-effort; the status alone is a valid error.
		json.NewDecoder(resp.Body).Decode(apiErr)
		return &errors.AppError{Op: op, Kind: errors.KindNetwork, Err: apiErr}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &errors.AppError{Op: op, Kind: errors.KindDecode, Err: err}
	}
	return nil
}

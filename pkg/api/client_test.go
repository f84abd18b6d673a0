package api

import (
	"context"
	stderrors "errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/arbor-app/arbor/pkg/errors"
)

func TestIdentity(t *testing.T) {
	var gotAuth, gotRequestID string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/identity" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		gotAuth = r.Header.Get("Authorization")
		gotRequestID = r.Header.Get("X-Request-Id")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"u1","handle":"maple","displayName":"Maple","memberCount":12}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, WithTokenSource(func() string { return "tok-abc" }))
	identity, err := client.Identity(testContext(t))
	if err != nil {
		t.Fatalf("Identity failed: %v", err)
	}

	if identity.Handle != "maple" || identity.MemberCount != 12 {
		t.Errorf("unexpected identity: %+v", identity)
	}
	if gotAuth != "Bearer tok-abc" {
		t.Errorf("unexpected auth header %q", gotAuth)
	}
	if gotRequestID == "" {
		t.Error("expected a request correlation id")
	}
}

func TestIdentityWithoutToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "" {
			t.Error("unauthenticated request should omit Authorization")
		}
		w.Write([]byte(`{"id":"u1"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL)
	if _, err := client.Identity(testContext(t)); err != nil {
		t.Fatalf("Identity failed: %v", err)
	}
}

func TestMembers(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/members" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Write([]byte(`{"members":[{"id":"m1","handle":"fern","online":true},{"id":"m2","handle":"ash"}]}`))
	}))
	defer server.Close()

	client := NewClient(server.URL)
	members, err := client.Members(testContext(t))
	if err != nil {
		t.Fatalf("Members failed: %v", err)
	}

	if len(members) != 2 {
		t.Fatalf("expected 2 members, got %d", len(members))
	}
	if members[0].Handle != "fern" || !members[0].Online {
		t.Errorf("unexpected first member: %+v", members[0])
	}
}

func TestServerErrorSurfacesAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"code":"expired_token","message":"token expired"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL)
	_, err := client.Identity(testContext(t))
	if err == nil {
		t.Fatal("expected an error")
	}

	var appErr *errors.AppError
	if !stderrors.As(err, &appErr) || appErr.Kind != errors.KindNetwork {
		t.Fatalf("expected network AppError, got %v", err)
	}
	var apiErr *APIError
	if !stderrors.As(err, &apiErr) {
		t.Fatalf("expected wrapped APIError, got %v", err)
	}
	if apiErr.Status != http.StatusForbidden || apiErr.Code != "expired_token" {
		t.Errorf("unexpected APIError: %+v", apiErr)
	}
	if apiErr.RequestID == "" {
		t.Error("APIError should carry the request id")
	}
}

func TestMalformedBodyIsDecodeError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{not json`))
	}))
	defer server.Close()

	client := NewClient(server.URL)
	_, err := client.Identity(testContext(t))

	var appErr *errors.AppError
	if !stderrors.As(err, &appErr) || appErr.Kind != errors.KindDecode {
		t.Fatalf("expected decode AppError, got %v", err)
	}
}

func TestRateLimiterHonorsContext(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	// Zero-rate limiter: the first request consumes the burst, the second
	// blocks until the context is canceled.
	client := NewClient(server.URL, WithRateLimit(0, 1))
	if _, err := client.Identity(testContext(t)); err != nil {
		t.Fatalf("first request should pass on burst: %v", err)
	}

	ctx, cancel := context.WithCancel(testContext(t))
	cancel()
	if _, err := client.Identity(ctx); err == nil {
		t.Error("expected rate limiter to fail on canceled context")
	}
}

// testContext returns a context canceled when the test ends, standing in
// for (*testing.T).Context which requires Go 1.24.
func testContext(t *testing.T) context.Context {
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	return ctx
}

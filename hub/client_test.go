/*
   Copyright 2025 The DIRPX Authors

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/

package hub_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"dirpx.dev/kohub"
	"dirpx.dev/kohub/hub"
	"dirpx.dev/kohub/internal/hubtest"
	"dirpx.dev/kohub/kind"
	"dirpx.dev/kohub/reason"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func newClient(t *testing.T, endpoint string, opts ...hub.Option) *hub.Client {
	t.Helper()
	c, err := hub.New(endpoint, opts...)
	if err != nil {
		t.Fatalf("hub.New(%q): %v", endpoint, err)
	}
	return c
}

func closedEndpoint() string {
	srv := httptest.NewServer(http.NotFoundHandler())
	u := srv.URL
	srv.Close()
	return u
}

func TestNew_InvalidEndpoint(t *testing.T) {
	for _, ep := range []string{"", "localhost:28080", "ftp://hub", "http://", "://bad"} {
		if _, err := hub.New(ep); err == nil {
			t.Fatalf("hub.New(%q) must fail", ep)
		}
	}
}

func TestExecute_URLQueryAndBearer(t *testing.T) {
	srv := hubtest.New(t)
	srv.JSON("GET /api/models", http.StatusOK, []any{})

	c := newClient(t, srv.URL+"/", hub.WithToken("tok-123"))
	if c.Endpoint() != srv.URL {
		t.Fatalf("endpoint = %q, trailing slash must be stripped", c.Endpoint())
	}
	resp, err := c.Execute(context.Background(), hub.Request{
		Method: http.MethodGet,
		Path:   "/api/models",
		Query:  map[string][]string{"limit": {"5"}},
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	resp.Body.Close()

	got := srv.Last(t)
	if got.Path != "/api/models" || got.RawQuery != "limit=5" {
		t.Fatalf("request = %s?%s", got.Path, got.RawQuery)
	}
	if h := got.Header.Get("Authorization"); h != "Bearer tok-123" {
		t.Fatalf("Authorization = %q", h)
	}
}

func TestExecute_TokenChangesAreVisible(t *testing.T) {
	srv := hubtest.New(t)
	srv.JSON("GET /api/auth/me", http.StatusOK, map[string]any{"username": "alice"})
	c := newClient(t, srv.URL)
	ctx := context.Background()

	if _, err := c.Whoami(ctx); err != nil {
		t.Fatalf("Whoami: %v", err)
	}
	if h := srv.Last(t).Header.Get("Authorization"); h != "" {
		t.Fatalf("anonymous request sent Authorization %q", h)
	}

	c.Session().SetToken("fresh")
	_, _ = c.Whoami(ctx)
	if h := srv.Last(t).Header.Get("Authorization"); h != "Bearer fresh" {
		t.Fatalf("after SetToken Authorization = %q", h)
	}

	c.Session().ClearToken()
	_, _ = c.Whoami(ctx)
	if h := srv.Last(t).Header.Get("Authorization"); h != "" {
		t.Fatalf("after ClearToken Authorization = %q", h)
	}
}

func TestExecute_SessionAuthorizationOnly(t *testing.T) {
	srv := hubtest.New(t)
	srv.JSON("GET /api/auth/me", http.StatusOK, map[string]any{"username": "alice"})
	c := newClient(t, srv.URL)
	ctx := context.Background()
	req := hub.Request{
		Method: http.MethodGet,
		Path:   "/api/auth/me",
		Header: http.Header{"Authorization": {"Bearer stale"}, "X-Trace": {"1"}},
	}

	resp, err := c.Execute(ctx, req)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	resp.Body.Close()
	got := srv.Last(t)
	if h, ok := got.Header["Authorization"]; ok {
		t.Fatalf("no token set, yet Authorization %q was sent", h)
	}
	if got.Header.Get("X-Trace") != "1" {
		t.Fatalf("other caller headers must be kept")
	}

	c.Session().SetToken("tok")
	resp, err = c.Execute(ctx, req)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	resp.Body.Close()
	if h := srv.Last(t).Header.Values("Authorization"); len(h) != 1 || h[0] != "Bearer tok" {
		t.Fatalf("Authorization = %q, want only the session token", h)
	}
}

func TestLogin_SessionCookieAuthenticatesLaterCalls(t *testing.T) {
	srv := hubtest.New(t)
	srv.Sessions()
	c := newClient(t, srv.URL)
	ctx := context.Background()

	if _, err := c.CreateToken(ctx, "early"); !errors.Is(err, kohub.ErrAuthentication) {
		t.Fatalf("CreateToken before login: err = %v, want authentication", err)
	}
	if _, err := c.Login(ctx, "alice", "secret"); err != nil {
		t.Fatalf("Login: %v", err)
	}
	res, err := c.CreateToken(ctx, "cli")
	if err != nil {
		t.Fatalf("CreateToken after login: %v", err)
	}
	if res["token"] != "hf_cli" {
		t.Fatalf("token = %v", res["token"])
	}
	if h := srv.Last(t).Header.Get("Cookie"); !strings.Contains(h, hubtest.SessionCookie+"=sess-1") {
		t.Fatalf("Cookie = %q", h)
	}
}

func TestExecute_ClassifiesFailures(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		wantKind   kind.Kind
		wantMsg    string
		wantReason reason.Reason
	}{
		{"unauthenticated", 401, `{"detail":"Not authenticated"}`, kind.Authentication, "Not authenticated", reason.RepoCreate},
		{"forbidden", 403, `{"detail":"Not an admin"}`, kind.Authorization, "Not an admin", reason.RepoCreate},
		{"missing", 404, ``, kind.NotFound, "HTTP 404", reason.RepoCreate},
		{"exists", 400, `{"detail":"Repository already exists"}`, kind.AlreadyExists, "Repository already exists", reason.RepoCreate},
		{"exists any case", 400, `{"message":"Name EXISTS"}`, kind.AlreadyExists, "Name EXISTS", reason.RepoCreate},
		{"bad input", 400, `{"detail":"Invalid name"}`, kind.Validation, "Invalid name", reason.RepoCreate},
		{"server text", 500, `Internal Server Error`, kind.Server, "Internal Server Error", reason.RepoCreate},
		{"gateway", 503, ``, kind.Server, "HTTP 503", reason.RepoCreate},
		{"conflict", 409, `{"detail":"Conflict"}`, kind.Generic, "Conflict", reason.RepoCreate},
		{"rate limited", 429, `slow down`, kind.Generic, "slow down", reason.RepoCreate},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := hubtest.New(t)
			srv.Raw("POST /api/repos/create", tt.status, "", tt.body)
			c := newClient(t, srv.URL)

			_, err := c.Execute(context.Background(), hub.Request{Method: http.MethodPost, Path: "/api/repos/create"})
			e, ok := kohub.As(err)
			if !ok {
				t.Fatalf("err = %v, want *kohub.Error", err)
			}
			if e.Kind != tt.wantKind || e.Message != tt.wantMsg {
				t.Fatalf("got %s %q, want %s %q", e.Kind, e.Message, tt.wantKind, tt.wantMsg)
			}
			if e.StatusCode != tt.status {
				t.Fatalf("status = %d, want %d", e.StatusCode, tt.status)
			}
			if e.Reason != tt.wantReason {
				t.Fatalf("reason = %q, want %q", e.Reason, tt.wantReason)
			}
			if e.Response == nil || e.Response.Text() != tt.body {
				t.Fatalf("response snapshot = %+v", e.Response)
			}
		})
	}
}

func TestExecute_ExplicitReasonWins(t *testing.T) {
	srv := hubtest.New(t)
	srv.Fail("GET /api/version", http.StatusInternalServerError, "down")
	c := newClient(t, srv.URL)

	_, err := c.Execute(context.Background(), hub.Request{Method: http.MethodGet, Path: "/api/version", Reason: reason.OrgGet})
	if e, _ := kohub.As(err); e == nil || e.Reason != reason.OrgGet {
		t.Fatalf("err = %v, want reason org.get", err)
	}
}

func TestExecute_NetworkFailure(t *testing.T) {
	c := newClient(t, closedEndpoint())

	_, err := c.Execute(context.Background(), hub.Request{Method: http.MethodGet, Path: "/api/auth/me"})
	e, ok := kohub.As(err)
	if !ok || e.Kind != kind.Network {
		t.Fatalf("err = %v, want network error", err)
	}
	if e.StatusCode != 0 || e.Response != nil {
		t.Fatalf("network error carries a response: %+v", e)
	}
	if !strings.HasPrefix(e.Message, "Network request failed: ") || e.Cause == nil {
		t.Fatalf("message = %q cause = %v", e.Message, e.Cause)
	}
	if !errors.Is(err, kohub.ErrNetwork) {
		t.Fatalf("errors.Is(err, ErrNetwork) = false")
	}
	if e.Reason != reason.AuthWhoami {
		t.Fatalf("reason = %q", e.Reason)
	}
}

func TestExecute_ContextCanceled(t *testing.T) {
	srv := hubtest.New(t)
	srv.JSON("GET /api/auth/me", http.StatusOK, map[string]any{})
	c := newClient(t, srv.URL)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := c.Execute(ctx, hub.Request{Method: http.MethodGet, Path: "/api/auth/me"})
	if kohub.KindOf(err) != kind.Network {
		t.Fatalf("kind = %s, want network", kohub.KindOf(err))
	}
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("cause must be context.Canceled, got %v", err)
	}
}

func TestExecute_NoRetry(t *testing.T) {
	var hits atomic.Int32
	srv := hubtest.New(t)
	srv.Handle("GET /api/version", func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	})
	c := newClient(t, srv.URL)

	_, err := c.Execute(context.Background(), hub.Request{Method: http.MethodGet, Path: "/api/version"})
	if kohub.KindOf(err) != kind.Server {
		t.Fatalf("kind = %s", kohub.KindOf(err))
	}
	if hits.Load() != 1 {
		t.Fatalf("hub hit %d times, want 1", hits.Load())
	}
}

func TestExecute_BadRequest(t *testing.T) {
	c := newClient(t, "http://localhost:28080")
	_, err := c.Execute(context.Background(), hub.Request{
		Method: http.MethodPost,
		Path:   "/api/repos/create",
		JSON:   map[string]any{},
		Body:   []byte("x"),
	})
	if !errors.Is(err, hub.ErrBadRequest) {
		t.Fatalf("err = %v, want ErrBadRequest", err)
	}
	if _, ok := kohub.As(err); ok {
		t.Fatalf("a malformed request is not a hub error")
	}
}

func TestClassify_Idempotent(t *testing.T) {
	c := newClient(t, "http://localhost:28080")
	resp := &http.Response{
		StatusCode: http.StatusBadRequest,
		Header:     http.Header{},
		Body:       io.NopCloser(strings.NewReader(`{"detail":"Organization already exists"}`)),
		Request:    httptest.NewRequest(http.MethodPost, "http://localhost:28080/org/create", nil),
	}

	first := c.Classify(resp)
	second := c.Classify(resp)
	if first == nil || second == nil {
		t.Fatalf("Classify returned nil for a 400")
	}
	if first.Kind != kind.AlreadyExists || first.Kind != second.Kind || first.Message != second.Message {
		t.Fatalf("first = %v, second = %v", first, second)
	}
	if first.Reason != reason.OrgCreate {
		t.Fatalf("reason = %q", first.Reason)
	}
	rest, _ := io.ReadAll(resp.Body)
	if string(rest) != `{"detail":"Organization already exists"}` {
		t.Fatalf("body not restored: %q", rest)
	}

	if c.Classify(&http.Response{StatusCode: http.StatusOK}) != nil {
		t.Fatalf("success must not classify")
	}
	if c.Classify(nil) != nil {
		t.Fatalf("nil response must not classify")
	}
}

func TestExecute_LogsRequests(t *testing.T) {
	srv := hubtest.New(t)
	srv.Fail("GET /org/acme", http.StatusNotFound, "Organization not found")
	core, logs := observer.New(zap.DebugLevel)
	c := newClient(t, srv.URL, hub.WithLogger(zap.New(core)))

	_, _ = c.GetOrganization(context.Background(), "acme")

	entries := logs.FilterMessage("hub request").All()
	if len(entries) != 1 {
		t.Fatalf("logged %d request entries, want 1", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["status"] != int64(404) || fields["path"] != "/org/acme" {
		t.Fatalf("fields = %v", fields)
	}
}

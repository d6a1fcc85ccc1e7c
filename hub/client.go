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

package hub

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"dirpx.dev/kohub"
	"dirpx.dev/kohub/apis"
	"dirpx.dev/kohub/classify"
	"dirpx.dev/kohub/httpx"
	"dirpx.dev/kohub/kind"
	"dirpx.dev/kohub/reason"
	"dirpx.dev/kohub/route"
	"go.uber.org/zap"
)

// Object is a loosely specified JSON object returned by the hub.
type Object = map[string]any

// Doer sends one HTTP request. *http.Client implements it.
type Doer interface {
	Do(*http.Request) (*http.Response, error)
}

// ErrBadRequest is returned by Execute for a Request that cannot be sent
// as described, e.g. one with both JSON and Body set.
var ErrBadRequest = errors.New("hub: malformed request")

// ErrUnexpectedResponse is returned when a successful response body does
// not decode into the expected shape.
var ErrUnexpectedResponse = errors.New("hub: unexpected response body")

// Request describes one hub call.
type Request struct {
	// Method is the HTTP method, e.g. http.MethodGet.
	Method string

	// Path is appended to the endpoint as-is. Callers escape dynamic
	// segments.
	Path string

	// JSON, when non-nil, is encoded as the request body with
	// Content-Type application/json.
	JSON any

	// Body is a raw payload sent with ContentType. Mutually exclusive
	// with JSON.
	Body        []byte
	ContentType string

	// Header is copied onto the request. Authorization is owned by the
	// session and is dropped from Header.
	Header http.Header
	Query  url.Values

	// Reason names the operation for error reporting. When empty it is
	// resolved from Method and Path by the client's route table.
	Reason reason.Reason
}

// Client talks to one hub endpoint. It is safe for concurrent use; the
// token lives in a shared Session.
type Client struct {
	session *Session
	do      Doer
	cls     apis.Classifier
	routes  *route.Table
	log     *zap.Logger
	ignored kohub.IgnoreHook
}

// Option configures a Client.
type Option func(*Client)

// WithToken sets the initial bearer token.
func WithToken(token string) Option {
	return func(c *Client) { c.session.SetToken(token) }
}

// WithHTTPClient sends requests through hc.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.do = hc
		}
	}
}

// WithDoer sends requests through d, e.g. a recording fake in tests.
func WithDoer(d Doer) Option {
	return func(c *Client) {
		if d != nil {
			c.do = d
		}
	}
}

// WithLogger sets the request logger. Requests are logged at debug.
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.log = l
		}
	}
}

// WithClassifier replaces classify.Default().
func WithClassifier(cls apis.Classifier) Option {
	return func(c *Client) {
		if cls != nil {
			c.cls = cls
		}
	}
}

// WithRoutes replaces route.Default().
func WithRoutes(t *route.Table) Option {
	return func(c *Client) {
		if t != nil {
			c.routes = t
		}
	}
}

// New returns a Client for endpoint, which must be an absolute http or
// https URL.
//
// The default transport keeps cookies, so the session cookie set by Login
// authenticates later calls such as CreateToken. A client passed through
// WithHTTPClient or WithDoer is used as is.
func New(endpoint string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimSpace(endpoint))
	if err != nil {
		return nil, fmt.Errorf("hub: invalid endpoint %q: %w", endpoint, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("hub: invalid endpoint %q: want http(s)://host[:port]", endpoint)
	}
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("hub: cookie jar: %w", err)
	}
	c := &Client{
		session: NewSession(strings.TrimSpace(endpoint), ""),
		do:      &http.Client{Jar: jar},
		cls:     classify.Default(),
		routes:  route.Default(),
		log:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.ignored = func(op string, err error) {
		c.log.Debug("ignored hub error",
			zap.String("op", op),
			zap.Bool("ignored", true),
			zap.Error(err),
		)
	}
	return c, nil
}

// Session returns the client's session for token management.
func (c *Client) Session() *Session { return c.session }

// Endpoint is c.Session().Endpoint().
func (c *Client) Endpoint() string { return c.session.Endpoint() }

// Classifier returns the classifier used for failed responses.
func (c *Client) Classifier() apis.Classifier { return c.cls }

// Routes returns the route table used to name operations.
func (c *Client) Routes() *route.Table { return c.routes }

// Execute sends req and returns the successful response, whose body the
// caller must close. Failures are *kohub.Error values, except for a
// malformed req, which is reported as ErrBadRequest.
func (c *Client) Execute(ctx context.Context, req Request) (*http.Response, error) {
	op := req.Reason
	if op == reason.Empty {
		op = c.routes.Resolve(req.Method, req.Path)
	}

	hreq, err := c.newRequest(ctx, req, op)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	resp, err := c.do.Do(hreq)
	if err != nil {
		c.log.Debug("hub request failed",
			zap.String("method", hreq.Method),
			zap.String("path", req.Path),
			zap.Stringer("reason", op),
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(err),
		)
		return nil, kohub.E(kind.Network, "Network request failed: "+err.Error(),
			kohub.WithReasonOption(op),
			kohub.WithCauseOption(err),
		)
	}

	c.log.Debug("hub request",
		zap.String("method", hreq.Method),
		zap.String("path", req.Path),
		zap.Int("status", resp.StatusCode),
		zap.Stringer("reason", op),
		zap.Duration("elapsed", time.Since(start)),
	)
	if resp.StatusCode >= http.StatusBadRequest {
		return nil, c.classify(resp, op)
	}
	return resp, nil
}

// Classify converts a failed response into a *kohub.Error. It returns nil
// for nil or successful responses. The body is buffered and restored, so
// Classify may be called more than once on the same response.
func (c *Client) Classify(resp *http.Response) *kohub.Error {
	if resp == nil || resp.StatusCode < http.StatusBadRequest {
		return nil
	}
	op := reason.Empty
	if resp.Request != nil && resp.Request.URL != nil {
		op = c.routes.Resolve(resp.Request.Method, strings.TrimPrefix(resp.Request.URL.Path, c.basePath()))
	}
	return c.classify(resp, op)
}

func (c *Client) classify(resp *http.Response, op reason.Reason) *kohub.Error {
	// A body that fails midway is classified on what arrived.
	body, _ := httpx.Snapshot(resp)
	msg := httpx.Message(resp.StatusCode, body)
	return kohub.E(c.cls.Kind(resp.StatusCode, msg), msg,
		kohub.WithStatusOption(resp.StatusCode),
		kohub.WithReasonOption(op),
		kohub.WithResponseOption(&kohub.Response{
			StatusCode: resp.StatusCode,
			Header:     resp.Header.Clone(),
			Body:       body,
		}),
	)
}

func (c *Client) newRequest(ctx context.Context, req Request, op reason.Reason) (*http.Request, error) {
	if req.JSON != nil && req.Body != nil {
		return nil, fmt.Errorf("%w: both JSON and Body set for %s %s", ErrBadRequest, req.Method, req.Path)
	}
	method := strings.ToUpper(req.Method)
	if method == "" {
		method = http.MethodGet
	}

	var (
		body        io.Reader
		contentType = req.ContentType
	)
	switch {
	case req.JSON != nil:
		b, err := json.Marshal(req.JSON)
		if err != nil {
			return nil, fmt.Errorf("%w: encode %s %s: %v", ErrBadRequest, method, req.Path, err)
		}
		body = bytes.NewReader(b)
		contentType = "application/json"
	case req.Body != nil:
		body = bytes.NewReader(req.Body)
	}

	target := c.session.Endpoint() + req.Path
	if len(req.Query) > 0 {
		sep := "?"
		if strings.Contains(req.Path, "?") {
			sep = "&"
		}
		target += sep + req.Query.Encode()
	}

	hreq, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, kohub.E(kind.Network, "Network request failed: "+err.Error(),
			kohub.WithReasonOption(op),
			kohub.WithCauseOption(err),
		)
	}
	for k, vs := range req.Header {
		for _, v := range vs {
			hreq.Header.Add(k, v)
		}
	}
	hreq.Header.Del("Authorization")
	if contentType != "" {
		hreq.Header.Set("Content-Type", contentType)
	}
	if tok := c.session.Token(); tok != "" {
		hreq.Header.Set("Authorization", "Bearer "+tok)
	}
	return hreq, nil
}

// doJSON runs req and decodes a JSON response body into out. A nil out
// discards the body; an empty body leaves out untouched.
func (c *Client) doJSON(ctx context.Context, req Request, out any) error {
	resp, err := c.Execute(ctx, req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("%w: decode %s %s response: %w", ErrUnexpectedResponse, req.Method, req.Path, err)
	}
	return nil
}

// basePath is the path component of the endpoint, e.g. "/hub" for
// "http://host/hub".
func (c *Client) basePath() string {
	u, err := url.Parse(c.session.Endpoint())
	if err != nil {
		return ""
	}
	return u.Path
}

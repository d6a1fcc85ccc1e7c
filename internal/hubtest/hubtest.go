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

// Package hubtest runs an in-process fake hub for tests.
//
//	srv := hubtest.New(t)
//	srv.JSON("GET /api/auth/me", http.StatusOK, map[string]any{"username": "alice"})
//	srv.Fail("POST /api/repos/create", http.StatusBadRequest, "Repository already exists")
//	c, _ := hub.New(srv.URL)
//
// Patterns use net/http.ServeMux syntax. Unregistered routes answer 404
// with a plain-text body. Every request is recorded.
package hubtest

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"dirpx.dev/kohub/httpx"
)

// Recorded is a request received by the fake hub.
type Recorded struct {
	Method   string
	Path     string
	RawQuery string
	Header   http.Header
	Body     []byte
}

// Server is a fake hub on a loopback listener.
type Server struct {
	*httptest.Server

	mux *http.ServeMux
	w   httpx.Writer

	mu       sync.Mutex
	requests []Recorded
}

// New starts a fake hub that is closed when t finishes.
func New(t testing.TB) *Server {
	t.Helper()
	s := &Server{mux: http.NewServeMux()}
	s.Server = httptest.NewServer(http.HandlerFunc(s.serve))
	t.Cleanup(s.Close)
	return s
}

func (s *Server) serve(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	_ = r.Body.Close()
	r.Body = io.NopCloser(bytes.NewReader(body))

	s.mu.Lock()
	s.requests = append(s.requests, Recorded{
		Method:   r.Method,
		Path:     r.URL.EscapedPath(),
		RawQuery: r.URL.RawQuery,
		Header:   r.Header.Clone(),
		Body:     body,
	})
	s.mu.Unlock()

	s.mux.ServeHTTP(w, r)
}

// Handle registers h for pattern.
func (s *Server) Handle(pattern string, h http.HandlerFunc) {
	s.mux.HandleFunc(pattern, h)
}

// JSON answers pattern with v encoded as JSON.
func (s *Server) JSON(pattern string, status int, v any) {
	s.Handle(pattern, func(w http.ResponseWriter, _ *http.Request) {
		WriteJSON(w, status, v)
	})
}

// Fail answers pattern with a hub-style {"detail": msg} error.
func (s *Server) Fail(pattern string, status int, msg string) {
	s.Handle(pattern, func(w http.ResponseWriter, _ *http.Request) {
		s.w.WriteDetail(w, status, msg)
	})
}

// Raw answers pattern with body verbatim.
func (s *Server) Raw(pattern string, status int, contentType, body string) {
	s.Handle(pattern, func(w http.ResponseWriter, _ *http.Request) {
		if contentType != "" {
			w.Header().Set("Content-Type", contentType)
		}
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	})
}

// SessionCookie is the cookie set by the routes Sessions registers.
const SessionCookie = "session_id"

// Sessions registers a login route that accepts any credentials and sets
// SessionCookie, and a token route that requires the cookie. Created
// tokens read "hf_<name>".
func (s *Server) Sessions() {
	s.Handle("POST /api/auth/login", func(w http.ResponseWriter, _ *http.Request) {
		http.SetCookie(w, &http.Cookie{Name: SessionCookie, Value: "sess-1", Path: "/"})
		WriteJSON(w, http.StatusOK, map[string]any{"success": true, "message": "Logged in"})
	})
	s.Handle("POST /api/auth/tokens/create", func(w http.ResponseWriter, r *http.Request) {
		if c, err := r.Cookie(SessionCookie); err != nil || c.Value != "sess-1" {
			s.w.WriteDetail(w, http.StatusUnauthorized, "Not authenticated")
			return
		}
		var in struct {
			Name string `json:"name"`
		}
		_ = json.NewDecoder(r.Body).Decode(&in)
		WriteJSON(w, http.StatusOK, map[string]any{"success": true, "token": "hf_" + in.Name, "token_id": 1})
	})
}

// Requests returns a copy of every request received so far.
func (s *Server) Requests() []Recorded {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Recorded(nil), s.requests...)
}

// Last returns the most recent request. It fails t when there is none.
func (s *Server) Last(t testing.TB) Recorded {
	t.Helper()
	reqs := s.Requests()
	if len(reqs) == 0 {
		t.Fatalf("hubtest: no request received")
	}
	return reqs[len(reqs)-1]
}

// WriteJSON writes v as a JSON response.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

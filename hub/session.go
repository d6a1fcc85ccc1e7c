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
	"strings"
	"sync"
)

// Session holds the endpoint and bearer token shared by all calls of a
// Client. A token change is seen by every request issued after it.
type Session struct {
	mu       sync.RWMutex
	endpoint string
	token    string
}

// NewSession returns a session for endpoint. Trailing slashes are removed.
func NewSession(endpoint, token string) *Session {
	return &Session{endpoint: strings.TrimRight(endpoint, "/"), token: token}
}

// Endpoint returns the base URL without a trailing slash.
func (s *Session) Endpoint() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.endpoint
}

// Token returns the current token, "" when none is set.
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// SetToken replaces the token. An empty token clears it.
func (s *Session) SetToken(token string) {
	s.mu.Lock()
	s.token = token
	s.mu.Unlock()
}

// ClearToken removes the token; later requests are anonymous.
func (s *Session) ClearToken() { s.SetToken("") }

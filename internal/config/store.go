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

package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"maps"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"dirpx.dev/kohub"
)

const (
	// DefaultEndpoint is used when neither HF_ENDPOINT nor the settings
	// file name one.
	DefaultEndpoint = "http://localhost:28080"

	// FileName is the settings file inside the config directory.
	FileName = "config.json"

	// DefaultDirName is the config directory under the home directory.
	DefaultDirName = ".kohub"
)

// Settings file keys.
const (
	KeyEndpoint = "endpoint"
	KeyToken    = "token"
	KeyHistory  = "history"
)

// Store is the JSON settings file. An unreadable or corrupt file reads as
// empty and is replaced on the next write. Store is safe for concurrent
// use within one process.
type Store struct {
	env  Env
	dir  string
	file string

	// ignored receives best-effort failures, such as a chmod the file
	// system does not support.
	ignored kohub.IgnoreHook
	now     func() time.Time

	mu   sync.Mutex
	data map[string]any
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithIgnoreHook reports dropped best-effort errors to h.
func WithIgnoreHook(h kohub.IgnoreHook) StoreOption {
	return func(s *Store) { s.ignored = h }
}

// WithClock replaces time.Now for history timestamps.
func WithClock(now func() time.Time) StoreOption {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// Open loads the settings file of env.ConfigDir, or ~/.kohub when it is
// empty. The directory is created if missing.
func Open(env Env, opts ...StoreOption) (*Store, error) {
	dir := env.ConfigDir
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("config: locate home directory: %w", err)
		}
		dir = filepath.Join(home, DefaultDirName)
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("config: create %s: %w", dir, err)
	}
	s := &Store{
		env:  env,
		dir:  dir,
		file: filepath.Join(dir, FileName),
		now:  time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.data = s.load()
	return s, nil
}

// Path returns the settings file path.
func (s *Store) Path() string { return s.file }

// Dir returns the config directory.
func (s *Store) Dir() string { return s.dir }

func (s *Store) load() map[string]any {
	b, err := os.ReadFile(s.file)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			s.ignored.Report("config.read", err)
		}
		return map[string]any{}
	}
	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil || m == nil {
		s.ignored.Report("config.parse", err)
		return map[string]any{}
	}
	return m
}

// save writes the file with two-space indentation and mode 0600. Caller
// holds mu.
func (s *Store) save() error {
	b, err := json.MarshalIndent(s.data, "", "  ")
	if err != nil {
		return fmt.Errorf("config: encode: %w", err)
	}
	if err := os.WriteFile(s.file, b, 0o600); err != nil {
		return fmt.Errorf("config: write %s: %w", s.file, err)
	}
	// WriteFile keeps the mode of an existing file.
	s.ignored.Report("config.chmod", os.Chmod(s.file, 0o600))
	return nil
}

// Get returns the value stored under key.
func (s *Store) Get(key string) (any, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.data[key]
	return v, ok
}

// GetString returns the value under key when it is a string.
func (s *Store) GetString(key string) string {
	v, _ := s.Get(key)
	str, _ := v.(string)
	return str
}

// Set stores value under key and writes the file.
func (s *Store) Set(key string, value any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = value
	return s.save()
}

// Delete removes key. Deleting a missing key does not touch the file.
func (s *Store) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.data[key]; !ok {
		return nil
	}
	delete(s.data, key)
	return s.save()
}

// Clear removes every key.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = map[string]any{}
	return s.save()
}

// All returns a shallow copy of the settings.
func (s *Store) All() map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()
	return maps.Clone(s.data)
}

// Endpoint returns HF_ENDPOINT, else the stored endpoint, else
// DefaultEndpoint.
func (s *Store) Endpoint() string {
	if s.env.Endpoint != "" {
		return s.env.Endpoint
	}
	if v := s.GetString(KeyEndpoint); v != "" {
		return v
	}
	return DefaultEndpoint
}

// SetEndpoint stores endpoint without trailing slashes.
func (s *Store) SetEndpoint(endpoint string) error {
	return s.Set(KeyEndpoint, strings.TrimRight(endpoint, "/"))
}

// Token returns HF_TOKEN, else the stored token, else "".
func (s *Store) Token() string {
	if s.env.Token != "" {
		return s.env.Token
	}
	return s.GetString(KeyToken)
}

// SetToken stores token. An empty token deletes the stored one.
func (s *Store) SetToken(token string) error {
	if token == "" {
		return s.Delete(KeyToken)
	}
	return s.Set(KeyToken, token)
}

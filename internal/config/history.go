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
	"time"

	"dirpx.dev/kohub"
)

// HistoryLimit is the number of entries kept in the history.
const HistoryLimit = 50

// Entry is one recorded CLI operation.
type Entry struct {
	Operation string         `json:"operation"`
	Details   map[string]any `json:"details"`
	Timestamp string         `json:"timestamp"`
	// Kind is the failure kind of an operation that failed.
	Kind string `json:"kind,omitempty"`
}

// AddHistory appends an entry, dropping the oldest ones beyond
// HistoryLimit. A non-nil opErr records its kind; errors that are not hub
// errors are recorded as "generic".
func (s *Store) AddHistory(op string, details map[string]any, opErr error) error {
	if details == nil {
		details = map[string]any{}
	}
	e := Entry{
		Operation: op,
		Details:   details,
		Timestamp: s.now().Format(time.RFC3339),
	}
	if opErr != nil {
		e.Kind = "generic"
		if k := kohub.KindOf(opErr); k != "" {
			e.Kind = k.String()
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	hist := s.history()
	if len(hist) >= HistoryLimit {
		hist = hist[len(hist)-(HistoryLimit-1):]
	}
	hist = append(hist, e)
	s.data[KeyHistory] = hist
	return s.save()
}

// History returns up to limit entries, most recent first. limit <= 0
// returns every entry.
func (s *Store) History(limit int) []Entry {
	s.mu.Lock()
	hist := s.history()
	s.mu.Unlock()

	if limit > 0 && len(hist) > limit {
		hist = hist[len(hist)-limit:]
	}
	out := make([]Entry, len(hist))
	for i, e := range hist {
		out[len(hist)-1-i] = e
	}
	return out
}

// ClearHistory removes every entry.
func (s *Store) ClearHistory() error {
	return s.Delete(KeyHistory)
}

// history decodes the stored history. A value that is not a list of
// entries reads as empty. Caller holds mu.
func (s *Store) history() []Entry {
	raw, ok := s.data[KeyHistory]
	if !ok {
		return nil
	}
	if hist, ok := raw.([]Entry); ok {
		return append([]Entry(nil), hist...)
	}
	b, err := json.Marshal(raw)
	if err != nil {
		return nil
	}
	var hist []Entry
	if err := json.Unmarshal(b, &hist); err != nil {
		return nil
	}
	return hist
}

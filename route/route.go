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

// Package route resolves a request method and path to the hub operation
// (reason.Reason) it performs.
//
// Rules are path templates where "*" stands for exactly one segment:
//
//	{Method: "GET", Pattern: "/api/*/*/*/tree", Reason: reason.RepoTree}
//
// Lookup is longest-prefix-match over whole segments, so
// "GET /api/models/alice/bert/tree/main/config.json" resolves to
// repo.tree. When an exact and a wildcard rule match equally deep, the
// exact rule wins. Paths no rule covers resolve to reason.Empty.
package route

import (
	"fmt"
	"strings"
	"sync"

	"dirpx.dev/kohub/reason"
	"dirpx.dev/kohub/route/internal/segmenttrie"
)

// Rule binds a method and path template to an operation.
type Rule struct {
	Method  string
	Pattern string
	Reason  reason.Reason
}

// Table is an immutable route index, safe for concurrent use.
type Table struct {
	trie *segmenttrie.Trie[reason.Reason]
	size int
}

// New builds a Table from rules. Later rules replace earlier ones with the
// same method and pattern.
func New(rules ...Rule) (*Table, error) {
	t := segmenttrie.New[reason.Reason]()
	for _, r := range rules {
		m := strings.ToUpper(strings.TrimSpace(r.Method))
		if m == "" {
			return nil, fmt.Errorf("route: empty method for pattern %q", r.Pattern)
		}
		if !strings.HasPrefix(r.Pattern, "/") {
			return nil, fmt.Errorf("route: pattern %q must start with /", r.Pattern)
		}
		if r.Reason == reason.Empty {
			return nil, fmt.Errorf("route: empty reason for %s %s", m, r.Pattern)
		}
		if err := reason.Validate(r.Reason); err != nil {
			return nil, fmt.Errorf("route: reason for %s %s: %w", m, r.Pattern, err)
		}
		if err := t.Insert(m+r.Pattern, r.Reason); err != nil {
			return nil, fmt.Errorf("route: cannot insert %s %s: %w", m, r.Pattern, err)
		}
	}
	return &Table{trie: t, size: len(rules)}, nil
}

// MustNew is like New but panics on error.
func MustNew(rules ...Rule) *Table {
	t, err := New(rules...)
	if err != nil {
		panic(err)
	}
	return t
}

var defaultTable = sync.OnceValue(func() *Table { return MustNew(defaultRules...) })

// Default returns the shared table covering every endpoint the hub client
// calls.
func Default() *Table { return defaultTable() }

// DefaultRules returns a copy of the rules behind Default, for callers that
// want to extend them.
func DefaultRules() []Rule {
	return append([]Rule(nil), defaultRules...)
}

// Len reports how many rules built the table.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return t.size
}

// Resolve returns the operation for method and path. A query string on
// path is ignored.
func (t *Table) Resolve(method, path string) reason.Reason {
	r, _ := t.resolve(method, path)
	return r
}

// Explain describes how method and path resolved, for diagnostics:
//
//	GET /api/models/alice/bert/tree/main -> repo.tree (pattern "GET/api/*/*/*/tree")
func (t *Table) Explain(method, path string) string {
	r, pat := t.resolve(method, path)
	m := strings.ToUpper(method)
	if pat == "" {
		return fmt.Sprintf("%s %s -> <none>", m, path)
	}
	return fmt.Sprintf("%s %s -> %s (pattern %q)", m, path, r, pat)
}

func (t *Table) resolve(method, path string) (reason.Reason, string) {
	if t == nil || t.trie == nil {
		return reason.Empty, ""
	}
	if i := strings.IndexByte(path, '?'); i >= 0 {
		path = path[:i]
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	r, ok, pat := t.trie.MatchWithPattern(strings.ToUpper(method) + path)
	if !ok {
		return reason.Empty, ""
	}
	return r, pat
}

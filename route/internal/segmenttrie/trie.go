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

package segmenttrie

import (
	"errors"
	"strings"
)

// Sep separates segments in keys and patterns.
const Sep = '/'

// Wildcard matches exactly one segment.
const Wildcard = "*"

// Trie is a segment-aware prefix index over "/"-separated keys such as
// "GET/api/models/alice/bert/tree/main".
//
// Each node is one segment. Lookups are longest-prefix-match on whole
// segments: a pattern never matches half a segment, and the deepest
// matching pattern wins. When an exact and a wildcard pattern match at the
// same depth, the exact one wins.
type Trie[T any] struct {
	children map[string]*Trie[T]
	hasVal   bool
	val      T
	// pattern is the key the value was inserted under. It is set only when
	// hasVal is true and lets MatchWithPattern report the rule without
	// building strings during lookup.
	pattern string
}

// ErrInvalidPattern is returned for empty patterns, empty segments,
// segments containing whitespace, and patterns made only of wildcards.
var ErrInvalidPattern = errors.New("segmenttrie: invalid pattern")

// New creates an empty trie.
func New[T any]() *Trie[T] {
	return &Trie[T]{children: make(map[string]*Trie[T])}
}

// Insert associates pattern with val. Inserting the same pattern twice
// replaces the value.
//
// Examples:
//
//	"GET/api/whoami-v2"
//	"POST/api/*/*/*/branch"
//	"GET/*/*/*/resolve"
func (t *Trie[T]) Insert(pattern string, val T) error {
	if t == nil || pattern == "" {
		return ErrInvalidPattern
	}
	segs := strings.Split(pattern, string(Sep))
	allWild := true
	for _, s := range segs {
		if !validSegment(s) {
			return ErrInvalidPattern
		}
		if s != Wildcard {
			allWild = false
		}
	}
	if allWild {
		return ErrInvalidPattern
	}

	cur := t
	for _, s := range segs {
		child, ok := cur.children[s]
		if !ok {
			child = New[T]()
			cur.children[s] = child
		}
		cur = child
	}
	cur.hasVal = true
	cur.val = val
	cur.pattern = pattern
	return nil
}

// Match returns the value of the deepest pattern that is a segment prefix
// of key.
func (t *Trie[T]) Match(key string) (T, bool) {
	v, ok, _ := t.MatchWithPattern(key)
	return v, ok
}

// MatchWithPattern is Match that also returns the matched pattern as it was
// inserted, for diagnostics.
//
// Scanning stops at the first empty segment, so "GET/api/models/" is looked
// up as "GET/api/models".
func (t *Trie[T]) MatchWithPattern(key string) (T, bool, string) {
	var zero T
	if t == nil {
		return zero, false, ""
	}
	var best *Trie[T]
	bestDepth := -1

	var dfs func(n *Trie[T], off, depth int)
	dfs = func(n *Trie[T], off, depth int) {
		if n.hasVal && depth > bestDepth {
			best, bestDepth = n, depth
		}
		if off >= len(key) {
			return
		}
		end := strings.IndexByte(key[off:], Sep)
		next := len(key)
		if end >= 0 {
			end += off
			next = end + 1
		} else {
			end = len(key)
		}
		seg := key[off:end]
		if seg == "" {
			return
		}
		// exact before wildcard, so exact wins ties at equal depth
		if child, ok := n.children[seg]; ok {
			dfs(child, next, depth+1)
		}
		if child, ok := n.children[Wildcard]; ok {
			dfs(child, next, depth+1)
		}
	}
	dfs(t, 0, 0)

	if best == nil {
		return zero, false, ""
	}
	return best.val, true, best.pattern
}

// validSegment rejects empty segments and segments with whitespace. Any
// other byte is allowed, since URL path segments carry names such as
// "whoami-v2", "fallback-sources" or "bert-base.v1".
func validSegment(seg string) bool {
	if seg == "" {
		return false
	}
	return !strings.ContainsAny(seg, " \t\r\n")
}

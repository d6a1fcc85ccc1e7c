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

import "testing"

func TestInsertAndMatch_Simple(t *testing.T) {
	tr := New[string]()
	must(t, tr.Insert("GET/api/whoami-v2", "whoami"))
	must(t, tr.Insert("POST/api/repos/create", "create"))
	must(t, tr.Insert("GET/api/auth/tokens", "tokens"))

	if v, ok, p := tr.MatchWithPattern("GET/api/whoami-v2"); !ok || v != "whoami" || p != "GET/api/whoami-v2" {
		t.Fatalf("exact match => ok=%v v=%q p=%q", ok, v, p)
	}
	if v, ok := tr.Match("POST/api/repos/create"); !ok || v != "create" {
		t.Fatalf("match create => ok=%v v=%q", ok, v)
	}
	if _, ok := tr.Match("GET/api/repos/create"); ok {
		t.Fatalf("method is a segment and must match exactly")
	}
	if _, ok := tr.Match("GET/api/auth/tok"); ok {
		t.Fatalf("must not match across segment boundaries")
	}
}

func TestLongestPrefix(t *testing.T) {
	tr := New[string]()
	must(t, tr.Insert("GET/api/*/*/*", "info"))
	must(t, tr.Insert("GET/api/*/*/*/tree", "tree"))

	if v, ok := tr.Match("GET/api/models/alice/bert"); !ok || v != "info" {
		t.Fatalf("info => ok=%v v=%q", ok, v)
	}
	if v, ok := tr.Match("GET/api/models/alice/bert/revision/v1"); !ok || v != "info" {
		t.Fatalf("prefix info => ok=%v v=%q", ok, v)
	}
	if v, ok, p := tr.MatchWithPattern("GET/api/models/alice/bert/tree/main/a/b.txt"); !ok || v != "tree" || p != "GET/api/*/*/*/tree" {
		t.Fatalf("tree => ok=%v v=%q p=%q", ok, v, p)
	}
}

func TestWildcard_ExactWinsAtSameDepth(t *testing.T) {
	tr := New[string]()
	must(t, tr.Insert("GET/api/*/*/repos", "wild"))
	must(t, tr.Insert("GET/api/users/*/repos", "users"))

	if v, _, p := tr.MatchWithPattern("GET/api/users/alice/repos"); v != "users" || p != "GET/api/users/*/repos" {
		t.Fatalf("exact must win over wildcard, got v=%q p=%q", v, p)
	}
	if v, ok := tr.Match("GET/api/orgs/acme/repos"); !ok || v != "wild" {
		t.Fatalf("wildcard => ok=%v v=%q", ok, v)
	}
	if _, ok := tr.Match("GET/api/alice/repos"); ok {
		t.Fatalf("wildcard must match exactly one segment")
	}
}

func TestLPM_PrefersDeeperWildcardPath(t *testing.T) {
	tr := New[int]()
	must(t, tr.Insert("GET/a/*/c", 7))
	must(t, tr.Insert("GET/a/b", 1))

	if v, ok, p := tr.MatchWithPattern("GET/a/b/c"); !ok || v != 7 || p != "GET/a/*/c" {
		t.Fatalf("LPM must choose the deeper wildcard path: ok=%v v=%v p=%q", ok, v, p)
	}
}

func TestEmptySegmentStopsScan(t *testing.T) {
	tr := New[int]()
	must(t, tr.Insert("GET/api/models", 1))
	must(t, tr.Insert("GET/api/models/*", 2))

	if v, ok := tr.Match("GET/api/models/"); !ok || v != 1 {
		t.Fatalf("trailing slash => ok=%v v=%v", ok, v)
	}
	if v, ok := tr.Match("GET/api/models//x"); !ok || v != 1 {
		t.Fatalf("double slash => ok=%v v=%v", ok, v)
	}
}

func TestInsert_Replaces(t *testing.T) {
	tr := New[int]()
	must(t, tr.Insert("DELETE/org/*/members/*", 1))
	must(t, tr.Insert("DELETE/org/*/members/*", 2))
	if v, _ := tr.Match("DELETE/org/acme/members/bob"); v != 2 {
		t.Fatalf("second insert must replace, got %v", v)
	}
}

func TestInvalidPatterns(t *testing.T) {
	tr := New[int]()
	for _, p := range []string{"", "*", "*/*", "GET//api", "GET/api/", "GET/my repo"} {
		if err := tr.Insert(p, 1); err == nil {
			t.Fatalf("Insert(%q) must fail", p)
		}
	}
	var nilTrie *Trie[int]
	if err := nilTrie.Insert("GET/x", 1); err == nil {
		t.Fatalf("Insert on nil trie must fail")
	}
	if _, ok := nilTrie.Match("GET/x"); ok {
		t.Fatalf("Match on nil trie must not match")
	}
	if _, ok := tr.Match(""); ok {
		t.Fatalf("empty key must not match an empty trie")
	}
}

func must(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

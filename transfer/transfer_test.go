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

package transfer_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"slices"
	"strings"
	"testing"

	"dirpx.dev/kohub"
	"dirpx.dev/kohub/hub"
	"dirpx.dev/kohub/internal/hubtest"
	"dirpx.dev/kohub/kind"
	"dirpx.dev/kohub/transfer"
)

var files = map[string]string{
	"config.json":               `{"hidden": 768}`,
	"weights/model.safetensors": "tensor-bytes",
	"README.md":                 "# bert",
	".gitattributes":            "*.bin filter=lfs",
	"__pycache__/x.pyc":         "junk",
	"notes.tmp":                 "scratch",
}

func sourceHub(t *testing.T, kindPath string) *hubtest.Server {
	t.Helper()
	srv := hubtest.New(t)
	srv.JSON("GET /api/"+kindPath+"/alice/bert", http.StatusOK, map[string]any{"id": "alice/bert"})

	tree := []map[string]any{{"type": "directory", "path": "weights"}}
	for p, body := range files {
		tree = append(tree, map[string]any{"type": "file", "path": p, "size": len(body)})
	}
	srv.JSON("GET /api/"+kindPath+"/alice/bert/tree/main", http.StatusOK, tree)
	srv.Handle("GET /"+kindPath+"/alice/bert/resolve/main/{path...}", func(w http.ResponseWriter, r *http.Request) {
		body, ok := files[r.PathValue("path")]
		if !ok {
			http.NotFound(w, r)
			return
		}
		_, _ = io.WriteString(w, body)
	})
	return srv
}

func destHub(t *testing.T) *hubtest.Server {
	t.Helper()
	srv := hubtest.New(t)
	srv.JSON("POST /api/repos/create", http.StatusOK, map[string]any{"repo_id": "bob/bert"})
	srv.JSON("POST /api/models/bob/bert/commit/main", http.StatusOK, map[string]any{"commitOid": "c1"})
	return srv
}

func clients(t *testing.T, src, dst *hubtest.Server) (*hub.Client, *hub.Client) {
	t.Helper()
	s, err := hub.New(src.URL)
	if err != nil {
		t.Fatalf("hub.New: %v", err)
	}
	d, err := hub.New(dst.URL)
	if err != nil {
		t.Fatalf("hub.New: %v", err)
	}
	return s, d
}

func TestRun(t *testing.T) {
	src, dst := sourceHub(t, "models"), destHub(t)
	s, d := clients(t, src, dst)

	res, err := transfer.Run(context.Background(), s, d, transfer.Options{
		Source:  "alice/bert",
		Dest:    "bob/bert",
		Type:    hub.Model,
		Private: true,
		TempDir: t.TempDir(),
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !res.Created || res.Type != hub.Model || res.Commit["commitOid"] != "c1" {
		t.Fatalf("result = %+v", res)
	}

	got := slices.Sorted(slices.Values(res.Transferred))
	want := []string{"README.md", "config.json", "weights/model.safetensors"}
	if !slices.Equal(got, want) {
		t.Fatalf("transferred = %v, want %v", got, want)
	}
	skipped := slices.Sorted(slices.Values(res.Skipped))
	if !slices.Equal(skipped, []string{".gitattributes", "__pycache__/x.pyc", "notes.tmp"}) {
		t.Fatalf("skipped = %v", skipped)
	}

	reqs := dst.Requests()
	if len(reqs) != 3 {
		t.Fatalf("destination saw %d requests, want info, create, commit", len(reqs))
	}
	if reqs[0].Path != "/api/models/bob/bert" || reqs[1].Path != "/api/repos/create" {
		t.Fatalf("requests = %s %s", reqs[0].Path, reqs[1].Path)
	}
	if !strings.Contains(string(reqs[1].Body), `"private":true`) {
		t.Fatalf("create body = %s", reqs[1].Body)
	}
	commit := string(reqs[2].Body)
	for _, p := range want {
		if !strings.Contains(commit, `"`+p+`"`) {
			t.Fatalf("commit misses %s: %s", p, commit)
		}
	}
	if !strings.Contains(commit, "Transfer from alice/bert") {
		t.Fatalf("commit message missing: %s", commit)
	}
}

func TestRun_DetectsDataset(t *testing.T) {
	src := sourceHub(t, "datasets")
	dst := hubtest.New(t)
	s, d := clients(t, src, dst)

	res, err := transfer.Run(context.Background(), s, d, transfer.Options{
		Source: "alice/bert",
		Dest:   "bob/bert",
		DryRun: true,
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Type != hub.Dataset {
		t.Fatalf("type = %s, want dataset", res.Type)
	}
	if !res.DryRun || len(res.Transferred) != 3 || res.Created {
		t.Fatalf("result = %+v", res)
	}
	for _, r := range src.Requests() {
		if strings.Contains(r.Path, "/resolve/") {
			t.Fatalf("dry run downloaded %s", r.Path)
		}
	}
	if n := len(dst.Requests()); n != 1 {
		t.Fatalf("dry run sent %d requests to the destination, want 1", n)
	}
}

func TestRun_SourceMissing(t *testing.T) {
	src, dst := hubtest.New(t), hubtest.New(t)
	s, d := clients(t, src, dst)

	_, err := transfer.Run(context.Background(), s, d, transfer.Options{Source: "alice/none", Dest: "bob/none"})
	if kohub.KindOf(err) != kind.NotFound {
		t.Fatalf("err = %v, want not_found", err)
	}
	if !strings.Contains(err.Error(), "Repository 'alice/none' not found on "+src.URL) {
		t.Fatalf("message = %q", err.Error())
	}
}

func TestRun_DestExists(t *testing.T) {
	src, dst := sourceHub(t, "models"), destHub(t)
	dst.JSON("GET /api/models/bob/bert", http.StatusOK, map[string]any{"id": "bob/bert"})
	s, d := clients(t, src, dst)

	opts := transfer.Options{Source: "alice/bert", Dest: "bob/bert", Type: hub.Model, TempDir: t.TempDir()}
	_, err := transfer.Run(context.Background(), s, d, opts)
	if kohub.KindOf(err) != kind.AlreadyExists {
		t.Fatalf("err = %v, want already_exists", err)
	}

	opts.Force = true
	res, err := transfer.Run(context.Background(), s, d, opts)
	if err != nil {
		t.Fatalf("forced Run: %v", err)
	}
	if res.Created {
		t.Fatalf("existing destination must not be created")
	}
	for _, r := range dst.Requests() {
		if r.Path == "/api/repos/create" {
			t.Fatalf("create called for an existing repository")
		}
	}
}

func TestRun_CreateRace(t *testing.T) {
	src := sourceHub(t, "models")
	dst := hubtest.New(t)
	dst.Fail("POST /api/repos/create", http.StatusBadRequest, "Repository already exists")
	dst.JSON("POST /api/models/bob/bert/commit/main", http.StatusOK, map[string]any{"commitOid": "c2"})
	s, d := clients(t, src, dst)

	res, err := transfer.Run(context.Background(), s, d, transfer.Options{
		Source: "alice/bert", Dest: "bob/bert", Type: hub.Model, TempDir: t.TempDir(),
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Created || res.Commit["commitOid"] != "c2" {
		t.Fatalf("result = %+v", res)
	}
}

func TestRun_Validation(t *testing.T) {
	srv := hubtest.New(t)
	s, d := clients(t, srv, srv)
	ctx := context.Background()

	if _, err := transfer.Run(ctx, s, d, transfer.Options{Source: "bert", Dest: "bob/bert"}); !errors.Is(err, hub.ErrInvalidRepoID) {
		t.Fatalf("bad source: %v", err)
	}
	if _, err := transfer.Run(ctx, s, d, transfer.Options{Source: "a/b", Dest: "a/b"}); !errors.Is(err, transfer.ErrSameRepo) {
		t.Fatalf("same repo: %v", err)
	}
	var ge *transfer.GlobError
	_, err := transfer.Run(ctx, s, d, transfer.Options{Source: "a/b", Dest: "c/d", Skip: transfer.Skipper{Globs: []string{"["}}})
	if !errors.As(err, &ge) || ge.Pattern != "[" {
		t.Fatalf("bad glob: %v", err)
	}
	if len(srv.Requests()) != 0 {
		t.Fatalf("validation failures must not reach the hub")
	}
}

func TestSkipper(t *testing.T) {
	tests := []struct {
		name string
		s    transfer.Skipper
		path string
		want bool
	}{
		{"plain", transfer.Skipper{}, "config.json", false},
		{"hidden", transfer.Skipper{}, "sub/.env", true},
		{"git dir", transfer.Skipper{}, ".git/HEAD", true},
		{"node_modules", transfer.Skipper{}, "web/node_modules/a.js", true},
		{"lock", transfer.Skipper{}, "poetry.lock", true},
		{"lfs kept", transfer.Skipper{}, "model.safetensors", false},
		{"lfs excluded", transfer.Skipper{ExcludeLFS: true}, "weights/Model.GGUF", true},
		{"glob on base", transfer.Skipper{Globs: []string{"*.md"}}, "docs/intro.md", true},
		{"glob on full path", transfer.Skipper{Globs: []string{"docs/*"}}, "docs/intro.md", true},
		{"glob miss", transfer.Skipper{Globs: []string{"docs/*"}}, "src/docs.go", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.s.Skip(tt.path); got != tt.want {
				t.Fatalf("Skip(%q) = %v, want %v", tt.path, got, tt.want)
			}
		})
	}
}

type fakeFetcher struct {
	calls []string
	fail  error
}

func (f *fakeFetcher) Fetch(_ context.Context, id string, t hub.RepoType, revision, repoPath, localPath string) error {
	f.calls = append(f.calls, id+"@"+revision+":"+string(t)+":"+repoPath)
	if f.fail != nil {
		return f.fail
	}
	return os.WriteFile(localPath, []byte("fetched"), 0o644)
}

func TestRun_Fetcher(t *testing.T) {
	src, dst := sourceHub(t, "models"), destHub(t)
	s, d := clients(t, src, dst)
	f := &fakeFetcher{}

	res, err := transfer.Run(context.Background(), s, d, transfer.Options{
		Source:  "alice/bert",
		Dest:    "bob/bert",
		Fetcher: f,
		TempDir: t.TempDir(),
		Skip:    transfer.Skipper{Globs: []string{"weights/*"}},
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	slices.Sort(f.calls)
	want := []string{"alice/bert@main:model:README.md", "alice/bert@main:model:config.json"}
	if !slices.Equal(f.calls, want) {
		t.Fatalf("fetched %v, want %v", f.calls, want)
	}
	for _, r := range src.Requests() {
		if strings.Contains(r.Path, "/resolve/") {
			t.Fatalf("source resolve endpoint used despite the fetcher: %s", r.Path)
		}
	}
	if len(res.Transferred) != 2 {
		t.Fatalf("transferred = %v", res.Transferred)
	}
}

func TestRun_FetchFailureWritesNothing(t *testing.T) {
	src, dst := sourceHub(t, "models"), destHub(t)
	s, d := clients(t, src, dst)
	boom := kohub.E(kind.Network, "Failed to download from somewhere")

	res, err := transfer.Run(context.Background(), s, d, transfer.Options{
		Source:  "alice/bert",
		Dest:    "bob/bert",
		Type:    hub.Model,
		Fetcher: &fakeFetcher{fail: boom},
		TempDir: t.TempDir(),
	})
	if !errors.Is(err, kohub.ErrNetwork) {
		t.Fatalf("err = %v, want network", err)
	}
	if len(res.Transferred) != 0 || res.Created {
		t.Fatalf("result = %+v", res)
	}
	if reqs := dst.Requests(); len(reqs) != 1 {
		t.Fatalf("destination saw %d requests, want only the existence check", len(reqs))
	}
}

func TestResolveEndpoint(t *testing.T) {
	tests := []struct{ in, want string }{
		{"hf", transfer.HuggingFace},
		{" HF ", transfer.HuggingFace},
		{"https://huggingface.co/", transfer.HuggingFace},
		{"http://hub.local:28080/", "http://hub.local:28080"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := transfer.ResolveEndpoint(tt.in); got != tt.want {
			t.Fatalf("ResolveEndpoint(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
	if !transfer.IsHuggingFace("hf") || transfer.IsHuggingFace("http://hub.local") {
		t.Fatalf("IsHuggingFace misreports")
	}
}

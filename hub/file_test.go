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
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"dirpx.dev/kohub"
	"dirpx.dev/kohub/hub"
	"dirpx.dev/kohub/internal/hubtest"
	"dirpx.dev/kohub/kind"
	"dirpx.dev/kohub/reason"
)

type ndjsonLine struct {
	Key   string         `json:"key"`
	Value map[string]any `json:"value"`
}

func decodeNDJSON(t *testing.T, b []byte) []ndjsonLine {
	t.Helper()
	var out []ndjsonLine
	for i, raw := range bytes.Split(b, []byte("\n")) {
		var l ndjsonLine
		if err := json.Unmarshal(raw, &l); err != nil {
			t.Fatalf("line %d is not JSON: %v (%q)", i, err, raw)
		}
		out = append(out, l)
	}
	return out
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", p, err)
	}
	return p
}

func TestUploadFiles_NDJSON(t *testing.T) {
	srv := hubtest.New(t)
	srv.JSON("POST /api/models/alice/bert/commit/main", http.StatusOK, map[string]any{"commitOid": "abc"})
	c := newClient(t, srv.URL)
	dir := t.TempDir()

	res, err := c.UploadFiles(context.Background(), "alice/bert", hub.Model, []hub.FileUpload{
		{LocalPath: writeFile(t, dir, "a.txt", "hello"), RepoPath: "docs/a.txt"},
		{LocalPath: writeFile(t, dir, "b.bin", "\x00\x01"), RepoPath: "b.bin"},
	}, "", "")
	if err != nil {
		t.Fatalf("UploadFiles: %v", err)
	}
	if res["commitOid"] != "abc" {
		t.Fatalf("result = %v", res)
	}

	req := srv.Last(t)
	if ct := req.Header.Get("Content-Type"); ct != hub.ContentTypeNDJSON {
		t.Fatalf("Content-Type = %q", ct)
	}
	if bytes.HasSuffix(req.Body, []byte("\n")) {
		t.Fatalf("payload must not end with a newline")
	}
	lines := decodeNDJSON(t, req.Body)
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want 3", len(lines))
	}
	if lines[0].Key != "header" || lines[0].Value["summary"] != "Upload 2 files" || lines[0].Value["description"] != "" {
		t.Fatalf("header = %+v", lines[0])
	}
	if lines[1].Key != "file" || lines[1].Value["path"] != "docs/a.txt" || lines[1].Value["encoding"] != "base64" {
		t.Fatalf("file line = %+v", lines[1])
	}
	if lines[1].Value["content"] != base64.StdEncoding.EncodeToString([]byte("hello")) {
		t.Fatalf("content = %v", lines[1].Value["content"])
	}
}

func TestUploadFile_DefaultMessageAndBranch(t *testing.T) {
	srv := hubtest.New(t)
	srv.JSON("POST /api/datasets/alice/data/commit/dev", http.StatusOK, map[string]any{})
	c := newClient(t, srv.URL)

	p := writeFile(t, t.TempDir(), "train.csv", "a,b\n")
	if _, err := c.UploadFile(context.Background(), "alice/data", hub.Dataset, p, "data/train.csv", "dev", ""); err != nil {
		t.Fatalf("UploadFile: %v", err)
	}
	lines := decodeNDJSON(t, srv.Last(t).Body)
	if lines[0].Value["summary"] != "Upload data/train.csv" {
		t.Fatalf("summary = %v", lines[0].Value["summary"])
	}
}

func TestUploadFile_MissingLocalFile(t *testing.T) {
	srv := hubtest.New(t)
	c := newClient(t, srv.URL)

	_, err := c.UploadFile(context.Background(), "alice/bert", hub.Model, filepath.Join(t.TempDir(), "nope"), "nope", "", "")
	if !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("err = %v", err)
	}
	if _, ok := kohub.As(err); ok {
		t.Fatalf("a missing local file is not a hub error")
	}
	if len(srv.Requests()) != 0 {
		t.Fatalf("nothing should be sent")
	}
	if _, err := c.UploadFiles(context.Background(), "alice/bert", hub.Model, nil, "", ""); !errors.Is(err, hub.ErrNoFiles) {
		t.Fatalf("err = %v", err)
	}
}

func TestDownloadFile(t *testing.T) {
	srv := hubtest.New(t)
	srv.Raw("GET /models/alice/bert/resolve/main/dir/a.txt", http.StatusOK, "text/plain", "hello")
	c := newClient(t, srv.URL)

	dst := filepath.Join(t.TempDir(), "out", "a.txt")
	got, err := c.DownloadFile(context.Background(), "alice/bert", hub.Model, "dir/a.txt", dst, "")
	if err != nil {
		t.Fatalf("DownloadFile: %v", err)
	}
	if got != dst {
		t.Fatalf("path = %q", got)
	}
	b, err := os.ReadFile(dst)
	if err != nil || string(b) != "hello" {
		t.Fatalf("content = %q, %v", b, err)
	}
	left, _ := filepath.Glob(filepath.Join(filepath.Dir(dst), "*.tmp"))
	if len(left) != 0 {
		t.Fatalf("temporary files left: %v", left)
	}
}

func TestDownloadFile_FollowsRedirects(t *testing.T) {
	srv := hubtest.New(t)
	srv.Handle("GET /datasets/alice/data/resolve/v1/big.bin", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/blobs/big.bin", http.StatusFound)
	})
	srv.Raw("GET /blobs/big.bin", http.StatusOK, "application/octet-stream", "payload")
	c := newClient(t, srv.URL)

	dst := filepath.Join(t.TempDir(), "big.bin")
	if _, err := c.DownloadFile(context.Background(), "alice/data", hub.Dataset, "big.bin", dst, "v1"); err != nil {
		t.Fatalf("DownloadFile: %v", err)
	}
	if b, _ := os.ReadFile(dst); string(b) != "payload" {
		t.Fatalf("content = %q", b)
	}
}

func TestDownloadFile_NotFound(t *testing.T) {
	srv := hubtest.New(t)
	srv.Fail("GET /models/alice/bert/resolve/main/missing.txt", http.StatusNotFound, "File not found")
	c := newClient(t, srv.URL)

	dst := filepath.Join(t.TempDir(), "missing.txt")
	_, err := c.DownloadFile(context.Background(), "alice/bert", hub.Model, "missing.txt", dst, "")
	e, ok := kohub.As(err)
	if !ok || e.Kind != kind.NotFound || e.Message != "File not found" || e.Reason != reason.FileDownload {
		t.Fatalf("err = %v", err)
	}
	if _, err := os.Stat(dst); !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("failed download created %s", dst)
	}
}

func TestDownloadFile_NetworkFailure(t *testing.T) {
	c := newClient(t, closedEndpoint())

	_, err := c.DownloadFile(context.Background(), "alice/bert", hub.Model, "a.txt", filepath.Join(t.TempDir(), "a.txt"), "")
	e, ok := kohub.As(err)
	if !ok || e.Kind != kind.Network {
		t.Fatalf("err = %v", err)
	}
	if !strings.HasPrefix(e.Message, "Download failed: ") {
		t.Fatalf("message = %q", e.Message)
	}
}

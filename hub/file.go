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
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"

	"dirpx.dev/kohub"
	"dirpx.dev/kohub/kind"
	"dirpx.dev/kohub/reason"
)

// ErrNoFiles is returned by UploadFiles for an empty file list.
var ErrNoFiles = errors.New("hub: no files to upload")

// FileUpload maps a local file to its path in the repository.
type FileUpload struct {
	LocalPath string
	RepoPath  string
}

// UploadFile commits one local file to branch. An empty message is
// "Upload <repoPath>"; an empty branch is "main".
func (c *Client) UploadFile(ctx context.Context, id string, t RepoType, localPath, repoPath, branch, message string) (Object, error) {
	if message == "" {
		message = "Upload " + repoPath
	}
	return c.UploadFiles(ctx, id, t, []FileUpload{{LocalPath: localPath, RepoPath: repoPath}}, branch, message)
}

// UploadFiles commits several local files to branch in a single commit.
// An empty message is "Upload <n> files".
func (c *Client) UploadFiles(ctx context.Context, id string, t RepoType, files []FileUpload, branch, message string) (Object, error) {
	if len(files) == 0 {
		return nil, ErrNoFiles
	}
	entries := make([]commitEntry, 0, len(files))
	for _, f := range files {
		b, err := os.ReadFile(f.LocalPath)
		if err != nil {
			return nil, fmt.Errorf("hub: read %s: %w", f.LocalPath, err)
		}
		entries = append(entries, commitEntry{path: f.RepoPath, content: b})
	}
	r, err := repoTarget(id, t)
	if err != nil {
		return nil, err
	}
	if branch == "" {
		branch = "main"
	}
	if message == "" {
		message = "Upload " + strconv.Itoa(len(files)) + " files"
	}
	payload, err := encodeCommit(message, "", entries)
	if err != nil {
		return nil, err
	}
	var out Object
	err = c.doJSON(ctx, Request{
		Method:      http.MethodPost,
		Path:        r.apiPath(t) + "/commit/" + url.PathEscape(branch),
		Body:        payload,
		ContentType: ContentTypeNDJSON,
		Reason:      reason.CommitCreate,
	}, &out)
	return out, err
}

// DownloadFile saves repoPath at revision to localPath and returns
// localPath. An empty revision is "main". Missing parent directories are
// created; the file is written to a temporary name first and renamed
// once complete.
//
// Hub failures are classified as for any other call. Transport failures,
// including a body cut short, are Network errors reading
// "Download failed: <cause>".
func (c *Client) DownloadFile(ctx context.Context, id string, t RepoType, repoPath, localPath, revision string) (string, error) {
	r, err := repoTarget(id, t)
	if err != nil {
		return "", err
	}
	if revision == "" {
		revision = "main"
	}
	p := "/" + t.Plural() + "/" + url.PathEscape(r.Namespace) + "/" + escapePath(r.Name) +
		"/resolve/" + url.PathEscape(revision) + "/" + escapePath(repoPath)

	resp, err := c.Execute(ctx, Request{Method: http.MethodGet, Path: p, Reason: reason.FileDownload})
	if err != nil {
		return "", downloadFailed(err)
	}
	defer resp.Body.Close()

	if err := os.MkdirAll(filepath.Dir(localPath), 0o755); err != nil {
		return "", fmt.Errorf("hub: create directory for %s: %w", localPath, err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(localPath), "."+filepath.Base(localPath)+".*.tmp")
	if err != nil {
		return "", fmt.Errorf("hub: create %s: %w", localPath, err)
	}
	defer os.Remove(tmp.Name())

	src := &trackedReader{r: resp.Body}
	if _, err := io.Copy(tmp, src); err != nil {
		_ = tmp.Close()
		if src.err != nil {
			return "", kohub.E(kind.Network, "Download failed: "+src.err.Error(),
				kohub.WithReasonOption(reason.FileDownload),
				kohub.WithCauseOption(src.err),
			)
		}
		return "", fmt.Errorf("hub: write %s: %w", localPath, err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("hub: write %s: %w", localPath, err)
	}
	if err := os.Rename(tmp.Name(), localPath); err != nil {
		return "", fmt.Errorf("hub: write %s: %w", localPath, err)
	}
	return localPath, nil
}

func downloadFailed(err error) error {
	e, ok := kohub.As(err)
	if !ok || e.Kind != kind.Network || e.Cause == nil {
		return err
	}
	return e.WithMessage("Download failed: " + e.Cause.Error())
}

// trackedReader remembers the last read error that was not io.EOF, so a
// failed copy can tell a broken download from a failed write.
type trackedReader struct {
	r   io.Reader
	err error
}

func (t *trackedReader) Read(p []byte) (int, error) {
	n, err := t.r.Read(p)
	if err != nil && !errors.Is(err, io.EOF) {
		t.err = err
	}
	return n, err
}

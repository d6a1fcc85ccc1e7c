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

package transfer

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"dirpx.dev/kohub"
	"dirpx.dev/kohub/hub"
	"dirpx.dev/kohub/kind"
	"dirpx.dev/kohub/reason"
	hfhub "github.com/cozy-creator/hf-hub/hub"
)

// HuggingFace is the HuggingFace Hub endpoint, spelled "hf" on the
// command line.
const HuggingFace = "https://huggingface.co"

// ResolveEndpoint expands the "hf" alias and drops trailing slashes.
func ResolveEndpoint(endpoint string) string {
	endpoint = strings.TrimSpace(endpoint)
	if strings.EqualFold(endpoint, "hf") {
		return HuggingFace
	}
	return strings.TrimRight(endpoint, "/")
}

// IsHuggingFace reports whether endpoint is the HuggingFace Hub.
func IsHuggingFace(endpoint string) bool {
	return ResolveEndpoint(endpoint) == HuggingFace
}

// Fetcher downloads one file of the source repository to localPath.
type Fetcher interface {
	Fetch(ctx context.Context, id string, t hub.RepoType, revision, repoPath, localPath string) error
}

// hubFetcher reads through the resolve endpoint of a hub client.
type hubFetcher struct{ c *hub.Client }

func (f hubFetcher) Fetch(ctx context.Context, id string, t hub.RepoType, revision, repoPath, localPath string) error {
	_, err := f.c.DownloadFile(ctx, id, t, repoPath, localPath, revision)
	return err
}

// HFFetcher downloads from the HuggingFace Hub with the hf-hub client.
// Files land in the hf-hub cache first and are then copied to localPath.
type HFFetcher struct {
	// Token is sent for gated and private repositories.
	Token string

	// CacheDir overrides the hf-hub cache directory.
	CacheDir string
}

func (f HFFetcher) Fetch(ctx context.Context, id string, t hub.RepoType, revision, repoPath, localPath string) error {
	if err := ctx.Err(); err != nil {
		return f.failed(err)
	}
	client := hfhub.DefaultClient()
	if f.CacheDir != "" {
		client = client.WithCacheDir(f.CacheDir)
	}
	if f.Token != "" {
		client = client.WithToken(f.Token)
	}
	repo := hfhub.NewRepo(id).WithType(string(t))
	if revision != "" {
		repo = repo.WithRevision(revision)
	}
	cached, err := client.FileDownload(repo.File(repoPath), false, false)
	if err != nil {
		return f.failed(err)
	}
	return copyFile(cached, localPath)
}

func (HFFetcher) failed(err error) error {
	return kohub.E(kind.Network, fmt.Sprintf("Failed to download from %s: %v", HuggingFace, err),
		kohub.WithReasonOption(reason.FileDownload),
		kohub.WithCauseOption(err),
	)
}

// copyFile copies src, following symlinks, to dst through a temporary
// file in dst's directory.
func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("transfer: open %s: %w", src, err)
	}
	defer in.Close()

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return fmt.Errorf("transfer: create directory for %s: %w", dst, err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(dst), "."+filepath.Base(dst)+".*.tmp")
	if err != nil {
		return fmt.Errorf("transfer: create %s: %w", dst, err)
	}
	defer os.Remove(tmp.Name())
	if _, err := io.Copy(tmp, in); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("transfer: write %s: %w", dst, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("transfer: write %s: %w", dst, err)
	}
	if err := os.Rename(tmp.Name(), dst); err != nil {
		return fmt.Errorf("transfer: write %s: %w", dst, err)
	}
	return nil
}

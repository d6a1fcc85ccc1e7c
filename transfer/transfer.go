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

// Package transfer copies a repository from one hub to another.
//
// The source tree is listed recursively, filtered, downloaded into a
// temporary directory and pushed to the destination as a single commit.
// The destination repository is created when it does not exist.
//
// Any hub with the HuggingFace-compatible API can be a source or a
// destination, the HuggingFace Hub included. Files are downloaded through
// the source client unless Options.Fetcher says otherwise; HFFetcher reads
// them with the hf-hub client.
package transfer

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"dirpx.dev/kohub"
	"dirpx.dev/kohub/hub"
	"dirpx.dev/kohub/kind"
	"go.uber.org/zap"
)

// Options configure Run.
type Options struct {
	// Source and Dest are namespace/name repository ids.
	Source string
	Dest   string

	// Type is the repository type on both hubs. Empty means detect it on
	// the source: model first, then dataset.
	Type hub.RepoType

	// Revision is read on the source, Branch written on the destination.
	// Both default to "main".
	Revision string
	Branch   string

	// Private applies when the destination is created.
	Private bool

	// Force allows pushing into an existing destination repository.
	Force bool

	// Message is the commit summary. Defaults to "Transfer from <source>".
	Message string

	Skip Skipper

	// DryRun lists what would be copied without downloading or writing.
	DryRun bool

	// TempDir is the parent of the staging directory; empty means
	// os.TempDir().
	TempDir string

	// Fetcher downloads the source files. Nil means the source client.
	Fetcher Fetcher

	Log *zap.Logger
}

// Result describes a finished or dry-run transfer.
//
// A transfer is all or nothing: the files go to the destination in one
// commit, so an error means nothing was written there and Transferred
// stays empty. There is no per-file failure list.
type Result struct {
	Source      string       `json:"source_repo"`
	Dest        string       `json:"dest_repo"`
	Type        hub.RepoType `json:"repo_type"`
	Transferred []string     `json:"files_transferred"`
	Skipped     []string     `json:"files_skipped"`
	Created     bool         `json:"created"`
	DryRun      bool         `json:"dry_run,omitempty"`
	Commit      hub.Object   `json:"commit,omitempty"`
}

// ErrSameRepo is returned when source and destination are the same
// repository on the same hub.
var ErrSameRepo = errors.New("transfer: source and destination are the same repository")

// Run copies opts.Source on src to opts.Dest on dst.
func Run(ctx context.Context, src, dst *hub.Client, opts Options) (Result, error) {
	log := opts.Log
	if log == nil {
		log = zap.NewNop()
	}
	if opts.Revision == "" {
		opts.Revision = "main"
	}
	if opts.Message == "" {
		opts.Message = "Transfer from " + opts.Source
	}
	res := Result{Source: opts.Source, Dest: opts.Dest, DryRun: opts.DryRun}

	if _, err := hub.ParseRepoID(opts.Source); err != nil {
		return res, fmt.Errorf("transfer: source: %w", err)
	}
	if _, err := hub.ParseRepoID(opts.Dest); err != nil {
		return res, fmt.Errorf("transfer: destination: %w", err)
	}
	if src.Endpoint() == dst.Endpoint() && opts.Source == opts.Dest {
		return res, ErrSameRepo
	}
	if err := ValidateGlobs(opts.Skip.Globs); err != nil {
		return res, err
	}

	t, err := detectType(ctx, src, opts.Source, opts.Type)
	if err != nil {
		return res, err
	}
	res.Type = t
	log.Info("transfer started",
		zap.String("source", src.Endpoint()+"/"+opts.Source),
		zap.String("dest", dst.Endpoint()+"/"+opts.Dest),
		zap.Stringer("type", t),
	)

	entries, err := src.ListRepoTree(ctx, opts.Source, t, opts.Revision, "", true)
	if err != nil {
		return res, err
	}
	var files []hub.TreeEntry
	for _, e := range entries {
		if e.IsDir() || e.Path == "" {
			continue
		}
		if opts.Skip.Skip(e.Path) || !filepath.IsLocal(filepath.FromSlash(e.Path)) {
			res.Skipped = append(res.Skipped, e.Path)
			continue
		}
		files = append(files, e)
	}

	_, err = dst.RepoInfo(ctx, opts.Dest, t, "")
	exists := err == nil
	if !kohub.Ignorable(err, kind.NotFound) {
		return res, err
	}
	if exists && !opts.Force {
		return res, kohub.E(kind.AlreadyExists,
			fmt.Sprintf("Repository '%s' already exists. Use --force to overwrite.", opts.Dest))
	}

	if opts.DryRun {
		for _, f := range files {
			res.Transferred = append(res.Transferred, f.Path)
		}
		return res, nil
	}

	fetch := opts.Fetcher
	if fetch == nil {
		fetch = hubFetcher{src}
	}
	stage, err := os.MkdirTemp(opts.TempDir, "kohub-transfer-*")
	if err != nil {
		return res, fmt.Errorf("transfer: create staging directory: %w", err)
	}
	defer os.RemoveAll(stage)

	uploads := make([]hub.FileUpload, 0, len(files))
	for _, f := range files {
		local := filepath.Join(stage, filepath.FromSlash(f.Path))
		log.Debug("download", zap.String("path", f.Path), zap.Int64("size", f.Size))
		if err := fetch.Fetch(ctx, opts.Source, t, opts.Revision, f.Path, local); err != nil {
			return res, err
		}
		uploads = append(uploads, hub.FileUpload{LocalPath: local, RepoPath: f.Path})
	}

	if !exists {
		_, err := dst.CreateRepo(ctx, opts.Dest, t, opts.Private)
		if !kohub.Ignorable(err, kind.AlreadyExists) {
			return res, err
		}
		res.Created = err == nil
	}

	if len(uploads) == 0 {
		log.Info("transfer finished: nothing to upload")
		return res, nil
	}
	commit, err := dst.UploadFiles(ctx, opts.Dest, t, uploads, opts.Branch, opts.Message)
	if err != nil {
		return res, err
	}
	res.Commit = commit
	for _, u := range uploads {
		res.Transferred = append(res.Transferred, u.RepoPath)
	}
	log.Info("transfer finished", zap.Int("files", len(uploads)), zap.Int("skipped", len(res.Skipped)))
	return res, nil
}

// detectType returns t after checking the repository exists as t, or
// probes model then dataset when t is empty.
func detectType(ctx context.Context, c *hub.Client, id string, t hub.RepoType) (hub.RepoType, error) {
	if t != "" {
		if _, err := c.RepoInfo(ctx, id, t, ""); err != nil {
			if e, ok := kohub.As(err); ok && e.Kind == kind.NotFound {
				return "", e.WithMessage(fmt.Sprintf("Repository '%s' not found as %s on %s", id, t, c.Endpoint()))
			}
			return "", err
		}
		return t, nil
	}
	var last *kohub.Error
	for _, cand := range []hub.RepoType{hub.Model, hub.Dataset} {
		_, err := c.RepoInfo(ctx, id, cand, "")
		if err == nil {
			return cand, nil
		}
		e, ok := kohub.As(err)
		if !ok || e.Kind != kind.NotFound {
			return "", err
		}
		last = e
	}
	return "", last.WithMessage(fmt.Sprintf("Repository '%s' not found on %s", id, c.Endpoint()))
}

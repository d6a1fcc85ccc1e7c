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
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"dirpx.dev/kohub"
	"dirpx.dev/kohub/kind"
	"dirpx.dev/kohub/reason"
	"go.uber.org/zap"
)

// namespaceFallbackLimit is the page size used when a namespace listing
// falls back to per-type listings.
const namespaceFallbackLimit = 1000

// TreeEntry is one file or directory of a repository tree.
type TreeEntry struct {
	Type string `json:"type"`
	Path string `json:"path"`
	Size int64  `json:"size"`
	OID  string `json:"oid,omitempty"`
	LFS  Object `json:"lfs,omitempty"`
}

// IsDir reports whether the entry is a directory.
func (e TreeEntry) IsDir() bool { return e.Type == "directory" }

// CreateRepo creates a repository. An id without a namespace creates it
// under the caller's own account.
func (c *Client) CreateRepo(ctx context.Context, id string, t RepoType, private bool) (Object, error) {
	if err := t.valid(); err != nil {
		return nil, err
	}
	body := map[string]any{"type": t.String(), "organization": nil, "private": private}
	if ns, name, ok := strings.Cut(id, "/"); ok {
		body["organization"], body["name"] = ns, name
	} else {
		body["name"] = id
	}
	var out Object
	err := c.doJSON(ctx, Request{Method: http.MethodPost, Path: "/api/repos/create", JSON: body, Reason: reason.RepoCreate}, &out)
	return out, err
}

// DeleteRepo deletes a repository.
func (c *Client) DeleteRepo(ctx context.Context, id string, t RepoType) (Object, error) {
	if err := t.valid(); err != nil {
		return nil, err
	}
	body := map[string]any{"type": t.String(), "organization": nil}
	if ns, name, ok := strings.Cut(id, "/"); ok {
		body["organization"], body["name"] = ns, name
	} else {
		body["name"] = id
	}
	var out Object
	err := c.doJSON(ctx, Request{Method: http.MethodDelete, Path: "/api/repos/delete", JSON: body, Reason: reason.RepoDelete}, &out)
	return out, err
}

// SquashRepo drops the commit history of a repository, keeping its
// current content.
func (c *Client) SquashRepo(ctx context.Context, id string, t RepoType) (Object, error) {
	r, err := repoTarget(id, t)
	if err != nil {
		return nil, err
	}
	var out Object
	err = c.doJSON(ctx, Request{
		Method: http.MethodPost,
		Path:   "/api/repos/squash",
		JSON:   map[string]string{"repo": r.String(), "type": t.String()},
		Reason: reason.RepoSquash,
	}, &out)
	return out, err
}

// MoveRepo renames or transfers a repository.
func (c *Client) MoveRepo(ctx context.Context, from, to string, t RepoType) (Object, error) {
	if err := t.valid(); err != nil {
		return nil, err
	}
	var out Object
	err := c.doJSON(ctx, Request{
		Method: http.MethodPost,
		Path:   "/api/repos/move",
		JSON:   map[string]string{"fromRepo": from, "toRepo": to, "type": t.String()},
		Reason: reason.RepoMove,
	}, &out)
	return out, err
}

// RepoInfo returns repository metadata, at revision when it is set.
func (c *Client) RepoInfo(ctx context.Context, id string, t RepoType, revision string) (Object, error) {
	r, err := repoTarget(id, t)
	if err != nil {
		return nil, err
	}
	p := r.apiPath(t)
	if revision != "" {
		p += "/revision/" + url.PathEscape(revision)
	}
	var out Object
	err = c.doJSON(ctx, Request{Method: http.MethodGet, Path: p, Reason: reason.RepoInfo}, &out)
	return out, err
}

// ListRepos lists repositories of type t, optionally filtered by author.
// A limit <= 0 uses the hub default of 50.
func (c *Client) ListRepos(ctx context.Context, t RepoType, author string, limit int) ([]Object, error) {
	if err := t.valid(); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 50
	}
	q := url.Values{"limit": {strconv.Itoa(limit)}}
	if author != "" {
		q.Set("author", author)
	}
	var out []Object
	err := c.doJSON(ctx, Request{Method: http.MethodGet, Path: "/api/" + t.Plural(), Query: q, Reason: reason.RepoList}, &out)
	return out, err
}

// ListNamespaceRepos lists every repository of a user or organization,
// each tagged with "repo_type". A non-empty t limits the listing to
// that type.
//
// Hubs without the namespace endpoint answer NotFound or a Generic
// status, or a body of another shape (ErrUnexpectedResponse); the listing
// is then rebuilt from ListRepos per type. Other failures are returned.
func (c *Client) ListNamespaceRepos(ctx context.Context, namespace string, t RepoType) ([]Object, error) {
	types := RepoTypes
	if t != "" {
		if err := t.valid(); err != nil {
			return nil, err
		}
		types = []RepoType{t}
	}

	var grouped map[string][]Object
	err := c.doJSON(ctx, Request{
		Method: http.MethodGet,
		Path:   "/api/users/" + url.PathEscape(namespace) + "/repos",
		Reason: reason.UserRepos,
	}, &grouped)
	if err == nil {
		var all []Object
		for _, rt := range types {
			all = append(all, tagType(grouped[rt.Plural()], rt)...)
		}
		return all, nil
	}
	if !errors.Is(err, ErrUnexpectedResponse) && !kohub.Ignorable(err, kind.NotFound, kind.Generic) {
		return nil, err
	}
	c.ignored.Report(string(reason.UserRepos), err)
	c.log.Debug("namespace listing falls back to per-type listing", zap.String("namespace", namespace))

	var all []Object
	for _, rt := range types {
		repos, err := c.ListRepos(ctx, rt, namespace, namespaceFallbackLimit)
		if err != nil {
			return nil, err
		}
		all = append(all, tagType(repos, rt)...)
	}
	return all, nil
}

func tagType(repos []Object, t RepoType) []Object {
	for _, r := range repos {
		if r != nil {
			r["repo_type"] = t.String()
		}
	}
	return repos
}

// ListRepoTree lists the entries under path at revision. An empty
// revision is "main".
func (c *Client) ListRepoTree(ctx context.Context, id string, t RepoType, revision, path string, recursive bool) ([]TreeEntry, error) {
	r, err := repoTarget(id, t)
	if err != nil {
		return nil, err
	}
	if revision == "" {
		revision = "main"
	}
	p := strings.TrimRight(r.apiPath(t)+"/tree/"+url.PathEscape(revision)+"/"+escapePath(path), "/")
	var out []TreeEntry
	err = c.doJSON(ctx, Request{
		Method: http.MethodGet,
		Path:   p,
		Query:  url.Values{"recursive": {strconv.FormatBool(recursive)}},
		Reason: reason.RepoTree,
	}, &out)
	return out, err
}

// CreateBranch creates branch from revision, or from main when revision
// is empty.
func (c *Client) CreateBranch(ctx context.Context, id string, t RepoType, branch, revision string) (Object, error) {
	r, err := repoTarget(id, t)
	if err != nil {
		return nil, err
	}
	body := map[string]string{"branch": branch}
	if revision != "" {
		body["revision"] = revision
	}
	var out Object
	err = c.doJSON(ctx, Request{Method: http.MethodPost, Path: r.apiPath(t) + "/branch", JSON: body, Reason: reason.RepoBranchCreate}, &out)
	return out, err
}

// DeleteBranch deletes branch.
func (c *Client) DeleteBranch(ctx context.Context, id string, t RepoType, branch string) (Object, error) {
	r, err := repoTarget(id, t)
	if err != nil {
		return nil, err
	}
	var out Object
	err = c.doJSON(ctx, Request{
		Method: http.MethodDelete,
		Path:   r.apiPath(t) + "/branch/" + url.PathEscape(branch),
		Reason: reason.RepoBranchDelete,
	}, &out)
	return out, err
}

// CreateTag creates tag at revision with an optional message.
func (c *Client) CreateTag(ctx context.Context, id string, t RepoType, tag, revision, message string) (Object, error) {
	r, err := repoTarget(id, t)
	if err != nil {
		return nil, err
	}
	body := map[string]string{"tag": tag}
	if revision != "" {
		body["revision"] = revision
	}
	if message != "" {
		body["message"] = message
	}
	var out Object
	err = c.doJSON(ctx, Request{Method: http.MethodPost, Path: r.apiPath(t) + "/tag", JSON: body, Reason: reason.RepoTagCreate}, &out)
	return out, err
}

// DeleteTag deletes tag.
func (c *Client) DeleteTag(ctx context.Context, id string, t RepoType, tag string) (Object, error) {
	r, err := repoTarget(id, t)
	if err != nil {
		return nil, err
	}
	var out Object
	err = c.doJSON(ctx, Request{
		Method: http.MethodDelete,
		Path:   r.apiPath(t) + "/tag/" + url.PathEscape(tag),
		Reason: reason.RepoTagDelete,
	}, &out)
	return out, err
}

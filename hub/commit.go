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
	"net/http"
	"net/url"
	"strconv"

	"dirpx.dev/kohub/reason"
)

// Commit is one entry of a commit listing.
type Commit struct {
	OID     string `json:"oid"`
	Title   string `json:"title"`
	Message string `json:"message"`
	Author  string `json:"author"`
	Date    string `json:"date"`
}

// Summary returns the title, or the message when the title is empty.
func (c Commit) Summary() string {
	if c.Title != "" {
		return c.Title
	}
	return c.Message
}

// CommitPage is one page of a commit listing.
type CommitPage struct {
	Commits    []Commit `json:"commits"`
	HasMore    bool     `json:"hasMore"`
	NextCursor string   `json:"nextCursor"`
}

// ListCommits lists commits on branch, newest first. after is the cursor
// from a previous page. An empty branch is "main"; limit <= 0 is 20.
func (c *Client) ListCommits(ctx context.Context, id string, t RepoType, branch string, limit int, after string) (CommitPage, error) {
	var out CommitPage
	r, err := repoTarget(id, t)
	if err != nil {
		return out, err
	}
	if branch == "" {
		branch = "main"
	}
	if limit <= 0 {
		limit = 20
	}
	q := url.Values{"limit": {strconv.Itoa(limit)}}
	if after != "" {
		q.Set("after", after)
	}
	err = c.doJSON(ctx, Request{
		Method: http.MethodGet,
		Path:   r.apiPath(t) + "/commits/" + url.PathEscape(branch),
		Query:  q,
		Reason: reason.CommitList,
	}, &out)
	return out, err
}

// GetCommitDetail returns a commit with author, message, parents and
// metadata.
func (c *Client) GetCommitDetail(ctx context.Context, id string, t RepoType, commitID string) (Object, error) {
	r, err := repoTarget(id, t)
	if err != nil {
		return nil, err
	}
	var out Object
	err = c.doJSON(ctx, Request{
		Method: http.MethodGet,
		Path:   r.apiPath(t) + "/commit/" + url.PathEscape(commitID),
		Reason: reason.CommitGet,
	}, &out)
	return out, err
}

// GetCommitDiff returns the files changed by a commit.
func (c *Client) GetCommitDiff(ctx context.Context, id string, t RepoType, commitID string) (Object, error) {
	r, err := repoTarget(id, t)
	if err != nil {
		return nil, err
	}
	var out Object
	err = c.doJSON(ctx, Request{
		Method: http.MethodGet,
		Path:   r.apiPath(t) + "/commit/" + url.PathEscape(commitID) + "/diff",
		Reason: reason.CommitDiff,
	}, &out)
	return out, err
}

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
	"strings"

	"dirpx.dev/kohub/reason"
)

// ExternalSource is a fallback source the hub can proxy to.
type ExternalSource struct {
	URL        string `json:"url"`
	Name       string `json:"name"`
	SourceType string `json:"source_type"`
}

// ExternalToken is a stored token for a fallback source. Only a masked
// preview of the secret is returned.
type ExternalToken struct {
	URL       string `json:"url"`
	Preview   string `json:"token_preview"`
	CreatedAt string `json:"created_at,omitempty"`
	UpdatedAt string `json:"updated_at,omitempty"`
}

// ListAvailableSources lists the fallback sources configured on the hub.
func (c *Client) ListAvailableSources(ctx context.Context) ([]ExternalSource, error) {
	var out []ExternalSource
	err := c.doJSON(ctx, Request{
		Method: http.MethodGet,
		Path:   "/api/fallback-sources/available",
		Reason: reason.AuthExternalSources,
	}, &out)
	return out, err
}

// ListExternalTokens lists username's fallback tokens.
func (c *Client) ListExternalTokens(ctx context.Context, username string) ([]ExternalToken, error) {
	var out []ExternalToken
	err := c.doJSON(ctx, Request{
		Method: http.MethodGet,
		Path:   "/api/users/" + url.PathEscape(username) + "/external-tokens",
		Reason: reason.AuthExternalList,
	}, &out)
	return out, err
}

// AddExternalToken stores or replaces username's token for sourceURL.
func (c *Client) AddExternalToken(ctx context.Context, username, sourceURL, token string) (Object, error) {
	var out Object
	err := c.doJSON(ctx, Request{
		Method: http.MethodPost,
		Path:   "/api/users/" + url.PathEscape(username) + "/external-tokens",
		JSON:   map[string]string{"url": sourceURL, "token": token},
		Reason: reason.AuthExternalAdd,
	}, &out)
	return out, err
}

// DeleteExternalToken removes username's token for sourceURL. The URL is
// sent as one fully escaped path segment.
func (c *Client) DeleteExternalToken(ctx context.Context, username, sourceURL string) (Object, error) {
	var out Object
	err := c.doJSON(ctx, Request{
		Method: http.MethodDelete,
		Path:   "/api/users/" + url.PathEscape(username) + "/external-tokens/" + escapeAll(sourceURL),
		Reason: reason.AuthExternalDelete,
	}, &out)
	return out, err
}

// escapeAll percent-encodes every byte outside the unreserved set,
// including "/" and ":".
func escapeAll(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

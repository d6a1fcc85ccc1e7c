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

	"dirpx.dev/kohub/reason"
)

// Optional is a settings field with three states: left out of the
// update, set to a value, or reset to the server default (sent as null).
// The zero value is left out.
type Optional[T any] struct {
	value T
	state optState
}

type optState uint8

const (
	optUnset optState = iota
	optValue
	optReset
)

// Set returns an Optional holding v.
func Set[T any](v T) Optional[T] { return Optional[T]{value: v, state: optValue} }

// Reset returns an Optional that restores the server default.
func Reset[T any]() Optional[T] { return Optional[T]{state: optReset} }

// Value returns the held value and whether one is set.
func (o Optional[T]) Value() (T, bool) { return o.value, o.state == optValue }

// IsReset reports whether o resets the field.
func (o Optional[T]) IsReset() bool { return o.state == optReset }

func (o Optional[T]) put(m map[string]any, key string) {
	switch o.state {
	case optValue:
		m[key] = o.value
	case optReset:
		m[key] = nil
	}
}

// RepoSettings is a partial repository settings update. Only fields that
// are set are sent.
type RepoSettings struct {
	Private *bool
	// Gated is "auto", "manual" or empty.
	Gated *string

	LFSThresholdBytes Optional[int64]
	LFSKeepVersions   Optional[int]
	LFSSuffixRules    Optional[[]string]
}

func (s RepoSettings) body() map[string]any {
	m := map[string]any{}
	if s.Private != nil {
		m["private"] = *s.Private
	}
	if s.Gated != nil {
		m["gated"] = *s.Gated
	}
	s.LFSThresholdBytes.put(m, "lfs_threshold_bytes")
	s.LFSKeepVersions.put(m, "lfs_keep_versions")
	s.LFSSuffixRules.put(m, "lfs_suffix_rules")
	return m
}

// UpdateUserSettings updates username's settings. A nil email is left
// unchanged.
func (c *Client) UpdateUserSettings(ctx context.Context, username string, email *string) (Object, error) {
	body := map[string]any{}
	if email != nil {
		body["email"] = *email
	}
	var out Object
	err := c.doJSON(ctx, Request{
		Method: http.MethodPut,
		Path:   "/api/users/" + url.PathEscape(username) + "/settings",
		JSON:   body,
		Reason: reason.UserSettingsUpdate,
	}, &out)
	return out, err
}

// UpdateOrganizationSettings updates org's settings. A nil description
// is left unchanged.
func (c *Client) UpdateOrganizationSettings(ctx context.Context, org string, description *string) (Object, error) {
	body := map[string]any{}
	if description != nil {
		body["description"] = *description
	}
	var out Object
	err := c.doJSON(ctx, Request{
		Method: http.MethodPut,
		Path:   "/api/organizations/" + url.PathEscape(org) + "/settings",
		JSON:   body,
		Reason: reason.OrgSettingsUpdate,
	}, &out)
	return out, err
}

// UpdateRepoSettings applies s to a repository.
func (c *Client) UpdateRepoSettings(ctx context.Context, id string, t RepoType, s RepoSettings) (Object, error) {
	r, err := repoTarget(id, t)
	if err != nil {
		return nil, err
	}
	var out Object
	err = c.doJSON(ctx, Request{Method: http.MethodPut, Path: r.apiPath(t) + "/settings", JSON: s.body(), Reason: reason.RepoSettingsUpdate}, &out)
	return out, err
}

// LFSSettings are a repository's LFS settings: the configured values (nil
// when the server default applies), the effective values and where each
// comes from.
type LFSSettings struct {
	ThresholdBytes          *int64   `json:"lfs_threshold_bytes"`
	ThresholdBytesEffective int64    `json:"lfs_threshold_bytes_effective"`
	ThresholdBytesSource    string   `json:"lfs_threshold_bytes_source"`
	KeepVersions            *int     `json:"lfs_keep_versions"`
	KeepVersionsEffective   int      `json:"lfs_keep_versions_effective"`
	KeepVersionsSource      string   `json:"lfs_keep_versions_source"`
	SuffixRules             []string `json:"lfs_suffix_rules"`
	SuffixRulesEffective    []string `json:"lfs_suffix_rules_effective"`
	ServerDefaults          struct {
		ThresholdBytes int64 `json:"lfs_threshold_bytes"`
		KeepVersions   int   `json:"lfs_keep_versions"`
	} `json:"server_defaults"`
}

// GetRepoLFSSettings returns a repository's LFS settings.
func (c *Client) GetRepoLFSSettings(ctx context.Context, id string, t RepoType) (LFSSettings, error) {
	var out LFSSettings
	r, err := repoTarget(id, t)
	if err != nil {
		return out, err
	}
	err = c.doJSON(ctx, Request{Method: http.MethodGet, Path: r.apiPath(t) + "/settings/lfs", Reason: reason.RepoSettingsLFS}, &out)
	return out, err
}

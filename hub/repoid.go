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
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// RepoType is the kind of repository: model, dataset or space.
type RepoType string

const (
	Model   RepoType = "model"
	Dataset RepoType = "dataset"
	Space   RepoType = "space"
)

// RepoTypes lists every repository type in listing order.
var RepoTypes = []RepoType{Model, Dataset, Space}

var (
	// ErrInvalidRepoID is returned for ids that are not namespace/name.
	ErrInvalidRepoID = errors.New("repo_id must be in format 'namespace/name'")

	// ErrInvalidRepoType is returned for unknown repository types.
	ErrInvalidRepoType = errors.New("repo type must be one of: model, dataset, space")
)

// ParseRepoType parses s. The empty string is Model.
func ParseRepoType(s string) (RepoType, error) {
	switch t := RepoType(strings.ToLower(strings.TrimSpace(s))); t {
	case "":
		return Model, nil
	case Model, Dataset, Space:
		return t, nil
	}
	return "", fmt.Errorf("%w: got %q", ErrInvalidRepoType, s)
}

// Plural is the path form used by the API, e.g. "models".
func (t RepoType) Plural() string {
	if t == "" {
		t = Model
	}
	return string(t) + "s"
}

func (t RepoType) String() string { return string(t) }

func (t RepoType) valid() error {
	_, err := ParseRepoType(string(t))
	return err
}

// RepoID is a repository address.
type RepoID struct {
	Namespace string
	Name      string
}

// ParseRepoID splits id on its first "/". Both halves must be non-empty;
// the name may itself contain slashes.
func ParseRepoID(id string) (RepoID, error) {
	ns, name, ok := strings.Cut(id, "/")
	if !ok || ns == "" || name == "" {
		return RepoID{}, fmt.Errorf("%w: got %q", ErrInvalidRepoID, id)
	}
	return RepoID{Namespace: ns, Name: name}, nil
}

func (r RepoID) String() string { return r.Namespace + "/" + r.Name }

// apiPath is /api/{type}s/{namespace}/{name}.
func (r RepoID) apiPath(t RepoType) string {
	return "/api/" + t.Plural() + "/" + url.PathEscape(r.Namespace) + "/" + escapePath(r.Name)
}

// escapePath escapes each "/"-separated segment of p.
func escapePath(p string) string {
	segs := strings.Split(p, "/")
	for i, s := range segs {
		segs[i] = url.PathEscape(s)
	}
	return strings.Join(segs, "/")
}

// repoTarget validates the id and type shared by every repository call.
func repoTarget(id string, t RepoType) (RepoID, error) {
	if err := t.valid(); err != nil {
		return RepoID{}, err
	}
	return ParseRepoID(id)
}

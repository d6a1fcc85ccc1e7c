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

package classify

import (
	"fmt"
	"net/http"
	"strings"
	"sync"

	"dirpx.dev/kohub/apis"
	"dirpx.dev/kohub/kind"
	"google.golang.org/grpc/codes"
)

// Rule sources reported by Explain.
const (
	sourceOverride  = "override"
	sourceHeuristic = "heuristic"
	sourceDefault   = "default"
	sourceRange     = "range"
	sourceFallback  = "fallback"
)

// New builds an immutable apis.Classifier.
//
// Build steps:
//
//  1. seed the builder with the library defaults;
//  2. apply opts;
//  3. validate every override (status range, kind membership, needle);
//  4. freeze all maps into fresh copies.
func New(opts ...Option) (apis.Classifier, error) {
	b := newBuilder()
	for k, v := range defaultHTTP {
		b.httpDefaults[k] = v
	}
	for k, v := range defaultGRPC {
		b.grpcDefaults[k] = int(v)
	}

	for _, opt := range opts {
		opt(b)
	}

	for status, k := range b.statusOverride {
		if status < 100 || status > 599 {
			return nil, fmt.Errorf("classify: status override %d outside 100..599", status)
		}
		if err := kind.Validate(k); err != nil {
			return nil, fmt.Errorf("classify: status override %d: %w", status, err)
		}
		if k == kind.Network {
			return nil, fmt.Errorf("classify: status override %d cannot map to %q", status, kind.Network)
		}
	}
	for k, status := range b.httpDefaults {
		if err := kind.Validate(k); err != nil {
			return nil, fmt.Errorf("classify: HTTP default for %q: %w", k, err)
		}
		if status < 100 || status > 599 {
			return nil, fmt.Errorf("classify: HTTP default %d for %q outside 100..599", status, k)
		}
	}
	for k, c := range b.grpcOverride {
		if err := kind.Validate(k); err != nil {
			return nil, fmt.Errorf("classify: gRPC override for %q: %w", k, err)
		}
		if c < 0 || c > int(codes.Unauthenticated) {
			return nil, fmt.Errorf("classify: gRPC override %d for %q is not a canonical code", c, k)
		}
	}
	needle := strings.ToLower(strings.TrimSpace(b.existsNeedle))
	if needle == "" {
		return nil, fmt.Errorf("classify: empty exists needle")
	}

	return &classifier{
		statusOverride: freezeStatusKinds(b.statusOverride),
		statusDefault:  freezeStatusKinds(defaultStatusKind),
		existsNeedle:   needle,
		httpDefault:    freezeHTTP(b.httpDefaults),
		grpcDefault:    freezeGRPC(b.grpcDefaults),
		grpcOverride:   freezeGRPC(b.grpcOverride),
	}, nil
}

// MustNew is like New but panics on a configuration error.
func MustNew(opts ...Option) apis.Classifier {
	c, err := New(opts...)
	if err != nil {
		panic(err)
	}
	return c
}

var defaultClassifier = sync.OnceValue(func() apis.Classifier { return MustNew() })

// Default returns the shared classifier built from library defaults only.
func Default() apis.Classifier { return defaultClassifier() }

// classifier is safe for concurrent use once built.
type classifier struct {
	// statusOverride is consulted first, for exact status matches.
	statusOverride map[int]kind.Kind

	// statusDefault holds the built-in exact matches (401, 403, 404).
	statusDefault map[int]kind.Kind

	// existsNeedle splits 400s into AlreadyExists and Validation.
	existsNeedle string

	httpDefault  map[kind.Kind]int
	grpcDefault  map[kind.Kind]codes.Code
	grpcOverride map[kind.Kind]codes.Code
}

// Kind classifies a failed response.
//
// Resolution order:
//  1. exact status override;
//  2. 400 split by message: AlreadyExists when the message contains the
//     needle in any letter case, Validation otherwise;
//  3. built-in exact status (401, 403, 404);
//  4. any status >= 500 is Server;
//  5. everything else is Generic.
func (c *classifier) Kind(status int, message string) kind.Kind {
	k, _ := c.resolveKind(status, message)
	return k
}

func (c *classifier) resolveKind(status int, message string) (kind.Kind, string) {
	if k, ok := c.statusOverride[status]; ok {
		return k, sourceOverride
	}
	if status == http.StatusBadRequest {
		if strings.Contains(strings.ToLower(message), c.existsNeedle) {
			return kind.AlreadyExists, sourceHeuristic
		}
		return kind.Validation, sourceDefault
	}
	if k, ok := c.statusDefault[status]; ok {
		return k, sourceDefault
	}
	if status >= http.StatusInternalServerError {
		return kind.Server, sourceRange
	}
	return kind.Generic, sourceFallback
}

// Status returns the HTTP and gRPC statuses for k. Unknown kinds resolve to
// 500 / codes.Unknown.
func (c *classifier) Status(k kind.Kind) apis.Status {
	st := apis.Status{HTTP: http.StatusInternalServerError, GRPC: codes.Unknown}
	if v, ok := c.httpDefault[k]; ok {
		st.HTTP = v
	}
	st.GRPC, _ = c.resolveGRPC(k)
	return st
}

func (c *classifier) resolveGRPC(k kind.Kind) (codes.Code, string) {
	if v, ok := c.grpcOverride[k]; ok {
		return v, sourceOverride
	}
	if v, ok := c.grpcDefault[k]; ok {
		return v, sourceDefault
	}
	return codes.Unknown, sourceFallback
}

// Explain traces how a response was classified.
//
// Example output:
//
//	status=400 message="Repository already exists"
//	kind: source=heuristic needle="exists" -> already_exists
//	grpc: source=default -> ALREADYEXISTS(6)
//
// source is one of override, heuristic, default, range or fallback.
func (c *classifier) Explain(status int, message string) string {
	var b strings.Builder
	_, _ = fmt.Fprintf(&b, "status=%d message=%q\n", status, message)

	k, src := c.resolveKind(status, message)
	if src == sourceHeuristic {
		_, _ = fmt.Fprintf(&b, "kind: source=%s needle=%q -> %s\n", src, c.existsNeedle, k)
	} else {
		_, _ = fmt.Fprintf(&b, "kind: source=%s -> %s\n", src, k)
	}

	g, gsrc := c.resolveGRPC(k)
	_, _ = fmt.Fprintf(&b, "grpc: source=%s -> %s(%d)", gsrc, grpcName(g), int(g))
	return b.String()
}

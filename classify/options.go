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

import "dirpx.dev/kohub/kind"

// Option configures a Classifier at build time.
type Option func(*builder)

// WithStatusOverride maps an exact HTTP status to k, ahead of every
// built-in rule. k must not be kind.Network: a response was received.
func WithStatusOverride(status int, k kind.Kind) Option {
	return func(b *builder) { b.statusOverride[status] = k }
}

// WithExistsNeedle replaces the substring that marks a 400 as
// AlreadyExists. Matching is case-insensitive.
func WithExistsNeedle(needle string) Option {
	return func(b *builder) { b.existsNeedle = needle }
}

// WithHTTPDefault sets the HTTP status rendered for errors of kind k that
// carry no status of their own.
func WithHTTPDefault(k kind.Kind, http int) Option {
	return func(b *builder) { b.httpDefaults[k] = http }
}

// WithGRPCOverride sets the gRPC code reported for kind k.
func WithGRPCOverride(k kind.Kind, grpc int) Option {
	return func(b *builder) { b.grpcOverride[k] = grpc }
}

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

package apis

import "dirpx.dev/kohub/kind"

// KindedError is an error that belongs to one of the closed failure kinds.
//
// Callers that only need to branch ("was it a 404?") should depend on this
// interface rather than on the concrete error type.
type KindedError interface {
	error

	// ErrorKind returns the failure kind. It is never kind.Empty for
	// errors produced by the hub client.
	ErrorKind() kind.Kind
}

// ReasonedError is an error that knows which hub operation produced it.
//
// Examples:
//
//	kind:   "already_exists"
//	reason: "repo.create"     -> the repository name is taken
//
//	kind:   "not_found"
//	reason: "org.member.add"  -> the user or the organization is missing
type ReasonedError interface {
	error

	// ErrorReason returns the operation identifier. It MAY be empty.
	ErrorReason() string
}

// StatusError is an error that came from an HTTP response.
type StatusError interface {
	error

	// HTTPStatus returns the response status code, or 0 when no response
	// was received.
	HTTPStatus() int
}

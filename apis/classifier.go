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

import (
	"dirpx.dev/kohub/kind"
	"google.golang.org/grpc/codes"
)

// Classifier is an immutable, concurrency-safe set of rules that turns an
// error response into a failure kind, and a kind back into transport
// statuses.
type Classifier interface {
	// Kind classifies a response by status and extracted message. It is
	// total: every integer status yields a kind, never kind.Network.
	Kind(status int, message string) kind.Kind

	// Status returns the canonical HTTP and gRPC statuses for k. It is used
	// when an error has to be written out again (fake hubs, JSON output).
	Status(k kind.Kind) Status

	// Explain returns a human-readable trace of which rule classified the
	// response. Implementations may return an empty string.
	Explain(status int, message string) string
}

// Status is a resolved pair of transport statuses for one kind.
type Status struct {
	HTTP int        // net/http compatible status code.
	GRPC codes.Code // canonical gRPC code.
}

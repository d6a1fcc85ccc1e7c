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

// ErrorView is the presentation form of a failed hub call, shared by the
// text and JSON renderers of the CLI.
//
// It holds only what is safe to show a user: no response headers, no
// token, no raw body beyond the extracted message.
type ErrorView struct {
	// Kind is the failure kind, e.g. "not_found".
	Kind string `json:"type"`

	// Label is the short heading printed before the message in text mode,
	// e.g. "Permission Denied".
	Label string `json:"-"`

	// Reason is the operation that failed, e.g. "repo.create". May be empty.
	Reason string `json:"reason,omitempty"`

	// Message is the message extracted from the response, or the transport
	// error description for network failures.
	Message string `json:"error"`

	// StatusCode is the HTTP status of the response, 0 for network failures.
	StatusCode int `json:"status_code,omitempty"`

	// GRPCCode is the canonical gRPC code for the kind, as an integer.
	GRPCCode int `json:"grpc_code"`

	// Hints are short suggestions on how to recover.
	Hints []string `json:"hints,omitempty"`
}

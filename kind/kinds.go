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

package kind

// Hub failure kinds.
//
// Each constant lists the response that produces it by default. The exact
// resolution lives in package classify and may be adjusted per client.
const (
	// Authentication means the hub did not accept the caller's credentials:
	// no token, an expired session, or a revoked token.
	//
	// Produced by HTTP 401.
	Authentication Kind = "authentication"

	// Authorization means the caller is known but lacks permission for the
	// operation, e.g. deleting a repository of an organization where the
	// caller is only a member.
	//
	// Produced by HTTP 403.
	Authorization Kind = "authorization"

	// NotFound means the addressed repository, organization, user, file,
	// branch or commit does not exist or is not visible to the caller.
	//
	// Produced by HTTP 404.
	NotFound Kind = "not_found"

	// AlreadyExists means a create or rename collided with an existing
	// resource. The hub reports these as plain 400s, so the kind is derived
	// from the message text.
	//
	// Produced by HTTP 400 whose message contains "exists".
	AlreadyExists Kind = "already_exists"

	// Validation means the hub rejected the request input.
	//
	// Produced by every other HTTP 400.
	Validation Kind = "validation"

	// Server means the hub failed while handling a well-formed request.
	//
	// Produced by HTTP 500 and above.
	Server Kind = "server"

	// Network means no response was received: DNS failure, refused
	// connection, TLS error, timeout or cancellation. Network errors carry
	// no status code.
	Network Kind = "network"

	// Generic covers every other status >= 400 that none of the kinds above
	// claim (405, 409, 413, 429, ...). The status code is still attached.
	Generic Kind = "generic"
)

// declared is the closed kind set, in declaration order.
var declared = map[Kind]int{
	Authentication: 0,
	Authorization:  1,
	NotFound:       2,
	AlreadyExists:  3,
	Validation:     4,
	Server:         5,
	Network:        6,
	Generic:        7,
}

// All returns every declared kind in declaration order. The slice is a
// fresh copy.
func All() []Kind {
	out := make([]Kind, len(declared))
	for k, i := range declared {
		out[i] = k
	}
	return out
}

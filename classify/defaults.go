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
	"net/http"

	"dirpx.dev/kohub/kind"
	"google.golang.org/grpc/codes"
)

// DefaultExistsNeedle is the substring that turns a 400 into AlreadyExists.
// The hub has no dedicated status for name collisions.
const DefaultExistsNeedle = "exists"

// defaultStatusKind holds the exact status matches. 400 is absent on
// purpose: it is split by message, see classifier.resolveKind.
var defaultStatusKind = map[int]kind.Kind{
	http.StatusUnauthorized: kind.Authentication,
	http.StatusForbidden:    kind.Authorization,
	http.StatusNotFound:     kind.NotFound,
}

// defaultHTTP is the status written back for each kind when an error has to
// be rendered as a response and carries no status of its own.
var defaultHTTP = map[kind.Kind]int{
	kind.Authentication: http.StatusUnauthorized,
	kind.Authorization:  http.StatusForbidden,
	kind.NotFound:       http.StatusNotFound,
	kind.AlreadyExists:  http.StatusBadRequest, // The hub reports collisions as 400, not 409.
	kind.Validation:     http.StatusBadRequest,
	kind.Server:         http.StatusInternalServerError,
	kind.Network:        http.StatusServiceUnavailable, // Never on the wire; used by local renderers.
	kind.Generic:        http.StatusInternalServerError,
}

// defaultGRPC projects each kind onto the closest canonical gRPC code.
var defaultGRPC = map[kind.Kind]codes.Code{
	kind.Authentication: codes.Unauthenticated,
	kind.Authorization:  codes.PermissionDenied,
	kind.NotFound:       codes.NotFound,
	kind.AlreadyExists:  codes.AlreadyExists,
	kind.Validation:     codes.InvalidArgument,
	kind.Server:         codes.Internal,
	kind.Network:        codes.Unavailable, // Nothing answered; the caller may retry.
	kind.Generic:        codes.Unknown,
}

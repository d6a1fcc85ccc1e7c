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

// Package hub is the client for the KohakuHub REST API.
//
// Every call goes through Client.Execute, which joins the endpoint and
// path, attaches the bearer token when one is set and turns failures into
// *kohub.Error values:
//
//   - no response (DNS, refused connection, TLS, timeout, cancellation):
//     kind.Network, message "Network request failed: <cause>", the
//     transport error as Cause;
//   - status >= 400: the body is buffered, its message extracted and the
//     kind resolved by the client's classifier; the error carries the
//     status, a response snapshot and the operation reason.
//
// Requests are never retried. The caller's context is the only
// cancellation path.
//
//	c, err := hub.New("http://localhost:28080", hub.WithToken(tok))
//	info, err := c.RepoInfo(ctx, "alice/bert", hub.Model, "")
//	if errors.Is(err, kohub.ErrNotFound) {
//	    ...
//	}
package hub

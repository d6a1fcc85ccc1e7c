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

// Package classify turns failed hub responses into failure kinds
// (dirpx.dev/kohub/kind), and kinds back into transport statuses.
//
// # Resolution model
//
// A Classifier resolves a (status, message) pair in this order:
//
//  1. exact status override (WithStatusOverride);
//  2. HTTP 400: AlreadyExists when the message contains "exists" in any
//     letter case, Validation otherwise;
//  3. 401 Authentication, 403 Authorization, 404 NotFound;
//  4. any status >= 500: Server;
//  5. anything else: Generic.
//
// Classification is total. kind.Network is never produced here: it is the
// kind of failures where no status exists, and the hub client assigns it
// directly.
//
// # The "exists" heuristic
//
// The hub answers name collisions with a plain 400 and a message such as
// "Repository already exists". There is no structured signal, so the
// message text decides. The needle can be replaced with WithExistsNeedle
// when talking to a hub that words these messages differently.
//
// # Reverse projection
//
// Status(kind) returns the HTTP status and gRPC code that represent a kind
// when an error is written out again: by the fake hub used in tests, or by
// the CLI's JSON error output.
//
// # Diagnostics
//
// Explain returns a human-readable trace naming the rule that matched. It
// is meant for `kohub api --explain` and for tests, not for machine parsing.
//
// # Immutability
//
// All inputs are copied by New; a Classifier is safe to share between
// goroutines.
package classify

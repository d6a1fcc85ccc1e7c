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

// Package kind defines the closed set of failure kinds a hub call can end
// with.
//
// A kind answers "what went wrong, in terms the caller can act on": log in
// again (authentication), ask an owner (authorization), fix the name
// (not_found, already_exists, validation), retry later (server, network).
// Kinds are:
//
//   - lowercase, underscore-separated identifiers;
//   - a closed enumeration (Parse rejects anything not declared);
//   - stable, so they can be written to history files and JSON output.
package kind

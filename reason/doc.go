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

// Package reason names the operation that produced an error.
//
// Where a kind answers "what went wrong?", a reason answers "while doing
// what?": "repo.create", "org.member.add", "commit.diff". Reasons are
// optional; the zero value means the operation is unknown, for example when
// a raw request is sent to an endpoint the route table does not cover.
package reason

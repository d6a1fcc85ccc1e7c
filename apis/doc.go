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

// Package apis defines the small contracts shared by the hub client, the
// classifier and the renderers.
//
// Code that only needs to inspect a failure (its kind, its operation, its
// status) targets the interfaces here instead of the concrete kohub.Error.
// The package holds interfaces and view types only and imports nothing
// heavier than the kind package and grpc/codes.
package apis

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

import "dirpx.dev/kohub/kind"

type builder struct {
	// statusOverride holds exact status -> kind rules that win over every
	// built-in rule, including the 400 message split.
	statusOverride map[int]kind.Kind

	// existsNeedle is the lowercased substring that marks a 400 as
	// AlreadyExists.
	existsNeedle string

	// httpDefaults holds per-kind HTTP statuses, seeded from defaultHTTP.
	httpDefaults map[kind.Kind]int

	// grpcDefaults holds per-kind gRPC codes as ints, seeded from
	// defaultGRPC and converted to codes.Code in New.
	grpcDefaults map[kind.Kind]int

	// grpcOverride holds user-set per-kind gRPC codes as ints.
	grpcOverride map[kind.Kind]int
}

func newBuilder() *builder {
	return &builder{
		statusOverride: make(map[int]kind.Kind),
		existsNeedle:   DefaultExistsNeedle,
		httpDefaults:   make(map[kind.Kind]int, len(defaultHTTP)),
		grpcDefaults:   make(map[kind.Kind]int, len(defaultGRPC)),
		grpcOverride:   make(map[kind.Kind]int),
	}
}

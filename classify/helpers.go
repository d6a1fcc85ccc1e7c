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
	"maps"
	"strings"

	"dirpx.dev/kohub/kind"
	"google.golang.org/grpc/codes"
)

// freezeStatusKinds copies a status -> kind map so the classifier does not
// observe later changes to builder maps.
func freezeStatusKinds(src map[int]kind.Kind) map[int]kind.Kind {
	if len(src) == 0 {
		return nil
	}
	return maps.Clone(src)
}

// freezeHTTP copies a kind -> HTTP status map.
func freezeHTTP(src map[kind.Kind]int) map[kind.Kind]int {
	if len(src) == 0 {
		return nil
	}
	return maps.Clone(src)
}

// freezeGRPC copies a kind -> int map into typed gRPC codes.
func freezeGRPC(src map[kind.Kind]int) map[kind.Kind]codes.Code {
	if len(src) == 0 {
		return nil
	}
	dst := make(map[kind.Kind]codes.Code, len(src))
	for k, v := range src {
		dst[k] = codes.Code(v)
	}
	return dst
}

// grpcName renders a code the way Explain prints it, e.g. "NOTFOUND".
func grpcName(c codes.Code) string {
	return strings.ToUpper(c.String())
}

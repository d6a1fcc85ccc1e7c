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

package httpx

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// messageKeys are the JSON fields that carry an error message, in order of
// preference. The hub (FastAPI) uses "detail"; some proxies use "message".
var messageKeys = []string{"detail", "message"}

// Message extracts the human-readable message of an error response.
//
// In order:
//
//  1. when body is a JSON object, the first non-empty of "detail" and
//     "message"; string values are returned as-is, other values as compact
//     JSON text;
//  2. otherwise the raw body text, untrimmed;
//  3. when the body is empty, "HTTP <status>".
//
// Message never fails.
func Message(status int, body []byte) string {
	if msg, ok := fromJSON(body); ok {
		return msg
	}
	if len(body) == 0 {
		return StatusText(status)
	}
	return string(body)
}

func fromJSON(body []byte) (string, bool) {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(body, &obj); err != nil || obj == nil {
		return "", false
	}
	for _, key := range messageKeys {
		raw, ok := obj[key]
		if !ok {
			continue
		}
		var compact bytes.Buffer
		if err := json.Compact(&compact, raw); err != nil {
			continue
		}
		if empty(compact.Bytes()) {
			continue
		}
		var s string
		if err := json.Unmarshal(compact.Bytes(), &s); err == nil {
			return s, true
		}
		return compact.String(), true
	}
	return "", false
}

// empty reports whether a compact JSON value counts as "no message":
// null, false, zero, "", [] and {}.
func empty(v []byte) bool {
	switch string(v) {
	case "null", "false", `""`, "[]", "{}":
		return true
	}
	if f, err := strconv.ParseFloat(string(v), 64); err == nil {
		return f == 0
	}
	return false
}

// StatusText is the message used when a response carries no body at all.
func StatusText(status int) string {
	return fmt.Sprintf("HTTP %d", status)
}

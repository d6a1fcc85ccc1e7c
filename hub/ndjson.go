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

package hub

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
)

// ContentTypeNDJSON is the content type of commit payloads.
const ContentTypeNDJSON = "application/x-ndjson"

// A commit payload is newline-delimited JSON: one header line, then one
// line per file.
//
//	{"key":"header","value":{"summary":"Upload a.txt","description":""}}
//	{"key":"file","value":{"path":"a.txt","content":"aGk=","encoding":"base64"}}
type commitLine struct {
	Key   string `json:"key"`
	Value any    `json:"value"`
}

type commitHeader struct {
	Summary     string `json:"summary"`
	Description string `json:"description"`
}

type commitFile struct {
	Path     string `json:"path"`
	Content  string `json:"content"`
	Encoding string `json:"encoding"`
}

// commitEntry is one file of a commit, already read into memory.
type commitEntry struct {
	path    string
	content []byte
}

func encodeCommit(summary, description string, files []commitEntry) ([]byte, error) {
	lines := make([][]byte, 0, len(files)+1)
	hdr, err := json.Marshal(commitLine{Key: "header", Value: commitHeader{Summary: summary, Description: description}})
	if err != nil {
		return nil, fmt.Errorf("hub: encode commit header: %w", err)
	}
	lines = append(lines, hdr)
	for _, f := range files {
		b, err := json.Marshal(commitLine{Key: "file", Value: commitFile{
			Path:     f.path,
			Content:  base64.StdEncoding.EncodeToString(f.content),
			Encoding: "base64",
		}})
		if err != nil {
			return nil, fmt.Errorf("hub: encode commit file %q: %w", f.path, err)
		}
		lines = append(lines, b)
	}
	return bytes.Join(lines, []byte("\n")), nil
}

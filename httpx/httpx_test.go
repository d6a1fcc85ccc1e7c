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
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"dirpx.dev/kohub"
	"dirpx.dev/kohub/kind"
)

func TestMessage(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   string
	}{
		{"detail", 400, `{"detail": "Repository already exists"}`, "Repository already exists"},
		{"message", 400, `{"message": "Invalid name"}`, "Invalid name"},
		{"detail wins", 404, `{"detail": "Not here", "message": "ignored"}`, "Not here"},
		{"empty detail falls to message", 400, `{"detail": "", "message": "fallback"}`, "fallback"},
		{"null detail falls to message", 400, `{"detail": null, "message": "fallback"}`, "fallback"},
		{"neither field", 418, `{"error": "teapot"}`, `{"error": "teapot"}`},
		{"non-string detail", 422, `{"detail": [ {"loc": ["body", "name"], "msg": "field required"} ]}`, `[{"loc":["body","name"],"msg":"field required"}]`},
		{"numeric detail", 400, `{"detail": 7}`, "7"},
		{"zero detail is empty", 400, `{"detail": 0}`, `{"detail": 0}`},
		{"json array", 500, `["a"]`, `["a"]`},
		{"json null", 500, `null`, `null`},
		{"not json", 500, `Internal Server Error`, "Internal Server Error"},
		{"html", 502, "<html>bad gateway</html>\n", "<html>bad gateway</html>\n"},
		{"untrimmed", 500, "  boom  ", "  boom  "},
		{"empty", 500, "", "HTTP 500"},
		{"empty 403", 403, "", "HTTP 403"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Message(tt.status, []byte(tt.body)); got != tt.want {
				t.Fatalf("Message(%d, %q) = %q, want %q", tt.status, tt.body, got, tt.want)
			}
		})
	}
}

func TestSnapshot_RestoresBody(t *testing.T) {
	resp := &http.Response{StatusCode: 400, Body: io.NopCloser(strings.NewReader(`{"detail":"x"}`))}

	first, err := Snapshot(resp)
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	second, err := Snapshot(resp)
	if err != nil {
		t.Fatalf("second Snapshot: %v", err)
	}
	if string(first) != `{"detail":"x"}` || string(first) != string(second) {
		t.Fatalf("snapshots differ: %q vs %q", first, second)
	}
	rest, _ := io.ReadAll(resp.Body)
	if string(rest) != string(first) {
		t.Fatalf("body not restored for the caller: %q", rest)
	}
}

func TestSnapshot_NoBody(t *testing.T) {
	if b, err := Snapshot(nil); b != nil || err != nil {
		t.Fatalf("Snapshot(nil) = %q, %v", b, err)
	}
	if b, err := Snapshot(&http.Response{Body: http.NoBody}); b != nil || err != nil {
		t.Fatalf("Snapshot(NoBody) = %q, %v", b, err)
	}
}

type failingReader struct{ sent bool }

func (f *failingReader) Read(p []byte) (int, error) {
	if f.sent {
		return 0, errors.New("connection reset")
	}
	f.sent = true
	return copy(p, "part"), nil
}

func TestSnapshot_ReadError(t *testing.T) {
	resp := &http.Response{Body: io.NopCloser(&failingReader{})}
	b, err := Snapshot(resp)
	if err == nil {
		t.Fatalf("Snapshot must report the read error")
	}
	if string(b) != "part" {
		t.Fatalf("partial body = %q", b)
	}
	again, _ := io.ReadAll(resp.Body)
	if string(again) != "part" {
		t.Fatalf("restored partial body = %q", again)
	}
}

func TestWriter_Write(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantDetail string
	}{
		{"own status", kohub.E(kind.AlreadyExists, "Repository already exists", kohub.WithStatusOption(400)), 400, "Repository already exists"},
		{"kind default", kohub.E(kind.NotFound, "Repository not found"), 404, "Repository not found"},
		{"plain error", errors.New("db down"), 500, "db down"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			Writer{}.Write(rec, tt.err)

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
				t.Fatalf("Content-Type = %q", ct)
			}
			var body map[string]string
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("body is not JSON: %v (%q)", err, rec.Body.String())
			}
			if body["detail"] != tt.wantDetail {
				t.Fatalf("detail = %q, want %q", body["detail"], tt.wantDetail)
			}
			if got := Message(rec.Code, rec.Body.Bytes()); got != tt.wantDetail {
				t.Fatalf("Message round trip = %q", got)
			}
		})
	}
}

func TestWriter_NilError(t *testing.T) {
	rec := httptest.NewRecorder()
	Writer{}.Write(rec, nil)
	if rec.Body.Len() != 0 {
		t.Fatalf("nil error must write nothing, got %q", rec.Body.String())
	}
}

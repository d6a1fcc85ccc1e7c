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
	"net/http"

	"dirpx.dev/kohub"
	"dirpx.dev/kohub/apis"
	"dirpx.dev/kohub/classify"
	"dirpx.dev/kohub/kind"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"
)

// Writer writes errors the way the hub does: a JSON object with the message
// under "detail". It backs the fake hub used in tests and examples.
type Writer struct {
	// Classifier resolves the status for errors that carry none. Nil means
	// classify.Default().
	Classifier apis.Classifier
}

// Write renders err. A *kohub.Error keeps its own status when it has one;
// any other error is written as a Server failure.
func (w Writer) Write(rw http.ResponseWriter, err error) {
	if err == nil {
		return
	}
	e, ok := kohub.As(err)
	if !ok {
		e = kohub.E(kind.Server, err.Error())
	}
	status := e.StatusCode
	if status == 0 {
		status = w.classifier().Status(e.Kind).HTTP
	}
	w.WriteDetail(rw, status, e.Message)
}

// WriteDetail writes {"detail": msg} with the given status.
func (w Writer) WriteDetail(rw http.ResponseWriter, status int, msg string) {
	body, err := structpb.NewStruct(map[string]any{"detail": msg})
	var b []byte
	if err == nil {
		b, err = protojson.Marshal(body)
	}
	if err != nil {
		// msg was not valid UTF-8; fall back to the status line.
		rw.Header().Set("Content-Type", "text/plain; charset=utf-8")
		rw.WriteHeader(status)
		_, _ = rw.Write([]byte(StatusText(status)))
		return
	}
	rw.Header().Set("Content-Type", "application/json")
	rw.WriteHeader(status)
	_, _ = rw.Write(b)
}

func (w Writer) classifier() apis.Classifier {
	if w.Classifier != nil {
		return w.Classifier
	}
	return classify.Default()
}

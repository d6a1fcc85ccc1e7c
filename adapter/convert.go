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

// Package adapter turns hub errors into the presentation view shared by the
// CLI renderers.
package adapter

import (
	"dirpx.dev/kohub"
	"dirpx.dev/kohub/apis"
	"dirpx.dev/kohub/classify"
	"dirpx.dev/kohub/kind"
)

var labels = map[kind.Kind]string{
	kind.Authentication: "Authentication Error",
	kind.Authorization:  "Permission Denied",
	kind.NotFound:       "Not Found",
	kind.AlreadyExists:  "Already Exists",
}

var hints = map[kind.Kind][]string{
	kind.Authentication: {
		"Login with 'kohub auth login'",
		"Or set the HF_TOKEN environment variable",
	},
	kind.Authorization: {
		"Check that you are a member of the organization",
		"Admin or owner role may be required",
	},
	kind.NotFound: {
		"Check the spelling of the repository or organization name",
		"Verify that it exists and is visible to you",
	},
	kind.AlreadyExists: {
		"Choose a different name",
	},
	kind.Network: {
		"Check the endpoint URL",
		"Make sure the server is running",
		"Check your network connection",
	},
}

// Label returns the short heading for a kind, "Error" for kinds without
// their own.
func Label(k kind.Kind) string {
	if l, ok := labels[k]; ok {
		return l
	}
	return "Error"
}

// Hints returns recovery suggestions for a kind. The slice is a copy.
func Hints(k kind.Kind) []string {
	h := hints[k]
	if len(h) == 0 {
		return nil
	}
	return append([]string(nil), h...)
}

// ToView converts err into an ErrorView. Errors that are not *kohub.Error
// are shown as Generic with their Error() text. A nil err yields the zero
// view.
//
// ToView performs no redaction: the view exposes the extracted message and
// nothing of the raw response.
func ToView(err error, cls apis.Classifier) apis.ErrorView {
	if err == nil {
		return apis.ErrorView{}
	}
	if cls == nil {
		cls = classify.Default()
	}
	e, ok := kohub.As(err)
	if !ok {
		e = kohub.E(kind.Generic, err.Error())
	}
	return apis.ErrorView{
		Kind:       string(e.Kind),
		Label:      Label(e.Kind),
		Reason:     string(e.Reason),
		Message:    e.Message,
		StatusCode: e.StatusCode,
		GRPCCode:   int(cls.Status(e.Kind).GRPC),
		Hints:      Hints(e.Kind),
	}
}

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

package grpcx

import (
	"encoding/json"
	"errors"
	"testing"

	"dirpx.dev/kohub"
	"dirpx.dev/kohub/kind"
	"dirpx.dev/kohub/reason"
	gcodes "google.golang.org/grpc/codes"
	gstatus "google.golang.org/grpc/status"
)

func TestToStatus_Codes(t *testing.T) {
	tests := []struct {
		kind kind.Kind
		want gcodes.Code
	}{
		{kind.Authentication, gcodes.Unauthenticated},
		{kind.Authorization, gcodes.PermissionDenied},
		{kind.NotFound, gcodes.NotFound},
		{kind.AlreadyExists, gcodes.AlreadyExists},
		{kind.Validation, gcodes.InvalidArgument},
		{kind.Server, gcodes.Internal},
		{kind.Network, gcodes.Unavailable},
		{kind.Generic, gcodes.Unknown},
	}
	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			st := ToStatus(kohub.E(tt.kind, "boom"), nil)
			if st.Code() != tt.want {
				t.Fatalf("code = %v, want %v", st.Code(), tt.want)
			}
			if st.Message() != "boom" {
				t.Fatalf("message = %q", st.Message())
			}
		})
	}
}

func TestToStatus_ErrorInfo(t *testing.T) {
	err := kohub.E(kind.NotFound, "Repository not found",
		kohub.WithStatusOption(404),
		kohub.WithReasonOption(reason.RepoInfo),
	)
	info, ok := ErrorInfo(ToStatus(err, nil))
	if !ok {
		t.Fatalf("ErrorInfo missing")
	}
	if info.GetReason() != "NOT_FOUND" || info.GetDomain() != Domain {
		t.Fatalf("info = %v", info)
	}
	if got := info.GetMetadata()[MetaOperation]; got != "repo.info" {
		t.Fatalf("operation = %q", got)
	}
	if got := info.GetMetadata()[MetaHTTPStatus]; got != "404" {
		t.Fatalf("http_status = %q", got)
	}
}

func TestToStatus_NilAndForeign(t *testing.T) {
	if ToStatus(nil, nil) != nil {
		t.Fatalf("nil error must give nil status")
	}
	if Err(nil, nil) != nil {
		t.Fatalf("Err(nil) must be nil")
	}
	st := ToStatus(errors.New("plain"), nil)
	if st.Code() != gcodes.Unknown || len(st.Details()) != 0 {
		t.Fatalf("foreign error = %v", st)
	}
}

func TestRoundTrip(t *testing.T) {
	in := kohub.E(kind.AlreadyExists, "Repository already exists",
		kohub.WithStatusOption(400),
		kohub.WithReasonOption(reason.RepoCreate),
	)
	st, ok := gstatus.FromError(Err(in, nil))
	if !ok {
		t.Fatalf("Err did not produce a status error")
	}
	out := FromStatus(st, nil)
	if out.Kind != in.Kind || out.Message != in.Message || out.StatusCode != 400 || out.Reason != reason.RepoCreate {
		t.Fatalf("round trip = %+v", out)
	}
	if !errors.Is(out, kohub.ErrAlreadyExists) {
		t.Fatalf("round trip lost the kind")
	}
}

func TestFromStatus_NoDetails(t *testing.T) {
	tests := []struct {
		code gcodes.Code
		want kind.Kind
	}{
		{gcodes.NotFound, kind.NotFound},
		{gcodes.Unavailable, kind.Network},
		{gcodes.DeadlineExceeded, kind.Generic},
	}
	for _, tt := range tests {
		got := FromStatus(gstatus.New(tt.code, "x"), nil)
		if got.Kind != tt.want {
			t.Fatalf("FromStatus(%v) kind = %s, want %s", tt.code, got.Kind, tt.want)
		}
	}
	if FromStatus(gstatus.New(gcodes.OK, ""), nil) != nil {
		t.Fatalf("OK status must give nil")
	}
}

func TestMarshalJSON(t *testing.T) {
	st := ToStatus(kohub.E(kind.Authentication, "Not logged in", kohub.WithStatusOption(401)), nil)
	b, err := MarshalJSON(st)
	if err != nil {
		t.Fatalf("MarshalJSON: %v", err)
	}
	var out struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Details []struct {
			Type   string `json:"@type"`
			Reason string `json:"reason"`
		} `json:"details"`
	}
	if err := json.Unmarshal(b, &out); err != nil {
		t.Fatalf("not JSON: %v", err)
	}
	if out.Code != int(gcodes.Unauthenticated) || out.Message != "Not logged in" {
		t.Fatalf("status = %+v", out)
	}
	if len(out.Details) != 1 || out.Details[0].Reason != "AUTHENTICATION" {
		t.Fatalf("details = %+v", out.Details)
	}
}

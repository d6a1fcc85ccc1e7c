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

// Package grpcx projects hub errors onto gRPC statuses and back.
//
// The projection is a google.rpc.Status whose code comes from the
// classifier and whose details hold one google.rpc.ErrorInfo:
//
//	reason:   the kind, upper-cased ("NOT_FOUND")
//	domain:   "kohub"
//	metadata: {"operation": "repo.info", "http_status": "404"}
//
// The CLI prints this status as protojson in --output json mode, and any
// gRPC-speaking tool can read it without knowing kohub types.
package grpcx

import (
	"strconv"
	"strings"

	"dirpx.dev/kohub"
	"dirpx.dev/kohub/apis"
	"dirpx.dev/kohub/classify"
	"dirpx.dev/kohub/kind"
	"dirpx.dev/kohub/reason"
	"google.golang.org/genproto/googleapis/rpc/errdetails"
	gcodes "google.golang.org/grpc/codes"
	gstatus "google.golang.org/grpc/status"
	"google.golang.org/protobuf/encoding/protojson"
)

// Domain is the ErrorInfo domain of every kohub status.
const Domain = "kohub"

// Metadata keys on the ErrorInfo detail.
const (
	MetaOperation  = "operation"
	MetaHTTPStatus = "http_status"
)

// ToStatus converts err into a gRPC status. A nil err yields nil. Errors
// that are not *kohub.Error become codes.Unknown without details.
func ToStatus(err error, cls apis.Classifier) *gstatus.Status {
	if err == nil {
		return nil
	}
	e, ok := kohub.As(err)
	if !ok {
		return gstatus.New(gcodes.Unknown, err.Error())
	}
	if cls == nil {
		cls = classify.Default()
	}

	base := gstatus.New(cls.Status(e.Kind).GRPC, e.Message)
	info := &errdetails.ErrorInfo{
		Reason:   strings.ToUpper(string(e.Kind)),
		Domain:   Domain,
		Metadata: map[string]string{},
	}
	if e.Reason != reason.Empty {
		info.Metadata[MetaOperation] = string(e.Reason)
	}
	if e.StatusCode != 0 {
		info.Metadata[MetaHTTPStatus] = strconv.Itoa(e.StatusCode)
	}
	if with, err := base.WithDetails(info); err == nil {
		return with
	}
	return base
}

// Err is ToStatus(err, cls).Err().
func Err(err error, cls apis.Classifier) error {
	st := ToStatus(err, cls)
	if st == nil {
		return nil
	}
	return st.Err()
}

// FromStatus rebuilds a *kohub.Error from a status produced by ToStatus.
//
// Without a kohub ErrorInfo the kind is recovered from the gRPC code: the
// first kind whose projection equals the code, or Generic.
func FromStatus(st *gstatus.Status, cls apis.Classifier) *kohub.Error {
	if st == nil || st.Code() == gcodes.OK {
		return nil
	}
	if cls == nil {
		cls = classify.Default()
	}
	if info, ok := ErrorInfo(st); ok {
		k, err := kind.Parse(info.GetReason())
		if err != nil {
			k = kindFromCode(st.Code(), cls)
		}
		e := kohub.E(k, st.Message())
		if r, err := reason.Parse(info.GetMetadata()[MetaOperation]); err == nil {
			e = e.WithReason(r)
		}
		if n, err := strconv.Atoi(info.GetMetadata()[MetaHTTPStatus]); err == nil {
			e = e.WithStatus(n)
		}
		return e
	}
	return kohub.E(kindFromCode(st.Code(), cls), st.Message())
}

// ErrorInfo returns the kohub ErrorInfo detail of st, if present.
func ErrorInfo(st *gstatus.Status) (*errdetails.ErrorInfo, bool) {
	if st == nil {
		return nil, false
	}
	for _, d := range st.Details() {
		if info, ok := d.(*errdetails.ErrorInfo); ok && info.GetDomain() == Domain {
			return info, true
		}
	}
	return nil, false
}

// MarshalJSON renders the status proto as protojson.
func MarshalJSON(st *gstatus.Status) ([]byte, error) {
	return protojson.MarshalOptions{Multiline: true, Indent: "  "}.Marshal(st.Proto())
}

func kindFromCode(c gcodes.Code, cls apis.Classifier) kind.Kind {
	for _, k := range kind.All() {
		if cls.Status(k).GRPC == c {
			return k
		}
	}
	return kind.Generic
}

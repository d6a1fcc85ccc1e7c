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

package kohub

import (
	"errors"
	"fmt"
	"net/http"

	"dirpx.dev/kohub/apis"
	"dirpx.dev/kohub/kind"
	"dirpx.dev/kohub/reason"
)

// Error is the single error type returned for failed hub calls.
//
// It carries:
//   - Kind: the closed failure classification (required);
//   - Reason: the hub operation that failed (optional);
//   - Message: the message extracted from the response or transport error;
//   - StatusCode: the HTTP status, 0 when no response was received;
//   - Response: a snapshot of the failed response, when there was one;
//   - Cause: the underlying transport error, for errors.Is / errors.As.
//
// All WithX helpers return a shallow copy, so values can be shared between
// goroutines.
type Error struct {
	// Kind is the failure classification. Every kind except kind.Network
	// comes with a non-zero StatusCode.
	Kind kind.Kind

	// Reason names the operation, e.g. "repo.create". May be empty.
	Reason reason.Reason

	// Message is the human-readable explanation shown to users.
	Message string

	// StatusCode is the HTTP status of the failed response, or 0.
	StatusCode int

	// Response is a buffered copy of the failed response. Nil for network
	// failures and for errors built by hand.
	Response *Response

	// Cause is the wrapped transport error, if any.
	Cause error
}

// Response is the part of a failed HTTP response kept on an Error.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// Text returns the response body as a string.
func (r *Response) Text() string {
	if r == nil {
		return ""
	}
	return string(r.Body)
}

var (
	_ apis.KindedError   = (*Error)(nil)
	_ apis.ReasonedError = (*Error)(nil)
	_ apis.StatusError   = (*Error)(nil)
)

// Kind sentinels for errors.Is. A sentinel matches any *Error of the same
// kind, whatever its message, status or reason.
var (
	ErrAuthentication = &Error{Kind: kind.Authentication, Message: "authentication failed"}
	ErrAuthorization  = &Error{Kind: kind.Authorization, Message: "permission denied"}
	ErrNotFound       = &Error{Kind: kind.NotFound, Message: "not found"}
	ErrAlreadyExists  = &Error{Kind: kind.AlreadyExists, Message: "already exists"}
	ErrValidation     = &Error{Kind: kind.Validation, Message: "invalid request"}
	ErrServer         = &Error{Kind: kind.Server, Message: "server error"}
	ErrNetwork        = &Error{Kind: kind.Network, Message: "network failure"}
	ErrGeneric        = &Error{Kind: kind.Generic, Message: "request failed"}
)

// E builds an Error of kind k and applies opts in order.
//
//	return kohub.E(kind.NotFound, "Repository not found",
//	    kohub.WithStatusOption(404),
//	    kohub.WithReasonOption(reason.RepoInfo),
//	)
func E(k kind.Kind, msg string, opts ...Option) *Error {
	e := &Error{Kind: k, Message: msg}
	for _, opt := range opts {
		e = opt(e)
	}
	return e
}

// Error implements the error interface as
//
//	<kind>: <message>
//
// or, when Reason is set,
//
//	<kind>:<reason>: <message>
func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Reason != "" {
		return fmt.Sprintf("%s:%s: %s", e.Kind, e.Reason, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap returns the transport cause.
func (e *Error) Unwrap() error { return e.Cause }

// Is reports whether target is an *Error of the same kind. A target with a
// non-zero StatusCode or a non-empty Reason must match those too.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok || e == nil || t == nil {
		return false
	}
	if t.Kind != e.Kind {
		return false
	}
	if t.StatusCode != 0 && t.StatusCode != e.StatusCode {
		return false
	}
	return t.Reason == "" || t.Reason == e.Reason
}

// ErrorKind implements apis.KindedError.
func (e *Error) ErrorKind() kind.Kind { return e.Kind }

// ErrorReason implements apis.ReasonedError.
func (e *Error) ErrorReason() string { return string(e.Reason) }

// HTTPStatus implements apis.StatusError.
func (e *Error) HTTPStatus() int { return e.StatusCode }

// WithReason returns a copy of e with Reason set to r.
func (e *Error) WithReason(r reason.Reason) *Error {
	cp := *e
	cp.Reason = r
	return &cp
}

// WithMessage returns a copy of e with a replaced message.
func (e *Error) WithMessage(msg string) *Error {
	cp := *e
	cp.Message = msg
	return &cp
}

// WithStatus returns a copy of e carrying the given HTTP status.
func (e *Error) WithStatus(status int) *Error {
	cp := *e
	cp.StatusCode = status
	return &cp
}

// WithResponse returns a copy of e holding the response snapshot. The
// StatusCode follows the snapshot when it was not set yet.
func (e *Error) WithResponse(r *Response) *Error {
	cp := *e
	cp.Response = r
	if r != nil && cp.StatusCode == 0 {
		cp.StatusCode = r.StatusCode
	}
	return &cp
}

// WithCause returns a copy of e wrapping err. A nil err returns e.
func (e *Error) WithCause(err error) *Error {
	if err == nil {
		return e
	}
	cp := *e
	cp.Cause = err
	return &cp
}

// As returns the first *Error in err's chain.
func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) && e != nil {
		return e, true
	}
	return nil, false
}

// KindOf returns the kind of the first *Error in err's chain, or
// kind.Empty when there is none.
func KindOf(err error) kind.Kind {
	if e, ok := As(err); ok {
		return e.Kind
	}
	return kind.Empty
}

// StatusOf returns the HTTP status of the first *Error in err's chain.
// The second result is false when err has no status.
func StatusOf(err error) (int, bool) {
	if e, ok := As(err); ok && e.StatusCode != 0 {
		return e.StatusCode, true
	}
	return 0, false
}

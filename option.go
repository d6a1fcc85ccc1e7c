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

import "dirpx.dev/kohub/reason"

// Option is a functional option for E.
type Option func(*Error) *Error

// WithReasonOption sets the operation reason.
func WithReasonOption(r reason.Reason) Option {
	return func(e *Error) *Error {
		return e.WithReason(r)
	}
}

// WithStatusOption sets the HTTP status.
func WithStatusOption(status int) Option {
	return func(e *Error) *Error {
		return e.WithStatus(status)
	}
}

// WithResponseOption attaches a response snapshot.
func WithResponseOption(r *Response) Option {
	return func(e *Error) *Error {
		return e.WithResponse(r)
	}
}

// WithCauseOption attaches a transport cause.
func WithCauseOption(err error) Option {
	return func(e *Error) *Error {
		return e.WithCause(err)
	}
}

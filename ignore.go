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
	"slices"

	"dirpx.dev/kohub/kind"
)

// Ignorable reports whether err may be dropped by a best-effort branch that
// tolerates the listed kinds. A nil err is always ignorable; an error that is
// not an *Error never is.
//
//	if _, err := c.CreateRepo(ctx, ...); !kohub.Ignorable(err, kind.AlreadyExists) {
//	    return err
//	}
func Ignorable(err error, kinds ...kind.Kind) bool {
	if err == nil {
		return true
	}
	e, ok := As(err)
	if !ok {
		return false
	}
	return slices.Contains(kinds, e.Kind)
}

// IgnoreHook observes errors that a best-effort branch chose to drop, so they
// still reach a log. op names the branch, e.g. "config.chmod".
type IgnoreHook func(op string, err error)

// Report calls h when it is set and err is non-nil.
func (h IgnoreHook) Report(op string, err error) {
	if h != nil && err != nil {
		h(op, err)
	}
}

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

package kind

import (
	"bytes"
	"encoding"
	"errors"
	"regexp"
	"strings"
)

// Kind is the canonical, validated classification of a hub failure.
//
// The set of kinds is closed: every value accepted by Parse is one of the
// constants declared in kinds.go. Callers switch on Kind instead of testing
// concrete error types.
type Kind string

const (
	// MinLength is the minimum length of a kind identifier.
	MinLength = 3

	// MaxLength is the maximum length of a kind identifier.
	MaxLength = 32
)

// kindFmt is the lexical shape of a kind: lowercase ASCII, digits and
// underscores, starting with a letter. The {2,31} range is tied to
// MinLength / MaxLength.
const kindFmt = `^[a-z][a-z0-9_]{2,31}$`

var kindRe = regexp.MustCompile(kindFmt)

var (
	// ErrKindInvalid is returned when a value is not lexically a kind.
	ErrKindInvalid = errors.New("kohub: invalid kind")

	// ErrKindUnknown is returned when a value is well-formed but is not one
	// of the declared kinds.
	ErrKindUnknown = errors.New("kohub: unknown kind")
)

var (
	_ encoding.TextMarshaler   = (*Kind)(nil)
	_ encoding.TextUnmarshaler = (*Kind)(nil)
)

// Empty is the zero-value kind. It never appears on a classified error.
var Empty Kind = ""

// Parse normalizes s and checks that it names one of the declared kinds.
func Parse(s string) (Kind, error) {
	s = Normalize(s)
	if err := validate(s); err != nil {
		return Empty, err
	}
	return Kind(s), nil
}

// MustParse is like Parse but panics on error.
func MustParse(s string) Kind {
	k, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return k
}

// Normalize trims s, lowercases it and turns dashes and spaces into
// underscores, so "Not-Found" and "already exists" reach their canonical
// spelling. The result still has to go through Parse or Validate.
func Normalize(s string) string {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, " ", "_")
	return s
}

// Validate reports whether k is a declared kind.
func Validate(k Kind) error {
	return validate(string(k))
}

// String returns the wire form of the kind.
func (k Kind) String() string {
	return string(k)
}

// HasStatus reports whether errors of this kind always carry an HTTP
// status code. Only Network errors happen before a response exists.
func (k Kind) HasStatus() bool {
	return k != Network && k != Empty
}

// MarshalText implements encoding.TextMarshaler. Unknown kinds do not
// marshal.
func (k Kind) MarshalText() ([]byte, error) {
	if err := Validate(k); err != nil {
		return nil, err
	}
	return []byte(k), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *Kind) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(bytes.TrimSpace(text)))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

func validate(s string) error {
	if !kindRe.MatchString(s) {
		return ErrKindInvalid
	}
	if _, ok := declared[Kind(s)]; !ok {
		return ErrKindUnknown
	}
	return nil
}

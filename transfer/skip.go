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

package transfer

import (
	"fmt"
	"path"
	"slices"
	"strings"
)

// skippedDirs are path components whose whole subtree is never copied.
var skippedDirs = []string{
	".git", ".cache", "__pycache__", ".pytest_cache",
	"node_modules", ".huggingface", ".DS_Store",
}

// skippedSuffixes are lock and scratch files.
var skippedSuffixes = []string{".lock", ".tmp", ".temp"}

// LFSExtensions are the large binary formats left out by ExcludeLFS.
var LFSExtensions = []string{".bin", ".safetensors", ".gguf", ".h5", ".onnx"}

// Skipper decides which repository paths stay behind.
type Skipper struct {
	// Globs are path.Match patterns tested against the full path and
	// against the base name.
	Globs []string

	// ExcludeLFS leaves out files with one of LFSExtensions.
	ExcludeLFS bool
}

// Skip reports whether p, a "/"-separated repository path, is left out.
// Hidden files, files under the directories in skippedDirs and lock or
// scratch files are always skipped.
func (s Skipper) Skip(p string) bool {
	base := path.Base(p)
	if strings.HasPrefix(base, ".") {
		return true
	}
	for _, part := range strings.Split(p, "/") {
		if slices.Contains(skippedDirs, part) {
			return true
		}
	}
	for _, suf := range skippedSuffixes {
		if strings.HasSuffix(base, suf) {
			return true
		}
	}
	if s.ExcludeLFS {
		lower := strings.ToLower(p)
		for _, ext := range LFSExtensions {
			if strings.HasSuffix(lower, ext) {
				return true
			}
		}
	}
	for _, g := range s.Globs {
		if ok, _ := path.Match(g, p); ok {
			return true
		}
		if ok, _ := path.Match(g, base); ok {
			return true
		}
	}
	return false
}

// ValidateGlobs reports the first malformed pattern.
func ValidateGlobs(globs []string) error {
	for _, g := range globs {
		if _, err := path.Match(g, ""); err != nil {
			return &GlobError{Pattern: g, Err: err}
		}
	}
	return nil
}

// GlobError is a malformed skip pattern.
type GlobError struct {
	Pattern string
	Err     error
}

func (e *GlobError) Error() string {
	return fmt.Sprintf("transfer: bad skip pattern %q: %v", e.Pattern, e.Err)
}

func (e *GlobError) Unwrap() error { return e.Err }

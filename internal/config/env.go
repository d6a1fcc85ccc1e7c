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

// Package config loads the CLI environment and keeps the persistent
// settings file (endpoint, token, operation history).
package config

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/kelseyhightower/envconfig"
	"golang.org/x/term"
)

// Env holds the environment variables the CLI honours. Every field is
// optional.
type Env struct {
	Endpoint  string `envconfig:"HF_ENDPOINT"`
	Token     string `envconfig:"HF_TOKEN"`
	ConfigDir string `envconfig:"KOHUB_CONFIG_DIR"`
	LogLevel  string `envconfig:"KOHUB_LOG_LEVEL"`
}

// LoadEnv reads Env from the process environment.
func LoadEnv() (Env, error) {
	var e Env
	if err := envconfig.Process("", &e); err != nil {
		return Env{}, fmt.Errorf("failed to process environment: %w", err)
	}
	return e, nil
}

// ErrNotTerminal is returned by ReadPassword when in is not a terminal.
var ErrNotTerminal = errors.New("stdin is not a terminal: pass the password with a flag instead")

// ReadPassword prints prompt to out and reads a line from in without
// echo. The password must not be empty.
func ReadPassword(in *os.File, out io.Writer, prompt string) (string, error) {
	fd := int(in.Fd())
	if !term.IsTerminal(fd) {
		return "", ErrNotTerminal
	}
	fmt.Fprint(out, prompt)
	defer fmt.Fprintln(out)

	raw, err := term.ReadPassword(fd)
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	if len(raw) == 0 {
		return "", errors.New("password cannot be empty")
	}
	pw := string(raw)
	clear(raw)
	return pw, nil
}

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

// Command kohub is a command line client for KohakuHub.
//
//	kohub auth login --username alice
//	kohub repo create alice/bert --private
//	kohub repo upload alice/bert ./weights.safetensors
//	kohub --output json repo info alice/bert
//
// The endpoint and token come from --endpoint/--token, then HF_ENDPOINT
// and HF_TOKEN, then ~/.kohub/config.json.
//
// Exit status is 0 on success, 1 when the hub or the network failed and 2
// for usage or configuration errors.
package main

import (
	"context"
	"errors"
	"io"
	"os"
	"os/signal"

	"dirpx.dev/kohub"
	"dirpx.dev/kohub/hub"
	"dirpx.dev/kohub/internal/config"
	"dirpx.dev/kohub/transfer"
)

const (
	exitOK      = 0
	exitFailure = 1
	exitUsage   = 2
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdin *os.File, stdout, stderr io.Writer) int {
	a := &app{in: stdin, out: stdout, errOut: stderr, output: outputText}
	root := a.rootCmd()
	root.SetArgs(args)
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.ExecuteContext(ctx)
	if a.log != nil {
		_ = a.log.Sync()
	}
	if err == nil {
		return exitOK
	}
	a.printError(err)
	return exitCode(err)
}

// usageError marks bad input on the command line or in the configuration.
type usageError struct{ err error }

func (e usageError) Error() string { return e.err.Error() }
func (e usageError) Unwrap() error { return e.err }

// localErrors are sentinels raised before any request is sent.
var localErrors = []error{
	hub.ErrInvalidRepoID,
	hub.ErrInvalidRepoType,
	hub.ErrBadRequest,
	hub.ErrNoFiles,
	transfer.ErrSameRepo,
	config.ErrNotTerminal,
}

func exitCode(err error) int {
	if err == nil {
		return exitOK
	}
	if _, ok := kohub.As(err); ok {
		return exitFailure
	}
	var u usageError
	if errors.As(err, &u) {
		return exitUsage
	}
	var g *transfer.GlobError
	if errors.As(err, &g) {
		return exitUsage
	}
	for _, target := range localErrors {
		if errors.Is(err, target) {
			return exitUsage
		}
	}
	return exitFailure
}

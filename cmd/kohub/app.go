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

package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"os"
	"slices"
	"strings"

	"dirpx.dev/kohub"
	"dirpx.dev/kohub/adapter"
	"dirpx.dev/kohub/apis"
	"dirpx.dev/kohub/grpcx"
	"dirpx.dev/kohub/hub"
	"dirpx.dev/kohub/internal/config"
	"dirpx.dev/kohub/internal/logx"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const (
	outputText = "text"
	outputJSON = "json"
)

var (
	successColor = color.New(color.FgGreen, color.Bold).SprintFunc()
	errorColor   = color.New(color.FgRed, color.Bold).SprintFunc()
	hintColor    = color.New(color.FgYellow).SprintFunc()
	labelColor   = color.New(color.Bold).SprintFunc()
	dimColor     = color.New(color.Faint).SprintFunc()
)

// app holds the state shared by every command of one invocation.
type app struct {
	in     *os.File
	out    io.Writer
	errOut io.Writer
	lines  *bufio.Reader

	endpoint string
	token    string
	output   string
	verbose  bool

	store *config.Store
	log   *zap.Logger
	hub   *hub.Client
}

func (a *app) rootCmd() *cobra.Command {
	root := group("kohub", "Command line client for KohakuHub",
		a.authCmd(),
		a.repoCmd(),
		a.orgCmd(),
		a.userCmd(),
		a.configCmd(),
		a.apiCmd(),
		a.healthCmd(),
		a.transferCmd(),
	)
	root.SilenceErrors = true
	root.SilenceUsage = true
	root.PersistentPreRunE = func(cmd *cobra.Command, _ []string) error { return a.setup() }
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error { return usageError{err} })

	f := root.PersistentFlags()
	f.StringVar(&a.endpoint, "endpoint", "", "hub endpoint URL (default: HF_ENDPOINT or config)")
	f.StringVar(&a.token, "token", "", "API token (default: HF_TOKEN or config)")
	f.StringVarP(&a.output, "output", "o", outputText, "output format: text or json")
	f.BoolVarP(&a.verbose, "verbose", "v", false, "log requests to stderr")
	return root
}

func (a *app) setup() error {
	if a.output != outputText && a.output != outputJSON {
		return usagef("--output must be %q or %q, got %q", outputText, outputJSON, a.output)
	}
	env, err := config.LoadEnv()
	if err != nil {
		return usageError{err}
	}
	lvl, err := logx.Level(env.LogLevel, a.verbose)
	if err != nil {
		return usageError{err}
	}
	a.log = logx.NewWriter(a.errOut, lvl)
	a.store, err = config.Open(env, config.WithIgnoreHook(a.ignored))
	if err != nil {
		return usageError{err}
	}
	return nil
}

// client returns the hub client, built on first use so that commands
// which only touch the local configuration never need a valid endpoint.
func (a *app) client() (*hub.Client, error) {
	if a.hub != nil {
		return a.hub, nil
	}
	endpoint := a.endpoint
	if endpoint == "" {
		endpoint = a.store.Endpoint()
	}
	token := a.token
	if token == "" {
		token = a.store.Token()
	}
	c, err := hub.New(endpoint, hub.WithToken(token), hub.WithLogger(a.log))
	if err != nil {
		return nil, usageError{err}
	}
	a.hub = c
	return c, nil
}

func (a *app) ignored(op string, err error) {
	if a.log != nil {
		a.log.Debug("error ignored", zap.String("op", op), zap.Error(err), zap.Bool("ignored", true))
	}
}

// record appends op to the history. Operations rejected before reaching
// the hub are not recorded. History is best effort.
func (a *app) record(op string, details map[string]any, opErr error) {
	if a.store == nil || (opErr != nil && exitCode(opErr) == exitUsage) {
		return
	}
	if err := a.store.AddHistory(op, details, opErr); err != nil {
		a.ignored("history.write", err)
	}
}

// mutate records a state-changing operation and prints its result.
func (a *app) mutate(op string, details map[string]any, result any, err error, message string) error {
	a.record(op, details, err)
	if err != nil {
		return err
	}
	return a.emit(result, message)
}

// emit prints v as JSON in json mode. In text mode it prints message, or
// v as key/value lines when message is empty.
func (a *app) emit(v any, message string) error {
	if a.output == outputJSON {
		return a.writeJSON(v)
	}
	if message != "" {
		a.success(message)
		return nil
	}
	a.printPlain(v)
	return nil
}

func (a *app) success(msg string) {
	fmt.Fprintln(a.out, successColor(msg))
}

func (a *app) field(name string, v any) {
	fmt.Fprintf(a.out, "%s %s\n", labelColor(name+":"), format(v))
}

func (a *app) writeJSON(v any) error {
	enc := json.NewEncoder(a.out)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

// printPlain renders any JSON-shaped value: objects as sorted key/value
// lines, lists one item per line.
func (a *app) printPlain(v any) {
	switch p := plain(v).(type) {
	case map[string]any:
		for _, k := range slices.Sorted(maps.Keys(p)) {
			fmt.Fprintf(a.out, "%s: %s\n", k, format(p[k]))
		}
	case []any:
		for _, item := range p {
			fmt.Fprintln(a.out, format(item))
		}
	case nil:
	default:
		fmt.Fprintln(a.out, format(p))
	}
}

// printError renders err on stderr in text mode and as a JSON document on
// stdout in json mode.
func (a *app) printError(err error) {
	var cls apis.Classifier
	if a.hub != nil {
		cls = a.hub.Classifier()
	}
	view := adapter.ToView(err, cls)

	if a.output == outputJSON {
		doc := struct {
			apis.ErrorView
			Status json.RawMessage `json:"status,omitempty"`
		}{ErrorView: view}
		if _, ok := kohub.As(err); ok {
			if st, merr := grpcx.MarshalJSON(grpcx.ToStatus(err, cls)); merr == nil {
				doc.Status = st
			}
		}
		_ = a.writeJSON(doc)
		return
	}

	fmt.Fprintf(a.errOut, "%s %s\n", errorColor(view.Label+":"), view.Message)
	for _, h := range view.Hints {
		fmt.Fprintf(a.errOut, "%s %s\n", hintColor("Hint:"), h)
	}
	if exitCode(err) == exitUsage {
		fmt.Fprintf(a.errOut, "%s\n", dimColor("Run 'kohub --help' for usage."))
	}
	if a.verbose && view.Reason != "" {
		fmt.Fprintf(a.errOut, "%s\n", dimColor(fmt.Sprintf("(%s, %s, HTTP %d)", view.Kind, view.Reason, view.StatusCode)))
	}
}

// readLine prompts on stderr and reads one line from stdin.
func (a *app) readLine(prompt string) (string, error) {
	if a.lines == nil {
		a.lines = bufio.NewReader(a.in)
	}
	fmt.Fprint(a.errOut, prompt)
	s, err := a.lines.ReadString('\n')
	s = strings.TrimSpace(s)
	if err != nil && (err != io.EOF || s == "") {
		return "", usagef("no input for %q", strings.TrimSuffix(prompt, ": "))
	}
	return s, nil
}

// password returns flagValue or prompts for it without echo.
func (a *app) password(flagValue string) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}
	return config.ReadPassword(a.in, a.errOut, "Password: ")
}

func usagef(format string, args ...any) error {
	return usageError{fmt.Errorf(format, args...)}
}

// group builds a command that only dispatches to children.
func group(use, short string, children ...*cobra.Command) *cobra.Command {
	c := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				return usagef("unknown command %q for %q", args[0], cmd.CommandPath())
			}
			return cmd.Help()
		},
	}
	c.AddCommand(children...)
	return c
}

// nargs wraps a positional argument check so its failure is a usage error.
func nargs(check cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := check(cmd, args); err != nil {
			return usageError{err}
		}
		return nil
	}
}

// repoTypeFlag registers --type on cmd and returns a parser for it.
func repoTypeFlag(cmd *cobra.Command) func() (hub.RepoType, error) {
	var s string
	cmd.Flags().StringVarP(&s, "type", "t", string(hub.Model), "repository type: model, dataset or space")
	return func() (hub.RepoType, error) { return hub.ParseRepoType(s) }
}

// maskToken shortens a secret for display.
func maskToken(v string) string {
	if len(v) > 10 {
		return v[:10] + "..."
	}
	if v == "" {
		return ""
	}
	return "***"
}

// plain converts typed results into their JSON shape.
func plain(v any) any {
	switch v.(type) {
	case nil, string, map[string]any, []any:
		return v
	}
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	var out any
	if err := json.Unmarshal(b, &out); err != nil {
		return string(b)
	}
	return out
}

func format(v any) string {
	switch x := v.(type) {
	case nil:
		return "-"
	case string:
		return x
	case fmt.Stringer:
		return x.String()
	}
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(b)
}

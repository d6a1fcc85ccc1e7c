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
	"fmt"
	"maps"
	"slices"

	"dirpx.dev/kohub/internal/config"
	"github.com/spf13/cobra"
)

func (a *app) configCmd() *cobra.Command {
	return group("config", "Local configuration and history",
		a.configSetCmd(),
		a.configGetCmd(),
		a.configListCmd(),
		a.configClearCmd(),
		a.historyCmd(),
		a.clearHistoryCmd(),
	)
}

func (a *app) configSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a configuration value (endpoint, token, ...)",
		Args:  nargs(cobra.ExactArgs(2)),
		RunE: func(_ *cobra.Command, args []string) error {
			key, value := args[0], args[1]
			var err error
			switch key {
			case config.KeyHistory:
				return usagef("%q is managed by kohub", key)
			case config.KeyEndpoint:
				err = a.store.SetEndpoint(value)
			case config.KeyToken:
				err = a.store.SetToken(value)
			default:
				err = a.store.Set(key, value)
			}
			if err != nil {
				return err
			}
			shown := value
			if key == config.KeyToken {
				shown = maskToken(value)
			}
			return a.emit(map[string]any{key: shown}, fmt.Sprintf("Set %s = %s", key, shown))
		},
	}
}

func (a *app) configGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <key>",
		Short: "Print a configuration value",
		Args:  nargs(cobra.ExactArgs(1)),
		RunE: func(_ *cobra.Command, args []string) error {
			v, ok := a.store.Get(args[0])
			if !ok {
				return usagef("config key %q is not set", args[0])
			}
			if args[0] == config.KeyToken {
				s, _ := v.(string)
				v = maskToken(s)
			}
			if a.output == outputJSON {
				return a.writeJSON(map[string]any{args[0]: v})
			}
			fmt.Fprintln(a.out, format(v))
			return nil
		},
	}
}

func (a *app) configListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Print the whole configuration",
		Args:  nargs(cobra.NoArgs),
		RunE: func(_ *cobra.Command, _ []string) error {
			all := a.store.All()
			if tok, ok := all[config.KeyToken].(string); ok {
				all[config.KeyToken] = maskToken(tok)
			}
			if a.output == outputJSON {
				return a.writeJSON(all)
			}
			fmt.Fprintf(a.out, "%s %s\n", labelColor("File:"), a.store.Path())
			fmt.Fprintf(a.out, "%s %s\n", labelColor("Endpoint in use:"), a.store.Endpoint())
			for _, k := range slices.Sorted(maps.Keys(all)) {
				if k == config.KeyHistory {
					if h, ok := all[k].([]any); ok {
						fmt.Fprintf(a.out, "%s: %s\n", k, dimColor(fmt.Sprintf("<%d entries>", len(h))))
					}
					continue
				}
				fmt.Fprintf(a.out, "%s: %s\n", k, format(all[k]))
			}
			return nil
		},
	}
}

func (a *app) configClearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove every configuration value, history included",
		Args:  nargs(cobra.NoArgs),
		RunE: func(_ *cobra.Command, _ []string) error {
			if err := a.store.Clear(); err != nil {
				return err
			}
			return a.emit(map[string]any{"cleared": true}, "Configuration cleared")
		},
	}
}

func (a *app) historyCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent operations, newest first",
		Args:  nargs(cobra.NoArgs),
		RunE: func(_ *cobra.Command, _ []string) error {
			hist := a.store.History(limit)
			if a.output == outputJSON {
				if hist == nil {
					hist = []config.Entry{}
				}
				return a.writeJSON(hist)
			}
			if len(hist) == 0 {
				fmt.Fprintln(a.out, dimColor("No history."))
			}
			for _, e := range hist {
				status := successColor("ok")
				if e.Kind != "" {
					status = errorColor(e.Kind)
				}
				fmt.Fprintf(a.out, "%s\t%s\t%s\t%s\n", dimColor(e.Timestamp), e.Operation, status, format(e.Details))
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "number of entries (0 for all)")
	return cmd
}

func (a *app) clearHistoryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear-history",
		Short: "Forget every recorded operation",
		Args:  nargs(cobra.NoArgs),
		RunE: func(_ *cobra.Command, _ []string) error {
			if err := a.store.ClearHistory(); err != nil {
				return err
			}
			return a.emit(map[string]any{"cleared": true}, "History cleared")
		},
	}
}

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

	"dirpx.dev/kohub/reason"
	"github.com/spf13/cobra"
)

func (a *app) userCmd() *cobra.Command {
	return group("user", "User settings and external tokens",
		a.userUpdateCmd(),
		group("external-tokens", "Tokens used to reach external sources",
			a.externalSourcesCmd(),
			a.externalListCmd(),
			a.externalAddCmd(),
			a.externalDeleteCmd(),
		),
	)
}

func (a *app) userUpdateCmd() *cobra.Command {
	var email string
	cmd := &cobra.Command{
		Use:   "update <username>",
		Short: "Update user settings",
		Args:  nargs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("email") {
				return usagef("nothing to update: pass --email")
			}
			c, err := a.client()
			if err != nil {
				return err
			}
			res, err := c.UpdateUserSettings(cmd.Context(), args[0], &email)
			return a.mutate(string(reason.UserSettingsUpdate), map[string]any{"username": args[0]}, res, err,
				fmt.Sprintf("User %s settings updated", args[0]))
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "new email address")
	return cmd
}

func (a *app) externalSourcesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sources",
		Short: "List the external sources the hub falls back to",
		Args:  nargs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := a.client()
			if err != nil {
				return err
			}
			sources, err := c.ListAvailableSources(cmd.Context())
			if err != nil {
				return err
			}
			if a.output == outputJSON {
				return a.writeJSON(sources)
			}
			for _, s := range sources {
				fmt.Fprintf(a.out, "%s\t%s\t%s\n", s.Name, s.URL, dimColor(s.SourceType))
			}
			return nil
		},
	}
}

func (a *app) externalListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list <username>",
		Short: "List configured external tokens",
		Args:  nargs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.client()
			if err != nil {
				return err
			}
			tokens, err := c.ListExternalTokens(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if a.output == outputJSON {
				return a.writeJSON(tokens)
			}
			if len(tokens) == 0 {
				fmt.Fprintln(a.out, dimColor("No external tokens."))
			}
			for _, t := range tokens {
				fmt.Fprintf(a.out, "%s\t%s\tupdated %s\n", t.URL, t.Preview, t.UpdatedAt)
			}
			return nil
		},
	}
}

func (a *app) externalAddCmd() *cobra.Command {
	var url, token string
	cmd := &cobra.Command{
		Use:   "add <username>",
		Short: "Add or replace an external token",
		Args:  nargs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			if url == "" {
				return usagef("--url is required")
			}
			tok, err := a.password(token)
			if err != nil {
				return err
			}
			c, err := a.client()
			if err != nil {
				return err
			}
			res, err := c.AddExternalToken(cmd.Context(), args[0], url, tok)
			return a.mutate(string(reason.AuthExternalAdd), map[string]any{"username": args[0], "url": url}, res, err,
				"External token saved for "+url)
		},
	}
	cmd.Flags().StringVar(&url, "url", "", "source URL, e.g. https://huggingface.co")
	cmd.Flags().StringVar(&token, "token-value", "", "token (prompted when empty)")
	return cmd
}

func (a *app) externalDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <username> <url>",
		Short: "Delete an external token",
		Args:  nargs(cobra.ExactArgs(2)),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.client()
			if err != nil {
				return err
			}
			res, err := c.DeleteExternalToken(cmd.Context(), args[0], args[1])
			return a.mutate(string(reason.AuthExternalDelete), map[string]any{"username": args[0], "url": args[1]}, res, err,
				"External token deleted for "+args[1])
		},
	}
}

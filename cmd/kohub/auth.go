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
	"os"
	"strconv"

	"dirpx.dev/kohub"
	"dirpx.dev/kohub/hub"
	"dirpx.dev/kohub/kind"
	"dirpx.dev/kohub/reason"
	"github.com/spf13/cobra"
)

func (a *app) authCmd() *cobra.Command {
	return group("auth", "Authentication and API tokens",
		a.loginCmd(),
		a.registerCmd(),
		a.logoutCmd(),
		a.whoamiCmd(),
		group("token", "Manage API tokens",
			a.tokenCreateCmd(),
			a.tokenListCmd(),
			a.tokenDeleteCmd(),
		),
	)
}

func (a *app) loginCmd() *cobra.Command {
	var username, password, tokenName string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and keep the session token",
		Example: `  kohub auth login -u alice
  kohub auth login -u alice --create-token
  kohub auth login -u alice --create-token=laptop`,
		Args: nargs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := a.client()
			if err != nil {
				return err
			}
			if username == "" {
				if username, err = a.readLine("Username: "); err != nil {
					return err
				}
			}
			pw, err := a.password(password)
			if err != nil {
				return err
			}
			res, err := c.Login(cmd.Context(), username, pw)
			if err == nil {
				if tok, _ := res["token"].(string); tok != "" {
					if err := a.saveToken(c, tok); err != nil {
						return err
					}
				}
			}
			if err != nil || tokenName == "" {
				return a.mutate(string(reason.AuthLogin), map[string]any{"username": username}, res, err, "Logged in as "+username)
			}
			a.record(string(reason.AuthLogin), map[string]any{"username": username}, nil)

			// The session cookie from Login authenticates this call.
			created, err := c.CreateToken(cmd.Context(), tokenName)
			if err == nil {
				tok, _ := created["token"].(string)
				if tok == "" {
					err = fmt.Errorf("token %q created but the response carried no token", tokenName)
				} else if err = a.saveToken(c, tok); err != nil {
					return err
				}
			}
			a.record(string(reason.AuthTokenCreate), map[string]any{"name": tokenName}, err)
			if err != nil {
				return err
			}
			if a.output == outputJSON {
				return a.writeJSON(map[string]any{"login": res, "token_name": tokenName, "token_saved": true})
			}
			a.success("Logged in as " + username)
			a.success(fmt.Sprintf("Token %q created and saved to config", tokenName))
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVarP(&username, "username", "u", "", "username (prompted when empty)")
	f.StringVarP(&password, "password", "p", "", "password (prompted when empty)")
	f.StringVar(&tokenName, "create-token", "", "create an API token through the new session and save it (--create-token=name)")
	f.Lookup("create-token").NoOptDefVal = defaultTokenName()
	return cmd
}

// saveToken makes tok the token of c and of the config file.
func (a *app) saveToken(c *hub.Client, tok string) error {
	c.Session().SetToken(tok)
	return a.store.SetToken(tok)
}

func defaultTokenName() string {
	host, err := os.Hostname()
	if err != nil || host == "" {
		return "cli"
	}
	return "cli-" + host
}

func (a *app) registerCmd() *cobra.Command {
	var username, email, password string
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account",
		Args:  nargs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := a.client()
			if err != nil {
				return err
			}
			if username == "" {
				if username, err = a.readLine("Username: "); err != nil {
					return err
				}
			}
			if email == "" {
				if email, err = a.readLine("Email: "); err != nil {
					return err
				}
			}
			pw, err := a.password(password)
			if err != nil {
				return err
			}
			res, err := c.Register(cmd.Context(), username, email, pw)
			return a.mutate(string(reason.AuthRegister), map[string]any{"username": username, "email": email}, res, err, "Registered "+username)
		},
	}
	cmd.Flags().StringVarP(&username, "username", "u", "", "username (prompted when empty)")
	cmd.Flags().StringVar(&email, "email", "", "email address (prompted when empty)")
	cmd.Flags().StringVarP(&password, "password", "p", "", "password (prompted when empty)")
	return cmd
}

func (a *app) logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "End the session and forget the stored token",
		Args:  nargs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := a.client()
			if err != nil {
				return err
			}
			res, err := c.Logout(cmd.Context())
			if !kohub.Ignorable(err, kind.Authentication) {
				a.record(string(reason.AuthLogout), nil, err)
				return err
			}
			a.ignored(string(reason.AuthLogout), err)
			if res == nil {
				res = map[string]any{"success": true}
			}
			c.Session().ClearToken()
			if err := a.store.SetToken(""); err != nil {
				return err
			}
			return a.mutate(string(reason.AuthLogout), nil, res, nil, "Logged out successfully")
		},
	}
}

func (a *app) whoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the authenticated user",
		Args:  nargs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := a.client()
			if err != nil {
				return err
			}
			u, err := c.Whoami(cmd.Context())
			if err != nil {
				return err
			}
			if a.output == outputJSON {
				return a.writeJSON(u)
			}
			a.field("Username", u.Username)
			a.field("Email", u.Email)
			a.field("Email Verified", u.EmailVerified)
			a.field("User ID", u.ID)
			return nil
		},
	}
}

func (a *app) tokenCreateCmd() *cobra.Command {
	var name string
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create an API token",
		Args:  nargs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := a.client()
			if err != nil {
				return err
			}
			if name == "" {
				if name, err = a.readLine("Token name: "); err != nil {
					return err
				}
			}
			res, err := c.CreateToken(cmd.Context(), name)
			a.record(string(reason.AuthTokenCreate), map[string]any{"name": name}, err)
			if err != nil {
				return err
			}
			if a.output == outputJSON {
				return a.writeJSON(res)
			}
			tok, _ := res["token"].(string)
			a.success("Token created successfully!")
			a.field("Token", tok)
			a.field("Name", name)
			fmt.Fprintln(a.out, hintColor("Save this token securely - you won't see it again!"))
			fmt.Fprintln(a.out, "export HF_TOKEN="+tok)
			return nil
		},
	}
	cmd.Flags().StringVarP(&name, "name", "n", "", "token name (prompted when empty)")
	return cmd
}

func (a *app) tokenListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List API tokens",
		Args:  nargs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := a.client()
			if err != nil {
				return err
			}
			tokens, err := c.ListTokens(cmd.Context())
			if err != nil {
				return err
			}
			if a.output == outputJSON {
				return a.writeJSON(tokens)
			}
			if len(tokens) == 0 {
				fmt.Fprintln(a.out, dimColor("No tokens."))
			}
			for _, t := range tokens {
				last := t.LastUsed
				if last == "" {
					last = "never"
				}
				fmt.Fprintf(a.out, "%d\t%s\tcreated %s\tlast used %s\n", t.ID, t.Name, t.CreatedAt, last)
			}
			return nil
		},
	}
}

func (a *app) tokenDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <token-id>",
		Short: "Revoke an API token",
		Args:  nargs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return usagef("token id must be an integer, got %q", args[0])
			}
			c, err := a.client()
			if err != nil {
				return err
			}
			res, err := c.RevokeToken(cmd.Context(), id)
			return a.mutate(string(reason.AuthTokenRevoke), map[string]any{"token_id": id}, res, err, fmt.Sprintf("Token %d revoked", id))
		},
	}
}

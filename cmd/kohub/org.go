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

	"dirpx.dev/kohub/hub"
	"dirpx.dev/kohub/reason"
	"github.com/spf13/cobra"
)

func (a *app) orgCmd() *cobra.Command {
	return group("org", "Organizations and their members",
		a.orgCreateCmd(),
		a.orgInfoCmd(),
		a.orgListCmd(),
		a.orgUpdateCmd(),
		group("member", "Manage organization members",
			a.memberAddCmd(),
			a.memberRemoveCmd(),
			a.memberUpdateCmd(),
			a.memberListCmd(),
		),
	)
}

func (a *app) orgCreateCmd() *cobra.Command {
	var description string
	cmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Create an organization",
		Args:  nargs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.client()
			if err != nil {
				return err
			}
			res, err := c.CreateOrganization(cmd.Context(), args[0], description)
			return a.mutate(string(reason.OrgCreate), map[string]any{"name": args[0]}, res, err, "Created organization "+args[0])
		},
	}
	cmd.Flags().StringVarP(&description, "description", "d", "", "organization description")
	return cmd
}

func (a *app) orgInfoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info <name>",
		Short: "Show an organization",
		Args:  nargs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.client()
			if err != nil {
				return err
			}
			res, err := c.GetOrganization(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return a.emit(res, "")
		},
	}
}

func (a *app) orgListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list [username]",
		Short: "List the organizations of a user (default: yourself)",
		Args:  nargs(cobra.MaximumNArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.client()
			if err != nil {
				return err
			}
			var user string
			if len(args) == 1 {
				user = args[0]
			}
			orgs, err := c.ListUserOrganizations(cmd.Context(), user)
			if err != nil {
				return err
			}
			if a.output == outputJSON {
				return a.writeJSON(orgs)
			}
			if len(orgs) == 0 {
				fmt.Fprintln(a.out, dimColor("No organizations."))
			}
			for _, o := range orgs {
				fmt.Fprintf(a.out, "%s\t%s\t%s\n", o.Name, o.Role, o.Description)
			}
			return nil
		},
	}
}

func (a *app) orgUpdateCmd() *cobra.Command {
	var description string
	cmd := &cobra.Command{
		Use:   "update <name>",
		Short: "Update organization settings",
		Args:  nargs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("description") {
				return usagef("nothing to update: pass --description")
			}
			c, err := a.client()
			if err != nil {
				return err
			}
			res, err := c.UpdateOrganizationSettings(cmd.Context(), args[0], &description)
			return a.mutate(string(reason.OrgSettingsUpdate), map[string]any{"name": args[0]}, res, err,
				fmt.Sprintf("Organization %s settings updated", args[0]))
		},
	}
	cmd.Flags().StringVarP(&description, "description", "d", "", "new description")
	return cmd
}

func roleFlag(cmd *cobra.Command, def string) func() (string, error) {
	var role string
	cmd.Flags().StringVar(&role, "role", def, "member, admin or super-admin")
	return func() (string, error) {
		switch role {
		case hub.RoleMember, hub.RoleAdmin, hub.RoleSuperAdmin:
			return role, nil
		}
		return "", usagef("--role must be member, admin or super-admin, got %q", role)
	}
}

func (a *app) memberAddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add <org> <username>",
		Short: "Add a member",
		Args:  nargs(cobra.ExactArgs(2)),
	}
	role := roleFlag(cmd, hub.RoleMember)
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		r, err := role()
		if err != nil {
			return err
		}
		c, err := a.client()
		if err != nil {
			return err
		}
		res, err := c.AddOrganizationMember(cmd.Context(), args[0], args[1], r)
		return a.mutate(string(reason.OrgMemberAdd), map[string]any{"org": args[0], "username": args[1], "role": r}, res, err,
			fmt.Sprintf("Added %s to %s as %s", args[1], args[0], r))
	}
	return cmd
}

func (a *app) memberRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <org> <username>",
		Short: "Remove a member",
		Args:  nargs(cobra.ExactArgs(2)),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.client()
			if err != nil {
				return err
			}
			res, err := c.RemoveOrganizationMember(cmd.Context(), args[0], args[1])
			return a.mutate(string(reason.OrgMemberRemove), map[string]any{"org": args[0], "username": args[1]}, res, err,
				fmt.Sprintf("Removed %s from %s", args[1], args[0]))
		},
	}
}

func (a *app) memberUpdateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update <org> <username>",
		Short: "Change a member's role",
		Args:  nargs(cobra.ExactArgs(2)),
	}
	role := roleFlag(cmd, "")
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		r, err := role()
		if err != nil {
			return err
		}
		c, err := a.client()
		if err != nil {
			return err
		}
		res, err := c.UpdateOrganizationMember(cmd.Context(), args[0], args[1], r)
		return a.mutate(string(reason.OrgMemberUpdate), map[string]any{"org": args[0], "username": args[1], "role": r}, res, err,
			fmt.Sprintf("%s is now %s of %s", args[1], r, args[0]))
	}
	return cmd
}

func (a *app) memberListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list <org>",
		Short: "List members",
		Args:  nargs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.client()
			if err != nil {
				return err
			}
			members, err := c.ListOrganizationMembers(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if a.output == outputJSON {
				return a.writeJSON(members)
			}
			for _, m := range members {
				fmt.Fprintf(a.out, "%s\t%s\n", format(m["user"]), format(m["role"]))
			}
			return nil
		},
	}
}

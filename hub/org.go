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

package hub

import (
	"context"
	"net/http"
	"net/url"

	"dirpx.dev/kohub/reason"
)

// Member roles accepted by the hub.
const (
	RoleMember     = "member"
	RoleAdmin      = "admin"
	RoleSuperAdmin = "super-admin"
)

// OrgMembership is an organization seen from one of its members.
type OrgMembership struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Role        string `json:"role"`
}

func orgPath(name string) string { return "/org/" + url.PathEscape(name) }

// CreateOrganization creates an organization owned by the caller. An empty
// description is sent as null.
func (c *Client) CreateOrganization(ctx context.Context, name, description string) (Object, error) {
	body := map[string]any{"name": name, "description": nil}
	if description != "" {
		body["description"] = description
	}
	var out Object
	err := c.doJSON(ctx, Request{Method: http.MethodPost, Path: "/org/create", JSON: body, Reason: reason.OrgCreate}, &out)
	return out, err
}

// GetOrganization returns an organization's public details.
func (c *Client) GetOrganization(ctx context.Context, name string) (Object, error) {
	var out Object
	err := c.doJSON(ctx, Request{Method: http.MethodGet, Path: orgPath(name), Reason: reason.OrgGet}, &out)
	return out, err
}

// ListUserOrganizations lists the organizations of username. An empty
// username means the authenticated user.
func (c *Client) ListUserOrganizations(ctx context.Context, username string) ([]OrgMembership, error) {
	if username == "" {
		me, err := c.Whoami(ctx)
		if err != nil {
			return nil, err
		}
		username = me.Username
	}
	var out struct {
		Organizations []OrgMembership `json:"organizations"`
	}
	err := c.doJSON(ctx, Request{
		Method: http.MethodGet,
		Path:   "/org/users/" + url.PathEscape(username) + "/orgs",
		Reason: reason.OrgList,
	}, &out)
	if err != nil {
		return nil, err
	}
	return out.Organizations, nil
}

// AddOrganizationMember adds username with role. An empty role is
// RoleMember.
func (c *Client) AddOrganizationMember(ctx context.Context, org, username, role string) (Object, error) {
	if role == "" {
		role = RoleMember
	}
	var out Object
	err := c.doJSON(ctx, Request{
		Method: http.MethodPost,
		Path:   orgPath(org) + "/members",
		JSON:   map[string]string{"username": username, "role": role},
		Reason: reason.OrgMemberAdd,
	}, &out)
	return out, err
}

// RemoveOrganizationMember removes username from org.
func (c *Client) RemoveOrganizationMember(ctx context.Context, org, username string) (Object, error) {
	var out Object
	err := c.doJSON(ctx, Request{
		Method: http.MethodDelete,
		Path:   orgPath(org) + "/members/" + url.PathEscape(username),
		Reason: reason.OrgMemberRemove,
	}, &out)
	return out, err
}

// UpdateOrganizationMember changes username's role in org.
func (c *Client) UpdateOrganizationMember(ctx context.Context, org, username, role string) (Object, error) {
	var out Object
	err := c.doJSON(ctx, Request{
		Method: http.MethodPut,
		Path:   orgPath(org) + "/members/" + url.PathEscape(username),
		JSON:   map[string]string{"role": role},
		Reason: reason.OrgMemberUpdate,
	}, &out)
	return out, err
}

// ListOrganizationMembers lists the members of org.
func (c *Client) ListOrganizationMembers(ctx context.Context, org string) ([]Object, error) {
	var out struct {
		Members []Object `json:"members"`
	}
	err := c.doJSON(ctx, Request{Method: http.MethodGet, Path: orgPath(org) + "/members", Reason: reason.OrgMemberList}, &out)
	if err != nil {
		return nil, err
	}
	return out.Members, nil
}

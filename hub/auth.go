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
	"strconv"

	"dirpx.dev/kohub/reason"
)

// User is the account returned by Whoami.
type User struct {
	ID            int64  `json:"id"`
	Username      string `json:"username"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
	IsActive      bool   `json:"is_active"`
	CreatedAt     string `json:"created_at,omitempty"`
}

// TokenInfo describes an API token. The secret itself is only returned
// once, by CreateToken.
type TokenInfo struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	CreatedAt string `json:"created_at"`
	LastUsed  string `json:"last_used"`
}

// Register creates an account.
func (c *Client) Register(ctx context.Context, username, email, password string) (Object, error) {
	var out Object
	err := c.doJSON(ctx, Request{
		Method: http.MethodPost,
		Path:   "/api/auth/register",
		JSON:   map[string]string{"username": username, "email": email, "password": password},
		Reason: reason.AuthRegister,
	}, &out)
	return out, err
}

// Login opens a session. When the hub returns a token it is not applied
// to the client; callers decide whether to keep it.
func (c *Client) Login(ctx context.Context, username, password string) (Object, error) {
	var out Object
	err := c.doJSON(ctx, Request{
		Method: http.MethodPost,
		Path:   "/api/auth/login",
		JSON:   map[string]string{"username": username, "password": password},
		Reason: reason.AuthLogin,
	}, &out)
	return out, err
}

// Logout closes the current session.
func (c *Client) Logout(ctx context.Context) (Object, error) {
	var out Object
	err := c.doJSON(ctx, Request{Method: http.MethodPost, Path: "/api/auth/logout", Reason: reason.AuthLogout}, &out)
	return out, err
}

// Whoami returns the authenticated user.
func (c *Client) Whoami(ctx context.Context) (User, error) {
	var out User
	err := c.doJSON(ctx, Request{Method: http.MethodGet, Path: "/api/auth/me", Reason: reason.AuthWhoami}, &out)
	return out, err
}

// WhoamiV2 returns the user with organizations, in the HuggingFace
// compatible shape.
func (c *Client) WhoamiV2(ctx context.Context) (Object, error) {
	var out Object
	err := c.doJSON(ctx, Request{Method: http.MethodGet, Path: "/api/whoami-v2", Reason: reason.AuthWhoamiV2}, &out)
	return out, err
}

// CreateToken creates an API token. The result holds the secret under
// "token"; it is not shown again.
func (c *Client) CreateToken(ctx context.Context, name string) (Object, error) {
	var out Object
	err := c.doJSON(ctx, Request{
		Method: http.MethodPost,
		Path:   "/api/auth/tokens/create",
		JSON:   map[string]string{"name": name},
		Reason: reason.AuthTokenCreate,
	}, &out)
	return out, err
}

// ListTokens lists the caller's tokens.
func (c *Client) ListTokens(ctx context.Context) ([]TokenInfo, error) {
	var out struct {
		Tokens []TokenInfo `json:"tokens"`
	}
	if err := c.doJSON(ctx, Request{Method: http.MethodGet, Path: "/api/auth/tokens", Reason: reason.AuthTokenList}, &out); err != nil {
		return nil, err
	}
	return out.Tokens, nil
}

// RevokeToken deletes the token with the given id.
func (c *Client) RevokeToken(ctx context.Context, id int64) (Object, error) {
	var out Object
	err := c.doJSON(ctx, Request{
		Method: http.MethodDelete,
		Path:   "/api/auth/tokens/" + strconv.FormatInt(id, 10),
		Reason: reason.AuthTokenRevoke,
	}, &out)
	return out, err
}

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

package route

import (
	"net/http"

	"dirpx.dev/kohub/reason"
)

// defaultRules covers the hub REST surface. Repository routes are
// /api/{type}s/{namespace}/{name}/..., hence the three wildcards.
var defaultRules = []Rule{
	// Auth and tokens.
	{http.MethodPost, "/api/auth/register", reason.AuthRegister},
	{http.MethodPost, "/api/auth/login", reason.AuthLogin},
	{http.MethodPost, "/api/auth/logout", reason.AuthLogout},
	{http.MethodGet, "/api/auth/me", reason.AuthWhoami},
	{http.MethodGet, "/api/whoami-v2", reason.AuthWhoamiV2},
	{http.MethodPost, "/api/auth/tokens/create", reason.AuthTokenCreate},
	{http.MethodGet, "/api/auth/tokens", reason.AuthTokenList},
	{http.MethodDelete, "/api/auth/tokens/*", reason.AuthTokenRevoke},

	// External (fallback source) tokens.
	{http.MethodGet, "/api/fallback-sources/available", reason.AuthExternalSources},
	{http.MethodGet, "/api/users/*/external-tokens", reason.AuthExternalList},
	{http.MethodPost, "/api/users/*/external-tokens", reason.AuthExternalAdd},
	{http.MethodDelete, "/api/users/*/external-tokens/*", reason.AuthExternalDelete},

	// Users.
	{http.MethodGet, "/api/users/*/repos", reason.UserRepos},
	{http.MethodPut, "/api/users/*/settings", reason.UserSettingsUpdate},

	// Organizations.
	{http.MethodPost, "/org/create", reason.OrgCreate},
	{http.MethodGet, "/org/*", reason.OrgGet},
	{http.MethodGet, "/org/users/*/orgs", reason.OrgList},
	{http.MethodGet, "/org/*/members", reason.OrgMemberList},
	{http.MethodPost, "/org/*/members", reason.OrgMemberAdd},
	{http.MethodPut, "/org/*/members/*", reason.OrgMemberUpdate},
	{http.MethodDelete, "/org/*/members/*", reason.OrgMemberRemove},
	{http.MethodPut, "/api/organizations/*/settings", reason.OrgSettingsUpdate},

	// Repository lifecycle.
	{http.MethodPost, "/api/repos/create", reason.RepoCreate},
	{http.MethodDelete, "/api/repos/delete", reason.RepoDelete},
	{http.MethodPost, "/api/repos/squash", reason.RepoSquash},
	{http.MethodPost, "/api/repos/move", reason.RepoMove},

	// Repository reads and refs.
	{http.MethodGet, "/api/*", reason.RepoList},
	{http.MethodGet, "/api/*/*/*", reason.RepoInfo},
	{http.MethodGet, "/api/*/*/*/tree", reason.RepoTree},
	{http.MethodPut, "/api/*/*/*/settings", reason.RepoSettingsUpdate},
	{http.MethodGet, "/api/*/*/*/settings/lfs", reason.RepoSettingsLFS},
	{http.MethodPost, "/api/*/*/*/branch", reason.RepoBranchCreate},
	{http.MethodDelete, "/api/*/*/*/branch", reason.RepoBranchDelete},
	{http.MethodPost, "/api/*/*/*/tag", reason.RepoTagCreate},
	{http.MethodDelete, "/api/*/*/*/tag", reason.RepoTagDelete},

	// Commits and content.
	{http.MethodGet, "/api/*/*/*/commits", reason.CommitList},
	{http.MethodGet, "/api/*/*/*/commit/*", reason.CommitGet},
	{http.MethodGet, "/api/*/*/*/commit/*/diff", reason.CommitDiff},
	{http.MethodPost, "/api/*/*/*/commit", reason.CommitCreate},
	{http.MethodGet, "/*/*/*/resolve", reason.FileDownload},

	// Probes.
	{http.MethodGet, "/api/version", reason.HubVersion},
}

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

package reason

// Authentication and credentials.
const (
	AuthRegister        Reason = "auth.register"
	AuthLogin           Reason = "auth.login"
	AuthLogout          Reason = "auth.logout"
	AuthWhoami          Reason = "auth.whoami"
	AuthWhoamiV2        Reason = "auth.whoami_v2"
	AuthTokenCreate     Reason = "auth.token.create"
	AuthTokenList       Reason = "auth.token.list"
	AuthTokenRevoke     Reason = "auth.token.revoke"
	AuthExternalSources Reason = "auth.external.sources"
	AuthExternalList    Reason = "auth.external.list"
	AuthExternalAdd     Reason = "auth.external.add"
	AuthExternalDelete  Reason = "auth.external.delete"
)

// Organizations.
const (
	OrgCreate         Reason = "org.create"
	OrgGet            Reason = "org.get"
	OrgList           Reason = "org.list"
	OrgSettingsUpdate Reason = "org.settings.update"
	OrgMemberAdd      Reason = "org.member.add"
	OrgMemberRemove   Reason = "org.member.remove"
	OrgMemberUpdate   Reason = "org.member.update"
	OrgMemberList     Reason = "org.member.list"
)

// Users.
const (
	UserRepos          Reason = "user.repos"
	UserSettingsUpdate Reason = "user.settings.update"
)

// Repositories, refs and repository settings.
const (
	RepoCreate         Reason = "repo.create"
	RepoDelete         Reason = "repo.delete"
	RepoSquash         Reason = "repo.squash"
	RepoMove           Reason = "repo.move"
	RepoInfo           Reason = "repo.info"
	RepoList           Reason = "repo.list"
	RepoTree           Reason = "repo.tree"
	RepoSettingsUpdate Reason = "repo.settings.update"
	RepoSettingsLFS    Reason = "repo.settings.lfs"
	RepoBranchCreate   Reason = "repo.branch.create"
	RepoBranchDelete   Reason = "repo.branch.delete"
	RepoTagCreate      Reason = "repo.tag.create"
	RepoTagDelete      Reason = "repo.tag.delete"
)

// Commits and file content.
const (
	CommitList   Reason = "commit.list"
	CommitGet    Reason = "commit.get"
	CommitDiff   Reason = "commit.diff"
	CommitCreate Reason = "commit.create"
	FileDownload Reason = "file.download"
)

// Service probes.
const (
	HubVersion Reason = "hub.version"
)

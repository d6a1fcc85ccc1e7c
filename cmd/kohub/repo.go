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
	"context"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"

	"dirpx.dev/kohub/hub"
	"dirpx.dev/kohub/reason"
	"dirpx.dev/kohub/transfer"
	"github.com/spf13/cobra"
)

func (a *app) repoCmd() *cobra.Command {
	return group("repo", "Repositories, files and commits",
		a.repoCreateCmd(),
		a.repoDeleteCmd(),
		a.repoInfoCmd(),
		a.repoListCmd(),
		a.repoLsCmd(),
		a.repoFilesCmd(),
		a.repoCommitsCmd(),
		a.repoCommitCmd("commit", "Show a commit", (*hub.Client).GetCommitDetail),
		a.repoCommitCmd("commit-diff", "Show the changes of a commit", (*hub.Client).GetCommitDiff),
		a.repoUploadCmd(),
		a.repoDownloadCmd(),
		a.repoMoveCmd(),
		a.repoSquashCmd(),
		group("branch", "Manage branches", a.branchCreateCmd(), a.branchDeleteCmd()),
		group("tag", "Manage tags", a.tagCreateCmd(), a.tagDeleteCmd()),
		a.lfsCmd(),
		a.repoUpdateCmd(),
	)
}

func (a *app) repoCreateCmd() *cobra.Command {
	var private bool
	cmd := &cobra.Command{
		Use:   "create <namespace/name>",
		Short: "Create a repository",
		Args:  nargs(cobra.ExactArgs(1)),
	}
	repoType := repoTypeFlag(cmd)
	cmd.Flags().BoolVar(&private, "private", false, "make the repository private")
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		c, t, err := a.repoClient(repoType)
		if err != nil {
			return err
		}
		res, err := c.CreateRepo(cmd.Context(), args[0], t, private)
		return a.mutate(string(reason.RepoCreate),
			map[string]any{"repo_id": args[0], "repo_type": t.String(), "private": private},
			res, err, fmt.Sprintf("Created %s %s", t, args[0]))
	}
	return cmd
}

func (a *app) repoDeleteCmd() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "delete <namespace/name>",
		Short: "Delete a repository",
		Args:  nargs(cobra.ExactArgs(1)),
	}
	repoType := repoTypeFlag(cmd)
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "do not ask for confirmation")
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		c, t, err := a.repoClient(repoType)
		if err != nil {
			return err
		}
		if !yes {
			ans, err := a.readLine(fmt.Sprintf("Delete %s %s? This cannot be undone [y/N]: ", t, args[0]))
			if err != nil {
				return err
			}
			if !strings.EqualFold(ans, "y") && !strings.EqualFold(ans, "yes") {
				return usagef("aborted")
			}
		}
		res, err := c.DeleteRepo(cmd.Context(), args[0], t)
		return a.mutate(string(reason.RepoDelete),
			map[string]any{"repo_id": args[0], "repo_type": t.String()},
			res, err, fmt.Sprintf("Deleted %s %s", t, args[0]))
	}
	return cmd
}

func (a *app) repoInfoCmd() *cobra.Command {
	var revision string
	cmd := &cobra.Command{
		Use:   "info <namespace/name>",
		Short: "Show repository metadata",
		Args:  nargs(cobra.ExactArgs(1)),
	}
	repoType := repoTypeFlag(cmd)
	cmd.Flags().StringVar(&revision, "revision", "", "branch, tag or commit")
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		c, t, err := a.repoClient(repoType)
		if err != nil {
			return err
		}
		res, err := c.RepoInfo(cmd.Context(), args[0], t, revision)
		if err != nil {
			return err
		}
		return a.emit(res, "")
	}
	return cmd
}

func (a *app) repoListCmd() *cobra.Command {
	var author string
	var limit int
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List repositories",
		Args:  nargs(cobra.NoArgs),
	}
	repoType := repoTypeFlag(cmd)
	cmd.Flags().StringVar(&author, "author", "", "only repositories of this user or organization")
	cmd.Flags().IntVar(&limit, "limit", 50, "maximum number of repositories")
	cmd.RunE = func(cmd *cobra.Command, _ []string) error {
		c, t, err := a.repoClient(repoType)
		if err != nil {
			return err
		}
		repos, err := c.ListRepos(cmd.Context(), t, author, limit)
		if err != nil {
			return err
		}
		if a.output == outputJSON {
			return a.writeJSON(repos)
		}
		a.printRepos(repos, false)
		return nil
	}
	return cmd
}

func (a *app) repoLsCmd() *cobra.Command {
	var typ string
	cmd := &cobra.Command{
		Use:   "ls <namespace>",
		Short: "List every repository of a user or organization",
		Args:  nargs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			var t hub.RepoType
			if typ != "" {
				var err error
				if t, err = hub.ParseRepoType(typ); err != nil {
					return err
				}
			}
			c, err := a.client()
			if err != nil {
				return err
			}
			repos, err := c.ListNamespaceRepos(cmd.Context(), args[0], t)
			if err != nil {
				return err
			}
			if a.output == outputJSON {
				return a.writeJSON(repos)
			}
			a.printRepos(repos, true)
			return nil
		},
	}
	cmd.Flags().StringVarP(&typ, "type", "t", "", "only this repository type (default: all)")
	return cmd
}

func (a *app) printRepos(repos []hub.Object, withType bool) {
	if len(repos) == 0 {
		fmt.Fprintln(a.out, dimColor("No repositories."))
		return
	}
	for _, r := range repos {
		id, ok := r["id"].(string)
		if !ok {
			id = format(r)
		}
		if withType {
			fmt.Fprintf(a.out, "%s\t%s\n", format(r["repo_type"]), id)
			continue
		}
		fmt.Fprintln(a.out, id)
	}
}

func (a *app) repoFilesCmd() *cobra.Command {
	var revision string
	var recursive bool
	cmd := &cobra.Command{
		Use:   "files <namespace/name> [path]",
		Short: "List files in a repository",
		Args:  nargs(cobra.RangeArgs(1, 2)),
	}
	repoType := repoTypeFlag(cmd)
	cmd.Flags().StringVar(&revision, "revision", "main", "branch, tag or commit")
	cmd.Flags().BoolVarP(&recursive, "recursive", "r", false, "list subdirectories")
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		c, t, err := a.repoClient(repoType)
		if err != nil {
			return err
		}
		var dir string
		if len(args) == 2 {
			dir = args[1]
		}
		entries, err := c.ListRepoTree(cmd.Context(), args[0], t, revision, dir, recursive)
		if err != nil {
			return err
		}
		if a.output == outputJSON {
			return a.writeJSON(entries)
		}
		for _, e := range entries {
			if e.IsDir() {
				fmt.Fprintln(a.out, e.Path+"/")
				continue
			}
			lfs := ""
			if e.LFS != nil {
				lfs = " " + dimColor("[lfs]")
			}
			fmt.Fprintf(a.out, "%s\t%d%s\n", e.Path, e.Size, lfs)
		}
		return nil
	}
	return cmd
}

func (a *app) repoCommitsCmd() *cobra.Command {
	var branch, after string
	var limit int
	cmd := &cobra.Command{
		Use:   "commits <namespace/name>",
		Short: "List commits of a branch",
		Args:  nargs(cobra.ExactArgs(1)),
	}
	repoType := repoTypeFlag(cmd)
	cmd.Flags().StringVar(&branch, "branch", "main", "branch")
	cmd.Flags().IntVar(&limit, "limit", 20, "maximum number of commits")
	cmd.Flags().StringVar(&after, "after", "", "continue after this cursor")
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		c, t, err := a.repoClient(repoType)
		if err != nil {
			return err
		}
		page, err := c.ListCommits(cmd.Context(), args[0], t, branch, limit, after)
		if err != nil {
			return err
		}
		if a.output == outputJSON {
			return a.writeJSON(page)
		}
		for _, cm := range page.Commits {
			oid := cm.OID
			if len(oid) > 8 {
				oid = oid[:8]
			}
			fmt.Fprintf(a.out, "%s\t%s\t%s\t%s\n", hintColor(oid), cm.Date, cm.Author, cm.Summary())
		}
		if page.HasMore {
			fmt.Fprintln(a.out, dimColor("More commits: --after "+page.NextCursor))
		}
		return nil
	}
	return cmd
}

type commitFunc func(c *hub.Client, ctx context.Context, id string, t hub.RepoType, commitID string) (hub.Object, error)

func (a *app) repoCommitCmd(use, short string, get commitFunc) *cobra.Command {
	cmd := &cobra.Command{
		Use:   use + " <namespace/name> <commit-id>",
		Short: short,
		Args:  nargs(cobra.ExactArgs(2)),
	}
	repoType := repoTypeFlag(cmd)
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		c, t, err := a.repoClient(repoType)
		if err != nil {
			return err
		}
		res, err := get(c, cmd.Context(), args[0], t, args[1])
		if err != nil {
			return err
		}
		return a.emit(res, "")
	}
	return cmd
}

func (a *app) repoUploadCmd() *cobra.Command {
	var branch, message string
	cmd := &cobra.Command{
		Use:   "upload <namespace/name> <local-path> [repo-path]",
		Short: "Upload a file or a directory as one commit",
		Args:  nargs(cobra.RangeArgs(2, 3)),
	}
	repoType := repoTypeFlag(cmd)
	cmd.Flags().StringVar(&branch, "branch", "main", "target branch")
	cmd.Flags().StringVarP(&message, "message", "m", "", "commit message")
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		c, t, err := a.repoClient(repoType)
		if err != nil {
			return err
		}
		var dest string
		if len(args) == 3 {
			dest = strings.Trim(args[2], "/")
		}
		files, err := collectUploads(args[1], dest)
		if err != nil {
			return err
		}
		res, err := c.UploadFiles(cmd.Context(), args[0], t, files, branch, message)
		details := map[string]any{"repo_id": args[0], "repo_type": t.String(), "files": len(files), "branch": branch}
		return a.mutate(string(reason.CommitCreate), details, res, err,
			fmt.Sprintf("Uploaded %d file(s) to %s", len(files), args[0]))
	}
	return cmd
}

// collectUploads maps local onto repository paths under dest. A directory
// is walked; hidden files and caches are left out.
func collectUploads(local, dest string) ([]hub.FileUpload, error) {
	info, err := os.Stat(local)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		if dest == "" {
			dest = filepath.Base(local)
		}
		return []hub.FileUpload{{LocalPath: local, RepoPath: dest}}, nil
	}

	var skip transfer.Skipper
	var files []hub.FileUpload
	err = filepath.WalkDir(local, func(p string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		rel, err := filepath.Rel(local, p)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		if skip.Skip(rel) {
			return nil
		}
		files = append(files, hub.FileUpload{LocalPath: p, RepoPath: path.Join(dest, rel)})
		return nil
	})
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("%s: %w", local, hub.ErrNoFiles)
	}
	return files, nil
}

func (a *app) repoDownloadCmd() *cobra.Command {
	var revision string
	cmd := &cobra.Command{
		Use:   "download <namespace/name> <repo-path> [local-path]",
		Short: "Download a file",
		Args:  nargs(cobra.RangeArgs(2, 3)),
	}
	repoType := repoTypeFlag(cmd)
	cmd.Flags().StringVar(&revision, "revision", "main", "branch, tag or commit")
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		c, t, err := a.repoClient(repoType)
		if err != nil {
			return err
		}
		local := path.Base(args[1])
		if len(args) == 3 {
			local = args[2]
		}
		saved, err := c.DownloadFile(cmd.Context(), args[0], t, args[1], local, revision)
		if err != nil {
			return err
		}
		return a.emit(map[string]any{"repo_id": args[0], "path": args[1], "local_path": saved}, "Downloaded "+args[1]+" to "+saved)
	}
	return cmd
}

func (a *app) repoMoveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "move <from> <to>",
		Short: "Rename or move a repository",
		Args:  nargs(cobra.ExactArgs(2)),
	}
	repoType := repoTypeFlag(cmd)
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		c, t, err := a.repoClient(repoType)
		if err != nil {
			return err
		}
		res, err := c.MoveRepo(cmd.Context(), args[0], args[1], t)
		return a.mutate(string(reason.RepoMove),
			map[string]any{"from": args[0], "to": args[1], "repo_type": t.String()},
			res, err, fmt.Sprintf("Moved %s to %s", args[0], args[1]))
	}
	return cmd
}

func (a *app) repoSquashCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "squash <namespace/name>",
		Short: "Drop the commit history, keeping the current files",
		Args:  nargs(cobra.ExactArgs(1)),
	}
	repoType := repoTypeFlag(cmd)
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		c, t, err := a.repoClient(repoType)
		if err != nil {
			return err
		}
		res, err := c.SquashRepo(cmd.Context(), args[0], t)
		return a.mutate(string(reason.RepoSquash),
			map[string]any{"repo_id": args[0], "repo_type": t.String()},
			res, err, "Squashed "+args[0])
	}
	return cmd
}

func (a *app) branchCreateCmd() *cobra.Command {
	var revision string
	cmd := &cobra.Command{
		Use:   "create <namespace/name> <branch>",
		Short: "Create a branch",
		Args:  nargs(cobra.ExactArgs(2)),
	}
	repoType := repoTypeFlag(cmd)
	cmd.Flags().StringVar(&revision, "revision", "", "start point (default: main)")
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		c, t, err := a.repoClient(repoType)
		if err != nil {
			return err
		}
		res, err := c.CreateBranch(cmd.Context(), args[0], t, args[1], revision)
		return a.mutate(string(reason.RepoBranchCreate),
			map[string]any{"repo_id": args[0], "branch": args[1]},
			res, err, fmt.Sprintf("Created branch %s in %s", args[1], args[0]))
	}
	return cmd
}

func (a *app) branchDeleteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete <namespace/name> <branch>",
		Short: "Delete a branch",
		Args:  nargs(cobra.ExactArgs(2)),
	}
	repoType := repoTypeFlag(cmd)
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		c, t, err := a.repoClient(repoType)
		if err != nil {
			return err
		}
		res, err := c.DeleteBranch(cmd.Context(), args[0], t, args[1])
		return a.mutate(string(reason.RepoBranchDelete),
			map[string]any{"repo_id": args[0], "branch": args[1]},
			res, err, fmt.Sprintf("Deleted branch %s in %s", args[1], args[0]))
	}
	return cmd
}

func (a *app) tagCreateCmd() *cobra.Command {
	var revision, message string
	cmd := &cobra.Command{
		Use:   "create <namespace/name> <tag>",
		Short: "Create a tag",
		Args:  nargs(cobra.ExactArgs(2)),
	}
	repoType := repoTypeFlag(cmd)
	cmd.Flags().StringVar(&revision, "revision", "", "tagged revision (default: main)")
	cmd.Flags().StringVarP(&message, "message", "m", "", "tag message")
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		c, t, err := a.repoClient(repoType)
		if err != nil {
			return err
		}
		res, err := c.CreateTag(cmd.Context(), args[0], t, args[1], revision, message)
		return a.mutate(string(reason.RepoTagCreate),
			map[string]any{"repo_id": args[0], "tag": args[1]},
			res, err, fmt.Sprintf("Created tag %s in %s", args[1], args[0]))
	}
	return cmd
}

func (a *app) tagDeleteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete <namespace/name> <tag>",
		Short: "Delete a tag",
		Args:  nargs(cobra.ExactArgs(2)),
	}
	repoType := repoTypeFlag(cmd)
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		c, t, err := a.repoClient(repoType)
		if err != nil {
			return err
		}
		res, err := c.DeleteTag(cmd.Context(), args[0], t, args[1])
		return a.mutate(string(reason.RepoTagDelete),
			map[string]any{"repo_id": args[0], "tag": args[1]},
			res, err, fmt.Sprintf("Deleted tag %s in %s", args[1], args[0]))
	}
	return cmd
}

func (a *app) repoUpdateCmd() *cobra.Command {
	var private, public bool
	var gated string
	cmd := &cobra.Command{
		Use:   "update <namespace/name>",
		Short: "Change repository visibility or gating",
		Args:  nargs(cobra.ExactArgs(1)),
	}
	repoType := repoTypeFlag(cmd)
	cmd.Flags().BoolVar(&private, "private", false, "make the repository private")
	cmd.Flags().BoolVar(&public, "public", false, "make the repository public")
	cmd.Flags().StringVar(&gated, "gated", "", "access gating: auto, manual or off")
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		var s hub.RepoSettings
		switch {
		case private && public:
			return usagef("--private and --public are exclusive")
		case private || public:
			s.Private = &private
		}
		if cmd.Flags().Changed("gated") {
			g := gated
			switch g {
			case "auto", "manual":
			case "off", "":
				g = ""
			default:
				return usagef("--gated must be auto, manual or off, got %q", gated)
			}
			s.Gated = &g
		}
		if s.Private == nil && s.Gated == nil {
			return usagef("nothing to update: pass --private, --public or --gated")
		}
		c, t, err := a.repoClient(repoType)
		if err != nil {
			return err
		}
		res, err := c.UpdateRepoSettings(cmd.Context(), args[0], t, s)
		return a.mutate(string(reason.RepoSettingsUpdate), map[string]any{"repo_id": args[0]}, res, err, "Updated settings of "+args[0])
	}
	return cmd
}

// repoClient resolves the client and the --type flag.
func (a *app) repoClient(repoType func() (hub.RepoType, error)) (*hub.Client, hub.RepoType, error) {
	t, err := repoType()
	if err != nil {
		return nil, "", err
	}
	c, err := a.client()
	if err != nil {
		return nil, "", err
	}
	return c, t, nil
}

// mergeRules applies add then remove to current, keeping order.
func mergeRules(current, add, remove []string) []string {
	out := slices.Clone(current)
	for _, s := range add {
		if !slices.Contains(out, s) {
			out = append(out, s)
		}
	}
	return slices.DeleteFunc(out, func(s string) bool { return slices.Contains(remove, s) })
}

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
	"strings"

	"dirpx.dev/kohub/hub"
	"dirpx.dev/kohub/reason"
	"github.com/spf13/cobra"
)

const (
	minLFSThreshold    = 1_000_000
	minLFSKeepVersions = 2
)

func (a *app) lfsCmd() *cobra.Command {
	return group("lfs", "Repository LFS settings",
		a.lfsGetCmd(),
		a.lfsThresholdCmd(),
		a.lfsVersionsCmd(),
		a.lfsSuffixCmd(),
	)
}

func (a *app) lfsGetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "get <namespace/name>",
		Short: "Show LFS settings",
		Args:  nargs(cobra.ExactArgs(1)),
	}
	repoType := repoTypeFlag(cmd)
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		c, t, err := a.repoClient(repoType)
		if err != nil {
			return err
		}
		s, err := c.GetRepoLFSSettings(cmd.Context(), args[0], t)
		if err != nil {
			return err
		}
		if a.output == outputJSON {
			return a.writeJSON(s)
		}
		threshold := "server default"
		if s.ThresholdBytes != nil {
			threshold = megabytes(*s.ThresholdBytes)
		}
		versions := "server default"
		if s.KeepVersions != nil {
			versions = fmt.Sprintf("%d versions", *s.KeepVersions)
		}
		suffixes := "none"
		if len(s.SuffixRulesEffective) > 0 {
			suffixes = strings.Join(s.SuffixRulesEffective, ", ")
		}
		fmt.Fprintln(a.out, labelColor("LFS threshold"))
		fmt.Fprintf(a.out, "  Configured:  %s\n", threshold)
		fmt.Fprintf(a.out, "  Effective:   %s %s\n", megabytes(s.ThresholdBytesEffective), dimColor("("+s.ThresholdBytesSource+")"))
		fmt.Fprintln(a.out, labelColor("Keep versions"))
		fmt.Fprintf(a.out, "  Configured:  %s\n", versions)
		fmt.Fprintf(a.out, "  Effective:   %d versions %s\n", s.KeepVersionsEffective, dimColor("("+s.KeepVersionsSource+")"))
		fmt.Fprintln(a.out, labelColor("Suffix rules"))
		fmt.Fprintf(a.out, "  Active:      %s\n", suffixes)
		fmt.Fprintln(a.out, labelColor("Server defaults"))
		fmt.Fprintf(a.out, "  Threshold:   %s\n", megabytes(s.ServerDefaults.ThresholdBytes))
		fmt.Fprintf(a.out, "  Keep Versions: %d versions\n", s.ServerDefaults.KeepVersions)
		return nil
	}
	return cmd
}

func megabytes(b int64) string {
	return fmt.Sprintf("%.1f MB", float64(b)/(1000*1000))
}

func (a *app) lfsThresholdCmd() *cobra.Command {
	var threshold int64
	var reset bool
	cmd := &cobra.Command{
		Use:   "threshold <namespace/name>",
		Short: "Set the size above which files go to LFS",
		Args:  nargs(cobra.ExactArgs(1)),
	}
	repoType := repoTypeFlag(cmd)
	cmd.Flags().Int64Var(&threshold, "threshold", 0, "threshold in bytes (minimum 1000000)")
	cmd.Flags().BoolVar(&reset, "reset", false, "use the server default")
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		var s hub.RepoSettings
		var msg string
		switch {
		case reset:
			s.LFSThresholdBytes = hub.Reset[int64]()
			msg = "LFS threshold reset to server default for " + args[0]
		case !cmd.Flags().Changed("threshold"):
			return usagef("must specify either --threshold or --reset")
		case threshold < minLFSThreshold:
			return usagef("threshold must be at least %d bytes (1 MB)", minLFSThreshold)
		default:
			s.LFSThresholdBytes = hub.Set(threshold)
			msg = fmt.Sprintf("LFS threshold set to %d bytes for %s", threshold, args[0])
		}
		return a.updateLFS(cmd, repoType, args[0], s, msg)
	}
	return cmd
}

func (a *app) lfsVersionsCmd() *cobra.Command {
	var count int
	var reset bool
	cmd := &cobra.Command{
		Use:   "versions <namespace/name>",
		Short: "Set how many versions of each LFS file are kept",
		Args:  nargs(cobra.ExactArgs(1)),
	}
	repoType := repoTypeFlag(cmd)
	cmd.Flags().IntVar(&count, "count", 0, "number of versions to keep (minimum 2)")
	cmd.Flags().BoolVar(&reset, "reset", false, "use the server default")
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		var s hub.RepoSettings
		var msg string
		switch {
		case reset:
			s.LFSKeepVersions = hub.Reset[int]()
			msg = "LFS keep versions reset to server default for " + args[0]
		case !cmd.Flags().Changed("count"):
			return usagef("must specify either --count or --reset")
		case count < minLFSKeepVersions:
			return usagef("keep versions must be at least %d", minLFSKeepVersions)
		default:
			s.LFSKeepVersions = hub.Set(count)
			msg = fmt.Sprintf("LFS keep versions set to %d for %s", count, args[0])
		}
		return a.updateLFS(cmd, repoType, args[0], s, msg)
	}
	return cmd
}

func (a *app) lfsSuffixCmd() *cobra.Command {
	var add, remove, set []string
	var clearAll bool
	cmd := &cobra.Command{
		Use:   "suffix <namespace/name>",
		Short: "Manage the file suffixes always stored in LFS",
		Args:  nargs(cobra.ExactArgs(1)),
	}
	repoType := repoTypeFlag(cmd)
	cmd.Flags().StringArrayVar(&add, "add", nil, "add a suffix rule, e.g. .safetensors")
	cmd.Flags().StringArrayVar(&remove, "remove", nil, "remove a suffix rule")
	cmd.Flags().StringArrayVar(&set, "set", nil, "replace all rules")
	cmd.Flags().BoolVar(&clearAll, "clear", false, "remove every rule")
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		for _, s := range append(append([]string(nil), add...), set...) {
			if !strings.HasPrefix(s, ".") {
				return usagef("suffix must start with '.', got: %s", s)
			}
		}
		var rules []string
		var msg string
		switch {
		case clearAll:
			rules = []string{}
			msg = "Cleared all LFS suffix rules for " + args[0]
		case len(set) > 0:
			rules = set
			msg = fmt.Sprintf("Set LFS suffix rules for %s: %s", args[0], strings.Join(set, ", "))
		case len(add) > 0 || len(remove) > 0:
			c, t, err := a.repoClient(repoType)
			if err != nil {
				return err
			}
			cur, err := c.GetRepoLFSSettings(cmd.Context(), args[0], t)
			if err != nil {
				return err
			}
			rules = mergeRules(cur.SuffixRules, add, remove)
			shown := "none"
			if len(rules) > 0 {
				shown = strings.Join(rules, ", ")
			}
			msg = fmt.Sprintf("Updated LFS suffix rules for %s: %s", args[0], shown)
		default:
			return usagef("must specify one of: --add, --remove, --set or --clear")
		}
		return a.updateLFS(cmd, repoType, args[0], hub.RepoSettings{LFSSuffixRules: hub.Set(rules)}, msg)
	}
	return cmd
}

func (a *app) updateLFS(cmd *cobra.Command, repoType func() (hub.RepoType, error), id string, s hub.RepoSettings, msg string) error {
	c, t, err := a.repoClient(repoType)
	if err != nil {
		return err
	}
	res, err := c.UpdateRepoSettings(cmd.Context(), id, t, s)
	return a.mutate(string(reason.RepoSettingsUpdate), map[string]any{"repo_id": id, "repo_type": t.String()}, res, err, msg)
}

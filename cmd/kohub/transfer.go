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
	"dirpx.dev/kohub/transfer"
	"github.com/spf13/cobra"
)

// transferEndpoints are the resolved hubs and tokens of one transfer.
type transferEndpoints struct {
	src, target           string
	srcToken, targetToken string
}

// resolveTransfer picks endpoints and tokens: an explicit --src-token or
// --target-token wins, then --hf-token for the HuggingFace Hub, then the
// current token.
func resolveTransfer(current, token, srcEndpoint, targetEndpoint, srcToken, targetToken, hfToken string) transferEndpoints {
	e := transferEndpoints{
		src:    transfer.ResolveEndpoint(srcEndpoint),
		target: transfer.ResolveEndpoint(targetEndpoint),
	}
	if e.src == "" {
		e.src = current
	}
	if e.target == "" {
		e.target = current
	}
	pick := func(explicit, endpoint string) string {
		switch {
		case explicit != "":
			return explicit
		case transfer.IsHuggingFace(endpoint):
			return hfToken
		default:
			return token
		}
	}
	e.srcToken = pick(srcToken, e.src)
	e.targetToken = pick(targetToken, e.target)
	return e
}

// hubFor returns the current client when it already talks to endpoint
// with token.
func (a *app) hubFor(endpoint, token string) (*hub.Client, error) {
	cur, err := a.client()
	if err != nil {
		return nil, err
	}
	if endpoint == cur.Endpoint() && token == cur.Session().Token() {
		return cur, nil
	}
	c, err := hub.New(endpoint, hub.WithToken(token), hub.WithLogger(a.log))
	if err != nil {
		return nil, usageError{err}
	}
	return c, nil
}

func (a *app) transferCmd() *cobra.Command {
	var (
		opts                      transfer.Options
		typ                       string
		srcEndpoint, targetURL    string
		srcToken, targetToken, hf string
	)
	cmd := &cobra.Command{
		Use:   "transfer <source-repo> <dest-repo>",
		Short: "Copy a repository between hubs",
		Long: `Copy a repository between hubs.

The source defaults to the HuggingFace Hub ("hf") and the target to the
current hub. Either side may be "hf" or the URL of any hub.`,
		Example: `  kohub transfer deepseek-ai/DeepSeek-OCR alice/DeepSeek-OCR
  kohub transfer squad_v2/squad_v2 alice/squad_v2 --type dataset --hf-token $HF_READ_TOKEN
  kohub transfer alice/bert alice/bert --src-endpoint https://hub-a --target-endpoint https://hub-b --target-token $TOKEN_B
  kohub transfer alice/data alice/data-copy --src-endpoint https://hub-a --skip '*.parquet' --dry-run`,
		Args: nargs(cobra.ExactArgs(2)),
		RunE: func(cmd *cobra.Command, args []string) error {
			if typ != "" {
				t, err := hub.ParseRepoType(typ)
				if err != nil {
					return err
				}
				opts.Type = t
			}
			cur, err := a.client()
			if err != nil {
				return err
			}
			e := resolveTransfer(cur.Endpoint(), cur.Session().Token(), srcEndpoint, targetURL, srcToken, targetToken, hf)
			src, err := a.hubFor(e.src, e.srcToken)
			if err != nil {
				return err
			}
			dst, err := a.hubFor(e.target, e.targetToken)
			if err != nil {
				return err
			}
			if transfer.IsHuggingFace(e.src) {
				opts.Fetcher = transfer.HFFetcher{Token: e.srcToken}
			}

			opts.Source, opts.Dest = args[0], args[1]
			opts.Log = a.log
			res, err := transfer.Run(cmd.Context(), src, dst, opts)
			details := map[string]any{
				"source":  src.Endpoint() + "/" + opts.Source,
				"dest":    dst.Endpoint() + "/" + opts.Dest,
				"files":   len(res.Transferred),
				"skipped": len(res.Skipped),
				"dry_run": opts.DryRun,
			}
			if !opts.DryRun || err != nil {
				a.record("transfer", details, err)
			}
			if err != nil {
				return err
			}
			if a.output == outputJSON {
				return a.writeJSON(res)
			}
			if opts.DryRun {
				fmt.Fprintf(a.out, "%s %d file(s) from %s to %s\n", labelColor("Would transfer"), len(res.Transferred), hubName(src)+"/"+res.Source, hubName(dst)+"/"+res.Dest)
				for _, p := range res.Transferred {
					fmt.Fprintln(a.out, "  "+p)
				}
			} else {
				a.success(fmt.Sprintf("Transferred %d file(s) from %s to %s", len(res.Transferred), hubName(src)+"/"+res.Source, hubName(dst)+"/"+res.Dest))
				if res.Created {
					fmt.Fprintf(a.out, "Created %s %s\n", res.Type, res.Dest)
				}
			}
			if len(res.Skipped) > 0 {
				fmt.Fprintln(a.out, dimColor(fmt.Sprintf("Skipped %d file(s)", len(res.Skipped))))
			}
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVarP(&typ, "type", "t", "", "repository type (default: detect model or dataset)")
	f.StringVar(&opts.Revision, "revision", "main", "source revision")
	f.StringVar(&opts.Branch, "branch", "main", "destination branch")
	f.StringVar(&srcEndpoint, "src-endpoint", "hf", `source hub: "hf" or a hub URL`)
	f.StringVar(&targetURL, "target-endpoint", "", `target hub: "hf" or a hub URL (default: the current hub)`)
	f.StringVar(&srcToken, "src-token", "", "token for the source hub")
	f.StringVar(&targetToken, "target-token", "", "token for the target hub")
	f.StringVar(&hf, "hf-token", "", "token for the HuggingFace Hub, on whichever side it is")
	f.BoolVar(&opts.Private, "private", false, "create the destination as private")
	f.BoolVar(&opts.Force, "force", false, "push into an existing destination repository")
	f.StringVarP(&opts.Message, "message", "m", "", "commit message")
	f.StringArrayVar(&opts.Skip.Globs, "skip", nil, "skip paths matching this glob, repeatable")
	f.BoolVar(&opts.Skip.ExcludeLFS, "exclude-lfs", false, "leave out large binary formats (.bin, .safetensors, ...)")
	f.BoolVar(&opts.DryRun, "dry-run", false, "list what would be copied")
	return cmd
}

func hubName(c *hub.Client) string {
	if transfer.IsHuggingFace(c.Endpoint()) {
		return "hf"
	}
	return c.Endpoint()
}

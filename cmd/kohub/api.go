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
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"strings"

	"dirpx.dev/kohub"
	"dirpx.dev/kohub/hub"
	"dirpx.dev/kohub/kind"
	"github.com/spf13/cobra"
)

func (a *app) apiCmd() *cobra.Command {
	var data string
	var query []string
	var explain bool
	cmd := &cobra.Command{
		Use:   "api <METHOD> <PATH>",
		Short: "Send a raw request to the hub",
		Example: `  kohub api GET /api/auth/me
  kohub api POST /api/repos/create --data '{"type":"model","name":"bert"}'
  kohub api GET /api/models -q author=alice -q limit=5 --explain`,
		Args: nargs(cobra.ExactArgs(2)),
		RunE: func(cmd *cobra.Command, args []string) error {
			method, p := strings.ToUpper(args[0]), args[1]
			if !strings.HasPrefix(p, "/") {
				p = "/" + p
			}
			req := hub.Request{Method: method, Path: p}
			if data != "" {
				if !json.Valid([]byte(data)) {
					return usagef("--data is not valid JSON")
				}
				req.Body = []byte(data)
				req.ContentType = "application/json"
			}
			if len(query) > 0 {
				req.Query = url.Values{}
				for _, kv := range query {
					k, v, ok := strings.Cut(kv, "=")
					if !ok || k == "" {
						return usagef("query must be key=value, got %q", kv)
					}
					req.Query.Add(k, v)
				}
			}

			c, err := a.client()
			if err != nil {
				return err
			}
			if explain {
				fmt.Fprintln(a.errOut, dimColor("route: "+c.Routes().Explain(method, p)))
			}
			resp, err := c.Execute(cmd.Context(), req)
			if err != nil {
				if e, ok := kohub.As(err); ok && explain && e.StatusCode != 0 {
					fmt.Fprintln(a.errOut, dimColor("classify: "+c.Classifier().Explain(e.StatusCode, e.Message)))
				}
				return err
			}
			defer resp.Body.Close()
			body, err := io.ReadAll(resp.Body)
			if err != nil {
				return kohub.E(kind.Network, "Network request failed: "+err.Error(), kohub.WithCauseOption(err))
			}
			var v any
			if json.Unmarshal(body, &v) == nil {
				return a.writeJSON(v)
			}
			_, err = a.out.Write(body)
			return err
		},
	}
	cmd.Flags().StringVarP(&data, "data", "d", "", "JSON request body")
	cmd.Flags().StringArrayVarP(&query, "query", "q", nil, "query parameter key=value, repeatable")
	cmd.Flags().BoolVar(&explain, "explain", false, "print how the request and any error are classified")
	return cmd
}

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
	"github.com/spf13/cobra"
)

func (a *app) healthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check that the hub answers and the token is accepted",
		Args:  nargs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := a.client()
			if err != nil {
				return err
			}
			h := c.HealthCheck(cmd.Context())
			if a.output == outputJSON {
				return a.writeJSON(h)
			}
			status := successColor(h.API.Status)
			if h.API.Status != hub.StatusHealthy {
				status = errorColor(h.API.Status)
			}
			a.field("Endpoint", h.API.Endpoint)
			fmt.Fprintf(a.out, "%s %s\n", labelColor("API:"), status)
			if h.API.Error != "" {
				a.field("Error", h.API.Error)
			}
			if h.API.Status == hub.StatusHealthy {
				a.field("Site", h.API.SiteName)
				a.field("Version", h.API.Version)
			}
			if h.Authenticated && h.User != nil {
				a.field("Authenticated", "yes, as "+*h.User)
			} else {
				a.field("Authenticated", "no")
			}
			return nil
		},
	}
}

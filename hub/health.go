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
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"dirpx.dev/kohub"
	"dirpx.dev/kohub/reason"
)

// HealthTimeout bounds the version probe of HealthCheck.
const HealthTimeout = 5 * time.Second

// API status values reported by HealthCheck besides "error (HTTP n)".
const (
	StatusHealthy     = "healthy"
	StatusUnreachable = "unreachable"
)

// APIHealth is the result of probing /api/version.
type APIHealth struct {
	Status   string `json:"status"`
	Endpoint string `json:"endpoint"`
	Version  string `json:"version,omitempty"`
	SiteName string `json:"site_name,omitempty"`
	API      string `json:"api,omitempty"`
	Error    string `json:"error,omitempty"`
}

// Health reports whether the hub answers and whether the client's token
// is accepted.
type Health struct {
	API           APIHealth `json:"api"`
	Authenticated bool      `json:"authenticated"`
	// User is the authenticated username, nil when anonymous.
	User *string `json:"user"`
}

// HealthCheck probes the hub. It never fails: every problem is folded
// into the report.
func (c *Client) HealthCheck(ctx context.Context) Health {
	h := Health{API: APIHealth{Status: "unknown", Endpoint: c.Endpoint()}}

	pctx, cancel := context.WithTimeout(ctx, HealthTimeout)
	defer cancel()
	resp, err := c.Execute(pctx, Request{Method: http.MethodGet, Path: "/api/version", Reason: reason.HubVersion})
	switch {
	case err == nil:
		var data Object
		// A body that is not a JSON object leaves every field at its default.
		_ = json.NewDecoder(resp.Body).Decode(&data)
		_ = resp.Body.Close()
		h.API.Status = StatusHealthy
		h.API.Version = field(data, "version", "unknown")
		h.API.SiteName = field(data, "name", "KohakuHub")
		h.API.API = field(data, "api", "kohakuhub")
	default:
		if status, ok := kohub.StatusOf(err); ok {
			h.API.Status = fmt.Sprintf("error (HTTP %d)", status)
		} else {
			h.API.Status = StatusUnreachable
			h.API.Error = causeText(err)
		}
	}

	me, err := c.Whoami(ctx)
	if err != nil {
		c.ignored.Report(string(reason.AuthWhoami), err)
		return h
	}
	h.Authenticated = true
	h.User = &me.Username
	return h
}

func field(m Object, key, def string) string {
	v, ok := m[key]
	if !ok || v == nil {
		return def
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

// causeText is the transport error text of err without the
// "Network request failed" prefix.
func causeText(err error) string {
	if e, ok := kohub.As(err); ok && e.Cause != nil {
		return e.Cause.Error()
	}
	return err.Error()
}

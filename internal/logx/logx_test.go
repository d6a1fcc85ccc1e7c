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

package logx

import (
	"bytes"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestLevel(t *testing.T) {
	tests := []struct {
		env     string
		verbose bool
		want    zapcore.Level
		wantErr bool
	}{
		{"", false, zapcore.WarnLevel, false},
		{"", true, zapcore.DebugLevel, false},
		{"info", false, zapcore.InfoLevel, false},
		{"ERROR", false, zapcore.ErrorLevel, false},
		{"error", true, zapcore.DebugLevel, false},
		{"loud", false, zapcore.WarnLevel, true},
	}
	for _, tt := range tests {
		got, err := Level(tt.env, tt.verbose)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Fatalf("Level(%q, %v) = %v, %v", tt.env, tt.verbose, got, err)
		}
	}
}

func TestNewWriter_FiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	log := NewWriter(&buf, zapcore.WarnLevel)
	log.Debug("hidden")
	log.Warn("shown", zap.String("op", "repo.create"))
	_ = log.Sync()

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("debug entry written at warn level: %q", out)
	}
	if !strings.Contains(out, "shown") || !strings.Contains(out, `"op": "repo.create"`) {
		t.Fatalf("output = %q", out)
	}
}

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

// Package logx builds the CLI's diagnostic logger.
//
// Logs go to stderr in zap's console format so they never mix with
// command output on stdout.
package logx

import (
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// DefaultLevel is used when neither --verbose nor KOHUB_LOG_LEVEL is set.
const DefaultLevel = zapcore.WarnLevel

// Level picks the log level: debug when verbose, else envLevel when it
// is set, else DefaultLevel.
func Level(envLevel string, verbose bool) (zapcore.Level, error) {
	if verbose {
		return zapcore.DebugLevel, nil
	}
	envLevel = strings.TrimSpace(envLevel)
	if envLevel == "" {
		return DefaultLevel, nil
	}
	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(strings.ToLower(envLevel))); err != nil {
		return DefaultLevel, fmt.Errorf("logx: invalid level %q: %w", envLevel, err)
	}
	return lvl, nil
}

// New returns a console logger on stderr at lvl.
func New(lvl zapcore.Level) *zap.Logger {
	return NewWriter(os.Stderr, lvl)
}

// NewWriter returns a console logger writing to w at lvl.
func NewWriter(w io.Writer, lvl zapcore.Level) *zap.Logger {
	enc := zap.NewDevelopmentEncoderConfig()
	enc.EncodeTime = zapcore.ISO8601TimeEncoder
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(enc), zapcore.AddSync(w), lvl)
	return zap.New(core)
}

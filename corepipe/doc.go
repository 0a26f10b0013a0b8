// Copyright 2025 The Rivaas Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package corepipe holds the Request and Response views handlers see:
// copyable handles over reactor-owned state, safe to hold past the
// lifetime of the stream that created them.
package corepipe

import (
	"io"
	"log/slog"
)

var noopLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

// NoopLogger returns the package's default discard logger, used when a
// Request or Response is constructed without one.
func NoopLogger() *slog.Logger {
	return noopLogger
}

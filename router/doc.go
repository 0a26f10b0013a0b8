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

// Package router implements a per-method trie of path segments with
// static and named-wildcard children, plus a composable middleware
// chain. Static children always shadow a wildcard child at the same
// level, so "/users/profile" takes priority over "/users/:id".
package router

import (
	"io"
	"log/slog"
)

var noopLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

// NoopLogger returns the package's default discard logger, used by an
// Observer when no observability is configured.
func NoopLogger() *slog.Logger {
	return noopLogger
}

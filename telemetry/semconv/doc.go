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

// Package semconv names the structured-log attribute keys reactorcore
// uses for service metadata, per-request HTTP attributes, and trace
// correlation, so every caller writing these fields spells them the
// same way. Trimmed to the subset reactorcore's logging and
// middleware/accesslog packages actually attach; see logs.go for where
// each constant is used.
package semconv

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

package router

import "time"

// ObservabilityRecorder receives dispatch-lifecycle events so that the
// tracing and metrics packages can be wired in without this package
// importing either. A nil Recorder option leaves the noop default in
// place (see NoopRecorder).
type ObservabilityRecorder interface {
	// OnMatch fires once routing succeeds, before middleware runs.
	OnMatch(method, routeTemplate, path string)
	// OnNotFound fires when no route matches method+path.
	OnNotFound(method, path string)
	// OnDispatched fires after the full middleware chain and terminal
	// handler (if reached) have returned, with the wall-clock duration.
	OnDispatched(method, routeTemplate string, d time.Duration)
}

type noopRecorder struct{}

func (noopRecorder) OnMatch(string, string, string)          {}
func (noopRecorder) OnNotFound(string, string)               {}
func (noopRecorder) OnDispatched(string, string, time.Duration) {}

// NoopRecorder is the default ObservabilityRecorder: every hook is a no-op.
func NoopRecorder() ObservabilityRecorder { return noopRecorder{} }

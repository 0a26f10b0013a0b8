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

// Package overload wires a loadshed.Policy into the middleware chain:
// it acquires a Guard before running the rest of the chain and
// attaches it to the response so it is released exactly once when the
// response's owning Handle is destroyed, even if the handler itself
// never calls Release. A saturated policy sheds the request with 503
// instead of running it at all.
package overload

import (
	"github.com/rivaas-dev/reactorcore/corepipe"
	"github.com/rivaas-dev/reactorcore/loadshed"
	"github.com/rivaas-dev/reactorcore/router"
)

// New returns a middleware that sheds load once policy is saturated.
func New(policy *loadshed.Policy) router.Middleware {
	return func(req corepipe.Request, resp corepipe.Response, next func()) {
		guard, err := policy.Acquire()
		if err != nil {
			resp.SetStatus(503)
			resp.SetHeader("Content-Type", "application/problem+json")
			_, _ = resp.Write([]byte(`{"title":"Service Overloaded","status":503,"code":"OVERLOAD"}`))
			resp.Close()
			return
		}
		resp.AttachScoped(guard)
		next()
	}
}

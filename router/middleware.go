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

import "github.com/rivaas-dev/reactorcore/corepipe"

// Middleware receives the request/response pair plus an explicit next
// continuation. Calling next advances the chain; a middleware that
// does not call next short-circuits and must itself close the
// response. This is modeled as an explicit closure rather than
// coroutine machinery, since the chain is short and stack-bounded.
type Middleware func(req corepipe.Request, resp corepipe.Response, next func())

// chain composes middlewares and a terminal handler into a single
// entry point. The terminal handler runs after the last middleware if
// and only if next was called through the entire chain.
func chain(middlewares []Middleware, terminal HandlerFunc) func(corepipe.Request, corepipe.Response) {
	return func(req corepipe.Request, resp corepipe.Response) {
		var dispatch func(i int)
		dispatch = func(i int) {
			if i >= len(middlewares) {
				terminal(req, resp)
				return
			}
			middlewares[i](req, resp, func() { dispatch(i + 1) })
		}
		dispatch(0)
	}
}

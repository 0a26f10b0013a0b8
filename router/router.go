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

import (
	"log/slog"
	"time"

	"github.com/rivaas-dev/reactorcore/corepipe"
)

// Option configures a Router at construction, following the
// functional-option idiom used throughout this module's sibling
// packages.
type Option func(*Router)

// WithObservabilityRecorder wires route-match/not-found/dispatch hooks.
func WithObservabilityRecorder(rec ObservabilityRecorder) Option {
	return func(r *Router) {
		if rec != nil {
			r.recorder = rec
		}
	}
}

// WithLogger sets the logger used for the router's own diagnostics
// (e.g. the 404 fallback does not log by itself, but future hooks may).
func WithLogger(logger *slog.Logger) Option {
	return func(r *Router) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// Router is a per-method trie of path segments with static and
// named-wildcard children, plus a global middleware chain applied to
// every matched route.
type Router struct {
	roots       map[string]*node
	middlewares []Middleware
	recorder    ObservabilityRecorder
	logger      *slog.Logger
}

// New constructs an empty Router.
func New(opts ...Option) *Router {
	r := &Router{
		roots:    make(map[string]*node),
		recorder: NoopRecorder(),
		logger:   NoopLogger(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Use appends a middleware to the global chain, in registration order.
func (r *Router) Use(mw Middleware) {
	r.middlewares = append(r.middlewares, mw)
}

// Handle registers handler for method+routeTemplate. routeTemplate
// segments starting with ':' are wildcard parameters. Overwriting an
// existing handler at the same leaf is last-writer-wins.
func (r *Router) Handle(method, routeTemplate string, handler HandlerFunc) {
	root, ok := r.roots[method]
	if !ok {
		root = newNode()
		r.roots[method] = root
	}
	root.insert(splitPath(routeTemplate), handler)
}

// Dispatch matches method+path against the trie and runs the global
// middleware chain followed by the terminal handler. On no match (or
// unknown method) it sets status 404, writes "Not Found", and closes
// the response itself.
func (r *Router) Dispatch(method, path string, req corepipe.Request, resp corepipe.Response) {
	start := time.Now()
	root, ok := r.roots[method]
	if !ok {
		r.notFound(method, path, resp)
		return
	}
	handler, params, ok := root.match(splitPath(path))
	if !ok {
		r.notFound(method, path, resp)
		return
	}
	req.SetPathParams(params)
	r.recorder.OnMatch(method, path, path)
	chain(r.middlewares, handler)(req, resp)
	r.recorder.OnDispatched(method, path, time.Since(start))
}

func (r *Router) notFound(method, path string, resp corepipe.Response) {
	r.recorder.OnNotFound(method, path)
	resp.SetStatus(404)
	_, _ = resp.Write([]byte("Not Found"))
	resp.Close()
}

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

// Package recovery provides middleware for recovering from panics in
// request handlers.
//
// This middleware catches panics raised by the middleware chain or the
// terminal handler during Router.Dispatch (which app runs on a
// StickyQueue worker, whose own recover stays as the outer backstop),
// logs them with a stack trace, and writes a Problem Details response
// instead of letting the panic reach the worker.
//
// # Basic usage
//
//	r := router.New()
//	r.Use(recovery.New(logger))
//
// This middleware should be registered first in the chain so it wraps
// every other middleware and the terminal handler.
package recovery

import (
	"fmt"
	"log/slog"
	"runtime/debug"

	"github.com/rivaas-dev/reactorcore/corepipe"
	"github.com/rivaas-dev/reactorcore/router"
)

// Option configures the recovery middleware.
type Option func(*config)

type config struct {
	logger     *slog.Logger
	handler    func(req corepipe.Request, resp corepipe.Response, recovered any)
	stackTrace bool
	stackSize  int
}

// WithLogger sets the logger used to record recovered panics. Pass a
// discard logger (e.g. slog.New(slog.DiscardHandler)) to silence it in
// tests.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) { c.logger = logger }
}

// WithHandler overrides the response written after a panic is
// recovered. The default writes a 500 Problem Details-shaped body.
func WithHandler(h func(req corepipe.Request, resp corepipe.Response, recovered any)) Option {
	return func(c *config) { c.handler = h }
}

// WithStackTrace enables or disables stack trace capture. Default: true.
func WithStackTrace(enabled bool) Option {
	return func(c *config) { c.stackTrace = enabled }
}

// WithStackSize caps the captured stack trace in bytes. Default: 4KB.
func WithStackSize(size int) Option {
	return func(c *config) { c.stackSize = size }
}

func defaultConfig() *config {
	return &config{
		logger:     slog.Default(),
		handler:    defaultHandler,
		stackTrace: true,
		stackSize:  4 << 10,
	}
}

func defaultHandler(_ corepipe.Request, resp corepipe.Response, _ any) {
	resp.SetStatus(500)
	resp.SetHeader("Content-Type", "application/problem+json")
	_, _ = resp.Write([]byte(`{"title":"Internal Server Error","status":500}`))
	resp.Close()
}

// New returns a middleware that recovers from panics raised by
// downstream middlewares or the terminal handler.
func New(opts ...Option) router.Middleware {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	return func(req corepipe.Request, resp corepipe.Response, next func()) {
		defer func() {
			if r := recover(); r != nil {
				var stack []byte
				if cfg.stackTrace {
					full := debug.Stack()
					if len(full) > cfg.stackSize {
						full = full[:cfg.stackSize]
					}
					stack = full
				}
				cfg.logger.Error("recovery: panic recovered",
					"method", req.Method(),
					"path", req.Path(),
					"panic", fmt.Sprintf("%v", r),
					"stack", string(stack),
				)
				if !resp.Closed() {
					cfg.handler(req, resp, r)
				}
			}
		}()
		next()
	}
}

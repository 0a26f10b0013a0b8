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

// Package timeout arms a deadline around the rest of the middleware
// chain and the terminal handler, answering with 504 if it expires
// before the chain completes on its own. This is the concrete
// realization of the general note that callers may wrap a handler with
// a deadline-arming middleware: the handler itself never needs to know
// about the clock.
package timeout

import (
	"log/slog"
	"strings"
	"time"

	"github.com/rivaas-dev/reactorcore/corepipe"
	"github.com/rivaas-dev/reactorcore/router"
)

// Option configures the timeout middleware.
type Option func(*config)

type config struct {
	duration     time.Duration
	logger       *slog.Logger
	handler      func(resp corepipe.Response, d time.Duration)
	skipPaths    map[string]bool
	skipPrefixes []string
}

// WithDuration overrides the deadline. Default: 30s.
func WithDuration(d time.Duration) Option {
	return func(c *config) { c.duration = d }
}

// WithLogger sets the logger used to record timeout events.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) { c.logger = logger }
}

// WithHandler overrides the response written when the deadline expires.
func WithHandler(h func(resp corepipe.Response, d time.Duration)) Option {
	return func(c *config) { c.handler = h }
}

// WithSkipPaths excludes exact paths from the deadline (e.g. long-poll
// or streaming endpoints).
func WithSkipPaths(paths ...string) Option {
	return func(c *config) {
		for _, p := range paths {
			c.skipPaths[p] = true
		}
	}
}

// WithSkipPrefix excludes every path under prefix from the deadline.
func WithSkipPrefix(prefix string) Option {
	return func(c *config) { c.skipPrefixes = append(c.skipPrefixes, prefix) }
}

func defaultConfig() *config {
	return &config{
		duration:  30 * time.Second,
		logger:    slog.Default(),
		handler:   defaultHandler,
		skipPaths: map[string]bool{},
	}
}

func defaultHandler(resp corepipe.Response, d time.Duration) {
	resp.SetStatus(504)
	resp.SetHeader("Content-Type", "application/problem+json")
	_, _ = resp.Write([]byte(`{"title":"Request Timeout","status":504,"timeout":"` + d.String() + `"}`))
	resp.Close()
}

func shouldSkip(cfg *config, path string) bool {
	if cfg.skipPaths[path] {
		return true
	}
	for _, prefix := range cfg.skipPrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

// New returns a middleware that runs the rest of the chain on a timer.
// If the chain does not finish within the configured duration, the
// deadline handler fires and commits the response; the chain's
// goroutine is still allowed to run to completion afterward since
// corepipe.Response.Close is idempotent — but it must not be driven
// concurrently with the deadline handler, so New waits for the
// goroutine to finish in either case before returning.
func New(opts ...Option) router.Middleware {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	return func(req corepipe.Request, resp corepipe.Response, next func()) {
		if shouldSkip(cfg, req.Path()) {
			next()
			return
		}

		done := make(chan any, 1)
		go func() {
			defer func() {
				done <- recover()
			}()
			next()
		}()

		timer := time.NewTimer(cfg.duration)
		defer timer.Stop()

		select {
		case p := <-done:
			if p != nil {
				panic(p)
			}
		case <-timer.C:
			cfg.logger.Warn("request timeout",
				"method", req.Method(),
				"path", req.Path(),
				"timeout", cfg.duration.String(),
			)
			cfg.handler(resp, cfg.duration)
			if p := <-done; p != nil {
				panic(p)
			}
		}
	}
}

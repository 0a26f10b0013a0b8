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

// Package accesslog logs one structured line per request through the
// logging package's slog.Logger, after the outcome (status, size,
// duration) is known.
package accesslog

import (
	"crypto/sha256"
	"encoding/binary"
	"log/slog"
	"strings"
	"time"

	"github.com/rivaas-dev/reactorcore/corepipe"
	"github.com/rivaas-dev/reactorcore/router"
	"github.com/rivaas-dev/reactorcore/telemetry/semconv"
)

// Option configures the access-log middleware.
type Option func(*config)

type config struct {
	logger          *slog.Logger
	excludePaths    map[string]bool
	excludePrefixes []string
	sampleRate      float64
	errorsOnly      bool
	slowThreshold   time.Duration
}

// WithLogger sets the structured logger access lines are written
// through. Required: with no logger configured, the middleware is a
// no-op pass-through.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) { c.logger = logger }
}

// WithExcludePaths skips logging for exact path matches (e.g. /healthz).
func WithExcludePaths(paths ...string) Option {
	return func(c *config) {
		for _, p := range paths {
			c.excludePaths[p] = true
		}
	}
}

// WithExcludePrefixes skips logging for any path under prefix.
func WithExcludePrefixes(prefixes ...string) Option {
	return func(c *config) { c.excludePrefixes = append(c.excludePrefixes, prefixes...) }
}

// WithSampleRate logs only a fraction of non-error, non-slow requests,
// chosen deterministically by hashing the X-Request-Id header.
// 1.0 (default) logs everything.
func WithSampleRate(rate float64) Option {
	return func(c *config) { c.sampleRate = max(0.0, min(rate, 1.0)) }
}

// WithErrorsOnly restricts logging to responses with status >= 400.
func WithErrorsOnly() Option {
	return func(c *config) { c.errorsOnly = true }
}

// WithSlowThreshold forces logging of any request slower than d,
// bypassing sampling and the errors-only filter.
func WithSlowThreshold(d time.Duration) Option {
	return func(c *config) { c.slowThreshold = d }
}

func defaultConfig() *config {
	return &config{
		excludePaths: map[string]bool{},
		sampleRate:   1.0,
	}
}

// New returns a middleware that logs method/path/status/duration/size
// for each request that passes the exclusion and sampling filters.
func New(opts ...Option) router.Middleware {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	return func(req corepipe.Request, resp corepipe.Response, next func()) {
		path := req.Path()
		if cfg.excludePaths[path] || hasPrefixAny(path, cfg.excludePrefixes) {
			next()
			return
		}

		start := time.Now()
		next()
		duration := time.Since(start)

		if cfg.logger == nil {
			return
		}

		status := resp.Status()
		isError := status >= 400
		isSlow := cfg.slowThreshold > 0 && duration >= cfg.slowThreshold
		requestID, _ := req.Header("X-Request-Id")

		if !isError && !isSlow {
			if cfg.errorsOnly {
				return
			}
			if cfg.sampleRate < 1.0 && !sampleByHash(requestID, cfg.sampleRate) {
				return
			}
		}

		cfg.logger.Info("request handled",
			semconv.HTTPMethod, req.Method(),
			semconv.HTTPTarget, path,
			semconv.HTTPStatusCode, status,
			semconv.RequestID, requestID,
			"duration_ms", duration.Milliseconds(),
			"bytes_sent", resp.BodySize(),
		)
	}
}

func hasPrefixAny(path string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}

// sampleByHash deterministically maps requestID to a fraction in
// [0, 1) so that repeated access-log decisions for the same request
// (e.g. re-logging on retry) are consistent.
func sampleByHash(requestID string, rate float64) bool {
	if requestID == "" {
		return false
	}
	sum := sha256.Sum256([]byte(requestID))
	bucket := binary.BigEndian.Uint32(sum[:4])
	return float64(bucket)/float64(^uint32(0)) < rate
}

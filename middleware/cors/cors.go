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

// Package cors provides middleware for Cross-Origin Resource Sharing,
// handling preflight requests and setting the appropriate
// Access-Control-* response headers.
package cors

import (
	"net/http"
	"slices"
	"strconv"
	"strings"

	"github.com/rivaas-dev/reactorcore/corepipe"
	"github.com/rivaas-dev/reactorcore/router"
)

// Option configures the CORS middleware.
type Option func(*config)

type config struct {
	allowedOrigins   []string
	allowedMethods   []string
	allowedHeaders   []string
	exposedHeaders   []string
	allowCredentials bool
	maxAge           int
	allowAllOrigins  bool
	allowOriginFunc  func(origin string) bool
}

// WithAllowedOrigins sets the exact origins permitted to make
// cross-origin requests.
func WithAllowedOrigins(origins ...string) Option {
	return func(c *config) { c.allowedOrigins = origins }
}

// WithAllowAllOrigins sets Access-Control-Allow-Origin: * for every
// request with an Origin header. Incompatible with credentials over a
// wildcard; the middleware falls back to echoing the request origin
// in that case.
func WithAllowAllOrigins(allow bool) Option {
	return func(c *config) { c.allowAllOrigins = allow }
}

// WithAllowOriginFunc installs a custom origin predicate. When set, it
// alone decides: the static allow-list is not consulted.
func WithAllowOriginFunc(fn func(origin string) bool) Option {
	return func(c *config) { c.allowOriginFunc = fn }
}

// WithAllowedMethods overrides the methods advertised on preflight.
func WithAllowedMethods(methods ...string) Option {
	return func(c *config) { c.allowedMethods = methods }
}

// WithAllowedHeaders overrides the headers advertised on preflight.
func WithAllowedHeaders(headers ...string) Option {
	return func(c *config) { c.allowedHeaders = headers }
}

// WithExposedHeaders sets Access-Control-Expose-Headers.
func WithExposedHeaders(headers ...string) Option {
	return func(c *config) { c.exposedHeaders = headers }
}

// WithAllowCredentials sets Access-Control-Allow-Credentials.
func WithAllowCredentials(allow bool) Option {
	return func(c *config) { c.allowCredentials = allow }
}

// WithMaxAge sets the preflight cache duration in seconds.
func WithMaxAge(seconds int) Option {
	return func(c *config) { c.maxAge = seconds }
}

func defaultConfig() *config {
	return &config{
		allowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		allowedHeaders: []string{"Origin", "Content-Type", "Accept", "Authorization"},
		maxAge:         3600,
	}
}

// New returns a middleware handling CORS requests: it sets
// Access-Control-* response headers for allowed origins and answers
// preflight OPTIONS requests with 204, short-circuiting the chain.
func New(opts ...Option) router.Middleware {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	allowedMethodsHeader := strings.Join(cfg.allowedMethods, ", ")
	allowedHeadersHeader := strings.Join(cfg.allowedHeaders, ", ")
	exposedHeadersHeader := strings.Join(cfg.exposedHeaders, ", ")
	maxAgeHeader := strconv.Itoa(cfg.maxAge)

	return func(req corepipe.Request, resp corepipe.Response, next func()) {
		origin, hasOrigin := req.Header("Origin")
		if !hasOrigin || origin == "" {
			next()
			return
		}

		allowedOrigin := resolveOrigin(cfg, origin)
		if allowedOrigin == "" {
			next()
			return
		}

		if cfg.allowCredentials && allowedOrigin == "*" {
			resp.SetHeader("Access-Control-Allow-Origin", origin)
			resp.SetHeader("Access-Control-Allow-Credentials", "true")
		} else {
			resp.SetHeader("Access-Control-Allow-Origin", allowedOrigin)
			if cfg.allowCredentials {
				resp.SetHeader("Access-Control-Allow-Credentials", "true")
			}
		}

		if exposedHeadersHeader != "" {
			resp.SetHeader("Access-Control-Expose-Headers", exposedHeadersHeader)
		}

		if req.Method() == http.MethodOptions {
			resp.SetHeader("Access-Control-Allow-Methods", allowedMethodsHeader)
			resp.SetHeader("Access-Control-Allow-Headers", allowedHeadersHeader)
			resp.SetHeader("Access-Control-Max-Age", maxAgeHeader)
			resp.SetStatus(http.StatusNoContent)
			resp.Close()
			return
		}

		next()
	}
}

func resolveOrigin(cfg *config, origin string) string {
	switch {
	case cfg.allowAllOrigins:
		return "*"
	case cfg.allowOriginFunc != nil:
		if cfg.allowOriginFunc(origin) {
			return origin
		}
	case slices.Contains(cfg.allowedOrigins, origin):
		return origin
	}
	return ""
}

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

// Package requestid stamps every response with an X-Request-Id header,
// so a client and the access log can correlate one HTTP exchange
// without needing a full trace backend.
//
// By default a non-empty client-supplied request-id header is echoed
// as is. Otherwise the ID is derived from the inbound W3C traceparent
// header when one is present and valid — the request already has a span-id
// that uniquely names it, so there is no reason to mint a second
// identifier. Only when no valid traceparent is present does the
// middleware fall back to generating a fresh one.
package requestid

import (
	"crypto/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"

	"github.com/rivaas-dev/reactorcore/corepipe"
	"github.com/rivaas-dev/reactorcore/router"
	"github.com/rivaas-dev/reactorcore/tracecontext"
)

// ulidEntropy is a thread-safe monotonic entropy source, shared across
// all ULID-fallback generation so IDs stay ordered within a millisecond.
var (
	ulidEntropy     = ulid.Monotonic(rand.Reader, 0)
	ulidEntropyLock sync.Mutex
)

// Option configures the request-id middleware.
type Option func(*config)

type config struct {
	headerName    string
	traceHeader   string
	generator     func() string
	allowClientID bool
}

// WithHeader overrides the response header name. Default: X-Request-Id.
func WithHeader(name string) Option {
	return func(c *config) { c.headerName = name }
}

// WithGenerator overrides the fallback ID generator used when no valid
// traceparent header is present.
func WithGenerator(gen func() string) Option {
	return func(c *config) { c.generator = gen }
}

// WithULID swaps the default UUIDv7 fallback generator for a ULID
// generator (26 characters, still time-ordered).
func WithULID() Option {
	return func(c *config) { c.generator = generateULID }
}

// WithAllowClientID controls whether a client-supplied request-id
// header is honored ahead of trace-derived or generated IDs. Default: true.
func WithAllowClientID(allowed bool) Option {
	return func(c *config) { c.allowClientID = allowed }
}

func defaultConfig() *config {
	return &config{
		headerName:    "X-Request-Id",
		traceHeader:   "traceparent",
		generator:     generateUUIDv7,
		allowClientID: true,
	}
}

func generateUUIDv7() string {
	return uuid.Must(uuid.NewV7()).String()
}

func generateULID() string {
	ulidEntropyLock.Lock()
	defer ulidEntropyLock.Unlock()
	return ulid.MustNew(ulid.Timestamp(time.Now()), ulidEntropy).String()
}

// New returns a middleware that stamps the configured header on every
// response, preferring (in order) a client-supplied ID, the span-id
// of a valid inbound traceparent, and finally a freshly generated ID.
func New(opts ...Option) router.Middleware {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	return func(req corepipe.Request, resp corepipe.Response, next func()) {
		id := resolve(req, cfg)
		resp.SetHeader(cfg.headerName, id)
		next()
	}
}

func resolve(req corepipe.Request, cfg *config) string {
	if cfg.allowClientID {
		if v, ok := req.Header(cfg.headerName); ok && v != "" {
			return v
		}
	}
	if raw, ok := req.Header(cfg.traceHeader); ok {
		if tc, ok := tracecontext.TryParse(raw); ok {
			return tc.SpanID()
		}
	}
	return cfg.generator()
}

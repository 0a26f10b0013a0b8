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

// Package tracecontext carries a W3C traceparent across goroutine and
// thread boundaries: request ingress, Message envelopes, spans, and
// log records all share the same immutable Context value.
package tracecontext

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
)

// version is the only traceparent version this package emits or accepts.
const version = "00"

// Context is an immutable carrier of a W3C trace context: a 128-bit
// trace-id, a 64-bit span-id, 8 bits of flags, and an opaque baggage
// map. Values are copied by value; the baggage map is shared between
// copies and never mutated after construction — WithBaggage builds a
// new map instead.
type Context struct {
	traceIDHi uint64
	traceIDLo uint64
	spanID    uint64
	flags     byte
	baggage   map[string]string
}

// FlagSampled marks the trace as sampled per the W3C spec's trace-flags byte.
const FlagSampled byte = 0x01

// New creates a fresh root context: a random non-zero trace-id, a
// random span-id, and the supplied flags.
func New(flags byte) Context {
	return Context{
		traceIDHi: randUint64Nonzero(),
		traceIDLo: randUint64(),
		spanID:    randUint64Nonzero(),
		flags:     flags,
	}
}

// Child derives a new Context that shares the parent's trace-id and
// baggage but carries a freshly generated span-id.
func (c Context) Child() Context {
	child := c
	child.spanID = randUint64Nonzero()
	return child
}

// IsValid reports whether the trace-id is non-zero.
func (c Context) IsValid() bool {
	return c.traceIDHi != 0 || c.traceIDLo != 0
}

// TraceID returns the 32-hex-character trace-id.
func (c Context) TraceID() string {
	return fmt.Sprintf("%016x%016x", c.traceIDHi, c.traceIDLo)
}

// SpanID returns the 16-hex-character span-id.
func (c Context) SpanID() string {
	return fmt.Sprintf("%016x", c.spanID)
}

// Flags returns the raw trace-flags byte.
func (c Context) Flags() byte {
	return c.flags
}

// Sampled reports whether FlagSampled is set.
func (c Context) Sampled() bool {
	return c.flags&FlagSampled != 0
}

// Baggage returns the value for key and whether it was present.
// Baggage propagates unchanged from parent to Child; the underlying map
// is shared between them and is never mutated in place.
func (c Context) Baggage(key string) (string, bool) {
	if c.baggage == nil {
		return "", false
	}
	v, ok := c.baggage[key]
	return v, ok
}

// WithBaggage returns a copy of c with key=value added to its baggage.
// Baggage is an unordered key/value map; insertion order is irrelevant.
func (c Context) WithBaggage(key, value string) Context {
	next := c
	next.baggage = make(map[string]string, len(c.baggage)+1)
	for k, v := range c.baggage {
		next.baggage[k] = v
	}
	next.baggage[key] = value
	return next
}

// String serializes c as a W3C traceparent header value:
// 00-<trace-id>-<span-id>-<flags>.
func (c Context) String() string {
	return fmt.Sprintf("%s-%s-%s-%02x", version, c.TraceID(), c.SpanID(), c.flags)
}

// Parse parses a W3C traceparent header value. On any malformed input
// it returns a fresh root Context — the same fallback used when the
// header is absent on ingress.
func Parse(header string) Context {
	ctx, ok := TryParse(header)
	if !ok {
		return New(0)
	}
	return ctx
}

// TryParse parses a W3C traceparent header value strictly, reporting
// whether it was well-formed.
func TryParse(header string) (Context, bool) {
	parts := strings.Split(header, "-")
	if len(parts) != 4 {
		return Context{}, false
	}
	if parts[0] != version || len(parts[1]) != 32 || len(parts[2]) != 16 || len(parts[3]) != 2 {
		return Context{}, false
	}
	if strings.ToLower(header) != header {
		return Context{}, false
	}
	hi, err := hex.DecodeString(parts[1][:16])
	if err != nil {
		return Context{}, false
	}
	lo, err := hex.DecodeString(parts[1][16:])
	if err != nil {
		return Context{}, false
	}
	spanBytes, err := hex.DecodeString(parts[2])
	if err != nil {
		return Context{}, false
	}
	flagBytes, err := hex.DecodeString(parts[3])
	if err != nil {
		return Context{}, false
	}
	ctx := Context{
		traceIDHi: bytesToUint64(hi),
		traceIDLo: bytesToUint64(lo),
		spanID:    bytesToUint64(spanBytes),
		flags:     flagBytes[0],
	}
	if !ctx.IsValid() {
		return Context{}, false
	}
	return ctx, true
}

func bytesToUint64(b []byte) uint64 {
	var v uint64
	for _, x := range b {
		v = v<<8 | uint64(x)
	}
	return v
}

func randUint64() uint64 {
	var b [8]byte
	_, _ = rand.Read(b[:])
	return bytesToUint64(b[:])
}

func randUint64Nonzero() uint64 {
	for {
		if v := randUint64(); v != 0 {
			return v
		}
	}
}

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

// Package respond implements Handle: the thread-safe bridge a worker
// uses to deliver a finished response back through a stream the I/O
// reactor owns. Delivery is posted as a closure and only takes effect
// if the stream is still alive when the reactor runs it.
package respond

import (
	"net/http"
	"sync"
	"sync/atomic"
)

// Reactor schedules a closure to run on the thread that owns the
// stream. Implementations must never run fn synchronously from a
// caller that isn't already the reactor thread — that is the whole
// point of Handle.
type Reactor interface {
	Post(fn func())
}

// SendFunc delivers a finished status/headers/body through the
// underlying stream. It is invoked at most once per Handle, always on
// the reactor thread.
type SendFunc func(status int, headers http.Header, body []byte)

// Releasable is a scoped resource whose Release must run exactly once
// when the owning Handle is destroyed (e.g. a loadshed.Guard).
type Releasable interface {
	Release()
}

// Handle is ResponseHandle: created on the reactor thread when a
// stream opens, shared with exactly one Response view by weak
// reference, and marked closed when the stream closes. Delivery is at
// most once; a Handle may be alive-and-never-sent but never
// sent-twice.
type Handle struct {
	reactor Reactor
	send    SendFunc

	alive     atomic.Bool
	committed atomic.Bool // guards "send the delivery closure" to at-most-once

	scopedMu  sync.Mutex
	scoped    []Releasable
	destroyed atomic.Bool

	onDropped func()
}

// Option configures a Handle at construction.
type Option func(*Handle)

// WithDroppedHook sets a hook invoked whenever a Send finds the stream
// already closed — the response was computed but could never be
// delivered. Callers use this to count dropped responses. The hook runs
// synchronously, on the calling goroutine when the Handle is already
// closed at Send time and otherwise on the reactor thread inside the
// posted closure, and must not block.
func WithDroppedHook(hook func()) Option {
	return func(h *Handle) { h.onDropped = hook }
}

// New creates a Handle bound to reactor, alive, for delivering through send.
func New(reactor Reactor, send SendFunc, opts ...Option) *Handle {
	h := &Handle{reactor: reactor, send: send}
	h.alive.Store(true)
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Send schedules delivery of status/headers/body on the reactor. May
// be called from any thread. Only the first call has any effect. If the
// Handle is already closed, it drops at once (invoking onDropped, if
// set) without posting; otherwise the posted closure re-checks IsAlive
// on the reactor thread and drops the same way if the stream has since
// closed. send's fields are captured by value at the time of this
// call, not re-read later.
func (h *Handle) Send(status int, headers http.Header, body []byte) {
	if !h.committed.CompareAndSwap(false, true) {
		return
	}
	if !h.alive.Load() {
		if h.onDropped != nil {
			h.onDropped()
		}
		return
	}
	status, headers, body = status, headers.Clone(), append([]byte(nil), body...)
	h.reactor.Post(func() {
		if !h.alive.Load() {
			if h.onDropped != nil {
				h.onDropped()
			}
			return
		}
		h.send(status, headers, body)
	})
}

// MarkClosed is called by the reactor when the stream closes, local
// or peer-initiated. It sets alive=false with release ordering (via
// atomic.Bool, which provides the required memory ordering on all Go
// platforms) and releases scoped resources exactly once.
func (h *Handle) MarkClosed() {
	h.alive.Store(false)
	h.Destroy()
}

// IsAlive reports the current alive flag. Advisory only: the result
// may race to false before a concurrently-posted Send runs.
func (h *Handle) IsAlive() bool {
	return h.alive.Load()
}

// AttachScoped appends a resource released when Destroy runs.
func (h *Handle) AttachScoped(r Releasable) {
	h.scopedMu.Lock()
	defer h.scopedMu.Unlock()
	if h.destroyed.Load() {
		r.Release()
		return
	}
	h.scoped = append(h.scoped, r)
}

// Destroy releases every attached scoped resource exactly once. Safe
// to call multiple times (e.g. once from MarkClosed, once from an
// explicit caller) and safe to call concurrently with AttachScoped.
func (h *Handle) Destroy() {
	if !h.destroyed.CompareAndSwap(false, true) {
		return
	}
	h.scopedMu.Lock()
	scoped := h.scoped
	h.scoped = nil
	h.scopedMu.Unlock()
	for _, r := range scoped {
		r.Release()
	}
}

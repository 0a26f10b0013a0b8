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

// Package queue implements StickyQueue: a fixed pool of N workers,
// each owning one unbounded FIFO protected by its own mutex+condvar
// pair, dispatching by affinity key mod N.
package queue

import (
	"errors"
	"log/slog"
	"sync"

	"github.com/rivaas-dev/reactorcore/message"
)

// ErrShuttingDown is returned by Submit once Shutdown has been called.
var ErrShuttingDown = errors.New("queue: shutting down")

// Handler processes one dequeued Message. A panic inside Handler is
// recovered at the worker boundary, logged with the message's trace
// context, and counted — it never unwinds past the worker loop.
type Handler func(msg message.Message)

// FailureHook is invoked (recovered panic value, Message) whenever a
// Handler panics, so callers can wire a failure counter alongside the
// log line handleOne already emits.
type FailureHook func(recovered any, msg message.Message)

type worker struct {
	mu       sync.Mutex
	cond     *sync.Cond
	fifo     []message.Message
	shutdown bool
}

func newWorker() *worker {
	w := &worker{}
	w.cond = sync.NewCond(&w.mu)
	return w
}

func (w *worker) enqueue(msg message.Message) {
	w.mu.Lock()
	w.fifo = append(w.fifo, msg)
	w.mu.Unlock()
	w.cond.Signal()
}

func (w *worker) closeForShutdown() {
	w.mu.Lock()
	w.shutdown = true
	w.mu.Unlock()
	w.cond.Broadcast()
}

// dequeue blocks until the FIFO is non-empty or shutdown, then returns
// (msg, true), or (zero, false) once drained and shut down.
func (w *worker) dequeue() (message.Message, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	for len(w.fifo) == 0 && !w.shutdown {
		w.cond.Wait()
	}
	if len(w.fifo) == 0 {
		return message.Message{}, false
	}
	msg := w.fifo[0]
	w.fifo = w.fifo[1:]
	return msg, true
}

// StickyQueue is a pool of N workers, each running Handler
// synchronously over messages from its own FIFO. For a stable
// affinity key K, every message submits to worker K mod N, so related
// messages are always handled by the same worker, in submission order.
type StickyQueue struct {
	workers     []*worker
	handler     Handler
	onFailure   FailureHook
	logger      *slog.Logger
	wg          sync.WaitGroup
	shutdownMu  sync.Mutex
	shutdownSet bool
}

// Option configures a StickyQueue at construction.
type Option func(*StickyQueue)

// WithFailureHook registers a hook invoked on every recovered handler panic.
func WithFailureHook(hook FailureHook) Option {
	return func(q *StickyQueue) { q.onFailure = hook }
}

// WithLogger sets the logger used for recovered-panic diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(q *StickyQueue) {
		if logger != nil {
			q.logger = logger
		}
	}
}

// New constructs a StickyQueue with n workers (n must be >= 1) and
// starts their goroutines immediately.
func New(n int, handler Handler, opts ...Option) *StickyQueue {
	if n < 1 {
		n = 1
	}
	q := &StickyQueue{
		handler: handler,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(q)
	}
	q.workers = make([]*worker, n)
	for i := range q.workers {
		q.workers[i] = newWorker()
	}
	q.wg.Add(n)
	for i := range q.workers {
		go q.run(i)
	}
	return q
}

// N returns the worker count.
func (q *StickyQueue) N() int {
	return len(q.workers)
}

// WorkerIndex returns affinityKey mod N, the deterministic dispatch
// target for that key.
func (q *StickyQueue) WorkerIndex(affinityKey uint64) int {
	return int(affinityKey % uint64(len(q.workers)))
}

// Submit enqueues msg onto worker (msg.AffinityKey mod N). Returns
// ErrShuttingDown if Shutdown has already been called; no submission
// after shutdown is accepted.
func (q *StickyQueue) Submit(msg message.Message) error {
	q.shutdownMu.Lock()
	shuttingDown := q.shutdownSet
	q.shutdownMu.Unlock()
	if shuttingDown {
		return ErrShuttingDown
	}
	idx := q.WorkerIndex(msg.AffinityKey)
	q.workers[idx].enqueue(msg)
	return nil
}

func (q *StickyQueue) run(idx int) {
	defer q.wg.Done()
	w := q.workers[idx]
	for {
		msg, ok := w.dequeue()
		if !ok {
			return
		}
		q.handleOne(msg)
	}
}

// handleOne derives a worker-local child span from msg.Trace before
// calling the Handler, so every log line and span the handler emits
// while processing this message carries the worker's own span-id
// rather than the span-id the message arrived with — the parent
// relationship is preserved (same trace-id, new span-id), but a
// dequeued message is handled under its own span.
func (q *StickyQueue) handleOne(msg message.Message) {
	msg.Trace = msg.Trace.Child()
	defer func() {
		if r := recover(); r != nil {
			q.logger.Error("stickyqueue: handler panic recovered",
				"trace_id", msg.Trace.TraceID(),
				"span_id", msg.Trace.SpanID(),
				"panic", r,
			)
			if q.onFailure != nil {
				q.onFailure(r, msg)
			}
		}
	}()
	q.handler(msg)
}

// Shutdown signals every worker to stop accepting new work, waits for
// each worker's FIFO to drain, then returns once all worker goroutines
// have exited.
func (q *StickyQueue) Shutdown() {
	q.shutdownMu.Lock()
	if q.shutdownSet {
		q.shutdownMu.Unlock()
		return
	}
	q.shutdownSet = true
	q.shutdownMu.Unlock()

	for _, w := range q.workers {
		w.closeForShutdown()
	}
	q.wg.Wait()
}

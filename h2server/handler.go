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

package h2server

import (
	"hash/fnv"
	"io"
	"log/slog"
	"net/http"

	"github.com/rivaas-dev/reactorcore/corepipe"
	"github.com/rivaas-dev/reactorcore/message"
	"github.com/rivaas-dev/reactorcore/queue"
	"github.com/rivaas-dev/reactorcore/respond"
	"github.com/rivaas-dev/reactorcore/tracecontext"
)

// traceparentHeader is the W3C-standard header name this package reads
// on ingress and echoes on responses.
const traceparentHeader = "traceparent"

// AffinityFunc derives the StickyQueue affinity key for an inbound
// request. The default hashes the request path, so unrelated paths
// spread across workers but repeated calls to the same route tend to
// land on the same worker; callers with a session or tenant concept
// should supply one that hashes that identifier instead.
type AffinityFunc func(r *http.Request) uint64

// Option configures a Handler at construction.
type Option func(*Handler)

// WithAffinityFunc overrides the default path-hash affinity function.
func WithAffinityFunc(fn AffinityFunc) Option {
	return func(h *Handler) {
		if fn != nil {
			h.affinity = fn
		}
	}
}

// WithLogger sets the logger passed to each constructed
// corepipe.Response, used for its close-without-status and
// handle-expired diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(h *Handler) {
		if logger != nil {
			h.logger = logger
		}
	}
}

// WithDroppedResponseHook sets a hook invoked whenever a worker's
// posted response finds its stream already closed — the response was
// computed but arrived too late to deliver (peer disconnect or server
// shutdown racing the worker's commit). Callers use this to count
// dropped responses.
func WithDroppedResponseHook(hook func()) Option {
	return func(h *Handler) { h.onDropped = hook }
}

// Handler implements http.Handler by submitting every request as a
// message.HTTPRequest onto a queue.StickyQueue and waiting for the
// assigned worker to close the corepipe.Response bound to it.
type Handler struct {
	queue     *queue.StickyQueue
	affinity  AffinityFunc
	logger    *slog.Logger
	onDropped func()
}

// New constructs a Handler bound to q. q's Handler must be prepared to
// receive message.HTTPRequest payloads (typically by dispatching them
// into a router.Router).
func New(q *queue.StickyQueue, opts ...Option) *Handler {
	h := &Handler{
		queue:    q,
		affinity: defaultAffinity,
		logger:   corepipe.NoopLogger(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// streamReactor is the respond.Reactor for exactly one stream: it
// funnels posted delivery closures back onto the goroutine blocked in
// ServeHTTP for that stream, since that goroutine is the only one
// allowed to write to the http.ResponseWriter.
type streamReactor struct {
	post chan func()
}

func newStreamReactor() *streamReactor {
	return &streamReactor{post: make(chan func(), 1)}
}

// Post never blocks: Handle.Send fires at most once per Handle, and
// the channel is buffered to that same bound, so a stream whose
// ServeHTTP goroutine has already returned (peer disconnect racing a
// worker's late commit) still absorbs the closure instead of leaking
// a blocked sender.
func (s *streamReactor) Post(fn func()) {
	s.post <- fn
}

// ServeHTTP builds a Request/Response pair for req, submits it to the
// queue by affinity key, and blocks until the assigned worker closes
// the response or the stream's context is done (client disconnect or
// server shutdown), whichever comes first.
func (h *Handler) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	body, _ := io.ReadAll(req.Body)

	headers := make(map[string]string, len(req.Header))
	for k := range req.Header {
		headers[k] = req.Header.Get(k)
	}
	query := make(map[string]string, len(req.URL.Query()))
	for k := range req.URL.Query() {
		query[k] = req.URL.Query().Get(k)
	}

	data := corepipe.NewRequestData(req.Method, req.URL.Path, body, headers, query)
	ref := corepipe.NewRequestDataRef(data)
	creq := corepipe.NewRequest(ref)

	reactor := newStreamReactor()
	done := make(chan struct{})
	handle := respond.New(reactor, func(status int, hdr http.Header, respBody []byte) {
		dst := w.Header()
		for k, vs := range hdr {
			for _, v := range vs {
				dst.Add(k, v)
			}
		}
		w.WriteHeader(status)
		_, _ = w.Write(respBody)
		close(done)
	}, respond.WithDroppedHook(h.onDropped))
	cresp := corepipe.NewResponse(handle, h.logger)

	trace := tracecontext.Parse(req.Header.Get(traceparentHeader))

	msg := message.New(h.affinity(req), trace, message.HTTPRequest{Request: creq, Response: cresp})

	if err := h.queue.Submit(msg); err != nil {
		handle.MarkClosed()
		ref.Expire()
		http.Error(w, "Service Unavailable", http.StatusServiceUnavailable)
		return
	}

	ctx := req.Context()
	for {
		select {
		case fn := <-reactor.post:
			fn()
		case <-done:
			handle.MarkClosed()
			ref.Expire()
			return
		case <-ctx.Done():
			handle.MarkClosed()
			ref.Expire()
			return
		}
	}
}

// defaultAffinity hashes the request path with FNV-1a. Two requests
// for the same path always land on the same worker; this is a
// reasonable default when callers have no session/tenant concept to
// key on.
func defaultAffinity(r *http.Request) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(r.URL.Path))
	return h.Sum64()
}

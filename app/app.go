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

// Package app composes config, observability, the router, the
// StickyQueue, and h2server into one process with a single Run call
// and a Hooks lifecycle (OnStart/OnReady/OnShutdown/OnStop) wrapped
// around it — the wiring a cmd/server/main.go would otherwise have to
// assemble itself every time.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/rivaas-dev/reactorcore/config"
	"github.com/rivaas-dev/reactorcore/h2server"
	"github.com/rivaas-dev/reactorcore/logging"
	"github.com/rivaas-dev/reactorcore/message"
	"github.com/rivaas-dev/reactorcore/metrics"
	"github.com/rivaas-dev/reactorcore/observability"
	"github.com/rivaas-dev/reactorcore/queue"
	"github.com/rivaas-dev/reactorcore/router"
	"github.com/rivaas-dev/reactorcore/tracing"
)

// App wires together one process's request-serving stack: a Router
// dispatching HTTP methods/paths to handlers, a StickyQueue running
// those dispatches on affinity-keyed workers, and an h2server.Handler
// bridging net/http to that queue. Build one with New, register routes
// and hooks before calling Run, then call Run exactly once.
type App struct {
	cfg           *config.AppConfig
	router        *router.Router
	queue         *queue.StickyQueue
	handler       *h2server.Handler
	observability *observability.Provider
	hooks         *Hooks

	routerOpts  []router.Option
	handlerOpts []h2server.Option

	mu      sync.Mutex
	started bool
}

// Option configures an App at construction.
type Option func(*App)

// WithAffinityFunc overrides the h2server.Handler's default path-hash
// affinity function, e.g. to key by tenant or session instead.
func WithAffinityFunc(fn h2server.AffinityFunc) Option {
	return func(a *App) {
		a.handlerOpts = append(a.handlerOpts, h2server.WithAffinityFunc(fn))
	}
}

// WithRouterOption applies a router.Option at construction, e.g. to
// supply a custom router.ObservabilityRecorder.
func WithRouterOption(opt router.Option) Option {
	return func(a *App) {
		a.routerOpts = append(a.routerOpts, opt)
	}
}

// New builds an App from cfg: it initializes observability, builds the
// Router and StickyQueue, and wraps them in an h2server.Handler, but
// does not start listening — call Router() to register routes and
// hooks, then Run to start serving.
func New(ctx context.Context, cfg *config.AppConfig, opts ...Option) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("app: invalid config: %w", err)
	}

	a := &App{cfg: cfg, hooks: newHooks()}
	for _, opt := range opts {
		opt(a)
	}

	provider := &observability.Provider{}
	if err := provider.Init(ctx, observability.Config{
		ServiceName:     cfg.Observability.ServiceName,
		ServiceVersion:  cfg.Observability.ServiceVersion,
		TracingProvider: tracing.Provider(cfg.Observability.TracingBackend),
		SampleRate:      cfg.Observability.SampleRate,
		OTLPEndpoint:    cfg.Observability.OTLPEndpoint,
		OTLPInsecure:    cfg.Observability.OTLPInsecure,
		MetricsProvider: metrics.Provider(cfg.Observability.MetricsBackend),
		LogHandlerType:  parseLogHandlerType(cfg.Observability.LogFormat),
		LogLevel:        parseLogLevel(cfg.Observability.LogLevel),
	}); err != nil {
		return nil, fmt.Errorf("app: init observability: %w", err)
	}
	a.observability = provider

	routerOpts := append([]router.Option{
		router.WithLogger(provider.Logger),
	}, a.routerOpts...)
	a.router = router.New(routerOpts...)

	a.queue = queue.New(cfg.Resilience.QueueWorkers, a.dispatch,
		queue.WithLogger(provider.Logger),
		queue.WithFailureHook(func(recovered any, msg message.Message) {
			provider.Meter.RecordWorkerPanic(context.Background())
		}),
	)

	handlerOpts := append([]h2server.Option{
		h2server.WithLogger(provider.Logger),
		h2server.WithDroppedResponseHook(func() {
			provider.Meter.RecordDroppedResponse(context.Background())
		}),
	}, a.handlerOpts...)
	a.handler = h2server.New(a.queue, handlerOpts...)

	return a, nil
}

// dispatch is the queue.Handler every worker runs: it unwraps the
// HTTPRequest payload, starts a span tagged with msg.Trace (by now the
// worker's own child span — see queue.handleOne), hands the request to
// the Router, and records the completed dispatch's count/duration.
func (a *App) dispatch(msg message.Message) {
	httpReq, ok := msg.Payload.(message.HTTPRequest)
	if !ok {
		return
	}

	method, path := httpReq.Request.Method(), httpReq.Request.Path()
	ctx, span := a.observability.Tracer.StartSpan(context.Background(), msg.Trace, "router.dispatch")
	start := time.Now()

	a.router.Dispatch(method, path, httpReq.Request, httpReq.Response)

	status := httpReq.Response.Status()
	a.observability.Tracer.FinishSpan(span, status)
	a.observability.Meter.RecordRequest(ctx, method, path, status, time.Since(start))
}

// Router returns the Router to register routes and middleware on.
// Must be called before Run.
func (a *App) Router() *router.Router {
	return a.router
}

// Logger returns the process-wide logger observability.Provider.Init built.
func (a *App) Logger() *slog.Logger {
	return a.observability.Logger
}

// Handler returns the http.Handler h2server.Serve should be given —
// exposed so tests can drive the stack with httptest without a real
// listener.
func (a *App) Handler() http.Handler {
	return a.handler
}

func parseLogHandlerType(format string) logging.HandlerType {
	if logging.HandlerType(format) == logging.TextHandler {
		return logging.TextHandler
	}
	return logging.JSONHandler
}

func parseLogLevel(level string) slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(level)); err != nil {
		return slog.LevelInfo
	}
	return l
}

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

// Package observability composes tracing, metrics, and logging behind
// a single process-wide Provider with one idempotent Init/Shutdown
// pair, so app wiring has exactly one observability lifecycle to call
// instead of three independent ones.
package observability

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/rivaas-dev/reactorcore/logging"
	"github.com/rivaas-dev/reactorcore/metrics"
	"github.com/rivaas-dev/reactorcore/tracing"
)

// Config selects each sub-package's provider and shared service identity.
type Config struct {
	ServiceName    string
	ServiceVersion string

	TracingProvider tracing.Provider
	SampleRate      float64
	OTLPEndpoint    string
	OTLPInsecure    bool

	MetricsProvider metrics.Provider

	LogHandlerType logging.HandlerType
	LogLevel       logging.Level
}

// Provider holds the initialized tracing/metrics/logging handles for
// one process. Zero value is unusable; construct with Init.
type Provider struct {
	Tracer *tracing.Config
	Meter  *metrics.Recorder
	Logger *slog.Logger

	mu          sync.Mutex
	initialized bool
	shutdown    bool
}

// Init builds all three sub-packages from cfg. Calling Init a second
// time on the same Provider is a no-op returning nil, matching the
// idempotent-lifecycle shape the rest of this module uses (c.f.
// respond.Handle.Destroy, loadshed.Guard.Release).
func (p *Provider) Init(ctx context.Context, cfg Config) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.initialized {
		return nil
	}

	logger, err := logging.New(
		logging.WithHandlerType(cfg.LogHandlerType),
		logging.WithServiceName(cfg.ServiceName),
		logging.WithServiceVersion(cfg.ServiceVersion),
		logging.WithLevel(cfg.LogLevel),
	)
	if err != nil {
		return fmt.Errorf("observability: init logging: %w", err)
	}

	tracer, err := tracing.New(ctx,
		tracing.WithProvider(cfg.TracingProvider),
		tracing.WithServiceName(cfg.ServiceName),
		tracing.WithServiceVersion(cfg.ServiceVersion),
		tracing.WithSampleRate(sampleRateOrDefault(cfg.SampleRate)),
		tracing.WithOTLPEndpoint(cfg.OTLPEndpoint),
		tracing.WithOTLPInsecure(cfg.OTLPInsecure),
		tracing.WithLogger(logger),
	)
	if err != nil {
		return fmt.Errorf("observability: init tracing: %w", err)
	}

	meter, err := metrics.New(
		metrics.WithProvider(cfg.MetricsProvider),
		metrics.WithServiceName(cfg.ServiceName),
		metrics.WithLogger(logger),
	)
	if err != nil {
		return fmt.Errorf("observability: init metrics: %w", err)
	}

	p.Tracer = tracer
	p.Meter = meter
	p.Logger = logger
	p.initialized = true
	return nil
}

func sampleRateOrDefault(rate float64) float64 {
	if rate == 0 {
		return 1.0
	}
	return rate
}

// Shutdown stops tracing and metrics exporters. Safe to call multiple
// times or on a Provider that was never successfully Init'd.
func (p *Provider) Shutdown(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.shutdown || !p.initialized {
		return nil
	}
	p.shutdown = true

	var errs []error
	if err := p.Tracer.Shutdown(ctx); err != nil {
		errs = append(errs, fmt.Errorf("tracing shutdown: %w", err))
	}
	if err := p.Meter.Shutdown(ctx); err != nil {
		errs = append(errs, fmt.Errorf("metrics shutdown: %w", err))
	}
	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("observability: %v", errs)
}

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

// Package metrics records the platform's own operational counters —
// request volume/latency, in-flight load, StickyQueue worker panics,
// and load-shedding rejections — via OpenTelemetry's metric API.
package metrics

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

// DefaultDurationBuckets are histogram boundaries for request duration
// in seconds, covering sub-millisecond to 10-second responses.
var DefaultDurationBuckets = []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10}

// Provider selects which metric exporter New wires up.
type Provider string

const (
	// NoopProvider exports nothing: instruments come from an SDK meter
	// provider with no reader attached, so recorded values go nowhere.
	NoopProvider Provider = "noop"
	// PrometheusProvider exposes a pull-based /metrics handler.
	PrometheusProvider Provider = "prometheus"
	// StdoutProvider periodically dumps metrics as JSON to stdout.
	StdoutProvider Provider = "stdout"
)

// Recorder holds the platform's built-in instruments. All methods are
// safe for concurrent use.
type Recorder struct {
	meterProvider *sdkmetric.MeterProvider
	meter         metric.Meter

	requestCount    metric.Int64Counter
	requestDuration metric.Float64Histogram
	inFlight        metric.Int64UpDownCounter
	workerPanics    metric.Int64Counter
	shedRejections  metric.Int64Counter
	queueSubmitErrs metric.Int64Counter
	droppedResponse metric.Int64Counter

	provider       Provider
	serviceName    string
	exportInterval time.Duration
	buckets        []float64
	logger         *slog.Logger
}

// Option configures a Recorder at construction.
type Option func(*Recorder)

// WithProvider selects the exporter backend.
func WithProvider(p Provider) Option { return func(r *Recorder) { r.provider = p } }

// WithServiceName tags every instrument with service.name.
func WithServiceName(name string) Option { return func(r *Recorder) { r.serviceName = name } }

// WithExportInterval sets the periodic-reader export cadence for the
// stdout provider. Prometheus is pull-based and ignores this.
func WithExportInterval(d time.Duration) Option {
	return func(r *Recorder) {
		if d > 0 {
			r.exportInterval = d
		}
	}
}

// WithDurationBuckets overrides the request-duration histogram boundaries.
func WithDurationBuckets(buckets ...float64) Option {
	return func(r *Recorder) {
		if len(buckets) > 0 {
			r.buckets = buckets
		}
	}
}

// WithLogger sets the logger used for instrument-registration diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Recorder) {
		if logger != nil {
			r.logger = logger
		}
	}
}

func newDefaultRecorder() *Recorder {
	return &Recorder{
		provider:       NoopProvider,
		serviceName:    "reactorcore",
		exportInterval: 15 * time.Second,
		buckets:        DefaultDurationBuckets,
		logger:         slog.New(slog.DiscardHandler),
	}
}

// New builds a Recorder and registers its fixed set of instruments.
func New(opts ...Option) (*Recorder, error) {
	r := newDefaultRecorder()
	for _, opt := range opts {
		opt(r)
	}

	var reader sdkmetric.Reader
	switch r.provider {
	case NoopProvider:
		r.meter = sdkmetric.NewMeterProvider().Meter("reactorcore")
		return r, r.registerInstruments()
	case PrometheusProvider:
		exp, err := prometheus.New()
		if err != nil {
			return nil, fmt.Errorf("metrics: build prometheus exporter: %w", err)
		}
		reader = exp
	case StdoutProvider:
		exp, err := stdoutmetric.New()
		if err != nil {
			return nil, fmt.Errorf("metrics: build stdout exporter: %w", err)
		}
		reader = sdkmetric.NewPeriodicReader(exp, sdkmetric.WithInterval(r.exportInterval))
	default:
		return nil, errors.New("metrics: unknown provider " + string(r.provider))
	}

	res, err := resource.Merge(resource.Default(), resource.NewSchemaless(
		attribute.String("service.name", r.serviceName),
	))
	if err != nil {
		return nil, fmt.Errorf("metrics: build resource: %w", err)
	}

	r.meterProvider = sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader), sdkmetric.WithResource(res))
	r.meter = r.meterProvider.Meter("reactorcore")
	return r, r.registerInstruments()
}

func (r *Recorder) registerInstruments() error {
	var err error
	if r.requestCount, err = r.meter.Int64Counter("reactorcore.requests",
		metric.WithDescription("Total requests dispatched through the router")); err != nil {
		return err
	}
	if r.requestDuration, err = r.meter.Float64Histogram("reactorcore.request.duration",
		metric.WithDescription("Request dispatch duration in seconds"),
		metric.WithExplicitBucketBoundaries(r.buckets...)); err != nil {
		return err
	}
	if r.inFlight, err = r.meter.Int64UpDownCounter("reactorcore.requests.in_flight",
		metric.WithDescription("Requests currently admitted by the load-shedding policy")); err != nil {
		return err
	}
	if r.workerPanics, err = r.meter.Int64Counter("reactorcore.queue.worker_panics",
		metric.WithDescription("StickyQueue handler panics recovered at the worker boundary")); err != nil {
		return err
	}
	if r.shedRejections, err = r.meter.Int64Counter("reactorcore.loadshed.rejections",
		metric.WithDescription("Requests rejected by the load-shedding policy")); err != nil {
		return err
	}
	if r.queueSubmitErrs, err = r.meter.Int64Counter("reactorcore.queue.submit_errors",
		metric.WithDescription("StickyQueue submissions rejected because the queue was shutting down")); err != nil {
		return err
	}
	if r.droppedResponse, err = r.meter.Int64Counter("reactorcore.responses.dropped",
		metric.WithDescription("Responses computed by a worker but undeliverable because the stream had already closed")); err != nil {
		return err
	}
	return nil
}

// RecordRequest records one completed dispatch.
func (r *Recorder) RecordRequest(ctx context.Context, method, route string, status int, d time.Duration) {
	attrs := metric.WithAttributes(
		attribute.String("http.request.method", method),
		attribute.String("http.route", route),
		attribute.Int("http.response.status_code", status),
	)
	r.requestCount.Add(ctx, 1, attrs)
	r.requestDuration.Record(ctx, d.Seconds(), attrs)
}

// SetInFlight adjusts the in-flight gauge by delta (+1 on Acquire, -1 on Release).
func (r *Recorder) SetInFlight(ctx context.Context, delta int64) {
	r.inFlight.Add(ctx, delta)
}

// RecordWorkerPanic increments the recovered-panic counter.
func (r *Recorder) RecordWorkerPanic(ctx context.Context) {
	r.workerPanics.Add(ctx, 1)
}

// RecordShedRejection increments the load-shed rejection counter.
func (r *Recorder) RecordShedRejection(ctx context.Context) {
	r.shedRejections.Add(ctx, 1)
}

// RecordQueueSubmitError increments the post-shutdown submission counter.
func (r *Recorder) RecordQueueSubmitError(ctx context.Context) {
	r.queueSubmitErrs.Add(ctx, 1)
}

// RecordDroppedResponse increments the dropped-response counter: a
// worker finished computing a response, but the stream it was destined
// for had already closed.
func (r *Recorder) RecordDroppedResponse(ctx context.Context) {
	r.droppedResponse.Add(ctx, 1)
}

// Shutdown flushes and stops the exporter. Safe to call on a noop Recorder.
func (r *Recorder) Shutdown(ctx context.Context) error {
	if r.meterProvider == nil {
		return nil
	}
	return r.meterProvider.Shutdown(ctx)
}

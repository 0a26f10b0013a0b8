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

// Package logging builds the process's structured logger. Correlation
// fields from a tracecontext.Context are attached only to loggers
// derived through WithTrace; the logger New returns carries none.
package logging

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"

	"github.com/rivaas-dev/reactorcore/telemetry/semconv"
	"github.com/rivaas-dev/reactorcore/tracecontext"
)

// HandlerType selects the slog.Handler New wires up.
type HandlerType string

const (
	// JSONHandler emits structured JSON logs (the default — fit for
	// shipping to a log pipeline).
	JSONHandler HandlerType = "json"
	// TextHandler emits key=value text logs.
	TextHandler HandlerType = "text"
)

// Level aliases slog.Level so callers don't need to import log/slog
// just to set a level.
type Level = slog.Level

const (
	LevelDebug = slog.LevelDebug
	LevelInfo  = slog.LevelInfo
	LevelWarn  = slog.LevelWarn
	LevelError = slog.LevelError
)

// Config holds the logging configuration, immutable after New.
type Config struct {
	handlerType    HandlerType
	output         io.Writer
	level          Level
	serviceName    string
	serviceVersion string
	addSource      bool
	logger         *slog.Logger
}

// Option configures a Config at construction.
type Option func(*Config)

// WithHandlerType selects JSON or text output.
func WithHandlerType(t HandlerType) Option { return func(c *Config) { c.handlerType = t } }

// WithOutput sets the destination writer. Defaults to os.Stdout.
func WithOutput(w io.Writer) Option {
	return func(c *Config) {
		if w != nil {
			c.output = w
		}
	}
}

// WithLevel sets the minimum level logged.
func WithLevel(l Level) Option { return func(c *Config) { c.level = l } }

// WithServiceName tags every record with service.name.
func WithServiceName(name string) Option { return func(c *Config) { c.serviceName = name } }

// WithServiceVersion tags every record with service.version.
func WithServiceVersion(version string) Option {
	return func(c *Config) { c.serviceVersion = version }
}

// WithSource adds the source file:line of each log call.
func WithSource(enabled bool) Option { return func(c *Config) { c.addSource = enabled } }

func defaultConfig() *Config {
	return &Config{
		handlerType: JSONHandler,
		output:      os.Stdout,
		level:       slog.LevelInfo,
		serviceName: "reactorcore",
	}
}

// New builds a *slog.Logger tagged with serviceName/serviceVersion.
func New(opts ...Option) (*slog.Logger, error) {
	c := defaultConfig()
	for _, opt := range opts {
		opt(c)
	}

	handlerOpts := &slog.HandlerOptions{Level: c.level, AddSource: c.addSource}

	var handler slog.Handler
	switch c.handlerType {
	case JSONHandler:
		handler = slog.NewJSONHandler(c.output, handlerOpts)
	case TextHandler:
		handler = slog.NewTextHandler(c.output, handlerOpts)
	default:
		return nil, errors.New("logging: unknown handler type " + string(c.handlerType))
	}

	c.logger = slog.New(handler).With(
		semconv.ServiceName, c.serviceName,
		semconv.ServiceVersion, c.serviceVersion,
	)
	return c.logger, nil
}

// WithTrace returns a logger with trace_id/span_id attached from tc,
// so every subsequent record from that logger correlates with the
// span and message envelope it was handled under.
func WithTrace(logger *slog.Logger, tc tracecontext.Context) *slog.Logger {
	return logger.With(semconv.TraceID, tc.TraceID(), semconv.SpanID, tc.SpanID())
}

// LogPanic logs a recovered StickyQueue handler panic with its trace context.
func LogPanic(ctx context.Context, logger *slog.Logger, tc tracecontext.Context, recovered any) {
	WithTrace(logger, tc).ErrorContext(ctx, "handler panic recovered", "panic", recovered)
}

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

package config

import (
	"context"
	"fmt"
	"time"
)

// ServerConfig configures the HTTP/2 listener (h2server.Serve).
type ServerConfig struct {
	Addr              string        `config:"addr" default:"0.0.0.0:8443"`
	Cleartext         bool          `config:"cleartext" default:"false"`
	CertFile          string        `config:"cert_file"`
	KeyFile           string        `config:"key_file"`
	ReadHeaderTimeout time.Duration `config:"read_header_timeout" default:"10s"`
	ReadTimeout       time.Duration `config:"read_timeout" default:"30s"`
	WriteTimeout      time.Duration `config:"write_timeout" default:"30s"`
	IdleTimeout       time.Duration `config:"idle_timeout" default:"120s"`
	ShutdownTimeout   time.Duration `config:"shutdown_timeout" default:"15s"`
}

// ObservabilityConfig selects tracing/metrics/logging providers.
type ObservabilityConfig struct {
	ServiceName    string  `config:"service_name" default:"reactorcore"`
	ServiceVersion string  `config:"service_version" default:"0.0.0"`
	TracingBackend string  `config:"tracing_backend" default:"noop"`
	SampleRate     float64 `config:"sample_rate" default:"1.0"`
	OTLPEndpoint   string  `config:"otlp_endpoint"`
	OTLPInsecure   bool    `config:"otlp_insecure" default:"false"`
	MetricsBackend string  `config:"metrics_backend" default:"noop"`
	LogFormat      string  `config:"log_format" default:"json"`
	LogLevel       string  `config:"log_level" default:"info"`
}

// ResilienceConfig sizes the worker pool and the load shedder.
type ResilienceConfig struct {
	QueueWorkers        int `config:"queue_workers" default:"8"`
	QueueCapacityPerKey int `config:"queue_capacity_per_key" default:"64"`
	LoadShedMaxInFlight int `config:"loadshed_max_in_flight" default:"512"`
}

// AppConfig is the process's complete typed configuration, bound from
// layered defaults/file/env sources via Config.Load.
type AppConfig struct {
	Server        ServerConfig        `config:"server"`
	Observability ObservabilityConfig `config:"observability"`
	Resilience    ResilienceConfig    `config:"resilience"`
}

// Validate enforces cross-field invariants New's defaults/binding
// can't express through struct tags alone.
func (c *AppConfig) Validate() error {
	if !c.Server.Cleartext && (c.Server.CertFile == "" || c.Server.KeyFile == "") {
		return fmt.Errorf("config: server.cert_file and server.key_file are required unless server.cleartext is true")
	}
	if c.Resilience.QueueWorkers <= 0 {
		return fmt.Errorf("config: resilience.queue_workers must be positive")
	}
	if c.Resilience.LoadShedMaxInFlight <= 0 {
		return fmt.Errorf("config: resilience.loadshed_max_in_flight must be positive")
	}
	return nil
}

// Load builds an AppConfig from defaults, an optional file (path may
// be empty to skip it), and REACTORCORE_-prefixed environment
// variables, in that precedence order.
func Load(ctx context.Context, filePath string) (*AppConfig, error) {
	var cfg AppConfig
	opts := []Option{
		WithEnv("REACTORCORE_"),
		WithBinding(&cfg),
	}
	if filePath != "" {
		opts = append([]Option{WithFile(filePath)}, opts...)
	}

	c, err := New(opts...)
	if err != nil {
		return nil, err
	}
	if err := c.Load(ctx); err != nil {
		return nil, err
	}
	return &cfg, nil
}

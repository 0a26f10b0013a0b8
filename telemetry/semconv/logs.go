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

package semconv

// Service metadata constants, attached to the logger once at startup
// by logging.New.
const (
	// ServiceName identifies the service that generated the telemetry data.
	ServiceName = "service.name"

	// ServiceVersion identifies the version of the service instance.
	ServiceVersion = "service.version"
)

// HTTP attribute constants, attached per request by
// middleware/accesslog's "request handled" log line.
const (
	// HTTPMethod stores the HTTP request method.
	HTTPMethod = "http.method"

	// HTTPTarget stores the actual path requested.
	HTTPTarget = "http.target"

	// HTTPStatusCode stores the numeric status code returned to the client.
	HTTPStatusCode = "http.status_code"
)

// Trace correlation constants, attached by logging.WithTrace so a log
// line can be joined back to the span it was emitted under.
const (
	// TraceID stores the unique identifier for a distributed trace.
	TraceID = "trace_id"

	// SpanID stores the unique identifier for a span within a trace.
	SpanID = "span_id"
)

// RequestID stores the inbound X-Request-Id request header (empty when
// the client sent none), used for correlating a single request's log
// lines.
const RequestID = "req.id"

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

package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rivaas-dev/reactorcore/tracecontext"
)

func TestNewJSONHandlerEmitsServiceFields(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(WithOutput(&buf), WithServiceName("svc"), WithServiceVersion("1.2.3"))
	require.NoError(t, err)

	logger.Info("hello")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	require.Equal(t, "svc", entry["service.name"])
	require.Equal(t, "1.2.3", entry["service.version"])
	require.Equal(t, "hello", entry["msg"])
}

func TestWithTraceAttachesCorrelationFields(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(WithOutput(&buf))
	require.NoError(t, err)

	tc := tracecontext.New(tracecontext.FlagSampled)
	WithTrace(logger, tc).Info("traced")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	require.Equal(t, tc.TraceID(), entry["trace_id"])
	require.Equal(t, tc.SpanID(), entry["span_id"])
}

func TestLogPanicIncludesPanicValue(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(WithOutput(&buf))
	require.NoError(t, err)

	tc := tracecontext.New(0)
	LogPanic(context.Background(), logger, tc, "boom")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	require.Equal(t, "boom", entry["panic"])
}

func TestNewRejectsUnknownHandlerType(t *testing.T) {
	_, err := New(WithHandlerType("bogus"))
	require.Error(t, err)
}

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

package metrics

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNewNoopProviderRegistersInstruments(t *testing.T) {
	r, err := New()
	require.NoError(t, err)
	require.NotNil(t, r.requestCount)
	require.NotNil(t, r.requestDuration)
}

func TestRecordRequestDoesNotPanic(t *testing.T) {
	r, err := New()
	require.NoError(t, err)
	r.RecordRequest(context.Background(), "GET", "/x", 200, 5*time.Millisecond)
}

func TestInFlightAndShedCountersDoNotPanic(t *testing.T) {
	r, err := New()
	require.NoError(t, err)
	r.SetInFlight(context.Background(), 1)
	r.SetInFlight(context.Background(), -1)
	r.RecordShedRejection(context.Background())
	r.RecordWorkerPanic(context.Background())
	r.RecordQueueSubmitError(context.Background())
}

func TestNewRejectsUnknownProvider(t *testing.T) {
	_, err := New(WithProvider("bogus"))
	require.Error(t, err)
}

func TestShutdownOnNoopRecorderIsSafe(t *testing.T) {
	r, err := New()
	require.NoError(t, err)
	require.NoError(t, r.Shutdown(context.Background()))
}

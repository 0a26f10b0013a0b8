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

package app

import (
	"context"
	stderrors "errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/rivaas-dev/reactorcore/config"
	"github.com/rivaas-dev/reactorcore/errors"
	"github.com/rivaas-dev/reactorcore/internal/shortener"
)

var errFailingStartHook = stderrors.New("start hook failed")

func simpleFormatter(t *testing.T) *errors.Simple {
	t.Helper()
	return errors.NewSimple()
}

func testConfig(t *testing.T) *config.AppConfig {
	t.Helper()
	return &config.AppConfig{
		Server: config.ServerConfig{
			Addr:              "127.0.0.1:0",
			Cleartext:         true,
			ReadHeaderTimeout: time.Second,
			ReadTimeout:       time.Second,
			WriteTimeout:      time.Second,
			IdleTimeout:       time.Second,
			ShutdownTimeout:   time.Second,
		},
		Observability: config.ObservabilityConfig{
			ServiceName:    "reactorcore-test",
			ServiceVersion: "0.0.0-test",
			TracingBackend: "noop",
			MetricsBackend: "noop",
			LogFormat:      "json",
			LogLevel:       "error",
		},
		Resilience: config.ResilienceConfig{
			QueueWorkers:        2,
			QueueCapacityPerKey: 8,
			LoadShedMaxInFlight: 8,
		},
	}
}

func TestNewBuildsAnUnstartedApp(t *testing.T) {
	a, err := New(context.Background(), testConfig(t))
	require.NoError(t, err)
	require.NotNil(t, a.Router())
	require.NotNil(t, a.Logger())
}

func TestRouteDispatchesThroughQueueToHandler(t *testing.T) {
	a, err := New(context.Background(), testConfig(t))
	require.NoError(t, err)

	h := shortener.NewHandlers(shortener.NewInMemoryRepository(), 0, simpleFormatter(t))
	h.Register(a.Router())

	srv := httptest.NewServer(a.Handler())
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/shorten", "application/json", strings.NewReader(`{"url":"https://example.com"}`))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, 201, resp.StatusCode)
}

func TestOnStartHookFailureAbortsRun(t *testing.T) {
	a, err := New(context.Background(), testConfig(t))
	require.NoError(t, err)

	a.OnStart(func(context.Context) error {
		return errFailingStartHook
	})

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	err = a.Run(ctx)
	require.ErrorIs(t, err, errFailingStartHook)
}

func TestHooksCannotBeRegisteredAfterRunStarts(t *testing.T) {
	a, err := New(context.Background(), testConfig(t))
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	done := make(chan struct{})
	go func() {
		_ = a.Run(ctx)
		close(done)
	}()

	<-ctx.Done()
	<-done

	require.Panics(t, func() {
		a.OnStart(func(context.Context) error { return nil })
	})
}

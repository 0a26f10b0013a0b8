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
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type testConfig struct {
	Server struct {
		Port int           `config:"port" default:"8080"`
		Host string        `config:"host" default:"localhost"`
		TTL  time.Duration `config:"ttl" default:"5s"`
	} `config:"server"`
	Debug bool `config:"debug" default:"false"`
}

func TestLoadMergesDefaultsFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "app.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server:\n  port: 9090\n"), 0o600))

	t.Setenv("TESTAPP_DEBUG", "true")

	var cfg testConfig
	c, err := New(
		WithFile(path),
		WithEnv("TESTAPP_"),
		WithBinding(&cfg),
	)
	require.NoError(t, err)
	require.NoError(t, c.Load(context.Background()))

	require.Equal(t, 9090, cfg.Server.Port)
	require.Equal(t, "localhost", cfg.Server.Host) // default, untouched by file/env
	require.Equal(t, 5*time.Second, cfg.Server.TTL)
	require.True(t, cfg.Debug)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "app.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server:\n  port: 9090\n"), 0o600))

	t.Setenv("TESTAPP_SERVER_PORT", "7070")

	var cfg testConfig
	c, err := New(WithFile(path), WithEnv("TESTAPP_"), WithBinding(&cfg))
	require.NoError(t, err)
	require.NoError(t, c.Load(context.Background()))

	require.Equal(t, 7070, cfg.Server.Port)
}

func TestLoadMissingFileIsNotAnError(t *testing.T) {
	var cfg testConfig
	c, err := New(WithFile("/does/not/exist.yaml"), WithBinding(&cfg))
	require.NoError(t, err)
	require.NoError(t, c.Load(context.Background()))
	require.Equal(t, 8080, cfg.Server.Port)
}

func TestWithBindingRejectsNonPointer(t *testing.T) {
	_, err := New(WithBinding(testConfig{}))
	require.Error(t, err)
}

func TestGetAndGetOrResolveDottedKeys(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "app.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server:\n  port: 9090\n"), 0o600))

	c, err := New(WithFile(path))
	require.NoError(t, err)
	require.NoError(t, c.Load(context.Background()))

	require.Equal(t, 9090, Get[int](c, "server.port"))
	require.Equal(t, "fallback", GetOr(c, "server.missing", "fallback"))
}

func TestAppConfigValidateRequiresCertsUnlessCleartext(t *testing.T) {
	cfg := AppConfig{}
	cfg.Resilience.QueueWorkers = 8
	cfg.Resilience.LoadShedMaxInFlight = 512
	require.Error(t, cfg.Validate())

	cfg.Server.Cleartext = true
	require.NoError(t, cfg.Validate())
}

func TestLoadAppConfigAppliesDefaults(t *testing.T) {
	cfg, err := Load(context.Background(), "")
	require.NoError(t, err)
	require.Equal(t, "0.0.0.0:8443", cfg.Server.Addr)
	require.Equal(t, 8, cfg.Resilience.QueueWorkers)
	require.Equal(t, "noop", cfg.Observability.TracingBackend)
}

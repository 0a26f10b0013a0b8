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

// Command server runs the URL-shortener over HTTP/2: load config,
// build the app, register routes and middleware, and serve until an
// OS signal requests shutdown.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rivaas-dev/reactorcore/app"
	"github.com/rivaas-dev/reactorcore/config"
	"github.com/rivaas-dev/reactorcore/errors"
	"github.com/rivaas-dev/reactorcore/internal/shortener"
	"github.com/rivaas-dev/reactorcore/loadshed"
	"github.com/rivaas-dev/reactorcore/middleware/accesslog"
	"github.com/rivaas-dev/reactorcore/middleware/cors"
	"github.com/rivaas-dev/reactorcore/middleware/overload"
	"github.com/rivaas-dev/reactorcore/middleware/recovery"
	"github.com/rivaas-dev/reactorcore/middleware/requestid"
	"github.com/rivaas-dev/reactorcore/middleware/timeout"
	"github.com/rivaas-dev/reactorcore/openapi"
)

const linkTTL = 0 // generated links never expire by default

func main() {
	configPath := flag.String("config", "", "path to a config file (optional; env and defaults still apply)")
	flag.Parse()

	if err := run(*configPath); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx, configPath)
	if err != nil {
		return fmt.Errorf("server: loading config: %w", err)
	}

	a, err := app.New(ctx, cfg)
	if err != nil {
		return fmt.Errorf("server: building app: %w", err)
	}

	policy, err := loadshed.NewPolicy("http", cfg.Resilience.LoadShedMaxInFlight)
	if err != nil {
		return fmt.Errorf("server: building load-shed policy: %w", err)
	}

	r := a.Router()
	r.Use(recovery.New(recovery.WithLogger(a.Logger())))
	r.Use(requestid.New())
	r.Use(overload.New(policy))
	r.Use(timeout.New(timeout.WithDuration(cfg.Server.WriteTimeout), timeout.WithLogger(a.Logger())))
	r.Use(cors.New())
	r.Use(accesslog.New(accesslog.WithLogger(a.Logger()), accesslog.WithExcludePaths("/healthz")))

	problems := errors.NewRFC9457("https://reactorcore.invalid/problems")
	shortener.NewHandlers(shortener.NewInMemoryRepository(), linkTTL, problems).Register(r)

	doc := openapi.ShortenerDocument("reactorcore shortener", cfg.Observability.ServiceVersion)
	r.Handle("GET", "/openapi.json", openapi.Handler(doc))

	a.OnShutdown(func(shutdownCtx context.Context) {
		a.Logger().Info("draining in-flight requests", "timeout", cfg.Server.ShutdownTimeout)
	})

	return a.Run(ctx)
}

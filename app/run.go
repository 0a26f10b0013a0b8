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
	"fmt"

	"github.com/rivaas-dev/reactorcore/h2server"
)

// Run starts the listener and blocks until ctx is canceled (typically
// by signal.NotifyContext in the caller) or the listener fails to
// start. Run executes OnStart hooks first and aborts before listening
// if one fails; once the listener is accepting connections it fires
// OnReady hooks asynchronously. When ctx is canceled it runs
// OnShutdown hooks (LIFO, bounded by Server.ShutdownTimeout) while
// h2server.Serve drains in-flight streams, then shuts down the
// StickyQueue and the observability Provider, then runs OnStop hooks
// best-effort. Run must be called at most once.
func (a *App) Run(ctx context.Context) error {
	a.mu.Lock()
	if a.started {
		a.mu.Unlock()
		return fmt.Errorf("app: Run already called")
	}
	a.started = true
	a.mu.Unlock()

	if err := a.executeStartHooks(ctx); err != nil {
		return fmt.Errorf("app: start hook failed: %w", err)
	}

	timeouts := h2server.Timeouts{
		ReadHeader: a.cfg.Server.ReadHeaderTimeout,
		Read:       a.cfg.Server.ReadTimeout,
		Write:      a.cfg.Server.WriteTimeout,
		Idle:       a.cfg.Server.IdleTimeout,
		Shutdown:   a.cfg.Server.ShutdownTimeout,
	}

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- h2server.Serve(ctx, a.cfg.Server.Addr, a.handler, timeouts,
			a.cfg.Server.Cleartext, a.cfg.Server.CertFile, a.cfg.Server.KeyFile)
	}()

	a.executeReadyHooks()
	a.Logger().Info("app starting",
		"addr", a.cfg.Server.Addr,
		"cleartext", a.cfg.Server.Cleartext,
		"queue_workers", a.cfg.Resilience.QueueWorkers,
	)

	shutdownDone := make(chan struct{})
	go func() {
		defer close(shutdownDone)
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
		defer cancel()
		a.Logger().Info("app shutting down", "reason", ctx.Err())
		a.executeShutdownHooks(shutdownCtx)
	}()

	err := <-serveErr
	<-shutdownDone

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
	defer cancel()

	a.queue.Shutdown()
	if shutdownErr := a.observability.Shutdown(shutdownCtx); shutdownErr != nil {
		a.Logger().Warn("observability shutdown failed", "error", shutdownErr)
	}
	a.executeStopHooks()

	a.Logger().Info("app exited")
	return err
}

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
	"sync"
)

// Hooks stores the callbacks each lifecycle phase runs.
type Hooks struct {
	onStart    []func(context.Context) error // sequential, stops on first error
	onReady    []func()                      // async, panic-recovered
	onShutdown []func(context.Context)       // LIFO order
	onStop     []func()                      // best-effort, panic-recovered
	mu         sync.Mutex
}

func newHooks() *Hooks {
	return &Hooks{}
}

// OnStart registers a hook that runs before the server starts
// listening. OnStart hooks run sequentially; if any returns an error,
// Run aborts without starting the listener. Use this for
// initialization that must succeed (database connections, cache
// warmup, repository seeding).
func (a *App) OnStart(fn func(context.Context) error) {
	a.mustNotBeStarted()
	a.hooks.mu.Lock()
	defer a.hooks.mu.Unlock()
	a.hooks.onStart = append(a.hooks.onStart, fn)
}

// OnReady registers a hook that runs once the listener is accepting
// connections. OnReady hooks run asynchronously; a panic is recovered
// and logged, never crashes the process.
func (a *App) OnReady(fn func()) {
	a.mustNotBeStarted()
	a.hooks.mu.Lock()
	defer a.hooks.mu.Unlock()
	a.hooks.onReady = append(a.hooks.onReady, fn)
}

// OnShutdown registers a hook that runs during graceful shutdown, in
// LIFO order, with a context bounded by Server.ShutdownTimeout. Use
// this for cleanup that must complete within that budget.
func (a *App) OnShutdown(fn func(context.Context)) {
	a.mustNotBeStarted()
	a.hooks.mu.Lock()
	defer a.hooks.mu.Unlock()
	a.hooks.onShutdown = append(a.hooks.onShutdown, fn)
}

// OnStop registers a hook that runs after the queue and observability
// providers have shut down. OnStop hooks are best-effort: a panic is
// recovered and logged, and every hook still runs regardless of
// earlier ones panicking.
func (a *App) OnStop(fn func()) {
	a.mustNotBeStarted()
	a.hooks.mu.Lock()
	defer a.hooks.mu.Unlock()
	a.hooks.onStop = append(a.hooks.onStop, fn)
}

func (a *App) mustNotBeStarted() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.started {
		panic("app: cannot register hooks after Run has started")
	}
}

func (a *App) executeStartHooks(ctx context.Context) error {
	a.hooks.mu.Lock()
	hooks := make([]func(context.Context) error, len(a.hooks.onStart))
	copy(hooks, a.hooks.onStart)
	a.hooks.mu.Unlock()

	for i, hook := range hooks {
		if err := hook(ctx); err != nil {
			return fmt.Errorf("OnStart hook %d failed: %w", i, err)
		}
	}
	return nil
}

func (a *App) executeReadyHooks() {
	a.hooks.mu.Lock()
	hooks := make([]func(), len(a.hooks.onReady))
	copy(hooks, a.hooks.onReady)
	a.hooks.mu.Unlock()

	for _, hook := range hooks {
		go func(hook func()) {
			defer func() {
				if r := recover(); r != nil {
					a.Logger().Error("OnReady hook panic", "panic", r)
				}
			}()
			hook()
		}(hook)
	}
}

func (a *App) executeShutdownHooks(ctx context.Context) {
	a.hooks.mu.Lock()
	hooks := make([]func(context.Context), len(a.hooks.onShutdown))
	copy(hooks, a.hooks.onShutdown)
	a.hooks.mu.Unlock()

	for i := len(hooks) - 1; i >= 0; i-- {
		hooks[i](ctx)
	}
}

func (a *App) executeStopHooks() {
	a.hooks.mu.Lock()
	hooks := make([]func(), len(a.hooks.onStop))
	copy(hooks, a.hooks.onStop)
	a.hooks.mu.Unlock()

	for _, hook := range hooks {
		func(hook func()) {
			defer func() {
				if r := recover(); r != nil {
					a.Logger().Warn("OnStop hook panic", "panic", r)
				}
			}()
			hook()
		}(hook)
	}
}

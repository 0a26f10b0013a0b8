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

// Package loadshed implements a scoped concurrency permit: a Policy
// bounds the number of in-flight Guards, shedding load once the bound
// is reached rather than queuing or blocking.
package loadshed

import (
	"errors"
	"sync/atomic"
)

// ErrInvalidMaxConcurrent is returned by NewPolicy when max_concurrent < 1.
var ErrInvalidMaxConcurrent = errors.New("loadshed: max_concurrent must be >= 1")

// ErrShed is returned by Policy.Acquire when the in-flight count is
// already at the configured limit.
var ErrShed = errors.New("loadshed: shed")

// Policy bounds the number of concurrently held Guards.
type Policy struct {
	name          string
	maxConcurrent int64
	inFlight      atomic.Int64
}

// NewPolicy constructs a Policy. maxConcurrent must be >= 1; returns
// ErrInvalidMaxConcurrent otherwise.
func NewPolicy(name string, maxConcurrent int) (*Policy, error) {
	if maxConcurrent < 1 {
		return nil, ErrInvalidMaxConcurrent
	}
	return &Policy{name: name, maxConcurrent: int64(maxConcurrent)}, nil
}

// Name returns the policy's name, for metrics/log attribution.
func (p *Policy) Name() string { return p.name }

// MaxConcurrent returns the configured bound.
func (p *Policy) MaxConcurrent() int { return int(p.maxConcurrent) }

// InFlight returns the current number of held guards.
func (p *Policy) InFlight() int64 { return p.inFlight.Load() }

// Acquire attempts to take a permit. It returns ErrShed without
// acquiring anything if the in-flight count is already at the limit.
func (p *Policy) Acquire() (Guard, error) {
	for {
		current := p.inFlight.Load()
		if current >= p.maxConcurrent {
			return Guard{}, ErrShed
		}
		if p.inFlight.CompareAndSwap(current, current+1) {
			return Guard{policy: p, released: new(atomic.Bool)}, nil
		}
	}
}

// Guard is a scoped acquisition: exactly one Release occurs across its
// lifetime regardless of how many times it is copied or moved, and a
// zero-value (moved-from) Guard releases nothing. Guard is logically
// move-only: Go has no destructive move, so callers must not call
// Release on more than one live copy — Release itself is idempotent,
// which makes accidental double-copies harmless rather than
// double-releasing, and a self-move (copying a Guard over itself) is
// a no-op because "released" is shared by pointer.
type Guard struct {
	policy   *Policy
	released *atomic.Bool
}

// Release returns the permit. Safe to call multiple times, from
// multiple copies of the same Guard, or on a zero-value Guard.
func (g Guard) Release() {
	if g.policy == nil || g.released == nil {
		return
	}
	if g.released.CompareAndSwap(false, true) {
		g.policy.inFlight.Add(-1)
	}
}

// Valid reports whether g holds a live permit (false for a zero-value
// or already-released Guard).
func (g Guard) Valid() bool {
	return g.policy != nil && g.released != nil && !g.released.Load()
}

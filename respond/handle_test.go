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

package respond

import (
	"net/http"
	"sync"
	"sync/atomic"
	"testing"
)

// inlineReactor runs posted closures synchronously but records every
// post so tests can control ordering relative to MarkClosed.
type inlineReactor struct {
	mu    sync.Mutex
	posts []func()
}

func (r *inlineReactor) Post(fn func()) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.posts = append(r.posts, fn)
}

func (r *inlineReactor) runAll() {
	r.mu.Lock()
	posts := r.posts
	r.posts = nil
	r.mu.Unlock()
	for _, fn := range posts {
		fn()
	}
}

func TestSendAtMostOnce(t *testing.T) {
	var calls int32
	reactor := &inlineReactor{}
	h := New(reactor, func(status int, headers http.Header, body []byte) {
		atomic.AddInt32(&calls, 1)
	})

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			h.Send(200, http.Header{}, []byte("hi"))
		}()
	}
	wg.Wait()
	reactor.runAll()

	if calls != 1 {
		t.Fatalf("expected exactly one delivery, got %d", calls)
	}
}

func TestSendPostedBeforeMarkClosedDelivers(t *testing.T) {
	var delivered bool
	reactor := &inlineReactor{}
	h := New(reactor, func(status int, headers http.Header, body []byte) {
		delivered = true
	})
	h.Send(200, http.Header{}, nil)
	reactor.Post(h.MarkClosed) // the reactor runs MarkClosed after the earlier-posted send
	reactor.runAll()           // closure posted before MarkClosed still runs to completion
	if !delivered {
		t.Fatalf("send posted before mark_closed must deliver")
	}
}

func TestSendPostedAfterMarkClosedDrops(t *testing.T) {
	var delivered bool
	reactor := &inlineReactor{}
	h := New(reactor, func(status int, headers http.Header, body []byte) {
		delivered = true
	})
	h.MarkClosed()
	h.Send(200, http.Header{}, nil)
	reactor.runAll()
	if delivered {
		t.Fatalf("send posted after mark_closed must drop silently")
	}
}

type fakeResource struct {
	released atomic.Bool
}

func (f *fakeResource) Release() { f.released.Store(true) }

func TestMarkClosedReleasesScopedResourcesOnce(t *testing.T) {
	reactor := &inlineReactor{}
	h := New(reactor, func(int, http.Header, []byte) {})
	res := &fakeResource{}
	h.AttachScoped(res)
	h.MarkClosed()
	h.MarkClosed() // idempotent
	if !res.released.Load() {
		t.Fatalf("expected scoped resource to be released")
	}
}

func TestAttachScopedAfterDestroyReleasesImmediately(t *testing.T) {
	reactor := &inlineReactor{}
	h := New(reactor, func(int, http.Header, []byte) {})
	h.Destroy()
	res := &fakeResource{}
	h.AttachScoped(res)
	if !res.released.Load() {
		t.Fatalf("resource attached after destroy must release immediately")
	}
}

func TestDroppedHookFiresOnlyWhenSendFindsHandleDead(t *testing.T) {
	var dropped int32
	reactor := &inlineReactor{}
	h := New(reactor, func(int, http.Header, []byte) {}, WithDroppedHook(func() {
		atomic.AddInt32(&dropped, 1)
	}))

	h.MarkClosed()
	h.Send(200, http.Header{}, nil)
	reactor.runAll()

	if dropped != 1 {
		t.Fatalf("expected dropped hook to fire once, got %d", dropped)
	}
}

func TestDroppedHookDoesNotFireOnSuccessfulDelivery(t *testing.T) {
	var dropped int32
	reactor := &inlineReactor{}
	h := New(reactor, func(int, http.Header, []byte) {}, WithDroppedHook(func() {
		atomic.AddInt32(&dropped, 1)
	}))

	h.Send(200, http.Header{}, nil)
	reactor.runAll()

	if dropped != 0 {
		t.Fatalf("dropped hook must not fire on successful delivery, got %d", dropped)
	}
}

func TestIsAliveInitiallyTrue(t *testing.T) {
	h := New(&inlineReactor{}, func(int, http.Header, []byte) {})
	if !h.IsAlive() {
		t.Fatalf("handle should start alive")
	}
	h.MarkClosed()
	if h.IsAlive() {
		t.Fatalf("handle should be dead after mark_closed")
	}
}

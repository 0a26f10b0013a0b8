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

package router

import (
	"net/http"
	"testing"

	"github.com/rivaas-dev/reactorcore/corepipe"
	"github.com/rivaas-dev/reactorcore/respond"
)

type syncReactor struct{}

func (syncReactor) Post(fn func()) { fn() }

func newPair(method, path string) (corepipe.Request, corepipe.Response, *int, *[]byte) {
	data := corepipe.NewRequestData(method, path, nil, nil, nil)
	req := corepipe.NewRequest(corepipe.NewRequestDataRef(data))
	status := new(int)
	body := new([]byte)
	h := respond.New(syncReactor{}, func(s int, hdr http.Header, b []byte) {
		*status = s
		*body = b
	})
	resp := corepipe.NewResponse(h, nil)
	return req, resp, status, body
}

func TestStaticShadowsWildcard(t *testing.T) {
	r := New()
	var gotStaticParams, gotWildcardParams map[string]string

	r.Handle(http.MethodGet, "/users/profile", func(req corepipe.Request, resp corepipe.Response) {
		gotStaticParams = req.PathParams()
		resp.SetStatus(200)
		resp.Close()
	})
	r.Handle(http.MethodGet, "/users/:id", func(req corepipe.Request, resp corepipe.Response) {
		gotWildcardParams = req.PathParams()
		resp.SetStatus(200)
		resp.Close()
	})

	req, resp, status, _ := newPair(http.MethodGet, "/users/profile")
	r.Dispatch(http.MethodGet, "/users/profile", req, resp)
	if *status != 200 || len(gotStaticParams) != 0 {
		t.Fatalf("expected static route to win with empty params, got status=%d params=%v", *status, gotStaticParams)
	}

	req2, resp2, status2, _ := newPair(http.MethodGet, "/users/42")
	r.Dispatch(http.MethodGet, "/users/42", req2, resp2)
	if *status2 != 200 || gotWildcardParams["id"] != "42" {
		t.Fatalf("expected wildcard route with id=42, got status=%d params=%v", *status2, gotWildcardParams)
	}
}

func TestUnmatchedPathIs404(t *testing.T) {
	r := New()
	r.Handle(http.MethodGet, "/known", func(req corepipe.Request, resp corepipe.Response) {
		resp.SetStatus(200)
		resp.Close()
	})

	req, resp, status, body := newPair(http.MethodGet, "/unknown")
	r.Dispatch(http.MethodGet, "/unknown", req, resp)
	if *status != 404 || string(*body) != "Not Found" {
		t.Fatalf("expected 404 Not Found, got status=%d body=%q", *status, *body)
	}
}

func TestUnknownMethodIs404(t *testing.T) {
	r := New()
	r.Handle(http.MethodGet, "/known", func(req corepipe.Request, resp corepipe.Response) {
		resp.SetStatus(200)
		resp.Close()
	})

	req, resp, status, _ := newPair(http.MethodPost, "/known")
	r.Dispatch(http.MethodPost, "/known", req, resp)
	if *status != 404 {
		t.Fatalf("expected 404 for unregistered method, got %d", *status)
	}
}

func TestMiddlewareChainRunsInOrderAndTerminalLast(t *testing.T) {
	r := New()
	var order []string
	r.Use(func(req corepipe.Request, resp corepipe.Response, next func()) {
		order = append(order, "mw1")
		next()
	})
	r.Use(func(req corepipe.Request, resp corepipe.Response, next func()) {
		order = append(order, "mw2")
		next()
	})
	r.Handle(http.MethodGet, "/x", func(req corepipe.Request, resp corepipe.Response) {
		order = append(order, "terminal")
		resp.SetStatus(200)
		resp.Close()
	})

	req, resp, status, _ := newPair(http.MethodGet, "/x")
	r.Dispatch(http.MethodGet, "/x", req, resp)

	if *status != 200 {
		t.Fatalf("expected 200, got %d", *status)
	}
	want := []string{"mw1", "mw2", "terminal"}
	if len(order) != len(want) {
		t.Fatalf("expected order %v, got %v", want, order)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("expected order %v, got %v", want, order)
		}
	}
}

func TestMiddlewareShortCircuitSkipsTerminal(t *testing.T) {
	r := New()
	terminalCalled := false
	r.Use(func(req corepipe.Request, resp corepipe.Response, next func()) {
		resp.SetStatus(401)
		resp.Close()
		// next intentionally not called.
	})
	r.Handle(http.MethodGet, "/x", func(req corepipe.Request, resp corepipe.Response) {
		terminalCalled = true
	})

	req, resp, status, _ := newPair(http.MethodGet, "/x")
	r.Dispatch(http.MethodGet, "/x", req, resp)

	if terminalCalled {
		t.Fatalf("terminal handler must not run when a middleware short-circuits")
	}
	if *status != 401 {
		t.Fatalf("expected 401, got %d", *status)
	}
}

func TestLastWriterWinsOnReinsertion(t *testing.T) {
	r := New()
	r.Handle(http.MethodGet, "/x", func(req corepipe.Request, resp corepipe.Response) {
		resp.SetStatus(200)
		resp.Close()
	})
	r.Handle(http.MethodGet, "/x", func(req corepipe.Request, resp corepipe.Response) {
		resp.SetStatus(201)
		resp.Close()
	})

	req, resp, status, _ := newPair(http.MethodGet, "/x")
	r.Dispatch(http.MethodGet, "/x", req, resp)
	if *status != 201 {
		t.Fatalf("expected last-registered handler to win, got %d", *status)
	}
}

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

package corepipe

import (
	"net/http"
	"testing"

	"github.com/rivaas-dev/reactorcore/respond"
)

type syncReactor struct{}

func (syncReactor) Post(fn func()) { fn() }

func TestRequestAccessorsGracefulOnExpiry(t *testing.T) {
	data := NewRequestData("GET", "/users/42", nil,
		map[string]string{"Content-Type": "application/json"},
		map[string]string{"q": "1"})
	ref := NewRequestDataRef(data)
	req := NewRequest(ref)

	if req.Method() != "GET" || req.Path() != "/users/42" {
		t.Fatalf("unexpected live accessors: %+v", req)
	}
	if v, ok := req.Header("content-type"); !ok || v != "application/json" {
		t.Fatalf("expected case-insensitive header lookup, got %q, %v", v, ok)
	}

	ref.Expire()

	if req.Method() != "" || req.Path() != "" {
		t.Fatalf("expired request must yield empty strings")
	}
	if v, ok := req.Header("content-type"); ok || v != "" {
		t.Fatalf("expired request header lookup must fail gracefully")
	}
	if len(req.PathParams()) != 0 {
		t.Fatalf("expired request must yield empty path params")
	}
}

func TestSetPathParamsSilentOnExpiry(t *testing.T) {
	data := NewRequestData("GET", "/x", nil, nil, nil)
	ref := NewRequestDataRef(data)
	req := NewRequest(ref)
	ref.Expire()
	req.SetPathParams(map[string]string{"id": "1"}) // must not panic
	if len(req.PathParams()) != 0 {
		t.Fatalf("expired request must ignore SetPathParams")
	}
}

func TestResponseCloseDeliversStatusAndBody(t *testing.T) {
	var gotStatus int
	var gotBody []byte
	handle := respond.New(syncReactor{}, func(status int, headers http.Header, body []byte) {
		gotStatus = status
		gotBody = body
	})
	resp := NewResponse(handle, nil)
	resp.SetStatus(200)
	_, _ = resp.Write([]byte("hello"))
	resp.Close()

	if gotStatus != 200 || string(gotBody) != "hello" {
		t.Fatalf("unexpected delivery: status=%d body=%q", gotStatus, gotBody)
	}
}

func TestResponseCloseWithoutStatusDefaultsTo500(t *testing.T) {
	var gotStatus int
	handle := respond.New(syncReactor{}, func(status int, headers http.Header, body []byte) {
		gotStatus = status
	})
	resp := NewResponse(handle, nil)
	resp.Close()
	if gotStatus != 500 {
		t.Fatalf("expected 500 default status, got %d", gotStatus)
	}
}

func TestResponseCloseTwiceDeliversOnce(t *testing.T) {
	var calls int
	handle := respond.New(syncReactor{}, func(status int, headers http.Header, body []byte) {
		calls++
	})
	resp := NewResponse(handle, nil)
	resp.SetStatus(201)
	resp.Close()
	resp.Close()
	if calls != 1 {
		t.Fatalf("expected exactly one delivery, got %d", calls)
	}
}

func TestResponseWithNilHandleDropsSilently(t *testing.T) {
	resp := NewResponse(nil, nil)
	resp.SetStatus(200)
	resp.Close() // must not panic
	if !resp.Closed() {
		t.Fatalf("response should still be marked closed")
	}
}

func TestResponseCloneIsIndependent(t *testing.T) {
	var calls int
	handle := respond.New(syncReactor{}, func(status int, headers http.Header, body []byte) {
		calls++
	})
	original := NewResponse(handle, nil)
	original.SetStatus(200)
	clone := original.Clone()
	clone.SetStatus(404)

	original.Close()
	clone.Close()

	if calls != 1 {
		t.Fatalf("both copies commit, but the shared handle must deliver only the first send, got %d deliveries", calls)
	}
}

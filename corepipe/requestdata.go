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
	"strings"
	"sync"
	"sync/atomic"
)

// RequestData is owned exclusively by the stream context in the
// reactor. Request views never hold it directly — only through a
// RequestDataRef, so that once the reactor is done with a stream, every
// outstanding Request view degrades to empty reads rather than racing
// the reactor's teardown.
type RequestData struct {
	mu          sync.RWMutex
	method      string
	path        string
	body        []byte
	headers     map[string]string // keyed by lowercased header name
	headerCase  map[string]string // lowercased -> as-supplied casing, for iteration
	pathParams  map[string]string
	queryParams map[string]string
}

// NewRequestData constructs the reactor-owned backing store for one
// request. headers keys are case-folded internally; lookups are
// case-insensitive, matching HTTP header-name semantics.
func NewRequestData(method, path string, body []byte, headers, query map[string]string) *RequestData {
	d := &RequestData{
		method:      method,
		path:        path,
		body:        body,
		headers:     make(map[string]string, len(headers)),
		headerCase:  make(map[string]string, len(headers)),
		pathParams:  map[string]string{},
		queryParams: query,
	}
	if d.queryParams == nil {
		d.queryParams = map[string]string{}
	}
	for k, v := range headers {
		lk := strings.ToLower(k)
		d.headers[lk] = v
		d.headerCase[lk] = k
	}
	return d
}

// RequestDataRef is a weak-reference-style handle to a RequestData: it
// holds a plain strong pointer gated by an expired flag rather than an
// actual weak pointer, since the reactor (not the garbage collector)
// decides when the ref dies. Every accessor goes through get(), which
// returns ok=false once the reactor has expired the ref, so a worker
// outliving its stream reads zero values instead of racing freed
// reactor state.
type RequestDataRef struct {
	data    *RequestData
	expired atomic.Bool
}

func NewRequestDataRef(d *RequestData) *RequestDataRef {
	return &RequestDataRef{data: d}
}

// expire marks the ref dead. Called by the reactor on stream teardown.
func (r *RequestDataRef) Expire() {
	if r != nil {
		r.expired.Store(true)
	}
}

func (r *RequestDataRef) get() (*RequestData, bool) {
	if r == nil || r.expired.Load() {
		return nil, false
	}
	return r.data, true
}

func (d *RequestData) header(key string) (string, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	v, ok := d.headers[strings.ToLower(key)]
	return v, ok
}

func (d *RequestData) headersSnapshot() map[string]string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make(map[string]string, len(d.headers))
	for lk, v := range d.headers {
		out[d.headerCase[lk]] = v
	}
	return out
}

func (d *RequestData) queryParam(key string) (string, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	v, ok := d.queryParams[key]
	return v, ok
}

func (d *RequestData) pathParam(key string) (string, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	v, ok := d.pathParams[key]
	return v, ok
}

func (d *RequestData) pathParamsSnapshot() map[string]string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make(map[string]string, len(d.pathParams))
	for k, v := range d.pathParams {
		out[k] = v
	}
	return out
}

// setPathParams is the only mutation after the reactor's assembly
// phase: the router calls it once a route has matched.
func (d *RequestData) setPathParams(params map[string]string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.pathParams = params
}

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

// Request is a copyable view over reactor-owned RequestData. Every
// accessor is safe to call after the owning stream has gone away: it
// returns the empty value instead of failing.
type Request struct {
	ref *RequestDataRef
}

// NewRequest wraps a weak reference to backing request data. h2server
// is the only caller expected to construct one directly.
func NewRequest(ref *RequestDataRef) Request {
	return Request{ref: ref}
}

// Method returns the HTTP method, or "" if the request has expired.
func (r Request) Method() string {
	d, ok := r.ref.get()
	if !ok {
		return ""
	}
	return d.method
}

// Path returns the request path, or "" if expired.
func (r Request) Path() string {
	d, ok := r.ref.get()
	if !ok {
		return ""
	}
	return d.path
}

// Body returns the request body, or nil if expired.
func (r Request) Body() []byte {
	d, ok := r.ref.get()
	if !ok {
		return nil
	}
	return d.body
}

// Header performs a case-insensitive header lookup. Returns "", false
// if the header is absent or the request has expired.
func (r Request) Header(key string) (string, bool) {
	d, ok := r.ref.get()
	if !ok {
		return "", false
	}
	return d.header(key)
}

// Headers returns a snapshot of all headers, preserving supplied case
// on the keys. Returns an empty map if expired.
func (r Request) Headers() map[string]string {
	d, ok := r.ref.get()
	if !ok {
		return map[string]string{}
	}
	return d.headersSnapshot()
}

// PathParam returns a path parameter extracted by the router. Returns
// "", false if absent or expired.
func (r Request) PathParam(key string) (string, bool) {
	d, ok := r.ref.get()
	if !ok {
		return "", false
	}
	return d.pathParam(key)
}

// PathParams returns a snapshot of all path parameters.
func (r Request) PathParams() map[string]string {
	d, ok := r.ref.get()
	if !ok {
		return map[string]string{}
	}
	return d.pathParamsSnapshot()
}

// QueryParam returns a query parameter. Returns "", false if absent or expired.
func (r Request) QueryParam(key string) (string, bool) {
	d, ok := r.ref.get()
	if !ok {
		return "", false
	}
	return d.queryParam(key)
}

// SetPathParams mutates the backing request data's path parameters,
// through the weak reference if still live. Silent no-op if expired.
func (r Request) SetPathParams(params map[string]string) {
	d, ok := r.ref.get()
	if !ok {
		return
	}
	d.setPathParams(params)
}

// Alive reports whether the backing request data is still live. Races
// by nature — advisory only, like respond.Handle.IsAlive.
func (r Request) Alive() bool {
	_, ok := r.ref.get()
	return ok
}

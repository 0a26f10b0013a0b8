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
	"log/slog"
	"net/http"

	"github.com/rivaas-dev/reactorcore/respond"
)

// responseState is the mutable state behind one Response view. A plain
// copy of a Response shares it (the copy holds the same pointer), so
// writes through either copy are visible to both and Close commits
// once for all of them. Clone is the way to get a Response with its own
// state; callers must still hold a single logical owner per request.
type responseState struct {
	statusSet bool
	status    int
	headers   map[string]string
	body      []byte
	closed    bool
}

// Response is the copyable view a handler writes a response through.
// Close() is the single commit point: it posts status/headers/body to
// the bound respond.Handle (if still live) exactly once.
type Response struct {
	state  *responseState
	handle *respond.Handle
	logger *slog.Logger
}

// NewResponse constructs a Response bound to handle. logger may be nil
// (defaults to a discard logger).
func NewResponse(handle *respond.Handle, logger *slog.Logger) Response {
	if logger == nil {
		logger = NoopLogger()
	}
	return Response{
		state:  &responseState{headers: map[string]string{}},
		handle: handle,
		logger: logger,
	}
}

// Clone returns an independent copy: same bound Handle, but a fresh
// mutable state, so writes to the clone never affect the original and
// vice versa — each copy commits independently on its own Close. Both
// copies Send through the same Handle, which delivers only the first.
func (resp Response) Clone() Response {
	headers := make(map[string]string, len(resp.state.headers))
	for k, v := range resp.state.headers {
		headers[k] = v
	}
	return Response{
		state: &responseState{
			statusSet: resp.state.statusSet,
			status:    resp.state.status,
			headers:   headers,
			body:      append([]byte(nil), resp.state.body...),
			closed:    resp.state.closed,
		},
		handle: resp.handle,
		logger: resp.logger,
	}
}

// SetStatus records the status to deliver on Close.
func (resp Response) SetStatus(status int) {
	resp.state.statusSet = true
	resp.state.status = status
}

// SetHeader overwrites any existing value for key, preserving the case
// supplied by the caller.
func (resp Response) SetHeader(key, value string) {
	resp.state.headers[key] = value
}

// Write appends bytes to the response body buffer.
func (resp Response) Write(b []byte) (int, error) {
	resp.state.body = append(resp.state.body, b...)
	return len(b), nil
}

// AttachScoped delegates to the bound Handle.
func (resp Response) AttachScoped(r respond.Releasable) {
	if resp.handle != nil {
		resp.handle.AttachScoped(r)
	}
}

// Closed reports whether this Response copy has already committed.
func (resp Response) Closed() bool {
	return resp.state.closed
}

// Status returns the status recorded so far via SetStatus (0 if unset),
// letting middleware that runs after the handler (access logging,
// metrics) observe the outcome without needing its own wrapper type.
func (resp Response) Status() int {
	return resp.state.status
}

// BodySize returns the number of bytes written so far via Write.
func (resp Response) BodySize() int {
	return len(resp.state.body)
}

// Close is the single commit point. A second call on the same
// Response (or a Response sharing this state) is a no-op. Status
// unset at close delivers 500 with a warning log. If the bound
// Handle has gone, the commit is dropped silently with a debug log.
func (resp Response) Close() {
	if resp.state.closed {
		return
	}
	resp.state.closed = true

	if !resp.state.statusSet {
		resp.logger.Warn("response closed without explicit status; defaulting to 500")
		resp.state.status = http.StatusInternalServerError
	}

	if resp.handle == nil {
		resp.logger.Debug("response handle expired; dropping commit")
		return
	}

	hdr := make(http.Header, len(resp.state.headers))
	for k, v := range resp.state.headers {
		hdr.Set(k, v)
	}
	resp.handle.Send(resp.state.status, hdr, resp.state.body)
}

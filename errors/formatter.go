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

package errors

import (
	"encoding/json"
	"net/http"

	"github.com/rivaas-dev/reactorcore/corepipe"
)

// Formatter defines how errors are formatted into response components.
// Implementations are framework-agnostic: they work against this
// module's corepipe.Request/Response, not net/http directly.
type Formatter interface {
	// Format converts an error into response components. req is used
	// for the instance URI in RFC9457; implementations that don't need
	// it may ignore it.
	Format(req corepipe.Request, err error) Response
}

// Response represents a formatted error response.
type Response struct {
	// Status is the HTTP status code.
	Status int

	// ContentType is the Content-Type header value.
	ContentType string

	// Body is the response body, marshaled to JSON by Write.
	Body any

	// Headers contains additional headers to set (optional).
	Headers map[string]string
}

// Respond formats err with f and commits the result onto resp.
func Respond(f Formatter, req corepipe.Request, resp corepipe.Response, err error) {
	Write(resp, f.Format(req, err))
}

// Write marshals r.Body as JSON and commits it onto resp.
func Write(resp corepipe.Response, r Response) {
	resp.SetStatus(r.Status)
	resp.SetHeader("Content-Type", r.ContentType)
	for k, v := range r.Headers {
		resp.SetHeader(k, v)
	}
	if r.Body != nil {
		if b, err := json.Marshal(r.Body); err == nil {
			resp.Write(b)
		}
	}
	resp.Close()
}

// ErrorType allows errors to declare their own HTTP status code.
// Domain errors can optionally implement this interface to control
// their status code.
type ErrorType interface {
	error
	HTTPStatus() int
}

// ErrorDetails allows errors to provide additional structured
// information. Domain errors can implement this to expose field-level
// details (e.g. validation failures).
type ErrorDetails interface {
	error
	Details() any
}

// ErrorCode allows errors to provide a machine-readable code distinct
// from their human-readable message.
type ErrorCode interface {
	error
	Code() string
}

// NewRFC9457 creates a new RFC9457 formatter. baseURL is prepended to
// problem type slugs to create full URIs.
func NewRFC9457(baseURL string) *RFC9457 {
	return &RFC9457{BaseURL: baseURL}
}

// NewSimple creates a new Simple formatter.
func NewSimple() *Simple {
	return &Simple{}
}

// WithStatus wraps an error with an explicit HTTP status code, so it
// satisfies ErrorType without a dedicated named type. If err is nil,
// the status text for status is used as the message.
func WithStatus(err error, status int) error {
	return &statusError{err: err, status: status}
}

type statusError struct {
	err    error
	status int
}

func (e *statusError) Error() string {
	if e.err == nil {
		return http.StatusText(e.status)
	}
	return e.err.Error()
}

func (e *statusError) Unwrap() error { return e.err }

func (e *statusError) HTTPStatus() int { return e.status }

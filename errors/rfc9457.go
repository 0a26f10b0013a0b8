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
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/rivaas-dev/reactorcore/corepipe"
)

// RFC9457 formats errors as RFC 9457 Problem Details. It produces
// responses with Content-Type "application/problem+json".
type RFC9457 struct {
	// BaseURL is prepended to problem type slugs to create full URIs.
	BaseURL string

	// TypeResolver maps errors to problem type URIs. If nil, uses the
	// ErrorCode interface, falling back to "about:blank".
	TypeResolver func(err error) string

	// StatusResolver determines the HTTP status from an error. If nil,
	// uses the ErrorType interface, falling back to 500.
	StatusResolver func(err error) int

	// ErrorIDGenerator generates unique IDs for error tracking. If nil,
	// uses crypto/rand-backed generation.
	ErrorIDGenerator func() string

	// DisableErrorID disables automatic error ID generation.
	DisableErrorID bool
}

// ProblemDetail is an RFC 9457 problem detail: the standard fields
// plus arbitrary extensions merged inline on marshal.
type ProblemDetail struct {
	Type       string         `json:"type"`
	Title      string         `json:"title"`
	Status     int            `json:"status"`
	Detail     string         `json:"detail,omitempty"`
	Instance   string         `json:"instance,omitempty"`
	Extensions map[string]any `json:"-"`
}

// MarshalJSON merges Extensions inline while protecting the standard
// field names from being overwritten by a colliding extension key.
func (p ProblemDetail) MarshalJSON() ([]byte, error) {
	m := map[string]any{
		"type":   p.Type,
		"title":  p.Title,
		"status": p.Status,
	}
	if p.Detail != "" {
		m["detail"] = p.Detail
	}
	if p.Instance != "" {
		m["instance"] = p.Instance
	}
	for k, v := range p.Extensions {
		if k != "type" && k != "title" && k != "status" && k != "detail" && k != "instance" {
			m[k] = v
		}
	}
	return json.Marshal(m)
}

// Format converts err into an RFC 9457 Problem Details response. If
// err implements ErrorDetails or ErrorCode, those are merged in as
// extensions.
func (f *RFC9457) Format(req corepipe.Request, err error) Response {
	status := f.determineStatus(err)
	problemType := f.determineType(err)

	p := ProblemDetail{
		Type:       problemType,
		Title:      http.StatusText(status),
		Status:     status,
		Detail:     err.Error(),
		Instance:   req.Path(),
		Extensions: make(map[string]any),
	}

	if !f.DisableErrorID {
		idGen := f.ErrorIDGenerator
		if idGen == nil {
			idGen = generateErrorID
		}
		p.Extensions["error_id"] = idGen()
	}

	var detailed ErrorDetails
	if errors.As(err, &detailed) {
		p.Extensions["errors"] = detailed.Details()
	}

	var coded ErrorCode
	if errors.As(err, &coded) {
		p.Extensions["code"] = coded.Code()
	}

	return Response{
		Status:      status,
		ContentType: "application/problem+json; charset=utf-8",
		Body:        p,
	}
}

func (f *RFC9457) determineStatus(err error) int {
	if f.StatusResolver != nil {
		return f.StatusResolver(err)
	}
	var typed ErrorType
	if errors.As(err, &typed) {
		return typed.HTTPStatus()
	}
	return http.StatusInternalServerError
}

func (f *RFC9457) determineType(err error) string {
	if f.TypeResolver != nil {
		return f.TypeResolver(err)
	}
	var coded ErrorCode
	if errors.As(err, &coded) {
		code := coded.Code()
		if f.BaseURL != "" {
			return f.BaseURL + "/" + code
		}
		return code
	}
	return "about:blank"
}

// generateErrorID returns a crypto/rand-backed unique ID, falling back
// to a timestamp-based one if the system RNG is unavailable.
func generateErrorID() string {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return fmt.Sprintf("err-%d", time.Now().UnixNano())
	}
	return "err-" + hex.EncodeToString(b)
}

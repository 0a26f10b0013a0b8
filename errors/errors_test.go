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
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rivaas-dev/reactorcore/corepipe"
	"github.com/rivaas-dev/reactorcore/respond"
)

type syncReactor struct{}

func (syncReactor) Post(fn func()) { fn() }

func newPair(path string) (corepipe.Request, corepipe.Response, *int, *[]byte) {
	data := corepipe.NewRequestData(http.MethodGet, path, nil, nil, nil)
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

type validationError struct {
	fields map[string]any
}

func (e *validationError) Error() string   { return "validation failed" }
func (e *validationError) HTTPStatus() int { return http.StatusBadRequest }
func (e *validationError) Details() any    { return e.fields }
func (e *validationError) Code() string    { return "VALIDATION_ERROR" }

func TestRFC9457FormatPlainErrorDefaultsTo500(t *testing.T) {
	f := NewRFC9457("")
	req, _, _, _ := newPair("/widgets")

	resp := f.Format(req, errors.New("boom"))

	require.Equal(t, http.StatusInternalServerError, resp.Status)
	require.Equal(t, "application/problem+json; charset=utf-8", resp.ContentType)

	p, ok := resp.Body.(ProblemDetail)
	require.True(t, ok)
	require.Equal(t, "about:blank", p.Type)
	require.Equal(t, "boom", p.Detail)
	require.Equal(t, "/widgets", p.Instance)
	require.NotEmpty(t, p.Extensions["error_id"])
}

func TestRFC9457FormatEnrichesFromOptionalInterfaces(t *testing.T) {
	f := NewRFC9457("https://errors.example.com")
	req, _, _, _ := newPair("/widgets")

	err := &validationError{fields: map[string]any{"name": "required"}}
	resp := f.Format(req, err)

	require.Equal(t, http.StatusBadRequest, resp.Status)
	p, ok := resp.Body.(ProblemDetail)
	require.True(t, ok)
	require.Equal(t, "https://errors.example.com/VALIDATION_ERROR", p.Type)
	require.Equal(t, map[string]any{"name": "required"}, p.Extensions["errors"])
	require.Equal(t, "VALIDATION_ERROR", p.Extensions["code"])
}

func TestRFC9457DisableErrorIDOmitsExtension(t *testing.T) {
	f := &RFC9457{DisableErrorID: true}
	req, _, _, _ := newPair("/widgets")

	resp := f.Format(req, errors.New("boom"))
	p := resp.Body.(ProblemDetail)
	_, present := p.Extensions["error_id"]
	require.False(t, present)
}

func TestProblemDetailMarshalJSONProtectsReservedNames(t *testing.T) {
	p := ProblemDetail{
		Type:   "about:blank",
		Title:  "Internal Server Error",
		Status: 500,
		Extensions: map[string]any{
			"status": "should not override",
			"code":   "SOME_CODE",
		},
	}

	b, err := json.Marshal(p)
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal(b, &m))
	require.Equal(t, float64(500), m["status"])
	require.Equal(t, "SOME_CODE", m["code"])
}

func TestSimpleFormatIncludesDetailsAndCode(t *testing.T) {
	f := NewSimple()
	req, _, _, _ := newPair("/widgets")

	err := &validationError{fields: map[string]any{"name": "required"}}
	resp := f.Format(req, err)

	require.Equal(t, http.StatusBadRequest, resp.Status)
	require.Equal(t, "application/json; charset=utf-8", resp.ContentType)
	body := resp.Body.(map[string]any)
	require.Equal(t, "validation failed", body["error"])
	require.Equal(t, "VALIDATION_ERROR", body["code"])
}

func TestWithStatusWrapsNilError(t *testing.T) {
	err := WithStatus(nil, http.StatusNoContent)
	require.Equal(t, http.StatusText(http.StatusNoContent), err.Error())

	var typed ErrorType
	require.True(t, errors.As(err, &typed))
	require.Equal(t, http.StatusNoContent, typed.HTTPStatus())
}

func TestRespondCommitsFormattedResponseOntoResp(t *testing.T) {
	f := NewSimple()
	req, resp, status, body := newPair("/widgets")

	Respond(f, req, resp, WithStatus(errors.New("nope"), http.StatusNotFound))

	require.Equal(t, http.StatusNotFound, *status)
	var decoded map[string]any
	require.NoError(t, json.Unmarshal(*body, &decoded))
	require.Equal(t, "nope", decoded["error"])
}

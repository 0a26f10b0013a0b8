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

package cors

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rivaas-dev/reactorcore/corepipe"
	"github.com/rivaas-dev/reactorcore/respond"
)

type syncReactor struct{}

func (syncReactor) Post(fn func()) { fn() }

func newPair(method, path string, headers map[string]string) (corepipe.Request, corepipe.Response, *int, *http.Header) {
	data := corepipe.NewRequestData(method, path, nil, headers, nil)
	req := corepipe.NewRequest(corepipe.NewRequestDataRef(data))
	status := new(int)
	gotHeaders := new(http.Header)
	h := respond.New(syncReactor{}, func(s int, hdr http.Header, _ []byte) {
		*status = s
		*gotHeaders = hdr
	})
	resp := corepipe.NewResponse(h, nil)
	return req, resp, status, gotHeaders
}

func TestNoOriginHeaderPassesThroughUntouched(t *testing.T) {
	mw := New(WithAllowedOrigins("https://example.com"))
	req, resp, _, gotHeaders := newPair(http.MethodGet, "/x", nil)

	called := false
	mw(req, resp, func() { called = true; resp.SetStatus(200); resp.Close() })

	require.True(t, called)
	require.Empty(t, gotHeaders.Get("Access-Control-Allow-Origin"))
}

func TestAllowedOriginEchoedBack(t *testing.T) {
	mw := New(WithAllowedOrigins("https://example.com"))
	req, resp, _, gotHeaders := newPair(http.MethodGet, "/x", map[string]string{"Origin": "https://example.com"})

	mw(req, resp, func() { resp.SetStatus(200); resp.Close() })

	require.Equal(t, "https://example.com", gotHeaders.Get("Access-Control-Allow-Origin"))
}

func TestDisallowedOriginGetsNoCORSHeaders(t *testing.T) {
	mw := New(WithAllowedOrigins("https://example.com"))
	req, resp, _, gotHeaders := newPair(http.MethodGet, "/x", map[string]string{"Origin": "https://evil.example"})

	called := false
	mw(req, resp, func() { called = true; resp.SetStatus(200); resp.Close() })

	require.True(t, called)
	require.Empty(t, gotHeaders.Get("Access-Control-Allow-Origin"))
}

func TestPreflightShortCircuitsWith204(t *testing.T) {
	mw := New(WithAllowedOrigins("https://example.com"))
	req, resp, status, gotHeaders := newPair(http.MethodOptions, "/x", map[string]string{"Origin": "https://example.com"})

	called := false
	mw(req, resp, func() { called = true })

	require.False(t, called)
	require.Equal(t, http.StatusNoContent, *status)
	require.NotEmpty(t, gotHeaders.Get("Access-Control-Allow-Methods"))
}

func TestAllowAllOriginsWithCredentialsEchoesInsteadOfWildcard(t *testing.T) {
	mw := New(WithAllowAllOrigins(true), WithAllowCredentials(true))
	req, resp, _, gotHeaders := newPair(http.MethodGet, "/x", map[string]string{"Origin": "https://anywhere.example"})

	mw(req, resp, func() { resp.SetStatus(200); resp.Close() })

	require.Equal(t, "https://anywhere.example", gotHeaders.Get("Access-Control-Allow-Origin"))
	require.Equal(t, "true", gotHeaders.Get("Access-Control-Allow-Credentials"))
}

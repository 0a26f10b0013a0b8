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

package requestid

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rivaas-dev/reactorcore/corepipe"
	"github.com/rivaas-dev/reactorcore/respond"
)

type syncReactor struct{}

func (syncReactor) Post(fn func()) { fn() }

func newPairWithHeaders(path string, headers map[string]string) (corepipe.Request, corepipe.Response, *http.Header) {
	data := corepipe.NewRequestData(http.MethodGet, path, nil, headers, nil)
	req := corepipe.NewRequest(corepipe.NewRequestDataRef(data))
	gotHeaders := new(http.Header)
	h := respond.New(syncReactor{}, func(_ int, hdr http.Header, _ []byte) {
		*gotHeaders = hdr
	})
	resp := corepipe.NewResponse(h, nil)
	return req, resp, gotHeaders
}

func TestHonorsClientSuppliedRequestID(t *testing.T) {
	mw := New()
	req, resp, gotHeaders := newPairWithHeaders("/x", map[string]string{"X-Request-Id": "client-123"})

	mw(req, resp, func() { resp.SetStatus(200); resp.Close() })

	require.Equal(t, "client-123", gotHeaders.Get("X-Request-Id"))
}

func TestDerivesIDFromValidTraceparent(t *testing.T) {
	mw := New()
	traceparent := "00-4bf92f3577b34da6a3ce929d0e0e4736-00f067aa0ba902b7-01"
	req, resp, gotHeaders := newPairWithHeaders("/x", map[string]string{"traceparent": traceparent})

	mw(req, resp, func() { resp.SetStatus(200); resp.Close() })

	require.Equal(t, "00f067aa0ba902b7", gotHeaders.Get("X-Request-Id"))
}

func TestGeneratesFallbackIDWhenNothingPresent(t *testing.T) {
	mw := New()
	req, resp, gotHeaders := newPairWithHeaders("/x", nil)

	mw(req, resp, func() { resp.SetStatus(200); resp.Close() })

	require.NotEmpty(t, gotHeaders.Get("X-Request-Id"))
}

func TestWithAllowClientIDFalseIgnoresClientHeader(t *testing.T) {
	mw := New(WithAllowClientID(false))
	req, resp, gotHeaders := newPairWithHeaders("/x", map[string]string{"X-Request-Id": "client-123"})

	mw(req, resp, func() { resp.SetStatus(200); resp.Close() })

	require.NotEqual(t, "client-123", gotHeaders.Get("X-Request-Id"))
}

func TestWithULIDGeneratesFallback(t *testing.T) {
	mw := New(WithULID())
	req, resp, gotHeaders := newPairWithHeaders("/x", nil)

	mw(req, resp, func() { resp.SetStatus(200); resp.Close() })

	require.Len(t, gotHeaders.Get("X-Request-Id"), 26)
}

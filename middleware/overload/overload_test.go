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

package overload

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rivaas-dev/reactorcore/corepipe"
	"github.com/rivaas-dev/reactorcore/loadshed"
	"github.com/rivaas-dev/reactorcore/respond"
)

type syncReactor struct{}

func (syncReactor) Post(fn func()) { fn() }

func newPair(path string) (corepipe.Request, corepipe.Response, *int) {
	req, resp, status, _ := newPairWithHandle(path)
	return req, resp, status
}

func newPairWithHandle(path string) (corepipe.Request, corepipe.Response, *int, *respond.Handle) {
	data := corepipe.NewRequestData(http.MethodGet, path, nil, nil, nil)
	req := corepipe.NewRequest(corepipe.NewRequestDataRef(data))
	status := new(int)
	h := respond.New(syncReactor{}, func(s int, _ http.Header, _ []byte) { *status = s })
	resp := corepipe.NewResponse(h, nil)
	return req, resp, status, h
}

func TestAllowsRequestWhenUnderLimit(t *testing.T) {
	policy, err := loadshed.NewPolicy("test", 2)
	require.NoError(t, err)
	mw := New(policy)
	req, resp, status := newPair("/x")

	called := false
	mw(req, resp, func() { called = true; resp.SetStatus(200); resp.Close() })

	require.True(t, called)
	require.Equal(t, 200, *status)
}

func TestShedsWhenSaturated(t *testing.T) {
	policy, err := loadshed.NewPolicy("test", 1)
	require.NoError(t, err)
	held, err := policy.Acquire()
	require.NoError(t, err)
	defer held.Release()

	mw := New(policy)
	req, resp, status := newPair("/x")

	called := false
	mw(req, resp, func() { called = true })

	require.False(t, called)
	require.Equal(t, 503, *status)
}

func TestGuardReleasedWhenStreamTearsDown(t *testing.T) {
	policy, err := loadshed.NewPolicy("test", 1)
	require.NoError(t, err)
	mw := New(policy)
	req, resp, _, handle := newPairWithHandle("/x")

	mw(req, resp, func() { resp.SetStatus(200); resp.Close() })
	require.Equal(t, int64(1), policy.InFlight(), "guard is attached, released only on stream teardown")

	handle.MarkClosed()
	require.Equal(t, int64(0), policy.InFlight())
}

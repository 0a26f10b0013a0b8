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

// Package message defines the envelope submitted to the StickyQueue:
// an affinity key, a propagated trace context, and a closed variant of
// typed payloads. Grounded on UriMessages.h in the original
// implementation's affinity-key+payload shape.
package message

import (
	"github.com/rivaas-dev/reactorcore/corepipe"
	"github.com/rivaas-dev/reactorcore/tracecontext"
)

// Payload is a closed sum type over {HTTPRequest, DownstreamQuery,
// DownstreamResponse}. Adding a new payload kind requires adding a
// type here and extending every switch that dispatches on Payload.
type Payload interface {
	isPayload()
}

// HTTPRequest carries the Request/Response view pair for an inbound
// HTTP/2 request dispatched to a worker.
type HTTPRequest struct {
	Request  corepipe.Request
	Response corepipe.Response
}

func (HTTPRequest) isPayload() {}

// DownstreamQuery represents an outbound call this worker makes to a
// downstream collaborator (e.g. a repository lookup keyed by session).
type DownstreamQuery struct {
	Target string
	Body   []byte
}

func (DownstreamQuery) isPayload() {}

// DownstreamResponse represents the result of a previously dispatched
// DownstreamQuery, routed back to the worker that issued it.
type DownstreamResponse struct {
	Status int
	Body   []byte
	Err    error
}

func (DownstreamResponse) isPayload() {}

// Message is the envelope the StickyQueue transports: created on
// ingress, owned by the queue until dequeued, owned by the worker
// until handled.
type Message struct {
	AffinityKey uint64
	Trace       tracecontext.Context
	Payload     Payload
}

// New constructs a Message.
func New(affinityKey uint64, trace tracecontext.Context, payload Payload) Message {
	return Message{AffinityKey: affinityKey, Trace: trace, Payload: payload}
}

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

// Package h2server is the I/O reactor boundary: it adapts net/http's
// per-request goroutine model to the StickyQueue pipeline. Each
// inbound stream gets a corepipe.RequestData/respond.Handle pair, is
// wrapped in a message.Message and submitted by affinity key, and the
// goroutine that received the request blocks as its own respond.Reactor
// until the assigned worker commits a response or the stream closes.
//
// Grounded on the Serve/ServeTLS/WithH2C shape of the router package's
// router.go, generalized from a synchronous ServeHTTP dispatch to
// asynchronous delivery through a worker pool.
package h2server

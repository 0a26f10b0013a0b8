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

// Package openapi builds a static OpenAPI 3.0 document describing the
// routes a Router serves. Unlike a reflection-driven generator, routes
// describe themselves explicitly via Route/Response — there is no
// struct-tag scanning, since the three shortener endpoints are few
// enough to document by hand and explicit documentation doesn't drift
// silently when a handler's shape changes.
package openapi

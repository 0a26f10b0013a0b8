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

// Package shortener is the URL-shortener domain served over corepipe:
// value objects (ShortCode, OriginalURL), the Link aggregate, a
// Repository abstraction with an in-memory implementation, and the
// three use-cases (ShortenLink, ResolveLink, DeleteLink) the router
// wires up as handlers. Domain errors carry an ErrorKind, which
// Error.HTTPStatus maps to an HTTP status for the errors package's
// Problem Details formatter.
package shortener

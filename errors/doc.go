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

// Package errors formats domain errors as RFC 9457 Problem Details
// responses, framework-agnostic over this module's corepipe.Request
// rather than net/http's. Domain errors opt into richer responses by
// implementing ErrorType, ErrorDetails, and/or ErrorCode; an error
// implementing none of them still formats as a generic 500.
package errors

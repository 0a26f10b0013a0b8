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

package openapi

import (
	"encoding/json"

	"github.com/rivaas-dev/reactorcore/corepipe"
)

// Handler serves a fixed Document as JSON. The document is built once at
// startup and marshaled fresh on every request, since the shortener's
// route set never changes at runtime.
func Handler(doc Document) func(req corepipe.Request, resp corepipe.Response) {
	return func(_ corepipe.Request, resp corepipe.Response) {
		resp.SetStatus(200)
		resp.SetHeader("Content-Type", "application/json")
		body, err := json.Marshal(doc)
		if err != nil {
			resp.SetStatus(500)
			resp.Close()
			return
		}
		resp.Write(body)
		resp.Close()
	}
}

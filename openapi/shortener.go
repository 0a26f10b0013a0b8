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

// ShortenerDocument builds the static OpenAPI document describing the
// URL shortener's three routes: POST /shorten, GET /{code},
// DELETE /{code}.
func ShortenerDocument(title, version string, servers ...Server) Document {
	problemResponse := Response{
		Description: "Problem Details error response",
		Content: map[string]MediaTypeObj{
			"application/problem+json": {
				Schema: Schema{
					Type: "object",
					Properties: map[string]Schema{
						"type":     {Type: "string"},
						"title":    {Type: "string"},
						"status":   {Type: "integer"},
						"detail":   {Type: "string"},
						"instance": {Type: "string"},
					},
				},
			},
		},
	}

	return Document{
		OpenAPI: "3.0.4",
		Info:    Info{Title: title, Version: version, Description: "A session-affine HTTP/2 URL shortener."},
		Servers: servers,
		Paths: map[string]PathItem{
			"/shorten": {
				"post": Operation{
					Summary: "Shorten a URL",
					Tags:    []string{"links"},
					RequestBody: &RequestBody{
						Required: true,
						Content: map[string]MediaTypeObj{
							"application/json": {
								Schema: Schema{
									Type:       "object",
									Required:   []string{"url"},
									Properties: map[string]Schema{"url": {Type: "string", Format: "uri"}},
								},
							},
						},
					},
					Responses: map[string]Response{
						"201": {
							Description: "Link created",
							Content: map[string]MediaTypeObj{
								"application/json": {
									Schema: Schema{
										Type: "object",
										Properties: map[string]Schema{
											"short_code":   {Type: "string"},
											"original_url": {Type: "string", Format: "uri"},
										},
									},
								},
							},
						},
						"400": problemResponse,
					},
				},
			},
			"/{code}": {
				"get": Operation{
					Summary:    "Resolve a short code",
					Tags:       []string{"links"},
					Parameters: []Parameter{{Name: "code", In: "path", Required: true, Schema: Schema{Type: "string"}}},
					Responses: map[string]Response{
						"200": {
							Description: "Resolved URL",
							Content: map[string]MediaTypeObj{
								"application/json": {
									Schema: Schema{
										Type:       "object",
										Properties: map[string]Schema{"original_url": {Type: "string", Format: "uri"}},
									},
								},
							},
						},
						"404": problemResponse,
					},
				},
				"delete": Operation{
					Summary:    "Delete a short code",
					Tags:       []string{"links"},
					Parameters: []Parameter{{Name: "code", In: "path", Required: true, Schema: Schema{Type: "string"}}},
					Responses: map[string]Response{
						"204": {Description: "Link deleted"},
						"404": problemResponse,
					},
				},
			},
		},
	}
}

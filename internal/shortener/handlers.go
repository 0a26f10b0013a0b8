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

package shortener

import (
	"encoding/json"
	"time"

	"github.com/rivaas-dev/reactorcore/corepipe"
	"github.com/rivaas-dev/reactorcore/errors"
	"github.com/rivaas-dev/reactorcore/router"
)

// Handlers adapts the three use-cases to router.HandlerFunc, encoding
// requests/responses as JSON and routing domain errors through a
// shared errors.Formatter so transport-level shaping lives in one
// place.
type Handlers struct {
	shorten  *ShortenLink
	resolve  *ResolveLink
	delete   *DeleteLink
	problems errors.Formatter
}

// NewHandlers builds a Handlers backed by repo, minting links with the
// given ttl (zero means links never expire) and formatting errors with
// formatter.
func NewHandlers(repo Repository, ttl time.Duration, formatter errors.Formatter) *Handlers {
	return &Handlers{
		shorten:  NewShortenLink(repo, ttl),
		resolve:  NewResolveLink(repo),
		delete:   NewDeleteLink(repo),
		problems: formatter,
	}
}

// Register wires all three routes onto r.
func (h *Handlers) Register(r *router.Router) {
	r.Handle("POST", "/shorten", h.Shorten)
	r.Handle("GET", "/:code", h.Resolve)
	r.Handle("DELETE", "/:code", h.Delete)
}

type shortenRequestBody struct {
	URL string `json:"url"`
}

type shortenResponseBody struct {
	ShortCode   string `json:"short_code"`
	OriginalURL string `json:"original_url"`
}

// Shorten handles POST /shorten: decode {"url": "..."}, mint a code,
// respond 201 with the code and the URL it resolves to.
func (h *Handlers) Shorten(req corepipe.Request, resp corepipe.Response) {
	var body shortenRequestBody
	if err := json.Unmarshal(req.Body(), &body); err != nil {
		errors.Respond(h.problems, req, resp, NewError(ErrInvalidURL).WithFields(map[string]any{"body": "malformed JSON"}))
		return
	}

	out, err := h.shorten.Execute(ShortenLinkInput{URL: body.URL})
	if err != nil {
		errors.Respond(h.problems, req, resp, err)
		return
	}

	writeJSON(resp, 201, shortenResponseBody{ShortCode: out.ShortCode, OriginalURL: out.OriginalURL})
}

type resolveResponseBody struct {
	OriginalURL string `json:"original_url"`
}

// Resolve handles GET /{code}: look up the code's URL and respond 200
// with {"original_url"}, or respond with the mapped problem on failure.
func (h *Handlers) Resolve(req corepipe.Request, resp corepipe.Response) {
	code, _ := req.PathParam("code")

	out, err := h.resolve.Execute(ResolveLinkInput{ShortCode: code})
	if err != nil {
		errors.Respond(h.problems, req, resp, err)
		return
	}

	writeJSON(resp, 200, resolveResponseBody{OriginalURL: out.OriginalURL})
}

// Delete handles DELETE /{code}: remove the link and respond 204, or
// respond with the mapped problem if it doesn't exist.
func (h *Handlers) Delete(req corepipe.Request, resp corepipe.Response) {
	code, _ := req.PathParam("code")

	if err := h.delete.Execute(DeleteLinkInput{ShortCode: code}); err != nil {
		errors.Respond(h.problems, req, resp, err)
		return
	}

	resp.SetStatus(204)
	resp.Close()
}

func writeJSON(resp corepipe.Response, status int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		resp.SetStatus(500)
		resp.Close()
		return
	}
	resp.SetStatus(status)
	resp.SetHeader("Content-Type", "application/json")
	_, _ = resp.Write(body)
	resp.Close()
}

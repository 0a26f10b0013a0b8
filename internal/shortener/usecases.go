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

import "time"

const maxGenerationAttempts = 5

// ShortenLink mints a ShortCode for a submitted URL and persists the
// resulting Link.
type ShortenLink struct {
	repo Repository
	ttl  time.Duration
}

// NewShortenLink constructs a ShortenLink use-case. ttl of zero means
// generated links never expire.
func NewShortenLink(repo Repository, ttl time.Duration) *ShortenLink {
	return &ShortenLink{repo: repo, ttl: ttl}
}

// ShortenLinkInput is the raw URL to shorten.
type ShortenLinkInput struct {
	URL string
}

// ShortenLinkOutput is the minted code and the URL it resolves to.
type ShortenLinkOutput struct {
	ShortCode   string
	OriginalURL string
}

// Execute validates input.URL, generates a unique ShortCode, and
// persists the Link.
func (uc *ShortenLink) Execute(input ShortenLinkInput) (ShortenLinkOutput, error) {
	original, err := NewOriginalURL(input.URL)
	if err != nil {
		return ShortenLinkOutput{}, err
	}

	var code ShortCode
	for attempt := 0; ; attempt++ {
		candidate := GenerateShortCode()
		if !uc.repo.Exists(candidate) {
			code = candidate
			break
		}
		if attempt >= maxGenerationAttempts {
			return ShortenLinkOutput{}, NewError(ErrCodeGenerationFailed)
		}
	}

	link := NewLink(code, original, uc.ttl)
	if err := uc.repo.Save(link); err != nil {
		return ShortenLinkOutput{}, err
	}

	return ShortenLinkOutput{ShortCode: code.String(), OriginalURL: original.String()}, nil
}

// ResolveLink looks up the URL behind a ShortCode.
type ResolveLink struct {
	repo Repository
}

// NewResolveLink constructs a ResolveLink use-case.
func NewResolveLink(repo Repository) *ResolveLink {
	return &ResolveLink{repo: repo}
}

// ResolveLinkInput is the short code to resolve.
type ResolveLinkInput struct {
	ShortCode string
}

// ResolveLinkOutput is the URL the code resolves to.
type ResolveLinkOutput struct {
	OriginalURL string
}

// Execute validates input.ShortCode, finds its Link, and rejects
// expired links with ErrLinkExpired.
func (uc *ResolveLink) Execute(input ResolveLinkInput) (ResolveLinkOutput, error) {
	code, err := NewShortCode(input.ShortCode)
	if err != nil {
		return ResolveLinkOutput{}, err
	}

	link, err := uc.repo.FindByCode(code)
	if err != nil {
		return ResolveLinkOutput{}, err
	}

	if link.IsExpired() {
		return ResolveLinkOutput{}, NewError(ErrLinkExpired)
	}

	return ResolveLinkOutput{OriginalURL: link.Original.String()}, nil
}

// DeleteLink removes a Link by its ShortCode.
type DeleteLink struct {
	repo Repository
}

// NewDeleteLink constructs a DeleteLink use-case.
func NewDeleteLink(repo Repository) *DeleteLink {
	return &DeleteLink{repo: repo}
}

// DeleteLinkInput is the short code to delete.
type DeleteLinkInput struct {
	ShortCode string
}

// Execute validates input.ShortCode and removes the matching Link.
func (uc *DeleteLink) Execute(input DeleteLinkInput) error {
	code, err := NewShortCode(input.ShortCode)
	if err != nil {
		return err
	}
	return uc.repo.Remove(code)
}

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
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	urlValidator     *validator.Validate
	urlValidatorOnce sync.Once
)

func getURLValidator() *validator.Validate {
	urlValidatorOnce.Do(func() {
		urlValidator = validator.New(validator.WithRequiredStructEnabled())
	})
	return urlValidator
}

// urlHolder lets us reuse validator's "url" tag on a plain string
// without requiring callers to define their own struct.
type urlHolder struct {
	URL string `validate:"required,url"`
}

// OriginalURL is a validated http(s) URL a ShortCode resolves to.
type OriginalURL struct {
	value string
}

// NewOriginalURL validates raw and returns the corresponding
// OriginalURL, or an Error carrying ErrInvalidURL.
func NewOriginalURL(raw string) (OriginalURL, error) {
	if raw == "" {
		return OriginalURL{}, NewError(ErrInvalidURL)
	}
	if !strings.HasPrefix(raw, "http://") && !strings.HasPrefix(raw, "https://") {
		return OriginalURL{}, NewError(ErrInvalidURL)
	}
	if err := getURLValidator().Struct(urlHolder{URL: raw}); err != nil {
		return OriginalURL{}, NewError(ErrInvalidURL)
	}
	return OriginalURL{value: raw}, nil
}

// String returns the underlying URL.
func (u OriginalURL) String() string { return u.value }

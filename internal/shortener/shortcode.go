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

	"github.com/google/uuid"
)

const (
	minCodeLength = 4
	maxCodeLength = 16
)

// ShortCode is a validated short-link identifier: alphanumeric,
// between minCodeLength and maxCodeLength characters.
type ShortCode struct {
	value string
}

// NewShortCode validates raw and returns the corresponding ShortCode,
// or an Error carrying ErrInvalidShortCode.
func NewShortCode(raw string) (ShortCode, error) {
	if len(raw) < minCodeLength || len(raw) > maxCodeLength {
		return ShortCode{}, NewError(ErrInvalidShortCode)
	}
	for _, r := range raw {
		if !isAlnum(r) {
			return ShortCode{}, NewError(ErrInvalidShortCode)
		}
	}
	return ShortCode{value: raw}, nil
}

// GenerateShortCode mints a fresh, collision-resistant code from a
// UUID, taking its first maxCodeLength hex characters after stripping
// dashes.
func GenerateShortCode() ShortCode {
	raw := strings.ReplaceAll(uuid.NewString(), "-", "")
	return ShortCode{value: raw[:maxCodeLength]}
}

// String returns the underlying code.
func (c ShortCode) String() string { return c.value }

func isAlnum(r rune) bool {
	return (r >= '0' && r <= '9') || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

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

// Link binds a ShortCode to the OriginalURL it resolves to, with an
// optional expiration.
type Link struct {
	Code      ShortCode
	Original  OriginalURL
	CreatedAt time.Time
	ExpiresAt *time.Time // nil means the link never expires
}

// NewLink constructs a Link created now. ttl of zero means no expiration.
func NewLink(code ShortCode, original OriginalURL, ttl time.Duration) Link {
	l := Link{Code: code, Original: original, CreatedAt: time.Now()}
	if ttl > 0 {
		expiresAt := l.CreatedAt.Add(ttl)
		l.ExpiresAt = &expiresAt
	}
	return l
}

// IsExpired reports whether the link has passed its expiration, if any.
func (l Link) IsExpired() bool {
	return l.ExpiresAt != nil && time.Now().After(*l.ExpiresAt)
}

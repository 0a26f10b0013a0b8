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

import "net/http"

// ErrorKind enumerates the domain's error taxonomy, in pure domain
// terminology — no transport leakage.
type ErrorKind int

const (
	// ErrInvalidShortCode means a code doesn't meet the format requirements.
	ErrInvalidShortCode ErrorKind = iota
	// ErrInvalidURL means the submitted URL is malformed or unsupported.
	ErrInvalidURL
	// ErrLinkNotFound means no link exists for a given code.
	ErrLinkNotFound
	// ErrLinkExpired means a link exists but has expired.
	ErrLinkExpired
	// ErrLinkAlreadyExists means the generated/supplied code collided.
	ErrLinkAlreadyExists
	// ErrCodeGenerationFailed means a unique code could not be minted.
	ErrCodeGenerationFailed
)

func (k ErrorKind) String() string {
	switch k {
	case ErrInvalidShortCode:
		return "invalid short code format"
	case ErrInvalidURL:
		return "invalid URL format"
	case ErrLinkNotFound:
		return "link not found"
	case ErrLinkExpired:
		return "link has expired"
	case ErrLinkAlreadyExists:
		return "link already exists"
	case ErrCodeGenerationFailed:
		return "code generation failed"
	default:
		return "unknown error"
	}
}

// code returns the machine-readable code errors.RFC9457/Simple expose
// under the "code" extension.
func (k ErrorKind) code() string {
	switch k {
	case ErrInvalidShortCode:
		return "INVALID_SHORT_CODE"
	case ErrInvalidURL:
		return "INVALID_URL"
	case ErrLinkNotFound:
		return "LINK_NOT_FOUND"
	case ErrLinkExpired:
		return "LINK_EXPIRED"
	case ErrLinkAlreadyExists:
		return "LINK_ALREADY_EXISTS"
	case ErrCodeGenerationFailed:
		return "CODE_GENERATION_FAILED"
	default:
		return "UNKNOWN"
	}
}

func (k ErrorKind) httpStatus() int {
	switch k {
	case ErrInvalidShortCode, ErrInvalidURL:
		return http.StatusBadRequest
	case ErrLinkNotFound, ErrLinkExpired:
		return http.StatusNotFound
	case ErrLinkAlreadyExists:
		return http.StatusConflict
	case ErrCodeGenerationFailed:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

// Error wraps an ErrorKind with optional field-level detail, and
// implements the errors package's ErrorType/ErrorCode interfaces so
// errors.RFC9457/errors.Simple format it without a type switch.
type Error struct {
	Kind    ErrorKind
	Message string
	Fields  map[string]any
}

// NewError builds an Error for kind with its default message.
func NewError(kind ErrorKind) *Error {
	return &Error{Kind: kind, Message: kind.String()}
}

// WithFields attaches structured field-level detail (e.g. which input
// field failed validation) and returns e for chaining.
func (e *Error) WithFields(fields map[string]any) *Error {
	e.Fields = fields
	return e
}

func (e *Error) Error() string { return e.Message }

// HTTPStatus implements errors.ErrorType.
func (e *Error) HTTPStatus() int { return e.Kind.httpStatus() }

// Code implements errors.ErrorCode.
func (e *Error) Code() string { return e.Kind.code() }

// Details implements errors.ErrorDetails. Returns nil if no fields
// were attached.
func (e *Error) Details() any {
	if e.Fields == nil {
		return nil
	}
	return e.Fields
}

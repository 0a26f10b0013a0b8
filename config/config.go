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

package config

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"reflect"
	"time"

	"dario.cat/mergo"
	"github.com/go-viper/mapstructure/v2"
	"github.com/santhosh-tekuri/jsonschema/v6"
)

// Option configures a Config at construction.
type Option func(c *Config) error

// Config loads and merges configuration from layered sources, then
// optionally binds and validates the result. Safe for concurrent
// reads once Load has returned.
type Config struct {
	values           map[string]any
	sources          []Source
	binding          any
	tagName          string
	jsonSchema       *jsonschema.Schema
	customValidators []func(map[string]any) error

	decoderConfig *mapstructure.DecoderConfig
}

// WithSource adds a source to the load pipeline. Later-added sources
// override earlier ones on key conflict.
func WithSource(s Source) Option {
	return func(c *Config) error {
		if s == nil {
			return errors.New("config: source cannot be nil")
		}
		c.sources = append(c.sources, s)
		return nil
	}
}

// WithFile loads path, auto-detecting YAML/TOML/JSON from its
// extension. A missing file is treated as empty, not an error — the
// caller may rely on defaults and env vars alone.
func WithFile(path string) Option {
	return func(c *Config) error {
		src, err := NewFileSource(path)
		if err != nil {
			return NewError("file-source", "detect-format", err)
		}
		c.sources = append(c.sources, src)
		return nil
	}
}

// WithFileAs loads path using an explicit format, bypassing extension
// detection.
func WithFileAs(path string, format Format) Option {
	return func(c *Config) error {
		c.sources = append(c.sources, NewFileSourceAs(path, format))
		return nil
	}
}

// WithEnv loads environment variables starting with prefix, converting
// PREFIX_SERVER_PORT into the nested key server.port.
func WithEnv(prefix string) Option {
	return func(c *Config) error {
		c.sources = append(c.sources, NewEnvSource(prefix))
		return nil
	}
}

// WithBinding sets the struct Load binds the merged configuration
// onto. v must be a non-nil pointer.
func WithBinding(v any) Option {
	return func(c *Config) error {
		if v == nil {
			return errors.New("config: binding target cannot be nil")
		}
		if reflect.TypeOf(v).Kind() != reflect.Ptr {
			return errors.New("config: binding target must be a pointer")
		}
		c.binding = v
		return nil
	}
}

// WithTag sets the struct tag Load's binder reads (default "config").
func WithTag(tagName string) Option {
	return func(c *Config) error {
		if tagName == "" {
			return errors.New("config: tag name cannot be empty")
		}
		c.tagName = tagName
		return nil
	}
}

// WithJSONSchema compiles schema and validates the merged map against
// it during Load, before binding.
func WithJSONSchema(schema []byte) Option {
	return func(c *Config) error {
		compiler := jsonschema.NewCompiler()
		const resourceName = "inline.json"
		doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(schema))
		if err != nil {
			return err
		}
		if err := compiler.AddResource(resourceName, doc); err != nil {
			return err
		}
		compiled, err := compiler.Compile(resourceName)
		if err != nil {
			return err
		}
		c.jsonSchema = compiled
		return nil
	}
}

// WithValidator adds a custom validation function run against the
// merged map during Load, after JSON Schema validation.
func WithValidator(fn func(map[string]any) error) Option {
	return func(c *Config) error {
		c.customValidators = append(c.customValidators, fn)
		return nil
	}
}

// New applies options and returns the resulting Config. Errors from
// individual options are joined rather than short-circuited, so a
// caller can report every mistake in one pass.
func New(options ...Option) (*Config, error) {
	c := &Config{tagName: "config"}
	var errs error
	for _, opt := range options {
		if opt == nil {
			continue
		}
		if err := opt(c); err != nil {
			errs = errors.Join(errs, err)
		}
	}
	return c, errs
}

// MustNew is New, panicking on error. Intended for cmd/main wiring
// where a misconfigured process should fail fast and loud.
func MustNew(options ...Option) *Config {
	c, err := New(options...)
	if err != nil {
		panic(fmt.Sprintf("config: %v", err))
	}
	return c
}

// Load runs every source in order, merges the results (later sources
// win), validates, and — if WithBinding was used — decodes the merged
// map onto the bound struct.
func (c *Config) Load(ctx context.Context) error {
	merged := map[string]any{}
	for i, src := range c.sources {
		if err := ctx.Err(); err != nil {
			return err
		}
		values, err := src.Load(ctx)
		if err != nil {
			return NewError(fmt.Sprintf("source[%d]", i), "load", err)
		}
		if values == nil {
			continue
		}
		if err := mergo.Merge(&merged, values, mergo.WithOverride); err != nil {
			return NewError(fmt.Sprintf("source[%d]", i), "merge", err)
		}
	}
	c.values = merged

	if c.jsonSchema != nil {
		if err := c.jsonSchema.Validate(merged); err != nil {
			return NewError("json-schema", "validate", err)
		}
	}
	for _, fn := range c.customValidators {
		if err := fn(merged); err != nil {
			return NewError("custom-validator", "validate", err)
		}
	}

	if c.binding != nil {
		if err := c.bind(); err != nil {
			return NewError("binding", "bind", err)
		}
		if err := applyDefaults(c.binding); err != nil {
			return NewError("binding", "defaults", err)
		}
		if v, ok := c.binding.(Validator); ok {
			if err := v.Validate(); err != nil {
				return NewError("binding", "validate", err)
			}
		}
	}
	return nil
}

// Validator lets a bound struct validate its own invariants once
// binding completes.
type Validator interface {
	Validate() error
}

func (c *Config) bind() error {
	dc := &mapstructure.DecoderConfig{
		TagName:          c.tagName,
		Squash:           true,
		WeaklyTypedInput: true,
		Result:           c.binding,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
			mapstructure.StringToTimeHookFunc(time.RFC3339),
		),
	}
	decoder, err := mapstructure.NewDecoder(dc)
	if err != nil {
		return err
	}
	return decoder.Decode(c.values)
}

// getValueFromMap resolves a dot-separated key against the merged map.
func (c *Config) getValueFromMap(key string) any {
	if c.values == nil {
		return nil
	}
	var cur any = c.values
	for _, part := range splitDot(key) {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil
		}
		cur, ok = m[part]
		if !ok {
			return nil
		}
	}
	return cur
}

func splitDot(key string) []string {
	var parts []string
	start := 0
	for i := 0; i < len(key); i++ {
		if key[i] == '.' {
			parts = append(parts, key[start:i])
			start = i + 1
		}
	}
	return append(parts, key[start:])
}

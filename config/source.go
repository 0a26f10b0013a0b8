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
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Source loads configuration data from one place (a file, the
// environment, a literal map). Load must be safe to call concurrently
// and must return a map keyed by lowercase, dot-nestable field names.
type Source interface {
	Load(ctx context.Context) (map[string]any, error)
}

// fileSource loads and decodes a YAML/TOML/JSON file.
type fileSource struct {
	path   string
	format Format
}

// NewFileSource builds a Source that decodes path using the format
// detected from its extension.
func NewFileSource(path string) (Source, error) {
	format, err := detectFormat(path)
	if err != nil {
		return nil, err
	}
	return &fileSource{path: os.ExpandEnv(path), format: format}, nil
}

// NewFileSourceAs builds a Source that decodes path using an explicit
// format, bypassing extension detection.
func NewFileSourceAs(path string, format Format) Source {
	return &fileSource{path: os.ExpandEnv(path), format: format}
}

func (s *fileSource) Load(_ context.Context) (map[string]any, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]any{}, nil
		}
		return nil, err
	}
	return decode(data, s.format)
}

func decode(data []byte, format Format) (map[string]any, error) {
	out := map[string]any{}
	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(data, &out); err != nil {
			return nil, err
		}
	case FormatJSON:
		if len(data) == 0 {
			return out, nil
		}
		if err := json.Unmarshal(data, &out); err != nil {
			return nil, err
		}
	case FormatTOML:
		if err := toml.Unmarshal(data, &out); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("config: unsupported format %q", format)
	}
	return normalizeMapKeys(out), nil
}

// envSource loads environment variables sharing a prefix, converting
// PREFIX_SERVER_PORT into the nested key server.port.
type envSource struct {
	prefix string
}

// NewEnvSource builds a Source reading os.Environ, keeping only
// variables starting with prefix (stripped before further processing).
func NewEnvSource(prefix string) Source {
	return &envSource{prefix: prefix}
}

func (s *envSource) Load(_ context.Context) (map[string]any, error) {
	out := map[string]any{}
	for _, kv := range os.Environ() {
		if !strings.HasPrefix(kv, s.prefix) {
			continue
		}
		eq := strings.IndexByte(kv, '=')
		if eq < 0 {
			continue
		}
		key := strings.ToLower(strings.TrimPrefix(kv[:eq], s.prefix))
		value := kv[eq+1:]
		setNested(out, strings.Split(key, "_"), value)
	}
	return out, nil
}

func setNested(m map[string]any, path []string, value string) {
	if len(path) == 1 {
		m[path[0]] = value
		return
	}
	next, ok := m[path[0]].(map[string]any)
	if !ok {
		next = map[string]any{}
		m[path[0]] = next
	}
	setNested(next, path[1:], value)
}

func normalizeMapKeys(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		lk := strings.ToLower(k)
		if nested, ok := v.(map[string]any); ok {
			out[lk] = normalizeMapKeys(nested)
			continue
		}
		out[lk] = v
	}
	return out
}

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

import "github.com/spf13/cast"

// Get returns the value at key as type T, or the zero value of T if
// the key is absent or cannot be converted.
//
// Example:
//
//	port := config.Get[int](c, "server.port")
func Get[T any](c *Config, key string) T {
	var zero T
	if c == nil {
		return zero
	}
	v, ok := convert[T](c.getValueFromMap(key))
	if !ok {
		return zero
	}
	return v
}

// GetOr is Get, falling back to defaultVal instead of the zero value.
func GetOr[T any](c *Config, key string, defaultVal T) T {
	if c == nil {
		return defaultVal
	}
	v, ok := convert[T](c.getValueFromMap(key))
	if !ok {
		return defaultVal
	}
	return v
}

func convert[T any](val any) (T, bool) {
	var zero T
	if val == nil {
		return zero, false
	}
	if direct, ok := val.(T); ok {
		return direct, true
	}

	switch any(zero).(type) {
	case string:
		s, err := cast.ToStringE(val)
		if err != nil {
			return zero, false
		}
		return any(s).(T), true
	case int:
		i, err := cast.ToIntE(val)
		if err != nil {
			return zero, false
		}
		return any(i).(T), true
	case int64:
		i, err := cast.ToInt64E(val)
		if err != nil {
			return zero, false
		}
		return any(i).(T), true
	case float64:
		f, err := cast.ToFloat64E(val)
		if err != nil {
			return zero, false
		}
		return any(f).(T), true
	case bool:
		b, err := cast.ToBoolE(val)
		if err != nil {
			return zero, false
		}
		return any(b).(T), true
	}
	return zero, false
}

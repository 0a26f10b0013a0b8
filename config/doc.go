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

// Package config loads typed configuration from layered sources —
// defaults, an optional YAML/TOML/JSON file, then environment
// variables — merging later sources over earlier ones, then binds the
// merged map onto a caller-supplied struct via mapstructure and
// optionally validates it against a JSON Schema.
//
// Example:
//
//	var cfg AppConfig
//	c, err := config.New(
//		config.WithFile("config.yaml"),
//		config.WithEnv("REACTORCORE_"),
//		config.WithBinding(&cfg),
//	)
//	if err != nil {
//		log.Fatal(err)
//	}
//	if err := c.Load(ctx); err != nil {
//		log.Fatal(err)
//	}
package config

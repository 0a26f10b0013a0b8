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

package router

import (
	"strings"

	"github.com/rivaas-dev/reactorcore/corepipe"
)

// HandlerFunc is a terminal route handler.
type HandlerFunc func(req corepipe.Request, resp corepipe.Response)

// node is one level of the per-method trie: a map of static children
// keyed by raw segment, a single optional wildcard child whose
// parameter name is recorded separately, and an optional terminal
// handler.
type node struct {
	children    map[string]*node
	wildcard    *node
	wildcardKey string // parameter name, without the leading ':'
	handler     HandlerFunc
}

func newNode() *node {
	return &node{children: make(map[string]*node)}
}

// splitPath splits a request path on '/', discarding empty segments
// (so "/users//42/" and "/users/42" split identically).
func splitPath(path string) []string {
	raw := strings.Split(path, "/")
	segments := make([]string, 0, len(raw))
	for _, s := range raw {
		if s != "" {
			segments = append(segments, s)
		}
	}
	return segments
}

// insert walks/creates nodes for segments and stores handler at the
// leaf. Overwriting an existing handler at the same leaf is
// last-writer-wins.
func (n *node) insert(segments []string, handler HandlerFunc) {
	cur := n
	for _, seg := range segments {
		if strings.HasPrefix(seg, ":") {
			paramName := seg[1:]
			if cur.wildcard == nil {
				cur.wildcard = newNode()
				cur.wildcardKey = paramName
			}
			cur = cur.wildcard
		} else {
			child, ok := cur.children[seg]
			if !ok {
				child = newNode()
				cur.children[seg] = child
			}
			cur = child
		}
	}
	cur.handler = handler
}

// match walks segments from n, preferring a static child over the
// wildcard child at every level (static shadows wildcard). Returns the
// terminal handler and any extracted path parameters, or ok=false if
// no route matches.
func (n *node) match(segments []string) (HandlerFunc, map[string]string, bool) {
	cur := n
	var params map[string]string
	for _, seg := range segments {
		if child, ok := cur.children[seg]; ok {
			cur = child
			continue
		}
		if cur.wildcard != nil {
			if params == nil {
				params = make(map[string]string)
			}
			params[cur.wildcardKey] = seg
			cur = cur.wildcard
			continue
		}
		return nil, nil, false
	}
	if cur.handler == nil {
		return nil, nil, false
	}
	if params == nil {
		params = map[string]string{}
	}
	return cur.handler, params, true
}

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

package tracecontext

import "testing"

func TestRoundTrip(t *testing.T) {
	const header = "00-0af7651916cd43dd8448eb211c80319c-b7ad6b7169203331-01"
	ctx, ok := TryParse(header)
	if !ok {
		t.Fatalf("expected %q to parse", header)
	}
	if got := ctx.String(); got != header {
		t.Fatalf("round-trip mismatch: got %q want %q", got, header)
	}
	if ctx.TraceID() != "0af7651916cd43dd8448eb211c80319c" {
		t.Fatalf("unexpected trace id: %s", ctx.TraceID())
	}
	if ctx.SpanID() != "b7ad6b7169203331" {
		t.Fatalf("unexpected span id: %s", ctx.SpanID())
	}
	if !ctx.Sampled() {
		t.Fatalf("expected sampled flag")
	}
}

func TestParseMalformedFallsBackToRoot(t *testing.T) {
	for _, bad := range []string{
		"",
		"not-a-traceparent",
		"01-0af7651916cd43dd8448eb211c80319c-b7ad6b7169203331-01", // wrong version
		"00-00000000000000000000000000000000-b7ad6b7169203331-01", // zero trace-id
		"00-short-b7ad6b7169203331-01",
	} {
		ctx := Parse(bad)
		if !ctx.IsValid() {
			t.Fatalf("Parse(%q) should fall back to a valid root context", bad)
		}
	}
}

func TestChildSharesTraceIDFreshSpanID(t *testing.T) {
	parent := New(FlagSampled)
	child := parent.Child()
	if child.TraceID() != parent.TraceID() {
		t.Fatalf("child trace id %s != parent %s", child.TraceID(), parent.TraceID())
	}
	if child.SpanID() == parent.SpanID() {
		t.Fatalf("child span id must differ from parent")
	}
	if child.Flags() != parent.Flags() {
		t.Fatalf("child flags should be copied from parent")
	}
}

func TestBaggagePropagatesToChildren(t *testing.T) {
	parent := New(0).WithBaggage("tenant", "acme")
	child := parent.Child()
	v, ok := child.Baggage("tenant")
	if !ok || v != "acme" {
		t.Fatalf("expected baggage to propagate to child, got %q, %v", v, ok)
	}
}

func TestNewIsNonZero(t *testing.T) {
	ctx := New(0)
	if !ctx.IsValid() {
		t.Fatalf("New() must produce a valid (non-zero trace-id) context")
	}
}

func FuzzParseRoundTrip(f *testing.F) {
	f.Add("00-0af7651916cd43dd8448eb211c80319c-b7ad6b7169203331-01")
	f.Fuzz(func(t *testing.T, header string) {
		ctx, ok := TryParse(header)
		if !ok {
			return
		}
		if ctx.String() != header {
			t.Fatalf("non-canonical parse/serialize round trip: %q -> %q", header, ctx.String())
		}
	})
}

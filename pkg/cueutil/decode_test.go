// SPDX-License-Identifier: MPL-2.0

package cueutil

import (
	"strings"
	"testing"
)

const testSchema = `
#Doc: {
	name:   string & !=""
	count?: int & >=0
	mode?:  "a" | "b"
}
`

type testDoc struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func TestDecode(t *testing.T) {
	t.Parallel()

	res, err := Decode[testDoc]([]byte(testSchema), []byte(`name: "x", count: 3`), "#Doc", WithFilename("doc.cue"))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if res.Value.Name != "x" || res.Value.Count != 3 {
		t.Errorf("Decode() = %+v", res.Value)
	}
}

func TestDecodeErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		data    string
		opts    []Option
		wantSub string
	}{
		{name: "syntax error", data: `name: `, wantSub: "doc.cue"},
		{name: "unknown field", data: `name: "x", extra: 1`, wantSub: "extra"},
		{name: "constraint violation", data: `name: "x", count: -1`, wantSub: "count"},
		{name: "bad disjunction", data: `name: "x", mode: "c"`, wantSub: "mode"},
		{name: "too large", data: `name: "x"`, opts: []Option{WithMaxFileSize(3)}, wantSub: "exceeds maximum"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			opts := append([]Option{WithFilename("doc.cue")}, tt.opts...)
			_, err := Decode[testDoc]([]byte(testSchema), []byte(tt.data), "#Doc", opts...)
			if err == nil {
				t.Fatal("Decode() error = nil")
			}
			if !strings.Contains(err.Error(), tt.wantSub) {
				t.Errorf("Decode() error = %q, want substring %q", err, tt.wantSub)
			}
		})
	}
}

func TestDecodeNonConcrete(t *testing.T) {
	t.Parallel()

	res, err := Decode[map[string]any]([]byte(testSchema), []byte(`name: "x"`), "#Doc", WithConcrete(false))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if (*res.Value)["name"] != "x" {
		t.Errorf("Decode() = %v", *res.Value)
	}
	if _, ok := (*res.Value)["count"]; ok {
		t.Error("optional field should be absent")
	}
}

func TestDecodeMissingDefinition(t *testing.T) {
	t.Parallel()

	if _, err := Decode[testDoc]([]byte(testSchema), []byte(`name: "x"`), "#Missing"); err == nil {
		t.Error("Decode() with unknown definition should fail")
	}
}

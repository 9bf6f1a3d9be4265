// SPDX-License-Identifier: MPL-2.0

package gbmap

import (
	"bytes"
	"errors"
	"slices"
	"testing"
)

func TestEncodeBytes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		blob []byte
		want []string
	}{
		{name: "empty", blob: nil, want: []string{}},
		{name: "small values", blob: []byte{1, 2, 3}, want: []string{"1", "2", "3"}},
		{name: "bounds", blob: []byte{0, 9, 10, 99, 100, 255}, want: []string{"0", "9", "10", "99", "100", "255"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := EncodeBytes(tt.blob); !slices.Equal(got, tt.want) {
				t.Errorf("EncodeBytes(%v) = %q, want %q", tt.blob, got, tt.want)
			}
		})
	}
}

func TestAppendEncoded(t *testing.T) {
	t.Parallel()

	got := AppendEncoded([]byte("x\n"), []byte{7, 200})
	if want := "x\n7\n200\n"; string(got) != want {
		t.Errorf("AppendEncoded() = %q, want %q", got, want)
	}
	if got := AppendEncoded(nil, nil); len(got) != 0 {
		t.Errorf("AppendEncoded(nil, nil) = %q, want empty", got)
	}
}

func TestDecodeBytesRoundTrip(t *testing.T) {
	t.Parallel()

	all := make([]byte, 256)
	for i := range all {
		all[i] = byte(i)
	}

	for _, blob := range [][]byte{{}, {0}, {255}, {10, 20}, all} {
		got, err := DecodeBytes(EncodeBytes(blob))
		if err != nil {
			t.Fatalf("DecodeBytes(EncodeBytes(%v)) error = %v", blob, err)
		}
		if !bytes.Equal(got, blob) {
			t.Errorf("round trip of %v = %v", blob, got)
		}
	}
}

func TestDecodeBytesMalformed(t *testing.T) {
	t.Parallel()

	for _, line := range []string{"256", "-1", "+1", "abc", "", " 1", "1.0", "0x10"} {
		t.Run(line, func(t *testing.T) {
			t.Parallel()

			_, err := DecodeBytes([]string{"1", line})
			if !errors.Is(err, ErrMalformedByteLine) {
				t.Fatalf("DecodeBytes(%q) error = %v, want ErrMalformedByteLine", line, err)
			}
			var mbl *MalformedByteLineError
			if !errors.As(err, &mbl) {
				t.Fatalf("DecodeBytes(%q) error is not *MalformedByteLineError", line)
			}
			if mbl.Index != 1 || mbl.Text != line {
				t.Errorf("MalformedByteLineError = {%d %q}, want {1 %q}", mbl.Index, mbl.Text, line)
			}
		})
	}
}

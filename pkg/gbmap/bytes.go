// SPDX-License-Identifier: MPL-2.0

package gbmap

import "strconv"

// EncodeBytes returns one decimal text line per byte of blob.
// An empty blob yields no lines.
func EncodeBytes(blob []byte) []string {
	lines := make([]string, len(blob))
	for i, b := range blob {
		lines[i] = strconv.Itoa(int(b))
	}
	return lines
}

// AppendEncoded appends the decimal encoding of blob to dst, each value
// followed by a newline, and returns the extended buffer.
func AppendEncoded(dst, blob []byte) []byte {
	for _, b := range blob {
		dst = strconv.AppendUint(dst, uint64(b), 10)
		dst = append(dst, '\n')
	}
	return dst
}

// DecodeBytes is the inverse of EncodeBytes. Every line must be an unsigned
// decimal integer in the range 0-255.
func DecodeBytes(lines []string) ([]byte, error) {
	blob := make([]byte, len(lines))
	for i, line := range lines {
		v, err := strconv.ParseUint(line, 10, 8)
		if err != nil {
			return nil, &MalformedByteLineError{Index: i, Text: line, Cause: err}
		}
		blob[i] = byte(v)
	}
	return blob, nil
}

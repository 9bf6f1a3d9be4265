// SPDX-License-Identifier: MPL-2.0

package assets

import (
	"bytes"
	"errors"
	"fmt"
	"image/jpeg"
	"image/png"
	"path/filepath"
	"strings"
)

var (
	// ErrUnsupportedTexture is returned for a texture file whose extension has
	// no decoder.
	ErrUnsupportedTexture = errors.New("unsupported texture format")
	// ErrInvalidTexture is returned by Gather when a texture cannot be decoded.
	ErrInvalidTexture = errors.New("invalid texture")
)

type (
	// TextureDecoder turns the contents of a texture source file into the
	// bytes stored in the container.
	TextureDecoder interface {
		// Supports reports whether files with the given lower-case
		// extension (including the dot) can be decoded.
		Supports(ext string) bool
		Decode(name string, data []byte) ([]byte, error)
	}

	// PNGTextures stores PNG sources verbatim and re-encodes JPEG sources
	// as PNG in memory.
	PNGTextures struct{}
)

// Supports implements TextureDecoder.
func (PNGTextures) Supports(ext string) bool {
	switch ext {
	case ".png", ".jpg", ".jpeg":
		return true
	default:
		return false
	}
}

// Decode implements TextureDecoder.
func (PNGTextures) Decode(name string, data []byte) ([]byte, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".png":
		return data, nil
	case ".jpg", ".jpeg":
		img, err := jpeg.Decode(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("decode %s: %w", name, err)
		}
		var buf bytes.Buffer
		if err := png.Encode(&buf, img); err != nil {
			return nil, fmt.Errorf("encode %s as png: %w", name, err)
		}
		return buf.Bytes(), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedTexture, name)
	}
}

// textureName is the file name without its extension. Dot files such as
// ".png" keep their full name.
func textureName(file string) string {
	ext := filepath.Ext(file)
	if ext == file {
		return file
	}
	return strings.TrimSuffix(file, ext)
}

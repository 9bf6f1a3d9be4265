// SPDX-License-Identifier: MPL-2.0

package gbmap

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// maxLineSize bounds a single container line. Map cube lines are the only
// long ones.
const maxLineSize = 16 << 20

type (
	// Container is a parsed GBMAP container.
	Container struct {
		Version      string
		Name         string
		Description  string
		MapCubeCount int
		TextureCount int
		// Metadata holds the passthrough metadata lines without terminators.
		Metadata []string
		Icon     []byte
		Banner   []byte
		Textures []NamedTexture
		// MapCubeLines holds the concatenated map cube blocks without
		// terminators. Block boundaries are not recorded in the container.
		MapCubeLines []string
	}

	lineReader struct {
		sc   *bufio.Scanner
		line int
	}
)

// Read parses a complete container from r.
func Read(r io.Reader) (*Container, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	lr := &lineReader{sc: sc}

	c := &Container{}
	var err error

	if c.Version, err = lr.next(); err != nil {
		return nil, err
	}
	if c.Version != Version {
		return nil, &UnsupportedVersionError{Version: c.Version}
	}
	if c.Name, err = lr.next(); err != nil {
		return nil, err
	}
	if c.Description, err = lr.next(); err != nil {
		return nil, err
	}
	if err = lr.expectDelimiter(); err != nil {
		return nil, err
	}
	if c.MapCubeCount, err = lr.count("map cube count"); err != nil {
		return nil, err
	}
	if c.TextureCount, err = lr.count("texture count"); err != nil {
		return nil, err
	}
	if c.Metadata, _, err = lr.until(SectionDelimiter); err != nil {
		return nil, err
	}
	if c.Icon, err = lr.blob("icon"); err != nil {
		return nil, err
	}
	if c.Banner, err = lr.blob("banner"); err != nil {
		return nil, err
	}
	if c.Textures, err = lr.textures(); err != nil {
		return nil, err
	}
	if len(c.Textures) != c.TextureCount {
		return nil, &MalformedContainerError{
			Line:   lr.line,
			Reason: fmt.Sprintf("texture count %d does not match %d texture(s) present", c.TextureCount, len(c.Textures)),
		}
	}

	rest, err := lr.rest()
	if err != nil {
		return nil, err
	}
	if len(rest) == 0 || rest[len(rest)-1] != SectionDelimiter {
		return nil, &MalformedContainerError{Line: lr.line, Reason: "missing final section delimiter"}
	}
	c.MapCubeLines = rest[:len(rest)-1]
	if c.MapCubeCount == 0 && len(c.MapCubeLines) > 0 {
		return nil, &MalformedContainerError{Line: lr.line, Reason: "map cube data present but map cube count is 0"}
	}

	return c, nil
}

func (lr *lineReader) next() (string, error) {
	if !lr.sc.Scan() {
		if err := lr.sc.Err(); err != nil {
			return "", fmt.Errorf("read container: %w", err)
		}
		return "", &MalformedContainerError{Line: lr.line + 1, Reason: "unexpected end of container"}
	}
	lr.line++
	return strings.TrimSuffix(lr.sc.Text(), "\r"), nil
}

func (lr *lineReader) expectDelimiter() error {
	l, err := lr.next()
	if err != nil {
		return err
	}
	if l != SectionDelimiter {
		return &MalformedContainerError{Line: lr.line, Reason: fmt.Sprintf("expected %q, got %q", SectionDelimiter, l)}
	}
	return nil
}

func (lr *lineReader) count(what string) (int, error) {
	l, err := lr.next()
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(l)
	if err != nil || n < 0 {
		return 0, &MalformedContainerError{Line: lr.line, Reason: fmt.Sprintf("%s %q is not a non-negative integer", what, l), Cause: err}
	}
	return n, nil
}

// until collects lines up to, but not including, the first line equal to
// one of stops, and returns the stop line that ended the run.
func (lr *lineReader) until(stops ...string) ([]string, string, error) {
	var lines []string
	for {
		l, err := lr.next()
		if err != nil {
			return nil, "", err
		}
		for _, s := range stops {
			if l == s {
				return lines, s, nil
			}
		}
		lines = append(lines, l)
	}
}

func (lr *lineReader) blob(what string) ([]byte, error) {
	start := lr.line + 1
	lines, _, err := lr.until(SectionDelimiter)
	if err != nil {
		return nil, err
	}
	return decodeAt(lines, start, what)
}

func (lr *lineReader) textures() ([]NamedTexture, error) {
	var textures []NamedTexture
	for {
		name, err := lr.next()
		if err != nil {
			return nil, err
		}
		if name == SectionDelimiter {
			return textures, nil
		}
		start := lr.line + 1
		lines, stop, err := lr.until(TextureSentinel, SectionDelimiter)
		if err != nil {
			return nil, err
		}
		if stop != TextureSentinel {
			return nil, &MalformedContainerError{Line: lr.line, Reason: fmt.Sprintf("texture %q is not terminated by %q", name, TextureSentinel)}
		}
		data, err := decodeAt(lines, start, "texture "+name)
		if err != nil {
			return nil, err
		}
		textures = append(textures, NamedTexture{Name: name, Data: data})
	}
}

func (lr *lineReader) rest() ([]string, error) {
	var lines []string
	for lr.sc.Scan() {
		lr.line++
		lines = append(lines, strings.TrimSuffix(lr.sc.Text(), "\r"))
	}
	if err := lr.sc.Err(); err != nil {
		return nil, fmt.Errorf("read container: %w", err)
	}
	return lines, nil
}

func decodeAt(lines []string, start int, what string) ([]byte, error) {
	data, err := DecodeBytes(lines)
	if err != nil {
		var mbl *MalformedByteLineError
		line := start
		if errors.As(err, &mbl) {
			line += mbl.Index
		}
		return nil, &MalformedContainerError{Line: line, Reason: what + ": " + err.Error(), Cause: err}
	}
	return data, nil
}

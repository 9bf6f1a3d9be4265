// SPDX-License-Identifier: MPL-2.0

package gbmap

import (
	"bytes"
	"errors"
	"strings"
	"unicode"
)

const (
	// Version is the only container header this package reads and writes.
	Version = "V2"
	// SectionDelimiter separates the major regions of a container.
	SectionDelimiter = "§"
	// TextureSentinel closes the byte run of a single texture.
	TextureSentinel = "~"
	// MinMetadataLines is the smallest valid project metadata length:
	// a leading line, the map name and the description.
	MinMetadataLines = 3
)

type (
	// ProjectMetadata holds the lines of a project description file.
	// Line terminators are preserved as read.
	ProjectMetadata []string

	// NamedTexture is a custom texture and its image bytes.
	NamedTexture struct {
		Name string
		Data []byte
	}

	// MapCubeBlock is the verbatim contents of one map cube source file,
	// as newline-terminated lines.
	MapCubeBlock []string

	// AssetSet is everything needed to write one container. It is built
	// once per export and must not be modified while a Writer uses it.
	AssetSet struct {
		Metadata ProjectMetadata
		Icon     []byte
		Banner   []byte
		Textures []NamedTexture
		MapCubes []MapCubeBlock
	}

	// Overrides replace the map name and description taken from the
	// project metadata. A field that is blank after trimming is ignored.
	Overrides struct {
		Name        string
		Description string
	}
)

// ParseMetadata splits the contents of a project description file into lines,
// keeping each line's terminator.
func ParseMetadata(data []byte) ProjectMetadata {
	return ProjectMetadata(splitLines(data))
}

// Validate reports a MalformedMetadataError when m is too short to carry a
// name and description, when the name or description is a bare sentinel,
// or when a passthrough line would end the metadata section early.
func (m ProjectMetadata) Validate() error {
	if len(m) < MinMetadataLines {
		return &MalformedMetadataError{Lines: len(m)}
	}
	for i := 1; i < MinMetadataLines; i++ {
		if isSentinel(m[i]) {
			return &MalformedMetadataError{Lines: len(m), Line: i}
		}
	}
	for i, l := range m.Extra() {
		if strings.TrimSpace(l) == SectionDelimiter {
			return &MalformedMetadataError{Lines: len(m), Line: MinMetadataLines + i}
		}
	}
	return nil
}

// Name returns metadata line 1 without trailing whitespace.
func (m ProjectMetadata) Name() string { return m.line(1) }

// Description returns metadata line 2 without trailing whitespace.
func (m ProjectMetadata) Description() string { return m.line(2) }

// Extra returns the passthrough lines that follow the description.
func (m ProjectMetadata) Extra() []string {
	if len(m) <= MinMetadataLines {
		return nil
	}
	return m[MinMetadataLines:]
}

func (m ProjectMetadata) line(i int) string {
	if i >= len(m) {
		return ""
	}
	return strings.TrimRightFunc(m[i], unicode.IsSpace)
}

// NewMapCubeBlock splits the contents of a map cube file into lines. A final
// line without a terminator gets one, so the block always ends on a line
// boundary.
func NewMapCubeBlock(data []byte) MapCubeBlock {
	lines := splitLines(data)
	if n := len(lines); n > 0 && !strings.HasSuffix(lines[n-1], "\n") {
		lines[n-1] += "\n"
	}
	return MapCubeBlock(lines)
}

// Validate checks the invariants the container grammar depends on.
// All problems are reported together.
func (s *AssetSet) Validate() error {
	var errs []error
	if err := s.Metadata.Validate(); err != nil {
		errs = append(errs, err)
	}
	for i, tex := range s.Textures {
		if !validTextureName(tex.Name) {
			errs = append(errs, &InvalidTextureNameError{Index: i, Name: tex.Name})
		}
	}
	return errors.Join(errs...)
}

// Validate rejects overrides that would span more than one container line
// or read back as a sentinel.
func (o Overrides) Validate() error {
	var errs []error
	for _, f := range []struct{ field, value string }{
		{"name", o.Name},
		{"description", o.Description},
	} {
		switch {
		case strings.ContainsAny(strings.TrimSpace(f.value), "\r\n"):
			errs = append(errs, &InvalidOverrideError{Field: f.field, Value: f.value})
		case isSentinel(f.value):
			errs = append(errs, &InvalidOverrideError{Field: f.field, Value: f.value, Sentinel: true})
		}
	}
	return errors.Join(errs...)
}

// EffectiveName returns the override name if set, else the metadata name.
func (s *AssetSet) EffectiveName(ov Overrides) string {
	if name := strings.TrimSpace(ov.Name); name != "" {
		return name
	}
	return s.Metadata.Name()
}

// EffectiveDescription returns the override description if set, else the
// metadata description.
func (s *AssetSet) EffectiveDescription(ov Overrides) string {
	if desc := strings.TrimSpace(ov.Description); desc != "" {
		return desc
	}
	return s.Metadata.Description()
}

// isSentinel reports whether line would read back as a § or ~ marker.
func isSentinel(line string) bool {
	switch strings.TrimSpace(line) {
	case SectionDelimiter, TextureSentinel:
		return true
	}
	return false
}

func validTextureName(name string) bool {
	if name == "" || name == SectionDelimiter || name == TextureSentinel {
		return false
	}
	return !strings.ContainsAny(name, "\r\n")
}

// splitLines splits data after each '\n'. The last line may lack a terminator.
func splitLines(data []byte) []string {
	var lines []string
	for len(data) > 0 {
		i := bytes.IndexByte(data, '\n')
		if i < 0 {
			lines = append(lines, string(data))
			break
		}
		lines = append(lines, string(data[:i+1]))
		data = data[i+1:]
	}
	return lines
}

// SPDX-License-Identifier: MPL-2.0

package gbmap

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingInput is the sentinel error wrapped by MissingInputError.
	ErrMissingInput = errors.New("missing input")
	// ErrMalformedMetadata is the sentinel error wrapped by MalformedMetadataError.
	ErrMalformedMetadata = errors.New("malformed project metadata")
	// ErrInvalidTextureName is the sentinel error wrapped by InvalidTextureNameError.
	ErrInvalidTextureName = errors.New("invalid texture name")
	// ErrInvalidOverride is the sentinel error wrapped by InvalidOverrideError.
	ErrInvalidOverride = errors.New("invalid override")
	// ErrWrite is the sentinel error wrapped by WriteError.
	ErrWrite = errors.New("container write failed")
	// ErrCanceled is returned when the context is canceled before the container is complete.
	ErrCanceled = errors.New("export canceled")
	// ErrMalformedByteLine is the sentinel error wrapped by MalformedByteLineError.
	ErrMalformedByteLine = errors.New("malformed byte line")
	// ErrUnsupportedVersion is the sentinel error wrapped by UnsupportedVersionError.
	ErrUnsupportedVersion = errors.New("unsupported container version")
	// ErrMalformedContainer is the sentinel error wrapped by MalformedContainerError.
	ErrMalformedContainer = errors.New("malformed container")
)

type (
	// MissingInputError is returned when a required asset is absent or unreadable.
	MissingInputError struct {
		// Asset names the missing input (e.g. "icon", "project metadata").
		Asset string
		// Path is where the asset was expected.
		Path string
		// Cause is the underlying filesystem error, if any.
		Cause error
	}

	// MalformedMetadataError is returned when project metadata has fewer
	// than MinMetadataLines lines, when the name or description line is a
	// bare § or ~, or when a passthrough line would read back as a section
	// delimiter. Line is 0-based and only set in the last two cases.
	MalformedMetadataError struct {
		Lines int
		Line  int
	}

	// InvalidTextureNameError is returned when a texture name would break
	// the line grammar of the container.
	InvalidTextureNameError struct {
		Index int
		Name  string
	}

	// InvalidOverrideError is returned when an override spans more than one
	// line, or is a bare § or ~ (Sentinel).
	InvalidOverrideError struct {
		Field    string
		Value    string
		Sentinel bool
	}

	// WriteError is returned when writing a container section fails.
	// The output may hold a partial container; callers publishing to a
	// file should discard it.
	WriteError struct {
		Section string
		Cause   error
	}

	// MalformedByteLineError is returned when a byte line is not a decimal
	// integer in the range 0-255.
	MalformedByteLineError struct {
		Index int
		Text  string
		Cause error
	}

	// UnsupportedVersionError is returned when a container header is not V2.
	UnsupportedVersionError struct {
		Version string
	}

	// MalformedContainerError is returned when a container does not follow
	// the section grammar. Line is 1-based.
	MalformedContainerError struct {
		Line   int
		Reason string
		Cause  error
	}
)

// Error implements the error interface.
func (e *MissingInputError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("missing %s at %s: %v", e.Asset, e.Path, e.Cause)
	}
	return fmt.Sprintf("missing %s at %s", e.Asset, e.Path)
}

// Unwrap returns ErrMissingInput and the underlying cause.
func (e *MissingInputError) Unwrap() []error {
	if e.Cause == nil {
		return []error{ErrMissingInput}
	}
	return []error{ErrMissingInput, e.Cause}
}

// Error implements the error interface.
func (e *MalformedMetadataError) Error() string {
	switch {
	case e.Line == 1:
		return "project metadata line 1 (map name) is a bare container sentinel"
	case e.Line == 2:
		return "project metadata line 2 (description) is a bare container sentinel"
	case e.Line > 0:
		return fmt.Sprintf("project metadata line %d is a bare section delimiter", e.Line)
	}
	return fmt.Sprintf("project metadata has %d line(s), need at least %d", e.Lines, MinMetadataLines)
}

// Unwrap returns ErrMalformedMetadata for errors.Is() compatibility.
func (e *MalformedMetadataError) Unwrap() error { return ErrMalformedMetadata }

// Error implements the error interface.
func (e *InvalidTextureNameError) Error() string {
	return fmt.Sprintf("texture %d has invalid name %q", e.Index, e.Name)
}

// Unwrap returns ErrInvalidTextureName for errors.Is() compatibility.
func (e *InvalidTextureNameError) Unwrap() error { return ErrInvalidTextureName }

// Error implements the error interface.
func (e *InvalidOverrideError) Error() string {
	if e.Sentinel {
		return fmt.Sprintf("%s override %q must not be a container sentinel (§ or ~)", e.Field, e.Value)
	}
	return fmt.Sprintf("%s override %q must be a single line", e.Field, e.Value)
}

// Unwrap returns ErrInvalidOverride for errors.Is() compatibility.
func (e *InvalidOverrideError) Unwrap() error { return ErrInvalidOverride }

// Error implements the error interface.
func (e *WriteError) Error() string {
	return fmt.Sprintf("failed to write %s section: %v", e.Section, e.Cause)
}

// Unwrap returns ErrWrite and the underlying I/O error.
func (e *WriteError) Unwrap() []error { return []error{ErrWrite, e.Cause} }

// Error implements the error interface.
func (e *MalformedByteLineError) Error() string {
	return fmt.Sprintf("byte line %d: %q is not a value in 0-255", e.Index, e.Text)
}

// Unwrap returns ErrMalformedByteLine for errors.Is() compatibility.
func (e *MalformedByteLineError) Unwrap() error { return ErrMalformedByteLine }

// Error implements the error interface.
func (e *UnsupportedVersionError) Error() string {
	return fmt.Sprintf("unsupported container version %q (want %s)", e.Version, Version)
}

// Unwrap returns ErrUnsupportedVersion for errors.Is() compatibility.
func (e *UnsupportedVersionError) Unwrap() error { return ErrUnsupportedVersion }

// Error implements the error interface.
func (e *MalformedContainerError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Reason)
}

// Unwrap returns ErrMalformedContainer and the underlying cause, if any.
func (e *MalformedContainerError) Unwrap() []error {
	if e.Cause == nil {
		return []error{ErrMalformedContainer}
	}
	return []error{ErrMalformedContainer, e.Cause}
}

func canceled(cause error) error {
	return fmt.Errorf("%w: %w", ErrCanceled, cause)
}

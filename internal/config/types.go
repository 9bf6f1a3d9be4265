// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gbpack/gbpack/pkg/platform"
)

const (
	// ColorSchemeAuto detects the terminal color scheme automatically.
	ColorSchemeAuto ColorScheme = "auto"
	// ColorSchemeDark forces dark color scheme.
	ColorSchemeDark ColorScheme = "dark"
	// ColorSchemeLight forces light color scheme.
	ColorSchemeLight ColorScheme = "light"

	// ProgressAuto uses the TUI on terminals and plain lines otherwise.
	ProgressAuto ProgressMode = "auto"
	// ProgressTUI always renders the Bubble Tea progress view.
	ProgressTUI ProgressMode = "tui"
	// ProgressPlain prints one line per phase.
	ProgressPlain ProgressMode = "plain"
	// ProgressNone prints only the final result.
	ProgressNone ProgressMode = "none"

	// DefaultOutputName is the file name used when no output path is given.
	DefaultOutputName OutputFileName = "CustomMap.gbmap"
)

var (
	// ErrInvalidColorScheme is returned when a ColorScheme value is not recognized.
	ErrInvalidColorScheme = errors.New("invalid color scheme")
	// ErrInvalidProgressMode is returned when a ProgressMode value is not recognized.
	ErrInvalidProgressMode = errors.New("invalid progress mode")
	// ErrInvalidOutputFileName is returned when an OutputFileName is empty or contains a path separator.
	ErrInvalidOutputFileName = errors.New("invalid output file name")
	// ErrInvalidDirPath is returned when a DirPath value is whitespace-only.
	ErrInvalidDirPath = errors.New("invalid directory path")
	// ErrInvalidUIConfig is the sentinel error wrapped by InvalidUIConfigError.
	ErrInvalidUIConfig = errors.New("invalid UI config")
	// ErrInvalidConfig is the sentinel error wrapped by InvalidConfigError.
	ErrInvalidConfig = errors.New("invalid config")
)

type (
	// ColorScheme specifies the terminal color scheme preference.
	ColorScheme string

	// InvalidColorSchemeError is returned when a ColorScheme value is not recognized.
	// It wraps ErrInvalidColorScheme for errors.Is() compatibility.
	InvalidColorSchemeError struct {
		Value ColorScheme
	}

	// ProgressMode selects how export progress is rendered.
	ProgressMode string

	// InvalidProgressModeError is returned when a ProgressMode value is not recognized.
	InvalidProgressModeError struct {
		Value ProgressMode
	}

	// OutputFileName is the base name of an exported container.
	OutputFileName string

	// InvalidOutputFileNameError is returned when an OutputFileName is not a bare file name.
	InvalidOutputFileNameError struct {
		Value OutputFileName
	}

	// DirPath is a filesystem directory path. The zero value means
	// "use the built-in default".
	DirPath string

	// InvalidDirPathError is returned when a DirPath value is non-empty but
	// whitespace-only.
	InvalidDirPathError struct {
		Field string
		Value DirPath
	}

	// InvalidUIConfigError is returned when a UIConfig has invalid fields.
	InvalidUIConfigError struct {
		FieldErrors []error
	}

	// InvalidConfigError is returned when a Config has invalid fields.
	// It wraps ErrInvalidConfig for errors.Is() compatibility and collects
	// field-level validation errors from all sub-components.
	InvalidConfigError struct {
		FieldErrors []error
	}

	// Config holds the application configuration.
	Config struct {
		// ProjectsDir is the GoreBox MapProjects directory listed by `gbpack projects`.
		ProjectsDir DirPath `json:"projects_dir" mapstructure:"projects_dir"`
		// OutputDir is where exports land when no output path is given.
		OutputDir DirPath `json:"output_dir" mapstructure:"output_dir"`
		// DefaultOutputName is the container file name used with OutputDir.
		DefaultOutputName OutputFileName `json:"default_output_name" mapstructure:"default_output_name"`
		// UI configures the user interface
		UI UIConfig `json:"ui" mapstructure:"ui"`
	}

	// UIConfig configures the user interface.
	UIConfig struct {
		// ColorScheme sets the color scheme
		ColorScheme ColorScheme `json:"color_scheme" mapstructure:"color_scheme"`
		// Verbose enables debug logging
		Verbose bool `json:"verbose" mapstructure:"verbose"`
		// Progress selects the export progress renderer
		Progress ProgressMode `json:"progress" mapstructure:"progress"`
	}
)

// IsValid returns whether the UIConfig has valid fields.
func (c UIConfig) IsValid() (bool, []error) {
	var errs []error
	if valid, fieldErrs := c.ColorScheme.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if valid, fieldErrs := c.Progress.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if len(errs) > 0 {
		return false, []error{&InvalidUIConfigError{FieldErrors: errs}}
	}
	return true, nil
}

// Error implements the error interface for InvalidUIConfigError.
func (e *InvalidUIConfigError) Error() string {
	return fmt.Sprintf("invalid UI config: %s", joinErrors(e.FieldErrors))
}

// Unwrap returns ErrInvalidUIConfig for errors.Is() compatibility.
func (e *InvalidUIConfigError) Unwrap() error { return ErrInvalidUIConfig }

// IsValid returns whether the Config has valid fields.
func (c Config) IsValid() (bool, []error) {
	var errs []error
	if valid, fieldErrs := c.ProjectsDir.validate("projects_dir"); !valid {
		errs = append(errs, fieldErrs...)
	}
	if valid, fieldErrs := c.OutputDir.validate("output_dir"); !valid {
		errs = append(errs, fieldErrs...)
	}
	if valid, fieldErrs := c.DefaultOutputName.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if valid, fieldErrs := c.UI.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if len(errs) > 0 {
		return false, []error{&InvalidConfigError{FieldErrors: errs}}
	}
	return true, nil
}

// Error implements the error interface for InvalidConfigError.
func (e *InvalidConfigError) Error() string {
	return fmt.Sprintf("invalid config: %s", joinErrors(e.FieldErrors))
}

// Unwrap returns ErrInvalidConfig for errors.Is() compatibility.
func (e *InvalidConfigError) Unwrap() error { return ErrInvalidConfig }

// String returns the string representation of the DirPath.
func (p DirPath) String() string { return string(p) }

// IsValid returns whether the DirPath is valid.
func (p DirPath) IsValid() (bool, []error) { return p.validate("") }

func (p DirPath) validate(field string) (bool, []error) {
	if p != "" && strings.TrimSpace(string(p)) == "" {
		return false, []error{&InvalidDirPathError{Field: field, Value: p}}
	}
	return true, nil
}

// Error implements the error interface for InvalidDirPathError.
func (e *InvalidDirPathError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("invalid directory path %q: non-empty value must not be whitespace-only", e.Value)
	}
	return fmt.Sprintf("%s: invalid directory path %q: non-empty value must not be whitespace-only", e.Field, e.Value)
}

// Unwrap returns ErrInvalidDirPath for errors.Is() compatibility.
func (e *InvalidDirPathError) Unwrap() error { return ErrInvalidDirPath }

// String returns the string representation of the OutputFileName.
func (n OutputFileName) String() string { return string(n) }

// IsValid returns whether the OutputFileName is a non-empty bare file name
// that Windows can create.
func (n OutputFileName) IsValid() (bool, []error) {
	s := string(n)
	if strings.TrimSpace(s) == "" || strings.ContainsAny(s, `/\`) || s == "." || s == ".." ||
		platform.IsWindowsReservedName(s) {
		return false, []error{&InvalidOutputFileNameError{Value: n}}
	}
	return true, nil
}

// Error implements the error interface for InvalidOutputFileNameError.
func (e *InvalidOutputFileNameError) Error() string {
	return fmt.Sprintf("invalid output file name %q: must be a non-empty name without path separators or Windows device names", e.Value)
}

// Unwrap returns ErrInvalidOutputFileName for errors.Is() compatibility.
func (e *InvalidOutputFileNameError) Unwrap() error { return ErrInvalidOutputFileName }

// Error implements the error interface for InvalidColorSchemeError.
func (e *InvalidColorSchemeError) Error() string {
	return fmt.Sprintf("invalid color scheme %q (valid: auto, dark, light)", e.Value)
}

// Unwrap returns the sentinel error for errors.Is() compatibility.
func (e *InvalidColorSchemeError) Unwrap() error {
	return ErrInvalidColorScheme
}

// String returns the string representation of the ColorScheme.
func (cs ColorScheme) String() string { return string(cs) }

// IsValid returns whether the ColorScheme is one of the defined color schemes,
// and a list of validation errors if it is not.
func (cs ColorScheme) IsValid() (bool, []error) {
	switch cs {
	case ColorSchemeAuto, ColorSchemeDark, ColorSchemeLight:
		return true, nil
	default:
		return false, []error{&InvalidColorSchemeError{Value: cs}}
	}
}

// Error implements the error interface for InvalidProgressModeError.
func (e *InvalidProgressModeError) Error() string {
	return fmt.Sprintf("invalid progress mode %q (valid: auto, tui, plain, none)", e.Value)
}

// Unwrap returns the sentinel error for errors.Is() compatibility.
func (e *InvalidProgressModeError) Unwrap() error {
	return ErrInvalidProgressMode
}

// String returns the string representation of the ProgressMode.
func (m ProgressMode) String() string { return string(m) }

// IsValid returns whether the ProgressMode is one of the defined modes.
func (m ProgressMode) IsValid() (bool, []error) {
	switch m {
	case ProgressAuto, ProgressTUI, ProgressPlain, ProgressNone:
		return true, nil
	default:
		return false, []error{&InvalidProgressModeError{Value: m}}
	}
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		ProjectsDir:       "", // resolved by discovery.DefaultProjectsDir
		OutputDir:         "", // current working directory
		DefaultOutputName: DefaultOutputName,
		UI: UIConfig{
			ColorScheme: ColorSchemeAuto,
			Verbose:     false,
			Progress:    ProgressAuto,
		},
	}
}

func joinErrors(errs []error) string {
	msgs := make([]string, len(errs))
	for i, err := range errs {
		msgs[i] = err.Error()
	}
	return strings.Join(msgs, "; ")
}

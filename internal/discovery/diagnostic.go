// SPDX-License-Identifier: MPL-2.0

package discovery

const (
	// SeverityWarning indicates a folder that was skipped.
	SeverityWarning Severity = "warning"
	// SeverityError indicates a folder that looked like a project but could not be read.
	SeverityError Severity = "error"

	// CodeNotAProject marks a folder without projectFile.gbi or icon.png.
	CodeNotAProject = "not_a_project"
	// CodeMetadataUnreadable marks a project whose projectFile.gbi could not be read.
	CodeMetadataUnreadable = "metadata_unreadable"
)

type (
	// Severity represents discovery diagnostic severity.
	Severity string

	// Diagnostic represents a structured discovery diagnostic that is returned
	// to callers (rather than written to stderr) for consistent rendering policy.
	Diagnostic struct {
		// Severity is the diagnostic level (warning or error).
		Severity Severity
		// Code is a machine-readable identifier (e.g., "not_a_project").
		Code string
		// Message is the human-readable description.
		Message string
		// Path is the folder associated with this diagnostic.
		Path string
		// Cause is the underlying error (optional, for programmatic inspection).
		Cause error
	}

	// Result bundles the listed projects with diagnostics for skipped folders.
	Result struct {
		Dir         string
		Source      Source
		Projects    []Project
		Diagnostics []Diagnostic
	}
)

// SPDX-License-Identifier: MPL-2.0

package export

import (
	"errors"

	"github.com/gbpack/gbpack/internal/assets"
	"github.com/gbpack/gbpack/pkg/gbmap"
)

const (
	// OutcomeSuccess means the container was published.
	OutcomeSuccess Outcome = iota
	// OutcomeCanceled means the caller canceled the export.
	OutcomeCanceled
	// OutcomeMissingInput means a required project entry is absent or unreadable.
	OutcomeMissingInput
	// OutcomeMalformedInput means a project entry exists but cannot be used.
	OutcomeMalformedInput
	// OutcomeWriteFailed means the container could not be written or published.
	OutcomeWriteFailed
	// OutcomeFailed covers every other error.
	OutcomeFailed
)

// Outcome classifies the result of an export.
type Outcome int

// Classify maps the error returned by Run to an Outcome.
func Classify(err error) Outcome {
	switch {
	case err == nil:
		return OutcomeSuccess
	case errors.Is(err, gbmap.ErrCanceled):
		return OutcomeCanceled
	case errors.Is(err, gbmap.ErrMissingInput):
		return OutcomeMissingInput
	case errors.Is(err, gbmap.ErrMalformedMetadata),
		errors.Is(err, gbmap.ErrInvalidTextureName),
		errors.Is(err, gbmap.ErrInvalidOverride),
		errors.Is(err, assets.ErrInvalidTexture):
		return OutcomeMalformedInput
	case errors.Is(err, gbmap.ErrWrite):
		return OutcomeWriteFailed
	default:
		return OutcomeFailed
	}
}

// String returns a short name for the outcome.
func (o Outcome) String() string {
	switch o {
	case OutcomeSuccess:
		return "success"
	case OutcomeCanceled:
		return "canceled"
	case OutcomeMissingInput:
		return "missing input"
	case OutcomeMalformedInput:
		return "malformed input"
	case OutcomeWriteFailed:
		return "write failed"
	default:
		return "failed"
	}
}

// message is the basic console line reported for a failed export.
func message(err error) string {
	switch Classify(err) {
	case OutcomeCanceled:
		return "Export canceled."
	case OutcomeMissingInput:
		return "Critical files or folders are missing."
	default:
		return "Error encountered: " + err.Error()
	}
}

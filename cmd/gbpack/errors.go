// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/gbpack/gbpack/internal/assets"
	"github.com/gbpack/gbpack/internal/discovery"
	"github.com/gbpack/gbpack/internal/export"
	"github.com/gbpack/gbpack/internal/issue"
	"github.com/gbpack/gbpack/pkg/gbmap"
	"github.com/gbpack/gbpack/pkg/types"
)

// classifyError maps a failure to a catalog issue (0 when none applies) and
// an exit code. A catalog issue attached to an ActionableError wins.
func classifyError(err error) (issueID issue.Id, code types.ExitCode) {
	code = types.ExitFailure

	switch export.Classify(err) {
	case export.OutcomeSuccess:
		return 0, types.ExitOK
	case export.OutcomeCanceled:
		return issue.ExportCanceledId, types.ExitCanceled
	case export.OutcomeMissingInput:
		issueID, code = issue.MissingInputId, types.ExitInput
	case export.OutcomeMalformedInput:
		issueID, code = issue.MalformedInputId, types.ExitInput
	case export.OutcomeWriteFailed:
		issueID = issue.WriteFailedId
	case export.OutcomeFailed:
	}

	switch {
	case errors.Is(err, gbmap.ErrMalformedContainer),
		errors.Is(err, gbmap.ErrUnsupportedVersion),
		errors.Is(err, gbmap.ErrMalformedByteLine):
		issueID, code = issue.ContainerInvalidId, types.ExitInput
	case errors.Is(err, discovery.ErrProjectsDirNotFound):
		issueID, code = issue.ProjectsDirNotFoundId, types.ExitInput
	case errors.Is(err, os.ErrPermission):
		issueID = issue.PermissionDeniedId
	case errors.Is(err, os.ErrNotExist):
		code = types.ExitInput
	}

	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		if help := ae.Help(); help != nil {
			issueID = help.Id()
		}
	}
	if issueID == issue.ProjectNotFoundId {
		code = types.ExitInput
	}

	return issueID, code
}

// fail renders err with its catalog help on stderr and returns an ExitError
// that the top-level handler will not print again.
func (a *App) fail(err error) error {
	issueID, code := classifyError(err)

	fmt.Fprintf(a.stderr, "\n%s %s\n", ErrorStyle.Render("Error:"), formatErrorForDisplay(err, a.verbose))
	a.renderIssue(issueID)

	return &ExitError{Code: code, Err: err, Rendered: true}
}

// renderIssue prints the catalog entry for id, if any.
func (a *App) renderIssue(id issue.Id) {
	help := issue.Get(id)
	if help == nil {
		return
	}
	rendered, err := help.Render(a.glamourStyle())
	if err != nil {
		a.logger.Debug("render issue help", "issue", id, "error", err)
		return
	}
	fmt.Fprint(a.stderr, rendered)
}

// formatErrorForDisplay formats an error for user display.
// ActionableErrors use their own Format; joined missing-input errors become
// a bullet list. In verbose mode, ActionableErrors include the full chain.
func formatErrorForDisplay(err error, verboseMode bool) string {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return ae.Format(verboseMode)
	}

	if missing := assets.MissingInputs(err); len(missing) > 1 {
		var b strings.Builder
		b.WriteString("project is incomplete:")
		for _, m := range missing {
			b.WriteString("\n  • ")
			b.WriteString(m.Error())
		}
		return b.String()
	}

	return err.Error()
}

// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"

	"github.com/kraeve/kraeve/internal/config"
	"github.com/kraeve/kraeve/internal/issue"
	"github.com/kraeve/kraeve/pkg/loader"
	"github.com/kraeve/kraeve/pkg/manifest"
	"github.com/kraeve/kraeve/pkg/registry"

	"github.com/spf13/cobra"
)

// ServiceError is an error tagged with the issue catalog entry that explains it.
// Always create via newServiceError to enforce the Err-must-be-non-nil invariant.
type ServiceError struct {
	// Err is the underlying error (must not be nil).
	Err error
	// IssueID is the optional issue catalog ID for rendering help text.
	IssueID issue.Id
}

// newServiceError creates a ServiceError with a nil-Err panic guard.
func newServiceError(err error, issueID issue.Id) *ServiceError {
	if err == nil {
		panic("ServiceError: Err must not be nil")
	}
	return &ServiceError{Err: err, IssueID: issueID}
}

// Error implements the error interface.
func (e *ServiceError) Error() string { return e.Err.Error() }

// Unwrap returns the underlying error for errors.Is/As chains.
func (e *ServiceError) Unwrap() error { return e.Err }

// classifyError picks the catalog entry for err. Explicit ServiceError tags win.
func classifyError(err error) issue.Id {
	var svcErr *ServiceError
	switch {
	case errors.As(err, &svcErr) && svcErr.IssueID != 0:
		return svcErr.IssueID
	case errors.Is(err, manifest.ErrInvalidManifest):
		return issue.ManifestParseErrorId
	case errors.Is(err, loader.ErrModuleNotFound):
		return issue.ModuleNotFoundId
	case errors.Is(err, registry.ErrInvalidModuleName):
		return issue.InvalidAliasNameId
	case errors.Is(err, config.ErrInvalidConfig):
		return issue.ConfigLoadFailedId
	case errors.Is(err, fs.ErrNotExist):
		return issue.AliasPathNotFoundId
	default:
		return 0
	}
}

// formatErrorForDisplay formats an error for user display.
// If the error is an ActionableError, it uses the Format method.
// In verbose mode, shows the full error chain.
func formatErrorForDisplay(err error, verboseMode bool) string {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return ae.Format(verboseMode)
	}
	return err.Error()
}

// renderError writes err to stderr and, in verbose mode, the matching issue
// catalog entry.
func renderError(stderr io.Writer, err error, verbose bool) {
	fmt.Fprintln(stderr, ErrorStyle.Render("Error: ")+formatErrorForDisplay(err, verbose))

	if !verbose {
		return
	}
	id := classifyError(err)
	if id == 0 {
		return
	}
	if catalogEntry := issue.Get(id); catalogEntry != nil {
		rendered, renderErr := catalogEntry.Render("dark")
		if renderErr != nil {
			slog.Warn("failed to render issue catalog entry", "issueID", id, "error", renderErr)
			return
		}
		fmt.Fprint(stderr, rendered)
	}
}

// fail renders err and returns an ExitError, silencing Cobra's own error output.
func (a *App) fail(cmd *cobra.Command, err error) error {
	renderError(a.stderr, err, a.verbose)
	cmd.SilenceErrors = true
	cmd.SilenceUsage = true
	return &ExitError{Code: 1, Err: err}
}

// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sysbot/chef/internal/issue"
	"github.com/sysbot/chef/internal/loader"
	"github.com/sysbot/chef/pkg/chefignore"
	"github.com/sysbot/chef/pkg/metadata"
)

// explain turns a resolution failure into an ExitError around an
// ActionableError that names the matching catalog issue.
func explain(err error, operation, resource string) error {
	if err == nil {
		return nil
	}

	code := ExitFailure
	ctx := issue.NewErrorContext().
		WithOperation(operation).
		WithResource(resource).
		Wrap(err)

	switch {
	case errors.Is(err, loader.ErrCookbookNotFound):
		code = ExitNotFound
		ctx.WithIssue(issue.CookbookNotFoundId).
			WithSuggestion("Check the cookbook name and the cookbook_path directories")
	case errors.Is(err, loader.ErrEmptyCookbook):
		code = ExitNotFound
		ctx.WithIssue(issue.EmptyCookbookId).
			WithSuggestion("Make sure the roots contain cookbook files and that chefignore does not exclude them all")
	case errors.Is(err, loader.ErrMetadataParse):
		ctx.WithIssue(issue.MetadataParseFailedId).
			WithSuggestion("Fix the metadata file reported above")
		if errors.Is(err, metadata.ErrUnsupportedSyntax) {
			ctx.WithSuggestion("metadata.rb lines must be literal declarations; Ruby expressions such as IO.read(...) are not evaluated, so inline the value or ship a metadata.json")
		}
	case errors.Is(err, loader.ErrInvalidMetadataSource):
		ctx.WithIssue(issue.InvalidMetadataSourceId).
			WithSuggestion("Metadata must be named metadata.json or metadata.rb")
	case errors.Is(err, chefignore.ErrInvalidPattern):
		ctx.WithIssue(issue.InvalidChefignoreId).
			WithSuggestion("Fix or remove the offending chefignore line")
	default:
		var ae *issue.ActionableError
		if errors.As(err, &ae) {
			return &ExitError{Code: code, Err: err}
		}
	}

	return &ExitError{Code: code, Err: ctx.BuildError()}
}

// fail reports err on stderr, including the catalog guide in verbose mode,
// and silences cobra's own report of it.
func (a *App) fail(cmd *cobra.Command, err error) error {
	if err == nil {
		return nil
	}
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true
	fmt.Fprintln(a.stderr, ErrorStyle.Render("Error: ")+formatErrorForDisplay(err, a.flags.verbose))
	if a.flags.verbose {
		if guide := issue.GuideFor(err); guide != nil {
			if rendered, renderErr := guide.Render(string(a.cfg.UI.ColorScheme)); renderErr == nil {
				fmt.Fprint(a.stderr, rendered)
			}
		}
	}
	return err
}

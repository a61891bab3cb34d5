// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"

	"github.com/sysbot/chef/internal/issue"
	"github.com/sysbot/chef/pkg/cookbook"
)

func newReadmeCommand(app *App) *cobra.Command {
	var (
		name string
		raw  bool
	)
	cmd := &cobra.Command{
		Use:   "readme [flags] ROOT...",
		Short: "Render the README of a resolved cookbook",
		Long: `Resolve a cookbook from its overlay roots and render the README.md that
wins the merge. The terminal color scheme follows ui.color_scheme.`,
		Example: `  cookbook readme ./cookbooks/ntp
  cookbook readme --raw ./vendor/ntp ./site-cookbooks/ntp`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, roots []string) error {
			return app.fail(cmd, app.readme(roots, name, raw))
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "cookbook name (default is the base name of the first root)")
	cmd.Flags().BoolVar(&raw, "raw", false, "print the markdown source instead of rendering it")
	return cmd
}

func (a *App) readme(roots []string, name string, raw bool) error {
	v, err := a.resolve(roots, name)
	if err != nil {
		return err
	}

	var path string
	for _, f := range v.Files(cookbook.SegmentRootFiles) {
		if strings.EqualFold(f.Path, cookbook.ReadmeFile) {
			path = f.AbsPath
			break
		}
	}
	if path == "" {
		return &ExitError{Code: ExitNotFound, Err: issue.NewErrorContext().
			WithOperation("render README").
			WithResource(v.Name()).
			WithSuggestion("Add a README.md to one of the cookbook roots").
			WithIssue(issue.ReadmeNotFoundId).
			Wrap(errors.New("cookbook has no README.md")).
			BuildError()}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return &ExitError{Code: ExitFailure, Err: issue.WrapWithContext(err, "read README", path)}
	}
	if raw {
		_, err = a.stdout.Write(data)
		return err
	}

	rendered, err := glamour.Render(string(data), string(a.cfg.UI.ColorScheme))
	if err != nil {
		return fmt.Errorf("render %s: %w", path, err)
	}
	fmt.Fprint(a.stdout, rendered)
	return nil
}

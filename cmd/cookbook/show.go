// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sysbot/chef/internal/loader"
	"github.com/sysbot/chef/internal/telemetry"
	"github.com/sysbot/chef/internal/watch"
	"github.com/sysbot/chef/pkg/cookbook"
)

type showOptions struct {
	name   string
	format string
	watch  bool
	clear  bool
}

func newShowCommand(app *App) *cobra.Command {
	opts := &showOptions{}
	cmd := &cobra.Command{
		Use:   "show [flags] ROOT...",
		Short: "Resolve a cookbook from one or more overlay roots",
		Long: `Resolve a cookbook from one or more overlay roots and print the result.

Roots are merged in the order given: a file in a later root replaces the
file with the same relative path in an earlier one. The cookbook name
defaults to the base name of the first root.`,
		Example: `  cookbook show ./cookbooks/ntp
  cookbook show --name ntp ./vendor/ntp ./site-cookbooks/ntp
  cookbook show --format yaml --watch ./ntp`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, roots []string) error {
			if err := validFormat(opts.format); err != nil {
				return err
			}
			if opts.watch {
				return app.fail(cmd, app.watchShow(cmd.Context(), roots, opts))
			}
			return app.fail(cmd, app.show(roots, opts))
		},
	}

	cmd.Flags().StringVar(&opts.name, "name", "", "cookbook name (default is the base name of the first root)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", formatText, "output format: text, json, yaml or toml")
	cmd.Flags().BoolVarP(&opts.watch, "watch", "w", false, "re-resolve whenever a file below the roots changes")
	cmd.Flags().BoolVar(&opts.clear, "clear", false, "clear the screen before each re-resolution (with --watch)")
	return cmd
}

// resolve assembles the cookbook from roots.
func (a *App) resolve(roots []string, name string) (*cookbook.Version, error) {
	v, err := loader.Resolve(name, roots, a.loaderOptions(telemetry.Nop())...)
	if err != nil {
		display := name
		if display == "" {
			display = strings.Join(roots, ", ")
		}
		return nil, explain(err, "resolve cookbook", display)
	}
	return v, nil
}

func (a *App) show(roots []string, opts *showOptions) error {
	v, err := a.resolve(roots, opts.name)
	if err != nil {
		return err
	}
	return renderVersion(a.stdout, opts.format, v)
}

// watchShow prints the cookbook and prints it again after every change until
// ctx is cancelled. Resolution failures while watching are reported and
// the watch continues.
func (a *App) watchShow(ctx context.Context, roots []string, opts *showOptions) error {
	if err := a.show(roots, opts); err != nil {
		a.reportWatchError(err)
	}

	w, err := watch.New(watch.Config{
		Roots:       roots,
		Ignore:      a.cfg.Watch.Ignore,
		Skip:        a.skipIgnored(roots),
		Debounce:    a.cfg.Watch.Debounce.Duration(),
		ClearScreen: opts.clear,
		Stdout:      a.stdout,
		Logger:      a.logger,
		OnChange: func(_ context.Context, changed []string) error {
			a.logger.Info("cookbook changed, resolving again", "files", len(changed))
			if err := a.show(roots, opts); err != nil {
				a.reportWatchError(err)
			}
			return nil
		},
	})
	if err != nil {
		return err
	}
	a.logger.Info("watching cookbook roots", "roots", w.Roots())
	return w.Run(ctx)
}

func (a *App) reportWatchError(err error) {
	fmt.Fprintln(a.stderr, ErrorStyle.Render("Error: ")+formatErrorForDisplay(err, a.flags.verbose))
}

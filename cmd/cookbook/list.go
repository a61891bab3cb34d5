// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/sysbot/chef/internal/telemetry"
)

type listOptions struct {
	paths       []string
	metricsFile string
	format      string
}

func newListCommand(app *App) *cobra.Command {
	opts := &listOptions{}
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the cookbooks of the cookbook repositories",
		Long: `Resolve every cookbook found in the cookbook repositories and list them.

A cookbook that appears in several repositories is resolved from all of
them, with later repositories overriding earlier ones. Directories that
hold no cookbook files are skipped.`,
		Example: `  cookbook list --cookbook-path ./cookbooks --cookbook-path ./site-cookbooks
  cookbook list --metrics-file /var/lib/node_exporter/cookbook.prom`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := validFormat(opts.format); err != nil {
				return err
			}
			return app.fail(cmd, app.list(cmd, opts))
		},
	}

	cmd.Flags().StringArrayVarP(&opts.paths, "cookbook-path", "p", nil, "cookbook repository directory (repeatable, default is cookbook_path from the config)")
	cmd.Flags().StringVar(&opts.metricsFile, "metrics-file", "", "write loader metrics in the Prometheus text format to this file")
	cmd.Flags().StringVarP(&opts.format, "format", "f", formatText, "output format: text, json, yaml or toml")
	return cmd
}

func (a *App) list(cmd *cobra.Command, opts *listOptions) error {
	var (
		recorder = telemetry.Nop()
		metrics  *telemetry.Metrics
	)
	if opts.metricsFile != "" {
		metrics = telemetry.NewMetrics(nil)
		recorder = metrics
	}

	repo, err := a.repository(opts.paths, recorder)
	if err != nil {
		return &ExitError{Code: ExitFailure, Err: err}
	}

	versions, err := repo.LoadAll(cmd.Context())
	if err != nil {
		return explain(err, "list cookbooks", strings.Join(repo.Paths(), ", "))
	}

	if metrics != nil {
		if err := metrics.WriteFile(opts.metricsFile); err != nil {
			a.logger.Warn("failed to write metrics file", "path", opts.metricsFile, "error", err)
		}
	}

	return renderList(a.stdout, opts.format, versions)
}

// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/sysbot/chef/internal/loader"
)

func newMetadataCommand(app *App) *cobra.Command {
	var name, format string
	cmd := &cobra.Command{
		Use:   "metadata FILE",
		Short: "Evaluate a single metadata file",
		Long: `Evaluate a metadata.rb, metadata.json or uploaded cookbook version
descriptor and print the resulting metadata. The cookbook name defaults to
the name of the directory holding FILE.`,
		Example: `  cookbook metadata ./ntp/metadata.rb
  cookbook metadata --format json ./ntp/metadata.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validFormat(format); err != nil {
				return err
			}
			path := args[0]
			if name == "" {
				name = filepath.Base(filepath.Dir(filepath.Clean(path)))
			}
			md, err := loader.ResolveMetadataFile(path, name, app.logger)
			if err != nil {
				return app.fail(cmd, explain(err, "evaluate metadata", path))
			}
			return renderMetadata(app.stdout, format, md)
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "cookbook name (default is the name of the directory holding FILE)")
	cmd.Flags().StringVarP(&format, "format", "f", formatText, "output format: text, json, yaml or toml")
	return cmd
}

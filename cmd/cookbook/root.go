// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"
)

// NewRootCommand builds the cookbook command tree around app.
func NewRootCommand(app *App) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "cookbook",
		Short: "Resolve Chef cookbooks from layered directories",
		Long: TitleStyle.Render("cookbook") + SubtitleStyle.Render(" - Resolve Chef cookbooks from layered directories") + `

cookbook assembles a cookbook version from one or more overlay roots.
Files found in later roots replace files with the same relative path in
earlier roots, chefignore patterns are honoured, and metadata is read from
metadata.json, metadata.rb or an uploaded cookbook version descriptor.

` + SubtitleStyle.Render("Examples:") + `
  cookbook show ./base/ntp ./site/ntp   Resolve ntp from two overlays
  cookbook show --format json ./ntp     Print the resolved version as JSON
  cookbook list --cookbook-path ./cookbooks
  cookbook metadata ./ntp/metadata.rb   Evaluate a single metadata file
  cookbook config show                  Show current configuration`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return app.setup(cmd.Context())
		},
	}

	rootCmd.PersistentFlags().BoolVarP(&app.flags.verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringVar(&app.flags.configFile, "config", "", "config file (default is $HOME/.config/cookbook/config.cue)")
	rootCmd.PersistentFlags().StringVar(&app.flags.logLevel, "log-level", "", "log level: debug, info, warn or error (overrides config)")

	rootCmd.SetOut(app.stdout)
	rootCmd.SetErr(app.stderr)

	rootCmd.AddCommand(
		newShowCommand(app),
		newListCommand(app),
		newMetadataCommand(app),
		newReadmeCommand(app),
		newConfigCommand(app),
	)
	return rootCmd
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Execute runs the cookbook CLI and exits with the code carried by an
// ExitError. It is called by main.main().
func Execute() {
	app := NewApp(Dependencies{})
	if err := fang.Execute(
		context.Background(),
		NewRootCommand(app),
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.Code)
		}
		os.Exit(ExitFailure)
	}
}

// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sysbot/chef/internal/config"
	"github.com/sysbot/chef/internal/issue"
)

// newConfigCommand creates the `cookbook config` command tree.
// Subcommands that read configuration use the App's ConfigProvider.
func newConfigCommand(app *App) *cobra.Command {
	cfgCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage cookbook configuration",
		Long: `Manage cookbook configuration.

Configuration is stored in:
  - Linux: ~/.config/cookbook/config.cue
  - macOS: ~/Library/Application Support/cookbook/config.cue
  - Windows: %APPDATA%\cookbook\config.cue

Every key can be overridden with a COOKBOOK_ environment variable, for
example COOKBOOK_LOG_LEVEL=debug.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return app.fail(cmd, app.showConfig(cmd))
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Create default configuration file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path, err := config.CreateDefaultConfig(app.loadOptions())
			if err != nil {
				return app.fail(cmd, fmt.Errorf("failed to create config: %w", err))
			}
			fmt.Fprintf(app.stdout, "%s Configuration file at %s\n", SuccessStyle.Render("✓"), path)
			return nil
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show configuration file path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path, err := config.DefaultPath(app.loadOptions())
			if err != nil {
				return app.fail(cmd, err)
			}
			fmt.Fprintln(app.stdout, path)
			return nil
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "dump",
		Short: "Output the effective configuration as CUE",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			fmt.Fprint(app.stdout, config.GenerateCUE(app.cfg))
			return nil
		},
	})

	return cfgCmd
}

func (a *App) showConfig(cmd *cobra.Command) error {
	ctx := cmd.Context()
	cfg, err := a.Config.Load(ctx, a.loadOptions())
	if err != nil {
		if a.flags.verbose {
			if rendered, renderErr := issue.Get(issue.ConfigLoadFailedId).Render(string(a.cfg.UI.ColorScheme)); renderErr == nil {
				fmt.Fprint(a.stderr, rendered)
			}
		}
		return err
	}
	path, err := a.Config.Path(ctx, a.loadOptions())
	if err != nil {
		return err
	}

	keyStyle := KeyStyle
	valueStyle := SuccessStyle
	out := a.stdout

	fmt.Fprintln(out, TitleStyle.Render("Current Configuration"))
	fmt.Fprintln(out)
	if path != "" {
		fmt.Fprintf(out, "%s: %s\n", keyStyle.Render("Config file"), path)
	} else {
		fmt.Fprintf(out, "%s: %s\n", keyStyle.Render("Config file"), SubtitleStyle.Render("(using defaults)"))
	}
	fmt.Fprintln(out)

	fmt.Fprintf(out, "%s:\n", keyStyle.Render("cookbook_path"))
	if len(cfg.CookbookPath) == 0 {
		fmt.Fprintf(out, "  %s\n", SubtitleStyle.Render("(none configured)"))
	}
	for _, p := range cfg.CookbookPath {
		fmt.Fprintf(out, "  - %s\n", valueStyle.Render(p))
	}
	fmt.Fprintf(out, "%s: %s\n", keyStyle.Render("chefignore"), valueStyle.Render(string(cfg.Chefignore)))
	parallelism := fmt.Sprint(cfg.Parallelism)
	if cfg.Parallelism == 0 {
		parallelism += SubtitleStyle.Render(" (one per CPU)")
	}
	fmt.Fprintf(out, "%s: %s\n", keyStyle.Render("parallelism"), valueStyle.Render(parallelism))

	fmt.Fprintln(out)
	fmt.Fprintf(out, "%s:\n", keyStyle.Render("log"))
	fmt.Fprintf(out, "  level: %s\n", valueStyle.Render(string(cfg.Log.Level)))

	fmt.Fprintln(out)
	fmt.Fprintf(out, "%s:\n", keyStyle.Render("ui"))
	fmt.Fprintf(out, "  color_scheme: %s\n", valueStyle.Render(string(cfg.UI.ColorScheme)))
	fmt.Fprintf(out, "  verbose: %s\n", valueStyle.Render(fmt.Sprint(cfg.UI.Verbose)))

	fmt.Fprintln(out)
	fmt.Fprintf(out, "%s:\n", keyStyle.Render("watch"))
	fmt.Fprintf(out, "  debounce: %s\n", valueStyle.Render(cfg.Watch.Debounce.Duration().String()))
	fmt.Fprintf(out, "  ignore: %s\n", valueStyle.Render(strings.Join(cfg.Watch.Ignore, ", ")))
	return nil
}

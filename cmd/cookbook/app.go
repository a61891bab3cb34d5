// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/sysbot/chef/internal/config"
	"github.com/sysbot/chef/internal/issue"
	"github.com/sysbot/chef/internal/loader"
	"github.com/sysbot/chef/internal/repository"
	"github.com/sysbot/chef/internal/telemetry"
	"github.com/sysbot/chef/pkg/chefignore"
)

type (
	// App wires CLI services and shared dependencies. It is the composition
	// root of the CLI layer: every Cobra handler receives the App and reads
	// configuration, logger and output writers from it.
	App struct {
		Config ConfigProvider
		stdout io.Writer
		stderr io.Writer

		flags  globalFlags
		cfg    *config.Config
		logger *log.Logger
	}

	// Dependencies defines the injection points for building an App. Nil
	// fields are replaced with production defaults by NewApp.
	Dependencies struct {
		Config ConfigProvider
		Stdout io.Writer
		Stderr io.Writer
	}

	// ConfigProvider loads configuration using explicit options.
	ConfigProvider interface {
		Load(ctx context.Context, opts config.LoadOptions) (*config.Config, error)
		// Path reports the file Load reads, or "" when defaults apply.
		Path(ctx context.Context, opts config.LoadOptions) (string, error)
	}

	// globalFlags holds the persistent flags of the root command.
	globalFlags struct {
		configFile string
		verbose    bool
		logLevel   string
	}
)

// NewApp creates an App with defaults for omitted dependencies.
func NewApp(deps Dependencies) *App {
	if deps.Stdout == nil {
		deps.Stdout = os.Stdout
	}
	if deps.Stderr == nil {
		deps.Stderr = os.Stderr
	}
	if deps.Config == nil {
		deps.Config = config.NewProvider()
	}

	return &App{
		Config: deps.Config,
		stdout: deps.Stdout,
		stderr: deps.Stderr,
		cfg:    config.DefaultConfig(),
		logger: log.New(io.Discard),
	}
}

// loadOptions returns the config loading options derived from the flags.
func (a *App) loadOptions() config.LoadOptions {
	return config.LoadOptions{ConfigFilePath: a.flags.configFile}
}

// setup loads the configuration and builds the logger. A configuration that
// fails to load is reported as a warning and defaults are used instead.
func (a *App) setup(ctx context.Context) error {
	cfg, err := a.Config.Load(ctx, a.loadOptions())
	if err != nil {
		fmt.Fprintln(a.stderr, WarningStyle.Render("Warning: ")+formatErrorForDisplay(err, a.flags.verbose))
		cfg = config.DefaultConfig()
	}
	a.cfg = cfg

	if !a.flags.verbose {
		a.flags.verbose = cfg.UI.Verbose
	}

	level := cfg.Log.Level
	if a.flags.logLevel != "" {
		level = config.LogLevel(a.flags.logLevel)
		if valid, errs := level.IsValid(); !valid {
			return errors.Join(errs...)
		}
	}

	a.logger = log.NewWithOptions(a.stderr, log.Options{
		Prefix: config.AppName,
		Level:  level.Level(),
	})
	if a.flags.verbose {
		a.logger.SetLevel(log.DebugLevel)
	}
	return nil
}

// loaderOptions returns the options every cookbook loader of this run uses.
func (a *App) loaderOptions(recorder telemetry.Recorder) []loader.Option {
	return []loader.Option{
		loader.WithLogger(a.logger),
		loader.WithIgnoreFileName(string(a.cfg.Chefignore)),
		loader.WithRecorder(recorder),
	}
}

// repository builds a Repository over paths, falling back to the configured
// cookbook_path.
func (a *App) repository(paths []string, recorder telemetry.Recorder) (*repository.Repository, error) {
	if len(paths) == 0 {
		paths = a.cfg.CookbookPath
	}
	if len(paths) == 0 {
		return nil, issue.NewErrorContext().
			WithOperation("list cookbooks").
			WithSuggestion("Pass --cookbook-path or set cookbook_path in the configuration").
			WithIssue(issue.CookbookPathMissingId).
			Wrap(errors.New("no cookbook path configured")).
			BuildError()
	}
	return repository.New(paths,
		repository.WithLogger(a.logger),
		repository.WithIgnoreFileName(string(a.cfg.Chefignore)),
		repository.WithParallelism(a.cfg.Parallelism),
		repository.WithRecorder(recorder),
	), nil
}

// skipIgnored returns a watch filter honouring the chefignore of each root.
// The filter is keyed by absolute root, as the watcher reports them. Roots
// whose chefignore fails to load are not filtered.
func (a *App) skipIgnored(roots []string) func(root, rel string) bool {
	ignores := make(map[string]*chefignore.Chefignore, len(roots))
	for _, root := range roots {
		abs, err := filepath.Abs(root)
		if err != nil {
			continue
		}
		ignore, err := chefignore.Find(abs, string(a.cfg.Chefignore))
		if err != nil {
			a.logger.Warn("chefignore not applied to watch", "root", root, "error", err)
			continue
		}
		ignores[abs] = ignore
	}
	return func(root, rel string) bool {
		return ignores[root].Ignored(rel)
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

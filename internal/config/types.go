// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/charmbracelet/log"

	"github.com/sysbot/chef/pkg/chefignore"
)

const (
	// LogLevelDebug logs every scanned root and resolved source.
	LogLevelDebug LogLevel = "debug"
	// LogLevelInfo is the default level.
	LogLevelInfo LogLevel = "info"
	// LogLevelWarn logs skipped directories and missing repositories.
	LogLevelWarn LogLevel = "warn"
	// LogLevelError logs failures only.
	LogLevelError LogLevel = "error"

	// ColorSchemeAuto detects the terminal color scheme automatically.
	ColorSchemeAuto ColorScheme = "auto"
	// ColorSchemeDark forces dark color scheme.
	ColorSchemeDark ColorScheme = "dark"
	// ColorSchemeLight forces light color scheme.
	ColorSchemeLight ColorScheme = "light"

	// DefaultDebounce is the default quiet period of the watcher.
	DefaultDebounce DebounceInterval = "500ms"
)

var (
	// ErrInvalidLogLevel is returned when a LogLevel value is not recognized.
	ErrInvalidLogLevel = errors.New("invalid log level")
	// ErrInvalidColorScheme is returned when a ColorScheme value is not recognized.
	ErrInvalidColorScheme = errors.New("invalid color scheme")
	// ErrInvalidIgnoreFileName is returned when an IgnoreFileName is not a plain file name.
	ErrInvalidIgnoreFileName = errors.New("invalid ignore file name")
	// ErrInvalidParallelism is returned when parallelism is negative.
	ErrInvalidParallelism = errors.New("invalid parallelism")
	// ErrInvalidDebounceInterval is returned when a DebounceInterval is not a positive duration.
	ErrInvalidDebounceInterval = errors.New("invalid debounce interval")
	// ErrInvalidWatchPattern is returned when a watch ignore pattern is malformed.
	ErrInvalidWatchPattern = errors.New("invalid watch ignore pattern")
	// ErrInvalidCookbookPath is returned when a cookbook_path entry is blank.
	ErrInvalidCookbookPath = errors.New("invalid cookbook path")
	// ErrInvalidConfig is the sentinel error wrapped by InvalidConfigError.
	ErrInvalidConfig = errors.New("invalid config")
)

type (
	// LogLevel is the minimum level written by the logger.
	LogLevel string

	// InvalidLogLevelError is returned when a LogLevel value is not recognized.
	InvalidLogLevelError struct {
		Value LogLevel
	}

	// ColorScheme specifies the terminal color scheme preference.
	ColorScheme string

	// InvalidColorSchemeError is returned when a ColorScheme value is not recognized.
	InvalidColorSchemeError struct {
		Value ColorScheme
	}

	// IgnoreFileName is the base name of the chefignore file.
	IgnoreFileName string

	// InvalidIgnoreFileNameError is returned for an empty name or one that
	// contains a path separator.
	InvalidIgnoreFileNameError struct {
		Value IgnoreFileName
	}

	// InvalidParallelismError is returned when parallelism is negative.
	InvalidParallelismError struct {
		Value int
	}

	// DebounceInterval is a Go duration string such as "250ms".
	DebounceInterval string

	// InvalidDebounceIntervalError is returned when a DebounceInterval does
	// not parse or is not positive.
	InvalidDebounceIntervalError struct {
		Value DebounceInterval
		Err   error
	}

	// InvalidWatchPatternError is returned for a malformed watch ignore pattern.
	InvalidWatchPatternError struct {
		Pattern string
	}

	// InvalidCookbookPathError is returned for a blank cookbook_path entry.
	InvalidCookbookPathError struct {
		Index int
	}

	// InvalidConfigError collects the field errors of a Config.
	InvalidConfigError struct {
		FieldErrors []error
	}

	// Config holds the application configuration.
	Config struct {
		// CookbookPath lists the cookbook repositories in search order.
		CookbookPath []string `json:"cookbook_path" mapstructure:"cookbook_path"`
		// Chefignore is the ignore file name looked up next to each cookbook.
		Chefignore IgnoreFileName `json:"chefignore" mapstructure:"chefignore"`
		// Parallelism bounds concurrent cookbook resolution; 0 means GOMAXPROCS.
		Parallelism int `json:"parallelism" mapstructure:"parallelism"`
		// Log configures the logger.
		Log LogConfig `json:"log" mapstructure:"log"`
		// UI configures the user interface.
		UI UIConfig `json:"ui" mapstructure:"ui"`
		// Watch configures `show --watch`.
		Watch WatchConfig `json:"watch" mapstructure:"watch"`
	}

	// LogConfig configures the logger.
	LogConfig struct {
		Level LogLevel `json:"level" mapstructure:"level"`
	}

	// UIConfig configures the user interface.
	UIConfig struct {
		// ColorScheme sets the color scheme
		ColorScheme ColorScheme `json:"color_scheme" mapstructure:"color_scheme"`
		// Verbose enables verbose output
		Verbose bool `json:"verbose" mapstructure:"verbose"`
	}

	// WatchConfig configures the file watcher.
	WatchConfig struct {
		// Debounce is the quiet period before a change triggers a reload.
		Debounce DebounceInterval `json:"debounce" mapstructure:"debounce"`
		// Ignore lists doublestar patterns, relative to each watched root,
		// whose changes never trigger a reload.
		Ignore []string `json:"ignore" mapstructure:"ignore"`
	}
)

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		CookbookPath: []string{},
		Chefignore:   IgnoreFileName(chefignore.FileName),
		Parallelism:  0,
		Log: LogConfig{
			Level: LogLevelInfo,
		},
		UI: UIConfig{
			ColorScheme: ColorSchemeAuto,
			Verbose:     false,
		},
		Watch: WatchConfig{
			Debounce: DefaultDebounce,
			Ignore:   []string{"**/.git/**", "**/*.swp", "**/*~"},
		},
	}
}

// IsValid returns whether the Config has valid fields, collecting the
// errors of every invalid field.
func (c Config) IsValid() (bool, []error) {
	var errs []error
	for i, p := range c.CookbookPath {
		if strings.TrimSpace(p) == "" {
			errs = append(errs, &InvalidCookbookPathError{Index: i})
		}
	}
	if valid, fieldErrs := c.Chefignore.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if c.Parallelism < 0 {
		errs = append(errs, &InvalidParallelismError{Value: c.Parallelism})
	}
	if valid, fieldErrs := c.Log.Level.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if valid, fieldErrs := c.UI.ColorScheme.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if valid, fieldErrs := c.Watch.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if len(errs) > 0 {
		return false, []error{&InvalidConfigError{FieldErrors: errs}}
	}
	return true, nil
}

// Error implements the error interface for InvalidConfigError.
func (e *InvalidConfigError) Error() string {
	msgs := make([]string, 0, len(e.FieldErrors))
	for _, err := range e.FieldErrors {
		msgs = append(msgs, err.Error())
	}
	return fmt.Sprintf("invalid config: %s", strings.Join(msgs, "; "))
}

// Unwrap returns ErrInvalidConfig and the field errors.
func (e *InvalidConfigError) Unwrap() []error {
	return append([]error{ErrInvalidConfig}, e.FieldErrors...)
}

// IsValid checks the debounce interval and every ignore pattern.
func (c WatchConfig) IsValid() (bool, []error) {
	var errs []error
	if valid, fieldErrs := c.Debounce.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	for _, p := range c.Ignore {
		if !doublestar.ValidatePattern(p) {
			errs = append(errs, &InvalidWatchPatternError{Pattern: p})
		}
	}
	return len(errs) == 0, errs
}

// String returns the string representation of the LogLevel.
func (l LogLevel) String() string { return string(l) }

// IsValid returns whether the LogLevel is one of the defined levels.
func (l LogLevel) IsValid() (bool, []error) {
	switch l {
	case LogLevelDebug, LogLevelInfo, LogLevelWarn, LogLevelError:
		return true, nil
	default:
		return false, []error{&InvalidLogLevelError{Value: l}}
	}
}

// Level converts to a charmbracelet/log level. Unknown values map to info.
func (l LogLevel) Level() log.Level {
	lvl, err := log.ParseLevel(string(l))
	if err != nil {
		return log.InfoLevel
	}
	return lvl
}

// Error implements the error interface for InvalidLogLevelError.
func (e *InvalidLogLevelError) Error() string {
	return fmt.Sprintf("invalid log level %q (valid: debug, info, warn, error)", e.Value)
}

// Unwrap returns the sentinel error for errors.Is() compatibility.
func (e *InvalidLogLevelError) Unwrap() error { return ErrInvalidLogLevel }

// String returns the string representation of the ColorScheme.
func (cs ColorScheme) String() string { return string(cs) }

// IsValid returns whether the ColorScheme is one of the defined color schemes.
func (cs ColorScheme) IsValid() (bool, []error) {
	switch cs {
	case ColorSchemeAuto, ColorSchemeDark, ColorSchemeLight:
		return true, nil
	default:
		return false, []error{&InvalidColorSchemeError{Value: cs}}
	}
}

// Error implements the error interface for InvalidColorSchemeError.
func (e *InvalidColorSchemeError) Error() string {
	return fmt.Sprintf("invalid color scheme %q (valid: auto, dark, light)", e.Value)
}

// Unwrap returns the sentinel error for errors.Is() compatibility.
func (e *InvalidColorSchemeError) Unwrap() error { return ErrInvalidColorScheme }

// String returns the string representation of the IgnoreFileName.
func (n IgnoreFileName) String() string { return string(n) }

// IsValid returns whether the name is a non-empty base name.
func (n IgnoreFileName) IsValid() (bool, []error) {
	s := string(n)
	if strings.TrimSpace(s) == "" || strings.ContainsAny(s, `/\`) || s == "." || s == ".." {
		return false, []error{&InvalidIgnoreFileNameError{Value: n}}
	}
	return true, nil
}

// Error implements the error interface for InvalidIgnoreFileNameError.
func (e *InvalidIgnoreFileNameError) Error() string {
	return fmt.Sprintf("invalid ignore file name %q: must be a plain file name", e.Value)
}

// Unwrap returns the sentinel error for errors.Is() compatibility.
func (e *InvalidIgnoreFileNameError) Unwrap() error { return ErrInvalidIgnoreFileName }

// Error implements the error interface for InvalidParallelismError.
func (e *InvalidParallelismError) Error() string {
	return fmt.Sprintf("invalid parallelism %d: must not be negative", e.Value)
}

// Unwrap returns the sentinel error for errors.Is() compatibility.
func (e *InvalidParallelismError) Unwrap() error { return ErrInvalidParallelism }

// String returns the string representation of the DebounceInterval.
func (d DebounceInterval) String() string { return string(d) }

// Duration parses the interval. Invalid values yield DefaultDebounce.
func (d DebounceInterval) Duration() time.Duration {
	if dur, err := time.ParseDuration(string(d)); err == nil && dur > 0 {
		return dur
	}
	dur, _ := time.ParseDuration(string(DefaultDebounce))
	return dur
}

// IsValid returns whether the interval parses as a positive duration.
func (d DebounceInterval) IsValid() (bool, []error) {
	dur, err := time.ParseDuration(string(d))
	if err != nil {
		return false, []error{&InvalidDebounceIntervalError{Value: d, Err: err}}
	}
	if dur <= 0 {
		return false, []error{&InvalidDebounceIntervalError{Value: d}}
	}
	return true, nil
}

// Error implements the error interface for InvalidDebounceIntervalError.
func (e *InvalidDebounceIntervalError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid debounce interval %q: %v", e.Value, e.Err)
	}
	return fmt.Sprintf("invalid debounce interval %q: must be positive", e.Value)
}

// Unwrap returns the sentinel error for errors.Is() compatibility.
func (e *InvalidDebounceIntervalError) Unwrap() error { return ErrInvalidDebounceInterval }

// Error implements the error interface for InvalidWatchPatternError.
func (e *InvalidWatchPatternError) Error() string {
	return fmt.Sprintf("invalid watch ignore pattern %q", e.Pattern)
}

// Unwrap returns the sentinel error for errors.Is() compatibility.
func (e *InvalidWatchPatternError) Unwrap() error { return ErrInvalidWatchPattern }

// Error implements the error interface for InvalidCookbookPathError.
func (e *InvalidCookbookPathError) Error() string {
	return fmt.Sprintf("invalid cookbook_path[%d]: must not be blank", e.Index)
}

// Unwrap returns the sentinel error for errors.Is() compatibility.
func (e *InvalidCookbookPathError) Unwrap() error { return ErrInvalidCookbookPath }

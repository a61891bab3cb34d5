// SPDX-License-Identifier: MPL-2.0

package loader

import (
	"errors"
	"io"
	"path/filepath"
	"slices"
	"time"

	"github.com/charmbracelet/log"

	"github.com/sysbot/chef/internal/telemetry"
	"github.com/sysbot/chef/pkg/chefignore"
	"github.com/sysbot/chef/pkg/cookbook"
	"github.com/sysbot/chef/pkg/metadata"
)

type (
	// Loader resolves one cookbook. It starts from a single overlay root and
	// can absorb further roots with Merge. A Loader is not safe for
	// concurrent use.
	Loader struct {
		root           string
		name           string
		logger         *log.Logger
		recorder       telemetry.Recorder
		ignore         *chefignore.Chefignore
		ignoreFileName string

		overlay  *Overlay
		metadata *metadata.Metadata
	}

	// Option configures a Loader.
	Option func(*Loader)
)

// WithLogger sets the logger. The default discards output.
func WithLogger(logger *log.Logger) Option {
	return func(l *Loader) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// WithChefignore supplies the ignore filter instead of looking for one next
// to the cookbook.
func WithChefignore(ignore *chefignore.Chefignore) Option {
	return func(l *Loader) { l.ignore = ignore }
}

// WithIgnoreFileName changes the ignore file name looked up next to the
// cookbook. Defaults to chefignore.FileName.
func WithIgnoreFileName(name string) Option {
	return func(l *Loader) { l.ignoreFileName = name }
}

// WithName overrides the cookbook name, which otherwise is the base name of
// the root directory.
func WithName(name string) Option {
	return func(l *Loader) {
		if name != "" {
			l.name = name
		}
	}
}

// WithRecorder sets the metrics recorder.
func WithRecorder(r telemetry.Recorder) Option {
	return func(l *Loader) {
		if r != nil {
			l.recorder = r
		}
	}
}

// New creates a Loader for the cookbook directory root. Nothing is read until
// Load.
func New(root string, opts ...Option) *Loader {
	root = filepath.Clean(root)
	l := &Loader{
		root:     root,
		name:     filepath.Base(root),
		logger:   log.New(io.Discard),
		recorder: telemetry.Nop(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Name returns the cookbook name.
func (l *Loader) Name() string { return l.name }

// Root returns the directory the loader was created for.
func (l *Loader) Root() string { return l.root }

// Overlay returns the scanned overlay, or nil before Load.
func (l *Loader) Overlay() *Overlay { return l.overlay }

// Load scans the root directory and reads its uploaded version descriptor.
// Calling Load again is a no-op.
func (l *Loader) Load() error {
	if l.overlay != nil {
		return nil
	}

	ignore, err := l.chefignore()
	if err != nil {
		return err
	}

	ov, uploadedVersion, err := Scan(l.root, ignore)
	if err != nil {
		return err
	}
	for seg, files := range ov.Files {
		if len(files) > 0 {
			l.recorder.FilesScanned(seg, len(files))
		}
	}

	if uploadedVersion != "" {
		uv, err := ReadUploadedVersion(uploadedVersion)
		if err != nil {
			l.logger.Error("failed to parse uploaded cookbook version", "cookbook", l.name, "path", uploadedVersion, "error", err)
			return &MetadataParseError{Cookbook: l.name, Path: uploadedVersion, Err: err}
		}
		ov.AttachDescriptor(uv)
	}

	l.logger.Debug("scanned cookbook root", "cookbook", l.name, "root", l.root, "files", ov.Files.Len(), "sources", len(ov.Sources))
	l.overlay = ov
	return nil
}

// chefignore returns the ignore filter for the root, loading it on first use.
func (l *Loader) chefignore() (*chefignore.Chefignore, error) {
	if l.ignore != nil {
		return l.ignore, nil
	}
	ignore, err := chefignore.Find(l.root, l.ignoreFileName)
	if err != nil {
		return nil, err
	}
	l.ignore = ignore
	return ignore, nil
}

// Merge loads other and folds it into l; other's files override l's files of
// the same relative path. Resolved metadata is discarded and re-applied from
// all sources on next use.
func (l *Loader) Merge(other *Loader) error {
	if err := l.Load(); err != nil {
		return err
	}
	if err := other.Load(); err != nil {
		return err
	}
	l.overlay = Merge(l.overlay, other.overlay)
	l.metadata = nil
	return nil
}

// Empty reports whether nothing has been found: no files in any segment and
// no metadata source. It reflects what has been loaded so far.
func (l *Loader) Empty() bool {
	return l.overlay.Empty()
}

// Metadata loads the cookbook if needed and returns its resolved metadata.
func (l *Loader) Metadata() (*metadata.Metadata, error) {
	if err := l.Load(); err != nil {
		return nil, err
	}
	if l.metadata != nil {
		return l.metadata, nil
	}
	md, err := resolveMetadata(l.name, l.overlay.Sources, l.logger)
	if err != nil {
		return nil, err
	}
	l.metadata = md
	return md, nil
}

// CookbookVersion assembles the cookbook version. An empty cookbook is
// logged as a warning and reported as ErrEmptyCookbook.
func (l *Loader) CookbookVersion() (*cookbook.Version, error) {
	start := time.Now()

	v, err := l.cookbookVersion()
	switch {
	case err == nil:
		l.recorder.CookbookResolved(telemetry.OutcomeLoaded, time.Since(start))
	case errors.Is(err, ErrEmptyCookbook):
		l.recorder.CookbookResolved(telemetry.OutcomeEmpty, time.Since(start))
	default:
		l.recorder.CookbookResolved(telemetry.OutcomeFailed, time.Since(start))
	}
	return v, err
}

func (l *Loader) cookbookVersion() (*cookbook.Version, error) {
	if err := l.Load(); err != nil {
		return nil, err
	}
	if l.Empty() {
		l.logger.Warn("found a directory in the cookbook path that does not look like a cookbook, skipping",
			"cookbook", l.name, "roots", l.overlay.Roots)
		return nil, ErrEmptyCookbook
	}

	md, err := l.Metadata()
	if err != nil {
		return nil, err
	}

	v, _ := Assemble(l.name, l.overlay, md)
	return v, nil
}

// LoadStrict is CookbookVersion for callers that require the cookbook: an
// empty cookbook is a *CookbookNotFoundError.
func (l *Loader) LoadStrict() (*cookbook.Version, error) {
	v, err := l.CookbookVersion()
	if errors.Is(err, ErrEmptyCookbook) {
		return nil, &CookbookNotFoundError{Name: l.name, Roots: l.overlay.Roots}
	}
	return v, err
}

// Resolve builds the cookbook version for name from roots, merged in order so
// that later roots override earlier ones. An empty name defaults to the base
// name of the first root. Opts apply to every root's loader.
func Resolve(name string, roots []string, opts ...Option) (*cookbook.Version, error) {
	if len(roots) == 0 {
		return nil, &CookbookNotFoundError{Name: name}
	}

	first := New(roots[0], append(slices.Clone(opts), WithName(name))...)
	if err := first.Load(); err != nil {
		return nil, err
	}
	for _, root := range roots[1:] {
		if err := first.Merge(New(root, opts...)); err != nil {
			return nil, err
		}
	}
	return first.CookbookVersion()
}

// SPDX-License-Identifier: MPL-2.0

// Package repository loads every cookbook found under an ordered list of
// cookbook repository directories.
//
// Cookbook directories with the same name in several repositories form one
// overlay sequence, in repository order, so a later repository overrides
// files of an earlier one. Groups are resolved concurrently.
package repository

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/sysbot/chef/internal/loader"
	"github.com/sysbot/chef/internal/telemetry"
	"github.com/sysbot/chef/pkg/chefignore"
	"github.com/sysbot/chef/pkg/cookbook"
)

type (
	// Repository loads cookbooks from a cookbook path.
	Repository struct {
		paths          []string
		logger         *log.Logger
		recorder       telemetry.Recorder
		ignoreFileName string
		parallelism    int

		mu      sync.Mutex
		ignores map[string]*chefignore.Chefignore
	}

	// Option configures a Repository.
	Option func(*Repository)

	// Group is one cookbook and the directories backing it, in repository
	// order.
	Group struct {
		Name  string
		Roots []string

		repos []string
	}
)

// WithLogger sets the logger. The default discards output.
func WithLogger(logger *log.Logger) Option {
	return func(r *Repository) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithIgnoreFileName changes the ignore file name. Defaults to
// chefignore.FileName.
func WithIgnoreFileName(name string) Option {
	return func(r *Repository) {
		if name != "" {
			r.ignoreFileName = name
		}
	}
}

// WithParallelism bounds the number of cookbooks resolved at once. Values
// below one mean runtime.GOMAXPROCS(0).
func WithParallelism(n int) Option {
	return func(r *Repository) { r.parallelism = n }
}

// WithRecorder sets the metrics recorder passed to every loader.
func WithRecorder(rec telemetry.Recorder) Option {
	return func(r *Repository) {
		if rec != nil {
			r.recorder = rec
		}
	}
}

// New creates a Repository over paths, searched in order.
func New(paths []string, opts ...Option) *Repository {
	r := &Repository{
		logger:         log.New(io.Discard),
		recorder:       telemetry.Nop(),
		ignoreFileName: chefignore.FileName,
		ignores:        map[string]*chefignore.Chefignore{},
	}
	for _, p := range paths {
		r.paths = append(r.paths, filepath.Clean(p))
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.parallelism < 1 {
		r.parallelism = runtime.GOMAXPROCS(0)
	}
	return r
}

// Paths returns the repository directories in search order.
func (r *Repository) Paths() []string {
	out := make([]string, len(r.paths))
	copy(out, r.paths)
	return out
}

// Discover lists the cookbooks under the repository paths, sorted by name.
// Every non-hidden directory directly below a repository path is a cookbook
// directory. Repository paths that do not exist are skipped with a warning.
func (r *Repository) Discover(ctx context.Context) ([]Group, error) {
	byName := map[string]*Group{}

	for _, repo := range r.paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		entries, err := os.ReadDir(repo)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				r.logger.Warn("cookbook path does not exist, skipping", "path", repo)
				continue
			}
			return nil, fmt.Errorf("read cookbook path %s: %w", repo, err)
		}

		for _, entry := range entries {
			name := entry.Name()
			if strings.HasPrefix(name, ".") {
				continue
			}
			dir := filepath.Join(repo, name)
			if info, err := os.Stat(dir); err != nil || !info.IsDir() {
				continue
			}

			g, ok := byName[name]
			if !ok {
				g = &Group{Name: name}
				byName[name] = g
			}
			g.Roots = append(g.Roots, dir)
			g.repos = append(g.repos, repo)
		}
	}

	groups := make([]Group, 0, len(byName))
	for _, g := range byName {
		groups = append(groups, *g)
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i].Name < groups[j].Name })
	return groups, nil
}

// LoadAll resolves every cookbook. Empty cookbook directories are skipped.
// The first failure cancels the remaining work and is returned. Versions are
// sorted by name.
func (r *Repository) LoadAll(ctx context.Context) ([]*cookbook.Version, error) {
	groups, err := r.Discover(ctx)
	if err != nil {
		return nil, err
	}

	results := make([]*cookbook.Version, len(groups))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.parallelism)

	for i, grp := range groups {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			l, err := r.loaderFor(grp)
			if err != nil {
				return err
			}
			v, err := l.CookbookVersion()
			if errors.Is(err, loader.ErrEmptyCookbook) {
				return nil
			}
			if err != nil {
				return err
			}
			results[i] = v
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	versions := make([]*cookbook.Version, 0, len(results))
	for _, v := range results {
		if v != nil {
			versions = append(versions, v)
		}
	}
	r.logger.Debug("loaded cookbooks", "count", len(versions), "directories", len(groups))
	return versions, nil
}

// Load resolves the named cookbook. A name that matches no directory, or
// only empty ones, is a *loader.CookbookNotFoundError.
func (r *Repository) Load(ctx context.Context, name string) (*cookbook.Version, error) {
	groups, err := r.Discover(ctx)
	if err != nil {
		return nil, err
	}

	for _, grp := range groups {
		if grp.Name != name {
			continue
		}
		l, err := r.loaderFor(grp)
		if err != nil {
			return nil, err
		}
		return l.LoadStrict()
	}
	return nil, &loader.CookbookNotFoundError{Name: name, Roots: r.Paths()}
}

// loaderFor builds a loader for the group's first root and merges the other
// roots into it.
func (r *Repository) loaderFor(grp Group) (*loader.Loader, error) {
	var first *loader.Loader
	for i, root := range grp.Roots {
		ignore, err := r.ignoreFor(grp.repos[i], root)
		if err != nil {
			return nil, err
		}
		l := loader.New(root,
			loader.WithName(grp.Name),
			loader.WithLogger(r.logger),
			loader.WithRecorder(r.recorder),
			loader.WithIgnoreFileName(r.ignoreFileName),
			loader.WithChefignore(ignore),
		)
		if first == nil {
			first = l
			if err := first.Load(); err != nil {
				return nil, err
			}
			continue
		}
		if err := first.Merge(l); err != nil {
			return nil, err
		}
	}
	return first, nil
}

// ignoreFor returns the repository's ignore filter for a cookbook directory.
// A cookbook carrying its own ignore file gets nil, leaving the lookup to
// the loader.
func (r *Repository) ignoreFor(repo, cookbookDir string) (*chefignore.Chefignore, error) {
	if _, err := os.Stat(filepath.Join(cookbookDir, r.ignoreFileName)); err == nil {
		return nil, nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if ignore, ok := r.ignores[repo]; ok {
		return ignore, nil
	}
	ignore, err := chefignore.Load(filepath.Join(repo, r.ignoreFileName))
	if err != nil {
		return nil, err
	}
	r.ignores[repo] = ignore
	return ignore, nil
}

// SPDX-License-Identifier: MPL-2.0

package cookbook

import (
	"slices"
	"sort"

	"github.com/sysbot/chef/pkg/metadata"
)

// Version is a resolved cookbook version. It is built once from the merged
// files of its overlay roots and is read-only afterwards, except for the
// one-way Freeze.
type Version struct {
	name      string
	rootPaths []string
	metadata  *metadata.Metadata
	files     map[Segment][]File
	frozen    bool
}

// File is a single cookbook file.
type File struct {
	// Path is relative to the cookbook root, slash separated.
	Path string
	// AbsPath is the location on disk; with several overlay roots it points
	// into the root that won for Path.
	AbsPath string
}

// NewVersion builds a Version. Each segment's files are ordered by relative
// path. A nil md is replaced by default metadata named after the cookbook.
func NewVersion(name string, rootPaths []string, md *metadata.Metadata, files FileSet) *Version {
	if md == nil {
		md = metadata.New()
		md.Name = name
	}

	v := &Version{
		name:      name,
		rootPaths: slices.Clone(rootPaths),
		metadata:  md,
		files:     make(map[Segment][]File, len(allSegments)),
	}
	for _, seg := range allSegments {
		entries := files[seg]
		list := make([]File, 0, len(entries))
		for rel, abs := range entries {
			list = append(list, File{Path: rel, AbsPath: abs})
		}
		sort.Slice(list, func(i, j int) bool { return list[i].Path < list[j].Path })
		v.files[seg] = list
	}
	return v
}

// Name returns the cookbook name.
func (v *Version) Name() string { return v.name }

// RootPaths returns the overlay roots in merge order.
func (v *Version) RootPaths() []string { return slices.Clone(v.rootPaths) }

// Metadata returns the resolved metadata.
func (v *Version) Metadata() *metadata.Metadata { return v.metadata }

// Version returns the metadata version string.
func (v *Version) Version() string { return v.metadata.Version }

// FullName returns "name-version".
func (v *Version) FullName() string { return v.name + "-" + v.metadata.Version }

// Files returns the files of seg ordered by relative path.
func (v *Version) Files(seg Segment) []File { return slices.Clone(v.files[seg]) }

// Paths returns the absolute paths of seg's files ordered by relative path.
func (v *Version) Paths(seg Segment) []string {
	out := make([]string, 0, len(v.files[seg]))
	for _, f := range v.files[seg] {
		out = append(out, f.AbsPath)
	}
	return out
}

// FileCount returns the number of files across all segments.
func (v *Version) FileCount() int {
	n := 0
	for _, files := range v.files {
		n += len(files)
	}
	return n
}

// Frozen reports whether the version has been frozen.
func (v *Version) Frozen() bool { return v.frozen }

// Freeze marks the version as frozen. There is no way to unfreeze.
func (v *Version) Freeze() { v.frozen = true }

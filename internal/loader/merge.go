// SPDX-License-Identifier: MPL-2.0

package loader

import (
	"slices"

	"github.com/sysbot/chef/pkg/cookbook"
)

// Merge folds incoming into base and returns the result as a new overlay;
// neither input is modified.
//
// For a relative path present in both, incoming's file wins. Paths present on
// one side only are kept. Roots and metadata sources are concatenated with
// base first, and the result is frozen if either side is.
func Merge(base, incoming *Overlay) *Overlay {
	switch {
	case base == nil && incoming == nil:
		return &Overlay{Files: cookbook.NewFileSet()}
	case base == nil:
		return incoming.Clone()
	case incoming == nil:
		return base.Clone()
	}

	out := base.Clone()
	for seg, files := range incoming.Files {
		for rel, abs := range files {
			out.Files.Add(seg, rel, abs)
		}
	}
	out.Roots = append(out.Roots, incoming.Roots...)
	out.Sources = append(out.Sources, slices.Clone(incoming.Sources)...)
	out.Frozen = base.Frozen || incoming.Frozen
	return out
}

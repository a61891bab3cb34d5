// SPDX-License-Identifier: MPL-2.0

package loader

import (
	"testing"

	"github.com/sysbot/chef/pkg/cookbook"
)

func overlayWith(root string, frozen bool, recipes ...string) *Overlay {
	files := cookbook.NewFileSet()
	for _, rel := range recipes {
		files.Add(cookbook.SegmentRecipes, rel, root+"/"+rel)
	}
	return &Overlay{
		Roots:   []string{root},
		Files:   files,
		Sources: []MetadataSource{{Kind: SourceScript, Path: root + "/metadata.rb"}},
		Frozen:  frozen,
	}
}

func TestMerge_Override(t *testing.T) {
	t.Parallel()

	base := overlayWith("/base", false, "recipes/default.rb")
	incoming := overlayWith("/site", false, "recipes/default.rb")

	merged := Merge(base, incoming)
	if got := merged.Files[cookbook.SegmentRecipes]["recipes/default.rb"]; got != "/site/recipes/default.rb" {
		t.Errorf("merged recipes/default.rb = %q, want the incoming path", got)
	}
	if got := base.Files[cookbook.SegmentRecipes]["recipes/default.rb"]; got != "/base/recipes/default.rb" {
		t.Errorf("Merge() modified base: %q", got)
	}
}

func TestMerge_Union(t *testing.T) {
	t.Parallel()

	merged := Merge(overlayWith("/base", false, "recipes/a.rb"), overlayWith("/site", false, "recipes/b.rb"))

	got := keys(merged.Files[cookbook.SegmentRecipes])
	if !got["recipes/a.rb"] || !got["recipes/b.rb"] || len(got) != 2 {
		t.Errorf("merged recipes = %v, want a.rb and b.rb", got)
	}
	for _, seg := range cookbook.AllSegments() {
		if merged.Files[seg] == nil {
			t.Errorf("merged segment %s is nil", seg)
		}
	}
}

// TestMerge_RootsAndSources verifies that roots and metadata sources are
// concatenated base first across repeated merges.
func TestMerge_RootsAndSources(t *testing.T) {
	t.Parallel()

	merged := Merge(Merge(overlayWith("/a", false), overlayWith("/b", false)), overlayWith("/c", false))

	wantRoots := []string{"/a", "/b", "/c"}
	if len(merged.Roots) != len(wantRoots) {
		t.Fatalf("Roots = %v, want %v", merged.Roots, wantRoots)
	}
	for i, root := range wantRoots {
		if merged.Roots[i] != root {
			t.Errorf("Roots[%d] = %q, want %q", i, merged.Roots[i], root)
		}
		if merged.Sources[i].Path != root+"/metadata.rb" {
			t.Errorf("Sources[%d].Path = %q, want %q", i, merged.Sources[i].Path, root+"/metadata.rb")
		}
	}
}

// TestMerge_FrozenIsMonotonic verifies that merging with a frozen overlay, in
// either order, yields a frozen overlay.
func TestMerge_FrozenIsMonotonic(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name           string
		base, incoming bool
		want           bool
	}{
		{"neither", false, false, false},
		{"base frozen", true, false, true},
		{"incoming frozen", false, true, true},
		{"both", true, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			merged := Merge(overlayWith("/a", tt.base), overlayWith("/b", tt.incoming))
			if merged.Frozen != tt.want {
				t.Errorf("Merge().Frozen = %v, want %v", merged.Frozen, tt.want)
			}
		})
	}

	// A later non-frozen overlay never unfreezes.
	merged := Merge(Merge(overlayWith("/a", true), overlayWith("/b", false)), overlayWith("/c", false))
	if !merged.Frozen {
		t.Error("frozen flag was reset by later non-frozen overlays")
	}
}

func TestMerge_Nil(t *testing.T) {
	t.Parallel()

	ov := overlayWith("/a", true, "recipes/a.rb")
	if got := Merge(nil, ov); got == ov || got.Files.Len() != 1 || !got.Frozen {
		t.Errorf("Merge(nil, ov) = %+v, want a copy of ov", got)
	}
	if got := Merge(ov, nil); got == ov || got.Files.Len() != 1 {
		t.Errorf("Merge(ov, nil) = %+v, want a copy of ov", got)
	}
	if got := Merge(nil, nil); !got.Empty() {
		t.Errorf("Merge(nil, nil) = %+v, want empty", got)
	}
}

// SPDX-License-Identifier: MPL-2.0

package loader

import (
	"path/filepath"
	"testing"

	"github.com/sysbot/chef/internal/testutil"
	"github.com/sysbot/chef/pkg/chefignore"
	"github.com/sysbot/chef/pkg/cookbook"
)

// TestScan_Segments verifies the per-segment recursion and extension rules and
// that the descriptor is reported rather than listed as a root file.
func TestScan_Segments(t *testing.T) {
	t.Parallel()

	root := testutil.NewCookbook(t, "apache2", map[string]string{
		"attributes/default.rb":           "",
		"attributes/README.md":            "",
		"attributes/nested/deep.rb":       "",
		"definitions/vhost.rb":            "",
		"recipes/default.rb":              "",
		"recipes/.hidden.rb":              "",
		"recipes/sub/other.rb":            "",
		"recipes/dir.rb/":                 "",
		"libraries/helpers.rb":            "",
		"templates/default/site.conf.erb": "",
		"templates/.keep":                 "",
		"files/default/a/b/c.txt":         "",
		"resources/site.rb":               "",
		"resources/nested/mod.rb":         "",
		"resources/nested/notes.txt":      "",
		"providers/site.rb":               "",
		"README.md":                       "",
		".kitchen.yml":                    "",
		"metadata.rb":                     "name 'apache2'\n",
		cookbook.UploadedVersionFile:      `{"metadata": {}}`,
		"spec/":                           "",
	})

	ov, uploaded, err := Scan(root, nil)
	if err != nil {
		t.Fatalf("Scan() error = %v", err)
	}
	if uploaded != filepath.Join(root, cookbook.UploadedVersionFile) {
		t.Errorf("Scan() descriptor = %q, want %q", uploaded, filepath.Join(root, cookbook.UploadedVersionFile))
	}

	want := map[cookbook.Segment][]string{
		cookbook.SegmentAttributes:  {"attributes/default.rb"},
		cookbook.SegmentDefinitions: {"definitions/vhost.rb"},
		cookbook.SegmentRecipes:     {"recipes/default.rb", "recipes/.hidden.rb"},
		cookbook.SegmentLibraries:   {"libraries/helpers.rb"},
		cookbook.SegmentTemplates:   {"templates/default/site.conf.erb", "templates/.keep"},
		cookbook.SegmentFiles:       {"files/default/a/b/c.txt"},
		cookbook.SegmentResources:   {"resources/site.rb", "resources/nested/mod.rb"},
		cookbook.SegmentProviders:   {"providers/site.rb"},
		cookbook.SegmentRootFiles:   {"README.md", ".kitchen.yml", "metadata.rb"},
	}

	for _, seg := range cookbook.AllSegments() {
		got := keys(ov.Files[seg])
		if len(got) != len(want[seg]) {
			t.Errorf("segment %s = %v, want %v", seg, got, want[seg])
			continue
		}
		for _, rel := range want[seg] {
			if !got[rel] {
				t.Errorf("segment %s missing %s (got %v)", seg, rel, got)
			}
		}
	}

	if abs := ov.Files[cookbook.SegmentFiles]["files/default/a/b/c.txt"]; abs != filepath.Join(root, "files", "default", "a", "b", "c.txt") {
		t.Errorf("absolute path = %q", abs)
	}
}

func TestScan_MissingDirectories(t *testing.T) {
	t.Parallel()

	root := testutil.NewCookbook(t, "bare", map[string]string{"README.md": ""})

	ov, uploaded, err := Scan(root, nil)
	if err != nil {
		t.Fatalf("Scan() error = %v", err)
	}
	if uploaded != "" {
		t.Errorf("Scan() descriptor = %q, want none", uploaded)
	}
	for _, seg := range cookbook.AllSegments() {
		if ov.Files[seg] == nil {
			t.Errorf("segment %s is nil, want empty map", seg)
		}
	}
	if ov.Files.Len() != 1 {
		t.Errorf("Files.Len() = %d, want 1", ov.Files.Len())
	}
	if len(ov.Sources) != 0 {
		t.Errorf("Sources = %v, want none", ov.Sources)
	}
}

func TestScan_Ignore(t *testing.T) {
	t.Parallel()

	root := testutil.NewCookbook(t, "ntp", map[string]string{
		"recipes/default.rb":       "",
		"recipes/other.rb":         "",
		"templates/default/x.erb~": "",
		"templates/default/x.erb":  "",
		"files/default/secret.key": "",
		"README.md":                "",
	})
	ignore, err := chefignore.Parse([]byte("recipes/other.rb\n*~\nfiles/**/secret.*\nREADME.md\n"), "chefignore")
	if err != nil {
		t.Fatalf("chefignore.Parse() error = %v", err)
	}

	ov, _, err := Scan(root, ignore)
	if err != nil {
		t.Fatalf("Scan() error = %v", err)
	}

	for _, seg := range cookbook.AllSegments() {
		for rel := range ov.Files[seg] {
			if ignore.Ignored(rel) {
				t.Errorf("ignored path %s present in segment %s", rel, seg)
			}
		}
	}
	if ov.Files.Len() != 2 {
		t.Errorf("Files.Len() = %d, want 2 (recipes/default.rb, templates/default/x.erb)", ov.Files.Len())
	}
}

// TestScan_MetadataPriority verifies metadata.rb over metadata.json over the
// uploaded version descriptor.
func TestScan_MetadataPriority(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		files    map[string]string
		wantKind SourceKind
		wantFile string
	}{
		{
			name: "script wins over document and descriptor",
			files: map[string]string{
				"metadata.rb":                "",
				"metadata.json":              "{}",
				cookbook.UploadedVersionFile: `{"metadata": {}}`,
			},
			wantKind: SourceScript,
			wantFile: "metadata.rb",
		},
		{
			name: "document wins over descriptor",
			files: map[string]string{
				"metadata.json":              "{}",
				cookbook.UploadedVersionFile: `{"metadata": {}}`,
			},
			wantKind: SourceDocument,
			wantFile: "metadata.json",
		},
		{
			name:     "descriptor alone",
			files:    map[string]string{cookbook.UploadedVersionFile: `{"metadata": {}}`},
			wantKind: SourceDescriptor,
			wantFile: cookbook.UploadedVersionFile,
		},
		{
			name:  "directory named metadata.rb is not a source",
			files: map[string]string{"metadata.rb/": ""},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			root := testutil.NewCookbook(t, "cb", tt.files)
			ov, _, err := Scan(root, nil)
			if err != nil {
				t.Fatalf("Scan() error = %v", err)
			}

			if tt.wantKind == 0 {
				if len(ov.Sources) != 0 {
					t.Errorf("Sources = %v, want none", ov.Sources)
				}
				return
			}
			if len(ov.Sources) != 1 {
				t.Fatalf("Sources = %v, want exactly one", ov.Sources)
			}
			if ov.Sources[0].Kind != tt.wantKind {
				t.Errorf("Sources[0].Kind = %s, want %s", ov.Sources[0].Kind, tt.wantKind)
			}
			if ov.Sources[0].Path != filepath.Join(root, tt.wantFile) {
				t.Errorf("Sources[0].Path = %q, want %q", ov.Sources[0].Path, filepath.Join(root, tt.wantFile))
			}
		})
	}
}

// Scanning then assembling yields exactly the non-ignored files on disk.
// TestScan_RoundTrip verifies that every non-ignored file on disk comes back
// from the assembled version, and nothing else.
func TestScan_RoundTrip(t *testing.T) {
	t.Parallel()

	files := map[string]string{
		"recipes/default.rb":        "",
		"recipes/server.rb":         "",
		"templates/default/a.erb":   "",
		"templates/ubuntu/b/c.erb":  "",
		"files/default/motd":        "",
		"libraries/matchers.rb":     "",
		"attributes/default.rb":     "",
		"resources/config.rb":       "",
		"providers/config.rb":       "",
		"definitions/site.rb":       "",
		"metadata.rb":               "name 'web'\n",
		"recipes/skip.rb":           "",
		"templates/default/skip.sw": "",
	}
	root := testutil.NewCookbook(t, "web", files)
	ignore, err := chefignore.Parse([]byte("recipes/skip.rb\n*.sw\n"), "chefignore")
	if err != nil {
		t.Fatalf("chefignore.Parse() error = %v", err)
	}

	ov, _, err := Scan(root, ignore)
	if err != nil {
		t.Fatalf("Scan() error = %v", err)
	}
	v, ok := Assemble("web", ov, nil)
	if !ok {
		t.Fatal("Assemble() reported empty")
	}

	got := map[string]bool{}
	for _, seg := range cookbook.AllSegments() {
		for _, abs := range v.Paths(seg) {
			got[abs] = true
		}
	}
	for rel := range files {
		abs := filepath.Join(root, filepath.FromSlash(rel))
		if want := !ignore.Ignored(rel); got[abs] != want {
			t.Errorf("%s present = %v, want %v", rel, got[abs], want)
		}
	}
	if len(got) != len(files)-2 {
		t.Errorf("assembled %d files, want %d", len(got), len(files)-2)
	}
}

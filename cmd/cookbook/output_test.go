// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"github.com/sysbot/chef/internal/issue"
	"github.com/sysbot/chef/internal/loader"
	"github.com/sysbot/chef/pkg/chefignore"
	"github.com/sysbot/chef/pkg/cookbook"
	"github.com/sysbot/chef/pkg/metadata"
)

func testVersion(name, version string, frozen bool) *cookbook.Version {
	md := metadata.New()
	md.Name = name
	md.Version = version
	files := cookbook.NewFileSet()
	files.Add(cookbook.SegmentRecipes, "recipes/default.rb", "/srv/"+name+"/recipes/default.rb")
	v := cookbook.NewVersion(name, []string{"/srv/" + name}, md, files)
	if frozen {
		v.Freeze()
	}
	return v
}

func TestRenderList(t *testing.T) {
	t.Parallel()

	versions := []*cookbook.Version{
		testVersion("apt", "7.4.0", true),
		testVersion("ntp", "1.0.0", false),
	}

	t.Run("text", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		if err := renderList(&buf, formatText, versions); err != nil {
			t.Fatalf("renderList() error = %v", err)
		}
		lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
		if len(lines) != 3 {
			t.Fatalf("renderList() = %d lines, want header and 2 rows:\n%s", len(lines), buf.String())
		}
		if !strings.Contains(lines[1], "7.4.0*") {
			t.Errorf("frozen row = %q, want a * after the version", lines[1])
		}
		if strings.Contains(lines[2], "*") {
			t.Errorf("unfrozen row = %q, want no marker", lines[2])
		}
	})

	t.Run("toml", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		if err := renderList(&buf, formatTOML, versions); err != nil {
			t.Fatalf("renderList() error = %v", err)
		}
		var got struct {
			Cookbooks []listView `toml:"cookbooks"`
		}
		if err := toml.Unmarshal(buf.Bytes(), &got); err != nil {
			t.Fatalf("toml.Unmarshal() error = %v\n%s", err, buf.String())
		}
		if len(got.Cookbooks) != 2 || !got.Cookbooks[0].Frozen || got.Cookbooks[1].Files != 1 {
			t.Errorf("cookbooks = %+v", got.Cookbooks)
		}
	})

	t.Run("empty", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		if err := renderList(&buf, formatText, nil); err != nil {
			t.Fatalf("renderList() error = %v", err)
		}
		if !strings.Contains(buf.String(), "No cookbooks found.") {
			t.Errorf("renderList() = %q", buf.String())
		}
	})
}

func TestRenderVersion_Frozen(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if err := renderVersion(&buf, formatText, testVersion("apt", "7.4.0", true)); err != nil {
		t.Fatalf("renderVersion() error = %v", err)
	}
	first, _, _ := strings.Cut(buf.String(), "\n")
	if first != "apt 7.4.0 (frozen)" {
		t.Errorf("header = %q, want %q", first, "apt 7.4.0 (frozen)")
	}
}

// TestExplain_UnsupportedScript verifies that a metadata.rb using Ruby
// expressions gets a hint that such lines are not evaluated.
func TestExplain_UnsupportedScript(t *testing.T) {
	t.Parallel()

	cause := &loader.MetadataParseError{
		Cookbook: "ntp",
		Path:     "metadata.rb",
		Err:      &metadata.DeclarationError{Path: "metadata.rb", Line: 3, Err: metadata.ErrUnsupportedSyntax},
	}
	var ae *issue.ActionableError
	if !errors.As(explain(cause, "resolve cookbook", "ntp"), &ae) {
		t.Fatal("explain() has no ActionableError in the chain")
	}
	if len(ae.Suggestions) != 2 || !strings.Contains(ae.Suggestions[1], "not evaluated") {
		t.Errorf("Suggestions = %q, want a hint about unevaluated expressions", ae.Suggestions)
	}

	plain := &loader.MetadataParseError{Cookbook: "ntp", Path: "metadata.json", Err: errors.New("bad json")}
	if !errors.As(explain(plain, "resolve cookbook", "ntp"), &ae) || len(ae.Suggestions) != 1 {
		t.Errorf("Suggestions = %q, want only the generic hint", ae.Suggestions)
	}
}

func TestValidFormat(t *testing.T) {
	t.Parallel()

	for _, format := range []string{formatText, formatJSON, formatYAML, formatTOML} {
		if err := validFormat(format); err != nil {
			t.Errorf("validFormat(%q) = %v, want nil", format, err)
		}
	}
	if err := validFormat("xml"); err == nil {
		t.Error("validFormat(xml) = nil, want error")
	}
}

func TestExplain(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		err   error
		code  int
		issue issue.Id
	}{
		{"not found", &loader.CookbookNotFoundError{Name: "ntp"}, ExitNotFound, issue.CookbookNotFoundId},
		{"empty", loader.ErrEmptyCookbook, ExitNotFound, issue.EmptyCookbookId},
		{"parse", &loader.MetadataParseError{Cookbook: "ntp", Path: "metadata.rb", Err: errors.New("boom")}, ExitFailure, issue.MetadataParseFailedId},
		{"source", &loader.InvalidMetadataSourceError{Path: "meta.txt"}, ExitFailure, issue.InvalidMetadataSourceId},
		{"chefignore", fmt.Errorf("load: %w", &chefignore.PatternError{Path: "chefignore", Line: 3, Pattern: "["}), ExitFailure, issue.InvalidChefignoreId},
		{"other", errors.New("disk on fire"), ExitFailure, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := explain(tt.err, "resolve cookbook", "ntp")

			var exitErr *ExitError
			if !errors.As(err, &exitErr) {
				t.Fatalf("explain() = %T, want *ExitError", err)
			}
			if exitErr.Code != tt.code {
				t.Errorf("Code = %d, want %d", exitErr.Code, tt.code)
			}
			if !errors.Is(err, tt.err) {
				t.Errorf("explain() lost the cause %v", tt.err)
			}
			var ae *issue.ActionableError
			if !errors.As(err, &ae) {
				t.Fatalf("explain() = %v, want an ActionableError in the chain", err)
			}
			if ae.Issue != tt.issue {
				t.Errorf("Issue = %d, want %d", ae.Issue, tt.issue)
			}
		})
	}

	if explain(nil, "op", "res") != nil {
		t.Error("explain(nil) != nil")
	}
}

// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/sysbot/chef/pkg/cookbook"
	"github.com/sysbot/chef/pkg/metadata"
)

// Output formats accepted by --format.
const (
	formatText = "text"
	formatJSON = "json"
	formatYAML = "yaml"
	formatTOML = "toml"
)

type (
	// versionView is the serialized shape of a resolved cookbook version.
	versionView struct {
		Name     string                `json:"name" yaml:"name" toml:"name"`
		Version  string                `json:"version" yaml:"version" toml:"version"`
		FullName string                `json:"full_name" yaml:"full_name" toml:"full_name"`
		Frozen   bool                  `json:"frozen" yaml:"frozen" toml:"frozen"`
		Roots    []string              `json:"roots" yaml:"roots" toml:"roots"`
		Metadata map[string]any        `json:"metadata" yaml:"metadata" toml:"metadata"`
		Segments map[string][]fileView `json:"segments" yaml:"segments" toml:"segments"`
	}

	fileView struct {
		Path    string `json:"path" yaml:"path" toml:"path"`
		AbsPath string `json:"abs_path" yaml:"abs_path" toml:"abs_path"`
	}

	// listView is one row of `cookbook list`.
	listView struct {
		Name    string   `json:"name" yaml:"name" toml:"name"`
		Version string   `json:"version" yaml:"version" toml:"version"`
		Files   int      `json:"files" yaml:"files" toml:"files"`
		Frozen  bool     `json:"frozen" yaml:"frozen" toml:"frozen"`
		Roots   []string `json:"roots" yaml:"roots" toml:"roots"`
	}
)

// validFormat reports an error for an unknown --format value.
func validFormat(format string) error {
	switch format {
	case formatText, formatJSON, formatYAML, formatTOML:
		return nil
	default:
		return fmt.Errorf("unknown output format %q (valid: text, json, yaml, toml)", format)
	}
}

// newVersionView flattens v. Segments without files are omitted.
func newVersionView(v *cookbook.Version) versionView {
	view := versionView{
		Name:     v.Name(),
		Version:  v.Version(),
		FullName: v.FullName(),
		Frozen:   v.Frozen(),
		Roots:    v.RootPaths(),
		Metadata: v.Metadata().ToMap(),
		Segments: map[string][]fileView{},
	}
	for _, seg := range cookbook.AllSegments() {
		files := v.Files(seg)
		if len(files) == 0 {
			continue
		}
		out := make([]fileView, 0, len(files))
		for _, f := range files {
			out = append(out, fileView{Path: f.Path, AbsPath: f.AbsPath})
		}
		view.Segments[seg.String()] = out
	}
	return view
}

func newListView(versions []*cookbook.Version) []listView {
	rows := make([]listView, 0, len(versions))
	for _, v := range versions {
		rows = append(rows, listView{
			Name:    v.Name(),
			Version: v.Version(),
			Files:   v.FileCount(),
			Frozen:  v.Frozen(),
			Roots:   v.RootPaths(),
		})
	}
	return rows
}

// encode writes value in one of the structured formats.
func encode(w io.Writer, format string, value any) error {
	switch format {
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(value)
	case formatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(value); err != nil {
			return err
		}
		return enc.Close()
	case formatTOML:
		return toml.NewEncoder(w).Encode(value)
	default:
		return validFormat(format)
	}
}

// renderVersion writes v in format.
func renderVersion(w io.Writer, format string, v *cookbook.Version) error {
	if format != formatText {
		return encode(w, format, newVersionView(v))
	}

	header := TitleStyle.Render(v.Name()) + " " + SuccessStyle.Render(v.Version())
	if v.Frozen() {
		header += " " + WarningStyle.Render("(frozen)")
	}
	fmt.Fprintln(w, header)
	for _, root := range v.RootPaths() {
		fmt.Fprintf(w, "  %s %s\n", KeyStyle.Render("root:"), root)
	}
	writeMetadataSummary(w, v.Metadata())

	for _, seg := range cookbook.AllSegments() {
		files := v.Files(seg)
		if len(files) == 0 {
			continue
		}
		fmt.Fprintf(w, "\n%s %s\n", KeyStyle.Render(seg.String()), SubtitleStyle.Render(fmt.Sprintf("(%d)", len(files))))
		for _, f := range files {
			fmt.Fprintf(w, "  %s\n", f.Path)
		}
	}
	return nil
}

// renderMetadata writes md in format.
func renderMetadata(w io.Writer, format string, md *metadata.Metadata) error {
	if format != formatText {
		return encode(w, format, md.ToMap())
	}
	fmt.Fprintln(w, TitleStyle.Render(md.Name)+" "+SuccessStyle.Render(md.Version))
	writeMetadataSummary(w, md)
	return nil
}

func writeMetadataSummary(w io.Writer, md *metadata.Metadata) {
	fields := []struct{ key, value string }{
		{"description", md.Description},
		{"maintainer", md.Maintainer},
		{"license", md.License},
		{"source_url", md.SourceURL},
	}
	for _, f := range fields {
		if f.value != "" {
			fmt.Fprintf(w, "  %s %s\n", KeyStyle.Render(f.key+":"), f.value)
		}
	}
	writeConstraints(w, "depends", md.Dependencies)
	writeConstraints(w, "supports", md.Platforms)
	for _, requirement := range md.ChefVersions {
		fmt.Fprintf(w, "  %s %s\n", KeyStyle.Render("chef_version:"), strings.Join(requirement, ", "))
	}
}

func writeConstraints(w io.Writer, label string, constraints map[string]string) {
	for _, name := range slices.Sorted(maps.Keys(constraints)) {
		fmt.Fprintf(w, "  %s %s %s\n", KeyStyle.Render(label+":"), name, SubtitleStyle.Render(constraints[name]))
	}
}

// renderList writes the rows of `cookbook list`.
func renderList(w io.Writer, format string, versions []*cookbook.Version) error {
	rows := newListView(versions)
	if format != formatText {
		if format == formatTOML {
			// TOML has no top-level arrays.
			return encode(w, format, map[string]any{"cookbooks": rows})
		}
		return encode(w, format, rows)
	}

	if len(rows) == 0 {
		fmt.Fprintln(w, SubtitleStyle.Render("No cookbooks found."))
		return nil
	}

	labels := make([]string, len(rows))
	widths := []int{len("NAME"), len("VERSION"), len("FILES")}
	for i, r := range rows {
		labels[i] = r.Version
		if r.Frozen {
			labels[i] += "*"
		}
		widths[0] = max(widths[0], len(r.Name))
		widths[1] = max(widths[1], len(labels[i]))
		widths[2] = max(widths[2], len(fmt.Sprint(r.Files)))
	}
	cell := func(style func(...string) string, width int, s string) string {
		return style(fmt.Sprintf("%-*s", width, s))
	}

	fmt.Fprintln(w,
		cell(tableHeaderStyle.Render, widths[0], "NAME")+
			cell(tableHeaderStyle.Render, widths[1], "VERSION")+
			cell(tableHeaderStyle.Render, widths[2], "FILES")+
			tableHeaderStyle.Render("ROOTS"))
	for i, r := range rows {
		fmt.Fprintln(w,
			cell(tableCellStyle.Render, widths[0], r.Name)+
				cell(tableCellStyle.Render, widths[1], labels[i])+
				cell(tableCellStyle.Render, widths[2], fmt.Sprint(r.Files))+
				strings.Join(r.Roots, ", "))
	}
	return nil
}

// SPDX-License-Identifier: MPL-2.0

package cookbook

import (
	"errors"
	"fmt"
	"maps"
)

// Segment values, in canonical order.
const (
	SegmentAttributes  Segment = "attributes"
	SegmentDefinitions Segment = "definitions"
	SegmentRecipes     Segment = "recipes"
	SegmentTemplates   Segment = "templates"
	SegmentFiles       Segment = "files"
	SegmentLibraries   Segment = "libraries"
	SegmentResources   Segment = "resources"
	SegmentProviders   Segment = "providers"
	SegmentRootFiles   Segment = "root_files"
)

// ErrInvalidSegment is returned when a segment name is not recognized.
var ErrInvalidSegment = errors.New("invalid segment")

type (
	// Segment classifies a cookbook file by its role.
	Segment string

	// InvalidSegmentError is returned when a Segment value is not one of the
	// nine known segments.
	InvalidSegmentError struct {
		Value Segment
	}

	// FileSet maps every segment to its files, keyed by path relative to the
	// cookbook root (slash separated) with the absolute path as value.
	FileSet map[Segment]map[string]string
)

var allSegments = []Segment{
	SegmentAttributes,
	SegmentDefinitions,
	SegmentRecipes,
	SegmentTemplates,
	SegmentFiles,
	SegmentLibraries,
	SegmentResources,
	SegmentProviders,
	SegmentRootFiles,
}

// Error implements the error interface.
func (e *InvalidSegmentError) Error() string {
	return fmt.Sprintf("invalid segment %q (valid: attributes, definitions, recipes, templates, files, libraries, resources, providers, root_files)", e.Value)
}

// Unwrap returns ErrInvalidSegment for errors.Is() compatibility.
func (e *InvalidSegmentError) Unwrap() error { return ErrInvalidSegment }

// AllSegments returns every segment in canonical order.
func AllSegments() []Segment {
	out := make([]Segment, len(allSegments))
	copy(out, allSegments)
	return out
}

// ParseSegment converts a segment name into a Segment.
func ParseSegment(s string) (Segment, error) {
	seg := Segment(s)
	if err := seg.Validate(); err != nil {
		return "", err
	}
	return seg, nil
}

// String returns the segment name.
func (s Segment) String() string { return string(s) }

// Validate returns nil if the segment is one of the nine known segments.
func (s Segment) Validate() error {
	for _, known := range allSegments {
		if s == known {
			return nil
		}
	}
	return &InvalidSegmentError{Value: s}
}

// Dir returns the subdirectory the segment is scanned from, or "" for
// SegmentRootFiles which lives directly in the cookbook root.
func (s Segment) Dir() string {
	if s == SegmentRootFiles {
		return ""
	}
	return string(s)
}

// Recursive reports whether the segment includes files below nested
// subdirectories.
func (s Segment) Recursive() bool {
	switch s {
	case SegmentTemplates, SegmentFiles, SegmentResources, SegmentProviders:
		return true
	default:
		return false
	}
}

// ScriptsOnly reports whether the segment is restricted to Ruby source files.
func (s Segment) ScriptsOnly() bool {
	switch s {
	case SegmentTemplates, SegmentFiles, SegmentRootFiles:
		return false
	default:
		return true
	}
}

// NewFileSet returns a FileSet with every segment present and empty.
func NewFileSet() FileSet {
	fs := make(FileSet, len(allSegments))
	for _, seg := range allSegments {
		fs[seg] = map[string]string{}
	}
	return fs
}

// Add records a file under seg, replacing any previous entry for rel.
func (fs FileSet) Add(seg Segment, rel, abs string) {
	files, ok := fs[seg]
	if !ok {
		files = map[string]string{}
		fs[seg] = files
	}
	files[rel] = abs
}

// Len returns the number of files across all segments.
func (fs FileSet) Len() int {
	n := 0
	for _, files := range fs {
		n += len(files)
	}
	return n
}

// Empty reports whether no segment holds any file.
func (fs FileSet) Empty() bool {
	return fs.Len() == 0
}

// Clone returns a deep copy with every segment present.
func (fs FileSet) Clone() FileSet {
	out := NewFileSet()
	for seg, files := range fs {
		out[seg] = maps.Clone(files)
		if out[seg] == nil {
			out[seg] = map[string]string{}
		}
	}
	return out
}

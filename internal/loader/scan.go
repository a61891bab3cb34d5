// SPDX-License-Identifier: MPL-2.0

package loader

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/sysbot/chef/pkg/chefignore"
	"github.com/sysbot/chef/pkg/cookbook"
)

// Overlay is the scanned content of one or more overlay roots.
type Overlay struct {
	// Roots lists the contributing overlay roots in merge order.
	Roots []string
	// Files holds every segment, keyed by path relative to the root.
	Files cookbook.FileSet
	// Sources lists the selected metadata source of each contributing root
	// that had one, in merge order.
	Sources []MetadataSource
	// Frozen is set when any contributing root's descriptor is frozen.
	Frozen bool
}

// Empty reports whether the overlay has no files and no metadata source.
func (o *Overlay) Empty() bool {
	return o == nil || (o.Files.Empty() && len(o.Sources) == 0)
}

// segmentPattern returns the glob matching seg's files below a cookbook root.
func segmentPattern(seg cookbook.Segment) string {
	name := "*"
	if seg.ScriptsOnly() {
		name = "*" + cookbook.ScriptExt
	}

	switch {
	case seg == cookbook.SegmentRootFiles:
		return name
	case seg.Recursive() && seg.ScriptsOnly():
		return seg.Dir() + "/**/" + name
	case seg.Recursive():
		return seg.Dir() + "/**"
	default:
		return seg.Dir() + "/" + name
	}
}

// Scan classifies the files below root into segments, drops the entries
// matched by ignore, and picks the root's metadata source. It returns the
// path of the uploaded version descriptor, or "" when the root has none; the
// descriptor is not read here.
//
// A descriptor chosen as the metadata source carries no parsed document yet;
// the caller attaches one with AttachDescriptor.
func Scan(root string, ignore *chefignore.Chefignore) (*Overlay, string, error) {
	fsys := os.DirFS(root)
	files := cookbook.NewFileSet()
	uploadedVersion := ""

	for _, seg := range cookbook.AllSegments() {
		matches, err := doublestar.Glob(fsys, segmentPattern(seg), doublestar.WithFilesOnly())
		if err != nil {
			return nil, "", fmt.Errorf("scan %s in %s: %w", seg, root, err)
		}
		for _, rel := range matches {
			if seg == cookbook.SegmentRootFiles && rel == cookbook.UploadedVersionFile {
				uploadedVersion = filepath.Join(root, rel)
				continue
			}
			files.Add(seg, rel, filepath.Join(root, filepath.FromSlash(rel)))
		}
	}

	for _, seg := range cookbook.AllSegments() {
		for rel := range files[seg] {
			if ignore.Ignored(rel) {
				delete(files[seg], rel)
			}
		}
	}

	ov := &Overlay{
		Roots: []string{root},
		Files: files,
	}

	switch {
	case isRegularFile(filepath.Join(root, cookbook.MetadataScriptFile)):
		ov.Sources = []MetadataSource{{Kind: SourceScript, Path: filepath.Join(root, cookbook.MetadataScriptFile)}}
	case isRegularFile(filepath.Join(root, cookbook.MetadataDocumentFile)):
		ov.Sources = []MetadataSource{{Kind: SourceDocument, Path: filepath.Join(root, cookbook.MetadataDocumentFile)}}
	case uploadedVersion != "":
		ov.Sources = []MetadataSource{{Kind: SourceDescriptor, Path: uploadedVersion}}
	}

	return ov, uploadedVersion, nil
}

// AttachDescriptor records a parsed descriptor on the overlay: it sets the
// frozen flag and hands the document to the matching descriptor source.
func (o *Overlay) AttachDescriptor(uv *UploadedVersion) {
	if uv.Frozen {
		o.Frozen = true
	}
	for i := range o.Sources {
		if o.Sources[i].Kind == SourceDescriptor && o.Sources[i].Path == uv.Path {
			o.Sources[i].descriptor = uv
		}
	}
}

// Clone returns a deep copy.
func (o *Overlay) Clone() *Overlay {
	return &Overlay{
		Roots:   slices.Clone(o.Roots),
		Files:   o.Files.Clone(),
		Sources: slices.Clone(o.Sources),
		Frozen:  o.Frozen,
	}
}

func isRegularFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

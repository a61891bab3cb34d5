// SPDX-License-Identifier: MPL-2.0

package loader

import (
	"path/filepath"

	"github.com/sysbot/chef/pkg/cookbook"
)

// Metadata source kinds, in priority order.
const (
	SourceScript SourceKind = iota + 1
	SourceDocument
	SourceDescriptor
)

type (
	// SourceKind tells how a metadata source is parsed.
	SourceKind int

	// MetadataSource is a metadata file selected for a cookbook. The kind is
	// decided once, when the source is discovered.
	MetadataSource struct {
		Kind SourceKind
		Path string

		// descriptor is the already parsed document for SourceDescriptor,
		// so the file is read once for both the frozen flag and metadata.
		descriptor *UploadedVersion
	}
)

// String returns the kind name.
func (k SourceKind) String() string {
	switch k {
	case SourceScript:
		return "script"
	case SourceDocument:
		return "document"
	case SourceDescriptor:
		return "descriptor"
	default:
		return "unknown"
	}
}

// ClassifySource decides the kind of a metadata file from its name.
func ClassifySource(path string) (MetadataSource, error) {
	base := filepath.Base(path)
	switch {
	case base == cookbook.UploadedVersionFile:
		return MetadataSource{Kind: SourceDescriptor, Path: path}, nil
	case filepath.Ext(base) == cookbook.ScriptExt:
		return MetadataSource{Kind: SourceScript, Path: path}, nil
	case filepath.Ext(base) == ".json":
		return MetadataSource{Kind: SourceDocument, Path: path}, nil
	default:
		return MetadataSource{}, &InvalidMetadataSourceError{Path: path}
	}
}

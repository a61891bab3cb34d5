// SPDX-License-Identifier: MPL-2.0

package loader

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"

	"github.com/sysbot/chef/pkg/metadata"
)

// resolveMetadata applies sources in order onto a fresh record. A record
// that is still unnamed afterwards takes the cookbook name.
func resolveMetadata(cookbookName string, sources []MetadataSource, logger *log.Logger) (*metadata.Metadata, error) {
	md := metadata.New()
	for _, src := range sources {
		if err := applySource(md, src); err != nil {
			logger.Error("failed to parse cookbook metadata", "cookbook", cookbookName, "path", src.Path, "error", err)
			return nil, &MetadataParseError{Cookbook: cookbookName, Path: src.Path, Err: err}
		}
	}
	if md.Name == "" {
		md.Name = cookbookName
	}
	return md, nil
}

func applySource(md *metadata.Metadata, src MetadataSource) error {
	switch src.Kind {
	case SourceScript:
		return md.FromFile(src.Path)
	case SourceDocument:
		data, err := os.ReadFile(src.Path)
		if err != nil {
			return fmt.Errorf("read metadata file %s: %w", src.Path, err)
		}
		return md.FromJSON(data, src.Path)
	case SourceDescriptor:
		uv := src.descriptor
		if uv == nil {
			var err error
			if uv, err = ReadUploadedVersion(src.Path); err != nil {
				return err
			}
		}
		return md.FromMap(uv.MetadataMap())
	default:
		return &InvalidMetadataSourceError{Path: src.Path}
	}
}

// ResolveMetadataFile parses a single metadata file for the named cookbook.
// The format is chosen by file name; see ClassifySource. A nil logger
// discards output.
func ResolveMetadataFile(path, cookbookName string, logger *log.Logger) (*metadata.Metadata, error) {
	if logger == nil {
		logger = log.New(io.Discard)
	}

	src, err := ClassifySource(path)
	if err != nil {
		logger.Error("invalid metadata file", "cookbook", cookbookName, "path", path)
		return nil, &InvalidMetadataSourceError{Cookbook: cookbookName, Path: path}
	}
	return resolveMetadata(cookbookName, []MetadataSource{src}, logger)
}

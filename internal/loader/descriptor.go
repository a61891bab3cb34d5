// SPDX-License-Identifier: MPL-2.0

package loader

import (
	_ "embed"
	"fmt"
	"maps"
	"os"

	"github.com/sysbot/chef/pkg/cueutil"
)

//go:embed uploaded_version_schema.cue
var uploadedVersionSchema []byte

// UploadedVersion is a parsed .uploaded-cookbook-version.json descriptor.
type UploadedVersion struct {
	Path         string
	CookbookName string
	Metadata     map[string]any
	Frozen       bool
}

// ReadUploadedVersion reads and validates the descriptor at path.
func ReadUploadedVersion(path string) (*UploadedVersion, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read uploaded cookbook version %s: %w", path, err)
	}
	return ParseUploadedVersion(data, path)
}

// ParseUploadedVersion validates data against the #UploadedCookbookVersion
// schema. path is used in error messages.
func ParseUploadedVersion(data []byte, path string) (*UploadedVersion, error) {
	result, err := cueutil.ParseJSONAndDecode[map[string]any](
		uploadedVersionSchema,
		data,
		"#UploadedCookbookVersion",
		cueutil.WithFilename(path),
	)
	if err != nil {
		return nil, err
	}

	doc := *result.Value
	uv := &UploadedVersion{Path: path}
	// The schema guarantees the types below.
	uv.Metadata, _ = doc["metadata"].(map[string]any)
	uv.Frozen, _ = doc["frozen?"].(bool)
	uv.CookbookName, _ = doc["cookbook_name"].(string)
	return uv, nil
}

// MetadataMap returns the nested metadata with the cookbook name filled in
// from cookbook_name when the metadata itself carries none.
func (u *UploadedVersion) MetadataMap() map[string]any {
	out := maps.Clone(u.Metadata)
	if out == nil {
		out = map[string]any{}
	}
	if name, _ := out["name"].(string); name == "" && u.CookbookName != "" {
		out["name"] = u.CookbookName
	}
	return out
}

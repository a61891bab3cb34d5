// SPDX-License-Identifier: MPL-2.0

package metadata

import (
	_ "embed"

	"github.com/sysbot/chef/pkg/cueutil"
)

//go:embed metadata_schema.cue
var metadataSchema []byte

// FromJSON validates a metadata.json document against the #Metadata schema
// and applies it with FromMap. filename is used in error messages.
func (m *Metadata) FromJSON(data []byte, filename string) error {
	result, err := cueutil.ParseJSONAndDecode[map[string]any](
		metadataSchema,
		data,
		"#Metadata",
		cueutil.WithFilename(filename),
	)
	if err != nil {
		return err
	}
	return m.FromMap(*result.Value)
}

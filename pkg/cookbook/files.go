// SPDX-License-Identifier: MPL-2.0

package cookbook

// Well-known file names at the root of a cookbook directory.
const (
	// MetadataScriptFile holds metadata as keyword declarations.
	MetadataScriptFile = "metadata.rb"
	// MetadataDocumentFile holds metadata as a JSON document.
	MetadataDocumentFile = "metadata.json"
	// UploadedVersionFile is the descriptor written next to a cookbook that
	// was downloaded from a server. It carries the server's metadata and the
	// frozen flag.
	UploadedVersionFile = ".uploaded-cookbook-version.json"
	// ReadmeFile is the conventional cookbook README.
	ReadmeFile = "README.md"

	// ScriptExt is the extension of Ruby source files.
	ScriptExt = ".rb"
)

// SPDX-License-Identifier: MPL-2.0

// Package cookbook defines the resolved cookbook version and the segment
// model used to classify cookbook files.
//
// A cookbook's files are grouped into nine segments (attributes, definitions,
// recipes, templates, files, libraries, resources, providers and root files).
// A FileSet maps each segment to its files keyed by slash-separated path
// relative to the cookbook root. A Version is the immutable result of
// resolving one or more overlay directories for a cookbook.
package cookbook

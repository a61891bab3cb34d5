// SPDX-License-Identifier: MPL-2.0

// Package loader resolves a cookbook version from one or more overlay
// directories.
//
// Resolution runs in five steps. Each overlay root is scanned and its files
// classified into segments (Scan), entries matched by the chefignore file are
// pruned, overlays are folded together in search path order so that later
// roots override identically named files (Merge), the metadata sources
// collected along the way are applied in order (metadata.rb before
// metadata.json before the uploaded version descriptor, one per overlay), and
// the result is assembled into a cookbook.Version (Assemble).
//
// A cookbook with no files and no metadata source is empty. Empty cookbooks
// are not failures: Loader.CookbookVersion logs a warning and returns
// ErrEmptyCookbook so callers can skip them.
package loader

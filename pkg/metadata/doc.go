// SPDX-License-Identifier: MPL-2.0

// Package metadata models cookbook metadata and reads it from the three
// formats a cookbook can carry it in: the metadata.rb declaration file, the
// metadata.json document, and the generic map nested in an uploaded cookbook
// version descriptor.
//
// Only the declaration subset of metadata.rb is understood: one keyword per
// line followed by literal arguments separated by commas, for example
//
//	name 'apache2'
//	version '1.2.3'
//	depends 'apt', '>= 2.0'
//
// Anything that needs evaluation (method calls with parentheses, variables,
// blocks) is rejected with a *DeclarationError.
package metadata

// SPDX-License-Identifier: MPL-2.0

// Package cmd contains the CLI commands of the cookbook resolver.
//
// This package implements the Cobra command hierarchy: show and readme for a
// single cookbook built from one or more overlay roots, list for every
// cookbook under a cookbook path, metadata for a single metadata file, and
// config for the configuration file.
package cmd

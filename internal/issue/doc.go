// SPDX-License-Identifier: MPL-2.0

// Package issue holds the CLI's user-facing error vocabulary.
//
// An ActionableError names the operation that failed, the cookbook or file
// involved and what the user can try next. It may point at a catalog Issue: a
// Markdown troubleshooting guide rendered with glamour when the CLI runs with
// --verbose.
package issue

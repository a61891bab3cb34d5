// SPDX-License-Identifier: MPL-2.0

// Package chefignore loads cookbook ignore files and answers whether a
// cookbook-relative path is excluded.
//
// A chefignore file holds one pattern per line. Blank lines and lines starting
// with '#' are skipped. Patterns use doublestar glob syntax and are matched
// case-sensitively against slash-separated paths relative to the cookbook
// root. A pattern without a '/' also matches the final path element, so
// "*~" excludes editor backups at any depth.
//
// Unlike Chef's own fnmatch-based matching, '*' never crosses a '/': the
// classic "*/.svn/*" only matches one directory level deep. Write
// "**/.svn/**" to exclude such directories at any depth.
//
// A missing chefignore file is not an error: the resulting filter ignores
// nothing. A nil *Chefignore behaves the same way.
package chefignore

// SPDX-License-Identifier: MPL-2.0

package loader

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrMetadataParse is the sentinel wrapped by MetadataParseError.
	ErrMetadataParse = errors.New("failed to parse cookbook metadata")

	// ErrInvalidMetadataSource is the sentinel wrapped by
	// InvalidMetadataSourceError.
	ErrInvalidMetadataSource = errors.New("invalid metadata file for this cookbook")

	// ErrEmptyCookbook signals that a cookbook has no files and no metadata.
	// It is a skip signal, not a failure.
	ErrEmptyCookbook = errors.New("cookbook is empty")

	// ErrCookbookNotFound is the sentinel wrapped by CookbookNotFoundError.
	ErrCookbookNotFound = errors.New("cookbook not found")
)

type (
	// MetadataParseError reports a metadata source that could not be parsed.
	MetadataParseError struct {
		Cookbook string
		Path     string
		Err      error
	}

	// InvalidMetadataSourceError reports a metadata candidate whose file name
	// matches none of the known metadata formats.
	InvalidMetadataSourceError struct {
		Cookbook string
		Path     string
	}

	// CookbookNotFoundError is returned when a cookbook was required but
	// nothing was found for it.
	CookbookNotFoundError struct {
		Name  string
		Roots []string
	}
)

// Error implements the error interface.
func (e *MetadataParseError) Error() string {
	return fmt.Sprintf("cookbook %s: failed to parse metadata from %s: %v", e.Cookbook, e.Path, e.Err)
}

// Unwrap returns both ErrMetadataParse and the underlying cause.
func (e *MetadataParseError) Unwrap() []error { return []error{ErrMetadataParse, e.Err} }

// Error implements the error interface.
func (e *InvalidMetadataSourceError) Error() string {
	if e.Cookbook == "" {
		return fmt.Sprintf("invalid metadata file %s", e.Path)
	}
	return fmt.Sprintf("invalid metadata file %s for cookbook %s", e.Path, e.Cookbook)
}

// Unwrap returns ErrInvalidMetadataSource for errors.Is() compatibility.
func (e *InvalidMetadataSourceError) Unwrap() error { return ErrInvalidMetadataSource }

// Error implements the error interface.
func (e *CookbookNotFoundError) Error() string {
	if len(e.Roots) == 0 {
		return fmt.Sprintf("cookbook %s not found", e.Name)
	}
	return fmt.Sprintf("cookbook %s not found in %s", e.Name, strings.Join(e.Roots, ", "))
}

// Unwrap returns ErrCookbookNotFound for errors.Is() compatibility.
func (e *CookbookNotFoundError) Unwrap() error { return ErrCookbookNotFound }

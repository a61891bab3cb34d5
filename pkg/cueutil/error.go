// SPDX-License-Identifier: MPL-2.0

package cueutil

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	cueerrors "cuelang.org/go/cue/errors"
)

type (
	// Problem is one schema violation inside a document.
	Problem struct {
		// Field is the offending field in JSON-path form, e.g.
		// "dependencies.apt" or "chef_versions[0]". Empty for syntax errors.
		Field string
		// Message is CUE's description with any repeated field prefix removed.
		Message string
	}

	// DocumentError reports every problem CUE found in one document.
	DocumentError struct {
		File     string
		Problems []Problem
	}

	// TooLargeError is returned before parsing when a document exceeds the
	// configured size limit.
	TooLargeError struct {
		File  string
		Size  int64
		Limit int64
	}
)

func (p Problem) String() string {
	if p.Field == "" {
		return p.Message
	}
	return p.Field + ": " + p.Message
}

func (e *DocumentError) Error() string {
	if len(e.Problems) == 1 {
		return e.File + ": " + e.Problems[0].String()
	}
	var b strings.Builder
	b.WriteString(e.File)
	b.WriteString(": validation failed:")
	for _, p := range e.Problems {
		b.WriteString("\n  ")
		b.WriteString(p.String())
	}
	return b.String()
}

func (e *TooLargeError) Error() string {
	return fmt.Sprintf("%s: file size %d bytes exceeds maximum %d bytes", e.File, e.Size, e.Limit)
}

// FormatError converts a CUE error into a *DocumentError naming file and the
// JSON path of every violation:
//
//	metadata.json: dependencies.apt: conflicting values 1 and string
//	config.cue: ui.verbose: conflicting values "yes" and bool
//
// Errors that carry no CUE detail are wrapped with the file name only, so
// errors.Is still finds the cause.
func FormatError(err error, file string) error {
	if err == nil {
		return nil
	}

	var ce cueerrors.Error
	if !errors.As(err, &ce) {
		return fmt.Errorf("%s: %w", file, err)
	}

	list := cueerrors.Errors(err)

	doc := &DocumentError{File: file, Problems: make([]Problem, 0, len(list))}
	for _, e := range list {
		field := jsonPath(cueerrors.Path(e))
		msg := e.Error()
		if field != "" {
			if rest, ok := strings.CutPrefix(msg, field); ok {
				msg = strings.TrimSpace(strings.TrimPrefix(rest, ":"))
			}
		}
		doc.Problems = append(doc.Problems, Problem{Field: field, Message: msg})
	}
	return doc
}

// jsonPath renders CUE's selector list with numeric selectors as indices:
// ["chef_versions", "0", "1"] becomes "chef_versions[0][1]".
func jsonPath(selectors []string) string {
	var b strings.Builder
	for i, sel := range selectors {
		if _, err := strconv.ParseUint(sel, 10, 64); err == nil && i > 0 {
			b.WriteString("[" + sel + "]")
			continue
		}
		if i > 0 {
			b.WriteByte('.')
		}
		b.WriteString(sel)
	}
	return b.String()
}

// CheckFileSize returns a *TooLargeError when data exceeds limit bytes.
func CheckFileSize(data []byte, limit int64, file string) error {
	if size := int64(len(data)); size > limit {
		return &TooLargeError{File: file, Size: size, Limit: limit}
	}
	return nil
}

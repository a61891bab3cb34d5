// SPDX-License-Identifier: MPL-2.0

package cueutil

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
)

func TestFormatError_Passthrough(t *testing.T) {
	t.Parallel()

	if err := FormatError(nil, "config.cue"); err != nil {
		t.Errorf("FormatError(nil) = %v, want nil", err)
	}

	cause := errors.New("disk read failed")
	err := FormatError(cause, "config.cue")
	if !errors.Is(err, cause) {
		t.Errorf("FormatError() = %v, want it to wrap the cause", err)
	}
	if !strings.HasPrefix(err.Error(), "config.cue: ") {
		t.Errorf("FormatError() = %q, want the file name first", err)
	}
}

// TestFormatError_WrappedPlainError verifies that a plain error buried under
// fmt wrapping is not mistaken for a CUE error.
func TestFormatError_WrappedPlainError(t *testing.T) {
	t.Parallel()

	cause := errors.New("permission denied")
	err := FormatError(fmt.Errorf("open: %w", cause), "metadata.json")

	var doc *DocumentError
	if errors.As(err, &doc) {
		t.Fatalf("FormatError() = %#v, want a plain wrapped error", doc)
	}
	if !errors.Is(err, cause) {
		t.Errorf("FormatError() = %v, want it to wrap the cause", err)
	}
}

func TestFormatError_CUEError(t *testing.T) {
	t.Parallel()

	v := cuecontext.New().CompileString("version: int\nversion: \"1.0\"\n", cue.Filename("metadata.cue"))
	verr := v.Validate()
	if verr == nil {
		t.Fatal("Validate() error = nil, want conflicting values")
	}

	err := FormatError(verr, "metadata.cue")
	var doc *DocumentError
	if !errors.As(err, &doc) {
		t.Fatalf("FormatError() = %T %v, want *DocumentError", err, err)
	}
	if doc.File != "metadata.cue" || len(doc.Problems) == 0 {
		t.Fatalf("DocumentError = %+v", doc)
	}
	for _, p := range doc.Problems {
		if p.Field != "version" {
			t.Errorf("Problem.Field = %q, want version", p.Field)
		}
	}
	if !strings.Contains(err.Error(), "version: ") {
		t.Errorf("Error() = %q, want the field named", err)
	}
}

func TestJSONPath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		selectors []string
		want      string
	}{
		{nil, ""},
		{[]string{"license"}, "license"},
		{[]string{"dependencies", "apt"}, "dependencies.apt"},
		{[]string{"chef_versions", "0", "1"}, "chef_versions[0][1]"},
		{[]string{"platforms", "2", "name"}, "platforms[2].name"},
		{[]string{"0", "name"}, "0.name"},
	}

	for _, tt := range tests {
		if got := jsonPath(tt.selectors); got != tt.want {
			t.Errorf("jsonPath(%q) = %q, want %q", tt.selectors, got, tt.want)
		}
	}
}

func TestDocumentError(t *testing.T) {
	t.Parallel()

	single := &DocumentError{File: "metadata.json", Problems: []Problem{
		{Field: "version", Message: "conflicting values 1 and string"},
	}}
	if got, want := single.Error(), "metadata.json: version: conflicting values 1 and string"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}

	multi := &DocumentError{File: "config.cue", Problems: []Problem{
		{Message: "expected '}', found EOF"},
		{Field: "log.level", Message: "invalid value"},
	}}
	want := "config.cue: validation failed:\n  expected '}', found EOF\n  log.level: invalid value"
	if got := multi.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestCheckFileSize(t *testing.T) {
	t.Parallel()

	for _, n := range []int{0, 99, 100} {
		if err := CheckFileSize(make([]byte, n), 100, "metadata.json"); err != nil {
			t.Errorf("CheckFileSize(%d bytes) = %v, want nil", n, err)
		}
	}

	err := CheckFileSize(make([]byte, 101), 100, "metadata.json")
	var tooLarge *TooLargeError
	if !errors.As(err, &tooLarge) {
		t.Fatalf("CheckFileSize() = %v, want *TooLargeError", err)
	}
	if tooLarge.Size != 101 || tooLarge.Limit != 100 || tooLarge.File != "metadata.json" {
		t.Errorf("TooLargeError = %+v", tooLarge)
	}
}

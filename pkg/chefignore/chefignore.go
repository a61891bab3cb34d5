// SPDX-License-Identifier: MPL-2.0

package chefignore

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// FileName is the conventional name of the ignore file.
const FileName = "chefignore"

// ErrInvalidPattern is the sentinel wrapped by PatternError.
var ErrInvalidPattern = errors.New("invalid chefignore pattern")

type (
	// Chefignore is a compiled set of ignore patterns.
	Chefignore struct {
		path     string
		patterns []string
	}

	// PatternError reports a malformed pattern together with its location.
	PatternError struct {
		Path    string
		Line    int
		Pattern string
	}
)

// Error implements the error interface.
func (e *PatternError) Error() string {
	return fmt.Sprintf("%s:%d: invalid pattern %q", e.Path, e.Line, e.Pattern)
}

// Unwrap returns ErrInvalidPattern for errors.Is() compatibility.
func (e *PatternError) Unwrap() error { return ErrInvalidPattern }

// Load reads the ignore file at path. A file that does not exist yields an
// empty filter and no error.
func Load(path string) (*Chefignore, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return &Chefignore{}, nil
		}
		return nil, fmt.Errorf("read chefignore %s: %w", path, err)
	}
	return Parse(data, path)
}

// Parse compiles ignore patterns from data. path is only used for error
// messages and Path.
func Parse(data []byte, path string) (*Chefignore, error) {
	c := &Chefignore{path: path}

	scanner := bufio.NewScanner(bytes.NewReader(data))
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if !doublestar.ValidatePattern(line) {
			return nil, &PatternError{Path: path, Line: lineNo, Pattern: line}
		}
		c.patterns = append(c.patterns, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read chefignore %s: %w", path, err)
	}

	return c, nil
}

// Find locates the ignore file for a cookbook directory: the cookbook's own
// directory is checked first, then its parent (the repository directory).
// name defaults to FileName when empty. When neither exists an empty filter
// is returned.
func Find(cookbookDir, name string) (*Chefignore, error) {
	if name == "" {
		name = FileName
	}

	candidates := []string{
		filepath.Join(cookbookDir, name),
		filepath.Join(filepath.Dir(cookbookDir), name),
	}
	for _, candidate := range candidates {
		info, err := os.Stat(candidate)
		if err != nil || info.IsDir() {
			continue
		}
		return Load(candidate)
	}

	return &Chefignore{}, nil
}

// Ignored reports whether relPath (relative to the cookbook root) matches any
// pattern.
func (c *Chefignore) Ignored(relPath string) bool {
	if c == nil || len(c.patterns) == 0 {
		return false
	}

	normalized := filepath.ToSlash(relPath)
	base := path.Base(normalized)
	for _, pattern := range c.patterns {
		if matched, err := doublestar.Match(pattern, normalized); err == nil && matched {
			return true
		}
		if !strings.Contains(pattern, "/") {
			if matched, err := doublestar.Match(pattern, base); err == nil && matched {
				return true
			}
		}
	}
	return false
}

// Patterns returns a copy of the compiled patterns in file order.
func (c *Chefignore) Patterns() []string {
	if c == nil {
		return nil
	}
	out := make([]string, len(c.patterns))
	copy(out, c.patterns)
	return out
}

// Path returns the file the patterns were loaded from, or "" when no file
// was found.
func (c *Chefignore) Path() string {
	if c == nil {
		return ""
	}
	return c.path
}

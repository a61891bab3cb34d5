// SPDX-License-Identifier: MPL-2.0

package metadata

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"

	"mvdan.cc/sh/v3/syntax"
)

// ErrUnsupportedSyntax is returned when a metadata.rb line is not a plain
// declaration of literal words. Ruby expressions are not evaluated, so
// computed values such as
//
//	long_description IO.read(File.join(File.dirname(__FILE__), 'README.md'))
//
// are rejected; use metadata.json or a literal string instead.
var ErrUnsupportedSyntax = errors.New("unsupported metadata.rb syntax")

// DeclarationError reports a metadata.rb line that could not be applied.
type DeclarationError struct {
	Path    string
	Line    int
	Keyword string
	Err     error
}

// Error implements the error interface.
func (e *DeclarationError) Error() string {
	if e.Keyword == "" {
		return fmt.Sprintf("%s:%d: %v", e.Path, e.Line, e.Err)
	}
	return fmt.Sprintf("%s:%d: %s: %v", e.Path, e.Line, e.Keyword, e.Err)
}

// Unwrap returns the underlying cause.
func (e *DeclarationError) Unwrap() error { return e.Err }

// FromFile reads a metadata.rb file and applies its declarations.
func (m *Metadata) FromFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read metadata file %s: %w", path, err)
	}
	return m.FromScript(data, path)
}

// FromScript applies the declarations in data. filename is used for error
// positions.
//
// Lines are tokenized with a POSIX shell parser, which shares the relevant
// lexical rules with the declaration subset: whitespace separated words,
// single and double quoted literals, and # comments. A word ending in a comma
// separates arguments, and a line ending in a comma continues on the next
// line.
func (m *Metadata) FromScript(data []byte, filename string) error {
	parser := syntax.NewParser(syntax.Variant(syntax.LangPOSIX))
	file, err := parser.Parse(bytes.NewReader(data), filename)
	if err != nil {
		var perr syntax.ParseError
		if errors.As(err, &perr) {
			return &DeclarationError{
				Path: filename,
				Line: int(perr.Pos.Line()),
				Err:  fmt.Errorf("%w: %s", ErrUnsupportedSyntax, perr.Text),
			}
		}
		return &DeclarationError{Path: filename, Err: fmt.Errorf("%w: %w", ErrUnsupportedSyntax, err)}
	}

	var (
		pending     []string
		pendingLine int
	)
	for _, stmt := range file.Stmts {
		line := int(stmt.Pos().Line())
		words, err := declarationWords(stmt)
		if err != nil {
			return &DeclarationError{Path: filename, Line: line, Err: err}
		}

		if pending == nil {
			pendingLine = line
		}
		continued := strings.HasSuffix(words[len(words)-1], ",")
		pending = append(pending, words...)
		if continued {
			continue
		}

		if err := m.apply(pending); err != nil {
			return &DeclarationError{Path: filename, Line: pendingLine, Keyword: pending[0], Err: err}
		}
		pending = nil
	}

	if pending != nil {
		return &DeclarationError{
			Path:    filename,
			Line:    pendingLine,
			Keyword: pending[0],
			Err:     fmt.Errorf("%w: unterminated argument list", ErrUnsupportedSyntax),
		}
	}
	return nil
}

func (m *Metadata) apply(words []string) error {
	args := make([]string, 0, len(words)-1)
	for _, word := range words[1:] {
		arg := strings.TrimSuffix(word, ",")
		if arg == "" && word == "," {
			continue
		}
		args = append(args, arg)
	}
	return m.Declare(words[0], args...)
}

// declarationWords flattens a statement into literal words. Anything beyond
// a simple command made of literals is rejected.
func declarationWords(stmt *syntax.Stmt) ([]string, error) {
	if stmt.Negated || stmt.Background || stmt.Coprocess || len(stmt.Redirs) > 0 {
		return nil, fmt.Errorf("%w: operators are not allowed", ErrUnsupportedSyntax)
	}
	call, ok := stmt.Cmd.(*syntax.CallExpr)
	if !ok || len(call.Assigns) > 0 || len(call.Args) == 0 {
		return nil, fmt.Errorf("%w: expected a declaration", ErrUnsupportedSyntax)
	}

	words := make([]string, 0, len(call.Args))
	for _, arg := range call.Args {
		word, err := literalWord(arg)
		if err != nil {
			return nil, err
		}
		words = append(words, word)
	}
	return words, nil
}

func literalWord(word *syntax.Word) (string, error) {
	var sb strings.Builder
	for _, part := range word.Parts {
		switch p := part.(type) {
		case *syntax.Lit:
			sb.WriteString(p.Value)
		case *syntax.SglQuoted:
			sb.WriteString(p.Value)
		case *syntax.DblQuoted:
			for _, inner := range p.Parts {
				lit, ok := inner.(*syntax.Lit)
				if !ok {
					return "", fmt.Errorf("%w: interpolation is not allowed", ErrUnsupportedSyntax)
				}
				sb.WriteString(lit.Value)
			}
		default:
			return "", fmt.Errorf("%w: non-literal argument", ErrUnsupportedSyntax)
		}
	}
	return sb.String(), nil
}

// SPDX-License-Identifier: MPL-2.0

package cueutil

import (
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cuejson "cuelang.org/go/encoding/json"
)

// ParseResult contains the result of a successful CUE parse operation.
type ParseResult[T any] struct {
	// Value is the decoded Go value.
	Value *T

	// Unified is the unified CUE value, available for callers that need to
	// look up additional fields after validation.
	Unified cue.Value
}

// ParseAndDecode compiles CUE source, unifies it with the schema definition
// at schemaPath, validates it and decodes the result into T.
func ParseAndDecode[T any](schema, data []byte, schemaPath string, opts ...Option) (*ParseResult[T], error) {
	s := newSettings(opts)
	if err := CheckFileSize(data, s.limit, s.file); err != nil {
		return nil, err
	}

	ctx := cuecontext.New()
	doc := ctx.CompileBytes(data, cue.Filename(s.file))
	if doc.Err() != nil {
		return nil, FormatError(doc.Err(), s.file)
	}
	return decode[T](ctx, schema, doc, schemaPath, s)
}

// ParseAndDecodeString is a convenience wrapper that accepts schema as string.
func ParseAndDecodeString[T any](schema string, data []byte, schemaPath string, opts ...Option) (*ParseResult[T], error) {
	return ParseAndDecode[T]([]byte(schema), data, schemaPath, opts...)
}

// ParseJSONAndDecode is ParseAndDecode for strict JSON input. The document is
// extracted with CUE's JSON decoder, so anything that is CUE but not JSON
// (comments, unquoted labels, trailing commas) is rejected with a positioned
// error.
func ParseJSONAndDecode[T any](schema, data []byte, schemaPath string, opts ...Option) (*ParseResult[T], error) {
	s := newSettings(opts)
	if err := CheckFileSize(data, s.limit, s.file); err != nil {
		return nil, err
	}

	expr, err := cuejson.Extract(s.file, data)
	if err != nil {
		return nil, FormatError(err, s.file)
	}

	ctx := cuecontext.New()
	doc := ctx.BuildExpr(expr)
	if doc.Err() != nil {
		return nil, FormatError(doc.Err(), s.file)
	}
	return decode[T](ctx, schema, doc, schemaPath, s)
}

// decode unifies doc with the schema definition at schemaPath, validates the
// result and decodes it into T.
func decode[T any](ctx *cue.Context, schema []byte, doc cue.Value, schemaPath string, s settings) (*ParseResult[T], error) {
	compiled := ctx.CompileBytes(schema)
	if compiled.Err() != nil {
		return nil, fmt.Errorf("internal error: failed to compile schema: %w", compiled.Err())
	}
	def := compiled.LookupPath(cue.ParsePath(schemaPath))
	if def.Err() != nil {
		return nil, fmt.Errorf("internal error: schema definition %s not found: %w", schemaPath, def.Err())
	}

	unified := def.Unify(doc)
	if err := unified.Validate(cue.Concrete(s.concrete)); err != nil {
		return nil, FormatError(err, s.file)
	}

	var out T
	if err := unified.Decode(&out); err != nil {
		return nil, FormatError(err, s.file)
	}
	return &ParseResult[T]{Value: &out, Unified: unified}, nil
}

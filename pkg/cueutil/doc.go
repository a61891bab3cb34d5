// SPDX-License-Identifier: MPL-2.0

// Package cueutil provides shared CUE parsing utilities.
//
// Every document this module reads (cookbook metadata.json, the uploaded
// cookbook version descriptor, the CLI config file) goes through the same
// 3-step flow:
//
//  1. Compile the embedded schema
//  2. Compile user data (CUE source, or JSON extracted into CUE) and unify with schema
//  3. Validate and decode to a Go value
//
// # Usage
//
//	//go:embed metadata_schema.cue
//	var schema string
//
//	result, err := cueutil.ParseJSONAndDecode[map[string]any](
//	    []byte(schema),
//	    data,
//	    "#Metadata",
//	    cueutil.WithFilename("metadata.json"),
//	)
//	if err != nil {
//	    return err // error carries the file and JSON path
//	}
package cueutil

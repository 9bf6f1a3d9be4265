// SPDX-License-Identifier: MPL-2.0

// Package cueutil validates CUE documents against an embedded schema.
//
// The flow is the same for every caller:
//
//  1. Compile the embedded schema
//  2. Compile user data and unify it with a schema definition
//  3. Validate and decode to a Go value
//
// # Usage
//
//	//go:embed config_schema.cue
//	var schema string
//
//	result, err := cueutil.Decode[map[string]any](
//	    []byte(schema),
//	    userFileBytes,
//	    "#Config",
//	    cueutil.WithFilename("config.cue"),
//	    cueutil.WithConcrete(false),
//	)
//
// Errors carry the file name and a JSON-style path to the offending field.
package cueutil

// SPDX-License-Identifier: MPL-2.0

package cueutil

import (
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
)

// Result holds a decoded value together with the unified CUE value it came from.
type Result[T any] struct {
	Value   T
	Unified cue.Value
}

// ParseAndDecode compiles data, unifies it with the definition at defPath in
// schema, validates the result and decodes it into T.
//
// Errors are formatted by FormatError with the filename set by WithFilename.
func ParseAndDecode[T any](schema, data []byte, defPath string, opts ...Option) (*Result[T], error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	name := o.filename
	if name == "" {
		name = "<input>"
	}

	if err := CheckFileSize(data, o.maxFileSize, name); err != nil {
		return nil, err
	}

	ctx := cuecontext.New()
	schemaValue := ctx.CompileBytes(schema)
	if schemaValue.Err() != nil {
		return nil, fmt.Errorf("internal error: failed to compile schema: %w", schemaValue.Err())
	}
	def := schemaValue.LookupPath(cue.ParsePath(defPath))
	if !def.Exists() {
		return nil, fmt.Errorf("internal error: schema has no definition %s", defPath)
	}

	userValue := ctx.CompileBytes(data, cue.Filename(name))
	if userValue.Err() != nil {
		return nil, FormatError(userValue.Err(), name)
	}

	unified := def.Unify(userValue)
	if err := unified.Validate(cue.Concrete(o.concrete)); err != nil {
		return nil, FormatError(err, name)
	}

	var value T
	if err := unified.Decode(&value); err != nil {
		return nil, FormatError(err, name)
	}
	return &Result[T]{Value: value, Unified: unified}, nil
}

// ParseAndDecodeString is ParseAndDecode with a string schema.
func ParseAndDecodeString[T any](schema string, data []byte, defPath string, opts ...Option) (*Result[T], error) {
	return ParseAndDecode[T]([]byte(schema), data, defPath, opts...)
}

// Package codegen implements a code generator for builders of Go struct
// types.
//
// For a record type T, the generator emits a TBuilder type that accumulates
// field values with chainable setters, a T.Builder method that returns an
// empty builder, and a TBuilder.Build method that returns a T or an error
// naming the first required field that was not set.
//
// Fields are classified syntactically:
//
//   - A pointer field *U is optional. Its setter accepts U and Build leaves
//     the field nil if the setter was not called.
//   - A slice field []E with a builder:"each=N" struct tag is repeated. The
//     setter is named N and appends a single E.
//   - Every other field is required.
//
// For example,
//
//	//builder:derive
//	type Command struct {
//		Executable string
//		Args       []string `builder:"each=Arg"`
//		CurrentDir *string
//	}
//
// can be constructed with
//
//	cmd, err := Command{}.Builder().
//		Executable("ls").
//		Arg("-l").
//		Arg("-a").
//		Build()
package codegen

import (
	"io"
)

// Config defines a configuration for code generation template execution.
type Config struct {
	// Header contains settings for the file header.
	Header Header
	// Records is the list of records to generate builders for, in output
	// order.
	Records []Record
}

// Generate executes code generation template with the given configuration.
// The output is not formatted, see [Format].
func Generate(w io.Writer, c Config) error {
	return Template().Execute(w, newFileView(&c))
}

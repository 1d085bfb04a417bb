// The builder command is a code generator for builders of Go struct types.
//
// It is intended to be run by go generate:
//
//	//go:generate go run go.pact.im/x/builder/cmd/builder
//
//	//builder:derive
//	type Command struct {
//		Executable string
//		Args       []string `builder:"each=Arg"`
//		CurrentDir *string
//	}
//
// For each selected struct type T, a TBuilder type with chainable setters, a
// T.Builder method and a TBuilder.Build method are written to builder_gen.go
// in the package directory:
//
//	cmd, err := Command{}.Builder().
//		Executable("ls").
//		Arg("-l").
//		Build()
//
// Types are selected with the //builder:derive directive in the type’s doc
// comment or with the --type flag. Pointer fields are optional, slice fields
// with a builder:"each=Name" struct tag get a setter that appends a single
// element, and all other fields are required: Build returns an error naming
// the first required field that was not set.
package main

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/multierr"
)

func main() {
	if err := newCommand().ExecuteContext(context.Background()); err != nil {
		for _, err := range multierr.Errors(err) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}

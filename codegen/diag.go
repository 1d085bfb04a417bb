package codegen

import (
	"errors"
	"go/token"
)

var (
	// ErrMalformedAttribute is reported for a builder struct tag on a slice
	// field that looks like an assignment but is not a valid each
	// directive.
	ErrMalformedAttribute = errors.New("expected `builder:\"each=...\"`")

	// ErrUnsupported is reported for declarations that the generator cannot
	// derive a builder for, e.g. generic or non-struct types.
	ErrUnsupported = errors.New("unsupported declaration")

	// ErrNameCollision is reported when generated methods would collide
	// with each other or with the record fields.
	ErrNameCollision = errors.New("name collision")

	// ErrNotFound is reported when a record requested by name does not
	// exist in the package.
	ErrNotFound = errors.New("type not found")
)

// Diagnostic is an error anchored at a source position.
type Diagnostic struct {
	// Pos is the position of the offending node. It may be invalid for
	// diagnostics that do not correspond to any source node.
	Pos token.Position
	// Err is the underlying error.
	Err error
}

// Error implements the error interface. The message uses the conventional
// file:line:column prefix.
func (d *Diagnostic) Error() string {
	if !d.Pos.IsValid() {
		return d.Err.Error()
	}
	return d.Pos.String() + ": " + d.Err.Error()
}

// Unwrap returns the underlying error.
func (d *Diagnostic) Unwrap() error {
	return d.Err
}

func diagnostic(pos token.Position, err error) *Diagnostic {
	return &Diagnostic{Pos: pos, Err: err}
}

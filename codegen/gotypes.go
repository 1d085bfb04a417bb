package codegen

import (
	"encoding"
	"fmt"
	"go/token"
)

var _ encoding.TextUnmarshaler = (*GoIdentifier)(nil)

// GoIdentifier validates Go syntax for identifier.
//
// See https://go.dev/ref/spec#identifier
type GoIdentifier string

// UnmarshalText implements the [encoding.TextUnmarshaler] interface.
func (g *GoIdentifier) UnmarshalText(text []byte) error {
	if !token.IsIdentifier(string(text)) {
		return fmt.Errorf("invalid Go identifier %q", text)
	}
	*g = GoIdentifier(text)
	return nil
}

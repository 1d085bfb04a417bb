package codegen

import (
	"fmt"
)

var _ fmt.Stringer = Shape(0)

// Shape is an enumeration of field shapes recognized by the classifier.
type Shape int

// These shapes determine the slot type, the setter and the extraction in
// Build for a field.
const (
	// ShapeRequired is a field that must be set before Build. The setter
	// accepts the field type.
	//
	// Example:
	//
	//   Executable string
	ShapeRequired Shape = iota

	// ShapeOptional is a pointer field that is never required. The setter
	// accepts the pointed-to type.
	//
	// Example:
	//
	//   CurrentDir *string
	ShapeOptional

	// ShapeRepeated is a slice field with an each directive. The setter is
	// named after the directive and appends a single element.
	//
	// Example:
	//
	//   Args []string `builder:"each=Arg"`
	ShapeRepeated
)

// String implements the [fmt.Stringer] interface.
func (s Shape) String() string {
	switch s {
	case ShapeRequired:
		return "required"
	case ShapeOptional:
		return "optional"
	case ShapeRepeated:
		return "repeated"
	}
	return ""
}

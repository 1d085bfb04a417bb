package codegen

import (
	"go/ast"
	"go/token"
	"reflect"
)

// Field describes a named field of a record declaration.
type Field struct {
	// Name is the field identifier.
	Name string
	// Type is the declared field type.
	Type ast.Expr
	// Tag is the unquoted struct tag. It is empty if the field has no tag.
	Tag reflect.StructTag
	// Pos is the position of the field name.
	Pos token.Position
	// TagPos is the position of the struct tag literal. It is invalid if
	// the field has no tag.
	TagPos token.Position
}

// ClassifiedField is a field together with its shape. It is implemented by
// [Required], [Optional] and [Repeated] only.
type ClassifiedField interface {
	// FieldName returns the record field name.
	FieldName() string
	// Shape returns the field shape.
	Shape() Shape

	isClassifiedField()
}

var (
	_ ClassifiedField = Required{}
	_ ClassifiedField = Optional{}
	_ ClassifiedField = Repeated{}
)

// Required is a field that must be set before Build.
type Required struct {
	Name string
	Type ast.Expr
}

// Optional is a pointer field *Inner. Its setter accepts Inner.
type Optional struct {
	Name  string
	Inner ast.Expr
}

// Repeated is a slice field []Elem with an each directive. Its setter, named
// Each, appends a single Elem.
type Repeated struct {
	Name string
	Elem ast.Expr
	Each string
}

// FieldName implements the [ClassifiedField] interface.
func (f Required) FieldName() string { return f.Name }

// FieldName implements the [ClassifiedField] interface.
func (f Optional) FieldName() string { return f.Name }

// FieldName implements the [ClassifiedField] interface.
func (f Repeated) FieldName() string { return f.Name }

// Shape implements the [ClassifiedField] interface.
func (Required) Shape() Shape { return ShapeRequired }

// Shape implements the [ClassifiedField] interface.
func (Optional) Shape() Shape { return ShapeOptional }

// Shape implements the [ClassifiedField] interface.
func (Repeated) Shape() Shape { return ShapeRepeated }

func (Required) isClassifiedField() {}
func (Optional) isClassifiedField() {}
func (Repeated) isClassifiedField() {}

// Classify determines the shape of a field. Matching is purely syntactic:
// a pointer type is Optional, a slice type with a valid each directive in the
// builder tag is Repeated, and everything else is Required. Named types and
// aliases of pointers or slices are not resolved.
//
// A builder tag on a slice field that assigns to a key other than each is
// reported as a [Diagnostic] anchored at the tag. Other tag shapes are
// ignored.
func Classify(f Field) (ClassifiedField, error) {
	return classify(f, false)
}

func classify(f Field, strict bool) (ClassifiedField, error) {
	if inner, ok := pointerElem(f.Type); ok {
		return Optional{Name: f.Name, Inner: inner}, nil
	}

	elem, ok := sliceElem(f.Type)
	if !ok {
		return Required{Name: f.Name, Type: f.Type}, nil
	}

	value, ok := f.Tag.Lookup(TagKey)
	if !ok {
		return Required{Name: f.Name, Type: f.Type}, nil
	}

	each, ok, err := ParseEach(value)
	switch {
	case err != nil:
		return nil, diagnostic(f.TagPos, err)
	case ok:
		return Repeated{Name: f.Name, Elem: elem, Each: each}, nil
	case strict:
		return nil, diagnostic(f.TagPos, ErrMalformedAttribute)
	}
	return Required{Name: f.Name, Type: f.Type}, nil
}

func pointerElem(t ast.Expr) (ast.Expr, bool) {
	star, ok := t.(*ast.StarExpr)
	if !ok {
		return nil, false
	}
	return star.X, true
}

func sliceElem(t ast.Expr) (ast.Expr, bool) {
	arr, ok := t.(*ast.ArrayType)
	if !ok || arr.Len != nil {
		return nil, false
	}
	return arr.Elt, true
}

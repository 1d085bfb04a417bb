package codegen

import (
	"go/ast"
	"go/types"
)

// Clone functions used to copy values out of the builder.
const (
	cloneNone  = ""
	cloneSlice = "slices.Clone"
	cloneMap   = "maps.Clone"
)

// fileView is the template data for a generated file.
type fileView struct {
	Header  Header
	Imports []PackageImport
	Records []recordView
}

// recordView is the template data for a single record.
type recordView struct {
	Name    string
	Builder string
	Fields  []fieldView
}

// fieldView is the template data for a single field.
type fieldView struct {
	// Name is the record field and builder slot name.
	Name string
	// Shape is the field shape.
	Shape Shape
	// Setter is the setter method name.
	Setter string
	// ValueType is the setter parameter type.
	ValueType string
	// SlotType is the type of the builder slot.
	SlotType string
	// Clone is the function that copies the stored value, if any.
	Clone string
}

func newFileView(c *Config) *fileView {
	records := make([]recordView, 0, len(c.Records))
	for _, r := range c.Records {
		fields := make([]fieldView, 0, len(r.Fields))
		for _, f := range r.Fields {
			fields = append(fields, newFieldView(f))
		}
		records = append(records, recordView{
			Name:    r.Name,
			Builder: r.BuilderName(),
			Fields:  fields,
		})
	}
	return &fileView{
		Header:  c.Header,
		Imports: Imports(c.Records),
		Records: records,
	}
}

func newFieldView(f ClassifiedField) fieldView {
	switch f := f.(type) {
	case Required:
		t := types.ExprString(f.Type)
		return fieldView{
			Name:      f.Name,
			Shape:     ShapeRequired,
			Setter:    f.Name,
			ValueType: t,
			SlotType:  "*" + t,
			Clone:     cloneFunc(f.Type),
		}
	case Optional:
		t := types.ExprString(f.Inner)
		return fieldView{
			Name:      f.Name,
			Shape:     ShapeOptional,
			Setter:    f.Name,
			ValueType: t,
			SlotType:  "*" + t,
			Clone:     cloneFunc(f.Inner),
		}
	case Repeated:
		t := types.ExprString(f.Elem)
		return fieldView{
			Name:      f.Name,
			Shape:     ShapeRepeated,
			Setter:    f.Each,
			ValueType: t,
			SlotType:  "[]" + t,
			Clone:     cloneSlice,
		}
	}
	panic("unreachable")
}

// cloneFunc returns the function that copies a value of the given type so
// that the copy does not alias the original. Only slice and map types are
// recognized.
func cloneFunc(t ast.Expr) string {
	switch t := t.(type) {
	case *ast.ArrayType:
		if t.Len == nil {
			return cloneSlice
		}
	case *ast.MapType:
		return cloneMap
	}
	return cloneNone
}

package codegen

import (
	"errors"
	"go/ast"
	"go/parser"
	"go/token"
	"go/types"
	"reflect"
	"testing"

	"gotest.tools/v3/assert"
)

func TestClassify(t *testing.T) {
	tagPos := token.Position{Filename: "input.go", Line: 3, Column: 14}

	testCases := []struct {
		name  string
		typ   string
		tag   reflect.StructTag
		shape Shape
		inner string
		each  string
	}{
		{name: "scalar", typ: "string", shape: ShapeRequired, inner: "string"},
		{name: "pointer", typ: "*string", shape: ShapeOptional, inner: "string"},
		{name: "pointer to slice", typ: "*[]int", shape: ShapeOptional, inner: "[]int"},
		{name: "slice without tag", typ: "[]string", shape: ShapeRequired, inner: "[]string"},
		{name: "slice with other tags", typ: "[]string", tag: `json:"args"`, shape: ShapeRequired, inner: "[]string"},
		{name: "slice with each", typ: "[]string", tag: `builder:"each=arg"`, shape: ShapeRepeated, inner: "string", each: "arg"},
		{name: "slice with each and json", typ: "[]pkg.Value", tag: `json:"args" builder:"each=Arg"`, shape: ShapeRepeated, inner: "pkg.Value", each: "Arg"},
		{name: "each equals field", typ: "[]string", tag: `builder:"each=Field"`, shape: ShapeRepeated, inner: "string", each: "Field"},
		{name: "slice with unrecognized shape", typ: "[]string", tag: `builder:"each"`, shape: ShapeRequired, inner: "[]string"},
		{name: "array with each", typ: "[4]string", tag: `builder:"each=arg"`, shape: ShapeRequired, inner: "[4]string"},
		{name: "map", typ: "map[string]int", shape: ShapeRequired, inner: "map[string]int"},
		{name: "named slice", typ: "Strings", tag: `builder:"each=arg"`, shape: ShapeRequired, inner: "Strings"},
		{name: "qualified generic", typ: "opt.Option[int]", shape: ShapeRequired, inner: "opt.Option[int]"},
		{name: "pointer ignores tag", typ: "*string", tag: `builder:"foo=bar"`, shape: ShapeOptional, inner: "string"},
		{name: "scalar ignores tag", typ: "string", tag: `builder:"foo=bar"`, shape: ShapeRequired, inner: "string"},
		{name: "first builder key", typ: "[]string", tag: `builder:"each=arg" builder:"foo=bar"`, shape: ShapeRepeated, inner: "string", each: "arg"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			f := Field{
				Name:   "Field",
				Type:   mustParseExpr(t, tc.typ),
				Tag:    tc.tag,
				TagPos: tagPos,
			}
			cf, err := Classify(f)
			assert.NilError(t, err)
			assert.Equal(t, cf.FieldName(), "Field")
			assert.Equal(t, cf.Shape(), tc.shape)

			switch cf := cf.(type) {
			case Required:
				assert.Equal(t, types.ExprString(cf.Type), tc.inner)
			case Optional:
				assert.Equal(t, types.ExprString(cf.Inner), tc.inner)
			case Repeated:
				assert.Equal(t, types.ExprString(cf.Elem), tc.inner)
				assert.Equal(t, cf.Each, tc.each)
			}
		})
	}
}

func TestClassifyMalformedAttribute(t *testing.T) {
	tagPos := token.Position{Filename: "input.go", Line: 3, Column: 14}

	f := Field{
		Name:   "Args",
		Type:   mustParseExpr(t, "[]string"),
		Tag:    `builder:"eac=arg"`,
		TagPos: tagPos,
	}
	_, err := Classify(f)
	assert.ErrorIs(t, err, ErrMalformedAttribute)
	assert.Error(t, err, "input.go:3:14: expected `builder:\"each=...\"`")

	var diag *Diagnostic
	assert.Assert(t, errors.As(err, &diag))
	assert.Equal(t, diag.Pos, tagPos)
}

func TestClassifyStrict(t *testing.T) {
	f := Field{
		Name: "Args",
		Type: mustParseExpr(t, "[]string"),
		Tag:  `builder:"each"`,
	}

	cf, err := classify(f, false)
	assert.NilError(t, err)
	assert.Equal(t, cf.Shape(), ShapeRequired)

	_, err = classify(f, true)
	assert.ErrorIs(t, err, ErrMalformedAttribute)

	// Unrelated tags and tags on other shapes are still ignored.
	f.Tag = `json:"args"`
	cf, err = classify(f, true)
	assert.NilError(t, err)
	assert.Equal(t, cf.Shape(), ShapeRequired)

	f.Type, f.Tag = mustParseExpr(t, "*string"), `builder:"each"`
	cf, err = classify(f, true)
	assert.NilError(t, err)
	assert.Equal(t, cf.Shape(), ShapeOptional)
}

func mustParseExpr(t *testing.T, s string) ast.Expr {
	t.Helper()
	expr, err := parser.ParseExpr(s)
	assert.NilError(t, err)
	return expr
}

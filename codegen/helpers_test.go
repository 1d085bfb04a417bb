package codegen

import (
	"bytes"
	"go/ast"
	"go/importer"
	"go/parser"
	"go/token"
	"go/types"
	"strings"
	"testing"

	"go.uber.org/zap/zaptest"
	"gotest.tools/v3/assert"
)

const (
	inputFilename  = "input.go"
	outputFilename = "builder_gen.go"
)

// parsePackage parses src as the only file of a package.
func parsePackage(t *testing.T, src string) *Package {
	t.Helper()
	fset := token.NewFileSet()
	f, err := parser.ParseFile(fset, inputFilename, src, parser.ParseComments)
	assert.NilError(t, err)
	return &Package{Name: f.Name.Name, Fset: fset, Files: []*ast.File{f}}
}

// analyzeSource analyzes records marked with the derive directive in src.
func analyzeSource(t *testing.T, src string, opts Options) ([]Record, error) {
	t.Helper()
	p := parsePackage(t, src)
	decls, err := p.Decls(nil)
	assert.NilError(t, err)
	if opts.Scope == nil {
		opts.Scope = p.Scope()
	}
	if opts.Logger == nil {
		opts.Logger = zaptest.NewLogger(t)
	}
	return Analyze(decls, opts)
}

// generateSource returns formatted builders for records marked in src. It
// also checks that the output type checks together with src.
func generateSource(t *testing.T, src string, header Header) string {
	t.Helper()
	records, err := analyzeSource(t, src, Options{})
	assert.NilError(t, err)

	if header.PackageName == "" {
		header.PackageName = "input"
	}

	var buf bytes.Buffer
	assert.NilError(t, Generate(&buf, Config{Header: header, Records: records}))
	out, err := Format(outputFilename, buf.Bytes())
	assert.NilError(t, err, buf.String())

	typeCheck(t, src, string(out))
	return string(out)
}

// typeCheck type checks the input and generated sources as a single package.
func typeCheck(t *testing.T, input, output string) {
	t.Helper()
	fset := token.NewFileSet()
	in, err := parser.ParseFile(fset, inputFilename, input, parser.ParseComments)
	assert.NilError(t, err)
	out, err := parser.ParseFile(fset, outputFilename, output, parser.ParseComments)
	assert.NilError(t, err, output)

	conf := types.Config{Importer: importer.ForCompiler(fset, "source", nil)}
	_, err = conf.Check("example.com/input", fset, []*ast.File{in, out}, nil)
	assert.NilError(t, err, output)
}

// builderMethods returns names of methods declared on *builder in src, in
// source order.
func builderMethods(t *testing.T, src, builder string) []string {
	t.Helper()
	f, err := parser.ParseFile(token.NewFileSet(), outputFilename, src, 0)
	assert.NilError(t, err)

	var names []string
	for _, decl := range f.Decls {
		fd, ok := decl.(*ast.FuncDecl)
		if !ok || fd.Recv == nil {
			continue
		}
		star, ok := fd.Recv.List[0].Type.(*ast.StarExpr)
		if !ok {
			continue
		}
		if id, ok := star.X.(*ast.Ident); ok && id.Name == builder {
			names = append(names, fd.Name.Name)
		}
	}
	return names
}

// builderMethod returns the source of the method name declared on *builder.
func builderMethod(t *testing.T, src, builder, name string) string {
	t.Helper()
	fset := token.NewFileSet()
	f, err := parser.ParseFile(fset, outputFilename, src, 0)
	assert.NilError(t, err)

	for _, decl := range f.Decls {
		fd, ok := decl.(*ast.FuncDecl)
		if !ok || fd.Recv == nil || fd.Name.Name != name {
			continue
		}
		star, ok := fd.Recv.List[0].Type.(*ast.StarExpr)
		if !ok {
			continue
		}
		if id, ok := star.X.(*ast.Ident); ok && id.Name == builder {
			return src[fset.Position(fd.Pos()).Offset:fset.Position(fd.End()).Offset]
		}
	}
	t.Fatalf("method %s.%s not found", builder, name)
	return ""
}

// builderSlots returns "name type" pairs of the builder slots in src.
func builderSlots(t *testing.T, src, builder string) []string {
	t.Helper()
	f, err := parser.ParseFile(token.NewFileSet(), outputFilename, src, 0)
	assert.NilError(t, err)

	var st *ast.StructType
	for _, decl := range f.Decls {
		gd, ok := decl.(*ast.GenDecl)
		if !ok || gd.Tok != token.TYPE {
			continue
		}
		for _, spec := range gd.Specs {
			if ts := spec.(*ast.TypeSpec); ts.Name.Name == builder {
				st = ts.Type.(*ast.StructType)
			}
		}
	}
	assert.Assert(t, st != nil, "type %s not found", builder)
	assert.Equal(t, len(st.Fields.List), 1)
	assert.Equal(t, st.Fields.List[0].Names[0].Name, partialField)

	var slots []string
	for _, f := range st.Fields.List[0].Type.(*ast.StructType).Fields.List {
		for _, name := range f.Names {
			slots = append(slots, name.Name+" "+types.ExprString(f.Type))
		}
	}
	return slots
}

// position returns the position of the first occurrence of substr in src.
func position(t *testing.T, src, substr string) token.Position {
	t.Helper()
	offset := strings.Index(src, substr)
	assert.Assert(t, offset >= 0, "%q not found", substr)
	line := strings.Count(src[:offset], "\n") + 1
	column := offset - strings.LastIndex(src[:offset], "\n")
	return token.Position{
		Filename: inputFilename,
		Offset:   offset,
		Line:     line,
		Column:   column,
	}
}

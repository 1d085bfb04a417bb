package codegen

import (
	"context"
	"fmt"
	"go/ast"
	"go/token"
	"reflect"
	"slices"
	"strconv"
	"strings"

	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/tools/go/packages"
)

// DeriveDirective marks a struct type declaration for builder generation when
// it appears on its own line in the type’s doc comment.
const DeriveDirective = "//builder:derive"

// Package is a parsed Go package.
type Package struct {
	// Name is the package name.
	Name string
	// Fset is the file set used to parse Files.
	Fset *token.FileSet
	// Files is the package syntax.
	Files []*ast.File
}

// LoadConfig is a configuration for [LoadPackage].
type LoadConfig struct {
	// Dir is the package directory. Defaults to the current directory.
	Dir string
	// BuildFlags are passed to the go command, e.g. -tags.
	BuildFlags []string
	// Logger is a logger to use for load logs. If not set, logs are not
	// written.
	Logger *zap.Logger
}

// LoadPackage parses the Go package in c.Dir.
func LoadPackage(ctx context.Context, c LoadConfig) (*Package, error) {
	if c.Logger == nil {
		c.Logger = zap.NewNop()
	}

	fset := token.NewFileSet()
	cfg := &packages.Config{
		Context:    ctx,
		Mode:       packages.NeedName | packages.NeedFiles | packages.NeedSyntax,
		Dir:        c.Dir,
		BuildFlags: c.BuildFlags,
		Fset:       fset,
	}
	pkgs, err := packages.Load(cfg, ".")
	if err != nil {
		return nil, fmt.Errorf("load package: %w", err)
	}
	if len(pkgs) != 1 {
		return nil, fmt.Errorf("load package: expected exactly one package in %q, found %d", c.Dir, len(pkgs))
	}

	p := pkgs[0]
	var errs error
	for _, e := range p.Errors {
		errs = multierr.Append(errs, e)
	}
	if errs != nil {
		return nil, errs
	}

	c.Logger.Debug("loaded package",
		zap.String("package", p.PkgPath),
		zap.Strings("files", p.GoFiles),
	)
	return &Package{Name: p.Name, Fset: fset, Files: p.Syntax}, nil
}

// Decls returns record declarations that are either listed in names or
// carry the [DeriveDirective] in their doc comment, in source order.
// Generated files are skipped. Every selected declaration that is not a plain
// struct type, and every name that does not match a type, is reported as a
// [Diagnostic]. Package qualifiers in field types are resolved against the
// imports of the declaring file.
func (p *Package) Decls(names []string) ([]Decl, error) {
	var errs error
	var decls []Decl
	found := make(map[string]bool, len(names))

	scope := p.Scope()
	for _, file := range p.Files {
		if ast.IsGenerated(file) {
			continue
		}
		imports := fileImports(file)
		for _, decl := range file.Decls {
			gd, ok := decl.(*ast.GenDecl)
			if !ok || gd.Tok != token.TYPE {
				continue
			}
			for _, spec := range gd.Specs {
				ts := spec.(*ast.TypeSpec)
				name := ts.Name.Name
				requested := slices.Contains(names, name)
				if requested {
					found[name] = true
				}
				if !requested && !hasDirective(ts.Doc) && !(gd.Lparen == token.NoPos && hasDirective(gd.Doc)) {
					continue
				}
				d, err := p.decl(ts, imports, scope)
				if err != nil {
					errs = multierr.Append(errs, err)
					continue
				}
				decls = append(decls, d)
			}
		}
	}

	for _, name := range names {
		if !found[name] {
			errs = multierr.Append(errs, diagnostic(token.Position{}, fmt.Errorf(
				"%w: %s", ErrNotFound, name,
			)))
		}
	}
	if errs != nil {
		return nil, errs
	}
	return decls, nil
}

// Scope returns the package-level names declared outside generated files,
// mapped to their positions.
func (p *Package) Scope() map[string]token.Position {
	scope := make(map[string]token.Position)
	declare := func(ident *ast.Ident) {
		if ident.Name == "_" {
			return
		}
		if _, ok := scope[ident.Name]; !ok {
			scope[ident.Name] = p.Fset.Position(ident.Pos())
		}
	}
	for _, file := range p.Files {
		if ast.IsGenerated(file) {
			continue
		}
		for _, decl := range file.Decls {
			switch decl := decl.(type) {
			case *ast.FuncDecl:
				if decl.Recv == nil && decl.Name.Name != "init" {
					declare(decl.Name)
				}
			case *ast.GenDecl:
				for _, spec := range decl.Specs {
					switch spec := spec.(type) {
					case *ast.TypeSpec:
						declare(spec.Name)
					case *ast.ValueSpec:
						for _, name := range spec.Names {
							declare(name)
						}
					}
				}
			}
		}
	}
	return scope
}

// importTable maps names declared by the imports of a file to the imports.
type importTable struct {
	named map[string]PackageImport
	// dot is set if the file has a dot import.
	dot bool
}

func fileImports(file *ast.File) importTable {
	t := importTable{named: make(map[string]PackageImport)}
	for _, spec := range file.Imports {
		importPath, err := strconv.Unquote(spec.Path.Value)
		if err != nil {
			continue
		}
		imp := PackageImport{ImportPath: importPath}
		if spec.Name != nil {
			switch spec.Name.Name {
			case "_":
				continue
			case ".":
				t.dot = true
				continue
			}
			imp.PackageName = GoIdentifier(spec.Name.Name)
		}
		if _, ok := t.named[imp.Name()]; !ok {
			t.named[imp.Name()] = imp
		}
	}
	return t
}

// resolve returns the imports that package qualifiers in the type expression
// refer to. Qualifiers that are declared in the package scope are skipped.
func (p *Package) resolve(expr ast.Expr, imports importTable, scope map[string]token.Position) ([]PackageImport, error) {
	var errs error
	var out []PackageImport
	ast.Inspect(expr, func(n ast.Node) bool {
		sel, ok := n.(*ast.SelectorExpr)
		if !ok {
			return true
		}
		x, ok := sel.X.(*ast.Ident)
		if !ok {
			return true
		}
		if _, ok := scope[x.Name]; ok {
			return false
		}
		imp, ok := imports.named[x.Name]
		if !ok {
			errs = multierr.Append(errs, diagnostic(p.Fset.Position(x.Pos()), fmt.Errorf(
				"%w: cannot resolve package %s, import it with an explicit name",
				ErrUnsupported, x.Name,
			)))
			return false
		}
		if !slices.Contains(out, imp) {
			out = append(out, imp)
		}
		return false
	})
	return out, errs
}

func (p *Package) decl(ts *ast.TypeSpec, imports importTable, scope map[string]token.Position) (Decl, error) {
	name := ts.Name.Name
	pos := p.Fset.Position(ts.Name.Pos())

	unsupported := func(reason string) error {
		return diagnostic(pos, fmt.Errorf("%w: type %s %s", ErrUnsupported, name, reason))
	}
	switch {
	case ts.TypeParams != nil && len(ts.TypeParams.List) > 0:
		return Decl{}, unsupported("has type parameters")
	case ts.Assign.IsValid():
		return Decl{}, unsupported("is an alias")
	}
	st, ok := ts.Type.(*ast.StructType)
	if !ok {
		return Decl{}, unsupported("is not a struct")
	}
	if imports.dot && len(st.Fields.List) > 0 {
		return Decl{}, unsupported("is declared in a file with dot imports")
	}

	var errs error
	var fields []Field
	var used []PackageImport
	for _, f := range st.Fields.List {
		if len(f.Names) == 0 {
			errs = multierr.Append(errs, diagnostic(p.Fset.Position(f.Type.Pos()), fmt.Errorf(
				"%w: embedded field in type %s", ErrUnsupported, name,
			)))
			continue
		}

		var tag reflect.StructTag
		var tagPos token.Position
		if f.Tag != nil {
			s, err := strconv.Unquote(f.Tag.Value)
			if err != nil {
				errs = multierr.Append(errs, diagnostic(p.Fset.Position(f.Tag.Pos()), err))
				continue
			}
			tag, tagPos = reflect.StructTag(s), p.Fset.Position(f.Tag.Pos())
		}

		refs, err := p.resolve(f.Type, imports, scope)
		if err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		for _, imp := range refs {
			if !slices.Contains(used, imp) {
				used = append(used, imp)
			}
		}

		for _, ident := range f.Names {
			if ident.Name == "_" {
				errs = multierr.Append(errs, diagnostic(p.Fset.Position(ident.Pos()), fmt.Errorf(
					"%w: blank field in type %s", ErrUnsupported, name,
				)))
				continue
			}
			fields = append(fields, Field{
				Name:   ident.Name,
				Type:   f.Type,
				Tag:    tag,
				Pos:    p.Fset.Position(ident.Pos()),
				TagPos: tagPos,
			})
		}
	}
	if errs != nil {
		return Decl{}, errs
	}
	return Decl{Name: name, Pos: pos, Fields: fields, Imports: used}, nil
}

func hasDirective(doc *ast.CommentGroup) bool {
	if doc == nil {
		return false
	}
	for _, c := range doc.List {
		if strings.TrimRight(c.Text, " \t") == DeriveDirective {
			return true
		}
	}
	return false
}

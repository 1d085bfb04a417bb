package codegen

import (
	"cmp"
	"go/ast"
	"maps"
	"path"
	"slices"
	"strconv"
	"strings"
	"unicode"
)

// PackageImport represents an import statement in Go.
type PackageImport struct {
	// PackageName is an optional alias name used when importing.
	PackageName GoIdentifier
	// ImportPath is the import path of the Go package.
	ImportPath string
}

// Name returns the name that the import declares in the file scope. For an
// import without an alias, the package name is assumed from the import path.
func (p PackageImport) Name() string {
	if p.PackageName != "" {
		return string(p.PackageName)
	}
	return assumedPackageName(p.ImportPath)
}

// assumedPackageName returns the conventional package name for the import
// path: the last path element without a major version suffix, a go- prefix
// and anything after the first character that is not allowed in an
// identifier.
func assumedPackageName(importPath string) string {
	base := path.Base(importPath)
	if strings.HasPrefix(base, "v") {
		if _, err := strconv.Atoi(base[1:]); err == nil {
			if dir := path.Dir(importPath); dir != "." {
				base = path.Base(dir)
			}
		}
	}
	base = strings.TrimPrefix(base, "go-")
	if i := strings.IndexFunc(base, func(r rune) bool {
		return r != '_' && !unicode.IsLetter(r) && !unicode.IsDigit(r)
	}); i >= 0 {
		base = base[:i]
	}
	return base
}

// Header represents metadata for generating a Go source file.
type Header struct {
	// PackageName is the name of the generated Go package.
	PackageName GoIdentifier
	// BuildTags is an optional build constraint expression for the
	// generated file, e.g. "!nobuilder".
	BuildTags string
}

// Imports returns a deduplicated and sorted list of package imports
// required by the generated code for the given records. Imports of the same
// path under the same name are merged, preferring the explicit alias.
func Imports(records []Record) []PackageImport {
	errorsPackage := PackageImport{ImportPath: "errors"}
	mapsPackage := PackageImport{ImportPath: "maps"}
	slicesPackage := PackageImport{ImportPath: "slices"}

	type key struct{ name, path string }
	imports := map[key]PackageImport{}
	add := func(p PackageImport) {
		k := key{p.Name(), p.ImportPath}
		if old, ok := imports[k]; ok && old.PackageName != "" {
			return
		}
		imports[k] = p
	}
	addClone := func(t ast.Expr) {
		switch cloneFunc(t) {
		case cloneSlice:
			add(slicesPackage)
		case cloneMap:
			add(mapsPackage)
		}
	}

	for _, r := range records {
		for _, p := range r.Imports {
			add(p)
		}
		for _, f := range r.Fields {
			switch f := f.(type) {
			case Required:
				add(errorsPackage)
				addClone(f.Type)
			case Optional:
				addClone(f.Inner)
			case Repeated:
				add(slicesPackage)
			}
		}
	}

	return slices.SortedFunc(maps.Values(imports), func(a, b PackageImport) int {
		return cmp.Or(
			cmp.Compare(a.ImportPath, b.ImportPath),
			cmp.Compare(a.PackageName, b.PackageName),
		)
	})
}

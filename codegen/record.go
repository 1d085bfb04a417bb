package codegen

import (
	"fmt"
	"go/token"

	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// Names of the generated declarations that may collide with user-chosen
// names.
const (
	entryMethod  = "Builder"
	buildMethod  = "Build"
	partialField = "partial"
)

// Local names in the generated Build method that shadow package-level
// declarations.
const (
	receiverName = "b"
	resultName   = "out"
)

// Decl is a record declaration selected for code generation.
type Decl struct {
	// Name is the record type name.
	Name string
	// Pos is the position of the type name.
	Pos token.Position
	// Fields are the record fields in declaration order.
	Fields []Field
	// Imports are the imports of the declaring file that field types refer
	// to.
	Imports []PackageImport
}

// Record is a record with classified fields, ready for code generation.
type Record struct {
	// Name is the record type name.
	Name string
	// Fields are the classified fields in declaration order.
	Fields []ClassifiedField
	// Imports are the packages that field types refer to.
	Imports []PackageImport
}

// BuilderName returns the name of the generated builder type.
func (r *Record) BuilderName() string {
	return r.Name + "Builder"
}

// Options is a set of options for record analysis.
type Options struct {
	// Logger is a logger to use for analysis logs. If not set, logs are not
	// written.
	Logger *zap.Logger

	// Strict rejects builder tags on slice fields that are not recognized
	// as each directives instead of ignoring them.
	Strict bool

	// Scope maps package-level names declared outside generated files to
	// their positions (see [Package.Scope]). Generated declarations and
	// imports that would clash with these names are reported.
	Scope map[string]token.Position
}

// setDefaults sets default values for unspecified options.
func (o *Options) setDefaults() {
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
}

// Analyze classifies fields of the given declarations. Declaration and field
// order is preserved. Diagnostics for all declarations are combined into a
// single error (see [multierr.Errors]), and no records are returned if there
// is any.
func Analyze(decls []Decl, opts Options) ([]Record, error) {
	opts.setDefaults()

	var errs error
	records := make([]Record, 0, len(decls))
	for _, d := range decls {
		r, err := analyze(d, &opts)
		if err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		records = append(records, r)
	}
	if errs != nil {
		return nil, errs
	}
	if err := checkScope(decls, records, opts.Scope); err != nil {
		return nil, err
	}
	return records, nil
}

func analyze(d Decl, opts *Options) (Record, error) {
	log := opts.Logger.With(zap.String("record", d.Name))

	var errs error
	fields := make([]ClassifiedField, 0, len(d.Fields))
	for _, f := range d.Fields {
		cf, err := classify(f, opts.Strict)
		if err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		if r, ok := cf.(Repeated); ok {
			log.Debug("classified field",
				zap.String("field", f.Name),
				zap.Stringer("shape", cf.Shape()),
				zap.String("each", r.Each),
			)
		} else {
			log.Debug("classified field",
				zap.String("field", f.Name),
				zap.Stringer("shape", cf.Shape()),
			)
		}
		fields = append(fields, cf)
	}
	if errs != nil {
		return Record{}, errs
	}

	if err := checkNames(d, fields); err != nil {
		return Record{}, err
	}
	return Record{Name: d.Name, Fields: fields, Imports: d.Imports}, nil
}

// checkNames reports generated methods that would collide with each other or
// with the record fields. The fields must correspond to d.Fields.
func checkNames(d Decl, fields []ClassifiedField) error {
	var errs error
	setters := make(map[string]string, len(fields))
	for i, f := range fields {
		pos := d.Fields[i].Pos

		if f.FieldName() == entryMethod {
			errs = multierr.Append(errs, diagnostic(pos, fmt.Errorf(
				"%w: field %s.%s conflicts with the generated %s method",
				ErrNameCollision, d.Name, f.FieldName(), entryMethod,
			)))
		}

		name := setterName(f)
		if name == buildMethod || name == partialField {
			errs = multierr.Append(errs, diagnostic(pos, fmt.Errorf(
				"%w: setter %s of field %s is reserved by the generated builder",
				ErrNameCollision, name, f.FieldName(),
			)))
			continue
		}
		if other, ok := setters[name]; ok {
			errs = multierr.Append(errs, diagnostic(pos, fmt.Errorf(
				"%w: setter %s of field %s is also generated for field %s",
				ErrNameCollision, name, f.FieldName(), other,
			)))
			continue
		}
		setters[name] = f.FieldName()
	}
	return errs
}

// checkScope reports generated declarations and imports that would clash
// with each other or with the package scope. The records must correspond to
// decls.
func checkScope(decls []Decl, records []Record, scope map[string]token.Position) error {
	var errs error
	for i, r := range records {
		if r.Name == receiverName || r.Name == resultName {
			errs = multierr.Append(errs, diagnostic(decls[i].Pos, fmt.Errorf(
				"%w: type %s is shadowed by a local variable of the generated %s method",
				ErrNameCollision, r.Name, buildMethod,
			)))
		}
		if pos, ok := scope[r.BuilderName()]; ok {
			errs = multierr.Append(errs, diagnostic(pos, fmt.Errorf(
				"%w: %s is already declared and conflicts with the builder of %s",
				ErrNameCollision, r.BuilderName(), r.Name,
			)))
		}
	}

	paths := make(map[string]string)
	for _, p := range Imports(records) {
		name := p.Name()
		if other, ok := paths[name]; ok {
			errs = multierr.Append(errs, fmt.Errorf(
				"%w: packages %q and %q are both imported as %s",
				ErrNameCollision, other, p.ImportPath, name,
			))
			continue
		}
		paths[name] = p.ImportPath
		if pos, ok := scope[name]; ok {
			errs = multierr.Append(errs, diagnostic(pos, fmt.Errorf(
				"%w: %s conflicts with the import of %q in the generated file",
				ErrNameCollision, name, p.ImportPath,
			)))
		}
	}
	return errs
}

// setterName returns the name of the single setter generated for the field.
func setterName(f ClassifiedField) string {
	if r, ok := f.(Repeated); ok {
		return r.Each
	}
	return f.FieldName()
}

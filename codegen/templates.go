package codegen

import (
	"embed"
	"fmt"
	"strconv"
	"strings"
	"text/template"

	"github.com/kr/text"
)

//go:embed _templates/*.go.tmpl
var embeddedTemplatesFS embed.FS

// commentWidth is the maximum width of generated comment text, excluding the
// comment marker.
const commentWidth = 76

// Template returns the embedded template used for code generation.
func Template() *template.Template {
	t := template.New("main.go.tmpl").Option("missingkey=error").Funcs(template.FuncMap{
		"backquote": backquote,
		"clone":     clone,
		"comment":   comment,
		"quote":     strconv.Quote,
	})
	return template.Must(t.ParseFS(embeddedTemplatesFS, "_templates/*"))
}

// backquote returns backquoted string if possible, otherwise it returns an
// error.
func backquote(s string) (string, error) {
	if !strconv.CanBackquote(s) {
		return "", fmt.Errorf("cannot backquote string %q", s)
	}
	return "`" + s + "`", nil
}

// clone returns an expression that applies the clone function fn to expr, or
// expr itself if fn is empty.
func clone(fn, expr string) string {
	if fn == cloneNone {
		return expr
	}
	return fn + "(" + expr + ")"
}

// comment formats s as a line comment wrapped at commentWidth.
func comment(s string) string {
	wrapped := text.Wrap(strings.Join(strings.Fields(s), " "), commentWidth)
	return strings.TrimSuffix(text.Indent(wrapped+"\n", "// "), "\n")
}

package codegen

import (
	"golang.org/x/tools/imports"
)

// Format formats the generated source code. The filename is used for error
// messages.
func Format(filename string, src []byte) ([]byte, error) {
	return imports.Process(filename, src, &imports.Options{
		Comments:   true,
		TabIndent:  true,
		TabWidth:   8,
		FormatOnly: true,
	})
}

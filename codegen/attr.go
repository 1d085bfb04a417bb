package codegen

import (
	"go/scanner"
	"go/token"
	"strconv"
)

// TagKey is the struct tag key recognized by the generator.
const TagKey = "builder"

// eachKey is the only key accepted in the builder struct tag.
const eachKey = "each"

// ParseEach parses the value of a builder struct tag in the form each=name,
// where name is either a bare identifier or a Go string literal holding an
// identifier.
//
// The result is tri-state. If the value has the expected shape, ParseEach
// returns the name and true. If the value is an assignment to a key other
// than each, or the name is not a valid identifier (keywords included,
// whether quoted or not), it returns
// ErrMalformedAttribute. Otherwise, the value is not an each directive at all
// and ParseEach returns false and a nil error.
func ParseEach(value string) (string, bool, error) {
	toks, ok := scanTag(value)
	if !ok || len(toks) != 3 || toks[1].tok != token.ASSIGN {
		return "", false, nil
	}

	key, rhs := toks[0], toks[2]
	if key.tok != token.IDENT {
		return "", false, nil
	}
	if key.lit != eachKey {
		return "", false, ErrMalformedAttribute
	}

	var name string
	switch rhs.tok {
	case token.IDENT:
		name = rhs.lit
	case token.STRING:
		s, err := strconv.Unquote(rhs.lit)
		if err != nil {
			return "", false, nil
		}
		name = s
	default:
		if rhs.tok.IsKeyword() {
			return "", false, ErrMalformedAttribute
		}
		return "", false, nil
	}

	if !token.IsIdentifier(name) {
		return "", false, ErrMalformedAttribute
	}
	return name, true, nil
}

type tagToken struct {
	tok token.Token
	lit string
}

// scanTag splits the tag value into Go tokens. It returns false if the value
// contains anything the Go scanner rejects.
func scanTag(value string) ([]tagToken, bool) {
	src := []byte(value)

	fset := token.NewFileSet()
	file := fset.AddFile("", fset.Base(), len(src))

	var s scanner.Scanner
	var failed bool
	s.Init(file, src, func(token.Position, string) { failed = true }, 0)

	var toks []tagToken
	for {
		_, tok, lit := s.Scan()
		if tok == token.EOF {
			break
		}
		// Skip automatically inserted semicolons.
		if tok == token.SEMICOLON && lit == "\n" {
			continue
		}
		toks = append(toks, tagToken{tok, lit})
	}
	return toks, !failed
}

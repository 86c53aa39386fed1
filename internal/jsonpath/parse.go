package jsonpath

import (
	"fmt"

	"github.com/ohler55/ojg/jp"
)

// ParseError is returned when an expression cannot be turned back into a Path.
type ParseError struct {
	Expr    string
	Message string
	Err     error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid path expression %q: %s: %v", e.Expr, e.Message, e.Err)
	}
	return fmt.Sprintf("invalid path expression %q: %s", e.Expr, e.Message)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Parse is the inverse of Generate. Only plain child steps are accepted:
// wildcards, slices, filters, unions, recursive descent and negative
// indexes address more than one value and have no Path equivalent.
func Parse(expr string) (Path, error) {
	x, err := jp.ParseString(expr)
	if err != nil {
		return nil, &ParseError{Expr: expr, Message: "syntax", Err: err}
	}
	if len(x) == 0 {
		return nil, &ParseError{Expr: expr, Message: "empty expression"}
	}
	if _, ok := x[0].(jp.Root); !ok {
		return nil, &ParseError{Expr: expr, Message: "expression must start at $"}
	}

	p := Path{}
	for _, frag := range x[1:] {
		switch f := frag.(type) {
		case jp.Bracket:
			// notation marker only
		case jp.Child:
			p = append(p, Key(string(f)))
		case jp.Nth:
			if f < 0 {
				return nil, &ParseError{Expr: expr, Message: fmt.Sprintf("negative index %d", int(f))}
			}
			p = append(p, Index(int(f)))
		default:
			return nil, &ParseError{Expr: expr, Message: fmt.Sprintf("unsupported step %T", frag)}
		}
	}
	return p, nil
}

// MustParse is like Parse but panics on error.
func MustParse(expr string) Path {
	p, err := Parse(expr)
	if err != nil {
		panic(err)
	}
	return p
}

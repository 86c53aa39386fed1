package document

import (
	"fmt"

	"github.com/ohler55/ojg/jp"
)

// Resolve evaluates a path expression against doc and returns the first
// match. found is false when nothing matches; a null value that does match
// is returned as (nil, true, nil).
//
// Node IDs built over keys that are not identifiers (see
// jsonpath.Path.Resolvable) parse differently from the path they were
// generated for and do not resolve to that node's value.
func Resolve(doc any, expr string) (value any, found bool, err error) {
	x, err := jp.ParseString(expr)
	if err != nil {
		return nil, false, fmt.Errorf("invalid jsonpath '%s': %w", expr, err)
	}

	results := x.Get(Plain(doc))
	if len(results) == 0 {
		return nil, false, nil
	}
	return results[0], true, nil
}

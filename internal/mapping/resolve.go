package mapping

import (
	"errors"
	"fmt"

	"github.com/agentic-research/fieldmap/api"
	"github.com/agentic-research/fieldmap/internal/document"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// ErrUnresolved is wrapped by Resolve for expressions that match nothing.
var ErrUnresolved = errors.New("expression matched nothing")

// Resolve computes the value of every mapped field against doc, in mapping
// order. Fixed values pass through unchanged; expressions are evaluated
// against doc. Fields that fail to resolve are left out of the result and
// reported together in the returned error.
func (r *Registry[F]) Resolve(doc any) (*orderedmap.OrderedMap[string, any], error) {
	out := orderedmap.New[string, any]()
	var errs []error
	for _, m := range r.Mappings() {
		if m.Source == api.SourceFixedValue {
			out.Set(m.APIName, m.FixedValue)
			continue
		}
		v, found, err := document.Resolve(doc, m.Expression)
		if err != nil {
			errs = append(errs, fmt.Errorf("field %q: %w", m.APIName, err))
			continue
		}
		if !found {
			errs = append(errs, fmt.Errorf("field %q: %s: %w", m.APIName, m.Expression, ErrUnresolved))
			continue
		}
		out.Set(m.APIName, v)
	}
	return out, errors.Join(errs...)
}

// Package mapping holds the per-view state of the field mapping flow: which
// form field awaits a source, how each mapped field is populated, and the
// scratch values a user is typing outside the mapping flow.
package mapping

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"reflect"
	"sync"

	"github.com/agentic-research/fieldmap/api"
	"github.com/spf13/cast"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// ErrInvalidInput wraps every rejected mutation. Rejections never change
// registry state.
var ErrInvalidInput = errors.New("invalid input")

// Registry is the mapping state of one session. F is the caller-defined
// description of a form field; the registry never inspects it.
//
// All methods are safe for concurrent use, but a Registry is meant to be
// owned by a single session; see Sessions.
type Registry[F any] struct {
	mu       sync.RWMutex
	active   *F
	mappings *orderedmap.OrderedMap[string, api.Mapping]
	formData *orderedmap.OrderedMap[string, any]

	subMu  sync.Mutex
	subs   map[int]func(string)
	nextID int

	logger *slog.Logger
}

// NewRegistry returns an empty registry.
func NewRegistry[F any](opts ...Option) *Registry[F] {
	cfg := config{logger: slog.Default()}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Registry[F]{
		mappings: orderedmap.New[string, api.Mapping](),
		formData: orderedmap.New[string, any](),
		subs:     make(map[int]func(string)),
		logger:   cfg.logger,
	}
}

// SetActiveField marks f as the field awaiting a mapping target, replacing
// any previous one.
func (r *Registry[F]) SetActiveField(f F) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.active = &f
}

// ClearActiveField forgets the active field. Calling it again is a no-op.
func (r *Registry[F]) ClearActiveField() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.active = nil
}

// ActiveField returns the active field, if any.
func (r *Registry[F]) ActiveField() (F, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.active == nil {
		var zero F
		return zero, false
	}
	return *r.active, true
}

// AddMapping stores the mapping for fieldName, replacing any previous one.
//
// By default value is a path expression and is stored as an EXPRESSION
// mapping; with AsFixedValue it is stored verbatim as a FIXED_VALUE mapping.
// An empty field name, a nil value, or an expression that is not a
// non-empty string leaves the registry untouched and returns an error
// wrapping ErrInvalidInput.
func (r *Registry[F]) AddMapping(fieldName string, value any, opts ...AddOption) error {
	cfg := addConfig{source: api.SourceExpression}
	for _, opt := range opts {
		opt(&cfg)
	}

	m, err := newMapping(fieldName, value, cfg.source)
	if err != nil {
		r.logger.Debug("mapping rejected", "field", fieldName, "error", err)
		return err
	}

	r.mu.Lock()
	r.mappings.Set(fieldName, m)
	formatted, renderErr := r.formatLocked()
	r.mu.Unlock()

	r.warnUnrenderable(renderErr)
	r.logger.Debug("mapping added", "field", fieldName, "source", m.Source)
	r.notify(formatted)
	return nil
}

func newMapping(fieldName string, value any, source api.Source) (api.Mapping, error) {
	if fieldName == "" {
		return api.Mapping{}, fmt.Errorf("%w: empty field name", ErrInvalidInput)
	}
	if isNil(value) {
		return api.Mapping{}, fmt.Errorf("%w: nil value for field %q", ErrInvalidInput, fieldName)
	}

	if source == api.SourceFixedValue {
		return api.Mapping{
			APIName:    fieldName,
			Source:     api.SourceFixedValue,
			FixedValue: value,
		}, nil
	}

	if isBlank(value) {
		return api.Mapping{}, fmt.Errorf("%w: blank expression %v for field %q", ErrInvalidInput, value, fieldName)
	}
	expr, err := cast.ToStringE(value)
	if err != nil {
		return api.Mapping{}, fmt.Errorf("%w: expression for field %q: %v", ErrInvalidInput, fieldName, err)
	}
	return api.Mapping{
		APIName:    fieldName,
		Source:     api.SourceExpression,
		Expression: expr,
	}, nil
}

// isNil reports nil interfaces and typed nil pointers, maps, slices,
// channels and funcs.
func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Interface, reflect.Chan, reflect.Func:
		return rv.IsNil()
	}
	return false
}

// isBlank reports the scalar values that cannot name an expression: "",
// false, zero and NaN.
func isBlank(v any) bool {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.String, reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return rv.IsZero()
	case reflect.Float32, reflect.Float64:
		f := rv.Float()
		return f == 0 || math.IsNaN(f)
	}
	return false
}

// RemoveMapping deletes the mapping for fieldName, if there is one.
func (r *Registry[F]) RemoveMapping(fieldName string) {
	r.mu.Lock()
	_, present := r.mappings.Delete(fieldName)
	if !present {
		r.mu.Unlock()
		return
	}
	formatted, renderErr := r.formatLocked()
	r.mu.Unlock()

	r.warnUnrenderable(renderErr)
	r.logger.Debug("mapping removed", "field", fieldName)
	r.notify(formatted)
}

// GetFieldMapping returns the expression mapped to fieldName, or "" when the
// field is unmapped or mapped to a fixed value. Use Lookup to tell those two
// cases apart.
func (r *Registry[F]) GetFieldMapping(fieldName string) string {
	m, _ := r.Lookup(fieldName)
	return m.Expression
}

// Lookup returns the mapping stored for fieldName.
func (r *Registry[F]) Lookup(fieldName string) (api.Mapping, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.mappings.Get(fieldName)
}

// Mappings returns all mappings in insertion order.
func (r *Registry[F]) Mappings() []api.Mapping {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]api.Mapping, 0, r.mappings.Len())
	for pair := r.mappings.Oldest(); pair != nil; pair = pair.Next() {
		out = append(out, pair.Value)
	}
	return out
}

// UpdateFormData sets the scratch value of fieldName.
func (r *Registry[F]) UpdateFormData(fieldName string, value any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.formData.Set(fieldName, value)
}

// FormValue returns the scratch value of fieldName.
func (r *Registry[F]) FormValue(fieldName string) (any, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.formData.Get(fieldName)
}

// FormData returns a copy of all scratch values.
func (r *Registry[F]) FormData() map[string]any {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[string]any, r.formData.Len())
	for pair := r.formData.Oldest(); pair != nil; pair = pair.Next() {
		out[pair.Key] = pair.Value
	}
	return out
}

// FormattedMappings renders all mappings as JSON indented by two spaces, in
// insertion order. It is meant for display only.
func (r *Registry[F]) FormattedMappings() string {
	r.mu.RLock()
	formatted, renderErr := r.formatLocked()
	r.mu.RUnlock()

	r.warnUnrenderable(renderErr)
	return formatted
}

// formatLocked renders the mapping set; the caller holds r.mu. Mappings
// whose fixed value cannot be encoded render as null and are reported in
// the returned error.
func (r *Registry[F]) formatLocked() (string, error) {
	var errs []error
	var buf bytes.Buffer
	buf.WriteByte('{')
	for pair := r.mappings.Oldest(); pair != nil; pair = pair.Next() {
		if pair != r.mappings.Oldest() {
			buf.WriteByte(',')
		}
		key, _ := encode(pair.Key)
		val, err := encode(pair.Value)
		if err != nil {
			errs = append(errs, fmt.Errorf("field %q: %w", pair.Key, err))
			val = []byte("null")
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')

	var out bytes.Buffer
	if err := json.Indent(&out, buf.Bytes(), "", "  "); err != nil {
		return buf.String(), errors.Join(append(errs, err)...)
	}
	return out.String(), errors.Join(errs...)
}

func (r *Registry[F]) warnUnrenderable(err error) {
	if err != nil {
		r.logger.Warn("mappings not fully renderable", "error", err)
	}
}

func encode(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// Subscribe registers fn to receive the formatted mappings after every
// change to the mapping set. fn runs on the mutating goroutine, outside the
// registry lock. The returned function cancels the subscription.
func (r *Registry[F]) Subscribe(fn func(formatted string)) (cancel func()) {
	r.subMu.Lock()
	defer r.subMu.Unlock()
	id := r.nextID
	r.nextID++
	r.subs[id] = fn
	return func() {
		r.subMu.Lock()
		defer r.subMu.Unlock()
		delete(r.subs, id)
	}
}

func (r *Registry[F]) notify(formatted string) {
	r.subMu.Lock()
	fns := make([]func(string), 0, len(r.subs))
	for id := 0; id < r.nextID; id++ {
		if fn, ok := r.subs[id]; ok {
			fns = append(fns, fn)
		}
	}
	r.subMu.Unlock()

	for _, fn := range fns {
		fn(formatted)
	}
}

package tree

import (
	"encoding/json"
	"reflect"
	"sort"
	"strconv"

	"github.com/agentic-research/fieldmap/internal/jsonpath"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Object is the ordered object representation produced by the document
// decoders.
type Object = orderedmap.OrderedMap[string, any]

// Build converts doc into a forest of nodes, one per member of the top-level
// container. nil and bare scalars yield an empty, non-nil slice: a scalar is
// only addressable through a parent key or index.
//
// Accepted containers are *Object, map[string]any and []any, plus any other
// JSON-shaped Go value: slices and arrays of any element type, maps whose
// key kind is string, and non-nil pointers to either. []byte is a scalar, as
// encoding/json treats it. Nil slices, maps and pointers are null.
//
// Objects decoded into *Object keep their key order. Go maps carry no
// order, so their keys are visited in sorted order.
func Build(doc any) []*Node {
	nodes := build(normalize(doc), jsonpath.Path{})
	if nodes == nil {
		return []*Node{}
	}
	return nodes
}

func build(v any, parent jsonpath.Path) []*Node {
	switch c := v.(type) {
	case []any:
		out := make([]*Node, 0, len(c))
		for i, item := range c {
			out = append(out, newNode("["+strconv.Itoa(i)+"]", parent.Append(jsonpath.Index(i)), item))
		}
		return out
	case *Object:
		if c == nil {
			return nil
		}
		out := make([]*Node, 0, c.Len())
		for pair := c.Oldest(); pair != nil; pair = pair.Next() {
			out = append(out, newNode(pair.Key, parent.Append(jsonpath.Key(pair.Key)), pair.Value))
		}
		return out
	case map[string]any:
		keys := make([]string, 0, len(c))
		for k := range c {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		out := make([]*Node, 0, len(keys))
		for _, k := range keys {
			out = append(out, newNode(k, parent.Append(jsonpath.Key(k)), c[k]))
		}
		return out
	}
	return nil
}

func newNode(label string, path jsonpath.Path, v any) *Node {
	v = normalize(v)
	n := &Node{
		ID:    jsonpath.Generate(path),
		Label: label,
		Path:  path,
	}
	if !isContainer(v) {
		n.Kind = KindScalar
		n.Value = v
		n.ValueType = ClassifyValue(v)
		return n
	}
	n.Children = build(v, path)
	if len(n.Children) == 0 {
		n.Kind = KindEmptyContainer
		n.Children = nil
		return n
	}
	n.Kind = KindBranch
	return n
}

func isContainer(v any) bool {
	switch c := v.(type) {
	case []any, map[string]any:
		return true
	case *Object:
		return c != nil
	}
	return false
}

// normalize rewrites Go-typed containers into []any and map[string]any so
// that build only has to know the decoder shapes. Elements are normalized
// lazily by newNode.
func normalize(v any) any {
	switch v.(type) {
	case nil, []any, map[string]any, *Object, []byte, json.Number, string, bool:
		return v
	}

	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil
		}
		rv = rv.Elem()
	}

	switch rv.Kind() {
	case reflect.Slice:
		if rv.IsNil() {
			return nil
		}
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			return v
		}
		fallthrough
	case reflect.Array:
		out := make([]any, rv.Len())
		for i := range out {
			out[i] = rv.Index(i).Interface()
		}
		return out
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return v
		}
		if rv.IsNil() {
			return nil
		}
		out := make(map[string]any, rv.Len())
		it := rv.MapRange()
		for it.Next() {
			out[it.Key().String()] = it.Value().Interface()
		}
		return out
	case reflect.Interface:
		if rv.IsNil() {
			return nil
		}
		return normalize(rv.Elem().Interface())
	}
	if rv.IsValid() && rv.CanInterface() && rv.Kind() != reflect.Struct {
		return rv.Interface()
	}
	return v
}

// ClassifyValue names the JSON type of v.
func ClassifyValue(v any) ValueType {
	switch c := v.(type) {
	case nil:
		return TypeNull
	case string:
		return TypeString
	case bool:
		return TypeBoolean
	case json.Number,
		float32, float64,
		int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64:
		return TypeNumber
	case []any:
		return TypeArray
	case map[string]any:
		return TypeObject
	case *Object:
		if c == nil {
			return TypeNull
		}
		return TypeObject
	}
	return classifyKind(reflect.ValueOf(v))
}

func classifyKind(rv reflect.Value) ValueType {
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return TypeNull
		}
		return classifyKind(rv.Elem())
	case reflect.String:
		return TypeString
	case reflect.Bool:
		return TypeBoolean
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return TypeNumber
	case reflect.Float32, reflect.Float64:
		return TypeNumber
	case reflect.Slice:
		if rv.IsNil() {
			return TypeNull
		}
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			return TypeString
		}
		return TypeArray
	case reflect.Array:
		return TypeArray
	case reflect.Map:
		if rv.IsNil() {
			return TypeNull
		}
		if rv.Type().Key().Kind() == reflect.String {
			return TypeObject
		}
	}
	return TypeUnknown
}

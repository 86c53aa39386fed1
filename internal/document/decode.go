// Package document loads JSON and YAML documents into the ordered in-memory
// form consumed by the tree builder and the mapping resolver.
//
// Objects decode to *orderedmap.OrderedMap[string, any] so that member order
// survives, arrays to []any, numbers to json.Number (JSON) or int/float64
// (YAML), and null to nil.
package document

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	orderedmap "github.com/wk8/go-ordered-map/v2"
	"gopkg.in/yaml.v3"
)

// Object is an ordered JSON object.
type Object = orderedmap.OrderedMap[string, any]

// NewObject returns an empty ordered object.
func NewObject() *Object { return orderedmap.New[string, any]() }

// DecodeJSON reads a single JSON value from r. An empty stream decodes to a
// nil document.
func DecodeJSON(r io.Reader) (any, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	tok, err := dec.Token()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("decode json: %w", err)
	}
	v, err := decodeValue(dec, tok)
	if err != nil {
		return nil, fmt.Errorf("decode json: %w", err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode json: unexpected data after top-level value")
	}
	return v, nil
}

// nextToken is dec.Token inside a value, where running out of input is
// always a truncated document.
func nextToken(dec *json.Decoder) (json.Token, error) {
	tok, err := dec.Token()
	if errors.Is(err, io.EOF) {
		return nil, io.ErrUnexpectedEOF
	}
	return tok, err
}

func decodeValue(dec *json.Decoder, tok json.Token) (any, error) {
	delim, ok := tok.(json.Delim)
	if !ok {
		return tok, nil
	}

	switch delim {
	case '{':
		obj := NewObject()
		for dec.More() {
			keyTok, err := nextToken(dec)
			if err != nil {
				return nil, err
			}
			key, ok := keyTok.(string)
			if !ok {
				return nil, fmt.Errorf("object key is %T, not string", keyTok)
			}
			valTok, err := nextToken(dec)
			if err != nil {
				return nil, err
			}
			val, err := decodeValue(dec, valTok)
			if err != nil {
				return nil, err
			}
			obj.Set(key, val)
		}
		if _, err := nextToken(dec); err != nil {
			return nil, err
		}
		return obj, nil
	case '[':
		arr := []any{}
		for dec.More() {
			valTok, err := nextToken(dec)
			if err != nil {
				return nil, err
			}
			val, err := decodeValue(dec, valTok)
			if err != nil {
				return nil, err
			}
			arr = append(arr, val)
		}
		if _, err := nextToken(dec); err != nil {
			return nil, err
		}
		return arr, nil
	}
	return nil, fmt.Errorf("unexpected delimiter %q", delim)
}

// MaxAliasNodes bounds the number of nodes DecodeYAML materializes while
// expanding aliases. Nested anchors grow exponentially ("billion laughs").
const MaxAliasNodes = 100_000

// ErrExcessiveAliasing is returned when alias expansion exceeds MaxAliasNodes.
var ErrExcessiveAliasing = errors.New("document contains excessive aliasing")

// DecodeYAML reads the first YAML document from r. Mapping keys are taken
// verbatim as strings.
func DecodeYAML(r io.Reader) (any, error) {
	var root yaml.Node
	if err := yaml.NewDecoder(r).Decode(&root); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("decode yaml: %w", err)
	}
	w := &yamlWalker{}
	v, err := w.convert(&root)
	if err != nil {
		return nil, fmt.Errorf("decode yaml: %w", err)
	}
	return v, nil
}

// yamlWalker converts a yaml.Node tree, counting the nodes produced under
// alias expansion.
type yamlWalker struct {
	aliasDepth int
	expanded   int
}

func (w *yamlWalker) convert(n *yaml.Node) (any, error) {
	if w.aliasDepth > 0 {
		w.expanded++
		if w.expanded > MaxAliasNodes {
			return nil, fmt.Errorf("line %d: %w", n.Line, ErrExcessiveAliasing)
		}
	}

	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return nil, nil
		}
		return w.convert(n.Content[0])
	case yaml.AliasNode:
		if n.Alias == nil {
			return nil, fmt.Errorf("line %d: unknown alias %q", n.Line, n.Value)
		}
		w.aliasDepth++
		defer func() { w.aliasDepth-- }()
		return w.convert(n.Alias)
	case yaml.MappingNode:
		obj := NewObject()
		for i := 0; i+1 < len(n.Content); i += 2 {
			val, err := w.convert(n.Content[i+1])
			if err != nil {
				return nil, err
			}
			obj.Set(n.Content[i].Value, val)
		}
		return obj, nil
	case yaml.SequenceNode:
		arr := make([]any, 0, len(n.Content))
		for _, c := range n.Content {
			val, err := w.convert(c)
			if err != nil {
				return nil, err
			}
			arr = append(arr, val)
		}
		return arr, nil
	case yaml.ScalarNode:
		var v any
		if err := n.Decode(&v); err != nil {
			return nil, fmt.Errorf("line %d: %w", n.Line, err)
		}
		switch s := v.(type) {
		case time.Time:
			return s.Format(time.RFC3339Nano), nil
		case float64:
			// NaN and infinities have no JSON form.
			if math.IsNaN(s) || math.IsInf(s, 0) {
				return n.Value, nil
			}
		}
		return v, nil
	}
	return nil, fmt.Errorf("line %d: unsupported yaml node kind %d", n.Line, n.Kind)
}

// Load decodes the file at path, choosing YAML for .yaml/.yml and JSON
// otherwise.
func Load(path string) (any, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open document: %w", err)
	}
	defer func() { _ = f.Close() }()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return DecodeYAML(f)
	default:
		return DecodeJSON(f)
	}
}

// Plain converts ordered objects to map[string]any, recursively. Evaluation
// engines that only understand plain Go maps take this form.
func Plain(doc any) any {
	switch v := doc.(type) {
	case *Object:
		if v == nil {
			return nil
		}
		m := make(map[string]any, v.Len())
		for pair := v.Oldest(); pair != nil; pair = pair.Next() {
			m[pair.Key] = Plain(pair.Value)
		}
		return m
	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = Plain(item)
		}
		return out
	}
	return doc
}

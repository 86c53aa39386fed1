package jsonpath

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate(t *testing.T) {
	tests := []struct {
		name string
		path Path
		want string
	}{
		{"nil", nil, "$"},
		{"empty", Path{}, "$"},
		{"single key", Path{Key("a")}, "$.a"},
		{"single index", Path{Index(3)}, "$[3]"},
		{"mixed", Path{Key("a"), Index(0), Key("b")}, "$.a[0].b"},
		{"nested indexes", Path{Index(1), Index(2)}, "$[1][2]"},
		{
			"order record",
			Path{Key("querySfOrder"), Key("OrderItems"), Key("records"), Index(0), Key("Id")},
			"$.querySfOrder.OrderItems.records[0].Id",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Generate(tt.path))
		})
	}
}

func TestPathResolvable(t *testing.T) {
	tests := []struct {
		name string
		path Path
		want bool
	}{
		{"root", nil, true},
		{"identifiers and indexes", Path{Key("order_1"), Index(0), Key("Id")}, true},
		{"unicode letters", Path{Key("größe")}, true},
		{"dotted key", Path{Key("a.b")}, false},
		{"spaced key", Path{Key("first name")}, false},
		{"dollar key", Path{Key("$ref")}, false},
		{"bracket key", Path{Index(0), Key("x[0]")}, false},
		{"leading digit", Path{Key("1st")}, false},
		{"empty key", Path{Key("")}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.path.Resolvable())
		})
	}
}

func TestDescribe(t *testing.T) {
	assert.Equal(t, "Root", Describe(nil))
	assert.Equal(t, "Root", Describe(Path{}))
	assert.Equal(t, "a → 0 → b", Describe(Path{Key("a"), Index(0), Key("b")}))
}

func TestAppendDoesNotAlias(t *testing.T) {
	parent := make(Path, 1, 4)
	parent[0] = Key("root")

	a := parent.Append(Key("a"))
	b := parent.Append(Key("b"))

	assert.Equal(t, "$.root.a", Generate(a))
	assert.Equal(t, "$.root.b", Generate(b))
	assert.Len(t, parent, 1)
}

func TestSegmentAccessors(t *testing.T) {
	k := Key("name")
	assert.False(t, k.IsIndex())
	assert.Equal(t, "name", k.Key())
	assert.Equal(t, -1, k.Index())

	i := Index(7)
	assert.True(t, i.IsIndex())
	assert.Equal(t, 7, i.Index())
	assert.Equal(t, "", i.Key())

	assert.Panics(t, func() { Index(-1) })
}

func TestPathMarshalJSON(t *testing.T) {
	out, err := json.Marshal(Path{Key("a"), Index(0), Key("b")})
	require.NoError(t, err)
	assert.JSONEq(t, `["a",0,"b"]`, string(out))
}

func TestParseRoundTrip(t *testing.T) {
	paths := []Path{
		{},
		{Key("a")},
		{Index(0)},
		{Key("a"), Index(0), Key("b")},
		{Key("users"), Index(12), Key("address"), Key("city")},
		{Index(1), Index(2), Key("x")},
	}
	for _, p := range paths {
		expr := Generate(p)
		t.Run(expr, func(t *testing.T) {
			got, err := Parse(expr)
			require.NoError(t, err)
			assert.True(t, p.Equal(got), "got %v", got)
		})
	}
}

func TestParseRejects(t *testing.T) {
	for _, expr := range []string{
		"$.a[*]",
		"$..a",
		"$.a[-1]",
		"$.a[0:2]",
		"$.a[",
	} {
		t.Run(expr, func(t *testing.T) {
			_, err := Parse(expr)
			require.Error(t, err)
			var pe *ParseError
			assert.ErrorAs(t, err, &pe)
			assert.Equal(t, expr, pe.Expr)
		})
	}
}

func TestMustParsePanics(t *testing.T) {
	assert.Panics(t, func() { MustParse("$.a[") })
	assert.Equal(t, "$.a", MustParse("$.a").String())
}

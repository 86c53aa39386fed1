package mapping

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/agentic-research/fieldmap/internal/document"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve(t *testing.T) {
	doc, err := document.DecodeJSON(strings.NewReader(`{
		"order": {"id": "A-1", "lines": [{"qty": 3}]}
	}`))
	require.NoError(t, err)

	r := newTestRegistry()
	require.NoError(t, r.AddMapping("orderId", "$.order.id"))
	require.NoError(t, r.AddMapping("channel", "web", AsFixedValue()))
	require.NoError(t, r.AddMapping("qty", "$.order.lines[0].qty"))

	values, err := r.Resolve(doc)
	require.NoError(t, err)
	assert.Equal(t, 3, values.Len())
	assert.Equal(t, "A-1", values.Value("orderId"))
	assert.Equal(t, "web", values.Value("channel"))
	assert.Equal(t, json.Number("3"), values.Value("qty"))

	var order []string
	for pair := values.Oldest(); pair != nil; pair = pair.Next() {
		order = append(order, pair.Key)
	}
	assert.Equal(t, []string{"orderId", "channel", "qty"}, order)
}

func TestResolve_PartialFailure(t *testing.T) {
	doc, err := document.DecodeJSON(strings.NewReader(`{"a": 1}`))
	require.NoError(t, err)

	r := newTestRegistry()
	require.NoError(t, r.AddMapping("ok", "$.a"))
	require.NoError(t, r.AddMapping("missing", "$.b"))
	require.NoError(t, r.AddMapping("broken", "$.a["))

	values, err := r.Resolve(doc)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnresolved)
	assert.Contains(t, err.Error(), `field "broken"`)
	assert.Equal(t, 1, values.Len())
	assert.Equal(t, json.Number("1"), values.Value("ok"))
}

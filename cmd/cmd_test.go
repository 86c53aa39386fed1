package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const orderDoc = `{
  "order": {
    "id": "A-1",
    "lines": [{"sku": "X", "qty": 2}],
    "tags": {}
  }
}`

func writeDoc(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	treeJSON, showMappings, strictResolve, verbose = false, false, false, false
	exprMappings, fixedMappings = nil, nil

	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestTreeCommand(t *testing.T) {
	path := writeDoc(t, "order.json", orderDoc)

	out, err := run(t, "tree", path)
	require.NoError(t, err)
	assert.Contains(t, out, "order  $.order\n")
	assert.Contains(t, out, `  id = "A-1" (string)  $.order.id`)
	assert.Contains(t, out, "  tags (empty)  $.order.tags")
}

func TestTreeCommand_JSON(t *testing.T) {
	path := writeDoc(t, "order.json", orderDoc)

	out, err := run(t, "tree", "--json", path)
	require.NoError(t, err)

	var nodes []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &nodes))
	require.Len(t, nodes, 1)
	assert.Equal(t, "$.order", nodes[0]["id"])
	assert.Equal(t, false, nodes[0]["isLeaf"])
}

func TestPathsCommand(t *testing.T) {
	path := writeDoc(t, "order.yaml", "order:\n  id: A-1\n  lines:\n    - qty: 2\n")

	out, err := run(t, "paths", path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.Equal(t, []string{
		"$.order.id\torder → id",
		"$.order.lines[0].qty\torder → lines → 0 → qty",
	}, lines)
}

func TestPathsCommand_MarksUnresolvable(t *testing.T) {
	path := writeDoc(t, "keys.json", `{"ok": 1, "a.b": 2, "first name": 3}`)

	out, err := run(t, "paths", path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.Equal(t, []string{
		"$.ok\tok",
		"$.a.b\ta.b\t(not resolvable)",
		"$.first name\tfirst name\t(not resolvable)",
	}, lines)
}

func TestResolveCommand(t *testing.T) {
	path := writeDoc(t, "order.json", orderDoc)

	out, err := run(t, "resolve", path,
		"--map", "orderId=$.order.id",
		"--map", "qty=$.order.lines[0].qty",
		"--fixed", "channel=web",
		"--fixed", "priority=3",
	)
	require.NoError(t, err)

	var values map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &values))
	assert.Equal(t, map[string]any{
		"orderId":  "A-1",
		"qty":      float64(2),
		"channel":  "web",
		"priority": float64(3),
	}, values)
}

func TestResolveCommand_ShowMappings(t *testing.T) {
	path := writeDoc(t, "order.json", orderDoc)

	out, err := run(t, "resolve", path, "--show-mappings", "--map", "orderId=$.order.id")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "{\n  \"orderId\": {\n    \"apiName\": \"orderId\""), out)
}

func TestResolveCommand_Strict(t *testing.T) {
	path := writeDoc(t, "order.json", orderDoc)

	_, err := run(t, "resolve", path, "--strict", "--map", "x=$.missing")
	assert.Error(t, err)

	_, err = run(t, "resolve", path, "--map", "x=$.missing")
	assert.NoError(t, err)
}

func TestResolveCommand_BadAssignment(t *testing.T) {
	path := writeDoc(t, "order.json", orderDoc)

	_, err := run(t, "resolve", path, "--map", "no-equals-sign")
	assert.Error(t, err)

	_, err = run(t, "resolve", path, "--map", "empty=")
	assert.Error(t, err)
}

func TestParseLiteral(t *testing.T) {
	assert.Equal(t, "web", parseLiteral("web"))
	assert.Equal(t, json.Number("3"), parseLiteral("3"))
	assert.Equal(t, true, parseLiteral("true"))
	assert.Equal(t, "quoted", parseLiteral(`"quoted"`))
	assert.Equal(t, "null", parseLiteral("null"))
	assert.Equal(t, "", parseLiteral(""))
}

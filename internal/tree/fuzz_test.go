package tree

import (
	"strings"
	"testing"

	"github.com/agentic-research/fieldmap/internal/document"
	"github.com/agentic-research/fieldmap/internal/jsonpath"
)

func FuzzBuild(f *testing.F) {
	f.Add(`{"a": 1, "b": [2, 3]}`)
	f.Add(`{"empty": {}, "list": [], "n": null}`)
	f.Add(`[[1, [2]], {"x": {"y": "z"}}]`)
	f.Add(`"scalar"`)

	f.Fuzz(func(t *testing.T, data string) {
		doc, err := document.DecodeJSON(strings.NewReader(data))
		if err != nil {
			return // invalid JSON is not interesting here
		}

		for n := range NewIndex(Build(doc)).Walk() {
			if n.ID != jsonpath.Generate(n.Path) {
				t.Fatalf("id %q does not match path %v", n.ID, n.Path)
			}
			if n.IsLeaf() == (n.Kind == KindBranch) {
				t.Fatalf("node %s: kind %s with %d children", n.ID, n.Kind, len(n.Children))
			}
		}
	})
}

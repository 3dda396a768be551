package canvasbox

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/deepnoodle-ai/canvasbox/object"
)

func TestDocs_All(t *testing.T) {
	j := Docs(DocsAll()).JSON()
	for _, key := range []string{`"canvasbox"`, `"globals"`, `"modules"`, `"types"`, `"syntax"`, `"errors"`} {
		require.Contains(t, j, key)
	}
	require.Contains(t, j, `"version": "`+Version+`"`)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal([]byte(j), &decoded))
}

func TestDocs_DefaultIsAll(t *testing.T) {
	require.Equal(t, Docs(DocsAll()).JSON(), Docs().JSON())
}

func TestDocs_Categories(t *testing.T) {
	tests := []struct {
		category string
		contains []string
	}{
		{"globals", []string{"functions", "parseInt"}},
		{"modules", []string{"Math", "JSON", "Canvas", "printCircle"}},
		{"types", []string{"string", "promise", `"error"`}},
		{"syntax", []string{"await fetch(url)"}},
		{"errors", []string{"E4001", "UnknownIdentifier"}},
	}
	for _, tt := range tests {
		t.Run(tt.category, func(t *testing.T) {
			j := Docs(DocsCategory(tt.category)).JSON()
			require.NotContains(t, j, "unknown category")
			for _, s := range tt.contains {
				require.Contains(t, j, s)
			}
		})
	}
}

func TestDocs_UnknownCategory(t *testing.T) {
	require.Contains(t, Docs(DocsCategory("nope")).JSON(), "unknown category: nope")
}

func TestDocs_Topics(t *testing.T) {
	data := Docs(DocsTopic("Math.sqrt")).Data().(map[string]any)
	require.Equal(t, "Math", data["module"])
	require.Equal(t, "sqrt", data["member"].(object.AttrSpec).Name)

	data = Docs(DocsTopic("canvas.blur")).Data().(map[string]any)
	require.Equal(t, "Canvas", data["module"])

	data = Docs(DocsTopic("parseInt")).Data().(map[string]any)
	require.Equal(t, "parseInt", data["global"].(object.AttrSpec).Name)

	m, ok := Docs(DocsTopic("JSON")).Data().(docsModule)
	require.True(t, ok)
	require.Len(t, m.Members, 2)

	typ, ok := Docs(DocsTopic("list")).Data().(docsType)
	require.True(t, ok)
	require.NotEmpty(t, typ.Attrs)

	require.Contains(t, Docs(DocsTopic("Math.nope")).JSON(), "unknown topic: Math.nope")
	require.Contains(t, Docs(DocsTopic("nope")).JSON(), "unknown topic: nope")
}

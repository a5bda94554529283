package gen

import (
	"fmt"
	"strings"
	"testing"

	"github.com/dave/jennifer/jen"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateFor(t *testing.T) {
	props := map[string]string{"name": "STRING", "age": "INTEGER", "tags": "LIST"}
	f := GenerateFor("Person", props, false)
	require.Len(t, f.Body, len(props)+2)
	assert.Equal(t, "Person", f.Name)
	assert.Equal(t, "Person", f.Kind)
	assert.False(t, f.Edge)

	code := fmt.Sprintf("%#v", f.Freeze())
	assert.Contains(t, code, "func (n *Nodes) Person(ctx context.Context, id any, props map[string]any) ([]Entity, error)")
	assert.Contains(t, code, "filters := make(map[string]any, len(props)+1)")
	assert.Contains(t, code, `LookupByKind("Person", filters)`)
	assert.Contains(t, code, `NewQueryError("Person", query, err)`)
	assert.Contains(t, code, `Normalize(row["n"])`)
	assert.Contains(t, code, "filters[IDProperty] = id")

	// Validations follow the lexicographic order of property names.
	age := strings.Index(code, `filters["age"]`)
	name := strings.Index(code, `filters["name"]`)
	tags := strings.Index(code, `filters["tags"]`)
	require.True(t, age > 0 && name > 0 && tags > 0)
	assert.Less(t, age, name)
	assert.Less(t, name, tags)
}

func TestGenerateForEdge(t *testing.T) {
	f := GenerateFor("WORKS_AT", map[string]string{"since": "DATE"}, true)
	require.Len(t, f.Body, 3)
	assert.Equal(t, "WorksAt", f.Name)
	assert.True(t, f.Edge)

	code := fmt.Sprintf("%#v", f.Freeze())
	assert.Contains(t, code, "func (e *Edges) WorksAt(ctx context.Context, id any, props map[string]any) ([]Triple, error)")
	assert.Contains(t, code, `LookupEdgesByKind("WORKS_AT", filters)`)
	assert.Contains(t, code, `NormalizeTriple(row, "source", "r", "target")`)
	assert.Contains(t, code, "e.runner.Run(ctx, query, params)")
}

func TestGenerateForNoProperties(t *testing.T) {
	f := GenerateFor("Tag", nil, false)
	assert.Len(t, f.Body, 2)
	assert.NotContains(t, fmt.Sprintf("%#v", f.Freeze()), "Coerce")
}

func TestGenerateForDeterministic(t *testing.T) {
	props := map[string]string{"a": "STRING", "b": "FLOAT", "c": "BOOLEAN", "d": "MAP"}
	first := fmt.Sprintf("%#v", GenerateFor("Thing", props, false).Freeze())
	for range 10 {
		assert.Equal(t, first, fmt.Sprintf("%#v", GenerateFor("Thing", props, false).Freeze()))
	}
}

func TestGeneratedFunctionFreeze(t *testing.T) {
	f := GenerateFor("Person", map[string]string{"name": "STRING"}, false)
	assert.False(t, f.Frozen())
	code := f.Freeze()
	assert.True(t, f.Frozen())
	assert.Same(t, code, f.Freeze())

	assert.Panics(t, func() {
		f.Append(jen.Return())
	})
}

func TestGeneratedFunctionDoc(t *testing.T) {
	f := GenerateFor("Person", nil, false)
	code := fmt.Sprintf("%#v", f.Freeze())
	assert.True(t, strings.HasPrefix(code, `// Person returns the nodes labelled "Person"`))
	assert.Contains(t, code, "// A non-nil id must equal the uuid property.")
}

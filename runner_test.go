package graphgen_test

import (
	"context"
	"testing"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/graphgen"
)

func TestRunnerFunc(t *testing.T) {
	var got map[string]any
	var r graphgen.Runner = graphgen.RunnerFunc(func(_ context.Context, query string, params map[string]any) ([]map[string]any, error) {
		got = params
		return []map[string]any{{"q": query}}, nil
	})
	rows, err := r.Run(context.Background(), "RETURN 1", map[string]any{"p0": 1})
	require.NoError(t, err)
	assert.Equal(t, []map[string]any{{"q": "RETURN 1"}}, rows)
	assert.Equal(t, map[string]any{"p0": 1}, got)
}

func TestRows(t *testing.T) {
	records := []*neo4j.Record{
		{Keys: []string{"n", "r"}, Values: []any{int64(1), "x"}},
		{Keys: []string{"n", "r"}, Values: []any{int64(2), nil}},
	}
	assert.Equal(t, []map[string]any{
		{"n": int64(1), "r": "x"},
		{"n": int64(2), "r": nil},
	}, graphgen.Rows(records))
	assert.Empty(t, graphgen.Rows(nil))
}

package backend

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockClientFixtures(t *testing.T) {
	client := NewMockClient(MockData{
		Departments: map[string]DepartmentMetrics{"Electronics": {SalesTotal: 10}, "Books": {}},
	})
	client.AddAnalysis("Electronics", "abc123", FileAnalysis{"summary": "ok"})

	names, err := client.Departments(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Books", "Electronics"}, names)

	metrics, err := client.Department(context.Background(), "Electronics")
	require.NoError(t, err)
	assert.Equal(t, "Electronics", metrics.Name)

	analysis, err := client.FileAnalysis(context.Background(), "Electronics", "abc123")
	require.NoError(t, err)
	analysis["summary"] = "mutated"
	again, _ := client.FileAnalysis(context.Background(), "Electronics", "abc123")
	assert.Equal(t, "ok", again["summary"])

	_, err = client.FileAnalysis(context.Background(), "Electronics", "missing")
	assert.Equal(t, "File not found", Message(err, ""))
}

func TestMockClientClearAll(t *testing.T) {
	client := NewMockClient(MockData{})
	client.AddAnalysis("Books", "f1", FileAnalysis{})
	require.NoError(t, client.ClearAll(context.Background()))
	names, _ := client.Departments(context.Background())
	assert.Empty(t, names)

	failing := NewMockClient(MockData{ClearErr: errors.New("locked")})
	failing.AddAnalysis("Books", "f1", FileAnalysis{})
	require.Error(t, failing.ClearAll(context.Background()))
	names, _ = failing.Departments(context.Background())
	assert.Equal(t, []string{"Books"}, names)
}

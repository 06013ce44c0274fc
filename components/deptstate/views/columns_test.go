package views

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/goliatone/go-deptboard/pkg/backend"
)

func TestVisibleColumnsFromRows(t *testing.T) {
	analysis := backend.FileAnalysis{
		"summary": "ok",
		"data": []any{
			map[string]any{"sku": "A1", "qty": 3.0, "price": 9.5},
			map[string]any{"sku": "B2", "qty": 1.0},
		},
	}
	assert.Equal(t, []string{"price", "qty", "sku"}, VisibleColumns(analysis))
}

func TestVisibleColumnsFallsBackToScalars(t *testing.T) {
	analysis := backend.FileAnalysis{
		"rows":    1200.0,
		"summary": "Q3",
		"nested":  map[string]any{"a": 1},
	}
	assert.Equal(t, []string{"rows", "summary"}, VisibleColumns(analysis))
}

func TestVisibleColumnsEmpty(t *testing.T) {
	assert.Empty(t, VisibleColumns(nil))
}

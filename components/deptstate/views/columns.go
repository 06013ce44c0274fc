package views

import (
	"sort"

	"github.com/goliatone/go-deptboard/pkg/backend"
)

// rowKeys lists the payload keys that may carry tabular rows, in lookup order.
var rowKeys = []string{"data", "rows", "records", "preview"}

// VisibleColumns derives the default column set from a fetched analysis.
// It runs once after the fetch settles and never mutates the payload.
// Tabular payloads yield the keys of their first row; otherwise the scalar
// top-level fields are used. Columns are sorted.
func VisibleColumns(analysis backend.FileAnalysis) []string {
	for _, key := range rowKeys {
		rows, ok := analysis[key].([]any)
		if !ok || len(rows) == 0 {
			continue
		}
		if first, ok := rows[0].(map[string]any); ok {
			return sortedKeys(first, func(any) bool { return true })
		}
	}
	return sortedKeys(analysis, isScalar)
}

func sortedKeys(m map[string]any, keep func(any) bool) []string {
	out := make([]string, 0, len(m))
	for k, v := range m {
		if keep(v) {
			out = append(out, k)
		}
	}
	sort.Strings(out)
	return out
}

func isScalar(v any) bool {
	switch v.(type) {
	case string, bool, float64, float32, int, int64, int32, nil:
		return true
	default:
		return false
	}
}

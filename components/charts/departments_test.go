package charts

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-deptboard/pkg/backend"
)

func TestSalesByDepartmentRendersAndCaches(t *testing.T) {
	cache := NewCache(0)
	renderer := NewRenderer(WithCache(cache))
	chart, err := renderer.SalesByDepartment([]backend.DepartmentMetrics{
		{Name: "Electronics", SalesTotal: 1200},
		{Name: "Books", SalesTotal: 300},
	})
	require.NoError(t, err)
	assert.Equal(t, "bar", chart.Kind)
	assert.Contains(t, chart.HTML, "echarts")
	assert.Contains(t, chart.HTML, "Electronics")
}

func TestDepartmentOverviewUsesCache(t *testing.T) {
	renderer := NewRenderer()
	m := backend.DepartmentMetrics{Name: "Books", SalesTotal: 10, InventoryCount: 3, ReviewCount: 2}
	first, err := renderer.DepartmentOverview(m)
	require.NoError(t, err)
	second, err := renderer.DepartmentOverview(m)
	require.NoError(t, err)
	assert.Equal(t, first.HTML, second.HTML)
	assert.Equal(t, 1, renderer.Cache().(*Cache).Len())
}

func TestReviewGauge(t *testing.T) {
	chart, err := NewRenderer(WithTheme("dark")).ReviewGauge(backend.DepartmentMetrics{Name: "Books", ReviewAverage: 4.5})
	require.NoError(t, err)
	assert.Equal(t, "gauge", chart.Kind)
	assert.Equal(t, "Books reviews", chart.Title)
}

func TestTrendRejectsMismatchedSeries(t *testing.T) {
	_, err := NewRenderer().Trend("Sales", []string{"Jan"}, []float64{1, 2})
	require.Error(t, err)

	chart, err := NewRenderer().Trend("Sales", []string{"Jan", "Feb"}, []float64{1, 2})
	require.NoError(t, err)
	assert.Equal(t, "line", chart.Kind)
}

package charts

import (
	"bytes"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"

	"github.com/goliatone/go-deptboard/pkg/backend"
)

const defaultChartHeight = "360px"

// Chart is a rendered chart fragment.
type Chart struct {
	Kind  string `json:"kind"`
	Title string `json:"title"`
	HTML  string `json:"html"`
}

// Renderer turns department metrics into go-echarts markup.
type Renderer struct {
	cache      RenderCache
	theme      string
	assetsHost string
}

// Option customizes a Renderer.
type Option func(*Renderer)

// WithCache injects a render cache.
func WithCache(cache RenderCache) Option {
	return func(r *Renderer) {
		r.cache = cache
	}
}

// WithTheme sets the chart theme (defaults to Westeros).
func WithTheme(theme string) Option {
	return func(r *Renderer) {
		if theme != "" {
			r.theme = theme
		}
	}
}

// WithAssetsHost rewrites the host ECharts JS loads from.
func WithAssetsHost(host string) Option {
	return func(r *Renderer) {
		r.assetsHost = host
	}
}

// NewRenderer builds a renderer with a five minute cache unless overridden.
func NewRenderer(options ...Option) *Renderer {
	r := &Renderer{
		cache: NewCache(5 * time.Minute),
		theme: types.ThemeWesteros,
	}
	for _, opt := range options {
		opt(r)
	}
	return r
}

// Cache exposes the render cache so callers can purge it.
func (r *Renderer) Cache() RenderCache {
	return r.cache
}

// SalesByDepartment renders one bar per department.
func (r *Renderer) SalesByDepartment(metrics []backend.DepartmentMetrics) (Chart, error) {
	sorted := append([]backend.DepartmentMetrics(nil), metrics...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Name < sorted[j].Name })

	title := "Sales by department"
	html, err := r.cached("sales", sorted, func() (string, error) {
		bar := charts.NewBar()
		bar.SetGlobalOptions(r.globalOptions(title, "")...)
		names := make([]string, len(sorted))
		data := make([]opts.BarData, len(sorted))
		for i, m := range sorted {
			names[i] = m.Name
			data[i] = opts.BarData{Name: m.Name, Value: m.SalesTotal}
		}
		bar.SetXAxis(names)
		bar.AddSeries("Sales", data)
		return render(bar)
	})
	if err != nil {
		return Chart{}, err
	}
	return Chart{Kind: "bar", Title: title, HTML: html}, nil
}

// DepartmentOverview renders the sales, inventory and review count of one department.
func (r *Renderer) DepartmentOverview(m backend.DepartmentMetrics) (Chart, error) {
	title := m.Name
	html, err := r.cached("overview", m, func() (string, error) {
		bar := charts.NewBar()
		bar.SetGlobalOptions(r.globalOptions(title, "Overview")...)
		bar.SetXAxis([]string{"Sales", "Inventory", "Reviews"})
		bar.AddSeries(m.Name, []opts.BarData{
			{Name: "Sales", Value: m.SalesTotal},
			{Name: "Inventory", Value: m.InventoryCount},
			{Name: "Reviews", Value: m.ReviewCount},
		})
		return render(bar)
	})
	if err != nil {
		return Chart{}, err
	}
	return Chart{Kind: "bar", Title: title, HTML: html}, nil
}

// ReviewGauge renders the average review score as a gauge.
func (r *Renderer) ReviewGauge(m backend.DepartmentMetrics) (Chart, error) {
	title := fmt.Sprintf("%s reviews", m.Name)
	html, err := r.cached("reviews", m, func() (string, error) {
		gauge := charts.NewGauge()
		gauge.SetGlobalOptions(r.globalOptions(title, "")...)
		gauge.AddSeries("Rating", []opts.GaugeData{{Name: "Average", Value: m.ReviewAverage}})
		return render(gauge)
	})
	if err != nil {
		return Chart{}, err
	}
	return Chart{Kind: "gauge", Title: title, HTML: html}, nil
}

// Trend renders a labeled numeric series as a smoothed line.
func (r *Renderer) Trend(title string, labels []string, values []float64) (Chart, error) {
	if len(labels) != len(values) {
		return Chart{}, fmt.Errorf("charts: %d labels for %d values", len(labels), len(values))
	}
	payload := map[string]any{"title": title, "labels": labels, "values": values}
	html, err := r.cached("trend", payload, func() (string, error) {
		line := charts.NewLine()
		line.SetGlobalOptions(r.globalOptions(title, "")...)
		line.SetXAxis(labels)
		data := make([]opts.LineData, len(values))
		for i, v := range values {
			data[i] = opts.LineData{Name: labels[i], Value: v}
		}
		line.AddSeries(title, data)
		line.SetSeriesOptions(charts.WithLineChartOpts(opts.LineChart{Smooth: opts.Bool(true)}))
		return render(line)
	})
	if err != nil {
		return Chart{}, err
	}
	return Chart{Kind: "line", Title: title, HTML: html}, nil
}

func (r *Renderer) cached(kind string, payload any, fn func() (string, error)) (string, error) {
	if r.cache == nil {
		return fn()
	}
	key := fmt.Sprintf("%s:%s:%s", kind, r.theme, payloadHash(payload))
	return r.cache.GetOrRender(key, fn)
}

func (r *Renderer) globalOptions(title, subtitle string) []charts.GlobalOpts {
	initOpts := opts.Initialization{
		Theme:  r.theme,
		Width:  "100%",
		Height: defaultChartHeight,
	}
	if r.assetsHost != "" {
		initOpts.AssetsHost = r.assetsHost
	}
	return []charts.GlobalOpts{
		charts.WithTitleOpts(opts.Title{Title: title, Subtitle: subtitle}),
		charts.WithInitializationOpts(initOpts),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	}
}

func render(renderable interface{ Render(io.Writer) error }) (string, error) {
	var buf bytes.Buffer
	if err := renderable.Render(&buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

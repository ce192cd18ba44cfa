package assistant

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"
)

const defaultChartHeight = "320px"

var sharedChartCache = NewChartCache(5 * time.Minute)

// EChartsRenderer renders insight datasets into server-side chart HTML.
type EChartsRenderer struct {
	cache      RenderCache
	theme      string
	assetsHost string
}

// EChartsRendererOption customizes renderer behavior.
type EChartsRendererOption func(*EChartsRenderer)

// WithRenderCache injects a render cache.
func WithRenderCache(cache RenderCache) EChartsRendererOption {
	return func(r *EChartsRenderer) {
		r.cache = cache
	}
}

// WithChartTheme sets the chart theme (defaults to Westeros).
func WithChartTheme(theme string) EChartsRendererOption {
	return func(r *EChartsRenderer) {
		r.theme = theme
	}
}

// WithChartAssetsHost rewrites the assets host so the ECharts runtime loads
// from a CDN or self-hosted bucket.
func WithChartAssetsHost(host string) EChartsRendererOption {
	return func(r *EChartsRenderer) {
		r.assetsHost = host
	}
}

// NewEChartsRenderer builds the default chart renderer.
func NewEChartsRenderer(options ...EChartsRendererOption) *EChartsRenderer {
	r := &EChartsRenderer{
		cache: sharedChartCache,
		theme: types.ThemeWesteros,
	}
	for _, opt := range options {
		opt(r)
	}
	return r
}

// Render converts one dataset into a chart handle for the given surface. The
// dataset's own type wins over the surface default so the advisor can evolve
// a chart style without a widget release.
func (r *EChartsRenderer) Render(ctx context.Context, surface SurfaceDefinition, dataset ChartDataset) (*ChartHandle, error) {
	chartType := strings.ToLower(dataset.Type)
	if chartType == "" {
		chartType = strings.ToLower(surface.ChartType)
	}
	title := dataset.Title
	if title == "" {
		title = surface.Title
	}

	renderFn := func() (string, error) {
		return r.render(chartType, title, dataset)
	}

	var (
		html string
		err  error
	)
	if r.cache != nil {
		key := fmt.Sprintf("%s:%s:%s", surface.ID, chartType, datasetHash(dataset))
		html, err = r.cache.GetOrRender(key, renderFn)
	} else {
		html, err = renderFn()
	}
	if err != nil {
		return nil, err
	}

	return &ChartHandle{
		SurfaceID: surface.ID,
		Dataset:   surface.Dataset,
		ChartType: chartType,
		HTML:      html,
	}, nil
}

func (r *EChartsRenderer) render(chartType, title string, dataset ChartDataset) (string, error) {
	labels, values := orderedPoints(dataset.Data)
	switch chartType {
	case "line":
		return r.renderLineChart(title, labels, values)
	case "bar":
		return r.renderBarChart(title, labels, values)
	case "pie":
		return r.renderPieChart(title, labels, values)
	case "gauge":
		return r.renderGaugeChart(title, dataset.Value)
	default:
		return "", fmt.Errorf("assistant: unsupported chart type: %s", chartType)
	}
}

func (r *EChartsRenderer) renderLineChart(title string, labels []string, values []float64) (string, error) {
	line := charts.NewLine()
	line.SetGlobalOptions(r.globalChartOptions(title)...)
	line.SetXAxis(labels)
	line.AddSeries(title, toLineData(values))
	line.SetSeriesOptions(charts.WithLineChartOpts(opts.LineChart{Smooth: opts.Bool(true)}))
	return renderChart(line)
}

func (r *EChartsRenderer) renderBarChart(title string, labels []string, values []float64) (string, error) {
	bar := charts.NewBar()
	bar.SetGlobalOptions(r.globalChartOptions(title)...)
	bar.SetXAxis(labels)
	bar.AddSeries(title, toBarData(labels, values))
	return renderChart(bar)
}

func (r *EChartsRenderer) renderPieChart(title string, labels []string, values []float64) (string, error) {
	pie := charts.NewPie()
	pie.SetGlobalOptions(r.globalChartOptions(title)...)
	pie.AddSeries(title, toPieData(labels, values))
	return renderChart(pie)
}

func (r *EChartsRenderer) renderGaugeChart(title string, value float64) (string, error) {
	gauge := charts.NewGauge()
	gauge.SetGlobalOptions(r.globalChartOptions(title)...)
	gauge.AddSeries(title, []opts.GaugeData{
		{Name: title, Value: value},
	})
	return renderChart(gauge)
}

func renderChart(renderable interface{ Render(io.Writer) error }) (string, error) {
	var buf bytes.Buffer
	if err := renderable.Render(&buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func (r *EChartsRenderer) globalChartOptions(title string) []charts.GlobalOpts {
	initOpts := opts.Initialization{
		Theme:  r.theme,
		Width:  "100%",
		Height: defaultChartHeight,
	}
	if r.assetsHost != "" {
		initOpts.AssetsHost = r.assetsHost
	}
	return []charts.GlobalOpts{
		charts.WithTitleOpts(opts.Title{Title: title}),
		charts.WithInitializationOpts(initOpts),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(false)}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	}
}

// orderedPoints flattens a dataset map into parallel slices with a stable
// label order. Month keys (YYYY-MM) sort chronologically this way.
func orderedPoints(data map[string]float64) ([]string, []float64) {
	labels := make([]string, 0, len(data))
	for label := range data {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	values := make([]float64, len(labels))
	for i, label := range labels {
		values[i] = data[label]
	}
	return labels, values
}

func toLineData(values []float64) []opts.LineData {
	data := make([]opts.LineData, len(values))
	for i, value := range values {
		data[i] = opts.LineData{Value: value}
	}
	return data
}

func toBarData(labels []string, values []float64) []opts.BarData {
	data := make([]opts.BarData, len(values))
	for i, value := range values {
		data[i] = opts.BarData{Name: labels[i], Value: value}
	}
	return data
}

func toPieData(labels []string, values []float64) []opts.PieData {
	data := make([]opts.PieData, len(values))
	for i, value := range values {
		name := labels[i]
		if name == "" {
			name = fmt.Sprintf("Slice %d", i+1)
		}
		data[i] = opts.PieData{Name: name, Value: value}
	}
	return data
}

package dashboard

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"
)

const defaultChartHeight = "360px"

// ChartRenderer turns chart state into embeddable go-echarts markup.
type ChartRenderer struct {
	cache      RenderCache
	theme      string
	assetsHost string
}

// ChartRendererOption customizes renderer behavior.
type ChartRendererOption func(*ChartRenderer)

// WithChartCache injects a render cache.
func WithChartCache(cache RenderCache) ChartRendererOption {
	return func(r *ChartRenderer) {
		r.cache = cache
	}
}

// WithChartTheme sets the echarts theme (defaults to Westeros).
func WithChartTheme(theme string) ChartRendererOption {
	return func(r *ChartRenderer) {
		if theme != "" {
			r.theme = theme
		}
	}
}

// WithChartAssetsHost rewrites the assets host so ECharts JS loads from a CDN.
func WithChartAssetsHost(host string) ChartRendererOption {
	return func(r *ChartRenderer) {
		r.assetsHost = ensureTrailingSlash(strings.TrimSpace(host))
	}
}

// NewChartRenderer builds a renderer with a five minute cache.
func NewChartRenderer(opts ...ChartRendererOption) *ChartRenderer {
	r := &ChartRenderer{
		cache:      NewChartCache(5 * time.Minute),
		theme:      types.ThemeWesteros,
		assetsHost: DefaultEChartsAssetsHost(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Render returns the chart HTML. Output is memoized per chart id and revision.
func (r *ChartRenderer) Render(state ChartState) (string, error) {
	renderFn := func() (string, error) {
		return r.render(state)
	}
	if r.cache == nil {
		return renderFn()
	}
	key := fmt.Sprintf("%s:%s:%d", state.Definition.ID, r.theme, state.Revision)
	return r.cache.GetOrRender(key, renderFn)
}

// Forget drops cached markup for a chart so stale revisions do not accumulate.
func (r *ChartRenderer) Forget(chartID string) {
	if inv, ok := r.cache.(interface{ Invalidate(string) int }); ok {
		inv.Invalidate(chartID + ":")
	}
}

func (r *ChartRenderer) render(state ChartState) (string, error) {
	switch strings.ToLower(state.Definition.Kind) {
	case ChartBar:
		return r.renderBarChart(state)
	case ChartLine:
		return r.renderLineChart(state)
	default:
		return "", fmt.Errorf("dashboard: unsupported chart type: %s", state.Definition.Kind)
	}
}

func (r *ChartRenderer) renderBarChart(state ChartState) (string, error) {
	bar := charts.NewBar()
	bar.SetGlobalOptions(r.globalChartOptions(state.Definition)...)
	bar.SetXAxis(state.Labels)
	for _, s := range state.Series {
		bar.AddSeries(s.Name, toBarData(s.Points), seriesColor(s)...)
	}
	return renderChart(bar)
}

func (r *ChartRenderer) renderLineChart(state ChartState) (string, error) {
	line := charts.NewLine()
	line.SetGlobalOptions(r.globalChartOptions(state.Definition)...)
	line.SetXAxis(state.Labels)
	for _, s := range state.Series {
		line.AddSeries(s.Name, toLineData(s.Points), seriesColor(s)...)
	}
	line.SetSeriesOptions(charts.WithLineChartOpts(opts.LineChart{Smooth: opts.Bool(true)}))
	return renderChart(line)
}

func renderChart(renderable interface{ Render(io.Writer) error }) (string, error) {
	var buf bytes.Buffer
	if err := renderable.Render(&buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func (r *ChartRenderer) globalChartOptions(def ChartDefinition) []charts.GlobalOpts {
	initOpts := opts.Initialization{
		Theme:   r.theme,
		Width:   "100%",
		Height:  defaultChartHeight,
		ChartID: def.ID,
	}
	if r.assetsHost != "" {
		initOpts.AssetsHost = r.assetsHost
	}
	return []charts.GlobalOpts{
		charts.WithTitleOpts(opts.Title{Title: def.Title}),
		charts.WithInitializationOpts(initOpts),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithToolboxOpts(opts.Toolbox{Show: opts.Bool(true)}),
		charts.WithYAxisOpts(opts.YAxis{Name: def.YAxisName}),
	}
}

func seriesColor(s ChartSeries) []charts.SeriesOpts {
	if s.Color == "" {
		return nil
	}
	return []charts.SeriesOpts{charts.WithItemStyleOpts(opts.ItemStyle{Color: s.Color})}
}

func toBarData(points []ChartPoint) []opts.BarData {
	data := make([]opts.BarData, len(points))
	for i, point := range points {
		data[i] = opts.BarData{
			Name:  point.Label,
			Value: point.Value,
		}
	}
	return data
}

func toLineData(points []ChartPoint) []opts.LineData {
	data := make([]opts.LineData, len(points))
	for i, point := range points {
		data[i] = opts.LineData{
			Name:  point.Label,
			Value: point.Value,
		}
	}
	return data
}

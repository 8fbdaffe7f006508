package dashboard

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChartWidgetUpdateBumpsRevision(t *testing.T) {
	chart := NewChartWidget(ChartDefinition{ID: ChartCurrency, Kind: ChartBar})
	assert.True(t, chart.State().Empty())

	labels := []string{"Divine"}
	series := []ChartSeries{{Name: "value", Points: []ChartPoint{{Value: 150}}}}
	chart.Update(labels, series)
	labels[0] = "mutated"
	series[0].Points[0].Value = 1

	state := chart.State()
	assert.Equal(t, uint64(1), state.Revision)
	assert.Equal(t, []string{"Divine"}, state.Labels)
	assert.Equal(t, 150.0, state.Series[0].Points[0].Value)

	chart.Update(nil, nil)
	assert.Equal(t, uint64(2), chart.State().Revision)
	assert.True(t, chart.State().Empty())
}

func TestCurrencySeriesTakesTopN(t *testing.T) {
	currencies := []CurrencyValue{{"A", 5}, {"B", 4}, {"C", 3}}
	labels, series := CurrencySeries("Current Value (chaos)", currencies, 2)
	assert.Equal(t, []string{"A", "B"}, labels)
	require.Len(t, series, 1)
	assert.Equal(t, []ChartPoint{{Label: "A", Value: 5}, {Label: "B", Value: 4}}, series[0].Points)
}

func TestChartPointsFrom(t *testing.T) {
	var decoded any
	require.NoError(t, json.Unmarshal([]byte(`[1.5, 2, null, "3.25", {"name": "x", "value": 4}]`), &decoded))

	points := ChartPointsFrom(decoded)
	assert.Equal(t, []ChartPoint{
		{Value: 1.5},
		{Value: 2},
		{},
		{Value: 3.25},
		{Label: "x", Value: 4},
	}, points)

	assert.Len(t, ChartPointsFrom([]float64{1, 2}), 2)
	assert.Nil(t, ChartPointsFrom("nope"))
}

func TestChartRendererRendersBarAndLine(t *testing.T) {
	renderer := NewChartRenderer(WithChartAssetsHost("https://cdn.test/assets/"), WithChartTheme("dark"))

	bar := NewChartWidget(defaultChartDefinitions[0])
	bar.Update(CurrencySeries("Current Value (chaos)", []CurrencyValue{{"Divine", 150}}, 5))
	html, err := renderer.Render(bar.State())
	require.NoError(t, err)
	assert.Contains(t, html, "https://cdn.test/assets/")
	assert.Contains(t, html, "Top Currency Values")
	assert.Contains(t, html, ChartCurrency)

	line := NewChartWidget(defaultChartDefinitions[1])
	line.Update([]string{"1/1/2024", "1/2/2024"}, []ChartSeries{{Name: "Divine", Color: "#ff6384", Points: []ChartPoint{{Value: 1}, {Value: 2}}}})
	html, err = renderer.Render(line.State())
	require.NoError(t, err)
	assert.Contains(t, html, "Currency Price Trends (7 Days)")
	assert.Contains(t, html, "#ff6384")
}

func TestChartRendererCachesPerRevision(t *testing.T) {
	cache := NewChartCache(time.Minute)
	renderer := NewChartRenderer(WithChartCache(cache))

	chart := NewChartWidget(defaultChartDefinitions[0])
	chart.Update([]string{"a"}, []ChartSeries{{Name: "s", Points: []ChartPoint{{Value: 1}}}})
	_, err := renderer.Render(chart.State())
	require.NoError(t, err)
	_, err = renderer.Render(chart.State())
	require.NoError(t, err)
	assert.Equal(t, 1, cache.Len())

	renderer.Forget(ChartCurrency)
	assert.Equal(t, 0, cache.Len())
}

func TestChartRendererRejectsUnknownKind(t *testing.T) {
	renderer := NewChartRenderer(WithChartCache(nil))
	_, err := renderer.Render(ChartState{Definition: ChartDefinition{ID: "x", Kind: "radar"}})
	require.Error(t, err)
}

func TestWithChartAssetsHostAddsTrailingSlash(t *testing.T) {
	assert.Equal(t, "https://cdn.test/echarts/", NewChartRenderer(WithChartAssetsHost(" https://cdn.test/echarts ")).assetsHost)
	assert.Equal(t, "https://cdn.test/echarts/", NewChartRenderer(WithChartAssetsHost("https://cdn.test/echarts/")).assetsHost)
}

func TestDefaultEChartsAssetsHostHonoursEnv(t *testing.T) {
	t.Setenv(envEChartsCDN, "https://assets.example.com/echarts")
	assert.Equal(t, "https://assets.example.com/echarts/", DefaultEChartsAssetsHost())

	t.Setenv(envEChartsCDN, "")
	assert.Equal(t, DefaultEChartsCDN, DefaultEChartsAssetsHost())
}

package dashboard

import (
	"encoding/json"
	"strconv"
	"sync"
)

// Chart kinds supported by the renderer.
const (
	ChartBar  = "bar"
	ChartLine = "line"
)

// ChartSeries represents a set of values plotted for a given legend entry.
type ChartSeries struct {
	Name   string       `json:"name"`
	Color  string       `json:"color,omitempty"`
	Points []ChartPoint `json:"points"`
}

// ChartPoint represents an individual value (optionally labeled).
type ChartPoint struct {
	Label string  `json:"label,omitempty"`
	Value float64 `json:"value"`
}

// ChartDefinition describes a chart slot on the page.
type ChartDefinition struct {
	ID          string `json:"id"`
	Kind        string `json:"kind"`
	Title       string `json:"title"`
	YAxisName   string `json:"y_axis_name,omitempty"`
	SeriesLabel string `json:"series_label,omitempty"`
}

// ChartState is a point-in-time copy of a chart widget.
type ChartState struct {
	Definition ChartDefinition `json:"definition"`
	Labels     []string        `json:"labels"`
	Series     []ChartSeries   `json:"series"`
	Revision   uint64          `json:"revision"`
}

// Empty reports whether the chart has nothing to plot.
func (s ChartState) Empty() bool {
	return len(s.Series) == 0
}

// ChartWidget holds the labels and series of one chart. Updates replace the
// data in place; the widget itself is never recreated.
type ChartWidget struct {
	mu       sync.RWMutex
	def      ChartDefinition
	labels   []string
	series   []ChartSeries
	revision uint64
}

// NewChartWidget creates an empty chart.
func NewChartWidget(def ChartDefinition) *ChartWidget {
	return &ChartWidget{def: def}
}

// Definition returns the chart definition.
func (c *ChartWidget) Definition() ChartDefinition {
	return c.def
}

// Update swaps labels and series and bumps the revision.
func (c *ChartWidget) Update(labels []string, series []ChartSeries) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.labels = append([]string(nil), labels...)
	c.series = cloneSeries(series)
	c.revision++
}

// State returns a copy of the chart contents.
func (c *ChartWidget) State() ChartState {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return ChartState{
		Definition: c.def,
		Labels:     append([]string(nil), c.labels...),
		Series:     cloneSeries(c.series),
		Revision:   c.revision,
	}
}

func cloneSeries(in []ChartSeries) []ChartSeries {
	if in == nil {
		return nil
	}
	out := make([]ChartSeries, len(in))
	for i, s := range in {
		out[i] = ChartSeries{
			Name:   s.Name,
			Color:  s.Color,
			Points: append([]ChartPoint(nil), s.Points...),
		}
	}
	return out
}

// CurrencySeries builds the currency chart input from the top n currencies,
// keeping backend order.
func CurrencySeries(label string, currencies []CurrencyValue, n int) ([]string, []ChartSeries) {
	if n > 0 && len(currencies) > n {
		currencies = currencies[:n]
	}
	labels := make([]string, len(currencies))
	points := make([]ChartPoint, len(currencies))
	for i, c := range currencies {
		labels[i] = c.Name
		points[i] = ChartPoint{Label: c.Name, Value: c.ChaosValue}
	}
	return labels, []ChartSeries{{Name: label, Points: points}}
}

// ChartPointsFrom converts loosely typed decoded JSON into chart points.
// Numbers, numeric strings and {"name","value"} objects are accepted.
func ChartPointsFrom(v any) []ChartPoint {
	switch value := v.(type) {
	case []float64:
		points := make([]ChartPoint, len(value))
		for i, val := range value {
			points[i] = ChartPoint{Value: val}
		}
		return points
	case []int:
		points := make([]ChartPoint, len(value))
		for i, val := range value {
			points[i] = ChartPoint{Value: float64(val)}
		}
		return points
	case []any:
		points := make([]ChartPoint, 0, len(value))
		for _, item := range value {
			switch val := item.(type) {
			case map[string]any:
				points = append(points, ChartPoint{
					Label: stringValue(val["name"], ""),
					Value: float64Value(val["value"]),
				})
			case nil:
				points = append(points, ChartPoint{})
			default:
				points = append(points, ChartPoint{Value: float64Value(val)})
			}
		}
		return points
	default:
		return nil
	}
}

func stringValue(v any, fallback string) string {
	if s, ok := v.(string); ok && s != "" {
		return s
	}
	return fallback
}

func float64Value(v any) float64 {
	switch val := v.(type) {
	case float64:
		return val
	case float32:
		return float64(val)
	case int:
		return float64(val)
	case int64:
		return float64(val)
	case json.Number:
		if f, err := val.Float64(); err == nil {
			return f
		}
	case string:
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			return f
		}
	}
	return 0
}

package marketapi

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"

	dashboard "github.com/goliatone/go-market-dashboard/components/dashboard"
)

// Leagues is the answer of the leagues endpoint.
type Leagues struct {
	Leagues []string `json:"leagues"`
	Primary string   `json:"primary"`
}

// naive timestamps carry no zone and are read as local time.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
}

// ParseTimestamp accepts RFC 3339 and zone-less ISO 8601 timestamps.
func ParseTimestamp(value string, loc *time.Location) (time.Time, error) {
	value = strings.TrimSpace(value)
	if loc == nil {
		loc = time.Local
	}
	for _, layout := range timestampLayouts {
		if ts, err := time.ParseInLocation(layout, value, loc); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("marketapi: unrecognized timestamp %q", value)
}

type opportunitiesResponse struct {
	Flipping   []flipOpportunity       `json:"flipping"`
	Farming    []farmOpportunity       `json:"farming"`
	Crafting   []craftOpportunity      `json:"crafting"`
	Investment []investmentOpportunity `json:"investment"`
	Timestamp  *string                 `json:"timestamp"`
}

type flipOpportunity struct {
	Type             string          `json:"type"`
	Currency         string          `json:"currency"`
	Path             json.RawMessage `json:"path"`
	ChaosValue       float64         `json:"chaos_value"`
	PotentialProfit  float64         `json:"potential_profit"`
	OpportunityScore float64         `json:"opportunity_score"`
	Strategy         string          `json:"strategy"`
}

type farmOpportunity struct {
	Type             string  `json:"type"`
	Item             string  `json:"item"`
	Mechanic         string  `json:"mechanic"`
	ChaosValue       float64 `json:"chaos_value"`
	OpportunityScore float64 `json:"opportunity_score"`
	Strategy         string  `json:"strategy"`
}

type craftOpportunity struct {
	Name             string  `json:"name"`
	Method           string  `json:"method"`
	EstimatedReturn  float64 `json:"estimated_return"`
	OpportunityScore float64 `json:"opportunity_score"`
	Strategy         string  `json:"strategy"`
}

type investmentOpportunity struct {
	Type             string  `json:"type"`
	Item             string  `json:"item"`
	ChaosValue       float64 `json:"chaos_value"`
	PriceChange      float64 `json:"price_change"`
	InvestmentRating float64 `json:"investment_rating"`
	Strategy         string  `json:"strategy"`
}

func (r opportunitiesResponse) toSnapshot() (dashboard.OpportunitySnapshot, error) {
	snapshot := dashboard.OpportunitySnapshot{
		Flipping:   make([]dashboard.FlipOpportunity, len(r.Flipping)),
		Farming:    make([]dashboard.FarmOpportunity, len(r.Farming)),
		Crafting:   make([]dashboard.CraftOpportunity, len(r.Crafting)),
		Investment: make([]dashboard.InvestmentOpportunity, len(r.Investment)),
	}
	for i, o := range r.Flipping {
		snapshot.Flipping[i] = dashboard.FlipOpportunity{
			Type:             o.Type,
			Currency:         o.Currency,
			Path:             decodePath(o.Path),
			ChaosValue:       o.ChaosValue,
			PotentialProfit:  o.PotentialProfit,
			OpportunityScore: o.OpportunityScore,
			Strategy:         o.Strategy,
		}
	}
	for i, o := range r.Farming {
		snapshot.Farming[i] = dashboard.FarmOpportunity(o)
	}
	for i, o := range r.Crafting {
		snapshot.Crafting[i] = dashboard.CraftOpportunity(o)
	}
	for i, o := range r.Investment {
		snapshot.Investment[i] = dashboard.InvestmentOpportunity(o)
	}
	if r.Timestamp != nil && *r.Timestamp != "" {
		ts, err := ParseTimestamp(*r.Timestamp, nil)
		if err != nil {
			return dashboard.OpportunitySnapshot{}, malformed(PathOpportunities, err)
		}
		snapshot.Timestamp = ts
	}
	return snapshot, nil
}

// decodePath keeps string paths as a single preformatted step.
func decodePath(raw json.RawMessage) []string {
	if len(raw) == 0 {
		return nil
	}
	var steps []string
	if err := json.Unmarshal(raw, &steps); err == nil {
		return steps
	}
	var text string
	if err := json.Unmarshal(raw, &text); err == nil && text != "" {
		return []string{text}
	}
	return nil
}

type statusResponse struct {
	Status         string   `json:"status"`
	LastUpdate     *string  `json:"last_update"`
	NextUpdate     *float64 `json:"next_update"`
	UpdateInterval float64  `json:"update_interval"`
}

func (r statusResponse) toStatus() (dashboard.StatusInfo, error) {
	info := dashboard.StatusInfo{
		Status:         r.Status,
		UpdateInterval: int(r.UpdateInterval),
	}
	if r.LastUpdate != nil && *r.LastUpdate != "" {
		ts, err := ParseTimestamp(*r.LastUpdate, nil)
		if err != nil {
			return dashboard.StatusInfo{}, malformed(PathStatus, err)
		}
		info.LastUpdate = &ts
	}
	if r.NextUpdate != nil {
		next := int(math.Max(0, *r.NextUpdate))
		info.NextUpdate = &next
	}
	return info, nil
}

type currencyResponse struct {
	Status     string          `json:"status"`
	Message    string          `json:"message"`
	Currencies []currencyValue `json:"currencies"`
}

type currencyValue struct {
	Name       string  `json:"name"`
	ChaosValue float64 `json:"chaos_value"`
}

func (r currencyResponse) toCurrencyData() dashboard.CurrencyData {
	currencies := make([]dashboard.CurrencyValue, len(r.Currencies))
	for i, c := range r.Currencies {
		currencies[i] = dashboard.CurrencyValue(c)
	}
	return dashboard.CurrencyData{
		Status:     r.Status,
		Message:    r.Message,
		Currencies: currencies,
	}
}

type historicalResponse struct {
	Status  string              `json:"status"`
	Message string              `json:"message"`
	Data    []historicalDataset `json:"data"`
}

type historicalDataset struct {
	Label           string `json:"label"`
	Data            any    `json:"data"`
	BorderColor     string `json:"borderColor"`
	BackgroundColor string `json:"backgroundColor"`
}

// toHistoricalData keeps Series nil when the payload carries no data field.
func (r historicalResponse) toHistoricalData() dashboard.HistoricalData {
	data := dashboard.HistoricalData{Status: r.Status, Message: r.Message}
	if r.Data == nil {
		return data
	}
	series := make([]dashboard.ChartSeries, 0, len(r.Data))
	for _, ds := range r.Data {
		color := ds.BorderColor
		if color == "" {
			color = ds.BackgroundColor
		}
		series = append(series, dashboard.ChartSeries{
			Name:   ds.Label,
			Color:  color,
			Points: dashboard.ChartPointsFrom(ds.Data),
		})
	}
	data.Series = series
	return data
}

type updateResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

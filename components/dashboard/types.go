package dashboard

import (
	"context"
	"time"
)

// MarketClient reads precomputed market data from the backend API.
// Implementations must be safe for concurrent use; the controller issues
// overlapping requests without coordination.
type MarketClient interface {
	FetchOpportunities(ctx context.Context) (OpportunitySnapshot, error)
	FetchStatus(ctx context.Context) (StatusInfo, error)
	FetchCurrencyData(ctx context.Context) (CurrencyData, error)
	FetchHistoricalData(ctx context.Context) (HistoricalData, error)
	TriggerUpdate(ctx context.Context) (UpdateResult, error)
}

// RefreshHook notifies transports (WebSocket/SSE) about view changes.
type RefreshHook interface {
	ViewUpdated(ctx context.Context, event ViewEvent) error
}

// OpportunitySnapshot is the full payload of one successful opportunities poll.
type OpportunitySnapshot struct {
	Flipping   []FlipOpportunity       `json:"flipping"`
	Farming    []FarmOpportunity       `json:"farming"`
	Crafting   []CraftOpportunity      `json:"crafting"`
	Investment []InvestmentOpportunity `json:"investment"`
	Timestamp  time.Time               `json:"timestamp"`
}

// Flip opportunity types reported by the backend.
const (
	FlipSingleStep = "single-step"
	FlipMultiStep  = "multi-step"
)

// FlipOpportunity is a currency flip, either a single currency or a multi-step path.
type FlipOpportunity struct {
	Type             string   `json:"type"`
	Currency         string   `json:"currency,omitempty"`
	Path             []string `json:"path,omitempty"`
	ChaosValue       float64  `json:"chaos_value"`
	PotentialProfit  float64  `json:"potential_profit"`
	OpportunityScore float64  `json:"opportunity_score"`
	Strategy         string   `json:"strategy"`
}

// FarmOpportunity is a farming suggestion for an item or league mechanic.
type FarmOpportunity struct {
	Type             string  `json:"type"`
	Item             string  `json:"item,omitempty"`
	Mechanic         string  `json:"mechanic,omitempty"`
	ChaosValue       float64 `json:"chaos_value"`
	OpportunityScore float64 `json:"opportunity_score"`
	Strategy         string  `json:"strategy"`
}

// CraftOpportunity is a crafting method with its estimated return.
type CraftOpportunity struct {
	Name             string  `json:"name,omitempty"`
	Method           string  `json:"method,omitempty"`
	EstimatedReturn  float64 `json:"estimated_return"`
	OpportunityScore float64 `json:"opportunity_score"`
	Strategy         string  `json:"strategy"`
}

// InvestmentOpportunity is an item expected to appreciate.
type InvestmentOpportunity struct {
	Type             string  `json:"type"`
	Item             string  `json:"item"`
	ChaosValue       float64 `json:"chaos_value"`
	PriceChange      float64 `json:"price_change"`
	InvestmentRating float64 `json:"investment_rating"`
	Strategy         string  `json:"strategy"`
}

// StatusInitializing is reported while the backend has not finished its first update.
const StatusInitializing = "initializing"

// StatusInfo describes the backend refresh cycle.
type StatusInfo struct {
	Status         string     `json:"status"`
	LastUpdate     *time.Time `json:"last_update,omitempty"`
	NextUpdate     *int       `json:"next_update,omitempty"`
	UpdateInterval int        `json:"update_interval,omitempty"`
}

// Initializing reports whether the backend is still bootstrapping.
func (s StatusInfo) Initializing() bool {
	return s.Status == StatusInitializing
}

// ResponseSuccess is the status value the backend uses for successful envelopes.
const ResponseSuccess = "success"

// CurrencyValue is a currency and its price in chaos orbs.
type CurrencyValue struct {
	Name       string  `json:"name"`
	ChaosValue float64 `json:"chaos_value"`
}

// CurrencyData is the payload backing the currency chart.
type CurrencyData struct {
	Status     string          `json:"status"`
	Message    string          `json:"message,omitempty"`
	Currencies []CurrencyValue `json:"currencies"`
}

// HistoricalData is the payload backing the trend chart.
type HistoricalData struct {
	Status  string        `json:"status"`
	Message string        `json:"message,omitempty"`
	Series  []ChartSeries `json:"series"`
}

// UpdateResult is the backend's answer to a manual update request.
type UpdateResult struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// Succeeded reports whether the backend accepted the update.
func (r UpdateResult) Succeeded() bool {
	return r.Status == ResponseSuccess
}

// ViewEvent describes a change transports might care about.
type ViewEvent struct {
	Reason    string    `json:"reason"`
	Widget    string    `json:"widget,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// View event reasons.
const (
	ReasonLoading       = "loading"
	ReasonOpportunities = "opportunities"
	ReasonCharts        = "charts"
	ReasonStatus        = "status"
	ReasonAlert         = "alert"
	ReasonManualUpdate  = "manual_update"
)

package dashboard

// DOM ids of the dashboard widgets.
const (
	GridFlipping   = "flipping-table"
	GridFarming    = "farming-table"
	GridCrafting   = "crafting-table"
	GridInvestment = "investment-table"

	ChartCurrency = "currency-chart"
	ChartTrend    = "trend-chart"
)

// GridIDs lists the grids in page order.
var GridIDs = []string{GridFlipping, GridFarming, GridCrafting, GridInvestment}

var defaultGridDefinitions = []GridDefinition{
	{
		ID:         GridFlipping,
		Title:      "Currency Flipping",
		Columns:    []string{"Type", "Currency / Path", "Value", "Potential Profit", "Score", "Strategy"},
		SortColumn: 4,
		SortDesc:   true,
	},
	{
		ID:         GridFarming,
		Title:      "Farming",
		Columns:    []string{"Type", "Target", "Value", "Score", "Strategy"},
		SortColumn: 3,
		SortDesc:   true,
	},
	{
		ID:         GridCrafting,
		Title:      "Crafting",
		Columns:    []string{"Method", "Estimated Return", "Score", "Strategy"},
		SortColumn: 2,
		SortDesc:   true,
	},
	{
		ID:         GridInvestment,
		Title:      "Investment",
		Columns:    []string{"Type", "Item", "Value", "Price Change", "Rating", "Strategy"},
		SortColumn: 4,
		SortDesc:   true,
	},
}

var defaultChartDefinitions = []ChartDefinition{
	{
		ID:          ChartCurrency,
		Kind:        ChartBar,
		Title:       "Top Currency Values",
		YAxisName:   "Value (chaos)",
		SeriesLabel: "Current Value (chaos)",
	},
	{
		ID:        ChartTrend,
		Kind:      ChartLine,
		Title:     "Currency Price Trends (7 Days)",
		YAxisName: "Value (chaos)",
	},
}

// DefaultGridDefinitions returns a copy of the built-in grid definitions.
func DefaultGridDefinitions() []GridDefinition {
	out := make([]GridDefinition, len(defaultGridDefinitions))
	for i, def := range defaultGridDefinitions {
		def.Columns = append([]string(nil), def.Columns...)
		out[i] = def
	}
	return out
}

// DefaultChartDefinitions returns a copy of the built-in chart definitions.
func DefaultChartDefinitions() []ChartDefinition {
	return append([]ChartDefinition(nil), defaultChartDefinitions...)
}

// rowBuilder formats opportunities into grid rows.
type rowBuilder struct {
	chaosIcon string
}

func (b rowBuilder) chaos(v float64) Cell {
	cell := FormatChaosValue(v)
	if b.chaosIcon != "" {
		cell.Icon = b.chaosIcon
	}
	return cell
}

func (b rowBuilder) flipping(o FlipOpportunity) Row {
	kind := "Multi-Step Path"
	target := ""
	switch {
	case o.Type == FlipSingleStep:
		kind = "Single Currency"
		target = o.Currency
	case o.Type == FlipMultiStep:
		target = FormatCurrencyPath(o.Path)
	}
	return Row{
		TextCell(kind),
		TextCell(target),
		b.chaos(o.ChaosValue),
		b.chaos(o.PotentialProfit),
		FormatScore(o.OpportunityScore),
		FormatStrategy(o.Strategy),
	}
}

func (b rowBuilder) farming(o FarmOpportunity) Row {
	target := firstNonEmpty(o.Item, o.Mechanic, "Unknown")
	return Row{
		TextCell(FormatFarmingType(o.Type)),
		TextCell(target),
		b.chaos(o.ChaosValue),
		FormatScore(o.OpportunityScore),
		FormatStrategy(o.Strategy),
	}
}

func (b rowBuilder) crafting(o CraftOpportunity) Row {
	return Row{
		TextCell(firstNonEmpty(o.Name, o.Method, "Unknown Crafting Method")),
		b.chaos(o.EstimatedReturn),
		FormatScore(o.OpportunityScore),
		FormatStrategy(o.Strategy),
	}
}

func (b rowBuilder) investment(o InvestmentOpportunity) Row {
	return Row{
		TextCell(firstNonEmpty(o.Type, "Unknown")),
		TextCell(firstNonEmpty(o.Item, "Unknown")),
		b.chaos(o.ChaosValue),
		FormatPriceChange(o.PriceChange),
		FormatScore(o.InvestmentRating),
		FormatStrategy(o.Strategy),
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

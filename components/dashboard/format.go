package dashboard

import (
	"fmt"
	"html"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/ettle/strcase"
	"github.com/shopspring/decimal"
)

// DefaultChaosIcon is the image shown next to chaos denominated values.
const DefaultChaosIcon = "/static/img/chaos.png"

const (
	highScoreThreshold   = 80
	mediumScoreThreshold = 60
)

// Tier buckets a score for display coloring.
type Tier string

const (
	TierHigh   Tier = "high"
	TierMedium Tier = "medium"
	TierLow    Tier = "low"
)

// Class returns the CSS class used for the tier.
func (t Tier) Class() string {
	return string(t) + "-opportunity"
}

// ClassifyScore maps a score onto high (>=80), medium (>=60) or low.
func ClassifyScore(score float64) Tier {
	switch {
	case score >= highScoreThreshold:
		return TierHigh
	case score >= mediumScoreThreshold:
		return TierMedium
	default:
		return TierLow
	}
}

// Cell is a formatted grid value. Sort carries the numeric key used for
// ordering when Numeric is set.
type Cell struct {
	Text    string  `json:"text"`
	Class   string  `json:"class,omitempty"`
	Icon    string  `json:"icon,omitempty"`
	Sort    float64 `json:"sort,omitempty"`
	Numeric bool    `json:"numeric,omitempty"`
}

// TextCell builds a plain text cell.
func TextCell(text string) Cell {
	return Cell{Text: text}
}

// HTML renders the cell as escaped markup.
func (c Cell) HTML() string {
	var b strings.Builder
	if c.Class != "" {
		fmt.Fprintf(&b, `<span class="%s">`, html.EscapeString(c.Class))
	}
	b.WriteString(html.EscapeString(c.Text))
	if c.Icon != "" {
		fmt.Fprintf(&b, `<img src="%s" alt="chaos" class="currency-icon">`, html.EscapeString(c.Icon))
	}
	if c.Class != "" {
		b.WriteString("</span>")
	}
	return b.String()
}

// FormatChaosValue renders a chaos amount with one decimal and the chaos icon.
func FormatChaosValue(value float64) Cell {
	return Cell{
		Text:    fixed(value, 1),
		Class:   "chaos-value",
		Icon:    DefaultChaosIcon,
		Sort:    value,
		Numeric: true,
	}
}

// FormatPriceChange renders a signed percentage. Zero counts as a positive change.
func FormatPriceChange(change float64) Cell {
	class := "positive-change"
	sign := "+"
	text := fixed(change, 2)
	if change < 0 {
		class = "negative-change"
		// rounding to zero drops the sign
		sign = ""
		if !strings.HasPrefix(text, "-") {
			sign = "-"
		}
	}
	return Cell{
		Text:    sign + text + "%",
		Class:   class,
		Sort:    change,
		Numeric: true,
	}
}

// FormatScore renders a rounded score tagged with its tier class.
func FormatScore(score float64) Cell {
	return Cell{
		Text:    strconv.FormatFloat(roundHalfUp(score), 'f', 0, 64),
		Class:   ClassifyScore(score).Class(),
		Sort:    score,
		Numeric: true,
	}
}

// FormatStrategy renders strategy text with a placeholder when absent.
func FormatStrategy(strategy string) Cell {
	if strings.TrimSpace(strategy) == "" {
		strategy = "No strategy available"
	}
	return Cell{Text: strategy, Class: "strategy-details"}
}

// FormatCurrencyPath joins path steps with arrows. Strings are returned as-is.
func FormatCurrencyPath(path any) string {
	switch val := path.(type) {
	case string:
		return val
	case []string:
		if val == nil {
			break
		}
		return strings.Join(val, " → ")
	case []any:
		steps := make([]string, 0, len(val))
		for _, step := range val {
			steps = append(steps, fmt.Sprint(step))
		}
		return strings.Join(steps, " → ")
	}
	return "Unknown Path"
}

// FormatFarmingType converts kebab or snake case identifiers to Title Case.
func FormatFarmingType(kind string) string {
	if strings.TrimSpace(kind) == "" {
		return "Unknown"
	}
	return strcase.ToCase(kind, strcase.TitleCase, ' ')
}

// FormatTimeRemaining renders a countdown in seconds or minutes and seconds.
func FormatTimeRemaining(seconds int) string {
	if seconds < 60 {
		return fmt.Sprintf("%d seconds", seconds)
	}
	return fmt.Sprintf("%dm %ds", seconds/60, seconds%60)
}

// FormatDateTime renders a timestamp the way a US-English browser locale does.
func FormatDateTime(t time.Time, loc *time.Location) string {
	return inLocation(t, loc).Format("1/2/2006, 3:04:05 PM")
}

// FormatDate renders the date part of a timestamp.
func FormatDate(t time.Time, loc *time.Location) string {
	return inLocation(t, loc).Format("1/2/2006")
}

// FormatDataAge renders how long ago the data was produced.
func FormatDataAge(t, now time.Time) string {
	if t.IsZero() {
		return ""
	}
	return humanize.RelTime(t, now, "ago", "from now")
}

func inLocation(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.Local
	}
	return t.In(loc)
}

func fixed(value float64, places int32) string {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		value = 0
	}
	return decimal.NewFromFloat(value).StringFixed(places)
}

func roundHalfUp(value float64) float64 {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return 0
	}
	return math.Floor(value + 0.5)
}

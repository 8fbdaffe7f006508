package dashboard

import (
	"slices"
	"strconv"
	"strings"
	"sync"
)

// DefaultPageLength is the number of rows in a grid page.
const DefaultPageLength = 10

// Row is one formatted grid line.
type Row []Cell

// GridLanguage holds the user facing strings of a grid.
type GridLanguage struct {
	Info         string `json:"info"`
	InfoEmpty    string `json:"info_empty"`
	InfoFiltered string `json:"info_filtered"`
	EmptyTable   string `json:"empty_table"`
}

// DefaultGridLanguage mirrors the strings shown by the dashboard tables.
func DefaultGridLanguage() GridLanguage {
	return GridLanguage{
		Info:         "Showing _START_ to _END_ of _TOTAL_ opportunities",
		InfoEmpty:    "Showing 0 to 0 of 0 opportunities",
		InfoFiltered: "(filtered from _MAX_ total opportunities)",
		EmptyTable:   "No opportunities available",
	}
}

// GridDefinition describes a table slot on the page.
type GridDefinition struct {
	ID         string       `json:"id"`
	Title      string       `json:"title"`
	Columns    []string     `json:"columns"`
	SortColumn int          `json:"sort_column"`
	SortDesc   bool         `json:"sort_desc"`
	PageLength int          `json:"page_length"`
	Language   GridLanguage `json:"language"`
}

// GridState is a point-in-time copy of the drawn rows.
type GridState struct {
	Definition GridDefinition `json:"definition"`
	Rows       []Row          `json:"rows"`
}

// GridPage is one filtered page of a grid.
type GridPage struct {
	ID       string `json:"id"`
	Page     int    `json:"page"`
	Pages    int    `json:"pages"`
	Total    int    `json:"total"`
	Filtered int    `json:"filtered"`
	Rows     []Row  `json:"rows"`
	Info     string `json:"info"`
	Empty    string `json:"empty,omitempty"`
}

// Grid buffers rows between Clear and Draw. Readers only ever see drawn rows.
type Grid struct {
	mu      sync.RWMutex
	def     GridDefinition
	pending []Row
	drawn   []Row
}

// NewGrid creates an empty grid, filling language and page length defaults.
func NewGrid(def GridDefinition) *Grid {
	if def.PageLength <= 0 {
		def.PageLength = DefaultPageLength
	}
	if def.Language == (GridLanguage{}) {
		def.Language = DefaultGridLanguage()
	}
	return &Grid{def: def}
}

// Definition returns the grid definition.
func (g *Grid) Definition() GridDefinition {
	return g.def
}

// Clear drops all pending rows.
func (g *Grid) Clear() {
	g.mu.Lock()
	g.pending = nil
	g.mu.Unlock()
}

// Add appends pending rows.
func (g *Grid) Add(rows ...Row) {
	g.mu.Lock()
	g.pending = append(g.pending, rows...)
	g.mu.Unlock()
}

// Draw sorts the pending rows by the default sort column and publishes them.
func (g *Grid) Draw() {
	g.mu.Lock()
	defer g.mu.Unlock()
	rows := slices.Clone(g.pending)
	col, desc := g.def.SortColumn, g.def.SortDesc
	slices.SortStableFunc(rows, func(a, b Row) int {
		c := compareCells(cellAt(a, col), cellAt(b, col))
		if desc {
			return -c
		}
		return c
	})
	g.drawn = rows
}

// Rows returns a copy of the drawn rows.
func (g *Grid) Rows() []Row {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return cloneRows(g.drawn)
}

// State returns a copy of the definition and drawn rows.
func (g *Grid) State() GridState {
	return GridState{Definition: g.def, Rows: g.Rows()}
}

// Page returns a 1-based page of drawn rows matching filter
// (case-insensitive substring on any cell).
func (g *Grid) Page(filter string, page int) GridPage {
	return g.State().Page(filter, page)
}

// Page pages the rows held by the state copy.
func (s GridState) Page(filter string, page int) GridPage {
	rows := slices.Clone(s.Rows)
	total := len(rows)
	filter = strings.ToLower(strings.TrimSpace(filter))
	if filter != "" {
		rows = slices.DeleteFunc(rows, func(r Row) bool {
			return !r.Matches(filter)
		})
	}
	size := s.Definition.PageLength
	if size <= 0 {
		size = DefaultPageLength
	}
	filtered := len(rows)
	pages := (filtered + size - 1) / size
	if page < 1 {
		page = 1
	}
	if pages > 0 && page > pages {
		page = pages
	}

	out := GridPage{
		ID:       s.Definition.ID,
		Page:     page,
		Pages:    pages,
		Total:    total,
		Filtered: filtered,
		Rows:     []Row{},
	}
	lang := s.Definition.Language
	if filtered == 0 {
		out.Info = lang.InfoEmpty
		out.Empty = lang.EmptyTable
	} else {
		start := (page - 1) * size
		end := min(start+size, filtered)
		out.Rows = rows[start:end]
		out.Info = replacePlaceholders(lang.Info, map[string]int{
			"_START_": start + 1,
			"_END_":   end,
			"_TOTAL_": filtered,
		})
	}
	if filter != "" {
		out.Info += " " + replacePlaceholders(lang.InfoFiltered, map[string]int{"_MAX_": total})
	}
	return out
}

func replacePlaceholders(text string, values map[string]int) string {
	for key, val := range values {
		text = strings.ReplaceAll(text, key, strconv.Itoa(val))
	}
	return text
}

// Matches reports whether any cell contains filter, ignoring case.
func (r Row) Matches(filter string) bool {
	filter = strings.ToLower(filter)
	for _, cell := range r {
		if strings.Contains(strings.ToLower(cell.Text), filter) {
			return true
		}
	}
	return false
}

func cellAt(r Row, i int) Cell {
	if i < 0 || i >= len(r) {
		return Cell{}
	}
	return r[i]
}

func compareCells(a, b Cell) int {
	if a.Numeric && b.Numeric {
		switch {
		case a.Sort < b.Sort:
			return -1
		case a.Sort > b.Sort:
			return 1
		}
		return 0
	}
	return strings.Compare(a.Text, b.Text)
}

func cloneRows(in []Row) []Row {
	out := make([]Row, len(in))
	for i, r := range in {
		out[i] = slices.Clone(r)
	}
	return out
}

// String renders the row as pipe separated text for logs and CLI output.
func (r Row) String() string {
	parts := make([]string, len(r))
	for i, c := range r {
		parts[i] = c.Text
	}
	return strings.Join(parts, " | ")
}

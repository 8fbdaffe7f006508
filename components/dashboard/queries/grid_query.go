package queries

import (
	"context"

	gocommand "github.com/goliatone/go-command"
	dashboard "github.com/goliatone/go-market-dashboard/components/dashboard"
)

// GridPageInput identifies a filtered page of one grid.
type GridPageInput struct {
	GridID string `json:"grid_id"`
	Filter string `json:"filter"`
	Page   int    `json:"page"`
}

type gridSource interface {
	GridPage(id, filter string, page int) (dashboard.GridPage, error)
}

// GridPageQuery pages through a grid's drawn rows.
type GridPageQuery struct {
	source gridSource
}

// NewGridPageQuery builds the query.
func NewGridPageQuery(source gridSource) *GridPageQuery {
	return &GridPageQuery{source: source}
}

var _ gocommand.Querier[GridPageInput, dashboard.GridPage] = (*GridPageQuery)(nil)

// Query returns the requested page.
func (q *GridPageQuery) Query(_ context.Context, input GridPageInput) (dashboard.GridPage, error) {
	return q.source.GridPage(input.GridID, input.Filter, input.Page)
}

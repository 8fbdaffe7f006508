package queries

import (
	"context"

	gocommand "github.com/goliatone/go-command"
	dashboard "github.com/goliatone/go-market-dashboard/components/dashboard"
)

// ViewInput requests the current page state.
type ViewInput struct{}

type viewSource interface {
	View() dashboard.View
}

// ViewQuery returns a consistent copy of the dashboard view.
type ViewQuery struct {
	source viewSource
}

// NewViewQuery builds the query.
func NewViewQuery(source viewSource) *ViewQuery {
	return &ViewQuery{source: source}
}

var _ gocommand.Querier[ViewInput, dashboard.View] = (*ViewQuery)(nil)

// Query snapshots the view.
func (q *ViewQuery) Query(ctx context.Context, _ ViewInput) (dashboard.View, error) {
	if err := ctx.Err(); err != nil {
		return dashboard.View{}, err
	}
	return q.source.View(), nil
}

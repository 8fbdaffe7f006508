package httpapi

import (
	"context"
	"errors"
	"net/http"

	gocommand "github.com/goliatone/go-command"
	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-market-dashboard/components/dashboard"
	"github.com/goliatone/go-market-dashboard/components/dashboard/commands"
	"github.com/goliatone/go-market-dashboard/components/dashboard/queries"
)

// Executor runs dashboard commands and queries for transports.
type Executor interface {
	ManualUpdate(ctx context.Context, input commands.ManualUpdateInput) error
	Refresh(ctx context.Context, input commands.RefreshInput) error
	DismissAlert(ctx context.Context, input commands.DismissAlertInput) error
	View(ctx context.Context) (dashboard.View, error)
	GridPage(ctx context.Context, input queries.GridPageInput) (dashboard.GridPage, error)
}

// CommandExecutor adapts go-command commanders and queriers to Executor.
type CommandExecutor struct {
	ManualUpdateCommander gocommand.Commander[commands.ManualUpdateInput]
	RefreshCommander      gocommand.Commander[commands.RefreshInput]
	DismissCommander      gocommand.Commander[commands.DismissAlertInput]
	ViewQuerier           gocommand.Querier[queries.ViewInput, dashboard.View]
	GridQuerier           gocommand.Querier[queries.GridPageInput, dashboard.GridPage]
}

var _ Executor = (*CommandExecutor)(nil)

var errNotConfigured = errors.New("httpapi: operation not configured")

// NewCommandExecutor wires every command and query against one controller.
func NewCommandExecutor(controller *dashboard.Controller, telemetry dashboard.Telemetry) *CommandExecutor {
	return &CommandExecutor{
		ManualUpdateCommander: commands.NewManualUpdateCommand(controller, telemetry),
		RefreshCommander:      commands.NewRefreshCommand(controller, telemetry),
		DismissCommander:      commands.NewDismissAlertCommand(controller, telemetry),
		ViewQuerier:           queries.NewViewQuery(controller),
		GridQuerier:           queries.NewGridPageQuery(controller),
	}
}

func (e *CommandExecutor) ManualUpdate(ctx context.Context, input commands.ManualUpdateInput) error {
	if e.ManualUpdateCommander == nil {
		return errNotConfigured
	}
	return e.ManualUpdateCommander.Execute(ctx, input)
}

func (e *CommandExecutor) Refresh(ctx context.Context, input commands.RefreshInput) error {
	if e.RefreshCommander == nil {
		return errNotConfigured
	}
	return e.RefreshCommander.Execute(ctx, input)
}

func (e *CommandExecutor) DismissAlert(ctx context.Context, input commands.DismissAlertInput) error {
	if e.DismissCommander == nil {
		return errNotConfigured
	}
	return e.DismissCommander.Execute(ctx, input)
}

func (e *CommandExecutor) View(ctx context.Context) (dashboard.View, error) {
	if e.ViewQuerier == nil {
		return dashboard.View{}, errNotConfigured
	}
	return e.ViewQuerier.Query(ctx, queries.ViewInput{})
}

func (e *CommandExecutor) GridPage(ctx context.Context, input queries.GridPageInput) (dashboard.GridPage, error) {
	if e.GridQuerier == nil {
		return dashboard.GridPage{}, errNotConfigured
	}
	return e.GridQuerier.Query(ctx, input)
}

// StatusCode maps dashboard and backend errors onto HTTP statuses.
func StatusCode(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, dashboard.ErrUpdateInProgress):
		return http.StatusConflict
	case errors.Is(err, dashboard.ErrUnknownGrid), errors.Is(err, commands.ErrAlertNotFound):
		return http.StatusNotFound
	case errors.Is(err, errNotConfigured):
		return http.StatusNotImplemented
	case errors.Is(err, dashboard.ErrUpdateRejected),
		goerrors.IsCategory(err, goerrors.CategoryExternal),
		goerrors.IsCategory(err, goerrors.CategoryBadInput):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

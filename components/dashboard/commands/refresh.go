package commands

import (
	"context"
	"errors"
	"fmt"

	gocommand "github.com/goliatone/go-command"
	dashboard "github.com/goliatone/go-market-dashboard/components/dashboard"
)

// Refresh targets.
const (
	TargetAll           = "all"
	TargetOpportunities = "opportunities"
	TargetStatus        = "status"
)

// RefreshInput selects which poll to run out of schedule.
type RefreshInput struct {
	Target string `json:"target"`
}

type poller interface {
	PollOpportunities(ctx context.Context) error
	PollStatus(ctx context.Context) (dashboard.StatusInfo, error)
}

// RefreshCommand runs the opportunities and/or status poll immediately.
type RefreshCommand struct {
	controller poller
	telemetry  Telemetry
}

// NewRefreshCommand creates the command.
func NewRefreshCommand(controller poller, telemetry Telemetry) *RefreshCommand {
	return &RefreshCommand{controller: controller, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[RefreshInput] = (*RefreshCommand)(nil)

// Execute polls the requested target. An empty target polls both.
func (c *RefreshCommand) Execute(ctx context.Context, msg RefreshInput) error {
	if c.controller == nil {
		return errors.New("refresh command requires controller")
	}
	target := msg.Target
	if target == "" {
		target = TargetAll
	}
	var errs []error
	switch target {
	case TargetAll:
		errs = append(errs, c.controller.PollOpportunities(ctx))
		_, err := c.controller.PollStatus(ctx)
		errs = append(errs, err)
	case TargetOpportunities:
		errs = append(errs, c.controller.PollOpportunities(ctx))
	case TargetStatus:
		_, err := c.controller.PollStatus(ctx)
		errs = append(errs, err)
	default:
		return fmt.Errorf("refresh command: unknown target %q", msg.Target)
	}
	err := errors.Join(errs...)
	c.telemetry.Record(ctx, "dashboard.command.refresh", map[string]any{
		"target": target,
		"ok":     err == nil,
	})
	return err
}

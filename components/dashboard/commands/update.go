package commands

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"
)

// ManualUpdateInput asks the backend to refresh its market data.
type ManualUpdateInput struct {
	RequestedBy string `json:"requested_by,omitempty"`
}

type manualUpdater interface {
	TriggerManualUpdate(ctx context.Context) error
}

// ManualUpdateCommand wraps Controller.TriggerManualUpdate.
type ManualUpdateCommand struct {
	controller manualUpdater
	telemetry  Telemetry
}

// NewManualUpdateCommand creates the command.
func NewManualUpdateCommand(controller manualUpdater, telemetry Telemetry) *ManualUpdateCommand {
	return &ManualUpdateCommand{controller: controller, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[ManualUpdateInput] = (*ManualUpdateCommand)(nil)

// Execute triggers the update. Busy and rejected outcomes come back as errors.
func (c *ManualUpdateCommand) Execute(ctx context.Context, msg ManualUpdateInput) error {
	if c.controller == nil {
		return errors.New("manual update command requires controller")
	}
	err := c.controller.TriggerManualUpdate(ctx)
	c.telemetry.Record(ctx, "dashboard.command.manual_update", map[string]any{
		"requested_by": msg.RequestedBy,
		"ok":           err == nil,
	})
	return err
}

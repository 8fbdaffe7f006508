package commands

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"
)

// ErrAlertNotFound is returned when the alert is no longer displayed.
var ErrAlertNotFound = errors.New("alert not found")

// DismissAlertInput identifies the banner to close.
type DismissAlertInput struct {
	AlertID string `json:"alert_id"`
}

type alertDismisser interface {
	DismissAlert(ctx context.Context, id string) bool
}

// DismissAlertCommand wraps Controller.DismissAlert.
type DismissAlertCommand struct {
	controller alertDismisser
	telemetry  Telemetry
}

// NewDismissAlertCommand creates the command.
func NewDismissAlertCommand(controller alertDismisser, telemetry Telemetry) *DismissAlertCommand {
	return &DismissAlertCommand{controller: controller, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[DismissAlertInput] = (*DismissAlertCommand)(nil)

// Execute closes the alert.
func (c *DismissAlertCommand) Execute(ctx context.Context, msg DismissAlertInput) error {
	if c.controller == nil {
		return errors.New("dismiss alert command requires controller")
	}
	if msg.AlertID == "" {
		return errors.New("dismiss alert command requires alert id")
	}
	if !c.controller.DismissAlert(ctx, msg.AlertID) {
		return ErrAlertNotFound
	}
	c.telemetry.Record(ctx, "dashboard.command.dismiss_alert", map[string]any{
		"alert_id": msg.AlertID,
	})
	return nil
}

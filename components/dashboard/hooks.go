package dashboard

import (
	"context"
	"errors"
)

// MultiHook forwards view events to every non-nil hook in order.
type MultiHook []RefreshHook

// ViewUpdated delivers the event to all hooks and joins their errors.
func (m MultiHook) ViewUpdated(ctx context.Context, event ViewEvent) error {
	var errs []error
	for _, hook := range m {
		if hook == nil {
			continue
		}
		if err := hook.ViewUpdated(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// TelemetryHook records every view event.
type TelemetryHook struct {
	Telemetry Telemetry
}

// ViewUpdated records the event reason and widget.
func (h TelemetryHook) ViewUpdated(ctx context.Context, event ViewEvent) error {
	if h.Telemetry == nil {
		return nil
	}
	h.Telemetry.Record(ctx, "dashboard.view.updated", map[string]any{
		"reason": event.Reason,
		"widget": event.Widget,
	})
	return nil
}

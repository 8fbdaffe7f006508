package dashboard

import (
	"testing"

	"github.com/goliatone/go-market-dashboard/pkg/marketapi"
)

func TestNewControllerWithMarketClient(t *testing.T) {
	client, err := NewMarketClient(marketapi.HTTPConfig{BaseURL: "http://localhost:5000"})
	if err != nil {
		t.Fatalf("NewMarketClient returned error: %v", err)
	}
	controller, err := NewController(ControllerOptions{Client: client})
	if err != nil {
		t.Fatalf("NewController returned error: %v", err)
	}
	defer controller.Stop()
	if view := controller.View(); len(view.Grids) != 4 {
		t.Fatalf("expected 4 grids, got %d", len(view.Grids))
	}
}

func TestNewControllerRequiresClient(t *testing.T) {
	if _, err := NewController(ControllerOptions{}); err == nil {
		t.Fatalf("expected error without client")
	}
}

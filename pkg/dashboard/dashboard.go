package dashboard

import (
	core "github.com/goliatone/go-market-dashboard/components/dashboard"
	"github.com/goliatone/go-market-dashboard/pkg/marketapi"
)

// Controller exposes the underlying components/dashboard.Controller type.
type Controller = core.Controller

// ControllerOptions re-export for convenience.
type ControllerOptions = core.ControllerOptions

// View re-export for convenience.
type View = core.View

// NewController proxies to the internal constructor.
func NewController(opts ControllerOptions) (*Controller, error) {
	return core.NewController(opts)
}

// NewMarketClient builds the HTTP backend client for baseURL.
func NewMarketClient(cfg marketapi.HTTPConfig) (*marketapi.HTTPClient, error) {
	return marketapi.NewHTTPClient(cfg)
}

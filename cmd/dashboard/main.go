package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/kong"
	"go.uber.org/zap"

	"github.com/goliatone/go-market-dashboard/pkg/config"
	"github.com/goliatone/go-market-dashboard/pkg/marketapi"
)

type cli struct {
	Config     string `short:"c" type:"path" help:"Path to the dashboard YAML configuration."`
	BackendURL string `name:"backend-url" help:"Override backend.base_url."`
	LogLevel   string `name:"log-level" help:"Override logging.level (debug, info, warn, error)."`

	Serve    serveCmd    `cmd:"" default:"1" help:"Serve the dashboard page, JSON API, and WebSocket feed."`
	Snapshot snapshotCmd `cmd:"" help:"Fetch opportunities once and print the four tables."`
	Status   statusCmd   `cmd:"" help:"Print the backend update status."`
	Update   updateCmd   `cmd:"" help:"Ask the backend to refresh its market data."`
	Leagues  leaguesCmd  `cmd:"" help:"List the leagues the backend tracks."`
}

// runtime carries what every subcommand needs.
type runtime struct {
	Context context.Context
	Config  *config.Config
	Logger  *zap.Logger
	Out     io.Writer
}

func main() {
	var args cli
	ctx := kong.Parse(&args,
		kong.Name("dashboard"),
		kong.Description("Market opportunity dashboard for the trading analysis backend."),
		kong.UsageOnError(),
	)
	rt, err := args.runtime(context.Background(), os.Stdout)
	ctx.FatalIfErrorf(err)
	defer func() { _ = rt.Logger.Sync() }()

	ctx.FatalIfErrorf(ctx.Run(rt))
}

func (c *cli) runtime(ctx context.Context, out io.Writer) (*runtime, error) {
	cfg, err := config.Load(c.Config)
	if err != nil {
		return nil, err
	}
	if c.BackendURL != "" {
		cfg.Backend.BaseURL = c.BackendURL
	}
	if c.LogLevel != "" {
		cfg.Logging.Level = c.LogLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	logger, err := cfg.Logging.NewLogger()
	if err != nil {
		return nil, err
	}
	return &runtime{Context: ctx, Config: cfg, Logger: logger, Out: out}, nil
}

func (rt *runtime) client() (*marketapi.HTTPClient, error) {
	client, err := marketapi.NewHTTPClient(marketapi.HTTPConfig{
		BaseURL: rt.Config.Backend.BaseURL,
		Timeout: rt.Config.Backend.Timeout,
		Logger:  rt.Logger,
	})
	if err != nil {
		return nil, fmt.Errorf("dashboard: backend client: %w", err)
	}
	return client, nil
}

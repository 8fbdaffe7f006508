package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	router "github.com/goliatone/go-router"
	"go.uber.org/zap"

	"github.com/goliatone/go-market-dashboard/components/dashboard"
	"github.com/goliatone/go-market-dashboard/components/dashboard/gorouter"
	"github.com/goliatone/go-market-dashboard/components/dashboard/httpapi"
)

type serveCmd struct {
	Address string `help:"Override server.address."`
}

func (cmd *serveCmd) Run(rt *runtime) error {
	cfg := rt.Config
	if cmd.Address != "" {
		cfg.Server.Address = cmd.Address
	}

	client, err := rt.client()
	if err != nil {
		return err
	}
	renderer, err := dashboard.NewTemplateRenderer()
	if err != nil {
		return fmt.Errorf("dashboard: templates: %w", err)
	}
	chartOpts := []dashboard.ChartRendererOption{
		dashboard.WithChartCache(dashboard.NewChartCache(cfg.Charts.CacheTTL)),
		dashboard.WithChartTheme(cfg.Charts.Theme),
	}
	if cfg.Charts.AssetsHost != "" {
		chartOpts = append(chartOpts, dashboard.WithChartAssetsHost(cfg.Charts.AssetsHost))
	}
	telemetry := dashboard.NewLoggerTelemetry(rt.Logger)
	hook := dashboard.NewBroadcastHook()

	controller, err := dashboard.NewController(dashboard.ControllerOptions{
		Client:        client,
		Telemetry:     telemetry,
		Logger:        rt.Logger,
		Hook:          dashboard.MultiHook{hook, dashboard.TelemetryHook{Telemetry: telemetry}},
		Renderer:      renderer,
		Charts:        dashboard.NewChartRenderer(chartOpts...),
		Intervals:     cfg.Polling.Intervals(),
		ChaosIcon:     cfg.Charts.ChaosIcon,
		TopCurrencies: cfg.Charts.TopCurrencies,
		TrendDays:     cfg.Charts.TrendDays,
	})
	if err != nil {
		return err
	}

	server := router.NewFiberAdapter()
	if err := gorouter.Register(gorouter.Config[*fiber.App]{
		Router:     server.Router(),
		Controller: controller,
		API:        httpapi.NewCommandExecutor(controller, telemetry),
		Broadcast:  hook,
		BasePath:   cfg.Server.BasePath,
	}); err != nil {
		return fmt.Errorf("dashboard: register routes: %w", err)
	}

	ctx, stop := signal.NotifyContext(rt.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := controller.Start(ctx); err != nil {
		return err
	}
	defer controller.Stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Serve(cfg.Server.Address)
	}()
	rt.Logger.Info("dashboard listening",
		zap.String("address", cfg.Server.Address),
		zap.String("backend", cfg.Backend.BaseURL),
	)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	rt.Logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("dashboard: shutdown: %w", err)
	}
	return nil
}

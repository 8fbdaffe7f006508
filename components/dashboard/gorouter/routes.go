package gorouter

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	router "github.com/goliatone/go-router"

	"github.com/goliatone/go-market-dashboard/components/dashboard"
	"github.com/goliatone/go-market-dashboard/components/dashboard/commands"
	"github.com/goliatone/go-market-dashboard/components/dashboard/httpapi"
)

// Config wires go-router with the dashboard controller, API, and hooks.
type Config[T any] struct {
	Router     router.Router[T]
	Controller *dashboard.Controller
	API        httpapi.Executor
	Broadcast  *dashboard.BroadcastHook
	BasePath   string
	Routes     RouteConfig
}

// RouteConfig customizes the relative paths used for dashboard endpoints.
type RouteConfig struct {
	HTML      string
	View      string
	Grid      string
	Update    string
	Refresh   string
	Dismiss   string
	WebSocket string
}

// Register mounts dashboard routes (HTML, JSON, commands, WebSocket) on a go-router router.
func Register[T any](cfg Config[T]) error {
	if cfg.Router == nil {
		return errors.New("gorouter: router is required")
	}
	if cfg.Controller == nil {
		return errors.New("gorouter: controller is required")
	}
	routes := defaultRouteConfig(cfg.Routes)
	base := strings.TrimSuffix(cfg.BasePath, "/")
	api := cfg.API
	if api == nil {
		api = httpapi.NewCommandExecutor(cfg.Controller, nil)
	}

	group := cfg.Router.Group(base)

	group.Get(routes.HTML, router.WrapHandler(func(ctx router.Context) error {
		var buf bytes.Buffer
		if err := cfg.Controller.RenderTemplate(ctx.Context(), &buf); err != nil {
			return respondError(ctx, http.StatusInternalServerError, err)
		}
		ctx.SetHeader("Content-Type", "text/html; charset=utf-8")
		return ctx.Send(buf.Bytes())
	}))

	group.Get(routes.View, router.WrapHandler(func(ctx router.Context) error {
		view, err := api.View(ctx.Context())
		if err != nil {
			return respondError(ctx, httpapi.StatusCode(err), err)
		}
		return ctx.JSON(http.StatusOK, view)
	}))

	group.Get(routes.Grid, router.WrapHandler(func(ctx router.Context) error {
		input, err := httpapi.GridPageInputFrom(ctx.Param("id"), ctx.Query("filter"), ctx.Query("page"))
		if err != nil {
			return respondError(ctx, http.StatusBadRequest, err)
		}
		page, err := api.GridPage(ctx.Context(), input)
		if err != nil {
			return respondError(ctx, httpapi.StatusCode(err), err)
		}
		return ctx.JSON(http.StatusOK, page)
	}))

	htmlPath := base + routes.HTML

	group.Post(routes.Update, router.WrapHandler(func(ctx router.Context) error {
		err := api.ManualUpdate(ctx.Context(), commands.ManualUpdateInput{RequestedBy: "http"})
		if wantsPage(ctx) {
			return redirect(ctx, htmlPath)
		}
		return ctx.JSON(httpapi.StatusCode(err), httpapi.UpdateResponseFor(err))
	}))

	group.Post(routes.Refresh, router.WrapHandler(func(ctx router.Context) error {
		var payload commands.RefreshInput
		if body := ctx.Body(); len(body) > 0 {
			if err := json.Unmarshal(body, &payload); err != nil {
				return respondError(ctx, http.StatusBadRequest, err)
			}
		}
		if err := api.Refresh(ctx.Context(), payload); err != nil {
			return respondError(ctx, httpapi.StatusCode(err), err)
		}
		return ctx.JSON(http.StatusAccepted, map[string]string{"status": "refreshed"})
	}))

	group.Post(routes.Dismiss, router.WrapHandler(func(ctx router.Context) error {
		err := api.DismissAlert(ctx.Context(), commands.DismissAlertInput{AlertID: ctx.Param("id")})
		if wantsPage(ctx) {
			return redirect(ctx, htmlPath)
		}
		if err != nil {
			return respondError(ctx, httpapi.StatusCode(err), err)
		}
		return ctx.JSON(http.StatusOK, map[string]string{"status": "dismissed"})
	}))

	if cfg.Broadcast != nil {
		registerWebSocket(group, cfg.Broadcast, routes.WebSocket)
	}

	return nil
}

func registerWebSocket[T any](r router.Router[T], hook *dashboard.BroadcastHook, path string) {
	cfg := router.DefaultWebSocketConfig()
	r.WebSocket(path, cfg, func(ws router.WebSocketContext) error {
		events, cancel := hook.Subscribe()
		defer cancel()
		for {
			select {
			case event, ok := <-events:
				if !ok {
					return nil
				}
				if err := ws.WriteJSON(event); err != nil {
					return err
				}
			case <-ws.Context().Done():
				return ws.Close()
			}
		}
	})
}

func wantsPage(ctx router.Context) bool {
	return httpapi.WantsPage(ctx.Header("Content-Type"), ctx.Header("Accept"))
}

func redirect(ctx router.Context, location string) error {
	ctx.SetHeader("Location", location)
	return ctx.JSON(http.StatusSeeOther, map[string]string{"location": location})
}

func respondError(ctx router.Context, status int, err error) error {
	return ctx.JSON(status, map[string]string{"error": err.Error()})
}

func defaultRouteConfig(routes RouteConfig) RouteConfig {
	if routes.HTML == "" {
		routes.HTML = "/dashboard"
	}
	if routes.View == "" {
		routes.View = "/dashboard/_view"
	}
	if routes.Grid == "" {
		routes.Grid = "/dashboard/grids/:id"
	}
	if routes.Update == "" {
		routes.Update = "/dashboard/update"
	}
	if routes.Refresh == "" {
		routes.Refresh = "/dashboard/refresh"
	}
	if routes.Dismiss == "" {
		routes.Dismiss = "/dashboard/alerts/:id/dismiss"
	}
	if routes.WebSocket == "" {
		routes.WebSocket = "/dashboard/ws"
	}
	return routes
}

package gorouter

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	router "github.com/goliatone/go-router"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-market-dashboard/components/dashboard"
	"github.com/goliatone/go-market-dashboard/components/dashboard/commands"
	"github.com/goliatone/go-market-dashboard/components/dashboard/queries"
)

func TestRegisterValidatesConfig(t *testing.T) {
	err := Register(Config[struct{}]{})
	require.Error(t, err)
}

func TestRegisterHTMLRoute(t *testing.T) {
	renderer := &stubRenderer{}
	app := newTestApp(t, renderer, &stubExecutor{}, "/admin")

	resp := doRequest(t, app, httptest.NewRequest(http.MethodGet, "/admin/dashboard", nil))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/html")
	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, "ok", string(body))
	assert.Equal(t, 1, renderer.calls)
}

func TestRegisterViewAndGridRoutes(t *testing.T) {
	api := &stubExecutor{view: dashboard.View{Loading: true}}
	app := newTestApp(t, &stubRenderer{}, api, "")

	resp := doRequest(t, app, httptest.NewRequest(http.MethodGet, "/dashboard/_view", nil))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var view dashboard.View
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&view))
	assert.True(t, view.Loading)

	resp = doRequest(t, app, httptest.NewRequest(http.MethodGet, "/dashboard/grids/crafting-table?filter=harvest&page=2", nil))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, queries.GridPageInput{GridID: "crafting-table", Filter: "harvest", Page: 2}, api.gridInput)

	api.gridErr = dashboard.ErrUnknownGrid
	resp = doRequest(t, app, httptest.NewRequest(http.MethodGet, "/dashboard/grids/nope", nil))
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestRegisterUpdateRoute(t *testing.T) {
	api := &stubExecutor{}
	app := newTestApp(t, &stubRenderer{}, api, "")

	req := httptest.NewRequest(http.MethodPost, "/dashboard/update", nil)
	req.Header.Set("Accept", "application/json")
	resp := doRequest(t, app, req)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 1, api.updates)

	api.updateErr = dashboard.ErrUpdateInProgress
	req = httptest.NewRequest(http.MethodPost, "/dashboard/update", nil)
	req.Header.Set("Accept", "application/json")
	resp = doRequest(t, app, req)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestRegisterFormPostsRedirectToPage(t *testing.T) {
	api := &stubExecutor{}
	app := newTestApp(t, &stubRenderer{}, api, "/admin")

	req := httptest.NewRequest(http.MethodPost, "/admin/dashboard/update", strings.NewReader(""))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	resp := doRequest(t, app, req)
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/admin/dashboard", resp.Header.Get("Location"))

	req = httptest.NewRequest(http.MethodPost, "/admin/dashboard/alerts/a1/dismiss", strings.NewReader(""))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	resp = doRequest(t, app, req)
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "a1", api.dismissed)
}

func TestRegisterRefreshRoute(t *testing.T) {
	api := &stubExecutor{}
	app := newTestApp(t, &stubRenderer{}, api, "")

	req := httptest.NewRequest(http.MethodPost, "/dashboard/refresh", strings.NewReader(`{"target":"status"}`))
	req.Header.Set("Content-Type", "application/json")
	resp := doRequest(t, app, req)
	assert.Equal(t, http.StatusAccepted, resp.StatusCode)
	assert.Equal(t, commands.TargetStatus, api.refresh.Target)

	req = httptest.NewRequest(http.MethodPost, "/dashboard/refresh", strings.NewReader(`{`))
	req.Header.Set("Content-Type", "application/json")
	resp = doRequest(t, app, req)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestDefaultRouteConfigKeepsOverrides(t *testing.T) {
	routes := defaultRouteConfig(RouteConfig{HTML: "/market"})
	assert.Equal(t, "/market", routes.HTML)
	assert.Equal(t, "/dashboard/ws", routes.WebSocket)
	assert.Equal(t, "/dashboard/alerts/:id/dismiss", routes.Dismiss)
}

// --- Test helpers ---

func newTestApp(t *testing.T, renderer dashboard.Renderer, api *stubExecutor, base string) *fiber.App {
	t.Helper()
	controller, err := dashboard.NewController(dashboard.ControllerOptions{
		Client:   stubClient{},
		Renderer: renderer,
	})
	require.NoError(t, err)
	t.Cleanup(controller.Stop)

	server := router.NewFiberAdapter()
	require.NoError(t, Register(Config[*fiber.App]{
		Router:     server.Router(),
		Controller: controller,
		API:        api,
		Broadcast:  dashboard.NewBroadcastHook(),
		BasePath:   base,
	}))
	return server.WrappedRouter()
}

func doRequest(t *testing.T, app *fiber.App, req *http.Request) *http.Response {
	t.Helper()
	resp, err := app.Test(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

type stubRenderer struct {
	calls int
}

func (s *stubRenderer) Render(name string, data any, out ...io.Writer) (string, error) {
	s.calls++
	if len(out) > 0 && out[0] != nil {
		out[0].Write([]byte("ok"))
	}
	return "ok", nil
}

type stubExecutor struct {
	updates   int
	updateErr error
	refresh   commands.RefreshInput
	dismissed string
	view      dashboard.View
	gridInput queries.GridPageInput
	gridErr   error
}

func (s *stubExecutor) ManualUpdate(context.Context, commands.ManualUpdateInput) error {
	s.updates++
	return s.updateErr
}

func (s *stubExecutor) Refresh(_ context.Context, input commands.RefreshInput) error {
	s.refresh = input
	return nil
}

func (s *stubExecutor) DismissAlert(_ context.Context, input commands.DismissAlertInput) error {
	s.dismissed = input.AlertID
	return nil
}

func (s *stubExecutor) View(context.Context) (dashboard.View, error) {
	return s.view, nil
}

func (s *stubExecutor) GridPage(_ context.Context, input queries.GridPageInput) (dashboard.GridPage, error) {
	s.gridInput = input
	if s.gridErr != nil {
		return dashboard.GridPage{}, s.gridErr
	}
	return dashboard.GridPage{ID: input.GridID, Page: input.Page}, nil
}

type stubClient struct{}

func (stubClient) FetchOpportunities(context.Context) (dashboard.OpportunitySnapshot, error) {
	return dashboard.OpportunitySnapshot{}, nil
}

func (stubClient) FetchStatus(context.Context) (dashboard.StatusInfo, error) {
	return dashboard.StatusInfo{Status: "ready"}, nil
}

func (stubClient) FetchCurrencyData(context.Context) (dashboard.CurrencyData, error) {
	return dashboard.CurrencyData{Status: dashboard.ResponseSuccess}, nil
}

func (stubClient) FetchHistoricalData(context.Context) (dashboard.HistoricalData, error) {
	return dashboard.HistoricalData{Status: dashboard.ResponseSuccess}, nil
}

func (stubClient) TriggerUpdate(context.Context) (dashboard.UpdateResult, error) {
	return dashboard.UpdateResult{Status: dashboard.ResponseSuccess}, nil
}

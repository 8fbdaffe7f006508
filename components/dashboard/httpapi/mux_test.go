package httpapi

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/goliatone/go-market-dashboard/components/dashboard"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pageRenderer struct{}

func (pageRenderer) Render(name string, data any, out ...io.Writer) (string, error) {
	if len(out) > 0 && out[0] != nil {
		_, _ = io.WriteString(out[0], "<html>"+name+"</html>")
	}
	return "", nil
}

type readyClient struct{}

func (readyClient) FetchOpportunities(context.Context) (dashboard.OpportunitySnapshot, error) {
	return dashboard.OpportunitySnapshot{}, nil
}

func (readyClient) FetchStatus(context.Context) (dashboard.StatusInfo, error) {
	return dashboard.StatusInfo{Status: "ready"}, nil
}

func (readyClient) FetchCurrencyData(context.Context) (dashboard.CurrencyData, error) {
	return dashboard.CurrencyData{Status: dashboard.ResponseSuccess}, nil
}

func (readyClient) FetchHistoricalData(context.Context) (dashboard.HistoricalData, error) {
	return dashboard.HistoricalData{Status: dashboard.ResponseSuccess}, nil
}

func (readyClient) TriggerUpdate(context.Context) (dashboard.UpdateResult, error) {
	return dashboard.UpdateResult{Status: dashboard.ResponseSuccess}, nil
}

func TestNewServeMux(t *testing.T) {
	controller, err := dashboard.NewController(dashboard.ControllerOptions{
		Client:   readyClient{},
		Renderer: pageRenderer{},
	})
	require.NoError(t, err)
	t.Cleanup(controller.Stop)

	server := httptest.NewServer(NewServeMux(MuxConfig{
		Controller: controller,
		Broadcast:  dashboard.NewBroadcastHook(),
		BasePath:   "/market/",
	}))
	t.Cleanup(server.Close)

	resp, err := http.Get(server.URL + "/market/dashboard")
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "<html>dashboard</html>", string(body))

	resp, err = http.Get(server.URL + "/market/dashboard/grids/" + dashboard.GridFarming)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Get(server.URL + "/market/dashboard/grids/unknown")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, err = http.Post(server.URL+"/market/dashboard/alerts/missing/dismiss", "application/json", nil)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestNewServeMuxRedirectsFormPosts(t *testing.T) {
	controller, err := dashboard.NewController(dashboard.ControllerOptions{
		Client:   readyClient{},
		Renderer: pageRenderer{},
	})
	require.NoError(t, err)
	t.Cleanup(controller.Stop)

	server := httptest.NewServer(NewServeMux(MuxConfig{Controller: controller, BasePath: "/"}))
	t.Cleanup(server.Close)
	client := server.Client()
	client.CheckRedirect = func(*http.Request, []*http.Request) error {
		return http.ErrUseLastResponse
	}

	resp, err := client.PostForm(server.URL+"/dashboard/update", url.Values{})
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/dashboard", resp.Header.Get("Location"))

	resp, err = client.PostForm(server.URL+"/dashboard/alerts/missing/dismiss", url.Values{})
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/dashboard", resp.Header.Get("Location"))

	resp, err = client.Post(server.URL+"/dashboard/update", "application/json", strings.NewReader(`{}`))
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.NotEqual(t, http.StatusSeeOther, resp.StatusCode)
	assert.Empty(t, resp.Header.Get("Location"))
	assert.Contains(t, string(body), `"status"`)
}

func TestWantsPage(t *testing.T) {
	assert.True(t, WantsPage("application/x-www-form-urlencoded", ""))
	assert.True(t, WantsPage("", "text/html,application/xhtml+xml"))
	assert.False(t, WantsPage("application/json", "application/json"))
	assert.False(t, WantsPage("", "text/html, application/json"))
	assert.False(t, WantsPage("", ""))
}

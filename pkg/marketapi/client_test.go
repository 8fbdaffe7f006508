package marketapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	errors "github.com/goliatone/go-errors"
	dashboard "github.com/goliatone/go-market-dashboard/components/dashboard"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, routes map[string]string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("unexpected method %s", r.Method)
		}
		body, ok := routes[r.URL.Path]
		if !ok {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return server
}

func newTestClient(t *testing.T, server *httptest.Server) *HTTPClient {
	t.Helper()
	client, err := NewHTTPClient(HTTPConfig{BaseURL: server.URL + "/"})
	require.NoError(t, err)
	return client
}

func TestNewHTTPClientRequiresBaseURL(t *testing.T) {
	_, err := NewHTTPClient(HTTPConfig{})
	require.Error(t, err)
}

func TestFetchOpportunities(t *testing.T) {
	server := newTestServer(t, map[string]string{
		PathOpportunities: `{
			"flipping": [
				{"type": "single-step", "currency": "Divine Orb", "chaos_value": 150.5, "potential_profit": 3, "opportunity_score": 81, "strategy": "Buy"},
				{"type": "multi-step", "path": "Chaos Orb -> Divine Orb -> Chaos Orb", "chaos_value": null, "opportunity_score": 40},
				{"type": "multi-step", "path": ["Chaos Orb", "Exalted Orb"]}
			],
			"farming": [{"type": "boss-rush", "mechanic": "Maven", "chaos_value": 300}],
			"crafting": [{"method": "Harvest", "estimated_return": 500, "opportunity_score": 66}],
			"investment": [{"type": "unique", "item": "Headhunter", "price_change": -2.5, "investment_rating": 90}],
			"timestamp": "2024-03-10T14:30:00.123456"
		}`,
	})
	client := newTestClient(t, server)

	snap, err := client.FetchOpportunities(context.Background())
	require.NoError(t, err)

	require.Len(t, snap.Flipping, 3)
	assert.Equal(t, "Divine Orb", snap.Flipping[0].Currency)
	assert.Equal(t, 150.5, snap.Flipping[0].ChaosValue)
	assert.Equal(t, []string{"Chaos Orb -> Divine Orb -> Chaos Orb"}, snap.Flipping[1].Path)
	assert.Zero(t, snap.Flipping[1].ChaosValue)
	assert.Equal(t, []string{"Chaos Orb", "Exalted Orb"}, snap.Flipping[2].Path)
	assert.Equal(t, "Maven", snap.Farming[0].Mechanic)
	assert.Equal(t, 500.0, snap.Crafting[0].EstimatedReturn)
	assert.Equal(t, -2.5, snap.Investment[0].PriceChange)

	want := time.Date(2024, 3, 10, 14, 30, 0, 123456000, time.Local)
	assert.True(t, want.Equal(snap.Timestamp), "got %s", snap.Timestamp)
}

func TestFetchOpportunitiesRejectsMalformedPayload(t *testing.T) {
	tests := map[string]string{
		"missing arrays": `{"flipping": []}`,
		"wrong type":     `{"flipping": {}, "farming": [], "crafting": [], "investment": []}`,
		"string number":  `{"flipping": [{"chaos_value": "lots"}], "farming": [], "crafting": [], "investment": []}`,
		"not json":       `<html>`,
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			server := newTestServer(t, map[string]string{PathOpportunities: body})
			client := newTestClient(t, server)

			_, err := client.FetchOpportunities(context.Background())
			require.Error(t, err)
			assert.True(t, errors.IsCategory(err, errors.CategoryBadInput))

			var typed *errors.Error
			require.True(t, errors.As(err, &typed))
			assert.Equal(t, CodeMalformedPayload, typed.TextCode)
		})
	}
}

func TestFetchRemoteStatusError(t *testing.T) {
	server := newTestServer(t, map[string]string{})
	client := newTestClient(t, server)

	_, err := client.FetchStatus(context.Background())
	require.Error(t, err)
	assert.True(t, errors.IsCategory(err, errors.CategoryExternal))

	var typed *errors.Error
	require.True(t, errors.As(err, &typed))
	assert.Equal(t, CodeRemoteStatus, typed.TextCode)
	assert.Equal(t, http.StatusNotFound, typed.Code)
}

func TestFetchTransportError(t *testing.T) {
	server := newTestServer(t, map[string]string{})
	client := newTestClient(t, server)
	server.Close()

	_, err := client.TriggerUpdate(context.Background())
	require.Error(t, err)

	var typed *errors.Error
	require.True(t, errors.As(err, &typed))
	assert.Equal(t, errors.CategoryExternal, typed.Category)
	assert.Equal(t, CodeRemoteUnavailable, typed.TextCode)
}

func TestFetchStatus(t *testing.T) {
	server := newTestServer(t, map[string]string{
		PathStatus: `{"status": "ready", "last_update": "2024-03-10T14:30:00", "next_update": 125.9, "update_interval": 3600}`,
	})
	client := newTestClient(t, server)

	info, err := client.FetchStatus(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "ready", info.Status)
	require.NotNil(t, info.LastUpdate)
	assert.Equal(t, 14, info.LastUpdate.Hour())
	require.NotNil(t, info.NextUpdate)
	assert.Equal(t, 125, *info.NextUpdate)
	assert.Equal(t, 3600, info.UpdateInterval)
}

func TestFetchStatusInitializing(t *testing.T) {
	server := newTestServer(t, map[string]string{
		PathStatus: `{"status": "initializing", "last_update": null, "next_update": 0, "update_interval": 3600}`,
	})
	client := newTestClient(t, server)

	info, err := client.FetchStatus(context.Background())
	require.NoError(t, err)
	assert.True(t, info.Initializing())
	assert.Nil(t, info.LastUpdate)
}

func TestFetchCurrencyAndHistoricalData(t *testing.T) {
	server := newTestServer(t, map[string]string{
		PathCurrencyData: `{"status": "success", "currencies": [{"name": "Divine Orb", "chaos_value": 150}, {"name": "Exalted Orb", "chaos_value": 12}]}`,
		PathHistoricalData: `{"status": "success", "data": [
			{"label": "Divine Orb", "data": [140, 145.5, null, 150], "borderColor": "rgba(255, 99, 132, 1)", "backgroundColor": "rgba(255, 99, 132, 0.2)", "tension": 0.4}
		]}`,
	})
	client := newTestClient(t, server)
	ctx := context.Background()

	currency, err := client.FetchCurrencyData(ctx)
	require.NoError(t, err)
	assert.Equal(t, dashboard.ResponseSuccess, currency.Status)
	assert.Equal(t, []dashboard.CurrencyValue{{Name: "Divine Orb", ChaosValue: 150}, {Name: "Exalted Orb", ChaosValue: 12}}, currency.Currencies)

	history, err := client.FetchHistoricalData(ctx)
	require.NoError(t, err)
	require.Len(t, history.Series, 1)
	series := history.Series[0]
	assert.Equal(t, "Divine Orb", series.Name)
	assert.Equal(t, "rgba(255, 99, 132, 1)", series.Color)
	assert.Equal(t, []dashboard.ChartPoint{{Value: 140}, {Value: 145.5}, {}, {Value: 150}}, series.Points)
}

func TestFetchHistoricalDataDistinguishesMissingAndEmpty(t *testing.T) {
	missing := newTestClient(t, newTestServer(t, map[string]string{
		PathHistoricalData: `{"status": "success"}`,
	}))
	history, err := missing.FetchHistoricalData(context.Background())
	require.NoError(t, err)
	assert.Nil(t, history.Series)

	empty := newTestClient(t, newTestServer(t, map[string]string{
		PathHistoricalData: `{"status": "success", "data": []}`,
	}))
	history, err = empty.FetchHistoricalData(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, history.Series)
	assert.Empty(t, history.Series)
}

func TestFetchCurrencyDataErrorEnvelope(t *testing.T) {
	server := newTestServer(t, map[string]string{
		PathCurrencyData: `{"status": "error", "message": "Market data file not found"}`,
	})
	client := newTestClient(t, server)

	currency, err := client.FetchCurrencyData(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "error", currency.Status)
	assert.Equal(t, "Market data file not found", currency.Message)
	assert.Empty(t, currency.Currencies)
}

func TestTriggerUpdateAndLeagues(t *testing.T) {
	server := newTestServer(t, map[string]string{
		PathUpdate:  `{"status": "success", "message": "Data updated successfully"}`,
		PathLeagues: `{"leagues": ["Settlers", "Standard"], "primary": "Settlers"}`,
	})
	client := newTestClient(t, server)
	ctx := context.Background()

	result, err := client.TriggerUpdate(ctx)
	require.NoError(t, err)
	assert.True(t, result.Succeeded())

	leagues, err := client.FetchLeagues(ctx)
	require.NoError(t, err)
	assert.Equal(t, Leagues{Leagues: []string{"Settlers", "Standard"}, Primary: "Settlers"}, leagues)
}

func TestParseTimestamp(t *testing.T) {
	ts, err := ParseTimestamp("2024-03-10T14:30:00Z", time.UTC)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 10, 14, 30, 0, 0, time.UTC), ts)

	ts, err = ParseTimestamp("2024-03-10T14:30:00", time.UTC)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 10, 14, 30, 0, 0, time.UTC), ts)

	_, err = ParseTimestamp("yesterday", time.UTC)
	require.Error(t, err)
}

package marketapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	dashboard "github.com/goliatone/go-market-dashboard/components/dashboard"
	errors "github.com/goliatone/go-errors"
	"go.uber.org/zap"
)

// Backend endpoints.
const (
	PathOpportunities  = "/api/opportunities"
	PathStatus         = "/api/status"
	PathCurrencyData   = "/api/currency_data"
	PathHistoricalData = "/api/historical_data"
	PathUpdate         = "/api/update"
	PathLeagues        = "/api/leagues"
)

// Text codes attached to client errors.
const (
	CodeRemoteUnavailable = "REMOTE_UNAVAILABLE"
	CodeRemoteStatus      = "REMOTE_STATUS"
	CodeMalformedPayload  = "MALFORMED_PAYLOAD"
)

const maxErrorBody = 512

// HTTPConfig configures the backend client.
type HTTPConfig struct {
	BaseURL    string
	Timeout    time.Duration
	HTTPClient *http.Client
	Logger     *zap.Logger
}

// HTTPClient reads the market backend over its REST endpoints.
type HTTPClient struct {
	baseURL   string
	client    *http.Client
	logger    *zap.Logger
	validator *PayloadValidator
}

var _ dashboard.MarketClient = (*HTTPClient)(nil)

// NewHTTPClient builds a client for the backend at cfg.BaseURL.
func NewHTTPClient(cfg HTTPConfig) (*HTTPClient, error) {
	if strings.TrimSpace(cfg.BaseURL) == "" {
		return nil, fmt.Errorf("marketapi: base url is required")
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	validator, err := NewPayloadValidator()
	if err != nil {
		return nil, err
	}
	return &HTTPClient{
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		client:    httpClient,
		logger:    logger.Named("marketapi"),
		validator: validator,
	}, nil
}

// FetchOpportunities reads and validates the current opportunity snapshot.
func (c *HTTPClient) FetchOpportunities(ctx context.Context) (dashboard.OpportunitySnapshot, error) {
	body, err := c.get(ctx, PathOpportunities)
	if err != nil {
		return dashboard.OpportunitySnapshot{}, err
	}
	if err := c.validator.ValidateOpportunities(body); err != nil {
		return dashboard.OpportunitySnapshot{}, malformed(PathOpportunities, err)
	}
	var resp opportunitiesResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return dashboard.OpportunitySnapshot{}, malformed(PathOpportunities, err)
	}
	return resp.toSnapshot()
}

// FetchStatus reads the backend refresh status.
func (c *HTTPClient) FetchStatus(ctx context.Context) (dashboard.StatusInfo, error) {
	var resp statusResponse
	if err := c.getJSON(ctx, PathStatus, &resp); err != nil {
		return dashboard.StatusInfo{}, err
	}
	return resp.toStatus()
}

// FetchCurrencyData reads the top currencies for the currency chart.
func (c *HTTPClient) FetchCurrencyData(ctx context.Context) (dashboard.CurrencyData, error) {
	var resp currencyResponse
	if err := c.getJSON(ctx, PathCurrencyData, &resp); err != nil {
		return dashboard.CurrencyData{}, err
	}
	return resp.toCurrencyData(), nil
}

// FetchHistoricalData reads the price history datasets for the trend chart.
func (c *HTTPClient) FetchHistoricalData(ctx context.Context) (dashboard.HistoricalData, error) {
	var resp historicalResponse
	if err := c.getJSON(ctx, PathHistoricalData, &resp); err != nil {
		return dashboard.HistoricalData{}, err
	}
	return resp.toHistoricalData(), nil
}

// TriggerUpdate asks the backend to collect and analyze fresh data.
func (c *HTTPClient) TriggerUpdate(ctx context.Context) (dashboard.UpdateResult, error) {
	var resp updateResponse
	if err := c.getJSON(ctx, PathUpdate, &resp); err != nil {
		return dashboard.UpdateResult{}, err
	}
	return dashboard.UpdateResult{Status: resp.Status, Message: resp.Message}, nil
}

// FetchLeagues lists the leagues the backend tracks.
func (c *HTTPClient) FetchLeagues(ctx context.Context) (Leagues, error) {
	var resp Leagues
	if err := c.getJSON(ctx, PathLeagues, &resp); err != nil {
		return Leagues{}, err
	}
	return resp, nil
}

func (c *HTTPClient) getJSON(ctx context.Context, path string, target any) error {
	body, err := c.get(ctx, path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, target); err != nil {
		return malformed(path, err)
	}
	return nil
}

func (c *HTTPClient) get(ctx context.Context, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, "marketapi: build request").
			WithMetadata(map[string]any{"path": path})
	}
	req.Header.Set("Accept", "application/json")

	started := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryExternal, "marketapi: backend unreachable").
			WithTextCode(CodeRemoteUnavailable).
			WithMetadata(map[string]any{"path": path})
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryExternal, "marketapi: read response").
			WithTextCode(CodeRemoteUnavailable).
			WithMetadata(map[string]any{"path": path})
	}
	c.logger.Debug("backend response",
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Int("bytes", len(body)),
		zap.Duration("elapsed", time.Since(started)),
	)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, errors.New(fmt.Sprintf("marketapi: remote error %d: %s", resp.StatusCode, truncate(body)), errors.CategoryExternal).
			WithTextCode(CodeRemoteStatus).
			WithCode(resp.StatusCode).
			WithMetadata(map[string]any{"path": path})
	}
	return body, nil
}

func malformed(path string, err error) error {
	return errors.Wrap(err, errors.CategoryBadInput, "marketapi: malformed payload").
		WithTextCode(CodeMalformedPayload).
		WithMetadata(map[string]any{"path": path})
}

func truncate(body []byte) string {
	body = bytes.TrimSpace(body)
	if len(body) > maxErrorBody {
		body = body[:maxErrorBody]
	}
	return string(body)
}

package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/meltforce/liftlog/internal/models"
	"github.com/meltforce/liftlog/internal/storage"
)

// HTTPClient implements DataSource by calling the liftlog REST API. Used by
// the stdio MCP binary, which runs locally while the data lives on the
// server (accessed over Tailscale).
type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewHTTPClient creates an HTTPClient targeting the given base URL.
func NewHTTPClient(baseURL string) *HTTPClient {
	return &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *HTTPClient) get(ctx context.Context, path string, params url.Values) ([]byte, error) {
	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("httpclient: create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("httpclient: %s: %w", path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("httpclient: read %s: %w", path, err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("httpclient: %s returned %d: %s", path, resp.StatusCode, body)
	}
	return body, nil
}

func dateParams(start, end string) url.Values {
	params := url.Values{}
	if start != "" {
		params.Set("start", start)
	}
	if end != "" {
		params.Set("end", end)
	}
	return params
}

// ListPrograms retrieves the program catalog.
func (c *HTTPClient) ListPrograms(ctx context.Context) ([]models.Program, error) {
	body, err := c.get(ctx, "/api/v1/programs", nil)
	if err != nil {
		return nil, err
	}
	var programs []models.Program
	if err := json.Unmarshal(body, &programs); err != nil {
		return nil, fmt.Errorf("httpclient: decode programs: %w", err)
	}
	return programs, nil
}

// GetActiveSession retrieves the live session view verbatim. The session
// field is null when nothing is live.
func (c *HTTPClient) GetActiveSession(ctx context.Context) (json.RawMessage, error) {
	body, err := c.get(ctx, "/api/v1/session", nil)
	if err != nil {
		return nil, err
	}
	return json.RawMessage(body), nil
}

// QueryTrainingRecords retrieves completion records in the date range.
func (c *HTTPClient) QueryTrainingRecords(ctx context.Context, start, end string) ([]models.TrainingRecordRow, error) {
	body, err := c.get(ctx, "/api/v1/records", dateParams(start, end))
	if err != nil {
		return nil, err
	}
	var records []models.TrainingRecordRow
	if err := json.Unmarshal(body, &records); err != nil {
		return nil, fmt.Errorf("httpclient: decode records: %w", err)
	}
	return records, nil
}

// GetWeeklyVolume retrieves the weekly volume aggregation.
func (c *HTTPClient) GetWeeklyVolume(ctx context.Context, start, end string) ([]storage.VolumePeriod, error) {
	body, err := c.get(ctx, "/api/v1/stats/volume", dateParams(start, end))
	if err != nil {
		return nil, err
	}
	var periods []storage.VolumePeriod
	if err := json.Unmarshal(body, &periods); err != nil {
		return nil, fmt.Errorf("httpclient: decode volume stats: %w", err)
	}
	return periods, nil
}

// QueryWeightEntries retrieves body-weight measurements in the date range.
func (c *HTTPClient) QueryWeightEntries(ctx context.Context, start, end string) ([]models.WeightEntryRow, error) {
	body, err := c.get(ctx, "/api/v1/weight", dateParams(start, end))
	if err != nil {
		return nil, err
	}
	var entries []models.WeightEntryRow
	if err := json.Unmarshal(body, &entries); err != nil {
		return nil, fmt.Errorf("httpclient: decode weight entries: %w", err)
	}
	return entries, nil
}

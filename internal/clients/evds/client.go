// Package evds fetches TLREF values from the TCMB EVDS web service.
package evds

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/GokhanYmn/NakitAkisGrafana/internal/apperrors"
	"github.com/shopspring/decimal"
)

const dateFormat = "02-01-2006" // EVDS wants dd-mm-yyyy

// Client talks to the EVDS series endpoint. Each FetchRate call is one
// attempt for one series code with its own timeout; the caller owns the
// ordered code chain.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a new Client. timeout bounds every individual attempt.
func NewClient(baseURL, apiKey string, timeout time.Duration, logger *slog.Logger) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// itemsPayload is the EVDS response shape: a list of items keyed by the
// series code with dots replaced by underscores.
type itemsPayload struct {
	Items []map[string]any `json:"items"`
}

// FetchRate queries one series code for one exact date. Timeouts, non-2xx
// statuses, and parseable-but-empty payloads all wrap
// apperrors.ErrSourceUnavailable so the caller tries the next code.
func (c *Client) FetchRate(ctx context.Context, date time.Time, seriesCode string) (decimal.Decimal, error) {
	dateStr := date.Format(dateFormat)
	url := fmt.Sprintf("%s/series=%s&startDate=%s&endDate=%s&type=json", c.baseURL, seriesCode, dateStr, dateStr)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return decimal.Zero, fmt.Errorf("build EVDS request: %w", err)
	}
	req.Header.Set("key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %s on %s: %v", apperrors.ErrSourceUnavailable, seriesCode, dateStr, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return decimal.Zero, fmt.Errorf("%w: %s on %s: status %d", apperrors.ErrSourceUnavailable, seriesCode, dateStr, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %s on %s: read body: %v", apperrors.ErrSourceUnavailable, seriesCode, dateStr, err)
	}

	var payload itemsPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return decimal.Zero, fmt.Errorf("%w: %s on %s: decode: %v", apperrors.ErrSourceUnavailable, seriesCode, dateStr, err)
	}
	if len(payload.Items) == 0 {
		return decimal.Zero, fmt.Errorf("%w: %s on %s: no items", apperrors.ErrSourceUnavailable, seriesCode, dateStr)
	}

	// The value field repeats the series code with underscores.
	seriesKey := strings.ReplaceAll(seriesCode, ".", "_")
	raw, ok := payload.Items[0][seriesKey]
	if !ok || raw == nil {
		return decimal.Zero, fmt.Errorf("%w: %s on %s: no value for key %s", apperrors.ErrSourceUnavailable, seriesCode, dateStr, seriesKey)
	}

	rate, err := parseValue(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %s on %s: %v", apperrors.ErrSourceUnavailable, seriesCode, dateStr, err)
	}

	c.logger.Debug("EVDS value fetched",
		slog.String("series_code", seriesCode),
		slog.String("date", dateStr),
		slog.String("rate", rate.String()),
	)
	return rate, nil
}

// parseValue accepts the two shapes EVDS serves: a JSON number or a numeric
// string.
func parseValue(raw any) (decimal.Decimal, error) {
	switch v := raw.(type) {
	case float64:
		return decimal.NewFromFloat(v), nil
	case string:
		d, err := decimal.NewFromString(strings.TrimSpace(v))
		if err != nil {
			return decimal.Zero, fmt.Errorf("non-numeric value %q", v)
		}
		return d, nil
	default:
		return decimal.Zero, fmt.Errorf("unusable value of type %T", raw)
	}
}

// Package geckoterminal provides a client for the GeckoTerminal OHLCV endpoint.
package geckoterminal

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/andriusrak/onchain-alerts/internal/models"
)

// Client fetches 5-minute OHLCV candle series by pool address.
type Client struct {
	baseURL    string
	network    string
	aggregate  int
	httpClient *http.Client
}

// ohlcvResponse mirrors the GeckoTerminal JSON:API envelope. Each ohlcv_list
// entry is [timestamp, open, high, low, close, volume].
type ohlcvResponse struct {
	Data struct {
		Attributes struct {
			OhlcvList [][]float64 `json:"ohlcv_list"`
		} `json:"attributes"`
	} `json:"data"`
}

// NewClient creates a GeckoTerminal client for one network. aggregate is the
// candle bucket width in minutes.
func NewClient(baseURL, network string, aggregate int, timeout time.Duration) *Client {
	return &Client{
		baseURL:    baseURL,
		network:    network,
		aggregate:  aggregate,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// FetchOHLCV retrieves the candle series for one pool, oldest first as
// received. Failed fetches are not retried; the pair is skipped this cycle.
func (c *Client) FetchOHLCV(ctx context.Context, poolAddress string) (models.CandleSeries, error) {
	url := fmt.Sprintf("%s/networks/%s/pools/%s/ohlcv/minute?aggregate=%d",
		c.baseURL, c.network, poolAddress, c.aggregate)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build ohlcv request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch ohlcv %s: %w", poolAddress, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch ohlcv %s: unexpected status %d", poolAddress, resp.StatusCode)
	}

	var payload ohlcvResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode ohlcv %s: %w", poolAddress, err)
	}

	series := make(models.CandleSeries, 0, len(payload.Data.Attributes.OhlcvList))
	for _, entry := range payload.Data.Attributes.OhlcvList {
		if len(entry) < 6 {
			return nil, fmt.Errorf("malformed ohlcv entry for %s: %d fields", poolAddress, len(entry))
		}
		series = append(series, models.Candle{
			Timestamp: int64(entry[0]),
			Open:      entry[1],
			High:      entry[2],
			Low:       entry[3],
			Close:     entry[4],
			Volume:    entry[5],
		})
	}
	return series, nil
}

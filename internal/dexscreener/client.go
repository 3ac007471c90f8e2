// Package dexscreener provides a client for the DexScreener pair endpoint.
package dexscreener

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/andriusrak/onchain-alerts/internal/models"
)

// Client fetches pair metadata by address. Calls are fallible remote calls:
// any non-success outcome is a skip condition for that address, never fatal.
type Client struct {
	baseURL    string
	chainID    string
	httpClient *http.Client
}

// pairResponse mirrors the DexScreener pair endpoint payload. The endpoint
// returns both a single pair object and a pairs array; the array drives the
// presence check, the object carries the fields.
type pairResponse struct {
	SchemaVersion string     `json:"schemaVersion"`
	Pair          *pairData  `json:"pair"`
	Pairs         []pairData `json:"pairs"`
}

type pairData struct {
	ChainID     string    `json:"chainId"`
	DexID       string    `json:"dexId"`
	URL         string    `json:"url"`
	PairAddress string    `json:"pairAddress"`
	BaseToken   token     `json:"baseToken"`
	PriceUsd    string    `json:"priceUsd"`
	Volume      volume    `json:"volume"`
	Liquidity   liquidity `json:"liquidity"`
	FDV         float64   `json:"fdv"`
}

type token struct {
	Address string `json:"address"`
	Name    string `json:"name"`
	Symbol  string `json:"symbol"`
}

type volume struct {
	H24 float64 `json:"h24"`
}

type liquidity struct {
	USD float64 `json:"usd"`
}

// NewClient creates a DexScreener client for one chain.
func NewClient(baseURL, chainID string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    baseURL,
		chainID:    chainID,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// FetchPair retrieves and validates the pair snapshot for one address.
// Failed fetches are not retried; the address is simply skipped this cycle.
func (c *Client) FetchPair(ctx context.Context, address string) (models.PairSnapshot, error) {
	url := fmt.Sprintf("%s/latest/dex/pairs/%s/%s", c.baseURL, c.chainID, address)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return models.PairSnapshot{}, fmt.Errorf("build pair request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return models.PairSnapshot{}, fmt.Errorf("fetch pair %s: %w", address, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return models.PairSnapshot{}, fmt.Errorf("fetch pair %s: unexpected status %d", address, resp.StatusCode)
	}

	var payload pairResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return models.PairSnapshot{}, fmt.Errorf("decode pair %s: %w", address, err)
	}
	if len(payload.Pairs) == 0 {
		return models.PairSnapshot{}, fmt.Errorf("no pairs returned for %s", address)
	}

	pair := payload.Pairs[0]
	if payload.Pair != nil {
		pair = *payload.Pair
	}

	price, err := strconv.ParseFloat(pair.PriceUsd, 64)
	if err != nil {
		return models.PairSnapshot{}, fmt.Errorf("parse price for %s: %w", address, err)
	}

	snapshot := models.PairSnapshot{
		Address:         address,
		PoolAddress:     pair.PairAddress,
		Symbol:          pair.BaseToken.Symbol,
		Name:            pair.BaseToken.Name,
		ContractAddress: pair.BaseToken.Address,
		Price:           price,
		LiquidityUSD:    pair.Liquidity.USD,
		Volume24hUSD:    pair.Volume.H24,
		FDV:             pair.FDV,
		URL:             pair.URL,
	}
	if err := snapshot.Validate(); err != nil {
		return models.PairSnapshot{}, fmt.Errorf("invalid pair %s: %w", address, err)
	}
	return snapshot, nil
}

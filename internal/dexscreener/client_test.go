package dexscreener

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

const samplePayload = `{
	"schemaVersion": "1.0.0",
	"pair": {
		"chainId": "solana",
		"dexId": "raydium",
		"url": "https://dexscreener.com/solana/pool1",
		"pairAddress": "pool1",
		"baseToken": {"address": "ca1", "name": "Token One", "symbol": "ONE"},
		"priceUsd": "0.003514",
		"volume": {"h24": 182000.5},
		"liquidity": {"usd": 64000.25},
		"fdv": 350000
	},
	"pairs": [{
		"pairAddress": "pool1",
		"baseToken": {"address": "ca1", "name": "Token One", "symbol": "ONE"},
		"priceUsd": "0.003514",
		"volume": {"h24": 182000.5},
		"liquidity": {"usd": 64000.25},
		"fdv": 350000,
		"url": "https://dexscreener.com/solana/pool1"
	}]
}`

func TestFetchPair(t *testing.T) {
	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(samplePayload)) //nolint:errcheck
	}))
	defer server.Close()

	c := NewClient(server.URL, "solana", 10*time.Second)
	snap, err := c.FetchPair(context.Background(), "addr1")
	if err != nil {
		t.Fatalf("FetchPair failed: %v", err)
	}

	if gotPath != "/latest/dex/pairs/solana/addr1" {
		t.Errorf("Unexpected request path: %s", gotPath)
	}
	if snap.Address != "addr1" {
		t.Errorf("Address = %q, want addr1", snap.Address)
	}
	if snap.PoolAddress != "pool1" {
		t.Errorf("PoolAddress = %q, want pool1", snap.PoolAddress)
	}
	if snap.Symbol != "ONE" || snap.Name != "Token One" || snap.ContractAddress != "ca1" {
		t.Errorf("Unexpected base token fields: %+v", snap)
	}
	if snap.Price != 0.003514 {
		t.Errorf("Price = %f, want 0.003514", snap.Price)
	}
	if snap.LiquidityUSD != 64000.25 || snap.Volume24hUSD != 182000.5 || snap.FDV != 350000 {
		t.Errorf("Unexpected market stats: %+v", snap)
	}
	if snap.URL != "https://dexscreener.com/solana/pool1" {
		t.Errorf("URL = %q", snap.URL)
	}
}

func TestFetchPair_NonSuccessStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer server.Close()

	c := NewClient(server.URL, "solana", 10*time.Second)
	if _, err := c.FetchPair(context.Background(), "addr1"); err == nil {
		t.Error("Expected error for non-200 status")
	}
}

func TestFetchPair_NoPairs(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"schemaVersion": "1.0.0", "pair": null, "pairs": []}`)) //nolint:errcheck
	}))
	defer server.Close()

	c := NewClient(server.URL, "solana", 10*time.Second)
	if _, err := c.FetchPair(context.Background(), "addr1"); err == nil {
		t.Error("Expected error when no pairs are returned")
	}
}

func TestFetchPair_MalformedPrice(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		payload := `{"pairs": [{"pairAddress": "pool1", "baseToken": {"symbol": "X"}, "priceUsd": "not-a-number"}]}`
		w.Write([]byte(payload)) //nolint:errcheck
	}))
	defer server.Close()

	c := NewClient(server.URL, "solana", 10*time.Second)
	if _, err := c.FetchPair(context.Background(), "addr1"); err == nil {
		t.Error("Expected error for malformed price")
	}
}

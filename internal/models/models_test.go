package models

import "testing"

func validSnapshot() PairSnapshot {
	return PairSnapshot{
		Address:      "addr1",
		PoolAddress:  "pool1",
		Symbol:       "TKN",
		Name:         "Token",
		Price:        0.25,
		LiquidityUSD: 50000,
		Volume24hUSD: 120000,
		FDV:          400000,
		URL:          "https://dexscreener.com/solana/pool1",
	}
}

func TestPairSnapshotValidate(t *testing.T) {
	snap := validSnapshot()
	if err := snap.Validate(); err != nil {
		t.Errorf("Valid snapshot rejected: %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*PairSnapshot)
	}{
		{"empty address", func(p *PairSnapshot) { p.Address = "" }},
		{"empty pool address", func(p *PairSnapshot) { p.PoolAddress = "" }},
		{"empty symbol", func(p *PairSnapshot) { p.Symbol = "" }},
		{"negative price", func(p *PairSnapshot) { p.Price = -1 }},
		{"negative liquidity", func(p *PairSnapshot) { p.LiquidityUSD = -1 }},
		{"negative volume", func(p *PairSnapshot) { p.Volume24hUSD = -1 }},
		{"negative fdv", func(p *PairSnapshot) { p.FDV = -1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snap := validSnapshot()
			tt.mutate(&snap)
			if err := snap.Validate(); err == nil {
				t.Error("Expected validation error, got nil")
			}
		})
	}
}

func TestWithinLiquidityRatio(t *testing.T) {
	tests := []struct {
		name      string
		liquidity float64
		fdv       float64
		want      bool
	}{
		{"well under ratio", 500, 1000, true},
		{"exactly at ratio", 800, 1000, true},
		{"above ratio", 900, 1000, false},
		{"liquidity exceeds fdv", 1200, 1000, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := PairSnapshot{LiquidityUSD: tt.liquidity, FDV: tt.fdv}
			if got := p.WithinLiquidityRatio(0.8); got != tt.want {
				t.Errorf("WithinLiquidityRatio(0.8) with liq=%.0f fdv=%.0f = %v, want %v",
					tt.liquidity, tt.fdv, got, tt.want)
			}
		})
	}
}

package models

import "errors"

// PairSnapshot is the per-cycle view of one trading pair, built from pair
// metadata. Immutable after construction.
type PairSnapshot struct {
	Address         string  `json:"address"`
	PoolAddress     string  `json:"pool_address"`
	Symbol          string  `json:"symbol"`
	Name            string  `json:"name"`
	ContractAddress string  `json:"contract_address"`
	Price           float64 `json:"price"`
	LiquidityUSD    float64 `json:"liquidity_usd"`
	Volume24hUSD    float64 `json:"volume_24h_usd"`
	FDV             float64 `json:"fdv"`
	URL             string  `json:"url"`
}

// Validate checks snapshot field constraints.
func (p *PairSnapshot) Validate() error {
	if p.Address == "" {
		return errors.New("pair address must not be empty")
	}
	if p.PoolAddress == "" {
		return errors.New("pool address must not be empty")
	}
	if p.Symbol == "" {
		return errors.New("token symbol must not be empty")
	}
	if p.Price < 0 {
		return errors.New("price must not be negative")
	}
	if p.LiquidityUSD < 0 {
		return errors.New("liquidity must not be negative")
	}
	if p.Volume24hUSD < 0 {
		return errors.New("24h volume must not be negative")
	}
	if p.FDV < 0 {
		return errors.New("fdv must not be negative")
	}
	return nil
}

// WithinLiquidityRatio reports whether liquidity stays within maxRatio of FDV.
// Pairs above the ratio look wash-traded or about to rug and are dropped
// before any candle fetch.
func (p *PairSnapshot) WithinLiquidityRatio(maxRatio float64) bool {
	return p.LiquidityUSD <= maxRatio*p.FDV
}

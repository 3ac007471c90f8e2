// Package alert renders qualifying detections into alert blocks and appends
// them to the shared alert log consumed by the dispatcher.
package alert

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/andriusrak/onchain-alerts/internal/models"
)

// Separator is the fixed 50-character boundary between alert blocks.
// It is part of the wire contract and must never appear inside a block.
const Separator = "=================================================="

// Format renders the fixed-layout alert block for one detection. The
// "Trade URL: " line doubles as the dispatcher's dedup key.
func Format(pair models.PairSnapshot, result models.PatternResult) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Name: %s\n", pair.Name)
	fmt.Fprintf(&b, "Token: %s\n", pair.Symbol)
	fmt.Fprintf(&b, "Last Candle Volume: %s\n", formatVolume(result.LastCandleVolume))
	fmt.Fprintf(&b, "Average Previous Volume: %s\n", formatVolume(result.AveragePreviousVolume))
	fmt.Fprintf(&b, "Current Price: $%.6f\n", pair.Price)
	fmt.Fprintf(&b, "24h Volume: $%s\n", humanize.CommafWithDigits(pair.Volume24hUSD, 2))
	fmt.Fprintf(&b, "Liquidity: $%s\n", humanize.CommafWithDigits(pair.LiquidityUSD, 2))
	fmt.Fprintf(&b, "FDV: $%s\n", humanize.CommafWithDigits(pair.FDV, 0))
	fmt.Fprintf(&b, "Trade URL: %s\n", pair.URL)
	fmt.Fprintf(&b, "X Sentiment: https://x.com/search?q=%%24%s+OR+%s\n", pair.Symbol, pair.ContractAddress)
	fmt.Fprintf(&b, "X General: https://x.com/search?q=%s", strings.ReplaceAll(pair.Name, " ", "+"))

	return b.String()
}

// formatVolume prints a volume with the shortest exact decimal form.
func formatVolume(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

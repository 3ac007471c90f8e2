// Package processor drives the polling pipeline: discover addresses, fetch
// pair metadata, fetch candles, score, and record.
package processor

import (
	"context"
	"fmt"
	"time"

	"github.com/samber/lo"

	"github.com/andriusrak/onchain-alerts/internal/alert"
	"github.com/andriusrak/onchain-alerts/internal/detector"
	"github.com/andriusrak/onchain-alerts/internal/feed"
	"github.com/andriusrak/onchain-alerts/internal/logger"
	"github.com/andriusrak/onchain-alerts/internal/models"
	"github.com/andriusrak/onchain-alerts/internal/ratelimit"
	"github.com/andriusrak/onchain-alerts/internal/results"
)

// PairFetcher fetches pair metadata by address.
type PairFetcher interface {
	FetchPair(ctx context.Context, address string) (models.PairSnapshot, error)
}

// CandleFetcher fetches the OHLCV series by pool address.
type CandleFetcher interface {
	FetchOHLCV(ctx context.Context, poolAddress string) (models.CandleSeries, error)
}

// Config holds the pipeline knobs.
type Config struct {
	CycleInterval        time.Duration
	ErrorBackoff         time.Duration
	MaxLiquidityFDVRatio float64
}

// Processor runs the endless fetch-and-score loop. Fetches are sequential,
// gated only by the per-API rate limiters; this bounds the external load
// deterministically at the cost of cycle latency.
type Processor struct {
	config Config

	feed    *feed.Feed
	pairs   PairFetcher
	candles CandleFetcher
	det     *detector.Detector
	alerts  *alert.Log
	audit   *results.Log

	pairLimiter   *ratelimit.Limiter
	candleLimiter *ratelimit.Limiter

	sleep func(ctx context.Context, d time.Duration)
}

// New wires a processor from its collaborators.
func New(
	config Config,
	addressFeed *feed.Feed,
	pairs PairFetcher,
	candles CandleFetcher,
	det *detector.Detector,
	alerts *alert.Log,
	audit *results.Log,
	pairLimiter, candleLimiter *ratelimit.Limiter,
) *Processor {
	return &Processor{
		config:        config,
		feed:          addressFeed,
		pairs:         pairs,
		candles:       candles,
		det:           det,
		alerts:        alerts,
		audit:         audit,
		pairLimiter:   pairLimiter,
		candleLimiter: candleLimiter,
		sleep:         sleepCtx,
	}
}

// Run loops until ctx is cancelled. Cycle-level errors are logged and
// followed by a fixed backoff; the loop never terminates on them.
func (p *Processor) Run(ctx context.Context) {
	for {
		if ctx.Err() != nil {
			logger.Info("Processor stopped")
			return
		}

		worked, err := p.runCycle(ctx)
		switch {
		case err != nil:
			logger.Error("Cycle failed: %v", err)
			p.sleep(ctx, p.config.ErrorBackoff)
		case !worked:
			logger.Warn("No addresses found to process")
			p.sleep(ctx, p.config.CycleInterval)
		default:
			p.sleep(ctx, p.config.CycleInterval)
		}
	}
}

type queuedPair struct {
	address string
	pair    models.PairSnapshot
}

// runCycle executes one full pass. The boolean reports whether the feed held
// any work. A panic anywhere in the cycle body is converted into a cycle
// error so the loop survives it.
func (p *Processor) runCycle(ctx context.Context) (worked bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("cycle panic: %v", r)
		}
	}()

	addresses := p.feed.Load()
	if len(addresses) == 0 {
		return false, nil
	}

	start := time.Now()
	logger.Info("Starting new cycle with %d addresses", len(addresses))

	queue := p.metadataPass(ctx, addresses)
	alerts := p.candlePass(ctx, queue)

	if err := p.feed.Reset(); err != nil {
		return true, fmt.Errorf("clear consumed addresses: %w", err)
	}

	logger.Info("Completed cycle in %v: %d addresses, %d pairs queued, %d alerts",
		time.Since(start), len(addresses), len(queue), alerts)
	return true, nil
}

// metadataPass fetches pair metadata for each address and keeps the pairs
// that survive the liquidity/FDV guard. Per-address failures are logged and
// skipped; they never abort the cycle.
func (p *Processor) metadataPass(ctx context.Context, addresses []string) []queuedPair {
	var queue []queuedPair
	for _, address := range addresses {
		if ctx.Err() != nil {
			return queue
		}

		p.pairLimiter.Wait()
		pair, err := p.pairs.FetchPair(ctx, address)
		if err != nil {
			logger.Error("Pair metadata fetch failed for %s: %v", address, err)
			continue
		}
		queue = append(queue, queuedPair{address: address, pair: pair})
	}

	return lo.Filter(queue, func(item queuedPair, _ int) bool {
		if !item.pair.WithinLiquidityRatio(p.config.MaxLiquidityFDVRatio) {
			logger.Debug("Dropping %s: liquidity %.2f exceeds %.0f%% of FDV %.2f",
				item.address, item.pair.LiquidityUSD, p.config.MaxLiquidityFDVRatio*100, item.pair.FDV)
			return false
		}
		return true
	})
}

// candlePass fetches candles for each queued pair, scores the series, emits
// alerts for valid patterns, and always appends an audit record. Returns the
// number of alerts emitted.
func (p *Processor) candlePass(ctx context.Context, queue []queuedPair) int {
	emitted := 0
	for _, item := range queue {
		if ctx.Err() != nil {
			return emitted
		}

		p.candleLimiter.Wait()
		series, err := p.candles.FetchOHLCV(ctx, item.pair.PoolAddress)
		if err != nil {
			logger.Error("OHLCV fetch failed for %s: %v", item.address, err)
			continue
		}

		result := p.det.Analyze(series)
		if result.Valid {
			logger.Info("Volume spike on %s (%s): last=%.2f avg=%.2f",
				item.pair.Symbol, item.address, result.LastCandleVolume, result.AveragePreviousVolume)
			if err := p.alerts.Append(alert.Format(item.pair, result)); err != nil {
				logger.Error("Failed to append alert for %s: %v", item.address, err)
			} else {
				emitted++
			}
		}

		if err := p.audit.Append(item.pair, result); err != nil {
			logger.Error("Failed to append result record for %s: %v", item.address, err)
		}
	}
	return emitted
}

// sleepCtx sleeps for d or until ctx is cancelled.
func sleepCtx(ctx context.Context, d time.Duration) {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}

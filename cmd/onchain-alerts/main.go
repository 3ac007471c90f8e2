package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/andriusrak/onchain-alerts/internal/alert"
	"github.com/andriusrak/onchain-alerts/internal/config"
	"github.com/andriusrak/onchain-alerts/internal/detector"
	"github.com/andriusrak/onchain-alerts/internal/dexscreener"
	"github.com/andriusrak/onchain-alerts/internal/dispatcher"
	"github.com/andriusrak/onchain-alerts/internal/feed"
	"github.com/andriusrak/onchain-alerts/internal/geckoterminal"
	"github.com/andriusrak/onchain-alerts/internal/logger"
	"github.com/andriusrak/onchain-alerts/internal/notify"
	"github.com/andriusrak/onchain-alerts/internal/processor"
	"github.com/andriusrak/onchain-alerts/internal/ratelimit"
	"github.com/andriusrak/onchain-alerts/internal/results"
)

var configPath = flag.String("config", "configs/config.yaml", "Path to configuration file")

func main() {
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	logger.Init(cfg.Logging.Level, cfg.Logging.Format)
	logger.Info("Configuration loaded from %s", *configPath)

	sink, err := buildSink(cfg.Notify)
	if err != nil {
		logger.Fatal("Failed to initialize notification sink: %v", err)
	}

	pairClient := dexscreener.NewClient(
		cfg.Dexscreener.BaseURL,
		cfg.Dexscreener.ChainID,
		cfg.Dexscreener.Timeout,
	)
	candleClient := geckoterminal.NewClient(
		cfg.Geckoterminal.BaseURL,
		cfg.Geckoterminal.Network,
		cfg.Geckoterminal.AggregateMinutes,
		cfg.Geckoterminal.Timeout,
	)

	det := detector.New(detector.Config{
		BucketSeconds:    cfg.Detector.BucketSeconds,
		VolumeFloor:      cfg.Detector.VolumeFloor,
		CorrectionCutoff: cfg.Detector.CorrectionCutoff,
		ThinSeriesFactor: cfg.Detector.ThinSeriesFactor,
	})

	proc := processor.New(
		processor.Config{
			CycleInterval:        cfg.Pipeline.CycleInterval,
			ErrorBackoff:         cfg.Pipeline.ErrorBackoff,
			MaxLiquidityFDVRatio: cfg.Pipeline.MaxLiquidityFDVRatio,
		},
		feed.New(cfg.Pipeline.AddressFeedPath),
		pairClient,
		candleClient,
		det,
		alert.NewLog(cfg.Pipeline.AlertLogPath),
		results.NewLog(cfg.Pipeline.ResultsLogPath),
		ratelimit.New(cfg.Dexscreener.CallsPerMinute),
		ratelimit.New(cfg.Geckoterminal.CallsPerMinute),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		logger.Info("Shutdown signal received, stopping loops...")
		cancel()
	}()

	logger.Info("Starting pipeline (cycle: %v, pair limit: %d/min, candle limit: %d/min)",
		cfg.Pipeline.CycleInterval,
		cfg.Dexscreener.CallsPerMinute,
		cfg.Geckoterminal.CallsPerMinute,
	)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		proc.Run(ctx)
	}()

	if sink != nil {
		disp := dispatcher.New(
			dispatcher.Config{
				PollInterval:      cfg.Dispatcher.PollInterval,
				RetentionInterval: cfg.Dispatcher.RetentionInterval,
			},
			cfg.Pipeline.AlertLogPath,
			sink,
		)
		wg.Add(1)
		go func() {
			defer wg.Done()
			disp.Run(ctx)
		}()
		logger.Info("Dispatcher started (poll: %v, retention: %v)",
			cfg.Dispatcher.PollInterval, cfg.Dispatcher.RetentionInterval)
	} else {
		logger.Debug("Notification sink disabled, dispatcher not started")
	}

	wg.Wait()
	logger.Info("Service stopped")
}

// buildSink constructs the configured notification sink, or nil when
// notifications are disabled.
func buildSink(cfg config.NotifyConfig) (notify.Sink, error) {
	switch cfg.Sink {
	case "webhook":
		return notify.NewWebhookSink(cfg.WebhookURL, 0), nil
	case "telegram":
		return notify.NewTelegramSink(cfg.Telegram.BotToken, cfg.Telegram.ChatID)
	default:
		return nil, nil
	}
}

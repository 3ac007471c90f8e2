// Package dispatcher tails the alert log and forwards unseen alerts to the
// notification sink.
package dispatcher

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/andriusrak/onchain-alerts/internal/alert"
	"github.com/andriusrak/onchain-alerts/internal/logger"
	"github.com/andriusrak/onchain-alerts/internal/notify"
)

// tradeURLPrefix marks the line whose content is the dedup key.
const tradeURLPrefix = "Trade URL: "

// Config holds the dispatcher timing knobs.
type Config struct {
	PollInterval      time.Duration
	RetentionInterval time.Duration
}

// Dispatcher is the sole reader of the alert log. It tracks a byte offset,
// splits newly appended bytes into blocks on the separator line, and delivers
// each block at most once per retention window, keyed by the trade URL.
type Dispatcher struct {
	config Config
	path   string
	sink   notify.Sink

	offset    int64
	sent      map[string]struct{}
	lastReset time.Time

	now func() time.Time
}

// New creates a dispatcher tailing the alert log at path.
func New(config Config, path string, sink notify.Sink) *Dispatcher {
	return &Dispatcher{
		config: config,
		path:   path,
		sink:   sink,
		sent:   make(map[string]struct{}),
		now:    time.Now,
	}
}

// Run polls the alert log until ctx is cancelled. The sent-key set is cleared
// unconditionally every retention interval; a full reset, not a sliding
// eviction, so an alert re-appended after the reset may be redelivered. That
// is a known, accepted limitation.
func (d *Dispatcher) Run(ctx context.Context) {
	d.lastReset = d.now()

	ticker := time.NewTicker(d.config.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("Dispatcher stopped")
			return
		case <-ticker.C:
			if d.now().Sub(d.lastReset) >= d.config.RetentionInterval {
				d.resetSent()
			}
			if err := d.poll(); err != nil {
				logger.Error("Dispatch poll failed: %v", err)
			}
		}
	}
}

// resetSent clears the delivered-key set.
func (d *Dispatcher) resetSent() {
	logger.Info("Clearing %d sent alert keys", len(d.sent))
	d.sent = make(map[string]struct{})
	d.lastReset = d.now()
}

// poll reads newly appended bytes and dispatches the complete and trailing
// blocks found in them.
func (d *Dispatcher) poll() error {
	file, err := os.Open(d.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("open alert log: %w", err)
	}
	defer file.Close()

	if _, err := file.Seek(d.offset, io.SeekStart); err != nil {
		return fmt.Errorf("seek alert log: %w", err)
	}
	data, err := io.ReadAll(file)
	if err != nil {
		return fmt.Errorf("read alert log: %w", err)
	}
	if len(data) == 0 {
		return nil
	}
	d.offset += int64(len(data))

	for _, block := range parseBlocks(string(data)) {
		d.dispatch(block)
	}
	return nil
}

// block is one parsed alert: its full text plus the extracted dedup key.
type block struct {
	text     string
	tradeURL string
}

// parseBlocks splits the tail on separator lines. A trailing block without a
// terminating separator is included when it already carries a trade URL line;
// deduplication suppresses the repeat once the separator arrives.
func parseBlocks(data string) []block {
	var blocks []block
	var lines []string
	var tradeURL string

	flush := func() {
		if len(lines) > 0 && tradeURL != "" {
			blocks = append(blocks, block{text: strings.Join(lines, "\n"), tradeURL: tradeURL})
		}
		lines = nil
		tradeURL = ""
	}

	for _, line := range strings.Split(data, "\n") {
		if strings.TrimRight(line, "\r") == alert.Separator {
			flush()
			continue
		}
		lines = append(lines, line)
		if strings.HasPrefix(line, tradeURLPrefix) {
			tradeURL = strings.TrimSpace(line)
		}
	}
	flush()

	return blocks
}

// dispatch delivers one block unless its key was already sent this window.
// The key is recorded after the delivery attempt whether or not it succeeded:
// delivery failures are logged, never retried.
func (d *Dispatcher) dispatch(b block) {
	if _, seen := d.sent[b.tradeURL]; seen {
		return
	}
	if err := d.sink.Send(b.text); err != nil {
		logger.Error("Failed to deliver alert %s: %v", b.tradeURL, err)
	} else {
		logger.Info("Alert delivered: %s", b.tradeURL)
	}
	d.sent[b.tradeURL] = struct{}{}
}

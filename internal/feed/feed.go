// Package feed reads candidate pair addresses from the discovery feed file
// written by the external address scraper.
package feed

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/andriusrak/onchain-alerts/internal/logger"
)

// Snapshot is one discovery batch in the feed file.
type Snapshot struct {
	Timestamp string   `json:"timestamp"`
	Addresses []string `json:"addresses"`
}

// Feed wraps the discovery feed file. The scraper is the sole writer of new
// batches; the fetch loop resets the file after consuming.
type Feed struct {
	path string
}

// New creates a feed reader for the file at path.
func New(path string) *Feed {
	return &Feed{path: path}
}

// Load returns the addresses of the first snapshot in the feed. A missing,
// empty, or malformed file means no work this cycle, never an error that
// stops the pipeline.
func (f *Feed) Load() []string {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if !os.IsNotExist(err) {
			logger.Error("Failed to read address feed %s: %v", f.path, err)
		}
		return nil
	}

	var snapshots []Snapshot
	if err := json.Unmarshal(data, &snapshots); err != nil {
		logger.Error("Malformed address feed %s: %v", f.path, err)
		return nil
	}
	if len(snapshots) == 0 {
		return nil
	}
	return snapshots[0].Addresses
}

// Reset clears the feed so the next cycle only sees newly discovered
// addresses.
func (f *Feed) Reset() error {
	if err := os.WriteFile(f.path, []byte("[]"), 0o644); err != nil {
		return fmt.Errorf("reset address feed: %w", err)
	}
	return nil
}

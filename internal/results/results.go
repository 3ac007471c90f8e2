// Package results appends the per-pair audit trail, one JSON object per line.
package results

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/andriusrak/onchain-alerts/internal/models"
)

// Record is one audit entry, written for every scored pair regardless of
// whether the pattern qualified. Independent of alert delivery.
type Record struct {
	ID             string               `json:"id"`
	Timestamp      string               `json:"timestamp"`
	Address        string               `json:"address"`
	PoolAddress    string               `json:"pool_address"`
	PairData       models.PairSnapshot  `json:"pair_data"`
	PatternResults models.PatternResult `json:"pattern_results"`
}

// Log writes records to a JSONL file. The fetch loop is the sole appender.
type Log struct {
	path string
	mu   sync.Mutex

	now func() time.Time
}

// NewLog creates an appender for the results log at path.
func NewLog(path string) *Log {
	return &Log{path: path, now: time.Now}
}

// Append writes one audit record for the given pair and scoring outcome.
func (l *Log) Append(pair models.PairSnapshot, result models.PatternResult) error {
	rec := Record{
		ID:             uuid.New().String(),
		Timestamp:      l.now().Format("2006-01-02 15:04:05"),
		Address:        pair.Address,
		PoolAddress:    pair.PoolAddress,
		PairData:       pair,
		PatternResults: result,
	}

	line, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal result record: %w", err)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	dir := filepath.Dir(l.path)
	if dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create results dir: %w", err)
		}
	}

	file, err := os.OpenFile(l.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open results log: %w", err)
	}
	defer file.Close()

	writer := bufio.NewWriter(file)
	if _, err := writer.Write(line); err != nil {
		return fmt.Errorf("write result record: %w", err)
	}
	if err := writer.WriteByte('\n'); err != nil {
		return fmt.Errorf("write newline: %w", err)
	}
	if err := writer.Flush(); err != nil {
		return fmt.Errorf("flush results log: %w", err)
	}
	return nil
}

package alert

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Log appends alert blocks to the shared alert log file. The fetch loop is
// the sole appender; the dispatcher tails the file with its own byte offset.
type Log struct {
	path string
	mu   sync.Mutex

	now func() time.Time
}

// NewLog creates an appender for the alert log at path.
func NewLog(path string) *Log {
	return &Log{path: path, now: time.Now}
}

// Append writes one entry: a UTC timestamp header, the block, and the
// separator line.
func (l *Log) Append(block string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	dir := filepath.Dir(l.path)
	if dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create alert log dir: %w", err)
		}
	}

	file, err := os.OpenFile(l.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open alert log: %w", err)
	}
	defer file.Close()

	writer := bufio.NewWriter(file)
	header := l.now().UTC().Format("2006-01-02 15:04:05 UTC")
	if _, err := fmt.Fprintf(writer, "%s\n%s\n%s\n", header, block, Separator); err != nil {
		return fmt.Errorf("write alert entry: %w", err)
	}
	if err := writer.Flush(); err != nil {
		return fmt.Errorf("flush alert log: %w", err)
	}
	return nil
}

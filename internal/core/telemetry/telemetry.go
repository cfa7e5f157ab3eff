// Package telemetry keeps a bounded history of tool invocations plus
// per-tool counters. It is purely additive operational visibility: the
// workflow gate never reads it back.
package telemetry

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
)

// HistoryCap bounds the number of retained call records. Older records
// are evicted first.
const HistoryCap = 100

// maskedPrefixLen caps how many leading runes of a client key survive
// masking. The prefix is stable for a given key, so records from the
// same client can still be correlated.
const maskedPrefixLen = 8

// Record is an immutable log entry for a single tool invocation.
type Record struct {
	ID        string    `json:"id"`
	Time      time.Time `json:"time"`
	Tool      string    `json:"tool"`
	Query     string    `json:"query,omitempty"`
	LibraryID string    `json:"library_id,omitempty"`
	ClientKey string    `json:"client_key,omitempty"`
	Success   bool      `json:"success"`
}

// Log owns the process-wide call history and counters.
type Log struct {
	mu      sync.Mutex
	clock   clockwork.Clock
	history []Record
	byTool  map[string]int
	total   int
}

// NewLog creates an empty telemetry log using clock for timestamps.
func NewLog(clock clockwork.Clock) *Log {
	return &Log{
		clock:  clock,
		byTool: make(map[string]int),
	}
}

// Record appends a call record, evicting the oldest entries beyond
// HistoryCap, and bumps the per-tool and total counters. The client key
// is masked before storage.
func (l *Log) Record(tool, query, libraryID, clientKey string, success bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.history = append(l.history, Record{
		ID:        uuid.NewString(),
		Time:      l.clock.Now(),
		Tool:      tool,
		Query:     query,
		LibraryID: libraryID,
		ClientKey: MaskClientKey(clientKey),
		Success:   success,
	})
	if len(l.history) > HistoryCap {
		l.history = l.history[len(l.history)-HistoryCap:]
	}

	l.byTool[tool]++
	l.total++
}

// History returns a copy of the retained records in arrival order.
func (l *Log) History() []Record {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Record, len(l.history))
	copy(out, l.history)
	return out
}

// Counts returns a copy of the per-tool counters and the total.
func (l *Log) Counts() (map[string]int, int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	byTool := make(map[string]int, len(l.byTool))
	for k, v := range l.byTool {
		byTool[k] = v
	}
	return byTool, l.total
}

// MaskClientKey irreversibly truncates a client key for storage, keeping
// a stable prefix of at most half the key, capped at maskedPrefixLen
// runes. At least half of every key is dropped, so the full address can
// never be recovered; the prefix stays stable per key for correlation.
func MaskClientKey(key string) string {
	if key == "" {
		return ""
	}
	runes := []rune(key)
	keep := len(runes) / 2
	if keep > maskedPrefixLen {
		keep = maskedPrefixLen
	}
	return string(runes[:keep]) + "***"
}

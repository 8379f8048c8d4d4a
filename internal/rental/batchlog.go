package rental

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"leasecli/pkg/contracts/domain"
)

// BatchLog captures the human-readable log lines of one batch run while
// mirroring every line to the structured logger. A fresh BatchLog is
// created per invocation so no lines leak between batches.
type BatchLog struct {
	mu      sync.Mutex
	entries []domain.LogEntry
	logger  *slog.Logger
}

// NewBatchLog returns a batch log that mirrors to the given logger.
func NewBatchLog(logger *slog.Logger) *BatchLog {
	if logger == nil {
		logger = slog.Default()
	}
	return &BatchLog{logger: logger}
}

// Info records an INFO line.
func (b *BatchLog) Info(ctx context.Context, msg string) {
	b.append(domain.LogLevelInfo, msg)
	b.logger.InfoContext(ctx, msg)
}

// Warning records a WARNING line.
func (b *BatchLog) Warning(ctx context.Context, msg string) {
	b.append(domain.LogLevelWarning, msg)
	b.logger.WarnContext(ctx, msg)
}

// Error records an ERROR line.
func (b *BatchLog) Error(ctx context.Context, msg string) {
	b.append(domain.LogLevelError, msg)
	b.logger.ErrorContext(ctx, msg)
}

func (b *BatchLog) append(level, msg string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.entries = append(b.entries, domain.LogEntry{
		Time:    time.Now(),
		Level:   level,
		Message: msg,
	})
}

// Entries returns a copy of the captured lines in append order.
func (b *BatchLog) Entries() []domain.LogEntry {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]domain.LogEntry, len(b.entries))
	copy(out, b.entries)
	return out
}

// Len returns the number of captured lines.
func (b *BatchLog) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.entries)
}

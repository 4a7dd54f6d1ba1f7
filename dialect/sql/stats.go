package sql

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"
)

// ExecStats holds statement execution statistics.
type ExecStats struct {
	// Statements is the number of statements executed.
	Statements atomic.Int64
	// Duration is the total time spent executing statements.
	Duration atomic.Int64 // nanoseconds
	// Slow is the count of statements exceeding the slow threshold.
	Slow atomic.Int64
	// Errors is the count of failed statements.
	Errors atomic.Int64
}

// Snapshot returns a snapshot of the current statistics.
func (s *ExecStats) Snapshot() StatsSnapshot {
	return StatsSnapshot{
		Statements: s.Statements.Load(),
		Duration:   time.Duration(s.Duration.Load()),
		Slow:       s.Slow.Load(),
		Errors:     s.Errors.Load(),
	}
}

// StatsSnapshot is a point-in-time snapshot of execution statistics.
type StatsSnapshot struct {
	Statements int64
	Duration   time.Duration
	Slow       int64
	Errors     int64
}

// Avg returns the average statement duration.
func (s StatsSnapshot) Avg() time.Duration {
	if s.Statements == 0 {
		return 0
	}
	return s.Duration / time.Duration(s.Statements)
}

// String returns a human-readable summary of the statistics.
func (s StatsSnapshot) String() string {
	return fmt.Sprintf("statements=%d duration=%s avg=%s slow=%d errors=%d",
		s.Statements, s.Duration, s.Avg(), s.Slow, s.Errors)
}

// Executor executes a single statement.
type Executor interface {
	Exec(ctx context.Context, stmt string) error
}

// StatsDriver wraps an Executor with statistics collection and logs
// statements that exceed the slow threshold.
type StatsDriver struct {
	Executor
	stats         *ExecStats
	slowThreshold time.Duration
	logger        *slog.Logger
}

// StatsOption configures the StatsDriver.
type StatsOption func(*StatsDriver)

// WithSlowThreshold sets the threshold for slow statement detection.
// Default is 1s.
func WithSlowThreshold(d time.Duration) StatsOption {
	return func(s *StatsDriver) {
		s.slowThreshold = d
	}
}

// WithLogger sets the logger of executed and slow statements.
func WithLogger(l *slog.Logger) StatsOption {
	return func(s *StatsDriver) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewStatsDriver wraps an Executor with statistics collection.
func NewStatsDriver(e Executor, opts ...StatsOption) *StatsDriver {
	s := &StatsDriver{
		Executor:      e,
		stats:         &ExecStats{},
		slowThreshold: time.Second,
		logger:        slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Stats returns the underlying statistics.
func (d *StatsDriver) Stats() *ExecStats {
	return d.stats
}

// Exec executes a statement and records statistics.
func (d *StatsDriver) Exec(ctx context.Context, stmt string) error {
	start := time.Now()
	err := d.Executor.Exec(ctx, stmt)
	duration := time.Since(start)
	d.stats.Statements.Add(1)
	d.stats.Duration.Add(int64(duration))
	if err != nil {
		d.stats.Errors.Add(1)
	}
	if duration > d.slowThreshold {
		d.stats.Slow.Add(1)
		d.logger.Warn("slow statement", "duration", duration, "statement", stmt)
	} else {
		d.logger.Debug("executed statement", "duration", duration, "statement", stmt)
	}
	return err
}

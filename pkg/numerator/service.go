// Package numerator provides PostgreSQL-backed document auto-numbering.
// Counters live in sys_sequences, one row per key.
package numerator

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	core "airsolutions/internal/core/numerator"
)

// Config is re-exported so callers need a single import.
type Config = core.Config

// DefaultConfig returns yearly numbering: PREFIX-YEAR-00001.
func DefaultConfig(prefix string) Config { return core.DefaultConfig(prefix) }

// Querier interface for database operations.
// Both *pgxpool.Pool and the tx-aware querier satisfy it.
type Querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// QuerierFunc resolves the querier per call, so numbers taken inside a
// business transaction roll back together with it.
type QuerierFunc func(ctx context.Context) Querier

// Service provides document numbering functionality.
type Service struct {
	querier QuerierFunc
}

var _ core.Generator = (*Service)(nil)

// New creates a numerator service over a fixed querier.
func New(querier Querier) *Service {
	return NewWithResolver(func(context.Context) Querier { return querier })
}

// NewWithResolver creates a numerator service that picks its querier from ctx.
func NewWithResolver(resolve QuerierFunc) *Service {
	return &Service{querier: resolve}
}

// GetNextNumber bumps the series counter with UPSERT + RETURNING and formats it.
// Pattern: PREFIX-YEAR-XXXXX or PREFIX-XXXXX when the year is excluded.
func (s *Service) GetNextNumber(ctx context.Context, cfg Config, period time.Time) (string, error) {
	if s == nil {
		return "", fmt.Errorf("numerator service is not initialized")
	}
	if cfg.Prefix == "" {
		return "", fmt.Errorf("numerator prefix is required")
	}

	var num int64
	err := s.querier(ctx).QueryRow(ctx, `
		INSERT INTO sys_sequences (key, current_val)
		VALUES ($1, 1)
		ON CONFLICT (key) DO UPDATE SET current_val = sys_sequences.current_val + 1
		RETURNING current_val
	`, buildKey(cfg, period)).Scan(&num)
	if err != nil {
		return "", fmt.Errorf("next number: %w", err)
	}
	return formatNumber(cfg, period, num), nil
}

func buildKey(cfg Config, period time.Time) string {
	if cfg.ResetPeriod == core.ResetYearly {
		return fmt.Sprintf("%s_%s", cfg.Prefix, period.Format("2006"))
	}
	return cfg.Prefix
}

func formatNumber(cfg Config, period time.Time, num int64) string {
	padWidth := cfg.PadWidth
	if padWidth == 0 {
		padWidth = 5
	}
	if cfg.IncludeYear {
		return fmt.Sprintf("%s-%s-%0*d", cfg.Prefix, period.Format("2006"), padWidth, num)
	}
	return fmt.Sprintf("%s-%0*d", cfg.Prefix, padWidth, num)
}

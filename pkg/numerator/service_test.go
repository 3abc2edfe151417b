package numerator

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockRow struct {
	val int64
	err error
}

func (m *mockRow) Scan(dest ...any) error {
	if m.err != nil {
		return m.err
	}
	if len(dest) > 0 {
		if ptr, ok := dest[0].(*int64); ok {
			*ptr = m.val
		}
	}
	return nil
}

// mockQuerier simulates sys_sequences keyed counters.
type mockQuerier struct {
	mu       sync.Mutex
	counters map[string]int64
	keys     []string
	err      error
}

func newMockQuerier() *mockQuerier {
	return &mockQuerier{counters: make(map[string]int64)}
}

func (m *mockQuerier) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return &mockRow{err: m.err}
	}

	key := args[0].(string)
	m.keys = append(m.keys, key)

	m.counters[key]++
	return &mockRow{val: m.counters[key]}
}

var period = time.Date(2026, time.March, 5, 10, 0, 0, 0, time.UTC)

func TestGetNextNumber_Strict(t *testing.T) {
	q := newMockQuerier()
	svc := New(q)
	ctx := context.Background()
	cfg := DefaultConfig("TEST")

	num, err := svc.GetNextNumber(ctx, cfg, period)
	require.NoError(t, err)
	assert.Equal(t, "TEST-2026-00001", num)

	num, err = svc.GetNextNumber(ctx, cfg, period)
	require.NoError(t, err)
	assert.Equal(t, "TEST-2026-00002", num)
	assert.Equal(t, []string{"TEST_2026", "TEST_2026"}, q.keys)
}

func TestGetNextNumber_ContinuousWithoutYear(t *testing.T) {
	q := newMockQuerier()
	svc := New(q)
	cfg := Config{Prefix: "FACTURA", PadWidth: 5, ResetPeriod: "never"}

	num, err := svc.GetNextNumber(context.Background(), cfg, period)
	require.NoError(t, err)
	assert.Equal(t, "FACTURA-00001", num)
	assert.Equal(t, []string{"FACTURA"}, q.keys)
}

func TestGetNextNumber_PropagatesDBError(t *testing.T) {
	q := newMockQuerier()
	q.err = errors.New("connection refused")
	svc := New(q)

	_, err := svc.GetNextNumber(context.Background(), DefaultConfig("INV"), period)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "next number")
}

func TestGetNextNumber_RequiresPrefix(t *testing.T) {
	svc := New(newMockQuerier())
	_, err := svc.GetNextNumber(context.Background(), Config{}, period)
	assert.Error(t, err)
}

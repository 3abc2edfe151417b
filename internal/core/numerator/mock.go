package numerator

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// MockGenerator is an in-memory Generator for unit tests.
// It counts per prefix and formats like the real service.
type MockGenerator struct {
	mu       sync.Mutex
	counters map[string]int64
}

// GetNextNumber implements Generator.
func (m *MockGenerator) GetNextNumber(_ context.Context, cfg Config, _ time.Time) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.counters == nil {
		m.counters = make(map[string]int64)
	}
	m.counters[cfg.Prefix]++
	return fmt.Sprintf("%s-%05d", cfg.Prefix, m.counters[cfg.Prefix]), nil
}

var _ Generator = (*MockGenerator)(nil)

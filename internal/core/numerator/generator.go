// Package numerator defines document code generation. The PostgreSQL
// implementation lives in pkg/numerator; MockGenerator serves unit tests.
package numerator

import (
	"context"
	"time"
)

// Generator hands out human-readable document codes such as FACTURA-00042.
// Numbers are taken inside the caller's transaction, so a rolled back
// document leaves no gap.
type Generator interface {
	// GetNextNumber returns the next code of the series. period picks the
	// counter for yearly series and is ignored otherwise.
	GetNextNumber(ctx context.Context, cfg Config, period time.Time) (string, error)
}

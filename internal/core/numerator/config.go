package numerator

// Reset periods.
const (
	ResetYearly = "year"
	ResetNever  = "never"
)

// Config describes one numbering series.
type Config struct {
	Prefix      string // e.g. "FAC"; required
	IncludeYear bool   // FAC-2026-00001 instead of FAC-00001
	PadWidth    int    // minimum digits, 5 when zero
	ResetPeriod string // ResetYearly or ResetNever
}

// DefaultConfig returns a series restarting every year: PREFIX-YEAR-00001.
func DefaultConfig(prefix string) Config {
	return Config{Prefix: prefix, IncludeYear: true, PadWidth: 5, ResetPeriod: ResetYearly}
}

// ContinuousConfig returns a series that never restarts: PREFIX-00001.
// Invoice codes use it.
func ContinuousConfig(prefix string) Config {
	return Config{Prefix: prefix, PadWidth: 5, ResetPeriod: ResetNever}
}

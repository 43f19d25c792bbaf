// Package numerator provides domain contracts for sequential codes.
package numerator

import "fmt"

// Config holds code formatting configuration.
type Config struct {
	// PadWidth is the zero-padded width of a code (default 6)
	PadWidth int
}

// DefaultConfig returns the 6-digit layout used by every table.
func DefaultConfig() Config {
	return Config{PadWidth: 6}
}

// Format renders n zero-padded to the configured width.
func (c Config) Format(n int64) string {
	width := c.PadWidth
	if width <= 0 {
		width = DefaultConfig().PadWidth
	}
	return fmt.Sprintf("%0*d", width, n)
}

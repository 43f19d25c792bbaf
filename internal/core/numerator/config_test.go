package numerator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfig_Format(t *testing.T) {
	cfg := DefaultConfig()

	tests := []struct {
		n    int64
		want string
	}{
		{1, "000001"},
		{42, "000042"},
		{1000, "001000"},
		{1000000, "1000000"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, cfg.Format(tt.n))
		})
	}
}

func TestConfig_FormatZeroWidthFallsBack(t *testing.T) {
	assert.Equal(t, "000007", Config{}.Format(7))
}

package numerator

import (
	"context"

	"psi/internal/core/entity"
)

// MockGenerator is a test implementation of Generator.
// Use in unit tests to avoid database dependencies.
type MockGenerator struct {
	NextCodeFunc func(ctx context.Context, meta entity.Meta, scope entity.Scope) (string, error)
}

// NextCode implements Generator.
func (m *MockGenerator) NextCode(ctx context.Context, meta entity.Meta, scope entity.Scope) (string, error) {
	if m.NextCodeFunc != nil {
		return m.NextCodeFunc(ctx, meta, scope)
	}
	return "000001", nil
}

// Ensure compile-time interface compliance.
var _ Generator = (*MockGenerator)(nil)

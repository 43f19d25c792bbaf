package numerator

import (
	"context"

	"psi/internal/core/entity"
)

// Generator hands out the next code of a table.
// Implementations live in infrastructure layer.
type Generator interface {
	// NextCode returns max(code)+1 zero-padded to 6 digits, or "000001" when
	// the table (or the organization's part of it) is empty.
	NextCode(ctx context.Context, meta entity.Meta, scope entity.Scope) (string, error)
}

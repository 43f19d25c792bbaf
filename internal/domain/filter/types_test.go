package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestItem_Validate(t *testing.T) {
	allowed := []string{"sales_amount", "sales_profit"}

	assert.NoError(t, Item{Field: "sales_amount", Operator: Greater, Value: 10}.Validate(allowed))
	assert.Error(t, Item{Field: "name; DROP TABLE x", Operator: Equal}.Validate(allowed))
	assert.Error(t, Item{Field: "sales_amount", Operator: "between"}.Validate(allowed))
}

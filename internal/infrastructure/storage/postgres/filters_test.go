package postgres

import (
	"testing"

	"github.com/Masterminds/squirrel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"psi/internal/core/apperror"
	"psi/internal/domain/filter"
)

func TestApplyFilters(t *testing.T) {
	builder := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	allowed := []string{"name", "sales_amount", "remark"}

	tests := []struct {
		name     string
		filters  []filter.Item
		expected string
		args     []any
	}{
		{
			name:     "greater than",
			filters:  []filter.Item{{Field: "sales_amount", Operator: filter.Greater, Value: 100}},
			expected: "SELECT id, name FROM test_table WHERE sales_amount > $1",
			args:     []any{100},
		},
		{
			name:     "less or equal",
			filters:  []filter.Item{{Field: "sales_amount", Operator: filter.LessOrEqual, Value: 5}},
			expected: "SELECT id, name FROM test_table WHERE sales_amount <= $1",
			args:     []any{5},
		},
		{
			name:     "contains",
			filters:  []filter.Item{{Field: "name", Operator: filter.Contains, Value: "acme"}},
			expected: "SELECT id, name FROM test_table WHERE name ILIKE $1",
			args:     []any{"%acme%"},
		},
		{
			name:     "in list",
			filters:  []filter.Item{{Field: "name", Operator: filter.InList, Value: []string{"a", "b"}}},
			expected: "SELECT id, name FROM test_table WHERE name IN ($1,$2)",
			args:     []any{"a", "b"},
		},
		{
			name:     "is null",
			filters:  []filter.Item{{Field: "remark", Operator: filter.IsNull}},
			expected: "SELECT id, name FROM test_table WHERE remark IS NULL",
		},
		{
			name: "combined",
			filters: []filter.Item{
				{Field: "sales_amount", Operator: filter.GreaterOrEqual, Value: 1},
				{Field: "name", Operator: filter.NotEqual, Value: "x"},
			},
			expected: "SELECT id, name FROM test_table WHERE sales_amount >= $1 AND name <> $2",
			args:     []any{1, "x"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := builder.Select("id", "name").From("test_table")
			q, err := ApplyFilters(q, tt.filters, allowed)
			require.NoError(t, err)

			sql, args, err := q.ToSql()
			require.NoError(t, err)
			assert.Equal(t, tt.expected, sql)
			if tt.args == nil {
				assert.Empty(t, args)
			} else {
				assert.Equal(t, tt.args, args)
			}
		})
	}
}

func TestApplyFilters_RejectsUnknownColumn(t *testing.T) {
	q := squirrel.Select("id").From("t")
	_, err := ApplyFilters(q, []filter.Item{{Field: "password_hash", Operator: filter.Equal, Value: "x"}}, []string{"name"})

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)
}

func TestParseOrderBy(t *testing.T) {
	allowed := []string{"name", "sales_profit"}

	got, err := ParseOrderBy("", allowed, "name ASC")
	require.NoError(t, err)
	assert.Equal(t, "name ASC", got)

	got, err = ParseOrderBy("-sales_profit", allowed, "name ASC")
	require.NoError(t, err)
	assert.Equal(t, "sales_profit DESC", got)

	got, err = ParseOrderBy("+name", allowed, "")
	require.NoError(t, err)
	assert.Equal(t, "name ASC", got)

	_, err = ParseOrderBy("-", allowed, "")
	assert.Error(t, err)

	_, err = ParseOrderBy("id; DROP TABLE x", allowed, "")
	assert.Error(t, err)
}

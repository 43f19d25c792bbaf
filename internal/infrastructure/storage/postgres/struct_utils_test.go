package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"psi/internal/core/entity"
	"psi/internal/core/id"
)

type mockCatalog struct {
	entity.BaseCatalog
	entity.OrganizationOwned
	Code    string `db:"code" json:"code"`
	Name    string `db:"name" json:"name"`
	Lines   []int  `json:"lines"`
	Ignored string `db:"-"`
}

func TestExtractDBColumns_Order(t *testing.T) {
	cols := ExtractDBColumns[mockCatalog]()

	assert.Equal(t, []string{
		"id", "deletion_mark", "version", "organization_id", "code", "name",
	}, cols)
}

func TestStructToMap(t *testing.T) {
	orgID := id.New()
	cat := mockCatalog{
		BaseCatalog: entity.BaseCatalog{
			BaseEntity:   entity.BaseEntity{ID: id.New()},
			DeletionMark: true,
			Version:      5,
		},
		OrganizationOwned: entity.OrganizationOwned{OrganizationID: orgID},
		Code:              "000001",
		Name:              "Acme",
		Ignored:           "x",
	}

	m := StructToMap(&cat)

	assert.Equal(t, cat.ID, m["id"])
	assert.Equal(t, true, m["deletion_mark"])
	assert.Equal(t, 5, m["version"])
	assert.Equal(t, orgID, m["organization_id"])
	assert.Equal(t, "000001", m["code"])
	assert.Equal(t, "Acme", m["name"])
	assert.NotContains(t, m, "-")
	assert.Len(t, m, 6)
}

func TestStructToColumns_NilAndNonStruct(t *testing.T) {
	var nilCat *mockCatalog
	cols, vals := StructToColumns(nilCat)
	assert.Nil(t, cols)
	assert.Nil(t, vals)

	cols, _ = StructToColumns(42)
	assert.Nil(t, cols)
}

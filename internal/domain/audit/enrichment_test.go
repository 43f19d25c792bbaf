package audit

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	appctx "psi/internal/core/context"
	"psi/internal/core/entity"
)

func TestEnrichCreatedBy(t *testing.T) {
	doc := entity.NewBaseDocument()
	ctx := appctx.WithUser(context.Background(), &appctx.UserContext{UserID: "u-1"})

	assert.NoError(t, EnrichCreatedBy(ctx, &doc))
	assert.Equal(t, "u-1", doc.CreatedBy)
	assert.Equal(t, "u-1", doc.UpdatedBy)
}

func TestEnrichUpdatedBy_NoUser(t *testing.T) {
	doc := entity.NewBaseDocument()
	doc.UpdatedBy = "before"

	assert.NoError(t, EnrichUpdatedBy(context.Background(), &doc))
	assert.Equal(t, "before", doc.UpdatedBy)
}

func TestEnrich_IgnoresEntitiesWithoutAuditFields(t *testing.T) {
	ctx := appctx.WithUser(context.Background(), &appctx.UserContext{UserID: "u-1"})
	cat := entity.NewBaseCatalog()

	assert.NoError(t, EnrichCreatedBy(ctx, &cat))
}

package domain

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"psi/internal/core/apperror"
	appctx "psi/internal/core/context"
	"psi/internal/core/entity"
	"psi/internal/core/id"
	"psi/internal/core/numerator"
)

type testItem struct {
	entity.Catalog
}

type inlineTx struct{ runs int }

func (m *inlineTx) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	m.runs++
	return fn(ctx)
}

type memRepo struct {
	items     map[id.ID]*testItem
	createErr []error
}

func newMemRepo() *memRepo {
	return &memRepo{items: make(map[id.ID]*testItem)}
}

func (r *memRepo) Create(_ context.Context, e *testItem) error {
	if len(r.createErr) > 0 {
		err := r.createErr[0]
		r.createErr = r.createErr[1:]
		if err != nil {
			return err
		}
	}
	r.items[e.ID] = e
	return nil
}

func (r *memRepo) GetByID(_ context.Context, entityID id.ID) (*testItem, error) {
	if e, ok := r.items[entityID]; ok {
		return e, nil
	}
	return nil, apperror.NewNotFound("item", entityID.String())
}

func (r *memRepo) GetByCode(_ context.Context, code string) (*testItem, error) {
	for _, e := range r.items {
		if e.Code == code {
			return e, nil
		}
	}
	return nil, apperror.NewNotFound("item", code)
}

func (r *memRepo) Update(_ context.Context, e *testItem) error {
	r.items[e.ID] = e
	return nil
}

func (r *memRepo) SetDeletionMark(_ context.Context, entityID id.ID, marked bool) error {
	e, ok := r.items[entityID]
	if !ok {
		return apperror.NewNotFound("item", entityID.String())
	}
	e.DeletionMark = marked
	return nil
}

func (r *memRepo) List(context.Context, ListFilter) (ListResult[*testItem], error) {
	return ListResult[*testItem]{}, nil
}

func (r *memRepo) Exists(_ context.Context, entityID id.ID) (bool, error) {
	_, ok := r.items[entityID]
	return ok, nil
}

func (r *memRepo) FindByName(_ context.Context, name string) (*testItem, bool, error) {
	for _, e := range r.items {
		if e.Name == name {
			return e, true, nil
		}
	}
	return nil, false, nil
}

func (r *memRepo) FindByExternalID(context.Context, string) (*testItem, bool, error) {
	return nil, false, nil
}

func (r *memRepo) ListForOrganization(context.Context) ([]*testItem, error) {
	return nil, nil
}

var itemMeta = entity.Meta{Table: "item", Entity: "item", OrgScoped: true}

func userContext(orgID id.ID) context.Context {
	return appctx.WithUser(context.Background(), &appctx.UserContext{UserID: "u1", OrganizationID: orgID})
}

func newService(repo *memRepo, gen numerator.Generator) (*CatalogService[*testItem], *inlineTx) {
	txm := &inlineTx{}
	return NewCatalogService(CatalogServiceConfig[*testItem]{
		Repo:      repo,
		TxManager: txm,
		Numerator: gen,
		Meta:      itemMeta,
	}), txm
}

func TestCatalogService_Create_AssignsOrganizationAndCode(t *testing.T) {
	orgID := id.New()
	repo := newMemRepo()
	var gotScope entity.Scope
	svc, txm := newService(repo, &numerator.MockGenerator{
		NextCodeFunc: func(_ context.Context, meta entity.Meta, scope entity.Scope) (string, error) {
			assert.Equal(t, "item", meta.Table)
			gotScope = scope
			return "000042", nil
		},
	})

	item := &testItem{Catalog: entity.NewCatalog("", "Widget")}
	require.NoError(t, svc.Create(userContext(orgID), item))

	assert.Equal(t, orgID, item.OrganizationID)
	assert.Equal(t, orgID, gotScope.OrganizationID)
	assert.Equal(t, "000042", item.Code)
	assert.Equal(t, 1, txm.runs)
	assert.Contains(t, repo.items, item.ID)
}

func TestCatalogService_Create_KeepsExplicitCode(t *testing.T) {
	svc, _ := newService(newMemRepo(), &numerator.MockGenerator{
		NextCodeFunc: func(context.Context, entity.Meta, entity.Scope) (string, error) {
			return "", errors.New("must not be called")
		},
	})

	item := &testItem{Catalog: entity.NewCatalog("A-1", "Widget")}
	require.NoError(t, svc.Create(userContext(id.New()), item))
	assert.Equal(t, "A-1", item.Code)
}

func TestCatalogService_Create_RetriesDuplicateGeneratedCode(t *testing.T) {
	repo := newMemRepo()
	repo.createErr = []error{apperror.NewDuplicate("item", "code", "000001"), nil}
	next := 0
	svc, txm := newService(repo, &numerator.MockGenerator{
		NextCodeFunc: func(context.Context, entity.Meta, entity.Scope) (string, error) {
			next++
			return []string{"000001", "000002"}[next-1], nil
		},
	})

	item := &testItem{Catalog: entity.NewCatalog("", "Widget")}
	require.NoError(t, svc.Create(userContext(id.New()), item))
	assert.Equal(t, "000002", item.Code)
	assert.Equal(t, 2, txm.runs)
}

func TestCatalogService_Create_GivesUpAfterAttempts(t *testing.T) {
	repo := newMemRepo()
	for i := 0; i < codeAttempts; i++ {
		repo.createErr = append(repo.createErr, apperror.NewDuplicate("item", "code", "x"))
	}
	svc, _ := newService(repo, &numerator.MockGenerator{})

	err := svc.Create(userContext(id.New()), &testItem{Catalog: entity.NewCatalog("", "Widget")})
	assert.True(t, apperror.IsDuplicate(err))
}

func TestCatalogService_Create_ValidationAndHooks(t *testing.T) {
	svc, txm := newService(newMemRepo(), &numerator.MockGenerator{})

	err := svc.Create(userContext(id.New()), &testItem{Catalog: entity.NewCatalog("", "")})
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)
	assert.Zero(t, txm.runs)

	veto := apperror.NewBusinessRule("VETO", "nope")
	svc.Hooks().OnBeforeCreate(func(context.Context, *testItem) error { return veto })
	err = svc.Create(userContext(id.New()), &testItem{Catalog: entity.NewCatalog("", "Widget")})
	assert.ErrorIs(t, err, veto)
	assert.Zero(t, txm.runs)
}

func TestCatalogService_Delete_SetsMark(t *testing.T) {
	repo := newMemRepo()
	svc, _ := newService(repo, &numerator.MockGenerator{})
	ctx := userContext(id.New())

	item := &testItem{Catalog: entity.NewCatalog("", "Widget")}
	require.NoError(t, svc.Create(ctx, item))
	require.NoError(t, svc.Delete(ctx, item.ID))
	assert.True(t, repo.items[item.ID].DeletionMark)

	err := svc.Delete(ctx, id.New())
	assert.True(t, apperror.IsNotFound(err))
}

func TestCatalogService_FindByName(t *testing.T) {
	repo := newMemRepo()
	svc, _ := newService(repo, &numerator.MockGenerator{})
	ctx := userContext(id.New())

	item := &testItem{Catalog: entity.NewCatalog("", "Widget")}
	require.NoError(t, svc.Create(ctx, item))

	got, found, err := svc.FindByName(ctx, "Widget")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, item.ID, got.ID)

	_, found, err = svc.FindByName(ctx, "Gadget")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestCatalogService_AfterHooksDoNotFailTheWrite(t *testing.T) {
	repo := newMemRepo()
	svc, _ := newService(repo, &numerator.MockGenerator{})
	ctx := userContext(id.New())

	var events []string
	record := func(name string) Hook[*testItem] {
		return func(context.Context, *testItem) error {
			events = append(events, name)
			return errors.New(name + " failed")
		}
	}
	svc.Hooks().OnAfterCreate(record("create"))
	svc.Hooks().OnAfterUpdate(record("update"))
	svc.Hooks().OnBeforeDelete(func(context.Context, *testItem) error {
		events = append(events, "before-delete")
		return nil
	})
	svc.Hooks().OnAfterDelete(record("delete"))

	item := &testItem{Catalog: entity.NewCatalog("", "Widget")}
	require.NoError(t, svc.Create(ctx, item))
	item.Name = "Gadget"
	require.NoError(t, svc.Update(ctx, item))
	require.NoError(t, svc.Delete(ctx, item.ID))

	assert.Equal(t, []string{"create", "update", "before-delete", "delete"}, events)
	assert.True(t, repo.items[item.ID].DeletionMark)
}

package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"contabil-site/internal/core"
	"contabil-site/internal/features/catalog/migrations"
	"contabil-site/internal/features/catalog/models"
)

func newTestService(t *testing.T) *CatalogService {
	t.Helper()

	logger := core.NewDiscardLogger()
	db, err := core.OpenSQLite(":memory:", logger)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, migrations.NewManager(db, logger).Migrate(context.Background()))

	return NewCatalogService(db, logger)
}

func ptr[T any](v T) *T { return &v }

func TestCreateDerivesSlug(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	service, err := svc.Create(ctx, models.ServiceCreate{Name: "  Planejamento Tributário ", Position: 2})
	require.NoError(t, err)

	assert.Positive(t, service.ID)
	assert.Equal(t, "Planejamento Tributário", service.Name)
	assert.Equal(t, "planejamento-tributario", service.Slug)
	assert.True(t, service.Active)

	got, err := svc.GetBySlug(ctx, "planejamento-tributario")
	require.NoError(t, err)
	assert.Equal(t, service.ID, got.ID)
	assert.Equal(t, 2, got.Position)
}

func TestCreateRejectsBadNames(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, models.ServiceCreate{Name: "   "})
	var appErr *core.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, core.ErrCodeValidation, appErr.Code)

	_, err = svc.Create(ctx, models.ServiceCreate{Name: "!!!"})
	assert.ErrorIs(t, err, ErrEmptySlug)

	_, err = svc.Create(ctx, models.ServiceCreate{Name: "Folha de Pagamento"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, models.ServiceCreate{Name: "folha de pagamento!"})
	assert.ErrorIs(t, err, ErrDuplicateSlug)
}

func TestListOrdersAndFilters(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, models.ServiceCreate{Name: "MEI", Position: 3})
	require.NoError(t, err)
	_, err = svc.Create(ctx, models.ServiceCreate{Name: "Abertura de Empresa", Position: 1})
	require.NoError(t, err)
	_, err = svc.Create(ctx, models.ServiceCreate{Name: "Consultoria", Position: 2, Active: ptr(false)})
	require.NoError(t, err)

	all, err := svc.List(ctx, false)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "abertura-de-empresa", all[0].Slug)
	assert.Equal(t, "consultoria", all[1].Slug)
	assert.Equal(t, "mei", all[2].Slug)

	active, err := svc.List(ctx, true)
	require.NoError(t, err)
	require.Len(t, active, 2)
	assert.Equal(t, "mei", active[1].Slug)
}

func TestUpdateAndDelete(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, models.ServiceCreate{Name: "IRPF"})
	require.NoError(t, err)
	other, err := svc.Create(ctx, models.ServiceCreate{Name: "MEI"})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, created.ID, models.ServiceUpdate{
		Name:   ptr("Imposto de Renda"),
		Active: ptr(false),
	})
	require.NoError(t, err)
	assert.Equal(t, "imposto-de-renda", updated.Slug)
	assert.False(t, updated.Active)

	_, err = svc.Update(ctx, other.ID, models.ServiceUpdate{Name: ptr("Imposto de renda")})
	assert.ErrorIs(t, err, ErrDuplicateSlug)

	_, err = svc.Update(ctx, 999, models.ServiceUpdate{})
	assert.ErrorIs(t, err, ErrServiceNotFound)

	require.NoError(t, svc.Delete(ctx, created.ID))
	assert.ErrorIs(t, svc.Delete(ctx, created.ID), ErrServiceNotFound)

	_, err = svc.Get(ctx, created.ID)
	assert.ErrorIs(t, err, ErrServiceNotFound)
}

func TestSeedOnlyFillsEmptyCatalog(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	seed := []models.ServiceCreate{
		{Name: "Abertura de Empresa", Position: 1},
		{Name: "MEI", Position: 2},
	}

	n, err := svc.Seed(ctx, seed)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	n, err = svc.Seed(ctx, seed)
	require.NoError(t, err)
	assert.Zero(t, n)

	count, err := svc.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

package repositories_test

import (
	"context"
	"errors"
	"testing"

	"homemart/internal/database"
	"homemart/internal/database/dbtest"
	"homemart/internal/models"
	"homemart/internal/repositories"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStore(t *testing.T) *repositories.GORMStore {
	t.Helper()
	return repositories.NewGORMStore(dbtest.OpenSQLite(t), database.DefaultTxOptions())
}

func seedProduct(t *testing.T, repo repositories.ProductRepository, p models.Product) *models.Product {
	t.Helper()
	require.NoError(t, repo.Create(context.Background(), &p))
	return &p
}

func TestProductRepository_ListActiveWithVariants(t *testing.T) {
	ctx := context.Background()
	repo := newStore(t).Products()

	seedProduct(t, repo, models.Product{Name: "Escoba", Price: decimal.NewFromInt(4), Stock: 8, Active: true})
	seedProduct(t, repo, models.Product{Name: "Oculto", Price: decimal.NewFromInt(9), Stock: 1, Active: false})
	seedProduct(t, repo, models.Product{
		Name:   "Balde",
		Active: true,
		Variants: []models.Variant{
			{Name: "10L", Price: decimal.NewFromInt(6), Stock: 3},
			{Name: "20L", Price: decimal.NewFromInt(9), Stock: 0},
		},
	})

	active, err := repo.ListActive(ctx)
	require.NoError(t, err)
	require.Len(t, active, 2)
	assert.Equal(t, "Balde", active[0].Name)
	require.Len(t, active[0].Variants, 2)
	assert.Equal(t, "10L", active[0].Variants[0].Name)
	assert.Equal(t, "Escoba", active[1].Name)

	all, err := repo.GetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestProductRepository_UpdateReplacesVariants(t *testing.T) {
	ctx := context.Background()
	repo := newStore(t).Products()

	p := seedProduct(t, repo, models.Product{
		Name:     "Pintura",
		Active:   true,
		Variants: []models.Variant{{Name: "Blanco", Price: decimal.NewFromInt(10), Stock: 2}},
	})

	p.Name = "Pintura Latex"
	p.Active = false
	p.Variants = []models.Variant{
		{Name: "Gris", Price: decimal.NewFromInt(11), Stock: 5},
		{Name: "Negro", Price: decimal.NewFromInt(12), Stock: 1},
	}
	require.NoError(t, repo.Update(ctx, p))

	got, err := repo.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Pintura Latex", got.Name)
	assert.False(t, got.Active)
	require.Len(t, got.Variants, 2)
	_, ok := got.FindVariant("Blanco")
	assert.False(t, ok)

	err = repo.Update(ctx, &models.Product{ID: "missing", Name: "Nada"})
	assert.ErrorIs(t, err, database.ErrProductNotFound)
}

func TestProductRepository_Delete(t *testing.T) {
	ctx := context.Background()
	repo := newStore(t).Products()

	p := seedProduct(t, repo, models.Product{Name: "Martillo", Price: decimal.NewFromInt(7), Variants: []models.Variant{{Name: "S", Price: decimal.NewFromInt(7), Stock: 1}}})
	require.NoError(t, repo.Delete(ctx, p.ID))

	_, err := repo.GetByID(ctx, p.ID)
	assert.ErrorIs(t, err, database.ErrProductNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, p.ID), database.ErrProductNotFound)
}

func TestProductRepository_DecrementStockNeverNegative(t *testing.T) {
	ctx := context.Background()
	repo := newStore(t).Products()

	p := seedProduct(t, repo, models.Product{Name: "Clavos", Price: decimal.NewFromInt(1), Stock: 5})

	require.NoError(t, repo.DecrementStock(ctx, p.ID, 3))
	err := repo.DecrementStock(ctx, p.ID, 3)
	assert.ErrorIs(t, err, database.ErrInsufficientStock)
	require.NoError(t, repo.DecrementStock(ctx, p.ID, 2))

	got, err := repo.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.Stock)

	assert.ErrorIs(t, repo.DecrementStock(ctx, "missing", 1), database.ErrProductNotFound)
}

func TestProductRepository_DecrementVariantStock(t *testing.T) {
	ctx := context.Background()
	repo := newStore(t).Products()

	p := seedProduct(t, repo, models.Product{
		Name:  "Foco",
		Stock: 100,
		Variants: []models.Variant{
			{Name: "LED", Price: decimal.NewFromInt(3), Stock: 2},
			{Name: "Halogeno", Price: decimal.NewFromInt(2), Stock: 9},
		},
	})

	require.NoError(t, repo.DecrementVariantStock(ctx, p.ID, "LED", 2))
	assert.ErrorIs(t, repo.DecrementVariantStock(ctx, p.ID, "LED", 1), database.ErrInsufficientStock)
	assert.ErrorIs(t, repo.DecrementVariantStock(ctx, p.ID, "Neon", 1), database.ErrVariantNotFound)

	got, err := repo.GetByID(ctx, p.ID)
	require.NoError(t, err)
	led, _ := got.FindVariant("LED")
	halogen, _ := got.FindVariant("Halogeno")
	assert.Equal(t, 0, led.Stock)
	assert.Equal(t, 9, halogen.Stock)
	assert.Equal(t, 100, got.Stock, "variant sales leave the base stock alone")
}

func TestCounterRepository_NextPerDay(t *testing.T) {
	ctx := context.Background()
	counters := newStore(t).Counters()

	for want := 1; want <= 3; want++ {
		got, err := counters.Next(ctx, "20261017")
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	got, err := counters.Next(ctx, "20261018")
	require.NoError(t, err)
	assert.Equal(t, 1, got)
}

func TestStore_TransactionRollsBackCounter(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)

	boom := errors.New("boom")
	err := store.Transaction(ctx, func(tx repositories.Store) error {
		if _, err := tx.Counters().Next(ctx, "20261017"); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	seq, err := store.Counters().Next(ctx, "20261017")
	require.NoError(t, err)
	assert.Equal(t, 1, seq)
}

func TestOrderRepository_CreateAndUpdate(t *testing.T) {
	ctx := context.Background()
	orders := newStore(t).Orders()

	order := &models.Order{
		ID:            "HM-20261017-001",
		Client:        "Ana",
		Phone:         "8888-8888",
		Address:       "Barrio Central",
		Method:        "Pedido Web",
		Status:        models.OrderStatusReceived,
		PaymentStatus: models.PaymentStatusPending,
		Total:         decimal.RequireFromString("25.50"),
		BoxID:         "WEB",
		IsDelivery:    true,
		Items: []models.OrderItem{
			{CartID: "p1", ProductID: "p1", Name: "Escoba", Price: decimal.RequireFromString("4.50"), Quantity: 3},
			{CartID: "p2-10L", ProductID: "p2", Name: "Balde", IsVariant: true, VariantName: "10L", Price: decimal.NewFromInt(12), Quantity: 1},
		},
	}
	require.NoError(t, orders.Create(ctx, order))

	got, err := orders.GetByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ana", got.Client)
	assert.True(t, got.Total.Equal(decimal.RequireFromString("25.5")))
	require.Len(t, got.Items, 2)
	assert.Equal(t, "10L", got.Items[1].VariantName)

	require.NoError(t, orders.UpdateStatus(ctx, order.ID, models.OrderStatusPreparing))
	require.NoError(t, orders.UpdatePaymentStatus(ctx, order.ID, models.PaymentStatusPaid))
	got, err = orders.GetByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusPreparing, got.Status)
	assert.Equal(t, models.PaymentStatusPaid, got.PaymentStatus)

	assert.ErrorIs(t, orders.UpdateStatus(ctx, "HM-20000101-001", models.OrderStatusCancelled), database.ErrOrderNotFound)
	_, err = orders.GetByID(ctx, "HM-20000101-001")
	assert.ErrorIs(t, err, database.ErrOrderNotFound)

	all, err := orders.GetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

package services_test

import (
	"context"
	"testing"

	"homemart/internal/database"
	"homemart/internal/models"
	"homemart/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCartService_AddPlainProduct(t *testing.T) {
	ctx := context.Background()
	s := newShop(t, nil)
	p := s.addProduct(t, models.Product{Name: "Escoba", Price: money("4.50"), Stock: 2, Image: "https://img.example.com/escoba.png"})

	cartID := s.cart.NewCartID()
	c, err := s.cart.AddToCart(ctx, cartID, p.ID, "")
	require.NoError(t, err)
	require.Len(t, c.Items, 1)

	line := c.Items[0]
	assert.Equal(t, p.ID, line.Key)
	assert.Equal(t, "Escoba", line.Name)
	assert.Equal(t, 2, line.MaxStock)
	assert.False(t, line.IsVariant)
	assert.True(t, line.Price.Equal(money("4.5")))

	_, err = s.cart.AddToCart(ctx, cartID, p.ID, "")
	require.NoError(t, err)
	_, err = s.cart.AddToCart(ctx, cartID, p.ID, "")
	assert.ErrorIs(t, err, models.ErrMaxStockReached)

	c, err = s.cart.GetCart(ctx, cartID)
	require.NoError(t, err)
	assert.Equal(t, 2, c.Items[0].Quantity)
	assert.True(t, c.Total().Equal(money("9")))
}

func TestCartService_AddVariant(t *testing.T) {
	ctx := context.Background()
	s := newShop(t, nil)
	p := s.addProduct(t, models.Product{Name: "Balde", Variants: []models.Variant{
		{Name: "10L", Price: money("6"), Stock: 1},
		{Name: "20L", Price: money("9"), Stock: 4},
	}})

	c, err := s.cart.AddToCart(ctx, "c1", p.ID, "20L")
	require.NoError(t, err)
	line := c.Items[0]
	assert.Equal(t, p.ID+"-20L", line.Key)
	assert.True(t, line.IsVariant)
	assert.Equal(t, "20L", line.VariantName)
	assert.Equal(t, 4, line.MaxStock)
	assert.True(t, line.Price.Equal(money("9")))

	c, err = s.cart.AddToCart(ctx, "c1", p.ID, "10L")
	require.NoError(t, err)
	assert.Len(t, c.Items, 2)

	_, err = s.cart.AddToCart(ctx, "c1", p.ID, "30L")
	assert.ErrorIs(t, err, database.ErrVariantNotFound)

	_, err = s.cart.AddToCart(ctx, "c1", p.ID, "")
	assert.ErrorIs(t, err, database.ErrVariantNotFound, "variant products need a variant")
}

func TestCartService_RejectsUnavailableProducts(t *testing.T) {
	ctx := context.Background()
	s := newShop(t, nil)

	hidden := models.Product{Name: "Oculto", Price: money("1"), Stock: 5}
	require.NoError(t, s.store.Products().Create(ctx, &hidden))

	_, err := s.cart.AddToCart(ctx, "c1", hidden.ID, "")
	assert.ErrorIs(t, err, services.ErrProductInactive)

	_, err = s.cart.AddToCart(ctx, "c1", "missing", "")
	assert.ErrorIs(t, err, database.ErrProductNotFound)

	soldOut := s.addProduct(t, models.Product{Name: "Agotado", Price: money("1"), Stock: 0})
	_, err = s.cart.AddToCart(ctx, "c1", soldOut.ID, "")
	assert.ErrorIs(t, err, models.ErrMaxStockReached)

	c, err := s.cart.GetCart(ctx, "c1")
	require.NoError(t, err)
	assert.True(t, c.IsEmpty())
}

func TestCartService_RemoveAndClear(t *testing.T) {
	ctx := context.Background()
	s := newShop(t, nil)
	p := s.addProduct(t, models.Product{Name: "Clavos", Price: money("0.25"), Stock: 100})

	for i := 0; i < 2; i++ {
		_, err := s.cart.AddToCart(ctx, "c1", p.ID, "")
		require.NoError(t, err)
	}

	c, err := s.cart.RemoveFromCart(ctx, "c1", p.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, c.Items[0].Quantity)

	c, err = s.cart.RemoveFromCart(ctx, "c1", p.ID)
	require.NoError(t, err)
	assert.True(t, c.IsEmpty())

	_, err = s.cart.AddToCart(ctx, "c1", p.ID, "")
	require.NoError(t, err)
	require.NoError(t, s.cart.ClearCart(ctx, "c1"))
	c, err = s.cart.GetCart(ctx, "c1")
	require.NoError(t, err)
	assert.True(t, c.IsEmpty())
}

package services_test

import (
	"context"
	"testing"
	"time"

	"homemart/internal/cart"
	"homemart/internal/config"
	"homemart/internal/database"
	"homemart/internal/database/dbtest"
	"homemart/internal/models"
	"homemart/internal/repositories"
	"homemart/internal/services"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

// MockPublisher is a mock implementation of services.OrderEventPublisher
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) PublishOrderCreated(event interface{}) error {
	args := m.Called(event)
	return args.Error(0)
}

type shop struct {
	store  *repositories.GORMStore
	carts  *cart.MemoryStore
	cart   *services.CartService
	orders *services.OrderService
}

var testOrderConfig = config.OrderConfig{
	IDPrefix: "HM",
	Location: time.UTC,
	Method:   "Pedido Web",
	BoxID:    "WEB",
}

func newShop(t *testing.T, publisher services.OrderEventPublisher) *shop {
	t.Helper()
	logger := zaptest.NewLogger(t)

	opts := database.DefaultTxOptions()
	opts.Backoff = time.Millisecond
	store := repositories.NewGORMStore(dbtest.OpenSQLite(t), opts)
	carts := cart.NewMemoryStore()

	return &shop{
		store:  store,
		carts:  carts,
		cart:   services.NewCartService(carts, store.Products(), logger),
		orders: services.NewOrderService(store, carts, publisher, testOrderConfig, logger),
	}
}

func (s *shop) addProduct(t *testing.T, p models.Product) *models.Product {
	t.Helper()
	p.Active = true
	require.NoError(t, s.store.Products().Create(context.Background(), &p))
	return &p
}

func (s *shop) stockOf(t *testing.T, id string) *models.Product {
	t.Helper()
	p, err := s.store.Products().GetByID(context.Background(), id)
	require.NoError(t, err)
	return p
}

func money(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

var customer = models.Customer{Name: "Juan Perez", Phone: "8888-8888", Address: "Barrio Central, casa 12"}

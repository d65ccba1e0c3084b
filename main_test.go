package main

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	amqp "github.com/streadway/amqp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"homemart/internal/config"
	"homemart/internal/database"
	"homemart/internal/models"
	"homemart/internal/repositories"
	"homemart/internal/services"
)

// useSQLiteFile points the CLI at a fresh SQLite file.
func useSQLiteFile(t *testing.T) config.DatabaseConfig {
	t.Helper()
	path := filepath.Join(t.TempDir(), "homemart.db")
	t.Setenv("DATABASE_DRIVER", "sqlite")
	t.Setenv("DATABASE_DSN", path)
	t.Setenv("LOG_LEVEL", "error")
	return config.DatabaseConfig{Driver: "sqlite", DSN: path}
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append(args, "--env-file", filepath.Join(t.TempDir(), "missing.env")))
	err := cmd.Execute()
	return out.String(), err
}

func TestSeedIsIdempotent(t *testing.T) {
	dbCfg := useSQLiteFile(t)

	out, err := run(t, "seed")
	require.NoError(t, err)
	assert.Contains(t, out, "Seeded 6 products")

	out, err = run(t, "seed")
	require.NoError(t, err)
	assert.Contains(t, out, "Seeded 0 products")

	db, err := database.Open(dbCfg)
	require.NoError(t, err)
	defer database.Close(db)

	repo := repositories.NewGORMProductRepository(db)
	all, err := repo.GetAll(context.Background())
	require.NoError(t, err)
	assert.Len(t, all, 6)

	active, err := repo.ListActive(context.Background())
	require.NoError(t, err)
	assert.Len(t, active, 5)
}

func TestCreateUserThenLogin(t *testing.T) {
	dbCfg := useSQLiteFile(t)

	out, err := run(t, "create-user", "--username", "admin", "--email", "admin@example.com", "--password", "secret123")
	require.NoError(t, err)
	assert.Contains(t, out, "Created staff user admin")

	_, err = run(t, "create-user", "--username", "admin", "--email", "other@example.com", "--password", "secret123")
	assert.ErrorIs(t, err, services.ErrUsernameTaken)

	_, err = run(t, "create-user", "--username", "bob", "--email", "not-an-email", "--password", "secret123")
	assert.Error(t, err)

	db, err := database.Open(dbCfg)
	require.NoError(t, err)
	defer database.Close(db)

	auth := services.NewAuthService(repositories.NewGORMUserRepository(db), config.AuthConfig{JWTSecret: "change_me"}, zap.NewNop())
	token, err := auth.LoginUser(context.Background(), "admin", "secret123")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
}

func TestMigrateRejectsBadConfig(t *testing.T) {
	t.Setenv("DATABASE_DRIVER", "mongo")
	_, err := run(t, "migrate")
	assert.ErrorContains(t, err, "unsupported DATABASE_DRIVER")
}

func TestOrderEventLogger(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	handle := orderEventLogger(zap.New(core))

	body, err := json.Marshal(services.NewOrderCreatedEvent(&models.Order{
		ID:        "HM-20261017-004",
		Client:    "Juan Perez",
		Phone:     "8888-8888",
		Total:     decimal.RequireFromString("12.5"),
		Items:     []models.OrderItem{{Name: "Martillo", Quantity: 1}},
		CreatedAt: time.Date(2026, 10, 17, 9, 0, 0, 0, time.UTC),
	}))
	require.NoError(t, err)

	require.NoError(t, handle(amqp.Delivery{Body: body}))
	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "New web order", entry.Message)
	assert.Equal(t, "HM-20261017-004", entry.ContextMap()["order_id"])
	assert.Equal(t, "12.50", entry.ContextMap()["total"])

	assert.NoError(t, handle(amqp.Delivery{Body: []byte(`{"type":"order.cancelled"}`)}))
	assert.Equal(t, 1, logs.Len(), "other event types are not logged at info")

	assert.Error(t, handle(amqp.Delivery{Body: []byte("not json")}))
}

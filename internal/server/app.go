// Package server assembles the fiber application.
package server

import (
	"time"

	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"homemart/internal/cart"
	"homemart/internal/config"
	"homemart/internal/database"
	"homemart/internal/handlers"
	"homemart/internal/middleware"
	"homemart/internal/repositories"
	"homemart/internal/services"
)

// Deps are the collaborators the HTTP layer is built from.
type Deps struct {
	DB        *gorm.DB
	Carts     cart.Store
	Publisher services.OrderEventPublisher // nil disables order events
	Config    *config.Config
	Logger    *zap.Logger
	// AccessLog enables fiber's request logger.
	AccessLog bool
}

// App is the assembled HTTP application and the services behind it.
type App struct {
	Fiber    *fiber.App
	Auth     *services.AuthService
	Products *services.ProductService
	Carts    *services.CartService
	Orders   *services.OrderService
}

// New wires repositories, services and handlers into a fiber app.
func New(deps Deps) *App {
	cfg := deps.Config
	logger := deps.Logger

	txOpts := database.TxOptionsFromConfig(cfg.Database)
	store := repositories.NewGORMStore(deps.DB, txOpts)
	userRepo := repositories.NewGORMUserRepository(deps.DB)

	a := &App{
		Auth:     services.NewAuthService(userRepo, cfg.Auth, logger.Named("auth")),
		Products: services.NewProductService(store.Products()),
		Carts:    services.NewCartService(deps.Carts, store.Products(), logger.Named("cart")),
		Orders:   services.NewOrderService(store, deps.Carts, deps.Publisher, cfg.Orders, logger.Named("orders")),
	}

	app := fiber.New(fiber.Config{
		AppName:               "homemart",
		UnescapePath:          true,
		DisableStartupMessage: true,
		ErrorHandler:          errorHandler(logger),
	})
	app.Use(recover.New())
	if deps.AccessLog {
		app.Use(fiberlogger.New())
	}

	app.Get("/health", healthHandler(deps))

	httpLogger := logger.Named("http")
	requireAuth := middleware.AuthRequired(a.Auth, httpLogger)

	productHandler := handlers.NewProductHandler(a.Products, httpLogger)
	cartHandler := handlers.NewCartHandler(a.Carts, a.Orders, httpLogger)
	orderHandler := handlers.NewOrderHandler(a.Orders, httpLogger)
	authHandler := handlers.NewAuthHandler(a.Auth, httpLogger)

	apiV1 := app.Group("/api/v1")

	// Storefront routes are public.
	authHandler.RegisterRoutes(apiV1, requireAuth)
	productHandler.RegisterCatalogRoutes(apiV1)
	cartHandler.RegisterRoutes(apiV1)

	productHandler.RegisterRoutes(apiV1, requireAuth)
	orderHandler.RegisterRoutes(apiV1, requireAuth)

	a.Fiber = app
	return a
}

func healthHandler(deps Deps) fiber.Handler {
	return func(c *fiber.Ctx) error {
		status, code := "healthy", fiber.StatusOK
		dbStatus := "connected"

		sqlDB, err := deps.DB.DB()
		if err == nil {
			err = sqlDB.PingContext(c.UserContext())
		}
		if err != nil {
			deps.Logger.Warn("Health check database ping failed", zap.Error(err))
			status, code, dbStatus = "unhealthy", fiber.StatusServiceUnavailable, "unreachable"
		}

		events := "disabled"
		if deps.Publisher != nil {
			events = "enabled"
		}

		return c.Status(code).JSON(fiber.Map{
			"status":   status,
			"time":     time.Now().Format(time.RFC3339),
			"database": dbStatus,
			"events":   events,
		})
	}
}

// errorHandler renders fiber errors (unknown routes, bad methods, panics
// caught by recover) with the same body as the handlers.
func errorHandler(logger *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		if e, ok := err.(*fiber.Error); ok {
			code = e.Code
		}
		if code == fiber.StatusInternalServerError {
			logger.Error("Unhandled request error", zap.String("path", c.Path()), zap.Error(err))
			return c.Status(code).JSON(fiber.Map{
				"message": "Internal server error",
				"error":   "internal server error",
			})
		}
		return c.Status(code).JSON(fiber.Map{
			"message": err.Error(),
			"error":   err.Error(),
		})
	}
}

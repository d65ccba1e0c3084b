package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	amqp "github.com/streadway/amqp"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"homemart/internal/cart"
	"homemart/internal/server"
	"homemart/internal/services"
	"homemart/pkg/rabbitmq"
)

const shutdownTimeout = 10 * time.Second

func (c *cli) serveCmd() *cobra.Command {
	var autoMigrate, accessLog bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and the order event consumer",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return c.serve(ctx, autoMigrate, accessLog)
		},
	}
	cmd.Flags().BoolVar(&autoMigrate, "auto-migrate", true, "migrate the schema before serving")
	cmd.Flags().BoolVar(&accessLog, "access-log", true, "log every HTTP request")
	return cmd
}

func (c *cli) serve(ctx context.Context, autoMigrate, accessLog bool) error {
	db, err := c.openDB(autoMigrate)
	if err != nil {
		return err
	}
	defer c.closeDB(db)

	carts, closeCarts, err := c.openCartStore(ctx)
	if err != nil {
		return err
	}
	defer closeCarts()

	var (
		publisher services.OrderEventPublisher
		mq        *rabbitmq.Client
	)
	if c.cfg.RabbitMQ.URL != "" {
		mq, err = rabbitmq.NewClient(rabbitmq.Config{URL: c.cfg.RabbitMQ.URL, Queue: c.cfg.RabbitMQ.Queue}, c.logger.Named("rabbitmq"))
		if err != nil {
			return err
		}
		defer func() {
			if err := mq.Close(); err != nil {
				c.logger.Warn("Error closing RabbitMQ client", zap.Error(err))
			}
		}()
		publisher = mq
	} else {
		c.logger.Info("RABBITMQ_URL not set, order events disabled")
	}

	app := server.New(server.Deps{
		DB:        db,
		Carts:     carts,
		Publisher: publisher,
		Config:    c.cfg,
		Logger:    c.logger,
		AccessLog: accessLog,
	})

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		c.logger.Info("Starting server", zap.String("addr", c.cfg.AppPort))
		if err := app.Fiber.Listen(c.cfg.AppPort); err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		c.logger.Info("Shutting down server...")
		if err := app.Fiber.ShutdownWithTimeout(shutdownTimeout); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	})

	if mq != nil {
		g.Go(func() error {
			return mq.ConsumeOrderEvents(gctx, orderEventLogger(c.logger.Named("events")))
		})
	}

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	c.logger.Info("Server gracefully stopped")
	return nil
}

// openCartStore picks Redis when REDIS_ADDR is set and the in-memory store
// otherwise.
func (c *cli) openCartStore(ctx context.Context) (cart.Store, func(), error) {
	if c.cfg.Redis.Addr == "" {
		c.logger.Info("REDIS_ADDR not set, carts are kept in memory")
		return cart.NewMemoryStore(), func() {}, nil
	}

	client, err := cart.NewRedisClient(ctx, c.cfg.Redis)
	if err != nil {
		return nil, nil, err
	}
	c.logger.Info("Redis cart store connected", zap.String("addr", c.cfg.Redis.Addr))

	closeFn := func() {
		if err := client.Close(); err != nil {
			c.logger.Warn("Error closing Redis client", zap.Error(err))
		}
	}
	return cart.NewRedisStore(client, c.cfg.Redis.CartTTL), closeFn, nil
}

// orderEventLogger returns a consumer handler that logs every incoming web
// order. Undecodable messages are reported so the client nacks them.
func orderEventLogger(logger *zap.Logger) func(amqp.Delivery) error {
	return func(msg amqp.Delivery) error {
		var event services.OrderCreatedEvent
		if err := json.Unmarshal(msg.Body, &event); err != nil {
			return fmt.Errorf("decode order event: %w", err)
		}
		if event.Type != services.EventTypeOrderCreated {
			logger.Debug("Ignoring event", zap.String("type", event.Type))
			return nil
		}

		logger.Info("New web order",
			zap.String("order_id", event.OrderID),
			zap.String("client", event.Client),
			zap.String("phone", event.Phone),
			zap.String("total", event.Total.StringFixed(2)),
			zap.Int("lines", len(event.Items)),
			zap.Time("created_at", event.CreatedAt))
		return nil
	}
}

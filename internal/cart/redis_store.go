package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"homemart/internal/config"
	"homemart/internal/models"
)

const (
	keyPrefix         = "cart:"
	maxUpdateAttempts = 10
)

// ErrConcurrentUpdate is returned when a cart kept changing under an update.
var ErrConcurrentUpdate = errors.New("cart changed concurrently")

// RedisStore keeps carts as JSON documents under "cart:<id>".
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisClient connects to Redis and checks the connection.
func NewRedisClient(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
		MinIdleConns: 2,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.Addr, err)
	}
	return client, nil
}

// NewRedisStore creates a Store on client. Carts expire ttl after their
// last update; a zero ttl keeps them forever.
func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

func key(cartID string) string {
	return keyPrefix + cartID
}

// Get implements Store.
func (s *RedisStore) Get(ctx context.Context, cartID string) (*models.Cart, error) {
	c, _, err := decodeCart(cartID, s.client.Get(ctx, key(cartID)))
	return c, err
}

// decodeCart turns a GET or GETDEL reply into a cart. known is false when
// the key did not exist.
func decodeCart(cartID string, cmd *redis.StringCmd) (c *models.Cart, known bool, err error) {
	data, err := cmd.Bytes()
	if errors.Is(err, redis.Nil) {
		return &models.Cart{ID: cartID, Items: []models.CartItem{}}, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read cart %s: %w", cartID, err)
	}

	c = &models.Cart{}
	if err := json.Unmarshal(data, c); err != nil {
		return nil, false, fmt.Errorf("failed to decode cart %s: %w", cartID, err)
	}
	c.ID = cartID
	return c, true, nil
}

// Update runs fn inside a WATCH/MULTI transaction and retries when another
// client modified the cart in between.
func (s *RedisStore) Update(ctx context.Context, cartID string, fn func(c *models.Cart) error) (*models.Cart, error) {
	k := key(cartID)
	var result *models.Cart

	txf := func(tx *redis.Tx) error {
		c, known, err := decodeCart(cartID, tx.Get(ctx, k))
		if err != nil {
			return err
		}
		if err := fn(c); err != nil {
			return err
		}
		if !known && c.IsEmpty() {
			result = c
			return nil
		}
		c.UpdatedAt = time.Now()

		data, err := json.Marshal(c)
		if err != nil {
			return fmt.Errorf("failed to encode cart %s: %w", cartID, err)
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, k, data, s.ttl)
			return nil
		})
		if err != nil {
			return err
		}
		result = c
		return nil
	}

	for attempt := 0; attempt < maxUpdateAttempts; attempt++ {
		err := s.client.Watch(ctx, txf, k)
		if err == nil {
			return result, nil
		}
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		return nil, err
	}
	return nil, fmt.Errorf("cart %s: %w", cartID, ErrConcurrentUpdate)
}

// Take implements Store with GETDEL, which reads and removes the key in
// one command.
func (s *RedisStore) Take(ctx context.Context, cartID string) (*models.Cart, error) {
	c, _, err := decodeCart(cartID, s.client.GetDel(ctx, key(cartID)))
	return c, err
}

// Delete implements Store.
func (s *RedisStore) Delete(ctx context.Context, cartID string) error {
	if err := s.client.Del(ctx, key(cartID)).Err(); err != nil {
		return fmt.Errorf("failed to delete cart %s: %w", cartID, err)
	}
	return nil
}

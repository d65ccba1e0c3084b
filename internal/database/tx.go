package database

import (
	"context"
	"database/sql"
	"fmt"
	"math/rand"
	"time"

	"gorm.io/gorm"

	"homemart/internal/config"
)

type TxOptions struct {
	IsolationLevel sql.IsolationLevel
	ReadOnly       bool
	MaxRetries     int
	Backoff        time.Duration
}

func DefaultTxOptions() TxOptions {
	return TxOptions{
		IsolationLevel: sql.LevelDefault,
		ReadOnly:       false,
		MaxRetries:     3,
		Backoff:        50 * time.Millisecond,
	}
}

// TxOptionsFromConfig returns the default options with the configured
// retry budget.
func TxOptionsFromConfig(cfg config.DatabaseConfig) TxOptions {
	opts := DefaultTxOptions()
	if cfg.MaxRetries >= 0 {
		opts.MaxRetries = cfg.MaxRetries
	}
	return opts
}

func (o TxOptions) sqlOptions() *sql.TxOptions {
	return &sql.TxOptions{
		Isolation: o.IsolationLevel,
		ReadOnly:  o.ReadOnly,
	}
}

// WithTransaction runs fn in a single transaction. fn's error rolls it back.
func WithTransaction(ctx context.Context, db *gorm.DB, opts TxOptions, fn func(tx *gorm.DB) error) error {
	return db.WithContext(ctx).Transaction(fn, opts.sqlOptions())
}

// WithRetry runs fn in a transaction and retries it from scratch when the
// failure is retryable (serialization, deadlock, lock timeout, busy).
func WithRetry(ctx context.Context, db *gorm.DB, opts TxOptions, fn func(tx *gorm.DB) error) error {
	var lastErr error
	backoff := opts.Backoff
	if backoff <= 0 {
		backoff = 50 * time.Millisecond
	}

	for attempt := 0; attempt <= opts.MaxRetries; attempt++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		err := WithTransaction(ctx, db, opts, fn)
		if err == nil {
			return nil
		}

		if !IsRetryable(err) {
			return err
		}

		if attempt == opts.MaxRetries {
			return fmt.Errorf("max retries (%d) exceeded: %w", opts.MaxRetries, err)
		}

		lastErr = err

		jitter := time.Duration(rand.Int63n(int64(backoff/4) + 1))
		sleepDuration := backoff + jitter

		select {
		case <-time.After(sleepDuration):
		case <-ctx.Done():
			return ctx.Err()
		}

		backoff *= 2
	}

	return lastErr
}

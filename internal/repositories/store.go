package repositories

import (
	"context"

	"gorm.io/gorm"

	"homemart/internal/database"
)

// Store groups the repositories that take part in a checkout and runs
// them inside one transaction.
type Store interface {
	Products() ProductRepository
	Orders() OrderRepository
	Counters() CounterRepository
	// Transaction runs fn against a Store bound to a single transaction.
	// fn may run more than once when the transaction is retried.
	Transaction(ctx context.Context, fn func(tx Store) error) error
}

// GORMStore is the GORM implementation of Store.
type GORMStore struct {
	db       *gorm.DB
	txOpts   database.TxOptions
	products *GORMProductRepository
	orders   *GORMOrderRepository
	counters *GORMCounterRepository
}

// NewGORMStore creates a Store on db. Transactions are retried per opts.
func NewGORMStore(db *gorm.DB, opts database.TxOptions) *GORMStore {
	return &GORMStore{
		db:       db,
		txOpts:   opts,
		products: NewGORMProductRepository(db),
		orders:   NewGORMOrderRepository(db),
		counters: NewGORMCounterRepository(db),
	}
}

func (s *GORMStore) Products() ProductRepository { return s.products }
func (s *GORMStore) Orders() OrderRepository     { return s.orders }
func (s *GORMStore) Counters() CounterRepository { return s.counters }

// Transaction implements Store.
func (s *GORMStore) Transaction(ctx context.Context, fn func(tx Store) error) error {
	return database.WithRetry(ctx, s.db, s.txOpts, func(tx *gorm.DB) error {
		return fn(NewGORMStore(tx, s.txOpts))
	})
}

package repository

import (
	"context"

	"gorm.io/gorm"
)

// TxRunner executes a function against repositories bound to a single
// database transaction. The transaction is rolled back when the function
// returns an error.
type TxRunner interface {
	RunInTx(ctx context.Context, fn func(products ProductRepository, orders OrderRepository) error) error
}

// GormTxRunner implements TxRunner using a GORM transaction
type GormTxRunner struct {
	db *gorm.DB
}

// NewGormTxRunner creates a new instance of GormTxRunner
func NewGormTxRunner(db *gorm.DB) TxRunner {
	return &GormTxRunner{db: db}
}

func (r *GormTxRunner) RunInTx(ctx context.Context, fn func(products ProductRepository, orders OrderRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewGormProductRepository(tx), NewGormOrderRepository(tx))
	})
}

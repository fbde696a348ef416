package persistence

import (
	"context"

	"gorm.io/gorm"

	appfulfillment "github.com/pharmacy/backend/internal/application/fulfillment"
	"github.com/pharmacy/backend/internal/domain/catalog"
	"github.com/pharmacy/backend/internal/domain/inventory"
	"github.com/pharmacy/backend/internal/domain/prescription"
)

// GormTransactionScope implements the fulfillment TransactionScope using
// GORM transactions. Stock decrement, movement append and prescription
// save commit or roll back as one unit.
type GormTransactionScope struct {
	db *gorm.DB
}

// NewGormTransactionScope creates a new GormTransactionScope.
func NewGormTransactionScope(db *gorm.DB) *GormTransactionScope {
	return &GormTransactionScope{db: db}
}

// Execute runs the given function within a database transaction.
// If the function returns an error, the transaction is rolled back.
// If the function succeeds, the transaction is committed.
func (s *GormTransactionScope) Execute(ctx context.Context, fn func(repos appfulfillment.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repos := &gormTransactionalRepositories{tx: tx}
		return fn(repos)
	})
}

// gormTransactionalRepositories provides access to all repositories within a transaction.
type gormTransactionalRepositories struct {
	tx *gorm.DB
}

// Products returns the product repository scoped to the current transaction.
func (r *gormTransactionalRepositories) Products() catalog.ProductRepository {
	return NewGormProductRepository(r.tx)
}

// Prescriptions returns the prescription repository scoped to the current transaction.
func (r *gormTransactionalRepositories) Prescriptions() prescription.Repository {
	return NewGormPrescriptionRepository(r.tx)
}

// Movements returns the stock movement repository scoped to the current transaction.
func (r *gormTransactionalRepositories) Movements() inventory.StockMovementRepository {
	return NewGormStockMovementRepository(r.tx)
}

// Ensure GormTransactionScope implements TransactionScope
var _ appfulfillment.TransactionScope = (*GormTransactionScope)(nil)

// Ensure gormTransactionalRepositories implements TransactionalRepositories
var _ appfulfillment.TransactionalRepositories = (*gormTransactionalRepositories)(nil)

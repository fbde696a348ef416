package fulfillment

import (
	"context"

	"github.com/pharmacy/backend/internal/domain/catalog"
	"github.com/pharmacy/backend/internal/domain/inventory"
	"github.com/pharmacy/backend/internal/domain/prescription"
)

// TransactionScope provides transactional access to the fulfillment
// repositories. A function executed within a scope sees all repository
// operations as part of one database transaction, committed or rolled
// back atomically. This is what makes a Create or DispenseSelected call
// an all-or-nothing unit: a mid-loop failure undoes prescription rows,
// stock decrements and movement records alike.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to the repositories
// participating in a fulfillment transaction. All repositories returned
// share the same underlying database transaction.
type TransactionalRepositories interface {
	// Products returns the product repository (stock ledger) scoped to the transaction
	Products() catalog.ProductRepository
	// Prescriptions returns the prescription repository scoped to the transaction
	Prescriptions() prescription.Repository
	// Movements returns the stock movement repository scoped to the transaction
	Movements() inventory.StockMovementRepository
}

// NoOpTransactionScope runs functions without a real transaction.
// Useful in tests where the repositories are mocks.
type NoOpTransactionScope struct {
	products      catalog.ProductRepository
	prescriptions prescription.Repository
	movements     inventory.StockMovementRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope over the given repositories.
func NewNoOpTransactionScope(
	products catalog.ProductRepository,
	prescriptions prescription.Repository,
	movements inventory.StockMovementRepository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		products:      products,
		prescriptions: prescriptions,
		movements:     movements,
	}
}

// Execute runs the function without a real transaction.
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// Products returns the product repository.
func (s *NoOpTransactionScope) Products() catalog.ProductRepository {
	return s.products
}

// Prescriptions returns the prescription repository.
func (s *NoOpTransactionScope) Prescriptions() prescription.Repository {
	return s.prescriptions
}

// Movements returns the stock movement repository.
func (s *NoOpTransactionScope) Movements() inventory.StockMovementRepository {
	return s.movements
}

var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)

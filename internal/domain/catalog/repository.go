package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/pharmacy/backend/internal/domain/shared"
)

// ProductRepository defines the interface for product persistence.
// It doubles as the stock ledger: Reserve is the only sanctioned way the
// fulfillment core decrements on-hand quantity.
type ProductRepository interface {
	// FindByID finds a product by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Product, error)

	// FindByCode finds a product by its unique code
	FindByCode(ctx context.Context, code string) (*Product, error)

	// FindAll finds products matching the filter; Search matches
	// name, category and code substrings
	FindAll(ctx context.Context, filter shared.Filter) ([]Product, error)

	// Save creates or updates a product
	Save(ctx context.Context, product *Product) error

	// Delete deletes a product. Historical movements keep their product
	// reference; displays substitute DeletedProductName.
	Delete(ctx context.Context, id uuid.UUID) error

	// Count counts products matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// GetStock returns the current on-hand quantity for a product
	GetStock(ctx context.Context, id uuid.UUID) (int64, error)

	// Reserve atomically checks and decrements on-hand quantity.
	// The check and the decrement are a single indivisible statement with
	// respect to concurrent callers on the same product. On shortfall it
	// returns *InsufficientStockError carrying the quantity actually
	// available; stock is left untouched.
	Reserve(ctx context.Context, id uuid.UUID, quantity int64) error

	// Restock atomically increments on-hand quantity, so a concurrent
	// Reserve on the same product is never overwritten by a stale read
	Restock(ctx context.Context, id uuid.UUID, quantity int64) error
}

// PatientRepository defines the interface for patient persistence
type PatientRepository interface {
	// FindByID finds a patient by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Patient, error)

	// FindAll finds patients matching the filter; Search matches the
	// full name substring
	FindAll(ctx context.Context, filter shared.Filter) ([]Patient, error)

	// Save creates or updates a patient
	Save(ctx context.Context, patient *Patient) error

	// Delete deletes a patient record
	Delete(ctx context.Context, id uuid.UUID) error

	// Count counts patients matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)
}

package inventory

import (
	"context"

	"github.com/google/uuid"
	"github.com/pharmacy/backend/internal/domain/shared"
)

// StockMovementRepository is the append-only store of stock movements.
// There is deliberately no update or delete: the movement history is the
// audit trail of stock depletion.
type StockMovementRepository interface {
	// Append persists a new movement record
	Append(ctx context.Context, movement *StockMovement) error

	// FindByID finds a movement by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*StockMovement, error)

	// FindAll lists movements matching the filter, newest first by default
	FindAll(ctx context.Context, filter shared.Filter) ([]StockMovement, error)

	// FindByProduct lists movements for one product
	FindByProduct(ctx context.Context, productID uuid.UUID, filter shared.Filter) ([]StockMovement, error)

	// FindByPrescription lists movements recorded against a prescription
	FindByPrescription(ctx context.Context, prescriptionID uuid.UUID) ([]StockMovement, error)

	// Count counts movements matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// SumQuantityByProduct sums moved quantity for a product
	SumQuantityByProduct(ctx context.Context, productID uuid.UUID) (int64, error)
}

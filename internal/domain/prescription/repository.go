package prescription

import (
	"context"

	"github.com/google/uuid"
	"github.com/pharmacy/backend/internal/domain/shared"
)

// Repository defines the interface for prescription persistence.
// Implementations load and save the aggregate with its details.
type Repository interface {
	// FindByID finds a prescription with its details
	FindByID(ctx context.Context, id uuid.UUID) (*Prescription, error)

	// FindAll finds prescriptions matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]Prescription, error)

	// FindPending returns open prescriptions ordered by creation time
	// ascending, oldest first, so the dispensing queue serves
	// first-come first
	FindPending(ctx context.Context) ([]Prescription, error)

	// FindByDoctor finds prescriptions authored by a doctor
	FindByDoctor(ctx context.Context, doctorID uuid.UUID, filter shared.Filter) ([]Prescription, error)

	// Save creates or updates a prescription together with its details
	Save(ctx context.Context, p *Prescription) error

	// ClaimDetail atomically flips a detail from uncollected to
	// collected. Returns false when the detail was already collected
	// by another transaction, so callers can skip it without
	// dispensing twice.
	ClaimDetail(ctx context.Context, detailID uuid.UUID) (bool, error)

	// Count counts prescriptions matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)
}

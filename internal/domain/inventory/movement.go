package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/pharmacy/backend/internal/domain/shared"
)

// StockMovement is one immutable record of stock leaving inventory.
// Once created, movements are never updated or deleted; corrections are
// made with new records. The sum of movement quantities per product,
// subtracted from its initial stock, always equals the current on-hand
// quantity: stock is never decremented without a movement and vice versa.
type StockMovement struct {
	shared.BaseEntity
	ProductID      uuid.UUID  `gorm:"type:uuid;not null;index"`
	Quantity       int64      `gorm:"not null;check:quantity > 0"`
	StaffID        uuid.UUID  `gorm:"type:uuid;not null;index"`
	PrescriptionID *uuid.UUID `gorm:"type:uuid;index"`
}

// TableName returns the table name for GORM
func (StockMovement) TableName() string {
	return "stock_movements"
}

// NewStockMovement creates a movement record for one consumed line.
// prescriptionID is nil for movements not originating from a prescription.
func NewStockMovement(productID uuid.UUID, quantity int64, staffID uuid.UUID, prescriptionID *uuid.UUID) (*StockMovement, error) {
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if quantity <= 0 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Movement quantity must be positive")
	}
	if staffID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_STAFF", "Staff ID cannot be empty")
	}

	return &StockMovement{
		BaseEntity:     shared.NewBaseEntity(),
		ProductID:      productID,
		Quantity:       quantity,
		StaffID:        staffID,
		PrescriptionID: prescriptionID,
	}, nil
}

// OccurredAt returns the moment the movement was recorded
func (m *StockMovement) OccurredAt() time.Time {
	return m.CreatedAt
}

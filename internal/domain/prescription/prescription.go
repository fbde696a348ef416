package prescription

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/pharmacy/backend/internal/domain/shared"
)

// Status represents the lifecycle state of a prescription
type Status string

const (
	StatusPending   Status = "PENDING"
	StatusDispensed Status = "DISPENSED"
	StatusCancelled Status = "CANCELLED"
)

// IsValid checks if the status is a valid Status
func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusDispensed, StatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of Status
func (s Status) String() string {
	return string(s)
}

// IsTerminal returns true for states that admit no further transition
func (s Status) IsTerminal() bool {
	return s == StatusDispensed || s == StatusCancelled
}

// CanTransitionTo checks if the status can transition to the target status
func (s Status) CanTransitionTo(target Status) bool {
	switch s {
	case StatusPending:
		return target == StatusDispensed || target == StatusCancelled
	case StatusDispensed, StatusCancelled:
		return false
	}
	return false
}

// Detail is one line item of a prescription: a requested quantity of one
// product. Collected is monotonic: once true it never reverts. Duplicate
// products across details are allowed and dispense independently.
type Detail struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey"`
	PrescriptionID uuid.UUID `gorm:"type:uuid;not null;index"`
	ProductID      uuid.UUID `gorm:"type:uuid;not null;index"`
	Quantity       int64     `gorm:"not null;check:quantity > 0"`
	Collected      bool      `gorm:"not null;default:false"`
	CreatedAt      time.Time `gorm:"not null"`
	UpdatedAt      time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (Detail) TableName() string {
	return "prescription_details"
}

// NewDetail creates a new prescription detail
func NewDetail(prescriptionID, productID uuid.UUID, quantity int64) (*Detail, error) {
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if quantity <= 0 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Requested quantity must be positive")
	}

	now := time.Now()
	return &Detail{
		ID:             uuid.New(),
		PrescriptionID: prescriptionID,
		ProductID:      productID,
		Quantity:       quantity,
		CreatedAt:      now,
		UpdatedAt:      now,
	}, nil
}

// MarkCollected flips the collected flag. Marking an already collected
// detail is rejected so a double dispense cannot pass unnoticed.
func (d *Detail) MarkCollected() error {
	if d.Collected {
		return shared.NewDomainError("ALREADY_COLLECTED", "Detail has already been collected")
	}
	d.Collected = true
	d.UpdatedAt = time.Now()
	return nil
}

// Prescription is the aggregate root for a doctor's medicine request.
// It owns its details exclusively; they are cascade-deleted with it.
// Once in a terminal state the aggregate is immutable.
type Prescription struct {
	shared.BaseAggregateRoot
	PatientID   uuid.UUID `gorm:"type:uuid;not null;index"`
	DoctorID    uuid.UUID `gorm:"type:uuid;not null;index"`
	Status      Status    `gorm:"type:varchar(20);not null;default:'PENDING'"`
	CompletedAt *time.Time
	Details     []Detail `gorm:"foreignKey:PrescriptionID;references:ID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (Prescription) TableName() string {
	return "prescriptions"
}

// New creates a prescription in Pending state with no details yet
func New(patientID, doctorID uuid.UUID) (*Prescription, error) {
	if patientID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PATIENT", "Patient ID cannot be empty")
	}
	if doctorID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_DOCTOR", "Doctor ID cannot be empty")
	}

	return &Prescription{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		PatientID:         patientID,
		DoctorID:          doctorID,
		Status:            StatusPending,
		Details:           make([]Detail, 0),
	}, nil
}

// AddDetail appends a line item. Only allowed while Pending. The same
// product may appear more than once; each occurrence is an independent line.
func (p *Prescription) AddDetail(productID uuid.UUID, quantity int64) (*Detail, error) {
	if p.Status != StatusPending {
		return nil, shared.NewDomainError("INVALID_STATE", "Cannot add details to a non-pending prescription")
	}

	detail, err := NewDetail(p.ID, productID, quantity)
	if err != nil {
		return nil, err
	}

	p.Details = append(p.Details, *detail)
	p.UpdatedAt = time.Now()

	return detail, nil
}

// GetDetail returns the detail with the given id, or nil
func (p *Prescription) GetDetail(detailID uuid.UUID) *Detail {
	for idx := range p.Details {
		if p.Details[idx].ID == detailID {
			return &p.Details[idx]
		}
	}
	return nil
}

// MarkDetailCollected marks a detail as collected
func (p *Prescription) MarkDetailCollected(detailID uuid.UUID) error {
	if p.Status != StatusPending {
		return shared.NewDomainError("INVALID_STATE", "Cannot collect details of a non-pending prescription")
	}

	detail := p.GetDetail(detailID)
	if detail == nil {
		return shared.NewDomainError("DETAIL_NOT_FOUND", "Prescription detail not found")
	}

	if err := detail.MarkCollected(); err != nil {
		return err
	}
	p.UpdatedAt = time.Now()

	return nil
}

// UncollectedDetails returns the details not yet collected
func (p *Prescription) UncollectedDetails() []Detail {
	outstanding := make([]Detail, 0)
	for _, d := range p.Details {
		if !d.Collected {
			outstanding = append(outstanding, d)
		}
	}
	return outstanding
}

// AllCollected returns true when every detail has been collected
func (p *Prescription) AllCollected() bool {
	for _, d := range p.Details {
		if !d.Collected {
			return false
		}
	}
	return len(p.Details) > 0
}

// Dispense transitions Pending -> Dispensed, stamping the completion time.
// Every detail must already be collected.
func (p *Prescription) Dispense() error {
	if !p.Status.CanTransitionTo(StatusDispensed) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot dispense prescription in %s status", p.Status))
	}
	if !p.AllCollected() {
		return shared.NewDomainError("DETAILS_OUTSTANDING", "Cannot dispense while details remain uncollected")
	}

	now := time.Now()
	p.Status = StatusDispensed
	p.CompletedAt = &now
	p.UpdatedAt = now
	p.IncrementVersion()

	return nil
}

// Cancel transitions Pending -> Cancelled. Collected details keep their
// flag; stock already dispensed is not returned by this operation.
func (p *Prescription) Cancel() error {
	if !p.Status.CanTransitionTo(StatusCancelled) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot cancel prescription in %s status", p.Status))
	}

	now := time.Now()
	p.Status = StatusCancelled
	p.CompletedAt = &now
	p.UpdatedAt = now
	p.IncrementVersion()

	return nil
}

// IsPending returns true if the prescription is still open
func (p *Prescription) IsPending() bool {
	return p.Status == StatusPending
}

// IsTerminal returns true if the prescription reached a terminal state
func (p *Prescription) IsTerminal() bool {
	return p.Status.IsTerminal()
}

// DetailCount returns the number of line items
func (p *Prescription) DetailCount() int {
	return len(p.Details)
}

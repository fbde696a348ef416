package fulfillment

import (
	"time"

	"github.com/google/uuid"

	"github.com/pharmacy/backend/internal/domain/prescription"
	"github.com/pharmacy/backend/internal/domain/shared"
)

// DispenseMode controls whether a newly created prescription is
// dispensed in the same transaction or left pending for later pickup.
type DispenseMode string

const (
	// DispenseModeImmediate reserves stock and dispenses all lines at creation time
	DispenseModeImmediate DispenseMode = "IMMEDIATE"
	// DispenseModeDeferred records the prescription as pending without touching stock
	DispenseModeDeferred DispenseMode = "DEFERRED"
)

// IsValid checks if the dispense mode is one of the defined modes.
func (m DispenseMode) IsValid() bool {
	return m == DispenseModeImmediate || m == DispenseModeDeferred
}

// Application-level errors for fulfillment operations.
var (
	// ErrEmptyPrescription indicates a create request with no valid lines
	ErrEmptyPrescription = shared.NewDomainError("EMPTY_PRESCRIPTION", "prescription has no valid lines")
	// ErrEmptySelection indicates a dispense request that selects no details
	ErrEmptySelection = shared.NewDomainError("EMPTY_SELECTION", "no prescription details selected")
	// ErrInvalidDispenseMode indicates an unknown dispense mode value
	ErrInvalidDispenseMode = shared.NewDomainError("INVALID_DISPENSE_MODE", "dispense mode must be IMMEDIATE or DEFERRED")
)

// PrescriptionLineRequest is one requested product line on a new prescription.
type PrescriptionLineRequest struct {
	ProductID uuid.UUID `json:"product_id" binding:"required"`
	Quantity  int64     `json:"quantity"`
}

// CreatePrescriptionRequest is the input for creating a prescription.
type CreatePrescriptionRequest struct {
	PatientID uuid.UUID                 `json:"patient_id" binding:"required"`
	DoctorID  uuid.UUID                 `json:"doctor_id" binding:"required"`
	Mode      DispenseMode              `json:"mode" binding:"omitempty,dispense_mode"`
	Lines     []PrescriptionLineRequest `json:"lines" binding:"required"`
}

// DispenseSelectedRequest selects details of a pending prescription to dispense.
type DispenseSelectedRequest struct {
	DetailIDs []uuid.UUID `json:"detail_ids" binding:"required"`
}

// PrescriptionDetailResponse is the output representation of a prescription line.
type PrescriptionDetailResponse struct {
	ID        uuid.UUID `json:"id"`
	ProductID uuid.UUID `json:"product_id"`
	Quantity  int64     `json:"quantity"`
	Collected bool      `json:"collected"`
}

// PrescriptionResponse is the output representation of a prescription.
type PrescriptionResponse struct {
	ID          uuid.UUID                    `json:"id"`
	PatientID   uuid.UUID                    `json:"patient_id"`
	DoctorID    uuid.UUID                    `json:"doctor_id"`
	Status      prescription.Status          `json:"status"`
	Details     []PrescriptionDetailResponse `json:"details"`
	CreatedAt   time.Time                    `json:"created_at"`
	CompletedAt *time.Time                   `json:"completed_at,omitempty"`
}

// ToPrescriptionResponse converts a prescription aggregate to its response DTO.
func ToPrescriptionResponse(p *prescription.Prescription) *PrescriptionResponse {
	details := make([]PrescriptionDetailResponse, 0, len(p.Details))
	for _, d := range p.Details {
		details = append(details, PrescriptionDetailResponse{
			ID:        d.ID,
			ProductID: d.ProductID,
			Quantity:  d.Quantity,
			Collected: d.Collected,
		})
	}
	return &PrescriptionResponse{
		ID:          p.ID,
		PatientID:   p.PatientID,
		DoctorID:    p.DoctorID,
		Status:      p.Status,
		Details:     details,
		CreatedAt:   p.CreatedAt,
		CompletedAt: p.CompletedAt,
	}
}

// ToPrescriptionResponses converts a slice of prescriptions to response DTOs.
func ToPrescriptionResponses(items []prescription.Prescription) []*PrescriptionResponse {
	out := make([]*PrescriptionResponse, 0, len(items))
	for i := range items {
		out = append(out, ToPrescriptionResponse(&items[i]))
	}
	return out
}

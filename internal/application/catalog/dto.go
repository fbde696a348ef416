package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/pharmacy/backend/internal/domain/catalog"
)

// CreateProductRequest is the input for registering a product.
type CreateProductRequest struct {
	Code        string                  `json:"code" binding:"required"`
	Name        string                  `json:"name" binding:"required"`
	Category    catalog.ProductCategory `json:"category" binding:"required"`
	Unit        catalog.ProductUnit     `json:"unit" binding:"required"`
	Quantity    int64                   `json:"quantity"`
	ImportPrice decimal.Decimal         `json:"import_price"`
	SalePrice   decimal.Decimal         `json:"sale_price"`
	ExpiryDate  *time.Time              `json:"expiry_date,omitempty"`
	Supplier    string                  `json:"supplier,omitempty"`
}

// UpdateProductRequest is the input for updating a product.
type UpdateProductRequest struct {
	Name        string                  `json:"name" binding:"required"`
	Category    catalog.ProductCategory `json:"category" binding:"required"`
	Unit        catalog.ProductUnit     `json:"unit" binding:"required"`
	ImportPrice decimal.Decimal         `json:"import_price"`
	SalePrice   decimal.Decimal         `json:"sale_price"`
	ExpiryDate  *time.Time              `json:"expiry_date,omitempty"`
	Supplier    string                  `json:"supplier,omitempty"`
}

// AdjustStockRequest is the input for a manual stock adjustment,
// such as receiving a delivery. Quantity is the signed change.
type AdjustStockRequest struct {
	Quantity int64 `json:"quantity" binding:"required"`
}

// ProductResponse is the output representation of a product.
type ProductResponse struct {
	ID          uuid.UUID               `json:"id"`
	Code        string                  `json:"code"`
	Name        string                  `json:"name"`
	Category    catalog.ProductCategory `json:"category"`
	Unit        catalog.ProductUnit     `json:"unit"`
	Quantity    int64                   `json:"quantity"`
	ImportPrice decimal.Decimal         `json:"import_price"`
	SalePrice   decimal.Decimal         `json:"sale_price"`
	ExpiryDate  *time.Time              `json:"expiry_date,omitempty"`
	Supplier    string                  `json:"supplier,omitempty"`
	Expired     bool                    `json:"expired"`
	CreatedAt   time.Time               `json:"created_at"`
	UpdatedAt   time.Time               `json:"updated_at"`
}

// StockResponse reports the current on-hand quantity of a product.
type StockResponse struct {
	ProductID uuid.UUID `json:"product_id"`
	Quantity  int64     `json:"quantity"`
}

// ToProductResponse converts a product to its response DTO.
func ToProductResponse(p *catalog.Product) *ProductResponse {
	return &ProductResponse{
		ID:          p.ID,
		Code:        p.Code,
		Name:        p.Name,
		Category:    p.Category,
		Unit:        p.Unit,
		Quantity:    p.Quantity,
		ImportPrice: p.ImportPrice,
		SalePrice:   p.SalePrice,
		ExpiryDate:  p.ExpiryDate,
		Supplier:    p.Supplier,
		Expired:     p.IsExpired(time.Now()),
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

// ToProductResponses converts a slice of products to response DTOs.
func ToProductResponses(items []catalog.Product) []*ProductResponse {
	out := make([]*ProductResponse, 0, len(items))
	for i := range items {
		out = append(out, ToProductResponse(&items[i]))
	}
	return out
}

// CreatePatientRequest is the input for registering a patient.
type CreatePatientRequest struct {
	FullName          string            `json:"full_name" binding:"required"`
	DateOfBirth       *time.Time        `json:"date_of_birth,omitempty"`
	Gender            catalog.Gender    `json:"gender"`
	Address           string            `json:"address,omitempty"`
	PhoneNumber       string            `json:"phone_number,omitempty"`
	CitizenID         string            `json:"citizen_id,omitempty"`
	HealthInsuranceID string            `json:"health_insurance_id,omitempty"`
	Ethnicity         string            `json:"ethnicity,omitempty"`
	BloodType         catalog.BloodType `json:"blood_type,omitempty"`
	Allergies         string            `json:"allergies,omitempty"`
	MedicalHistory    string            `json:"medical_history,omitempty"`
}

// UpdatePatientRequest is the input for updating a patient record.
type UpdatePatientRequest struct {
	FullName          string            `json:"full_name" binding:"required"`
	DateOfBirth       *time.Time        `json:"date_of_birth,omitempty"`
	Gender            catalog.Gender    `json:"gender"`
	Address           string            `json:"address,omitempty"`
	PhoneNumber       string            `json:"phone_number,omitempty"`
	CitizenID         string            `json:"citizen_id,omitempty"`
	HealthInsuranceID string            `json:"health_insurance_id,omitempty"`
	Ethnicity         string            `json:"ethnicity,omitempty"`
	BloodType         catalog.BloodType `json:"blood_type,omitempty"`
	Allergies         string            `json:"allergies,omitempty"`
	MedicalHistory    string            `json:"medical_history,omitempty"`
}

// PatientResponse is the output representation of a patient.
type PatientResponse struct {
	ID                uuid.UUID         `json:"id"`
	FullName          string            `json:"full_name"`
	DateOfBirth       *time.Time        `json:"date_of_birth,omitempty"`
	Age               int               `json:"age"`
	Gender            catalog.Gender    `json:"gender"`
	Address           string            `json:"address,omitempty"`
	PhoneNumber       string            `json:"phone_number,omitempty"`
	CitizenID         string            `json:"citizen_id,omitempty"`
	HealthInsuranceID string            `json:"health_insurance_id,omitempty"`
	Ethnicity         string            `json:"ethnicity,omitempty"`
	BloodType         catalog.BloodType `json:"blood_type,omitempty"`
	Allergies         string            `json:"allergies,omitempty"`
	MedicalHistory    string            `json:"medical_history,omitempty"`
	CreatedAt         time.Time         `json:"created_at"`
	UpdatedAt         time.Time         `json:"updated_at"`
}

// ToPatientResponse converts a patient to its response DTO. Age is
// computed from the date of birth, -1 when unknown.
func ToPatientResponse(p *catalog.Patient) *PatientResponse {
	return &PatientResponse{
		ID:                p.ID,
		FullName:          p.FullName,
		DateOfBirth:       p.DateOfBirth,
		Age:               p.Age(time.Now()),
		Gender:            p.Gender,
		Address:           p.Address,
		PhoneNumber:       p.PhoneNumber,
		CitizenID:         p.CitizenID,
		HealthInsuranceID: p.HealthInsuranceID,
		Ethnicity:         p.Ethnicity,
		BloodType:         p.BloodType,
		Allergies:         p.Allergies,
		MedicalHistory:    p.MedicalHistory,
		CreatedAt:         p.CreatedAt,
		UpdatedAt:         p.UpdatedAt,
	}
}

// ToPatientResponses converts a slice of patients to response DTOs.
func ToPatientResponses(items []catalog.Patient) []*PatientResponse {
	out := make([]*PatientResponse, 0, len(items))
	for i := range items {
		out = append(out, ToPatientResponse(&items[i]))
	}
	return out
}

package catalog

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/pharmacy/backend/internal/domain/catalog"
	"github.com/pharmacy/backend/internal/domain/shared"
)

// PatientService handles patient record operations.
type PatientService struct {
	patientRepo catalog.PatientRepository
}

// NewPatientService creates a new PatientService.
func NewPatientService(patientRepo catalog.PatientRepository) *PatientService {
	return &PatientService{
		patientRepo: patientRepo,
	}
}

// Create registers a new patient record.
func (s *PatientService) Create(ctx context.Context, req *CreatePatientRequest) (*PatientResponse, error) {
	gender := req.Gender
	if gender == "" {
		gender = catalog.GenderOther
	}

	patient, err := catalog.NewPatient(req.FullName, gender)
	if err != nil {
		return nil, err
	}
	if err := patient.UpdateProfile(req.FullName, gender, req.DateOfBirth, req.Address, req.PhoneNumber); err != nil {
		return nil, err
	}
	patient.CitizenID = req.CitizenID
	patient.HealthInsuranceID = req.HealthInsuranceID
	patient.Ethnicity = req.Ethnicity

	bloodType := req.BloodType
	if bloodType == "" {
		bloodType = catalog.BloodTypeUnknown
	}
	if err := patient.UpdateMedicalInfo(bloodType, req.Allergies, req.MedicalHistory); err != nil {
		return nil, err
	}

	if err := s.patientRepo.Save(ctx, patient); err != nil {
		return nil, fmt.Errorf("failed to save patient: %w", err)
	}
	return ToPatientResponse(patient), nil
}

// Update modifies an existing patient record.
func (s *PatientService) Update(ctx context.Context, id uuid.UUID, req *UpdatePatientRequest) (*PatientResponse, error) {
	patient, err := s.patientRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	gender := req.Gender
	if gender == "" {
		gender = patient.Gender
	}
	if err := patient.UpdateProfile(req.FullName, gender, req.DateOfBirth, req.Address, req.PhoneNumber); err != nil {
		return nil, err
	}
	patient.CitizenID = req.CitizenID
	patient.HealthInsuranceID = req.HealthInsuranceID
	patient.Ethnicity = req.Ethnicity

	bloodType := req.BloodType
	if bloodType == "" {
		bloodType = patient.BloodType
	}
	if err := patient.UpdateMedicalInfo(bloodType, req.Allergies, req.MedicalHistory); err != nil {
		return nil, err
	}

	if err := s.patientRepo.Save(ctx, patient); err != nil {
		return nil, fmt.Errorf("failed to save patient: %w", err)
	}
	return ToPatientResponse(patient), nil
}

// GetByID returns a patient by its ID.
func (s *PatientService) GetByID(ctx context.Context, id uuid.UUID) (*PatientResponse, error) {
	patient, err := s.patientRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return ToPatientResponse(patient), nil
}

// List returns patients matching the filter, with total count.
func (s *PatientService) List(ctx context.Context, filter shared.Filter) (*shared.Paginated[*PatientResponse], error) {
	items, err := s.patientRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.patientRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}
	result := shared.NewPaginated(ToPatientResponses(items), total, filter.Page, filter.PageSize)
	return &result, nil
}

// Delete removes a patient record.
func (s *PatientService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.patientRepo.FindByID(ctx, id); err != nil {
		return err
	}
	return s.patientRepo.Delete(ctx, id)
}

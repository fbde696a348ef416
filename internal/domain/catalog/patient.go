package catalog

import (
	"time"

	"github.com/pharmacy/backend/internal/domain/shared"
)

// Gender of a patient
type Gender string

const (
	GenderMale   Gender = "MALE"
	GenderFemale Gender = "FEMALE"
	GenderOther  Gender = "OTHER"
)

// IsValid checks if the gender is a known value
func (g Gender) IsValid() bool {
	switch g {
	case GenderMale, GenderFemale, GenderOther:
		return true
	}
	return false
}

// BloodType of a patient
type BloodType string

const (
	BloodTypeAPos    BloodType = "A+"
	BloodTypeANeg    BloodType = "A-"
	BloodTypeBPos    BloodType = "B+"
	BloodTypeBNeg    BloodType = "B-"
	BloodTypeABPos   BloodType = "AB+"
	BloodTypeABNeg   BloodType = "AB-"
	BloodTypeOPos    BloodType = "O+"
	BloodTypeONeg    BloodType = "O-"
	BloodTypeUnknown BloodType = "UNKNOWN"
)

// IsValid checks if the blood type is a known value
func (b BloodType) IsValid() bool {
	switch b {
	case BloodTypeAPos, BloodTypeANeg, BloodTypeBPos, BloodTypeBNeg,
		BloodTypeABPos, BloodTypeABNeg, BloodTypeOPos, BloodTypeONeg, BloodTypeUnknown:
		return true
	}
	return false
}

// Patient holds the medical record of a person prescriptions are written for.
// Pure CRUD data, no domain invariants beyond field validation.
type Patient struct {
	shared.BaseAggregateRoot
	FullName          string `gorm:"type:varchar(255);not null"`
	DateOfBirth       *time.Time
	Gender            Gender    `gorm:"type:varchar(10);not null"`
	Address           string    `gorm:"type:varchar(255)"`
	PhoneNumber       string    `gorm:"type:varchar(15)"`
	CitizenID         string    `gorm:"type:varchar(20);uniqueIndex"`
	HealthInsuranceID string    `gorm:"type:varchar(20)"`
	Ethnicity         string    `gorm:"type:varchar(50)"`
	BloodType         BloodType `gorm:"type:varchar(10);not null;default:'UNKNOWN'"`
	Allergies         string    `gorm:"type:text"`
	MedicalHistory    string    `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (Patient) TableName() string {
	return "patients"
}

// NewPatient creates a new patient record
func NewPatient(fullName string, gender Gender) (*Patient, error) {
	if fullName == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Patient name cannot be empty")
	}
	if !gender.IsValid() {
		return nil, shared.NewDomainError("INVALID_GENDER", "Unknown gender value")
	}

	return &Patient{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		FullName:          fullName,
		Gender:            gender,
		BloodType:         BloodTypeUnknown,
	}, nil
}

// UpdateProfile updates patient identity and contact fields
func (p *Patient) UpdateProfile(fullName string, gender Gender, dateOfBirth *time.Time, address, phoneNumber string) error {
	if fullName == "" {
		return shared.NewDomainError("INVALID_NAME", "Patient name cannot be empty")
	}
	if !gender.IsValid() {
		return shared.NewDomainError("INVALID_GENDER", "Unknown gender value")
	}

	p.FullName = fullName
	p.Gender = gender
	p.DateOfBirth = dateOfBirth
	p.Address = address
	p.PhoneNumber = phoneNumber
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	return nil
}

// UpdateMedicalInfo updates the medical fields of the record
func (p *Patient) UpdateMedicalInfo(bloodType BloodType, allergies, medicalHistory string) error {
	if !bloodType.IsValid() {
		return shared.NewDomainError("INVALID_BLOOD_TYPE", "Unknown blood type")
	}

	p.BloodType = bloodType
	p.Allergies = allergies
	p.MedicalHistory = medicalHistory
	p.UpdatedAt = time.Now()

	return nil
}

// Age returns the patient's age in full years at the given time,
// or -1 when the date of birth is unknown.
func (p *Patient) Age(now time.Time) int {
	if p.DateOfBirth == nil {
		return -1
	}
	dob := *p.DateOfBirth
	age := now.Year() - dob.Year()
	if now.Month() < dob.Month() || (now.Month() == dob.Month() && now.Day() < dob.Day()) {
		age--
	}
	return age
}

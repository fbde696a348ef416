package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pharmacy/backend/internal/domain/catalog"
	"github.com/pharmacy/backend/internal/domain/shared"
)

// GormPatientRepository implements catalog.PatientRepository using GORM
type GormPatientRepository struct {
	db *gorm.DB
}

// NewGormPatientRepository creates a new GormPatientRepository
func NewGormPatientRepository(db *gorm.DB) *GormPatientRepository {
	return &GormPatientRepository{db: db}
}

// FindByID finds a patient by its ID
func (r *GormPatientRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Patient, error) {
	var patient catalog.Patient
	if err := r.db.WithContext(ctx).First(&patient, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &patient, nil
}

// FindAll finds patients matching the filter
func (r *GormPatientRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Patient, error) {
	var patients []catalog.Patient
	query := r.applyFilter(r.db.WithContext(ctx).Model(&catalog.Patient{}), filter)
	if err := query.Find(&patients).Error; err != nil {
		return nil, err
	}
	return patients, nil
}

// Save creates or updates a patient
func (r *GormPatientRepository) Save(ctx context.Context, patient *catalog.Patient) error {
	return r.db.WithContext(ctx).Save(patient).Error
}

// Delete deletes a patient by ID
func (r *GormPatientRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&catalog.Patient{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Count counts patients matching the filter
func (r *GormPatientRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&catalog.Patient{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormPatientRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	orderBy := ValidateSortField(filter.OrderBy, PatientSortFields, "created_at")
	orderDir := ValidateSortOrder(filter.OrderDir)
	return query.Order(orderBy + " " + orderDir)
}

func (r *GormPatientRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		query = query.Where("full_name ILIKE ?", "%"+filter.Search+"%")
	}

	for key, value := range filter.Filters {
		switch key {
		case "gender":
			query = query.Where("gender = ?", value)
		case "blood_type":
			query = query.Where("blood_type = ?", value)
		case "citizen_id":
			query = query.Where("citizen_id = ?", value)
		}
	}

	return query
}

var _ catalog.PatientRepository = (*GormPatientRepository)(nil)

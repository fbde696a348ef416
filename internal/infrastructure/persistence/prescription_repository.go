package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/pharmacy/backend/internal/domain/prescription"
	"github.com/pharmacy/backend/internal/domain/shared"
)

// GormPrescriptionRepository implements prescription.Repository using GORM.
// The aggregate is loaded and saved with its details.
type GormPrescriptionRepository struct {
	db *gorm.DB
}

// NewGormPrescriptionRepository creates a new GormPrescriptionRepository
func NewGormPrescriptionRepository(db *gorm.DB) *GormPrescriptionRepository {
	return &GormPrescriptionRepository{db: db}
}

// FindByID finds a prescription with its details
func (r *GormPrescriptionRepository) FindByID(ctx context.Context, id uuid.UUID) (*prescription.Prescription, error) {
	var p prescription.Prescription
	err := r.db.WithContext(ctx).
		Preload("Details", func(db *gorm.DB) *gorm.DB {
			return db.Order("prescription_details.created_at ASC")
		}).
		First(&p, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

// FindAll finds prescriptions matching the filter
func (r *GormPrescriptionRepository) FindAll(ctx context.Context, filter shared.Filter) ([]prescription.Prescription, error) {
	var items []prescription.Prescription
	query := r.applyFilter(r.db.WithContext(ctx).Model(&prescription.Prescription{}), filter).
		Preload("Details")
	if err := query.Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// FindPending returns open prescriptions ordered by creation time
// ascending, so the oldest waiting prescription is served first.
func (r *GormPrescriptionRepository) FindPending(ctx context.Context) ([]prescription.Prescription, error) {
	var items []prescription.Prescription
	err := r.db.WithContext(ctx).
		Preload("Details").
		Where("status = ?", prescription.StatusPending).
		Order("created_at ASC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

// FindByDoctor finds prescriptions authored by a doctor
func (r *GormPrescriptionRepository) FindByDoctor(ctx context.Context, doctorID uuid.UUID, filter shared.Filter) ([]prescription.Prescription, error) {
	var items []prescription.Prescription
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&prescription.Prescription{}).Where("doctor_id = ?", doctorID),
		filter,
	).Preload("Details")
	if err := query.Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// Save creates or updates a prescription together with its details
func (r *GormPrescriptionRepository) Save(ctx context.Context, p *prescription.Prescription) error {
	return r.db.WithContext(ctx).
		Session(&gorm.Session{FullSaveAssociations: true}).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Save(p).Error
}

// ClaimDetail flips a detail to collected with a conditional UPDATE.
// The collected = false predicate makes the claim exclusive: under
// concurrent dispensing only one transaction sees a row affected, the
// loser gets false and must not reserve stock for the detail.
func (r *GormPrescriptionRepository) ClaimDetail(ctx context.Context, detailID uuid.UUID) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&prescription.Detail{}).
		Where("id = ? AND collected = ?", detailID, false).
		Updates(map[string]interface{}{
			"collected":  true,
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// Count counts prescriptions matching the filter
func (r *GormPrescriptionRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&prescription.Prescription{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormPrescriptionRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	orderBy := ValidateSortField(filter.OrderBy, PrescriptionSortFields, "created_at")
	orderDir := ValidateSortOrder(filter.OrderDir)
	return query.Order(orderBy + " " + orderDir)
}

func (r *GormPrescriptionRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "patient_id":
			query = query.Where("patient_id = ?", value)
		case "doctor_id":
			query = query.Where("doctor_id = ?", value)
		}
	}
	return query
}

var _ prescription.Repository = (*GormPrescriptionRepository)(nil)

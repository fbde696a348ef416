package report

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/pharmacy/backend/internal/domain/catalog"
	"github.com/pharmacy/backend/internal/domain/inventory"
	"github.com/pharmacy/backend/internal/domain/prescription"
	"github.com/pharmacy/backend/internal/domain/shared"
)

// ReportService provides dashboard counters and movement history views.
type ReportService struct {
	productRepo      catalog.ProductRepository
	patientRepo      catalog.PatientRepository
	prescriptionRepo prescription.Repository
	movementRepo     inventory.StockMovementRepository
}

// NewReportService creates a new ReportService.
func NewReportService(
	productRepo catalog.ProductRepository,
	patientRepo catalog.PatientRepository,
	prescriptionRepo prescription.Repository,
	movementRepo inventory.StockMovementRepository,
) *ReportService {
	return &ReportService{
		productRepo:      productRepo,
		patientRepo:      patientRepo,
		prescriptionRepo: prescriptionRepo,
		movementRepo:     movementRepo,
	}
}

// DashboardSummaryResponse holds the front-page counters.
type DashboardSummaryResponse struct {
	ProductCount         int64 `json:"product_count"`
	PatientCount         int64 `json:"patient_count"`
	PrescriptionCount    int64 `json:"prescription_count"`
	PendingPrescriptions int64 `json:"pending_prescriptions"`
	MovementCount        int64 `json:"movement_count"`
}

// MovementResponse is one row of the movement history. ProductName is
// resolved at read time; deleted products show a placeholder.
type MovementResponse struct {
	ID             uuid.UUID  `json:"id"`
	ProductID      uuid.UUID  `json:"product_id"`
	ProductName    string     `json:"product_name"`
	Quantity       int64      `json:"quantity"`
	StaffID        uuid.UUID  `json:"staff_id"`
	PrescriptionID *uuid.UUID `json:"prescription_id,omitempty"`
	OccurredAt     time.Time  `json:"occurred_at"`
}

// GetDashboardSummary returns the counters shown on the dashboard.
func (s *ReportService) GetDashboardSummary(ctx context.Context) (*DashboardSummaryResponse, error) {
	all := shared.Filter{}

	productCount, err := s.productRepo.Count(ctx, all)
	if err != nil {
		return nil, err
	}
	patientCount, err := s.patientRepo.Count(ctx, all)
	if err != nil {
		return nil, err
	}
	prescriptionCount, err := s.prescriptionRepo.Count(ctx, all)
	if err != nil {
		return nil, err
	}
	pendingCount, err := s.prescriptionRepo.Count(ctx, shared.Filter{
		Filters: map[string]interface{}{"status": prescription.StatusPending},
	})
	if err != nil {
		return nil, err
	}
	movementCount, err := s.movementRepo.Count(ctx, all)
	if err != nil {
		return nil, err
	}

	return &DashboardSummaryResponse{
		ProductCount:         productCount,
		PatientCount:         patientCount,
		PrescriptionCount:    prescriptionCount,
		PendingPrescriptions: pendingCount,
		MovementCount:        movementCount,
	}, nil
}

// ListMovements returns the movement history matching the filter, newest
// first, with product names resolved.
func (s *ReportService) ListMovements(ctx context.Context, filter shared.Filter) (*shared.Paginated[*MovementResponse], error) {
	movements, err := s.movementRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.movementRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	rows, err := s.resolveMovements(ctx, movements)
	if err != nil {
		return nil, err
	}
	result := shared.NewPaginated(rows, total, filter.Page, filter.PageSize)
	return &result, nil
}

// ListMovementsByPrescription returns the movements recorded against one
// prescription, in recording order.
func (s *ReportService) ListMovementsByPrescription(ctx context.Context, prescriptionID uuid.UUID) ([]*MovementResponse, error) {
	movements, err := s.movementRepo.FindByPrescription(ctx, prescriptionID)
	if err != nil {
		return nil, err
	}
	return s.resolveMovements(ctx, movements)
}

// ListMovementsByProduct returns the movements of one product.
func (s *ReportService) ListMovementsByProduct(ctx context.Context, productID uuid.UUID, filter shared.Filter) ([]*MovementResponse, error) {
	movements, err := s.movementRepo.FindByProduct(ctx, productID, filter)
	if err != nil {
		return nil, err
	}
	return s.resolveMovements(ctx, movements)
}

// resolveMovements maps movement rows to responses, looking up product
// names once per distinct product. A product deleted since the movement
// was recorded keeps the row; its name becomes a placeholder.
func (s *ReportService) resolveMovements(ctx context.Context, movements []inventory.StockMovement) ([]*MovementResponse, error) {
	names := make(map[uuid.UUID]string)
	rows := make([]*MovementResponse, 0, len(movements))

	for i := range movements {
		m := &movements[i]
		name, ok := names[m.ProductID]
		if !ok {
			product, err := s.productRepo.FindByID(ctx, m.ProductID)
			switch {
			case err == nil:
				name = product.Name
			case isNotFound(err):
				name = catalog.DeletedProductName
			default:
				return nil, err
			}
			names[m.ProductID] = name
		}
		rows = append(rows, &MovementResponse{
			ID:             m.ID,
			ProductID:      m.ProductID,
			ProductName:    name,
			Quantity:       m.Quantity,
			StaffID:        m.StaffID,
			PrescriptionID: m.PrescriptionID,
			OccurredAt:     m.OccurredAt(),
		})
	}
	return rows, nil
}

func isNotFound(err error) bool {
	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Code == shared.ErrNotFound.Code
	}
	return false
}

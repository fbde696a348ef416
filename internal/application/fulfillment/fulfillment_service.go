package fulfillment

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/pharmacy/backend/internal/domain/catalog"
	"github.com/pharmacy/backend/internal/domain/inventory"
	"github.com/pharmacy/backend/internal/domain/prescription"
	"github.com/pharmacy/backend/internal/domain/shared"
)

// FulfillmentService orchestrates prescription creation and dispensing.
// Every state-changing operation runs inside a single transaction scope:
// stock decrements, movement records and prescription status advance
// together or not at all.
type FulfillmentService struct {
	scope       TransactionScope
	defaultMode DispenseMode
}

// NewFulfillmentService creates a new FulfillmentService.
func NewFulfillmentService(scope TransactionScope, defaultMode DispenseMode) *FulfillmentService {
	if !defaultMode.IsValid() {
		defaultMode = DispenseModeImmediate
	}
	return &FulfillmentService{
		scope:       scope,
		defaultMode: defaultMode,
	}
}

// Create records a new prescription. Lines with non-positive quantities
// are skipped; if nothing valid remains the request is rejected. In
// IMMEDIATE mode all lines are reserved, recorded as movements and the
// prescription is dispensed in the same transaction. In DEFERRED mode
// the prescription is stored as pending without touching stock.
func (s *FulfillmentService) Create(ctx context.Context, staffID uuid.UUID, req *CreatePrescriptionRequest) (*PrescriptionResponse, error) {
	mode := req.Mode
	if mode == "" {
		mode = s.defaultMode
	}
	if !mode.IsValid() {
		return nil, ErrInvalidDispenseMode
	}

	lines := make([]PrescriptionLineRequest, 0, len(req.Lines))
	for _, line := range req.Lines {
		if line.Quantity <= 0 {
			continue
		}
		lines = append(lines, line)
	}
	if len(lines) == 0 {
		return nil, ErrEmptyPrescription
	}

	p, err := prescription.New(req.PatientID, req.DoctorID)
	if err != nil {
		return nil, err
	}
	for _, line := range lines {
		if _, err := p.AddDetail(line.ProductID, line.Quantity); err != nil {
			return nil, err
		}
	}

	err = s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		// Verify every line against current stock before any write, so
		// a shortfall on the last line does not leave earlier ones
		// partially applied.
		for _, detail := range p.Details {
			product, err := repos.Products().FindByID(ctx, detail.ProductID)
			if err != nil {
				return err
			}
			if product.Quantity < detail.Quantity {
				return catalog.NewInsufficientStockError(product.ID, product.Name, detail.Quantity, product.Quantity)
			}
		}

		if err := repos.Prescriptions().Save(ctx, p); err != nil {
			return fmt.Errorf("failed to save prescription: %w", err)
		}

		if mode == DispenseModeDeferred {
			return nil
		}

		for i := range p.Details {
			detail := &p.Details[i]
			if _, err := s.collectDetail(ctx, repos, p, detail, staffID); err != nil {
				return err
			}
		}
		if err := p.Dispense(); err != nil {
			return err
		}
		return repos.Prescriptions().Save(ctx, p)
	})
	if err != nil {
		return nil, err
	}

	return ToPrescriptionResponse(p), nil
}

// DispenseSelected collects the selected details of a pending
// prescription, decrementing stock and recording a movement per detail.
// Already collected details and ids not belonging to the prescription
// are ignored. When the last uncollected detail is collected the
// prescription transitions to DISPENSED.
func (s *FulfillmentService) DispenseSelected(ctx context.Context, staffID uuid.UUID, prescriptionID uuid.UUID, req *DispenseSelectedRequest) (*PrescriptionResponse, error) {
	if len(req.DetailIDs) == 0 {
		return nil, ErrEmptySelection
	}
	selected := make(map[uuid.UUID]bool, len(req.DetailIDs))
	for _, id := range req.DetailIDs {
		selected[id] = true
	}

	var p *prescription.Prescription
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		p, err = repos.Prescriptions().FindByID(ctx, prescriptionID)
		if err != nil {
			return err
		}
		if !p.IsPending() {
			// Terminal prescriptions are not dispensable targets.
			return shared.ErrNotFound
		}

		collectedAny := false
		for i := range p.Details {
			detail := &p.Details[i]
			if !selected[detail.ID] || detail.Collected {
				continue
			}
			collected, err := s.collectDetail(ctx, repos, p, detail, staffID)
			if err != nil {
				return err
			}
			if collected {
				collectedAny = true
			}
		}

		if p.AllCollected() {
			if err := p.Dispense(); err != nil {
				return err
			}
		} else if collectedAny {
			p.IncrementVersion()
		}
		return repos.Prescriptions().Save(ctx, p)
	})
	if err != nil {
		return nil, err
	}

	return ToPrescriptionResponse(p), nil
}

// collectDetail claims a single detail, reserves stock for it and
// appends the movement record. Must run inside a transaction scope.
// The storage-level claim is the concurrency guard: the loaded
// aggregate is a snapshot, so two transactions dispensing the same
// detail both see it uncollected in memory. Only the one whose claim
// flips the row proceeds to reserve; the other returns false and the
// detail is marked collected in memory so a later Save does not
// clobber the winner's flag.
func (s *FulfillmentService) collectDetail(ctx context.Context, repos TransactionalRepositories, p *prescription.Prescription, detail *prescription.Detail, staffID uuid.UUID) (bool, error) {
	claimed, err := repos.Prescriptions().ClaimDetail(ctx, detail.ID)
	if err != nil {
		return false, err
	}
	if !claimed {
		return false, detail.MarkCollected()
	}
	if err := repos.Products().Reserve(ctx, detail.ProductID, detail.Quantity); err != nil {
		return false, err
	}
	movement, err := inventory.NewStockMovement(detail.ProductID, detail.Quantity, staffID, &p.ID)
	if err != nil {
		return false, err
	}
	if err := repos.Movements().Append(ctx, movement); err != nil {
		return false, fmt.Errorf("failed to record stock movement: %w", err)
	}
	return true, detail.MarkCollected()
}

// Cancel transitions a pending prescription to CANCELLED. Stock already
// reserved for collected details is not returned; the movement trail
// stays intact.
func (s *FulfillmentService) Cancel(ctx context.Context, prescriptionID uuid.UUID) (*PrescriptionResponse, error) {
	var p *prescription.Prescription
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		p, err = repos.Prescriptions().FindByID(ctx, prescriptionID)
		if err != nil {
			return err
		}
		if err := p.Cancel(); err != nil {
			return err
		}
		return repos.Prescriptions().Save(ctx, p)
	})
	if err != nil {
		return nil, err
	}
	return ToPrescriptionResponse(p), nil
}

// GetByID returns a prescription with its details.
func (s *FulfillmentService) GetByID(ctx context.Context, prescriptionID uuid.UUID) (*PrescriptionResponse, error) {
	var p *prescription.Prescription
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		p, err = repos.Prescriptions().FindByID(ctx, prescriptionID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return ToPrescriptionResponse(p), nil
}

// ListPending returns pending prescriptions ordered oldest first, so
// the counter works through the queue in arrival order.
func (s *FulfillmentService) ListPending(ctx context.Context) ([]*PrescriptionResponse, error) {
	var items []prescription.Prescription
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		items, err = repos.Prescriptions().FindPending(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return ToPrescriptionResponses(items), nil
}

// List returns prescriptions matching the filter, with total count.
func (s *FulfillmentService) List(ctx context.Context, filter shared.Filter) (*shared.Paginated[*PrescriptionResponse], error) {
	var (
		items []prescription.Prescription
		total int64
	)
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		items, err = repos.Prescriptions().FindAll(ctx, filter)
		if err != nil {
			return err
		}
		total, err = repos.Prescriptions().Count(ctx, filter)
		return err
	})
	if err != nil {
		return nil, err
	}
	result := shared.NewPaginated(ToPrescriptionResponses(items), total, filter.Page, filter.PageSize)
	return &result, nil
}

// ListByDoctor returns prescriptions issued by the given doctor.
func (s *FulfillmentService) ListByDoctor(ctx context.Context, doctorID uuid.UUID, filter shared.Filter) ([]*PrescriptionResponse, error) {
	var items []prescription.Prescription
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		items, err = repos.Prescriptions().FindByDoctor(ctx, doctorID, filter)
		return err
	})
	if err != nil {
		return nil, err
	}
	return ToPrescriptionResponses(items), nil
}

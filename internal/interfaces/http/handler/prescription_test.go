package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	fulfillmentapp "github.com/pharmacy/backend/internal/application/fulfillment"
	"github.com/pharmacy/backend/internal/domain/catalog"
	"github.com/pharmacy/backend/internal/domain/inventory"
	"github.com/pharmacy/backend/internal/domain/prescription"
	"github.com/pharmacy/backend/internal/domain/shared"
	"github.com/pharmacy/backend/internal/interfaces/http/dto"
	"github.com/pharmacy/backend/internal/interfaces/http/middleware"
)

// In-memory repository fakes backing the real fulfillment service

type fakeProductRepository struct {
	products map[uuid.UUID]*catalog.Product
}

func newFakeProductRepository() *fakeProductRepository {
	return &fakeProductRepository{products: make(map[uuid.UUID]*catalog.Product)}
}

func (f *fakeProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	if p, ok := f.products[id]; ok {
		return p, nil
	}
	return nil, shared.ErrNotFound
}

func (f *fakeProductRepository) FindByCode(ctx context.Context, code string) (*catalog.Product, error) {
	for _, p := range f.products {
		if p.Code == code {
			return p, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (f *fakeProductRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Product, error) {
	var result []catalog.Product
	for _, p := range f.products {
		result = append(result, *p)
	}
	return result, nil
}

func (f *fakeProductRepository) Save(ctx context.Context, product *catalog.Product) error {
	f.products[product.ID] = product
	return nil
}

func (f *fakeProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	delete(f.products, id)
	return nil
}

func (f *fakeProductRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	return int64(len(f.products)), nil
}

func (f *fakeProductRepository) GetStock(ctx context.Context, id uuid.UUID) (int64, error) {
	p, ok := f.products[id]
	if !ok {
		return 0, shared.ErrNotFound
	}
	return p.Quantity, nil
}

func (f *fakeProductRepository) Reserve(ctx context.Context, id uuid.UUID, quantity int64) error {
	p, ok := f.products[id]
	if !ok {
		return shared.ErrNotFound
	}
	if p.Quantity < quantity {
		return catalog.NewInsufficientStockError(p.ID, p.Name, quantity, p.Quantity)
	}
	p.Quantity -= quantity
	return nil
}

func (f *fakeProductRepository) Restock(ctx context.Context, id uuid.UUID, quantity int64) error {
	p, ok := f.products[id]
	if !ok {
		return shared.ErrNotFound
	}
	p.Quantity += quantity
	return nil
}

type fakePrescriptionRepository struct {
	prescriptions map[uuid.UUID]*prescription.Prescription
	claimed       map[uuid.UUID]bool
}

func newFakePrescriptionRepository() *fakePrescriptionRepository {
	return &fakePrescriptionRepository{
		prescriptions: make(map[uuid.UUID]*prescription.Prescription),
		claimed:       make(map[uuid.UUID]bool),
	}
}

func (f *fakePrescriptionRepository) FindByID(ctx context.Context, id uuid.UUID) (*prescription.Prescription, error) {
	if p, ok := f.prescriptions[id]; ok {
		return p, nil
	}
	return nil, shared.ErrNotFound
}

func (f *fakePrescriptionRepository) FindAll(ctx context.Context, filter shared.Filter) ([]prescription.Prescription, error) {
	var result []prescription.Prescription
	for _, p := range f.prescriptions {
		result = append(result, *p)
	}
	return result, nil
}

func (f *fakePrescriptionRepository) FindPending(ctx context.Context) ([]prescription.Prescription, error) {
	var result []prescription.Prescription
	for _, p := range f.prescriptions {
		if p.IsPending() {
			result = append(result, *p)
		}
	}
	return result, nil
}

func (f *fakePrescriptionRepository) FindByDoctor(ctx context.Context, doctorID uuid.UUID, filter shared.Filter) ([]prescription.Prescription, error) {
	var result []prescription.Prescription
	for _, p := range f.prescriptions {
		if p.DoctorID == doctorID {
			result = append(result, *p)
		}
	}
	return result, nil
}

func (f *fakePrescriptionRepository) Save(ctx context.Context, p *prescription.Prescription) error {
	f.prescriptions[p.ID] = p
	return nil
}

func (f *fakePrescriptionRepository) ClaimDetail(ctx context.Context, detailID uuid.UUID) (bool, error) {
	if f.claimed[detailID] {
		return false, nil
	}
	f.claimed[detailID] = true
	return true, nil
}

func (f *fakePrescriptionRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	return int64(len(f.prescriptions)), nil
}

type fakeMovementRepository struct {
	movements []*inventory.StockMovement
}

func newFakeMovementRepository() *fakeMovementRepository {
	return &fakeMovementRepository{}
}

func (f *fakeMovementRepository) Append(ctx context.Context, movement *inventory.StockMovement) error {
	f.movements = append(f.movements, movement)
	return nil
}

func (f *fakeMovementRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.StockMovement, error) {
	for _, m := range f.movements {
		if m.ID == id {
			return m, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (f *fakeMovementRepository) FindAll(ctx context.Context, filter shared.Filter) ([]inventory.StockMovement, error) {
	var result []inventory.StockMovement
	for _, m := range f.movements {
		result = append(result, *m)
	}
	return result, nil
}

func (f *fakeMovementRepository) FindByProduct(ctx context.Context, productID uuid.UUID, filter shared.Filter) ([]inventory.StockMovement, error) {
	var result []inventory.StockMovement
	for _, m := range f.movements {
		if m.ProductID == productID {
			result = append(result, *m)
		}
	}
	return result, nil
}

func (f *fakeMovementRepository) FindByPrescription(ctx context.Context, prescriptionID uuid.UUID) ([]inventory.StockMovement, error) {
	var result []inventory.StockMovement
	for _, m := range f.movements {
		if m.PrescriptionID != nil && *m.PrescriptionID == prescriptionID {
			result = append(result, *m)
		}
	}
	return result, nil
}

func (f *fakeMovementRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	return int64(len(f.movements)), nil
}

func (f *fakeMovementRepository) SumQuantityByProduct(ctx context.Context, productID uuid.UUID) (int64, error) {
	var sum int64
	for _, m := range f.movements {
		if m.ProductID == productID {
			sum += m.Quantity
		}
	}
	return sum, nil
}

type prescriptionHandlerFixture struct {
	handler       *PrescriptionHandler
	products      *fakeProductRepository
	prescriptions *fakePrescriptionRepository
	movements     *fakeMovementRepository
	router        *gin.Engine
}

func newPrescriptionHandlerFixture(t *testing.T) *prescriptionHandlerFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)
	middleware.SetupValidator()

	products := newFakeProductRepository()
	prescriptions := newFakePrescriptionRepository()
	movements := newFakeMovementRepository()

	scope := fulfillmentapp.NewNoOpTransactionScope(products, prescriptions, movements)
	service := fulfillmentapp.NewFulfillmentService(scope, fulfillmentapp.DispenseModeImmediate)
	h := NewPrescriptionHandler(service)

	r := gin.New()
	r.POST("/prescriptions", h.Create)
	r.POST("/prescriptions/:id/dispense", h.Dispense)
	r.POST("/prescriptions/:id/cancel", h.Cancel)
	r.GET("/prescriptions/pending", h.ListPending)
	r.GET("/prescriptions/:id", h.GetByID)

	return &prescriptionHandlerFixture{
		handler:       h,
		products:      products,
		prescriptions: prescriptions,
		movements:     movements,
		router:        r,
	}
}

func (f *prescriptionHandlerFixture) addProduct(t *testing.T, quantity int64) *catalog.Product {
	t.Helper()
	product, err := catalog.NewProduct(
		"MED-"+uuid.NewString()[:8], "Paracetamol 500mg",
		catalog.CategoryOTCDrug, catalog.UnitBox,
		quantity, decimal.NewFromInt(2), decimal.NewFromInt(5),
	)
	require.NoError(t, err)
	require.NoError(t, f.products.Save(context.Background(), product))
	return product
}

func postJSON(r *gin.Engine, path string, staffID uuid.UUID, body any) *httptest.ResponseRecorder {
	payload, _ := json.Marshal(body)
	req, _ := http.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	if staffID != uuid.Nil {
		req.Header.Set("X-Staff-ID", staffID.String())
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestPrescriptionHandler_Create_Immediate(t *testing.T) {
	f := newPrescriptionHandlerFixture(t)
	product := f.addProduct(t, 20)
	staffID := uuid.New()

	w := postJSON(f.router, "/prescriptions", staffID, gin.H{
		"patient_id": uuid.NewString(),
		"doctor_id":  uuid.NewString(),
		"mode":       "IMMEDIATE",
		"lines": []gin.H{
			{"product_id": product.ID.String(), "quantity": 3},
		},
	})

	assert.Equal(t, http.StatusCreated, w.Code)

	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)

	data := resp.Data.(map[string]interface{})
	assert.Equal(t, string(prescription.StatusDispensed), data["status"])

	// Stock decremented and a movement recorded against the prescription
	assert.Equal(t, int64(17), f.products.products[product.ID].Quantity)
	require.Len(t, f.movements.movements, 1)
	assert.Equal(t, staffID, f.movements.movements[0].StaffID)
}

func TestPrescriptionHandler_Create_MissingStaffHeader(t *testing.T) {
	f := newPrescriptionHandlerFixture(t)
	product := f.addProduct(t, 20)

	w := postJSON(f.router, "/prescriptions", uuid.Nil, gin.H{
		"patient_id": uuid.NewString(),
		"doctor_id":  uuid.NewString(),
		"lines": []gin.H{
			{"product_id": product.ID.String(), "quantity": 1},
		},
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "X-Staff-ID")
}

func TestPrescriptionHandler_Create_InsufficientStock(t *testing.T) {
	f := newPrescriptionHandlerFixture(t)
	product := f.addProduct(t, 2)

	w := postJSON(f.router, "/prescriptions", uuid.New(), gin.H{
		"patient_id": uuid.NewString(),
		"doctor_id":  uuid.NewString(),
		"mode":       "IMMEDIATE",
		"lines": []gin.H{
			{"product_id": product.ID.String(), "quantity": 10},
		},
	})

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, dto.ErrCodeInsufficientStock, resp.Error.Code)

	// Nothing persisted
	assert.Equal(t, int64(2), f.products.products[product.ID].Quantity)
	assert.Empty(t, f.prescriptions.prescriptions)
	assert.Empty(t, f.movements.movements)
}

func TestPrescriptionHandler_Create_EmptyLines(t *testing.T) {
	f := newPrescriptionHandlerFixture(t)

	w := postJSON(f.router, "/prescriptions", uuid.New(), gin.H{
		"patient_id": uuid.NewString(),
		"doctor_id":  uuid.NewString(),
		"mode":       "DEFERRED",
		"lines":      []gin.H{},
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, dto.ErrCodeEmptyPrescription, resp.Error.Code)
}

func TestPrescriptionHandler_Create_UnknownMode(t *testing.T) {
	f := newPrescriptionHandlerFixture(t)
	product := f.addProduct(t, 20)

	w := postJSON(f.router, "/prescriptions", uuid.New(), gin.H{
		"patient_id": uuid.NewString(),
		"doctor_id":  uuid.NewString(),
		"mode":       "BULK",
		"lines": []gin.H{
			{"product_id": product.ID.String(), "quantity": 1},
		},
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, dto.ErrCodeBadRequest, resp.Error.Code)
	assert.Contains(t, resp.Error.Message, "dispense_mode")
}

func TestPrescriptionHandler_Dispense(t *testing.T) {
	f := newPrescriptionHandlerFixture(t)
	product := f.addProduct(t, 20)
	staffID := uuid.New()

	// Deferred create leaves the prescription pending
	w := postJSON(f.router, "/prescriptions", staffID, gin.H{
		"patient_id": uuid.NewString(),
		"doctor_id":  uuid.NewString(),
		"mode":       "DEFERRED",
		"lines": []gin.H{
			{"product_id": product.ID.String(), "quantity": 4},
		},
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var created dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	data := created.Data.(map[string]interface{})
	prescriptionID := data["id"].(string)
	details := data["details"].([]interface{})
	detailID := details[0].(map[string]interface{})["id"].(string)

	assert.Equal(t, int64(20), f.products.products[product.ID].Quantity)

	w = postJSON(f.router, "/prescriptions/"+prescriptionID+"/dispense", staffID, gin.H{
		"detail_ids": []string{detailID},
	})

	assert.Equal(t, http.StatusOK, w.Code)

	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	dispensed := resp.Data.(map[string]interface{})
	assert.Equal(t, string(prescription.StatusDispensed), dispensed["status"])
	assert.Equal(t, int64(16), f.products.products[product.ID].Quantity)
}

func TestPrescriptionHandler_Dispense_UnknownPrescription(t *testing.T) {
	f := newPrescriptionHandlerFixture(t)

	w := postJSON(f.router, "/prescriptions/"+uuid.NewString()+"/dispense", uuid.New(), gin.H{
		"detail_ids": []string{uuid.NewString()},
	})

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestPrescriptionHandler_Dispense_InvalidID(t *testing.T) {
	f := newPrescriptionHandlerFixture(t)

	w := postJSON(f.router, "/prescriptions/not-a-uuid/dispense", uuid.New(), gin.H{
		"detail_ids": []string{uuid.NewString()},
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPrescriptionHandler_Cancel(t *testing.T) {
	f := newPrescriptionHandlerFixture(t)
	product := f.addProduct(t, 20)

	w := postJSON(f.router, "/prescriptions", uuid.New(), gin.H{
		"patient_id": uuid.NewString(),
		"doctor_id":  uuid.NewString(),
		"mode":       "DEFERRED",
		"lines": []gin.H{
			{"product_id": product.ID.String(), "quantity": 2},
		},
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var created dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	prescriptionID := created.Data.(map[string]interface{})["id"].(string)

	w = postJSON(f.router, "/prescriptions/"+prescriptionID+"/cancel", uuid.Nil, nil)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, string(prescription.StatusCancelled), resp.Data.(map[string]interface{})["status"])
}

func TestPrescriptionHandler_GetByID_NotFound(t *testing.T) {
	f := newPrescriptionHandlerFixture(t)

	req, _ := http.NewRequest(http.MethodGet, "/prescriptions/"+uuid.NewString(), nil)
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestPrescriptionHandler_ListPending(t *testing.T) {
	f := newPrescriptionHandlerFixture(t)
	product := f.addProduct(t, 20)

	w := postJSON(f.router, "/prescriptions", uuid.New(), gin.H{
		"patient_id": uuid.NewString(),
		"doctor_id":  uuid.NewString(),
		"mode":       "DEFERRED",
		"lines": []gin.H{
			{"product_id": product.ID.String(), "quantity": 1},
		},
	})
	require.Equal(t, http.StatusCreated, w.Code)

	req, _ := http.NewRequest(http.MethodGet, "/prescriptions/pending", nil)
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp dto.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	items := resp.Data.([]interface{})
	assert.Len(t, items, 1)
}

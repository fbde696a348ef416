package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	fulfillmentapp "github.com/pharmacy/backend/internal/application/fulfillment"
	"github.com/pharmacy/backend/internal/interfaces/http/dto"
)

// PrescriptionHandler handles prescription fulfillment API endpoints
type PrescriptionHandler struct {
	BaseHandler
	fulfillmentService *fulfillmentapp.FulfillmentService
}

// NewPrescriptionHandler creates a new PrescriptionHandler
func NewPrescriptionHandler(fulfillmentService *fulfillmentapp.FulfillmentService) *PrescriptionHandler {
	return &PrescriptionHandler{
		fulfillmentService: fulfillmentService,
	}
}

// PrescriptionListRequest carries list parameters plus prescription filters
type PrescriptionListRequest struct {
	dto.ListRequest
	Status    string `form:"status" binding:"omitempty,oneof=PENDING DISPENSED CANCELLED"`
	PatientID string `form:"patient_id" binding:"omitempty,uuid"`
	DoctorID  string `form:"doctor_id" binding:"omitempty,uuid"`
}

// Create godoc
// @Summary      Create a prescription
// @Description  Records a prescription and, in IMMEDIATE mode, dispenses it in one transaction
// @Tags         fulfillment
// @Accept       json
// @Produce      json
// @Router       /fulfillment/prescriptions [post]
func (h *PrescriptionHandler) Create(c *gin.Context) {
	staffID, err := getStaffID(c)
	if err != nil {
		h.BadRequest(c, "Missing or invalid X-Staff-ID header")
		return
	}

	var req fulfillmentapp.CreatePrescriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.fulfillmentService.Create(c.Request.Context(), staffID, &req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, resp)
}

// Dispense godoc
// @Summary      Dispense selected lines of a pending prescription
// @Tags         fulfillment
// @Accept       json
// @Produce      json
// @Router       /fulfillment/prescriptions/{id}/dispense [post]
func (h *PrescriptionHandler) Dispense(c *gin.Context) {
	staffID, err := getStaffID(c)
	if err != nil {
		h.BadRequest(c, "Missing or invalid X-Staff-ID header")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid prescription ID")
		return
	}

	var req fulfillmentapp.DispenseSelectedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.fulfillmentService.DispenseSelected(c.Request.Context(), staffID, id, &req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// Cancel godoc
// @Summary      Cancel a pending prescription
// @Tags         fulfillment
// @Produce      json
// @Router       /fulfillment/prescriptions/{id}/cancel [post]
func (h *PrescriptionHandler) Cancel(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid prescription ID")
		return
	}

	resp, err := h.fulfillmentService.Cancel(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// GetByID godoc
// @Summary      Get a prescription by ID
// @Tags         fulfillment
// @Produce      json
// @Router       /fulfillment/prescriptions/{id} [get]
func (h *PrescriptionHandler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid prescription ID")
		return
	}

	resp, err := h.fulfillmentService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// List godoc
// @Summary      List prescriptions
// @Description  Paginated prescription listing with optional status, patient and doctor filters
// @Tags         fulfillment
// @Produce      json
// @Router       /fulfillment/prescriptions [get]
func (h *PrescriptionHandler) List(c *gin.Context) {
	var req PrescriptionListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	filter := req.ToFilter()
	if req.Status != "" || req.PatientID != "" || req.DoctorID != "" {
		filter.Filters = make(map[string]interface{})
	}
	if req.Status != "" {
		filter.Filters["status"] = req.Status
	}
	if req.PatientID != "" {
		filter.Filters["patient_id"] = req.PatientID
	}
	if req.DoctorID != "" {
		filter.Filters["doctor_id"] = req.DoctorID
	}

	result, err := h.fulfillmentService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Items, result.Total, result.Page, result.PageSize)
}

// ListPending godoc
// @Summary      List pending prescriptions awaiting pickup
// @Description  Returns pending prescriptions oldest first
// @Tags         fulfillment
// @Produce      json
// @Router       /fulfillment/prescriptions/pending [get]
func (h *PrescriptionHandler) ListPending(c *gin.Context) {
	resp, err := h.fulfillmentService.ListPending(c.Request.Context())
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// ListByDoctor godoc
// @Summary      List prescriptions written by a doctor
// @Tags         fulfillment
// @Produce      json
// @Router       /fulfillment/doctors/{doctor_id}/prescriptions [get]
func (h *PrescriptionHandler) ListByDoctor(c *gin.Context) {
	doctorID, err := uuid.Parse(c.Param("doctor_id"))
	if err != nil {
		h.BadRequest(c, "Invalid doctor ID")
		return
	}

	var req dto.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.fulfillmentService.ListByDoctor(c.Request.Context(), doctorID, req.ToFilter())
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

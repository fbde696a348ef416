package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	catalogapp "github.com/pharmacy/backend/internal/application/catalog"
	"github.com/pharmacy/backend/internal/interfaces/http/dto"
)

// PatientHandler handles patient registry API endpoints
type PatientHandler struct {
	BaseHandler
	patientService *catalogapp.PatientService
}

// NewPatientHandler creates a new PatientHandler
func NewPatientHandler(patientService *catalogapp.PatientService) *PatientHandler {
	return &PatientHandler{
		patientService: patientService,
	}
}

// PatientListRequest carries list parameters plus patient filters
type PatientListRequest struct {
	dto.ListRequest
	Gender    string `form:"gender"`
	BloodType string `form:"blood_type"`
	CitizenID string `form:"citizen_id"`
}

// Create godoc
// @Summary      Register a patient
// @Tags         catalog
// @Accept       json
// @Produce      json
// @Router       /catalog/patients [post]
func (h *PatientHandler) Create(c *gin.Context) {
	var req catalogapp.CreatePatientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.patientService.Create(c.Request.Context(), &req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, resp)
}

// Update godoc
// @Summary      Update a patient's profile and medical info
// @Tags         catalog
// @Accept       json
// @Produce      json
// @Router       /catalog/patients/{id} [put]
func (h *PatientHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid patient ID")
		return
	}

	var req catalogapp.UpdatePatientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.patientService.Update(c.Request.Context(), id, &req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// GetByID godoc
// @Summary      Get a patient by ID
// @Tags         catalog
// @Produce      json
// @Router       /catalog/patients/{id} [get]
func (h *PatientHandler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid patient ID")
		return
	}

	resp, err := h.patientService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// List godoc
// @Summary      List patients
// @Description  Paginated patient listing with name search and demographic filters
// @Tags         catalog
// @Produce      json
// @Router       /catalog/patients [get]
func (h *PatientHandler) List(c *gin.Context) {
	var req PatientListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	filter := req.ToFilter()
	if req.Gender != "" || req.BloodType != "" || req.CitizenID != "" {
		filter.Filters = make(map[string]interface{})
	}
	if req.Gender != "" {
		filter.Filters["gender"] = req.Gender
	}
	if req.BloodType != "" {
		filter.Filters["blood_type"] = req.BloodType
	}
	if req.CitizenID != "" {
		filter.Filters["citizen_id"] = req.CitizenID
	}

	result, err := h.patientService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Items, result.Total, result.Page, result.PageSize)
}

// Delete godoc
// @Summary      Delete a patient
// @Tags         catalog
// @Produce      json
// @Router       /catalog/patients/{id} [delete]
func (h *PatientHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid patient ID")
		return
	}

	if err := h.patientService.Delete(c.Request.Context(), id); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.NoContent(c)
}

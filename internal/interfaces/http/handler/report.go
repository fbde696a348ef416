package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	reportapp "github.com/pharmacy/backend/internal/application/report"
	"github.com/pharmacy/backend/internal/interfaces/http/dto"
)

// ReportHandler handles reporting and stock movement audit endpoints
type ReportHandler struct {
	BaseHandler
	reportService *reportapp.ReportService
}

// NewReportHandler creates a new ReportHandler
func NewReportHandler(reportService *reportapp.ReportService) *ReportHandler {
	return &ReportHandler{
		reportService: reportService,
	}
}

// GetDashboardSummary godoc
// @Summary      Get dashboard counters
// @Description  Entity counts and pending prescription total for the landing dashboard
// @Tags         report
// @Produce      json
// @Router       /report/dashboard [get]
func (h *ReportHandler) GetDashboardSummary(c *gin.Context) {
	resp, err := h.reportService.GetDashboardSummary(c.Request.Context())
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// ListMovements godoc
// @Summary      List stock movements
// @Description  Paginated dispensing audit trail with product names resolved
// @Tags         report
// @Produce      json
// @Router       /report/movements [get]
func (h *ReportHandler) ListMovements(c *gin.Context) {
	var req dto.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.reportService.ListMovements(c.Request.Context(), req.ToFilter())
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Items, result.Total, result.Page, result.PageSize)
}

// ListMovementsByProduct godoc
// @Summary      List stock movements for one product
// @Tags         report
// @Produce      json
// @Router       /report/products/{product_id}/movements [get]
func (h *ReportHandler) ListMovementsByProduct(c *gin.Context) {
	productID, err := uuid.Parse(c.Param("product_id"))
	if err != nil {
		h.BadRequest(c, "Invalid product ID")
		return
	}

	var req dto.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.reportService.ListMovementsByProduct(c.Request.Context(), productID, req.ToFilter())
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// ListMovementsByPrescription godoc
// @Summary      List stock movements recorded for a prescription
// @Tags         report
// @Produce      json
// @Router       /report/prescriptions/{prescription_id}/movements [get]
func (h *ReportHandler) ListMovementsByPrescription(c *gin.Context) {
	prescriptionID, err := uuid.Parse(c.Param("prescription_id"))
	if err != nil {
		h.BadRequest(c, "Invalid prescription ID")
		return
	}

	resp, err := h.reportService.ListMovementsByPrescription(c.Request.Context(), prescriptionID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

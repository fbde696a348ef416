package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	catalogapp "github.com/pharmacy/backend/internal/application/catalog"
	"github.com/pharmacy/backend/internal/interfaces/http/dto"
)

// ProductHandler handles product catalog API endpoints
type ProductHandler struct {
	BaseHandler
	productService *catalogapp.ProductService
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(productService *catalogapp.ProductService) *ProductHandler {
	return &ProductHandler{
		productService: productService,
	}
}

// ProductListRequest carries list parameters plus product filters
type ProductListRequest struct {
	dto.ListRequest
	Category string `form:"category"`
	Supplier string `form:"supplier"`
	InStock  *bool  `form:"in_stock"`
	Expired  *bool  `form:"expired"`
}

// Create godoc
// @Summary      Register a product
// @Tags         catalog
// @Accept       json
// @Produce      json
// @Router       /catalog/products [post]
func (h *ProductHandler) Create(c *gin.Context) {
	var req catalogapp.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.productService.Create(c.Request.Context(), &req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, resp)
}

// Update godoc
// @Summary      Update a product
// @Tags         catalog
// @Accept       json
// @Produce      json
// @Router       /catalog/products/{id} [put]
func (h *ProductHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid product ID")
		return
	}

	var req catalogapp.UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.productService.Update(c.Request.Context(), id, &req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// GetByID godoc
// @Summary      Get a product by ID
// @Tags         catalog
// @Produce      json
// @Router       /catalog/products/{id} [get]
func (h *ProductHandler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid product ID")
		return
	}

	resp, err := h.productService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// GetByCode godoc
// @Summary      Get a product by its unique code
// @Tags         catalog
// @Produce      json
// @Router       /catalog/products/code/{code} [get]
func (h *ProductHandler) GetByCode(c *gin.Context) {
	code := c.Param("code")
	if code == "" {
		h.BadRequest(c, "Product code is required")
		return
	}

	resp, err := h.productService.GetByCode(c.Request.Context(), code)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// List godoc
// @Summary      List products
// @Description  Paginated product listing with search and category/supplier/stock filters
// @Tags         catalog
// @Produce      json
// @Router       /catalog/products [get]
func (h *ProductHandler) List(c *gin.Context) {
	var req ProductListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	filter := req.ToFilter()
	if req.Category != "" || req.Supplier != "" || req.InStock != nil || req.Expired != nil {
		filter.Filters = make(map[string]interface{})
	}
	if req.Category != "" {
		filter.Filters["category"] = req.Category
	}
	if req.Supplier != "" {
		filter.Filters["supplier"] = req.Supplier
	}
	if req.InStock != nil {
		filter.Filters["in_stock"] = *req.InStock
	}
	if req.Expired != nil {
		filter.Filters["expired"] = *req.Expired
	}

	result, err := h.productService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Items, result.Total, result.Page, result.PageSize)
}

// GetStock godoc
// @Summary      Get on-hand stock for a product
// @Tags         catalog
// @Produce      json
// @Router       /catalog/products/{id}/stock [get]
func (h *ProductHandler) GetStock(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid product ID")
		return
	}

	resp, err := h.productService.GetStock(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// AdjustStock godoc
// @Summary      Adjust product stock
// @Description  Applies a signed quantity change, e.g. receiving a delivery or writing off breakage
// @Tags         catalog
// @Accept       json
// @Produce      json
// @Router       /catalog/products/{id}/stock [post]
func (h *ProductHandler) AdjustStock(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid product ID")
		return
	}

	var req catalogapp.AdjustStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.productService.AdjustStock(c.Request.Context(), id, &req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// Delete godoc
// @Summary      Delete a product
// @Tags         catalog
// @Produce      json
// @Router       /catalog/products/{id} [delete]
func (h *ProductHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid product ID")
		return
	}

	if err := h.productService.Delete(c.Request.Context(), id); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.NoContent(c)
}

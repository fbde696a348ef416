package catalog

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/pharmacy/backend/internal/domain/catalog"
	"github.com/pharmacy/backend/internal/domain/shared"
)

// ProductService handles product catalog and stock operations.
type ProductService struct {
	productRepo catalog.ProductRepository
}

// NewProductService creates a new ProductService.
func NewProductService(productRepo catalog.ProductRepository) *ProductService {
	return &ProductService{
		productRepo: productRepo,
	}
}

// Create registers a new product. The code is optional; non-empty
// codes must be unique.
func (s *ProductService) Create(ctx context.Context, req *CreateProductRequest) (*ProductResponse, error) {
	if req.Code != "" {
		if existing, err := s.productRepo.FindByCode(ctx, req.Code); err == nil && existing != nil {
			return nil, shared.NewDomainError("ALREADY_EXISTS", fmt.Sprintf("Product with code %s already exists", req.Code))
		}
	}

	product, err := catalog.NewProduct(req.Code, req.Name, req.Category, req.Unit, req.Quantity, req.ImportPrice, req.SalePrice)
	if err != nil {
		return nil, err
	}
	product.SetExpiryDate(req.ExpiryDate)
	product.SetSupplier(req.Supplier)

	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, fmt.Errorf("failed to save product: %w", err)
	}
	return ToProductResponse(product), nil
}

// Update modifies an existing product. Stock quantity is not updated
// here; use AdjustStock for that.
func (s *ProductService) Update(ctx context.Context, id uuid.UUID, req *UpdateProductRequest) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := product.Update(product.Code, req.Name, req.Category, req.Unit, product.Quantity, req.ImportPrice, req.SalePrice); err != nil {
		return nil, err
	}
	product.SetExpiryDate(req.ExpiryDate)
	product.SetSupplier(req.Supplier)

	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, fmt.Errorf("failed to save product: %w", err)
	}
	return ToProductResponse(product), nil
}

// GetByID returns a product by its ID.
func (s *ProductService) GetByID(ctx context.Context, id uuid.UUID) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return ToProductResponse(product), nil
}

// GetByCode returns a product by its unique code.
func (s *ProductService) GetByCode(ctx context.Context, code string) (*ProductResponse, error) {
	product, err := s.productRepo.FindByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	return ToProductResponse(product), nil
}

// List returns products matching the filter, with total count.
func (s *ProductService) List(ctx context.Context, filter shared.Filter) (*shared.Paginated[*ProductResponse], error) {
	items, err := s.productRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.productRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}
	result := shared.NewPaginated(ToProductResponses(items), total, filter.Page, filter.PageSize)
	return &result, nil
}

// GetStock returns the current on-hand quantity of a product.
func (s *ProductService) GetStock(ctx context.Context, id uuid.UUID) (*StockResponse, error) {
	quantity, err := s.productRepo.GetStock(ctx, id)
	if err != nil {
		return nil, err
	}
	return &StockResponse{ProductID: id, Quantity: quantity}, nil
}

// AdjustStock applies a signed stock adjustment outside the
// prescription flow, such as receiving a delivery or writing off
// damaged goods. Negative adjustments go through Reserve so they
// cannot push stock below zero.
func (s *ProductService) AdjustStock(ctx context.Context, id uuid.UUID, req *AdjustStockRequest) (*StockResponse, error) {
	if req.Quantity == 0 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Adjustment quantity cannot be zero")
	}

	if req.Quantity < 0 {
		if err := s.productRepo.Reserve(ctx, id, -req.Quantity); err != nil {
			return nil, err
		}
	} else {
		if err := s.productRepo.Restock(ctx, id, req.Quantity); err != nil {
			return nil, err
		}
	}

	return s.GetStock(ctx, id)
}

// Delete removes a product from the catalog. Movement history keeps
// its rows; displays substitute a placeholder name.
func (s *ProductService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.productRepo.FindByID(ctx, id); err != nil {
		return err
	}
	return s.productRepo.Delete(ctx, id)
}

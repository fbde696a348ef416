package catalog

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/pharmacy/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// ProductCategory classifies a product in the catalog
type ProductCategory string

const (
	CategoryPrescriptionDrug ProductCategory = "PRESCRIPTION_DRUG"
	CategoryOTCDrug          ProductCategory = "OTC_DRUG"
	CategorySupplement       ProductCategory = "SUPPLEMENT"
	CategoryMedicalSupply    ProductCategory = "MEDICAL_SUPPLY"
)

// IsValid checks if the category is a known ProductCategory
func (c ProductCategory) IsValid() bool {
	switch c {
	case CategoryPrescriptionDrug, CategoryOTCDrug, CategorySupplement, CategoryMedicalSupply:
		return true
	}
	return false
}

// String returns the string representation of ProductCategory
func (c ProductCategory) String() string {
	return string(c)
}

// ProductUnit is the unit of measure a product is stocked and dispensed in
type ProductUnit string

const (
	UnitTablet ProductUnit = "TABLET"
	UnitBox    ProductUnit = "BOX"
	UnitBottle ProductUnit = "BOTTLE"
	UnitTube   ProductUnit = "TUBE"
	UnitSachet ProductUnit = "SACHET"
)

// IsValid checks if the unit is a known ProductUnit
func (u ProductUnit) IsValid() bool {
	switch u {
	case UnitTablet, UnitBox, UnitBottle, UnitTube, UnitSachet:
		return true
	}
	return false
}

// String returns the string representation of ProductUnit
func (u ProductUnit) String() string {
	return string(u)
}

// DeletedProductName is shown in place of a product that was removed from
// the catalog while historical movements still reference it.
const DeletedProductName = "(deleted product)"

// Product is the aggregate root for a stocked medical product.
// Quantity is the on-hand stock and is never negative; outside of
// administrative edits it is mutated only through the stock ledger's
// atomic reserve operation.
type Product struct {
	shared.BaseAggregateRoot
	Code        string          `gorm:"type:varchar(50);uniqueIndex"`
	Name        string          `gorm:"type:varchar(100);not null"`
	Category    ProductCategory `gorm:"type:varchar(30);not null"`
	Unit        ProductUnit     `gorm:"type:varchar(20);not null"`
	Quantity    int64           `gorm:"not null;default:0;check:quantity >= 0"`
	ImportPrice decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0"`
	SalePrice   decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0"`
	ExpiryDate  *time.Time
	Supplier    string `gorm:"type:varchar(100)"`
}

// TableName returns the table name for GORM
func (Product) TableName() string {
	return "products"
}

// NewProduct creates a new catalog product with initial stock
func NewProduct(code, name string, category ProductCategory, unit ProductUnit, quantity int64, importPrice, salePrice decimal.Decimal) (*Product, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Product name cannot be empty")
	}
	if !category.IsValid() {
		return nil, shared.NewDomainError("INVALID_CATEGORY", "Unknown product category")
	}
	if !unit.IsValid() {
		return nil, shared.NewDomainError("INVALID_UNIT", "Unknown product unit")
	}
	if quantity < 0 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity cannot be negative")
	}
	if importPrice.IsNegative() || salePrice.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Price cannot be negative")
	}

	return &Product{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Code:              code,
		Name:              name,
		Category:          category,
		Unit:              unit,
		Quantity:          quantity,
		ImportPrice:       importPrice,
		SalePrice:         salePrice,
	}, nil
}

// Update applies an administrative edit to the product.
// This path is not stock-invariant-checked; the ledger owns quantity
// changes driven by dispensing.
func (p *Product) Update(code, name string, category ProductCategory, unit ProductUnit, quantity int64, importPrice, salePrice decimal.Decimal) error {
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Product name cannot be empty")
	}
	if !category.IsValid() {
		return shared.NewDomainError("INVALID_CATEGORY", "Unknown product category")
	}
	if !unit.IsValid() {
		return shared.NewDomainError("INVALID_UNIT", "Unknown product unit")
	}
	if quantity < 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity cannot be negative")
	}
	if importPrice.IsNegative() || salePrice.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Price cannot be negative")
	}

	p.Code = code
	p.Name = name
	p.Category = category
	p.Unit = unit
	p.Quantity = quantity
	p.ImportPrice = importPrice
	p.SalePrice = salePrice
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	return nil
}

// SetExpiryDate sets the expiry date
func (p *Product) SetExpiryDate(expiry *time.Time) {
	p.ExpiryDate = expiry
	p.UpdatedAt = time.Now()
}

// SetSupplier sets the supplier name
func (p *Product) SetSupplier(supplier string) {
	p.Supplier = supplier
	p.UpdatedAt = time.Now()
}

// CanFulfill returns true if on-hand stock covers the requested quantity
func (p *Product) CanFulfill(quantity int64) bool {
	return p.Quantity >= quantity
}

// IsExpired returns true if the product has an expiry date in the past
func (p *Product) IsExpired(now time.Time) bool {
	return p.ExpiryDate != nil && p.ExpiryDate.Before(now)
}

// InsufficientStockError reports a reserve attempt that exceeded the
// on-hand quantity of a product. Available is the quantity actually on
// hand at the time the request was rejected.
type InsufficientStockError struct {
	ProductID   uuid.UUID
	ProductName string
	Requested   int64
	Available   int64
}

// Error implements the error interface
func (e *InsufficientStockError) Error() string {
	name := e.ProductName
	if name == "" {
		name = e.ProductID.String()
	}
	return fmt.Sprintf("insufficient stock of %q: requested %d, available %d", name, e.Requested, e.Available)
}

// NewInsufficientStockError creates a new InsufficientStockError
func NewInsufficientStockError(productID uuid.UUID, productName string, requested, available int64) *InsufficientStockError {
	return &InsufficientStockError{
		ProductID:   productID,
		ProductName: productName,
		Requested:   requested,
		Available:   available,
	}
}

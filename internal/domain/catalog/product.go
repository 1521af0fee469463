package catalog

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/bizledger/backend/internal/domain/shared"
	"github.com/bizledger/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductStatus is the lifecycle state of a catalog product.
type ProductStatus string

const (
	ProductStatusActive   ProductStatus = "active"
	ProductStatusInactive ProductStatus = "inactive"
)

// CustomField is a typed name/value attribute attached to a product
type CustomField struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Product is a sellable SKU. Documents reference it by ID and copy
// its pricing at issue time, so edits here never rewrite history.
type Product struct {
	shared.TenantAggregateRoot
	Code         string          `gorm:"type:varchar(50);not null;uniqueIndex:idx_product_tenant_code,priority:2"`
	Name         string          `gorm:"type:varchar(200);not null"`
	Description  string          `gorm:"type:text"`
	Barcode      string          `gorm:"type:varchar(50);index"`
	Unit         string          `gorm:"type:varchar(20);not null"`             // Base unit (e.g., "pcs", "kg", "box")
	Cost         decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"` // Purchase cost
	Price        decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"` // Selling price
	TaxRate      decimal.Decimal `gorm:"type:decimal(7,4);not null;default:0"`  // Percentage, e.g. 8.5
	MinStock     decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"` // Low-stock alert threshold
	Status       ProductStatus   `gorm:"type:varchar(20);not null;default:'active'"`
	CustomFields string          `gorm:"type:jsonb"` // JSON array of CustomField
}

func (Product) TableName() string {
	return "products"
}

// NewProduct validates the identifying fields and starts the product
// active with zero pricing.
func NewProduct(tenantID uuid.UUID, code, name, unit string) (*Product, error) {
	if err := validateProductCode(code); err != nil {
		return nil, err
	}
	if err := validateProductName(name); err != nil {
		return nil, err
	}
	if err := validateUnit(unit); err != nil {
		return nil, err
	}

	product := &Product{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Code:                strings.ToUpper(code),
		Name:                name,
		Unit:                unit,
		Cost:                decimal.Zero,
		Price:               decimal.Zero,
		TaxRate:             decimal.Zero,
		MinStock:            decimal.Zero,
		Status:              ProductStatusActive,
		CustomFields:        "[]",
	}

	product.AddDomainEvent(NewProductCreatedEvent(product))

	return product, nil
}

func (p *Product) Update(name, description string) error {
	if err := validateProductName(name); err != nil {
		return err
	}

	p.Name = name
	p.Description = description
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	p.AddDomainEvent(NewProductUpdatedEvent(p))

	return nil
}

func (p *Product) SetBarcode(barcode string) error {
	if barcode != "" && len(barcode) > 50 {
		return shared.NewDomainError("INVALID_BARCODE", "Barcode cannot exceed 50 characters")
	}

	p.Barcode = barcode
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	return nil
}

// SetPrices sets both cost and selling price
func (p *Product) SetPrices(cost, price valueobject.Money) error {
	if cost.Amount().IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Cost cannot be negative")
	}
	if price.Amount().IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Price cannot be negative")
	}

	oldCost := p.Cost
	oldPrice := p.Price

	p.Cost = cost.Amount()
	p.Price = price.Amount()
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	p.AddDomainEvent(NewProductPriceChangedEvent(p, oldCost, oldPrice))

	return nil
}

// SetTaxRate sets the tax rate as a percentage (e.g. 8.5 for 8.5%)
func (p *Product) SetTaxRate(rate decimal.Decimal) error {
	if rate.IsNegative() {
		return shared.NewDomainError("INVALID_TAX_RATE", "Tax rate cannot be negative")
	}
	if rate.GreaterThan(decimal.NewFromInt(100)) {
		return shared.NewDomainError("INVALID_TAX_RATE", "Tax rate cannot exceed 100 percent")
	}

	p.TaxRate = rate
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	return nil
}

// SetMinStock sets the minimum stock level for low-stock alerts
func (p *Product) SetMinStock(minStock decimal.Decimal) error {
	if minStock.IsNegative() {
		return shared.NewDomainError("INVALID_MIN_STOCK", "Minimum stock cannot be negative")
	}

	p.MinStock = minStock
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	return nil
}

// SetCustomFields replaces the product's custom fields
func (p *Product) SetCustomFields(fields []CustomField) error {
	for _, f := range fields {
		if strings.TrimSpace(f.Name) == "" {
			return shared.NewDomainError("INVALID_CUSTOM_FIELD", "Custom field name cannot be empty")
		}
		if len(f.Name) > 50 {
			return shared.NewDomainError("INVALID_CUSTOM_FIELD", "Custom field name cannot exceed 50 characters")
		}
	}

	data, err := json.Marshal(fields)
	if err != nil {
		return shared.NewDomainError("INVALID_CUSTOM_FIELD", "Custom fields cannot be serialized")
	}

	p.CustomFields = string(data)
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	return nil
}

// GetCustomFields parses and returns the product's custom fields
func (p *Product) GetCustomFields() ([]CustomField, error) {
	if p.CustomFields == "" {
		return nil, nil
	}
	var fields []CustomField
	if err := json.Unmarshal([]byte(p.CustomFields), &fields); err != nil {
		return nil, shared.NewDomainError("INVALID_CUSTOM_FIELD", "Stored custom fields are corrupt")
	}
	return fields, nil
}

func (p *Product) Activate() error {
	if p.Status == ProductStatusActive {
		return shared.NewDomainError("ALREADY_ACTIVE", "Product is already active")
	}

	p.Status = ProductStatusActive
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	p.AddDomainEvent(NewProductStatusChangedEvent(p, ProductStatusInactive, ProductStatusActive))

	return nil
}

func (p *Product) Deactivate() error {
	if p.Status == ProductStatusInactive {
		return shared.NewDomainError("ALREADY_INACTIVE", "Product is already inactive")
	}

	p.Status = ProductStatusInactive
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	p.AddDomainEvent(NewProductStatusChangedEvent(p, ProductStatusActive, ProductStatusInactive))

	return nil
}

func (p *Product) IsActive() bool {
	return p.Status == ProductStatusActive
}

// GetCostMoney returns the cost as a Money value object
func (p *Product) GetCostMoney() valueobject.Money {
	return valueobject.NewMoneyUSD(p.Cost)
}

// GetPriceMoney returns the selling price as a Money value object
func (p *Product) GetPriceMoney() valueobject.Money {
	return valueobject.NewMoneyUSD(p.Price)
}

// GetProfitMargin reports price over cost as a percentage, zero when
// the cost is unset.
func (p *Product) GetProfitMargin() decimal.Decimal {
	if p.Cost.IsZero() {
		return decimal.Zero
	}
	profit := p.Price.Sub(p.Cost)
	return profit.Div(p.Cost).Mul(decimal.NewFromInt(100))
}

func validateProductCode(code string) error {
	if code == "" {
		return shared.NewDomainError("INVALID_CODE", "Product code cannot be empty")
	}
	if len(code) > 50 {
		return shared.NewDomainError("INVALID_CODE", "Product code cannot exceed 50 characters")
	}
	// letters, digits, underscore, hyphen
	for _, r := range code {
		if !((r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '_' || r == '-') {
			return shared.NewDomainError("INVALID_CODE", "Product code can only contain letters, numbers, underscores, and hyphens")
		}
	}
	return nil
}

func validateProductName(name string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Product name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Product name cannot exceed 200 characters")
	}
	return nil
}

func validateUnit(unit string) error {
	if unit == "" {
		return shared.NewDomainError("INVALID_UNIT", "Unit cannot be empty")
	}
	if len(unit) > 20 {
		return shared.NewDomainError("INVALID_UNIT", "Unit cannot exceed 20 characters")
	}
	return nil
}

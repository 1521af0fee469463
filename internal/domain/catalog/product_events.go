package catalog

import (
	"github.com/bizledger/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Event type constants for product events
const (
	EventTypeProductCreated       = "catalog.product.created"
	EventTypeProductUpdated       = "catalog.product.updated"
	EventTypeProductPriceChanged  = "catalog.product.price_changed"
	EventTypeProductStatusChanged = "catalog.product.status_changed"
)

// ProductCreatedEvent is raised when a new product is created
type ProductCreatedEvent struct {
	shared.BaseDomainEvent
	Code string `json:"code"`
	Name string `json:"name"`
	Unit string `json:"unit"`
}

func NewProductCreatedEvent(product *Product) *ProductCreatedEvent {
	return &ProductCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(
			EventTypeProductCreated, "Product", product.ID, product.TenantID),
		Code: product.Code,
		Name: product.Name,
		Unit: product.Unit,
	}
}

// ProductUpdatedEvent is raised when product information changes
type ProductUpdatedEvent struct {
	shared.BaseDomainEvent
	Code string `json:"code"`
	Name string `json:"name"`
}

func NewProductUpdatedEvent(product *Product) *ProductUpdatedEvent {
	return &ProductUpdatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(
			EventTypeProductUpdated, "Product", product.ID, product.TenantID),
		Code: product.Code,
		Name: product.Name,
	}
}

// ProductPriceChangedEvent is raised when cost or selling price changes
type ProductPriceChangedEvent struct {
	shared.BaseDomainEvent
	Code     string          `json:"code"`
	OldCost  decimal.Decimal `json:"old_cost"`
	OldPrice decimal.Decimal `json:"old_price"`
	NewCost  decimal.Decimal `json:"new_cost"`
	NewPrice decimal.Decimal `json:"new_price"`
}

func NewProductPriceChangedEvent(product *Product, oldCost, oldPrice decimal.Decimal) *ProductPriceChangedEvent {
	return &ProductPriceChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(
			EventTypeProductPriceChanged, "Product", product.ID, product.TenantID),
		Code:     product.Code,
		OldCost:  oldCost,
		OldPrice: oldPrice,
		NewCost:  product.Cost,
		NewPrice: product.Price,
	}
}

// ProductStatusChangedEvent is raised when the product status changes
type ProductStatusChangedEvent struct {
	shared.BaseDomainEvent
	Code      string        `json:"code"`
	OldStatus ProductStatus `json:"old_status"`
	NewStatus ProductStatus `json:"new_status"`
}

// NewProductStatusChangedEvent creates a new ProductStatusChangedEvent
func NewProductStatusChangedEvent(product *Product, oldStatus, newStatus ProductStatus) *ProductStatusChangedEvent {
	return &ProductStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(
			EventTypeProductStatusChanged, "Product", product.ID, product.TenantID),
		Code:      product.Code,
		OldStatus: oldStatus,
		NewStatus: newStatus,
	}
}

package inventory

import (
	"time"

	"github.com/bizledger/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// StockItem holds the on-hand quantity for one product in one warehouse.
// Quantity can never go negative; the conditional-update contract on the
// repository enforces that under concurrency, and ApplyDelta enforces it
// for in-memory mutation.
type StockItem struct {
	shared.TenantAggregateRoot
	WarehouseID uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_stock_tenant_wh_product,priority:2"`
	ProductID   uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_stock_tenant_wh_product,priority:3"`
	Quantity    decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
}

// TableName returns the table name for GORM
func (StockItem) TableName() string {
	return "stock_items"
}

// NewStockItem creates a stock record with zero quantity
func NewStockItem(tenantID, warehouseID, productID uuid.UUID) (*StockItem, error) {
	if warehouseID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_WAREHOUSE", "Warehouse ID cannot be empty")
	}
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}

	return &StockItem{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		WarehouseID:         warehouseID,
		ProductID:           productID,
		Quantity:            decimal.Zero,
	}, nil
}

// ApplyDelta adjusts the quantity by delta, refusing any change that
// would take the quantity negative
func (s *StockItem) ApplyDelta(delta decimal.Decimal) error {
	next := s.Quantity.Add(delta)
	if next.IsNegative() {
		return shared.NewInsufficientStockError(s.ProductID.String(), delta.Neg().String(), s.Quantity.String())
	}

	s.Quantity = next
	s.UpdatedAt = time.Now()
	s.IncrementVersion()

	return nil
}

// HasAtLeast returns true if at least the given quantity is on hand
func (s *StockItem) HasAtLeast(quantity decimal.Decimal) bool {
	return s.Quantity.GreaterThanOrEqual(quantity)
}

// IsBelowMin returns true if the on-hand quantity is below the given threshold
func (s *StockItem) IsBelowMin(minStock decimal.Decimal) bool {
	return minStock.IsPositive() && s.Quantity.LessThan(minStock)
}

package inventory

import (
	"context"

	"github.com/bizledger/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// StockItemRepository defines the persistence interface for stock records
type StockItemRepository interface {
	// GetOrCreate returns the stock record for (tenant, warehouse, product),
	// creating a zero-quantity record if none exists
	GetOrCreate(ctx context.Context, tenantID, warehouseID, productID uuid.UUID) (*StockItem, error)

	// Find returns the stock record, or shared.ErrNotFound if none exists
	Find(ctx context.Context, tenantID, warehouseID, productID uuid.UUID) (*StockItem, error)

	// FindByWarehouse lists stock records for one warehouse
	FindByWarehouse(ctx context.Context, tenantID, warehouseID uuid.UUID, filter shared.Filter) ([]StockItem, error)

	// FindByProduct lists stock records for one product across warehouses
	FindByProduct(ctx context.Context, tenantID, productID uuid.UUID) ([]StockItem, error)

	// AdjustQuantity atomically applies delta to the on-hand quantity,
	// refusing the change if the result would be negative. Returns the
	// quantity after the adjustment. Implementations must guarantee this
	// under concurrent writers (single conditional UPDATE, not read-modify-write).
	// Returns shared.ErrInsufficientStock when a negative delta exceeds the
	// on-hand quantity, shared.ErrNotFound when no stock record exists.
	AdjustQuantity(ctx context.Context, tenantID, warehouseID, productID uuid.UUID, delta decimal.Decimal) (decimal.Decimal, error)

	// CountForTenant counts stock records matching the filter
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)
}

// StockMovementRepository defines the persistence interface for the
// append-only stock ledger
type StockMovementRepository interface {
	// Save appends ledger entries
	Save(ctx context.Context, movements ...*StockMovement) error

	// FindForProduct lists movements for one product in one warehouse,
	// newest first
	FindForProduct(ctx context.Context, tenantID, warehouseID, productID uuid.UUID, filter shared.Filter) ([]StockMovement, error)

	// FindForDocument lists movements written for one document
	FindForDocument(ctx context.Context, tenantID, documentID uuid.UUID) ([]StockMovement, error)

	// CountForTenant counts ledger entries matching the filter
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)
}

// InspectionLotRepository defines the persistence interface for quarantined
// return lots
type InspectionLotRepository interface {
	Save(ctx context.Context, lots ...*InspectionLot) error
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*InspectionLot, error)
	FindPendingForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]InspectionLot, error)
	FindByReturnForTenant(ctx context.Context, tenantID, returnID uuid.UUID) ([]InspectionLot, error)
	SaveWithLock(ctx context.Context, lot *InspectionLot) error
}

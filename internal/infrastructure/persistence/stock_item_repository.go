package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/bizledger/backend/internal/domain/inventory"
	"github.com/bizledger/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormStockItemRepository implements StockItemRepository using GORM
type GormStockItemRepository struct {
	db *gorm.DB
}

// NewGormStockItemRepository creates a new GormStockItemRepository
func NewGormStockItemRepository(db *gorm.DB) *GormStockItemRepository {
	return &GormStockItemRepository{db: db}
}

// GetOrCreate returns the stock record for (tenant, warehouse, product),
// creating a zero-quantity record if none exists
func (r *GormStockItemRepository) GetOrCreate(ctx context.Context, tenantID, warehouseID, productID uuid.UUID) (*inventory.StockItem, error) {
	item, err := r.Find(ctx, tenantID, warehouseID, productID)
	if err == nil {
		return item, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	item, err = inventory.NewStockItem(tenantID, warehouseID, productID)
	if err != nil {
		return nil, err
	}

	// ON CONFLICT DO NOTHING handles the race where a concurrent writer
	// creates the same record first
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "tenant_id"}, {Name: "warehouse_id"}, {Name: "product_id"}},
			DoNothing: true,
		}).
		Create(item).Error; err != nil {
		return nil, err
	}

	return r.Find(ctx, tenantID, warehouseID, productID)
}

// Find returns the stock record, or shared.ErrNotFound if none exists
func (r *GormStockItemRepository) Find(ctx context.Context, tenantID, warehouseID, productID uuid.UUID) (*inventory.StockItem, error) {
	var item inventory.StockItem
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND warehouse_id = ? AND product_id = ?", tenantID, warehouseID, productID).
		First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &item, nil
}

// FindByWarehouse lists stock records for one warehouse
func (r *GormStockItemRepository) FindByWarehouse(ctx context.Context, tenantID, warehouseID uuid.UUID, filter shared.Filter) ([]inventory.StockItem, error) {
	var items []inventory.StockItem
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&inventory.StockItem{}).
			Where("tenant_id = ? AND warehouse_id = ?", tenantID, warehouseID),
		filter,
	)

	if err := query.Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// FindByProduct lists stock records for one product across warehouses
func (r *GormStockItemRepository) FindByProduct(ctx context.Context, tenantID, productID uuid.UUID) ([]inventory.StockItem, error) {
	var items []inventory.StockItem
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND product_id = ?", tenantID, productID).
		Order("created_at ASC").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// AdjustQuantity atomically applies delta to the on-hand quantity with a
// single conditional UPDATE. The quantity guard runs inside the database,
// so concurrent writers can never drive the quantity negative regardless
// of interleaving.
func (r *GormStockItemRepository) AdjustQuantity(ctx context.Context, tenantID, warehouseID, productID uuid.UUID, delta decimal.Decimal) (decimal.Decimal, error) {
	var result struct {
		Quantity decimal.Decimal
	}

	query := r.db.WithContext(ctx).Raw(
		`UPDATE stock_items
		 SET quantity = quantity + ?, version = version + 1, updated_at = ?
		 WHERE tenant_id = ? AND warehouse_id = ? AND product_id = ? AND quantity + ? >= 0
		 RETURNING quantity`,
		delta, time.Now(), tenantID, warehouseID, productID, delta,
	).Scan(&result)

	if query.Error != nil {
		return decimal.Zero, query.Error
	}
	if query.RowsAffected == 0 {
		// Either the record does not exist or the guard refused the delta.
		if _, err := r.Find(ctx, tenantID, warehouseID, productID); err != nil {
			return decimal.Zero, err
		}
		return decimal.Zero, shared.ErrInsufficientStock
	}

	return result.Quantity, nil
}

// CountForTenant counts stock records matching the filter
func (r *GormStockItemRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&inventory.StockItem{}).Where("tenant_id = ?", tenantID)
	query = r.applyFilterWithoutPagination(query, filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// applyFilter applies filter options to the query
func (r *GormStockItemRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	orderBy := ValidateSortField(filter.OrderBy, StockItemSortFields, "created_at")
	orderDir := ValidateSortOrder(filter.OrderDir)
	return query.Order(orderBy + " " + orderDir)
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormStockItemRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	for key, value := range filter.Filters {
		switch key {
		case "warehouse_id":
			query = query.Where("warehouse_id = ?", value)
		case "product_id":
			query = query.Where("product_id = ?", value)
		case "has_stock":
			if value == true {
				query = query.Where("quantity > 0")
			}
		case "no_stock":
			if value == true {
				query = query.Where("quantity = 0")
			}
		}
	}

	return query
}

// Ensure GormStockItemRepository implements StockItemRepository
var _ inventory.StockItemRepository = (*GormStockItemRepository)(nil)

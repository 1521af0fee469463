package persistence

import (
	"context"
	"errors"

	"github.com/bizledger/backend/internal/domain/inventory"
	"github.com/bizledger/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormInspectionLotRepository implements InspectionLotRepository using GORM
type GormInspectionLotRepository struct {
	db *gorm.DB
}

// NewGormInspectionLotRepository creates a new GormInspectionLotRepository
func NewGormInspectionLotRepository(db *gorm.DB) *GormInspectionLotRepository {
	return &GormInspectionLotRepository{db: db}
}

// Save persists one or more inspection lots
func (r *GormInspectionLotRepository) Save(ctx context.Context, lots ...*inventory.InspectionLot) error {
	if len(lots) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Save(lots).Error
}

// FindByIDForTenant finds an inspection lot by ID within a tenant
func (r *GormInspectionLotRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*inventory.InspectionLot, error) {
	var lot inventory.InspectionLot
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&lot).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &lot, nil
}

// FindPendingForTenant lists lots awaiting inspection
func (r *GormInspectionLotRepository) FindPendingForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]inventory.InspectionLot, error) {
	var lots []inventory.InspectionLot
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&inventory.InspectionLot{}).
			Where("tenant_id = ? AND status = ?", tenantID, inventory.InspectionLotStatusPending),
		filter,
	)

	if err := query.Find(&lots).Error; err != nil {
		return nil, err
	}
	return lots, nil
}

// FindByReturnForTenant lists lots produced by one return
func (r *GormInspectionLotRepository) FindByReturnForTenant(ctx context.Context, tenantID, returnID uuid.UUID) ([]inventory.InspectionLot, error) {
	var lots []inventory.InspectionLot
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND return_id = ?", tenantID, returnID).
		Order("created_at ASC").
		Find(&lots).Error; err != nil {
		return nil, err
	}
	return lots, nil
}

// SaveWithLock saves with optimistic locking on the aggregate version.
// Releasing a lot increments the version, so a stale release loses the race
// and the caller sees a concurrency conflict instead of a double release.
func (r *GormInspectionLotRepository) SaveWithLock(ctx context.Context, lot *inventory.InspectionLot) error {
	result := r.db.WithContext(ctx).
		Model(lot).
		Where("id = ? AND version = ?", lot.ID, lot.Version-1).
		Updates(map[string]interface{}{
			"status":      lot.Status,
			"released_at": lot.ReleasedAt,
			"released_by": lot.ReleasedBy,
			"notes":       lot.Notes,
			"version":     lot.Version,
			"updated_at":  lot.UpdatedAt,
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

// applyFilter applies filter options to the query
func (r *GormInspectionLotRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	for key, value := range filter.Filters {
		switch key {
		case "warehouse_id":
			query = query.Where("warehouse_id = ?", value)
		case "product_id":
			query = query.Where("product_id = ?", value)
		case "return_id":
			query = query.Where("return_id = ?", value)
		}
	}

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	orderBy := ValidateSortField(filter.OrderBy, InspectionLotSortFields, "created_at")
	orderDir := ValidateSortOrder(filter.OrderDir)
	return query.Order(orderBy + " " + orderDir)
}

// Ensure GormInspectionLotRepository implements InspectionLotRepository
var _ inventory.InspectionLotRepository = (*GormInspectionLotRepository)(nil)

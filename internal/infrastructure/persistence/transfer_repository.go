package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/bizledger/backend/internal/domain/shared"
	"github.com/bizledger/backend/internal/domain/trade"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormTransferRepository implements TransferRepository using GORM
type GormTransferRepository struct {
	db *gorm.DB
}

// NewGormTransferRepository creates a new GormTransferRepository
func NewGormTransferRepository(db *gorm.DB) *GormTransferRepository {
	return &GormTransferRepository{db: db}
}

// FindByID finds a transfer by its ID
func (r *GormTransferRepository) FindByID(ctx context.Context, id uuid.UUID) (*trade.Transfer, error) {
	var transfer trade.Transfer
	if err := r.db.WithContext(ctx).
		Preload("Items").
		First(&transfer, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &transfer, nil
}

// FindByIDForTenant finds a transfer by ID within a tenant
func (r *GormTransferRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*trade.Transfer, error) {
	var transfer trade.Transfer
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&transfer).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &transfer, nil
}

// FindByNumberForTenant finds a transfer by document number within a tenant
func (r *GormTransferRepository) FindByNumberForTenant(ctx context.Context, tenantID uuid.UUID, number string) (*trade.Transfer, error) {
	var transfer trade.Transfer
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Where("tenant_id = ? AND number = ?", tenantID, number).
		First(&transfer).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &transfer, nil
}

// FindAll finds all transfers matching the filter
func (r *GormTransferRepository) FindAll(ctx context.Context, filter shared.Filter) ([]trade.Transfer, error) {
	var transfers []trade.Transfer
	query := r.applyFilter(r.db.WithContext(ctx).Model(&trade.Transfer{}), filter)

	if err := query.Find(&transfers).Error; err != nil {
		return nil, err
	}
	return transfers, nil
}

// FindAllForTenant finds all transfers for a tenant
func (r *GormTransferRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]trade.Transfer, error) {
	var transfers []trade.Transfer
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&trade.Transfer{}).Where("tenant_id = ?", tenantID),
		filter,
	)

	if err := query.Find(&transfers).Error; err != nil {
		return nil, err
	}
	return transfers, nil
}

// Save creates or updates a transfer together with its line items
func (r *GormTransferRepository) Save(ctx context.Context, transfer *trade.Transfer) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(transfer).Error; err != nil {
			return err
		}
		return r.syncItems(tx, transfer)
	})
	if isDuplicateKey(err) {
		return shared.ErrDuplicateNumber
	}
	return err
}

// SaveWithLock saves with optimistic locking (version check)
func (r *GormTransferRepository) SaveWithLock(ctx context.Context, transfer *trade.Transfer) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var currentVersion int
		if err := tx.Model(&trade.Transfer{}).
			Where("id = ?", transfer.ID).
			Select("version").
			Scan(&currentVersion).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return shared.ErrNotFound
			}
			return err
		}

		if currentVersion != transfer.Version {
			return shared.NewDomainError("CONCURRENT_MODIFICATION", "The transfer has been modified by another user")
		}

		transfer.Version++
		transfer.UpdatedAt = time.Now()

		result := tx.Model(&trade.Transfer{}).
			Where("id = ? AND version = ?", transfer.ID, currentVersion).
			Updates(map[string]interface{}{
				"source_id":      transfer.SourceID,
				"destination_id": transfer.DestinationID,
				"status":         transfer.Status,
				"notes":          transfer.Notes,
				"dispatched_at":  transfer.DispatchedAt,
				"received_at":    transfer.ReceivedAt,
				"cancelled_at":   transfer.CancelledAt,
				"cancel_reason":  transfer.CancelReason,
				"version":        transfer.Version,
				"updated_at":     transfer.UpdatedAt,
			})

		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.NewDomainError("CONCURRENT_MODIFICATION", "The transfer has been modified by another user")
		}

		return r.syncItems(tx, transfer)
	})
}

// syncItems reconciles the stored line items with the aggregate's current items
func (r *GormTransferRepository) syncItems(tx *gorm.DB, transfer *trade.Transfer) error {
	currentItemIDs := make([]uuid.UUID, len(transfer.Items))
	for i, item := range transfer.Items {
		currentItemIDs[i] = item.ID
	}

	if len(currentItemIDs) > 0 {
		if err := tx.Where("transfer_id = ? AND id NOT IN ?", transfer.ID, currentItemIDs).
			Delete(&trade.TransferItem{}).Error; err != nil {
			return err
		}
	} else {
		if err := tx.Where("transfer_id = ?", transfer.ID).
			Delete(&trade.TransferItem{}).Error; err != nil {
			return err
		}
	}

	for i := range transfer.Items {
		transfer.Items[i].TransferID = transfer.ID
		if err := tx.Save(&transfer.Items[i]).Error; err != nil {
			return err
		}
	}

	return nil
}

// Delete deletes a transfer and its line items
func (r *GormTransferRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("transfer_id = ?", id).
			Delete(&trade.TransferItem{}).Error; err != nil {
			return err
		}

		result := tx.Delete(&trade.Transfer{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

// DeleteForTenant deletes a transfer and its line items, scoped to the
// owning tenant. The header goes first so a foreign tenant's document is
// never touched; the item delete backs up the FK cascade.
func (r *GormTransferRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Delete(&trade.Transfer{}, "tenant_id = ? AND id = ?", tenantID, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return tx.Where("transfer_id = ?", id).Delete(&trade.TransferItem{}).Error
	})
}

// Count counts transfers matching the filter
func (r *GormTransferRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&trade.Transfer{}), filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountForTenant counts transfers matching the filter within a tenant
func (r *GormTransferRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&trade.Transfer{}).Where("tenant_id = ?", tenantID)
	query = r.applyFilterWithoutPagination(query, filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// applyFilter applies filter options to the query
func (r *GormTransferRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	orderBy := ValidateSortField(filter.OrderBy, TransferSortFields, "created_at")
	orderDir := ValidateSortOrder(filter.OrderDir)
	return query.Order(orderBy + " " + orderDir)
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormTransferRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		query = query.Where("number ILIKE ?", "%"+filter.Search+"%")
	}

	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "source_id":
			query = query.Where("source_id = ?", value)
		case "destination_id":
			query = query.Where("destination_id = ?", value)
		case "warehouse_id":
			query = query.Where("source_id = ? OR destination_id = ?", value, value)
		case "date_from":
			query = query.Where("created_at >= ?", value)
		case "date_to":
			query = query.Where("created_at <= ?", value)
		}
	}

	return query
}

// Ensure GormTransferRepository implements TransferRepository
var _ trade.TransferRepository = (*GormTransferRepository)(nil)

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

// GormReturnRepository implements ReturnRepository using GORM
type GormReturnRepository struct {
	db *gorm.DB
}

// NewGormReturnRepository creates a new GormReturnRepository
func NewGormReturnRepository(db *gorm.DB) *GormReturnRepository {
	return &GormReturnRepository{db: db}
}

// FindByID finds a return by its ID
func (r *GormReturnRepository) FindByID(ctx context.Context, id uuid.UUID) (*trade.Return, error) {
	var ret trade.Return
	if err := r.db.WithContext(ctx).
		Preload("Items").
		First(&ret, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &ret, nil
}

// FindByIDForTenant finds a return by ID within a tenant
func (r *GormReturnRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*trade.Return, error) {
	var ret trade.Return
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&ret).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &ret, nil
}

// FindByNumberForTenant finds a return by document number within a tenant
func (r *GormReturnRepository) FindByNumberForTenant(ctx context.Context, tenantID uuid.UUID, number string) (*trade.Return, error) {
	var ret trade.Return
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Where("tenant_id = ? AND number = ?", tenantID, number).
		First(&ret).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &ret, nil
}

// FindBySalesInvoiceForTenant lists returns raised against one sales invoice
func (r *GormReturnRepository) FindBySalesInvoiceForTenant(ctx context.Context, tenantID, salesInvoiceID uuid.UUID) ([]trade.Return, error) {
	var returns []trade.Return
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Where("tenant_id = ? AND sales_invoice_id = ?", tenantID, salesInvoiceID).
		Order("created_at ASC").
		Find(&returns).Error; err != nil {
		return nil, err
	}
	return returns, nil
}

// FindAll finds all returns matching the filter
func (r *GormReturnRepository) FindAll(ctx context.Context, filter shared.Filter) ([]trade.Return, error) {
	var returns []trade.Return
	query := r.applyFilter(r.db.WithContext(ctx).Model(&trade.Return{}), filter)

	if err := query.Find(&returns).Error; err != nil {
		return nil, err
	}
	return returns, nil
}

// FindAllForTenant finds all returns for a tenant
func (r *GormReturnRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]trade.Return, error) {
	var returns []trade.Return
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&trade.Return{}).Where("tenant_id = ?", tenantID),
		filter,
	)

	if err := query.Find(&returns).Error; err != nil {
		return nil, err
	}
	return returns, nil
}

// Save creates or updates a return together with its line items
func (r *GormReturnRepository) Save(ctx context.Context, ret *trade.Return) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(ret).Error; err != nil {
			return err
		}
		return r.syncItems(tx, ret)
	})
	if isDuplicateKey(err) {
		return shared.ErrDuplicateNumber
	}
	return err
}

// SaveWithLock saves with optimistic locking (version check)
func (r *GormReturnRepository) SaveWithLock(ctx context.Context, ret *trade.Return) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var currentVersion int
		if err := tx.Model(&trade.Return{}).
			Where("id = ?", ret.ID).
			Select("version").
			Scan(&currentVersion).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return shared.ErrNotFound
			}
			return err
		}

		if currentVersion != ret.Version {
			return shared.NewDomainError("CONCURRENT_MODIFICATION", "The return has been modified by another user")
		}

		ret.Version++
		ret.UpdatedAt = time.Now()

		result := tx.Model(&trade.Return{}).
			Where("id = ? AND version = ?", ret.ID, currentVersion).
			Updates(map[string]interface{}{
				"customer_id":   ret.CustomerID,
				"customer_name": ret.CustomerName,
				"warehouse_id":  ret.WarehouseID,
				"refund_total":  ret.RefundTotal,
				"status":        ret.Status,
				"notes":         ret.Notes,
				"approved_at":   ret.ApprovedAt,
				"refunded_at":   ret.RefundedAt,
				"rejected_at":   ret.RejectedAt,
				"reject_reason": ret.RejectReason,
				"version":       ret.Version,
				"updated_at":    ret.UpdatedAt,
			})

		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.NewDomainError("CONCURRENT_MODIFICATION", "The return has been modified by another user")
		}

		return r.syncItems(tx, ret)
	})
}

// syncItems reconciles the stored line items with the aggregate's current items
func (r *GormReturnRepository) syncItems(tx *gorm.DB, ret *trade.Return) error {
	currentItemIDs := make([]uuid.UUID, len(ret.Items))
	for i, item := range ret.Items {
		currentItemIDs[i] = item.ID
	}

	if len(currentItemIDs) > 0 {
		if err := tx.Where("return_id = ? AND id NOT IN ?", ret.ID, currentItemIDs).
			Delete(&trade.ReturnItem{}).Error; err != nil {
			return err
		}
	} else {
		if err := tx.Where("return_id = ?", ret.ID).
			Delete(&trade.ReturnItem{}).Error; err != nil {
			return err
		}
	}

	for i := range ret.Items {
		ret.Items[i].ReturnID = ret.ID
		if err := tx.Save(&ret.Items[i]).Error; err != nil {
			return err
		}
	}

	return nil
}

// Delete deletes a return and its line items
func (r *GormReturnRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("return_id = ?", id).
			Delete(&trade.ReturnItem{}).Error; err != nil {
			return err
		}

		result := tx.Delete(&trade.Return{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

// DeleteForTenant deletes a return and its line items, scoped to the
// owning tenant. The header goes first so a foreign tenant's document is
// never touched; the item delete backs up the FK cascade.
func (r *GormReturnRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Delete(&trade.Return{}, "tenant_id = ? AND id = ?", tenantID, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return tx.Where("return_id = ?", id).Delete(&trade.ReturnItem{}).Error
	})
}

// Count counts returns matching the filter
func (r *GormReturnRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&trade.Return{}), filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountForTenant counts returns matching the filter within a tenant
func (r *GormReturnRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&trade.Return{}).Where("tenant_id = ?", tenantID)
	query = r.applyFilterWithoutPagination(query, filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// applyFilter applies filter options to the query
func (r *GormReturnRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	orderBy := ValidateSortField(filter.OrderBy, ReturnSortFields, "created_at")
	orderDir := ValidateSortOrder(filter.OrderDir)
	return query.Order(orderBy + " " + orderDir)
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormReturnRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("number ILIKE ? OR customer_name ILIKE ?", pattern, pattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "sales_invoice_id":
			query = query.Where("sales_invoice_id = ?", value)
		case "customer_id":
			query = query.Where("customer_id = ?", value)
		case "warehouse_id":
			query = query.Where("warehouse_id = ?", value)
		case "date_from":
			query = query.Where("created_at >= ?", value)
		case "date_to":
			query = query.Where("created_at <= ?", value)
		}
	}

	return query
}

// Ensure GormReturnRepository implements ReturnRepository
var _ trade.ReturnRepository = (*GormReturnRepository)(nil)

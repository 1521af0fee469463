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

// GormPurchaseInvoiceRepository implements PurchaseInvoiceRepository using GORM
type GormPurchaseInvoiceRepository struct {
	db *gorm.DB
}

// NewGormPurchaseInvoiceRepository creates a new GormPurchaseInvoiceRepository
func NewGormPurchaseInvoiceRepository(db *gorm.DB) *GormPurchaseInvoiceRepository {
	return &GormPurchaseInvoiceRepository{db: db}
}

// FindByID finds a purchase invoice by its ID
func (r *GormPurchaseInvoiceRepository) FindByID(ctx context.Context, id uuid.UUID) (*trade.PurchaseInvoice, error) {
	var invoice trade.PurchaseInvoice
	if err := r.db.WithContext(ctx).
		Preload("Items").
		First(&invoice, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &invoice, nil
}

// FindByIDForTenant finds a purchase invoice by ID within a tenant
func (r *GormPurchaseInvoiceRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*trade.PurchaseInvoice, error) {
	var invoice trade.PurchaseInvoice
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&invoice).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &invoice, nil
}

// FindByNumberForTenant finds a purchase invoice by document number within a tenant
func (r *GormPurchaseInvoiceRepository) FindByNumberForTenant(ctx context.Context, tenantID uuid.UUID, number string) (*trade.PurchaseInvoice, error) {
	var invoice trade.PurchaseInvoice
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Where("tenant_id = ? AND number = ?", tenantID, number).
		First(&invoice).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &invoice, nil
}

// FindAll finds all purchase invoices matching the filter
func (r *GormPurchaseInvoiceRepository) FindAll(ctx context.Context, filter shared.Filter) ([]trade.PurchaseInvoice, error) {
	var invoices []trade.PurchaseInvoice
	query := r.applyFilter(r.db.WithContext(ctx).Model(&trade.PurchaseInvoice{}), filter)

	if err := query.Find(&invoices).Error; err != nil {
		return nil, err
	}
	return invoices, nil
}

// FindAllForTenant finds all purchase invoices for a tenant
func (r *GormPurchaseInvoiceRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]trade.PurchaseInvoice, error) {
	var invoices []trade.PurchaseInvoice
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&trade.PurchaseInvoice{}).Where("tenant_id = ?", tenantID),
		filter,
	)

	if err := query.Find(&invoices).Error; err != nil {
		return nil, err
	}
	return invoices, nil
}

// Save creates or updates a purchase invoice together with its line items
func (r *GormPurchaseInvoiceRepository) Save(ctx context.Context, invoice *trade.PurchaseInvoice) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(invoice).Error; err != nil {
			return err
		}
		return r.syncItems(tx, invoice)
	})
	if isDuplicateKey(err) {
		return shared.ErrDuplicateNumber
	}
	return err
}

// SaveWithLock saves with optimistic locking (version check)
func (r *GormPurchaseInvoiceRepository) SaveWithLock(ctx context.Context, invoice *trade.PurchaseInvoice) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var currentVersion int
		if err := tx.Model(&trade.PurchaseInvoice{}).
			Where("id = ?", invoice.ID).
			Select("version").
			Scan(&currentVersion).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return shared.ErrNotFound
			}
			return err
		}

		if currentVersion != invoice.Version {
			return shared.NewDomainError("CONCURRENT_MODIFICATION", "The invoice has been modified by another user")
		}

		invoice.Version++
		invoice.UpdatedAt = time.Now()

		result := tx.Model(&trade.PurchaseInvoice{}).
			Where("id = ? AND version = ?", invoice.ID, currentVersion).
			Updates(map[string]interface{}{
				"supplier_id":   invoice.SupplierID,
				"supplier_name": invoice.SupplierName,
				"warehouse_id":  invoice.WarehouseID,
				"total":         invoice.Total,
				"status":        invoice.Status,
				"notes":         invoice.Notes,
				"received_at":   invoice.ReceivedAt,
				"cancelled_at":  invoice.CancelledAt,
				"cancel_reason": invoice.CancelReason,
				"version":       invoice.Version,
				"updated_at":    invoice.UpdatedAt,
			})

		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.NewDomainError("CONCURRENT_MODIFICATION", "The invoice has been modified by another user")
		}

		return r.syncItems(tx, invoice)
	})
}

// syncItems reconciles the stored line items with the aggregate's current items
func (r *GormPurchaseInvoiceRepository) syncItems(tx *gorm.DB, invoice *trade.PurchaseInvoice) error {
	currentItemIDs := make([]uuid.UUID, len(invoice.Items))
	for i, item := range invoice.Items {
		currentItemIDs[i] = item.ID
	}

	if len(currentItemIDs) > 0 {
		if err := tx.Where("invoice_id = ? AND id NOT IN ?", invoice.ID, currentItemIDs).
			Delete(&trade.PurchaseInvoiceItem{}).Error; err != nil {
			return err
		}
	} else {
		if err := tx.Where("invoice_id = ?", invoice.ID).
			Delete(&trade.PurchaseInvoiceItem{}).Error; err != nil {
			return err
		}
	}

	for i := range invoice.Items {
		invoice.Items[i].InvoiceID = invoice.ID
		if err := tx.Save(&invoice.Items[i]).Error; err != nil {
			return err
		}
	}

	return nil
}

// Delete deletes a purchase invoice and its line items
func (r *GormPurchaseInvoiceRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("invoice_id = ?", id).
			Delete(&trade.PurchaseInvoiceItem{}).Error; err != nil {
			return err
		}

		result := tx.Delete(&trade.PurchaseInvoice{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

// DeleteForTenant deletes a purchase invoice and its line items, scoped to the
// owning tenant. The header goes first so a foreign tenant's document is
// never touched; the item delete backs up the FK cascade.
func (r *GormPurchaseInvoiceRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Delete(&trade.PurchaseInvoice{}, "tenant_id = ? AND id = ?", tenantID, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return tx.Where("invoice_id = ?", id).Delete(&trade.PurchaseInvoiceItem{}).Error
	})
}

// Count counts purchase invoices matching the filter
func (r *GormPurchaseInvoiceRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&trade.PurchaseInvoice{}), filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountForTenant counts purchase invoices matching the filter within a tenant
func (r *GormPurchaseInvoiceRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&trade.PurchaseInvoice{}).Where("tenant_id = ?", tenantID)
	query = r.applyFilterWithoutPagination(query, filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// applyFilter applies filter options to the query
func (r *GormPurchaseInvoiceRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	orderBy := ValidateSortField(filter.OrderBy, PurchaseInvoiceSortFields, "created_at")
	orderDir := ValidateSortOrder(filter.OrderDir)
	return query.Order(orderBy + " " + orderDir)
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormPurchaseInvoiceRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("number ILIKE ? OR supplier_name ILIKE ?", pattern, pattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "supplier_id":
			query = query.Where("supplier_id = ?", value)
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

// Ensure GormPurchaseInvoiceRepository implements PurchaseInvoiceRepository
var _ trade.PurchaseInvoiceRepository = (*GormPurchaseInvoiceRepository)(nil)

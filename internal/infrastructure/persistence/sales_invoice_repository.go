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

// GormSalesInvoiceRepository implements SalesInvoiceRepository using GORM
type GormSalesInvoiceRepository struct {
	db *gorm.DB
}

// NewGormSalesInvoiceRepository creates a new GormSalesInvoiceRepository
func NewGormSalesInvoiceRepository(db *gorm.DB) *GormSalesInvoiceRepository {
	return &GormSalesInvoiceRepository{db: db}
}

// FindByID finds a sales invoice by its ID
func (r *GormSalesInvoiceRepository) FindByID(ctx context.Context, id uuid.UUID) (*trade.SalesInvoice, error) {
	var invoice trade.SalesInvoice
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

// FindByIDForTenant finds a sales invoice by ID within a tenant
func (r *GormSalesInvoiceRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*trade.SalesInvoice, error) {
	var invoice trade.SalesInvoice
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

// FindByNumberForTenant finds a sales invoice by document number within a tenant
func (r *GormSalesInvoiceRepository) FindByNumberForTenant(ctx context.Context, tenantID uuid.UUID, number string) (*trade.SalesInvoice, error) {
	var invoice trade.SalesInvoice
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

// FindAll finds all sales invoices matching the filter
func (r *GormSalesInvoiceRepository) FindAll(ctx context.Context, filter shared.Filter) ([]trade.SalesInvoice, error) {
	var invoices []trade.SalesInvoice
	query := r.applyFilter(r.db.WithContext(ctx).Model(&trade.SalesInvoice{}), filter)

	if err := query.Find(&invoices).Error; err != nil {
		return nil, err
	}
	return invoices, nil
}

// FindAllForTenant finds all sales invoices for a tenant
func (r *GormSalesInvoiceRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]trade.SalesInvoice, error) {
	var invoices []trade.SalesInvoice
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&trade.SalesInvoice{}).Where("tenant_id = ?", tenantID),
		filter,
	)

	if err := query.Find(&invoices).Error; err != nil {
		return nil, err
	}
	return invoices, nil
}

// Save creates or updates a sales invoice together with its line items
func (r *GormSalesInvoiceRepository) Save(ctx context.Context, invoice *trade.SalesInvoice) error {
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
func (r *GormSalesInvoiceRepository) SaveWithLock(ctx context.Context, invoice *trade.SalesInvoice) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var currentVersion int
		if err := tx.Model(&trade.SalesInvoice{}).
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

		result := tx.Model(&trade.SalesInvoice{}).
			Where("id = ? AND version = ?", invoice.ID, currentVersion).
			Updates(map[string]interface{}{
				"customer_id":    invoice.CustomerID,
				"customer_name":  invoice.CustomerName,
				"warehouse_id":   invoice.WarehouseID,
				"subtotal":       invoice.Subtotal,
				"discount_total": invoice.DiscountTotal,
				"tax_total":      invoice.TaxTotal,
				"total":          invoice.Total,
				"status":         invoice.Status,
				"payment_method": invoice.PaymentMethod,
				"notes":          invoice.Notes,
				"paid_at":        invoice.PaidAt,
				"cancelled_at":   invoice.CancelledAt,
				"cancel_reason":  invoice.CancelReason,
				"version":        invoice.Version,
				"updated_at":     invoice.UpdatedAt,
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

// syncItems reconciles the stored line items with the aggregate's current
// items: removed lines are deleted, the rest are upserted
func (r *GormSalesInvoiceRepository) syncItems(tx *gorm.DB, invoice *trade.SalesInvoice) error {
	currentItemIDs := make([]uuid.UUID, len(invoice.Items))
	for i, item := range invoice.Items {
		currentItemIDs[i] = item.ID
	}

	if len(currentItemIDs) > 0 {
		if err := tx.Where("invoice_id = ? AND id NOT IN ?", invoice.ID, currentItemIDs).
			Delete(&trade.SalesInvoiceItem{}).Error; err != nil {
			return err
		}
	} else {
		if err := tx.Where("invoice_id = ?", invoice.ID).
			Delete(&trade.SalesInvoiceItem{}).Error; err != nil {
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

// Delete deletes a sales invoice and its line items
func (r *GormSalesInvoiceRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("invoice_id = ?", id).
			Delete(&trade.SalesInvoiceItem{}).Error; err != nil {
			return err
		}

		result := tx.Delete(&trade.SalesInvoice{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

// DeleteForTenant deletes a sales invoice and its line items, scoped to the
// owning tenant. The header goes first so a foreign tenant's document is
// never touched; the item delete backs up the FK cascade.
func (r *GormSalesInvoiceRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Delete(&trade.SalesInvoice{}, "tenant_id = ? AND id = ?", tenantID, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return tx.Where("invoice_id = ?", id).Delete(&trade.SalesInvoiceItem{}).Error
	})
}

// Count counts sales invoices matching the filter
func (r *GormSalesInvoiceRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&trade.SalesInvoice{}), filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountForTenant counts sales invoices matching the filter within a tenant
func (r *GormSalesInvoiceRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&trade.SalesInvoice{}).Where("tenant_id = ?", tenantID)
	query = r.applyFilterWithoutPagination(query, filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// applyFilter applies filter options to the query
func (r *GormSalesInvoiceRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	orderBy := ValidateSortField(filter.OrderBy, SalesInvoiceSortFields, "created_at")
	orderDir := ValidateSortOrder(filter.OrderDir)
	return query.Order(orderBy + " " + orderDir)
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormSalesInvoiceRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("number ILIKE ? OR customer_name ILIKE ?", pattern, pattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
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

// Ensure GormSalesInvoiceRepository implements SalesInvoiceRepository
var _ trade.SalesInvoiceRepository = (*GormSalesInvoiceRepository)(nil)

// Package telemetry provides OpenTelemetry integration for metrics collection.
package telemetry

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormStockMetricsProvider implements StockMetricsProvider using GORM.
// It queries the stock and inspection tables directly for aggregated metrics.
type GormStockMetricsProvider struct {
	db *gorm.DB
}

// NewGormStockMetricsProvider creates a new GormStockMetricsProvider.
func NewGormStockMetricsProvider(db *gorm.DB) *GormStockMetricsProvider {
	return &GormStockMetricsProvider{db: db}
}

// GetLowStockCount returns count of products whose total on-hand quantity
// across all warehouses is below their minimum threshold.
func (p *GormStockMetricsProvider) GetLowStockCount(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	var count int64
	err := p.db.WithContext(ctx).Raw(
		`SELECT COUNT(*)
		 FROM products p
		 WHERE p.tenant_id = ? AND p.min_stock > 0
		   AND (SELECT COALESCE(SUM(s.quantity), 0)
		        FROM stock_items s
		        WHERE s.tenant_id = p.tenant_id AND s.product_id = p.id) < p.min_stock`,
		tenantID,
	).Scan(&count).Error

	return count, err
}

// GetPendingInspectionCount returns count of inspection lots awaiting release for a tenant.
func (p *GormStockMetricsProvider) GetPendingInspectionCount(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	var count int64
	err := p.db.WithContext(ctx).
		Table("inspection_lots").
		Where("tenant_id = ? AND status = ?", tenantID, "PENDING_INSPECTION").
		Count(&count).Error

	return count, err
}

// GormTenantProvider implements TenantProvider using GORM.
type GormTenantProvider struct {
	db *gorm.DB
}

// NewGormTenantProvider creates a new GormTenantProvider.
func NewGormTenantProvider(db *gorm.DB) *GormTenantProvider {
	return &GormTenantProvider{db: db}
}

// GetActiveTenantIDs returns the tenant IDs that own catalog data.
func (p *GormTenantProvider) GetActiveTenantIDs(ctx context.Context) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := p.db.WithContext(ctx).
		Table("products").
		Distinct("tenant_id").
		Find(&ids).Error

	return ids, err
}

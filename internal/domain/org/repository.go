package org

import (
	"context"

	"github.com/bizledger/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// BranchRepository defines the persistence interface for branches
type BranchRepository interface {
	shared.TenantRepository[Branch]
	FindByCodeForTenant(ctx context.Context, tenantID uuid.UUID, code string) (*Branch, error)
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)
}

// WarehouseRepository defines the persistence interface for warehouses
type WarehouseRepository interface {
	shared.TenantRepository[Warehouse]
	FindByCodeForTenant(ctx context.Context, tenantID uuid.UUID, code string) (*Warehouse, error)
	FindByBranchForTenant(ctx context.Context, tenantID, branchID uuid.UUID) ([]Warehouse, error)
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)
}

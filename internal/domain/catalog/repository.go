package catalog

import (
	"context"

	"github.com/bizledger/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// ProductRepository defines the persistence interface for products
type ProductRepository interface {
	shared.TenantRepository[Product]

	// FindByCodeForTenant finds a product by its code within a tenant
	FindByCodeForTenant(ctx context.Context, tenantID uuid.UUID, code string) (*Product, error)

	// FindByIDsForTenant loads multiple products by ID within a tenant
	FindByIDsForTenant(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]Product, error)

	// SaveWithLock saves using optimistic locking on the aggregate version
	SaveWithLock(ctx context.Context, product *Product) error

	// DeleteForTenant removes a product within a tenant
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error

	// CountForTenant counts products matching the filter within a tenant
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)
}

package trade

import (
	"context"

	"github.com/bizledger/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// SalesInvoiceRepository defines the persistence interface for sales invoices
type SalesInvoiceRepository interface {
	shared.TenantRepository[SalesInvoice]
	FindByNumberForTenant(ctx context.Context, tenantID uuid.UUID, number string) (*SalesInvoice, error)
	SaveWithLock(ctx context.Context, invoice *SalesInvoice) error
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error
}

// PurchaseInvoiceRepository defines the persistence interface for purchase invoices
type PurchaseInvoiceRepository interface {
	shared.TenantRepository[PurchaseInvoice]
	FindByNumberForTenant(ctx context.Context, tenantID uuid.UUID, number string) (*PurchaseInvoice, error)
	SaveWithLock(ctx context.Context, invoice *PurchaseInvoice) error
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error
}

// ReturnRepository defines the persistence interface for returns
type ReturnRepository interface {
	shared.TenantRepository[Return]
	FindByNumberForTenant(ctx context.Context, tenantID uuid.UUID, number string) (*Return, error)
	FindBySalesInvoiceForTenant(ctx context.Context, tenantID, salesInvoiceID uuid.UUID) ([]Return, error)
	SaveWithLock(ctx context.Context, ret *Return) error
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error
}

// TransferRepository defines the persistence interface for transfers
type TransferRepository interface {
	shared.TenantRepository[Transfer]
	FindByNumberForTenant(ctx context.Context, tenantID uuid.UUID, number string) (*Transfer, error)
	SaveWithLock(ctx context.Context, transfer *Transfer) error
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error
}

// SequenceRepository persists per-tenant, per-type, per-day counters used
// by the number allocator. NextValue must be atomic under concurrency.
type SequenceRepository interface {
	NextValue(ctx context.Context, tenantID uuid.UUID, docType DocumentType, day string) (int64, error)
}

package persistence

import (
	"context"

	apptrade "github.com/bizledger/backend/internal/application/trade"
	"github.com/bizledger/backend/internal/domain/inventory"
	"github.com/bizledger/backend/internal/domain/shared"
	"github.com/bizledger/backend/internal/domain/trade"
	"github.com/bizledger/backend/internal/infrastructure/event"
	"gorm.io/gorm"
)

// GormTransactionScope implements TransactionScope using GORM transactions.
// Every repository handed to the workflow function shares one database
// transaction, so sequence allocation, document writes, stock adjustments,
// ledger movements, and outbox entries commit or roll back together.
type GormTransactionScope struct {
	db *gorm.DB
}

// NewGormTransactionScope creates a new GormTransactionScope
func NewGormTransactionScope(db *gorm.DB) *GormTransactionScope {
	return &GormTransactionScope{db: db}
}

// Execute runs the given function within a database transaction.
// If the function returns an error, the transaction is rolled back.
// If the function succeeds, the transaction is committed.
func (s *GormTransactionScope) Execute(ctx context.Context, fn func(repos apptrade.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repos := &gormTransactionalRepositories{tx: tx}
		return fn(repos)
	})
}

// gormTransactionalRepositories provides access to all repositories within a transaction
type gormTransactionalRepositories struct {
	tx *gorm.DB
}

// SalesInvoices returns the sales invoice repository scoped to the current transaction
func (r *gormTransactionalRepositories) SalesInvoices() trade.SalesInvoiceRepository {
	return NewGormSalesInvoiceRepository(r.tx)
}

// PurchaseInvoices returns the purchase invoice repository scoped to the current transaction
func (r *gormTransactionalRepositories) PurchaseInvoices() trade.PurchaseInvoiceRepository {
	return NewGormPurchaseInvoiceRepository(r.tx)
}

// Returns returns the return repository scoped to the current transaction
func (r *gormTransactionalRepositories) Returns() trade.ReturnRepository {
	return NewGormReturnRepository(r.tx)
}

// Transfers returns the transfer repository scoped to the current transaction
func (r *gormTransactionalRepositories) Transfers() trade.TransferRepository {
	return NewGormTransferRepository(r.tx)
}

// Sequences returns the sequence repository scoped to the current transaction
func (r *gormTransactionalRepositories) Sequences() trade.SequenceRepository {
	return NewGormSequenceRepository(r.tx)
}

// Stock returns the stock item repository scoped to the current transaction
func (r *gormTransactionalRepositories) Stock() inventory.StockItemRepository {
	return NewGormStockItemRepository(r.tx)
}

// Movements returns the stock movement repository scoped to the current transaction
func (r *gormTransactionalRepositories) Movements() inventory.StockMovementRepository {
	return NewGormStockMovementRepository(r.tx)
}

// InspectionLots returns the inspection lot repository scoped to the current transaction
func (r *gormTransactionalRepositories) InspectionLots() inventory.InspectionLotRepository {
	return NewGormInspectionLotRepository(r.tx)
}

// Outbox returns the outbox repository scoped to the current transaction
func (r *gormTransactionalRepositories) Outbox() shared.OutboxRepository {
	return event.NewGormOutboxRepository(r.tx)
}

// Ensure GormTransactionScope implements TransactionScope
var _ apptrade.TransactionScope = (*GormTransactionScope)(nil)

// Ensure gormTransactionalRepositories implements TransactionalRepositories
var _ apptrade.TransactionalRepositories = (*gormTransactionalRepositories)(nil)

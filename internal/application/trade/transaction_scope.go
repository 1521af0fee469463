package trade

import (
	"context"

	"github.com/bizledger/backend/internal/domain/inventory"
	"github.com/bizledger/backend/internal/domain/shared"
	"github.com/bizledger/backend/internal/domain/trade"
)

// TransactionScope provides transactional access to the repositories a
// document workflow touches. When a function is executed within a scope,
// all repository operations are part of the same database transaction and
// commit or roll back atomically: sequence allocation, document header and
// items, stock adjustments, ledger movements, inspection lots, and outbox
// entries all succeed together or not at all.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	// If the function succeeds, the transaction is committed.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to all repositories within a
// transaction. All repositories returned share the same underlying database
// transaction.
type TransactionalRepositories interface {
	SalesInvoices() trade.SalesInvoiceRepository
	PurchaseInvoices() trade.PurchaseInvoiceRepository
	Returns() trade.ReturnRepository
	Transfers() trade.TransferRepository
	Sequences() trade.SequenceRepository
	Stock() inventory.StockItemRepository
	Movements() inventory.StockMovementRepository
	InspectionLots() inventory.InspectionLotRepository
	Outbox() shared.OutboxRepository
}

// NoOpTransactionScope is a transaction scope that doesn't actually use
// transactions. This is useful for testing or when transaction support is
// not required.
type NoOpTransactionScope struct {
	salesInvoiceRepo    trade.SalesInvoiceRepository
	purchaseInvoiceRepo trade.PurchaseInvoiceRepository
	returnRepo          trade.ReturnRepository
	transferRepo        trade.TransferRepository
	sequenceRepo        trade.SequenceRepository
	stockRepo           inventory.StockItemRepository
	movementRepo        inventory.StockMovementRepository
	inspectionRepo      inventory.InspectionLotRepository
	outboxRepo          shared.OutboxRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repositories.
func NewNoOpTransactionScope(
	salesInvoiceRepo trade.SalesInvoiceRepository,
	purchaseInvoiceRepo trade.PurchaseInvoiceRepository,
	returnRepo trade.ReturnRepository,
	transferRepo trade.TransferRepository,
	sequenceRepo trade.SequenceRepository,
	stockRepo inventory.StockItemRepository,
	movementRepo inventory.StockMovementRepository,
	inspectionRepo inventory.InspectionLotRepository,
	outboxRepo shared.OutboxRepository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		salesInvoiceRepo:    salesInvoiceRepo,
		purchaseInvoiceRepo: purchaseInvoiceRepo,
		returnRepo:          returnRepo,
		transferRepo:        transferRepo,
		sequenceRepo:        sequenceRepo,
		stockRepo:           stockRepo,
		movementRepo:        movementRepo,
		inspectionRepo:      inspectionRepo,
		outboxRepo:          outboxRepo,
	}
}

// Execute runs the function without a real transaction (for testing/compatibility).
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// SalesInvoices returns the sales invoice repository
func (s *NoOpTransactionScope) SalesInvoices() trade.SalesInvoiceRepository {
	return s.salesInvoiceRepo
}

// PurchaseInvoices returns the purchase invoice repository
func (s *NoOpTransactionScope) PurchaseInvoices() trade.PurchaseInvoiceRepository {
	return s.purchaseInvoiceRepo
}

// Returns returns the return repository
func (s *NoOpTransactionScope) Returns() trade.ReturnRepository {
	return s.returnRepo
}

// Transfers returns the transfer repository
func (s *NoOpTransactionScope) Transfers() trade.TransferRepository {
	return s.transferRepo
}

// Sequences returns the sequence repository
func (s *NoOpTransactionScope) Sequences() trade.SequenceRepository {
	return s.sequenceRepo
}

// Stock returns the stock item repository
func (s *NoOpTransactionScope) Stock() inventory.StockItemRepository {
	return s.stockRepo
}

// Movements returns the stock movement repository
func (s *NoOpTransactionScope) Movements() inventory.StockMovementRepository {
	return s.movementRepo
}

// InspectionLots returns the inspection lot repository
func (s *NoOpTransactionScope) InspectionLots() inventory.InspectionLotRepository {
	return s.inspectionRepo
}

// Outbox returns the outbox repository
func (s *NoOpTransactionScope) Outbox() shared.OutboxRepository {
	return s.outboxRepo
}

// Ensure NoOpTransactionScope implements both interfaces
var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)

package trade

import (
	"context"
	"errors"
	"time"

	"github.com/bizledger/backend/internal/domain/catalog"
	"github.com/bizledger/backend/internal/domain/inventory"
	"github.com/bizledger/backend/internal/domain/org"
	"github.com/bizledger/backend/internal/domain/shared"
	"github.com/bizledger/backend/internal/domain/trade"
	"github.com/google/uuid"
)

// TransferService handles inter-warehouse transfer workflows. Goods leave
// the source warehouse on dispatch and arrive at the destination on receipt;
// while in transit they are counted in neither warehouse. Cancelling an
// in-transit transfer credits the goods back to the source.
type TransferService struct {
	scope          TransactionScope
	transferRepo   trade.TransferRepository
	productRepo    catalog.ProductRepository
	warehouseRepo  org.WarehouseRepository
	eventPublisher shared.EventPublisher
	idempotency    shared.IdempotencyStore
	idempotencyCfg shared.IdempotencyConfig
}

// NewTransferService creates a new transfer service
func NewTransferService(
	scope TransactionScope,
	transferRepo trade.TransferRepository,
	productRepo catalog.ProductRepository,
	warehouseRepo org.WarehouseRepository,
) *TransferService {
	return &TransferService{
		scope:          scope,
		transferRepo:   transferRepo,
		productRepo:    productRepo,
		warehouseRepo:  warehouseRepo,
		idempotencyCfg: shared.DefaultIdempotencyConfig(),
	}
}

// SetEventPublisher sets the event publisher for domain events
func (s *TransferService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// SetIdempotencyStore enables creation replay detection via idempotency keys
func (s *TransferService) SetIdempotencyStore(store shared.IdempotencyStore, cfg shared.IdempotencyConfig) {
	s.idempotency = store
	s.idempotencyCfg = cfg
}

// Create creates a transfer in PENDING status. Stock is untouched until
// the transfer is dispatched.
func (s *TransferService) Create(ctx context.Context, tenantID, actorID uuid.UUID, req CreateTransferRequest) (*TransferResponse, error) {
	if replay, err := s.recallCreation(ctx, tenantID, req.IdempotencyKey); replay != nil || err != nil {
		return replay, err
	}

	for _, warehouseID := range []uuid.UUID{req.SourceID, req.DestinationID} {
		warehouse, err := s.warehouseRepo.FindByIDForTenant(ctx, tenantID, warehouseID)
		if err != nil {
			return nil, err
		}
		if !warehouse.IsActive() {
			return nil, shared.NewDomainError("WAREHOUSE_DISABLED", "Cannot transfer through a disabled warehouse")
		}
	}

	ids := make([]uuid.UUID, 0, len(req.Items))
	for _, item := range req.Items {
		ids = append(ids, item.ProductID)
	}
	products, err := loadActiveProducts(ctx, s.productRepo, tenantID, ids)
	if err != nil {
		return nil, err
	}

	var transfer *trade.Transfer
	for attempt := 0; attempt < maxNumberAttempts; attempt++ {
		transfer = nil
		err = s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
			number, err := allocateNumber(ctx, repos, tenantID, trade.DocumentTypeTransfer, time.Now())
			if err != nil {
				return err
			}

			t, err := trade.NewTransfer(tenantID, number, req.SourceID, req.DestinationID)
			if err != nil {
				return err
			}
			t.SetCreatedBy(actorID)
			if req.Notes != "" {
				t.SetNotes(req.Notes)
			}

			for _, line := range req.Items {
				product := products[line.ProductID]
				if _, err := t.AddItem(product.ID, product.Name, product.Code, line.Quantity); err != nil {
					return err
				}
			}

			if err := repos.Transfers().Save(ctx, t); err != nil {
				return err
			}
			transfer = t
			return nil
		})
		if !errors.Is(err, shared.ErrDuplicateNumber) {
			break
		}
	}
	if err != nil {
		return nil, err
	}

	publishAndClear(ctx, s.eventPublisher, transfer)
	s.rememberCreation(ctx, tenantID, req.IdempotencyKey, transfer.ID)

	resp := ToTransferResponse(transfer)
	return &resp, nil
}

// Dispatch moves the transfer to IN_TRANSIT and debits the source warehouse
// in the same transaction. Insufficient stock on any line aborts the dispatch.
func (s *TransferService) Dispatch(ctx context.Context, tenantID, transferID, actorID uuid.UUID) (*TransferResponse, error) {
	var transfer *trade.Transfer
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		t, err := repos.Transfers().FindByIDForTenant(ctx, tenantID, transferID)
		if err != nil {
			return err
		}
		if err := t.Dispatch(); err != nil {
			return err
		}

		if err := s.moveStock(ctx, repos, t, t.SourceID, inventory.MovementTypeTransferOut, actorID, true); err != nil {
			return err
		}

		if err := repos.Transfers().SaveWithLock(ctx, t); err != nil {
			return err
		}
		transfer = t
		return nil
	})
	if err != nil {
		return nil, err
	}

	publishAndClear(ctx, s.eventPublisher, transfer)

	resp := ToTransferResponse(transfer)
	return &resp, nil
}

// Receive moves the transfer to RECEIVED and credits the destination
// warehouse in the same transaction.
func (s *TransferService) Receive(ctx context.Context, tenantID, transferID, actorID uuid.UUID) (*TransferResponse, error) {
	var transfer *trade.Transfer
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		t, err := repos.Transfers().FindByIDForTenant(ctx, tenantID, transferID)
		if err != nil {
			return err
		}
		if err := t.Receive(); err != nil {
			return err
		}

		if err := s.moveStock(ctx, repos, t, t.DestinationID, inventory.MovementTypeTransferIn, actorID, false); err != nil {
			return err
		}

		if err := repos.Transfers().SaveWithLock(ctx, t); err != nil {
			return err
		}
		transfer = t
		return nil
	})
	if err != nil {
		return nil, err
	}

	publishAndClear(ctx, s.eventPublisher, transfer)

	resp := ToTransferResponse(transfer)
	return &resp, nil
}

// Cancel voids the transfer. A pending transfer has no stock effect; an
// in-transit transfer credits the goods back to the source warehouse.
func (s *TransferService) Cancel(ctx context.Context, tenantID, transferID, actorID uuid.UUID, reason string) (*TransferResponse, error) {
	var transfer *trade.Transfer
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		t, err := repos.Transfers().FindByIDForTenant(ctx, tenantID, transferID)
		if err != nil {
			return err
		}
		wasInTransit := t.IsInTransit()
		if err := t.Cancel(reason); err != nil {
			return err
		}

		if wasInTransit {
			if err := s.moveStock(ctx, repos, t, t.SourceID, inventory.MovementTypeTransferReturn, actorID, false); err != nil {
				return err
			}
		}

		if err := repos.Transfers().SaveWithLock(ctx, t); err != nil {
			return err
		}
		transfer = t
		return nil
	})
	if err != nil {
		return nil, err
	}

	publishAndClear(ctx, s.eventPublisher, transfer)

	resp := ToTransferResponse(transfer)
	return &resp, nil
}

// Delete removes a cancelled transfer and its line items. Cancellation
// already undid any in-transit debit, so the document carries no stock
// effect by the time it becomes deletable.
func (s *TransferService) Delete(ctx context.Context, tenantID, transferID uuid.UUID) error {
	return s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		t, err := repos.Transfers().FindByIDForTenant(ctx, tenantID, transferID)
		if err != nil {
			return err
		}
		if !t.IsCancelled() {
			return shared.NewDomainError("INVALID_STATE", "Only cancelled transfers can be deleted")
		}
		return repos.Transfers().DeleteForTenant(ctx, tenantID, transferID)
	})
}

// GetByID retrieves a transfer by ID
func (s *TransferService) GetByID(ctx context.Context, tenantID, transferID uuid.UUID) (*TransferResponse, error) {
	transfer, err := s.transferRepo.FindByIDForTenant(ctx, tenantID, transferID)
	if err != nil {
		return nil, err
	}
	resp := ToTransferResponse(transfer)
	return &resp, nil
}

// GetByNumber retrieves a transfer by its document number
func (s *TransferService) GetByNumber(ctx context.Context, tenantID uuid.UUID, number string) (*TransferResponse, error) {
	transfer, err := s.transferRepo.FindByNumberForTenant(ctx, tenantID, number)
	if err != nil {
		return nil, err
	}
	resp := ToTransferResponse(transfer)
	return &resp, nil
}

// List retrieves transfers with pagination
func (s *TransferService) List(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (*shared.Paginated[TransferResponse], error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 || filter.PageSize > 100 {
		filter.PageSize = 20
	}

	transfers, err := s.transferRepo.FindAllForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.transferRepo.CountForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}

	responses := make([]TransferResponse, 0, len(transfers))
	for idx := range transfers {
		responses = append(responses, ToTransferResponse(&transfers[idx]))
	}

	result := shared.NewPaginated(responses, total, filter.Page, filter.PageSize)
	return &result, nil
}

// moveStock applies every transfer line to one warehouse and writes the
// matching ledger entries. debit subtracts the quantities, otherwise they
// are credited.
func (s *TransferService) moveStock(ctx context.Context, repos TransactionalRepositories, t *trade.Transfer, warehouseID uuid.UUID, movementType inventory.MovementType, actorID uuid.UUID, debit bool) error {
	for _, item := range t.Items {
		delta := item.Quantity
		if debit {
			delta = delta.Neg()
		}
		if _, err := repos.Stock().GetOrCreate(ctx, t.TenantID, warehouseID, item.ProductID); err != nil {
			return err
		}
		after, err := repos.Stock().AdjustQuantity(ctx, t.TenantID, warehouseID, item.ProductID, delta)
		if err != nil {
			return err
		}
		movement, err := inventory.NewStockMovement(t.TenantID, warehouseID, item.ProductID, movementType, delta, after)
		if err != nil {
			return err
		}
		movement.WithDocument(t.ID, t.Number).WithActor(actorID)
		if err := repos.Movements().Save(ctx, movement); err != nil {
			return err
		}
	}
	return nil
}

func (s *TransferService) recallCreation(ctx context.Context, tenantID uuid.UUID, key string) (*TransferResponse, error) {
	if key == "" || s.idempotency == nil || !s.idempotencyCfg.Enabled {
		return nil, nil
	}
	value, err := s.idempotency.Recall(ctx, creationKey(trade.DocumentTypeTransfer, tenantID, key))
	if err != nil || value == "" {
		return nil, nil
	}
	transferID, err := uuid.Parse(value)
	if err != nil {
		return nil, nil
	}
	return s.GetByID(ctx, tenantID, transferID)
}

func (s *TransferService) rememberCreation(ctx context.Context, tenantID uuid.UUID, key string, transferID uuid.UUID) {
	if key == "" || s.idempotency == nil || !s.idempotencyCfg.Enabled {
		return
	}
	_ = s.idempotency.Remember(ctx, creationKey(trade.DocumentTypeTransfer, tenantID, key), transferID.String(), s.idempotencyCfg.TTL)
}

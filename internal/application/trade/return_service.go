package trade

import (
	"context"
	"errors"
	"time"

	"github.com/bizledger/backend/internal/domain/inventory"
	"github.com/bizledger/backend/internal/domain/shared"
	"github.com/bizledger/backend/internal/domain/shared/valueobject"
	"github.com/bizledger/backend/internal/domain/trade"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ReturnService handles customer return workflows. Returns are created
// against a paid sales invoice; approval quarantines the restock-flagged
// quantities into inspection lots instead of crediting stock directly.
type ReturnService struct {
	scope          TransactionScope
	returnRepo     trade.ReturnRepository
	invoiceRepo    trade.SalesInvoiceRepository
	eventPublisher shared.EventPublisher
	idempotency    shared.IdempotencyStore
	idempotencyCfg shared.IdempotencyConfig
}

// NewReturnService creates a new return service
func NewReturnService(
	scope TransactionScope,
	returnRepo trade.ReturnRepository,
	invoiceRepo trade.SalesInvoiceRepository,
) *ReturnService {
	return &ReturnService{
		scope:          scope,
		returnRepo:     returnRepo,
		invoiceRepo:    invoiceRepo,
		idempotencyCfg: shared.DefaultIdempotencyConfig(),
	}
}

// SetEventPublisher sets the event publisher for domain events
func (s *ReturnService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// SetIdempotencyStore enables creation replay detection via idempotency keys
func (s *ReturnService) SetIdempotencyStore(store shared.IdempotencyStore, cfg shared.IdempotencyConfig) {
	s.idempotency = store
	s.idempotencyCfg = cfg
}

// Create creates a return against a paid sales invoice. Every returned line
// must reference a line on the original invoice, at a quantity no greater
// than what was sold net of earlier returns.
func (s *ReturnService) Create(ctx context.Context, tenantID, actorID uuid.UUID, req CreateReturnRequest) (*ReturnResponse, error) {
	if replay, err := s.recallCreation(ctx, tenantID, req.IdempotencyKey); replay != nil || err != nil {
		return replay, err
	}

	invoice, err := s.invoiceRepo.FindByIDForTenant(ctx, tenantID, req.SalesInvoiceID)
	if err != nil {
		return nil, err
	}
	if !invoice.IsPaid() {
		return nil, shared.NewDomainError("INVALID_STATE", "Returns are only accepted against paid invoices")
	}

	alreadyReturned, err := s.returnedQuantities(ctx, tenantID, invoice.ID)
	if err != nil {
		return nil, err
	}

	var ret *trade.Return
	for attempt := 0; attempt < maxNumberAttempts; attempt++ {
		ret = nil
		err = s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
			number, err := allocateNumber(ctx, repos, tenantID, trade.DocumentTypeReturn, time.Now())
			if err != nil {
				return err
			}

			r, err := trade.NewReturn(tenantID, number, invoice.ID, invoice.WarehouseID)
			if err != nil {
				return err
			}
			r.SetCreatedBy(actorID)
			r.SetCustomer(invoice.CustomerID, invoice.CustomerName)
			if req.Notes != "" {
				r.SetNotes(req.Notes)
			}

			for _, line := range req.Items {
				sold := invoice.GetItemByProduct(line.ProductID)
				if sold == nil {
					return shared.NewDomainError("PRODUCT_NOT_ON_INVOICE", "Product was not sold on the referenced invoice")
				}
				returnable := sold.Quantity.Sub(alreadyReturned[line.ProductID])
				if _, err := r.AddItem(sold.ProductID, sold.ProductName, sold.ProductCode,
					line.Quantity, returnable, valueobject.NewMoneyUSD(sold.UnitPrice), line.Restock, line.Reason); err != nil {
					return err
				}
			}

			if err := repos.Returns().Save(ctx, r); err != nil {
				return err
			}
			ret = r
			return nil
		})
		if !errors.Is(err, shared.ErrDuplicateNumber) {
			break
		}
	}
	if err != nil {
		return nil, err
	}

	publishAndClear(ctx, s.eventPublisher, ret)
	s.rememberCreation(ctx, tenantID, req.IdempotencyKey, ret.ID)

	resp := ToReturnResponse(ret)
	return &resp, nil
}

// Approve transitions the return to APPROVED and stages each restock-flagged
// line into an inspection lot in the same transaction. The units stay out of
// sellable stock until the lot is released.
func (s *ReturnService) Approve(ctx context.Context, tenantID, returnID, actorID uuid.UUID) (*ReturnResponse, error) {
	var ret *trade.Return
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		r, err := repos.Returns().FindByIDForTenant(ctx, tenantID, returnID)
		if err != nil {
			return err
		}
		if err := r.Approve(); err != nil {
			return err
		}

		for _, item := range r.RestockItems() {
			lot, err := inventory.NewInspectionLot(tenantID, r.WarehouseID, item.ProductID, r.ID, r.Number, item.Quantity)
			if err != nil {
				return err
			}
			if err := repos.InspectionLots().Save(ctx, lot); err != nil {
				return err
			}
		}

		if err := repos.Returns().SaveWithLock(ctx, r); err != nil {
			return err
		}
		ret = r
		return nil
	})
	if err != nil {
		return nil, err
	}

	publishAndClear(ctx, s.eventPublisher, ret)

	resp := ToReturnResponse(ret)
	return &resp, nil
}

// Refund transitions an approved return to REFUNDED, closing it out.
// req.Amount optionally overrides the computed refund total, for partial
// refunds agreed at refund time.
func (s *ReturnService) Refund(ctx context.Context, tenantID, returnID uuid.UUID, req RefundReturnRequest) (*ReturnResponse, error) {
	var ret *trade.Return
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		r, err := repos.Returns().FindByIDForTenant(ctx, tenantID, returnID)
		if err != nil {
			return err
		}
		if err := r.Refund(req.Amount); err != nil {
			return err
		}

		if err := saveEventsToOutbox(ctx, repos.Outbox(), tenantID, r.GetDomainEvents()); err != nil {
			return err
		}
		if err := repos.Returns().SaveWithLock(ctx, r); err != nil {
			return err
		}
		ret = r
		return nil
	})
	if err != nil {
		return nil, err
	}

	publishAndClear(ctx, s.eventPublisher, ret)

	resp := ToReturnResponse(ret)
	return &resp, nil
}

// Reject refuses a pending return. A reason is mandatory; nothing enters
// the inspection pool.
func (s *ReturnService) Reject(ctx context.Context, tenantID, returnID uuid.UUID, reason string) (*ReturnResponse, error) {
	var ret *trade.Return
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		r, err := repos.Returns().FindByIDForTenant(ctx, tenantID, returnID)
		if err != nil {
			return err
		}
		if err := r.Reject(reason); err != nil {
			return err
		}
		if err := repos.Returns().SaveWithLock(ctx, r); err != nil {
			return err
		}
		ret = r
		return nil
	})
	if err != nil {
		return nil, err
	}

	publishAndClear(ctx, s.eventPublisher, ret)

	resp := ToReturnResponse(ret)
	return &resp, nil
}

// Delete removes a rejected return and its line items. Any other status is
// either still live or the record of quantities sitting in the inspection
// pool, so it stays.
func (s *ReturnService) Delete(ctx context.Context, tenantID, returnID uuid.UUID) error {
	return s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		r, err := repos.Returns().FindByIDForTenant(ctx, tenantID, returnID)
		if err != nil {
			return err
		}
		if !r.IsRejected() {
			return shared.NewDomainError("INVALID_STATE", "Only rejected returns can be deleted")
		}
		return repos.Returns().DeleteForTenant(ctx, tenantID, returnID)
	})
}

// GetByID retrieves a return by ID
func (s *ReturnService) GetByID(ctx context.Context, tenantID, returnID uuid.UUID) (*ReturnResponse, error) {
	ret, err := s.returnRepo.FindByIDForTenant(ctx, tenantID, returnID)
	if err != nil {
		return nil, err
	}
	resp := ToReturnResponse(ret)
	return &resp, nil
}

// GetByNumber retrieves a return by its document number
func (s *ReturnService) GetByNumber(ctx context.Context, tenantID uuid.UUID, number string) (*ReturnResponse, error) {
	ret, err := s.returnRepo.FindByNumberForTenant(ctx, tenantID, number)
	if err != nil {
		return nil, err
	}
	resp := ToReturnResponse(ret)
	return &resp, nil
}

// List retrieves returns with pagination
func (s *ReturnService) List(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (*shared.Paginated[ReturnResponse], error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 || filter.PageSize > 100 {
		filter.PageSize = 20
	}

	returns, err := s.returnRepo.FindAllForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.returnRepo.CountForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}

	responses := make([]ReturnResponse, 0, len(returns))
	for idx := range returns {
		responses = append(responses, ToReturnResponse(&returns[idx]))
	}

	result := shared.NewPaginated(responses, total, filter.Page, filter.PageSize)
	return &result, nil
}

// returnedQuantities sums the per-product quantities already claimed by
// earlier non-rejected returns against the invoice.
func (s *ReturnService) returnedQuantities(ctx context.Context, tenantID, invoiceID uuid.UUID) (map[uuid.UUID]decimal.Decimal, error) {
	earlier, err := s.returnRepo.FindBySalesInvoiceForTenant(ctx, tenantID, invoiceID)
	if err != nil {
		return nil, err
	}

	totals := make(map[uuid.UUID]decimal.Decimal)
	for idx := range earlier {
		if earlier[idx].IsRejected() {
			continue
		}
		for _, item := range earlier[idx].Items {
			totals[item.ProductID] = totals[item.ProductID].Add(item.Quantity)
		}
	}
	return totals, nil
}

func (s *ReturnService) recallCreation(ctx context.Context, tenantID uuid.UUID, key string) (*ReturnResponse, error) {
	if key == "" || s.idempotency == nil || !s.idempotencyCfg.Enabled {
		return nil, nil
	}
	value, err := s.idempotency.Recall(ctx, creationKey(trade.DocumentTypeReturn, tenantID, key))
	if err != nil || value == "" {
		return nil, nil
	}
	returnID, err := uuid.Parse(value)
	if err != nil {
		return nil, nil
	}
	return s.GetByID(ctx, tenantID, returnID)
}

func (s *ReturnService) rememberCreation(ctx context.Context, tenantID uuid.UUID, key string, returnID uuid.UUID) {
	if key == "" || s.idempotency == nil || !s.idempotencyCfg.Enabled {
		return
	}
	_ = s.idempotency.Remember(ctx, creationKey(trade.DocumentTypeReturn, tenantID, key), returnID.String(), s.idempotencyCfg.TTL)
}

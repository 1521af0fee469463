package trade

import (
	"context"
	"errors"
	"time"

	"github.com/bizledger/backend/internal/domain/catalog"
	"github.com/bizledger/backend/internal/domain/inventory"
	"github.com/bizledger/backend/internal/domain/org"
	"github.com/bizledger/backend/internal/domain/shared"
	"github.com/bizledger/backend/internal/domain/shared/valueobject"
	"github.com/bizledger/backend/internal/domain/trade"
	"github.com/google/uuid"
)

// PurchasePolicy controls how purchase invoices interact with stock.
// When ReceiveAdjustsStock is off, marking an invoice received records the
// state change only; stock is maintained through manual adjustments.
type PurchasePolicy struct {
	ReceiveAdjustsStock bool
}

// DefaultPurchasePolicy returns the default purchase policy
func DefaultPurchasePolicy() PurchasePolicy {
	return PurchasePolicy{ReceiveAdjustsStock: true}
}

// PurchaseInvoiceService handles purchase invoice workflows. Creation has no
// stock effect; the receiving warehouse is credited when the invoice is
// marked received, subject to the purchase policy.
type PurchaseInvoiceService struct {
	scope          TransactionScope
	invoiceRepo    trade.PurchaseInvoiceRepository
	productRepo    catalog.ProductRepository
	warehouseRepo  org.WarehouseRepository
	policy         PurchasePolicy
	eventPublisher shared.EventPublisher
	idempotency    shared.IdempotencyStore
	idempotencyCfg shared.IdempotencyConfig
}

// NewPurchaseInvoiceService creates a new purchase invoice service
func NewPurchaseInvoiceService(
	scope TransactionScope,
	invoiceRepo trade.PurchaseInvoiceRepository,
	productRepo catalog.ProductRepository,
	warehouseRepo org.WarehouseRepository,
	policy PurchasePolicy,
) *PurchaseInvoiceService {
	return &PurchaseInvoiceService{
		scope:          scope,
		invoiceRepo:    invoiceRepo,
		productRepo:    productRepo,
		warehouseRepo:  warehouseRepo,
		policy:         policy,
		idempotencyCfg: shared.DefaultIdempotencyConfig(),
	}
}

// SetEventPublisher sets the event publisher for domain events
func (s *PurchaseInvoiceService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// SetIdempotencyStore enables creation replay detection via idempotency keys
func (s *PurchaseInvoiceService) SetIdempotencyStore(store shared.IdempotencyStore, cfg shared.IdempotencyConfig) {
	s.idempotency = store
	s.idempotencyCfg = cfg
}

// Create creates a purchase invoice in PENDING status. Stock is untouched
// until the invoice is received.
func (s *PurchaseInvoiceService) Create(ctx context.Context, tenantID, actorID uuid.UUID, req CreatePurchaseInvoiceRequest) (*PurchaseInvoiceResponse, error) {
	if replay, err := s.recallCreation(ctx, tenantID, req.IdempotencyKey); replay != nil || err != nil {
		return replay, err
	}

	warehouse, err := s.warehouseRepo.FindByIDForTenant(ctx, tenantID, req.WarehouseID)
	if err != nil {
		return nil, err
	}
	if !warehouse.IsActive() {
		return nil, shared.NewDomainError("WAREHOUSE_DISABLED", "Cannot receive into a disabled warehouse")
	}

	ids := make([]uuid.UUID, 0, len(req.Items))
	for _, item := range req.Items {
		ids = append(ids, item.ProductID)
	}
	products, err := loadActiveProducts(ctx, s.productRepo, tenantID, ids)
	if err != nil {
		return nil, err
	}

	var invoice *trade.PurchaseInvoice
	for attempt := 0; attempt < maxNumberAttempts; attempt++ {
		invoice = nil
		err = s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
			number, err := allocateNumber(ctx, repos, tenantID, trade.DocumentTypePurchaseInvoice, time.Now())
			if err != nil {
				return err
			}

			inv, err := trade.NewPurchaseInvoice(tenantID, number, req.SupplierID, req.SupplierName, req.WarehouseID)
			if err != nil {
				return err
			}
			inv.SetCreatedBy(actorID)
			if req.Notes != "" {
				inv.SetNotes(req.Notes)
			}

			for _, line := range req.Items {
				product := products[line.ProductID]
				unitCost := product.GetCostMoney()
				if line.UnitCost != nil {
					unitCost = valueobject.NewMoneyUSD(*line.UnitCost)
				}
				if _, err := inv.AddItem(product.ID, product.Name, product.Code, line.Quantity, unitCost, line.SerialNumbers); err != nil {
					return err
				}
			}

			if err := repos.PurchaseInvoices().Save(ctx, inv); err != nil {
				return err
			}
			invoice = inv
			return nil
		})
		if !errors.Is(err, shared.ErrDuplicateNumber) {
			break
		}
	}
	if err != nil {
		return nil, err
	}

	publishAndClear(ctx, s.eventPublisher, invoice)
	s.rememberCreation(ctx, tenantID, req.IdempotencyKey, invoice.ID)

	resp := ToPurchaseInvoiceResponse(invoice)
	return &resp, nil
}

// MarkReceived transitions the invoice to RECEIVED and, when the purchase
// policy says so, credits the receiving warehouse in the same transaction.
func (s *PurchaseInvoiceService) MarkReceived(ctx context.Context, tenantID, invoiceID, actorID uuid.UUID) (*PurchaseInvoiceResponse, error) {
	var invoice *trade.PurchaseInvoice
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		inv, err := repos.PurchaseInvoices().FindByIDForTenant(ctx, tenantID, invoiceID)
		if err != nil {
			return err
		}
		if err := inv.MarkReceived(); err != nil {
			return err
		}

		if s.policy.ReceiveAdjustsStock {
			for _, item := range inv.Items {
				if _, err := repos.Stock().GetOrCreate(ctx, tenantID, inv.WarehouseID, item.ProductID); err != nil {
					return err
				}
				after, err := repos.Stock().AdjustQuantity(ctx, tenantID, inv.WarehouseID, item.ProductID, item.Quantity)
				if err != nil {
					return err
				}
				movement, err := inventory.NewStockMovement(tenantID, inv.WarehouseID, item.ProductID,
					inventory.MovementTypePurchase, item.Quantity, after)
				if err != nil {
					return err
				}
				movement.WithDocument(inv.ID, inv.Number).WithActor(actorID)
				if err := repos.Movements().Save(ctx, movement); err != nil {
					return err
				}
			}
		}

		if err := repos.PurchaseInvoices().SaveWithLock(ctx, inv); err != nil {
			return err
		}
		invoice = inv
		return nil
	})
	if err != nil {
		return nil, err
	}

	publishAndClear(ctx, s.eventPublisher, invoice)

	resp := ToPurchaseInvoiceResponse(invoice)
	return &resp, nil
}

// Cancel voids a pending invoice. Nothing was credited yet, so there is no
// stock effect.
func (s *PurchaseInvoiceService) Cancel(ctx context.Context, tenantID, invoiceID uuid.UUID, reason string) (*PurchaseInvoiceResponse, error) {
	var invoice *trade.PurchaseInvoice
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		inv, err := repos.PurchaseInvoices().FindByIDForTenant(ctx, tenantID, invoiceID)
		if err != nil {
			return err
		}
		if err := inv.Cancel(reason); err != nil {
			return err
		}
		if err := repos.PurchaseInvoices().SaveWithLock(ctx, inv); err != nil {
			return err
		}
		invoice = inv
		return nil
	})
	if err != nil {
		return nil, err
	}

	publishAndClear(ctx, s.eventPublisher, invoice)

	resp := ToPurchaseInvoiceResponse(invoice)
	return &resp, nil
}

// Delete removes a cancelled invoice and its line items. Received invoices
// stay on record because they credited stock; pending ones must be cancelled
// first.
func (s *PurchaseInvoiceService) Delete(ctx context.Context, tenantID, invoiceID uuid.UUID) error {
	return s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		inv, err := repos.PurchaseInvoices().FindByIDForTenant(ctx, tenantID, invoiceID)
		if err != nil {
			return err
		}
		if !inv.IsCancelled() {
			return shared.NewDomainError("INVALID_STATE", "Only cancelled invoices can be deleted")
		}
		return repos.PurchaseInvoices().DeleteForTenant(ctx, tenantID, invoiceID)
	})
}

// GetByID retrieves a purchase invoice by ID
func (s *PurchaseInvoiceService) GetByID(ctx context.Context, tenantID, invoiceID uuid.UUID) (*PurchaseInvoiceResponse, error) {
	invoice, err := s.invoiceRepo.FindByIDForTenant(ctx, tenantID, invoiceID)
	if err != nil {
		return nil, err
	}
	resp := ToPurchaseInvoiceResponse(invoice)
	return &resp, nil
}

// GetByNumber retrieves a purchase invoice by its document number
func (s *PurchaseInvoiceService) GetByNumber(ctx context.Context, tenantID uuid.UUID, number string) (*PurchaseInvoiceResponse, error) {
	invoice, err := s.invoiceRepo.FindByNumberForTenant(ctx, tenantID, number)
	if err != nil {
		return nil, err
	}
	resp := ToPurchaseInvoiceResponse(invoice)
	return &resp, nil
}

// List retrieves purchase invoices with pagination
func (s *PurchaseInvoiceService) List(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (*shared.Paginated[PurchaseInvoiceResponse], error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 || filter.PageSize > 100 {
		filter.PageSize = 20
	}

	invoices, err := s.invoiceRepo.FindAllForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.invoiceRepo.CountForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}

	responses := make([]PurchaseInvoiceResponse, 0, len(invoices))
	for idx := range invoices {
		responses = append(responses, ToPurchaseInvoiceResponse(&invoices[idx]))
	}

	result := shared.NewPaginated(responses, total, filter.Page, filter.PageSize)
	return &result, nil
}

func (s *PurchaseInvoiceService) recallCreation(ctx context.Context, tenantID uuid.UUID, key string) (*PurchaseInvoiceResponse, error) {
	if key == "" || s.idempotency == nil || !s.idempotencyCfg.Enabled {
		return nil, nil
	}
	value, err := s.idempotency.Recall(ctx, creationKey(trade.DocumentTypePurchaseInvoice, tenantID, key))
	if err != nil || value == "" {
		return nil, nil
	}
	invoiceID, err := uuid.Parse(value)
	if err != nil {
		return nil, nil
	}
	return s.GetByID(ctx, tenantID, invoiceID)
}

func (s *PurchaseInvoiceService) rememberCreation(ctx context.Context, tenantID uuid.UUID, key string, invoiceID uuid.UUID) {
	if key == "" || s.idempotency == nil || !s.idempotencyCfg.Enabled {
		return
	}
	_ = s.idempotency.Remember(ctx, creationKey(trade.DocumentTypePurchaseInvoice, tenantID, key), invoiceID.String(), s.idempotencyCfg.TTL)
}

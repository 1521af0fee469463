package trade

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/bizledger/backend/internal/domain/catalog"
	"github.com/bizledger/backend/internal/domain/inventory"
	"github.com/bizledger/backend/internal/domain/org"
	"github.com/bizledger/backend/internal/domain/shared"
	"github.com/bizledger/backend/internal/domain/shared/valueobject"
	"github.com/bizledger/backend/internal/domain/trade"
	"github.com/bizledger/backend/internal/infrastructure/telemetry"
	"github.com/google/uuid"
)

// SalesInvoiceService handles sales invoice workflows. A sale deducts stock
// from the selling warehouse at creation time, inside the same transaction
// that allocates the invoice number and persists the document; insufficient
// stock on any line aborts the whole creation.
type SalesInvoiceService struct {
	scope          TransactionScope
	invoiceRepo    trade.SalesInvoiceRepository
	productRepo    catalog.ProductRepository
	warehouseRepo  org.WarehouseRepository
	eventPublisher shared.EventPublisher
	idempotency    shared.IdempotencyStore
	idempotencyCfg shared.IdempotencyConfig
}

// NewSalesInvoiceService creates a new sales invoice service
func NewSalesInvoiceService(
	scope TransactionScope,
	invoiceRepo trade.SalesInvoiceRepository,
	productRepo catalog.ProductRepository,
	warehouseRepo org.WarehouseRepository,
) *SalesInvoiceService {
	return &SalesInvoiceService{
		scope:          scope,
		invoiceRepo:    invoiceRepo,
		productRepo:    productRepo,
		warehouseRepo:  warehouseRepo,
		idempotencyCfg: shared.DefaultIdempotencyConfig(),
	}
}

// SetEventPublisher sets the event publisher for domain events
func (s *SalesInvoiceService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// SetIdempotencyStore enables creation replay detection via idempotency keys
func (s *SalesInvoiceService) SetIdempotencyStore(store shared.IdempotencyStore, cfg shared.IdempotencyConfig) {
	s.idempotency = store
	s.idempotencyCfg = cfg
}

// Create creates a sales invoice and deducts the sold quantities from the
// warehouse. When the request carries an idempotency key that was already
// used, the previously created invoice is returned instead of a new one.
func (s *SalesInvoiceService) Create(ctx context.Context, tenantID, actorID uuid.UUID, req CreateSalesInvoiceRequest) (*SalesInvoiceResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "sales_invoice", "create",
		telemetry.WithAttribute(telemetry.SpanAttrWarehouseID, req.WarehouseID),
		telemetry.WithAttribute(telemetry.SpanAttrLineCount, len(req.Items)),
	)
	defer span.End()

	if replay, err := s.recallCreation(ctx, tenantID, req.IdempotencyKey); replay != nil || err != nil {
		return replay, err
	}

	warehouse, err := s.warehouseRepo.FindByIDForTenant(ctx, tenantID, req.WarehouseID)
	if err != nil {
		return nil, err
	}
	if !warehouse.IsActive() {
		return nil, shared.NewDomainError("WAREHOUSE_DISABLED", "Cannot sell from a disabled warehouse")
	}

	products, err := s.loadProducts(ctx, tenantID, productIDsOfSale(req.Items))
	if err != nil {
		return nil, err
	}

	var invoice *trade.SalesInvoice
	for attempt := 0; attempt < maxNumberAttempts; attempt++ {
		invoice = nil
		err = s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
			number, err := allocateNumber(ctx, repos, tenantID, trade.DocumentTypeSalesInvoice, time.Now())
			if err != nil {
				return err
			}

			inv, err := trade.NewSalesInvoice(tenantID, number, req.WarehouseID)
			if err != nil {
				return err
			}
			inv.SetCreatedBy(actorID)
			inv.SetCustomer(req.CustomerID, req.CustomerName)
			if req.Notes != "" {
				inv.SetNotes(req.Notes)
			}

			for _, line := range req.Items {
				product := products[line.ProductID]
				unitPrice := product.GetPriceMoney()
				if line.UnitPrice != nil {
					unitPrice = valueobject.NewMoneyUSD(*line.UnitPrice)
				}
				if _, err := inv.AddItem(product.ID, product.Name, product.Code, line.Quantity, unitPrice, line.DiscountPercent, product.TaxRate); err != nil {
					return err
				}
			}
			if !req.Discount.IsZero() {
				if err := inv.ApplyDiscount(req.Discount); err != nil {
					return err
				}
			}

			for _, item := range inv.Items {
				if _, err := repos.Stock().GetOrCreate(ctx, tenantID, inv.WarehouseID, item.ProductID); err != nil {
					return err
				}
				after, err := repos.Stock().AdjustQuantity(ctx, tenantID, inv.WarehouseID, item.ProductID, item.Quantity.Neg())
				if err != nil {
					return err
				}
				movement, err := inventory.NewStockMovement(tenantID, inv.WarehouseID, item.ProductID,
					inventory.MovementTypeSale, item.Quantity.Neg(), after)
				if err != nil {
					return err
				}
				movement.WithDocument(inv.ID, inv.Number).WithActor(actorID)
				if err := repos.Movements().Save(ctx, movement); err != nil {
					return err
				}
			}

			if err := repos.SalesInvoices().Save(ctx, inv); err != nil {
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
		telemetry.RecordError(span, err)
		return nil, err
	}
	telemetry.SetAttribute(span, telemetry.SpanAttrDocumentNumber, invoice.Number)

	publishAndClear(ctx, s.eventPublisher, invoice)
	s.rememberCreation(ctx, tenantID, req.IdempotencyKey, invoice.ID)

	resp := ToSalesInvoiceResponse(invoice)
	return &resp, nil
}

// MarkPaid settles a pending invoice with the given payment method. The paid
// event is written to the outbox in the same transaction so the receipt
// notification survives a crash after commit.
func (s *SalesInvoiceService) MarkPaid(ctx context.Context, tenantID, invoiceID, actorID uuid.UUID, req PaySalesInvoiceRequest) (*SalesInvoiceResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "sales_invoice", "mark_paid",
		telemetry.WithAttribute(telemetry.SpanAttrDocumentID, invoiceID),
		telemetry.WithAttribute(telemetry.SpanAttrPaymentMethod, req.PaymentMethod),
	)
	defer span.End()

	method := trade.PaymentMethod(req.PaymentMethod)

	var invoice *trade.SalesInvoice
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		inv, err := repos.SalesInvoices().FindByIDForTenant(ctx, tenantID, invoiceID)
		if err != nil {
			return err
		}
		if err := inv.MarkPaid(method); err != nil {
			return err
		}

		if err := saveEventsToOutbox(ctx, repos.Outbox(), tenantID, inv.GetDomainEvents()); err != nil {
			return err
		}
		if err := repos.SalesInvoices().SaveWithLock(ctx, inv); err != nil {
			return err
		}
		invoice = inv
		return nil
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	telemetry.SetOK(span)

	publishAndClear(ctx, s.eventPublisher, invoice)

	resp := ToSalesInvoiceResponse(invoice)
	return &resp, nil
}

// Cancel voids a pending invoice and restores the deducted stock in the
// same transaction.
func (s *SalesInvoiceService) Cancel(ctx context.Context, tenantID, invoiceID, actorID uuid.UUID, reason string) (*SalesInvoiceResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "sales_invoice", "cancel",
		telemetry.WithAttribute(telemetry.SpanAttrDocumentID, invoiceID),
	)
	defer span.End()

	var invoice *trade.SalesInvoice
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		inv, err := repos.SalesInvoices().FindByIDForTenant(ctx, tenantID, invoiceID)
		if err != nil {
			return err
		}
		if err := inv.Cancel(reason); err != nil {
			return err
		}

		for _, item := range inv.Items {
			after, err := repos.Stock().AdjustQuantity(ctx, tenantID, inv.WarehouseID, item.ProductID, item.Quantity)
			if err != nil {
				return err
			}
			movement, err := inventory.NewStockMovement(tenantID, inv.WarehouseID, item.ProductID,
				inventory.MovementTypeSaleReversal, item.Quantity, after)
			if err != nil {
				return err
			}
			movement.WithDocument(inv.ID, inv.Number).WithActor(actorID)
			if err := repos.Movements().Save(ctx, movement); err != nil {
				return err
			}
		}

		if err := repos.SalesInvoices().SaveWithLock(ctx, inv); err != nil {
			return err
		}
		invoice = inv
		return nil
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	telemetry.SetOK(span)

	publishAndClear(ctx, s.eventPublisher, invoice)

	resp := ToSalesInvoiceResponse(invoice)
	return &resp, nil
}

// Delete removes a cancelled invoice and its line items. Paid and pending
// invoices are not deletable: pending documents are still live and paid ones
// are the audit record of a stock movement.
func (s *SalesInvoiceService) Delete(ctx context.Context, tenantID, invoiceID uuid.UUID) error {
	return s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		inv, err := repos.SalesInvoices().FindByIDForTenant(ctx, tenantID, invoiceID)
		if err != nil {
			return err
		}
		if !inv.IsCancelled() {
			return shared.NewDomainError("INVALID_STATE", "Only cancelled invoices can be deleted")
		}
		return repos.SalesInvoices().DeleteForTenant(ctx, tenantID, invoiceID)
	})
}

// GetByID retrieves a sales invoice by ID
func (s *SalesInvoiceService) GetByID(ctx context.Context, tenantID, invoiceID uuid.UUID) (*SalesInvoiceResponse, error) {
	invoice, err := s.invoiceRepo.FindByIDForTenant(ctx, tenantID, invoiceID)
	if err != nil {
		return nil, err
	}
	resp := ToSalesInvoiceResponse(invoice)
	return &resp, nil
}

// GetByNumber retrieves a sales invoice by its document number
func (s *SalesInvoiceService) GetByNumber(ctx context.Context, tenantID uuid.UUID, number string) (*SalesInvoiceResponse, error) {
	invoice, err := s.invoiceRepo.FindByNumberForTenant(ctx, tenantID, number)
	if err != nil {
		return nil, err
	}
	resp := ToSalesInvoiceResponse(invoice)
	return &resp, nil
}

// List retrieves sales invoices with pagination
func (s *SalesInvoiceService) List(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (*shared.Paginated[SalesInvoiceResponse], error) {
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

	responses := make([]SalesInvoiceResponse, 0, len(invoices))
	for idx := range invoices {
		responses = append(responses, ToSalesInvoiceResponse(&invoices[idx]))
	}

	result := shared.NewPaginated(responses, total, filter.Page, filter.PageSize)
	return &result, nil
}

// recallCreation returns the previously created invoice when the idempotency
// key has been seen before.
func (s *SalesInvoiceService) recallCreation(ctx context.Context, tenantID uuid.UUID, key string) (*SalesInvoiceResponse, error) {
	if key == "" || s.idempotency == nil || !s.idempotencyCfg.Enabled {
		return nil, nil
	}
	value, err := s.idempotency.Recall(ctx, creationKey(trade.DocumentTypeSalesInvoice, tenantID, key))
	if err != nil || value == "" {
		return nil, nil // a broken idempotency store never blocks the sale
	}
	invoiceID, err := uuid.Parse(value)
	if err != nil {
		return nil, nil
	}
	return s.GetByID(ctx, tenantID, invoiceID)
}

func (s *SalesInvoiceService) rememberCreation(ctx context.Context, tenantID uuid.UUID, key string, invoiceID uuid.UUID) {
	if key == "" || s.idempotency == nil || !s.idempotencyCfg.Enabled {
		return
	}
	_ = s.idempotency.Remember(ctx, creationKey(trade.DocumentTypeSalesInvoice, tenantID, key), invoiceID.String(), s.idempotencyCfg.TTL)
}

// loadProducts fetches the referenced products and refuses missing or
// inactive ones.
func (s *SalesInvoiceService) loadProducts(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) (map[uuid.UUID]*catalog.Product, error) {
	return loadActiveProducts(ctx, s.productRepo, tenantID, ids)
}

func productIDsOfSale(items []CreateSalesInvoiceItemRequest) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ProductID)
	}
	return ids
}

// creationKey namespaces an idempotency key by tenant and document type
func creationKey(docType trade.DocumentType, tenantID uuid.UUID, key string) string {
	return "doc:" + string(docType) + ":" + tenantID.String() + ":" + key
}

// loadActiveProducts fetches products by ID and verifies every referenced
// product exists and is active.
func loadActiveProducts(ctx context.Context, repo catalog.ProductRepository, tenantID uuid.UUID, ids []uuid.UUID) (map[uuid.UUID]*catalog.Product, error) {
	products, err := repo.FindByIDsForTenant(ctx, tenantID, ids)
	if err != nil {
		return nil, err
	}

	byID := make(map[uuid.UUID]*catalog.Product, len(products))
	for idx := range products {
		byID[products[idx].ID] = &products[idx]
	}

	for _, id := range ids {
		product, ok := byID[id]
		if !ok {
			return nil, shared.NewDomainError("PRODUCT_NOT_FOUND", "Product "+id.String()+" not found")
		}
		if !product.IsActive() {
			return nil, shared.NewDomainError("PRODUCT_INACTIVE", "Product "+product.Code+" is inactive")
		}
	}
	return byID, nil
}

// saveEventsToOutbox serializes domain events and writes them to the outbox
// within the current transaction.
func saveEventsToOutbox(ctx context.Context, outbox shared.OutboxRepository, tenantID uuid.UUID, events []shared.DomainEvent) error {
	if len(events) == 0 {
		return nil
	}
	entries := make([]*shared.OutboxEntry, 0, len(events))
	for _, event := range events {
		payload, err := json.Marshal(event)
		if err != nil {
			return err
		}
		entries = append(entries, shared.NewOutboxEntry(tenantID, event, payload))
	}
	return outbox.Save(ctx, entries...)
}

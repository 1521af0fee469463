package inventory

import (
	"context"
	"errors"

	appTrade "github.com/bizledger/backend/internal/application/trade"
	"github.com/bizledger/backend/internal/domain/catalog"
	"github.com/bizledger/backend/internal/domain/inventory"
	"github.com/bizledger/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InventoryService handles stock queries, manual adjustments, the movement
// ledger, and the release of quarantined return lots
type InventoryService struct {
	scope          appTrade.TransactionScope
	stockRepo      inventory.StockItemRepository
	movementRepo   inventory.StockMovementRepository
	lotRepo        inventory.InspectionLotRepository
	productRepo    catalog.ProductRepository
	eventPublisher shared.EventPublisher
}

// NewInventoryService creates a new inventory service
func NewInventoryService(
	scope appTrade.TransactionScope,
	stockRepo inventory.StockItemRepository,
	movementRepo inventory.StockMovementRepository,
	lotRepo inventory.InspectionLotRepository,
	productRepo catalog.ProductRepository,
) *InventoryService {
	return &InventoryService{
		scope:        scope,
		stockRepo:    stockRepo,
		movementRepo: movementRepo,
		lotRepo:      lotRepo,
		productRepo:  productRepo,
	}
}

// SetEventPublisher sets the event publisher for domain events
func (s *InventoryService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Adjust applies a manual signed correction to the on-hand quantity and
// writes a matching ADJUSTMENT ledger entry in the same transaction.
// A negative delta larger than the on-hand quantity is refused.
func (s *InventoryService) Adjust(ctx context.Context, tenantID, actorID uuid.UUID, req AdjustStockRequest) (*StockMovementResponse, error) {
	if req.Delta.IsZero() {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Adjustment delta cannot be zero")
	}

	product, err := s.productRepo.FindByIDForTenant(ctx, tenantID, req.ProductID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("PRODUCT_NOT_FOUND", "Product does not exist")
		}
		return nil, err
	}

	var movement *inventory.StockMovement
	err = s.scope.Execute(ctx, func(repos appTrade.TransactionalRepositories) error {
		if _, err := repos.Stock().GetOrCreate(ctx, tenantID, req.WarehouseID, req.ProductID); err != nil {
			return err
		}
		after, err := repos.Stock().AdjustQuantity(ctx, tenantID, req.WarehouseID, req.ProductID, req.Delta)
		if err != nil {
			return err
		}

		movement, err = inventory.NewStockMovement(tenantID, req.WarehouseID, req.ProductID,
			inventory.MovementTypeAdjustment, req.Delta, after)
		if err != nil {
			return err
		}
		movement.WithActor(actorID).WithNotes(req.Notes)

		return repos.Movements().Save(ctx, movement)
	})
	if err != nil {
		return nil, err
	}

	s.publishStockEvents(ctx, tenantID, movement, product)

	resp := ToStockMovementResponse(movement)
	return &resp, nil
}

// GetStock returns the on-hand quantity for one product in one warehouse.
// A product with no stock record is reported as zero on hand.
func (s *InventoryService) GetStock(ctx context.Context, tenantID, warehouseID, productID uuid.UUID) (*StockItemResponse, error) {
	item, err := s.stockRepo.Find(ctx, tenantID, warehouseID, productID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return &StockItemResponse{
				WarehouseID: warehouseID,
				ProductID:   productID,
				Quantity:    decimal.Zero,
			}, nil
		}
		return nil, err
	}

	resp := ToStockItemResponse(item)
	return &resp, nil
}

// ListStockByWarehouse lists stock records for one warehouse
func (s *InventoryService) ListStockByWarehouse(ctx context.Context, tenantID, warehouseID uuid.UUID, filter shared.Filter) ([]StockItemResponse, error) {
	items, err := s.stockRepo.FindByWarehouse(ctx, tenantID, warehouseID, normalizeFilter(filter))
	if err != nil {
		return nil, err
	}

	responses := make([]StockItemResponse, len(items))
	for i := range items {
		responses[i] = ToStockItemResponse(&items[i])
	}
	return responses, nil
}

// ListStockByProduct lists stock records for one product across warehouses
func (s *InventoryService) ListStockByProduct(ctx context.Context, tenantID, productID uuid.UUID) ([]StockItemResponse, error) {
	items, err := s.stockRepo.FindByProduct(ctx, tenantID, productID)
	if err != nil {
		return nil, err
	}

	responses := make([]StockItemResponse, len(items))
	for i := range items {
		responses[i] = ToStockItemResponse(&items[i])
	}
	return responses, nil
}

// ListMovements lists ledger entries for one product in one warehouse,
// newest first
func (s *InventoryService) ListMovements(ctx context.Context, tenantID, warehouseID, productID uuid.UUID, filter shared.Filter) ([]StockMovementResponse, error) {
	movements, err := s.movementRepo.FindForProduct(ctx, tenantID, warehouseID, productID, normalizeFilter(filter))
	if err != nil {
		return nil, err
	}

	responses := make([]StockMovementResponse, len(movements))
	for i := range movements {
		responses[i] = ToStockMovementResponse(&movements[i])
	}
	return responses, nil
}

// ListMovementsForDocument lists the ledger entries one document produced
func (s *InventoryService) ListMovementsForDocument(ctx context.Context, tenantID, documentID uuid.UUID) ([]StockMovementResponse, error) {
	movements, err := s.movementRepo.FindForDocument(ctx, tenantID, documentID)
	if err != nil {
		return nil, err
	}

	responses := make([]StockMovementResponse, len(movements))
	for i := range movements {
		responses[i] = ToStockMovementResponse(&movements[i])
	}
	return responses, nil
}

// LowStockReport lists products in one warehouse whose on-hand quantity has
// dropped below their minimum stock level. Products with a zero threshold
// never appear.
func (s *InventoryService) LowStockReport(ctx context.Context, tenantID, warehouseID uuid.UUID, filter shared.Filter) ([]LowStockItemResponse, error) {
	items, err := s.stockRepo.FindByWarehouse(ctx, tenantID, warehouseID, normalizeFilter(filter))
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return []LowStockItemResponse{}, nil
	}

	productIDs := make([]uuid.UUID, len(items))
	for i := range items {
		productIDs[i] = items[i].ProductID
	}
	products, err := s.productRepo.FindByIDsForTenant(ctx, tenantID, productIDs)
	if err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]*catalog.Product, len(products))
	for i := range products {
		byID[products[i].ID] = &products[i]
	}

	report := make([]LowStockItemResponse, 0)
	for i := range items {
		product, ok := byID[items[i].ProductID]
		if !ok || !items[i].IsBelowMin(product.MinStock) {
			continue
		}
		report = append(report, LowStockItemResponse{
			WarehouseID: items[i].WarehouseID,
			ProductID:   items[i].ProductID,
			ProductCode: product.Code,
			ProductName: product.Name,
			Quantity:    items[i].Quantity,
			MinStock:    product.MinStock,
			Shortfall:   product.MinStock.Sub(items[i].Quantity),
		})
	}
	return report, nil
}

// ListPendingLots lists lots awaiting inspection
func (s *InventoryService) ListPendingLots(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]InspectionLotResponse, error) {
	lots, err := s.lotRepo.FindPendingForTenant(ctx, tenantID, normalizeFilter(filter))
	if err != nil {
		return nil, err
	}

	responses := make([]InspectionLotResponse, len(lots))
	for i := range lots {
		responses[i] = ToInspectionLotResponse(&lots[i])
	}
	return responses, nil
}

// GetLot returns one inspection lot
func (s *InventoryService) GetLot(ctx context.Context, tenantID, lotID uuid.UUID) (*InspectionLotResponse, error) {
	lot, err := s.lotRepo.FindByIDForTenant(ctx, tenantID, lotID)
	if err != nil {
		return nil, err
	}

	resp := ToInspectionLotResponse(lot)
	return &resp, nil
}

// ReleaseLot resolves a quarantined return lot after physical inspection.
// RESTOCK credits the lot quantity back into sellable stock with a
// RETURN_RESTOCK ledger entry; WRITE_OFF discards the units. Both paths
// close the lot in the same transaction.
func (s *InventoryService) ReleaseLot(ctx context.Context, tenantID, lotID, actorID uuid.UUID, req ReleaseLotRequest) (*InspectionLotResponse, error) {
	if req.Outcome != LotOutcomeRestock && req.Outcome != LotOutcomeWriteOff {
		return nil, shared.NewDomainError("INVALID_OUTCOME", "Outcome must be RESTOCK or WRITE_OFF")
	}

	var lot *inventory.InspectionLot
	var movement *inventory.StockMovement
	err := s.scope.Execute(ctx, func(repos appTrade.TransactionalRepositories) error {
		var err error
		lot, err = repos.InspectionLots().FindByIDForTenant(ctx, tenantID, lotID)
		if err != nil {
			return err
		}

		switch req.Outcome {
		case LotOutcomeRestock:
			if err := lot.Restock(actorID); err != nil {
				return err
			}
			if _, err := repos.Stock().GetOrCreate(ctx, tenantID, lot.WarehouseID, lot.ProductID); err != nil {
				return err
			}
			after, err := repos.Stock().AdjustQuantity(ctx, tenantID, lot.WarehouseID, lot.ProductID, lot.Quantity)
			if err != nil {
				return err
			}
			movement, err = inventory.NewStockMovement(tenantID, lot.WarehouseID, lot.ProductID,
				inventory.MovementTypeReturnRestock, lot.Quantity, after)
			if err != nil {
				return err
			}
			movement.WithDocument(lot.ReturnID, lot.ReturnNumber).WithActor(actorID).WithNotes(req.Notes)
			if err := repos.Movements().Save(ctx, movement); err != nil {
				return err
			}
		case LotOutcomeWriteOff:
			if err := lot.WriteOff(actorID, req.Notes); err != nil {
				return err
			}
		}

		return repos.InspectionLots().SaveWithLock(ctx, lot)
	})
	if err != nil {
		return nil, err
	}

	if s.eventPublisher != nil {
		for _, event := range lot.GetDomainEvents() {
			_ = s.eventPublisher.Publish(ctx, event)
		}
	}
	lot.ClearDomainEvents()
	if movement != nil && s.eventPublisher != nil {
		_ = s.eventPublisher.Publish(ctx, inventory.NewStockAdjustedEvent(tenantID, movement))
	}

	resp := ToInspectionLotResponse(lot)
	return &resp, nil
}

// publishStockEvents emits the adjustment event and, when the quantity has
// dropped below the product's threshold, a low-stock alert. Publishing is
// best-effort after the transaction committed.
func (s *InventoryService) publishStockEvents(ctx context.Context, tenantID uuid.UUID, movement *inventory.StockMovement, product *catalog.Product) {
	if s.eventPublisher == nil {
		return
	}

	_ = s.eventPublisher.Publish(ctx, inventory.NewStockAdjustedEvent(tenantID, movement))

	if product.MinStock.IsPositive() && movement.QuantityAfter.LessThan(product.MinStock) {
		_ = s.eventPublisher.Publish(ctx, inventory.NewLowStockEvent(
			tenantID, movement.WarehouseID, movement.ProductID, movement.QuantityAfter, product.MinStock))
	}
}

func normalizeFilter(filter shared.Filter) shared.Filter {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 20
	}
	if filter.PageSize > 100 {
		filter.PageSize = 100
	}
	return filter
}

package inventory

import (
	"context"
	"sync"

	appTrade "github.com/bizledger/backend/internal/application/trade"
	"github.com/bizledger/backend/internal/domain/catalog"
	"github.com/bizledger/backend/internal/domain/inventory"
	"github.com/bizledger/backend/internal/domain/shared"
	"github.com/bizledger/backend/internal/domain/trade"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// capturePublisher records every published event for assertions
type capturePublisher struct {
	mu     sync.Mutex
	events []shared.DomainEvent
}

func (p *capturePublisher) Publish(_ context.Context, events ...shared.DomainEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, events...)
	return nil
}

func (p *capturePublisher) eventTypes() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	types := make([]string, len(p.events))
	for i, e := range p.events {
		types[i] = e.EventType()
	}
	return types
}

type stockKey struct {
	tenantID    uuid.UUID
	warehouseID uuid.UUID
	productID   uuid.UUID
}

type memStockRepo struct {
	items map[stockKey]*inventory.StockItem
}

func newMemStockRepo() *memStockRepo {
	return &memStockRepo{items: make(map[stockKey]*inventory.StockItem)}
}

func (r *memStockRepo) seed(tenantID, warehouseID, productID uuid.UUID, quantity decimal.Decimal) {
	item, _ := inventory.NewStockItem(tenantID, warehouseID, productID)
	item.Quantity = quantity
	r.items[stockKey{tenantID, warehouseID, productID}] = item
}

func (r *memStockRepo) quantity(tenantID, warehouseID, productID uuid.UUID) decimal.Decimal {
	if item, ok := r.items[stockKey{tenantID, warehouseID, productID}]; ok {
		return item.Quantity
	}
	return decimal.Zero
}

func (r *memStockRepo) GetOrCreate(_ context.Context, tenantID, warehouseID, productID uuid.UUID) (*inventory.StockItem, error) {
	key := stockKey{tenantID, warehouseID, productID}
	if item, ok := r.items[key]; ok {
		return item, nil
	}
	item, err := inventory.NewStockItem(tenantID, warehouseID, productID)
	if err != nil {
		return nil, err
	}
	r.items[key] = item
	return item, nil
}

func (r *memStockRepo) Find(_ context.Context, tenantID, warehouseID, productID uuid.UUID) (*inventory.StockItem, error) {
	if item, ok := r.items[stockKey{tenantID, warehouseID, productID}]; ok {
		return item, nil
	}
	return nil, shared.ErrNotFound
}

func (r *memStockRepo) FindByWarehouse(_ context.Context, tenantID, warehouseID uuid.UUID, _ shared.Filter) ([]inventory.StockItem, error) {
	var items []inventory.StockItem
	for key, item := range r.items {
		if key.tenantID == tenantID && key.warehouseID == warehouseID {
			items = append(items, *item)
		}
	}
	return items, nil
}

func (r *memStockRepo) FindByProduct(_ context.Context, tenantID, productID uuid.UUID) ([]inventory.StockItem, error) {
	var items []inventory.StockItem
	for key, item := range r.items {
		if key.tenantID == tenantID && key.productID == productID {
			items = append(items, *item)
		}
	}
	return items, nil
}

func (r *memStockRepo) AdjustQuantity(_ context.Context, tenantID, warehouseID, productID uuid.UUID, delta decimal.Decimal) (decimal.Decimal, error) {
	item, ok := r.items[stockKey{tenantID, warehouseID, productID}]
	if !ok {
		return decimal.Zero, shared.ErrNotFound
	}
	if err := item.ApplyDelta(delta); err != nil {
		return decimal.Zero, err
	}
	return item.Quantity, nil
}

func (r *memStockRepo) CountForTenant(_ context.Context, tenantID uuid.UUID, _ shared.Filter) (int64, error) {
	var count int64
	for key := range r.items {
		if key.tenantID == tenantID {
			count++
		}
	}
	return count, nil
}

type memMovementRepo struct {
	movements []*inventory.StockMovement
}

func (r *memMovementRepo) Save(_ context.Context, movements ...*inventory.StockMovement) error {
	r.movements = append(r.movements, movements...)
	return nil
}

func (r *memMovementRepo) FindForProduct(_ context.Context, tenantID, warehouseID, productID uuid.UUID, _ shared.Filter) ([]inventory.StockMovement, error) {
	var result []inventory.StockMovement
	for i := len(r.movements) - 1; i >= 0; i-- {
		m := r.movements[i]
		if m.TenantID == tenantID && m.WarehouseID == warehouseID && m.ProductID == productID {
			result = append(result, *m)
		}
	}
	return result, nil
}

func (r *memMovementRepo) FindForDocument(_ context.Context, tenantID, documentID uuid.UUID) ([]inventory.StockMovement, error) {
	var result []inventory.StockMovement
	for _, m := range r.movements {
		if m.TenantID == tenantID && m.DocumentID != nil && *m.DocumentID == documentID {
			result = append(result, *m)
		}
	}
	return result, nil
}

func (r *memMovementRepo) CountForTenant(_ context.Context, tenantID uuid.UUID, _ shared.Filter) (int64, error) {
	var count int64
	for _, m := range r.movements {
		if m.TenantID == tenantID {
			count++
		}
	}
	return count, nil
}

type memLotRepo struct {
	lots map[uuid.UUID]*inventory.InspectionLot
}

func newMemLotRepo() *memLotRepo {
	return &memLotRepo{lots: make(map[uuid.UUID]*inventory.InspectionLot)}
}

func (r *memLotRepo) Save(_ context.Context, lots ...*inventory.InspectionLot) error {
	for _, lot := range lots {
		r.lots[lot.ID] = lot
	}
	return nil
}

func (r *memLotRepo) FindByIDForTenant(_ context.Context, tenantID, id uuid.UUID) (*inventory.InspectionLot, error) {
	lot, ok := r.lots[id]
	if !ok || lot.TenantID != tenantID {
		return nil, shared.ErrNotFound
	}
	clone := *lot
	return &clone, nil
}

func (r *memLotRepo) FindPendingForTenant(_ context.Context, tenantID uuid.UUID, _ shared.Filter) ([]inventory.InspectionLot, error) {
	var result []inventory.InspectionLot
	for _, lot := range r.lots {
		if lot.TenantID == tenantID && lot.IsPending() {
			result = append(result, *lot)
		}
	}
	return result, nil
}

func (r *memLotRepo) FindByReturnForTenant(_ context.Context, tenantID, returnID uuid.UUID) ([]inventory.InspectionLot, error) {
	var result []inventory.InspectionLot
	for _, lot := range r.lots {
		if lot.TenantID == tenantID && lot.ReturnID == returnID {
			result = append(result, *lot)
		}
	}
	return result, nil
}

func (r *memLotRepo) SaveWithLock(ctx context.Context, lot *inventory.InspectionLot) error {
	return r.Save(ctx, lot)
}

type memProductRepo struct {
	products map[uuid.UUID]*catalog.Product
}

func newMemProductRepo() *memProductRepo {
	return &memProductRepo{products: make(map[uuid.UUID]*catalog.Product)}
}

func (r *memProductRepo) add(product *catalog.Product) {
	r.products[product.ID] = product
}

func (r *memProductRepo) FindByID(_ context.Context, id uuid.UUID) (*catalog.Product, error) {
	if product, ok := r.products[id]; ok {
		return product, nil
	}
	return nil, shared.ErrNotFound
}

func (r *memProductRepo) FindByIDForTenant(_ context.Context, tenantID, id uuid.UUID) (*catalog.Product, error) {
	product, ok := r.products[id]
	if !ok || product.TenantID != tenantID {
		return nil, shared.ErrNotFound
	}
	return product, nil
}

func (r *memProductRepo) FindAll(_ context.Context, _ shared.Filter) ([]catalog.Product, error) {
	var result []catalog.Product
	for _, product := range r.products {
		result = append(result, *product)
	}
	return result, nil
}

func (r *memProductRepo) FindAllForTenant(_ context.Context, tenantID uuid.UUID, _ shared.Filter) ([]catalog.Product, error) {
	var result []catalog.Product
	for _, product := range r.products {
		if product.TenantID == tenantID {
			result = append(result, *product)
		}
	}
	return result, nil
}

func (r *memProductRepo) FindByCodeForTenant(_ context.Context, tenantID uuid.UUID, code string) (*catalog.Product, error) {
	for _, product := range r.products {
		if product.TenantID == tenantID && product.Code == code {
			return product, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memProductRepo) FindByIDsForTenant(_ context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]catalog.Product, error) {
	var result []catalog.Product
	for _, id := range ids {
		if product, ok := r.products[id]; ok && product.TenantID == tenantID {
			result = append(result, *product)
		}
	}
	return result, nil
}

func (r *memProductRepo) Save(_ context.Context, product *catalog.Product) error {
	r.products[product.ID] = product
	return nil
}

func (r *memProductRepo) SaveWithLock(ctx context.Context, product *catalog.Product) error {
	return r.Save(ctx, product)
}

func (r *memProductRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.products, id)
	return nil
}

func (r *memProductRepo) DeleteForTenant(_ context.Context, _ uuid.UUID, id uuid.UUID) error {
	delete(r.products, id)
	return nil
}

func (r *memProductRepo) Count(_ context.Context, _ shared.Filter) (int64, error) {
	return int64(len(r.products)), nil
}

func (r *memProductRepo) CountForTenant(_ context.Context, tenantID uuid.UUID, _ shared.Filter) (int64, error) {
	var count int64
	for _, product := range r.products {
		if product.TenantID == tenantID {
			count++
		}
	}
	return count, nil
}

// testScope exposes only the repositories the inventory workflows touch
type testScope struct {
	stockRepo    *memStockRepo
	movementRepo *memMovementRepo
	lotRepo      *memLotRepo
}

func (s *testScope) Execute(_ context.Context, fn func(repos appTrade.TransactionalRepositories) error) error {
	return fn(s)
}

func (s *testScope) SalesInvoices() trade.SalesInvoiceRepository       { return nil }
func (s *testScope) PurchaseInvoices() trade.PurchaseInvoiceRepository { return nil }
func (s *testScope) Returns() trade.ReturnRepository                   { return nil }
func (s *testScope) Transfers() trade.TransferRepository               { return nil }
func (s *testScope) Sequences() trade.SequenceRepository               { return nil }
func (s *testScope) Stock() inventory.StockItemRepository              { return s.stockRepo }
func (s *testScope) Movements() inventory.StockMovementRepository      { return s.movementRepo }
func (s *testScope) InspectionLots() inventory.InspectionLotRepository { return s.lotRepo }
func (s *testScope) Outbox() shared.OutboxRepository                   { return nil }

var _ appTrade.TransactionScope = (*testScope)(nil)

type testEnv struct {
	scope        *testScope
	stockRepo    *memStockRepo
	movementRepo *memMovementRepo
	lotRepo      *memLotRepo
	productRepo  *memProductRepo
}

func newTestEnv() *testEnv {
	stockRepo := newMemStockRepo()
	movementRepo := &memMovementRepo{}
	lotRepo := newMemLotRepo()
	return &testEnv{
		scope:        &testScope{stockRepo: stockRepo, movementRepo: movementRepo, lotRepo: lotRepo},
		stockRepo:    stockRepo,
		movementRepo: movementRepo,
		lotRepo:      lotRepo,
		productRepo:  newMemProductRepo(),
	}
}

func (e *testEnv) newService() *InventoryService {
	return NewInventoryService(e.scope, e.stockRepo, e.movementRepo, e.lotRepo, e.productRepo)
}

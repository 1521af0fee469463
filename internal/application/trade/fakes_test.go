package trade

import (
	"context"
	"sync"
	"time"

	"github.com/bizledger/backend/internal/domain/catalog"
	"github.com/bizledger/backend/internal/domain/inventory"
	"github.com/bizledger/backend/internal/domain/org"
	"github.com/bizledger/backend/internal/domain/shared"
	"github.com/bizledger/backend/internal/domain/trade"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// MockEventPublisher is a mock implementation of shared.EventPublisher
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	args := m.Called(ctx, events)
	return args.Error(0)
}

// ---------------------------------------------------------------------------
// In-memory repositories. The document workflows run several repositories
// inside one transaction scope, so stateful fakes give the tests real stock
// math and number allocation instead of canned answers.
// ---------------------------------------------------------------------------

type memSequenceRepo struct {
	mu     sync.Mutex
	values map[string]int64
}

func newMemSequenceRepo() *memSequenceRepo {
	return &memSequenceRepo{values: make(map[string]int64)}
}

func (r *memSequenceRepo) NextValue(_ context.Context, tenantID uuid.UUID, docType trade.DocumentType, day string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := tenantID.String() + "/" + string(docType) + "/" + day
	r.values[key]++
	return r.values[key], nil
}

type stockKey struct {
	tenantID    uuid.UUID
	warehouseID uuid.UUID
	productID   uuid.UUID
}

type memStockRepo struct {
	mu    sync.Mutex
	items map[stockKey]*inventory.StockItem
}

func newMemStockRepo() *memStockRepo {
	return &memStockRepo{items: make(map[stockKey]*inventory.StockItem)}
}

func (r *memStockRepo) seed(tenantID, warehouseID, productID uuid.UUID, quantity decimal.Decimal) {
	item, _ := inventory.NewStockItem(tenantID, warehouseID, productID)
	_ = item.ApplyDelta(quantity)
	r.items[stockKey{tenantID, warehouseID, productID}] = item
}

func (r *memStockRepo) quantity(tenantID, warehouseID, productID uuid.UUID) decimal.Decimal {
	r.mu.Lock()
	defer r.mu.Unlock()
	if item, ok := r.items[stockKey{tenantID, warehouseID, productID}]; ok {
		return item.Quantity
	}
	return decimal.Zero
}

func (r *memStockRepo) GetOrCreate(_ context.Context, tenantID, warehouseID, productID uuid.UUID) (*inventory.StockItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
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
	r.mu.Lock()
	defer r.mu.Unlock()
	if item, ok := r.items[stockKey{tenantID, warehouseID, productID}]; ok {
		return item, nil
	}
	return nil, shared.ErrNotFound
}

func (r *memStockRepo) FindByWarehouse(_ context.Context, tenantID, warehouseID uuid.UUID, _ shared.Filter) ([]inventory.StockItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var items []inventory.StockItem
	for key, item := range r.items {
		if key.tenantID == tenantID && key.warehouseID == warehouseID {
			items = append(items, *item)
		}
	}
	return items, nil
}

func (r *memStockRepo) FindByProduct(_ context.Context, tenantID, productID uuid.UUID) ([]inventory.StockItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var items []inventory.StockItem
	for key, item := range r.items {
		if key.tenantID == tenantID && key.productID == productID {
			items = append(items, *item)
		}
	}
	return items, nil
}

func (r *memStockRepo) AdjustQuantity(_ context.Context, tenantID, warehouseID, productID uuid.UUID, delta decimal.Decimal) (decimal.Decimal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
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
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for key := range r.items {
		if key.tenantID == tenantID {
			count++
		}
	}
	return count, nil
}

type memMovementRepo struct {
	mu        sync.Mutex
	movements []*inventory.StockMovement
}

func newMemMovementRepo() *memMovementRepo {
	return &memMovementRepo{}
}

func (r *memMovementRepo) Save(_ context.Context, movements ...*inventory.StockMovement) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.movements = append(r.movements, movements...)
	return nil
}

func (r *memMovementRepo) FindForProduct(_ context.Context, tenantID, warehouseID, productID uuid.UUID, _ shared.Filter) ([]inventory.StockMovement, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []inventory.StockMovement
	for _, m := range r.movements {
		if m.TenantID == tenantID && m.WarehouseID == warehouseID && m.ProductID == productID {
			out = append(out, *m)
		}
	}
	return out, nil
}

func (r *memMovementRepo) FindForDocument(_ context.Context, tenantID, documentID uuid.UUID) ([]inventory.StockMovement, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []inventory.StockMovement
	for _, m := range r.movements {
		if m.TenantID == tenantID && m.DocumentID != nil && *m.DocumentID == documentID {
			out = append(out, *m)
		}
	}
	return out, nil
}

func (r *memMovementRepo) CountForTenant(_ context.Context, tenantID uuid.UUID, _ shared.Filter) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for _, m := range r.movements {
		if m.TenantID == tenantID {
			count++
		}
	}
	return count, nil
}

type memLotRepo struct {
	mu   sync.Mutex
	lots map[uuid.UUID]*inventory.InspectionLot
}

func newMemLotRepo() *memLotRepo {
	return &memLotRepo{lots: make(map[uuid.UUID]*inventory.InspectionLot)}
}

func (r *memLotRepo) Save(_ context.Context, lots ...*inventory.InspectionLot) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, lot := range lots {
		r.lots[lot.ID] = lot
	}
	return nil
}

func (r *memLotRepo) FindByIDForTenant(_ context.Context, tenantID, id uuid.UUID) (*inventory.InspectionLot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if lot, ok := r.lots[id]; ok && lot.TenantID == tenantID {
		return lot, nil
	}
	return nil, shared.ErrNotFound
}

func (r *memLotRepo) FindPendingForTenant(_ context.Context, tenantID uuid.UUID, _ shared.Filter) ([]inventory.InspectionLot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []inventory.InspectionLot
	for _, lot := range r.lots {
		if lot.TenantID == tenantID && lot.IsPending() {
			out = append(out, *lot)
		}
	}
	return out, nil
}

func (r *memLotRepo) FindByReturnForTenant(_ context.Context, tenantID, returnID uuid.UUID) ([]inventory.InspectionLot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []inventory.InspectionLot
	for _, lot := range r.lots {
		if lot.TenantID == tenantID && lot.ReturnID == returnID {
			out = append(out, *lot)
		}
	}
	return out, nil
}

func (r *memLotRepo) SaveWithLock(_ context.Context, lot *inventory.InspectionLot) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lots[lot.ID] = lot
	return nil
}

type memOutboxRepo struct {
	mu      sync.Mutex
	entries []*shared.OutboxEntry
}

func newMemOutboxRepo() *memOutboxRepo {
	return &memOutboxRepo{}
}

func (r *memOutboxRepo) Save(_ context.Context, entries ...*shared.OutboxEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, entries...)
	return nil
}

func (r *memOutboxRepo) FindPending(_ context.Context, limit int) ([]*shared.OutboxEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*shared.OutboxEntry
	for _, e := range r.entries {
		if e.Status == shared.OutboxStatusPending && len(out) < limit {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *memOutboxRepo) FindRetryable(_ context.Context, before time.Time, limit int) ([]*shared.OutboxEntry, error) {
	return nil, nil
}

func (r *memOutboxRepo) MarkProcessing(_ context.Context, ids []uuid.UUID) ([]*shared.OutboxEntry, error) {
	return nil, nil
}

func (r *memOutboxRepo) Update(_ context.Context, entry *shared.OutboxEntry) error {
	return nil
}

func (r *memOutboxRepo) DeleteOlderThan(_ context.Context, before time.Time) (int64, error) {
	return 0, nil
}

func (r *memOutboxRepo) FindDead(_ context.Context, page, pageSize int) ([]*shared.OutboxEntry, int64, error) {
	return nil, 0, nil
}

func (r *memOutboxRepo) FindByID(_ context.Context, id uuid.UUID) (*shared.OutboxEntry, error) {
	return nil, nil
}

func (r *memOutboxRepo) CountByStatus(_ context.Context) (map[shared.OutboxStatus]int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	counts := make(map[shared.OutboxStatus]int64)
	for _, e := range r.entries {
		counts[e.Status]++
	}
	return counts, nil
}

// The document fakes hand out clones on reads so a workflow that fails
// halfway never leaks in-memory mutations into "persisted" state.

func cloneSalesInvoice(inv *trade.SalesInvoice) *trade.SalesInvoice {
	c := *inv
	c.Items = append([]trade.SalesInvoiceItem(nil), inv.Items...)
	return &c
}

func clonePurchaseInvoice(inv *trade.PurchaseInvoice) *trade.PurchaseInvoice {
	c := *inv
	c.Items = append([]trade.PurchaseInvoiceItem(nil), inv.Items...)
	return &c
}

func cloneReturn(ret *trade.Return) *trade.Return {
	c := *ret
	c.Items = append([]trade.ReturnItem(nil), ret.Items...)
	return &c
}

func cloneTransfer(t *trade.Transfer) *trade.Transfer {
	c := *t
	c.Items = append([]trade.TransferItem(nil), t.Items...)
	return &c
}

type memSalesInvoiceRepo struct {
	mu       sync.Mutex
	invoices map[uuid.UUID]*trade.SalesInvoice
}

func newMemSalesInvoiceRepo() *memSalesInvoiceRepo {
	return &memSalesInvoiceRepo{invoices: make(map[uuid.UUID]*trade.SalesInvoice)}
}

func (r *memSalesInvoiceRepo) FindByID(_ context.Context, id uuid.UUID) (*trade.SalesInvoice, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if inv, ok := r.invoices[id]; ok {
		return cloneSalesInvoice(inv), nil
	}
	return nil, shared.ErrNotFound
}

func (r *memSalesInvoiceRepo) FindAll(_ context.Context, _ shared.Filter) ([]trade.SalesInvoice, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []trade.SalesInvoice
	for _, inv := range r.invoices {
		out = append(out, *inv)
	}
	return out, nil
}

func (r *memSalesInvoiceRepo) Save(_ context.Context, invoice *trade.SalesInvoice) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.invoices {
		if existing.ID != invoice.ID && existing.TenantID == invoice.TenantID && existing.Number == invoice.Number {
			return shared.ErrDuplicateNumber
		}
	}
	r.invoices[invoice.ID] = invoice
	return nil
}

func (r *memSalesInvoiceRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.invoices, id)
	return nil
}

func (r *memSalesInvoiceRepo) Count(_ context.Context, _ shared.Filter) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.invoices)), nil
}

func (r *memSalesInvoiceRepo) FindByIDForTenant(_ context.Context, tenantID, id uuid.UUID) (*trade.SalesInvoice, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if inv, ok := r.invoices[id]; ok && inv.TenantID == tenantID {
		return cloneSalesInvoice(inv), nil
	}
	return nil, shared.ErrNotFound
}

func (r *memSalesInvoiceRepo) FindAllForTenant(_ context.Context, tenantID uuid.UUID, _ shared.Filter) ([]trade.SalesInvoice, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []trade.SalesInvoice
	for _, inv := range r.invoices {
		if inv.TenantID == tenantID {
			out = append(out, *inv)
		}
	}
	return out, nil
}

func (r *memSalesInvoiceRepo) FindByNumberForTenant(_ context.Context, tenantID uuid.UUID, number string) (*trade.SalesInvoice, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, inv := range r.invoices {
		if inv.TenantID == tenantID && inv.Number == number {
			return cloneSalesInvoice(inv), nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memSalesInvoiceRepo) SaveWithLock(ctx context.Context, invoice *trade.SalesInvoice) error {
	invoice.IncrementVersion()
	return r.Save(ctx, invoice)
}

func (r *memSalesInvoiceRepo) DeleteForTenant(_ context.Context, tenantID, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if doc, ok := r.invoices[id]; !ok || doc.TenantID != tenantID {
		return shared.ErrNotFound
	}
	delete(r.invoices, id)
	return nil
}

func (r *memSalesInvoiceRepo) CountForTenant(_ context.Context, tenantID uuid.UUID, _ shared.Filter) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for _, inv := range r.invoices {
		if inv.TenantID == tenantID {
			count++
		}
	}
	return count, nil
}

type memPurchaseInvoiceRepo struct {
	mu       sync.Mutex
	invoices map[uuid.UUID]*trade.PurchaseInvoice
}

func newMemPurchaseInvoiceRepo() *memPurchaseInvoiceRepo {
	return &memPurchaseInvoiceRepo{invoices: make(map[uuid.UUID]*trade.PurchaseInvoice)}
}

func (r *memPurchaseInvoiceRepo) FindByID(_ context.Context, id uuid.UUID) (*trade.PurchaseInvoice, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if inv, ok := r.invoices[id]; ok {
		return clonePurchaseInvoice(inv), nil
	}
	return nil, shared.ErrNotFound
}

func (r *memPurchaseInvoiceRepo) FindAll(_ context.Context, _ shared.Filter) ([]trade.PurchaseInvoice, error) {
	return nil, nil
}

func (r *memPurchaseInvoiceRepo) Save(_ context.Context, invoice *trade.PurchaseInvoice) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.invoices {
		if existing.ID != invoice.ID && existing.TenantID == invoice.TenantID && existing.Number == invoice.Number {
			return shared.ErrDuplicateNumber
		}
	}
	r.invoices[invoice.ID] = invoice
	return nil
}

func (r *memPurchaseInvoiceRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.invoices, id)
	return nil
}

func (r *memPurchaseInvoiceRepo) Count(_ context.Context, _ shared.Filter) (int64, error) {
	return int64(len(r.invoices)), nil
}

func (r *memPurchaseInvoiceRepo) FindByIDForTenant(_ context.Context, tenantID, id uuid.UUID) (*trade.PurchaseInvoice, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if inv, ok := r.invoices[id]; ok && inv.TenantID == tenantID {
		return clonePurchaseInvoice(inv), nil
	}
	return nil, shared.ErrNotFound
}

func (r *memPurchaseInvoiceRepo) FindAllForTenant(_ context.Context, tenantID uuid.UUID, _ shared.Filter) ([]trade.PurchaseInvoice, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []trade.PurchaseInvoice
	for _, inv := range r.invoices {
		if inv.TenantID == tenantID {
			out = append(out, *inv)
		}
	}
	return out, nil
}

func (r *memPurchaseInvoiceRepo) FindByNumberForTenant(_ context.Context, tenantID uuid.UUID, number string) (*trade.PurchaseInvoice, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, inv := range r.invoices {
		if inv.TenantID == tenantID && inv.Number == number {
			return clonePurchaseInvoice(inv), nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memPurchaseInvoiceRepo) SaveWithLock(ctx context.Context, invoice *trade.PurchaseInvoice) error {
	invoice.IncrementVersion()
	return r.Save(ctx, invoice)
}

func (r *memPurchaseInvoiceRepo) DeleteForTenant(_ context.Context, tenantID, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if doc, ok := r.invoices[id]; !ok || doc.TenantID != tenantID {
		return shared.ErrNotFound
	}
	delete(r.invoices, id)
	return nil
}

func (r *memPurchaseInvoiceRepo) CountForTenant(_ context.Context, tenantID uuid.UUID, _ shared.Filter) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for _, inv := range r.invoices {
		if inv.TenantID == tenantID {
			count++
		}
	}
	return count, nil
}

type memReturnRepo struct {
	mu      sync.Mutex
	returns map[uuid.UUID]*trade.Return
}

func newMemReturnRepo() *memReturnRepo {
	return &memReturnRepo{returns: make(map[uuid.UUID]*trade.Return)}
}

func (r *memReturnRepo) FindByID(_ context.Context, id uuid.UUID) (*trade.Return, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if ret, ok := r.returns[id]; ok {
		return cloneReturn(ret), nil
	}
	return nil, shared.ErrNotFound
}

func (r *memReturnRepo) FindAll(_ context.Context, _ shared.Filter) ([]trade.Return, error) {
	return nil, nil
}

func (r *memReturnRepo) Save(_ context.Context, ret *trade.Return) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.returns {
		if existing.ID != ret.ID && existing.TenantID == ret.TenantID && existing.Number == ret.Number {
			return shared.ErrDuplicateNumber
		}
	}
	r.returns[ret.ID] = ret
	return nil
}

func (r *memReturnRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.returns, id)
	return nil
}

func (r *memReturnRepo) Count(_ context.Context, _ shared.Filter) (int64, error) {
	return int64(len(r.returns)), nil
}

func (r *memReturnRepo) FindByIDForTenant(_ context.Context, tenantID, id uuid.UUID) (*trade.Return, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if ret, ok := r.returns[id]; ok && ret.TenantID == tenantID {
		return cloneReturn(ret), nil
	}
	return nil, shared.ErrNotFound
}

func (r *memReturnRepo) FindAllForTenant(_ context.Context, tenantID uuid.UUID, _ shared.Filter) ([]trade.Return, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []trade.Return
	for _, ret := range r.returns {
		if ret.TenantID == tenantID {
			out = append(out, *ret)
		}
	}
	return out, nil
}

func (r *memReturnRepo) FindByNumberForTenant(_ context.Context, tenantID uuid.UUID, number string) (*trade.Return, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, ret := range r.returns {
		if ret.TenantID == tenantID && ret.Number == number {
			return cloneReturn(ret), nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memReturnRepo) FindBySalesInvoiceForTenant(_ context.Context, tenantID, salesInvoiceID uuid.UUID) ([]trade.Return, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []trade.Return
	for _, ret := range r.returns {
		if ret.TenantID == tenantID && ret.SalesInvoiceID == salesInvoiceID {
			out = append(out, *ret)
		}
	}
	return out, nil
}

func (r *memReturnRepo) SaveWithLock(ctx context.Context, ret *trade.Return) error {
	ret.IncrementVersion()
	return r.Save(ctx, ret)
}

func (r *memReturnRepo) DeleteForTenant(_ context.Context, tenantID, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if doc, ok := r.returns[id]; !ok || doc.TenantID != tenantID {
		return shared.ErrNotFound
	}
	delete(r.returns, id)
	return nil
}

func (r *memReturnRepo) CountForTenant(_ context.Context, tenantID uuid.UUID, _ shared.Filter) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for _, ret := range r.returns {
		if ret.TenantID == tenantID {
			count++
		}
	}
	return count, nil
}

type memTransferRepo struct {
	mu        sync.Mutex
	transfers map[uuid.UUID]*trade.Transfer
}

func newMemTransferRepo() *memTransferRepo {
	return &memTransferRepo{transfers: make(map[uuid.UUID]*trade.Transfer)}
}

func (r *memTransferRepo) FindByID(_ context.Context, id uuid.UUID) (*trade.Transfer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if t, ok := r.transfers[id]; ok {
		return cloneTransfer(t), nil
	}
	return nil, shared.ErrNotFound
}

func (r *memTransferRepo) FindAll(_ context.Context, _ shared.Filter) ([]trade.Transfer, error) {
	return nil, nil
}

func (r *memTransferRepo) Save(_ context.Context, t *trade.Transfer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.transfers {
		if existing.ID != t.ID && existing.TenantID == t.TenantID && existing.Number == t.Number {
			return shared.ErrDuplicateNumber
		}
	}
	r.transfers[t.ID] = t
	return nil
}

func (r *memTransferRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.transfers, id)
	return nil
}

func (r *memTransferRepo) Count(_ context.Context, _ shared.Filter) (int64, error) {
	return int64(len(r.transfers)), nil
}

func (r *memTransferRepo) FindByIDForTenant(_ context.Context, tenantID, id uuid.UUID) (*trade.Transfer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if t, ok := r.transfers[id]; ok && t.TenantID == tenantID {
		return cloneTransfer(t), nil
	}
	return nil, shared.ErrNotFound
}

func (r *memTransferRepo) FindAllForTenant(_ context.Context, tenantID uuid.UUID, _ shared.Filter) ([]trade.Transfer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []trade.Transfer
	for _, t := range r.transfers {
		if t.TenantID == tenantID {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (r *memTransferRepo) FindByNumberForTenant(_ context.Context, tenantID uuid.UUID, number string) (*trade.Transfer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range r.transfers {
		if t.TenantID == tenantID && t.Number == number {
			return cloneTransfer(t), nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memTransferRepo) SaveWithLock(ctx context.Context, t *trade.Transfer) error {
	t.IncrementVersion()
	return r.Save(ctx, t)
}

func (r *memTransferRepo) DeleteForTenant(_ context.Context, tenantID, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if doc, ok := r.transfers[id]; !ok || doc.TenantID != tenantID {
		return shared.ErrNotFound
	}
	delete(r.transfers, id)
	return nil
}

func (r *memTransferRepo) CountForTenant(_ context.Context, tenantID uuid.UUID, _ shared.Filter) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for _, t := range r.transfers {
		if t.TenantID == tenantID {
			count++
		}
	}
	return count, nil
}

type memProductRepo struct {
	mu       sync.Mutex
	products map[uuid.UUID]*catalog.Product
}

func newMemProductRepo() *memProductRepo {
	return &memProductRepo{products: make(map[uuid.UUID]*catalog.Product)}
}

func (r *memProductRepo) add(product *catalog.Product) {
	r.products[product.ID] = product
}

func (r *memProductRepo) FindByID(_ context.Context, id uuid.UUID) (*catalog.Product, error) {
	if p, ok := r.products[id]; ok {
		return p, nil
	}
	return nil, shared.ErrNotFound
}

func (r *memProductRepo) FindAll(_ context.Context, _ shared.Filter) ([]catalog.Product, error) {
	return nil, nil
}

func (r *memProductRepo) Save(_ context.Context, product *catalog.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.products[product.ID] = product
	return nil
}

func (r *memProductRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.products, id)
	return nil
}

func (r *memProductRepo) Count(_ context.Context, _ shared.Filter) (int64, error) {
	return int64(len(r.products)), nil
}

func (r *memProductRepo) FindByIDForTenant(_ context.Context, tenantID, id uuid.UUID) (*catalog.Product, error) {
	if p, ok := r.products[id]; ok && p.TenantID == tenantID {
		return p, nil
	}
	return nil, shared.ErrNotFound
}

func (r *memProductRepo) FindAllForTenant(_ context.Context, tenantID uuid.UUID, _ shared.Filter) ([]catalog.Product, error) {
	var out []catalog.Product
	for _, p := range r.products {
		if p.TenantID == tenantID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *memProductRepo) FindByCodeForTenant(_ context.Context, tenantID uuid.UUID, code string) (*catalog.Product, error) {
	for _, p := range r.products {
		if p.TenantID == tenantID && p.Code == code {
			return p, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memProductRepo) FindByIDsForTenant(_ context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]catalog.Product, error) {
	var out []catalog.Product
	for _, id := range ids {
		if p, ok := r.products[id]; ok && p.TenantID == tenantID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *memProductRepo) SaveWithLock(_ context.Context, product *catalog.Product) error {
	r.products[product.ID] = product
	return nil
}

func (r *memProductRepo) DeleteForTenant(_ context.Context, _, id uuid.UUID) error {
	delete(r.products, id)
	return nil
}

func (r *memProductRepo) CountForTenant(_ context.Context, tenantID uuid.UUID, _ shared.Filter) (int64, error) {
	var count int64
	for _, p := range r.products {
		if p.TenantID == tenantID {
			count++
		}
	}
	return count, nil
}

type memWarehouseRepo struct {
	warehouses map[uuid.UUID]*org.Warehouse
}

func newMemWarehouseRepo() *memWarehouseRepo {
	return &memWarehouseRepo{warehouses: make(map[uuid.UUID]*org.Warehouse)}
}

func (r *memWarehouseRepo) add(warehouse *org.Warehouse) {
	r.warehouses[warehouse.ID] = warehouse
}

func (r *memWarehouseRepo) FindByID(_ context.Context, id uuid.UUID) (*org.Warehouse, error) {
	if w, ok := r.warehouses[id]; ok {
		return w, nil
	}
	return nil, shared.ErrNotFound
}

func (r *memWarehouseRepo) FindAll(_ context.Context, _ shared.Filter) ([]org.Warehouse, error) {
	return nil, nil
}

func (r *memWarehouseRepo) Save(_ context.Context, warehouse *org.Warehouse) error {
	r.warehouses[warehouse.ID] = warehouse
	return nil
}

func (r *memWarehouseRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.warehouses, id)
	return nil
}

func (r *memWarehouseRepo) Count(_ context.Context, _ shared.Filter) (int64, error) {
	return int64(len(r.warehouses)), nil
}

func (r *memWarehouseRepo) FindByIDForTenant(_ context.Context, tenantID, id uuid.UUID) (*org.Warehouse, error) {
	if w, ok := r.warehouses[id]; ok && w.TenantID == tenantID {
		return w, nil
	}
	return nil, shared.ErrNotFound
}

func (r *memWarehouseRepo) FindAllForTenant(_ context.Context, tenantID uuid.UUID, _ shared.Filter) ([]org.Warehouse, error) {
	var out []org.Warehouse
	for _, w := range r.warehouses {
		if w.TenantID == tenantID {
			out = append(out, *w)
		}
	}
	return out, nil
}

func (r *memWarehouseRepo) FindByCodeForTenant(_ context.Context, tenantID uuid.UUID, code string) (*org.Warehouse, error) {
	for _, w := range r.warehouses {
		if w.TenantID == tenantID && w.Code == code {
			return w, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memWarehouseRepo) FindByBranchForTenant(_ context.Context, tenantID, branchID uuid.UUID) ([]org.Warehouse, error) {
	var out []org.Warehouse
	for _, w := range r.warehouses {
		if w.TenantID == tenantID && w.BranchID == branchID {
			out = append(out, *w)
		}
	}
	return out, nil
}

func (r *memWarehouseRepo) CountForTenant(_ context.Context, tenantID uuid.UUID, _ shared.Filter) (int64, error) {
	var count int64
	for _, w := range r.warehouses {
		if w.TenantID == tenantID {
			count++
		}
	}
	return count, nil
}

type memIdempotencyStore struct {
	mu     sync.Mutex
	marks  map[string]bool
	values map[string]string
}

func newMemIdempotencyStore() *memIdempotencyStore {
	return &memIdempotencyStore{marks: make(map[string]bool), values: make(map[string]string)}
}

func (s *memIdempotencyStore) MarkProcessed(_ context.Context, key string, _ time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.marks[key] {
		return false, nil
	}
	s.marks[key] = true
	return true, nil
}

func (s *memIdempotencyStore) IsProcessed(_ context.Context, key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.marks[key], nil
}

func (s *memIdempotencyStore) Remember(_ context.Context, key, value string, _ time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
	return nil
}

func (s *memIdempotencyStore) Recall(_ context.Context, key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.values[key], nil
}

func (s *memIdempotencyStore) Close() error {
	return nil
}

// testEnv bundles the fakes backing one service test
type testEnv struct {
	scope         *NoOpTransactionScope
	salesRepo     *memSalesInvoiceRepo
	purchaseRepo  *memPurchaseInvoiceRepo
	returnRepo    *memReturnRepo
	transferRepo  *memTransferRepo
	sequenceRepo  *memSequenceRepo
	stockRepo     *memStockRepo
	movementRepo  *memMovementRepo
	lotRepo       *memLotRepo
	outboxRepo    *memOutboxRepo
	productRepo   *memProductRepo
	warehouseRepo *memWarehouseRepo
	idempotency   *memIdempotencyStore
}

func newTestEnv() *testEnv {
	env := &testEnv{
		salesRepo:     newMemSalesInvoiceRepo(),
		purchaseRepo:  newMemPurchaseInvoiceRepo(),
		returnRepo:    newMemReturnRepo(),
		transferRepo:  newMemTransferRepo(),
		sequenceRepo:  newMemSequenceRepo(),
		stockRepo:     newMemStockRepo(),
		movementRepo:  newMemMovementRepo(),
		lotRepo:       newMemLotRepo(),
		outboxRepo:    newMemOutboxRepo(),
		productRepo:   newMemProductRepo(),
		warehouseRepo: newMemWarehouseRepo(),
		idempotency:   newMemIdempotencyStore(),
	}
	env.scope = NewNoOpTransactionScope(
		env.salesRepo,
		env.purchaseRepo,
		env.returnRepo,
		env.transferRepo,
		env.sequenceRepo,
		env.stockRepo,
		env.movementRepo,
		env.lotRepo,
		env.outboxRepo,
	)
	return env
}

package trade

import (
	"context"
	"testing"

	"github.com/bizledger/backend/internal/domain/inventory"
	"github.com/bizledger/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPurchaseInvoiceService_Create(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()

	env := newTestEnv()
	warehouse := seedWarehouse(t, env, tenantID)
	product := seedProduct(t, env, tenantID, "SKU-001", 10.0, 0)

	service := NewPurchaseInvoiceService(env.scope, env.purchaseRepo, env.productRepo, env.warehouseRepo, DefaultPurchasePolicy())

	resp, err := service.Create(ctx, tenantID, uuid.New(), CreatePurchaseInvoiceRequest{
		SupplierID:   uuid.New(),
		SupplierName: "Acme Supplies",
		WarehouseID:  warehouse.ID,
		Items: []CreatePurchaseInvoiceItemRequest{
			{ProductID: product.ID, Quantity: decimal.NewFromInt(10)},
		},
	})
	require.NoError(t, err)

	assert.Regexp(t, `^PUR-\d{6}-0001$`, resp.Number)
	assert.Equal(t, "PENDING", resp.Status)
	// catalog cost (price/2 = 5.00) snapshotted onto the line
	assert.Equal(t, "50", resp.Total.String())

	// creation never touches stock
	assert.True(t, env.stockRepo.quantity(tenantID, warehouse.ID, product.ID).IsZero())
}

func TestPurchaseInvoiceService_MarkReceivedCreditsStock(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	actorID := uuid.New()

	env := newTestEnv()
	warehouse := seedWarehouse(t, env, tenantID)
	product := seedProduct(t, env, tenantID, "SKU-001", 10.0, 0)

	service := NewPurchaseInvoiceService(env.scope, env.purchaseRepo, env.productRepo, env.warehouseRepo, DefaultPurchasePolicy())

	created, err := service.Create(ctx, tenantID, actorID, CreatePurchaseInvoiceRequest{
		SupplierID:   uuid.New(),
		SupplierName: "Acme Supplies",
		WarehouseID:  warehouse.ID,
		Items:        []CreatePurchaseInvoiceItemRequest{{ProductID: product.ID, Quantity: decimal.NewFromInt(12)}},
	})
	require.NoError(t, err)

	received, err := service.MarkReceived(ctx, tenantID, created.ID, actorID)
	require.NoError(t, err)
	assert.Equal(t, "RECEIVED", received.Status)
	assert.NotNil(t, received.ReceivedAt)

	// the receiving warehouse was credited, with a matching ledger entry
	assert.Equal(t, "12", env.stockRepo.quantity(tenantID, warehouse.ID, product.ID).String())
	movements, err := env.movementRepo.FindForDocument(ctx, tenantID, created.ID)
	require.NoError(t, err)
	require.Len(t, movements, 1)
	assert.Equal(t, inventory.MovementTypePurchase, movements[0].Type)
	assert.Equal(t, "12", movements[0].Delta.String())

	// terminal
	_, err = service.MarkReceived(ctx, tenantID, created.ID, actorID)
	assert.Error(t, err)
	_, err = service.Cancel(ctx, tenantID, created.ID, "late cancel")
	assert.Error(t, err)
}

func TestPurchaseInvoiceService_MarkReceivedPolicyOff(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()

	env := newTestEnv()
	warehouse := seedWarehouse(t, env, tenantID)
	product := seedProduct(t, env, tenantID, "SKU-001", 10.0, 0)

	service := NewPurchaseInvoiceService(env.scope, env.purchaseRepo, env.productRepo, env.warehouseRepo,
		PurchasePolicy{ReceiveAdjustsStock: false})

	created, err := service.Create(ctx, tenantID, uuid.New(), CreatePurchaseInvoiceRequest{
		SupplierID:   uuid.New(),
		SupplierName: "Acme Supplies",
		WarehouseID:  warehouse.ID,
		Items:        []CreatePurchaseInvoiceItemRequest{{ProductID: product.ID, Quantity: decimal.NewFromInt(12)}},
	})
	require.NoError(t, err)

	received, err := service.MarkReceived(ctx, tenantID, created.ID, uuid.New())
	require.NoError(t, err)
	assert.Equal(t, "RECEIVED", received.Status)

	// state changed, stock did not
	assert.True(t, env.stockRepo.quantity(tenantID, warehouse.ID, product.ID).IsZero())
	count, _ := env.movementRepo.CountForTenant(ctx, tenantID, shared.DefaultFilter())
	assert.Zero(t, count)
}

func TestPurchaseInvoiceService_CreateWithSerialNumbers(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()

	env := newTestEnv()
	warehouse := seedWarehouse(t, env, tenantID)
	product := seedProduct(t, env, tenantID, "NET-001", 200.0, 0)

	service := NewPurchaseInvoiceService(env.scope, env.purchaseRepo, env.productRepo, env.warehouseRepo, DefaultPurchasePolicy())

	resp, err := service.Create(ctx, tenantID, uuid.New(), CreatePurchaseInvoiceRequest{
		SupplierID:   uuid.New(),
		SupplierName: "Netgear Dist",
		WarehouseID:  warehouse.ID,
		Items: []CreatePurchaseInvoiceItemRequest{
			{ProductID: product.ID, Quantity: decimal.NewFromInt(2), SerialNumbers: []string{"SN-100", "SN-101"}},
		},
	})
	require.NoError(t, err)
	require.Len(t, resp.Items, 1)
	assert.Equal(t, []string{"SN-100", "SN-101"}, resp.Items[0].SerialNumbers)

	// serial count must match the line quantity
	_, err = service.Create(ctx, tenantID, uuid.New(), CreatePurchaseInvoiceRequest{
		SupplierID:   uuid.New(),
		SupplierName: "Netgear Dist",
		WarehouseID:  warehouse.ID,
		Items: []CreatePurchaseInvoiceItemRequest{
			{ProductID: product.ID, Quantity: decimal.NewFromInt(3), SerialNumbers: []string{"SN-102"}},
		},
	})
	require.Error(t, err)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_SERIAL_NUMBERS", domainErr.Code)
}

func TestPurchaseInvoiceService_Delete(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()

	env := newTestEnv()
	warehouse := seedWarehouse(t, env, tenantID)
	product := seedProduct(t, env, tenantID, "SKU-001", 10.0, 0)

	service := NewPurchaseInvoiceService(env.scope, env.purchaseRepo, env.productRepo, env.warehouseRepo, DefaultPurchasePolicy())

	created, err := service.Create(ctx, tenantID, uuid.New(), CreatePurchaseInvoiceRequest{
		SupplierID:   uuid.New(),
		SupplierName: "Acme Supplies",
		WarehouseID:  warehouse.ID,
		Items:        []CreatePurchaseInvoiceItemRequest{{ProductID: product.ID, Quantity: decimal.NewFromInt(5)}},
	})
	require.NoError(t, err)

	err = service.Delete(ctx, tenantID, created.ID)
	require.Error(t, err)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_STATE", domainErr.Code)

	_, err = service.Cancel(ctx, tenantID, created.ID, "supplier out of stock")
	require.NoError(t, err)

	require.NoError(t, service.Delete(ctx, tenantID, created.ID))
	_, err = service.GetByID(ctx, tenantID, created.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestPurchaseInvoiceService_Cancel(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()

	env := newTestEnv()
	warehouse := seedWarehouse(t, env, tenantID)
	product := seedProduct(t, env, tenantID, "SKU-001", 10.0, 0)

	service := NewPurchaseInvoiceService(env.scope, env.purchaseRepo, env.productRepo, env.warehouseRepo, DefaultPurchasePolicy())

	created, err := service.Create(ctx, tenantID, uuid.New(), CreatePurchaseInvoiceRequest{
		SupplierID:   uuid.New(),
		SupplierName: "Acme Supplies",
		WarehouseID:  warehouse.ID,
		Items:        []CreatePurchaseInvoiceItemRequest{{ProductID: product.ID, Quantity: decimal.NewFromInt(5)}},
	})
	require.NoError(t, err)

	cancelled, err := service.Cancel(ctx, tenantID, created.ID, "supplier out of stock")
	require.NoError(t, err)
	assert.Equal(t, "CANCELLED", cancelled.Status)

	// nothing was credited, nothing to reverse
	assert.True(t, env.stockRepo.quantity(tenantID, warehouse.ID, product.ID).IsZero())

	_, err = service.MarkReceived(ctx, tenantID, created.ID, uuid.New())
	assert.Error(t, err)
}

func TestPurchaseInvoiceService_CreateIdempotentReplay(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()

	env := newTestEnv()
	warehouse := seedWarehouse(t, env, tenantID)
	product := seedProduct(t, env, tenantID, "SKU-001", 10.0, 0)

	service := NewPurchaseInvoiceService(env.scope, env.purchaseRepo, env.productRepo, env.warehouseRepo, DefaultPurchasePolicy())
	service.SetIdempotencyStore(env.idempotency, shared.DefaultIdempotencyConfig())

	req := CreatePurchaseInvoiceRequest{
		SupplierID:     uuid.New(),
		SupplierName:   "Acme Supplies",
		WarehouseID:    warehouse.ID,
		Items:          []CreatePurchaseInvoiceItemRequest{{ProductID: product.ID, Quantity: decimal.NewFromInt(5)}},
		IdempotencyKey: "po-key-1",
	}

	first, err := service.Create(ctx, tenantID, uuid.New(), req)
	require.NoError(t, err)
	replay, err := service.Create(ctx, tenantID, uuid.New(), req)
	require.NoError(t, err)

	assert.Equal(t, first.ID, replay.ID)
	count, _ := env.purchaseRepo.CountForTenant(ctx, tenantID, shared.DefaultFilter())
	assert.Equal(t, int64(1), count)
}

func TestPurchaseInvoiceService_List(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()

	env := newTestEnv()
	warehouse := seedWarehouse(t, env, tenantID)
	product := seedProduct(t, env, tenantID, "SKU-001", 10.0, 0)

	service := NewPurchaseInvoiceService(env.scope, env.purchaseRepo, env.productRepo, env.warehouseRepo, DefaultPurchasePolicy())

	for i := 0; i < 3; i++ {
		_, err := service.Create(ctx, tenantID, uuid.New(), CreatePurchaseInvoiceRequest{
			SupplierID:   uuid.New(),
			SupplierName: "Acme Supplies",
			WarehouseID:  warehouse.ID,
			Items:        []CreatePurchaseInvoiceItemRequest{{ProductID: product.ID, Quantity: decimal.NewFromInt(1)}},
		})
		require.NoError(t, err)
	}

	list, err := service.List(ctx, tenantID, shared.DefaultFilter())
	require.NoError(t, err)
	assert.Equal(t, int64(3), list.Total)
	assert.Len(t, list.Items, 3)
}

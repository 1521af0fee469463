package inventory

import (
	"github.com/bizledger/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Event type constants for inventory events
const (
	EventTypeStockAdjusted         = "inventory.stock.adjusted"
	EventTypeLowStock              = "inventory.stock.low"
	EventTypeInspectionLotCreated  = "inventory.inspection_lot.created"
	EventTypeInspectionLotReleased = "inventory.inspection_lot.released"
)

// StockAdjustedEvent is raised when an on-hand quantity changes
type StockAdjustedEvent struct {
	shared.BaseDomainEvent
	WarehouseID   uuid.UUID       `json:"warehouse_id"`
	ProductID     uuid.UUID       `json:"product_id"`
	MovementType  MovementType    `json:"movement_type"`
	Delta         decimal.Decimal `json:"delta"`
	QuantityAfter decimal.Decimal `json:"quantity_after"`
}

// NewStockAdjustedEvent creates a new StockAdjustedEvent
func NewStockAdjustedEvent(tenantID uuid.UUID, movement *StockMovement) *StockAdjustedEvent {
	return &StockAdjustedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(
			EventTypeStockAdjusted, "StockItem", movement.ProductID, tenantID),
		WarehouseID:   movement.WarehouseID,
		ProductID:     movement.ProductID,
		MovementType:  movement.Type,
		Delta:         movement.Delta,
		QuantityAfter: movement.QuantityAfter,
	}
}

// LowStockEvent is raised when a product drops below its minimum stock level
type LowStockEvent struct {
	shared.BaseDomainEvent
	WarehouseID uuid.UUID       `json:"warehouse_id"`
	ProductID   uuid.UUID       `json:"product_id"`
	Quantity    decimal.Decimal `json:"quantity"`
	MinStock    decimal.Decimal `json:"min_stock"`
}

// NewLowStockEvent creates a new LowStockEvent
func NewLowStockEvent(tenantID, warehouseID, productID uuid.UUID, quantity, minStock decimal.Decimal) *LowStockEvent {
	return &LowStockEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(
			EventTypeLowStock, "StockItem", productID, tenantID),
		WarehouseID: warehouseID,
		ProductID:   productID,
		Quantity:    quantity,
		MinStock:    minStock,
	}
}

// InspectionLotCreatedEvent is raised when returned units enter quarantine
type InspectionLotCreatedEvent struct {
	shared.BaseDomainEvent
	WarehouseID  uuid.UUID       `json:"warehouse_id"`
	ProductID    uuid.UUID       `json:"product_id"`
	ReturnNumber string          `json:"return_number"`
	Quantity     decimal.Decimal `json:"quantity"`
}

// NewInspectionLotCreatedEvent creates a new InspectionLotCreatedEvent
func NewInspectionLotCreatedEvent(lot *InspectionLot) *InspectionLotCreatedEvent {
	return &InspectionLotCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(
			EventTypeInspectionLotCreated, "InspectionLot", lot.ID, lot.TenantID),
		WarehouseID:  lot.WarehouseID,
		ProductID:    lot.ProductID,
		ReturnNumber: lot.ReturnNumber,
		Quantity:     lot.Quantity,
	}
}

// InspectionLotReleasedEvent is raised when a lot is restocked or written off
type InspectionLotReleasedEvent struct {
	shared.BaseDomainEvent
	WarehouseID uuid.UUID           `json:"warehouse_id"`
	ProductID   uuid.UUID           `json:"product_id"`
	Quantity    decimal.Decimal     `json:"quantity"`
	Outcome     InspectionLotStatus `json:"outcome"`
}

// NewInspectionLotReleasedEvent creates a new InspectionLotReleasedEvent
func NewInspectionLotReleasedEvent(lot *InspectionLot) *InspectionLotReleasedEvent {
	return &InspectionLotReleasedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(
			EventTypeInspectionLotReleased, "InspectionLot", lot.ID, lot.TenantID),
		WarehouseID: lot.WarehouseID,
		ProductID:   lot.ProductID,
		Quantity:    lot.Quantity,
		Outcome:     lot.Status,
	}
}

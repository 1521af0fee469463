package inventory

import (
	"time"

	"github.com/bizledger/backend/internal/domain/inventory"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AdjustStockRequest is the request for a manual stock adjustment
type AdjustStockRequest struct {
	WarehouseID uuid.UUID       `json:"warehouse_id" binding:"required"`
	ProductID   uuid.UUID       `json:"product_id" binding:"required"`
	Delta       decimal.Decimal `json:"delta" binding:"required"` // signed quantity change
	Notes       string          `json:"notes,omitempty"`
}

// Inspection lot release outcomes
const (
	LotOutcomeRestock  = "RESTOCK"
	LotOutcomeWriteOff = "WRITE_OFF"
)

// ReleaseLotRequest is the request to release an inspection lot
type ReleaseLotRequest struct {
	Outcome string `json:"outcome" binding:"required"` // RESTOCK or WRITE_OFF
	Notes   string `json:"notes,omitempty"`
}

// StockItemResponse is the on-hand quantity for one product in one warehouse
type StockItemResponse struct {
	ID          uuid.UUID       `json:"id"`
	WarehouseID uuid.UUID       `json:"warehouse_id"`
	ProductID   uuid.UUID       `json:"product_id"`
	Quantity    decimal.Decimal `json:"quantity"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// ToStockItemResponse converts a domain stock item to its response form
func ToStockItemResponse(item *inventory.StockItem) StockItemResponse {
	return StockItemResponse{
		ID:          item.ID,
		WarehouseID: item.WarehouseID,
		ProductID:   item.ProductID,
		Quantity:    item.Quantity,
		UpdatedAt:   item.UpdatedAt,
	}
}

// StockMovementResponse is one ledger entry
type StockMovementResponse struct {
	ID             uuid.UUID       `json:"id"`
	WarehouseID    uuid.UUID       `json:"warehouse_id"`
	ProductID      uuid.UUID       `json:"product_id"`
	Type           string          `json:"type"`
	Delta          decimal.Decimal `json:"delta"`
	QuantityAfter  decimal.Decimal `json:"quantity_after"`
	DocumentID     *uuid.UUID      `json:"document_id,omitempty"`
	DocumentNumber string          `json:"document_number,omitempty"`
	ActorID        *uuid.UUID      `json:"actor_id,omitempty"`
	Notes          string          `json:"notes,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
}

// ToStockMovementResponse converts a domain movement to its response form
func ToStockMovementResponse(movement *inventory.StockMovement) StockMovementResponse {
	return StockMovementResponse{
		ID:             movement.ID,
		WarehouseID:    movement.WarehouseID,
		ProductID:      movement.ProductID,
		Type:           movement.Type.String(),
		Delta:          movement.Delta,
		QuantityAfter:  movement.QuantityAfter,
		DocumentID:     movement.DocumentID,
		DocumentNumber: movement.DocumentNumber,
		ActorID:        movement.ActorID,
		Notes:          movement.Notes,
		CreatedAt:      movement.CreatedAt,
	}
}

// InspectionLotResponse is one quarantined return lot
type InspectionLotResponse struct {
	ID           uuid.UUID       `json:"id"`
	WarehouseID  uuid.UUID       `json:"warehouse_id"`
	ProductID    uuid.UUID       `json:"product_id"`
	ReturnID     uuid.UUID       `json:"return_id"`
	ReturnNumber string          `json:"return_number"`
	Quantity     decimal.Decimal `json:"quantity"`
	Status       string          `json:"status"`
	ReleasedAt   *time.Time      `json:"released_at,omitempty"`
	ReleasedBy   *uuid.UUID      `json:"released_by,omitempty"`
	Notes        string          `json:"notes,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
}

// ToInspectionLotResponse converts a domain lot to its response form
func ToInspectionLotResponse(lot *inventory.InspectionLot) InspectionLotResponse {
	return InspectionLotResponse{
		ID:           lot.ID,
		WarehouseID:  lot.WarehouseID,
		ProductID:    lot.ProductID,
		ReturnID:     lot.ReturnID,
		ReturnNumber: lot.ReturnNumber,
		Quantity:     lot.Quantity,
		Status:       lot.Status.String(),
		ReleasedAt:   lot.ReleasedAt,
		ReleasedBy:   lot.ReleasedBy,
		Notes:        lot.Notes,
		CreatedAt:    lot.CreatedAt,
	}
}

// LowStockItemResponse is one product below its minimum stock level
type LowStockItemResponse struct {
	WarehouseID uuid.UUID       `json:"warehouse_id"`
	ProductID   uuid.UUID       `json:"product_id"`
	ProductCode string          `json:"product_code"`
	ProductName string          `json:"product_name"`
	Quantity    decimal.Decimal `json:"quantity"`
	MinStock    decimal.Decimal `json:"min_stock"`
	Shortfall   decimal.Decimal `json:"shortfall"`
}

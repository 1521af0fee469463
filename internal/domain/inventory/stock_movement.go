package inventory

import (
	"github.com/bizledger/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MovementType classifies a stock ledger entry
type MovementType string

const (
	MovementTypeSale           MovementType = "SALE"
	MovementTypeSaleReversal   MovementType = "SALE_REVERSAL" // sales invoice cancelled
	MovementTypePurchase       MovementType = "PURCHASE"
	MovementTypeTransferOut    MovementType = "TRANSFER_OUT"
	MovementTypeTransferIn     MovementType = "TRANSFER_IN"
	MovementTypeTransferReturn MovementType = "TRANSFER_RETURN" // in-transit transfer cancelled
	MovementTypeReturnRestock  MovementType = "RETURN_RESTOCK"  // inspection lot released back to stock
	MovementTypeAdjustment     MovementType = "ADJUSTMENT"
)

// String returns the string representation of MovementType
func (t MovementType) String() string {
	return string(t)
}

// IsValid returns true if the movement type is known
func (t MovementType) IsValid() bool {
	switch t {
	case MovementTypeSale,
		MovementTypeSaleReversal,
		MovementTypePurchase,
		MovementTypeTransferOut,
		MovementTypeTransferIn,
		MovementTypeTransferReturn,
		MovementTypeReturnRestock,
		MovementTypeAdjustment:
		return true
	}
	return false
}

// StockMovement is an append-only ledger entry recording one stock change.
// Movements are written in the same transaction as the quantity change
// they describe; they are never updated or deleted.
type StockMovement struct {
	shared.BaseEntity
	TenantID       uuid.UUID       `gorm:"type:uuid;not null;index"`
	WarehouseID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	Type           MovementType    `gorm:"type:varchar(30);not null"`
	Delta          decimal.Decimal `gorm:"type:decimal(18,4);not null"` // Signed quantity change
	QuantityAfter  decimal.Decimal `gorm:"type:decimal(18,4);not null"` // On-hand quantity after the change
	DocumentID     *uuid.UUID      `gorm:"type:uuid;index"`             // Originating document, nil for manual adjustments
	DocumentNumber string          `gorm:"type:varchar(50);index"`
	ActorID        *uuid.UUID      `gorm:"type:uuid"`
	Notes          string          `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (StockMovement) TableName() string {
	return "stock_movements"
}

// NewStockMovement creates a new ledger entry
func NewStockMovement(tenantID, warehouseID, productID uuid.UUID, movementType MovementType, delta, quantityAfter decimal.Decimal) (*StockMovement, error) {
	if !movementType.IsValid() {
		return nil, shared.NewDomainError("INVALID_MOVEMENT_TYPE", "Unknown stock movement type")
	}
	if delta.IsZero() {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Movement delta cannot be zero")
	}
	if quantityAfter.IsNegative() {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity after movement cannot be negative")
	}

	return &StockMovement{
		BaseEntity:    shared.NewBaseEntity(),
		TenantID:      tenantID,
		WarehouseID:   warehouseID,
		ProductID:     productID,
		Type:          movementType,
		Delta:         delta,
		QuantityAfter: quantityAfter,
	}, nil
}

// WithDocument links the movement to its originating document
func (m *StockMovement) WithDocument(documentID uuid.UUID, documentNumber string) *StockMovement {
	m.DocumentID = &documentID
	m.DocumentNumber = documentNumber
	return m
}

// WithActor records who triggered the movement
func (m *StockMovement) WithActor(actorID uuid.UUID) *StockMovement {
	m.ActorID = &actorID
	return m
}

// WithNotes attaches free-form notes to the movement
func (m *StockMovement) WithNotes(notes string) *StockMovement {
	m.Notes = notes
	return m
}

// IsIncrease returns true if the movement added stock
func (m *StockMovement) IsIncrease() bool {
	return m.Delta.IsPositive()
}

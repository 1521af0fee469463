package inventory

import (
	"time"

	"github.com/bizledger/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InspectionLotStatus represents the status of a quarantined return lot
type InspectionLotStatus string

const (
	InspectionLotStatusPending    InspectionLotStatus = "PENDING_INSPECTION"
	InspectionLotStatusRestocked  InspectionLotStatus = "RESTOCKED"
	InspectionLotStatusWrittenOff InspectionLotStatus = "WRITTEN_OFF"
)

// IsValid checks if the status is a valid InspectionLotStatus
func (s InspectionLotStatus) IsValid() bool {
	switch s {
	case InspectionLotStatusPending, InspectionLotStatusRestocked, InspectionLotStatusWrittenOff:
		return true
	}
	return false
}

// String returns the string representation of InspectionLotStatus
func (s InspectionLotStatus) String() string {
	return string(s)
}

// InspectionLot quarantines units that came back on an approved return.
// Returned goods never re-enter sellable stock directly: each restock-flagged
// return line produces one lot, and only releasing the lot (after physical
// inspection) moves the units into stock or writes them off.
type InspectionLot struct {
	shared.TenantAggregateRoot
	WarehouseID  uuid.UUID           `gorm:"type:uuid;not null;index"`
	ProductID    uuid.UUID           `gorm:"type:uuid;not null;index"`
	ReturnID     uuid.UUID           `gorm:"type:uuid;not null;index"`
	ReturnNumber string              `gorm:"type:varchar(50)"`
	Quantity     decimal.Decimal     `gorm:"type:decimal(18,4);not null"`
	Status       InspectionLotStatus `gorm:"type:varchar(30);not null;default:'PENDING_INSPECTION'"`
	ReleasedAt   *time.Time
	ReleasedBy   *uuid.UUID `gorm:"type:uuid"`
	Notes        string     `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (InspectionLot) TableName() string {
	return "inspection_lots"
}

// NewInspectionLot creates a new pending inspection lot
func NewInspectionLot(tenantID, warehouseID, productID, returnID uuid.UUID, returnNumber string, quantity decimal.Decimal) (*InspectionLot, error) {
	if warehouseID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_WAREHOUSE", "Warehouse ID cannot be empty")
	}
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if returnID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_RETURN", "Return ID cannot be empty")
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Lot quantity must be positive")
	}

	lot := &InspectionLot{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		WarehouseID:         warehouseID,
		ProductID:           productID,
		ReturnID:            returnID,
		ReturnNumber:        returnNumber,
		Quantity:            quantity,
		Status:              InspectionLotStatusPending,
	}

	lot.AddDomainEvent(NewInspectionLotCreatedEvent(lot))

	return lot, nil
}

// Restock releases the lot back into sellable stock. The application
// service credits the warehouse in the same transaction.
func (l *InspectionLot) Restock(releasedBy uuid.UUID) error {
	if l.Status != InspectionLotStatusPending {
		return shared.NewDomainError("INVALID_STATE", "Lot has already been released")
	}

	now := time.Now()
	l.Status = InspectionLotStatusRestocked
	l.ReleasedAt = &now
	l.ReleasedBy = &releasedBy
	l.UpdatedAt = now
	l.IncrementVersion()

	l.AddDomainEvent(NewInspectionLotReleasedEvent(l))

	return nil
}

// WriteOff discards the lot; the units never return to stock
func (l *InspectionLot) WriteOff(releasedBy uuid.UUID, notes string) error {
	if l.Status != InspectionLotStatusPending {
		return shared.NewDomainError("INVALID_STATE", "Lot has already been released")
	}

	now := time.Now()
	l.Status = InspectionLotStatusWrittenOff
	l.ReleasedAt = &now
	l.ReleasedBy = &releasedBy
	l.Notes = notes
	l.UpdatedAt = now
	l.IncrementVersion()

	l.AddDomainEvent(NewInspectionLotReleasedEvent(l))

	return nil
}

// IsPending returns true if the lot awaits inspection
func (l *InspectionLot) IsPending() bool {
	return l.Status == InspectionLotStatusPending
}

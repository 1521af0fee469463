package org

import (
	"github.com/bizledger/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Event type constants for org events
const (
	EventTypeWarehouseCreated = "org.warehouse.created"
)

// WarehouseCreatedEvent is raised when a new warehouse is registered
type WarehouseCreatedEvent struct {
	shared.BaseDomainEvent
	BranchID uuid.UUID `json:"branch_id"`
	Code     string    `json:"code"`
	Name     string    `json:"name"`
}

// NewWarehouseCreatedEvent creates a new WarehouseCreatedEvent
func NewWarehouseCreatedEvent(warehouse *Warehouse) *WarehouseCreatedEvent {
	return &WarehouseCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(
			EventTypeWarehouseCreated, "Warehouse", warehouse.ID, warehouse.TenantID),
		BranchID: warehouse.BranchID,
		Code:     warehouse.Code,
		Name:     warehouse.Name,
	}
}

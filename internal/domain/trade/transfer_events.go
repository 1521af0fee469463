package trade

import (
	"github.com/bizledger/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Event type constants for transfer events
const (
	EventTypeTransferCreated    = "trade.transfer.created"
	EventTypeTransferDispatched = "trade.transfer.dispatched"
	EventTypeTransferReceived   = "trade.transfer.received"
	EventTypeTransferCancelled  = "trade.transfer.cancelled"
)

// TransferCreatedEvent is raised when a transfer is created
type TransferCreatedEvent struct {
	shared.BaseDomainEvent
	Number        string    `json:"number"`
	SourceID      uuid.UUID `json:"source_id"`
	DestinationID uuid.UUID `json:"destination_id"`
}

// NewTransferCreatedEvent creates a new TransferCreatedEvent
func NewTransferCreatedEvent(transfer *Transfer) *TransferCreatedEvent {
	return &TransferCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(
			EventTypeTransferCreated, "Transfer", transfer.ID, transfer.TenantID),
		Number:        transfer.Number,
		SourceID:      transfer.SourceID,
		DestinationID: transfer.DestinationID,
	}
}

// TransferDispatchedEvent is raised when a transfer departs the source warehouse
type TransferDispatchedEvent struct {
	shared.BaseDomainEvent
	Number   string    `json:"number"`
	SourceID uuid.UUID `json:"source_id"`
}

// NewTransferDispatchedEvent creates a new TransferDispatchedEvent
func NewTransferDispatchedEvent(transfer *Transfer) *TransferDispatchedEvent {
	return &TransferDispatchedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(
			EventTypeTransferDispatched, "Transfer", transfer.ID, transfer.TenantID),
		Number:   transfer.Number,
		SourceID: transfer.SourceID,
	}
}

// TransferReceivedEvent is raised when a transfer arrives at the destination
type TransferReceivedEvent struct {
	shared.BaseDomainEvent
	Number        string    `json:"number"`
	DestinationID uuid.UUID `json:"destination_id"`
}

// NewTransferReceivedEvent creates a new TransferReceivedEvent
func NewTransferReceivedEvent(transfer *Transfer) *TransferReceivedEvent {
	return &TransferReceivedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(
			EventTypeTransferReceived, "Transfer", transfer.ID, transfer.TenantID),
		Number:        transfer.Number,
		DestinationID: transfer.DestinationID,
	}
}

// TransferCancelledEvent is raised when a transfer is cancelled
type TransferCancelledEvent struct {
	shared.BaseDomainEvent
	Number       string `json:"number"`
	Reason       string `json:"reason"`
	WasInTransit bool   `json:"was_in_transit"`
}

// NewTransferCancelledEvent creates a new TransferCancelledEvent
func NewTransferCancelledEvent(transfer *Transfer, wasInTransit bool) *TransferCancelledEvent {
	return &TransferCancelledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(
			EventTypeTransferCancelled, "Transfer", transfer.ID, transfer.TenantID),
		Number:       transfer.Number,
		Reason:       transfer.CancelReason,
		WasInTransit: wasInTransit,
	}
}

package event

import (
	"github.com/bizledger/backend/internal/domain/catalog"
	"github.com/bizledger/backend/internal/domain/inventory"
	"github.com/bizledger/backend/internal/domain/org"
	"github.com/bizledger/backend/internal/domain/trade"
)

// RegisterAllEvents registers all domain event types with the serializer.
// This is required for the OutboxProcessor to deserialize events from the outbox table.
func RegisterAllEvents(serializer *EventSerializer) {
	// Trade domain - Sales Invoice events
	serializer.Register(trade.EventTypeSalesInvoiceCreated, &trade.SalesInvoiceCreatedEvent{})
	serializer.Register(trade.EventTypeSalesInvoicePaid, &trade.SalesInvoicePaidEvent{})
	serializer.Register(trade.EventTypeSalesInvoiceCancelled, &trade.SalesInvoiceCancelledEvent{})

	// Trade domain - Purchase Invoice events
	serializer.Register(trade.EventTypePurchaseInvoiceCreated, &trade.PurchaseInvoiceCreatedEvent{})
	serializer.Register(trade.EventTypePurchaseInvoiceReceived, &trade.PurchaseInvoiceReceivedEvent{})
	serializer.Register(trade.EventTypePurchaseInvoiceCancelled, &trade.PurchaseInvoiceCancelledEvent{})

	// Trade domain - Return events
	serializer.Register(trade.EventTypeReturnCreated, &trade.ReturnCreatedEvent{})
	serializer.Register(trade.EventTypeReturnApproved, &trade.ReturnApprovedEvent{})
	serializer.Register(trade.EventTypeReturnRefunded, &trade.ReturnRefundedEvent{})
	serializer.Register(trade.EventTypeReturnRejected, &trade.ReturnRejectedEvent{})

	// Trade domain - Transfer events
	serializer.Register(trade.EventTypeTransferCreated, &trade.TransferCreatedEvent{})
	serializer.Register(trade.EventTypeTransferDispatched, &trade.TransferDispatchedEvent{})
	serializer.Register(trade.EventTypeTransferReceived, &trade.TransferReceivedEvent{})
	serializer.Register(trade.EventTypeTransferCancelled, &trade.TransferCancelledEvent{})

	// inventory events
	serializer.Register(inventory.EventTypeStockAdjusted, &inventory.StockAdjustedEvent{})
	serializer.Register(inventory.EventTypeLowStock, &inventory.LowStockEvent{})
	serializer.Register(inventory.EventTypeInspectionLotCreated, &inventory.InspectionLotCreatedEvent{})
	serializer.Register(inventory.EventTypeInspectionLotReleased, &inventory.InspectionLotReleasedEvent{})

	// Catalog domain events
	serializer.Register(catalog.EventTypeProductCreated, &catalog.ProductCreatedEvent{})
	serializer.Register(catalog.EventTypeProductUpdated, &catalog.ProductUpdatedEvent{})
	serializer.Register(catalog.EventTypeProductPriceChanged, &catalog.ProductPriceChangedEvent{})
	serializer.Register(catalog.EventTypeProductStatusChanged, &catalog.ProductStatusChangedEvent{})

	// Org domain events
	serializer.Register(org.EventTypeWarehouseCreated, &org.WarehouseCreatedEvent{})
}

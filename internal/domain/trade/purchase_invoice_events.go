package trade

import (
	"github.com/bizledger/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Event type constants for purchase invoice events
const (
	EventTypePurchaseInvoiceCreated   = "trade.purchase_invoice.created"
	EventTypePurchaseInvoiceReceived  = "trade.purchase_invoice.received"
	EventTypePurchaseInvoiceCancelled = "trade.purchase_invoice.cancelled"
)

// PurchaseInvoiceCreatedEvent is raised when a purchase invoice is created
type PurchaseInvoiceCreatedEvent struct {
	shared.BaseDomainEvent
	Number      string          `json:"number"`
	SupplierID  uuid.UUID       `json:"supplier_id"`
	WarehouseID uuid.UUID       `json:"warehouse_id"`
	Total       decimal.Decimal `json:"total"`
}

// NewPurchaseInvoiceCreatedEvent creates a new PurchaseInvoiceCreatedEvent
func NewPurchaseInvoiceCreatedEvent(invoice *PurchaseInvoice) *PurchaseInvoiceCreatedEvent {
	return &PurchaseInvoiceCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(
			EventTypePurchaseInvoiceCreated, "PurchaseInvoice", invoice.ID, invoice.TenantID),
		Number:      invoice.Number,
		SupplierID:  invoice.SupplierID,
		WarehouseID: invoice.WarehouseID,
		Total:       invoice.Total,
	}
}

// PurchaseInvoiceReceivedEvent is raised when goods are received
type PurchaseInvoiceReceivedEvent struct {
	shared.BaseDomainEvent
	Number      string          `json:"number"`
	WarehouseID uuid.UUID       `json:"warehouse_id"`
	Total       decimal.Decimal `json:"total"`
}

// NewPurchaseInvoiceReceivedEvent creates a new PurchaseInvoiceReceivedEvent
func NewPurchaseInvoiceReceivedEvent(invoice *PurchaseInvoice) *PurchaseInvoiceReceivedEvent {
	return &PurchaseInvoiceReceivedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(
			EventTypePurchaseInvoiceReceived, "PurchaseInvoice", invoice.ID, invoice.TenantID),
		Number:      invoice.Number,
		WarehouseID: invoice.WarehouseID,
		Total:       invoice.Total,
	}
}

// PurchaseInvoiceCancelledEvent is raised when a purchase invoice is cancelled
type PurchaseInvoiceCancelledEvent struct {
	shared.BaseDomainEvent
	Number string `json:"number"`
	Reason string `json:"reason"`
}

// NewPurchaseInvoiceCancelledEvent creates a new PurchaseInvoiceCancelledEvent
func NewPurchaseInvoiceCancelledEvent(invoice *PurchaseInvoice) *PurchaseInvoiceCancelledEvent {
	return &PurchaseInvoiceCancelledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(
			EventTypePurchaseInvoiceCancelled, "PurchaseInvoice", invoice.ID, invoice.TenantID),
		Number: invoice.Number,
		Reason: invoice.CancelReason,
	}
}

package trade

import (
	"github.com/bizledger/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Event type constants for sales invoice events
const (
	EventTypeSalesInvoiceCreated   = "trade.sales_invoice.created"
	EventTypeSalesInvoicePaid      = "trade.sales_invoice.paid"
	EventTypeSalesInvoiceCancelled = "trade.sales_invoice.cancelled"
)

// SalesInvoiceCreatedEvent is raised when a sales invoice is created
type SalesInvoiceCreatedEvent struct {
	shared.BaseDomainEvent
	Number      string          `json:"number"`
	WarehouseID uuid.UUID       `json:"warehouse_id"`
	CustomerID  *uuid.UUID      `json:"customer_id,omitempty"`
	Total       decimal.Decimal `json:"total"`
}

// NewSalesInvoiceCreatedEvent creates a new SalesInvoiceCreatedEvent
func NewSalesInvoiceCreatedEvent(invoice *SalesInvoice) *SalesInvoiceCreatedEvent {
	return &SalesInvoiceCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(
			EventTypeSalesInvoiceCreated, "SalesInvoice", invoice.ID, invoice.TenantID),
		Number:      invoice.Number,
		WarehouseID: invoice.WarehouseID,
		CustomerID:  invoice.CustomerID,
		Total:       invoice.Total,
	}
}

// SalesInvoicePaidEvent is raised when a sales invoice is marked paid
type SalesInvoicePaidEvent struct {
	shared.BaseDomainEvent
	Number        string          `json:"number"`
	CustomerID    *uuid.UUID      `json:"customer_id,omitempty"`
	CustomerName  string          `json:"customer_name,omitempty"`
	PaymentMethod PaymentMethod   `json:"payment_method"`
	Total         decimal.Decimal `json:"total"`
}

// NewSalesInvoicePaidEvent creates a new SalesInvoicePaidEvent
func NewSalesInvoicePaidEvent(invoice *SalesInvoice) *SalesInvoicePaidEvent {
	var method PaymentMethod
	if invoice.PaymentMethod != nil {
		method = *invoice.PaymentMethod
	}
	return &SalesInvoicePaidEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(
			EventTypeSalesInvoicePaid, "SalesInvoice", invoice.ID, invoice.TenantID),
		Number:        invoice.Number,
		CustomerID:    invoice.CustomerID,
		CustomerName:  invoice.CustomerName,
		PaymentMethod: method,
		Total:         invoice.Total,
	}
}

// SalesInvoiceCancelledEvent is raised when a sales invoice is cancelled
type SalesInvoiceCancelledEvent struct {
	shared.BaseDomainEvent
	Number string `json:"number"`
	Reason string `json:"reason"`
}

// NewSalesInvoiceCancelledEvent creates a new SalesInvoiceCancelledEvent
func NewSalesInvoiceCancelledEvent(invoice *SalesInvoice) *SalesInvoiceCancelledEvent {
	return &SalesInvoiceCancelledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(
			EventTypeSalesInvoiceCancelled, "SalesInvoice", invoice.ID, invoice.TenantID),
		Number: invoice.Number,
		Reason: invoice.CancelReason,
	}
}

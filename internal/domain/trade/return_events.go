package trade

import (
	"github.com/bizledger/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Event type constants for return events
const (
	EventTypeReturnCreated  = "trade.return.created"
	EventTypeReturnApproved = "trade.return.approved"
	EventTypeReturnRefunded = "trade.return.refunded"
	EventTypeReturnRejected = "trade.return.rejected"
)

// ReturnCreatedEvent is raised when a return is created
type ReturnCreatedEvent struct {
	shared.BaseDomainEvent
	Number         string    `json:"number"`
	SalesInvoiceID uuid.UUID `json:"sales_invoice_id"`
	WarehouseID    uuid.UUID `json:"warehouse_id"`
}

// NewReturnCreatedEvent creates a new ReturnCreatedEvent
func NewReturnCreatedEvent(ret *Return) *ReturnCreatedEvent {
	return &ReturnCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(
			EventTypeReturnCreated, "Return", ret.ID, ret.TenantID),
		Number:         ret.Number,
		SalesInvoiceID: ret.SalesInvoiceID,
		WarehouseID:    ret.WarehouseID,
	}
}

// ReturnApprovedEvent is raised when a return is approved
type ReturnApprovedEvent struct {
	shared.BaseDomainEvent
	Number      string          `json:"number"`
	RefundTotal decimal.Decimal `json:"refund_total"`
}

// NewReturnApprovedEvent creates a new ReturnApprovedEvent
func NewReturnApprovedEvent(ret *Return) *ReturnApprovedEvent {
	return &ReturnApprovedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(
			EventTypeReturnApproved, "Return", ret.ID, ret.TenantID),
		Number:      ret.Number,
		RefundTotal: ret.RefundTotal,
	}
}

// ReturnRefundedEvent is raised when a refund is recorded
type ReturnRefundedEvent struct {
	shared.BaseDomainEvent
	Number      string          `json:"number"`
	RefundTotal decimal.Decimal `json:"refund_total"`
}

// NewReturnRefundedEvent creates a new ReturnRefundedEvent
func NewReturnRefundedEvent(ret *Return) *ReturnRefundedEvent {
	return &ReturnRefundedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(
			EventTypeReturnRefunded, "Return", ret.ID, ret.TenantID),
		Number:      ret.Number,
		RefundTotal: ret.RefundTotal,
	}
}

// ReturnRejectedEvent is raised when a return is rejected
type ReturnRejectedEvent struct {
	shared.BaseDomainEvent
	Number string `json:"number"`
	Reason string `json:"reason"`
}

// NewReturnRejectedEvent creates a new ReturnRejectedEvent
func NewReturnRejectedEvent(ret *Return) *ReturnRejectedEvent {
	return &ReturnRejectedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(
			EventTypeReturnRejected, "Return", ret.ID, ret.TenantID),
		Number: ret.Number,
		Reason: ret.RejectReason,
	}
}

package trade

import (
	"context"

	"github.com/bizledger/backend/internal/domain/shared"
	"github.com/bizledger/backend/internal/domain/trade"
	"go.uber.org/zap"
)

// ReceiptSender delivers a payment receipt for a settled invoice
type ReceiptSender interface {
	SendReceipt(ctx context.Context, event *trade.SalesInvoicePaidEvent) error
}

// InvoicePaidHandler reacts to paid sales invoices by sending the customer
// receipt. Event IDs are marked in the idempotency store so a redelivered
// event never produces a second receipt.
type InvoicePaidHandler struct {
	sender      ReceiptSender
	idempotency shared.IdempotencyStore
	cfg         shared.IdempotencyConfig
	logger      *zap.Logger
}

// NewInvoicePaidHandler creates a new invoice paid handler
func NewInvoicePaidHandler(sender ReceiptSender, logger *zap.Logger) *InvoicePaidHandler {
	return &InvoicePaidHandler{
		sender: sender,
		cfg:    shared.DefaultIdempotencyConfig(),
		logger: logger,
	}
}

// SetIdempotencyStore enables duplicate event detection
func (h *InvoicePaidHandler) SetIdempotencyStore(store shared.IdempotencyStore, cfg shared.IdempotencyConfig) {
	h.idempotency = store
	h.cfg = cfg
}

// EventTypes returns the event types this handler subscribes to
func (h *InvoicePaidHandler) EventTypes() []string {
	return []string{trade.EventTypeSalesInvoicePaid}
}

// Handle processes a paid invoice event
func (h *InvoicePaidHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	paid, ok := event.(*trade.SalesInvoicePaidEvent)
	if !ok {
		return nil
	}

	if h.idempotency != nil && h.cfg.Enabled {
		fresh, err := h.idempotency.MarkProcessed(ctx, "receipt:"+event.EventID().String(), h.cfg.TTL)
		if err != nil {
			h.logger.Warn("idempotency check failed, processing anyway",
				zap.String("event_id", event.EventID().String()),
				zap.Error(err))
		} else if !fresh {
			h.logger.Debug("skipping duplicate paid event",
				zap.String("event_id", event.EventID().String()),
				zap.String("invoice_number", paid.Number))
			return nil
		}
	}

	if err := h.sender.SendReceipt(ctx, paid); err != nil {
		h.logger.Error("failed to send receipt",
			zap.String("invoice_number", paid.Number),
			zap.Error(err))
		return err
	}

	h.logger.Info("receipt sent",
		zap.String("invoice_number", paid.Number),
		zap.String("payment_method", paid.PaymentMethod.String()))
	return nil
}

var _ shared.EventHandler = (*InvoicePaidHandler)(nil)

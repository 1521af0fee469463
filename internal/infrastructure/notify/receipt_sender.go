// Package notify provides outbound notification adapters for domain event
// handlers. The default implementation writes structured log entries; a real
// deployment swaps in an email or messaging gateway behind the same interface.
package notify

import (
	"context"

	"github.com/bizledger/backend/internal/domain/trade"
	"go.uber.org/zap"
)

// LogReceiptSender records payment receipts to the application log.
type LogReceiptSender struct {
	logger *zap.Logger
}

// NewLogReceiptSender creates a receipt sender backed by the given logger.
func NewLogReceiptSender(logger *zap.Logger) *LogReceiptSender {
	return &LogReceiptSender{logger: logger}
}

// SendReceipt emits a receipt record for a paid sales invoice.
func (s *LogReceiptSender) SendReceipt(ctx context.Context, event *trade.SalesInvoicePaidEvent) error {
	fields := []zap.Field{
		zap.String("tenant_id", event.TenantID().String()),
		zap.String("invoice_number", event.Number),
		zap.String("payment_method", event.PaymentMethod.String()),
		zap.String("total", event.Total.String()),
	}
	if event.CustomerID != nil {
		fields = append(fields, zap.String("customer_id", event.CustomerID.String()))
	}
	if event.CustomerName != "" {
		fields = append(fields, zap.String("customer_name", event.CustomerName))
	}
	s.logger.Info("payment receipt issued", fields...)
	return nil
}

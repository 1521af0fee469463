package event

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHandlerRegistryTypedSubscriptions(t *testing.T) {
	registry := NewHandlerRegistry()
	handler := newCaptureHandler("trade.sales_invoice.issued", "trade.sales_invoice.paid")
	registry.Register(handler, "trade.sales_invoice.issued", "trade.sales_invoice.paid")

	assert.Len(t, registry.GetHandlers("trade.sales_invoice.issued"), 1)
	assert.Len(t, registry.GetHandlers("trade.sales_invoice.paid"), 1)
	assert.Empty(t, registry.GetHandlers("trade.sales_invoice.cancelled"))
}

func TestHandlerRegistryWildcard(t *testing.T) {
	registry := NewHandlerRegistry()
	wildcard := newCaptureHandler()
	registry.Register(wildcard)

	assert.Len(t, registry.GetHandlers("trade.transfer.dispatched"), 1)
	assert.Len(t, registry.GetHandlers("inventory.stock.adjusted"), 1)
}

func TestHandlerRegistryTypedBeforeWildcard(t *testing.T) {
	registry := NewHandlerRegistry()
	typed := newCaptureHandler("trade.return.refunded")
	wildcard := newCaptureHandler()
	registry.Register(wildcard)
	registry.Register(typed, "trade.return.refunded")

	handlers := registry.GetHandlers("trade.return.refunded")
	assert.Len(t, handlers, 2)
	assert.Same(t, typed, handlers[0].(*captureHandler))
	assert.Same(t, wildcard, handlers[1].(*captureHandler))

	handlers = registry.GetHandlers("trade.return.rejected")
	assert.Len(t, handlers, 1)
	assert.Same(t, wildcard, handlers[0].(*captureHandler))
}

func TestHandlerRegistryUnregister(t *testing.T) {
	t.Run("removes only the target handler", func(t *testing.T) {
		registry := NewHandlerRegistry()
		gone := newCaptureHandler("trade.sales_invoice.issued")
		kept := newCaptureHandler("trade.sales_invoice.issued")
		registry.Register(gone, "trade.sales_invoice.issued")
		registry.Register(kept, "trade.sales_invoice.issued")

		registry.Unregister(gone)

		handlers := registry.GetHandlers("trade.sales_invoice.issued")
		assert.Len(t, handlers, 1)
		assert.Same(t, kept, handlers[0].(*captureHandler))
	})

	t.Run("removes from every subscribed type", func(t *testing.T) {
		registry := NewHandlerRegistry()
		handler := newCaptureHandler("trade.transfer.created", "trade.transfer.received")
		registry.Register(handler, "trade.transfer.created", "trade.transfer.received")

		registry.Unregister(handler)

		assert.Empty(t, registry.GetHandlers("trade.transfer.created"))
		assert.Empty(t, registry.GetHandlers("trade.transfer.received"))
	})

	t.Run("removes a wildcard handler", func(t *testing.T) {
		registry := NewHandlerRegistry()
		wildcard := newCaptureHandler()
		registry.Register(wildcard)

		registry.Unregister(wildcard)

		assert.Empty(t, registry.GetHandlers("trade.sales_invoice.issued"))
	})
}

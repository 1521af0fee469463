package event

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/bizledger/backend/internal/domain/shared"
	"github.com/bizledger/backend/internal/infrastructure/cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// erringStore fails every idempotency operation.
type erringStore struct{}

func (erringStore) MarkProcessed(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	return false, assert.AnError
}

func (erringStore) IsProcessed(ctx context.Context, key string) (bool, error) {
	return false, assert.AnError
}

func (erringStore) Remember(ctx context.Context, key, value string, ttl time.Duration) error {
	return assert.AnError
}

func (erringStore) Recall(ctx context.Context, key string) (string, error) {
	return "", assert.AnError
}

func (erringStore) Close() error { return nil }

func newIdempotencyTestStore(t *testing.T) *cache.InMemoryIdempotencyStore {
	t.Helper()
	store := cache.NewInMemoryIdempotencyStore()
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestIdempotentHandlerFirstDelivery(t *testing.T) {
	store := newIdempotencyTestStore(t)
	inner := newCaptureHandler("trade.sales_invoice.paid")
	handler := NewIdempotentHandler(inner, store, zap.NewNop())

	err := handler.Handle(context.Background(), newInvoiceIssuedEvent("trade.sales_invoice.paid"))

	require.NoError(t, err)
	assert.Len(t, inner.seenEvents(), 1)
	assert.Equal(t, int64(1), handler.GetMetrics().EventsProcessed.Load())
	assert.Equal(t, int64(0), handler.GetMetrics().EventsDuplicate.Load())
}

func TestIdempotentHandlerSkipsRedelivery(t *testing.T) {
	store := newIdempotencyTestStore(t)
	inner := newCaptureHandler("trade.sales_invoice.paid")
	handler := NewIdempotentHandler(inner, store, zap.NewNop())

	evt := newInvoiceIssuedEvent("trade.sales_invoice.paid")
	for i := 0; i < 3; i++ {
		require.NoError(t, handler.Handle(context.Background(), evt))
	}

	assert.Len(t, inner.seenEvents(), 1)
	assert.Equal(t, int64(1), handler.GetMetrics().EventsProcessed.Load())
	assert.Equal(t, int64(2), handler.GetMetrics().EventsDuplicate.Load())
}

func TestIdempotentHandlerPropagatesHandlerError(t *testing.T) {
	store := newIdempotencyTestStore(t)
	inner := newCaptureHandler("trade.sales_invoice.paid")
	inner.err = assert.AnError
	handler := NewIdempotentHandler(inner, store, zap.NewNop())

	evt := newInvoiceIssuedEvent("trade.sales_invoice.paid")
	err := handler.Handle(context.Background(), evt)

	require.ErrorIs(t, err, assert.AnError)
	assert.Equal(t, int64(1), handler.GetMetrics().EventsFailed.Load())
	assert.Equal(t, int64(0), handler.GetMetrics().EventsProcessed.Load())

	// The processed mark stays in place, so an immediate redelivery is
	// absorbed until the TTL lapses.
	inner.err = nil
	require.NoError(t, handler.Handle(context.Background(), evt))
	assert.Len(t, inner.seenEvents(), 1)
}

func TestIdempotentHandlerProcessesWhenStoreFails(t *testing.T) {
	inner := newCaptureHandler("trade.sales_invoice.paid")
	handler := NewIdempotentHandler(inner, erringStore{}, zap.NewNop())

	err := handler.Handle(context.Background(), newInvoiceIssuedEvent("trade.sales_invoice.paid"))

	require.NoError(t, err)
	assert.Len(t, inner.seenEvents(), 1)
}

func TestIdempotentHandlerDisabled(t *testing.T) {
	store := newIdempotencyTestStore(t)
	inner := newCaptureHandler("trade.sales_invoice.paid")
	handler := NewIdempotentHandler(inner, store, zap.NewNop(),
		WithIdempotencyConfig(shared.IdempotencyConfig{Enabled: false}),
	)

	evt := newInvoiceIssuedEvent("trade.sales_invoice.paid")
	for i := 0; i < 3; i++ {
		require.NoError(t, handler.Handle(context.Background(), evt))
	}

	assert.Len(t, inner.seenEvents(), 3)
	assert.Equal(t, int64(0), handler.GetMetrics().EventsProcessed.Load())
}

func TestIdempotentHandlerEventTypes(t *testing.T) {
	store := newIdempotencyTestStore(t)
	inner := newCaptureHandler("trade.sales_invoice.paid", "trade.return.refunded")
	handler := NewIdempotentHandler(inner, store, zap.NewNop())

	assert.Equal(t, []string{"trade.sales_invoice.paid", "trade.return.refunded"}, handler.EventTypes())
}

func TestIdempotentHandlerConcurrentRedelivery(t *testing.T) {
	store := newIdempotencyTestStore(t)
	inner := newCaptureHandler("trade.sales_invoice.paid")
	handler := NewIdempotentHandler(inner, store, zap.NewNop())

	evt := newInvoiceIssuedEvent("trade.sales_invoice.paid")
	const deliveries = 50

	var wg sync.WaitGroup
	wg.Add(deliveries)
	for i := 0; i < deliveries; i++ {
		go func() {
			defer wg.Done()
			assert.NoError(t, handler.Handle(context.Background(), evt))
		}()
	}
	wg.Wait()

	assert.Len(t, inner.seenEvents(), 1)
	assert.Equal(t, int64(1), handler.GetMetrics().EventsProcessed.Load())
	assert.Equal(t, int64(deliveries-1), handler.GetMetrics().EventsDuplicate.Load())
}

func TestIdempotencyMetricsStats(t *testing.T) {
	metrics := &IdempotencyMetrics{}
	metrics.EventsProcessed.Add(10)
	metrics.EventsDuplicate.Add(5)
	metrics.EventsFailed.Add(2)

	stats := metrics.Stats()

	assert.Equal(t, int64(10), stats.EventsProcessed)
	assert.Equal(t, int64(5), stats.EventsDuplicate)
	assert.Equal(t, int64(2), stats.EventsFailed)
}

package telemetry

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"go.opentelemetry.io/otel/metric"
)

// BusinessMetrics tracks document issuance, payment activity and stock
// health across tenants.
type BusinessMetrics struct {
	meter  metric.Meter
	logger *zap.Logger

	documentIssuedTotal *Counter
	documentAmountTotal *Counter
	paymentTotal        *Counter

	lowStockCount          *Gauge
	pendingInspectionCount *Gauge

	stopChan    chan struct{}
	stopOnce    sync.Once
	collectOnce sync.Once

	stockProvider StockMetricsProvider
}

// StockMetricsProvider supplies stock state for periodic gauge collection
// without coupling the telemetry layer to the inventory domain.
type StockMetricsProvider interface {
	// GetLowStockCount counts products below their minimum threshold.
	GetLowStockCount(ctx context.Context, tenantID uuid.UUID) (int64, error)

	// GetPendingInspectionCount counts inspection lots awaiting release.
	GetPendingInspectionCount(ctx context.Context, tenantID uuid.UUID) (int64, error)
}

// TenantProvider supplies the tenants to collect gauges for.
type TenantProvider interface {
	GetActiveTenantIDs(ctx context.Context) ([]uuid.UUID, error)
}

type BusinessMetricsConfig struct {
	Meter           metric.Meter
	Logger          *zap.Logger
	CollectInterval time.Duration
	StockProvider   StockMetricsProvider
}

func NewBusinessMetrics(cfg BusinessMetricsConfig) (*BusinessMetrics, error) {
	if cfg.Meter == nil {
		return nil, ErrMeterNil
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	bm := &BusinessMetrics{
		meter:         cfg.Meter,
		logger:        logger,
		stopChan:      make(chan struct{}),
		stockProvider: cfg.StockProvider,
	}

	var err error
	counter := func(name, desc, unit string) *Counter {
		if err != nil {
			return nil
		}
		var c *Counter
		c, err = NewCounter(cfg.Meter, name, desc, unit)
		return c
	}
	gauge := func(name, desc, unit string) *Gauge {
		if err != nil {
			return nil
		}
		var g *Gauge
		g, err = NewGauge(cfg.Meter, name, desc, unit)
		return g
	}

	bm.documentIssuedTotal = counter("ledger_document_issued_total",
		"Total number of documents issued", "{documents}")
	bm.documentAmountTotal = counter("ledger_document_amount_total",
		"Total document amount in cents", "{cents}")
	bm.paymentTotal = counter("ledger_payment_total",
		"Total number of invoice payments recorded", "{payments}")
	bm.lowStockCount = gauge("ledger_stock_low_count",
		"Number of products below minimum stock threshold", "{products}")
	bm.pendingInspectionCount = gauge("ledger_inspection_pending_count",
		"Number of inspection lots awaiting release", "{lots}")
	if err != nil {
		return nil, err
	}

	return bm, nil
}

// RecordDocumentIssued counts a document creation, labeled by tenant and
// document type.
func (bm *BusinessMetrics) RecordDocumentIssued(ctx context.Context, tenantID uuid.UUID, documentType string) {
	bm.documentIssuedTotal.Inc(ctx,
		AttrTenantID.String(tenantID.String()),
		AttrDocumentType.String(documentType),
	)
}

// RecordDocumentAmount accumulates document value in cents.
func (bm *BusinessMetrics) RecordDocumentAmount(ctx context.Context, tenantID uuid.UUID, documentType string, amountCents int64) {
	bm.documentAmountTotal.Add(ctx, amountCents,
		AttrTenantID.String(tenantID.String()),
		AttrDocumentType.String(documentType),
	)
}

// RecordDocumentWithAmount records both the issuance count and the amount.
func (bm *BusinessMetrics) RecordDocumentWithAmount(ctx context.Context, tenantID uuid.UUID, documentType string, amount decimal.Decimal) {
	bm.RecordDocumentIssued(ctx, tenantID, documentType)
	bm.RecordDocumentAmount(ctx, tenantID, documentType, amount.Mul(decimal.NewFromInt(100)).IntPart())
}

// PaymentStatus labels the outcome of a payment.
type PaymentStatus string

const (
	PaymentStatusSuccess PaymentStatus = "success"
	PaymentStatusFailed  PaymentStatus = "failed"
)

func (bm *BusinessMetrics) RecordPayment(ctx context.Context, tenantID uuid.UUID, paymentMethod string, status PaymentStatus) {
	bm.paymentTotal.Inc(ctx,
		AttrTenantID.String(tenantID.String()),
		AttrPaymentMethod.String(paymentMethod),
		AttrPaymentStatus.String(string(status)),
	)
}

func (bm *BusinessMetrics) RecordLowStockCount(ctx context.Context, tenantID uuid.UUID, count int64) {
	bm.lowStockCount.Record(ctx, count, AttrTenantID.String(tenantID.String()))
}

func (bm *BusinessMetrics) RecordPendingInspectionCount(ctx context.Context, tenantID uuid.UUID, count int64) {
	bm.pendingInspectionCount.Record(ctx, count, AttrTenantID.String(tenantID.String()))
}

// StartPeriodicCollection refreshes the stock gauges for every active tenant
// on the given interval (5 minutes when zero). Non-blocking; Stop() or
// context cancellation ends the loop. Starting twice is a no-op.
func (bm *BusinessMetrics) StartPeriodicCollection(ctx context.Context, tenantProvider TenantProvider, interval time.Duration) {
	bm.collectOnce.Do(func() {
		if interval <= 0 {
			interval = 5 * time.Minute
		}

		go func() {
			ticker := time.NewTicker(interval)
			defer ticker.Stop()

			bm.collectStockMetrics(ctx, tenantProvider)
			for {
				select {
				case <-bm.stopChan:
					bm.logger.Info("Stopping periodic business metrics collection")
					return
				case <-ctx.Done():
					bm.logger.Info("Context cancelled, stopping periodic business metrics collection")
					return
				case <-ticker.C:
					bm.collectStockMetrics(ctx, tenantProvider)
				}
			}
		}()
	})
}

func (bm *BusinessMetrics) collectStockMetrics(ctx context.Context, tenantProvider TenantProvider) {
	if bm.stockProvider == nil {
		return
	}

	tenantIDs, err := tenantProvider.GetActiveTenantIDs(ctx)
	if err != nil {
		bm.logger.Error("Failed to get tenant IDs for metrics collection", zap.Error(err))
		return
	}

	// a failing tenant never blocks the others
	for _, tenantID := range tenantIDs {
		if count, err := bm.stockProvider.GetLowStockCount(ctx, tenantID); err != nil {
			bm.logger.Warn("Failed to get low stock count for tenant",
				zap.String("tenant_id", tenantID.String()), zap.Error(err))
		} else {
			bm.RecordLowStockCount(ctx, tenantID, count)
		}

		if count, err := bm.stockProvider.GetPendingInspectionCount(ctx, tenantID); err != nil {
			bm.logger.Warn("Failed to get pending inspection count for tenant",
				zap.String("tenant_id", tenantID.String()), zap.Error(err))
		} else {
			bm.RecordPendingInspectionCount(ctx, tenantID, count)
		}
	}
}

// Stop ends the periodic collection loop.
func (bm *BusinessMetrics) Stop() {
	bm.stopOnce.Do(func() {
		close(bm.stopChan)
	})
}

// ErrMeterNil is returned when BusinessMetricsConfig carries no meter.
var ErrMeterNil = &MetricsError{Op: "NewBusinessMetrics", Err: "meter cannot be nil"}

type MetricsError struct {
	Op  string
	Err string
}

func (e *MetricsError) Error() string {
	return e.Op + ": " + e.Err
}

package telemetry

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func newDBMetricsReader(t *testing.T) (*sdkmetric.ManualReader, *sdkmetric.MeterProvider) {
	t.Helper()
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })
	return reader, provider
}

func collectedMetric(t *testing.T, reader *sdkmetric.ManualReader, name string) *metricdata.Metrics {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))
	for _, sm := range rm.ScopeMetrics {
		for i := range sm.Metrics {
			if sm.Metrics[i].Name == name {
				return &sm.Metrics[i]
			}
		}
	}
	return nil
}

func TestDefaultDBMetricsConfig(t *testing.T) {
	cfg := DefaultDBMetricsConfig()

	assert.True(t, cfg.Enabled)
	assert.Equal(t, 200*time.Millisecond, cfg.SlowQueryThreshold)
	assert.Equal(t, 15*time.Second, cfg.PoolStatsInterval)
}

func TestRecordQueryCountsAndTimes(t *testing.T) {
	reader, provider := newDBMetricsReader(t)
	metrics, err := NewDBMetrics(provider.Meter("db.client"), DefaultDBMetricsConfig(), zap.NewNop())
	require.NoError(t, err)

	ctx := context.Background()
	metrics.RecordQuery(ctx, "SELECT", "sales_invoices", 5*time.Millisecond, nil)
	metrics.RecordQuery(ctx, "insert", "stock_movements", 8*time.Millisecond, nil)

	total := collectedMetric(t, reader, "db_query_total")
	require.NotNil(t, total)
	sum := total.Data.(metricdata.Sum[int64])
	// lowercased operation normalized, so SELECT and INSERT each get a point
	require.Len(t, sum.DataPoints, 2)

	duration := collectedMetric(t, reader, "db_query_duration_seconds")
	require.NotNil(t, duration)
}

func TestRecordQueryFlagsSlowQueries(t *testing.T) {
	reader, provider := newDBMetricsReader(t)
	metrics, err := NewDBMetrics(provider.Meter("db.client"), DBMetricsConfig{
		Enabled:            true,
		SlowQueryThreshold: 100 * time.Millisecond,
	}, zap.NewNop())
	require.NoError(t, err)

	ctx := context.Background()
	metrics.RecordQuery(ctx, "SELECT", "stock_items", 40*time.Millisecond, nil)
	metrics.RecordQuery(ctx, "SELECT", "stock_movements", 250*time.Millisecond, nil)
	metrics.RecordQuery(ctx, "SELECT", "", 300*time.Millisecond, nil)

	slow := collectedMetric(t, reader, "db_slow_query_total")
	require.NotNil(t, slow)
	sum := slow.Data.(metricdata.Sum[int64])

	var totalSlow int64
	tables := map[string]bool{}
	for _, dp := range sum.DataPoints {
		totalSlow += dp.Value
		if v, ok := dp.Attributes.Value("db.table"); ok {
			tables[v.Emit()] = true
		}
	}
	assert.Equal(t, int64(2), totalSlow, "only queries over the threshold count as slow")
	assert.True(t, tables["stock_movements"])
	assert.True(t, tables["unknown"], "empty table name falls back to unknown")
}

func TestPoolStatsCollection(t *testing.T) {
	reader, provider := newDBMetricsReader(t)

	mockDB, _, err := sqlmock.New()
	require.NoError(t, err)
	defer mockDB.Close()

	metrics, err := NewDBMetrics(provider.Meter("db.client"), DBMetricsConfig{
		Enabled:           true,
		PoolStatsInterval: 20 * time.Millisecond,
	}, zap.NewNop())
	require.NoError(t, err)
	metrics.SetSQLDB(mockDB)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	metrics.StartPoolStatsCollection(ctx)
	time.Sleep(50 * time.Millisecond)
	metrics.Stop()

	assert.NotNil(t, collectedMetric(t, reader, "db_pool_connections"))
	assert.NotNil(t, collectedMetric(t, reader, "db_pool_connections_max"))
}

func TestPoolStatsCollectionWithoutDB(t *testing.T) {
	_, provider := newDBMetricsReader(t)
	metrics, err := NewDBMetrics(provider.Meter("db.client"), DefaultDBMetricsConfig(), zap.NewNop())
	require.NoError(t, err)

	// no SetSQLDB: collection refuses to start and Stop stays safe
	metrics.StartPoolStatsCollection(context.Background())
	metrics.Stop()
}

func TestStopIsIdempotent(t *testing.T) {
	_, provider := newDBMetricsReader(t)

	mockDB, _, err := sqlmock.New()
	require.NoError(t, err)
	defer mockDB.Close()

	metrics, err := NewDBMetrics(provider.Meter("db.client"), DBMetricsConfig{
		Enabled:           true,
		PoolStatsInterval: 50 * time.Millisecond,
	}, zap.NewNop())
	require.NoError(t, err)
	metrics.SetSQLDB(mockDB)
	metrics.StartPoolStatsCollection(context.Background())

	metrics.Stop()
	assert.NotPanics(t, func() { metrics.Stop() })
}

func TestDBMetricsPluginRegisters(t *testing.T) {
	_, provider := newDBMetricsReader(t)
	metrics, err := NewDBMetrics(provider.Meter("db.client"), DefaultDBMetricsConfig(), zap.NewNop())
	require.NoError(t, err)

	plugin := NewDBMetricsPlugin(metrics, zap.NewNop())
	assert.Equal(t, "db_metrics", plugin.Name())

	mockDB, _, err := sqlmock.New()
	require.NoError(t, err)
	defer mockDB.Close()

	gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: mockDB}), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, plugin.Initialize(gormDB))
}

func TestSQLOperation(t *testing.T) {
	tests := []struct {
		sql  string
		want string
	}{
		{"SELECT * FROM sales_invoices WHERE tenant_id = $1", "SELECT"},
		{"  select number from document_sequences", "SELECT"},
		{"INSERT INTO stock_movements (quantity) VALUES ($1)", "INSERT"},
		{"update stock_items set quantity = quantity + $1", "UPDATE"},
		{"DELETE FROM sales_invoice_items WHERE invoice_id = $1", "DELETE"},
		{"TRUNCATE TABLE stock_movements", "OTHER"},
		{"", "OTHER"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, sqlOperation(tt.sql), tt.sql)
	}
}

func TestRegisterDBMetrics(t *testing.T) {
	logger := zap.NewNop()

	newGorm := func(t *testing.T) *gorm.DB {
		mockDB, _, err := sqlmock.New()
		require.NoError(t, err)
		t.Cleanup(func() { _ = mockDB.Close() })
		gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: mockDB}), &gorm.Config{})
		require.NoError(t, err)
		return gormDB
	}

	t.Run("disabled returns nil", func(t *testing.T) {
		metrics, err := RegisterDBMetrics(newGorm(t), nil, DBMetricsConfig{Enabled: false}, logger)
		require.NoError(t, err)
		assert.Nil(t, metrics)
	})

	t.Run("nil provider returns nil", func(t *testing.T) {
		metrics, err := RegisterDBMetrics(newGorm(t), nil, DBMetricsConfig{Enabled: true}, logger)
		require.NoError(t, err)
		assert.Nil(t, metrics)
	})

	t.Run("enabled registers the plugin", func(t *testing.T) {
		_, sdkProvider := newDBMetricsReader(t)
		mp := &MeterProvider{
			provider: sdkProvider,
			logger:   logger,
			config:   MetricsConfig{Enabled: true},
		}

		metrics, err := RegisterDBMetrics(newGorm(t), mp, DefaultDBMetricsConfig(), logger)
		require.NoError(t, err)
		require.NotNil(t, metrics)
		metrics.Stop()
	})
}

package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace/noop"
)

func recordSpans(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()

	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	t.Cleanup(func() {
		_ = tp.Shutdown(t.Context())
	})

	return sr
}

// tracedInvoiceRouter mounts the tracing chain the server configures in front
// of a stand-in invoice listing route.
func tracedInvoiceRouter(status int, extra ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(TracingWithConfig(TracingConfig{Enabled: true, ServiceName: "bizledger-backend"}))
	for _, mw := range extra {
		router.Use(mw)
	}
	router.GET("/api/v1/trade/sales-invoices", func(c *gin.Context) {
		c.JSON(status, gin.H{"items": []string{}})
	})
	return router
}

func listInvoices(router *gin.Engine, headers map[string]string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/api/v1/trade/sales-invoices", nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	router.ServeHTTP(w, req)
	return w
}

func invoiceSpan(t *testing.T, sr *tracetest.SpanRecorder) sdktrace.ReadOnlySpan {
	t.Helper()
	for _, span := range sr.Ended() {
		if span.Name() == "GET /api/v1/trade/sales-invoices" {
			return span
		}
	}
	t.Fatal("no span recorded for the invoice route")
	return nil
}

func spanAttr(span sdktrace.ReadOnlySpan, key string) (string, bool) {
	for _, attr := range span.Attributes() {
		if string(attr.Key) == key {
			return attr.Value.AsString(), true
		}
	}
	return "", false
}

func TestTracingDisabledPassesThrough(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(TracingWithConfig(TracingConfig{Enabled: false}))
	router.GET("/api/v1/trade/sales-invoices", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := listInvoices(router, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestTracingNamesSpanAfterRoute(t *testing.T) {
	sr := recordSpans(t)
	router := tracedInvoiceRouter(http.StatusOK)

	w := listInvoices(router, nil)

	require.Equal(t, http.StatusOK, w.Code)
	invoiceSpan(t, sr)
}

func TestSpanAnnotatorRecordsIdentityAttributes(t *testing.T) {
	sr := recordSpans(t)
	tenantID := uuid.NewString()
	userID := uuid.NewString()

	router := tracedInvoiceRouter(http.StatusOK,
		func(c *gin.Context) {
			c.Set(JWTTenantIDKey, tenantID)
			c.Set(JWTUserIDKey, userID)
			c.Next()
		},
		SpanAnnotator(),
	)

	w := listInvoices(router, map[string]string{"X-Request-ID": "req-inv-list-7f3a"})
	require.Equal(t, http.StatusOK, w.Code)

	span := invoiceSpan(t, sr)
	got, ok := spanAttr(span, "tenant_id")
	require.True(t, ok)
	assert.Equal(t, tenantID, got)
	got, ok = spanAttr(span, "user_id")
	require.True(t, ok)
	assert.Equal(t, userID, got)
	got, ok = spanAttr(span, "request_id")
	require.True(t, ok)
	assert.Equal(t, "req-inv-list-7f3a", got)
}

func TestSpanAnnotatorTenantHeaderFallback(t *testing.T) {
	sr := recordSpans(t)
	tenantID := uuid.NewString()

	router := tracedInvoiceRouter(http.StatusOK, SpanAnnotator())

	w := listInvoices(router, map[string]string{"X-Tenant-ID": tenantID})
	require.Equal(t, http.StatusOK, w.Code)

	got, ok := spanAttr(invoiceSpan(t, sr), "tenant_id")
	require.True(t, ok)
	assert.Equal(t, tenantID, got)
}

func TestSpanAnnotatorRejectsMalformedTenantHeader(t *testing.T) {
	tests := []struct {
		name   string
		header string
	}{
		{"markup", "<script>alert(1)</script>"},
		{"not a uuid", "tenant-7"},
		{"unhyphenated uuid", strings.ReplaceAll(uuid.NewString(), "-", "")},
		{"trailing garbage", uuid.NewString() + "0000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sr := recordSpans(t)
			router := tracedInvoiceRouter(http.StatusOK, SpanAnnotator())

			w := listInvoices(router, map[string]string{"X-Tenant-ID": tt.header})
			require.Equal(t, http.StatusOK, w.Code)

			_, ok := spanAttr(invoiceSpan(t, sr), "tenant_id")
			assert.False(t, ok, "malformed tenant header must not reach the span")
		})
	}
}

func TestSpanAnnotatorTruncatesRequestIDHeader(t *testing.T) {
	sr := recordSpans(t)
	router := tracedInvoiceRouter(http.StatusOK, SpanAnnotator())

	w := listInvoices(router, map[string]string{
		"X-Request-ID": strings.Repeat("x", maxTraceRequestIDLength+50),
	})
	require.Equal(t, http.StatusOK, w.Code)

	got, ok := spanAttr(invoiceSpan(t, sr), "request_id")
	require.True(t, ok)
	assert.Len(t, got, maxTraceRequestIDLength)
}

func TestSpanAnnotatorMarksErrorResponses(t *testing.T) {
	tests := []struct {
		status      int
		wantError   bool
		description string
	}{
		{http.StatusOK, false, ""},
		{http.StatusBadRequest, true, "Bad Request"},
		{http.StatusUnauthorized, true, "Unauthorized"},
		{http.StatusNotFound, true, "Not Found"},
		{http.StatusUnprocessableEntity, true, "Unprocessable Entity"},
		{http.StatusInternalServerError, true, "Internal Server Error"},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			sr := recordSpans(t)
			router := tracedInvoiceRouter(tt.status, SpanAnnotator())

			w := listInvoices(router, nil)
			require.Equal(t, tt.status, w.Code)

			span := invoiceSpan(t, sr)
			if !tt.wantError {
				assert.NotEqual(t, codes.Error, span.Status().Code)
				return
			}
			assert.Equal(t, codes.Error, span.Status().Code)
			assert.Equal(t, tt.description, span.Status().Description)
		})
	}
}

func TestSpanAnnotatorWithoutRecordingSpan(t *testing.T) {
	otel.SetTracerProvider(noop.NewTracerProvider())

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(SpanAnnotator())
	router.GET("/api/v1/trade/sales-invoices", func(c *gin.Context) {
		c.Status(http.StatusInternalServerError)
	})

	w := listInvoices(router, nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

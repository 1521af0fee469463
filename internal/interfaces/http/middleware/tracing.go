// Package middleware provides HTTP middleware for the BizLedger API.
package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// maxTraceRequestIDLength caps request IDs copied from headers into
// trace attributes.
const maxTraceRequestIDLength = 128

// TracingConfig configures the tracing middleware.
type TracingConfig struct {
	ServiceName string
	Enabled     bool
}

func DefaultTracingConfig() TracingConfig {
	return TracingConfig{
		ServiceName: "bizledger-backend",
		Enabled:     true,
	}
}

// Tracing returns the OpenTelemetry middleware with defaults. Spans
// are named "METHOD route_pattern". SpanAnnotator must run later in
// the chain to attach the request identity.
func Tracing() gin.HandlerFunc {
	return TracingWithConfig(DefaultTracingConfig())
}

func TracingWithConfig(cfg TracingConfig) gin.HandlerFunc {
	if !cfg.Enabled {
		return func(c *gin.Context) {
			c.Next()
		}
	}
	return otelgin.Middleware(cfg.ServiceName)
}

// SpanAnnotator attaches the tenant, user and request IDs to the
// current span so traces can be filtered per tenant, and marks 4xx
// and 5xx responses as failed. It must sit after the tracing and auth
// middlewares, the span and the JWT claims exist by then.
func SpanAnnotator() gin.HandlerFunc {
	return func(c *gin.Context) {
		span := trace.SpanFromContext(c.Request.Context())
		if span.IsRecording() {
			annotateSpan(c, span)
		}

		c.Next()

		if span.IsRecording() {
			markSpanStatus(span, c.Writer.Status())
		}
	}
}

// annotateSpan copies the request identity onto the span. Header
// fallbacks are validated so unauthenticated callers cannot inject
// arbitrary trace attributes.
func annotateSpan(c *gin.Context, span trace.Span) {
	if requestID := traceRequestID(c); requestID != "" {
		span.SetAttributes(attribute.String("request_id", requestID))
	}
	if tenantID := traceTenantID(c); tenantID != "" {
		span.SetAttributes(attribute.String("tenant_id", tenantID))
	}
	if userID := c.GetString(JWTUserIDKey); userID != "" {
		span.SetAttributes(attribute.String("user_id", userID))
	}
}

func markSpanStatus(span trace.Span, statusCode int) {
	if statusCode < http.StatusBadRequest {
		return
	}
	span.SetStatus(codes.Error, http.StatusText(statusCode))
	span.SetAttributes(attribute.Int("http.status_code", statusCode))
}

// traceRequestID prefers the ID minted by the RequestID middleware
// and truncates header-supplied IDs.
func traceRequestID(c *gin.Context) string {
	if id := c.GetString("request_id"); id != "" {
		return id
	}
	headerID := c.GetHeader("X-Request-ID")
	if len(headerID) > maxTraceRequestIDLength {
		return headerID[:maxTraceRequestIDLength]
	}
	return headerID
}

// traceTenantID trusts the JWT claim; the header fallback must be a
// canonical hyphenated UUID.
func traceTenantID(c *gin.Context) string {
	if id := c.GetString(JWTTenantIDKey); id != "" {
		return id
	}
	headerTenantID := c.GetHeader("X-Tenant-ID")
	if len(headerTenantID) == 36 && uuid.Validate(headerTenantID) == nil {
		return headerTenantID
	}
	return ""
}

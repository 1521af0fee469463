package middleware

import (
	"net/http"
	"strings"

	"github.com/bizledger/backend/internal/infrastructure/logger"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Keys under which the resolved tenant is stored in gin.Context.
const (
	TenantIDKey     = "tenant_id"
	TenantCodeKey   = "tenant_code"
	TenantHeaderKey = "X-Tenant-ID"
)

// TenantInfo is what a validator returns for an active tenant.
type TenantInfo struct {
	ID   uuid.UUID `json:"id"`
	Code string    `json:"code"`
}

// TenantValidator checks that a tenant exists and is active.
type TenantValidator interface {
	ValidateTenant(tenantID string) (*TenantInfo, error)
}

// TenantMiddlewareConfig controls how the tenant is resolved per request.
type TenantMiddlewareConfig struct {
	// HeaderEnabled allows resolution from the X-Tenant-ID header
	HeaderEnabled bool
	// JWTEnabled allows resolution from JWT claims, which requires the
	// auth middleware to have run
	JWTEnabled bool
	// SubdomainEnabled allows resolution from the request subdomain
	SubdomainEnabled bool
	// BaseDomain is the base domain for subdomain extraction (e.g., "bizledger.com")
	BaseDomain string
	// SkipPaths are paths that never need a tenant (health, metrics)
	SkipPaths []string
	// Required rejects requests that resolve no tenant
	Required bool
	// Validator optionally verifies the resolved tenant
	Validator TenantValidator
	Logger    *zap.Logger
}

// DefaultTenantConfig resolves from JWT claims first and the X-Tenant-ID
// header second, with subdomain resolution off.
func DefaultTenantConfig() TenantMiddlewareConfig {
	return TenantMiddlewareConfig{
		HeaderEnabled: true,
		JWTEnabled:    true,
		SkipPaths:     []string{"/health", "/healthz", "/ready", "/metrics", "/api/v1/health"},
		Required:      true,
	}
}

// TenantMiddleware resolves the tenant with the default configuration.
func TenantMiddleware() gin.HandlerFunc {
	return TenantMiddlewareWithConfig(DefaultTenantConfig())
}

// TenantMiddlewareWithConfig resolves the request's tenant and stores it in
// both the gin context and the request context, so repositories scoped by
// tenant see the same value the handler does.
func TenantMiddlewareWithConfig(cfg TenantMiddlewareConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		if tenantPathSkipped(c.Request.URL.Path, cfg.SkipPaths) {
			c.Next()
			return
		}

		tenantID, source := resolveTenantID(c, cfg)

		if tenantID != "" {
			if _, err := uuid.Parse(tenantID); err != nil {
				tenantUnauthorized(c, "Invalid tenant ID format")
				return
			}
		}
		if tenantID == "" && cfg.Required {
			tenantUnauthorized(c, "Tenant identification required")
			return
		}

		var info *TenantInfo
		if tenantID != "" && cfg.Validator != nil {
			var err error
			info, err = cfg.Validator.ValidateTenant(tenantID)
			if err != nil {
				log := cfg.Logger
				if log == nil {
					log = logger.FromContext(c.Request.Context())
				}
				log.Warn("Tenant validation failed",
					zap.String("tenant_id", tenantID),
					zap.Error(err),
				)
				tenantUnauthorized(c, "Invalid or inactive tenant")
				return
			}
		}

		if tenantID != "" {
			c.Set(TenantIDKey, tenantID)
			if info != nil {
				c.Set(TenantCodeKey, info.Code)
			}

			ctx := c.Request.Context()
			ctx, _ = logger.WithTenantID(ctx, logger.FromContext(ctx), tenantID)
			c.Request = c.Request.WithContext(ctx)

			if cfg.Logger != nil {
				cfg.Logger.Debug("Tenant identified",
					zap.String("tenant_id", tenantID),
					zap.String("source", source),
				)
			}
		}

		c.Next()
	}
}

// resolveTenantID tries the enabled sources in priority order:
// JWT claims, then the X-Tenant-ID header, then the subdomain.
func resolveTenantID(c *gin.Context, cfg TenantMiddlewareConfig) (string, string) {
	if cfg.JWTEnabled {
		if v, exists := c.Get(JWTTenantIDKey); exists {
			if id, ok := v.(string); ok && id != "" {
				return id, "jwt"
			}
		}
	}
	if cfg.HeaderEnabled {
		if id := c.GetHeader(TenantHeaderKey); id != "" {
			return id, "header"
		}
	}
	if cfg.SubdomainEnabled && cfg.BaseDomain != "" {
		if id := tenantFromSubdomain(c.Request.Host, cfg.BaseDomain); id != "" {
			return id, "subdomain"
		}
	}
	return "", ""
}

func tenantPathSkipped(path string, skipPaths []string) bool {
	for _, skip := range skipPaths {
		if path == skip || strings.HasPrefix(path, skip+"/") {
			return true
		}
	}
	return false
}

// tenantFromSubdomain maps "acme.bizledger.com" with base "bizledger.com"
// to "acme". A validator then resolves that code to a tenant.
func tenantFromSubdomain(host, baseDomain string) string {
	if idx := strings.Index(host, ":"); idx != -1 {
		host = host[:idx]
	}
	if !strings.HasSuffix(host, baseDomain) {
		return ""
	}
	subdomain := strings.TrimSuffix(host, "."+baseDomain)
	if subdomain == host || subdomain == "" || subdomain == "www" {
		return ""
	}
	return strings.Split(subdomain, ".")[0]
}

func tenantUnauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"success": false,
		"error": gin.H{
			"code":    "UNAUTHORIZED",
			"message": message,
		},
	})
}

// GetTenantID returns the tenant resolved for this request, or "".
func GetTenantID(c *gin.Context) string {
	if v, exists := c.Get(TenantIDKey); exists {
		if id, ok := v.(string); ok {
			return id
		}
	}
	return ""
}

// GetTenantUUID returns the resolved tenant as a UUID, uuid.Nil when absent.
func GetTenantUUID(c *gin.Context) (uuid.UUID, error) {
	id := GetTenantID(c)
	if id == "" {
		return uuid.Nil, nil
	}
	return uuid.Parse(id)
}

// GetTenantCode returns the tenant code set by the validator, or "".
func GetTenantCode(c *gin.Context) string {
	if v, exists := c.Get(TenantCodeKey); exists {
		if code, ok := v.(string); ok {
			return code
		}
	}
	return ""
}

package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/bizledger/backend/internal/domain/shared"
	"github.com/bizledger/backend/internal/interfaces/http/dto"
	"github.com/bizledger/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newHandlerTestContext(t *testing.T) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("GET", "/", nil)
	return c, w
}

func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) dto.Response {
	t.Helper()
	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestGetRequestID(t *testing.T) {
	tests := []struct {
		name       string
		setup      func(*gin.Context)
		expectedID string
	}{
		{
			name: "from context",
			setup: func(c *gin.Context) {
				c.Set(RequestIDKey, "req-from-middleware")
			},
			expectedID: "req-from-middleware",
		},
		{
			name: "from header when context empty",
			setup: func(c *gin.Context) {
				c.Request.Header.Set(RequestIDKey, "req-from-header")
			},
			expectedID: "req-from-header",
		},
		{
			name:       "empty when not set",
			setup:      func(c *gin.Context) {},
			expectedID: "",
		},
		{
			name: "context wins over header",
			setup: func(c *gin.Context) {
				c.Set(RequestIDKey, "req-ctx")
				c.Request.Header.Set(RequestIDKey, "req-header")
			},
			expectedID: "req-ctx",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newHandlerTestContext(t)
			tt.setup(c)
			assert.Equal(t, tt.expectedID, getRequestID(c))
		})
	}
}

func TestGetUserID(t *testing.T) {
	t.Run("from jwt claim", func(t *testing.T) {
		c, _ := newHandlerTestContext(t)
		want := uuid.New()
		c.Set(middleware.JWTUserIDKey, want.String())

		got, err := getUserID(c)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	})

	t.Run("falls back to header", func(t *testing.T) {
		c, _ := newHandlerTestContext(t)
		want := uuid.New()
		c.Request.Header.Set("X-User-ID", want.String())

		got, err := getUserID(c)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	})

	t.Run("errors when absent", func(t *testing.T) {
		c, _ := newHandlerTestContext(t)
		_, err := getUserID(c)
		require.Error(t, err)
	})

	t.Run("errors on malformed id", func(t *testing.T) {
		c, _ := newHandlerTestContext(t)
		c.Request.Header.Set("X-User-ID", "not-a-uuid")
		_, err := getUserID(c)
		require.Error(t, err)
	})
}

func TestGetTenantID(t *testing.T) {
	t.Run("from jwt claim", func(t *testing.T) {
		c, _ := newHandlerTestContext(t)
		want := uuid.New()
		c.Set(middleware.JWTTenantIDKey, want.String())

		got, err := getTenantID(c)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	})

	t.Run("falls back to header", func(t *testing.T) {
		c, _ := newHandlerTestContext(t)
		want := uuid.New()
		c.Request.Header.Set("X-Tenant-ID", want.String())

		got, err := getTenantID(c)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	})

	t.Run("defaults when absent", func(t *testing.T) {
		c, _ := newHandlerTestContext(t)
		got, err := getTenantID(c)
		require.NoError(t, err)
		assert.Equal(t, defaultTenantID, got)
	})

	t.Run("errors on malformed id", func(t *testing.T) {
		c, _ := newHandlerTestContext(t)
		c.Request.Header.Set("X-Tenant-ID", "tenant-7")
		_, err := getTenantID(c)
		require.Error(t, err)
	})
}

func TestBaseHandlerSuccess(t *testing.T) {
	h := &BaseHandler{}
	c, w := newHandlerTestContext(t)

	h.Success(c, map[string]string{"document_number": "SI-260831-0001"})

	assert.Equal(t, http.StatusOK, w.Code)
	resp := decodeResponse(t, w)
	assert.True(t, resp.Success)
}

func TestBaseHandlerSuccessWithMeta(t *testing.T) {
	h := &BaseHandler{}
	c, w := newHandlerTestContext(t)

	h.SuccessWithMeta(c, []string{"SI-260831-0001", "SI-260831-0002"}, 42, 1, 20)

	assert.Equal(t, http.StatusOK, w.Code)
	resp := decodeResponse(t, w)
	assert.True(t, resp.Success)
	require.NotNil(t, resp.Meta)
	assert.Equal(t, int64(42), resp.Meta.Total)
	assert.Equal(t, 1, resp.Meta.Page)
	assert.Equal(t, 20, resp.Meta.PageSize)
}

func TestBaseHandlerCreated(t *testing.T) {
	h := &BaseHandler{}
	c, w := newHandlerTestContext(t)

	h.Created(c, map[string]string{"id": uuid.NewString()})

	assert.Equal(t, http.StatusCreated, w.Code)
	resp := decodeResponse(t, w)
	assert.True(t, resp.Success)
}

func TestBaseHandlerNoContent(t *testing.T) {
	h := &BaseHandler{}

	router := gin.New()
	router.DELETE("/invoices/:id", func(c *gin.Context) {
		h.NoContent(c)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("DELETE", "/invoices/"+uuid.NewString(), nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Body.Bytes())
}

func TestBaseHandlerErrorMethods(t *testing.T) {
	tests := []struct {
		name         string
		method       func(*BaseHandler, *gin.Context)
		expectedCode int
		expectedErr  string
	}{
		{
			name: "BadRequest",
			method: func(h *BaseHandler, c *gin.Context) {
				h.BadRequest(c, "Invalid query parameters")
			},
			expectedCode: http.StatusBadRequest,
			expectedErr:  dto.ErrCodeBadRequest,
		},
		{
			name: "NotFound",
			method: func(h *BaseHandler, c *gin.Context) {
				h.NotFound(c, "Document not found")
			},
			expectedCode: http.StatusNotFound,
			expectedErr:  dto.ErrCodeNotFound,
		},
		{
			name: "InternalError",
			method: func(h *BaseHandler, c *gin.Context) {
				h.InternalError(c, "An unexpected error occurred")
			},
			expectedCode: http.StatusInternalServerError,
			expectedErr:  dto.ErrCodeInternal,
		},
		{
			name: "Error with explicit status and code",
			method: func(h *BaseHandler, c *gin.Context) {
				h.Error(c, http.StatusUnprocessableEntity, dto.ErrCodeInsufficientStock, "Not enough stock in WH-MAIN")
			},
			expectedCode: http.StatusUnprocessableEntity,
			expectedErr:  dto.ErrCodeInsufficientStock,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := &BaseHandler{}
			c, w := newHandlerTestContext(t)

			tt.method(h, c)

			assert.Equal(t, tt.expectedCode, w.Code)
			resp := decodeResponse(t, w)
			assert.False(t, resp.Success)
			assert.Equal(t, tt.expectedErr, resp.Error.Code)
		})
	}
}

func TestBaseHandlerErrorCarriesRequestID(t *testing.T) {
	h := &BaseHandler{}
	c, w := newHandlerTestContext(t)
	c.Set(RequestIDKey, "req-si-issue-123")

	h.BadRequest(c, "Invalid document number")

	resp := decodeResponse(t, w)
	assert.Equal(t, "req-si-issue-123", resp.Error.RequestID)
}

func TestBaseHandlerHandleDomainError(t *testing.T) {
	tests := []struct {
		name         string
		err          error
		expectedCode int
		expectedErr  string
	}{
		{
			name:         "not found",
			err:          shared.ErrNotFound,
			expectedCode: http.StatusNotFound,
			expectedErr:  dto.ErrCodeNotFound,
		},
		{
			name:         "already exists",
			err:          shared.ErrAlreadyExists,
			expectedCode: http.StatusConflict,
			expectedErr:  dto.ErrCodeAlreadyExists,
		},
		{
			name:         "invalid input",
			err:          shared.ErrInvalidInput,
			expectedCode: http.StatusBadRequest,
			expectedErr:  dto.ErrCodeInvalidInput,
		},
		{
			name:         "unauthorized",
			err:          shared.ErrUnauthorized,
			expectedCode: http.StatusUnauthorized,
			expectedErr:  dto.ErrCodeUnauthorized,
		},
		{
			name:         "invalid state",
			err:          shared.ErrInvalidState,
			expectedCode: http.StatusUnprocessableEntity,
			expectedErr:  dto.ErrCodeInvalidState,
		},
		{
			name:         "concurrency conflict",
			err:          shared.ErrConcurrencyConflict,
			expectedCode: http.StatusConflict,
			expectedErr:  dto.ErrCodeConcurrencyConflict,
		},
		{
			name:         "insufficient stock",
			err:          shared.ErrInsufficientStock,
			expectedCode: http.StatusUnprocessableEntity,
			expectedErr:  dto.ErrCodeInsufficientStock,
		},
		{
			name:         "duplicate document number",
			err:          shared.ErrDuplicateNumber,
			expectedCode: http.StatusConflict,
			expectedErr:  dto.ErrCodeDuplicateNumber,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := &BaseHandler{}
			c, w := newHandlerTestContext(t)

			h.HandleDomainError(c, tt.err)

			assert.Equal(t, tt.expectedCode, w.Code)
			resp := decodeResponse(t, w)
			assert.False(t, resp.Success)
			assert.Equal(t, tt.expectedErr, resp.Error.Code)
		})
	}
}

func TestBaseHandlerHandleDomainErrorHidesInternals(t *testing.T) {
	h := &BaseHandler{}
	c, w := newHandlerTestContext(t)

	h.HandleDomainError(c, assert.AnError)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	resp := decodeResponse(t, w)
	assert.False(t, resp.Success)
	assert.Equal(t, dto.ErrCodeInternal, resp.Error.Code)
	assert.Equal(t, "An unexpected error occurred", resp.Error.Message)
	assert.NotContains(t, w.Body.String(), assert.AnError.Error())
}

func TestBaseHandlerHandleError(t *testing.T) {
	h := &BaseHandler{}

	t.Run("nil error writes nothing", func(t *testing.T) {
		c, w := newHandlerTestContext(t)
		h.HandleError(c, nil)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, w.Body.Bytes())
	})

	t.Run("domain error is mapped", func(t *testing.T) {
		c, w := newHandlerTestContext(t)
		h.HandleError(c, shared.ErrNotFound)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("wrapped domain error is unwrapped", func(t *testing.T) {
		c, w := newHandlerTestContext(t)

		h.HandleError(c, fmt.Errorf("load invoice SI-260831-0001: %w", shared.ErrNotFound))

		assert.Equal(t, http.StatusNotFound, w.Code)
		resp := decodeResponse(t, w)
		assert.Equal(t, dto.ErrCodeNotFound, resp.Error.Code)
	})

	t.Run("plain error becomes 500", func(t *testing.T) {
		c, w := newHandlerTestContext(t)
		h.HandleError(c, assert.AnError)
		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}

package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	tradeapp "github.com/bizledger/backend/internal/application/trade"
	"github.com/bizledger/backend/internal/domain/shared"
	"github.com/bizledger/backend/internal/domain/trade"
	"github.com/bizledger/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockSalesInvoiceRepository implements trade.SalesInvoiceRepository for testing
type MockSalesInvoiceRepository struct {
	mock.Mock
}

func (m *MockSalesInvoiceRepository) FindByID(ctx context.Context, id uuid.UUID) (*trade.SalesInvoice, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*trade.SalesInvoice), args.Error(1)
}

func (m *MockSalesInvoiceRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*trade.SalesInvoice, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*trade.SalesInvoice), args.Error(1)
}

func (m *MockSalesInvoiceRepository) FindByNumberForTenant(ctx context.Context, tenantID uuid.UUID, number string) (*trade.SalesInvoice, error) {
	args := m.Called(ctx, tenantID, number)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*trade.SalesInvoice), args.Error(1)
}

func (m *MockSalesInvoiceRepository) FindAll(ctx context.Context, filter shared.Filter) ([]trade.SalesInvoice, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]trade.SalesInvoice), args.Error(1)
}

func (m *MockSalesInvoiceRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]trade.SalesInvoice, error) {
	args := m.Called(ctx, tenantID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]trade.SalesInvoice), args.Error(1)
}

func (m *MockSalesInvoiceRepository) Save(ctx context.Context, invoice *trade.SalesInvoice) error {
	args := m.Called(ctx, invoice)
	return args.Error(0)
}

func (m *MockSalesInvoiceRepository) SaveWithLock(ctx context.Context, invoice *trade.SalesInvoice) error {
	args := m.Called(ctx, invoice)
	return args.Error(0)
}

func (m *MockSalesInvoiceRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockSalesInvoiceRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockSalesInvoiceRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockSalesInvoiceRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	args := m.Called(ctx, tenantID, id)
	return args.Error(0)
}

func setupSalesInvoiceRouter(repo *MockSalesInvoiceRepository) *gin.Engine {
	service := tradeapp.NewSalesInvoiceService(nil, repo, nil, nil)
	h := NewSalesInvoiceHandler(service)

	router := gin.New()
	invoices := router.Group("/trade/sales-invoices")
	{
		invoices.POST("", h.Create)
		invoices.GET("", h.List)
		invoices.GET("/:id", h.GetByID)
		invoices.GET("/number/:number", h.GetByNumber)
	}
	return router
}

func TestSalesInvoiceHandlerGetByID(t *testing.T) {
	tenantID := uuid.New()

	t.Run("returns invoice", func(t *testing.T) {
		repo := new(MockSalesInvoiceRepository)
		invoice, err := trade.NewSalesInvoice(tenantID, "SI-260831-0001", uuid.New())
		require.NoError(t, err)
		repo.On("FindByIDForTenant", mock.Anything, tenantID, invoice.ID).
			Return(invoice, nil)

		router := setupSalesInvoiceRouter(repo)

		req := httptest.NewRequest("GET", "/trade/sales-invoices/"+invoice.ID.String(), nil)
		req.Header.Set("X-Tenant-ID", tenantID.String())

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var resp dto.Response
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.True(t, resp.Success)

		data := resp.Data.(map[string]any)
		assert.Equal(t, "SI-260831-0001", data["number"])
		assert.Equal(t, "PENDING", data["status"])
	})

	t.Run("returns 404 for unknown invoice", func(t *testing.T) {
		repo := new(MockSalesInvoiceRepository)
		repo.On("FindByIDForTenant", mock.Anything, tenantID, mock.Anything).
			Return(nil, shared.ErrNotFound)

		router := setupSalesInvoiceRouter(repo)

		req := httptest.NewRequest("GET", "/trade/sales-invoices/"+uuid.New().String(), nil)
		req.Header.Set("X-Tenant-ID", tenantID.String())

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)

		var resp dto.Response
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.False(t, resp.Success)
		assert.Equal(t, dto.ErrCodeNotFound, resp.Error.Code)
	})

	t.Run("rejects malformed ID", func(t *testing.T) {
		repo := new(MockSalesInvoiceRepository)
		router := setupSalesInvoiceRouter(repo)

		req := httptest.NewRequest("GET", "/trade/sales-invoices/not-a-uuid", nil)
		req.Header.Set("X-Tenant-ID", tenantID.String())

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestSalesInvoiceHandlerGetByNumber(t *testing.T) {
	tenantID := uuid.New()

	repo := new(MockSalesInvoiceRepository)
	invoice, err := trade.NewSalesInvoice(tenantID, "SI-260831-0002", uuid.New())
	require.NoError(t, err)
	repo.On("FindByNumberForTenant", mock.Anything, tenantID, "SI-260831-0002").
		Return(invoice, nil)

	router := setupSalesInvoiceRouter(repo)

	req := httptest.NewRequest("GET", "/trade/sales-invoices/number/SI-260831-0002", nil)
	req.Header.Set("X-Tenant-ID", tenantID.String())

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp.Data.(map[string]any)
	assert.Equal(t, "SI-260831-0002", data["number"])
}

func TestSalesInvoiceHandlerList(t *testing.T) {
	tenantID := uuid.New()

	repo := new(MockSalesInvoiceRepository)
	inv1, err := trade.NewSalesInvoice(tenantID, "SI-260831-0001", uuid.New())
	require.NoError(t, err)
	inv2, err := trade.NewSalesInvoice(tenantID, "SI-260831-0002", uuid.New())
	require.NoError(t, err)

	repo.On("FindAllForTenant", mock.Anything, tenantID, mock.Anything).
		Return([]trade.SalesInvoice{*inv1, *inv2}, nil)
	repo.On("CountForTenant", mock.Anything, tenantID, mock.Anything).
		Return(int64(2), nil)

	router := setupSalesInvoiceRouter(repo)

	req := httptest.NewRequest("GET", "/trade/sales-invoices?status=PENDING", nil)
	req.Header.Set("X-Tenant-ID", tenantID.String())

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	require.NotNil(t, resp.Meta)
	assert.Equal(t, int64(2), resp.Meta.Total)

	items := resp.Data.([]any)
	assert.Len(t, items, 2)
}

func TestSalesInvoiceHandlerCreateValidation(t *testing.T) {
	tenantID := uuid.New()

	t.Run("rejects missing items", func(t *testing.T) {
		repo := new(MockSalesInvoiceRepository)
		router := setupSalesInvoiceRouter(repo)

		body, _ := json.Marshal(map[string]any{
			"warehouse_id": uuid.New().String(),
			"items":        []any{},
		})
		req := httptest.NewRequest("POST", "/trade/sales-invoices", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-Tenant-ID", tenantID.String())

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		repo.AssertNotCalled(t, "Save")
	})

	t.Run("rejects malformed body", func(t *testing.T) {
		repo := new(MockSalesInvoiceRepository)
		router := setupSalesInvoiceRouter(repo)

		req := httptest.NewRequest("POST", "/trade/sales-invoices", bytes.NewReader([]byte("{not json")))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-Tenant-ID", tenantID.String())

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

package handler

import (
	tradeapp "github.com/bizledger/backend/internal/application/trade"
	"github.com/gin-gonic/gin"
)

// SalesInvoiceHandler handles sales invoice API endpoints
type SalesInvoiceHandler struct {
	BaseHandler
	invoiceService *tradeapp.SalesInvoiceService
}

// NewSalesInvoiceHandler creates a new SalesInvoiceHandler
func NewSalesInvoiceHandler(invoiceService *tradeapp.SalesInvoiceService) *SalesInvoiceHandler {
	return &SalesInvoiceHandler{
		invoiceService: invoiceService,
	}
}

// Create godoc
// @Summary      Create a sales invoice
// @Description  Create a sales invoice and deduct the sold quantities from the warehouse. Insufficient stock on any line aborts the whole creation. A repeated idempotency key returns the previously created invoice.
// @Tags         sales-invoices
// @Accept       json
// @Produce      json
// @Param        request body tradeapp.CreateSalesInvoiceRequest true "Sales invoice creation request"
// @Success      201 {object} dto.Response{data=tradeapp.SalesInvoiceResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /trade/sales-invoices [post]
func (h *SalesInvoiceHandler) Create(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	actorID, _ := getUserID(c)

	var req tradeapp.CreateSalesInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	invoice, err := h.invoiceService.Create(c.Request.Context(), tenantID, actorID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, invoice)
}

// MarkPaid godoc
// @Summary      Mark a sales invoice as paid
// @Description  Record payment of a pending invoice. Only pending invoices can be paid.
// @Tags         sales-invoices
// @Accept       json
// @Produce      json
// @Param        id path string true "Invoice ID" format(uuid)
// @Param        request body tradeapp.PaySalesInvoiceRequest true "Payment request"
// @Success      200 {object} dto.Response{data=tradeapp.SalesInvoiceResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /trade/sales-invoices/{id}/pay [post]
func (h *SalesInvoiceHandler) MarkPaid(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	actorID, _ := getUserID(c)

	invoiceID, ok := h.pathID(c, "id", "invoice")
	if !ok {
		return
	}

	var req tradeapp.PaySalesInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	invoice, err := h.invoiceService.MarkPaid(c.Request.Context(), tenantID, invoiceID, actorID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, invoice)
}

// Cancel godoc
// @Summary      Cancel a sales invoice
// @Description  Cancel a pending invoice and restore the deducted stock. Paid invoices cannot be cancelled; they require a return.
// @Tags         sales-invoices
// @Accept       json
// @Produce      json
// @Param        id path string true "Invoice ID" format(uuid)
// @Param        request body tradeapp.CancelDocumentRequest true "Cancellation reason"
// @Success      200 {object} dto.Response{data=tradeapp.SalesInvoiceResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /trade/sales-invoices/{id}/cancel [post]
func (h *SalesInvoiceHandler) Cancel(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	actorID, _ := getUserID(c)

	invoiceID, ok := h.pathID(c, "id", "invoice")
	if !ok {
		return
	}

	var req tradeapp.CancelDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	invoice, err := h.invoiceService.Cancel(c.Request.Context(), tenantID, invoiceID, actorID, req.Reason)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, invoice)
}

// Delete godoc
// @Summary      Delete a sales invoice
// @Description  Delete a cancelled invoice and its line items. Pending and paid invoices cannot be deleted.
// @Tags         sales-invoices
// @Produce      json
// @Param        id path string true "Invoice ID" format(uuid)
// @Success      204 "No Content"
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /trade/sales-invoices/{id} [delete]
func (h *SalesInvoiceHandler) Delete(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}

	invoiceID, ok := h.pathID(c, "id", "invoice")
	if !ok {
		return
	}

	if err := h.invoiceService.Delete(c.Request.Context(), tenantID, invoiceID); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.NoContent(c)
}

// GetByID godoc
// @Summary      Get sales invoice by ID
// @Tags         sales-invoices
// @Produce      json
// @Param        id path string true "Invoice ID" format(uuid)
// @Success      200 {object} dto.Response{data=tradeapp.SalesInvoiceResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /trade/sales-invoices/{id} [get]
func (h *SalesInvoiceHandler) GetByID(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}

	invoiceID, ok := h.pathID(c, "id", "invoice")
	if !ok {
		return
	}

	invoice, err := h.invoiceService.GetByID(c.Request.Context(), tenantID, invoiceID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, invoice)
}

// GetByNumber godoc
// @Summary      Get sales invoice by document number
// @Tags         sales-invoices
// @Produce      json
// @Param        number path string true "Document number"
// @Success      200 {object} dto.Response{data=tradeapp.SalesInvoiceResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /trade/sales-invoices/number/{number} [get]
func (h *SalesInvoiceHandler) GetByNumber(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}

	number := c.Param("number")
	if number == "" {
		h.BadRequest(c, "Document number is required")
		return
	}

	invoice, err := h.invoiceService.GetByNumber(c.Request.Context(), tenantID, number)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, invoice)
}

// List godoc
// @Summary      List sales invoices
// @Tags         sales-invoices
// @Produce      json
// @Param        search query string false "Search term (number, customer name)"
// @Param        status query string false "Invoice status" Enums(PENDING, PAID, CANCELLED)
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20) maximum(100)
// @Success      200 {object} dto.Response{data=[]tradeapp.SalesInvoiceResponse,meta=dto.Meta}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /trade/sales-invoices [get]
func (h *SalesInvoiceHandler) List(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}

	filter, err := bindFilter(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.invoiceService.List(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Items, result.Total, result.Page, result.PageSize)
}

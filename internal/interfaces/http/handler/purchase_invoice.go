package handler

import (
	tradeapp "github.com/bizledger/backend/internal/application/trade"
	"github.com/gin-gonic/gin"
)

// PurchaseInvoiceHandler handles purchase invoice API endpoints
type PurchaseInvoiceHandler struct {
	BaseHandler
	invoiceService *tradeapp.PurchaseInvoiceService
}

// NewPurchaseInvoiceHandler creates a new PurchaseInvoiceHandler
func NewPurchaseInvoiceHandler(invoiceService *tradeapp.PurchaseInvoiceService) *PurchaseInvoiceHandler {
	return &PurchaseInvoiceHandler{
		invoiceService: invoiceService,
	}
}

// Create godoc
// @Summary      Create a purchase invoice
// @Description  Create a purchase invoice in pending state. Stock is added when the goods are marked received, not at creation.
// @Tags         purchase-invoices
// @Accept       json
// @Produce      json
// @Param        request body tradeapp.CreatePurchaseInvoiceRequest true "Purchase invoice creation request"
// @Success      201 {object} dto.Response{data=tradeapp.PurchaseInvoiceResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /trade/purchase-invoices [post]
func (h *PurchaseInvoiceHandler) Create(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	actorID, _ := getUserID(c)

	var req tradeapp.CreatePurchaseInvoiceRequest
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

// MarkReceived godoc
// @Summary      Mark a purchase invoice as received
// @Description  Receive the goods on a pending invoice: stock is added to the warehouse and ledger movements are recorded in the same transaction.
// @Tags         purchase-invoices
// @Produce      json
// @Param        id path string true "Invoice ID" format(uuid)
// @Success      200 {object} dto.Response{data=tradeapp.PurchaseInvoiceResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /trade/purchase-invoices/{id}/receive [post]
func (h *PurchaseInvoiceHandler) MarkReceived(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	actorID, _ := getUserID(c)

	invoiceID, ok := h.pathID(c, "id", "invoice")
	if !ok {
		return
	}

	invoice, err := h.invoiceService.MarkReceived(c.Request.Context(), tenantID, invoiceID, actorID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, invoice)
}

// Cancel godoc
// @Summary      Cancel a purchase invoice
// @Description  Cancel a pending invoice. Received invoices cannot be cancelled.
// @Tags         purchase-invoices
// @Accept       json
// @Produce      json
// @Param        id path string true "Invoice ID" format(uuid)
// @Param        request body tradeapp.CancelDocumentRequest true "Cancellation reason"
// @Success      200 {object} dto.Response{data=tradeapp.PurchaseInvoiceResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /trade/purchase-invoices/{id}/cancel [post]
func (h *PurchaseInvoiceHandler) Cancel(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}

	invoiceID, ok := h.pathID(c, "id", "invoice")
	if !ok {
		return
	}

	var req tradeapp.CancelDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	invoice, err := h.invoiceService.Cancel(c.Request.Context(), tenantID, invoiceID, req.Reason)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, invoice)
}

// Delete godoc
// @Summary      Delete a purchase invoice
// @Description  Delete a cancelled invoice and its line items. Pending and received invoices cannot be deleted.
// @Tags         purchase-invoices
// @Produce      json
// @Param        id path string true "Invoice ID" format(uuid)
// @Success      204 "No Content"
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /trade/purchase-invoices/{id} [delete]
func (h *PurchaseInvoiceHandler) Delete(c *gin.Context) {
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
// @Summary      Get purchase invoice by ID
// @Tags         purchase-invoices
// @Produce      json
// @Param        id path string true "Invoice ID" format(uuid)
// @Success      200 {object} dto.Response{data=tradeapp.PurchaseInvoiceResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /trade/purchase-invoices/{id} [get]
func (h *PurchaseInvoiceHandler) GetByID(c *gin.Context) {
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
// @Summary      Get purchase invoice by document number
// @Tags         purchase-invoices
// @Produce      json
// @Param        number path string true "Document number"
// @Success      200 {object} dto.Response{data=tradeapp.PurchaseInvoiceResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /trade/purchase-invoices/number/{number} [get]
func (h *PurchaseInvoiceHandler) GetByNumber(c *gin.Context) {
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
// @Summary      List purchase invoices
// @Tags         purchase-invoices
// @Produce      json
// @Param        search query string false "Search term (number, supplier name)"
// @Param        status query string false "Invoice status" Enums(PENDING, RECEIVED, CANCELLED)
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20) maximum(100)
// @Success      200 {object} dto.Response{data=[]tradeapp.PurchaseInvoiceResponse,meta=dto.Meta}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /trade/purchase-invoices [get]
func (h *PurchaseInvoiceHandler) List(c *gin.Context) {
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

package handler

import (
	tradeapp "github.com/bizledger/backend/internal/application/trade"
	"github.com/gin-gonic/gin"
)

// TransferHandler handles inter-warehouse transfer API endpoints
type TransferHandler struct {
	BaseHandler
	transferService *tradeapp.TransferService
}

// NewTransferHandler creates a new TransferHandler
func NewTransferHandler(transferService *tradeapp.TransferService) *TransferHandler {
	return &TransferHandler{
		transferService: transferService,
	}
}

// Create godoc
// @Summary      Create a transfer
// @Description  Create an inter-warehouse transfer in pending state. Source and destination must differ; stock moves at dispatch and receipt, not at creation.
// @Tags         transfers
// @Accept       json
// @Produce      json
// @Param        request body tradeapp.CreateTransferRequest true "Transfer creation request"
// @Success      201 {object} dto.Response{data=tradeapp.TransferResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /trade/transfers [post]
func (h *TransferHandler) Create(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	actorID, _ := getUserID(c)

	var req tradeapp.CreateTransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	transfer, err := h.transferService.Create(c.Request.Context(), tenantID, actorID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, transfer)
}

// Dispatch godoc
// @Summary      Dispatch a transfer
// @Description  Deduct the transferred quantities from the source warehouse. Insufficient stock on any line aborts the dispatch.
// @Tags         transfers
// @Produce      json
// @Param        id path string true "Transfer ID" format(uuid)
// @Success      200 {object} dto.Response{data=tradeapp.TransferResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /trade/transfers/{id}/dispatch [post]
func (h *TransferHandler) Dispatch(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	actorID, _ := getUserID(c)

	transferID, ok := h.pathID(c, "id", "transfer")
	if !ok {
		return
	}

	transfer, err := h.transferService.Dispatch(c.Request.Context(), tenantID, transferID, actorID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, transfer)
}

// Receive godoc
// @Summary      Receive a transfer
// @Description  Add the transferred quantities to the destination warehouse, completing the transfer.
// @Tags         transfers
// @Produce      json
// @Param        id path string true "Transfer ID" format(uuid)
// @Success      200 {object} dto.Response{data=tradeapp.TransferResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /trade/transfers/{id}/receive [post]
func (h *TransferHandler) Receive(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	actorID, _ := getUserID(c)

	transferID, ok := h.pathID(c, "id", "transfer")
	if !ok {
		return
	}

	transfer, err := h.transferService.Receive(c.Request.Context(), tenantID, transferID, actorID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, transfer)
}

// Cancel godoc
// @Summary      Cancel a transfer
// @Description  Cancel a pending transfer, or a dispatched one (in-transit stock returns to the source warehouse). Received transfers cannot be cancelled.
// @Tags         transfers
// @Accept       json
// @Produce      json
// @Param        id path string true "Transfer ID" format(uuid)
// @Param        request body tradeapp.CancelDocumentRequest true "Cancellation reason"
// @Success      200 {object} dto.Response{data=tradeapp.TransferResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /trade/transfers/{id}/cancel [post]
func (h *TransferHandler) Cancel(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	actorID, _ := getUserID(c)

	transferID, ok := h.pathID(c, "id", "transfer")
	if !ok {
		return
	}

	var req tradeapp.CancelDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	transfer, err := h.transferService.Cancel(c.Request.Context(), tenantID, transferID, actorID, req.Reason)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, transfer)
}

// Delete godoc
// @Summary      Delete a transfer
// @Description  Delete a cancelled transfer and its line items. Other statuses cannot be deleted.
// @Tags         transfers
// @Produce      json
// @Param        id path string true "Transfer ID" format(uuid)
// @Success      204 "No Content"
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /trade/transfers/{id} [delete]
func (h *TransferHandler) Delete(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}

	transferID, ok := h.pathID(c, "id", "transfer")
	if !ok {
		return
	}

	if err := h.transferService.Delete(c.Request.Context(), tenantID, transferID); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.NoContent(c)
}

// GetByID godoc
// @Summary      Get transfer by ID
// @Tags         transfers
// @Produce      json
// @Param        id path string true "Transfer ID" format(uuid)
// @Success      200 {object} dto.Response{data=tradeapp.TransferResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /trade/transfers/{id} [get]
func (h *TransferHandler) GetByID(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}

	transferID, ok := h.pathID(c, "id", "transfer")
	if !ok {
		return
	}

	transfer, err := h.transferService.GetByID(c.Request.Context(), tenantID, transferID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, transfer)
}

// GetByNumber godoc
// @Summary      Get transfer by document number
// @Tags         transfers
// @Produce      json
// @Param        number path string true "Document number"
// @Success      200 {object} dto.Response{data=tradeapp.TransferResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /trade/transfers/number/{number} [get]
func (h *TransferHandler) GetByNumber(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}

	number := c.Param("number")
	if number == "" {
		h.BadRequest(c, "Document number is required")
		return
	}

	transfer, err := h.transferService.GetByNumber(c.Request.Context(), tenantID, number)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, transfer)
}

// List godoc
// @Summary      List transfers
// @Tags         transfers
// @Produce      json
// @Param        search query string false "Search term (number)"
// @Param        status query string false "Transfer status" Enums(PENDING, IN_TRANSIT, RECEIVED, CANCELLED)
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20) maximum(100)
// @Success      200 {object} dto.Response{data=[]tradeapp.TransferResponse,meta=dto.Meta}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /trade/transfers [get]
func (h *TransferHandler) List(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}

	filter, err := bindFilter(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.transferService.List(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Items, result.Total, result.Page, result.PageSize)
}

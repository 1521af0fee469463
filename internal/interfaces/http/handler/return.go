package handler

import (
	tradeapp "github.com/bizledger/backend/internal/application/trade"
	"github.com/gin-gonic/gin"
)

// ReturnHandler handles sales return API endpoints
type ReturnHandler struct {
	BaseHandler
	returnService *tradeapp.ReturnService
}

// NewReturnHandler creates a new ReturnHandler
func NewReturnHandler(returnService *tradeapp.ReturnService) *ReturnHandler {
	return &ReturnHandler{
		returnService: returnService,
	}
}

// Create godoc
// @Summary      Create a return
// @Description  Create a return against a paid sales invoice. Returned quantities may not exceed what the invoice sold, net of earlier returns.
// @Tags         returns
// @Accept       json
// @Produce      json
// @Param        request body tradeapp.CreateReturnRequest true "Return creation request"
// @Success      201 {object} dto.Response{data=tradeapp.ReturnResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /trade/returns [post]
func (h *ReturnHandler) Create(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	actorID, _ := getUserID(c)

	var req tradeapp.CreateReturnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	ret, err := h.returnService.Create(c.Request.Context(), tenantID, actorID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, ret)
}

// Approve godoc
// @Summary      Approve a return
// @Description  Approve a pending return. Restock lines enter quarantine as inspection lots; they reach sellable stock only when a lot is released with a RESTOCK outcome.
// @Tags         returns
// @Produce      json
// @Param        id path string true "Return ID" format(uuid)
// @Success      200 {object} dto.Response{data=tradeapp.ReturnResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /trade/returns/{id}/approve [post]
func (h *ReturnHandler) Approve(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	actorID, _ := getUserID(c)

	returnID, ok := h.pathID(c, "id", "return")
	if !ok {
		return
	}

	ret, err := h.returnService.Approve(c.Request.Context(), tenantID, returnID, actorID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, ret)
}

// Refund godoc
// @Summary      Refund a return
// @Description  Record the refund payout of an approved return, optionally overriding the refund amount
// @Tags         returns
// @Accept       json
// @Produce      json
// @Param        id path string true "Return ID" format(uuid)
// @Param        request body tradeapp.RefundReturnRequest false "Refund override"
// @Success      200 {object} dto.Response{data=tradeapp.ReturnResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /trade/returns/{id}/refund [post]
func (h *ReturnHandler) Refund(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}

	returnID, ok := h.pathID(c, "id", "return")
	if !ok {
		return
	}

	var req tradeapp.RefundReturnRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			h.BadRequest(c, "Invalid request body: "+err.Error())
			return
		}
	}

	ret, err := h.returnService.Refund(c.Request.Context(), tenantID, returnID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, ret)
}

// Reject godoc
// @Summary      Reject a return
// @Description  Reject a pending return with a mandatory reason
// @Tags         returns
// @Accept       json
// @Produce      json
// @Param        id path string true "Return ID" format(uuid)
// @Param        request body tradeapp.RejectReturnRequest true "Rejection reason"
// @Success      200 {object} dto.Response{data=tradeapp.ReturnResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /trade/returns/{id}/reject [post]
func (h *ReturnHandler) Reject(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}

	returnID, ok := h.pathID(c, "id", "return")
	if !ok {
		return
	}

	var req tradeapp.RejectReturnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	ret, err := h.returnService.Reject(c.Request.Context(), tenantID, returnID, req.Reason)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, ret)
}

// Delete godoc
// @Summary      Delete a return
// @Description  Delete a rejected return and its line items. Other statuses cannot be deleted.
// @Tags         returns
// @Produce      json
// @Param        id path string true "Return ID" format(uuid)
// @Success      204 "No Content"
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /trade/returns/{id} [delete]
func (h *ReturnHandler) Delete(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}

	returnID, ok := h.pathID(c, "id", "return")
	if !ok {
		return
	}

	if err := h.returnService.Delete(c.Request.Context(), tenantID, returnID); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.NoContent(c)
}

// GetByID godoc
// @Summary      Get return by ID
// @Tags         returns
// @Produce      json
// @Param        id path string true "Return ID" format(uuid)
// @Success      200 {object} dto.Response{data=tradeapp.ReturnResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /trade/returns/{id} [get]
func (h *ReturnHandler) GetByID(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}

	returnID, ok := h.pathID(c, "id", "return")
	if !ok {
		return
	}

	ret, err := h.returnService.GetByID(c.Request.Context(), tenantID, returnID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, ret)
}

// GetByNumber godoc
// @Summary      Get return by document number
// @Tags         returns
// @Produce      json
// @Param        number path string true "Document number"
// @Success      200 {object} dto.Response{data=tradeapp.ReturnResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /trade/returns/number/{number} [get]
func (h *ReturnHandler) GetByNumber(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}

	number := c.Param("number")
	if number == "" {
		h.BadRequest(c, "Document number is required")
		return
	}

	ret, err := h.returnService.GetByNumber(c.Request.Context(), tenantID, number)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, ret)
}

// List godoc
// @Summary      List returns
// @Tags         returns
// @Produce      json
// @Param        search query string false "Search term (number, customer name)"
// @Param        status query string false "Return status" Enums(PENDING, APPROVED, REFUNDED, REJECTED)
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20) maximum(100)
// @Success      200 {object} dto.Response{data=[]tradeapp.ReturnResponse,meta=dto.Meta}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /trade/returns [get]
func (h *ReturnHandler) List(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}

	filter, err := bindFilter(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.returnService.List(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Items, result.Total, result.Page, result.PageSize)
}

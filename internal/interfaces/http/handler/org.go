package handler

import (
	orgapp "github.com/bizledger/backend/internal/application/org"
	"github.com/gin-gonic/gin"
)

// BranchHandler handles branch API endpoints
type BranchHandler struct {
	BaseHandler
	branchService *orgapp.BranchService
}

// NewBranchHandler creates a new BranchHandler
func NewBranchHandler(branchService *orgapp.BranchService) *BranchHandler {
	return &BranchHandler{
		branchService: branchService,
	}
}

// Create godoc
// @Summary      Create a new branch
// @Tags         org
// @Accept       json
// @Produce      json
// @Param        request body orgapp.CreateBranchRequest true "Branch creation request"
// @Success      201 {object} dto.Response{data=orgapp.BranchResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /org/branches [post]
func (h *BranchHandler) Create(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}

	var req orgapp.CreateBranchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	branch, err := h.branchService.Create(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, branch)
}

// Update godoc
// @Summary      Update a branch
// @Tags         org
// @Accept       json
// @Produce      json
// @Param        id path string true "Branch ID" format(uuid)
// @Param        request body orgapp.UpdateBranchRequest true "Branch update request"
// @Success      200 {object} dto.Response{data=orgapp.BranchResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /org/branches/{id} [put]
func (h *BranchHandler) Update(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}

	branchID, ok := h.pathID(c, "id", "branch")
	if !ok {
		return
	}

	var req orgapp.UpdateBranchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	branch, err := h.branchService.Update(c.Request.Context(), tenantID, branchID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, branch)
}

// GetByID godoc
// @Summary      Get branch by ID
// @Tags         org
// @Produce      json
// @Param        id path string true "Branch ID" format(uuid)
// @Success      200 {object} dto.Response{data=orgapp.BranchResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /org/branches/{id} [get]
func (h *BranchHandler) GetByID(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}

	branchID, ok := h.pathID(c, "id", "branch")
	if !ok {
		return
	}

	branch, err := h.branchService.GetByID(c.Request.Context(), tenantID, branchID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, branch)
}

// List godoc
// @Summary      List branches
// @Tags         org
// @Produce      json
// @Param        search query string false "Search term (name, code)"
// @Param        status query string false "Branch status" Enums(active, inactive)
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20) maximum(100)
// @Success      200 {object} dto.Response{data=[]orgapp.BranchResponse,meta=dto.Meta}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /org/branches [get]
func (h *BranchHandler) List(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}

	filter, err := bindFilter(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.branchService.List(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Items, result.Total, result.Page, result.PageSize)
}

// WarehouseHandler handles warehouse API endpoints
type WarehouseHandler struct {
	BaseHandler
	warehouseService *orgapp.WarehouseService
}

// NewWarehouseHandler creates a new WarehouseHandler
func NewWarehouseHandler(warehouseService *orgapp.WarehouseService) *WarehouseHandler {
	return &WarehouseHandler{
		warehouseService: warehouseService,
	}
}

// Create godoc
// @Summary      Create a new warehouse
// @Description  Create a warehouse under a branch. The first warehouse of a branch may be marked as default.
// @Tags         org
// @Accept       json
// @Produce      json
// @Param        request body orgapp.CreateWarehouseRequest true "Warehouse creation request"
// @Success      201 {object} dto.Response{data=orgapp.WarehouseResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /org/warehouses [post]
func (h *WarehouseHandler) Create(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}

	var req orgapp.CreateWarehouseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	warehouse, err := h.warehouseService.Create(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, warehouse)
}

// Update godoc
// @Summary      Update a warehouse
// @Tags         org
// @Accept       json
// @Produce      json
// @Param        id path string true "Warehouse ID" format(uuid)
// @Param        request body orgapp.UpdateWarehouseRequest true "Warehouse update request"
// @Success      200 {object} dto.Response{data=orgapp.WarehouseResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /org/warehouses/{id} [put]
func (h *WarehouseHandler) Update(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}

	warehouseID, ok := h.pathID(c, "id", "warehouse")
	if !ok {
		return
	}

	var req orgapp.UpdateWarehouseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	warehouse, err := h.warehouseService.Update(c.Request.Context(), tenantID, warehouseID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, warehouse)
}

// Enable godoc
// @Summary      Enable a warehouse
// @Tags         org
// @Produce      json
// @Param        id path string true "Warehouse ID" format(uuid)
// @Success      200 {object} dto.Response{data=orgapp.WarehouseResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /org/warehouses/{id}/enable [post]
func (h *WarehouseHandler) Enable(c *gin.Context) {
	h.setStatus(c, true)
}

// Disable godoc
// @Summary      Disable a warehouse
// @Description  Disabled warehouses cannot appear on new documents
// @Tags         org
// @Produce      json
// @Param        id path string true "Warehouse ID" format(uuid)
// @Success      200 {object} dto.Response{data=orgapp.WarehouseResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /org/warehouses/{id}/disable [post]
func (h *WarehouseHandler) Disable(c *gin.Context) {
	h.setStatus(c, false)
}

func (h *WarehouseHandler) setStatus(c *gin.Context, active bool) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}

	warehouseID, ok := h.pathID(c, "id", "warehouse")
	if !ok {
		return
	}

	var (
		warehouse *orgapp.WarehouseResponse
		err       error
	)
	if active {
		warehouse, err = h.warehouseService.Enable(c.Request.Context(), tenantID, warehouseID)
	} else {
		warehouse, err = h.warehouseService.Disable(c.Request.Context(), tenantID, warehouseID)
	}
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, warehouse)
}

// GetByID godoc
// @Summary      Get warehouse by ID
// @Tags         org
// @Produce      json
// @Param        id path string true "Warehouse ID" format(uuid)
// @Success      200 {object} dto.Response{data=orgapp.WarehouseResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /org/warehouses/{id} [get]
func (h *WarehouseHandler) GetByID(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}

	warehouseID, ok := h.pathID(c, "id", "warehouse")
	if !ok {
		return
	}

	warehouse, err := h.warehouseService.GetByID(c.Request.Context(), tenantID, warehouseID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, warehouse)
}

// ListByBranch godoc
// @Summary      List warehouses of a branch
// @Tags         org
// @Produce      json
// @Param        id path string true "Branch ID" format(uuid)
// @Success      200 {object} dto.Response{data=[]orgapp.WarehouseResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /org/branches/{id}/warehouses [get]
func (h *WarehouseHandler) ListByBranch(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}

	branchID, ok := h.pathID(c, "id", "branch")
	if !ok {
		return
	}

	warehouses, err := h.warehouseService.ListByBranch(c.Request.Context(), tenantID, branchID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, warehouses)
}

// List godoc
// @Summary      List warehouses
// @Tags         org
// @Produce      json
// @Param        search query string false "Search term (name, code)"
// @Param        status query string false "Warehouse status" Enums(active, inactive)
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20) maximum(100)
// @Success      200 {object} dto.Response{data=[]orgapp.WarehouseResponse,meta=dto.Meta}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /org/warehouses [get]
func (h *WarehouseHandler) List(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}

	filter, err := bindFilter(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.warehouseService.List(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Items, result.Total, result.Page, result.PageSize)
}

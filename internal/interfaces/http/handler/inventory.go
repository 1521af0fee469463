package handler

import (
	inventoryapp "github.com/bizledger/backend/internal/application/inventory"
	"github.com/gin-gonic/gin"
)

// InventoryHandler handles stock, ledger, and inspection lot API endpoints
type InventoryHandler struct {
	BaseHandler
	inventoryService *inventoryapp.InventoryService
}

func NewInventoryHandler(inventoryService *inventoryapp.InventoryService) *InventoryHandler {
	return &InventoryHandler{
		inventoryService: inventoryService,
	}
}

// Adjust godoc
// @Summary      Adjust stock manually
// @Description  Apply a signed quantity change to one product in one warehouse and record a ledger movement. Adjustments that would drive the quantity negative are refused.
// @Tags         inventory
// @Accept       json
// @Produce      json
// @Param        request body inventoryapp.AdjustStockRequest true "Stock adjustment request"
// @Success      200 {object} dto.Response{data=inventoryapp.StockMovementResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /inventory/adjustments [post]
func (h *InventoryHandler) Adjust(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	actorID, _ := getUserID(c)

	var req inventoryapp.AdjustStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	movement, err := h.inventoryService.Adjust(c.Request.Context(), tenantID, actorID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, movement)
}

// GetStock godoc
// @Summary      Get on-hand stock
// @Description  Get the on-hand quantity of one product in one warehouse
// @Tags         inventory
// @Produce      json
// @Param        warehouse_id path string true "Warehouse ID" format(uuid)
// @Param        product_id path string true "Product ID" format(uuid)
// @Success      200 {object} dto.Response{data=inventoryapp.StockItemResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /inventory/warehouses/{warehouse_id}/products/{product_id} [get]
func (h *InventoryHandler) GetStock(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}

	warehouseID, ok := h.pathID(c, "warehouse_id", "warehouse")
	if !ok {
		return
	}
	productID, ok := h.pathID(c, "product_id", "product")
	if !ok {
		return
	}

	stock, err := h.inventoryService.GetStock(c.Request.Context(), tenantID, warehouseID, productID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, stock)
}

// ListStockByWarehouse godoc
// @Summary      List stock in a warehouse
// @Tags         inventory
// @Produce      json
// @Param        warehouse_id path string true "Warehouse ID" format(uuid)
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20) maximum(100)
// @Success      200 {object} dto.Response{data=[]inventoryapp.StockItemResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /inventory/warehouses/{warehouse_id} [get]
func (h *InventoryHandler) ListStockByWarehouse(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}

	warehouseID, ok := h.pathID(c, "warehouse_id", "warehouse")
	if !ok {
		return
	}

	filter, err := bindFilter(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	stock, err := h.inventoryService.ListStockByWarehouse(c.Request.Context(), tenantID, warehouseID, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, stock)
}

// ListStockByProduct godoc
// @Summary      List a product's stock across warehouses
// @Tags         inventory
// @Produce      json
// @Param        product_id path string true "Product ID" format(uuid)
// @Success      200 {object} dto.Response{data=[]inventoryapp.StockItemResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /inventory/products/{product_id} [get]
func (h *InventoryHandler) ListStockByProduct(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}

	productID, ok := h.pathID(c, "product_id", "product")
	if !ok {
		return
	}

	stock, err := h.inventoryService.ListStockByProduct(c.Request.Context(), tenantID, productID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, stock)
}

// ListMovements godoc
// @Summary      List ledger movements
// @Description  List stock movements of one product in one warehouse, newest first
// @Tags         inventory
// @Produce      json
// @Param        warehouse_id path string true "Warehouse ID" format(uuid)
// @Param        product_id path string true "Product ID" format(uuid)
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20) maximum(100)
// @Success      200 {object} dto.Response{data=[]inventoryapp.StockMovementResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /inventory/warehouses/{warehouse_id}/products/{product_id}/movements [get]
func (h *InventoryHandler) ListMovements(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}

	warehouseID, ok := h.pathID(c, "warehouse_id", "warehouse")
	if !ok {
		return
	}
	productID, ok := h.pathID(c, "product_id", "product")
	if !ok {
		return
	}

	filter, err := bindFilter(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	movements, err := h.inventoryService.ListMovements(c.Request.Context(), tenantID, warehouseID, productID, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, movements)
}

// ListMovementsForDocument godoc
// @Summary      List ledger movements of a document
// @Tags         inventory
// @Produce      json
// @Param        document_id path string true "Document ID" format(uuid)
// @Success      200 {object} dto.Response{data=[]inventoryapp.StockMovementResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /inventory/documents/{document_id}/movements [get]
func (h *InventoryHandler) ListMovementsForDocument(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}

	documentID, ok := h.pathID(c, "document_id", "document")
	if !ok {
		return
	}

	movements, err := h.inventoryService.ListMovementsForDocument(c.Request.Context(), tenantID, documentID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, movements)
}

// LowStockReport godoc
// @Summary      Low stock report
// @Description  List products whose on-hand quantity in the warehouse is below their minimum stock level
// @Tags         inventory
// @Produce      json
// @Param        warehouse_id path string true "Warehouse ID" format(uuid)
// @Success      200 {object} dto.Response{data=[]inventoryapp.LowStockItemResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /inventory/warehouses/{warehouse_id}/low-stock [get]
func (h *InventoryHandler) LowStockReport(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}

	warehouseID, ok := h.pathID(c, "warehouse_id", "warehouse")
	if !ok {
		return
	}

	filter, err := bindFilter(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	report, err := h.inventoryService.LowStockReport(c.Request.Context(), tenantID, warehouseID, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, report)
}

// ListPendingLots godoc
// @Summary      List pending inspection lots
// @Tags         inventory
// @Produce      json
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20) maximum(100)
// @Success      200 {object} dto.Response{data=[]inventoryapp.InspectionLotResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /inventory/inspection-lots [get]
func (h *InventoryHandler) ListPendingLots(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}

	filter, err := bindFilter(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	lots, err := h.inventoryService.ListPendingLots(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, lots)
}

// GetLot godoc
// @Summary      Get an inspection lot
// @Tags         inventory
// @Produce      json
// @Param        id path string true "Inspection Lot ID" format(uuid)
// @Success      200 {object} dto.Response{data=inventoryapp.InspectionLotResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /inventory/inspection-lots/{id} [get]
func (h *InventoryHandler) GetLot(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}

	lotID, ok := h.pathID(c, "id", "inspection lot")
	if !ok {
		return
	}

	lot, err := h.inventoryService.GetLot(c.Request.Context(), tenantID, lotID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, lot)
}

// ReleaseLot godoc
// @Summary      Release an inspection lot
// @Description  Release a quarantined return lot with an outcome of RESTOCK (quantity returns to sellable stock) or WRITE_OFF (quantity leaves the system). A lot can only be released once.
// @Tags         inventory
// @Accept       json
// @Produce      json
// @Param        id path string true "Inspection Lot ID" format(uuid)
// @Param        request body inventoryapp.ReleaseLotRequest true "Release request"
// @Success      200 {object} dto.Response{data=inventoryapp.InspectionLotResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /inventory/inspection-lots/{id}/release [post]
func (h *InventoryHandler) ReleaseLot(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	actorID, _ := getUserID(c)

	lotID, ok := h.pathID(c, "id", "inspection lot")
	if !ok {
		return
	}

	var req inventoryapp.ReleaseLotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	lot, err := h.inventoryService.ReleaseLot(c.Request.Context(), tenantID, lotID, actorID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, lot)
}

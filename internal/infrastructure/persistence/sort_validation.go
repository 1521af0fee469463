package persistence

import (
	"strings"
)

// ValidateSortOrder normalizes a client-supplied sort direction.
// Anything that is not ASC becomes DESC, newest-first is the default
// everywhere.
func ValidateSortOrder(orderDir string) string {
	if strings.EqualFold(strings.TrimSpace(orderDir), "ASC") {
		return "ASC"
	}
	return "DESC"
}

// ValidateSortField returns sortField only when the whitelist allows
// it, otherwise defaultField. Sort columns are interpolated into ORDER
// BY clauses, so nothing outside the whitelist may ever pass through.
func ValidateSortField(sortField string, allowedFields map[string]bool, defaultField string) string {
	trimmed := strings.TrimSpace(sortField)
	if trimmed == "" || !allowedFields[trimmed] {
		return defaultField
	}
	return trimmed
}

// Per-listing sort whitelists. Each names the columns its repository
// exposes through the sort_by query parameter.
var (
	ProductSortFields = map[string]bool{
		"id":         true,
		"created_at": true,
		"updated_at": true,
		"code":       true,
		"name":       true,
		"barcode":    true,
		"unit":       true,
		"cost":       true,
		"price":      true,
		"tax_rate":   true,
		"min_stock":  true,
		"status":     true,
	}

	BranchSortFields = map[string]bool{
		"id":         true,
		"created_at": true,
		"updated_at": true,
		"code":       true,
		"name":       true,
		"status":     true,
	}

	WarehouseSortFields = map[string]bool{
		"id":         true,
		"created_at": true,
		"updated_at": true,
		"code":       true,
		"name":       true,
		"branch_id":  true,
		"status":     true,
		"is_default": true,
	}

	StockItemSortFields = map[string]bool{
		"id":           true,
		"created_at":   true,
		"updated_at":   true,
		"warehouse_id": true,
		"product_id":   true,
		"quantity":     true,
	}

	// Ledger entries are append-only and have no updated_at column.
	StockMovementSortFields = map[string]bool{
		"id":              true,
		"created_at":      true,
		"type":            true,
		"warehouse_id":    true,
		"product_id":      true,
		"delta":           true,
		"quantity_after":  true,
		"document_number": true,
	}

	InspectionLotSortFields = map[string]bool{
		"id":           true,
		"created_at":   true,
		"updated_at":   true,
		"warehouse_id": true,
		"product_id":   true,
		"return_id":    true,
		"quantity":     true,
		"status":       true,
		"released_at":  true,
	}

	SalesInvoiceSortFields = map[string]bool{
		"id":            true,
		"created_at":    true,
		"updated_at":    true,
		"number":        true,
		"customer_id":   true,
		"customer_name": true,
		"warehouse_id":  true,
		"status":        true,
		"total":         true,
		"paid_at":       true,
		"cancelled_at":  true,
	}

	PurchaseInvoiceSortFields = map[string]bool{
		"id":            true,
		"created_at":    true,
		"updated_at":    true,
		"number":        true,
		"supplier_id":   true,
		"supplier_name": true,
		"warehouse_id":  true,
		"status":        true,
		"total":         true,
		"received_at":   true,
		"cancelled_at":  true,
	}

	ReturnSortFields = map[string]bool{
		"id":               true,
		"created_at":       true,
		"updated_at":       true,
		"number":           true,
		"sales_invoice_id": true,
		"customer_id":      true,
		"customer_name":    true,
		"warehouse_id":     true,
		"status":           true,
		"refund_total":     true,
		"approved_at":      true,
		"refunded_at":      true,
	}

	TransferSortFields = map[string]bool{
		"id":             true,
		"created_at":     true,
		"updated_at":     true,
		"number":         true,
		"source_id":      true,
		"destination_id": true,
		"status":         true,
		"dispatched_at":  true,
		"received_at":    true,
	}
)

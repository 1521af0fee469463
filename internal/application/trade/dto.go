package trade

import (
	"time"

	"github.com/bizledger/backend/internal/domain/trade"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ============================================
// Sales invoice DTOs
// ============================================

// CreateSalesInvoiceItemRequest is one requested line on a new sales invoice
type CreateSalesInvoiceItemRequest struct {
	ProductID       uuid.UUID        `json:"product_id" binding:"required"`
	Quantity        decimal.Decimal  `json:"quantity" binding:"required"`
	UnitPrice       *decimal.Decimal `json:"unit_price,omitempty"` // nil: use the catalog price
	DiscountPercent decimal.Decimal  `json:"discount_percent"`
}

// CreateSalesInvoiceRequest is the request to create a sales invoice
type CreateSalesInvoiceRequest struct {
	WarehouseID    uuid.UUID                       `json:"warehouse_id" binding:"required"`
	CustomerID     *uuid.UUID                      `json:"customer_id,omitempty"` // nil for anonymous sales
	CustomerName   string                          `json:"customer_name,omitempty"`
	Items          []CreateSalesInvoiceItemRequest `json:"items" binding:"required,min=1"`
	Discount       decimal.Decimal                 `json:"discount"` // Flat invoice-level discount
	Notes          string                          `json:"notes,omitempty"`
	IdempotencyKey string                          `json:"idempotency_key,omitempty"`
}

// PaySalesInvoiceRequest records payment of a pending invoice
type PaySalesInvoiceRequest struct {
	PaymentMethod string `json:"payment_method" binding:"required"`
}

// CancelDocumentRequest carries the mandatory cancellation reason
type CancelDocumentRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// SalesInvoiceItemResponse is one line of a sales invoice response
type SalesInvoiceItemResponse struct {
	ID              uuid.UUID       `json:"id"`
	ProductID       uuid.UUID       `json:"product_id"`
	ProductName     string          `json:"product_name"`
	ProductCode     string          `json:"product_code"`
	Quantity        decimal.Decimal `json:"quantity"`
	UnitPrice       decimal.Decimal `json:"unit_price"`
	DiscountPercent decimal.Decimal `json:"discount_percent"`
	TaxRate         decimal.Decimal `json:"tax_rate"`
	Subtotal        decimal.Decimal `json:"subtotal"`
	DiscountAmount  decimal.Decimal `json:"discount_amount"`
	TaxAmount       decimal.Decimal `json:"tax_amount"`
	Total           decimal.Decimal `json:"total"`
}

// SalesInvoiceResponse is the full sales invoice representation
type SalesInvoiceResponse struct {
	ID            uuid.UUID                  `json:"id"`
	Number        string                     `json:"number"`
	CustomerID    *uuid.UUID                 `json:"customer_id,omitempty"`
	CustomerName  string                     `json:"customer_name,omitempty"`
	WarehouseID   uuid.UUID                  `json:"warehouse_id"`
	Items         []SalesInvoiceItemResponse `json:"items"`
	Subtotal      decimal.Decimal            `json:"subtotal"`
	Discount      decimal.Decimal            `json:"discount"`
	DiscountTotal decimal.Decimal            `json:"discount_total"`
	TaxTotal      decimal.Decimal            `json:"tax_total"`
	Total         decimal.Decimal            `json:"total"`
	Status        string                     `json:"status"`
	PaymentMethod string                     `json:"payment_method,omitempty"`
	Notes         string                     `json:"notes,omitempty"`
	PaidAt        *time.Time                 `json:"paid_at,omitempty"`
	CancelledAt   *time.Time                 `json:"cancelled_at,omitempty"`
	CancelReason  string                     `json:"cancel_reason,omitempty"`
	Version       int                        `json:"version"`
	CreatedAt     time.Time                  `json:"created_at"`
	UpdatedAt     time.Time                  `json:"updated_at"`
}

// ToSalesInvoiceResponse converts a domain sales invoice to its response form
func ToSalesInvoiceResponse(invoice *trade.SalesInvoice) SalesInvoiceResponse {
	items := make([]SalesInvoiceItemResponse, 0, len(invoice.Items))
	for _, item := range invoice.Items {
		items = append(items, SalesInvoiceItemResponse{
			ID:              item.ID,
			ProductID:       item.ProductID,
			ProductName:     item.ProductName,
			ProductCode:     item.ProductCode,
			Quantity:        item.Quantity,
			UnitPrice:       item.UnitPrice,
			DiscountPercent: item.DiscountPercent,
			TaxRate:         item.TaxRate,
			Subtotal:        item.Subtotal,
			DiscountAmount:  item.DiscountAmount,
			TaxAmount:       item.TaxAmount,
			Total:           item.Total,
		})
	}

	resp := SalesInvoiceResponse{
		ID:            invoice.ID,
		Number:        invoice.Number,
		CustomerID:    invoice.CustomerID,
		CustomerName:  invoice.CustomerName,
		WarehouseID:   invoice.WarehouseID,
		Items:         items,
		Subtotal:      invoice.Subtotal,
		Discount:      invoice.Discount,
		DiscountTotal: invoice.DiscountTotal,
		TaxTotal:      invoice.TaxTotal,
		Total:         invoice.Total,
		Status:        invoice.Status.String(),
		Notes:         invoice.Notes,
		PaidAt:        invoice.PaidAt,
		CancelledAt:   invoice.CancelledAt,
		CancelReason:  invoice.CancelReason,
		Version:       invoice.Version,
		CreatedAt:     invoice.CreatedAt,
		UpdatedAt:     invoice.UpdatedAt,
	}
	if invoice.PaymentMethod != nil {
		resp.PaymentMethod = invoice.PaymentMethod.String()
	}
	return resp
}

// ============================================
// Purchase invoice DTOs
// ============================================

// CreatePurchaseInvoiceItemRequest is one requested line on a new purchase invoice
type CreatePurchaseInvoiceItemRequest struct {
	ProductID     uuid.UUID        `json:"product_id" binding:"required"`
	Quantity      decimal.Decimal  `json:"quantity" binding:"required"`
	UnitCost      *decimal.Decimal `json:"unit_cost,omitempty"`      // nil: use the catalog cost
	SerialNumbers []string         `json:"serial_numbers,omitempty"` // one per unit when given
}

// CreatePurchaseInvoiceRequest is the request to create a purchase invoice
type CreatePurchaseInvoiceRequest struct {
	SupplierID     uuid.UUID                          `json:"supplier_id" binding:"required"`
	SupplierName   string                             `json:"supplier_name" binding:"required"`
	WarehouseID    uuid.UUID                          `json:"warehouse_id" binding:"required"`
	Items          []CreatePurchaseInvoiceItemRequest `json:"items" binding:"required,min=1"`
	Notes          string                             `json:"notes,omitempty"`
	IdempotencyKey string                             `json:"idempotency_key,omitempty"`
}

// PurchaseInvoiceItemResponse is one line of a purchase invoice response
type PurchaseInvoiceItemResponse struct {
	ID            uuid.UUID       `json:"id"`
	ProductID     uuid.UUID       `json:"product_id"`
	ProductName   string          `json:"product_name"`
	ProductCode   string          `json:"product_code"`
	Quantity      decimal.Decimal `json:"quantity"`
	UnitCost      decimal.Decimal `json:"unit_cost"`
	Amount        decimal.Decimal `json:"amount"`
	SerialNumbers []string        `json:"serial_numbers,omitempty"`
}

// PurchaseInvoiceResponse is the full purchase invoice representation
type PurchaseInvoiceResponse struct {
	ID           uuid.UUID                     `json:"id"`
	Number       string                        `json:"number"`
	SupplierID   uuid.UUID                     `json:"supplier_id"`
	SupplierName string                        `json:"supplier_name"`
	WarehouseID  uuid.UUID                     `json:"warehouse_id"`
	Items        []PurchaseInvoiceItemResponse `json:"items"`
	Total        decimal.Decimal               `json:"total"`
	Status       string                        `json:"status"`
	Notes        string                        `json:"notes,omitempty"`
	ReceivedAt   *time.Time                    `json:"received_at,omitempty"`
	CancelledAt  *time.Time                    `json:"cancelled_at,omitempty"`
	CancelReason string                        `json:"cancel_reason,omitempty"`
	Version      int                           `json:"version"`
	CreatedAt    time.Time                     `json:"created_at"`
	UpdatedAt    time.Time                     `json:"updated_at"`
}

// ToPurchaseInvoiceResponse converts a domain purchase invoice to its response form
func ToPurchaseInvoiceResponse(invoice *trade.PurchaseInvoice) PurchaseInvoiceResponse {
	items := make([]PurchaseInvoiceItemResponse, 0, len(invoice.Items))
	for _, item := range invoice.Items {
		items = append(items, PurchaseInvoiceItemResponse{
			ID:            item.ID,
			ProductID:     item.ProductID,
			ProductName:   item.ProductName,
			ProductCode:   item.ProductCode,
			Quantity:      item.Quantity,
			UnitCost:      item.UnitCost,
			Amount:        item.Amount,
			SerialNumbers: item.SerialNumbers,
		})
	}

	return PurchaseInvoiceResponse{
		ID:           invoice.ID,
		Number:       invoice.Number,
		SupplierID:   invoice.SupplierID,
		SupplierName: invoice.SupplierName,
		WarehouseID:  invoice.WarehouseID,
		Items:        items,
		Total:        invoice.Total,
		Status:       invoice.Status.String(),
		Notes:        invoice.Notes,
		ReceivedAt:   invoice.ReceivedAt,
		CancelledAt:  invoice.CancelledAt,
		CancelReason: invoice.CancelReason,
		Version:      invoice.Version,
		CreatedAt:    invoice.CreatedAt,
		UpdatedAt:    invoice.UpdatedAt,
	}
}

// ============================================
// Return DTOs
// ============================================

// CreateReturnItemRequest is one requested line on a new return
type CreateReturnItemRequest struct {
	ProductID uuid.UUID       `json:"product_id" binding:"required"`
	Quantity  decimal.Decimal `json:"quantity" binding:"required"`
	Restock   bool            `json:"restock"`
	Reason    string          `json:"reason,omitempty"`
}

// CreateReturnRequest is the request to create a return against a sales invoice
type CreateReturnRequest struct {
	SalesInvoiceID uuid.UUID                 `json:"sales_invoice_id" binding:"required"`
	Items          []CreateReturnItemRequest `json:"items" binding:"required,min=1"`
	Notes          string                    `json:"notes,omitempty"`
	IdempotencyKey string                    `json:"idempotency_key,omitempty"`
}

// RejectReturnRequest carries the mandatory rejection reason
type RejectReturnRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// RefundReturnRequest optionally overrides the refund amount at refund time
type RefundReturnRequest struct {
	Amount *decimal.Decimal `json:"amount,omitempty"` // nil: refund the computed total
}

// ReturnItemResponse is one line of a return response
type ReturnItemResponse struct {
	ID          uuid.UUID       `json:"id"`
	ProductID   uuid.UUID       `json:"product_id"`
	ProductName string          `json:"product_name"`
	ProductCode string          `json:"product_code"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Amount      decimal.Decimal `json:"amount"`
	Restock     bool            `json:"restock"`
	Reason      string          `json:"reason,omitempty"`
}

// ReturnResponse is the full return representation
type ReturnResponse struct {
	ID             uuid.UUID            `json:"id"`
	Number         string               `json:"number"`
	SalesInvoiceID uuid.UUID            `json:"sales_invoice_id"`
	CustomerID     *uuid.UUID           `json:"customer_id,omitempty"`
	CustomerName   string               `json:"customer_name,omitempty"`
	WarehouseID    uuid.UUID            `json:"warehouse_id"`
	Items          []ReturnItemResponse `json:"items"`
	RefundTotal    decimal.Decimal      `json:"refund_total"`
	Status         string               `json:"status"`
	Notes          string               `json:"notes,omitempty"`
	ApprovedAt     *time.Time           `json:"approved_at,omitempty"`
	RefundedAt     *time.Time           `json:"refunded_at,omitempty"`
	RejectedAt     *time.Time           `json:"rejected_at,omitempty"`
	RejectReason   string               `json:"reject_reason,omitempty"`
	Version        int                  `json:"version"`
	CreatedAt      time.Time            `json:"created_at"`
	UpdatedAt      time.Time            `json:"updated_at"`
}

// ToReturnResponse converts a domain return to its response form
func ToReturnResponse(ret *trade.Return) ReturnResponse {
	items := make([]ReturnItemResponse, 0, len(ret.Items))
	for _, item := range ret.Items {
		items = append(items, ReturnItemResponse{
			ID:          item.ID,
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			ProductCode: item.ProductCode,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			Amount:      item.Amount,
			Restock:     item.Restock,
			Reason:      item.Reason,
		})
	}

	return ReturnResponse{
		ID:             ret.ID,
		Number:         ret.Number,
		SalesInvoiceID: ret.SalesInvoiceID,
		CustomerID:     ret.CustomerID,
		CustomerName:   ret.CustomerName,
		WarehouseID:    ret.WarehouseID,
		Items:          items,
		RefundTotal:    ret.RefundTotal,
		Status:         ret.Status.String(),
		Notes:          ret.Notes,
		ApprovedAt:     ret.ApprovedAt,
		RefundedAt:     ret.RefundedAt,
		RejectedAt:     ret.RejectedAt,
		RejectReason:   ret.RejectReason,
		Version:        ret.Version,
		CreatedAt:      ret.CreatedAt,
		UpdatedAt:      ret.UpdatedAt,
	}
}

// ============================================
// Transfer DTOs
// ============================================

// CreateTransferItemRequest is one requested line on a new transfer
type CreateTransferItemRequest struct {
	ProductID uuid.UUID       `json:"product_id" binding:"required"`
	Quantity  decimal.Decimal `json:"quantity" binding:"required"`
}

// CreateTransferRequest is the request to create an inter-warehouse transfer
type CreateTransferRequest struct {
	SourceID       uuid.UUID                   `json:"source_id" binding:"required"`
	DestinationID  uuid.UUID                   `json:"destination_id" binding:"required"`
	Items          []CreateTransferItemRequest `json:"items" binding:"required,min=1"`
	Notes          string                      `json:"notes,omitempty"`
	IdempotencyKey string                      `json:"idempotency_key,omitempty"`
}

// TransferItemResponse is one line of a transfer response
type TransferItemResponse struct {
	ID          uuid.UUID       `json:"id"`
	ProductID   uuid.UUID       `json:"product_id"`
	ProductName string          `json:"product_name"`
	ProductCode string          `json:"product_code"`
	Quantity    decimal.Decimal `json:"quantity"`
}

// TransferResponse is the full transfer representation
type TransferResponse struct {
	ID            uuid.UUID              `json:"id"`
	Number        string                 `json:"number"`
	SourceID      uuid.UUID              `json:"source_id"`
	DestinationID uuid.UUID              `json:"destination_id"`
	Items         []TransferItemResponse `json:"items"`
	Status        string                 `json:"status"`
	Notes         string                 `json:"notes,omitempty"`
	DispatchedAt  *time.Time             `json:"dispatched_at,omitempty"`
	ReceivedAt    *time.Time             `json:"received_at,omitempty"`
	CancelledAt   *time.Time             `json:"cancelled_at,omitempty"`
	CancelReason  string                 `json:"cancel_reason,omitempty"`
	Version       int                    `json:"version"`
	CreatedAt     time.Time              `json:"created_at"`
	UpdatedAt     time.Time              `json:"updated_at"`
}

// ToTransferResponse converts a domain transfer to its response form
func ToTransferResponse(transfer *trade.Transfer) TransferResponse {
	items := make([]TransferItemResponse, 0, len(transfer.Items))
	for _, item := range transfer.Items {
		items = append(items, TransferItemResponse{
			ID:          item.ID,
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			ProductCode: item.ProductCode,
			Quantity:    item.Quantity,
		})
	}

	return TransferResponse{
		ID:            transfer.ID,
		Number:        transfer.Number,
		SourceID:      transfer.SourceID,
		DestinationID: transfer.DestinationID,
		Items:         items,
		Status:        transfer.Status.String(),
		Notes:         transfer.Notes,
		DispatchedAt:  transfer.DispatchedAt,
		ReceivedAt:    transfer.ReceivedAt,
		CancelledAt:   transfer.CancelledAt,
		CancelReason:  transfer.CancelReason,
		Version:       transfer.Version,
		CreatedAt:     transfer.CreatedAt,
		UpdatedAt:     transfer.UpdatedAt,
	}
}

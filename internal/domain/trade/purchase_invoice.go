package trade

import (
	"time"

	"github.com/bizledger/backend/internal/domain/shared"
	"github.com/bizledger/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

// PurchaseInvoiceStatus represents the status of a purchase invoice
type PurchaseInvoiceStatus string

const (
	PurchaseInvoiceStatusPending   PurchaseInvoiceStatus = "PENDING"
	PurchaseInvoiceStatusReceived  PurchaseInvoiceStatus = "RECEIVED"
	PurchaseInvoiceStatusCancelled PurchaseInvoiceStatus = "CANCELLED"
)

// IsValid checks if the status is a valid PurchaseInvoiceStatus
func (s PurchaseInvoiceStatus) IsValid() bool {
	switch s {
	case PurchaseInvoiceStatusPending, PurchaseInvoiceStatusReceived, PurchaseInvoiceStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of PurchaseInvoiceStatus
func (s PurchaseInvoiceStatus) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status
func (s PurchaseInvoiceStatus) CanTransitionTo(target PurchaseInvoiceStatus) bool {
	switch s {
	case PurchaseInvoiceStatusPending:
		return target == PurchaseInvoiceStatusReceived || target == PurchaseInvoiceStatusCancelled
	case PurchaseInvoiceStatusReceived, PurchaseInvoiceStatusCancelled:
		return false // Terminal states
	}
	return false
}

// PurchaseInvoiceItem represents a line item on a purchase invoice
type PurchaseInvoiceItem struct {
	ID          uuid.UUID       `gorm:"type:uuid;primary_key"`
	InvoiceID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID   uuid.UUID       `gorm:"type:uuid;not null"`
	ProductName string          `gorm:"type:varchar(200);not null"`
	ProductCode string          `gorm:"type:varchar(50);not null"`
	Quantity    decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	UnitCost    decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Amount      decimal.Decimal `gorm:"type:decimal(18,4);not null"` // Quantity * UnitCost
	// SerialNumbers optionally identifies the individual received units.
	// When present there is one serial per unit.
	SerialNumbers pq.StringArray `gorm:"type:text[]"`
	CreatedAt     time.Time      `gorm:"not null"`
	UpdatedAt     time.Time      `gorm:"not null"`
}

// TableName returns the table name for GORM
func (PurchaseInvoiceItem) TableName() string {
	return "purchase_invoice_items"
}

// NewPurchaseInvoiceItem creates a new purchase invoice line item.
// serialNumbers is optional; when given, it must carry exactly one serial
// per unit, which requires a whole-number quantity.
func NewPurchaseInvoiceItem(invoiceID, productID uuid.UUID, productName, productCode string, quantity decimal.Decimal, unitCost valueobject.Money, serialNumbers []string) (*PurchaseInvoiceItem, error) {
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if productName == "" {
		return nil, shared.NewDomainError("INVALID_PRODUCT_NAME", "Product name cannot be empty")
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if unitCost.Amount().IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Unit cost cannot be negative")
	}
	if len(serialNumbers) > 0 {
		if !quantity.IsInteger() || !quantity.Equal(decimal.NewFromInt(int64(len(serialNumbers)))) {
			return nil, shared.NewDomainError("INVALID_SERIAL_NUMBERS", "Serial numbers must match the quantity, one per unit")
		}
		for _, serial := range serialNumbers {
			if serial == "" {
				return nil, shared.NewDomainError("INVALID_SERIAL_NUMBERS", "Serial numbers cannot be empty")
			}
		}
	}

	now := time.Now()
	return &PurchaseInvoiceItem{
		ID:            uuid.New(),
		InvoiceID:     invoiceID,
		ProductID:     productID,
		ProductName:   productName,
		ProductCode:   productCode,
		Quantity:      quantity,
		UnitCost:      unitCost.Amount(),
		Amount:        quantity.Mul(unitCost.Amount()),
		SerialNumbers: serialNumbers,
		CreatedAt:     now,
		UpdatedAt:     now,
	}, nil
}

// UpdateQuantity updates the item quantity and recalculates the amount
func (i *PurchaseInvoiceItem) UpdateQuantity(quantity decimal.Decimal) error {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if len(i.SerialNumbers) > 0 && !quantity.Equal(decimal.NewFromInt(int64(len(i.SerialNumbers)))) {
		return shared.NewDomainError("INVALID_SERIAL_NUMBERS", "Quantity no longer matches the recorded serial numbers")
	}

	i.Quantity = quantity
	i.Amount = quantity.Mul(i.UnitCost)
	i.UpdatedAt = time.Now()

	return nil
}

// PurchaseInvoice represents a purchase invoice aggregate root.
// Stock is credited to the receiving warehouse when the invoice is
// marked RECEIVED (subject to the configured purchase policy).
type PurchaseInvoice struct {
	shared.TenantAggregateRoot
	Number       string                `gorm:"type:varchar(50);not null;index"`
	SupplierID   uuid.UUID             `gorm:"type:uuid;not null;index"`
	SupplierName string                `gorm:"type:varchar(200);not null"`
	WarehouseID  uuid.UUID             `gorm:"type:uuid;not null;index"`
	Items        []PurchaseInvoiceItem `gorm:"foreignKey:InvoiceID;references:ID"`
	Total        decimal.Decimal       `gorm:"type:decimal(18,4);not null;default:0"`
	Status       PurchaseInvoiceStatus `gorm:"type:varchar(20);not null;default:'PENDING'"`
	Notes        string                `gorm:"type:text"`
	ReceivedAt   *time.Time            `gorm:"index"`
	CancelledAt  *time.Time
	CancelReason string `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (PurchaseInvoice) TableName() string {
	return "purchase_invoices"
}

// NewPurchaseInvoice creates a new purchase invoice in PENDING status
func NewPurchaseInvoice(tenantID uuid.UUID, number string, supplierID uuid.UUID, supplierName string, warehouseID uuid.UUID) (*PurchaseInvoice, error) {
	if number == "" {
		return nil, shared.NewDomainError("INVALID_NUMBER", "Invoice number cannot be empty")
	}
	if supplierID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_SUPPLIER", "Supplier ID cannot be empty")
	}
	if supplierName == "" {
		return nil, shared.NewDomainError("INVALID_SUPPLIER_NAME", "Supplier name cannot be empty")
	}
	if warehouseID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_WAREHOUSE", "Warehouse ID cannot be empty")
	}

	invoice := &PurchaseInvoice{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Number:              number,
		SupplierID:          supplierID,
		SupplierName:        supplierName,
		WarehouseID:         warehouseID,
		Items:               make([]PurchaseInvoiceItem, 0),
		Total:               decimal.Zero,
		Status:              PurchaseInvoiceStatusPending,
	}

	invoice.AddDomainEvent(NewPurchaseInvoiceCreatedEvent(invoice))

	return invoice, nil
}

// AddItem adds a line item to the invoice
// Only allowed in PENDING status
func (inv *PurchaseInvoice) AddItem(productID uuid.UUID, productName, productCode string, quantity decimal.Decimal, unitCost valueobject.Money, serialNumbers []string) (*PurchaseInvoiceItem, error) {
	if inv.Status != PurchaseInvoiceStatusPending {
		return nil, shared.NewDomainError("INVALID_STATE", "Cannot add items to a non-pending invoice")
	}

	for _, item := range inv.Items {
		if item.ProductID == productID {
			return nil, shared.NewDomainError("DUPLICATE_PRODUCT", "Product already exists on invoice, update quantity instead")
		}
	}

	item, err := NewPurchaseInvoiceItem(inv.ID, productID, productName, productCode, quantity, unitCost, serialNumbers)
	if err != nil {
		return nil, err
	}

	inv.Items = append(inv.Items, *item)
	inv.recalculateTotals()
	inv.UpdatedAt = time.Now()

	return item, nil
}

// UpdateItemQuantity updates the quantity of an existing line item
// Only allowed in PENDING status
func (inv *PurchaseInvoice) UpdateItemQuantity(itemID uuid.UUID, quantity decimal.Decimal) error {
	if inv.Status != PurchaseInvoiceStatusPending {
		return shared.NewDomainError("INVALID_STATE", "Cannot update items on a non-pending invoice")
	}

	for idx := range inv.Items {
		if inv.Items[idx].ID == itemID {
			if err := inv.Items[idx].UpdateQuantity(quantity); err != nil {
				return err
			}
			inv.recalculateTotals()
			inv.UpdatedAt = time.Now()
			return nil
		}
	}

	return shared.NewDomainError("ITEM_NOT_FOUND", "Invoice item not found")
}

// RemoveItem removes a line item from the invoice
// Only allowed in PENDING status
func (inv *PurchaseInvoice) RemoveItem(itemID uuid.UUID) error {
	if inv.Status != PurchaseInvoiceStatusPending {
		return shared.NewDomainError("INVALID_STATE", "Cannot remove items from a non-pending invoice")
	}

	for idx, item := range inv.Items {
		if item.ID == itemID {
			inv.Items = append(inv.Items[:idx], inv.Items[idx+1:]...)
			inv.recalculateTotals()
			inv.UpdatedAt = time.Now()
			return nil
		}
	}

	return shared.NewDomainError("ITEM_NOT_FOUND", "Invoice item not found")
}

// SetNotes sets the invoice notes
func (inv *PurchaseInvoice) SetNotes(notes string) {
	inv.Notes = notes
	inv.UpdatedAt = time.Now()
}

// MarkReceived transitions the invoice to RECEIVED.
// The application service credits the receiving warehouse in the same
// transaction when the purchase policy says received goods adjust stock.
func (inv *PurchaseInvoice) MarkReceived() error {
	if !inv.Status.CanTransitionTo(PurchaseInvoiceStatusReceived) {
		return shared.NewInvalidTransitionError("PurchaseInvoice", inv.Status.String(), PurchaseInvoiceStatusReceived.String())
	}
	if len(inv.Items) == 0 {
		return shared.NewDomainError("NO_ITEMS", "Cannot receive an invoice without items")
	}

	now := time.Now()
	inv.Status = PurchaseInvoiceStatusReceived
	inv.ReceivedAt = &now
	inv.UpdatedAt = now

	inv.AddDomainEvent(NewPurchaseInvoiceReceivedEvent(inv))

	return nil
}

// Cancel transitions the invoice to CANCELLED. No stock was credited yet,
// so cancellation has no stock effect.
func (inv *PurchaseInvoice) Cancel(reason string) error {
	if !inv.Status.CanTransitionTo(PurchaseInvoiceStatusCancelled) {
		return shared.NewInvalidTransitionError("PurchaseInvoice", inv.Status.String(), PurchaseInvoiceStatusCancelled.String())
	}
	if reason == "" {
		return shared.NewDomainError("INVALID_REASON", "Cancel reason is required")
	}

	now := time.Now()
	inv.Status = PurchaseInvoiceStatusCancelled
	inv.CancelledAt = &now
	inv.CancelReason = reason
	inv.UpdatedAt = now

	inv.AddDomainEvent(NewPurchaseInvoiceCancelledEvent(inv))

	return nil
}

// recalculateTotals recalculates the invoice total from the line items
func (inv *PurchaseInvoice) recalculateTotals() {
	total := decimal.Zero
	for _, item := range inv.Items {
		total = total.Add(item.Amount)
	}
	inv.Total = total
}

// GetTotalMoney returns the invoice total as Money
func (inv *PurchaseInvoice) GetTotalMoney() valueobject.Money {
	return valueobject.NewMoneyUSD(inv.Total)
}

// ItemCount returns the number of line items
func (inv *PurchaseInvoice) ItemCount() int {
	return len(inv.Items)
}

// IsPending returns true if the invoice is pending
func (inv *PurchaseInvoice) IsPending() bool {
	return inv.Status == PurchaseInvoiceStatusPending
}

// IsReceived returns true if the invoice is received
func (inv *PurchaseInvoice) IsReceived() bool {
	return inv.Status == PurchaseInvoiceStatusReceived
}

// IsCancelled returns true if the invoice is cancelled
func (inv *PurchaseInvoice) IsCancelled() bool {
	return inv.Status == PurchaseInvoiceStatusCancelled
}

// IsTerminal returns true if the invoice is in a terminal state
func (inv *PurchaseInvoice) IsTerminal() bool {
	return inv.IsReceived() || inv.IsCancelled()
}

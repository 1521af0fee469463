package trade

import (
	"time"

	"github.com/bizledger/backend/internal/domain/shared"
	"github.com/bizledger/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SalesInvoiceStatus represents the status of a sales invoice
type SalesInvoiceStatus string

const (
	SalesInvoiceStatusPending   SalesInvoiceStatus = "PENDING"
	SalesInvoiceStatusPaid      SalesInvoiceStatus = "PAID"
	SalesInvoiceStatusCancelled SalesInvoiceStatus = "CANCELLED"
)

// IsValid checks if the status is a valid SalesInvoiceStatus
func (s SalesInvoiceStatus) IsValid() bool {
	switch s {
	case SalesInvoiceStatusPending, SalesInvoiceStatusPaid, SalesInvoiceStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of SalesInvoiceStatus
func (s SalesInvoiceStatus) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status
func (s SalesInvoiceStatus) CanTransitionTo(target SalesInvoiceStatus) bool {
	switch s {
	case SalesInvoiceStatusPending:
		return target == SalesInvoiceStatusPaid || target == SalesInvoiceStatusCancelled
	case SalesInvoiceStatusPaid, SalesInvoiceStatusCancelled:
		return false // Terminal states
	}
	return false
}

// SalesInvoiceItem represents a line item on a sales invoice
type SalesInvoiceItem struct {
	ID              uuid.UUID       `gorm:"type:uuid;primary_key"`
	InvoiceID       uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID       uuid.UUID       `gorm:"type:uuid;not null"`
	ProductName     string          `gorm:"type:varchar(200);not null"`
	ProductCode     string          `gorm:"type:varchar(50);not null"`
	Quantity        decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	UnitPrice       decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	DiscountPercent decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0"` // Line-level discount percentage
	TaxRate         decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0"` // Percentage snapshot from the product
	Subtotal        decimal.Decimal `gorm:"type:decimal(18,4);not null"`          // Quantity * UnitPrice
	DiscountAmount  decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	TaxAmount       decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"` // Tax on the undiscounted subtotal
	Total           decimal.Decimal `gorm:"type:decimal(18,4);not null"`           // Subtotal + Tax - Discount
	CreatedAt       time.Time       `gorm:"not null"`
	UpdatedAt       time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (SalesInvoiceItem) TableName() string {
	return "sales_invoice_items"
}

// NewSalesInvoiceItem creates a new sales invoice line item
func NewSalesInvoiceItem(invoiceID, productID uuid.UUID, productName, productCode string, quantity decimal.Decimal, unitPrice valueobject.Money, discountPercent, taxRate decimal.Decimal) (*SalesInvoiceItem, error) {
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if productName == "" {
		return nil, shared.NewDomainError("INVALID_PRODUCT_NAME", "Product name cannot be empty")
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if unitPrice.Amount().IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Unit price cannot be negative")
	}
	if discountPercent.IsNegative() || discountPercent.GreaterThan(decimal.NewFromInt(100)) {
		return nil, shared.NewDomainError("INVALID_DISCOUNT", "Discount percent must be between 0 and 100")
	}
	if taxRate.IsNegative() || taxRate.GreaterThan(decimal.NewFromInt(100)) {
		return nil, shared.NewDomainError("INVALID_TAX_RATE", "Tax rate must be between 0 and 100")
	}

	now := time.Now()
	item := &SalesInvoiceItem{
		ID:              uuid.New(),
		InvoiceID:       invoiceID,
		ProductID:       productID,
		ProductName:     productName,
		ProductCode:     productCode,
		Quantity:        quantity,
		UnitPrice:       unitPrice.Amount(),
		DiscountPercent: discountPercent,
		TaxRate:         taxRate,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	item.recalculate()

	return item, nil
}

// recalculate derives the line amounts from quantity, price, discount, and
// tax. Tax applies to the undiscounted subtotal; the discount comes off the
// taxed amount.
func (i *SalesInvoiceItem) recalculate() {
	hundred := decimal.NewFromInt(100)
	i.Subtotal = i.Quantity.Mul(i.UnitPrice)
	i.DiscountAmount = i.Subtotal.Mul(i.DiscountPercent).Div(hundred)
	i.TaxAmount = i.Subtotal.Mul(i.TaxRate).Div(hundred)
	i.Total = i.Subtotal.Add(i.TaxAmount).Sub(i.DiscountAmount)
}

// UpdateQuantity updates the item quantity and recalculates the line amounts
func (i *SalesInvoiceItem) UpdateQuantity(quantity decimal.Decimal) error {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}

	i.Quantity = quantity
	i.recalculate()
	i.UpdatedAt = time.Now()

	return nil
}

// GetTotalMoney returns the line total as Money
func (i *SalesInvoiceItem) GetTotalMoney() valueobject.Money {
	return valueobject.NewMoneyUSD(i.Total)
}

// SalesInvoice represents a sales invoice aggregate root.
// A sale deducts stock at creation time; PAID and CANCELLED are terminal
// and have no further stock effect.
type SalesInvoice struct {
	shared.TenantAggregateRoot
	Number        string     `gorm:"type:varchar(50);not null;index"`
	CustomerID    *uuid.UUID `gorm:"type:uuid;index"` // nil for anonymous walk-in sales
	CustomerName  string     `gorm:"type:varchar(200)"`
	WarehouseID   uuid.UUID  `gorm:"type:uuid;not null;index"`
	Items         []SalesInvoiceItem `gorm:"foreignKey:InvoiceID;references:ID"`
	Subtotal      decimal.Decimal    `gorm:"type:decimal(18,4);not null;default:0"`
	Discount      decimal.Decimal    `gorm:"type:decimal(18,4);not null;default:0"` // Flat invoice-level discount
	DiscountTotal decimal.Decimal    `gorm:"type:decimal(18,4);not null;default:0"` // Line discounts + invoice discount
	TaxTotal      decimal.Decimal    `gorm:"type:decimal(18,4);not null;default:0"`
	Total         decimal.Decimal    `gorm:"type:decimal(18,4);not null;default:0"`
	Status        SalesInvoiceStatus `gorm:"type:varchar(20);not null;default:'PENDING'"`
	PaymentMethod *PaymentMethod     `gorm:"type:varchar(20)"`
	Notes         string             `gorm:"type:text"`
	PaidAt        *time.Time         `gorm:"index"`
	CancelledAt   *time.Time
	CancelReason  string `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (SalesInvoice) TableName() string {
	return "sales_invoices"
}

// NewSalesInvoice creates a new sales invoice in PENDING status
func NewSalesInvoice(tenantID uuid.UUID, number string, warehouseID uuid.UUID) (*SalesInvoice, error) {
	if number == "" {
		return nil, shared.NewDomainError("INVALID_NUMBER", "Invoice number cannot be empty")
	}
	if warehouseID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_WAREHOUSE", "Warehouse ID cannot be empty")
	}

	invoice := &SalesInvoice{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Number:              number,
		WarehouseID:         warehouseID,
		Items:               make([]SalesInvoiceItem, 0),
		Subtotal:            decimal.Zero,
		Discount:            decimal.Zero,
		DiscountTotal:       decimal.Zero,
		TaxTotal:            decimal.Zero,
		Total:               decimal.Zero,
		Status:              SalesInvoiceStatusPending,
	}

	invoice.AddDomainEvent(NewSalesInvoiceCreatedEvent(invoice))

	return invoice, nil
}

// SetCustomer attaches a customer reference; a nil ID marks an anonymous sale
func (inv *SalesInvoice) SetCustomer(customerID *uuid.UUID, customerName string) {
	inv.CustomerID = customerID
	inv.CustomerName = customerName
	inv.UpdatedAt = time.Now()
}

// AddItem adds a line item to the invoice
// Only allowed in PENDING status
func (inv *SalesInvoice) AddItem(productID uuid.UUID, productName, productCode string, quantity decimal.Decimal, unitPrice valueobject.Money, discountPercent, taxRate decimal.Decimal) (*SalesInvoiceItem, error) {
	if inv.Status != SalesInvoiceStatusPending {
		return nil, shared.NewDomainError("INVALID_STATE", "Cannot add items to a non-pending invoice")
	}

	for _, item := range inv.Items {
		if item.ProductID == productID {
			return nil, shared.NewDomainError("DUPLICATE_PRODUCT", "Product already exists on invoice, update quantity instead")
		}
	}

	item, err := NewSalesInvoiceItem(inv.ID, productID, productName, productCode, quantity, unitPrice, discountPercent, taxRate)
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
func (inv *SalesInvoice) UpdateItemQuantity(itemID uuid.UUID, quantity decimal.Decimal) error {
	if inv.Status != SalesInvoiceStatusPending {
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
func (inv *SalesInvoice) RemoveItem(itemID uuid.UUID) error {
	if inv.Status != SalesInvoiceStatusPending {
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

// ApplyDiscount sets a flat invoice-level discount on top of any line
// discounts. Only allowed in PENDING status, after items have been added;
// the combined discount may not exceed the taxed amount.
func (inv *SalesInvoice) ApplyDiscount(amount decimal.Decimal) error {
	if inv.Status != SalesInvoiceStatusPending {
		return shared.NewDomainError("INVALID_STATE", "Cannot discount a non-pending invoice")
	}
	if amount.IsNegative() {
		return shared.NewDomainError("INVALID_DISCOUNT", "Discount cannot be negative")
	}

	inv.Discount = amount
	inv.recalculateTotals()
	if inv.Total.IsNegative() {
		inv.Discount = decimal.Zero
		inv.recalculateTotals()
		return shared.NewDomainError("INVALID_DISCOUNT", "Discount exceeds the invoice amount")
	}
	inv.UpdatedAt = time.Now()

	return nil
}

// SetNotes sets the invoice notes
func (inv *SalesInvoice) SetNotes(notes string) {
	inv.Notes = notes
	inv.UpdatedAt = time.Now()
}

// MarkPaid transitions the invoice to PAID, recording the payment method
func (inv *SalesInvoice) MarkPaid(method PaymentMethod) error {
	if !inv.Status.CanTransitionTo(SalesInvoiceStatusPaid) {
		return shared.NewInvalidTransitionError("SalesInvoice", inv.Status.String(), SalesInvoiceStatusPaid.String())
	}
	if !method.IsValid() {
		return shared.NewDomainError("INVALID_PAYMENT_METHOD", "Unknown payment method")
	}
	if len(inv.Items) == 0 {
		return shared.NewDomainError("NO_ITEMS", "Cannot pay an invoice without items")
	}

	now := time.Now()
	inv.Status = SalesInvoiceStatusPaid
	inv.PaymentMethod = &method
	inv.PaidAt = &now
	inv.UpdatedAt = now

	inv.AddDomainEvent(NewSalesInvoicePaidEvent(inv))

	return nil
}

// Cancel transitions the invoice to CANCELLED.
// The stock deducted at creation is restored by the application service
// in the same transaction.
func (inv *SalesInvoice) Cancel(reason string) error {
	if !inv.Status.CanTransitionTo(SalesInvoiceStatusCancelled) {
		return shared.NewInvalidTransitionError("SalesInvoice", inv.Status.String(), SalesInvoiceStatusCancelled.String())
	}
	if reason == "" {
		return shared.NewDomainError("INVALID_REASON", "Cancel reason is required")
	}

	now := time.Now()
	inv.Status = SalesInvoiceStatusCancelled
	inv.CancelledAt = &now
	inv.CancelReason = reason
	inv.UpdatedAt = now

	inv.AddDomainEvent(NewSalesInvoiceCancelledEvent(inv))

	return nil
}

// recalculateTotals recalculates the invoice totals from the line items and
// the invoice-level discount. The header always satisfies
// Total == Subtotal + TaxTotal - DiscountTotal.
func (inv *SalesInvoice) recalculateTotals() {
	subtotal := decimal.Zero
	discount := decimal.Zero
	tax := decimal.Zero
	for _, item := range inv.Items {
		subtotal = subtotal.Add(item.Subtotal)
		discount = discount.Add(item.DiscountAmount)
		tax = tax.Add(item.TaxAmount)
	}
	inv.Subtotal = subtotal
	inv.DiscountTotal = discount.Add(inv.Discount)
	inv.TaxTotal = tax
	inv.Total = subtotal.Add(tax).Sub(inv.DiscountTotal)
}

// GetTotalMoney returns the invoice total as Money
func (inv *SalesInvoice) GetTotalMoney() valueobject.Money {
	return valueobject.NewMoneyUSD(inv.Total)
}

// ItemCount returns the number of line items
func (inv *SalesInvoice) ItemCount() int {
	return len(inv.Items)
}

// IsAnonymous returns true if the sale has no customer attached
func (inv *SalesInvoice) IsAnonymous() bool {
	return inv.CustomerID == nil
}

// IsPending returns true if the invoice is pending
func (inv *SalesInvoice) IsPending() bool {
	return inv.Status == SalesInvoiceStatusPending
}

// IsPaid returns true if the invoice is paid
func (inv *SalesInvoice) IsPaid() bool {
	return inv.Status == SalesInvoiceStatusPaid
}

// IsCancelled returns true if the invoice is cancelled
func (inv *SalesInvoice) IsCancelled() bool {
	return inv.Status == SalesInvoiceStatusCancelled
}

// IsTerminal returns true if the invoice is in a terminal state
func (inv *SalesInvoice) IsTerminal() bool {
	return inv.IsPaid() || inv.IsCancelled()
}

// GetItemByProduct returns a line item by product ID
func (inv *SalesInvoice) GetItemByProduct(productID uuid.UUID) *SalesInvoiceItem {
	for idx := range inv.Items {
		if inv.Items[idx].ProductID == productID {
			return &inv.Items[idx]
		}
	}
	return nil
}

package trade

import (
	"time"

	"github.com/bizledger/backend/internal/domain/shared"
	"github.com/bizledger/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ReturnStatus represents the status of a customer return
type ReturnStatus string

const (
	ReturnStatusPending  ReturnStatus = "PENDING"
	ReturnStatusApproved ReturnStatus = "APPROVED"
	ReturnStatusRefunded ReturnStatus = "REFUNDED"
	ReturnStatusRejected ReturnStatus = "REJECTED"
)

// IsValid checks if the status is a valid ReturnStatus
func (s ReturnStatus) IsValid() bool {
	switch s {
	case ReturnStatusPending, ReturnStatusApproved, ReturnStatusRefunded, ReturnStatusRejected:
		return true
	}
	return false
}

// String returns the string representation of ReturnStatus
func (s ReturnStatus) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status
func (s ReturnStatus) CanTransitionTo(target ReturnStatus) bool {
	switch s {
	case ReturnStatusPending:
		return target == ReturnStatusApproved || target == ReturnStatusRejected
	case ReturnStatusApproved:
		return target == ReturnStatusRefunded
	case ReturnStatusRefunded, ReturnStatusRejected:
		return false // Terminal states
	}
	return false
}

// ReturnItem represents a returned line, tied back to a sales invoice line.
// Restock marks whether the returned units are candidates for resale;
// either way they enter the inspection pool first, never stock directly.
type ReturnItem struct {
	ID          uuid.UUID       `gorm:"type:uuid;primary_key"`
	ReturnID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID   uuid.UUID       `gorm:"type:uuid;not null"`
	ProductName string          `gorm:"type:varchar(200);not null"`
	ProductCode string          `gorm:"type:varchar(50);not null"`
	Quantity    decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(18,4);not null"` // Refund price per unit, from the original line
	Amount      decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Restock     bool            `gorm:"not null;default:false"`
	Reason      string          `gorm:"type:varchar(500)"`
	CreatedAt   time.Time       `gorm:"not null"`
	UpdatedAt   time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (ReturnItem) TableName() string {
	return "return_items"
}

// NewReturnItem creates a new return line item
func NewReturnItem(returnID, productID uuid.UUID, productName, productCode string, quantity decimal.Decimal, unitPrice valueobject.Money, restock bool, reason string) (*ReturnItem, error) {
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if productName == "" {
		return nil, shared.NewDomainError("INVALID_PRODUCT_NAME", "Product name cannot be empty")
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Return quantity must be positive")
	}
	if unitPrice.Amount().IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Unit price cannot be negative")
	}

	now := time.Now()
	return &ReturnItem{
		ID:          uuid.New(),
		ReturnID:    returnID,
		ProductID:   productID,
		ProductName: productName,
		ProductCode: productCode,
		Quantity:    quantity,
		UnitPrice:   unitPrice.Amount(),
		Amount:      quantity.Mul(unitPrice.Amount()),
		Restock:     restock,
		Reason:      reason,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// Return represents a customer return against a paid sales invoice.
// Returned units are quarantined in inspection lots on approval; the
// refund is recorded when the return transitions to REFUNDED.
type Return struct {
	shared.TenantAggregateRoot
	Number         string          `gorm:"type:varchar(50);not null;index"`
	SalesInvoiceID uuid.UUID       `gorm:"type:uuid;not null;index"`
	CustomerID     *uuid.UUID      `gorm:"type:uuid;index"`
	CustomerName   string          `gorm:"type:varchar(200)"`
	WarehouseID    uuid.UUID       `gorm:"type:uuid;not null;index"` // Warehouse whose inspection pool receives the units
	Items          []ReturnItem    `gorm:"foreignKey:ReturnID;references:ID"`
	RefundTotal    decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Status         ReturnStatus    `gorm:"type:varchar(20);not null;default:'PENDING'"`
	Notes          string          `gorm:"type:text"`
	ApprovedAt     *time.Time      `gorm:"index"`
	RefundedAt     *time.Time
	RejectedAt     *time.Time
	RejectReason   string `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (Return) TableName() string {
	return "returns"
}

// NewReturn creates a new return in PENDING status
func NewReturn(tenantID uuid.UUID, number string, salesInvoiceID, warehouseID uuid.UUID) (*Return, error) {
	if number == "" {
		return nil, shared.NewDomainError("INVALID_NUMBER", "Return number cannot be empty")
	}
	if salesInvoiceID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_INVOICE", "Sales invoice ID cannot be empty")
	}
	if warehouseID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_WAREHOUSE", "Warehouse ID cannot be empty")
	}

	ret := &Return{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Number:              number,
		SalesInvoiceID:      salesInvoiceID,
		WarehouseID:         warehouseID,
		Items:               make([]ReturnItem, 0),
		RefundTotal:         decimal.Zero,
		Status:              ReturnStatusPending,
	}

	ret.AddDomainEvent(NewReturnCreatedEvent(ret))

	return ret, nil
}

// SetCustomer carries the customer reference over from the original invoice
func (r *Return) SetCustomer(customerID *uuid.UUID, customerName string) {
	r.CustomerID = customerID
	r.CustomerName = customerName
	r.UpdatedAt = time.Now()
}

// AddItem adds a returned line. Only allowed in PENDING status.
// soldQuantity is the quantity on the original invoice line; the return
// quantity may never exceed it.
func (r *Return) AddItem(productID uuid.UUID, productName, productCode string, quantity, soldQuantity decimal.Decimal, unitPrice valueobject.Money, restock bool, reason string) (*ReturnItem, error) {
	if r.Status != ReturnStatusPending {
		return nil, shared.NewDomainError("INVALID_STATE", "Cannot add items to a non-pending return")
	}

	for _, item := range r.Items {
		if item.ProductID == productID {
			return nil, shared.NewDomainError("DUPLICATE_PRODUCT", "Product already exists on return")
		}
	}

	if quantity.GreaterThan(soldQuantity) {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Return quantity cannot exceed sold quantity")
	}

	item, err := NewReturnItem(r.ID, productID, productName, productCode, quantity, unitPrice, restock, reason)
	if err != nil {
		return nil, err
	}

	r.Items = append(r.Items, *item)
	r.recalculateTotals()
	r.UpdatedAt = time.Now()

	return item, nil
}

// SetNotes sets the return notes
func (r *Return) SetNotes(notes string) {
	r.Notes = notes
	r.UpdatedAt = time.Now()
}

// Approve transitions the return to APPROVED. The application service
// stages the returned quantities into inspection lots in the same
// transaction.
func (r *Return) Approve() error {
	if !r.Status.CanTransitionTo(ReturnStatusApproved) {
		return shared.NewInvalidTransitionError("Return", r.Status.String(), ReturnStatusApproved.String())
	}
	if len(r.Items) == 0 {
		return shared.NewDomainError("NO_ITEMS", "Cannot approve a return without items")
	}

	now := time.Now()
	r.Status = ReturnStatusApproved
	r.ApprovedAt = &now
	r.UpdatedAt = now

	r.AddDomainEvent(NewReturnApprovedEvent(r))

	return nil
}

// Refund transitions the return to REFUNDED, closing it out. A non-nil
// amount overrides the computed refund total at refund time, capped by it;
// nil keeps the computed total.
func (r *Return) Refund(amount *decimal.Decimal) error {
	if !r.Status.CanTransitionTo(ReturnStatusRefunded) {
		return shared.NewInvalidTransitionError("Return", r.Status.String(), ReturnStatusRefunded.String())
	}
	if amount != nil {
		if amount.IsNegative() {
			return shared.NewDomainError("INVALID_REFUND_AMOUNT", "Refund amount cannot be negative")
		}
		if amount.GreaterThan(r.RefundTotal) {
			return shared.NewDomainError("INVALID_REFUND_AMOUNT", "Refund amount cannot exceed the computed refund total")
		}
		r.RefundTotal = *amount
	}

	now := time.Now()
	r.Status = ReturnStatusRefunded
	r.RefundedAt = &now
	r.UpdatedAt = now

	r.AddDomainEvent(NewReturnRefundedEvent(r))

	return nil
}

// Reject transitions the return to REJECTED. A reason is mandatory.
func (r *Return) Reject(reason string) error {
	if !r.Status.CanTransitionTo(ReturnStatusRejected) {
		return shared.NewInvalidTransitionError("Return", r.Status.String(), ReturnStatusRejected.String())
	}
	if reason == "" {
		return shared.NewDomainError("INVALID_REASON", "Reject reason is required")
	}

	now := time.Now()
	r.Status = ReturnStatusRejected
	r.RejectedAt = &now
	r.RejectReason = reason
	r.UpdatedAt = now

	r.AddDomainEvent(NewReturnRejectedEvent(r))

	return nil
}

// recalculateTotals recalculates the refund total from the line items
func (r *Return) recalculateTotals() {
	total := decimal.Zero
	for _, item := range r.Items {
		total = total.Add(item.Amount)
	}
	r.RefundTotal = total
}

// GetRefundTotalMoney returns the refund total as Money
func (r *Return) GetRefundTotalMoney() valueobject.Money {
	return valueobject.NewMoneyUSD(r.RefundTotal)
}

// RestockItems returns the lines flagged for restocking
func (r *Return) RestockItems() []ReturnItem {
	items := make([]ReturnItem, 0, len(r.Items))
	for _, item := range r.Items {
		if item.Restock {
			items = append(items, item)
		}
	}
	return items
}

// ItemCount returns the number of returned lines
func (r *Return) ItemCount() int {
	return len(r.Items)
}

// IsPending returns true if the return is pending
func (r *Return) IsPending() bool {
	return r.Status == ReturnStatusPending
}

// IsApproved returns true if the return is approved
func (r *Return) IsApproved() bool {
	return r.Status == ReturnStatusApproved
}

// IsRefunded returns true if the return is refunded
func (r *Return) IsRefunded() bool {
	return r.Status == ReturnStatusRefunded
}

// IsRejected returns true if the return is rejected
func (r *Return) IsRejected() bool {
	return r.Status == ReturnStatusRejected
}

// IsTerminal returns true if the return is in a terminal state
func (r *Return) IsTerminal() bool {
	return r.IsRefunded() || r.IsRejected()
}

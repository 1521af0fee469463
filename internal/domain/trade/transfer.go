package trade

import (
	"time"

	"github.com/bizledger/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransferStatus represents the status of an inter-warehouse transfer
type TransferStatus string

const (
	TransferStatusPending   TransferStatus = "PENDING"
	TransferStatusInTransit TransferStatus = "IN_TRANSIT"
	TransferStatusReceived  TransferStatus = "RECEIVED"
	TransferStatusCancelled TransferStatus = "CANCELLED"
)

// IsValid checks if the status is a valid TransferStatus
func (s TransferStatus) IsValid() bool {
	switch s {
	case TransferStatusPending, TransferStatusInTransit, TransferStatusReceived, TransferStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of TransferStatus
func (s TransferStatus) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status
func (s TransferStatus) CanTransitionTo(target TransferStatus) bool {
	switch s {
	case TransferStatusPending:
		return target == TransferStatusInTransit || target == TransferStatusCancelled
	case TransferStatusInTransit:
		return target == TransferStatusReceived || target == TransferStatusCancelled
	case TransferStatusReceived, TransferStatusCancelled:
		return false // Terminal states
	}
	return false
}

// TransferItem represents a product quantity moving between warehouses
type TransferItem struct {
	ID          uuid.UUID       `gorm:"type:uuid;primary_key"`
	TransferID  uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID   uuid.UUID       `gorm:"type:uuid;not null"`
	ProductName string          `gorm:"type:varchar(200);not null"`
	ProductCode string          `gorm:"type:varchar(50);not null"`
	Quantity    decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	CreatedAt   time.Time       `gorm:"not null"`
	UpdatedAt   time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (TransferItem) TableName() string {
	return "transfer_items"
}

// NewTransferItem creates a new transfer line item
func NewTransferItem(transferID, productID uuid.UUID, productName, productCode string, quantity decimal.Decimal) (*TransferItem, error) {
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if productName == "" {
		return nil, shared.NewDomainError("INVALID_PRODUCT_NAME", "Product name cannot be empty")
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Transfer quantity must be positive")
	}

	now := time.Now()
	return &TransferItem{
		ID:          uuid.New(),
		TransferID:  transferID,
		ProductID:   productID,
		ProductName: productName,
		ProductCode: productCode,
		Quantity:    quantity,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// UpdateQuantity updates the item quantity
func (i *TransferItem) UpdateQuantity(quantity decimal.Decimal) error {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_QUANTITY", "Transfer quantity must be positive")
	}

	i.Quantity = quantity
	i.UpdatedAt = time.Now()

	return nil
}

// Transfer represents an inter-warehouse stock movement document.
// The source warehouse is debited when the transfer departs (IN_TRANSIT);
// the destination is credited on receipt. Cancelling an in-transit
// transfer credits the goods back to the source.
type Transfer struct {
	shared.TenantAggregateRoot
	Number        string         `gorm:"type:varchar(50);not null;index"`
	SourceID      uuid.UUID      `gorm:"type:uuid;not null;index"` // Source warehouse
	DestinationID uuid.UUID      `gorm:"type:uuid;not null;index"` // Destination warehouse
	Items         []TransferItem `gorm:"foreignKey:TransferID;references:ID"`
	Status        TransferStatus `gorm:"type:varchar(20);not null;default:'PENDING'"`
	Notes         string         `gorm:"type:text"`
	DispatchedAt  *time.Time     `gorm:"index"`
	ReceivedAt    *time.Time
	CancelledAt   *time.Time
	CancelReason  string `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (Transfer) TableName() string {
	return "transfers"
}

// NewTransfer creates a new transfer in PENDING status.
// Source and destination must be different warehouses.
func NewTransfer(tenantID uuid.UUID, number string, sourceID, destinationID uuid.UUID) (*Transfer, error) {
	if number == "" {
		return nil, shared.NewDomainError("INVALID_NUMBER", "Transfer number cannot be empty")
	}
	if sourceID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_WAREHOUSE", "Source warehouse ID cannot be empty")
	}
	if destinationID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_WAREHOUSE", "Destination warehouse ID cannot be empty")
	}
	if sourceID == destinationID {
		return nil, shared.NewDomainError("INVALID_WAREHOUSE", "Source and destination warehouses must differ")
	}

	transfer := &Transfer{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Number:              number,
		SourceID:            sourceID,
		DestinationID:       destinationID,
		Items:               make([]TransferItem, 0),
		Status:              TransferStatusPending,
	}

	transfer.AddDomainEvent(NewTransferCreatedEvent(transfer))

	return transfer, nil
}

// AddItem adds a line item to the transfer
// Only allowed in PENDING status
func (t *Transfer) AddItem(productID uuid.UUID, productName, productCode string, quantity decimal.Decimal) (*TransferItem, error) {
	if t.Status != TransferStatusPending {
		return nil, shared.NewDomainError("INVALID_STATE", "Cannot add items to a non-pending transfer")
	}

	for _, item := range t.Items {
		if item.ProductID == productID {
			return nil, shared.NewDomainError("DUPLICATE_PRODUCT", "Product already exists on transfer, update quantity instead")
		}
	}

	item, err := NewTransferItem(t.ID, productID, productName, productCode, quantity)
	if err != nil {
		return nil, err
	}

	t.Items = append(t.Items, *item)
	t.UpdatedAt = time.Now()

	return item, nil
}

// UpdateItemQuantity updates the quantity of an existing line item
// Only allowed in PENDING status
func (t *Transfer) UpdateItemQuantity(itemID uuid.UUID, quantity decimal.Decimal) error {
	if t.Status != TransferStatusPending {
		return shared.NewDomainError("INVALID_STATE", "Cannot update items on a non-pending transfer")
	}

	for idx := range t.Items {
		if t.Items[idx].ID == itemID {
			if err := t.Items[idx].UpdateQuantity(quantity); err != nil {
				return err
			}
			t.UpdatedAt = time.Now()
			return nil
		}
	}

	return shared.NewDomainError("ITEM_NOT_FOUND", "Transfer item not found")
}

// RemoveItem removes a line item from the transfer
// Only allowed in PENDING status
func (t *Transfer) RemoveItem(itemID uuid.UUID) error {
	if t.Status != TransferStatusPending {
		return shared.NewDomainError("INVALID_STATE", "Cannot remove items from a non-pending transfer")
	}

	for idx, item := range t.Items {
		if item.ID == itemID {
			t.Items = append(t.Items[:idx], t.Items[idx+1:]...)
			t.UpdatedAt = time.Now()
			return nil
		}
	}

	return shared.NewDomainError("ITEM_NOT_FOUND", "Transfer item not found")
}

// SetNotes sets the transfer notes
func (t *Transfer) SetNotes(notes string) {
	t.Notes = notes
	t.UpdatedAt = time.Now()
}

// Dispatch transitions the transfer to IN_TRANSIT. The application
// service debits the source warehouse in the same transaction.
func (t *Transfer) Dispatch() error {
	if !t.Status.CanTransitionTo(TransferStatusInTransit) {
		return shared.NewInvalidTransitionError("Transfer", t.Status.String(), TransferStatusInTransit.String())
	}
	if len(t.Items) == 0 {
		return shared.NewDomainError("NO_ITEMS", "Cannot dispatch a transfer without items")
	}

	now := time.Now()
	t.Status = TransferStatusInTransit
	t.DispatchedAt = &now
	t.UpdatedAt = now

	t.AddDomainEvent(NewTransferDispatchedEvent(t))

	return nil
}

// Receive transitions the transfer to RECEIVED. The application service
// credits the destination warehouse in the same transaction.
func (t *Transfer) Receive() error {
	if !t.Status.CanTransitionTo(TransferStatusReceived) {
		return shared.NewInvalidTransitionError("Transfer", t.Status.String(), TransferStatusReceived.String())
	}

	now := time.Now()
	t.Status = TransferStatusReceived
	t.ReceivedAt = &now
	t.UpdatedAt = now

	t.AddDomainEvent(NewTransferReceivedEvent(t))

	return nil
}

// Cancel transitions the transfer to CANCELLED. If the transfer was
// already in transit, the application service credits the goods back
// to the source warehouse in the same transaction.
func (t *Transfer) Cancel(reason string) error {
	if !t.Status.CanTransitionTo(TransferStatusCancelled) {
		return shared.NewInvalidTransitionError("Transfer", t.Status.String(), TransferStatusCancelled.String())
	}
	if reason == "" {
		return shared.NewDomainError("INVALID_REASON", "Cancel reason is required")
	}

	wasInTransit := t.Status == TransferStatusInTransit
	now := time.Now()
	t.Status = TransferStatusCancelled
	t.CancelledAt = &now
	t.CancelReason = reason
	t.UpdatedAt = now

	t.AddDomainEvent(NewTransferCancelledEvent(t, wasInTransit))

	return nil
}

// ItemCount returns the number of line items
func (t *Transfer) ItemCount() int {
	return len(t.Items)
}

// TotalQuantity returns the sum of all line quantities
func (t *Transfer) TotalQuantity() decimal.Decimal {
	total := decimal.Zero
	for _, item := range t.Items {
		total = total.Add(item.Quantity)
	}
	return total
}

// IsPending returns true if the transfer is pending
func (t *Transfer) IsPending() bool {
	return t.Status == TransferStatusPending
}

// IsInTransit returns true if the transfer is in transit
func (t *Transfer) IsInTransit() bool {
	return t.Status == TransferStatusInTransit
}

// IsReceived returns true if the transfer is received
func (t *Transfer) IsReceived() bool {
	return t.Status == TransferStatusReceived
}

// IsCancelled returns true if the transfer is cancelled
func (t *Transfer) IsCancelled() bool {
	return t.Status == TransferStatusCancelled
}

// IsTerminal returns true if the transfer is in a terminal state
func (t *Transfer) IsTerminal() bool {
	return t.IsReceived() || t.IsCancelled()
}

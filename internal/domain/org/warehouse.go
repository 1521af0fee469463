package org

import (
	"strings"
	"time"

	"github.com/bizledger/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// WarehouseStatus represents the status of a warehouse
type WarehouseStatus string

const (
	WarehouseStatusActive   WarehouseStatus = "active"
	WarehouseStatusInactive WarehouseStatus = "inactive"
)

// Warehouse represents a stock-holding location within a branch.
// Every stock record and every document's stock effect is attributed
// to exactly one warehouse.
type Warehouse struct {
	shared.TenantAggregateRoot
	BranchID  uuid.UUID       `gorm:"type:uuid;not null;index"`
	Code      string          `gorm:"type:varchar(50);not null;uniqueIndex:idx_warehouse_tenant_code,priority:2"`
	Name      string          `gorm:"type:varchar(200);not null"`
	Address   string          `gorm:"type:text"`
	IsDefault bool            `gorm:"not null;default:false"` // Default warehouse for the branch
	Status    WarehouseStatus `gorm:"type:varchar(20);not null;default:'active'"`
	Notes     string          `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (Warehouse) TableName() string {
	return "warehouses"
}

// NewWarehouse creates a new warehouse under a branch
func NewWarehouse(tenantID, branchID uuid.UUID, code, name string) (*Warehouse, error) {
	if branchID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_BRANCH", "Warehouse must belong to a branch")
	}
	if err := validateCode(code, "Warehouse"); err != nil {
		return nil, err
	}
	if err := validateName(name, "Warehouse"); err != nil {
		return nil, err
	}

	warehouse := &Warehouse{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		BranchID:            branchID,
		Code:                strings.ToUpper(code),
		Name:                name,
		Status:              WarehouseStatusActive,
	}

	warehouse.AddDomainEvent(NewWarehouseCreatedEvent(warehouse))

	return warehouse, nil
}

// Update updates the warehouse's basic information
func (w *Warehouse) Update(name, address, notes string) error {
	if err := validateName(name, "Warehouse"); err != nil {
		return err
	}

	w.Name = name
	w.Address = address
	w.Notes = notes
	w.UpdatedAt = time.Now()
	w.IncrementVersion()

	return nil
}

// SetDefault marks this warehouse as the default for its branch
func (w *Warehouse) SetDefault(isDefault bool) {
	w.IsDefault = isDefault
	w.UpdatedAt = time.Now()
	w.IncrementVersion()
}

// Enable enables the warehouse
func (w *Warehouse) Enable() error {
	if w.Status == WarehouseStatusActive {
		return shared.NewDomainError("ALREADY_ACTIVE", "Warehouse is already active")
	}

	w.Status = WarehouseStatusActive
	w.UpdatedAt = time.Now()
	w.IncrementVersion()

	return nil
}

// Disable disables the warehouse
func (w *Warehouse) Disable() error {
	if w.Status == WarehouseStatusInactive {
		return shared.NewDomainError("ALREADY_INACTIVE", "Warehouse is already inactive")
	}

	// The default warehouse must stay usable
	if w.IsDefault {
		return shared.NewDomainError("CANNOT_DISABLE_DEFAULT", "Cannot disable the default warehouse")
	}

	w.Status = WarehouseStatusInactive
	w.UpdatedAt = time.Now()
	w.IncrementVersion()

	return nil
}

// IsActive returns true if the warehouse is active
func (w *Warehouse) IsActive() bool {
	return w.Status == WarehouseStatusActive
}

// Validation helpers shared by branch and warehouse

func validateCode(code, kind string) error {
	if code == "" {
		return shared.NewDomainError("INVALID_CODE", kind+" code cannot be empty")
	}
	if len(code) > 50 {
		return shared.NewDomainError("INVALID_CODE", kind+" code cannot exceed 50 characters")
	}
	for _, r := range code {
		if !((r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '_' || r == '-') {
			return shared.NewDomainError("INVALID_CODE", kind+" code can only contain letters, numbers, underscores, and hyphens")
		}
	}
	return nil
}

func validateName(name, kind string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", kind+" name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", kind+" name cannot exceed 200 characters")
	}
	return nil
}

package org

import (
	"strings"
	"time"

	"github.com/bizledger/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// BranchStatus represents the status of a branch
type BranchStatus string

const (
	BranchStatusActive   BranchStatus = "active"
	BranchStatusInactive BranchStatus = "inactive"
)

// Branch represents a physical business location a tenant operates.
// Warehouses belong to branches; documents reference warehouses.
type Branch struct {
	shared.TenantAggregateRoot
	Code    string       `gorm:"type:varchar(50);not null;uniqueIndex:idx_branch_tenant_code,priority:2"`
	Name    string       `gorm:"type:varchar(200);not null"`
	Address string       `gorm:"type:text"`
	Phone   string       `gorm:"type:varchar(50)"`
	Status  BranchStatus `gorm:"type:varchar(20);not null;default:'active'"`
}

// TableName returns the table name for GORM
func (Branch) TableName() string {
	return "branches"
}

// NewBranch creates a new branch
func NewBranch(tenantID uuid.UUID, code, name string) (*Branch, error) {
	if err := validateCode(code, "Branch"); err != nil {
		return nil, err
	}
	if err := validateName(name, "Branch"); err != nil {
		return nil, err
	}

	branch := &Branch{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Code:                strings.ToUpper(code),
		Name:                name,
		Status:              BranchStatusActive,
	}

	return branch, nil
}

// Update updates the branch's basic information
func (b *Branch) Update(name, address, phone string) error {
	if err := validateName(name, "Branch"); err != nil {
		return err
	}

	b.Name = name
	b.Address = address
	b.Phone = phone
	b.UpdatedAt = time.Now()
	b.IncrementVersion()

	return nil
}

// Disable makes the branch inactive
func (b *Branch) Disable() error {
	if b.Status == BranchStatusInactive {
		return shared.NewDomainError("ALREADY_INACTIVE", "Branch is already inactive")
	}
	b.Status = BranchStatusInactive
	b.UpdatedAt = time.Now()
	b.IncrementVersion()
	return nil
}

// Enable makes the branch active
func (b *Branch) Enable() error {
	if b.Status == BranchStatusActive {
		return shared.NewDomainError("ALREADY_ACTIVE", "Branch is already active")
	}
	b.Status = BranchStatusActive
	b.UpdatedAt = time.Now()
	b.IncrementVersion()
	return nil
}

// IsActive returns true if the branch is active
func (b *Branch) IsActive() bool {
	return b.Status == BranchStatusActive
}

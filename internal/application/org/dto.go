package org

import (
	"time"

	"github.com/bizledger/backend/internal/domain/org"
	"github.com/google/uuid"
)

// CreateBranchRequest is the request to create a branch
type CreateBranchRequest struct {
	Code    string `json:"code" binding:"required,max=50"`
	Name    string `json:"name" binding:"required,max=200"`
	Address string `json:"address,omitempty"`
	Phone   string `json:"phone,omitempty"`
}

// UpdateBranchRequest is the request to update a branch
type UpdateBranchRequest struct {
	Name    string `json:"name" binding:"required,max=200"`
	Address string `json:"address,omitempty"`
	Phone   string `json:"phone,omitempty"`
}

// BranchResponse is the API representation of a branch
type BranchResponse struct {
	ID        uuid.UUID `json:"id"`
	Code      string    `json:"code"`
	Name      string    `json:"name"`
	Address   string    `json:"address,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ToBranchResponse converts a domain branch to its response form
func ToBranchResponse(branch *org.Branch) *BranchResponse {
	return &BranchResponse{
		ID:        branch.ID,
		Code:      branch.Code,
		Name:      branch.Name,
		Address:   branch.Address,
		Phone:     branch.Phone,
		Status:    string(branch.Status),
		CreatedAt: branch.CreatedAt,
		UpdatedAt: branch.UpdatedAt,
	}
}

// CreateWarehouseRequest is the request to create a warehouse
type CreateWarehouseRequest struct {
	BranchID  uuid.UUID `json:"branch_id" binding:"required"`
	Code      string    `json:"code" binding:"required,max=50"`
	Name      string    `json:"name" binding:"required,max=200"`
	Address   string    `json:"address,omitempty"`
	Notes     string    `json:"notes,omitempty"`
	IsDefault bool      `json:"is_default,omitempty"`
}

// UpdateWarehouseRequest is the request to update a warehouse
type UpdateWarehouseRequest struct {
	Name    string `json:"name" binding:"required,max=200"`
	Address string `json:"address,omitempty"`
	Notes   string `json:"notes,omitempty"`
}

// WarehouseResponse is the API representation of a warehouse
type WarehouseResponse struct {
	ID        uuid.UUID `json:"id"`
	BranchID  uuid.UUID `json:"branch_id"`
	Code      string    `json:"code"`
	Name      string    `json:"name"`
	Address   string    `json:"address,omitempty"`
	IsDefault bool      `json:"is_default"`
	Status    string    `json:"status"`
	Notes     string    `json:"notes,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ToWarehouseResponse converts a domain warehouse to its response form
func ToWarehouseResponse(warehouse *org.Warehouse) *WarehouseResponse {
	return &WarehouseResponse{
		ID:        warehouse.ID,
		BranchID:  warehouse.BranchID,
		Code:      warehouse.Code,
		Name:      warehouse.Name,
		Address:   warehouse.Address,
		IsDefault: warehouse.IsDefault,
		Status:    string(warehouse.Status),
		Notes:     warehouse.Notes,
		CreatedAt: warehouse.CreatedAt,
		UpdatedAt: warehouse.UpdatedAt,
	}
}

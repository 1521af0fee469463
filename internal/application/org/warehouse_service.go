package org

import (
	"context"
	"errors"

	"github.com/bizledger/backend/internal/domain/org"
	"github.com/bizledger/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// BranchService handles branch registry operations
type BranchService struct {
	branchRepo org.BranchRepository
}

// NewBranchService creates a new BranchService
func NewBranchService(branchRepo org.BranchRepository) *BranchService {
	return &BranchService{branchRepo: branchRepo}
}

// Create creates a new branch
func (s *BranchService) Create(ctx context.Context, tenantID uuid.UUID, req CreateBranchRequest) (*BranchResponse, error) {
	existing, err := s.branchRepo.FindByCodeForTenant(ctx, tenantID, req.Code)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Branch with this code already exists")
	}

	branch, err := org.NewBranch(tenantID, req.Code, req.Name)
	if err != nil {
		return nil, err
	}
	if req.Address != "" || req.Phone != "" {
		if err := branch.Update(req.Name, req.Address, req.Phone); err != nil {
			return nil, err
		}
	}

	if err := s.branchRepo.Save(ctx, branch); err != nil {
		return nil, err
	}

	return ToBranchResponse(branch), nil
}

// Update updates a branch's basic information
func (s *BranchService) Update(ctx context.Context, tenantID, branchID uuid.UUID, req UpdateBranchRequest) (*BranchResponse, error) {
	branch, err := s.branchRepo.FindByIDForTenant(ctx, tenantID, branchID)
	if err != nil {
		return nil, err
	}

	if err := branch.Update(req.Name, req.Address, req.Phone); err != nil {
		return nil, err
	}

	if err := s.branchRepo.Save(ctx, branch); err != nil {
		return nil, err
	}

	return ToBranchResponse(branch), nil
}

// GetByID returns a branch by ID
func (s *BranchService) GetByID(ctx context.Context, tenantID, branchID uuid.UUID) (*BranchResponse, error) {
	branch, err := s.branchRepo.FindByIDForTenant(ctx, tenantID, branchID)
	if err != nil {
		return nil, err
	}
	return ToBranchResponse(branch), nil
}

// List returns a page of branches
func (s *BranchService) List(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (*shared.Paginated[BranchResponse], error) {
	filter = normalizeFilter(filter)

	branches, err := s.branchRepo.FindAllForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.branchRepo.CountForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}

	responses := make([]BranchResponse, len(branches))
	for i := range branches {
		responses[i] = *ToBranchResponse(&branches[i])
	}

	result := shared.NewPaginated(responses, total, filter.Page, filter.PageSize)
	return &result, nil
}

// WarehouseService handles warehouse registry operations
type WarehouseService struct {
	warehouseRepo org.WarehouseRepository
	branchRepo    org.BranchRepository
}

// NewWarehouseService creates a new WarehouseService
func NewWarehouseService(warehouseRepo org.WarehouseRepository, branchRepo org.BranchRepository) *WarehouseService {
	return &WarehouseService{warehouseRepo: warehouseRepo, branchRepo: branchRepo}
}

// Create creates a new warehouse under an existing active branch
func (s *WarehouseService) Create(ctx context.Context, tenantID uuid.UUID, req CreateWarehouseRequest) (*WarehouseResponse, error) {
	branch, err := s.branchRepo.FindByIDForTenant(ctx, tenantID, req.BranchID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("BRANCH_NOT_FOUND", "Branch does not exist")
		}
		return nil, err
	}
	if !branch.IsActive() {
		return nil, shared.NewDomainError("BRANCH_DISABLED", "Branch is not active")
	}

	existing, err := s.warehouseRepo.FindByCodeForTenant(ctx, tenantID, req.Code)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Warehouse with this code already exists")
	}

	warehouse, err := org.NewWarehouse(tenantID, req.BranchID, req.Code, req.Name)
	if err != nil {
		return nil, err
	}
	if req.Address != "" || req.Notes != "" {
		if err := warehouse.Update(req.Name, req.Address, req.Notes); err != nil {
			return nil, err
		}
	}
	if req.IsDefault {
		warehouse.SetDefault(true)
	}

	if err := s.warehouseRepo.Save(ctx, warehouse); err != nil {
		return nil, err
	}

	return ToWarehouseResponse(warehouse), nil
}

// Update updates a warehouse's basic information
func (s *WarehouseService) Update(ctx context.Context, tenantID, warehouseID uuid.UUID, req UpdateWarehouseRequest) (*WarehouseResponse, error) {
	warehouse, err := s.warehouseRepo.FindByIDForTenant(ctx, tenantID, warehouseID)
	if err != nil {
		return nil, err
	}

	if err := warehouse.Update(req.Name, req.Address, req.Notes); err != nil {
		return nil, err
	}

	if err := s.warehouseRepo.Save(ctx, warehouse); err != nil {
		return nil, err
	}

	return ToWarehouseResponse(warehouse), nil
}

// Enable re-enables a warehouse for stock operations
func (s *WarehouseService) Enable(ctx context.Context, tenantID, warehouseID uuid.UUID) (*WarehouseResponse, error) {
	return s.setStatus(ctx, tenantID, warehouseID, true)
}

// Disable takes a warehouse out of service; documents can no longer use it
func (s *WarehouseService) Disable(ctx context.Context, tenantID, warehouseID uuid.UUID) (*WarehouseResponse, error) {
	return s.setStatus(ctx, tenantID, warehouseID, false)
}

func (s *WarehouseService) setStatus(ctx context.Context, tenantID, warehouseID uuid.UUID, active bool) (*WarehouseResponse, error) {
	warehouse, err := s.warehouseRepo.FindByIDForTenant(ctx, tenantID, warehouseID)
	if err != nil {
		return nil, err
	}

	if active {
		err = warehouse.Enable()
	} else {
		err = warehouse.Disable()
	}
	if err != nil {
		return nil, err
	}

	if err := s.warehouseRepo.Save(ctx, warehouse); err != nil {
		return nil, err
	}

	return ToWarehouseResponse(warehouse), nil
}

// GetByID returns a warehouse by ID
func (s *WarehouseService) GetByID(ctx context.Context, tenantID, warehouseID uuid.UUID) (*WarehouseResponse, error) {
	warehouse, err := s.warehouseRepo.FindByIDForTenant(ctx, tenantID, warehouseID)
	if err != nil {
		return nil, err
	}
	return ToWarehouseResponse(warehouse), nil
}

// ListByBranch lists warehouses belonging to one branch
func (s *WarehouseService) ListByBranch(ctx context.Context, tenantID, branchID uuid.UUID) ([]WarehouseResponse, error) {
	warehouses, err := s.warehouseRepo.FindByBranchForTenant(ctx, tenantID, branchID)
	if err != nil {
		return nil, err
	}

	responses := make([]WarehouseResponse, len(warehouses))
	for i := range warehouses {
		responses[i] = *ToWarehouseResponse(&warehouses[i])
	}
	return responses, nil
}

// List returns a page of warehouses
func (s *WarehouseService) List(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (*shared.Paginated[WarehouseResponse], error) {
	filter = normalizeFilter(filter)

	warehouses, err := s.warehouseRepo.FindAllForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.warehouseRepo.CountForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}

	responses := make([]WarehouseResponse, len(warehouses))
	for i := range warehouses {
		responses[i] = *ToWarehouseResponse(&warehouses[i])
	}

	result := shared.NewPaginated(responses, total, filter.Page, filter.PageSize)
	return &result, nil
}

func normalizeFilter(filter shared.Filter) shared.Filter {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 20
	}
	if filter.PageSize > 100 {
		filter.PageSize = 100
	}
	return filter
}

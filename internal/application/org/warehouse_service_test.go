package org

import (
	"context"
	"testing"

	"github.com/bizledger/backend/internal/domain/org"
	"github.com/bizledger/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memBranchRepo struct {
	branches map[uuid.UUID]*org.Branch
}

func newMemBranchRepo() *memBranchRepo {
	return &memBranchRepo{branches: make(map[uuid.UUID]*org.Branch)}
}

func (r *memBranchRepo) FindByID(_ context.Context, id uuid.UUID) (*org.Branch, error) {
	if b, ok := r.branches[id]; ok {
		return b, nil
	}
	return nil, shared.ErrNotFound
}

func (r *memBranchRepo) FindByIDForTenant(_ context.Context, tenantID, id uuid.UUID) (*org.Branch, error) {
	b, ok := r.branches[id]
	if !ok || b.TenantID != tenantID {
		return nil, shared.ErrNotFound
	}
	return b, nil
}

func (r *memBranchRepo) FindAll(_ context.Context, _ shared.Filter) ([]org.Branch, error) {
	var result []org.Branch
	for _, b := range r.branches {
		result = append(result, *b)
	}
	return result, nil
}

func (r *memBranchRepo) FindAllForTenant(_ context.Context, tenantID uuid.UUID, _ shared.Filter) ([]org.Branch, error) {
	var result []org.Branch
	for _, b := range r.branches {
		if b.TenantID == tenantID {
			result = append(result, *b)
		}
	}
	return result, nil
}

func (r *memBranchRepo) FindByCodeForTenant(_ context.Context, tenantID uuid.UUID, code string) (*org.Branch, error) {
	for _, b := range r.branches {
		if b.TenantID == tenantID && b.Code == code {
			return b, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memBranchRepo) Save(_ context.Context, branch *org.Branch) error {
	r.branches[branch.ID] = branch
	return nil
}

func (r *memBranchRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.branches, id)
	return nil
}

func (r *memBranchRepo) Count(_ context.Context, _ shared.Filter) (int64, error) {
	return int64(len(r.branches)), nil
}

func (r *memBranchRepo) CountForTenant(_ context.Context, tenantID uuid.UUID, _ shared.Filter) (int64, error) {
	var count int64
	for _, b := range r.branches {
		if b.TenantID == tenantID {
			count++
		}
	}
	return count, nil
}

type memWarehouseRepo struct {
	warehouses map[uuid.UUID]*org.Warehouse
}

func newMemWarehouseRepo() *memWarehouseRepo {
	return &memWarehouseRepo{warehouses: make(map[uuid.UUID]*org.Warehouse)}
}

func (r *memWarehouseRepo) FindByID(_ context.Context, id uuid.UUID) (*org.Warehouse, error) {
	if w, ok := r.warehouses[id]; ok {
		return w, nil
	}
	return nil, shared.ErrNotFound
}

func (r *memWarehouseRepo) FindByIDForTenant(_ context.Context, tenantID, id uuid.UUID) (*org.Warehouse, error) {
	w, ok := r.warehouses[id]
	if !ok || w.TenantID != tenantID {
		return nil, shared.ErrNotFound
	}
	return w, nil
}

func (r *memWarehouseRepo) FindAll(_ context.Context, _ shared.Filter) ([]org.Warehouse, error) {
	var result []org.Warehouse
	for _, w := range r.warehouses {
		result = append(result, *w)
	}
	return result, nil
}

func (r *memWarehouseRepo) FindAllForTenant(_ context.Context, tenantID uuid.UUID, _ shared.Filter) ([]org.Warehouse, error) {
	var result []org.Warehouse
	for _, w := range r.warehouses {
		if w.TenantID == tenantID {
			result = append(result, *w)
		}
	}
	return result, nil
}

func (r *memWarehouseRepo) FindByCodeForTenant(_ context.Context, tenantID uuid.UUID, code string) (*org.Warehouse, error) {
	for _, w := range r.warehouses {
		if w.TenantID == tenantID && w.Code == code {
			return w, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memWarehouseRepo) FindByBranchForTenant(_ context.Context, tenantID, branchID uuid.UUID) ([]org.Warehouse, error) {
	var result []org.Warehouse
	for _, w := range r.warehouses {
		if w.TenantID == tenantID && w.BranchID == branchID {
			result = append(result, *w)
		}
	}
	return result, nil
}

func (r *memWarehouseRepo) Save(_ context.Context, warehouse *org.Warehouse) error {
	r.warehouses[warehouse.ID] = warehouse
	return nil
}

func (r *memWarehouseRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.warehouses, id)
	return nil
}

func (r *memWarehouseRepo) Count(_ context.Context, _ shared.Filter) (int64, error) {
	return int64(len(r.warehouses)), nil
}

func (r *memWarehouseRepo) CountForTenant(_ context.Context, tenantID uuid.UUID, _ shared.Filter) (int64, error) {
	var count int64
	for _, w := range r.warehouses {
		if w.TenantID == tenantID {
			count++
		}
	}
	return count, nil
}

func seedBranch(t *testing.T, repo *memBranchRepo, tenantID uuid.UUID) *org.Branch {
	t.Helper()
	branch, err := org.NewBranch(tenantID, "HQ", "Headquarters")
	require.NoError(t, err)
	require.NoError(t, repo.Save(context.Background(), branch))
	return branch
}

func TestBranchService_CreateAndUpdate(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	service := NewBranchService(newMemBranchRepo())

	created, err := service.Create(ctx, tenantID, CreateBranchRequest{
		Code:    "hq",
		Name:    "Headquarters",
		Address: "1 Main St",
		Phone:   "555-0100",
	})
	require.NoError(t, err)
	assert.Equal(t, "HQ", created.Code)
	assert.Equal(t, "active", created.Status)
	assert.Equal(t, "1 Main St", created.Address)

	// duplicate code refused
	_, err = service.Create(ctx, tenantID, CreateBranchRequest{Code: "HQ", Name: "Other"})
	require.Error(t, err)

	updated, err := service.Update(ctx, tenantID, created.ID, UpdateBranchRequest{
		Name:    "Head Office",
		Address: "2 Main St",
	})
	require.NoError(t, err)
	assert.Equal(t, "Head Office", updated.Name)
	assert.Equal(t, "2 Main St", updated.Address)
}

func TestWarehouseService_Create(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	branchRepo := newMemBranchRepo()
	branch := seedBranch(t, branchRepo, tenantID)
	service := NewWarehouseService(newMemWarehouseRepo(), branchRepo)

	created, err := service.Create(ctx, tenantID, CreateWarehouseRequest{
		BranchID:  branch.ID,
		Code:      "wh-main",
		Name:      "Main Warehouse",
		IsDefault: true,
	})
	require.NoError(t, err)
	assert.Equal(t, "WH-MAIN", created.Code)
	assert.Equal(t, branch.ID, created.BranchID)
	assert.True(t, created.IsDefault)
	assert.Equal(t, "active", created.Status)
}

func TestWarehouseService_CreateRequiresActiveBranch(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	branchRepo := newMemBranchRepo()
	service := NewWarehouseService(newMemWarehouseRepo(), branchRepo)

	t.Run("unknown branch", func(t *testing.T) {
		_, err := service.Create(ctx, tenantID, CreateWarehouseRequest{
			BranchID: uuid.New(),
			Code:     "WH-1",
			Name:     "Warehouse",
		})
		require.Error(t, err)

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "BRANCH_NOT_FOUND", domainErr.Code)
	})

	t.Run("disabled branch", func(t *testing.T) {
		branch := seedBranch(t, branchRepo, tenantID)
		require.NoError(t, branch.Disable())

		_, err := service.Create(ctx, tenantID, CreateWarehouseRequest{
			BranchID: branch.ID,
			Code:     "WH-1",
			Name:     "Warehouse",
		})
		require.Error(t, err)

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "BRANCH_DISABLED", domainErr.Code)
	})
}

func TestWarehouseService_DisableEnable(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	branchRepo := newMemBranchRepo()
	branch := seedBranch(t, branchRepo, tenantID)
	service := NewWarehouseService(newMemWarehouseRepo(), branchRepo)

	created, err := service.Create(ctx, tenantID, CreateWarehouseRequest{
		BranchID: branch.ID,
		Code:     "WH-1",
		Name:     "Warehouse",
	})
	require.NoError(t, err)

	disabled, err := service.Disable(ctx, tenantID, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "inactive", disabled.Status)

	enabled, err := service.Enable(ctx, tenantID, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "active", enabled.Status)
}

func TestWarehouseService_DisableDefaultRefused(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	branchRepo := newMemBranchRepo()
	branch := seedBranch(t, branchRepo, tenantID)
	service := NewWarehouseService(newMemWarehouseRepo(), branchRepo)

	created, err := service.Create(ctx, tenantID, CreateWarehouseRequest{
		BranchID:  branch.ID,
		Code:      "WH-1",
		Name:      "Warehouse",
		IsDefault: true,
	})
	require.NoError(t, err)

	_, err = service.Disable(ctx, tenantID, created.ID)
	require.Error(t, err)

	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "CANNOT_DISABLE_DEFAULT", domainErr.Code)
}

func TestWarehouseService_ListByBranch(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	branchRepo := newMemBranchRepo()
	branch := seedBranch(t, branchRepo, tenantID)
	service := NewWarehouseService(newMemWarehouseRepo(), branchRepo)

	for _, code := range []string{"WH-1", "WH-2"} {
		_, err := service.Create(ctx, tenantID, CreateWarehouseRequest{
			BranchID: branch.ID,
			Code:     code,
			Name:     "Warehouse " + code,
		})
		require.NoError(t, err)
	}

	warehouses, err := service.ListByBranch(ctx, tenantID, branch.ID)
	require.NoError(t, err)
	assert.Len(t, warehouses, 2)
}

package catalog

import (
	"context"
	"errors"

	"github.com/bizledger/backend/internal/domain/catalog"
	"github.com/bizledger/backend/internal/domain/shared"
	"github.com/bizledger/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
)

// ProductService handles product catalog operations
type ProductService struct {
	productRepo    catalog.ProductRepository
	eventPublisher shared.EventPublisher
}

// NewProductService creates a new ProductService
func NewProductService(productRepo catalog.ProductRepository) *ProductService {
	return &ProductService{productRepo: productRepo}
}

// SetEventPublisher sets the event publisher for domain events
func (s *ProductService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

func (s *ProductService) Create(ctx context.Context, tenantID uuid.UUID, req CreateProductRequest) (*ProductResponse, error) {
	existing, err := s.productRepo.FindByCodeForTenant(ctx, tenantID, req.Code)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Product with this code already exists")
	}

	product, err := catalog.NewProduct(tenantID, req.Code, req.Name, req.Unit)
	if err != nil {
		return nil, err
	}

	if req.Description != "" {
		if err := product.Update(req.Name, req.Description); err != nil {
			return nil, err
		}
	}
	if req.Barcode != "" {
		if err := product.SetBarcode(req.Barcode); err != nil {
			return nil, err
		}
	}
	if req.Cost != nil || req.Price != nil {
		cost := product.Cost
		price := product.Price
		if req.Cost != nil {
			cost = *req.Cost
		}
		if req.Price != nil {
			price = *req.Price
		}
		if err := product.SetPrices(valueobject.NewMoneyUSD(cost), valueobject.NewMoneyUSD(price)); err != nil {
			return nil, err
		}
	}
	if req.TaxRate != nil {
		if err := product.SetTaxRate(*req.TaxRate); err != nil {
			return nil, err
		}
	}
	if req.MinStock != nil {
		if err := product.SetMinStock(*req.MinStock); err != nil {
			return nil, err
		}
	}
	if len(req.CustomFields) > 0 {
		if err := product.SetCustomFields(toCustomFields(req.CustomFields)); err != nil {
			return nil, err
		}
	}

	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}

	s.publishAndClear(ctx, product)

	return ToProductResponse(product)
}

// Update updates a product's basic information
func (s *ProductService) Update(ctx context.Context, tenantID, productID uuid.UUID, req UpdateProductRequest) (*ProductResponse, error) {
	product, err := s.productRepo.FindByIDForTenant(ctx, tenantID, productID)
	if err != nil {
		return nil, err
	}

	if err := product.Update(req.Name, req.Description); err != nil {
		return nil, err
	}

	if err := s.productRepo.SaveWithLock(ctx, product); err != nil {
		return nil, err
	}

	s.publishAndClear(ctx, product)

	return ToProductResponse(product)
}

// UpdatePricing updates prices, tax rate, and the low-stock threshold
func (s *ProductService) UpdatePricing(ctx context.Context, tenantID, productID uuid.UUID, req UpdatePricingRequest) (*ProductResponse, error) {
	product, err := s.productRepo.FindByIDForTenant(ctx, tenantID, productID)
	if err != nil {
		return nil, err
	}

	if req.Cost != nil || req.Price != nil {
		cost := product.Cost
		price := product.Price
		if req.Cost != nil {
			cost = *req.Cost
		}
		if req.Price != nil {
			price = *req.Price
		}
		if err := product.SetPrices(valueobject.NewMoneyUSD(cost), valueobject.NewMoneyUSD(price)); err != nil {
			return nil, err
		}
	}
	if req.TaxRate != nil {
		if err := product.SetTaxRate(*req.TaxRate); err != nil {
			return nil, err
		}
	}
	if req.MinStock != nil {
		if err := product.SetMinStock(*req.MinStock); err != nil {
			return nil, err
		}
	}

	if err := s.productRepo.SaveWithLock(ctx, product); err != nil {
		return nil, err
	}

	s.publishAndClear(ctx, product)

	return ToProductResponse(product)
}

// SetCustomFields replaces a product's custom fields
func (s *ProductService) SetCustomFields(ctx context.Context, tenantID, productID uuid.UUID, req SetCustomFieldsRequest) (*ProductResponse, error) {
	product, err := s.productRepo.FindByIDForTenant(ctx, tenantID, productID)
	if err != nil {
		return nil, err
	}

	if err := product.SetCustomFields(toCustomFields(req.CustomFields)); err != nil {
		return nil, err
	}

	if err := s.productRepo.SaveWithLock(ctx, product); err != nil {
		return nil, err
	}

	return ToProductResponse(product)
}

// Activate re-enables a product for trading
func (s *ProductService) Activate(ctx context.Context, tenantID, productID uuid.UUID) (*ProductResponse, error) {
	return s.setStatus(ctx, tenantID, productID, true)
}

// Deactivate disables a product; new documents can no longer reference it
func (s *ProductService) Deactivate(ctx context.Context, tenantID, productID uuid.UUID) (*ProductResponse, error) {
	return s.setStatus(ctx, tenantID, productID, false)
}

func (s *ProductService) setStatus(ctx context.Context, tenantID, productID uuid.UUID, active bool) (*ProductResponse, error) {
	product, err := s.productRepo.FindByIDForTenant(ctx, tenantID, productID)
	if err != nil {
		return nil, err
	}

	if active {
		err = product.Activate()
	} else {
		err = product.Deactivate()
	}
	if err != nil {
		return nil, err
	}

	if err := s.productRepo.SaveWithLock(ctx, product); err != nil {
		return nil, err
	}

	s.publishAndClear(ctx, product)

	return ToProductResponse(product)
}

// GetByID returns a product by ID
func (s *ProductService) GetByID(ctx context.Context, tenantID, productID uuid.UUID) (*ProductResponse, error) {
	product, err := s.productRepo.FindByIDForTenant(ctx, tenantID, productID)
	if err != nil {
		return nil, err
	}
	return ToProductResponse(product)
}

// GetByCode returns a product by its code
func (s *ProductService) GetByCode(ctx context.Context, tenantID uuid.UUID, code string) (*ProductResponse, error) {
	product, err := s.productRepo.FindByCodeForTenant(ctx, tenantID, code)
	if err != nil {
		return nil, err
	}
	return ToProductResponse(product)
}

// List returns a page of products
func (s *ProductService) List(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (*shared.Paginated[ProductResponse], error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 20
	}
	if filter.PageSize > 100 {
		filter.PageSize = 100
	}

	products, err := s.productRepo.FindAllForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.productRepo.CountForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}

	responses := make([]ProductResponse, 0, len(products))
	for i := range products {
		resp, err := ToProductResponse(&products[i])
		if err != nil {
			return nil, err
		}
		responses = append(responses, *resp)
	}

	result := shared.NewPaginated(responses, total, filter.Page, filter.PageSize)
	return &result, nil
}

// Delete removes a product from the catalog
func (s *ProductService) Delete(ctx context.Context, tenantID, productID uuid.UUID) error {
	if _, err := s.productRepo.FindByIDForTenant(ctx, tenantID, productID); err != nil {
		return err
	}
	return s.productRepo.DeleteForTenant(ctx, tenantID, productID)
}

func (s *ProductService) publishAndClear(ctx context.Context, product *catalog.Product) {
	if s.eventPublisher != nil {
		for _, event := range product.GetDomainEvents() {
			_ = s.eventPublisher.Publish(ctx, event)
		}
	}
	product.ClearDomainEvents()
}

func toCustomFields(reqs []CustomFieldRequest) []catalog.CustomField {
	fields := make([]catalog.CustomField, len(reqs))
	for i, r := range reqs {
		fields[i] = catalog.CustomField{Name: r.Name, Value: r.Value}
	}
	return fields
}

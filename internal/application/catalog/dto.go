package catalog

import (
	"time"

	"github.com/bizledger/backend/internal/domain/catalog"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CustomFieldRequest is one typed name/value attribute
type CustomFieldRequest struct {
	Name  string `json:"name" binding:"required,max=50"`
	Value string `json:"value"`
}

// CreateProductRequest is the request to create a product
type CreateProductRequest struct {
	Code         string               `json:"code" binding:"required,max=50"`
	Name         string               `json:"name" binding:"required,max=200"`
	Unit         string               `json:"unit" binding:"required,max=20"`
	Description  string               `json:"description,omitempty"`
	Barcode      string               `json:"barcode,omitempty"`
	Cost         *decimal.Decimal     `json:"cost,omitempty"`
	Price        *decimal.Decimal     `json:"price,omitempty"`
	TaxRate      *decimal.Decimal     `json:"tax_rate,omitempty"`
	MinStock     *decimal.Decimal     `json:"min_stock,omitempty"`
	CustomFields []CustomFieldRequest `json:"custom_fields,omitempty"`
}

// UpdateProductRequest is the request to update product basics
type UpdateProductRequest struct {
	Name        string `json:"name" binding:"required,max=200"`
	Description string `json:"description,omitempty"`
}

// UpdatePricingRequest is the request to update prices and thresholds.
// Nil fields are left unchanged.
type UpdatePricingRequest struct {
	Cost     *decimal.Decimal `json:"cost,omitempty"`
	Price    *decimal.Decimal `json:"price,omitempty"`
	TaxRate  *decimal.Decimal `json:"tax_rate,omitempty"`
	MinStock *decimal.Decimal `json:"min_stock,omitempty"`
}

// SetCustomFieldsRequest replaces a product's custom fields
type SetCustomFieldsRequest struct {
	CustomFields []CustomFieldRequest `json:"custom_fields"`
}

// ProductResponse is the API representation of a product
type ProductResponse struct {
	ID           uuid.UUID             `json:"id"`
	Code         string                `json:"code"`
	Name         string                `json:"name"`
	Description  string                `json:"description,omitempty"`
	Barcode      string                `json:"barcode,omitempty"`
	Unit         string                `json:"unit"`
	Cost         decimal.Decimal       `json:"cost"`
	Price        decimal.Decimal       `json:"price"`
	TaxRate      decimal.Decimal       `json:"tax_rate"`
	MinStock     decimal.Decimal       `json:"min_stock"`
	Status       string                `json:"status"`
	CustomFields []catalog.CustomField `json:"custom_fields"`
	CreatedAt    time.Time             `json:"created_at"`
	UpdatedAt    time.Time             `json:"updated_at"`
}

// ToProductResponse converts a domain product to its response form
func ToProductResponse(product *catalog.Product) (*ProductResponse, error) {
	fields, err := product.GetCustomFields()
	if err != nil {
		return nil, err
	}
	if fields == nil {
		fields = []catalog.CustomField{}
	}

	return &ProductResponse{
		ID:           product.ID,
		Code:         product.Code,
		Name:         product.Name,
		Description:  product.Description,
		Barcode:      product.Barcode,
		Unit:         product.Unit,
		Cost:         product.Cost,
		Price:        product.Price,
		TaxRate:      product.TaxRate,
		MinStock:     product.MinStock,
		Status:       string(product.Status),
		CustomFields: fields,
		CreatedAt:    product.CreatedAt,
		UpdatedAt:    product.UpdatedAt,
	}, nil
}

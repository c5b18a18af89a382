package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest body para crear producto.
type CreateProductRequest struct {
	SKU           string          `json:"sku"`
	Name          string          `json:"name"`
	Description   string          `json:"description,omitempty"`
	Price         decimal.Decimal `json:"price"`
	IsBundle      bool            `json:"is_bundle,omitempty"`
	MinStockLevel int64           `json:"min_stock_level,omitempty"`
}

// UpdateProductRequest body para actualizar producto (campos opcionales).
// SKU e IsBundle son inmutables una vez que el producto tiene historial.
type UpdateProductRequest struct {
	Name          *string          `json:"name,omitempty"`
	Description   *string          `json:"description,omitempty"`
	Price         *decimal.Decimal `json:"price,omitempty"`
	MinStockLevel *int64           `json:"min_stock_level,omitempty"`
}

// ProductResponse representación pública del producto.
type ProductResponse struct {
	ID            string          `json:"id"`
	CompanyID     string          `json:"company_id"`
	SKU           string          `json:"sku"`
	Name          string          `json:"name"`
	Description   string          `json:"description,omitempty"`
	Price         decimal.Decimal `json:"price"`
	IsBundle      bool            `json:"is_bundle"`
	MinStockLevel int64           `json:"min_stock_level"`
	Active        bool            `json:"active"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// BundleComponentInput una línea de composición de combo.
type BundleComponentInput struct {
	ComponentID string `json:"component_id"`
	Quantity    int64  `json:"quantity"`
}

// SetBundleComponentsRequest body para PUT /api/products/{id}/components.
// Reemplaza la composición completa; se valida ausencia de ciclos antes de escribir.
type SetBundleComponentsRequest struct {
	Components []BundleComponentInput `json:"components"`
}

// BundleComponentDTO línea de composición con datos del componente.
type BundleComponentDTO struct {
	ComponentID string `json:"component_id"`
	SKU         string `json:"sku,omitempty"`
	Name        string `json:"name,omitempty"`
	Quantity    int64  `json:"quantity"`
}

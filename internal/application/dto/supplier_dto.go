package dto

import "time"

// CreateSupplierRequest body para crear proveedor.
type CreateSupplierRequest struct {
	Name  string `json:"name"`
	NIT   string `json:"nit,omitempty"`
	Email string `json:"email,omitempty"`
	Phone string `json:"phone,omitempty"`
}

// SupplierResponse representación pública del proveedor.
type SupplierResponse struct {
	ID        string    `json:"id"`
	CompanyID string    `json:"company_id"`
	Name      string    `json:"name"`
	NIT       string    `json:"nit,omitempty"`
	Email     string    `json:"email,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// LinkSupplierProductRequest body para asociar proveedor y producto.
// is_preferred en true marca este proveedor como fuente primaria de reorden
// (desmarca cualquier otro preferido del producto).
type LinkSupplierProductRequest struct {
	ProductID    string `json:"product_id"`
	IsPreferred  bool   `json:"is_preferred,omitempty"`
	LeadTimeDays int    `json:"lead_time_days,omitempty"`
}

package entity

import "time"

// Supplier representa un proveedor de la empresa.
type Supplier struct {
	ID        string
	CompanyID string
	Name      string
	NIT       string
	Email     string
	Phone     string
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// SupplierProduct relaciona un proveedor con un producto que surte.
// IsPreferred marca la fuente primaria de reorden (máximo una por producto).
type SupplierProduct struct {
	ID           string
	SupplierID   string
	ProductID    string
	IsPreferred  bool
	LeadTimeDays int // días estimados de entrega, informativo
	CreatedAt    time.Time
}

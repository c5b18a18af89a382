package dto

import "time"

// CreateWarehouseRequest body para crear bodega.
type CreateWarehouseRequest struct {
	Name    string `json:"name"`
	Address string `json:"address,omitempty"`
}

// UpdateWarehouseRequest body para actualizar bodega.
type UpdateWarehouseRequest struct {
	Name    *string `json:"name,omitempty"`
	Address *string `json:"address,omitempty"`
	Active  *bool   `json:"active,omitempty"`
}

// WarehouseResponse representación pública de la bodega.
type WarehouseResponse struct {
	ID        string    `json:"id"`
	CompanyID string    `json:"company_id"`
	Name      string    `json:"name"`
	Address   string    `json:"address,omitempty"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

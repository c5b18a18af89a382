package entity

import "time"

// Estados válidos de Company.
const (
	CompanyStatusActive    = "active"
	CompanyStatusSuspended = "suspended"
	CompanyStatusInactive  = "inactive"
)

// Company representa una organización/tenant del sistema (multi-tenant).
type Company struct {
	ID        string
	Name      string
	NIT       string // NIT colombiano (con o sin dígito de verificación)
	Address   string
	Phone     string
	Email     string
	Status    string // active, suspended, inactive
	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsActive indica si la empresa puede operar (mutaciones y alertas).
func (c *Company) IsActive() bool {
	return c != nil && c.Status == CompanyStatusActive
}

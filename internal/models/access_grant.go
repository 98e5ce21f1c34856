package models

import (
	"time"

	"github.com/google/uuid"
)

// ManagerCompanyAccess grants a manager the right to act on a company's
// warehouses. The (manager_id, company_id) pair is unique.
type ManagerCompanyAccess struct {
	ID        uuid.UUID `json:"id" db:"id"`
	ManagerID uuid.UUID `json:"manager_id" db:"manager_id"`
	CompanyID uuid.UUID `json:"company_id" db:"company_id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// CounterCompanyAccess grants a counting operator, identified by email, the
// right to count for a company. The (email, company_id) pair is unique.
type CounterCompanyAccess struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Email     string    `json:"email" db:"email"`
	CompanyID uuid.UUID `json:"company_id" db:"company_id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

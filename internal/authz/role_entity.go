package authz

import (
	"time"

	"github.com/google/uuid"
)

const RoleAdmin = "admin"

// EmployeeRole is the externally managed role store backing the gate.
// Rows are granted by operations tooling, never by this service.
type EmployeeRole struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	EmployeeID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_employee_roles_employee_role"`
	Role       string    `gorm:"type:varchar(30);not null;uniqueIndex:idx_employee_roles_employee_role"`
	CreatedAt  time.Time
}

func (EmployeeRole) TableName() string {
	return "employee_roles"
}

package employee

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Employee carries the leave-balance ledger fields. RemainingDays is
// derived and must equal carry-over + accrual - used after every
// mutation; only the approval engine, the bulk reset, and the admin
// allowance edit may change the ledger columns.
type Employee struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey"`
	FullName string    `gorm:"type:varchar(120);not null"`
	Email    string    `gorm:"type:varchar(255);uniqueIndex"`

	CarryOverDays     decimal.Decimal `gorm:"type:numeric(6,2);not null;default:0"`
	AnnualAccrualDays decimal.Decimal `gorm:"type:numeric(6,2);not null;default:0"`
	UsedDays          decimal.Decimal `gorm:"type:numeric(6,2);not null;default:0"`
	RemainingDays     decimal.Decimal `gorm:"type:numeric(6,2);not null;default:0"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Employee) TableName() string {
	return "employees"
}

package employee

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

//go:generate mockgen -source=employee_repo.go -destination=mock/employee_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, emp *Employee) error
	FindAll(ctx context.Context) ([]Employee, error)
	FindByID(ctx context.Context, id string) (*Employee, error)
	// ApplyUsage adds days to used_days and recomputes remaining_days in
	// one statement, returning the post-update remaining balance. The
	// bool is false when no employee row matched.
	ApplyUsage(ctx context.Context, id string, days decimal.Decimal) (decimal.Decimal, bool, error)
	// SetAllowance replaces carry-over and accrual and recomputes
	// remaining_days against the current used_days.
	SetAllowance(ctx context.Context, id string, carryOver, accrual decimal.Decimal) (bool, error)
	// ResetUsage zeroes used_days and restores remaining_days to the full
	// allowance. Each call is its own unit; the bulk sweep never wraps
	// these in a shared transaction.
	ResetUsage(ctx context.Context, id string) (bool, error)
}

type repository struct {
	db    *gorm.DB
	sqlDB *sql.DB
	tx    *sql.Tx
}

func NewRepository(db *gorm.DB, sqlDB *sql.DB) Repository {
	return &repository{db: db, sqlDB: sqlDB}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{db: r.db, sqlDB: r.sqlDB, tx: tx}
}

func (r *repository) Create(ctx context.Context, emp *Employee) error {
	return r.db.WithContext(ctx).Create(emp).Error
}

func (r *repository) FindAll(ctx context.Context) ([]Employee, error) {
	var emps []Employee
	err := r.db.WithContext(ctx).
		Order("created_at ASC").
		Find(&emps).Error
	return emps, err
}

func (r *repository) FindByID(ctx context.Context, id string) (*Employee, error) {
	query := `
SELECT id::text, full_name, COALESCE(email, ''), carry_over_days, annual_accrual_days, used_days, remaining_days, created_at, updated_at
FROM employees
WHERE id = $1
`
	var (
		emp   Employee
		rawID string
	)
	err := r.querier().QueryRowContext(ctx, query, id).Scan(
		&rawID,
		&emp.FullName,
		&emp.Email,
		&emp.CarryOverDays,
		&emp.AnnualAccrualDays,
		&emp.UsedDays,
		&emp.RemainingDays,
		&emp.CreatedAt,
		&emp.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	emp.ID, err = uuid.Parse(rawID)
	if err != nil {
		return nil, err
	}
	return &emp, nil
}

func (r *repository) ApplyUsage(ctx context.Context, id string, days decimal.Decimal) (decimal.Decimal, bool, error) {
	query := `
UPDATE employees
SET
	used_days = used_days + $2,
	remaining_days = carry_over_days + annual_accrual_days - (used_days + $2),
	updated_at = NOW()
WHERE id = $1
RETURNING remaining_days
`
	var remaining decimal.Decimal
	err := r.querier().QueryRowContext(ctx, query, id, days).Scan(&remaining)
	if errors.Is(err, sql.ErrNoRows) {
		return decimal.Zero, false, nil
	}
	if err != nil {
		return decimal.Zero, false, err
	}
	return remaining, true, nil
}

func (r *repository) SetAllowance(ctx context.Context, id string, carryOver, accrual decimal.Decimal) (bool, error) {
	query := `
UPDATE employees
SET
	carry_over_days = $2,
	annual_accrual_days = $3,
	remaining_days = $2 + $3 - used_days,
	updated_at = NOW()
WHERE id = $1
`
	res, err := r.execer().ExecContext(ctx, query, id, carryOver, accrual)
	if err != nil {
		return false, err
	}
	affected, err := res.RowsAffected()
	return affected > 0, err
}

func (r *repository) ResetUsage(ctx context.Context, id string) (bool, error) {
	query := `
UPDATE employees
SET
	used_days = 0,
	remaining_days = carry_over_days + annual_accrual_days,
	updated_at = NOW()
WHERE id = $1
`
	res, err := r.execer().ExecContext(ctx, query, id)
	if err != nil {
		return false, err
	}
	affected, err := res.RowsAffected()
	return affected > 0, err
}

func (r *repository) execer() interface {
	ExecContext(context.Context, string, ...any) (sql.Result, error)
} {
	if r.tx != nil {
		return r.tx
	}
	return r.sqlDB
}

func (r *repository) querier() interface {
	QueryRowContext(context.Context, string, ...any) *sql.Row
} {
	if r.tx != nil {
		return r.tx
	}
	return r.sqlDB
}

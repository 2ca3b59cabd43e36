package employee_test

import (
	"context"
	"testing"
	"time"

	"go-hrportal/internal/employee"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestRepositoryApplyUsage(t *testing.T) {
	t.Run("success charges usage inside the caller's transaction", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		assert.NoError(t, err)
		defer db.Close()

		id := uuid.New().String()
		days := decimal.RequireFromString("2.5")

		mock.ExpectBegin()
		mock.ExpectQuery(`UPDATE employees`).
			WithArgs(id, days).
			WillReturnRows(sqlmock.NewRows([]string{"remaining_days"}).AddRow("7.5"))
		mock.ExpectCommit()

		tx, err := db.Begin()
		assert.NoError(t, err)

		repo := employee.NewRepository(nil, db)
		remaining, applied, err := repo.WithTx(tx).ApplyUsage(context.Background(), id, days)

		assert.NoError(t, err)
		assert.True(t, applied)
		assert.Equal(t, "7.5", remaining.String())
		assert.NoError(t, tx.Commit())
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("negative unknown employee", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		assert.NoError(t, err)
		defer db.Close()

		id := uuid.New().String()
		mock.ExpectQuery(`UPDATE employees`).
			WithArgs(id, sqlmock.AnyArg()).
			WillReturnRows(sqlmock.NewRows([]string{"remaining_days"}))

		repo := employee.NewRepository(nil, db)
		_, applied, err := repo.ApplyUsage(context.Background(), id, decimal.NewFromInt(1))

		assert.NoError(t, err)
		assert.False(t, applied)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRepositorySetAllowance(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		assert.NoError(t, err)
		defer db.Close()

		id := uuid.New().String()
		carryOver := decimal.RequireFromString("4.5")
		accrual := decimal.NewFromInt(25)

		mock.ExpectExec(`UPDATE employees`).
			WithArgs(id, carryOver, accrual).
			WillReturnResult(sqlmock.NewResult(0, 1))

		repo := employee.NewRepository(nil, db)
		updated, err := repo.SetAllowance(context.Background(), id, carryOver, accrual)

		assert.NoError(t, err)
		assert.True(t, updated)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRepositoryResetUsage(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		assert.NoError(t, err)
		defer db.Close()

		id := uuid.New().String()
		mock.ExpectExec(`UPDATE employees`).
			WithArgs(id).
			WillReturnResult(sqlmock.NewResult(0, 1))

		repo := employee.NewRepository(nil, db)
		reset, err := repo.ResetUsage(context.Background(), id)

		assert.NoError(t, err)
		assert.True(t, reset)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("negative unknown employee", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		assert.NoError(t, err)
		defer db.Close()

		id := uuid.New().String()
		mock.ExpectExec(`UPDATE employees`).
			WithArgs(id).
			WillReturnResult(sqlmock.NewResult(0, 0))

		repo := employee.NewRepository(nil, db)
		reset, err := repo.ResetUsage(context.Background(), id)

		assert.NoError(t, err)
		assert.False(t, reset)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRepositoryFindByID(t *testing.T) {
	t.Run("success scans ledger columns", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		assert.NoError(t, err)
		defer db.Close()

		id := uuid.New()
		rows := sqlmock.NewRows([]string{
			"id", "full_name", "email", "carry_over_days",
			"annual_accrual_days", "used_days", "remaining_days",
			"created_at", "updated_at",
		}).AddRow(
			id.String(), "Sam Rivera", "sam@corp.test", "4.5",
			"25", "2.5", "27",
			time.Now(), time.Now(),
		)
		mock.ExpectQuery(`FROM employees`).
			WithArgs(id.String()).
			WillReturnRows(rows)

		repo := employee.NewRepository(nil, db)
		emp, err := repo.FindByID(context.Background(), id.String())

		assert.NoError(t, err)
		assert.Equal(t, id, emp.ID)
		assert.Equal(t, "27", emp.RemainingDays.String())
		assert.Equal(t, "2.5", emp.UsedDays.String())
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

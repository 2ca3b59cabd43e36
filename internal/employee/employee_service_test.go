package employee_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"go-hrportal/internal/employee"
	employeeerrors "go-hrportal/internal/employee/errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type fakeRepo struct {
	createFn       func(ctx context.Context, emp *employee.Employee) error
	findAllFn      func(ctx context.Context) ([]employee.Employee, error)
	findByIDFn     func(ctx context.Context, id string) (*employee.Employee, error)
	setAllowanceFn func(ctx context.Context, id string, carryOver, accrual decimal.Decimal) (bool, error)
	resetUsageFn   func(ctx context.Context, id string) (bool, error)
}

func (f *fakeRepo) WithTx(tx *sql.Tx) employee.Repository { return f }

func (f *fakeRepo) Create(ctx context.Context, emp *employee.Employee) error {
	return f.createFn(ctx, emp)
}

func (f *fakeRepo) FindAll(ctx context.Context) ([]employee.Employee, error) {
	return f.findAllFn(ctx)
}

func (f *fakeRepo) FindByID(ctx context.Context, id string) (*employee.Employee, error) {
	return f.findByIDFn(ctx, id)
}

func (f *fakeRepo) ApplyUsage(ctx context.Context, id string, days decimal.Decimal) (decimal.Decimal, bool, error) {
	return decimal.Zero, false, nil
}

func (f *fakeRepo) SetAllowance(ctx context.Context, id string, carryOver, accrual decimal.Decimal) (bool, error) {
	return f.setAllowanceFn(ctx, id, carryOver, accrual)
}

func (f *fakeRepo) ResetUsage(ctx context.Context, id string) (bool, error) {
	return f.resetUsageFn(ctx, id)
}

type fakeGate struct {
	isAdminFn func(ctx context.Context, actorID string) (bool, error)
}

func (f *fakeGate) IsAdmin(ctx context.Context, actorID string) (bool, error) {
	return f.isAdminFn(ctx, actorID)
}

func (f *fakeGate) IsSelf(actorID, employeeID string) bool {
	return actorID != "" && actorID == employeeID
}

func adminGate() *fakeGate {
	return &fakeGate{isAdminFn: func(ctx context.Context, actorID string) (bool, error) {
		return true, nil
	}}
}

func memberGate() *fakeGate {
	return &fakeGate{isAdminFn: func(ctx context.Context, actorID string) (bool, error) {
		return false, nil
	}}
}

func ledgerEmployee(carryOver, accrual, used string) employee.Employee {
	co, _ := decimal.NewFromString(carryOver)
	ac, _ := decimal.NewFromString(accrual)
	us, _ := decimal.NewFromString(used)
	return employee.Employee{
		ID:                uuid.New(),
		FullName:          "Sam Rivera",
		Email:             "sam@corp.test",
		CarryOverDays:     co,
		AnnualAccrualDays: ac,
		UsedDays:          us,
		RemainingDays:     co.Add(ac).Sub(us),
	}
}

func TestEmployeeServiceCreate(t *testing.T) {
	t.Run("success seeds the full allowance", func(t *testing.T) {
		var created *employee.Employee
		repo := &fakeRepo{
			createFn: func(ctx context.Context, emp *employee.Employee) error {
				created = emp
				return nil
			},
		}
		svc := employee.NewService(repo, adminGate(), zap.NewNop())

		resp, err := svc.Create(context.Background(), uuid.New().String(), employee.CreateEmployeeRequest{
			FullName:          "Sam Rivera",
			Email:             "sam@corp.test",
			CarryOverDays:     4.5,
			AnnualAccrualDays: 25,
		})

		assert.NoError(t, err)
		assert.Equal(t, "0", created.UsedDays.String())
		assert.Equal(t, "29.5", created.RemainingDays.String())
		assert.Equal(t, "29.5", resp.RemainingDays)
	})

	t.Run("negative non-admin actor", func(t *testing.T) {
		svc := employee.NewService(&fakeRepo{}, memberGate(), zap.NewNop())

		_, err := svc.Create(context.Background(), uuid.New().String(), employee.CreateEmployeeRequest{
			FullName: "Sam Rivera",
			Email:    "sam@corp.test",
		})

		assert.ErrorIs(t, err, employeeerrors.ErrNotAllowed)
	})

	t.Run("negative duplicate email maps to a conflict", func(t *testing.T) {
		repo := &fakeRepo{
			createFn: func(ctx context.Context, emp *employee.Employee) error {
				return &pgconn.PgError{Code: "23505", ConstraintName: "idx_employees_email"}
			},
		}
		svc := employee.NewService(repo, adminGate(), zap.NewNop())

		_, err := svc.Create(context.Background(), uuid.New().String(), employee.CreateEmployeeRequest{
			FullName: "Sam Rivera",
			Email:    "sam@corp.test",
		})

		assert.ErrorIs(t, err, employeeerrors.ErrEmailTaken)
	})

	t.Run("negative duplicate email surfaced by the orm", func(t *testing.T) {
		repo := &fakeRepo{
			createFn: func(ctx context.Context, emp *employee.Employee) error {
				return gorm.ErrDuplicatedKey
			},
		}
		svc := employee.NewService(repo, adminGate(), zap.NewNop())

		_, err := svc.Create(context.Background(), uuid.New().String(), employee.CreateEmployeeRequest{
			FullName: "Sam Rivera",
			Email:    "sam@corp.test",
		})

		assert.ErrorIs(t, err, employeeerrors.ErrEmailTaken)
	})

	t.Run("negative malformed actor id", func(t *testing.T) {
		svc := employee.NewService(&fakeRepo{}, adminGate(), zap.NewNop())

		_, err := svc.Create(context.Background(), "not-a-uuid", employee.CreateEmployeeRequest{
			FullName: "Sam Rivera",
			Email:    "sam@corp.test",
		})

		assert.ErrorIs(t, err, employeeerrors.ErrInvalidActorID)
	})
}

func TestEmployeeServiceGetBalance(t *testing.T) {
	t.Run("employee reads their own balance", func(t *testing.T) {
		emp := ledgerEmployee("4.5", "25", "2.5")
		repo := &fakeRepo{
			findByIDFn: func(ctx context.Context, id string) (*employee.Employee, error) {
				return &emp, nil
			},
		}
		svc := employee.NewService(repo, memberGate(), zap.NewNop())

		resp, err := svc.GetBalance(context.Background(), emp.ID.String(), emp.ID.String())

		assert.NoError(t, err)
		assert.Equal(t, "27", resp.RemainingDays)
		assert.Equal(t, "2.5", resp.UsedDays)
	})

	t.Run("admin reads another employee's balance", func(t *testing.T) {
		emp := ledgerEmployee("0", "20", "8")
		repo := &fakeRepo{
			findByIDFn: func(ctx context.Context, id string) (*employee.Employee, error) {
				return &emp, nil
			},
		}
		svc := employee.NewService(repo, adminGate(), zap.NewNop())

		resp, err := svc.GetBalance(context.Background(), uuid.New().String(), emp.ID.String())

		assert.NoError(t, err)
		assert.Equal(t, "12", resp.RemainingDays)
	})

	t.Run("negative reading someone else's balance", func(t *testing.T) {
		svc := employee.NewService(&fakeRepo{}, memberGate(), zap.NewNop())

		_, err := svc.GetBalance(context.Background(), uuid.New().String(), uuid.New().String())

		assert.ErrorIs(t, err, employeeerrors.ErrNotAllowed)
	})

	t.Run("negative unknown employee", func(t *testing.T) {
		repo := &fakeRepo{
			findByIDFn: func(ctx context.Context, id string) (*employee.Employee, error) {
				return nil, sql.ErrNoRows
			},
		}
		svc := employee.NewService(repo, adminGate(), zap.NewNop())

		_, err := svc.GetBalance(context.Background(), uuid.New().String(), uuid.New().String())

		assert.ErrorIs(t, err, employeeerrors.ErrEmployeeNotFound)
	})
}

func TestEmployeeServiceSetAllowance(t *testing.T) {
	t.Run("success recomputes against current usage", func(t *testing.T) {
		emp := ledgerEmployee("2", "30", "5")
		var gotCarryOver, gotAccrual decimal.Decimal
		repo := &fakeRepo{
			setAllowanceFn: func(ctx context.Context, id string, carryOver, accrual decimal.Decimal) (bool, error) {
				gotCarryOver = carryOver
				gotAccrual = accrual
				return true, nil
			},
			findByIDFn: func(ctx context.Context, id string) (*employee.Employee, error) {
				return &emp, nil
			},
		}
		svc := employee.NewService(repo, adminGate(), zap.NewNop())

		resp, err := svc.SetAllowance(context.Background(), uuid.New().String(), emp.ID.String(), employee.SetAllowanceRequest{
			CarryOverDays:     2,
			AnnualAccrualDays: 30,
		})

		assert.NoError(t, err)
		assert.Equal(t, "2", gotCarryOver.String())
		assert.Equal(t, "30", gotAccrual.String())
		assert.Equal(t, "27", resp.RemainingDays)
	})

	t.Run("negative unknown employee", func(t *testing.T) {
		repo := &fakeRepo{
			setAllowanceFn: func(ctx context.Context, id string, carryOver, accrual decimal.Decimal) (bool, error) {
				return false, nil
			},
		}
		svc := employee.NewService(repo, adminGate(), zap.NewNop())

		_, err := svc.SetAllowance(context.Background(), uuid.New().String(), uuid.New().String(), employee.SetAllowanceRequest{})

		assert.ErrorIs(t, err, employeeerrors.ErrEmployeeNotFound)
	})

	t.Run("negative non-admin actor", func(t *testing.T) {
		svc := employee.NewService(&fakeRepo{}, memberGate(), zap.NewNop())

		_, err := svc.SetAllowance(context.Background(), uuid.New().String(), uuid.New().String(), employee.SetAllowanceRequest{})

		assert.ErrorIs(t, err, employeeerrors.ErrNotAllowed)
	})
}

func TestEmployeeServiceResetAllBalances(t *testing.T) {
	t.Run("one failure never aborts the sweep", func(t *testing.T) {
		first := ledgerEmployee("0", "20", "3")
		second := ledgerEmployee("5", "25", "10")
		third := ledgerEmployee("0", "18", "0.5")

		repo := &fakeRepo{
			findAllFn: func(ctx context.Context) ([]employee.Employee, error) {
				return []employee.Employee{first, second, third}, nil
			},
			resetUsageFn: func(ctx context.Context, id string) (bool, error) {
				if id == second.ID.String() {
					return false, errors.New("deadlock detected")
				}
				return true, nil
			},
		}
		svc := employee.NewService(repo, adminGate(), zap.NewNop())

		manifest, err := svc.ResetAllBalances(context.Background(), uuid.New().String())

		assert.NoError(t, err)
		assert.Equal(t, []string{first.ID.String(), third.ID.String()}, manifest.Succeeded)
		assert.Len(t, manifest.Failed, 1)
		assert.Equal(t, second.ID.String(), manifest.Failed[0].EmployeeID)
		assert.Contains(t, manifest.Failed[0].Reason, "deadlock")
	})

	t.Run("vanished employee lands in the failed list", func(t *testing.T) {
		emp := ledgerEmployee("0", "20", "3")
		repo := &fakeRepo{
			findAllFn: func(ctx context.Context) ([]employee.Employee, error) {
				return []employee.Employee{emp}, nil
			},
			resetUsageFn: func(ctx context.Context, id string) (bool, error) {
				return false, nil
			},
		}
		svc := employee.NewService(repo, adminGate(), zap.NewNop())

		manifest, err := svc.ResetAllBalances(context.Background(), uuid.New().String())

		assert.NoError(t, err)
		assert.Empty(t, manifest.Succeeded)
		assert.Len(t, manifest.Failed, 1)
	})

	t.Run("empty roster yields an empty manifest", func(t *testing.T) {
		repo := &fakeRepo{
			findAllFn: func(ctx context.Context) ([]employee.Employee, error) {
				return nil, nil
			},
		}
		svc := employee.NewService(repo, adminGate(), zap.NewNop())

		manifest, err := svc.ResetAllBalances(context.Background(), uuid.New().String())

		assert.NoError(t, err)
		assert.Empty(t, manifest.Succeeded)
		assert.Empty(t, manifest.Failed)
	})

	t.Run("negative non-admin actor", func(t *testing.T) {
		svc := employee.NewService(&fakeRepo{}, memberGate(), zap.NewNop())

		_, err := svc.ResetAllBalances(context.Background(), uuid.New().String())

		assert.ErrorIs(t, err, employeeerrors.ErrNotAllowed)
	})
}

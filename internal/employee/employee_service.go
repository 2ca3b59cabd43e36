package employee

import (
	"context"
	"database/sql"
	"errors"

	"go-hrportal/internal/authz"
	employeeerrors "go-hrportal/internal/employee/errors"
	"go-hrportal/internal/shared/apperror"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

//go:generate mockgen -source=employee_service.go -destination=mock/employee_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, actorID string, req CreateEmployeeRequest) (EmployeeResponse, error)
	GetAll(ctx context.Context, actorID string) ([]EmployeeResponse, error)
	GetBalance(ctx context.Context, actorID, employeeID string) (BalanceResponse, error)
	SetAllowance(ctx context.Context, actorID, employeeID string, req SetAllowanceRequest) (BalanceResponse, error)
	ResetAllBalances(ctx context.Context, actorID string) (ResetManifest, error)
}

type service struct {
	repo   Repository
	gate   authz.Gate
	logger *zap.Logger
}

func NewService(repo Repository, gate authz.Gate, logger ...*zap.Logger) Service {
	l := zap.L().Named("employee.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("employee.service")
	}
	return &service{repo: repo, gate: gate, logger: l}
}

func (s *service) Create(ctx context.Context, actorID string, req CreateEmployeeRequest) (EmployeeResponse, error) {
	s.logger.Debug("create employee requested",
		zap.String("actor_id", actorID),
		zap.String("email", req.Email),
	)

	if err := s.requireAdmin(ctx, actorID); err != nil {
		return EmployeeResponse{}, err
	}

	carryOver := decimal.NewFromFloat(req.CarryOverDays)
	accrual := decimal.NewFromFloat(req.AnnualAccrualDays)
	if carryOver.IsNegative() || accrual.IsNegative() {
		return EmployeeResponse{}, employeeerrors.ErrNegativeAllowance
	}

	emp := &Employee{
		ID:                uuid.New(),
		FullName:          req.FullName,
		Email:             req.Email,
		CarryOverDays:     carryOver,
		AnnualAccrualDays: accrual,
		UsedDays:          decimal.Zero,
		RemainingDays:     carryOver.Add(accrual),
	}

	if err := s.repo.Create(ctx, emp); err != nil {
		s.logger.Error("create employee persist failed", zap.Error(err))
		return EmployeeResponse{}, mapRepositoryError(err)
	}

	s.logger.Info("create employee success", zap.String("employee_id", emp.ID.String()))
	return mapToEmployeeResponse(*emp), nil
}

func (s *service) GetAll(ctx context.Context, actorID string) ([]EmployeeResponse, error) {
	if err := s.requireAdmin(ctx, actorID); err != nil {
		return nil, err
	}

	emps, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, apperror.StoreFailure(err)
	}

	resp := make([]EmployeeResponse, len(emps))
	for i, emp := range emps {
		resp[i] = mapToEmployeeResponse(emp)
	}
	return resp, nil
}

func (s *service) GetBalance(ctx context.Context, actorID, employeeID string) (BalanceResponse, error) {
	if _, err := uuid.Parse(employeeID); err != nil {
		return BalanceResponse{}, employeeerrors.ErrInvalidEmployeeID
	}

	if !s.gate.IsSelf(actorID, employeeID) {
		if err := s.requireAdmin(ctx, actorID); err != nil {
			return BalanceResponse{}, err
		}
	}

	emp, err := s.repo.FindByID(ctx, employeeID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return BalanceResponse{}, employeeerrors.ErrEmployeeNotFound
		}
		return BalanceResponse{}, apperror.StoreFailure(err)
	}

	return mapToBalanceResponse(*emp), nil
}

func (s *service) SetAllowance(ctx context.Context, actorID, employeeID string, req SetAllowanceRequest) (BalanceResponse, error) {
	s.logger.Debug("set allowance requested",
		zap.String("actor_id", actorID),
		zap.String("employee_id", employeeID),
	)

	if err := s.requireAdmin(ctx, actorID); err != nil {
		return BalanceResponse{}, err
	}
	if _, err := uuid.Parse(employeeID); err != nil {
		return BalanceResponse{}, employeeerrors.ErrInvalidEmployeeID
	}

	carryOver := decimal.NewFromFloat(req.CarryOverDays)
	accrual := decimal.NewFromFloat(req.AnnualAccrualDays)
	if carryOver.IsNegative() || accrual.IsNegative() {
		return BalanceResponse{}, employeeerrors.ErrNegativeAllowance
	}

	updated, err := s.repo.SetAllowance(ctx, employeeID, carryOver, accrual)
	if err != nil {
		s.logger.Error("set allowance persist failed", zap.String("employee_id", employeeID), zap.Error(err))
		return BalanceResponse{}, apperror.StoreFailure(err)
	}
	if !updated {
		return BalanceResponse{}, employeeerrors.ErrEmployeeNotFound
	}

	emp, err := s.repo.FindByID(ctx, employeeID)
	if err != nil {
		return BalanceResponse{}, apperror.StoreFailure(err)
	}

	s.logger.Info("set allowance success",
		zap.String("employee_id", employeeID),
		zap.String("remaining_days", emp.RemainingDays.String()),
	)
	return mapToBalanceResponse(*emp), nil
}

// ResetAllBalances zeroes usage for every employee. Each reset is an
// independent unit: one employee's store failure is recorded in the
// manifest and the sweep moves on.
func (s *service) ResetAllBalances(ctx context.Context, actorID string) (ResetManifest, error) {
	s.logger.Debug("reset all balances requested", zap.String("actor_id", actorID))

	if err := s.requireAdmin(ctx, actorID); err != nil {
		return ResetManifest{}, err
	}

	emps, err := s.repo.FindAll(ctx)
	if err != nil {
		s.logger.Error("reset all balances list failed", zap.Error(err))
		return ResetManifest{}, apperror.StoreFailure(err)
	}

	manifest := ResetManifest{
		Succeeded: make([]string, 0, len(emps)),
		Failed:    make([]ResetFailure, 0),
	}

	for _, emp := range emps {
		id := emp.ID.String()
		reset, err := s.repo.ResetUsage(ctx, id)
		if err != nil {
			s.logger.Warn("reset balance failed",
				zap.String("employee_id", id),
				zap.Error(err),
			)
			manifest.Failed = append(manifest.Failed, ResetFailure{EmployeeID: id, Reason: err.Error()})
			continue
		}
		if !reset {
			manifest.Failed = append(manifest.Failed, ResetFailure{EmployeeID: id, Reason: employeeerrors.ErrEmployeeNotFound.Message})
			continue
		}
		manifest.Succeeded = append(manifest.Succeeded, id)
	}

	s.logger.Info("reset all balances finished",
		zap.Int("succeeded", len(manifest.Succeeded)),
		zap.Int("failed", len(manifest.Failed)),
	)
	return manifest, nil
}

func (s *service) requireAdmin(ctx context.Context, actorID string) error {
	if _, err := uuid.Parse(actorID); err != nil {
		return employeeerrors.ErrInvalidActorID
	}
	isAdmin, err := s.gate.IsAdmin(ctx, actorID)
	if err != nil {
		return apperror.StoreFailure(err)
	}
	if !isAdmin {
		return employeeerrors.ErrNotAllowed
	}
	return nil
}

func mapToEmployeeResponse(emp Employee) EmployeeResponse {
	return EmployeeResponse{
		ID:                emp.ID.String(),
		FullName:          emp.FullName,
		Email:             emp.Email,
		CarryOverDays:     emp.CarryOverDays.String(),
		AnnualAccrualDays: emp.AnnualAccrualDays.String(),
		UsedDays:          emp.UsedDays.String(),
		RemainingDays:     emp.RemainingDays.String(),
	}
}

func mapToBalanceResponse(emp Employee) BalanceResponse {
	return BalanceResponse{
		EmployeeID:        emp.ID.String(),
		CarryOverDays:     emp.CarryOverDays.String(),
		AnnualAccrualDays: emp.AnnualAccrualDays.String(),
		UsedDays:          emp.UsedDays.String(),
		RemainingDays:     emp.RemainingDays.String(),
	}
}

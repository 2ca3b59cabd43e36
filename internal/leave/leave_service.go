package leave

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"go-hrportal/internal/authz"
	"go-hrportal/internal/employee"
	employeeerrors "go-hrportal/internal/employee/errors"
	"go-hrportal/internal/events"
	leaveerrors "go-hrportal/internal/leave/errors"
	"go-hrportal/internal/messaging/kafka"
	"go-hrportal/internal/shared/apperror"
	"go-hrportal/internal/shared/contextutil"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

//go:generate mockgen -source=leave_service.go -destination=mock/leave_service_mock.go -package=mock
type Service interface {
	Submit(ctx context.Context, actorID string, req CreateLeaveRequest) (LeaveResponse, error)
	SubmitProxy(ctx context.Context, actorID string, req CreateLeaveRequest) (LeaveResponse, error)
	Approve(ctx context.Context, actorID, id string) (LeaveResponse, error)
	Reject(ctx context.Context, actorID, id string) (LeaveResponse, error)
	GetByID(ctx context.Context, id string) (LeaveResponse, error)
	ListPending(ctx context.Context) ([]LeaveResponse, error)
}

type service struct {
	db        *sql.DB
	repo      Repository
	employees employee.Repository
	outbox    kafka.OutboxRepository
	gate      authz.Gate
	logger    *zap.Logger
}

func NewService(
	db *sql.DB,
	repo Repository,
	employees employee.Repository,
	outbox kafka.OutboxRepository,
	gate authz.Gate,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("leave.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leave.service")
	}
	return &service{
		db:        db,
		repo:      repo,
		employees: employees,
		outbox:    outbox,
		gate:      gate,
		logger:    l,
	}
}

// Submit files a request on the employee's own behalf. The day count is
// computed here, once, and frozen into the stored row.
func (s *service) Submit(ctx context.Context, actorID string, req CreateLeaveRequest) (LeaveResponse, error) {
	if !s.gate.IsSelf(actorID, req.EmployeeID) {
		return LeaveResponse{}, leaveerrors.ErrNotAllowed
	}
	return s.submit(ctx, actorID, OriginSelf, req)
}

// SubmitProxy files a request on an employee's behalf; only admins may
// do this. From the ledger's point of view the resulting request behaves
// exactly like a self-filed one, only its provenance differs.
func (s *service) SubmitProxy(ctx context.Context, actorID string, req CreateLeaveRequest) (LeaveResponse, error) {
	if err := s.requireAdmin(ctx, actorID); err != nil {
		return LeaveResponse{}, err
	}
	return s.submit(ctx, actorID, OriginProxy, req)
}

func (s *service) submit(ctx context.Context, actorID string, origin Origin, req CreateLeaveRequest) (LeaveResponse, error) {
	log := contextutil.GetLogger(ctx, s.logger)
	log.Debug("submit leave requested",
		zap.String("actor_id", actorID),
		zap.String("employee_id", req.EmployeeID),
		zap.String("origin", string(origin)),
	)

	actorUUID, err := uuid.Parse(actorID)
	if err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidActorID
	}
	employeeUUID, err := uuid.Parse(req.EmployeeID)
	if err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidEmployeeID
	}
	startDate, err := parseDate(req.StartDate)
	if err != nil {
		return LeaveResponse{}, err
	}
	endDate, err := parseDate(req.EndDate)
	if err != nil {
		return LeaveResponse{}, err
	}

	days, err := ComputeDays(startDate, endDate, req.LeaveType)
	if err != nil {
		log.Warn("submit leave validation failed", zap.Error(err))
		return LeaveResponse{}, err
	}

	if _, err := s.employees.FindByID(ctx, req.EmployeeID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return LeaveResponse{}, employeeerrors.ErrEmployeeNotFound
		}
		return LeaveResponse{}, apperror.StoreFailure(err)
	}

	r := &LeaveRequest{
		ID:          uuid.New(),
		EmployeeID:  employeeUUID,
		LeaveType:   req.LeaveType,
		StartDate:   startDate,
		EndDate:     endDate,
		Days:        days,
		Reason:      req.Reason,
		Status:      StatusPending,
		Origin:      origin,
		RequestedBy: actorUUID,
		CreatedAt:   time.Now().UTC(),
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		log.Error("submit leave begin tx failed", zap.Error(err))
		return LeaveResponse{}, apperror.StoreFailure(err)
	}
	defer tx.Rollback()

	if err := s.repo.WithTx(tx).Create(ctx, r); err != nil {
		log.Error("submit leave persist failed", zap.Error(err))
		return LeaveResponse{}, apperror.StoreFailure(err)
	}

	if err := tx.Commit(); err != nil {
		log.Error("submit leave commit failed", zap.Error(err))
		return LeaveResponse{}, apperror.StoreFailure(err)
	}

	log.Info("submit leave success",
		zap.String("leave_id", r.ID.String()),
		zap.String("employee_id", req.EmployeeID),
		zap.String("origin", string(origin)),
		zap.String("days", days.String()),
	)
	return mapToResponse(*r), nil
}

// Approve settles a pending request and charges the employee ledger. The
// status flip and the balance mutation commit as one transaction; the
// conditional update inside MarkDecided is what stops two concurrent
// admins from charging the same request twice.
func (s *service) Approve(ctx context.Context, actorID, id string) (LeaveResponse, error) {
	return s.decide(ctx, actorID, id, StatusApproved)
}

// Reject settles a pending request without touching the ledger.
func (s *service) Reject(ctx context.Context, actorID, id string) (LeaveResponse, error) {
	return s.decide(ctx, actorID, id, StatusRejected)
}

func (s *service) decide(ctx context.Context, actorID, id, targetStatus string) (LeaveResponse, error) {
	log := contextutil.GetLogger(ctx, s.logger)
	log.Debug("decide leave requested",
		zap.String("leave_id", id),
		zap.String("actor_id", actorID),
		zap.String("target_status", targetStatus),
	)

	actorUUID, err := uuid.Parse(actorID)
	if err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidActorID
	}
	if _, err := uuid.Parse(id); err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidRequestID
	}
	if err := s.requireAdmin(ctx, actorID); err != nil {
		return LeaveResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		log.Error("decide leave begin tx failed", zap.Error(err))
		return LeaveResponse{}, apperror.StoreFailure(err)
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	emps := s.employees.WithTx(tx)

	r, err := qtx.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return LeaveResponse{}, leaveerrors.ErrLeaveNotFound
		}
		return LeaveResponse{}, apperror.StoreFailure(err)
	}
	if r.Status != StatusPending {
		log.Warn("decide leave already settled",
			zap.String("leave_id", id),
			zap.String("status", r.Status),
		)
		return LeaveResponse{}, leaveerrors.ErrAlreadyDecided
	}

	now := time.Now().UTC()
	flipped, err := qtx.MarkDecided(ctx, id, r.Origin, targetStatus, actorUUID, now)
	if err != nil {
		log.Error("decide leave status flip failed", zap.String("leave_id", id), zap.Error(err))
		return LeaveResponse{}, apperror.StoreFailure(err)
	}
	if !flipped {
		// lost the race to a concurrent decision
		return LeaveResponse{}, leaveerrors.ErrAlreadyDecided
	}

	// remaining comes back from the charging UPDATE itself, so the logged
	// balance is the committed one even under concurrent approvals
	var remaining decimal.Decimal
	if targetStatus == StatusApproved {
		rem, applied, err := emps.ApplyUsage(ctx, r.EmployeeID.String(), r.Days)
		if err != nil {
			log.Error("decide leave ledger update failed", zap.String("leave_id", id), zap.Error(err))
			return LeaveResponse{}, apperror.StoreFailure(err)
		}
		if !applied {
			return LeaveResponse{}, employeeerrors.ErrEmployeeNotFound
		}
		remaining = rem
	}

	if err := s.writeDecisionEvent(ctx, tx, r, targetStatus, actorUUID, now); err != nil {
		log.Error("decide leave outbox write failed", zap.String("leave_id", id), zap.Error(err))
		return LeaveResponse{}, apperror.StoreFailure(err)
	}

	if err := tx.Commit(); err != nil {
		log.Error("decide leave commit failed", zap.String("leave_id", id), zap.Error(err))
		return LeaveResponse{}, apperror.StoreFailure(err)
	}

	r.Status = targetStatus
	r.DecidedBy = &actorUUID
	r.DecidedAt = &now

	fields := []zap.Field{
		zap.String("leave_id", id),
		zap.String("status", targetStatus),
		zap.String("origin", string(r.Origin)),
	}
	if targetStatus == StatusApproved {
		fields = append(fields,
			zap.String("days", r.Days.String()),
			zap.String("remaining_days", remaining.String()),
		)
	}
	log.Info("decide leave success", fields...)

	return mapToResponse(*r), nil
}

func (s *service) GetByID(ctx context.Context, id string) (LeaveResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidRequestID
	}

	r, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return LeaveResponse{}, leaveerrors.ErrLeaveNotFound
		}
		return LeaveResponse{}, apperror.StoreFailure(err)
	}
	return mapToResponse(*r), nil
}

func (s *service) ListPending(ctx context.Context) ([]LeaveResponse, error) {
	requests, err := s.repo.ListPending(ctx)
	if err != nil {
		return nil, apperror.StoreFailure(err)
	}

	resp := make([]LeaveResponse, len(requests))
	for i, r := range requests {
		resp[i] = mapToResponse(r)
	}
	return resp, nil
}

func (s *service) requireAdmin(ctx context.Context, actorID string) error {
	if _, err := uuid.Parse(actorID); err != nil {
		return leaveerrors.ErrInvalidActorID
	}
	isAdmin, err := s.gate.IsAdmin(ctx, actorID)
	if err != nil {
		return apperror.StoreFailure(err)
	}
	if !isAdmin {
		return leaveerrors.ErrNotAllowed
	}
	return nil
}

func (s *service) writeDecisionEvent(ctx context.Context, tx *sql.Tx, r *LeaveRequest, targetStatus string, decidedBy uuid.UUID, decidedAt time.Time) error {
	eventType := events.LeaveRejected
	if targetStatus == StatusApproved {
		eventType = events.LeaveApproved
	}

	payload, err := json.Marshal(events.LeaveDecisionEvent{
		EventType:  eventType,
		RequestID:  r.ID.String(),
		EmployeeID: r.EmployeeID.String(),
		Origin:     string(r.Origin),
		LeaveType:  r.LeaveType,
		Days:       r.Days.String(),
		DecidedBy:  decidedBy.String(),
		OccurredAt: decidedAt,
	})
	if err != nil {
		return err
	}

	return s.outbox.WithTx(tx).Create(ctx, kafka.OutboxEvent{
		ID:            uuid.New().String(),
		RequestID:     contextutil.GetRequestID(ctx),
		AggregateType: "leave_request",
		AggregateID:   r.ID.String(),
		EventType:     eventType,
		Topic:         events.LeaveDecisionTopic,
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
	})
}

func parseDate(v string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", v)
	if err != nil {
		return time.Time{}, leaveerrors.ErrInvalidDateFormat
	}
	return t, nil
}

func mapToResponse(r LeaveRequest) LeaveResponse {
	resp := LeaveResponse{
		ID:          r.ID.String(),
		EmployeeID:  r.EmployeeID.String(),
		LeaveType:   r.LeaveType,
		StartDate:   r.StartDate.Format("2006-01-02"),
		EndDate:     r.EndDate.Format("2006-01-02"),
		Days:        r.Days.String(),
		Reason:      r.Reason,
		Status:      r.Status,
		Origin:      string(r.Origin),
		RequestedBy: r.RequestedBy.String(),
		CreatedAt:   r.CreatedAt.Format(time.RFC3339),
	}
	if r.DecidedBy != nil {
		v := r.DecidedBy.String()
		resp.DecidedBy = &v
	}
	if r.DecidedAt != nil {
		v := r.DecidedAt.Format(time.RFC3339)
		resp.DecidedAt = &v
	}
	return resp
}

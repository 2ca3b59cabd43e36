package leave

import (
	"context"
	"database/sql"
	"sort"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository is the store adapter over the two physical request tables.
// Callers choose a table exactly once, at Create, via the request's
// Origin; every later lookup and mutation routes by id transparently.
//
//go:generate mockgen -source=store.go -destination=mock/store_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, req *LeaveRequest) error
	FindByID(ctx context.Context, id string) (*LeaveRequest, error)
	// ListPending merges pending requests from both tables ordered by
	// creation time.
	ListPending(ctx context.Context) ([]LeaveRequest, error)
	// MarkDecided flips status away from pending with a conditional
	// update. Returns false when the row was not pending anymore, which
	// is the guard against a concurrent double decision.
	MarkDecided(ctx context.Context, id string, origin Origin, status string, decidedBy uuid.UUID, decidedAt time.Time) (bool, error)
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

func (r *repository) Create(ctx context.Context, req *LeaveRequest) error {
	query := `
INSERT INTO ` + tableFor(req.Origin) + ` (
	id, employee_id, leave_type, start_date, end_date, days, reason, status, requested_by, created_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
`
	_, err := r.execer().ExecContext(
		ctx, query,
		req.ID, req.EmployeeID, req.LeaveType,
		req.StartDate, req.EndDate, req.Days, req.Reason,
		toStoreStatus(req.Origin, req.Status), req.RequestedBy, req.CreatedAt,
	)
	return err
}

func (r *repository) FindByID(ctx context.Context, id string) (*LeaveRequest, error) {
	req, err := r.findInTable(ctx, id, OriginSelf)
	if err == nil {
		return req, nil
	}
	if err != sql.ErrNoRows {
		return nil, err
	}
	return r.findInTable(ctx, id, OriginProxy)
}

func (r *repository) findInTable(ctx context.Context, id string, origin Origin) (*LeaveRequest, error) {
	query := `
SELECT id, employee_id, leave_type, start_date, end_date, days, reason, status, requested_by, decided_by, created_at, decided_at
FROM ` + tableFor(origin) + `
WHERE id = $1
`
	var (
		req       LeaveRequest
		status    string
		decidedBy uuid.NullUUID
		decidedAt sql.NullTime
	)
	err := r.querier().QueryRowContext(ctx, query, id).Scan(
		&req.ID,
		&req.EmployeeID,
		&req.LeaveType,
		&req.StartDate,
		&req.EndDate,
		&req.Days,
		&req.Reason,
		&status,
		&req.RequestedBy,
		&decidedBy,
		&req.CreatedAt,
		&decidedAt,
	)
	if err != nil {
		return nil, err
	}

	req.Origin = origin
	req.Status = fromStoreStatus(origin, status)
	if decidedBy.Valid {
		v := decidedBy.UUID
		req.DecidedBy = &v
	}
	if decidedAt.Valid {
		v := decidedAt.Time
		req.DecidedAt = &v
	}
	return &req, nil
}

func (r *repository) ListPending(ctx context.Context) ([]LeaveRequest, error) {
	var selfRows []SelfRequest
	err := r.db.WithContext(ctx).
		Where("status = ?", StatusPending).
		Find(&selfRows).Error
	if err != nil {
		return nil, err
	}

	var proxyRows []ProxyRequest
	err = r.db.WithContext(ctx).
		Where("status = ?", proxyStatusPending).
		Find(&proxyRows).Error
	if err != nil {
		return nil, err
	}

	merged := make([]LeaveRequest, 0, len(selfRows)+len(proxyRows))
	for _, row := range selfRows {
		merged = append(merged, fromSelfRow(row))
	}
	for _, row := range proxyRows {
		merged = append(merged, fromProxyRow(row))
	}

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].CreatedAt.Before(merged[j].CreatedAt)
	})
	return merged, nil
}

func (r *repository) MarkDecided(ctx context.Context, id string, origin Origin, status string, decidedBy uuid.UUID, decidedAt time.Time) (bool, error) {
	query := `
UPDATE ` + tableFor(origin) + `
SET status = $2, decided_by = $3, decided_at = $4
WHERE id = $1 AND status = $5
`
	res, err := r.execer().ExecContext(
		ctx, query,
		id, toStoreStatus(origin, status), decidedBy, decidedAt,
		toStoreStatus(origin, StatusPending),
	)
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

func fromSelfRow(row SelfRequest) LeaveRequest {
	return LeaveRequest{
		ID:          row.ID,
		EmployeeID:  row.EmployeeID,
		LeaveType:   row.LeaveType,
		StartDate:   row.StartDate,
		EndDate:     row.EndDate,
		Days:        row.Days,
		Reason:      row.Reason,
		Status:      row.Status,
		Origin:      OriginSelf,
		RequestedBy: row.RequestedBy,
		DecidedBy:   row.DecidedBy,
		CreatedAt:   row.CreatedAt,
		DecidedAt:   row.DecidedAt,
	}
}

func fromProxyRow(row ProxyRequest) LeaveRequest {
	return LeaveRequest{
		ID:          row.ID,
		EmployeeID:  row.EmployeeID,
		LeaveType:   row.LeaveType,
		StartDate:   row.StartDate,
		EndDate:     row.EndDate,
		Days:        row.Days,
		Reason:      row.Reason,
		Status:      fromStoreStatus(OriginProxy, row.Status),
		Origin:      OriginProxy,
		RequestedBy: row.RequestedBy,
		DecidedBy:   row.DecidedBy,
		CreatedAt:   row.CreatedAt,
		DecidedAt:   row.DecidedAt,
	}
}

func tableFor(origin Origin) string {
	if origin == OriginProxy {
		return "leave_requests_proxy"
	}
	return "leave_requests_self"
}

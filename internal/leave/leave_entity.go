package leave

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Origin string

const (
	OriginSelf  Origin = "self"
	OriginProxy Origin = "proxy"
)

const (
	StatusPending  = "PENDING"
	StatusApproved = "APPROVED"
	StatusRejected = "REJECTED"
)

// LeaveRequest is the unified view the approval engine works with. The
// two physical tables below stay an implementation detail of the store
// adapter; above it a request is just a LeaveRequest tagged with its
// Origin. Days is a snapshot frozen at creation time and is never
// recomputed, so historical approvals keep the charge they were made
// with even if the calculator rules change.
type LeaveRequest struct {
	ID          uuid.UUID
	EmployeeID  uuid.UUID
	LeaveType   string
	StartDate   time.Time
	EndDate     time.Time
	Days        decimal.Decimal
	Reason      string
	Status      string
	Origin      Origin
	RequestedBy uuid.UUID
	DecidedBy   *uuid.UUID
	CreatedAt   time.Time
	DecidedAt   *time.Time
}

// SelfRequest is the storage row for requests employees file themselves.
type SelfRequest struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey"`
	EmployeeID  uuid.UUID       `gorm:"type:uuid;not null;index:idx_leave_self_employee"`
	LeaveType   string          `gorm:"type:varchar(20);not null"`
	StartDate   time.Time       `gorm:"type:date;not null"`
	EndDate     time.Time       `gorm:"type:date;not null"`
	Days        decimal.Decimal `gorm:"type:numeric(5,2);not null"`
	Reason      string          `gorm:"type:text"`
	Status      string          `gorm:"type:varchar(20);not null;default:'PENDING';index:idx_leave_self_status"`
	RequestedBy uuid.UUID       `gorm:"type:uuid;not null"`
	DecidedBy   *uuid.UUID      `gorm:"type:uuid"`
	CreatedAt   time.Time
	DecidedAt   *time.Time
}

func (SelfRequest) TableName() string {
	return "leave_requests_self"
}

// ProxyRequest is the storage row for requests an administrator files on
// an employee's behalf. The table predates the self table and keeps its
// legacy lowercase status vocabulary; the adapter translates at this
// boundary and nothing above it ever sees a lowercase status.
type ProxyRequest struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey"`
	EmployeeID  uuid.UUID       `gorm:"type:uuid;not null;index:idx_leave_proxy_employee"`
	LeaveType   string          `gorm:"type:varchar(20);not null"`
	StartDate   time.Time       `gorm:"type:date;not null"`
	EndDate     time.Time       `gorm:"type:date;not null"`
	Days        decimal.Decimal `gorm:"type:numeric(5,2);not null"`
	Reason      string          `gorm:"type:text"`
	Status      string          `gorm:"type:varchar(20);not null;default:'pending';index:idx_leave_proxy_status"`
	RequestedBy uuid.UUID       `gorm:"type:uuid;not null"`
	DecidedBy   *uuid.UUID      `gorm:"type:uuid"`
	CreatedAt   time.Time
	DecidedAt   *time.Time
}

func (ProxyRequest) TableName() string {
	return "leave_requests_proxy"
}

package events

import "time"

const LeaveDecisionTopic = "hr.leave.decision.v1"

const (
	LeaveApproved = "LEAVE_APPROVED"
	LeaveRejected = "LEAVE_REJECTED"
)

// LeaveDecisionEvent is written to the outbox inside the same transaction
// that settles the request, so a published event always corresponds to a
// committed decision.
type LeaveDecisionEvent struct {
	EventType  string    `json:"event_type"`
	RequestID  string    `json:"request_id"`
	EmployeeID string    `json:"employee_id"`
	Origin     string    `json:"origin"`
	LeaveType  string    `json:"leave_type"`
	Days       string    `json:"days"`
	DecidedBy  string    `json:"decided_by"`
	OccurredAt time.Time `json:"occurred_at"`
}

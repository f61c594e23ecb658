package events

import "time"

const LeaveDecidedTopic = "hr.leave.lifecycle.v1"

// LeaveDecidedEvent is published through the outbox whenever a request
// or adjustment decision lands. Downstream consumers (payroll sync,
// mailers) are external to this service.
type LeaveDecidedEvent struct {
	EventType   string    `json:"event_type"`
	RequestID   string    `json:"request_id"`
	EmployeeID  string    `json:"employee_id"`
	LeaveTypeID string    `json:"leave_type_id"`
	Decision    string    `json:"decision"`
	Days        float64   `json:"days"`
	DecidedBy   string    `json:"decided_by"`
	OccurredAt  time.Time `json:"occurred_at"`
}

const (
	EventTypeLeaveApproved  = "leave.approved"
	EventTypeLeaveRejected  = "leave.rejected"
	EventTypeLeaveResized   = "leave.resized"
	EventTypeLeaveCancelled = "leave.cancelled"
)

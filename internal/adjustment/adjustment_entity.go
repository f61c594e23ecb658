package adjustment

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Status is the adjustment lifecycle. Unlike leave requests there is no
// Cancelled state: an open adjustment is simply rejected.
type Status string

const (
	StatusSubmitted Status = "SUBMITTED"
	StatusApproved  Status = "APPROVED"
	StatusRejected  Status = "REJECTED"
)

var transitions = map[Status]map[Status]bool{
	StatusSubmitted: {
		StatusApproved: true,
		StatusRejected: true,
	},
}

func CanTransition(from, to Status) bool {
	return transitions[from][to]
}

// LeaveAdjustmentRequest corrects an already-approved leave request.
// IsCancellation=true asks to undo the leave entirely; otherwise the
// row is a resize carrying the new date range and the day delta.
// Nothing touches the underlying request or its availed record until
// the adjustment itself is approved.
type LeaveAdjustmentRequest struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	LeaveRequestID uuid.UUID `gorm:"type:uuid;not null;index:idx_leave_adjustments_request;uniqueIndex:uq_leave_adjustments_open,where:status = 'SUBMITTED'"`
	EmployeeID     uuid.UUID `gorm:"type:uuid;not null;index:idx_leave_adjustments_employee"`

	IsCancellation bool `gorm:"not null;default:false"`

	// Resize fields; zero-valued on cancellations.
	NewStartDate *time.Time `gorm:"type:date"`
	NewEndDate   *time.Time `gorm:"type:date"`
	OriginalDays float64    `gorm:"type:decimal(6,2);not null"`
	NewDays      float64    `gorm:"type:decimal(6,2);not null"`

	Reason string `gorm:"type:text"`

	Status             Status    `gorm:"type:varchar(20);not null;default:'SUBMITTED';index:idx_leave_adjustments_status"`
	CreatedBy          uuid.UUID `gorm:"type:uuid;not null"`
	ReportingOfficerID uuid.UUID `gorm:"type:uuid;not null"`

	RespondedBy      *uuid.UUID `gorm:"type:uuid"`
	RespondedAt      *time.Time
	ResponseComments *string `gorm:"type:text"`

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index:idx_leave_adjustments_deleted_at"`
}

func (LeaveAdjustmentRequest) TableName() string { return "leave_adjustment_requests" }

package request

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Status is the closed set of leave request states. Transitions go
// through CanTransition; no handler or service checks raw strings.
type Status string

const (
	StatusSubmitted Status = "SUBMITTED"
	StatusApproved  Status = "APPROVED"
	StatusRejected  Status = "REJECTED"
	StatusCancelled Status = "CANCELLED"
)

// transitions is the single transition table for the request lifecycle.
// Approved leaves Cancelled reachable only through the adjustment
// workflow's cancellation path; Rejected and Cancelled are terminal.
var transitions = map[Status]map[Status]bool{
	StatusSubmitted: {
		StatusApproved:  true,
		StatusRejected:  true,
		StatusCancelled: true,
	},
	StatusApproved: {
		StatusCancelled: true,
	},
}

func CanTransition(from, to Status) bool {
	return transitions[from][to]
}

type Decision string

const (
	DecisionApprove Decision = "APPROVE"
	DecisionReject  Decision = "REJECT"
)

type LeaveRequest struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	EmployeeID uuid.UUID `gorm:"type:uuid;not null;index:idx_leave_requests_employee_dates"`

	LeaveTypeID uuid.UUID `gorm:"type:uuid;not null"`
	StartDate   time.Time `gorm:"type:date;not null;index:idx_leave_requests_employee_dates"`
	EndDate     time.Time `gorm:"type:date;not null;index:idx_leave_requests_employee_dates"`
	IsShort     bool      `gorm:"not null;default:false"`

	// CalendarDays is the inclusive span; CountedDays is what the
	// breakup materializes and what the ledger charges.
	CalendarDays int `gorm:"type:int;not null"`
	CountedDays  int `gorm:"type:int;not null"`

	Reason         string     `gorm:"type:text"`
	ContactAddress string     `gorm:"type:text"`
	Recommenders   string     `gorm:"type:text"`
	LocationID     *uuid.UUID `gorm:"type:uuid"`

	// Optional station-leave travel sub-range within the leave.
	TravelStartDate *time.Time `gorm:"type:date"`
	TravelEndDate   *time.Time `gorm:"type:date"`

	// Optional post-facto dates filled in while the request is open.
	DepartureDate *time.Time `gorm:"type:date"`
	JoiningDate   *time.Time `gorm:"type:date"`

	Status             Status    `gorm:"type:varchar(20);not null;default:'SUBMITTED';index:idx_leave_requests_status"`
	CreatedBy          uuid.UUID `gorm:"type:uuid;not null"`
	ReportingOfficerID uuid.UUID `gorm:"type:uuid;not null"`

	RespondedBy      *uuid.UUID `gorm:"type:uuid"`
	RespondedAt      *time.Time
	ResponseComments *string `gorm:"type:text"`

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index:idx_leave_requests_deleted_at"`
}

// LeaveRequestDay is one materialized breakup row. The set is recreated
// wholesale on submit and edit; its row count always equals the
// request's CountedDays.
type LeaveRequestDay struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	LeaveRequestID uuid.UUID `gorm:"type:uuid;not null;index:idx_leave_request_days_request"`
	Date           time.Time `gorm:"type:date;not null"`
	Weekday        string    `gorm:"type:varchar(10);not null"`

	CreatedAt time.Time
}

// LeaveTaken is the canonical availed record, created only when a
// request is approved. Resize adjustments overwrite Days; an approved
// cancellation deletes the row outright.
type LeaveTaken struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	LeaveRequestID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_leave_takens_request"`
	EmployeeID     uuid.UUID `gorm:"type:uuid;not null;index:idx_leave_takens_employee_type"`
	LeaveTypeID    uuid.UUID `gorm:"type:uuid;not null;index:idx_leave_takens_employee_type"`

	StartDate time.Time `gorm:"type:date;not null"`
	EndDate   time.Time `gorm:"type:date;not null"`
	Days      float64   `gorm:"type:decimal(6,2);not null"`

	FiscalYearID     *uuid.UUID `gorm:"type:uuid"`
	FiscalYearNumber int        `gorm:"not null;index:idx_leave_takens_fiscal_year"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

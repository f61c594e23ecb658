package assignment

import (
	"time"

	"github.com/google/uuid"
)

// LeaveAssignment is the per-type day grant for one employee and fiscal
// year. The ledger sums these rows to form the Total column; one row
// per (employee, type, year) enforced by the unique index.
type LeaveAssignment struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	EmployeeID       uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_leave_assignments_grant"`
	LeaveTypeID      uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_leave_assignments_grant"`
	FiscalYearNumber int       `gorm:"not null;uniqueIndex:uq_leave_assignments_grant"`

	Days       float64   `gorm:"type:decimal(6,2);not null"`
	AssignedBy uuid.UUID `gorm:"type:uuid;not null"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

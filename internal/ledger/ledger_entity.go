package ledger

import (
	"time"

	"github.com/google/uuid"
)

// LeaveProfile carries per-employee balance state that is not derived
// from assignments: the earned-leave accrual that carries across years,
// and the single legacy balance imported from the old paper register.
// The legacy figure is only reported when an employee has no assignment
// rows at all.
type LeaveProfile struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	EmployeeID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_leave_profiles_employee"`

	EarnedAccrued float64 `gorm:"type:decimal(6,2);not null;default:0"`
	LegacyBalance float64 `gorm:"type:decimal(6,2);not null;default:0"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

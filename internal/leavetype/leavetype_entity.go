package leavetype

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Well-known short codes. The ledger's permitted list and a couple of
// counting rules key off these.
const (
	CodeCasual            = "CL"
	CodeEarned            = "EL"
	CodeHalfPay           = "HPL"
	CodeMaternity         = "ML"
	CodeRestrictedHoliday = "RH"
	CodeShort             = "SL"
)

// PermittedShortCodes is the fixed allow-list of types the balance
// ledger reports on.
var PermittedShortCodes = []string{
	CodeCasual,
	CodeEarned,
	CodeHalfPay,
	CodeMaternity,
	CodeRestrictedHoliday,
}

type LeaveType struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name      string    `gorm:"type:varchar(80);not null"`
	ShortCode string    `gorm:"type:varchar(10);not null;uniqueIndex:uq_leave_types_short_code"`
	Nature    string    `gorm:"type:varchar(30);not null;default:'DEBITABLE'"`

	// GenderRestriction limits who may apply (e.g. maternity leave).
	GenderRestriction *string `gorm:"type:varchar(1)"`

	// OffCovered is the type-level default; per-employee-nature rows in
	// leave_type_off_covers override it.
	OffCovered bool `gorm:"not null;default:true"`

	MaxDaysPerRequest *int     `gorm:"type:int"`
	MaxDaysPerYear    *float64 `gorm:"type:decimal(6,2)"`

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index:idx_leave_types_deleted_at"`
}

func (t LeaveType) IsRestrictedHoliday() bool {
	return t.ShortCode == CodeRestrictedHoliday
}

// OffCoverRule is the per-employee-nature override of a type's
// off-covered flag (e.g. casual leave covers offs for teaching staff
// but not for daily-wage staff).
type OffCoverRule struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	LeaveTypeID    uuid.UUID `gorm:"type:uuid;not null;index:idx_off_cover_type_nature"`
	EmployeeNature string    `gorm:"type:varchar(30);not null;index:idx_off_cover_type_nature"`
	OffCovered     bool      `gorm:"not null"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (OffCoverRule) TableName() string { return "leave_type_off_covers" }

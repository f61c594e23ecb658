package fiscal

import (
	"time"

	"github.com/google/uuid"
)

// FiscalYear is the institution's leave-accounting window, distinct
// from the calendar year.
type FiscalYear struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Number int       `gorm:"not null;uniqueIndex:uq_fiscal_years_number"`
	Start  time.Time `gorm:"type:date;not null"`
	End    time.Time `gorm:"type:date;not null"`
	Active bool      `gorm:"not null;default:false;index:idx_fiscal_years_active"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

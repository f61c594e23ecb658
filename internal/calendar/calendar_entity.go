package calendar

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// HolidayRange is a stored holiday span for a location and year. Single
// day holidays have StartDate == EndDate.
type HolidayRange struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	LocationID uuid.UUID `gorm:"type:uuid;not null;index:idx_holiday_ranges_location_year"`
	Year       int       `gorm:"not null;index:idx_holiday_ranges_location_year"`
	Title      string    `gorm:"type:varchar(200);not null"`
	StartDate  time.Time `gorm:"type:date;not null"`
	EndDate    time.Time `gorm:"type:date;not null"`

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index:idx_holiday_ranges_deleted_at"`
}

// WeeklyOff marks one weekday (0=Sunday .. 6=Saturday) as non-working
// for a location and year.
type WeeklyOff struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	LocationID uuid.UUID `gorm:"type:uuid;not null;index:idx_weekly_offs_location_year"`
	Year       int       `gorm:"not null;index:idx_weekly_offs_location_year"`
	Weekday    int       `gorm:"not null"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// RestrictedHoliday is a claimable-only holiday span; it does not make
// the dates non-working for everyone.
type RestrictedHoliday struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	LocationID uuid.UUID `gorm:"type:uuid;not null;index:idx_restricted_holidays_location_year"`
	Year       int       `gorm:"not null;index:idx_restricted_holidays_location_year"`
	Title      string    `gorm:"type:varchar(200);not null"`
	StartDate  time.Time `gorm:"type:date;not null"`
	EndDate    time.Time `gorm:"type:date;not null"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

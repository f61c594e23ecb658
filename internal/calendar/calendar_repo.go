package calendar

import (
	"context"

	"gorm.io/gorm"
)

//go:generate mockgen -source=calendar_repo.go -destination=mock/calendar_repo_mock.go -package=mock
type Repository interface {
	HolidayRanges(ctx context.Context, locationID string, year int) ([]HolidayRange, error)
	WeeklyOffs(ctx context.Context, locationID string, year int) ([]WeeklyOff, error)
	RestrictedHolidays(ctx context.Context, locationID string, year int) ([]RestrictedHoliday, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) HolidayRanges(ctx context.Context, locationID string, year int) ([]HolidayRange, error) {
	var ranges []HolidayRange
	err := r.db.WithContext(ctx).
		Where("location_id = ?", locationID).
		Where("year = ?", year).
		Order("start_date ASC").
		Find(&ranges).Error
	return ranges, err
}

func (r *repository) WeeklyOffs(ctx context.Context, locationID string, year int) ([]WeeklyOff, error) {
	var offs []WeeklyOff
	err := r.db.WithContext(ctx).
		Where("location_id = ?", locationID).
		Where("year = ?", year).
		Find(&offs).Error
	return offs, err
}

func (r *repository) RestrictedHolidays(ctx context.Context, locationID string, year int) ([]RestrictedHoliday, error) {
	var ranges []RestrictedHoliday
	err := r.db.WithContext(ctx).
		Where("location_id = ?", locationID).
		Where("year = ?", year).
		Order("start_date ASC").
		Find(&ranges).Error
	return ranges, err
}

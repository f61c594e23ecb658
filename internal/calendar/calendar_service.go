package calendar

import (
	"context"
	"time"

	"go.uber.org/zap"
)

const DateLayout = "2006-01-02"

// Snapshot is the expanded working calendar for one location and year.
// Date sets are keyed by DateLayout strings.
type Snapshot struct {
	Holidays           map[string]bool
	WeeklyOffDays      map[time.Weekday]bool
	RestrictedHolidays map[string]bool
}

func (s Snapshot) IsHoliday(d time.Time) bool {
	return s.Holidays[d.Format(DateLayout)]
}

func (s Snapshot) IsWeeklyOff(d time.Time) bool {
	return s.WeeklyOffDays[d.Weekday()]
}

func (s Snapshot) IsRestrictedHoliday(d time.Time) bool {
	return s.RestrictedHolidays[d.Format(DateLayout)]
}

//go:generate mockgen -source=calendar_service.go -destination=mock/calendar_service_mock.go -package=mock
type Service interface {
	Compute(ctx context.Context, locationID string, year int) (Snapshot, error)
}

type service struct {
	repo   Repository
	logger *zap.Logger
}

func NewService(repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("calendar.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("calendar.service")
	}
	return &service{repo: repo, logger: l}
}

// Compute expands the stored ranges into per-date sets. A location or
// year with no configuration yields empty sets: callers then count
// every day as a plain working day.
func (s *service) Compute(ctx context.Context, locationID string, year int) (Snapshot, error) {
	snap := Snapshot{
		Holidays:           make(map[string]bool),
		WeeklyOffDays:      make(map[time.Weekday]bool),
		RestrictedHolidays: make(map[string]bool),
	}

	holidays, err := s.repo.HolidayRanges(ctx, locationID, year)
	if err != nil {
		return Snapshot{}, err
	}
	for _, h := range holidays {
		expandRange(snap.Holidays, h.StartDate, h.EndDate)
	}

	offs, err := s.repo.WeeklyOffs(ctx, locationID, year)
	if err != nil {
		return Snapshot{}, err
	}
	for _, o := range offs {
		if o.Weekday >= 0 && o.Weekday <= 6 {
			snap.WeeklyOffDays[time.Weekday(o.Weekday)] = true
		}
	}

	restricted, err := s.repo.RestrictedHolidays(ctx, locationID, year)
	if err != nil {
		return Snapshot{}, err
	}
	for _, rh := range restricted {
		expandRange(snap.RestrictedHolidays, rh.StartDate, rh.EndDate)
	}

	s.logger.Debug("calendar computed",
		zap.String("location_id", locationID),
		zap.Int("year", year),
		zap.Int("holidays", len(snap.Holidays)),
		zap.Int("weekly_offs", len(snap.WeeklyOffDays)),
		zap.Int("restricted_holidays", len(snap.RestrictedHolidays)),
	)

	return snap, nil
}

func expandRange(set map[string]bool, from, to time.Time) {
	if to.Before(from) {
		return
	}
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		set[d.Format(DateLayout)] = true
	}
}

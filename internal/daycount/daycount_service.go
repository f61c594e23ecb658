package daycount

import (
	"context"
	"time"

	"leaveflow/internal/calendar"
	"leaveflow/internal/leavetype"

	"go.uber.org/zap"
)

//go:generate mockgen -source=daycount_service.go -destination=mock/daycount_service_mock.go -package=mock
type Service interface {
	Compute(ctx context.Context, in Input) (Result, error)
}

type service struct {
	repo      Repository
	calendars calendar.Service
	types     leavetype.Repository
	logger    *zap.Logger
}

func NewService(
	repo Repository,
	calendars calendar.Service,
	types leavetype.Repository,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("daycount.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("daycount.service")
	}
	return &service{repo: repo, calendars: calendars, types: types, logger: l}
}

// Compute walks the inclusive range and classifies each date against the
// location calendar and the leave type's counting policy.
//
// An inverted range is a caller mistake, not a failure: the result is
// simply empty. A short leave counts exactly one day regardless of the
// supplied range.
func (s *service) Compute(ctx context.Context, in Input) (Result, error) {
	from := truncateToDay(in.From)
	to := truncateToDay(in.To)

	if to.Before(from) {
		return Result{Breakup: []BreakupDay{}}, nil
	}

	if in.IsShort {
		return Result{
			CountedDays:  1,
			CalendarDays: 1,
			Breakup:      []BreakupDay{newBreakupDay(from)},
		}, nil
	}

	lt, err := s.types.FindByID(ctx, in.LeaveTypeID)
	if err != nil {
		return Result{}, err
	}

	offCovered, err := s.resolveOffCovered(ctx, lt, in.EmployeeID)
	if err != nil {
		return Result{}, err
	}

	snapshots := make(map[int]calendar.Snapshot)
	for year := from.Year(); year <= to.Year(); year++ {
		snap, err := s.calendars.Compute(ctx, in.LocationID, year)
		if err != nil {
			return Result{}, err
		}
		snapshots[year] = snap
	}

	result := Result{Breakup: []BreakupDay{}}
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		result.CalendarDays++
		snap := snapshots[d.Year()]

		if !countsAgainst(lt, offCovered, snap, d) {
			continue
		}
		result.CountedDays++
		result.Breakup = append(result.Breakup, newBreakupDay(d))
	}

	s.logger.Debug("day count computed",
		zap.String("employee_id", in.EmployeeID),
		zap.String("leave_type", lt.ShortCode),
		zap.Int("calendar_days", result.CalendarDays),
		zap.Int("counted_days", result.CountedDays),
	)

	return result, nil
}

// resolveOffCovered prefers the per-employee-nature rule; absent a
// matching rule the policy is fail-open: the day consumes entitlement.
func (s *service) resolveOffCovered(ctx context.Context, lt *leavetype.LeaveType, employeeID string) (bool, error) {
	nature, err := s.repo.EmployeeNature(ctx, employeeID)
	if err != nil {
		return false, err
	}

	covered, found, err := s.types.OffCovered(ctx, lt.ID.String(), nature)
	if err != nil {
		return false, err
	}
	if !found {
		return true, nil
	}
	return covered, nil
}

func countsAgainst(lt *leavetype.LeaveType, offCovered bool, snap calendar.Snapshot, d time.Time) bool {
	if lt.IsRestrictedHoliday() {
		return snap.IsRestrictedHoliday(d)
	}
	if offCovered {
		return true
	}
	return !snap.IsHoliday(d) && !snap.IsWeeklyOff(d)
}

func newBreakupDay(d time.Time) BreakupDay {
	return BreakupDay{Date: d, Weekday: d.Weekday().String()}
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

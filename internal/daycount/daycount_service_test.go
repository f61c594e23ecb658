package daycount_test

import (
	"context"
	"testing"
	"time"

	"leaveflow/internal/calendar"
	"leaveflow/internal/daycount"
	"leaveflow/internal/leavetype"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type fakeDaycountRepository struct {
	employeeNatureFn func(ctx context.Context, employeeID string) (string, error)
}

func (f *fakeDaycountRepository) EmployeeNature(ctx context.Context, employeeID string) (string, error) {
	if f.employeeNatureFn != nil {
		return f.employeeNatureFn(ctx, employeeID)
	}
	return "TEACHING", nil
}

type fakeCalendarService struct {
	computeFn func(ctx context.Context, locationID string, year int) (calendar.Snapshot, error)
}

func (f *fakeCalendarService) Compute(ctx context.Context, locationID string, year int) (calendar.Snapshot, error) {
	if f.computeFn != nil {
		return f.computeFn(ctx, locationID, year)
	}
	return emptySnapshot(), nil
}

type fakeTypeRepository struct {
	findByIDFn   func(ctx context.Context, id string) (*leavetype.LeaveType, error)
	offCoveredFn func(ctx context.Context, leaveTypeID, employeeNature string) (bool, bool, error)
}

func (f *fakeTypeRepository) FindByID(ctx context.Context, id string) (*leavetype.LeaveType, error) {
	if f.findByIDFn != nil {
		return f.findByIDFn(ctx, id)
	}
	return &leavetype.LeaveType{ID: uuid.MustParse(id), ShortCode: leavetype.CodeCasual}, nil
}

func (f *fakeTypeRepository) FindByShortCode(ctx context.Context, code string) (*leavetype.LeaveType, error) {
	return nil, nil
}

func (f *fakeTypeRepository) ListByShortCodes(ctx context.Context, codes []string) ([]leavetype.LeaveType, error) {
	return nil, nil
}

func (f *fakeTypeRepository) OffCovered(ctx context.Context, leaveTypeID, employeeNature string) (bool, bool, error) {
	if f.offCoveredFn != nil {
		return f.offCoveredFn(ctx, leaveTypeID, employeeNature)
	}
	return false, false, nil
}

func emptySnapshot() calendar.Snapshot {
	return calendar.Snapshot{
		Holidays:           map[string]bool{},
		WeeklyOffDays:      map[time.Weekday]bool{},
		RestrictedHolidays: map[string]bool{},
	}
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestDaycountService_Compute(t *testing.T) {
	ctx := context.Background()
	employeeID := uuid.New().String()
	typeID := uuid.New().String()

	baseInput := func() daycount.Input {
		return daycount.Input{
			EmployeeID:  employeeID,
			LeaveTypeID: typeID,
			LocationID:  uuid.New().String(),
		}
	}

	t.Run("plain working days all count", func(t *testing.T) {
		svc := daycount.NewService(&fakeDaycountRepository{}, &fakeCalendarService{}, &fakeTypeRepository{})

		in := baseInput()
		in.From = date(2025, time.January, 6)
		in.To = date(2025, time.January, 8)

		result, err := svc.Compute(ctx, in)

		assert.NoError(t, err)
		assert.Equal(t, 3, result.CalendarDays)
		assert.Equal(t, 3, result.CountedDays)
		assert.Len(t, result.Breakup, 3)
		assert.Equal(t, "Monday", result.Breakup[0].Weekday)
	})

	t.Run("inverted range yields empty result", func(t *testing.T) {
		svc := daycount.NewService(&fakeDaycountRepository{}, &fakeCalendarService{}, &fakeTypeRepository{})

		in := baseInput()
		in.From = date(2025, time.January, 8)
		in.To = date(2025, time.January, 6)

		result, err := svc.Compute(ctx, in)

		assert.NoError(t, err)
		assert.Equal(t, 0, result.CalendarDays)
		assert.Equal(t, 0, result.CountedDays)
		assert.Empty(t, result.Breakup)
	})

	t.Run("short leave counts exactly one day", func(t *testing.T) {
		svc := daycount.NewService(&fakeDaycountRepository{}, &fakeCalendarService{}, &fakeTypeRepository{})

		in := baseInput()
		in.From = date(2025, time.January, 10)
		in.To = date(2025, time.January, 15)
		in.IsShort = true

		result, err := svc.Compute(ctx, in)

		assert.NoError(t, err)
		assert.Equal(t, 1, result.CalendarDays)
		assert.Equal(t, 1, result.CountedDays)
		assert.Len(t, result.Breakup, 1)
		assert.Equal(t, date(2025, time.January, 10), result.Breakup[0].Date)
	})

	t.Run("off-covered false skips weekly offs and holidays", func(t *testing.T) {
		// 2025-01-11 Saturday, 2025-01-12 Sunday
		cal := &fakeCalendarService{
			computeFn: func(ctx context.Context, locationID string, year int) (calendar.Snapshot, error) {
				snap := emptySnapshot()
				snap.WeeklyOffDays[time.Saturday] = true
				snap.WeeklyOffDays[time.Sunday] = true
				return snap, nil
			},
		}
		types := &fakeTypeRepository{
			offCoveredFn: func(ctx context.Context, ltID, nature string) (bool, bool, error) {
				return false, true, nil
			},
		}
		svc := daycount.NewService(&fakeDaycountRepository{}, cal, types)

		in := baseInput()
		in.From = date(2025, time.January, 11)
		in.To = date(2025, time.January, 12)

		result, err := svc.Compute(ctx, in)

		assert.NoError(t, err)
		assert.Equal(t, 2, result.CalendarDays)
		assert.Equal(t, 0, result.CountedDays)
		assert.Empty(t, result.Breakup)
	})

	t.Run("off-covered true charges every calendar day", func(t *testing.T) {
		cal := &fakeCalendarService{
			computeFn: func(ctx context.Context, locationID string, year int) (calendar.Snapshot, error) {
				snap := emptySnapshot()
				snap.WeeklyOffDays[time.Saturday] = true
				snap.WeeklyOffDays[time.Sunday] = true
				return snap, nil
			},
		}
		types := &fakeTypeRepository{
			offCoveredFn: func(ctx context.Context, ltID, nature string) (bool, bool, error) {
				return true, true, nil
			},
		}
		svc := daycount.NewService(&fakeDaycountRepository{}, cal, types)

		in := baseInput()
		in.From = date(2025, time.January, 10)
		in.To = date(2025, time.January, 13)

		result, err := svc.Compute(ctx, in)

		assert.NoError(t, err)
		assert.Equal(t, 4, result.CalendarDays)
		assert.Equal(t, 4, result.CountedDays)
		assert.Len(t, result.Breakup, 4)
	})

	t.Run("missing off-cover rule defaults to covered", func(t *testing.T) {
		cal := &fakeCalendarService{
			computeFn: func(ctx context.Context, locationID string, year int) (calendar.Snapshot, error) {
				snap := emptySnapshot()
				snap.WeeklyOffDays[time.Sunday] = true
				return snap, nil
			},
		}
		svc := daycount.NewService(&fakeDaycountRepository{}, cal, &fakeTypeRepository{})

		in := baseInput()
		in.From = date(2025, time.January, 11)
		in.To = date(2025, time.January, 13)

		result, err := svc.Compute(ctx, in)

		assert.NoError(t, err)
		assert.Equal(t, 3, result.CountedDays)
	})

	t.Run("restricted holiday type counts only flagged dates", func(t *testing.T) {
		cal := &fakeCalendarService{
			computeFn: func(ctx context.Context, locationID string, year int) (calendar.Snapshot, error) {
				snap := emptySnapshot()
				snap.RestrictedHolidays["2025-03-05"] = true
				return snap, nil
			},
		}
		types := &fakeTypeRepository{
			findByIDFn: func(ctx context.Context, id string) (*leavetype.LeaveType, error) {
				return &leavetype.LeaveType{
					ID:        uuid.MustParse(id),
					ShortCode: leavetype.CodeRestrictedHoliday,
				}, nil
			},
		}
		svc := daycount.NewService(&fakeDaycountRepository{}, cal, types)

		in := baseInput()
		in.From = date(2025, time.March, 4)
		in.To = date(2025, time.March, 6)

		result, err := svc.Compute(ctx, in)

		assert.NoError(t, err)
		assert.Equal(t, 3, result.CalendarDays)
		assert.Equal(t, 1, result.CountedDays)
		assert.Len(t, result.Breakup, 1)
		assert.Equal(t, date(2025, time.March, 5), result.Breakup[0].Date)
	})
}

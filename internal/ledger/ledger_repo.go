package ledger

import (
	"context"
	"time"

	"gorm.io/gorm"
)

//go:generate mockgen -source=ledger_repo.go -destination=mock/ledger_repo_mock.go -package=mock
type Repository interface {
	// FindProfile returns (nil, nil) when the employee has no profile.
	FindProfile(ctx context.Context, employeeID string) (*LeaveProfile, error)

	// AssignmentTotals sums leave_assignments per leave type for the
	// fiscal year.
	AssignmentTotals(ctx context.Context, employeeID string, fiscalYearNumber int) (map[string]float64, error)

	// AvailedTotals sums leave_takens.days per leave type for the
	// fiscal year.
	AvailedTotals(ctx context.Context, employeeID string, fiscalYearNumber int) (map[string]float64, error)

	// AdjustedTotals sums approved resize deltas per leave type for the
	// fiscal year.
	AdjustedTotals(ctx context.Context, employeeID string, fiscalYearNumber int) (map[string]float64, error)

	// AppliedTotals sums counted days of still-Submitted requests per
	// leave type, so the requester sees balance net of pending asks.
	// The window is the fiscal year's configured start and end dates.
	AppliedTotals(ctx context.Context, employeeID string, windowStart, windowEnd time.Time) (map[string]float64, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

type typeTotal struct {
	LeaveTypeID string
	Total       float64
}

func (r *repository) FindProfile(ctx context.Context, employeeID string) (*LeaveProfile, error) {
	var p LeaveProfile
	err := r.db.WithContext(ctx).First(&p, "employee_id = ?", employeeID).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *repository) AssignmentTotals(ctx context.Context, employeeID string, fiscalYearNumber int) (map[string]float64, error) {
	var rows []typeTotal
	err := r.db.WithContext(ctx).
		Table("leave_assignments").
		Select("leave_type_id, SUM(days) AS total").
		Where("employee_id = ? AND fiscal_year_number = ?", employeeID, fiscalYearNumber).
		Group("leave_type_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return totalsByType(rows), nil
}

func (r *repository) AvailedTotals(ctx context.Context, employeeID string, fiscalYearNumber int) (map[string]float64, error) {
	var rows []typeTotal
	err := r.db.WithContext(ctx).
		Table("leave_takens").
		Select("leave_type_id, SUM(days) AS total").
		Where("employee_id = ? AND fiscal_year_number = ?", employeeID, fiscalYearNumber).
		Group("leave_type_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return totalsByType(rows), nil
}

func (r *repository) AdjustedTotals(ctx context.Context, employeeID string, fiscalYearNumber int) (map[string]float64, error) {
	var rows []typeTotal
	err := r.db.WithContext(ctx).
		Table("leave_adjustment_requests AS a").
		Select("t.leave_type_id, SUM(a.new_days - a.original_days) AS total").
		Joins("JOIN leave_takens t ON t.leave_request_id = a.leave_request_id").
		Where("t.employee_id = ? AND t.fiscal_year_number = ?", employeeID, fiscalYearNumber).
		Where("a.status = ? AND a.is_cancellation = ?", "APPROVED", false).
		Group("t.leave_type_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return totalsByType(rows), nil
}

func (r *repository) AppliedTotals(ctx context.Context, employeeID string, windowStart, windowEnd time.Time) (map[string]float64, error) {
	// Requests carry no fiscal year column; they are bucketed by start
	// date against the window the caller resolved for the year.
	var rows []typeTotal
	err := r.db.WithContext(ctx).
		Table("leave_requests").
		Select("leave_type_id, SUM(counted_days) AS total").
		Where("employee_id = ? AND status = ?", employeeID, "SUBMITTED").
		Where("start_date >= ? AND start_date <= ?", windowStart, windowEnd).
		Group("leave_type_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return totalsByType(rows), nil
}

func totalsByType(rows []typeTotal) map[string]float64 {
	totals := make(map[string]float64, len(rows))
	for _, row := range rows {
		totals[row.LeaveTypeID] = row.Total
	}
	return totals
}

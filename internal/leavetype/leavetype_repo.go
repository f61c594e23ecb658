package leavetype

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

//go:generate mockgen -source=leavetype_repo.go -destination=mock/leavetype_repo_mock.go -package=mock
type Repository interface {
	FindByID(ctx context.Context, id string) (*LeaveType, error)
	FindByShortCode(ctx context.Context, code string) (*LeaveType, error)
	ListByShortCodes(ctx context.Context, codes []string) ([]LeaveType, error)

	// OffCovered resolves the off-covered flag for a type and employee
	// nature. found=false means no rule row matched; callers fall back
	// to the documented default (true).
	OffCovered(ctx context.Context, leaveTypeID, employeeNature string) (covered bool, found bool, err error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) FindByID(ctx context.Context, id string) (*LeaveType, error) {
	var t LeaveType
	err := r.db.WithContext(ctx).First(&t, "id = ?", id).Error
	return &t, err
}

func (r *repository) FindByShortCode(ctx context.Context, code string) (*LeaveType, error) {
	var t LeaveType
	err := r.db.WithContext(ctx).
		Where("short_code = ?", code).
		First(&t).Error
	return &t, err
}

func (r *repository) ListByShortCodes(ctx context.Context, codes []string) ([]LeaveType, error) {
	var types []LeaveType
	err := r.db.WithContext(ctx).
		Where("short_code IN ?", codes).
		Order("short_code ASC").
		Find(&types).Error
	return types, err
}

func (r *repository) OffCovered(ctx context.Context, leaveTypeID, employeeNature string) (bool, bool, error) {
	var rule OffCoverRule
	err := r.db.WithContext(ctx).
		Where("leave_type_id = ?", leaveTypeID).
		Where("employee_nature = ?", employeeNature).
		First(&rule).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, false, nil
		}
		return false, false, err
	}
	return rule.OffCovered, true, nil
}

package officer

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

// EmployeeRow is the slice of the employees table the resolver needs.
type EmployeeRow struct {
	ID                  string
	DepartmentID        *string
	ControllingOfficeID *string
	SuperiorID          *string
}

//go:generate mockgen -source=officer_repo.go -destination=mock/officer_repo_mock.go -package=mock
type Repository interface {
	Employee(ctx context.Context, employeeID string) (*EmployeeRow, error)
	DepartmentHead(ctx context.Context, departmentID string) (string, bool, error)
	OfficeOfficer(ctx context.Context, officeID string) (string, bool, error)

	// LastDistinctApprover returns the most recent approver of the
	// employee's own decided requests, excluding the employee.
	LastDistinctApprover(ctx context.Context, employeeID string) (string, bool, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Employee(ctx context.Context, employeeID string) (*EmployeeRow, error) {
	var row EmployeeRow
	err := r.db.WithContext(ctx).
		Table("employees").
		Select("id, department_id, controlling_office_id, superior_id").
		Where("id = ?", employeeID).
		Where("deleted_at IS NULL").
		Take(&row).Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *repository) DepartmentHead(ctx context.Context, departmentID string) (string, bool, error) {
	var headID *string
	err := r.db.WithContext(ctx).
		Table("departments").
		Select("head_id").
		Where("id = ?", departmentID).
		Take(&headID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", false, nil
		}
		return "", false, err
	}
	if headID == nil || *headID == "" {
		return "", false, nil
	}
	return *headID, true, nil
}

func (r *repository) OfficeOfficer(ctx context.Context, officeID string) (string, bool, error) {
	var officerID *string
	err := r.db.WithContext(ctx).
		Table("controlling_offices").
		Select("officer_id").
		Where("id = ?", officeID).
		Take(&officerID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", false, nil
		}
		return "", false, err
	}
	if officerID == nil || *officerID == "" {
		return "", false, nil
	}
	return *officerID, true, nil
}

func (r *repository) LastDistinctApprover(ctx context.Context, employeeID string) (string, bool, error) {
	var responderID string
	err := r.db.WithContext(ctx).
		Table("leave_requests").
		Select("responded_by").
		Where("employee_id = ?", employeeID).
		Where("responded_by IS NOT NULL").
		Where("responded_by <> ?", employeeID).
		Order("responded_at DESC").
		Limit(1).
		Take(&responderID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", false, nil
		}
		return "", false, err
	}
	if responderID == "" {
		return "", false, nil
	}
	return responderID, true, nil
}

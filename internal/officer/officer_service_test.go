package officer_test

import (
	"context"
	"errors"
	"testing"

	"leaveflow/internal/officer"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type fakeOfficerRepository struct {
	employeeFn             func(ctx context.Context, employeeID string) (*officer.EmployeeRow, error)
	departmentHeadFn       func(ctx context.Context, departmentID string) (string, bool, error)
	officeOfficerFn        func(ctx context.Context, officeID string) (string, bool, error)
	lastDistinctApproverFn func(ctx context.Context, employeeID string) (string, bool, error)
}

func (f *fakeOfficerRepository) Employee(ctx context.Context, employeeID string) (*officer.EmployeeRow, error) {
	if f.employeeFn != nil {
		return f.employeeFn(ctx, employeeID)
	}
	return &officer.EmployeeRow{ID: employeeID}, nil
}

func (f *fakeOfficerRepository) DepartmentHead(ctx context.Context, departmentID string) (string, bool, error) {
	if f.departmentHeadFn != nil {
		return f.departmentHeadFn(ctx, departmentID)
	}
	return "", false, nil
}

func (f *fakeOfficerRepository) OfficeOfficer(ctx context.Context, officeID string) (string, bool, error) {
	if f.officeOfficerFn != nil {
		return f.officeOfficerFn(ctx, officeID)
	}
	return "", false, nil
}

func (f *fakeOfficerRepository) LastDistinctApprover(ctx context.Context, employeeID string) (string, bool, error) {
	if f.lastDistinctApproverFn != nil {
		return f.lastDistinctApproverFn(ctx, employeeID)
	}
	return "", false, nil
}

func strPtr(s string) *string { return &s }

func TestOfficerService_GetReportingOfficer(t *testing.T) {
	ctx := context.Background()
	employeeID := uuid.New().String()
	departmentID := uuid.New().String()
	officeID := uuid.New().String()
	headID := uuid.New().String()
	officeOfficerID := uuid.New().String()
	superiorID := uuid.New().String()

	t.Run("department head wins", func(t *testing.T) {
		repo := &fakeOfficerRepository{
			employeeFn: func(ctx context.Context, id string) (*officer.EmployeeRow, error) {
				return &officer.EmployeeRow{
					ID:           id,
					DepartmentID: strPtr(departmentID),
					SuperiorID:   strPtr(superiorID),
				}, nil
			},
			departmentHeadFn: func(ctx context.Context, id string) (string, bool, error) {
				assert.Equal(t, departmentID, id)
				return headID, true, nil
			},
		}
		svc := officer.NewService(repo)

		got, err := svc.GetReportingOfficer(ctx, employeeID)

		assert.NoError(t, err)
		assert.Equal(t, headID, got)
	})

	t.Run("head being the employee falls through to office officer", func(t *testing.T) {
		repo := &fakeOfficerRepository{
			employeeFn: func(ctx context.Context, id string) (*officer.EmployeeRow, error) {
				return &officer.EmployeeRow{
					ID:                  id,
					DepartmentID:        strPtr(departmentID),
					ControllingOfficeID: strPtr(officeID),
				}, nil
			},
			departmentHeadFn: func(ctx context.Context, id string) (string, bool, error) {
				return employeeID, true, nil
			},
			officeOfficerFn: func(ctx context.Context, id string) (string, bool, error) {
				assert.Equal(t, officeID, id)
				return officeOfficerID, true, nil
			},
		}
		svc := officer.NewService(repo)

		got, err := svc.GetReportingOfficer(ctx, employeeID)

		assert.NoError(t, err)
		assert.Equal(t, officeOfficerID, got)
	})

	t.Run("superior used when no head or office officer", func(t *testing.T) {
		repo := &fakeOfficerRepository{
			employeeFn: func(ctx context.Context, id string) (*officer.EmployeeRow, error) {
				return &officer.EmployeeRow{ID: id, SuperiorID: strPtr(superiorID)}, nil
			},
		}
		svc := officer.NewService(repo)

		got, err := svc.GetReportingOfficer(ctx, employeeID)

		assert.NoError(t, err)
		assert.Equal(t, superiorID, got)
	})

	t.Run("history approver is the last resort", func(t *testing.T) {
		approverID := uuid.New().String()
		repo := &fakeOfficerRepository{
			lastDistinctApproverFn: func(ctx context.Context, id string) (string, bool, error) {
				assert.Equal(t, employeeID, id)
				return approverID, true, nil
			},
		}
		svc := officer.NewService(repo)

		got, err := svc.GetReportingOfficer(ctx, employeeID)

		assert.NoError(t, err)
		assert.Equal(t, approverID, got)
	})

	t.Run("exhausted chain yields empty, not error", func(t *testing.T) {
		svc := officer.NewService(&fakeOfficerRepository{})

		got, err := svc.GetReportingOfficer(ctx, employeeID)

		assert.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("repo error propagates", func(t *testing.T) {
		repo := &fakeOfficerRepository{
			employeeFn: func(ctx context.Context, id string) (*officer.EmployeeRow, error) {
				return nil, errors.New("db error")
			},
		}
		svc := officer.NewService(repo)

		_, err := svc.GetReportingOfficer(ctx, employeeID)

		assert.Error(t, err)
	})
}

package officer

import (
	"context"

	"go.uber.org/zap"
)

//go:generate mockgen -source=officer_service.go -destination=mock/officer_service_mock.go -package=mock
type Service interface {
	// GetReportingOfficer resolves the approver for an employee.
	// An empty result means the chain is exhausted and the employee
	// cannot submit requests until configuration is fixed.
	GetReportingOfficer(ctx context.Context, employeeID string) (string, error)
}

type service struct {
	repo   Repository
	logger *zap.Logger
}

func NewService(repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("officer.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("officer.service")
	}
	return &service{repo: repo, logger: l}
}

// Resolution priority: department head, controlling-office officer,
// configured superior, then the most recent distinct approver from the
// employee's own history. A branch whose officer is the employee
// themself is skipped, not an error.
func (s *service) GetReportingOfficer(ctx context.Context, employeeID string) (string, error) {
	emp, err := s.repo.Employee(ctx, employeeID)
	if err != nil {
		return "", err
	}

	if emp.DepartmentID != nil && *emp.DepartmentID != "" {
		head, found, err := s.repo.DepartmentHead(ctx, *emp.DepartmentID)
		if err != nil {
			return "", err
		}
		if found && head != employeeID {
			return head, nil
		}
	}

	if emp.ControllingOfficeID != nil && *emp.ControllingOfficeID != "" {
		officerID, found, err := s.repo.OfficeOfficer(ctx, *emp.ControllingOfficeID)
		if err != nil {
			return "", err
		}
		if found && officerID != employeeID {
			return officerID, nil
		}
	}

	if emp.SuperiorID != nil && *emp.SuperiorID != "" {
		return *emp.SuperiorID, nil
	}

	approver, found, err := s.repo.LastDistinctApprover(ctx, employeeID)
	if err != nil {
		return "", err
	}
	if found {
		return approver, nil
	}

	s.logger.Warn("reporting officer chain exhausted", zap.String("employee_id", employeeID))
	return "", nil
}

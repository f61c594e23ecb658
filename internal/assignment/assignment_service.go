package assignment

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"strconv"
	"strings"

	assignmenterrors "leaveflow/internal/assignment/errors"
	"leaveflow/internal/fiscal"
	"leaveflow/internal/leavetype"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

// BalanceInvalidator is implemented by the ledger service; grants feed
// the Total column, so every save drops the employee's cached balance.
type BalanceInvalidator interface {
	Invalidate(ctx context.Context, employeeID string) error
}

//go:generate mockgen -source=assignment_service.go -destination=mock/assignment_service_mock.go -package=mock
type Service interface {
	// Save upserts the employee's grants for the fiscal year (the
	// active one when FiscalYearNumber is zero) in one transaction.
	Save(ctx context.Context, actorID string, req SaveAssignmentsRequest) ([]AssignmentResponse, error)
	GetAllByEmployee(ctx context.Context, employeeID string, fiscalYearNumber int) ([]AssignmentResponse, error)

	// ImportXLSX bulk-loads grants from a spreadsheet with columns
	// employee_id, short_code, days and an optional fiscal_year. Bad
	// rows are reported, not fatal.
	ImportXLSX(ctx context.Context, actorID string, r io.Reader) (ImportResult, error)
}

type service struct {
	db       *sql.DB
	repo     Repository
	types    leavetype.Repository
	fiscals  fiscal.Service
	balances BalanceInvalidator
	logger   *zap.Logger
}

func NewService(
	db *sql.DB,
	repo Repository,
	types leavetype.Repository,
	fiscals fiscal.Service,
	balances BalanceInvalidator,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("assignment.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("assignment.service")
	}
	return &service{
		db:       db,
		repo:     repo,
		types:    types,
		fiscals:  fiscals,
		balances: balances,
		logger:   l,
	}
}

func (s *service) Save(ctx context.Context, actorID string, req SaveAssignmentsRequest) ([]AssignmentResponse, error) {
	actorUUID, err := uuid.Parse(actorID)
	if err != nil {
		return nil, assignmenterrors.ErrInvalidActorID
	}
	typeUUID, err := uuid.Parse(req.LeaveTypeID)
	if err != nil {
		return nil, assignmenterrors.ErrInvalidLeaveTypeID
	}

	yearNumber, err := s.resolveYear(ctx, req.FiscalYearNumber)
	if err != nil {
		return nil, err
	}

	assignments := make([]LeaveAssignment, 0, len(req.EmployeeIDs))
	for _, employeeID := range req.EmployeeIDs {
		employeeUUID, err := uuid.Parse(employeeID)
		if err != nil {
			return nil, assignmenterrors.ErrInvalidEmployeeID
		}
		assignments = append(assignments, LeaveAssignment{
			ID:               uuid.New(),
			EmployeeID:       employeeUUID,
			LeaveTypeID:      typeUUID,
			FiscalYearNumber: yearNumber,
			Days:             req.Days,
			AssignedBy:       actorUUID,
		})
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	for i := range assignments {
		if err := qtx.Upsert(ctx, &assignments[i]); err != nil {
			s.logger.Error("save assignment persist failed",
				zap.String("employee_id", assignments[i].EmployeeID.String()),
				zap.Error(err),
			)
			return nil, err
		}
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}

	for _, employeeID := range req.EmployeeIDs {
		s.invalidateBalance(ctx, employeeID)
	}
	s.logger.Info("save assignments success",
		zap.String("leave_type_id", req.LeaveTypeID),
		zap.Int("fiscal_year", yearNumber),
		zap.Int("employees", len(assignments)),
	)

	return mapToListResponse(assignments), nil
}

func (s *service) GetAllByEmployee(ctx context.Context, employeeID string, fiscalYearNumber int) ([]AssignmentResponse, error) {
	yearNumber, err := s.resolveYear(ctx, fiscalYearNumber)
	if err != nil {
		return nil, err
	}

	assignments, err := s.repo.FindAllByEmployee(ctx, employeeID, yearNumber)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(assignments), nil
}

func (s *service) ImportXLSX(ctx context.Context, actorID string, r io.Reader) (ImportResult, error) {
	actorUUID, err := uuid.Parse(actorID)
	if err != nil {
		return ImportResult{}, assignmenterrors.ErrInvalidActorID
	}

	f, err := excelize.OpenReader(r)
	if err != nil {
		return ImportResult{}, assignmenterrors.ErrEmptySheet
	}
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		return ImportResult{}, err
	}
	if len(rows) < 2 {
		return ImportResult{}, assignmenterrors.ErrEmptySheet
	}

	typesByCode, err := s.typesByShortCode(ctx)
	if err != nil {
		return ImportResult{}, err
	}
	activeYear, err := s.resolveYear(ctx, 0)
	if err != nil {
		return ImportResult{}, err
	}

	var result ImportResult
	var assignments []LeaveAssignment
	employees := map[string]struct{}{}

	// Row 1 is the header.
	for i, row := range rows[1:] {
		rowNum := i + 2

		a, err := parseImportRow(row, typesByCode, activeYear)
		if err != nil {
			result.Skipped++
			result.Errors = append(result.Errors, ImportRowError{Row: rowNum, Message: err.Error()})
			continue
		}
		a.AssignedBy = actorUUID
		assignments = append(assignments, a)
		employees[a.EmployeeID.String()] = struct{}{}
	}

	if len(assignments) > 0 {
		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return ImportResult{}, err
		}
		defer tx.Rollback()

		qtx := s.repo.WithTx(tx)
		for i := range assignments {
			if err := qtx.Upsert(ctx, &assignments[i]); err != nil {
				return ImportResult{}, err
			}
		}
		if err := tx.Commit(); err != nil {
			return ImportResult{}, err
		}
	}

	result.Imported = len(assignments)
	for employeeID := range employees {
		s.invalidateBalance(ctx, employeeID)
	}

	s.logger.Info("import assignments finished",
		zap.Int("imported", result.Imported),
		zap.Int("skipped", result.Skipped),
	)
	return result, nil
}

func parseImportRow(row []string, typesByCode map[string]uuid.UUID, activeYear int) (LeaveAssignment, error) {
	if len(row) < 3 {
		return LeaveAssignment{}, fmt.Errorf("expected at least 3 columns, got %d", len(row))
	}

	employeeUUID, err := uuid.Parse(strings.TrimSpace(row[0]))
	if err != nil {
		return LeaveAssignment{}, fmt.Errorf("invalid employee id %q", row[0])
	}

	code := strings.ToUpper(strings.TrimSpace(row[1]))
	typeUUID, ok := typesByCode[code]
	if !ok {
		return LeaveAssignment{}, fmt.Errorf("unknown leave type short code %q", row[1])
	}

	days, err := strconv.ParseFloat(strings.TrimSpace(row[2]), 64)
	if err != nil || days < 0 {
		return LeaveAssignment{}, fmt.Errorf("invalid days %q", row[2])
	}

	yearNumber := activeYear
	if len(row) > 3 && strings.TrimSpace(row[3]) != "" {
		yearNumber, err = strconv.Atoi(strings.TrimSpace(row[3]))
		if err != nil {
			return LeaveAssignment{}, fmt.Errorf("invalid fiscal year %q", row[3])
		}
	}

	return LeaveAssignment{
		ID:               uuid.New(),
		EmployeeID:       employeeUUID,
		LeaveTypeID:      typeUUID,
		FiscalYearNumber: yearNumber,
		Days:             days,
	}, nil
}

func (s *service) typesByShortCode(ctx context.Context) (map[string]uuid.UUID, error) {
	types, err := s.types.ListByShortCodes(ctx, leavetype.PermittedShortCodes)
	if err != nil {
		return nil, err
	}
	byCode := make(map[string]uuid.UUID, len(types))
	for _, lt := range types {
		byCode[lt.ShortCode] = lt.ID
	}
	return byCode, nil
}

func (s *service) resolveYear(ctx context.Context, requested int) (int, error) {
	if requested != 0 {
		return requested, nil
	}
	fy, err := s.fiscals.Active(ctx)
	if err != nil {
		return 0, err
	}
	return fy.Number, nil
}

func (s *service) invalidateBalance(ctx context.Context, employeeID string) {
	if s.balances == nil {
		return
	}
	if err := s.balances.Invalidate(ctx, employeeID); err != nil {
		s.logger.Warn("balance cache invalidation failed",
			zap.String("employee_id", employeeID),
			zap.Error(err),
		)
	}
}

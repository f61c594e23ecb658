package requesterrors

import (
	"net/http"

	"leaveflow/internal/shared/apperror"
)

var (
	ErrInvalidActorID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid actor id",
		http.StatusBadRequest,
	)
	ErrInvalidEmployeeID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid employee id",
		http.StatusBadRequest,
	)
	ErrInvalidLeaveTypeID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid leave type id",
		http.StatusBadRequest,
	)
	ErrInvalidDateFormat = apperror.New(
		apperror.CodeInvalidInput,
		"invalid date format, expected YYYY-MM-DD",
		http.StatusBadRequest,
	)
	ErrRequestNotFound = apperror.New(
		apperror.CodeNotFound,
		"leave request not found",
		http.StatusNotFound,
	)
	ErrNoCountableDays = apperror.New(
		apperror.CodeInvalidInput,
		"no countable days in the requested range",
		http.StatusBadRequest,
	)
	ErrNoReportingOfficer = apperror.New(
		apperror.CodeInvalidState,
		"no reporting officer could be resolved for this employee",
		http.StatusUnprocessableEntity,
	)
	ErrGenderRestricted = apperror.New(
		apperror.CodeInvalidInput,
		"this leave type is not applicable to the employee",
		http.StatusBadRequest,
	)
)

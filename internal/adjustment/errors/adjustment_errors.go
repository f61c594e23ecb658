package adjustmenterrors

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
	ErrInvalidRequestID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid leave request id",
		http.StatusBadRequest,
	)
	ErrInvalidDateFormat = apperror.New(
		apperror.CodeInvalidInput,
		"invalid date format, expected YYYY-MM-DD",
		http.StatusBadRequest,
	)
	ErrAdjustmentNotFound = apperror.New(
		apperror.CodeNotFound,
		"adjustment request not found",
		http.StatusNotFound,
	)
	ErrNoCountableDays = apperror.New(
		apperror.CodeInvalidInput,
		"no countable days in the adjusted range",
		http.StatusBadRequest,
	)
	ErrNoReportingOfficer = apperror.New(
		apperror.CodeInvalidState,
		"no reporting officer could be resolved for this employee",
		http.StatusUnprocessableEntity,
	)
)

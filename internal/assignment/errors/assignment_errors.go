package assignmenterrors

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
	ErrUnknownShortCode = apperror.New(
		apperror.CodeInvalidInput,
		"unknown leave type short code",
		http.StatusBadRequest,
	)
	ErrEmptySheet = apperror.New(
		apperror.CodeInvalidInput,
		"spreadsheet has no data rows",
		http.StatusBadRequest,
	)
)

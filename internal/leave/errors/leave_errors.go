package leaveerrors

import (
	"net/http"

	"go-ojt/internal/shared/apperror"
)

var (
	ErrLeaveNotFound = apperror.New(
		apperror.CodeNotFound,
		"leave request not found",
		http.StatusNotFound,
	)
	ErrInvalidDateRange = apperror.New(
		apperror.CodeInvalidInput,
		"end date must not be before start date",
		http.StatusBadRequest,
	)
	ErrInvalidDateFormat = apperror.New(
		apperror.CodeInvalidInput,
		"dates must use YYYY-MM-DD",
		http.StatusBadRequest,
	)
	ErrInvalidCoverage = apperror.New(
		apperror.CodeInvalidInput,
		"coverage must be FULL_DAY or HALF_DAY",
		http.StatusBadRequest,
	)
	ErrOverlappingLeave = apperror.New(
		apperror.CodeConflict,
		"an open leave request already covers part of this range",
		http.StatusConflict,
	)
	ErrAlreadyDecided = apperror.New(
		apperror.CodeInvalidState,
		"leave request has already been decided",
		http.StatusConflict,
	)
	ErrInvalidDecision = apperror.New(
		apperror.CodeInvalidInput,
		"decision must be APPROVED or REJECTED",
		http.StatusBadRequest,
	)
	ErrNotOwner = apperror.New(
		apperror.CodeForbidden,
		"you can only manage your own leave requests",
		http.StatusForbidden,
	)
	ErrInvalidLeaveID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid leave id",
		http.StatusBadRequest,
	)
	ErrInvalidUserID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid user id",
		http.StatusBadRequest,
	)
)

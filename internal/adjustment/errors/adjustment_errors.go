package adjustmenterrors

import (
	"net/http"

	"go-ojt/internal/shared/apperror"
)

var (
	ErrAdjustmentNotFound = apperror.New(
		apperror.CodeNotFound,
		"time adjustment not found",
		http.StatusNotFound,
	)
	ErrAlreadyDecided = apperror.New(
		apperror.CodeInvalidState,
		"time adjustment has already been decided",
		http.StatusConflict,
	)
	ErrNotOwner = apperror.New(
		apperror.CodeForbidden,
		"you can only adjust your own attendance",
		http.StatusForbidden,
	)
	ErrNoFields = apperror.New(
		apperror.CodeInvalidInput,
		"at least one punch field is required",
		http.StatusBadRequest,
	)
	ErrInvalidDecision = apperror.New(
		apperror.CodeInvalidInput,
		"decision must be APPROVED or REJECTED",
		http.StatusBadRequest,
	)
	ErrInvalidAdjustmentID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid adjustment id",
		http.StatusBadRequest,
	)
	ErrInvalidUserID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid user id",
		http.StatusBadRequest,
	)
)

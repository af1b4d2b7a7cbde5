package usererrors

import (
	"net/http"

	"go-ojt/internal/shared/apperror"
)

var (
	ErrUserNotFound = apperror.New(
		apperror.CodeNotFound,
		"user not found",
		http.StatusNotFound,
	)
	ErrAdminNotFound = apperror.New(
		apperror.CodeNotFound,
		"admin not found",
		http.StatusNotFound,
	)
	ErrNotIntern = apperror.New(
		apperror.CodeInvalidInput,
		"not an intern user",
		http.StatusBadRequest,
	)
	ErrInvalidOJTHours = apperror.New(
		apperror.CodeInvalidInput,
		"total OJT hours must be a positive integer",
		http.StatusBadRequest,
	)
	ErrInvalidRole = apperror.New(
		apperror.CodeInvalidInput,
		"role must be ADMIN or USER",
		http.StatusBadRequest,
	)
	ErrSelfTarget = apperror.New(
		apperror.CodeInvalidInput,
		"cannot perform this action on your own account",
		http.StatusBadRequest,
	)
	ErrPromoteResigned = apperror.New(
		apperror.CodeInvalidState,
		"cannot promote a resigned admin",
		http.StatusBadRequest,
	)
	ErrInvalidUserID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid user id",
		http.StatusBadRequest,
	)
)

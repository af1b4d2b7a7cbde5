package scheduleerrors

import (
	"net/http"

	"go-ojt/internal/shared/apperror"
)

var (
	ErrInvalidTimeFormat = apperror.New(
		apperror.CodeInvalidInput,
		"time must be in HH:MM format",
		http.StatusBadRequest,
	)
	ErrInvalidDateFormat = apperror.New(
		apperror.CodeInvalidInput,
		"invalid date format, expected YYYY-MM-DD",
		http.StatusBadRequest,
	)
	ErrEndBeforeStart = apperror.New(
		apperror.CodeInvalidInput,
		"end_time must be after start_time",
		http.StatusBadRequest,
	)
	ErrNoValidUsers = apperror.New(
		apperror.CodeInvalidInput,
		"no valid users selected",
		http.StatusBadRequest,
	)
)

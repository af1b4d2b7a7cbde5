package attendanceerrors

import (
	"net/http"

	"go-ojt/internal/shared/apperror"
)

// Each rejected transition gets its own code so the client can say exactly
// why a punch was refused.
var (
	ErrAdminNoAttendance = apperror.New(
		apperror.CodeForbidden,
		"admins cannot have attendance records",
		http.StatusForbidden,
	)
	ErrOnLeave = apperror.New(
		"ON_LEAVE",
		"you are currently on leave",
		http.StatusBadRequest,
	)
	ErrNoSchedule = apperror.New(
		"NO_SCHEDULE",
		"no schedule for today",
		http.StatusBadRequest,
	)
	ErrAlreadyTimedIn = apperror.New(
		"ALREADY_TIMED_IN",
		"already timed in today",
		http.StatusBadRequest,
	)
	ErrNotTimedIn = apperror.New(
		"NOT_TIMED_IN",
		"you need to time in first",
		http.StatusBadRequest,
	)
	ErrAlreadyOut = apperror.New(
		"ALREADY_OUT",
		"already out for lunch",
		http.StatusBadRequest,
	)
	ErrNotOutForLunch = apperror.New(
		"NOT_OUT_FOR_LUNCH",
		"you are not out for lunch",
		http.StatusBadRequest,
	)
	ErrAlreadyBack = apperror.New(
		"ALREADY_BACK",
		"already back from lunch",
		http.StatusBadRequest,
	)
	ErrAlreadyTimedOut = apperror.New(
		"ALREADY_TIMED_OUT",
		"already timed out today",
		http.StatusBadRequest,
	)
	ErrLunchNotClosed = apperror.New(
		"LUNCH_NOT_CLOSED",
		"return from lunch first",
		http.StatusBadRequest,
	)
	ErrAttendanceNotFound = apperror.New(
		apperror.CodeNotFound,
		"attendance not found",
		http.StatusNotFound,
	)
	ErrInvalidPunchOrder = apperror.New(
		apperror.CodeInvalidState,
		"punch times are out of order",
		http.StatusBadRequest,
	)
	ErrInvalidStatus = apperror.New(
		apperror.CodeInvalidInput,
		"invalid attendance status",
		http.StatusBadRequest,
	)
	ErrInvalidUserID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid user id",
		http.StatusBadRequest,
	)
)

package attendance

// PunchState is the day's punch sequence made explicit. The row stores it
// implicitly as which nullable timestamps are set; deriving the variant in
// one place keeps transition guards from degenerating into scattered nil
// checks.
type PunchState int

const (
	StateNotStarted PunchState = iota
	StateTimedIn
	StateOnLunch
	StateBackFromLunch
	StateTimedOut
)

func (s PunchState) String() string {
	switch s {
	case StateNotStarted:
		return "NOT_STARTED"
	case StateTimedIn:
		return "TIMED_IN"
	case StateOnLunch:
		return "OUT_FOR_LUNCH"
	case StateBackFromLunch:
		return "BACK_FROM_LUNCH"
	case StateTimedOut:
		return "TIMED_OUT"
	default:
		return "UNKNOWN"
	}
}

// StateOf derives the punch state from the nullable punch fields.
// TimedOut is terminal and wins over everything else.
func StateOf(a *Attendance) PunchState {
	switch {
	case a == nil || a.TimeIn == nil:
		return StateNotStarted
	case a.TimeOut != nil:
		return StateTimedOut
	case a.LunchOut != nil && a.LunchIn == nil:
		return StateOnLunch
	case a.LunchIn != nil:
		return StateBackFromLunch
	default:
		return StateTimedIn
	}
}

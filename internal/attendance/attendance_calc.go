package attendance

import "time"

const (
	maxLunchMinutes = 60
	maxBreakMinutes = 15
)

// StatusSource says where the final status comes from. An admin-supplied
// status is authoritative and suppresses the computed TARDY; otherwise the
// status is derived bottom-up from the tardiness signals.
type StatusSource struct {
	override bool
	status   string
}

func Computed() StatusSource {
	return StatusSource{}
}

func AdminOverride(status string) StatusSource {
	return StatusSource{override: true, status: status}
}

type Derived struct {
	Status                string
	TardinessMinutes      int
	LunchTardinessMinutes int
	BreakTardinessMinutes int
}

// DeriveStatus computes tardiness figures from punch times against the
// scheduled start. Pure: callers pass instants, nothing reads the clock.
func DeriveStatus(
	timeIn *time.Time,
	schedStart time.Time,
	lunchOut, lunchIn *time.Time,
	breakOut, breakIn *time.Time,
	src StatusSource,
) Derived {
	d := Derived{Status: StatusPresent}
	if src.override && src.status != "" {
		d.Status = src.status
	}

	if timeIn != nil {
		if late := wholeMinutes(timeIn.Sub(schedStart)); late > 0 {
			d.TardinessMinutes = late
			if !src.override {
				d.Status = StatusTardy
			}
		}
	}

	if lunchOut != nil && lunchIn != nil {
		if over := wholeMinutes(lunchIn.Sub(*lunchOut)) - maxLunchMinutes; over > 0 {
			d.LunchTardinessMinutes = over
			if !src.override {
				d.Status = StatusTardy
			}
		}
	}

	if breakOut != nil && breakIn != nil {
		if over := wholeMinutes(breakIn.Sub(*breakOut)) - maxBreakMinutes; over > 0 {
			d.BreakTardinessMinutes = over
			if !src.override {
				d.Status = StatusTardy
			}
		}
	}

	return d
}

// LunchOverage returns minutes a lunch ran past the allowance, floored at 0.
func LunchOverage(lunchOut, lunchIn time.Time) int {
	over := wholeMinutes(lunchIn.Sub(lunchOut)) - maxLunchMinutes
	if over < 0 {
		return 0
	}
	return over
}

func wholeMinutes(d time.Duration) int {
	return int(d / time.Minute)
}

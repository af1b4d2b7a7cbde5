package clock

import "time"

// Org is the organization's fixed timezone. Every schedule window and
// punch date is interpreted in this zone, never in server-local time.
var Org = time.FixedZone("UTC+8", 8*60*60)

type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

func New() Clock { return realClock{} }

// Fixed returns a Clock pinned to t, for deterministic tests.
func Fixed(t time.Time) Clock { return fixedClock{t: t} }

type fixedClock struct{ t time.Time }

func (f fixedClock) Now() time.Time { return f.t }

// StartOfDay truncates t to midnight in the org timezone.
func StartOfDay(t time.Time) time.Time {
	local := t.In(Org)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, Org)
}

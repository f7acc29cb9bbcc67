// utils/dates.go — Monday session date calculations
package utils

import "time"

// Club night ends Monday 22:30 local time.
const (
	clubEndHour   = 22
	clubEndMinute = 30
)

// ResolveSessionDate maps a moment to the Monday session it belongs to,
// truncated to start-of-day.
//
// On a Monday before 22:30 the session is that same day. On a Monday at or
// after 22:30 the night is over, so the session rolls to the Monday 7 days
// ahead. Any other day resolves to the upcoming Monday via (8 - weekday) % 7.
// Weekday numbering is 0=Sunday..6=Saturday; the modulo arithmetic must stay
// exactly as written or the grid silently shows the wrong week.
func ResolveSessionDate(now time.Time) time.Time {
	dayOfWeek := int(now.Weekday())

	if dayOfWeek == 1 {
		if beforeClubEnd(now) {
			return startOfDay(now)
		}
		return startOfDay(now.AddDate(0, 0, 7))
	}

	daysUntilMonday := (8 - dayOfWeek) % 7
	return startOfDay(now.AddDate(0, 0, daysUntilMonday))
}

// IsFrozen reports whether bookings for the current session are frozen:
// true only on a Monday at or after 22:30. Admin operations are not subject
// to the freeze.
func IsFrozen(now time.Time) bool {
	if now.Weekday() != time.Monday {
		return false
	}
	return !beforeClubEnd(now)
}

func beforeClubEnd(t time.Time) bool {
	return t.Hour() < clubEndHour || (t.Hour() == clubEndHour && t.Minute() < clubEndMinute)
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

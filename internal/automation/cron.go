// internal/automation/cron.go
package automation

import "time"

// Wildcard is the canonical "any" value of a Cron field. Any value <= 0
// behaves the same, so a field can never pin minute 0, hour 0 or day 0.
const Wildcard int8 = -1

// Cron is a five-field time pattern. A strictly positive field must equal
// the corresponding calendar component; zero or negative matches anything.
type Cron struct {
	Minute  int8 // 0-59
	Hour    int8 // 0-23
	Day     int8 // day of month, 1-31
	Month   int8 // 1-12
	Weekday int8 // 1-7, 1 = Sunday
}

// Calendar is the broken-down time a Cron is matched against.
type Calendar struct {
	Minute  int
	Hour    int
	Day     int
	Month   int
	Weekday int // 1-7, 1 = Sunday
}

// CalendarOf breaks t down in its own location.
func CalendarOf(t time.Time) Calendar {
	return Calendar{
		Minute:  t.Minute(),
		Hour:    t.Hour(),
		Day:     t.Day(),
		Month:   int(t.Month()),
		Weekday: int(t.Weekday()) + 1,
	}
}

// Matches reports whether all five fields accept c.
func (cd Cron) Matches(c Calendar) bool {
	return fieldMatches(cd.Minute, c.Minute) &&
		fieldMatches(cd.Hour, c.Hour) &&
		fieldMatches(cd.Day, c.Day) &&
		fieldMatches(cd.Month, c.Month) &&
		fieldMatches(cd.Weekday, c.Weekday)
}

func fieldMatches(field int8, v int) bool {
	return field <= 0 || int(field) == v
}

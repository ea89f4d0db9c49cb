// internal/automation/cron_test.go
package automation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestWildcardCronMatchesEveryMinute(t *testing.T) {
	all := []Cron{
		{Minute: -1, Hour: -1, Day: -1, Month: -1, Weekday: -1},
		{},
		{Minute: -128, Hour: 0, Day: -5, Month: 0, Weekday: -1},
	}
	start := time.Date(2024, time.February, 28, 22, 0, 0, 0, time.UTC)
	for m := 0; m < 4*24*60; m += 7 {
		cal := CalendarOf(start.Add(time.Duration(m) * time.Minute))
		for _, cd := range all {
			require.True(t, cd.Matches(cal), "cron %+v at %+v", cd, cal)
		}
	}
}

func TestMinuteOnlyCron(t *testing.T) {
	cd := Cron{Minute: 30, Hour: Wildcard, Day: Wildcard, Month: Wildcard, Weekday: Wildcard}
	start := time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC)
	for m := 0; m < 3*60; m++ {
		now := start.Add(time.Duration(m) * time.Minute)
		require.Equal(t, now.Minute() == 30, cd.Matches(CalendarOf(now)), "at %s", now)
	}
}

func TestZeroFieldIsWildcard(t *testing.T) {
	midnight := CalendarOf(time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC))
	noon := CalendarOf(time.Date(2024, time.June, 1, 12, 5, 0, 0, time.UTC))

	cd := Cron{Hour: 0, Minute: 0}
	require.True(t, cd.Matches(midnight))
	require.True(t, cd.Matches(noon))
}

func TestAllFieldsAreAnded(t *testing.T) {
	// Monday 2024-06-03 08:30
	now := time.Date(2024, time.June, 3, 8, 30, 0, 0, time.UTC)
	cal := CalendarOf(now)
	require.Equal(t, 2, cal.Weekday)

	require.True(t, Cron{Minute: 30, Hour: 8, Day: 3, Month: 6, Weekday: 2}.Matches(cal))
	require.False(t, Cron{Minute: 30, Hour: 8, Day: 3, Month: 6, Weekday: 3}.Matches(cal))
	require.False(t, Cron{Minute: 30, Hour: 9}.Matches(cal))
	require.False(t, Cron{Month: 7}.Matches(cal))
}

func TestCalendarOfSundayIsOne(t *testing.T) {
	sunday := time.Date(2024, time.June, 2, 10, 0, 0, 0, time.UTC)
	saturday := sunday.AddDate(0, 0, 6)
	require.Equal(t, 1, CalendarOf(sunday).Weekday)
	require.Equal(t, 7, CalendarOf(saturday).Weekday)
}

// internal/automation/expr_test.go
package automation

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseCron(t *testing.T) {
	cases := []struct {
		expr string
		want Cron
	}{
		{"30 8 * * *", Cron{Minute: 30, Hour: 8, Day: Wildcard, Month: Wildcard, Weekday: Wildcard}},
		{"* * * * *", Cron{Minute: Wildcard, Hour: Wildcard, Day: Wildcard, Month: Wildcard, Weekday: Wildcard}},
		{"15 18 1 12 ?", Cron{Minute: 15, Hour: 18, Day: 1, Month: 12, Weekday: Wildcard}},
		{"5 * * * 0", Cron{Minute: 5, Hour: Wildcard, Day: Wildcard, Month: Wildcard, Weekday: 1}},
		{"5 * * * SAT", Cron{Minute: 5, Hour: Wildcard, Day: Wildcard, Month: Wildcard, Weekday: 7}},
	}
	for _, tc := range cases {
		t.Run(tc.expr, func(t *testing.T) {
			got, err := ParseCron(tc.expr)
			require.NoError(t, err)
			require.Equal(t, tc.want, got)
		})
	}
}

func TestParseCronRejects(t *testing.T) {
	for _, expr := range []string{
		"",
		"not a cron",
		"0 8 * * *",   // minute 0 would be a wildcard
		"30 0 * * *",  // hour 0 would be a wildcard
		"*/5 * * * *", // steps
		"1,2 * * * *", // lists
		"30 8 * * 1-5",
		"@every 1m",
	} {
		t.Run(expr, func(t *testing.T) {
			_, err := ParseCron(expr)
			require.Error(t, err)
		})
	}
}

func TestFormatCron(t *testing.T) {
	require.Equal(t, "30 8 * * *", FormatCron(Cron{Minute: 30, Hour: 8, Day: -1, Month: 0, Weekday: -1}))
	require.Equal(t, "* * 1 12 0", FormatCron(Cron{Day: 1, Month: 12, Weekday: 1}))

	cd, err := ParseCron(FormatCron(Cron{Minute: 45, Hour: 6, Weekday: 3}))
	require.NoError(t, err)
	require.Equal(t, Cron{Minute: 45, Hour: 6, Day: Wildcard, Month: Wildcard, Weekday: 3}, cd)
}

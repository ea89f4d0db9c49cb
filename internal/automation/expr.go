// internal/automation/expr.go
package automation

import (
	"errors"
	"fmt"
	"math/bits"
	"strconv"
	"strings"

	robfigcron "github.com/robfig/cron/v3"
)

// starBit is set by the cron parser when a field was given as * or ?.
const starBit = 1 << 63

// ParseCron converts a standard five-field expression ("30 8 * * *") into a
// Cron. Only * and single values are accepted; day of week uses the usual
// 0-6 (Sunday = 0) numbering. Minute or hour 0 is rejected because a zero
// field is a wildcard.
func ParseCron(expr string) (Cron, error) {
	sched, err := robfigcron.ParseStandard(expr)
	if err != nil {
		return Cron{}, fmt.Errorf("automation: parse cron %q: %w", expr, err)
	}
	spec, ok := sched.(*robfigcron.SpecSchedule)
	if !ok {
		return Cron{}, fmt.Errorf("automation: cron %q: interval schedules are not supported", expr)
	}

	var cd Cron
	fields := []struct {
		name   string
		bits   uint64
		lo, hi uint
		dst    *int8
		shift  int
	}{
		{"minute", spec.Minute, 0, 59, &cd.Minute, 0},
		{"hour", spec.Hour, 0, 23, &cd.Hour, 0},
		{"day of month", spec.Dom, 1, 31, &cd.Day, 0},
		{"month", spec.Month, 1, 12, &cd.Month, 0},
		{"day of week", spec.Dow, 0, 6, &cd.Weekday, 1},
	}
	for _, f := range fields {
		v, err := singleValue(f.bits, f.lo, f.hi)
		if err != nil {
			return Cron{}, fmt.Errorf("automation: cron %q: %s: %w", expr, f.name, err)
		}
		if v < 0 {
			*f.dst = Wildcard
			continue
		}
		v += f.shift
		if v == 0 {
			return Cron{}, fmt.Errorf("automation: cron %q: %s 0 cannot be matched exactly, use *", expr, f.name)
		}
		*f.dst = int8(v)
	}
	return cd, nil
}

// singleValue returns -1 for a full range, the value for a single bit, and
// an error otherwise.
func singleValue(set uint64, lo, hi uint) (int, error) {
	set &^= starBit

	var full uint64
	for i := lo; i <= hi; i++ {
		full |= 1 << i
	}
	switch {
	case set == full:
		return -1, nil
	case bits.OnesCount64(set) == 1:
		return bits.TrailingZeros64(set), nil
	default:
		return 0, errors.New("only * or a single value is supported")
	}
}

// FormatCron renders cd as a five-field expression, the inverse of ParseCron.
func FormatCron(cd Cron) string {
	field := func(v int8, shift int) string {
		if v <= 0 {
			return "*"
		}
		return strconv.Itoa(int(v) - shift)
	}
	return strings.Join([]string{
		field(cd.Minute, 0),
		field(cd.Hour, 0),
		field(cd.Day, 0),
		field(cd.Month, 0),
		field(cd.Weekday, 1),
	}, " ")
}

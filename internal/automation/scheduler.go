// internal/automation/scheduler.go
package automation

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Device is the part of the power supply driver the scheduler dispatches to.
type Device interface {
	SetOutput(ctx context.Context, on bool) error
	SetVoltageAndCurrent(ctx context.Context, voltage, current uint16) error
}

// Clock yields the current wall time in the location rules are written for.
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a function to Clock.
type ClockFunc func() time.Time

func (f ClockFunc) Now() time.Time { return f() }

// SystemClock reads the system time in loc.
func SystemClock(loc *time.Location) Clock {
	if loc == nil {
		loc = time.Local
	}
	return ClockFunc(func() time.Time { return time.Now().In(loc) })
}

// Firing is the outcome of one entry matching a tick.
type Firing struct {
	Index int
	Entry Entry
	Err   error
}

// Options tune a Scheduler. The zero value is usable.
type Options struct {
	Clock    Clock
	Logger   *zerolog.Logger
	Observer func(Firing)
}

// Scheduler owns the rule table and evaluates it at most once per
// calendar minute.
type Scheduler struct {
	mu       sync.Mutex
	enabled  bool
	entries  []Entry
	lastEval time.Time

	device   Device
	clock    Clock
	log      zerolog.Logger
	observer func(Firing)
}

// New creates a disabled scheduler with an empty table.
func New(device Device, opts Options) (*Scheduler, error) {
	if device == nil {
		return nil, errors.New("automation: device required")
	}
	s := &Scheduler{
		device:   device,
		clock:    opts.Clock,
		log:      zerolog.Nop(),
		observer: opts.Observer,
	}
	if s.clock == nil {
		s.clock = SystemClock(time.Local)
	}
	if opts.Logger != nil {
		s.log = opts.Logger.With().Str("component", "automation").Logger()
	}
	return s, nil
}

// SetEnabled toggles evaluation.
func (s *Scheduler) SetEnabled(enabled bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.enabled = enabled
}

// Enabled reports whether Tick evaluates the table.
func (s *Scheduler) Enabled() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.enabled
}

// AddEntry appends e to the table.
func (s *Scheduler) AddEntry(e Entry) error {
	if e.Action == nil {
		return ErrNoAction
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, e)
	return nil
}

// RemoveEntry deletes the entry at index i. Out-of-range indices leave the
// table untouched and report false.
func (s *Scheduler) RemoveEntry(i int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i < 0 || i >= len(s.entries) {
		return false
	}
	s.entries = append(s.entries[:i], s.entries[i+1:]...)
	return true
}

// Entries returns a copy of the table in evaluation order.
func (s *Scheduler) Entries() []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Entry, len(s.entries))
	copy(out, s.entries)
	return out
}

// Tick evaluates the table if enabled and if the current minute has not
// been evaluated yet. Matching entries fire in table order; the last device
// write wins. Failed writes are reported, not retried: the minute stays
// consumed.
func (s *Scheduler) Tick(ctx context.Context) []Firing {
	now := s.clock.Now()
	bucket := now.Truncate(time.Minute)

	s.mu.Lock()
	if !s.enabled || bucket.Equal(s.lastEval) {
		s.mu.Unlock()
		return nil
	}
	s.lastEval = bucket
	entries := make([]Entry, len(s.entries))
	copy(entries, s.entries)
	s.mu.Unlock()

	cal := CalendarOf(now)

	var fired []Firing
	for i, e := range entries {
		if !e.Cron.Matches(cal) {
			continue
		}
		if u, ok := e.Action.(Unknown); ok {
			s.log.Warn().
				Int("entry", i).
				Uint32("step", uint32(u.Tag)).
				Msg("skipping entry with unknown step")
			continue
		}

		f := Firing{Index: i, Entry: e, Err: s.dispatch(ctx, e.Action)}
		fired = append(fired, f)

		ev := s.log.Info()
		if f.Err != nil {
			ev = s.log.Warn().Err(f.Err)
		}
		ev.Int("entry", i).
			Str("step", e.Action.Step().String()).
			Time("minute", bucket).
			Msg("automation entry fired")

		if s.observer != nil {
			s.observer(f)
		}
	}
	return fired
}

func (s *Scheduler) dispatch(ctx context.Context, a Action) error {
	switch v := a.(type) {
	case OnOff:
		return s.device.SetOutput(ctx, v.On)
	case Limits:
		limitsErr := s.device.SetVoltageAndCurrent(ctx, v.Voltage, v.Current)
		// The output is switched on whether or not the limits landed.
		outputErr := s.device.SetOutput(ctx, true)
		return errors.Join(limitsErr, outputErr)
	default:
		return ErrNoAction
	}
}

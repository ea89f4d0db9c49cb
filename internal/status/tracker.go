// internal/status/tracker.go
package status

import (
	"context"
	"errors"

	"github.com/zsellera/dps-wifi/internal/modbus"
)

// Tracker folds transaction outcomes into a Snapshot.
// Not safe for concurrent use; the host loop owns it.
type Tracker struct {
	snap Snapshot
}

// NewTracker starts in HealthUnknown.
func NewTracker() *Tracker {
	return &Tracker{snap: Snapshot{Health: HealthUnknown}}
}

// Snapshot returns the current state.
func (t *Tracker) Snapshot() Snapshot {
	return t.snap
}

// Observe records the outcome of one transaction and reports whether the
// snapshot changed.
func (t *Tracker) Observe(err error) (Snapshot, bool) {
	prev := t.snap

	if err == nil {
		// Recovery / OK
		t.snap.Health = HealthOK
		t.snap.LastErrorCode = ErrCodeNone
		t.snap.SecondsInError = 0
	} else {
		t.snap.Health = HealthError
		t.snap.LastErrorCode = ErrorCode(err)
		// seconds_in_error increments on TickSecond only.
	}

	return t.snap, t.snap != prev
}

// TickSecond advances the error duration while the link is in error. It
// saturates at SecondsInErrorMax.
func (t *Tracker) TickSecond() (Snapshot, bool) {
	if t.snap.Health != HealthError || t.snap.SecondsInError >= SecondsInErrorMax {
		return t.snap, false
	}
	t.snap.SecondsInError++
	return t.snap, true
}

// ErrorCode maps an error onto a link status code.
func ErrorCode(err error) uint16 {
	var ioErr *modbus.IOError
	switch {
	case err == nil:
		return ErrCodeNone
	case errors.Is(err, modbus.ErrTimeout), errors.Is(err, context.DeadlineExceeded):
		return ErrCodeTimeout
	case errors.As(err, &ioErr):
		return ErrCodeIO
	case errors.Is(err, modbus.ErrRequest):
		return ErrCodeRequest
	default:
		return ErrCodeGeneric
	}
}

// internal/modbus/port.go
package modbus

import (
	"context"
	"errors"
	"io"
	"time"
)

// maxDrainReads bounds the stale-input discard so a chattering line
// cannot stall a request.
const maxDrainReads = 64

// Drain discards whatever the port already holds. The port is polled:
// a Read returning (0, nil) or (0, io.EOF) means nothing is pending.
func Drain(port io.Reader) error {
	var buf [64]byte
	for i := 0; i < maxDrainReads; i++ {
		n, err := port.Read(buf[:])
		if err != nil && !errors.Is(err, io.EOF) {
			return &IOError{Op: "drain", Err: err}
		}
		if n == 0 {
			return nil
		}
	}
	return nil
}

// Receive accumulates len(dst) bytes, sleeping poll whenever the port has
// nothing, until deadline passes or ctx is done.
func Receive(ctx context.Context, port io.Reader, dst []byte, deadline time.Time, poll time.Duration) error {
	got := 0
	for got < len(dst) {
		n, err := port.Read(dst[got:])
		got += n
		if err != nil && !errors.Is(err, io.EOF) {
			return &IOError{Op: "read", Err: err}
		}
		if got >= len(dst) {
			break
		}
		if n > 0 {
			continue
		}
		if !time.Now().Before(deadline) {
			return ErrTimeout
		}

		timer := time.NewTimer(poll)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
	return nil
}

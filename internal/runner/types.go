// internal/runner/types.go
package runner

import (
	"time"

	"github.com/zsellera/dps-wifi/internal/dps"
	"github.com/zsellera/dps-wifi/internal/status"
)

// PollResult is a snapshot produced by one status read.
type PollResult struct {
	At     time.Time
	Status dps.Status
	Link   status.Snapshot
	Err    error // non-nil means the read failed and Status is zero
}

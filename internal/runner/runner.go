// internal/runner/runner.go
package runner

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/zsellera/dps-wifi/internal/automation"
	"github.com/zsellera/dps-wifi/internal/dps"
	"github.com/zsellera/dps-wifi/internal/metrics"
	"github.com/zsellera/dps-wifi/internal/status"
)

// Scheduler is the automation table evaluated on every tick.
type Scheduler interface {
	Tick(ctx context.Context) []automation.Firing
}

// StatusReader reads the device status block.
type StatusReader interface {
	ReadStatus(ctx context.Context) (dps.Status, error)
}

// Config is the minimal runtime config the host loop needs.
type Config struct {
	TickInterval   time.Duration
	StatusInterval time.Duration // 0 disables status polling
}

// Options carry the optional collaborators. The zero value is usable.
type Options struct {
	Logger  *zerolog.Logger
	Metrics metrics.Recorder
	Now     func() time.Time
}

// Runner is the single actor that owns the serial link: scheduler ticks
// and status reads are issued from one goroutine and never overlap.
type Runner struct {
	cfg     Config
	sched   Scheduler
	reader  StatusReader
	tracker *status.Tracker
	rec     metrics.Recorder
	log     zerolog.Logger
	now     func() time.Time
}

// New creates a runner with immutable config.
func New(cfg Config, sched Scheduler, reader StatusReader, opts Options) (*Runner, error) {
	if sched == nil {
		return nil, errors.New("runner: scheduler required")
	}
	if cfg.TickInterval <= 0 {
		return nil, errors.New("runner: tick interval must be > 0")
	}
	if cfg.StatusInterval < 0 {
		return nil, errors.New("runner: status interval must be >= 0")
	}
	if cfg.StatusInterval > 0 && reader == nil {
		return nil, errors.New("runner: status reader required when polling")
	}

	r := &Runner{
		cfg:     cfg,
		sched:   sched,
		reader:  reader,
		tracker: status.NewTracker(),
		rec:     opts.Metrics,
		log:     zerolog.Nop(),
		now:     opts.Now,
	}
	if r.rec == nil {
		r.rec = metrics.Noop()
	}
	if opts.Logger != nil {
		r.log = opts.Logger.With().Str("component", "runner").Logger()
	}
	if r.now == nil {
		r.now = time.Now
	}
	return r, nil
}

// Link returns the current link health.
func (r *Runner) Link() status.Snapshot {
	return r.tracker.Snapshot()
}

// PollOnce performs exactly one status read and folds it into the link
// health.
func (r *Runner) PollOnce(ctx context.Context) PollResult {
	res := PollResult{At: r.now()}

	st, err := r.reader.ReadStatus(ctx)
	if err == nil {
		res.Status = st
		r.rec.SetStatus(st)
	}
	res.Err = err
	res.Link = r.observe(err)
	return res
}

// TickOnce runs one scheduler evaluation. Failed firings count against the
// link health like failed reads.
func (r *Runner) TickOnce(ctx context.Context) []automation.Firing {
	fired := r.sched.Tick(ctx)
	for _, f := range fired {
		r.rec.ObserveFiring(f)
		r.observe(f.Err)
	}
	return fired
}

// Run drives the scheduler and the status poll until ctx is done.
// No overlap. No retries.
func (r *Runner) Run(ctx context.Context) {
	tick := time.NewTicker(r.cfg.TickInterval)
	defer tick.Stop()

	second := time.NewTicker(time.Second)
	defer second.Stop()

	var statusC <-chan time.Time
	if r.cfg.StatusInterval > 0 {
		poll := time.NewTicker(r.cfg.StatusInterval)
		defer poll.Stop()
		statusC = poll.C
		r.PollOnce(ctx)
	}
	r.TickOnce(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-tick.C:
			r.TickOnce(ctx)
		case <-statusC:
			r.PollOnce(ctx)
		case <-second.C:
			if snap, changed := r.tracker.TickSecond(); changed {
				r.rec.SetLink(snap)
			}
		}
	}
}

func (r *Runner) observe(err error) status.Snapshot {
	// Shutdown is not a link failure.
	if errors.Is(err, context.Canceled) {
		return r.tracker.Snapshot()
	}

	snap, changed := r.tracker.Observe(err)
	if !changed {
		return snap
	}
	r.rec.SetLink(snap)

	switch {
	case err == nil:
		r.log.Info().Msg("link healthy")
	default:
		r.log.Warn().
			Err(err).
			Uint16("error_code", snap.LastErrorCode).
			Msg("link error")
	}
	return snap
}

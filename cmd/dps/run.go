// cmd/dps/run.go
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/zsellera/dps-wifi/internal/automation"
	"github.com/zsellera/dps-wifi/internal/config"
	"github.com/zsellera/dps-wifi/internal/logging"
	"github.com/zsellera/dps-wifi/internal/metrics"
	"github.com/zsellera/dps-wifi/internal/runner"
)

func newRunCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Run the automation loop and status poll against the power supply",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.run(cmd.Context())
		},
	}
}

func (a *app) run(parent context.Context) error {
	log, err := logging.Setup(a.cfg.Logging)
	if err != nil {
		return err
	}
	a.log = log

	ctx, cancel := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	rec := metrics.Noop()
	if a.cfg.Metrics.Listen != "" {
		p, err := metrics.NewPrometheus(nil)
		if err != nil {
			log.Warn().Err(err).Msg("metrics disabled")
		} else {
			rec = p
			go a.serveMetrics(ctx, a.cfg.Metrics.Listen)
		}
	}

	drv, closer, err := openDevice(a.cfg, rec.ObserveTransaction)
	if err != nil {
		return err
	}
	defer closer.Close()

	sched, err := automation.New(drv, automation.Options{
		Clock:  automation.SystemClock(a.cfg.Automation.Location()),
		Logger: &log,
	})
	if err != nil {
		return err
	}
	if err := a.loadSchedule(sched); err != nil {
		return err
	}
	go a.reloadOnHangup(ctx, sched)

	r, err := runner.New(
		runner.Config{
			TickInterval:   a.cfg.Automation.TickInterval(),
			StatusInterval: a.cfg.Status.Interval(),
		},
		sched,
		drv,
		runner.Options{Logger: &log, Metrics: rec},
	)
	if err != nil {
		return err
	}

	log.Info().
		Str("device", a.cfg.Serial.Device).
		Str("transport", a.cfg.Modbus.Transport).
		Bool("automation", sched.Enabled()).
		Int("entries", len(sched.Entries())).
		Msg("dps started")

	r.Run(ctx)

	log.Info().Msg("dps stopped")
	return nil
}

// loadSchedule applies the enabled flag and reads the schedule file.
// A truncated file keeps the complete records; any other failure leaves
// the current table in place.
func (a *app) loadSchedule(sched *automation.Scheduler) error {
	sched.SetEnabled(a.cfg.Automation.Enabled)

	path := a.schedulePath()
	err := sched.LoadFile(path)
	switch {
	case errors.Is(err, automation.ErrTruncatedRecord):
		a.log.Warn().Err(err).Str("file", path).Msg("schedule file truncated")
	case err != nil:
		return err
	}
	return nil
}

// reloadOnHangup re-reads the enabled flag and the schedule file on SIGHUP,
// so edits made with the schedule subcommands reach a running daemon.
func (a *app) reloadOnHangup(ctx context.Context, sched *automation.Scheduler) {
	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	defer signal.Stop(hup)

	for {
		select {
		case <-ctx.Done():
			return
		case <-hup:
		}

		cfg, err := config.Load(a.cfgPath)
		if err != nil {
			a.log.Error().Err(err).Msg("reload configuration failed")
			continue
		}
		a.cfg.Automation.Enabled = cfg.Automation.Enabled
		a.cfg.Automation.ScheduleFile = cfg.Automation.ScheduleFile

		if err := a.loadSchedule(sched); err != nil {
			a.log.Error().Err(err).Msg("reload schedule failed, keeping the current table")
			continue
		}
		a.log.Info().
			Bool("automation", sched.Enabled()).
			Int("entries", len(sched.Entries())).
			Msg("schedule reloaded")
	}
}

func (a *app) serveMetrics(ctx context.Context, listen string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Addr: listen, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	a.log.Info().Str("listen", listen).Msg("metrics endpoint up")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		a.log.Error().Err(err).Msg("metrics endpoint failed")
	}
}

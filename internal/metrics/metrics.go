// internal/metrics/metrics.go
package metrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/zsellera/dps-wifi/internal/automation"
	"github.com/zsellera/dps-wifi/internal/dps"
	"github.com/zsellera/dps-wifi/internal/modbus"
	"github.com/zsellera/dps-wifi/internal/status"
)

// Recorder receives events from the transport, the scheduler and the host
// loop. Calls happen inline on the serial path and must stay cheap.
type Recorder interface {
	ObserveTransaction(function byte, err error)
	ObserveFiring(f automation.Firing)
	SetStatus(s dps.Status)
	SetLink(s status.Snapshot)
}

type noopRecorder struct{}

// Noop returns a recorder that discards everything.
func Noop() Recorder {
	return noopRecorder{}
}

func (noopRecorder) ObserveTransaction(byte, error)  {}
func (noopRecorder) ObserveFiring(automation.Firing) {}
func (noopRecorder) SetStatus(dps.Status)            {}
func (noopRecorder) SetLink(status.Snapshot)         {}

// Prometheus exposes the recorder events as Prometheus collectors.
type Prometheus struct {
	transactions   *prometheus.CounterVec
	firings        *prometheus.CounterVec
	voltage        prometheus.Gauge
	current        prometheus.Gauge
	power          prometheus.Gauge
	output         prometheus.Gauge
	linkHealth     prometheus.Gauge
	secondsInError prometheus.Gauge
}

// NewPrometheus registers the collectors with reg. Collectors already
// registered by an earlier call are reused.
func NewPrometheus(reg prometheus.Registerer) (*Prometheus, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	p := &Prometheus{}
	var err error

	if p.transactions, err = register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "dps_modbus_transactions_total",
		Help: "Modbus transactions with the power supply by function and result.",
	}, []string{"function", "result"})); err != nil {
		return nil, err
	}
	if p.firings, err = register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "dps_automation_firings_total",
		Help: "Schedule entries fired by step type and result.",
	}, []string{"step", "result"})); err != nil {
		return nil, err
	}

	gauges := []struct {
		dst  *prometheus.Gauge
		name string
		help string
	}{
		{&p.voltage, "dps_output_voltage_volts", "Measured output voltage."},
		{&p.current, "dps_output_current_amps", "Measured output current."},
		{&p.power, "dps_output_power_watts", "Measured output power."},
		{&p.output, "dps_output_enabled", "1 when the output stage is on."},
		{&p.linkHealth, "dps_link_health", "Serial link health code (0 unknown, 1 ok, 2 error)."},
		{&p.secondsInError, "dps_link_seconds_in_error", "Seconds the serial link has been failing."},
	}
	for _, g := range gauges {
		gauge, err := register(reg, prometheus.NewGauge(prometheus.GaugeOpts{Name: g.name, Help: g.help}))
		if err != nil {
			return nil, err
		}
		*g.dst = gauge
	}

	return p, nil
}

func register[T prometheus.Collector](reg prometheus.Registerer, c T) (T, error) {
	if err := reg.Register(c); err != nil {
		var already prometheus.AlreadyRegisteredError
		if errors.As(err, &already) {
			if existing, ok := already.ExistingCollector.(T); ok {
				return existing, nil
			}
		}
		var zero T
		return zero, err
	}
	return c, nil
}

// ObserveTransaction counts one Modbus transaction. Its signature matches
// modbus.Observer.
func (p *Prometheus) ObserveTransaction(function byte, err error) {
	if p == nil {
		return
	}
	p.transactions.WithLabelValues(FunctionName(function), result(err)).Inc()
}

// ObserveFiring counts one schedule entry firing.
func (p *Prometheus) ObserveFiring(f automation.Firing) {
	if p == nil || f.Entry.Action == nil {
		return
	}
	res := "ok"
	if f.Err != nil {
		res = "error"
	}
	p.firings.WithLabelValues(f.Entry.Action.Step().String(), res).Inc()
}

// SetStatus publishes the latest status read.
func (p *Prometheus) SetStatus(s dps.Status) {
	if p == nil {
		return
	}
	p.voltage.Set(dps.Volts(s.VoltageOut).InexactFloat64())
	p.current.Set(dps.Amps(s.CurrentOut).InexactFloat64())
	p.power.Set(dps.Watts(s.Power).InexactFloat64())
	if s.Output {
		p.output.Set(1)
	} else {
		p.output.Set(0)
	}
}

// SetLink publishes the link health snapshot.
func (p *Prometheus) SetLink(s status.Snapshot) {
	if p == nil {
		return
	}
	p.linkHealth.Set(float64(s.Health))
	p.secondsInError.Set(float64(s.SecondsInError))
}

// FunctionName labels a Modbus function code.
func FunctionName(function byte) string {
	switch function {
	case modbus.FuncReadHoldingRegisters:
		return "read_holding_registers"
	case modbus.FuncWriteSingleRegister:
		return "write_single_register"
	case modbus.FuncWriteMultipleRegisters:
		return "write_multiple_registers"
	default:
		return "unknown"
	}
}

func result(err error) string {
	switch status.ErrorCode(err) {
	case status.ErrCodeNone:
		return "ok"
	case status.ErrCodeTimeout:
		return "timeout"
	case status.ErrCodeIO:
		return "io"
	case status.ErrCodeRequest:
		return "request"
	default:
		return "error"
	}
}

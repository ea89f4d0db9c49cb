// internal/config/normalize.go
package config

import (
	"strings"

	"github.com/zsellera/dps-wifi/internal/modbus"
)

// Defaults for an unset field.
const (
	DefaultDevice           = "/dev/ttyUSB0"
	DefaultBaudRate         = 19200
	DefaultDataBits         = 8
	DefaultParity           = "N"
	DefaultStopBits         = 1
	DefaultScheduleFile     = "schedule.bin"
	DefaultTickIntervalMs   = 1000
	DefaultStatusIntervalMs = 5000
	DefaultLogLevel         = "info"
	DefaultLogFormat        = "json"
)

// Normalize applies post-validation normalization.
// It is allowed to mutate configuration.
// It MUST be called only after Validate().
func Normalize(cfg *Config) {
	if cfg == nil {
		return
	}

	s := &cfg.Serial
	if s.Device == "" {
		s.Device = DefaultDevice
	}
	if s.BaudRate == 0 {
		s.BaudRate = DefaultBaudRate
	}
	if s.DataBits == 0 {
		s.DataBits = DefaultDataBits
	}
	if s.Parity == "" {
		s.Parity = DefaultParity
	}
	s.Parity = strings.ToUpper(s.Parity)
	if s.StopBits == 0 {
		s.StopBits = DefaultStopBits
	}

	m := &cfg.Modbus
	if m.UnitID == 0 {
		m.UnitID = modbus.DefaultUnitID
	}
	if m.TimeoutMs == 0 {
		m.TimeoutMs = int(modbus.DefaultTimeout.Milliseconds())
	}
	if m.PollIntervalMs == 0 {
		m.PollIntervalMs = int(modbus.DefaultPollInterval.Milliseconds())
	}
	if m.Transport == "" {
		m.Transport = TransportPolling
	}

	a := &cfg.Automation
	if a.ScheduleFile == "" {
		a.ScheduleFile = DefaultScheduleFile
	}
	if a.Timezone == "" {
		a.Timezone = "Local"
	}
	if a.TickIntervalMs == 0 {
		a.TickIntervalMs = DefaultTickIntervalMs
	}

	if cfg.Status.IntervalMs == 0 {
		cfg.Status.IntervalMs = DefaultStatusIntervalMs
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = DefaultLogLevel
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = DefaultLogFormat
	}
}

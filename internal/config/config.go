// internal/config/config.go
package config

import (
	"time"
	_ "time/tzdata" // timezone rules on hosts without a zoneinfo database
)

type Config struct {
	Serial     SerialConfig     `yaml:"serial"`
	Modbus     ModbusConfig     `yaml:"modbus"`
	Automation AutomationConfig `yaml:"automation"`
	Status     StatusConfig     `yaml:"status"`
	Logging    LoggingConfig    `yaml:"logging"`
	Metrics    MetricsConfig    `yaml:"metrics"`
}

// ---- SERIAL ----

type SerialConfig struct {
	Device   string `yaml:"device"`
	BaudRate int    `yaml:"baud_rate"`
	DataBits int    `yaml:"data_bits"`
	Parity   string `yaml:"parity"` // N, E or O
	StopBits int    `yaml:"stop_bits"`
}

// ---- MODBUS ----

const (
	TransportPolling = "polling"
	TransportChecked = "checked"
)

type ModbusConfig struct {
	UnitID         uint8  `yaml:"unit_id"`
	TimeoutMs      int    `yaml:"timeout_ms"`
	PollIntervalMs int    `yaml:"poll_interval_ms"`
	Transport      string `yaml:"transport"`
}

func (m ModbusConfig) Timeout() time.Duration {
	return time.Duration(m.TimeoutMs) * time.Millisecond
}

func (m ModbusConfig) PollInterval() time.Duration {
	return time.Duration(m.PollIntervalMs) * time.Millisecond
}

// ---- AUTOMATION ----

type AutomationConfig struct {
	Enabled        bool   `yaml:"enabled"`
	ScheduleFile   string `yaml:"schedule_file"`
	Timezone       string `yaml:"timezone"`
	TickIntervalMs int    `yaml:"tick_interval_ms"`
}

func (a AutomationConfig) TickInterval() time.Duration {
	return time.Duration(a.TickIntervalMs) * time.Millisecond
}

// Location resolves Timezone. Validate has already rejected unknown names.
func (a AutomationConfig) Location() *time.Location {
	if a.Timezone == "" || a.Timezone == "Local" {
		return time.Local
	}
	loc, err := time.LoadLocation(a.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

// ---- STATUS ----

type StatusConfig struct {
	IntervalMs int `yaml:"interval_ms"` // 0 after Normalize means the default; negative disables
}

func (s StatusConfig) Interval() time.Duration {
	if s.IntervalMs < 0 {
		return 0
	}
	return time.Duration(s.IntervalMs) * time.Millisecond
}

// ---- LOGGING ----

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // json or text
}

// ---- METRICS ----

type MetricsConfig struct {
	Listen string `yaml:"listen"` // empty disables the endpoint
}

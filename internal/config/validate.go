// internal/config/validate.go
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Validate checks configuration correctness.
// It performs declarative validation only; zero values mean "use the
// default" and are accepted.
// It MUST NOT mutate configuration.
func Validate(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config: nil configuration")
	}

	// ------------------------------------------------------------
	// SERIAL LINE
	// ------------------------------------------------------------

	s := cfg.Serial
	if s.BaudRate < 0 {
		return fmt.Errorf("serial: baud_rate must be positive, got %d", s.BaudRate)
	}
	if s.DataBits != 0 && (s.DataBits < 5 || s.DataBits > 8) {
		return fmt.Errorf("serial: data_bits must be 5..8, got %d", s.DataBits)
	}
	switch strings.ToUpper(s.Parity) {
	case "", "N", "E", "O":
	default:
		return fmt.Errorf("serial: parity must be N, E or O, got %q", s.Parity)
	}
	if s.StopBits != 0 && s.StopBits != 1 && s.StopBits != 2 {
		return fmt.Errorf("serial: stop_bits must be 1 or 2, got %d", s.StopBits)
	}

	// ------------------------------------------------------------
	// MODBUS
	// ------------------------------------------------------------

	m := cfg.Modbus
	if m.UnitID > 247 {
		return fmt.Errorf("modbus: unit_id must be 1..247, got %d", m.UnitID)
	}
	if m.TimeoutMs < 0 {
		return fmt.Errorf("modbus: timeout_ms must not be negative, got %d", m.TimeoutMs)
	}
	if m.PollIntervalMs < 0 {
		return fmt.Errorf("modbus: poll_interval_ms must not be negative, got %d", m.PollIntervalMs)
	}
	if m.TimeoutMs > 0 && m.PollIntervalMs > m.TimeoutMs {
		return fmt.Errorf(
			"modbus: poll_interval_ms (%d) exceeds timeout_ms (%d)",
			m.PollIntervalMs,
			m.TimeoutMs,
		)
	}
	switch m.Transport {
	case "", TransportPolling, TransportChecked:
	default:
		return fmt.Errorf("modbus: unknown transport %q", m.Transport)
	}

	// ------------------------------------------------------------
	// AUTOMATION
	// ------------------------------------------------------------

	a := cfg.Automation
	if a.TickIntervalMs < 0 {
		return fmt.Errorf("automation: tick_interval_ms must not be negative, got %d", a.TickIntervalMs)
	}
	// Ticks slower than a minute would skip whole minutes.
	if time.Duration(a.TickIntervalMs)*time.Millisecond > time.Minute {
		return fmt.Errorf("automation: tick_interval_ms must not exceed one minute, got %d", a.TickIntervalMs)
	}
	if a.Timezone != "" && a.Timezone != "Local" {
		if _, err := time.LoadLocation(a.Timezone); err != nil {
			return fmt.Errorf("automation: timezone %q: %w", a.Timezone, err)
		}
	}

	// ------------------------------------------------------------
	// LOGGING
	// ------------------------------------------------------------

	if cfg.Logging.Level != "" {
		if _, err := zerolog.ParseLevel(strings.ToLower(cfg.Logging.Level)); err != nil {
			return fmt.Errorf("logging: level %q: %w", cfg.Logging.Level, err)
		}
	}
	switch strings.ToLower(cfg.Logging.Format) {
	case "", "json", "text":
	default:
		return fmt.Errorf("logging: format must be json or text, got %q", cfg.Logging.Format)
	}

	return nil
}

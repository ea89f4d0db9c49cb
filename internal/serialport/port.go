// internal/serialport/port.go
package serialport

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/goburrow/serial"
)

// DefaultReadTimeout keeps a single Read short so the transaction layer
// owns the polling cadence.
const DefaultReadTimeout = time.Millisecond

// Config describes the serial line to the power supply.
type Config struct {
	Device      string
	BaudRate    int
	DataBits    int
	Parity      string
	StopBits    int
	ReadTimeout time.Duration
}

// Port adapts a serial port to the polling contract of the RTU client:
// a read that times out reports (0, nil) instead of an error.
type Port struct {
	rwc io.ReadWriteCloser
}

// Open opens and configures the device.
func Open(cfg Config) (*Port, error) {
	if cfg.Device == "" {
		return nil, errors.New("serialport: device required")
	}
	if cfg.ReadTimeout <= 0 {
		cfg.ReadTimeout = DefaultReadTimeout
	}

	p, err := serial.Open(&serial.Config{
		Address:  cfg.Device,
		BaudRate: cfg.BaudRate,
		DataBits: cfg.DataBits,
		StopBits: cfg.StopBits,
		Parity:   cfg.Parity,
		Timeout:  cfg.ReadTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("serialport: open %s: %w", cfg.Device, err)
	}
	return Wrap(p), nil
}

// Wrap adapts an already open stream.
func Wrap(rwc io.ReadWriteCloser) *Port {
	return &Port{rwc: rwc}
}

func (p *Port) Read(b []byte) (int, error) {
	n, err := p.rwc.Read(b)
	if errors.Is(err, serial.ErrTimeout) {
		return n, nil
	}
	return n, err
}

func (p *Port) Write(b []byte) (int, error) {
	return p.rwc.Write(b)
}

func (p *Port) Close() error {
	return p.rwc.Close()
}

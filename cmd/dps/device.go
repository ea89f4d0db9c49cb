// cmd/dps/device.go
package main

import (
	"context"
	"fmt"
	"io"

	"github.com/zsellera/dps-wifi/internal/config"
	"github.com/zsellera/dps-wifi/internal/dps"
	"github.com/zsellera/dps-wifi/internal/modbus"
	"github.com/zsellera/dps-wifi/internal/modbus/checked"
	"github.com/zsellera/dps-wifi/internal/serialport"
)

// openDevice opens the serial line with the configured transport and
// returns the driver plus the closer of the underlying port.
func openDevice(cfg *config.Config, observer modbus.Observer) (*dps.Driver, io.Closer, error) {
	s, m := cfg.Serial, cfg.Modbus

	var (
		regs   dps.Registers
		closer io.Closer
	)

	switch m.Transport {
	case config.TransportChecked:
		c, err := checked.New(checked.Config{
			Device:       s.Device,
			BaudRate:     s.BaudRate,
			DataBits:     s.DataBits,
			Parity:       s.Parity,
			StopBits:     s.StopBits,
			UnitID:       m.UnitID,
			Timeout:      m.Timeout(),
			PollInterval: m.PollInterval(),
			Observer:     observer,
		})
		if err != nil {
			return nil, nil, err
		}
		regs, closer = c, c

	default:
		port, err := serialport.Open(serialport.Config{
			Device:   s.Device,
			BaudRate: s.BaudRate,
			DataBits: s.DataBits,
			Parity:   s.Parity,
			StopBits: s.StopBits,
		})
		if err != nil {
			return nil, nil, err
		}
		c, err := modbus.New(port, modbus.Config{
			UnitID:       m.UnitID,
			Timeout:      m.Timeout(),
			PollInterval: m.PollInterval(),
			Observer:     observer,
		})
		if err != nil {
			port.Close()
			return nil, nil, err
		}
		regs, closer = c, port
	}

	drv, err := dps.New(regs)
	if err != nil {
		closer.Close()
		return nil, nil, err
	}
	return drv, closer, nil
}

// withDevice runs fn against a freshly opened device and closes it after.
func (a *app) withDevice(ctx context.Context, fn func(context.Context, *dps.Driver) error) error {
	drv, closer, err := openDevice(a.cfg, nil)
	if err != nil {
		return fmt.Errorf("open device: %w", err)
	}
	defer closer.Close()
	return fn(ctx, drv)
}

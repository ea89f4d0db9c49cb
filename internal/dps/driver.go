// internal/dps/driver.go
package dps

import (
	"context"
	"errors"
	"fmt"
)

// Registers abstracts the Modbus operations the driver needs.
// Values are in host order; wire byte order is the client's concern.
type Registers interface {
	ReadHoldingRegisters(ctx context.Context, start, count uint16) ([]uint16, error) // FC 3
	WriteSingleRegister(ctx context.Context, addr, value uint16) error               // FC 6
	WriteMultipleRegisters(ctx context.Context, start uint16, values []uint16) error // FC 16
}

// Driver maps power supply operations onto register transactions.
// It performs no bounds checking.
type Driver struct {
	regs Registers
}

// New creates a driver on top of a register client.
func New(regs Registers) (*Driver, error) {
	if regs == nil {
		return nil, errors.New("dps: register client required")
	}
	return &Driver{regs: regs}, nil
}

// ReadStatus reads the whole status block in one transaction.
func (d *Driver) ReadStatus(ctx context.Context) (Status, error) {
	regs, err := d.regs.ReadHoldingRegisters(ctx, RegVoltageSet, statusRegisters)
	if err != nil {
		return Status{}, fmt.Errorf("dps: read status: %w", err)
	}
	if len(regs) != int(statusRegisters) {
		return Status{}, fmt.Errorf("dps: read status: got %d registers, want %d", len(regs), statusRegisters)
	}
	return decodeStatus(regs), nil
}

// SetVoltage writes the voltage setpoint.
func (d *Driver) SetVoltage(ctx context.Context, v uint16) error {
	if err := d.regs.WriteSingleRegister(ctx, RegVoltageSet, v); err != nil {
		return fmt.Errorf("dps: set voltage: %w", err)
	}
	return nil
}

// SetCurrent writes the current limit.
func (d *Driver) SetCurrent(ctx context.Context, c uint16) error {
	if err := d.regs.WriteSingleRegister(ctx, RegCurrentSet, c); err != nil {
		return fmt.Errorf("dps: set current: %w", err)
	}
	return nil
}

// SetVoltageAndCurrent writes both setpoints in a single transaction.
func (d *Driver) SetVoltageAndCurrent(ctx context.Context, v, c uint16) error {
	if err := d.regs.WriteMultipleRegisters(ctx, RegVoltageSet, []uint16{v, c}); err != nil {
		return fmt.Errorf("dps: set voltage and current: %w", err)
	}
	return nil
}

// SetOutput switches the output on or off.
func (d *Driver) SetOutput(ctx context.Context, on bool) error {
	var v uint16
	if on {
		v = 1
	}
	if err := d.regs.WriteSingleRegister(ctx, RegOutput, v); err != nil {
		return fmt.Errorf("dps: set output: %w", err)
	}
	return nil
}

// CheckVoltage reports whether v is within the device's setpoint range.
func CheckVoltage(v uint16) error {
	if v > MaxVoltage {
		return fmt.Errorf("dps: voltage %d out of range %d..%d", v, MinVoltage, MaxVoltage)
	}
	return nil
}

// CheckCurrent reports whether c is within the device's current limit range.
func CheckCurrent(c uint16) error {
	if c > MaxCurrent {
		return fmt.Errorf("dps: current %d out of range %d..%d", c, MinCurrent, MaxCurrent)
	}
	return nil
}

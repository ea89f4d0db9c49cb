// internal/dps/units.go
package dps

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Register resolution: one raw count is 10 mV, 1 mA or 10 mW.
const (
	voltageExp int32 = -2
	currentExp int32 = -3
	powerExp   int32 = -2
)

// Volts converts a raw voltage register to volts.
func Volts(raw uint16) decimal.Decimal { return decimal.New(int64(raw), voltageExp) }

// Amps converts a raw current register to amperes.
func Amps(raw uint16) decimal.Decimal { return decimal.New(int64(raw), currentExp) }

// Watts converts a raw power register to watts.
func Watts(raw uint16) decimal.Decimal { return decimal.New(int64(raw), powerExp) }

// ParseVolts parses a value such as "12.5" into raw register units.
func ParseVolts(s string) (uint16, error) { return parseScaled(s, voltageExp, "voltage") }

// ParseAmps parses a value such as "0.5" into raw register units.
func ParseAmps(s string) (uint16, error) { return parseScaled(s, currentExp, "current") }

func parseScaled(s string, exp int32, what string) (uint16, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("dps: parse %s %q: %w", what, s, err)
	}
	raw := d.Shift(-exp)
	if !raw.Equal(raw.Truncate(0)) {
		return 0, fmt.Errorf("dps: %s %q is finer than the register resolution", what, s)
	}
	if raw.Sign() < 0 || raw.GreaterThan(decimal.NewFromInt(0xFFFF)) {
		return 0, fmt.Errorf("dps: %s %q does not fit a register", what, s)
	}
	return uint16(raw.IntPart()), nil
}

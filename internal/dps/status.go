// internal/dps/status.go
package dps

import "fmt"

// Mode is the regulation mode reported by the device.
type Mode uint16

const (
	ModeCV Mode = 0
	ModeCC Mode = 1
)

func (m Mode) String() string {
	switch m {
	case ModeCV:
		return "CV"
	case ModeCC:
		return "CC"
	default:
		return fmt.Sprintf("mode(%d)", uint16(m))
	}
}

// Protection is the protection state reported by the device.
type Protection uint16

const (
	ProtectionNone Protection = 0
	ProtectionOVP  Protection = 1
	ProtectionOCP  Protection = 2
	ProtectionOPP  Protection = 3
)

func (p Protection) String() string {
	switch p {
	case ProtectionNone:
		return "ok"
	case ProtectionOVP:
		return "OVP"
	case ProtectionOCP:
		return "OCP"
	case ProtectionOPP:
		return "OPP"
	default:
		return fmt.Sprintf("protection(%d)", uint16(p))
	}
}

// Status is one snapshot of the device, all values in raw register units.
type Status struct {
	VoltageSet uint16
	CurrentSet uint16
	VoltageOut uint16
	CurrentOut uint16
	Power      uint16
	VoltageIn  uint16
	Locked     bool
	Protection Protection
	Mode       Mode
	Output     bool
}

// decodeStatus maps the RegVoltageSet..RegOutput block onto a Status.
// regs must hold statusRegisters values.
func decodeStatus(regs []uint16) Status {
	at := func(reg uint16) uint16 { return regs[reg-RegVoltageSet] }
	return Status{
		VoltageSet: at(RegVoltageSet),
		CurrentSet: at(RegCurrentSet),
		VoltageOut: at(RegVoltageOut),
		CurrentOut: at(RegCurrentOut),
		Power:      at(RegPower),
		VoltageIn:  at(RegVoltageIn),
		Locked:     at(RegLock) != 0,
		Protection: Protection(at(RegProtection)),
		Mode:       Mode(at(RegMode)),
		Output:     at(RegOutput) != 0,
	}
}

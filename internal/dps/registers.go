// internal/dps/registers.go
package dps

// Register map of the DPS power supply.
// These values are defined by the device firmware and MUST NOT be configurable.

// RegVoltageSet holds the voltage setpoint.
const RegVoltageSet uint16 = 0x0000

// RegCurrentSet holds the current limit. It directly follows RegVoltageSet,
// which lets both be written in one FC 16 transaction.
const RegCurrentSet uint16 = 0x0001

// RegVoltageOut holds the measured output voltage.
const RegVoltageOut uint16 = 0x0002

// RegCurrentOut holds the measured output current.
const RegCurrentOut uint16 = 0x0003

// RegPower holds the measured output power.
const RegPower uint16 = 0x0004

// RegVoltageIn holds the input voltage.
const RegVoltageIn uint16 = 0x0005

// RegLock holds the key lock flag.
const RegLock uint16 = 0x0006

// RegProtection holds the protection state.
const RegProtection uint16 = 0x0007

// RegMode holds the regulation mode (CV/CC).
const RegMode uint16 = 0x0008

// RegOutput holds the output on/off switch.
const RegOutput uint16 = 0x0009

// statusRegisters is the span RegVoltageSet..RegOutput read by ReadStatus.
const statusRegisters = RegOutput - RegVoltageSet + 1

// ---- LIMITS ----

// Setpoint bounds accepted by the device, in raw register units.
// The driver does not enforce them; see CheckVoltage and CheckCurrent.
const (
	MinVoltage uint16 = 0
	MaxVoltage uint16 = 5000
	MinCurrent uint16 = 0
	MaxCurrent uint16 = 4999
)

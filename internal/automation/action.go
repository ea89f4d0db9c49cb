// internal/automation/action.go
package automation

import "fmt"

// StepType is the persisted tag of an entry's action.
// The ordinals are part of the record format.
type StepType uint32

const (
	StepSetOnOff  StepType = 0
	StepSetLimits StepType = 1
)

func (s StepType) String() string {
	switch s {
	case StepSetOnOff:
		return "set_onoff"
	case StepSetLimits:
		return "set_limits"
	default:
		return fmt.Sprintf("step(%d)", uint32(s))
	}
}

// Action is what an entry does when it fires: OnOff or Limits. Unknown
// carries records from newer schedule files.
type Action interface {
	Step() StepType
	isAction()
}

// OnOff sets the output state.
type OnOff struct {
	On bool
}

// Limits sets voltage and current in raw register units, then turns the
// output on.
type Limits struct {
	Voltage uint16
	Current uint16
}

// Unknown holds a record whose step tag this build does not know. It is
// never dispatched and is stored back byte for byte.
type Unknown struct {
	Tag     StepType
	Context [ContextSize]byte
}

func (OnOff) Step() StepType     { return StepSetOnOff }
func (Limits) Step() StepType    { return StepSetLimits }
func (u Unknown) Step() StepType { return u.Tag }

func (OnOff) isAction()   {}
func (Limits) isAction()  {}
func (Unknown) isAction() {}

// Entry is one schedule rule.
type Entry struct {
	Cron   Cron
	Action Action
}

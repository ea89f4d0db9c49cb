// internal/automation/codec.go
package automation

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// Schedule record layout. Fixed and little-endian; byte-compatible with
// schedule files written by the controller firmware.
//
//	0   minute   int8
//	1   hour     int8
//	2   day      int8
//	3   month    int8
//	4   weekday  int8
//	5-7 reserved (zero)
//	8   step     uint32
//	12  context  [16]byte
const (
	RecordSize  = 28
	ContextSize = 16

	offMinute  = 0
	offHour    = 1
	offDay     = 2
	offMonth   = 3
	offWeekday = 4
	offStep    = 8
	offContext = 12
)

// Context payload layout, keyed by StepType.
//
//	OnOff:  0 state (0/1)
//	Limits: 0 voltage uint16, 2 current uint16
const (
	ctxOnOffState    = 0
	ctxLimitsVoltage = 0
	ctxLimitsCurrent = 2
)

// ErrNoAction is returned for an entry without an action.
var ErrNoAction = errors.New("automation: entry has no action")

// encodeContext zeroes the whole payload before writing the variant, so
// equal actions always produce equal bytes.
func encodeContext(a Action) ([ContextSize]byte, error) {
	var ctx [ContextSize]byte
	switch v := a.(type) {
	case OnOff:
		if v.On {
			ctx[ctxOnOffState] = 1
		}
	case Limits:
		binary.LittleEndian.PutUint16(ctx[ctxLimitsVoltage:], v.Voltage)
		binary.LittleEndian.PutUint16(ctx[ctxLimitsCurrent:], v.Current)
	case Unknown:
		ctx = v.Context
	case nil:
		return ctx, ErrNoAction
	default:
		return ctx, fmt.Errorf("automation: unsupported action %T", a)
	}
	return ctx, nil
}

// decodeContext interprets the payload according to step. The payload
// carries no tag of its own. Unrecognised steps are kept verbatim as Unknown.
func decodeContext(step StepType, ctx [ContextSize]byte) Action {
	switch step {
	case StepSetOnOff:
		return OnOff{On: ctx[ctxOnOffState] != 0}
	case StepSetLimits:
		return Limits{
			Voltage: binary.LittleEndian.Uint16(ctx[ctxLimitsVoltage:]),
			Current: binary.LittleEndian.Uint16(ctx[ctxLimitsCurrent:]),
		}
	default:
		return Unknown{Tag: step, Context: ctx}
	}
}

// encodeRecord renders e in the canonical record layout.
func encodeRecord(e Entry) ([RecordSize]byte, error) {
	var rec [RecordSize]byte

	ctx, err := encodeContext(e.Action)
	if err != nil {
		return rec, err
	}

	rec[offMinute] = byte(e.Cron.Minute)
	rec[offHour] = byte(e.Cron.Hour)
	rec[offDay] = byte(e.Cron.Day)
	rec[offMonth] = byte(e.Cron.Month)
	rec[offWeekday] = byte(e.Cron.Weekday)
	binary.LittleEndian.PutUint32(rec[offStep:], uint32(e.Action.Step()))
	copy(rec[offContext:], ctx[:])

	return rec, nil
}

// decodeRecord parses one record. rec must be RecordSize bytes.
func decodeRecord(rec []byte) Entry {
	var ctx [ContextSize]byte
	copy(ctx[:], rec[offContext:offContext+ContextSize])

	step := StepType(binary.LittleEndian.Uint32(rec[offStep:]))

	return Entry{
		Cron: Cron{
			Minute:  int8(rec[offMinute]),
			Hour:    int8(rec[offHour]),
			Day:     int8(rec[offDay]),
			Month:   int8(rec[offMonth]),
			Weekday: int8(rec[offWeekday]),
		},
		Action: decodeContext(step, ctx),
	}
}

// internal/modbus/checked/transport.go
package checked

import (
	"context"
	"encoding/binary"
	"fmt"
	"io"
	"time"

	rtu "github.com/zsellera/dps-wifi/internal/modbus"
)

// exceptionSize is slave id, function|0x80, exception code and CRC.
const exceptionSize = 5

// Transporter moves one RTU frame over a polled port. Pending input is
// discarded before every request, so a late reply to an earlier request
// cannot be taken for the current one. The response is read up to the
// length implied by the request; checking it is left to the packager.
type Transporter struct {
	port    io.ReadWriter
	timeout time.Duration
	poll    time.Duration
}

// NewTransporter wraps port. Zero durations take the rtu defaults.
func NewTransporter(port io.ReadWriter, timeout, poll time.Duration) *Transporter {
	if timeout <= 0 {
		timeout = rtu.DefaultTimeout
	}
	if poll <= 0 {
		poll = rtu.DefaultPollInterval
	}
	return &Transporter{port: port, timeout: timeout, poll: poll}
}

// Send implements modbus.Transporter.
func (t *Transporter) Send(adu []byte) ([]byte, error) {
	want, err := responseLength(adu)
	if err != nil {
		return nil, err
	}

	if err := rtu.Drain(t.port); err != nil {
		return nil, err
	}
	if _, err := t.port.Write(adu); err != nil {
		return nil, &rtu.IOError{Op: "write", Err: err}
	}

	// Bounded by the deadline; cancellation is checked by the Client
	// before the transaction starts.
	ctx := context.Background()
	deadline := time.Now().Add(t.timeout)

	resp := make([]byte, want)
	if err := rtu.Receive(ctx, t.port, resp[:exceptionSize], deadline, t.poll); err != nil {
		return nil, err
	}
	if resp[1]&0x80 != 0 {
		return resp[:exceptionSize], nil
	}
	if err := rtu.Receive(ctx, t.port, resp[exceptionSize:], deadline, t.poll); err != nil {
		return nil, err
	}
	return resp, nil
}

func responseLength(adu []byte) (int, error) {
	if len(adu) < 8 {
		return 0, fmt.Errorf("%w: request of %d bytes", rtu.ErrRequest, len(adu))
	}
	switch adu[1] {
	case rtu.FuncReadHoldingRegisters:
		return 5 + 2*int(binary.BigEndian.Uint16(adu[4:])), nil
	case rtu.FuncWriteSingleRegister, rtu.FuncWriteMultipleRegisters:
		return 8, nil
	default:
		return 0, fmt.Errorf("%w: function 0x%02X", rtu.ErrRequest, adu[1])
	}
}

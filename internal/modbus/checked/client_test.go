// internal/modbus/checked/client_test.go
package checked

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	rtu "github.com/zsellera/dps-wifi/internal/modbus"
)

type fakeTransporter struct {
	requests [][]byte
	reply    func(req []byte) []byte
	err      error
}

func (f *fakeTransporter) Send(adu []byte) ([]byte, error) {
	f.requests = append(f.requests, append([]byte(nil), adu...))
	if f.err != nil {
		return nil, f.err
	}
	return f.reply(adu), nil
}

func withCRC(b []byte) []byte {
	crc := rtu.CRC16(b)
	return append(append([]byte(nil), b...), byte(crc), byte(crc>>8))
}

func TestReadHoldingRegistersWireCompatible(t *testing.T) {
	tr := &fakeTransporter{reply: func([]byte) []byte {
		return withCRC([]byte{0x01, 0x03, 0x04, 0x04, 0xB0, 0x01, 0xF4})
	}}
	c := NewWithTransporter(1, tr, nil)

	regs, err := c.ReadHoldingRegisters(context.Background(), 0x0000, 2)
	require.NoError(t, err)
	require.Equal(t, []uint16{1200, 500}, regs)

	require.Len(t, tr.requests, 1)
	require.Equal(t, withCRC([]byte{0x01, 0x03, 0x00, 0x00, 0x00, 0x02}), tr.requests[0])
}

func TestReadHoldingRegistersRejectsBadCRC(t *testing.T) {
	tr := &fakeTransporter{reply: func([]byte) []byte {
		resp := withCRC([]byte{0x01, 0x03, 0x02, 0x00, 0x01})
		resp[len(resp)-1] ^= 0xFF
		return resp
	}}
	c := NewWithTransporter(1, tr, nil)

	_, err := c.ReadHoldingRegisters(context.Background(), 0, 1)
	require.Error(t, err)
}

func TestWriteSingleRegisterEcho(t *testing.T) {
	tr := &fakeTransporter{reply: func(req []byte) []byte { return req }}
	c := NewWithTransporter(1, tr, nil)

	require.NoError(t, c.WriteSingleRegister(context.Background(), 0x0009, 1))
	require.Equal(t, withCRC([]byte{0x01, 0x06, 0x00, 0x09, 0x00, 0x01}), tr.requests[0])
}

func TestWriteMultipleRegistersEcho(t *testing.T) {
	tr := &fakeTransporter{reply: func(req []byte) []byte { return withCRC(req[:6]) }}

	var seen []byte
	c := NewWithTransporter(1, tr, func(fc byte, err error) {
		require.NoError(t, err)
		seen = append(seen, fc)
	})

	require.NoError(t, c.WriteMultipleRegisters(context.Background(), 0x0000, []uint16{1200, 500}))
	require.Equal(t,
		[]byte{0x01, 0x10, 0x00, 0x00, 0x00, 0x02, 0x04, 0x04, 0xB0, 0x01, 0xF4, 0xF3, 0x6F},
		tr.requests[0],
	)
	require.Equal(t, []byte{rtu.FuncWriteMultipleRegisters}, seen)
}

func TestWriteMultipleRegistersInvalidCount(t *testing.T) {
	tr := &fakeTransporter{reply: func(req []byte) []byte { return req }}
	c := NewWithTransporter(1, tr, nil)

	require.ErrorIs(t, c.WriteMultipleRegisters(context.Background(), 0, nil), rtu.ErrRequest)
	require.Empty(t, tr.requests)
}

func TestCancelledContextSkipsTransaction(t *testing.T) {
	tr := &fakeTransporter{reply: func(req []byte) []byte { return req }}
	c := NewWithTransporter(1, tr, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	require.ErrorIs(t, c.WriteSingleRegister(ctx, 0, 1), context.Canceled)
	require.Empty(t, tr.requests)
}

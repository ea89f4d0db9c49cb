// internal/modbus/frame.go
package modbus

import "encoding/binary"

// Function codes implemented by this client.
const (
	FuncReadHoldingRegisters   byte = 0x03
	FuncWriteSingleRegister    byte = 0x06
	FuncWriteMultipleRegisters byte = 0x10
)

const (
	// readResponseOverhead is unit(1) + fc(1) + byte count(1) + crc(2).
	readResponseOverhead = 5

	// writeResponseSize is the length of the echo a slave returns for
	// FC 0x06 and FC 0x10.
	writeResponseSize = 8

	// MaxWriteRegisters is the largest quantity FC 0x10 can carry in one ADU.
	MaxWriteRegisters = 123

	// MaxReadRegisters is the largest quantity FC 0x03 can return in one ADU.
	MaxReadRegisters = 125
)

// buildReadRequest builds a FC 0x03 ADU.
//
//	unit(1) fc(1) start(2) count(2) crc(2)
func buildReadRequest(unit uint8, start, count uint16) []byte {
	adu := make([]byte, 6, 8)
	adu[0] = unit
	adu[1] = FuncReadHoldingRegisters
	binary.BigEndian.PutUint16(adu[2:4], start)
	binary.BigEndian.PutUint16(adu[4:6], count)
	return appendCRC(adu)
}

// buildWriteSingleRequest builds a FC 0x06 ADU.
//
//	unit(1) fc(1) addr(2) value(2) crc(2)
func buildWriteSingleRequest(unit uint8, addr, value uint16) []byte {
	adu := make([]byte, 6, 8)
	adu[0] = unit
	adu[1] = FuncWriteSingleRegister
	binary.BigEndian.PutUint16(adu[2:4], addr)
	binary.BigEndian.PutUint16(adu[4:6], value)
	return appendCRC(adu)
}

// buildWriteMultipleRequest builds a FC 0x10 ADU of 9 + 2*len(values) bytes.
//
//	unit(1) fc(1) start(2) count(2) bytes(1) values(2*n) crc(2)
func buildWriteMultipleRequest(unit uint8, start uint16, values []uint16) []byte {
	n := len(values)
	adu := make([]byte, 7+2*n, 9+2*n)
	adu[0] = unit
	adu[1] = FuncWriteMultipleRegisters
	binary.BigEndian.PutUint16(adu[2:4], start)
	binary.BigEndian.PutUint16(adu[4:6], uint16(n))
	adu[6] = byte(2 * n)
	for i, v := range values {
		binary.BigEndian.PutUint16(adu[7+2*i:9+2*i], v)
	}
	return appendCRC(adu)
}

func unpackRegisters(data []byte) []uint16 {
	n := len(data) / 2
	out := make([]uint16, n)
	for i := 0; i < n; i++ {
		out[i] = binary.BigEndian.Uint16(data[2*i : 2*i+2])
	}
	return out
}

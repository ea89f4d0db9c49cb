// internal/modbus/checked/client.go
package checked

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/goburrow/modbus"

	rtu "github.com/zsellera/dps-wifi/internal/modbus"
	"github.com/zsellera/dps-wifi/internal/serialport"
)

// Client runs the same three transactions as rtu.Client, but through the
// goburrow RTU stack, which verifies the response CRC, slave id and echo.
// Frames on the wire are identical.
type Client struct {
	mu       sync.Mutex
	port     io.Closer
	client   modbus.Client
	observer rtu.Observer
}

// Config is the serial line plus transaction config.
type Config struct {
	Device   string
	BaudRate int
	DataBits int
	Parity   string
	StopBits int

	UnitID       uint8
	Timeout      time.Duration
	PollInterval time.Duration
	Observer     rtu.Observer
}

// New opens the serial device and returns a connected client.
func New(cfg Config) (*Client, error) {
	if cfg.Device == "" {
		return nil, errors.New("checked modbus: device required")
	}
	if cfg.UnitID == 0 {
		cfg.UnitID = rtu.DefaultUnitID
	}

	port, err := serialport.Open(serialport.Config{
		Device:   cfg.Device,
		BaudRate: cfg.BaudRate,
		DataBits: cfg.DataBits,
		Parity:   cfg.Parity,
		StopBits: cfg.StopBits,
	})
	if err != nil {
		return nil, fmt.Errorf("checked modbus: connect %s: %w", cfg.Device, err)
	}

	c := NewWithTransporter(cfg.UnitID, NewTransporter(port, cfg.Timeout, cfg.PollInterval), cfg.Observer)
	c.port = port
	return c, nil
}

// NewWithTransporter builds a client over an arbitrary transporter,
// packaging frames for the given slave.
func NewWithTransporter(unitID uint8, t modbus.Transporter, observer rtu.Observer) *Client {
	p := modbus.NewRTUClientHandler("")
	p.SlaveId = unitID
	return &Client{
		client:   modbus.NewClient2(p, t),
		observer: observer,
	}
}

// Close releases the serial device.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.port == nil {
		return nil
	}
	return c.port.Close()
}

// ReadHoldingRegisters reads count registers starting at start (FC 3).
// ctx is only checked before the transaction starts.
func (c *Client) ReadHoldingRegisters(ctx context.Context, start, count uint16) ([]uint16, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if count == 0 || count > rtu.MaxReadRegisters {
		return nil, c.observe(rtu.FuncReadHoldingRegisters, fmt.Errorf("%w: read count %d", rtu.ErrRequest, count))
	}

	c.mu.Lock()
	raw, err := c.client.ReadHoldingRegisters(start, count)
	c.mu.Unlock()
	if err != nil {
		return nil, c.observe(rtu.FuncReadHoldingRegisters, fmt.Errorf("checked modbus: read holding registers: %w", err))
	}
	c.observe(rtu.FuncReadHoldingRegisters, nil)
	return unpackRegisters(raw), nil
}

// WriteSingleRegister writes one register (FC 6).
func (c *Client) WriteSingleRegister(ctx context.Context, addr, value uint16) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	c.mu.Lock()
	_, err := c.client.WriteSingleRegister(addr, value)
	c.mu.Unlock()
	if err != nil {
		err = fmt.Errorf("checked modbus: write single register: %w", err)
	}
	return c.observe(rtu.FuncWriteSingleRegister, err)
}

// WriteMultipleRegisters writes consecutive registers in one transaction (FC 16).
func (c *Client) WriteMultipleRegisters(ctx context.Context, start uint16, values []uint16) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if len(values) == 0 || len(values) > rtu.MaxWriteRegisters {
		return c.observe(rtu.FuncWriteMultipleRegisters, fmt.Errorf("%w: write count %d", rtu.ErrRequest, len(values)))
	}

	c.mu.Lock()
	_, err := c.client.WriteMultipleRegisters(start, uint16(len(values)), packRegisters(values))
	c.mu.Unlock()
	if err != nil {
		err = fmt.Errorf("checked modbus: write multiple registers: %w", err)
	}
	return c.observe(rtu.FuncWriteMultipleRegisters, err)
}

func (c *Client) observe(fc byte, err error) error {
	if c.observer != nil {
		c.observer(fc, err)
	}
	return err
}

func packRegisters(regs []uint16) []byte {
	out := make([]byte, len(regs)*2)
	for i, r := range regs {
		out[2*i] = byte(r >> 8)
		out[2*i+1] = byte(r)
	}
	return out
}

func unpackRegisters(data []byte) []uint16 {
	n := len(data) / 2
	out := make([]uint16, n)
	for i := 0; i < n; i++ {
		out[i] = uint16(data[2*i])<<8 | uint16(data[2*i+1])
	}
	return out
}

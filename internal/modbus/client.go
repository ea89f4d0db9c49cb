// internal/modbus/client.go
package modbus

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"
)

// Transaction timing defaults. Downstream timing assumptions (host loop
// period, status poll interval) are derived from these.
const (
	DefaultUnitID       uint8 = 1
	DefaultTimeout            = 1000 * time.Millisecond
	DefaultPollInterval       = 10 * time.Millisecond
)

// Observer is told the outcome of every transaction.
type Observer func(function byte, err error)

// Config is the minimal transport config.
type Config struct {
	UnitID       uint8
	Timeout      time.Duration
	PollInterval time.Duration
	Observer     Observer
}

// Client is a Modbus RTU master talking to exactly one slave.
//
// The port is polled: a Read returning (0, nil) or (0, io.EOF) means no
// byte is available yet. One transaction at a time; Client is not safe
// for concurrent use.
type Client struct {
	port io.ReadWriter
	cfg  Config
}

// New creates a client on an already opened port.
func New(port io.ReadWriter, cfg Config) (*Client, error) {
	if port == nil {
		return nil, errors.New("modbus client: port required")
	}
	if cfg.UnitID == 0 {
		cfg.UnitID = DefaultUnitID
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = DefaultPollInterval
	}
	return &Client{port: port, cfg: cfg}, nil
}

// ReadHoldingRegisters reads count registers starting at start (FC 3).
// The response is not CRC-checked; on timeout no partial data is returned.
func (c *Client) ReadHoldingRegisters(ctx context.Context, start, count uint16) ([]uint16, error) {
	if count == 0 || count > MaxReadRegisters {
		return nil, c.observe(FuncReadHoldingRegisters, fmt.Errorf("%w: read count %d", ErrRequest, count))
	}

	resp := make([]byte, readResponseOverhead+2*int(count))
	err := c.transact(ctx, buildReadRequest(c.cfg.UnitID, start, count), resp)
	if c.observe(FuncReadHoldingRegisters, err) != nil {
		return nil, err
	}
	return unpackRegisters(resp[3 : 3+2*int(count)]), nil
}

// WriteSingleRegister writes one register (FC 6). Any 8 bytes received
// before the deadline count as success.
func (c *Client) WriteSingleRegister(ctx context.Context, addr, value uint16) error {
	var resp [writeResponseSize]byte
	err := c.transact(ctx, buildWriteSingleRequest(c.cfg.UnitID, addr, value), resp[:])
	return c.observe(FuncWriteSingleRegister, err)
}

// WriteMultipleRegisters writes consecutive registers in one transaction (FC 16).
func (c *Client) WriteMultipleRegisters(ctx context.Context, start uint16, values []uint16) error {
	if len(values) == 0 || len(values) > MaxWriteRegisters {
		return c.observe(FuncWriteMultipleRegisters, fmt.Errorf("%w: write count %d", ErrRequest, len(values)))
	}

	var resp [writeResponseSize]byte
	err := c.transact(ctx, buildWriteMultipleRequest(c.cfg.UnitID, start, values), resp[:])
	return c.observe(FuncWriteMultipleRegisters, err)
}

func (c *Client) observe(fc byte, err error) error {
	if c.cfg.Observer != nil {
		c.cfg.Observer(fc, err)
	}
	return err
}

// transact discards stale input, sends req and fills resp.
// No retries.
func (c *Client) transact(ctx context.Context, req, resp []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := c.drain(); err != nil {
		return err
	}
	if _, err := c.port.Write(req); err != nil {
		return &IOError{Op: "write", Err: err}
	}
	return c.receive(ctx, resp)
}

func (c *Client) drain() error {
	return Drain(c.port)
}

func (c *Client) receive(ctx context.Context, dst []byte) error {
	return Receive(ctx, c.port, dst, time.Now().Add(c.cfg.Timeout), c.cfg.PollInterval)
}

// internal/dps/driver_test.go
package dps

import (
	"context"
	"errors"
	"reflect"
	"testing"
)

type regCall struct {
	fc     uint8
	addr   uint16
	values []uint16
}

type fakeRegisters struct {
	calls  []regCall
	status []uint16
	failFC uint8
}

func (f *fakeRegisters) ReadHoldingRegisters(ctx context.Context, start, count uint16) ([]uint16, error) {
	f.calls = append(f.calls, regCall{fc: 3, addr: start, values: []uint16{count}})
	if f.failFC == 3 {
		return nil, errors.New("fail fc3")
	}
	return f.status, nil
}

func (f *fakeRegisters) WriteSingleRegister(ctx context.Context, addr, value uint16) error {
	f.calls = append(f.calls, regCall{fc: 6, addr: addr, values: []uint16{value}})
	if f.failFC == 6 {
		return errors.New("fail fc6")
	}
	return nil
}

func (f *fakeRegisters) WriteMultipleRegisters(ctx context.Context, start uint16, values []uint16) error {
	f.calls = append(f.calls, regCall{fc: 16, addr: start, values: append([]uint16(nil), values...)})
	if f.failFC == 16 {
		return errors.New("fail fc16")
	}
	return nil
}

func newDriver(t *testing.T, f *fakeRegisters) *Driver {
	t.Helper()
	d, err := New(f)
	if err != nil {
		t.Fatalf("New() err=%v", err)
	}
	return d
}

func TestReadStatus_OneTransaction(t *testing.T) {
	f := &fakeRegisters{status: []uint16{1200, 500, 1198, 312, 374, 2400, 1, 2, 1, 1}}
	d := newDriver(t, f)

	st, err := d.ReadStatus(context.Background())
	if err != nil {
		t.Fatalf("ReadStatus err=%v", err)
	}

	want := Status{
		VoltageSet: 1200,
		CurrentSet: 500,
		VoltageOut: 1198,
		CurrentOut: 312,
		Power:      374,
		VoltageIn:  2400,
		Locked:     true,
		Protection: ProtectionOCP,
		Mode:       ModeCC,
		Output:     true,
	}
	if st != want {
		t.Fatalf("status mismatch:\n got=%+v\nwant=%+v", st, want)
	}

	if len(f.calls) != 1 {
		t.Fatalf("expected 1 transaction, got %d", len(f.calls))
	}
	if f.calls[0].addr != RegVoltageSet || f.calls[0].values[0] != 10 {
		t.Fatalf("unexpected read geometry: %+v", f.calls[0])
	}
}

func TestReadStatus_Failure(t *testing.T) {
	d := newDriver(t, &fakeRegisters{failFC: 3})
	if _, err := d.ReadStatus(context.Background()); err == nil {
		t.Fatalf("expected error, got nil")
	}
}

func TestReadStatus_ShortBlock(t *testing.T) {
	d := newDriver(t, &fakeRegisters{status: []uint16{1, 2, 3}})
	if _, err := d.ReadStatus(context.Background()); err == nil {
		t.Fatalf("expected error for short block, got nil")
	}
}

func TestSetters(t *testing.T) {
	f := &fakeRegisters{}
	d := newDriver(t, f)
	ctx := context.Background()

	if err := d.SetVoltage(ctx, 1200); err != nil {
		t.Fatalf("SetVoltage err=%v", err)
	}
	if err := d.SetCurrent(ctx, 500); err != nil {
		t.Fatalf("SetCurrent err=%v", err)
	}
	if err := d.SetVoltageAndCurrent(ctx, 3300, 1000); err != nil {
		t.Fatalf("SetVoltageAndCurrent err=%v", err)
	}
	if err := d.SetOutput(ctx, true); err != nil {
		t.Fatalf("SetOutput(true) err=%v", err)
	}
	if err := d.SetOutput(ctx, false); err != nil {
		t.Fatalf("SetOutput(false) err=%v", err)
	}

	want := []regCall{
		{fc: 6, addr: RegVoltageSet, values: []uint16{1200}},
		{fc: 6, addr: RegCurrentSet, values: []uint16{500}},
		{fc: 16, addr: RegVoltageSet, values: []uint16{3300, 1000}},
		{fc: 6, addr: RegOutput, values: []uint16{1}},
		{fc: 6, addr: RegOutput, values: []uint16{0}},
	}
	if !reflect.DeepEqual(f.calls, want) {
		t.Fatalf("calls mismatch:\n got=%+v\nwant=%+v", f.calls, want)
	}
}

func TestSetters_NoBoundsCheck(t *testing.T) {
	f := &fakeRegisters{}
	d := newDriver(t, f)

	if err := d.SetVoltage(context.Background(), 0xFFFF); err != nil {
		t.Fatalf("driver must not bounds-check, err=%v", err)
	}
	if CheckVoltage(0xFFFF) == nil {
		t.Fatalf("CheckVoltage should reject 0xFFFF")
	}
}

func TestSetOutput_Failure(t *testing.T) {
	d := newDriver(t, &fakeRegisters{failFC: 6})
	if err := d.SetOutput(context.Background(), true); err == nil {
		t.Fatalf("expected error, got nil")
	}
}

func TestCheckLimits(t *testing.T) {
	if err := CheckVoltage(MaxVoltage); err != nil {
		t.Fatalf("max voltage rejected: %v", err)
	}
	if err := CheckVoltage(MaxVoltage + 1); err == nil {
		t.Fatalf("expected voltage above max to be rejected")
	}
	if err := CheckCurrent(MaxCurrent); err != nil {
		t.Fatalf("max current rejected: %v", err)
	}
	if err := CheckCurrent(MaxCurrent + 1); err == nil {
		t.Fatalf("expected current above max to be rejected")
	}
}

package w65c02

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"retrocpu/alu65"
	"retrocpu/exec"
	"retrocpu/trace"
)

// fakeBus is a flat 64 KiB RAM, the W65C02 equivalent of the teacher's
// mem.Bus fake.
type fakeBus struct {
	ram [64 * 1024]byte
}

func (f *fakeBus) ReadByte(addr uint16) byte         { return f.ram[addr] }
func (f *fakeBus) WriteByte(addr uint16, data byte)  { f.ram[addr] = data }

func (f *fakeBus) load(addr uint16, bytes ...byte) {
	for i, v := range bytes {
		f.ram[int(addr)+i] = v
	}
}

// Scenario 1: ADC immediate with carry chain.
func TestADCImmediateCarryChain(t *testing.T) {
	b := &fakeBus{}
	b.load(0x0200, 0x69, 0x01) // ADC #$01
	c := New()
	c.PC = 0x0200
	c.A = 0xFF

	cycles := c.Step(b, trace.NullReporter{})

	assert.Equal(t, byte(0x00), c.A)
	assert.True(t, c.Flag(alu65.FlagC))
	assert.True(t, c.Flag(alu65.FlagZ))
	assert.False(t, c.Flag(alu65.FlagV))
	assert.False(t, c.Flag(alu65.FlagN))
	assert.Equal(t, uint64(2), cycles)
	assert.Equal(t, uint16(0x0202), c.PC)
}

// Scenario 2: BCC with a page-crossing branch target.
func TestBCCPageCross(t *testing.T) {
	b := &fakeBus{}
	b.load(0x20F0, 0x90, 0x42) // BCC +$42
	c := New()
	c.PC = 0x20F0

	cycles := c.Step(b, trace.NullReporter{})

	assert.Equal(t, uint16(0x2134), c.PC)
	assert.Equal(t, uint64(4), cycles)
}

// Scenario 3: JSR then RTS round-trip.
func TestJSRThenRTS(t *testing.T) {
	b := &fakeBus{}
	b.load(0x2000, 0x20, 0x34, 0x12) // JSR $1234
	b.load(0x1234, 0x60)             // RTS
	c := New()
	c.PC = 0x2000
	c.SP = 0xFF

	jsrCycles := c.Step(b, trace.NullReporter{})
	assert.Equal(t, uint16(0x1234), c.PC)
	assert.Equal(t, byte(0xFD), c.SP)
	assert.Equal(t, byte(0x20), b.ReadByte(0x01FF))
	assert.Equal(t, byte(0x02), b.ReadByte(0x01FE))
	assert.Equal(t, uint64(6), jsrCycles)

	rtsCycles := c.Step(b, trace.NullReporter{})
	assert.Equal(t, uint16(0x2003), c.PC)
	assert.Equal(t, byte(0xFF), c.SP)
	assert.Equal(t, uint64(6), rtsCycles)
}

func TestASLShiftsByOne(t *testing.T) {
	// The teacher's ASL shifted by 2 bits; this is the corrected handler.
	b := &fakeBus{}
	b.load(0x0300, 0x0A) // ASL A
	c := New()
	c.PC = 0x0300
	c.A = 0x01

	c.Step(b, trace.NullReporter{})

	assert.Equal(t, byte(0x02), c.A)
}

func TestADCDecimalMode(t *testing.T) {
	b := &fakeBus{}
	b.load(0x0400, 0x69, 0x46) // ADC #$46
	c := New()
	c.PC = 0x0400
	c.A = 0x58
	flagsSet(c, alu65.FlagD)

	c.Step(b, trace.NullReporter{})

	assert.Equal(t, byte(0x04), c.A)
	assert.True(t, c.Flag(alu65.FlagC))
}

func TestBRKPushesReturnAddressAndStatus(t *testing.T) {
	b := &fakeBus{}
	b.load(0x0500, 0x00) // BRK
	b.load(0xFFFE, 0x00, 0x90)
	c := New()
	c.PC = 0x0500
	c.SP = 0xFF
	c.P = 0

	c.Step(b, trace.NullReporter{})

	assert.Equal(t, uint16(0x9000), c.PC)
	assert.True(t, c.Flag(alu65.FlagI))
	assert.Equal(t, byte(0x05), b.ReadByte(0x01FF))
	assert.Equal(t, byte(0x02), b.ReadByte(0x01FE))
}

func TestExecuteStopsAtInstructionBudget(t *testing.T) {
	b := &fakeBus{}
	b.load(0x0600, 0xEA, 0xEA, 0xEA) // NOP NOP NOP
	c := New()
	c.PC = 0x0600

	max := uint64(2)
	result := c.Execute(b, exec.Plan{MaxInstructions: &max}, trace.NullReporter{})

	assert.Equal(t, uint64(2), result.TotalInstructions)
	assert.Equal(t, uint16(0x0602), c.PC)
}

func flagsSet(c *CPU, mask byte) { c.P |= mask }

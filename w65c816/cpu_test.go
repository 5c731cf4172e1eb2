package w65c816

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"retrocpu/alu65"
	"retrocpu/bus"
	"retrocpu/exec"
	"retrocpu/trace"
)

// fakeBus is a flat 16 MiB banked address space, one byte slice per bank
// allocated lazily so tests only pay for the banks they touch.
type fakeBus struct {
	banks map[byte]*[64 * 1024]byte
}

func newFakeBus() *fakeBus { return &fakeBus{banks: map[byte]*[64 * 1024]byte{}} }

func (f *fakeBus) bank(n byte) *[64 * 1024]byte {
	if f.banks[n] == nil {
		f.banks[n] = &[64 * 1024]byte{}
	}
	return f.banks[n]
}

func (f *fakeBus) ReadByte(addr bus.Addr24) byte { return f.bank(addr.Bank)[addr.Offset] }
func (f *fakeBus) WriteByte(addr bus.Addr24, data byte) { f.bank(addr.Bank)[addr.Offset] = data }

func (f *fakeBus) load(bank byte, offset uint16, bytes ...byte) {
	for i, v := range bytes {
		f.bank(bank)[int(offset)+i] = v
	}
}

// Scenario 4: native BRK.
func TestNativeBRK(t *testing.T) {
	b := newFakeBus()
	b.load(0xB0, 0xA000, 0x00, 0x00) // BRK, signature byte
	b.load(0x00, 0xFFE6, 0x34, 0x12) // native BRK vector -> $1234

	c := New()
	c.E = false
	c.PBR = 0xB0
	c.PC = 0xA000
	c.SP = 0xE0FF
	c.P = 0xAA

	c.Step(b, trace.NullReporter{})

	assert.Equal(t, uint16(0x1234), c.PC)
	assert.Equal(t, byte(0), c.PBR)
	assert.True(t, c.Flag(alu65.FlagI))
	assert.False(t, c.Flag(alu65.FlagD))

	assert.Equal(t, byte(0xB0), b.ReadByte(bus.Addr24{Bank: 0, Offset: 0xE0FF}))
	assert.Equal(t, byte(0xA0), b.ReadByte(bus.Addr24{Bank: 0, Offset: 0xE0FE}))
	assert.Equal(t, byte(0x02), b.ReadByte(bus.Addr24{Bank: 0, Offset: 0xE0FD}))
	assert.Equal(t, byte(0xAA), b.ReadByte(bus.Addr24{Bank: 0, Offset: 0xE0FC}))
	assert.Equal(t, uint16(0xE0FB), c.SP)
}

// Scenario 5: Direct-page DL!=0 cycle penalty.
func TestDirectPageDLPenalty(t *testing.T) {
	b := newFakeBus()
	b.load(0x00, 0x0000, 0xA5, 0x20) // LDA $20 (Direct)
	b.load(0x00, 0xFF30, 0x34, 0x12) // value at $00FF30-$00FF31

	c := New()
	c.E = false
	c.P &^= alu65.FlagM // M=0, 16-bit accumulator
	c.DP = 0xFF10
	c.PC = 0x0000

	cycles := c.Step(b, trace.NullReporter{})

	assert.Equal(t, uint16(0x1234), c.A)
	assert.Equal(t, uint64(4), cycles) // base 3 + DL penalty 1
}

func TestEmulationModeInvariantsOnReset(t *testing.T) {
	b := newFakeBus()
	b.load(0x00, 0xFFFC, 0x00, 0x80)

	c := New()
	c.Reset(b)

	assert.True(t, c.E)
	assert.True(t, c.Flag(alu65.FlagM))
	assert.True(t, c.Flag(alu65.FlagX))
	assert.Equal(t, uint16(0x01FF), c.SP)
	assert.Equal(t, uint16(0x8000), c.PC)
}

func TestSetSPPinsHighByteInEmulation(t *testing.T) {
	c := New()
	c.E = true
	c.SetSP(0x1234)
	assert.Equal(t, uint16(0x0134), c.SP)
}

func TestSetXMasksTo8BitsInIndex8Mode(t *testing.T) {
	c := New()
	c.X = 0x1234
	c.P |= alu65.FlagX
	c.SetX(0x5678)
	assert.Equal(t, uint16(0x0078), c.X)
}

func TestXCEEntersEmulationAndPinsInvariants(t *testing.T) {
	b := newFakeBus()
	b.load(0x00, 0x0000, 0xFB) // XCE
	c := New()
	c.E = false
	c.X = 0x1234
	c.Y = 0x5678
	c.SP = 0x1F00
	flagsSet(c, alu65.FlagC)

	c.Step(b, trace.NullReporter{})

	assert.True(t, c.E)
	assert.True(t, c.Flag(alu65.FlagM))
	assert.True(t, c.Flag(alu65.FlagX))
	assert.Equal(t, uint16(0x0034), c.X)
	assert.Equal(t, uint16(0x0078), c.Y)
	assert.Equal(t, uint16(0x0100), c.SP)
}

func TestADCWide16BitAccumulator(t *testing.T) {
	b := newFakeBus()
	b.load(0x00, 0x0000, 0x69, 0xFF, 0xFF) // ADC #$FFFF
	c := New()
	c.E = false
	c.P &^= alu65.FlagM
	c.A = 0x0001
	c.PC = 0x0000

	cycles := c.Step(b, trace.NullReporter{})

	assert.Equal(t, uint16(0x0000), c.A)
	assert.True(t, c.Flag(alu65.FlagC))
	assert.True(t, c.Flag(alu65.FlagZ))
	assert.Equal(t, uint64(2), cycles)
}

func TestMVNMovesBlock(t *testing.T) {
	b := newFakeBus()
	b.load(0x01, 0x0000, 0x54, 0x02, 0x01) // MVN dest=$02 src=$01
	b.load(0x01, 0x1000, 0xAA, 0xBB, 0xCC)

	c := New()
	c.E = false
	c.PBR = 0x01
	c.PC = 0x0000
	c.A = 2 // 3 bytes to move
	c.X = 0x1000
	c.Y = 0x2000

	c.Step(b, trace.NullReporter{})

	assert.Equal(t, byte(0xAA), b.ReadByte(bus.Addr24{Bank: 0x02, Offset: 0x2000}))
	assert.Equal(t, byte(0xBB), b.ReadByte(bus.Addr24{Bank: 0x02, Offset: 0x2001}))
	assert.Equal(t, byte(0xCC), b.ReadByte(bus.Addr24{Bank: 0x02, Offset: 0x2002}))
	assert.Equal(t, uint16(0xFFFF), c.A)
	assert.Equal(t, uint16(0x1003), c.X)
	assert.Equal(t, uint16(0x2003), c.Y)
	assert.Equal(t, byte(0x02), c.DBR)
}

func flagsSet(c *CPU, mask byte) { c.P |= mask }

package z80

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"retrocpu/trace"
)

// fakeBus is a flat 64 KiB RAM, matching the w65c02/w65c816 fakes.
type fakeBus struct {
	ram [64 * 1024]byte
}

func (f *fakeBus) ReadByte(addr uint16) byte        { return f.ram[addr] }
func (f *fakeBus) WriteByte(addr uint16, data byte) { f.ram[addr] = data }

func (f *fakeBus) load(addr uint16, bytes ...byte) {
	for i, v := range bytes {
		f.ram[int(addr)+i] = v
	}
}

// Scenario 6: LDIR copies a 3-byte block and clears BC, leaving HL/DE past
// the end of their respective runs.
func TestLDIRBlockMove(t *testing.T) {
	b := &fakeBus{}
	b.load(0x4000, 0xAA, 0xBB, 0xCC)
	b.load(0x0000, 0xED, 0xB0) // LDIR
	c := New(Options{})
	c.Reset(b)
	c.PC = 0x0000
	c.SetHL(0x4000)
	c.SetDE(0x5000)
	c.SetBC(0x0003)

	var total uint64
	for i := 0; i < 3; i++ {
		c.PC = 0x0000
		total += c.Step(b, trace.NullReporter{})
	}

	assert.Equal(t, byte(0xAA), b.ReadByte(0x5000))
	assert.Equal(t, byte(0xBB), b.ReadByte(0x5001))
	assert.Equal(t, byte(0xCC), b.ReadByte(0x5002))
	assert.Equal(t, uint16(0), c.BC())
	assert.Equal(t, uint16(0x4003), c.HL())
	assert.Equal(t, uint16(0x5003), c.DE())
	assert.Equal(t, uint64(21+21+16), total)
}

func TestADDAImmediateSetsFlags(t *testing.T) {
	b := &fakeBus{}
	b.load(0x0000, 0xC6, 0x01) // ADD A,#$01
	c := New(Options{})
	c.Reset(b)
	c.A = 0xFF

	cycles := c.Step(b, trace.NullReporter{})

	assert.Equal(t, byte(0x00), c.A)
	assert.True(t, c.flag(FlagZ))
	assert.True(t, c.flag(FlagC))
	assert.True(t, c.flag(FlagH))
	assert.Equal(t, uint64(7), cycles)
}

func TestJRTakenAddsFiveCycles(t *testing.T) {
	b := &fakeBus{}
	b.load(0x0000, 0x18, 0x05) // JR +5
	c := New(Options{})
	c.Reset(b)

	cycles := c.Step(b, trace.NullReporter{})

	assert.Equal(t, uint16(0x0007), c.PC)
	assert.Equal(t, uint64(12), cycles)
}

func TestDJNZLoopsUntilZero(t *testing.T) {
	b := &fakeBus{}
	b.load(0x0000, 0x10, 0xFE) // DJNZ -2 (loop on itself)
	c := New(Options{})
	c.Reset(b)
	c.B = 3

	c.PC = 0x0000
	cycles1 := c.Step(b, trace.NullReporter{})
	assert.Equal(t, byte(2), c.B)
	assert.Equal(t, uint16(0x0000), c.PC)
	assert.Equal(t, uint64(13), cycles1)

	c.B = 1
	c.PC = 0x0000
	cycles2 := c.Step(b, trace.NullReporter{})
	assert.Equal(t, byte(0), c.B)
	assert.Equal(t, uint16(0x0002), c.PC)
	assert.Equal(t, uint64(8), cycles2)
}

func TestCBBitTestsBit7(t *testing.T) {
	b := &fakeBus{}
	b.load(0x0000, 0xCB, 0x7F) // BIT 7,A
	c := New(Options{})
	c.Reset(b)
	c.A = 0x80

	cycles := c.Step(b, trace.NullReporter{})

	assert.False(t, c.flag(FlagZ))
	assert.True(t, c.flag(FlagS))
	assert.True(t, c.flag(FlagH))
	assert.False(t, c.flag(FlagN))
	assert.Equal(t, uint64(8), cycles)
}

func TestDDLoadFromIndexedAddress(t *testing.T) {
	b := &fakeBus{}
	b.load(0x0000, 0xDD, 0x7E, 0x02) // LD A,(IX+2)
	b.load(0x1002, 0x42)
	c := New(Options{})
	c.Reset(b)
	c.IX = 0x1000

	cycles := c.Step(b, trace.NullReporter{})

	assert.Equal(t, byte(0x42), c.A)
	assert.Equal(t, uint64(19), cycles)
}

// A DD/FD prefix in front of an opcode with no indexed form falls back to
// the unprefixed instruction, with the prefix itself costing 4 cycles.
func TestDDPrefixResetFallsBackToUnprefixed(t *testing.T) {
	b := &fakeBus{}
	b.load(0x0000, 0xDD, 0x00) // DD NOP
	c := New(Options{})
	c.Reset(b)

	cycles := c.Step(b, trace.NullReporter{})

	assert.Equal(t, uint16(0x0002), c.PC)
	assert.Equal(t, uint64(8), cycles)
}

func TestIM1InterruptEntry(t *testing.T) {
	b := &fakeBus{}
	c := New(Options{})
	c.Reset(b)
	c.IFF1 = true
	c.IM = 1
	c.PC = 0x1234
	c.SP = 0x8000

	cycles := c.IRQ(b, 0x00)

	assert.Equal(t, uint16(0x0038), c.PC)
	assert.False(t, c.IFF1)
	assert.Equal(t, uint64(13), cycles)
	assert.Equal(t, uint16(0x1234), c.pull16(b))
}

func TestHaltRefetchesWithoutAdvancingPC(t *testing.T) {
	b := &fakeBus{}
	b.load(0x0000, 0x76) // HALT
	c := New(Options{})
	c.Reset(b)

	c.Step(b, trace.NullReporter{})
	assert.True(t, c.Halted)
	pcAfterHalt := c.PC

	cycles := c.Step(b, trace.NullReporter{})
	assert.Equal(t, pcAfterHalt, c.PC)
	assert.Equal(t, uint64(4), cycles)
}

// fakePortBus adds the separate 8-bit port space to fakeBus so IN/OUT and
// the block I/O group have somewhere real to land.
type fakePortBus struct {
	fakeBus
	ports [256]byte
}

func (f *fakePortBus) ReadPort(port byte) byte        { return f.ports[port] }
func (f *fakePortBus) WritePort(port byte, data byte) { f.ports[port] = data }

func TestOUTWritesToPortSpace(t *testing.T) {
	b := &fakePortBus{}
	b.load(0x0000, 0xD3, 0x7F) // OUT ($7F),A
	c := New(Options{})
	c.Reset(b)
	c.A = 0x42

	c.Step(b, trace.NullReporter{})
	assert.Equal(t, byte(0x42), b.ports[0x7F])
}

func TestINReadsFromPortSpace(t *testing.T) {
	b := &fakePortBus{}
	b.load(0x0000, 0xDB, 0x7F) // IN A,($7F)
	b.ports[0x7F] = 0x99
	c := New(Options{})
	c.Reset(b)

	c.Step(b, trace.NullReporter{})
	assert.Equal(t, byte(0x99), c.A)
}

func TestOTIRWritesEachByteThroughPortSpace(t *testing.T) {
	b := &fakePortBus{}
	b.load(0x4000, 0xAA, 0xBB)
	b.load(0x0000, 0xED, 0xB3) // OTIR
	c := New(Options{})
	c.Reset(b)
	c.SetHL(0x4000)
	c.B = 2
	c.C = 0x10

	c.Step(b, trace.NullReporter{})
	assert.Equal(t, byte(0xAA), b.ports[0x10])
	c.Step(b, trace.NullReporter{})
	assert.Equal(t, byte(0xBB), b.ports[0x10])
	assert.Equal(t, byte(0), c.B)
}

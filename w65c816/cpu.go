// Package w65c816 implements the WDC W65C816, the 65C02's 16-bit-capable
// successor: a 24-bit banked address space, width-switchable accumulator
// and index registers, and an emulation mode that behaves compatibly with
// the W65C02. It reuses alu65 for the arithmetic shared with that CPU.
package w65c816

import (
	"fmt"

	"retrocpu/alu65"
	"retrocpu/bus"
	"retrocpu/exec"
	"retrocpu/trace"
)

// Reset/interrupt vector pairs, bit-exact per spec.md s6 and
// original_source's int.rs. All vectors live in bank 0.
const (
	resetVector        uint16 = 0xFFFC
	emulationIRQVector  uint16 = 0xFFFE
	emulationCOPVector  uint16 = 0xFFF4
	nativeIRQVector     uint16 = 0xFFEE
	nativeBRKVector     uint16 = 0xFFE6
	nativeCOPVector     uint16 = 0xFFE4
)

// CPU holds the full '816 architectural state. A, X and Y are stored full
// width; whether the high byte is meaningful depends on the M/X flags and
// is enforced by SetA/SetX/SetY rather than by the storage type.
type CPU struct {
	A      uint16
	X      uint16
	Y      uint16
	SP     uint16
	PC     uint16
	PBR    byte
	DBR    byte
	DP     uint16
	P      byte
	E      bool // emulation flip-flop
}

// New returns a zeroed CPU. Call Reset before stepping it.
func New() *CPU {
	return &CPU{}
}

func (c *CPU) Flag(mask byte) bool { return c.P&mask == mask }

// accum8 reports whether the accumulator is 8 bits wide (M flag, forced 1
// in emulation mode).
func (c *CPU) accum8() bool { return c.E || c.Flag(alu65.FlagM) }

// index8 reports whether X/Y are 8 bits wide (X flag, forced 1 in
// emulation mode).
func (c *CPU) index8() bool { return c.E || c.Flag(alu65.FlagX) }

// SetA writes the accumulator, masking to 8 bits when narrow.
func (c *CPU) SetA(v uint16) {
	if c.accum8() {
		c.A = (c.A &^ 0xFF) | (v & 0xFF)
	} else {
		c.A = v
	}
}

// SetX writes X, masking to 8 bits (high byte forced to 0, not preserved)
// when narrow -- spec.md s4.2's "writing a 16-bit value... masks to 8
// bits".
func (c *CPU) SetX(v uint16) {
	if c.index8() {
		c.X = v & 0xFF
	} else {
		c.X = v
	}
}

// SetY writes Y with the same width rule as SetX.
func (c *CPU) SetY(v uint16) {
	if c.index8() {
		c.Y = v & 0xFF
	} else {
		c.Y = v
	}
}

// SetSP writes SP. Every SP write passes through this guard: in emulation
// mode the high byte is pinned to $01 regardless of what's written (design
// notes Open Question: "every SP write must pass through a guard").
func (c *CPU) SetSP(v uint16) {
	if c.E {
		c.SP = 0x0100 | (v & 0xFF)
	} else {
		c.SP = v
	}
}

// enterEmulation forces the emulation-mode invariants: M=1, X=1, XH=YH=0,
// SPH=$01 (spec.md s3 Invariants; reg.rs's set_mode_emulated).
func (c *CPU) enterEmulation() {
	c.E = true
	c.P |= alu65.FlagM | alu65.FlagX
	c.X &= 0xFF
	c.Y &= 0xFF
	c.SetSP(c.SP)
}

// pbrForAddressing and dbrForAddressing return PBR/DBR as address formation
// sees them: 0 in emulation mode (spec.md s3).
func (c *CPU) pbrForAddressing() byte {
	if c.E {
		return 0
	}
	return c.PBR
}

func (c *CPU) dbrForAddressing() byte {
	if c.E {
		return 0
	}
	return c.DBR
}

func (c *CPU) push8(b bus.MemBus24, v byte) {
	b.WriteByte(bus.Addr24{Bank: 0, Offset: c.SP}, v)
	c.SetSP(c.SP - 1)
}

func (c *CPU) pull8(b bus.MemBus24) byte {
	c.SetSP(c.SP + 1)
	return b.ReadByte(bus.Addr24{Bank: 0, Offset: c.SP})
}

func (c *CPU) push16(b bus.MemBus24, v uint16) {
	c.push8(b, byte(v>>8))
	c.push8(b, byte(v))
}

func (c *CPU) pull16(b bus.MemBus24) uint16 {
	lo := c.pull8(b)
	hi := c.pull8(b)
	return uint16(hi)<<8 | uint16(lo)
}

// Reset enters emulation mode and loads PC from the 6502-compatible reset
// vector, per spec.md s6.
func (c *CPU) Reset(b bus.MemBus24) {
	c.A, c.X, c.Y = 0, 0, 0
	c.DP = 0
	c.DBR = 0
	c.PBR = 0
	c.P = alu65.FlagI | alu65.FlagUnused
	c.enterEmulation()
	c.SetSP(0x01FF)
	c.PC = bus.ReadWord24(b, bus.Addr24{Bank: 0, Offset: resetVector}, bus.Word)
}

// UnimplementedOpcodeError reports a decode-table miss, always fatal.
type UnimplementedOpcodeError struct {
	Opcode byte
	PC     uint16
	PBR    byte
}

func (e *UnimplementedOpcodeError) Error() string {
	return fmt.Sprintf("w65c816: unimplemented opcode %#02x at %02x:%04x", e.Opcode, e.PBR, e.PC)
}

// Step fetches, decodes and executes exactly one instruction.
func (c *CPU) Step(b bus.MemBus24, reporter trace.Reporter) uint64 {
	startPC, startPBR := c.PC, c.PBR
	opAddr := bus.Addr24{Bank: c.pbrForAddressing(), Offset: c.PC}
	opByte := b.ReadByte(opAddr)
	c.PC++

	op, ok := opcodes[opByte]
	if !ok {
		panic(&UnimplementedOpcodeError{Opcode: opByte, PC: startPC, PBR: startPBR})
	}

	eff := evalMode(c, b, op.Mode)
	extra := op.Run(c, b, eff)
	cycles := uint64(op.BaseCycles) + uint64(extra)

	reporter.Report(func() trace.Event {
		return trace.Event{PBR: startPBR, PC: startPC, Instruction: op.Name, Operands: eff.String()}
	})

	return cycles
}

// Execute runs Step in a loop until plan completes.
func (c *CPU) Execute(b bus.MemBus24, plan exec.Plan, reporter trace.Reporter) exec.Result {
	var cycles, instructions uint64
	for !plan.Complete(cycles, instructions) {
		cycles += c.Step(b, reporter)
		instructions++
	}
	return exec.Result{TotalCycles: cycles, TotalInstructions: instructions}
}

func (c *CPU) String() string {
	return fmt.Sprintf("A=%04x X=%04x Y=%04x SP=%04x PBR=%02x PC=%04x DBR=%02x DP=%04x P=%08b E=%v",
		c.A, c.X, c.Y, c.SP, c.PBR, c.PC, c.DBR, c.DP, c.P, c.E)
}

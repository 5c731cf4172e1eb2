// Package z80 implements the Zilog Z80: its main and shadow register
// files, the S/Z/H/P-V/N/C flag model (with the undocumented F3/F5 copies),
// the block and indexed (IX/IY) instruction groups, and interrupt modes
// 0/1/2. Decoding follows the same flat decode-table convention as the
// alu65-sharing 65xx cores, adapted to the Z80's register-index (r, rr)
// opcode encoding; handlers decode their own operands, and there is no
// Effective operand type here.
package z80

import (
	"fmt"

	"retrocpu/bus"
	"retrocpu/exec"
	"retrocpu/trace"
)

// Options holds board-level timing hooks. M1WaitCycles is added to the cost
// of every Step. The 65xx packages have no Options type.
type Options struct {
	M1WaitCycles uint
}

// CPU holds the full architectural state: main and shadow register sets,
// the index registers, and the interrupt machinery.
type CPU struct {
	A, F, B, C, D, E, H, L        byte
	A_, F_, B_, C_, D_, E_, H_, L_ byte
	IX, IY                        uint16
	SP, PC                        uint16
	I, R                          byte
	IFF1, IFF2                    bool
	IM                            byte
	Halted                        bool

	opts Options
}

// New returns a zeroed CPU configured with opts. Call Reset before stepping.
func New(opts Options) *CPU {
	return &CPU{opts: opts}
}

func (c *CPU) BC() uint16 { return uint16(c.B)<<8 | uint16(c.C) }
func (c *CPU) DE() uint16 { return uint16(c.D)<<8 | uint16(c.E) }
func (c *CPU) HL() uint16 { return uint16(c.H)<<8 | uint16(c.L) }
func (c *CPU) AF() uint16 { return uint16(c.A)<<8 | uint16(c.F) }

func (c *CPU) SetBC(v uint16) { c.B, c.C = byte(v>>8), byte(v) }
func (c *CPU) SetDE(v uint16) { c.D, c.E = byte(v>>8), byte(v) }
func (c *CPU) SetHL(v uint16) { c.H, c.L = byte(v>>8), byte(v) }
func (c *CPU) SetAF(v uint16) { c.A, c.F = byte(v>>8), byte(v) }

// swapAF exchanges AF with the shadow AF' (spec.md s4.2's swap_af).
func (c *CPU) swapAF() {
	c.A, c.A_ = c.A_, c.A
	c.F, c.F_ = c.F_, c.F
}

// exx exchanges BC/DE/HL with the shadow set (swap_bc_de_hl).
func (c *CPU) exx() {
	c.B, c.B_ = c.B_, c.B
	c.C, c.C_ = c.C_, c.C
	c.D, c.D_ = c.D_, c.D
	c.E, c.E_ = c.E_, c.E
	c.H, c.H_ = c.H_, c.H
	c.L, c.L_ = c.L_, c.L
}

// Reset sets PC=0, I=R=0, IFF1=IFF2=0, IM=0 per spec.md s6.
func (c *CPU) Reset(b bus.MemBus16) {
	*c = CPU{opts: c.opts}
	c.SP = 0xFFFF
}

// UnimplementedOpcodeError reports a decode-table miss, carrying whatever
// prefix bytes preceded the final opcode byte.
type UnimplementedOpcodeError struct {
	Prefix []byte
	Opcode byte
	PC     uint16
}

func (e *UnimplementedOpcodeError) Error() string {
	return fmt.Sprintf("z80: unimplemented opcode %v%#02x at %#04x", e.Prefix, e.Opcode, e.PC)
}

// fetch8 reads the byte at PC and advances it.
func (c *CPU) fetch8(b bus.MemBus16) byte {
	v := b.ReadByte(c.PC)
	c.PC++
	return v
}

func (c *CPU) fetch16(b bus.MemBus16) uint16 {
	lo := c.fetch8(b)
	hi := c.fetch8(b)
	return uint16(hi)<<8 | uint16(lo)
}

func (c *CPU) push16(b bus.MemBus16, v uint16) {
	c.SP--
	b.WriteByte(c.SP, byte(v>>8))
	c.SP--
	b.WriteByte(c.SP, byte(v))
}

func (c *CPU) pull16(b bus.MemBus16) uint16 {
	lo := b.ReadByte(c.SP)
	c.SP++
	hi := b.ReadByte(c.SP)
	c.SP++
	return uint16(hi)<<8 | uint16(lo)
}

// Step fetches, decodes and executes exactly one instruction, including
// prefix handling (CB/ED/DD/FD and the DD/FD-then-CB combination) and the
// Halted re-fetch behaviour.
func (c *CPU) Step(b bus.MemBus16, reporter trace.Reporter) uint64 {
	if c.Halted {
		reporter.Report(func() trace.Event {
			return trace.Event{PC: c.PC, Instruction: "HALT"}
		})
		return 4 + uint64(c.opts.M1WaitCycles)
	}

	startPC := c.PC
	c.R = (c.R & 0x80) | ((c.R + 1) & 0x7F)
	opByte := c.fetch8(b)

	var name string
	var cycles uint64

	switch opByte {
	case 0xCB:
		opByte2 := c.fetch8(b)
		op, ok := cbOpcodes[opByte2]
		if !ok {
			panic(&UnimplementedOpcodeError{Prefix: []byte{0xCB}, Opcode: opByte2, PC: startPC})
		}
		name, cycles = op.Name, uint64(op.Cycles)
		op.Run(c, b)

	case 0xED:
		opByte2 := c.fetch8(b)
		op, ok := edOpcodes[opByte2]
		if !ok {
			panic(&UnimplementedOpcodeError{Prefix: []byte{0xED}, Opcode: opByte2, PC: startPC})
		}
		name, cycles = op.Name, uint64(op.Cycles)
		cycles += op.Run(c, b)

	case 0xDD:
		name, cycles = c.stepIndexed(b, &c.IX, 0xDD, startPC)

	case 0xFD:
		name, cycles = c.stepIndexed(b, &c.IY, 0xFD, startPC)

	default:
		op, ok := opcodes[opByte]
		if !ok {
			panic(&UnimplementedOpcodeError{Opcode: opByte, PC: startPC})
		}
		name, cycles = op.Name, uint64(op.Cycles)
		cycles += op.Run(c, b)
	}

	cycles += uint64(c.opts.M1WaitCycles)

	reporter.Report(func() trace.Event {
		return trace.Event{PC: startPC, Instruction: name}
	})

	return cycles
}

// Execute runs Step in a loop until plan completes.
func (c *CPU) Execute(b bus.MemBus16, plan exec.Plan, reporter trace.Reporter) exec.Result {
	var cycles, instructions uint64
	for !plan.Complete(cycles, instructions) {
		cycles += c.Step(b, reporter)
		instructions++
	}
	return exec.Result{TotalCycles: cycles, TotalInstructions: instructions}
}

// NMI enters a non-maskable interrupt: IFF1 is cleared (IFF2 retains the
// previous IFF1 so RETN can restore it), PC is pushed, and control jumps to
// $0066.
func (c *CPU) NMI(b bus.MemBus16) uint64 {
	c.Halted = false
	c.IFF2 = c.IFF1
	c.IFF1 = false
	c.push16(b, c.PC)
	c.PC = 0x0066
	return 11
}

// IRQ services a maskable interrupt if IFF1 is set. opcode is the byte the
// interrupting device places on the bus: IM0 executes it as an instruction,
// IM2 uses it as the low byte of the vector address, IM1 ignores it.
func (c *CPU) IRQ(b bus.MemBus16, opcode byte) uint64 {
	if !c.IFF1 {
		return 0
	}
	c.Halted = false
	c.IFF1, c.IFF2 = false, false

	switch c.IM {
	case 0:
		op, ok := opcodes[opcode]
		if !ok {
			panic(&UnimplementedOpcodeError{Opcode: opcode, PC: c.PC})
		}
		op.Run(c, b)
		return uint64(op.Cycles) + 2
	case 1:
		c.push16(b, c.PC)
		c.PC = 0x0038
		return 13
	case 2:
		vector := uint16(c.I)<<8 | uint16(opcode)
		c.push16(b, c.PC)
		c.PC = bus.ReadWord16(b, vector)
		return 19
	}
	return 0
}

func (c *CPU) String() string {
	return fmt.Sprintf("AF=%04x BC=%04x DE=%04x HL=%04x IX=%04x IY=%04x SP=%04x PC=%04x IFF1=%v IFF2=%v IM=%d",
		c.AF(), c.BC(), c.DE(), c.HL(), c.IX, c.IY, c.SP, c.PC, c.IFF1, c.IFF2, c.IM)
}

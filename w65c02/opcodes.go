package w65c02

import (
	"retrocpu/alu65"
	"retrocpu/bus"
)

// Opcode is one decode-table entry: mnemonic, addressing mode, base cycle
// count and the handler it dispatches to. Several opcode bytes share the
// same handler (e.g. every ADC addressing mode calls the same adc
// function); what differs per byte is the mode and the base cost.
type Opcode struct {
	Name       string
	Mode       Mode
	BaseCycles byte
	Run        handler
}

// opcodes is the flat byte -> Opcode dispatch table (spec.md s4.6). Illegal
// byte values on real silicon behave as documented NOPs of varying length;
// this table only lists the opcodes this emulator implements, and a miss
// panics via UnimplementedOpcodeError rather than guessing at undocumented
// behaviour.
var opcodes = map[byte]Opcode{}

func ldaRun(c *CPU, b bus.MemBus16, eff Effective) byte {
	c.A = eff.Load(c, b)
	setNZ(c, c.A)
	return pageCrossPenalty(eff)
}

func ldxRun(c *CPU, b bus.MemBus16, eff Effective) byte {
	c.X = eff.Load(c, b)
	setNZ(c, c.X)
	return pageCrossPenalty(eff)
}

func ldyRun(c *CPU, b bus.MemBus16, eff Effective) byte {
	c.Y = eff.Load(c, b)
	setNZ(c, c.Y)
	return pageCrossPenalty(eff)
}

func staRun(c *CPU, b bus.MemBus16, eff Effective) byte { eff.Store(c, b, c.A); return 0 }
func stxRun(c *CPU, b bus.MemBus16, eff Effective) byte { eff.Store(c, b, c.X); return 0 }
func styRun(c *CPU, b bus.MemBus16, eff Effective) byte { eff.Store(c, b, c.Y); return 0 }

func regA(c *CPU) byte  { return c.A }
func regX(c *CPU) byte  { return c.X }
func regY(c *CPU) byte  { return c.Y }
func ptrX(c *CPU) *byte { return &c.X }
func ptrY(c *CPU) *byte { return &c.Y }

func init() {
	add := func(b byte, name string, mode Mode, cycles byte, run handler) {
		opcodes[b] = Opcode{Name: name, Mode: mode, BaseCycles: cycles, Run: run}
	}

	// Loads.
	add(0xA9, "LDA", Immediate, 2, ldaRun)
	add(0xA5, "LDA", ZeroPage, 3, ldaRun)
	add(0xB5, "LDA", ZeroPageX, 4, ldaRun)
	add(0xAD, "LDA", Absolute, 4, ldaRun)
	add(0xBD, "LDA", AbsoluteX, 4, ldaRun)
	add(0xB9, "LDA", AbsoluteY, 4, ldaRun)
	add(0xA1, "LDA", IndirectX, 6, ldaRun)
	add(0xB1, "LDA", IndirectY, 5, ldaRun)
	add(0xB2, "LDA", ZeroPageIndirect, 5, ldaRun)

	add(0xA2, "LDX", Immediate, 2, ldxRun)
	add(0xA6, "LDX", ZeroPage, 3, ldxRun)
	add(0xB6, "LDX", ZeroPageY, 4, ldxRun)
	add(0xAE, "LDX", Absolute, 4, ldxRun)
	add(0xBE, "LDX", AbsoluteY, 4, ldxRun)

	add(0xA0, "LDY", Immediate, 2, ldyRun)
	add(0xA4, "LDY", ZeroPage, 3, ldyRun)
	add(0xB4, "LDY", ZeroPageX, 4, ldyRun)
	add(0xAC, "LDY", Absolute, 4, ldyRun)
	add(0xBC, "LDY", AbsoluteX, 4, ldyRun)

	// Stores.
	add(0x85, "STA", ZeroPage, 3, staRun)
	add(0x95, "STA", ZeroPageX, 4, staRun)
	add(0x8D, "STA", Absolute, 4, staRun)
	add(0x9D, "STA", AbsoluteX, 5, staRun)
	add(0x99, "STA", AbsoluteY, 5, staRun)
	add(0x81, "STA", IndirectX, 6, staRun)
	add(0x91, "STA", IndirectY, 6, staRun)
	add(0x92, "STA", ZeroPageIndirect, 5, staRun)

	add(0x86, "STX", ZeroPage, 3, stxRun)
	add(0x96, "STX", ZeroPageY, 4, stxRun)
	add(0x8E, "STX", Absolute, 4, stxRun)

	add(0x84, "STY", ZeroPage, 3, styRun)
	add(0x94, "STY", ZeroPageX, 4, styRun)
	add(0x8C, "STY", Absolute, 4, styRun)

	add(0x64, "STZ", ZeroPage, 3, stz)
	add(0x74, "STZ", ZeroPageX, 4, stz)
	add(0x9C, "STZ", Absolute, 4, stz)
	add(0x9E, "STZ", AbsoluteX, 5, stz)

	// Register transfers.
	add(0xAA, "TAX", Implied, 2, func(c *CPU, b bus.MemBus16, eff Effective) byte { c.X = c.A; setNZ(c, c.X); return 0 })
	add(0xA8, "TAY", Implied, 2, func(c *CPU, b bus.MemBus16, eff Effective) byte { c.Y = c.A; setNZ(c, c.Y); return 0 })
	add(0x8A, "TXA", Implied, 2, func(c *CPU, b bus.MemBus16, eff Effective) byte { c.A = c.X; setNZ(c, c.A); return 0 })
	add(0x98, "TYA", Implied, 2, func(c *CPU, b bus.MemBus16, eff Effective) byte { c.A = c.Y; setNZ(c, c.A); return 0 })
	add(0xBA, "TSX", Implied, 2, func(c *CPU, b bus.MemBus16, eff Effective) byte { c.X = c.SP; setNZ(c, c.X); return 0 })
	add(0x9A, "TXS", Implied, 2, func(c *CPU, b bus.MemBus16, eff Effective) byte { c.SP = c.X; return 0 })

	// Stack.
	add(0x48, "PHA", Implied, 3, pha)
	add(0x68, "PLA", Implied, 4, pla)
	add(0x08, "PHP", Implied, 3, php)
	add(0x28, "PLP", Implied, 4, plp)
	add(0xDA, "PHX", Implied, 3, phx)
	add(0xFA, "PLX", Implied, 4, plx)
	add(0x5A, "PHY", Implied, 3, phy)
	add(0x7A, "PLY", Implied, 4, ply)

	// Bitwise.
	add(0x29, "AND", Immediate, 2, bitwise(alu65.And))
	add(0x25, "AND", ZeroPage, 3, bitwise(alu65.And))
	add(0x35, "AND", ZeroPageX, 4, bitwise(alu65.And))
	add(0x2D, "AND", Absolute, 4, bitwise(alu65.And))
	add(0x3D, "AND", AbsoluteX, 4, bitwise(alu65.And))
	add(0x39, "AND", AbsoluteY, 4, bitwise(alu65.And))
	add(0x21, "AND", IndirectX, 6, bitwise(alu65.And))
	add(0x31, "AND", IndirectY, 5, bitwise(alu65.And))
	add(0x32, "AND", ZeroPageIndirect, 5, bitwise(alu65.And))

	add(0x09, "ORA", Immediate, 2, bitwise(alu65.Or))
	add(0x05, "ORA", ZeroPage, 3, bitwise(alu65.Or))
	add(0x15, "ORA", ZeroPageX, 4, bitwise(alu65.Or))
	add(0x0D, "ORA", Absolute, 4, bitwise(alu65.Or))
	add(0x1D, "ORA", AbsoluteX, 4, bitwise(alu65.Or))
	add(0x19, "ORA", AbsoluteY, 4, bitwise(alu65.Or))
	add(0x01, "ORA", IndirectX, 6, bitwise(alu65.Or))
	add(0x11, "ORA", IndirectY, 5, bitwise(alu65.Or))
	add(0x12, "ORA", ZeroPageIndirect, 5, bitwise(alu65.Or))

	add(0x49, "EOR", Immediate, 2, bitwise(alu65.Xor))
	add(0x45, "EOR", ZeroPage, 3, bitwise(alu65.Xor))
	add(0x55, "EOR", ZeroPageX, 4, bitwise(alu65.Xor))
	add(0x4D, "EOR", Absolute, 4, bitwise(alu65.Xor))
	add(0x5D, "EOR", AbsoluteX, 4, bitwise(alu65.Xor))
	add(0x59, "EOR", AbsoluteY, 4, bitwise(alu65.Xor))
	add(0x41, "EOR", IndirectX, 6, bitwise(alu65.Xor))
	add(0x51, "EOR", IndirectY, 5, bitwise(alu65.Xor))
	add(0x52, "EOR", ZeroPageIndirect, 5, bitwise(alu65.Xor))

	// BIT.
	add(0x89, "BIT", Immediate, 2, bitTestMode(true))
	add(0x24, "BIT", ZeroPage, 3, bitTestMode(false))
	add(0x34, "BIT", ZeroPageX, 4, bitTestMode(false))
	add(0x2C, "BIT", Absolute, 4, bitTestMode(false))
	add(0x3C, "BIT", AbsoluteX, 4, bitTestMode(false))

	// Arithmetic.
	add(0x69, "ADC", Immediate, 2, adc)
	add(0x65, "ADC", ZeroPage, 3, adc)
	add(0x75, "ADC", ZeroPageX, 4, adc)
	add(0x6D, "ADC", Absolute, 4, adc)
	add(0x7D, "ADC", AbsoluteX, 4, adc)
	add(0x79, "ADC", AbsoluteY, 4, adc)
	add(0x61, "ADC", IndirectX, 6, adc)
	add(0x71, "ADC", IndirectY, 5, adc)
	add(0x72, "ADC", ZeroPageIndirect, 5, adc)

	add(0xE9, "SBC", Immediate, 2, sbc)
	add(0xE5, "SBC", ZeroPage, 3, sbc)
	add(0xF5, "SBC", ZeroPageX, 4, sbc)
	add(0xED, "SBC", Absolute, 4, sbc)
	add(0xFD, "SBC", AbsoluteX, 4, sbc)
	add(0xF9, "SBC", AbsoluteY, 4, sbc)
	add(0xE1, "SBC", IndirectX, 6, sbc)
	add(0xF1, "SBC", IndirectY, 5, sbc)
	add(0xF2, "SBC", ZeroPageIndirect, 5, sbc)

	add(0xC9, "CMP", Immediate, 2, compareWith(regA))
	add(0xC5, "CMP", ZeroPage, 3, compareWith(regA))
	add(0xD5, "CMP", ZeroPageX, 4, compareWith(regA))
	add(0xCD, "CMP", Absolute, 4, compareWith(regA))
	add(0xDD, "CMP", AbsoluteX, 4, compareWith(regA))
	add(0xD9, "CMP", AbsoluteY, 4, compareWith(regA))
	add(0xC1, "CMP", IndirectX, 6, compareWith(regA))
	add(0xD1, "CMP", IndirectY, 5, compareWith(regA))
	add(0xD2, "CMP", ZeroPageIndirect, 5, compareWith(regA))

	add(0xE0, "CPX", Immediate, 2, compareWith(regX))
	add(0xE4, "CPX", ZeroPage, 3, compareWith(regX))
	add(0xEC, "CPX", Absolute, 4, compareWith(regX))

	add(0xC0, "CPY", Immediate, 2, compareWith(regY))
	add(0xC4, "CPY", ZeroPage, 3, compareWith(regY))
	add(0xCC, "CPY", Absolute, 4, compareWith(regY))

	// Inc/Dec.
	add(0xE6, "INC", ZeroPage, 5, incMem)
	add(0xF6, "INC", ZeroPageX, 6, incMem)
	add(0xEE, "INC", Absolute, 6, incMem)
	add(0xFE, "INC", AbsoluteX, 7, incMem)
	add(0x1A, "INC", Accumulator, 2, incMem)

	add(0xC6, "DEC", ZeroPage, 5, decMem)
	add(0xD6, "DEC", ZeroPageX, 6, decMem)
	add(0xCE, "DEC", Absolute, 6, decMem)
	add(0xDE, "DEC", AbsoluteX, 7, decMem)
	add(0x3A, "DEC", Accumulator, 2, decMem)

	add(0xE8, "INX", Implied, 2, incReg(ptrX))
	add(0xC8, "INY", Implied, 2, incReg(ptrY))
	add(0xCA, "DEX", Implied, 2, decReg(ptrX))
	add(0x88, "DEY", Implied, 2, decReg(ptrY))

	// Shifts/rotates.
	add(0x0A, "ASL", Accumulator, 2, asl)
	add(0x06, "ASL", ZeroPage, 5, asl)
	add(0x16, "ASL", ZeroPageX, 6, asl)
	add(0x0E, "ASL", Absolute, 6, asl)
	add(0x1E, "ASL", AbsoluteX, 7, asl)

	add(0x4A, "LSR", Accumulator, 2, lsr)
	add(0x46, "LSR", ZeroPage, 5, lsr)
	add(0x56, "LSR", ZeroPageX, 6, lsr)
	add(0x4E, "LSR", Absolute, 6, lsr)
	add(0x5E, "LSR", AbsoluteX, 7, lsr)

	add(0x2A, "ROL", Accumulator, 2, rol)
	add(0x26, "ROL", ZeroPage, 5, rol)
	add(0x36, "ROL", ZeroPageX, 6, rol)
	add(0x2E, "ROL", Absolute, 6, rol)
	add(0x3E, "ROL", AbsoluteX, 7, rol)

	add(0x6A, "ROR", Accumulator, 2, ror)
	add(0x66, "ROR", ZeroPage, 5, ror)
	add(0x76, "ROR", ZeroPageX, 6, ror)
	add(0x6E, "ROR", Absolute, 6, ror)
	add(0x7E, "ROR", AbsoluteX, 7, ror)

	add(0x14, "TRB", ZeroPage, 5, trb)
	add(0x1C, "TRB", Absolute, 6, trb)
	add(0x04, "TSB", ZeroPage, 5, tsb)
	add(0x0C, "TSB", Absolute, 6, tsb)

	// Control flow.
	add(0x4C, "JMP", Absolute, 3, jmp)
	add(0x6C, "JMP", Indirect, 5, jmp)
	add(0x20, "JSR", Absolute, 6, jsr)
	add(0x60, "RTS", Implied, 6, rts)
	add(0x00, "BRK", Implied, 7, brk)
	add(0x40, "RTI", Implied, 6, rti)

	add(0x10, "BPL", Relative, 2, branch(func(c *CPU) bool { return !c.Flag(alu65.FlagN) }))
	add(0x30, "BMI", Relative, 2, branch(func(c *CPU) bool { return c.Flag(alu65.FlagN) }))
	add(0x50, "BVC", Relative, 2, branch(func(c *CPU) bool { return !c.Flag(alu65.FlagV) }))
	add(0x70, "BVS", Relative, 2, branch(func(c *CPU) bool { return c.Flag(alu65.FlagV) }))
	add(0x90, "BCC", Relative, 2, branch(func(c *CPU) bool { return !c.Flag(alu65.FlagC) }))
	add(0xB0, "BCS", Relative, 2, branch(func(c *CPU) bool { return c.Flag(alu65.FlagC) }))
	add(0xD0, "BNE", Relative, 2, branch(func(c *CPU) bool { return !c.Flag(alu65.FlagZ) }))
	add(0xF0, "BEQ", Relative, 2, branch(func(c *CPU) bool { return c.Flag(alu65.FlagZ) }))
	add(0x80, "BRA", Relative, 2, branch(func(c *CPU) bool { return true }))

	add(0x18, "CLC", Implied, 2, clearFlag(alu65.FlagC))
	add(0x38, "SEC", Implied, 2, setFlag(alu65.FlagC))
	add(0x58, "CLI", Implied, 2, clearFlag(alu65.FlagI))
	add(0x78, "SEI", Implied, 2, setFlag(alu65.FlagI))
	add(0xB8, "CLV", Implied, 2, clearFlag(alu65.FlagV))
	add(0xD8, "CLD", Implied, 2, clearFlag(alu65.FlagD))
	add(0xF8, "SED", Implied, 2, setFlag(alu65.FlagD))

	add(0xEA, "NOP", Implied, 2, nop)
}

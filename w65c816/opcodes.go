package w65c816

import (
	"retrocpu/alu65"
	"retrocpu/bus"
	"retrocpu/flags"
)

// Opcode is one decode-table entry: name, addressing mode, base cycle
// count (before any eff-dependent extra returned by Run) and handler.
type Opcode struct {
	Name       string
	Mode       Mode
	BaseCycles byte
	Run        handler
}

var opcodes map[byte]Opcode

func add(b byte, name string, mode Mode, cycles byte, run handler) {
	opcodes[b] = Opcode{Name: name, Mode: mode, BaseCycles: cycles, Run: run}
}

func regAGet(c *CPU) uint16    { return c.A }
func regXGet(c *CPU) uint16    { return c.X }
func regYGet(c *CPU) uint16    { return c.Y }
func accumWide8(c *CPU) bool   { return c.accum8() }
func indexWide8(c *CPU) bool   { return c.index8() }
func xPtr(c *CPU) *uint16      { return &c.X }
func yPtr(c *CPU) *uint16      { return &c.Y }

func init() {
	opcodes = make(map[byte]Opcode)

	// Load/store.
	add(0xA9, "LDA", ImmediateA, 2, lda)
	add(0xA5, "LDA", Direct, 3, lda)
	add(0xB5, "LDA", DirectIndexedX, 4, lda)
	add(0xAD, "LDA", Absolute, 4, lda)
	add(0xBD, "LDA", AbsoluteX, 4, lda)
	add(0xB9, "LDA", AbsoluteY, 4, lda)
	add(0xAF, "LDA", AbsoluteLong, 5, lda)
	add(0xBF, "LDA", AbsoluteLongIndexed, 5, lda)
	add(0xA1, "LDA", DirectIndexedIndirect, 6, lda)
	add(0xB1, "LDA", DirectIndirectIndexed, 5, lda)
	add(0xB2, "LDA", DirectIndirect, 5, lda)
	add(0xA7, "LDA", DirectIndirectLong, 6, lda)
	add(0xB7, "LDA", DirectIndirectLongIndexed, 6, lda)
	add(0xA3, "LDA", StackRelative, 4, lda)
	add(0xB3, "LDA", StackRelativeIndirectIndexed, 7, lda)

	add(0xA2, "LDX", ImmediateX, 2, ldIndex((*CPU).SetX))
	add(0xA6, "LDX", Direct, 3, ldIndex((*CPU).SetX))
	add(0xB6, "LDX", DirectIndexedY, 4, ldIndex((*CPU).SetX))
	add(0xAE, "LDX", Absolute, 4, ldIndex((*CPU).SetX))
	add(0xBE, "LDX", AbsoluteY, 4, ldIndex((*CPU).SetX))

	add(0xA0, "LDY", ImmediateX, 2, ldIndex((*CPU).SetY))
	add(0xA4, "LDY", Direct, 3, ldIndex((*CPU).SetY))
	add(0xB4, "LDY", DirectIndexedX, 4, ldIndex((*CPU).SetY))
	add(0xAC, "LDY", Absolute, 4, ldIndex((*CPU).SetY))
	add(0xBC, "LDY", AbsoluteX, 4, ldIndex((*CPU).SetY))

	add(0x85, "STA", Direct, 3, sta)
	add(0x95, "STA", DirectIndexedX, 4, sta)
	add(0x8D, "STA", Absolute, 4, sta)
	add(0x9D, "STA", AbsoluteX, 5, sta)
	add(0x99, "STA", AbsoluteY, 5, sta)
	add(0x8F, "STA", AbsoluteLong, 5, sta)
	add(0x9F, "STA", AbsoluteLongIndexed, 5, sta)
	add(0x81, "STA", DirectIndexedIndirect, 6, sta)
	add(0x91, "STA", DirectIndirectIndexed, 6, sta)
	add(0x92, "STA", DirectIndirect, 5, sta)
	add(0x87, "STA", DirectIndirectLong, 6, sta)
	add(0x97, "STA", DirectIndirectLongIndexed, 6, sta)
	add(0x83, "STA", StackRelative, 4, sta)
	add(0x93, "STA", StackRelativeIndirectIndexed, 7, sta)

	add(0x86, "STX", Direct, 3, stIndex(regXGet))
	add(0x96, "STX", DirectIndexedY, 4, stIndex(regXGet))
	add(0x8E, "STX", Absolute, 4, stIndex(regXGet))

	add(0x84, "STY", Direct, 3, stIndex(regYGet))
	add(0x94, "STY", DirectIndexedX, 4, stIndex(regYGet))
	add(0x8C, "STY", Absolute, 4, stIndex(regYGet))

	add(0x64, "STZ", Direct, 3, stz)
	add(0x74, "STZ", DirectIndexedX, 4, stz)
	add(0x9C, "STZ", Absolute, 4, stz)
	add(0x9E, "STZ", AbsoluteX, 5, stz)

	// Transfers.
	add(0xAA, "TAX", Implied, 2, func(c *CPU, b bus.MemBus24, e Effective) byte {
		c.SetX(c.A)
		setNZ(c, c.X, !c.index8())
		return 0
	})
	add(0xA8, "TAY", Implied, 2, func(c *CPU, b bus.MemBus24, e Effective) byte {
		c.SetY(c.A)
		setNZ(c, c.Y, !c.index8())
		return 0
	})
	add(0x8A, "TXA", Implied, 2, func(c *CPU, b bus.MemBus24, e Effective) byte {
		c.SetA(c.X)
		setNZ(c, c.A, !c.accum8())
		return 0
	})
	add(0x98, "TYA", Implied, 2, func(c *CPU, b bus.MemBus24, e Effective) byte {
		c.SetA(c.Y)
		setNZ(c, c.A, !c.accum8())
		return 0
	})
	add(0xBA, "TSX", Implied, 2, func(c *CPU, b bus.MemBus24, e Effective) byte {
		c.SetX(c.SP)
		setNZ(c, c.X, !c.index8())
		return 0
	})
	add(0x9A, "TXS", Implied, 2, func(c *CPU, b bus.MemBus24, e Effective) byte {
		c.SetSP(c.X)
		return 0
	})
	add(0x9B, "TXY", Implied, 2, func(c *CPU, b bus.MemBus24, e Effective) byte {
		c.SetY(c.X)
		setNZ(c, c.Y, !c.index8())
		return 0
	})
	add(0xBB, "TYX", Implied, 2, func(c *CPU, b bus.MemBus24, e Effective) byte {
		c.SetX(c.Y)
		setNZ(c, c.X, !c.index8())
		return 0
	})
	add(0x5B, "TCD", Implied, 2, func(c *CPU, b bus.MemBus24, e Effective) byte {
		c.DP = c.A
		setNZ(c, c.DP, true)
		return 0
	})
	add(0x7B, "TDC", Implied, 2, func(c *CPU, b bus.MemBus24, e Effective) byte {
		c.A = c.DP
		setNZ(c, c.A, true)
		return 0
	})
	add(0x1B, "TCS", Implied, 2, func(c *CPU, b bus.MemBus24, e Effective) byte {
		c.SetSP(c.A)
		return 0
	})
	add(0x3B, "TSC", Implied, 2, func(c *CPU, b bus.MemBus24, e Effective) byte {
		c.A = c.SP
		setNZ(c, c.A, true)
		return 0
	})

	// Stack.
	add(0x48, "PHA", Implied, 3, pushReg(regAGet, accumWide8))
	add(0x68, "PLA", Implied, 4, pullReg((*CPU).SetA, accumWide8, true))
	add(0xDA, "PHX", Implied, 3, pushReg(regXGet, indexWide8))
	add(0xFA, "PLX", Implied, 4, pullReg((*CPU).SetX, indexWide8, true))
	add(0x5A, "PHY", Implied, 3, pushReg(regYGet, indexWide8))
	add(0x7A, "PLY", Implied, 4, pullReg((*CPU).SetY, indexWide8, true))
	add(0x08, "PHP", Implied, 3, php)
	add(0x28, "PLP", Implied, 4, plp)
	add(0x8B, "PHB", Implied, 3, phb)
	add(0xAB, "PLB", Implied, 4, plb)
	add(0x4B, "PHK", Implied, 3, phk)
	add(0x0B, "PHD", Implied, 4, phd)
	add(0x2B, "PLD", Implied, 5, pld)
	add(0xF4, "PEA", ImmediateByte, 5, pea)
	add(0xD4, "PEI", Direct, 6, pei)
	add(0x62, "PER", RelativeLong, 6, per)

	// Bitwise.
	add(0x29, "AND", ImmediateA, 2, bitwise(alu65.And))
	add(0x25, "AND", Direct, 3, bitwise(alu65.And))
	add(0x35, "AND", DirectIndexedX, 4, bitwise(alu65.And))
	add(0x2D, "AND", Absolute, 4, bitwise(alu65.And))
	add(0x3D, "AND", AbsoluteX, 4, bitwise(alu65.And))
	add(0x39, "AND", AbsoluteY, 4, bitwise(alu65.And))
	add(0x2F, "AND", AbsoluteLong, 5, bitwise(alu65.And))
	add(0x3F, "AND", AbsoluteLongIndexed, 5, bitwise(alu65.And))
	add(0x21, "AND", DirectIndexedIndirect, 6, bitwise(alu65.And))
	add(0x31, "AND", DirectIndirectIndexed, 5, bitwise(alu65.And))
	add(0x32, "AND", DirectIndirect, 5, bitwise(alu65.And))
	add(0x27, "AND", DirectIndirectLong, 6, bitwise(alu65.And))
	add(0x37, "AND", DirectIndirectLongIndexed, 6, bitwise(alu65.And))
	add(0x23, "AND", StackRelative, 4, bitwise(alu65.And))
	add(0x33, "AND", StackRelativeIndirectIndexed, 7, bitwise(alu65.And))

	add(0x09, "ORA", ImmediateA, 2, bitwise(alu65.Or))
	add(0x05, "ORA", Direct, 3, bitwise(alu65.Or))
	add(0x15, "ORA", DirectIndexedX, 4, bitwise(alu65.Or))
	add(0x0D, "ORA", Absolute, 4, bitwise(alu65.Or))
	add(0x1D, "ORA", AbsoluteX, 4, bitwise(alu65.Or))
	add(0x19, "ORA", AbsoluteY, 4, bitwise(alu65.Or))
	add(0x0F, "ORA", AbsoluteLong, 5, bitwise(alu65.Or))
	add(0x1F, "ORA", AbsoluteLongIndexed, 5, bitwise(alu65.Or))
	add(0x01, "ORA", DirectIndexedIndirect, 6, bitwise(alu65.Or))
	add(0x11, "ORA", DirectIndirectIndexed, 5, bitwise(alu65.Or))
	add(0x12, "ORA", DirectIndirect, 5, bitwise(alu65.Or))
	add(0x07, "ORA", DirectIndirectLong, 6, bitwise(alu65.Or))
	add(0x17, "ORA", DirectIndirectLongIndexed, 6, bitwise(alu65.Or))
	add(0x03, "ORA", StackRelative, 4, bitwise(alu65.Or))
	add(0x13, "ORA", StackRelativeIndirectIndexed, 7, bitwise(alu65.Or))

	add(0x49, "EOR", ImmediateA, 2, bitwise(alu65.Xor))
	add(0x45, "EOR", Direct, 3, bitwise(alu65.Xor))
	add(0x55, "EOR", DirectIndexedX, 4, bitwise(alu65.Xor))
	add(0x4D, "EOR", Absolute, 4, bitwise(alu65.Xor))
	add(0x5D, "EOR", AbsoluteX, 4, bitwise(alu65.Xor))
	add(0x59, "EOR", AbsoluteY, 4, bitwise(alu65.Xor))
	add(0x4F, "EOR", AbsoluteLong, 5, bitwise(alu65.Xor))
	add(0x5F, "EOR", AbsoluteLongIndexed, 5, bitwise(alu65.Xor))
	add(0x41, "EOR", DirectIndexedIndirect, 6, bitwise(alu65.Xor))
	add(0x51, "EOR", DirectIndirectIndexed, 5, bitwise(alu65.Xor))
	add(0x52, "EOR", DirectIndirect, 5, bitwise(alu65.Xor))
	add(0x47, "EOR", DirectIndirectLong, 6, bitwise(alu65.Xor))
	add(0x57, "EOR", DirectIndirectLongIndexed, 6, bitwise(alu65.Xor))
	add(0x43, "EOR", StackRelative, 4, bitwise(alu65.Xor))
	add(0x53, "EOR", StackRelativeIndirectIndexed, 7, bitwise(alu65.Xor))

	add(0x89, "BIT", ImmediateA, 2, bitTest(true))
	add(0x24, "BIT", Direct, 3, bitTest(false))
	add(0x34, "BIT", DirectIndexedX, 4, bitTest(false))
	add(0x2C, "BIT", Absolute, 4, bitTest(false))
	add(0x3C, "BIT", AbsoluteX, 4, bitTest(false))

	// Arithmetic.
	add(0x69, "ADC", ImmediateA, 2, adc)
	add(0x65, "ADC", Direct, 3, adc)
	add(0x75, "ADC", DirectIndexedX, 4, adc)
	add(0x6D, "ADC", Absolute, 4, adc)
	add(0x7D, "ADC", AbsoluteX, 4, adc)
	add(0x79, "ADC", AbsoluteY, 4, adc)
	add(0x6F, "ADC", AbsoluteLong, 5, adc)
	add(0x7F, "ADC", AbsoluteLongIndexed, 5, adc)
	add(0x61, "ADC", DirectIndexedIndirect, 6, adc)
	add(0x71, "ADC", DirectIndirectIndexed, 5, adc)
	add(0x72, "ADC", DirectIndirect, 5, adc)
	add(0x67, "ADC", DirectIndirectLong, 6, adc)
	add(0x77, "ADC", DirectIndirectLongIndexed, 6, adc)
	add(0x63, "ADC", StackRelative, 4, adc)
	add(0x73, "ADC", StackRelativeIndirectIndexed, 7, adc)

	add(0xE9, "SBC", ImmediateA, 2, sbc)
	add(0xE5, "SBC", Direct, 3, sbc)
	add(0xF5, "SBC", DirectIndexedX, 4, sbc)
	add(0xED, "SBC", Absolute, 4, sbc)
	add(0xFD, "SBC", AbsoluteX, 4, sbc)
	add(0xF9, "SBC", AbsoluteY, 4, sbc)
	add(0xEF, "SBC", AbsoluteLong, 5, sbc)
	add(0xFF, "SBC", AbsoluteLongIndexed, 5, sbc)
	add(0xE1, "SBC", DirectIndexedIndirect, 6, sbc)
	add(0xF1, "SBC", DirectIndirectIndexed, 5, sbc)
	add(0xF2, "SBC", DirectIndirect, 5, sbc)
	add(0xE7, "SBC", DirectIndirectLong, 6, sbc)
	add(0xF7, "SBC", DirectIndirectLongIndexed, 6, sbc)
	add(0xE3, "SBC", StackRelative, 4, sbc)
	add(0xF3, "SBC", StackRelativeIndirectIndexed, 7, sbc)

	add(0xC9, "CMP", ImmediateA, 2, compareWith(regAGet, accumWide8))
	add(0xC5, "CMP", Direct, 3, compareWith(regAGet, accumWide8))
	add(0xD5, "CMP", DirectIndexedX, 4, compareWith(regAGet, accumWide8))
	add(0xCD, "CMP", Absolute, 4, compareWith(regAGet, accumWide8))
	add(0xDD, "CMP", AbsoluteX, 4, compareWith(regAGet, accumWide8))
	add(0xD9, "CMP", AbsoluteY, 4, compareWith(regAGet, accumWide8))
	add(0xCF, "CMP", AbsoluteLong, 5, compareWith(regAGet, accumWide8))
	add(0xDF, "CMP", AbsoluteLongIndexed, 5, compareWith(regAGet, accumWide8))
	add(0xC1, "CMP", DirectIndexedIndirect, 6, compareWith(regAGet, accumWide8))
	add(0xD1, "CMP", DirectIndirectIndexed, 5, compareWith(regAGet, accumWide8))
	add(0xD2, "CMP", DirectIndirect, 5, compareWith(regAGet, accumWide8))
	add(0xC7, "CMP", DirectIndirectLong, 6, compareWith(regAGet, accumWide8))
	add(0xD7, "CMP", DirectIndirectLongIndexed, 6, compareWith(regAGet, accumWide8))
	add(0xC3, "CMP", StackRelative, 4, compareWith(regAGet, accumWide8))
	add(0xD3, "CMP", StackRelativeIndirectIndexed, 7, compareWith(regAGet, accumWide8))

	add(0xE0, "CPX", ImmediateX, 2, compareWith(regXGet, indexWide8))
	add(0xE4, "CPX", Direct, 3, compareWith(regXGet, indexWide8))
	add(0xEC, "CPX", Absolute, 4, compareWith(regXGet, indexWide8))

	add(0xC0, "CPY", ImmediateX, 2, compareWith(regYGet, indexWide8))
	add(0xC4, "CPY", Direct, 3, compareWith(regYGet, indexWide8))
	add(0xCC, "CPY", Absolute, 4, compareWith(regYGet, indexWide8))

	// Inc/Dec.
	add(0x1A, "INC", Accumulator, 2, shiftIncAcc)
	add(0xE6, "INC", Direct, 5, incMem)
	add(0xF6, "INC", DirectIndexedX, 6, incMem)
	add(0xEE, "INC", Absolute, 6, incMem)
	add(0xFE, "INC", AbsoluteX, 7, incMem)

	add(0x3A, "DEC", Accumulator, 2, shiftDecAcc)
	add(0xC6, "DEC", Direct, 5, decMem)
	add(0xD6, "DEC", DirectIndexedX, 6, decMem)
	add(0xCE, "DEC", Absolute, 6, decMem)
	add(0xDE, "DEC", AbsoluteX, 7, decMem)

	add(0xE8, "INX", Implied, 2, incIndex(xPtr, indexWide8))
	add(0xC8, "INY", Implied, 2, incIndex(yPtr, indexWide8))
	add(0xCA, "DEX", Implied, 2, decIndex(xPtr, indexWide8))
	add(0x88, "DEY", Implied, 2, decIndex(yPtr, indexWide8))

	// Shifts/rotates.
	add(0x0A, "ASL", Accumulator, 2, shiftOp(alu65.ShiftLeft))
	add(0x06, "ASL", Direct, 5, shiftOp(alu65.ShiftLeft))
	add(0x16, "ASL", DirectIndexedX, 6, shiftOp(alu65.ShiftLeft))
	add(0x0E, "ASL", Absolute, 6, shiftOp(alu65.ShiftLeft))
	add(0x1E, "ASL", AbsoluteX, 7, shiftOp(alu65.ShiftLeft))

	add(0x4A, "LSR", Accumulator, 2, shiftOp(alu65.ShiftRight))
	add(0x46, "LSR", Direct, 5, shiftOp(alu65.ShiftRight))
	add(0x56, "LSR", DirectIndexedX, 6, shiftOp(alu65.ShiftRight))
	add(0x4E, "LSR", Absolute, 6, shiftOp(alu65.ShiftRight))
	add(0x5E, "LSR", AbsoluteX, 7, shiftOp(alu65.ShiftRight))

	add(0x2A, "ROL", Accumulator, 2, rotateOp(alu65.RotateLeft))
	add(0x26, "ROL", Direct, 5, rotateOp(alu65.RotateLeft))
	add(0x36, "ROL", DirectIndexedX, 6, rotateOp(alu65.RotateLeft))
	add(0x2E, "ROL", Absolute, 6, rotateOp(alu65.RotateLeft))
	add(0x3E, "ROL", AbsoluteX, 7, rotateOp(alu65.RotateLeft))

	add(0x6A, "ROR", Accumulator, 2, rotateOp(alu65.RotateRight))
	add(0x66, "ROR", Direct, 5, rotateOp(alu65.RotateRight))
	add(0x76, "ROR", DirectIndexedX, 6, rotateOp(alu65.RotateRight))
	add(0x6E, "ROR", Absolute, 6, rotateOp(alu65.RotateRight))
	add(0x7E, "ROR", AbsoluteX, 7, rotateOp(alu65.RotateRight))

	add(0x14, "TRB", Direct, 5, trb)
	add(0x1C, "TRB", Absolute, 6, trb)
	add(0x04, "TSB", Direct, 5, tsb)
	add(0x0C, "TSB", Absolute, 6, tsb)

	// Control flow.
	add(0x4C, "JMP", Absolute, 3, jmp)
	add(0x5C, "JML", AbsoluteLong, 4, jml)
	add(0x6C, "JMP", AbsoluteIndirect, 5, jmp)
	add(0x7C, "JMP", AbsoluteIndexedIndirect, 6, jmp)
	add(0xDC, "JML", AbsoluteIndirectLong, 6, jml)
	add(0x20, "JSR", Absolute, 6, jsr)
	add(0xFC, "JSR", AbsoluteIndexedIndirect, 8, jsr)
	add(0x22, "JSL", AbsoluteLong, 8, jsl)
	add(0x60, "RTS", Implied, 6, rts)
	add(0x6B, "RTL", Implied, 6, rtl)
	add(0x00, "BRK", ImmediateByte, 7, brk)
	add(0x02, "COP", ImmediateByte, 7, cop)
	add(0x40, "RTI", Implied, 6, rti)

	add(0x10, "BPL", Relative, 2, branch(func(c *CPU) bool { return !c.Flag(alu65.FlagN) }))
	add(0x30, "BMI", Relative, 2, branch(func(c *CPU) bool { return c.Flag(alu65.FlagN) }))
	add(0x50, "BVC", Relative, 2, branch(func(c *CPU) bool { return !c.Flag(alu65.FlagV) }))
	add(0x70, "BVS", Relative, 2, branch(func(c *CPU) bool { return c.Flag(alu65.FlagV) }))
	add(0x90, "BCC", Relative, 2, branch(func(c *CPU) bool { return !c.Flag(alu65.FlagC) }))
	add(0xB0, "BCS", Relative, 2, branch(func(c *CPU) bool { return c.Flag(alu65.FlagC) }))
	add(0xD0, "BNE", Relative, 2, branch(func(c *CPU) bool { return !c.Flag(alu65.FlagZ) }))
	add(0xF0, "BEQ", Relative, 2, branch(func(c *CPU) bool { return c.Flag(alu65.FlagZ) }))
	add(0x80, "BRA", Relative, 3, branch(func(c *CPU) bool { return true }))
	add(0x82, "BRL", RelativeLong, 4, brl)

	// Mode switch / status.
	add(0xFB, "XCE", Implied, 2, xce)
	add(0xC2, "REP", ImmediateByte, 3, rep)
	add(0xE2, "SEP", ImmediateByte, 3, sep)
	add(0x18, "CLC", Implied, 2, clearFlag(alu65.FlagC))
	add(0x38, "SEC", Implied, 2, setFlag(alu65.FlagC))
	add(0x58, "CLI", Implied, 2, clearFlag(alu65.FlagI))
	add(0x78, "SEI", Implied, 2, setFlag(alu65.FlagI))
	add(0xB8, "CLV", Implied, 2, clearFlag(alu65.FlagV))
	add(0xD8, "CLD", Implied, 2, clearFlag(alu65.FlagD))
	add(0xF8, "SED", Implied, 2, setFlag(alu65.FlagD))

	// Block move.
	add(0x54, "MVN", Implied, 7, mvn)
	add(0x44, "MVP", Implied, 7, mvp)

	add(0xEA, "NOP", Implied, 2, nop)
	add(0x42, "WDM", ImmediateByte, 2, nop)
}

func shiftIncAcc(c *CPU, b bus.MemBus24, e Effective) byte {
	r := alu65.Inc(c.A, c.accum8())
	c.SetA(r.Value)
	r.Affection.Apply(&c.P)
	return 0
}

func shiftDecAcc(c *CPU, b bus.MemBus24, e Effective) byte {
	r := alu65.Dec(c.A, c.accum8())
	c.SetA(r.Value)
	r.Affection.Apply(&c.P)
	return 0
}

func trb(c *CPU, b bus.MemBus24, e Effective) byte {
	wide := !c.accum8()
	if wide {
		v := e.Load16(c, b)
		flags.If(c.A&v == 0, alu65.FlagZ).Apply(&c.P)
		e.Store16(c, b, v&^c.A)
	} else {
		v := uint16(e.Load8(c, b))
		flags.If(c.A&v == 0, alu65.FlagZ).Apply(&c.P)
		e.Store8(c, b, byte(v&^c.A))
	}
	return dlPenalty(e)
}

func tsb(c *CPU, b bus.MemBus24, e Effective) byte {
	wide := !c.accum8()
	if wide {
		v := e.Load16(c, b)
		flags.If(c.A&v == 0, alu65.FlagZ).Apply(&c.P)
		e.Store16(c, b, v|c.A)
	} else {
		v := uint16(e.Load8(c, b))
		flags.If(c.A&v == 0, alu65.FlagZ).Apply(&c.P)
		e.Store8(c, b, byte(v|c.A))
	}
	return dlPenalty(e)
}

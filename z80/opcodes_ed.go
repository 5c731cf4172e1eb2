package z80

import (
	"retrocpu/bits"
	"retrocpu/bus"
	"retrocpu/flags"
)

var edOpcodes map[byte]Opcode

func addED(b byte, name string, cycles byte, run func(c *CPU, b bus.MemBus16) uint64) {
	edOpcodes[b] = Opcode{Name: name, Cycles: cycles, Run: run}
}

func init() {
	edOpcodes = make(map[byte]Opcode)

	addED(0x47, "LD I,A", 9, func(c *CPU, b bus.MemBus16) uint64 { c.I = c.A; return 0 })
	addED(0x4F, "LD R,A", 9, func(c *CPU, b bus.MemBus16) uint64 { c.R = c.A; return 0 })
	addED(0x57, "LD A,I", 9, func(c *CPU, b bus.MemBus16) uint64 {
		c.A = c.I
		ldSpecialAffection(c)
		return 0
	})
	addED(0x5F, "LD A,R", 9, func(c *CPU, b bus.MemBus16) uint64 {
		c.A = c.R
		ldSpecialAffection(c)
		return 0
	})

	addED(0x44, "NEG", 8, func(c *CPU, b bus.MemBus16) uint64 {
		r, aff := sub8(0, c.A, false)
		c.A = r
		aff.Apply(&c.F)
		return 0
	})
	addED(0x45, "RETN", 14, func(c *CPU, b bus.MemBus16) uint64 {
		c.PC = c.pull16(b)
		c.IFF1 = c.IFF2
		return 0
	})
	addED(0x4D, "RETI", 14, func(c *CPU, b bus.MemBus16) uint64 {
		c.PC = c.pull16(b)
		c.IFF1 = c.IFF2
		return 0
	})
	addED(0x46, "IM 0", 8, func(c *CPU, b bus.MemBus16) uint64 { c.IM = 0; return 0 })
	addED(0x56, "IM 1", 8, func(c *CPU, b bus.MemBus16) uint64 { c.IM = 1; return 0 })
	addED(0x5E, "IM 2", 8, func(c *CPU, b bus.MemBus16) uint64 { c.IM = 2; return 0 })

	for pp := byte(0); pp < 4; pp++ {
		pp := pp
		addED(0x4A+pp*0x10, "ADC HL,ss", 15, func(c *CPU, b bus.MemBus16) uint64 {
			r, aff := adc16(c.HL(), c.getReg16(pp), c.flag(FlagC))
			c.SetHL(r)
			aff.Apply(&c.F)
			return 0
		})
		addED(0x42+pp*0x10, "SBC HL,ss", 15, func(c *CPU, b bus.MemBus16) uint64 {
			r, aff := sbc16(c.HL(), c.getReg16(pp), c.flag(FlagC))
			c.SetHL(r)
			aff.Apply(&c.F)
			return 0
		})
		addED(0x43+pp*0x10, "LD (nn),dd", 20, func(c *CPU, b bus.MemBus16) uint64 {
			bus.WriteWord16(b, c.fetch16(b), c.getReg16(pp))
			return 0
		})
		addED(0x4B+pp*0x10, "LD dd,(nn)", 20, func(c *CPU, b bus.MemBus16) uint64 {
			c.setReg16(pp, bus.ReadWord16(b, c.fetch16(b)))
			return 0
		})
	}

	addED(0x67, "RRD", 18, func(c *CPU, b bus.MemBus16) uint64 {
		m := b.ReadByte(c.HL())
		newA := bits.Nibble(uint16(c.A), 1)<<4 | bits.Nibble(uint16(m), 0)
		newM := bits.Nibble(uint16(c.A), 0)<<4 | bits.Nibble(uint16(m), 1)
		c.A = newA
		b.WriteByte(c.HL(), newM)
		rrdRldAffection(c)
		return 0
	})
	addED(0x6F, "RLD", 18, func(c *CPU, b bus.MemBus16) uint64 {
		m := b.ReadByte(c.HL())
		newA := bits.Nibble(uint16(c.A), 1)<<4 | bits.Nibble(uint16(m), 1)
		newM := bits.Nibble(uint16(m), 0)<<4 | bits.Nibble(uint16(c.A), 0)
		c.A = newA
		b.WriteByte(c.HL(), newM)
		rrdRldAffection(c)
		return 0
	})

	addED(0xA0, "LDI", 16, func(c *CPU, b bus.MemBus16) uint64 { blockTransfer(c, b, 1); return 0 })
	addED(0xA8, "LDD", 16, func(c *CPU, b bus.MemBus16) uint64 { blockTransfer(c, b, -1); return 0 })
	addED(0xB0, "LDIR", 16, func(c *CPU, b bus.MemBus16) uint64 { return blockTransferRepeat(c, b, 1) })
	addED(0xB8, "LDDR", 16, func(c *CPU, b bus.MemBus16) uint64 { return blockTransferRepeat(c, b, -1) })

	addED(0xA1, "CPI", 16, func(c *CPU, b bus.MemBus16) uint64 { blockCompare(c, b, 1); return 0 })
	addED(0xA9, "CPD", 16, func(c *CPU, b bus.MemBus16) uint64 { blockCompare(c, b, -1); return 0 })
	addED(0xB1, "CPIR", 16, func(c *CPU, b bus.MemBus16) uint64 { return blockCompareRepeat(c, b, 1) })
	addED(0xB9, "CPDR", 16, func(c *CPU, b bus.MemBus16) uint64 { return blockCompareRepeat(c, b, -1) })

	addED(0xA2, "INI", 16, func(c *CPU, b bus.MemBus16) uint64 { blockIn(c, b, 1); return 0 })
	addED(0xAA, "IND", 16, func(c *CPU, b bus.MemBus16) uint64 { blockIn(c, b, -1); return 0 })
	addED(0xB2, "INIR", 16, func(c *CPU, b bus.MemBus16) uint64 { return blockInRepeat(c, b, 1) })
	addED(0xBA, "INDR", 16, func(c *CPU, b bus.MemBus16) uint64 { return blockInRepeat(c, b, -1) })

	addED(0xA3, "OUTI", 16, func(c *CPU, b bus.MemBus16) uint64 { blockOut(c, b, 1); return 0 })
	addED(0xAB, "OUTD", 16, func(c *CPU, b bus.MemBus16) uint64 { blockOut(c, b, -1); return 0 })
	addED(0xB3, "OTIR", 16, func(c *CPU, b bus.MemBus16) uint64 { return blockOutRepeat(c, b, 1) })
	addED(0xBB, "OTDR", 16, func(c *CPU, b bus.MemBus16) uint64 { return blockOutRepeat(c, b, -1) })
}

// ldSpecialAffection covers LD A,I / LD A,R: S/Z from A, P/V takes IFF2,
// H and N cleared, C untouched.
func ldSpecialAffection(c *CPU) {
	aff := szAffection(c.A).
		Plus(flags.If(c.IFF2, FlagPV)).
		Plus(flags.Clear(FlagH | FlagN))
	aff.Apply(&c.F)
}

func rrdRldAffection(c *CPU) {
	aff := szAffection(c.A).
		Plus(flags.If(parity(c.A), FlagPV)).
		Plus(flags.Clear(FlagH | FlagN))
	aff.Apply(&c.F)
}

// blockTransfer implements LDI/LDD: copy (HL)->( DE), advance HL/DE by dir,
// decrement BC. P/V reflects BC!=0 after the decrement, H and N are cleared.
func blockTransfer(c *CPU, b bus.MemBus16, dir int16) {
	v := b.ReadByte(c.HL())
	b.WriteByte(c.DE(), v)
	c.SetHL(uint16(int32(c.HL()) + int32(dir)))
	c.SetDE(uint16(int32(c.DE()) + int32(dir)))
	c.SetBC(c.BC() - 1)
	aff := flags.Clear(FlagH | FlagN).Plus(flags.If(c.BC() != 0, FlagPV))
	aff.Apply(&c.F)
}

func blockTransferRepeat(c *CPU, b bus.MemBus16, dir int16) uint64 {
	blockTransfer(c, b, dir)
	if c.BC() == 0 {
		return 0
	}
	c.PC -= 2
	return 5
}

// blockCompare implements CPI/CPD: compare A against (HL) without storing,
// advance HL by dir, decrement BC. Carry is left untouched per the Zilog
// documentation.
func blockCompare(c *CPU, b bus.MemBus16, dir int16) {
	v := b.ReadByte(c.HL())
	result := c.A - v
	c.SetHL(uint16(int32(c.HL()) + int32(dir)))
	c.SetBC(c.BC() - 1)
	half := (c.A & 0xF) < (v & 0xF)
	aff := szAffection(result).
		Plus(flags.If(half, FlagH)).
		Plus(flags.Value(FlagN)).
		Plus(flags.If(c.BC() != 0, FlagPV))
	aff.Apply(&c.F)
}

func blockCompareRepeat(c *CPU, b bus.MemBus16, dir int16) uint64 {
	blockCompare(c, b, dir)
	if c.BC() == 0 || c.flag(FlagZ) {
		return 0
	}
	c.PC -= 2
	return 5
}

// ioRead reads port through bus.IoBus8 when b implements it, falling back
// to the memory byte at address port (zero-extended) on a board that only
// wires MemBus16 (the bus has no error surface, so an unwired port must
// still produce a byte).
func ioRead(b bus.MemBus16, port byte) byte {
	if io, ok := b.(bus.IoBus8); ok {
		return io.ReadPort(port)
	}
	return b.ReadByte(uint16(port))
}

// ioWrite mirrors ioRead for writes.
func ioWrite(b bus.MemBus16, port byte, v byte) {
	if io, ok := b.(bus.IoBus8); ok {
		io.WritePort(port, v)
		return
	}
	b.WriteByte(uint16(port), v)
}

// blockIn/blockOut read/write the Z80's 8-bit port space (bus.IoBus8,
// addressed by C) and the memory byte at HL, per spec.md s4.7's block I/O
// group.
func blockIn(c *CPU, b bus.MemBus16, dir int16) {
	v := ioRead(b, c.C)
	b.WriteByte(c.HL(), v)
	c.SetHL(uint16(int32(c.HL()) + int32(dir)))
	c.B--
	aff := flags.If(c.B == 0, FlagZ).Plus(flags.Value(FlagN))
	aff.Apply(&c.F)
}

func blockInRepeat(c *CPU, b bus.MemBus16, dir int16) uint64 {
	blockIn(c, b, dir)
	if c.B == 0 {
		return 0
	}
	c.PC -= 2
	return 5
}

func blockOut(c *CPU, b bus.MemBus16, dir int16) {
	v := b.ReadByte(c.HL())
	ioWrite(b, c.C, v)
	c.SetHL(uint16(int32(c.HL()) + int32(dir)))
	c.B--
	aff := flags.If(c.B == 0, FlagZ).Plus(flags.Value(FlagN))
	aff.Apply(&c.F)
}

func blockOutRepeat(c *CPU, b bus.MemBus16, dir int16) uint64 {
	blockOut(c, b, dir)
	if c.B == 0 {
		return 0
	}
	c.PC -= 2
	return 5
}

package z80

import "retrocpu/bus"

type indexedOp struct {
	name   string
	cycles byte
	run    func(c *CPU, b bus.MemBus16, idx *uint16) uint64
}

var indexedOpcodes map[byte]indexedOp

func addIndexed(op byte, name string, cycles byte, run func(c *CPU, b bus.MemBus16, idx *uint16) uint64) {
	indexedOpcodes[op] = indexedOp{name: name, cycles: cycles, run: run}
}

// indexedEA computes IX/IY + signed displacement, consuming the
// displacement byte that follows the opcode.
func indexedEA(c *CPU, b bus.MemBus16, idx *uint16) uint16 {
	d := int8(c.fetch8(b))
	return uint16(int32(*idx) + int32(d))
}

func init() {
	indexedOpcodes = make(map[byte]indexedOp)

	addIndexed(0x21, "LD IX,nn", 14, func(c *CPU, b bus.MemBus16, idx *uint16) uint64 { *idx = c.fetch16(b); return 0 })
	addIndexed(0x22, "LD (nn),IX", 20, func(c *CPU, b bus.MemBus16, idx *uint16) uint64 {
		bus.WriteWord16(b, c.fetch16(b), *idx)
		return 0
	})
	addIndexed(0x2A, "LD IX,(nn)", 20, func(c *CPU, b bus.MemBus16, idx *uint16) uint64 {
		*idx = bus.ReadWord16(b, c.fetch16(b))
		return 0
	})
	addIndexed(0x23, "INC IX", 10, func(c *CPU, b bus.MemBus16, idx *uint16) uint64 { *idx++; return 0 })
	addIndexed(0x2B, "DEC IX", 10, func(c *CPU, b bus.MemBus16, idx *uint16) uint64 { *idx--; return 0 })
	addIndexed(0xE1, "POP IX", 14, func(c *CPU, b bus.MemBus16, idx *uint16) uint64 { *idx = c.pull16(b); return 0 })
	addIndexed(0xE5, "PUSH IX", 15, func(c *CPU, b bus.MemBus16, idx *uint16) uint64 { c.push16(b, *idx); return 0 })
	addIndexed(0xE9, "JP (IX)", 8, func(c *CPU, b bus.MemBus16, idx *uint16) uint64 { c.PC = *idx; return 0 })
	addIndexed(0xF9, "LD SP,IX", 10, func(c *CPU, b bus.MemBus16, idx *uint16) uint64 { c.SP = *idx; return 0 })
	addIndexed(0xE3, "EX (SP),IX", 23, func(c *CPU, b bus.MemBus16, idx *uint16) uint64 {
		v := bus.ReadWord16(b, c.SP)
		bus.WriteWord16(b, c.SP, *idx)
		*idx = v
		return 0
	})

	pp := []func(c *CPU) uint16{
		func(c *CPU) uint16 { return c.BC() },
		func(c *CPU) uint16 { return c.DE() },
		nil, // self (IX or IY), filled in at call site
		func(c *CPU) uint16 { return c.SP },
	}
	for i, get := range pp {
		if get == nil {
			continue
		}
		i, get := i, get
		addIndexed(byte(0x09+i*0x10), "ADD IX,pp", 15, func(c *CPU, b bus.MemBus16, idx *uint16) uint64 {
			r, aff := add16(*idx, get(c))
			*idx = r
			aff.Apply(&c.F)
			return 0
		})
	}
	addIndexed(0x29, "ADD IX,IX", 15, func(c *CPU, b bus.MemBus16, idx *uint16) uint64 {
		r, aff := add16(*idx, *idx)
		*idx = r
		aff.Apply(&c.F)
		return 0
	})

	addIndexed(0x34, "INC (IX+d)", 23, func(c *CPU, b bus.MemBus16, idx *uint16) uint64 {
		addr := indexedEA(c, b, idx)
		v, aff := inc8(b.ReadByte(addr))
		b.WriteByte(addr, v)
		aff.Apply(&c.F)
		return 0
	})
	addIndexed(0x35, "DEC (IX+d)", 23, func(c *CPU, b bus.MemBus16, idx *uint16) uint64 {
		addr := indexedEA(c, b, idx)
		v, aff := dec8(b.ReadByte(addr))
		b.WriteByte(addr, v)
		aff.Apply(&c.F)
		return 0
	})
	addIndexed(0x36, "LD (IX+d),n", 19, func(c *CPU, b bus.MemBus16, idx *uint16) uint64 {
		addr := indexedEA(c, b, idx)
		b.WriteByte(addr, c.fetch8(b))
		return 0
	})

	// LD r,(IX+d) / LD (IX+d),r: the (HL) slot (index 6) of the normal
	// 0x40-0x7F grid becomes indexed memory; other register-to-register
	// forms in that range are handled by the prefix-reset fallback below.
	for r := byte(0); r < 8; r++ {
		if r == 6 {
			continue
		}
		r := r
		addIndexed(0x46+r*8, "LD r,(IX+d)", 19, func(c *CPU, b bus.MemBus16, idx *uint16) uint64 {
			addr := indexedEA(c, b, idx)
			c.setReg8(b, r, b.ReadByte(addr))
			return 0
		})
		addIndexed(0x70+r, "LD (IX+d),r", 19, func(c *CPU, b bus.MemBus16, idx *uint16) uint64 {
			addr := indexedEA(c, b, idx)
			b.WriteByte(addr, c.getReg8(b, r))
			return 0
		})
	}

	aluOps := []func(c *CPU, v byte){
		func(c *CPU, v byte) { r, aff := add8(c.A, v, false); c.A = r; aff.Apply(&c.F) },
		func(c *CPU, v byte) { r, aff := add8(c.A, v, c.flag(FlagC)); c.A = r; aff.Apply(&c.F) },
		func(c *CPU, v byte) { r, aff := sub8(c.A, v, false); c.A = r; aff.Apply(&c.F) },
		func(c *CPU, v byte) { r, aff := sub8(c.A, v, c.flag(FlagC)); c.A = r; aff.Apply(&c.F) },
		func(c *CPU, v byte) { r, aff := and8(c.A, v); c.A = r; aff.Apply(&c.F) },
		func(c *CPU, v byte) { r, aff := xor8(c.A, v); c.A = r; aff.Apply(&c.F) },
		func(c *CPU, v byte) { r, aff := or8(c.A, v); c.A = r; aff.Apply(&c.F) },
		func(c *CPU, v byte) { _, aff := sub8(c.A, v, false); aff.Apply(&c.F) },
	}
	for op := byte(0); op < 8; op++ {
		op := op
		addIndexed(0x86+op*8, "ALU A,(IX+d)", 19, func(c *CPU, b bus.MemBus16, idx *uint16) uint64 {
			addr := indexedEA(c, b, idx)
			aluOps[op](c, b.ReadByte(addr))
			return 0
		})
	}
}

// applyCBIndexed decodes an opByte3 exactly like the CB table but targets
// the byte at addr instead of a reg8 slot, matching the DDCB/FDCB group's
// fixed (IX+d)/(IY+d) operand.
func applyCBIndexed(c *CPU, b bus.MemBus16, addr uint16, opByte3 byte) {
	v := b.ReadByte(addr)
	group := opByte3 >> 6
	n := (opByte3 >> 3) & 7
	switch group {
	case 0:
		var result byte
		switch n {
		case 0:
			r, aff := rlc(v)
			result = r
			aff.Apply(&c.F)
		case 1:
			r, aff := rrc(v)
			result = r
			aff.Apply(&c.F)
		case 2:
			r, aff := rl(v, c.flag(FlagC))
			result = r
			aff.Apply(&c.F)
		case 3:
			r, aff := rr(v, c.flag(FlagC))
			result = r
			aff.Apply(&c.F)
		case 4:
			r, aff := sla(v)
			result = r
			aff.Apply(&c.F)
		case 5:
			r, aff := sra(v)
			result = r
			aff.Apply(&c.F)
		case 6:
			r, aff := sla(v)
			result = r | 1
			aff.Apply(&c.F)
		case 7:
			r, aff := srl(v)
			result = r
			aff.Apply(&c.F)
		}
		b.WriteByte(addr, result)
	case 1:
		bitTest(v, n).Apply(&c.F)
	case 2:
		b.WriteByte(addr, v&^(1<<n))
	case 3:
		b.WriteByte(addr, v|(1<<n))
	}
}

// stepIndexed handles the DD/FD prefix: a fixed table of instructions that
// reference IX/IY directly or via (IX+d)/(IY+d), a DDCB/FDCB sub-prefix for
// the bit-op group, and the prefix-reset-then-redispatch rule for every
// other opcode, for which DD/FD behaves as a no-op 4-cycle prefix in front
// of the ordinary unprefixed instruction.
func (c *CPU) stepIndexed(b bus.MemBus16, idx *uint16, prefixByte byte, startPC uint16) (string, uint64) {
	opByte2 := c.fetch8(b)

	if opByte2 == 0xCB {
		addr := indexedEA(c, b, idx)
		opByte3 := c.fetch8(b)
		applyCBIndexed(c, b, addr, opByte3)
		return "DDCB/FDCB", 23
	}

	if op, ok := indexedOpcodes[opByte2]; ok {
		cycles := uint64(op.cycles) + op.run(c, b, idx)
		return op.name, cycles
	}

	op, ok := opcodes[opByte2]
	if !ok {
		panic(&UnimplementedOpcodeError{Prefix: []byte{prefixByte}, Opcode: opByte2, PC: startPC})
	}
	cycles := uint64(op.Cycles) + op.Run(c, b) + 4
	return op.Name, cycles
}

package z80

import "retrocpu/bus"

var cbOpcodes map[byte]Opcode

func addCB(b byte, name string, cycles byte, run func(c *CPU, b bus.MemBus16)) {
	cbOpcodes[b] = Opcode{Name: name, Cycles: cycles, Run: func(c *CPU, b bus.MemBus16) uint64 {
		run(c, b)
		return 0
	}}
}

// init builds the CB-prefixed rotate/shift/BIT/RES/SET group: each of the
// 8 reg8 slots (6=(HL) costs more) crossed with the 8 shift ops, then BIT,
// RES and SET crossed with all 8 bit positions.
func init() {
	cbOpcodes = make(map[byte]Opcode)

	type rot struct {
		name string
		fn   func(c *CPU, v byte) byte
	}
	rots := []rot{
		{"RLC r", func(c *CPU, v byte) byte { r, aff := rlc(v); aff.Apply(&c.F); return r }},
		{"RRC r", func(c *CPU, v byte) byte { r, aff := rrc(v); aff.Apply(&c.F); return r }},
		{"RL r", func(c *CPU, v byte) byte { r, aff := rl(v, c.flag(FlagC)); aff.Apply(&c.F); return r }},
		{"RR r", func(c *CPU, v byte) byte { r, aff := rr(v, c.flag(FlagC)); aff.Apply(&c.F); return r }},
		{"SLA r", func(c *CPU, v byte) byte { r, aff := sla(v); aff.Apply(&c.F); return r }},
		{"SRA r", func(c *CPU, v byte) byte { r, aff := sra(v); aff.Apply(&c.F); return r }},
		{"SLL r", func(c *CPU, v byte) byte { r, aff := sla(v); r |= 1; aff.Apply(&c.F); return r }},
		{"SRL r", func(c *CPU, v byte) byte { r, aff := srl(v); aff.Apply(&c.F); return r }},
	}
	for op := byte(0); op < 8; op++ {
		for r := byte(0); r < 8; r++ {
			op, r := op, r
			addCB(op*8+r, rots[op].name, regCycles(r, 8, 15), func(c *CPU, b bus.MemBus16) {
				v := c.getReg8(b, r)
				c.setReg8(b, r, rots[op].fn(c, v))
			})
		}
	}

	for n := byte(0); n < 8; n++ {
		for r := byte(0); r < 8; r++ {
			n, r := n, r
			addCB(0x40+n*8+r, "BIT n,r", regCycles(r, 8, 12), func(c *CPU, b bus.MemBus16) {
				bitTest(c.getReg8(b, r), n).Apply(&c.F)
			})
			addCB(0x80+n*8+r, "RES n,r", regCycles(r, 8, 15), func(c *CPU, b bus.MemBus16) {
				c.setReg8(b, r, c.getReg8(b, r)&^(1<<n))
			})
			addCB(0xC0+n*8+r, "SET n,r", regCycles(r, 8, 15), func(c *CPU, b bus.MemBus16) {
				c.setReg8(b, r, c.getReg8(b, r)|(1<<n))
			})
		}
	}
}

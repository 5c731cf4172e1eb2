package w65c02

import (
	"retrocpu/alu65"
	"retrocpu/bus"
	"retrocpu/flags"
)

// handler is the uniform shape every instruction takes: given the decoded
// effective address, perform the effect and return any cycle penalty beyond
// the opcode's base count (page crossings, taken branches).
type handler func(c *CPU, b bus.MemBus16, eff Effective) byte

func pageCrossPenalty(eff Effective) byte {
	if eff.PageCrossed {
		return 1
	}
	return 0
}

func setNZ(c *CPU, v byte) {
	flags.If(v == 0, alu65.FlagZ).Plus(flags.If(v&0x80 != 0, alu65.FlagN)).Apply(&c.P)
}

func stz(c *CPU, b bus.MemBus16, eff Effective) byte {
	eff.Store(c, b, 0)
	return 0
}

func pha(c *CPU, b bus.MemBus16, eff Effective) byte { c.push(b, c.A); return 0 }
func pla(c *CPU, b bus.MemBus16, eff Effective) byte { c.A = c.pull(b); setNZ(c, c.A); return 0 }
func phx(c *CPU, b bus.MemBus16, eff Effective) byte { c.push(b, c.X); return 0 }
func plx(c *CPU, b bus.MemBus16, eff Effective) byte { c.X = c.pull(b); setNZ(c, c.X); return 0 }
func phy(c *CPU, b bus.MemBus16, eff Effective) byte { c.push(b, c.Y); return 0 }
func ply(c *CPU, b bus.MemBus16, eff Effective) byte { c.Y = c.pull(b); setNZ(c, c.Y); return 0 }

func php(c *CPU, b bus.MemBus16, eff Effective) byte {
	c.push(b, c.P|alu65.FlagB|alu65.FlagUnused)
	return 0
}

func plp(c *CPU, b bus.MemBus16, eff Effective) byte {
	c.P = (c.pull(b) | alu65.FlagUnused) &^ alu65.FlagB
	return 0
}

func bitwise(op func(a, b uint16, width8 bool) alu65.Result) handler {
	return func(c *CPU, b bus.MemBus16, eff Effective) byte {
		m := eff.Load(c, b)
		r := op(uint16(c.A), uint16(m), true)
		c.A = byte(r.Value)
		r.Affection.Apply(&c.P)
		return pageCrossPenalty(eff)
	}
}

// bitTestMode builds a BIT handler; immediateOnly restricts the affection to
// Z, matching silicon behaviour for BIT #imm.
func bitTestMode(immediateOnly bool) handler {
	return func(c *CPU, b bus.MemBus16, eff Effective) byte {
		m := eff.Load(c, b)
		aff := alu65.BitTest(uint16(c.A), uint16(m), true, immediateOnly)
		aff.Apply(&c.P)
		return pageCrossPenalty(eff)
	}
}

func adc(c *CPU, b bus.MemBus16, eff Effective) byte {
	m := eff.Load(c, b)
	r := alu65.ADC(uint16(c.A), uint16(m), c.Flag(alu65.FlagC), c.Flag(alu65.FlagD), true)
	c.A = byte(r.Value)
	r.Affection.Apply(&c.P)
	return pageCrossPenalty(eff)
}

func sbc(c *CPU, b bus.MemBus16, eff Effective) byte {
	m := eff.Load(c, b)
	r := alu65.SBC(uint16(c.A), uint16(m), c.Flag(alu65.FlagC), c.Flag(alu65.FlagD), true)
	c.A = byte(r.Value)
	r.Affection.Apply(&c.P)
	return pageCrossPenalty(eff)
}

// compareWith builds a CMP/CPX/CPY handler; reg selects the register field
// off the live *CPU at call time (a bound *byte would alias a different
// instance).
func compareWith(reg func(c *CPU) byte) handler {
	return func(c *CPU, b bus.MemBus16, eff Effective) byte {
		m := eff.Load(c, b)
		alu65.Compare(uint16(reg(c)), uint16(m), true).Apply(&c.P)
		return pageCrossPenalty(eff)
	}
}

func incMem(c *CPU, b bus.MemBus16, eff Effective) byte {
	r := alu65.Inc(uint16(eff.Load(c, b)), true)
	eff.Store(c, b, byte(r.Value))
	r.Affection.Apply(&c.P)
	return 0
}

func decMem(c *CPU, b bus.MemBus16, eff Effective) byte {
	r := alu65.Dec(uint16(eff.Load(c, b)), true)
	eff.Store(c, b, byte(r.Value))
	r.Affection.Apply(&c.P)
	return 0
}

// regField selects a register field off the live *CPU for the inc/dec
// register handlers below.
type regField func(c *CPU) *byte

func incReg(reg regField) handler {
	return func(c *CPU, b bus.MemBus16, eff Effective) byte {
		f := reg(c)
		r := alu65.Inc(uint16(*f), true)
		*f = byte(r.Value)
		r.Affection.Apply(&c.P)
		return 0
	}
}

func decReg(reg regField) handler {
	return func(c *CPU, b bus.MemBus16, eff Effective) byte {
		f := reg(c)
		r := alu65.Dec(uint16(*f), true)
		*f = byte(r.Value)
		r.Affection.Apply(&c.P)
		return 0
	}
}

func asl(c *CPU, b bus.MemBus16, eff Effective) byte {
	r := alu65.ShiftLeft(uint16(eff.Load(c, b)), true)
	eff.Store(c, b, byte(r.Value))
	r.Affection.Apply(&c.P)
	return 0
}

func lsr(c *CPU, b bus.MemBus16, eff Effective) byte {
	r := alu65.ShiftRight(uint16(eff.Load(c, b)), true)
	eff.Store(c, b, byte(r.Value))
	r.Affection.Apply(&c.P)
	return 0
}

func rol(c *CPU, b bus.MemBus16, eff Effective) byte {
	r := alu65.RotateLeft(uint16(eff.Load(c, b)), c.Flag(alu65.FlagC), true)
	eff.Store(c, b, byte(r.Value))
	r.Affection.Apply(&c.P)
	return 0
}

func ror(c *CPU, b bus.MemBus16, eff Effective) byte {
	r := alu65.RotateRight(uint16(eff.Load(c, b)), c.Flag(alu65.FlagC), true)
	eff.Store(c, b, byte(r.Value))
	r.Affection.Apply(&c.P)
	return 0
}

// trb/tsb: Z reflects A&M (mask), M updated by clearing/setting the bits A
// names, without touching N or C.
func trb(c *CPU, b bus.MemBus16, eff Effective) byte {
	m := eff.Load(c, b)
	flags.If(c.A&m == 0, alu65.FlagZ).Apply(&c.P)
	eff.Store(c, b, m&^c.A)
	return 0
}

func tsb(c *CPU, b bus.MemBus16, eff Effective) byte {
	m := eff.Load(c, b)
	flags.If(c.A&m == 0, alu65.FlagZ).Apply(&c.P)
	eff.Store(c, b, m|c.A)
	return 0
}

func jmp(c *CPU, b bus.MemBus16, eff Effective) byte {
	c.PC = eff.Addr
	return 0
}

func jsr(c *CPU, b bus.MemBus16, eff Effective) byte {
	c.pushWord(b, c.PC-1)
	c.PC = eff.Addr
	return 0
}

func rts(c *CPU, b bus.MemBus16, eff Effective) byte {
	c.PC = c.pullWord(b) + 1
	return 0
}

// brk: push PC+2 high, PC+2 low, P with B=1, set I, load PC from IRQ/BRK
// vector (spec.md s4.7).
func brk(c *CPU, b bus.MemBus16, eff Effective) byte {
	c.PC++
	c.pushWord(b, c.PC)
	c.push(b, c.P|alu65.FlagB|alu65.FlagUnused)
	flags.Value(alu65.FlagI).Apply(&c.P)
	c.PC = bus.ReadWord16(b, irqVector)
	return 0
}

func rti(c *CPU, b bus.MemBus16, eff Effective) byte {
	c.P = (c.pull(b) | alu65.FlagUnused) &^ alu65.FlagB
	c.PC = c.pullWord(b)
	return 0
}

// branch evaluates cond and, if taken, adds the offset to the
// already-advanced PC plus a page-cross penalty.
func branch(cond func(c *CPU) bool) handler {
	return func(c *CPU, b bus.MemBus16, eff Effective) byte {
		offset := int8(b.ReadByte(eff.Addr))
		if !cond(c) {
			return 0
		}
		target := uint16(int32(c.PC) + int32(offset))
		extra := byte(1)
		if !samePage(c.PC, target) {
			extra++
		}
		c.PC = target
		return extra
	}
}

func clearFlag(mask byte) handler {
	return func(c *CPU, b bus.MemBus16, eff Effective) byte {
		flags.Clear(mask).Apply(&c.P)
		return 0
	}
}

func setFlag(mask byte) handler {
	return func(c *CPU, b bus.MemBus16, eff Effective) byte {
		flags.Value(mask).Apply(&c.P)
		return 0
	}
}

func nop(c *CPU, b bus.MemBus16, eff Effective) byte { return 0 }

package w65c816

import (
	"retrocpu/alu65"
	"retrocpu/bus"
	"retrocpu/flags"
)

// handler is the uniform shape every instruction takes.
type handler func(c *CPU, b bus.MemBus24, eff Effective) byte

func pageCrossPenalty(eff Effective) byte {
	if eff.PageCrossed {
		return 1
	}
	return 0
}

func dlPenalty(eff Effective) byte {
	if eff.DLPenalty {
		return 1
	}
	return 0
}

func extraPenalty(eff Effective) byte {
	return pageCrossPenalty(eff) + dlPenalty(eff)
}

func setNZ(c *CPU, v uint16, wide bool) {
	sign := uint16(0x80)
	if wide {
		sign = 0x8000
	}
	flags.If(v == 0, alu65.FlagZ).Plus(flags.If(v&sign != 0, alu65.FlagN)).Apply(&c.P)
}

func lda(c *CPU, b bus.MemBus24, eff Effective) byte {
	wide := !c.accum8()
	if wide {
		c.SetA(eff.Load16(c, b))
	} else {
		c.SetA(uint16(eff.Load8(c, b)))
	}
	setNZ(c, c.A, wide)
	return extraPenalty(eff)
}

func ldIndex(set func(c *CPU, v uint16)) handler {
	return func(c *CPU, b bus.MemBus24, eff Effective) byte {
		wide := !c.index8()
		var v uint16
		if wide {
			v = eff.Load16(c, b)
		} else {
			v = uint16(eff.Load8(c, b))
		}
		set(c, v)
		setNZ(c, v, wide)
		return extraPenalty(eff)
	}
}

func sta(c *CPU, b bus.MemBus24, eff Effective) byte {
	if !c.accum8() {
		eff.Store16(c, b, c.A)
	} else {
		eff.Store8(c, b, byte(c.A))
	}
	return dlPenalty(eff) // stores never pay the index page-cross cycle, only the DL penalty
}

func stIndex(get func(c *CPU) uint16) handler {
	return func(c *CPU, b bus.MemBus24, eff Effective) byte {
		if !c.index8() {
			eff.Store16(c, b, get(c))
		} else {
			eff.Store8(c, b, byte(get(c)))
		}
		return dlPenalty(eff)
	}
}

func stz(c *CPU, b bus.MemBus24, eff Effective) byte {
	if !c.accum8() {
		eff.Store16(c, b, 0)
	} else {
		eff.Store8(c, b, 0)
	}
	return dlPenalty(eff)
}

func adc(c *CPU, b bus.MemBus24, eff Effective) byte {
	wide := !c.accum8()
	var m uint16
	if wide {
		m = eff.Load16(c, b)
	} else {
		m = uint16(eff.Load8(c, b))
	}
	r := alu65.ADC(c.A, m, c.Flag(alu65.FlagC), c.Flag(alu65.FlagD), !wide)
	c.SetA(r.Value)
	r.Affection.Apply(&c.P)
	return extraPenalty(eff)
}

func sbc(c *CPU, b bus.MemBus24, eff Effective) byte {
	wide := !c.accum8()
	var m uint16
	if wide {
		m = eff.Load16(c, b)
	} else {
		m = uint16(eff.Load8(c, b))
	}
	r := alu65.SBC(c.A, m, c.Flag(alu65.FlagC), c.Flag(alu65.FlagD), !wide)
	c.SetA(r.Value)
	r.Affection.Apply(&c.P)
	return extraPenalty(eff)
}

func bitwise(op func(a, b uint16, width8 bool) alu65.Result) handler {
	return func(c *CPU, b bus.MemBus24, eff Effective) byte {
		wide := !c.accum8()
		var m uint16
		if wide {
			m = eff.Load16(c, b)
		} else {
			m = uint16(eff.Load8(c, b))
		}
		r := op(c.A, m, !wide)
		c.SetA(r.Value)
		r.Affection.Apply(&c.P)
		return extraPenalty(eff)
	}
}

func bitTest(immediateOnly bool) handler {
	return func(c *CPU, b bus.MemBus24, eff Effective) byte {
		wide := !c.accum8()
		var m uint16
		if wide {
			m = eff.Load16(c, b)
		} else {
			m = uint16(eff.Load8(c, b))
		}
		alu65.BitTest(c.A, m, !wide, immediateOnly).Apply(&c.P)
		return extraPenalty(eff)
	}
}

func compareWith(reg func(c *CPU) uint16, wide8 func(c *CPU) bool) handler {
	return func(c *CPU, b bus.MemBus24, eff Effective) byte {
		wide := !wide8(c)
		var m uint16
		if wide {
			m = eff.Load16(c, b)
		} else {
			m = uint16(eff.Load8(c, b))
		}
		alu65.Compare(reg(c), m, !wide).Apply(&c.P)
		return extraPenalty(eff)
	}
}

func incMem(c *CPU, b bus.MemBus24, eff Effective) byte {
	wide := !c.accum8()
	if wide {
		r := alu65.Inc(eff.Load16(c, b), false)
		eff.Store16(c, b, r.Value)
		r.Affection.Apply(&c.P)
	} else {
		r := alu65.Inc(uint16(eff.Load8(c, b)), true)
		eff.Store8(c, b, byte(r.Value))
		r.Affection.Apply(&c.P)
	}
	return dlPenalty(eff)
}

func decMem(c *CPU, b bus.MemBus24, eff Effective) byte {
	wide := !c.accum8()
	if wide {
		r := alu65.Dec(eff.Load16(c, b), false)
		eff.Store16(c, b, r.Value)
		r.Affection.Apply(&c.P)
	} else {
		r := alu65.Dec(uint16(eff.Load8(c, b)), true)
		eff.Store8(c, b, byte(r.Value))
		r.Affection.Apply(&c.P)
	}
	return dlPenalty(eff)
}

func incIndex(reg func(c *CPU) *uint16, wide8 func(c *CPU) bool) handler {
	return func(c *CPU, b bus.MemBus24, eff Effective) byte {
		f := reg(c)
		r := alu65.Inc(*f, wide8(c))
		*f = r.Value
		r.Affection.Apply(&c.P)
		return 0
	}
}

func decIndex(reg func(c *CPU) *uint16, wide8 func(c *CPU) bool) handler {
	return func(c *CPU, b bus.MemBus24, eff Effective) byte {
		f := reg(c)
		r := alu65.Dec(*f, wide8(c))
		*f = r.Value
		r.Affection.Apply(&c.P)
		return 0
	}
}

func shiftOp(op func(v uint16, width8 bool) alu65.Result) handler {
	return func(c *CPU, b bus.MemBus24, eff Effective) byte {
		wide := !c.accum8()
		if eff.Kind == kindAccumulator {
			r := op(c.A, !wide)
			c.SetA(r.Value)
			r.Affection.Apply(&c.P)
			return 0
		}
		if wide {
			r := op(eff.Load16(c, b), false)
			eff.Store16(c, b, r.Value)
			r.Affection.Apply(&c.P)
		} else {
			r := op(uint16(eff.Load8(c, b)), true)
			eff.Store8(c, b, byte(r.Value))
			r.Affection.Apply(&c.P)
		}
		return dlPenalty(eff)
	}
}

func rotateOp(op func(v uint16, carryIn bool, width8 bool) alu65.Result) handler {
	return func(c *CPU, b bus.MemBus24, eff Effective) byte {
		wide := !c.accum8()
		carryIn := c.Flag(alu65.FlagC)
		if eff.Kind == kindAccumulator {
			r := op(c.A, carryIn, !wide)
			c.SetA(r.Value)
			r.Affection.Apply(&c.P)
			return 0
		}
		if wide {
			r := op(eff.Load16(c, b), carryIn, false)
			eff.Store16(c, b, r.Value)
			r.Affection.Apply(&c.P)
		} else {
			r := op(uint16(eff.Load8(c, b)), carryIn, true)
			eff.Store8(c, b, byte(r.Value))
			r.Affection.Apply(&c.P)
		}
		return dlPenalty(eff)
	}
}

func jmp(c *CPU, b bus.MemBus24, eff Effective) byte {
	c.PC = eff.Addr.Offset
	return 0
}

func jml(c *CPU, b bus.MemBus24, eff Effective) byte {
	c.PC = eff.Addr.Offset
	c.PBR = eff.Addr.Bank
	return 0
}

func jsr(c *CPU, b bus.MemBus24, eff Effective) byte {
	c.push16(b, c.PC-1)
	c.PC = eff.Addr.Offset
	return 0
}

func jsl(c *CPU, b bus.MemBus24, eff Effective) byte {
	c.push8(b, c.PBR)
	c.push16(b, c.PC-1)
	c.PC = eff.Addr.Offset
	c.PBR = eff.Addr.Bank
	return 0
}

func rts(c *CPU, b bus.MemBus24, eff Effective) byte {
	c.PC = c.pull16(b) + 1
	return 0
}

func rtl(c *CPU, b bus.MemBus24, eff Effective) byte {
	c.PC = c.pull16(b) + 1
	c.PBR = c.pull8(b)
	return 0
}

func pushReg(get func(c *CPU) uint16, wide8 func(c *CPU) bool) handler {
	return func(c *CPU, b bus.MemBus24, eff Effective) byte {
		if wide8(c) {
			c.push8(b, byte(get(c)))
		} else {
			c.push16(b, get(c))
		}
		return 0
	}
}

func pullReg(set func(c *CPU, v uint16), wide8 func(c *CPU) bool, affect bool) handler {
	return func(c *CPU, b bus.MemBus24, eff Effective) byte {
		var v uint16
		if wide8(c) {
			v = uint16(c.pull8(b))
		} else {
			v = c.pull16(b)
		}
		set(c, v)
		if affect {
			setNZ(c, v, !wide8(c))
		}
		return 0
	}
}

func php(c *CPU, b bus.MemBus24, eff Effective) byte {
	c.push8(b, c.P|alu65.FlagB)
	return 0
}

func plp(c *CPU, b bus.MemBus24, eff Effective) byte {
	c.P = c.pull8(b)
	if c.E {
		c.P |= alu65.FlagM | alu65.FlagX
		c.X &= 0xFF
		c.Y &= 0xFF
	}
	return 0
}

func phb(c *CPU, b bus.MemBus24, eff Effective) byte { c.push8(b, c.DBR); return 0 }
func plb(c *CPU, b bus.MemBus24, eff Effective) byte {
	c.DBR = c.pull8(b)
	setNZ(c, uint16(c.DBR), false)
	return 0
}
func phk(c *CPU, b bus.MemBus24, eff Effective) byte { c.push8(b, c.PBR); return 0 }
func phd(c *CPU, b bus.MemBus24, eff Effective) byte { c.push16(b, c.DP); return 0 }
func pld(c *CPU, b bus.MemBus24, eff Effective) byte {
	c.DP = c.pull16(b)
	setNZ(c, c.DP, true)
	return 0
}

func pea(c *CPU, b bus.MemBus24, eff Effective) byte {
	c.push16(b, eff.Load16(c, b))
	return 0
}

func pei(c *CPU, b bus.MemBus24, eff Effective) byte {
	c.push16(b, bus.ReadWord24(b, eff.Addr, bus.Word))
	return 0
}

func per(c *CPU, b bus.MemBus24, eff Effective) byte {
	offset := int16(bus.ReadWord24(b, eff.Addr, bus.Word))
	c.push16(b, uint16(int32(c.PC)+int32(offset)))
	return 0
}

// brk: push PBR (native only), push return PC (high then low), push P,
// set I, clear D, load PC from the mode-appropriate BRK vector, PBR forced
// to 0. Byte order matches the original source's tests_brk.rs: PBR is the
// first-pushed/highest-address byte, P is the last-pushed/lowest-address
// byte. The signature byte following the opcode has already been consumed
// by evalMode's ImmediateByte fetch, so c.PC already holds the return
// address.
func brk(c *CPU, b bus.MemBus24, eff Effective) byte {
	if !c.E {
		c.push8(b, c.PBR)
	}
	c.push16(b, c.PC)
	if c.E {
		c.push8(b, c.P|alu65.FlagB)
	} else {
		c.push8(b, c.P)
	}
	flags.Value(alu65.FlagI).Plus(flags.Clear(alu65.FlagD)).Apply(&c.P)
	vector := emulationIRQVector
	if !c.E {
		vector = nativeBRKVector
	}
	c.PC = bus.ReadWord24(b, bus.Addr24{Bank: 0, Offset: vector}, bus.Word)
	c.PBR = 0
	return 0
}

// cop behaves like brk but uses the COP vector pair (int.rs's Vector::COP),
// with the same PBR-then-PC-then-P push order.
func cop(c *CPU, b bus.MemBus24, eff Effective) byte {
	if !c.E {
		c.push8(b, c.PBR)
	}
	c.push16(b, c.PC)
	c.push8(b, c.P)
	flags.Value(alu65.FlagI).Plus(flags.Clear(alu65.FlagD)).Apply(&c.P)
	vector := emulationCOPVector
	if !c.E {
		vector = nativeCOPVector
	}
	c.PC = bus.ReadWord24(b, bus.Addr24{Bank: 0, Offset: vector}, bus.Word)
	c.PBR = 0
	return 0
}

// rti pulls in the mirror order of brk/cop's pushes: P first (it was
// pushed last, so it sits at the lowest address), then PC, then PBR
// (native only, pushed first, sitting at the highest address).
func rti(c *CPU, b bus.MemBus24, eff Effective) byte {
	c.P = c.pull8(b)
	if c.E {
		c.P |= alu65.FlagM | alu65.FlagX
	}
	c.PC = c.pull16(b)
	if !c.E {
		c.PBR = c.pull8(b)
	}
	return 0
}

// xce exchanges C and E; entering emulation (E 0->1) reinstates the
// emulation invariants (spec.md s4.7).
func xce(c *CPU, b bus.MemBus24, eff Effective) byte {
	carry := c.Flag(alu65.FlagC)
	wasEmulation := c.E
	newEmulation := carry
	flags.If(wasEmulation, alu65.FlagC).Apply(&c.P)
	if newEmulation && !wasEmulation {
		c.enterEmulation()
	} else {
		c.E = newEmulation
	}
	return 0
}

// rep clears the P bits named by the immediate mask; SEP sets them. If
// E=1, M and X cannot be cleared (spec.md s4.7).
func rep(c *CPU, b bus.MemBus24, eff Effective) byte {
	mask := eff.Load8(c, b)
	if c.E {
		mask &^= alu65.FlagM | alu65.FlagX
	}
	flags.Clear(mask).Apply(&c.P)
	return 0
}

func sep(c *CPU, b bus.MemBus24, eff Effective) byte {
	mask := eff.Load8(c, b)
	flags.Value(mask).Apply(&c.P)
	return 0
}

// mvn/mvp: block move. One byte per invocation matches silicon's
// re-entrant 7-cycle-per-byte behaviour; this core executes the whole
// count in one handler call and reports the aggregate cycles.
func mvn(c *CPU, b bus.MemBus24, eff Effective) byte {
	return blockMove(c, b, eff, 1)
}

func mvp(c *CPU, b bus.MemBus24, eff Effective) byte {
	return blockMove(c, b, eff, -1)
}

func blockMove(c *CPU, b bus.MemBus24, eff Effective, dir int) byte {
	destBank := c.fetchByte(b)
	srcBank := c.fetchByte(b)
	c.DBR = destBank
	var cycles int
	for c.A != 0xFFFF {
		v := b.ReadByte(bus.Addr24{Bank: srcBank, Offset: c.X})
		b.WriteByte(bus.Addr24{Bank: destBank, Offset: c.Y}, v)
		if dir > 0 {
			c.X++
			c.Y++
		} else {
			c.X--
			c.Y--
		}
		c.A--
		cycles += 7
		if c.A == 0xFFFF {
			break
		}
	}
	return byte(cycles)
}

func branch(cond func(c *CPU) bool) handler {
	return func(c *CPU, b bus.MemBus24, eff Effective) byte {
		offset := int8(b.ReadByte(eff.Addr))
		if !cond(c) {
			return 0
		}
		target := uint16(int32(c.PC) + int32(offset))
		extra := byte(1)
		if !samePage(bus.Addr24{Bank: c.PBR, Offset: c.PC}, bus.Addr24{Bank: c.PBR, Offset: target}) {
			extra++
		}
		c.PC = target
		return extra
	}
}

func brl(c *CPU, b bus.MemBus24, eff Effective) byte {
	offset := int16(bus.ReadWord24(b, eff.Addr, bus.Word))
	c.PC = uint16(int32(c.PC) + int32(offset))
	return 0
}

func clearFlag(mask byte) handler {
	return func(c *CPU, b bus.MemBus24, eff Effective) byte {
		flags.Clear(mask).Apply(&c.P)
		return 0
	}
}

func setFlag(mask byte) handler {
	return func(c *CPU, b bus.MemBus24, eff Effective) byte {
		flags.Value(mask).Apply(&c.P)
		return 0
	}
}

func nop(c *CPU, b bus.MemBus24, eff Effective) byte { return 0 }

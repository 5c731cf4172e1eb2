package w65c816

import (
	"fmt"

	"retrocpu/bus"
)

// Mode names one of the W65C816's addressing modes (spec.md s4.5),
// including the six modes absent from the 65C02: AbsoluteLong,
// AbsoluteLongIndexed, Direct{IndirectLong,IndirectLongIndexed},
// StackRelative and StackRelativeIndirectIndexed.
type Mode int

const (
	Implied Mode = iota
	Accumulator
	ImmediateA // width follows the M flag
	ImmediateX // width follows the X flag
	ImmediateByte
	Relative
	RelativeLong
	Absolute
	AbsoluteX
	AbsoluteY
	AbsoluteLong
	AbsoluteLongIndexed
	AbsoluteIndirect
	AbsoluteIndirectLong
	AbsoluteIndexedIndirect
	Direct
	DirectIndexedX
	DirectIndexedY
	DirectIndirect
	DirectIndirectLong
	DirectIndirectIndexed
	DirectIndirectLongIndexed
	DirectIndexedIndirect
	StackRelative
	StackRelativeIndirectIndexed
)

// Effective is the resolved operand an addressing mode produced.
type Effective struct {
	Kind        effectiveKind
	Addr        bus.Addr24
	Wide        bool // set only by Accumulator and ImmediateA/X when 16 bits wide; handlers take width from accum8()/index8()
	PageCrossed bool
	DLPenalty   bool
}

type effectiveKind int

const (
	kindImplied effectiveKind = iota
	kindAccumulator
	kindMemory
)

func (e Effective) String() string {
	switch e.Kind {
	case kindAccumulator:
		return "A"
	case kindMemory:
		return fmt.Sprintf("%02x:%04x", e.Addr.Bank, e.Addr.Offset)
	default:
		return ""
	}
}

func (e Effective) Load8(c *CPU, b bus.MemBus24) byte {
	if e.Kind == kindAccumulator {
		return byte(c.A)
	}
	return b.ReadByte(e.Addr)
}

func (e Effective) Load16(c *CPU, b bus.MemBus24) uint16 {
	if e.Kind == kindAccumulator {
		return c.A
	}
	return bus.ReadWord24(b, e.Addr, bus.Word)
}

func (e Effective) Store8(c *CPU, b bus.MemBus24, v byte) {
	if e.Kind == kindAccumulator {
		c.SetA(uint16(v))
		return
	}
	b.WriteByte(e.Addr, v)
}

func (e Effective) Store16(c *CPU, b bus.MemBus24, v uint16) {
	if e.Kind == kindAccumulator {
		c.SetA(v)
		return
	}
	bus.WriteWord24(b, e.Addr, bus.Word, v)
}

func samePage(a, b bus.Addr24) bool {
	return a.Bank == b.Bank && a.Offset&0xFF00 == b.Offset&0xFF00
}

func (c *CPU) fetchByte(b bus.MemBus24) byte {
	v := b.ReadByte(bus.Addr24{Bank: c.pbrForAddressing(), Offset: c.PC})
	c.PC++
	return v
}

func (c *CPU) fetchWord(b bus.MemBus24) uint16 {
	lo := c.fetchByte(b)
	hi := c.fetchByte(b)
	return uint16(hi)<<8 | uint16(lo)
}

func (c *CPU) directBase() bus.Addr24 {
	return bus.Addr24{Bank: 0, Offset: c.DP}
}

func (c *CPU) dlPenalty() bool {
	return c.DP&0xFF != 0
}

// evalMode fetches whatever operand bytes mode requires, advancing c.PC,
// and returns the resolved effective address. Wrap policy per mode follows
// spec.md s4.5 and original_source's addr.rs: Absolute[Long]Indexed carry
// into the bank (Long), Direct-page and stack-relative modes wrap inside
// 64 KiB (Word).
func evalMode(c *CPU, b bus.MemBus24, mode Mode) Effective {
	switch mode {
	case Implied:
		return Effective{Kind: kindImplied}

	case Accumulator:
		return Effective{Kind: kindAccumulator, Wide: !c.accum8()}

	case ImmediateA:
		wide := !c.accum8()
		addr := bus.Addr24{Bank: c.pbrForAddressing(), Offset: c.PC}
		c.PC++
		if wide {
			c.PC++
		}
		return Effective{Kind: kindMemory, Addr: addr, Wide: wide}

	case ImmediateX:
		wide := !c.index8()
		addr := bus.Addr24{Bank: c.pbrForAddressing(), Offset: c.PC}
		c.PC++
		if wide {
			c.PC++
		}
		return Effective{Kind: kindMemory, Addr: addr, Wide: wide}

	case ImmediateByte:
		addr := bus.Addr24{Bank: c.pbrForAddressing(), Offset: c.PC}
		c.PC++
		return Effective{Kind: kindMemory, Addr: addr}

	case Relative:
		addr := bus.Addr24{Bank: c.pbrForAddressing(), Offset: c.PC}
		c.PC++
		return Effective{Kind: kindMemory, Addr: addr}

	case RelativeLong:
		addr := bus.Addr24{Bank: c.pbrForAddressing(), Offset: c.PC}
		c.PC += 2
		return Effective{Kind: kindMemory, Addr: addr}

	case Absolute:
		off := c.fetchWord(b)
		return Effective{Kind: kindMemory, Addr: bus.Addr24{Bank: c.dbrForAddressing(), Offset: off}}

	case AbsoluteX:
		base := bus.Addr24{Bank: c.dbrForAddressing(), Offset: c.fetchWord(b)}
		addr := base.Add(c.X, bus.Long)
		return Effective{Kind: kindMemory, Addr: addr, PageCrossed: !samePage(base, addr) || !c.index8()}

	case AbsoluteY:
		base := bus.Addr24{Bank: c.dbrForAddressing(), Offset: c.fetchWord(b)}
		addr := base.Add(c.Y, bus.Long)
		return Effective{Kind: kindMemory, Addr: addr, PageCrossed: !samePage(base, addr) || !c.index8()}

	case AbsoluteLong:
		off := c.fetchWord(b)
		bank := c.fetchByte(b)
		return Effective{Kind: kindMemory, Addr: bus.Addr24{Bank: bank, Offset: off}}

	case AbsoluteLongIndexed:
		off := c.fetchWord(b)
		bank := c.fetchByte(b)
		addr := bus.Addr24{Bank: bank, Offset: off}.Add(c.X, bus.Long)
		return Effective{Kind: kindMemory, Addr: addr}

	case AbsoluteIndirect:
		ptr := bus.Addr24{Bank: 0, Offset: c.fetchWord(b)}
		off := bus.ReadWord24(b, ptr, bus.Word)
		return Effective{Kind: kindMemory, Addr: bus.Addr24{Bank: c.pbrForAddressing(), Offset: off}}

	case AbsoluteIndexedIndirect:
		ptr := bus.Addr24{Bank: c.pbrForAddressing(), Offset: c.fetchWord(b) + c.X}
		off := bus.ReadWord24(b, ptr, bus.Word)
		return Effective{Kind: kindMemory, Addr: bus.Addr24{Bank: c.pbrForAddressing(), Offset: off}}

	case AbsoluteIndirectLong:
		ptr := bus.Addr24{Bank: 0, Offset: c.fetchWord(b)}
		off := bus.ReadWord24(b, ptr, bus.Word)
		bank := b.ReadByte(ptr.Add(2, bus.Word))
		return Effective{Kind: kindMemory, Addr: bus.Addr24{Bank: bank, Offset: off}}

	case Direct:
		dl := c.dlPenalty()
		off := c.DP + uint16(c.fetchByte(b))
		return Effective{Kind: kindMemory, Addr: bus.Addr24{Bank: 0, Offset: off}, DLPenalty: dl}

	case DirectIndexedX:
		dl := c.dlPenalty()
		off := c.DP + uint16(c.fetchByte(b)) + c.X
		return Effective{Kind: kindMemory, Addr: bus.Addr24{Bank: 0, Offset: off}, DLPenalty: dl}

	case DirectIndexedY:
		dl := c.dlPenalty()
		off := c.DP + uint16(c.fetchByte(b)) + c.Y
		return Effective{Kind: kindMemory, Addr: bus.Addr24{Bank: 0, Offset: off}, DLPenalty: dl}

	case DirectIndirect:
		dl := c.dlPenalty()
		ptr := bus.Addr24{Bank: 0, Offset: c.DP + uint16(c.fetchByte(b))}
		off := bus.ReadWord24(b, ptr, bus.Word)
		return Effective{Kind: kindMemory, Addr: bus.Addr24{Bank: c.dbrForAddressing(), Offset: off}, DLPenalty: dl}

	case DirectIndirectLong:
		dl := c.dlPenalty()
		ptr := bus.Addr24{Bank: 0, Offset: c.DP + uint16(c.fetchByte(b))}
		off := bus.ReadWord24(b, ptr, bus.Word)
		bank := b.ReadByte(ptr.Add(2, bus.Word))
		return Effective{Kind: kindMemory, Addr: bus.Addr24{Bank: bank, Offset: off}, DLPenalty: dl}

	case DirectIndirectIndexed:
		dl := c.dlPenalty()
		ptr := bus.Addr24{Bank: 0, Offset: c.DP + uint16(c.fetchByte(b))}
		base := bus.Addr24{Bank: c.dbrForAddressing(), Offset: bus.ReadWord24(b, ptr, bus.Word)}
		addr := base.Add(c.Y, bus.Long)
		return Effective{Kind: kindMemory, Addr: addr, DLPenalty: dl, PageCrossed: !samePage(base, addr) || !c.index8()}

	case DirectIndirectLongIndexed:
		dl := c.dlPenalty()
		ptr := bus.Addr24{Bank: 0, Offset: c.DP + uint16(c.fetchByte(b))}
		off := bus.ReadWord24(b, ptr, bus.Word)
		bank := b.ReadByte(ptr.Add(2, bus.Word))
		addr := bus.Addr24{Bank: bank, Offset: off}.Add(c.Y, bus.Long)
		return Effective{Kind: kindMemory, Addr: addr, DLPenalty: dl}

	case DirectIndexedIndirect:
		dl := c.dlPenalty()
		ptr := bus.Addr24{Bank: 0, Offset: c.DP + uint16(c.fetchByte(b)) + c.X}
		off := bus.ReadWord24(b, ptr, bus.Word)
		return Effective{Kind: kindMemory, Addr: bus.Addr24{Bank: c.dbrForAddressing(), Offset: off}, DLPenalty: dl}

	case StackRelative:
		off := c.SP + uint16(c.fetchByte(b))
		return Effective{Kind: kindMemory, Addr: bus.Addr24{Bank: 0, Offset: off}}

	case StackRelativeIndirectIndexed:
		ptr := bus.Addr24{Bank: 0, Offset: c.SP + uint16(c.fetchByte(b))}
		base := bus.Addr24{Bank: c.dbrForAddressing(), Offset: bus.ReadWord24(b, ptr, bus.Word)}
		addr := base.Add(c.Y, bus.Word)
		return Effective{Kind: kindMemory, Addr: addr}
	}

	return Effective{Kind: kindImplied}
}

package w65c02

import (
	"fmt"

	"retrocpu/bus"
)

// Mode names one of the W65C02's thirteen addressing modes plus the CMOS
// `(zp)` addition (spec.md s4.5).
type Mode int

const (
	Implied Mode = iota
	Accumulator
	Immediate
	ZeroPage
	ZeroPageX
	ZeroPageY
	Relative
	Absolute
	AbsoluteX
	AbsoluteY
	Indirect
	IndirectX
	IndirectY
	ZeroPageIndirect
)

// Effective is the resolved operand an addressing mode produced: either the
// accumulator, an address in memory, or nothing (Implied). Handlers read
// and write through it without knowing which mode produced it.
type Effective struct {
	Kind        effectiveKind
	Addr        uint16
	PageCrossed bool
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
		return fmt.Sprintf("$%04x", e.Addr)
	default:
		return ""
	}
}

// Load reads the operand byte the effective address names.
func (e Effective) Load(c *CPU, b bus.MemBus16) byte {
	switch e.Kind {
	case kindAccumulator:
		return c.A
	case kindMemory:
		return b.ReadByte(e.Addr)
	default:
		return 0
	}
}

// Store writes v back through the effective address.
func (e Effective) Store(c *CPU, b bus.MemBus16, v byte) {
	switch e.Kind {
	case kindAccumulator:
		c.A = v
	case kindMemory:
		b.WriteByte(e.Addr, v)
	}
}

func samePage(a, b uint16) bool {
	return a&0xFF00 == b&0xFF00
}

// evalMode fetches whatever operand bytes mode requires, advancing c.PC,
// and returns the resolved effective address plus whether a page boundary
// was crossed (used by AbsoluteX/Y and IndirectY to add the page-crossing
// penalty, spec.md s4.5).
func evalMode(c *CPU, b bus.MemBus16, mode Mode) Effective {
	switch mode {
	case Implied:
		return Effective{Kind: kindImplied}

	case Accumulator:
		return Effective{Kind: kindAccumulator}

	case Immediate:
		addr := c.PC
		c.PC++
		return Effective{Kind: kindMemory, Addr: addr}

	case ZeroPage:
		addr := uint16(b.ReadByte(c.PC))
		c.PC++
		return Effective{Kind: kindMemory, Addr: addr}

	case ZeroPageX:
		addr := uint16(b.ReadByte(c.PC) + c.X)
		c.PC++
		return Effective{Kind: kindMemory, Addr: addr & 0xFF}

	case ZeroPageY:
		addr := uint16(b.ReadByte(c.PC) + c.Y)
		c.PC++
		return Effective{Kind: kindMemory, Addr: addr & 0xFF}

	case Relative:
		// The offset itself is consumed here; the branch handler computes
		// the target once it knows whether the branch is taken.
		addr := c.PC
		c.PC++
		return Effective{Kind: kindMemory, Addr: addr}

	case Absolute:
		addr := bus.ReadWord16(b, c.PC)
		c.PC += 2
		return Effective{Kind: kindMemory, Addr: addr}

	case AbsoluteX:
		base := bus.ReadWord16(b, c.PC)
		c.PC += 2
		addr := base + uint16(c.X)
		return Effective{Kind: kindMemory, Addr: addr, PageCrossed: !samePage(base, addr)}

	case AbsoluteY:
		base := bus.ReadWord16(b, c.PC)
		c.PC += 2
		addr := base + uint16(c.Y)
		return Effective{Kind: kindMemory, Addr: addr, PageCrossed: !samePage(base, addr)}

	case Indirect:
		ptr := bus.ReadWord16(b, c.PC)
		c.PC += 2
		addr := bus.ReadWordPageWrap16(b, ptr)
		return Effective{Kind: kindMemory, Addr: addr}

	case IndirectX:
		ptr := b.ReadByte(c.PC) + c.X
		c.PC++
		addr := bus.ReadWordPageWrap16(b, uint16(ptr))
		return Effective{Kind: kindMemory, Addr: addr}

	case IndirectY:
		ptr := b.ReadByte(c.PC)
		c.PC++
		base := bus.ReadWordPageWrap16(b, uint16(ptr))
		addr := base + uint16(c.Y)
		return Effective{Kind: kindMemory, Addr: addr, PageCrossed: !samePage(base, addr)}

	case ZeroPageIndirect:
		ptr := b.ReadByte(c.PC)
		c.PC++
		addr := bus.ReadWordPageWrap16(b, uint16(ptr))
		return Effective{Kind: kindMemory, Addr: addr}
	}

	return Effective{Kind: kindImplied}
}

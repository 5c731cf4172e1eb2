package z80

import "retrocpu/bus"

// reg8 indices follow the Zilog encoding: 0=B 1=C 2=D 3=E 4=H 5=L 6=(HL) 7=A.
func (c *CPU) getReg8(b bus.MemBus16, idx byte) byte {
	switch idx {
	case 0:
		return c.B
	case 1:
		return c.C
	case 2:
		return c.D
	case 3:
		return c.E
	case 4:
		return c.H
	case 5:
		return c.L
	case 6:
		return b.ReadByte(c.HL())
	case 7:
		return c.A
	}
	panic("z80: reg8 index out of range")
}

func (c *CPU) setReg8(b bus.MemBus16, idx byte, v byte) {
	switch idx {
	case 0:
		c.B = v
	case 1:
		c.C = v
	case 2:
		c.D = v
	case 3:
		c.E = v
	case 4:
		c.H = v
	case 5:
		c.L = v
	case 6:
		b.WriteByte(c.HL(), v)
	case 7:
		c.A = v
	}
}

// reg16 "pp" indices: 0=BC 1=DE 2=HL 3=SP, used by the LD dd,nn, INC ss,
// DEC ss and ADD HL,ss groups.
func (c *CPU) getReg16(idx byte) uint16 {
	switch idx {
	case 0:
		return c.BC()
	case 1:
		return c.DE()
	case 2:
		return c.HL()
	case 3:
		return c.SP
	}
	panic("z80: reg16 index out of range")
}

func (c *CPU) setReg16(idx byte, v uint16) {
	switch idx {
	case 0:
		c.SetBC(v)
	case 1:
		c.SetDE(v)
	case 2:
		c.SetHL(v)
	case 3:
		c.SP = v
	}
}

// reg16 "qq" indices for PUSH/POP: 0=BC 1=DE 2=HL 3=AF.
func (c *CPU) getReg16Push(idx byte) uint16 {
	if idx == 3 {
		return c.AF()
	}
	return c.getReg16(idx)
}

func (c *CPU) setReg16Push(idx byte, v uint16) {
	if idx == 3 {
		c.SetAF(v)
		return
	}
	c.setReg16(idx, v)
}

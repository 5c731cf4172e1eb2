package alu65

import "testing"

import "github.com/stretchr/testify/assert"

func TestADCBinaryCarry(t *testing.T) {
	r := ADC(0xFF, 0x01, false, false, true)
	assert.Equal(t, uint16(0x00), r.Value)
	assert.Equal(t, FlagC|FlagZ, r.Affection.Set)
}

func TestADCOverflow(t *testing.T) {
	r := ADC(0x7F, 0x01, false, false, true)
	assert.Equal(t, uint16(0x80), r.Value)
	assert.Equal(t, FlagV|FlagN, r.Affection.Set)
	assert.Equal(t, FlagC|FlagZ, r.Affection.Reset)
}

func TestADCDecimalCarry(t *testing.T) {
	// 99 + 1 in BCD wraps to 00 with carry set.
	r := ADC(0x99, 0x01, false, true, true)
	assert.Equal(t, uint16(0x00), r.Value)
	assert.True(t, r.Affection.Set&FlagC != 0)
	assert.True(t, r.Affection.Set&FlagZ != 0)
}

func TestADCDecimalRipple(t *testing.T) {
	// 58 + 46 = 104 in BCD.
	r := ADC(0x58, 0x46, false, true, true)
	assert.Equal(t, uint16(0x04), r.Value)
	assert.True(t, r.Affection.Set&FlagC != 0)
}

func TestADCWidth16(t *testing.T) {
	r := ADC(0xFFFF, 0x0001, false, false, false)
	assert.Equal(t, uint16(0x0000), r.Value)
	assert.True(t, r.Affection.Set&FlagC != 0)
}

func TestSBCBinaryNoBorrow(t *testing.T) {
	r := SBC(0x05, 0x01, true, false, true)
	assert.Equal(t, uint16(0x04), r.Value)
	assert.True(t, r.Affection.Set&FlagC != 0)
}

func TestSBCBinaryBorrow(t *testing.T) {
	r := SBC(0x00, 0x01, true, false, true)
	assert.Equal(t, uint16(0xFF), r.Value)
	assert.True(t, r.Affection.Reset&FlagC != 0)
	assert.True(t, r.Affection.Set&FlagN != 0)
}

func TestSBCDecimal(t *testing.T) {
	// 10 - 01 = 09 in BCD, carry set (no borrow).
	r := SBC(0x10, 0x01, true, true, true)
	assert.Equal(t, uint16(0x09), r.Value)
	assert.True(t, r.Affection.Set&FlagC != 0)
}

func TestCompare(t *testing.T) {
	aff := Compare(0x40, 0x40, true)
	assert.Equal(t, FlagZ|FlagC, aff.Set)
}

func TestCompareLess(t *testing.T) {
	aff := Compare(0x10, 0x20, true)
	assert.True(t, aff.Reset&FlagC != 0)
}

func TestIncWrap(t *testing.T) {
	r := Inc(0xFF, true)
	assert.Equal(t, uint16(0x00), r.Value)
	assert.True(t, r.Affection.Set&FlagZ != 0)
}

func TestDecWrap(t *testing.T) {
	r := Dec(0x00, true)
	assert.Equal(t, uint16(0xFF), r.Value)
	assert.True(t, r.Affection.Set&FlagN != 0)
}

func TestShiftLeft(t *testing.T) {
	r := ShiftLeft(0x80, true)
	assert.Equal(t, uint16(0x00), r.Value)
	assert.True(t, r.Affection.Set&FlagC != 0)
	assert.True(t, r.Affection.Set&FlagZ != 0)
}

func TestShiftRight(t *testing.T) {
	r := ShiftRight(0x01, true)
	assert.Equal(t, uint16(0x00), r.Value)
	assert.True(t, r.Affection.Set&FlagC != 0)
}

func TestRotateLeftCarryIn(t *testing.T) {
	r := RotateLeft(0x80, true, true)
	assert.Equal(t, uint16(0x01), r.Value)
	assert.True(t, r.Affection.Set&FlagC != 0)
}

func TestRotateRightCarryIn(t *testing.T) {
	r := RotateRight(0x01, true, true)
	assert.Equal(t, uint16(0x80), r.Value)
	assert.True(t, r.Affection.Set&FlagC != 0)
	assert.True(t, r.Affection.Set&FlagN != 0)
}

func TestBitTest(t *testing.T) {
	aff := BitTest(0x0F, 0xC0, true, false)
	assert.True(t, aff.Set&FlagZ != 0)
	assert.True(t, aff.Set&FlagN != 0)
	assert.True(t, aff.Set&FlagV != 0)
}

func TestBitTestImmediateOnlyZ(t *testing.T) {
	aff := BitTest(0x0F, 0xC0, true, true)
	assert.Equal(t, FlagZ, aff.Set)
	assert.Equal(t, byte(0), aff.Reset)
}
